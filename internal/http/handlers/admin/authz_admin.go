package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/partnerdesk/partnerdesk/internal/http/response"
)

// GetAuthzMe returns the caller's roles and effective policies.
func (h *Handler) GetAuthzMe(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	if h.AuthzService == nil {
		respondError(c, response.CodeInternal, "error.internal", nil)
		return
	}

	roles, err := h.AuthzService.GetAdminRoles(adminID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	policies, err := h.AuthzService.GetAdminPolicies(adminID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	admin, err := h.AdminRepo.GetByID(adminID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	isSuper := admin != nil && admin.IsSuper
	response.Success(c, gin.H{
		"roles":    roles,
		"policies": policies,
		"is_super": isSuper,
	})
}

// ListAuthzRoles lists role names.
func (h *Handler) ListAuthzRoles(c *gin.Context) {
	if h.AuthzService == nil {
		respondError(c, response.CodeInternal, "error.internal", nil)
		return
	}
	roles, err := h.AuthzService.ListRoles()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, roles)
}

type AuthzRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// CreateAuthzRole registers an empty role.
func (h *Handler) CreateAuthzRole(c *gin.Context) {
	if h.AuthzService == nil {
		respondError(c, response.CodeInternal, "error.internal", nil)
		return
	}
	var req AuthzRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	role, err := h.AuthzService.EnsureRole(req.Role)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	response.Success(c, gin.H{"role": role})
}

// DeleteAuthzRole removes a role and all its grants.
func (h *Handler) DeleteAuthzRole(c *gin.Context) {
	if h.AuthzService == nil {
		respondError(c, response.CodeInternal, "error.internal", nil)
		return
	}
	if err := h.AuthzService.DeleteRole(c.Param("role")); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	response.Success(c, nil)
}

// GetAuthzRolePolicies lists the policies granted to a role.
func (h *Handler) GetAuthzRolePolicies(c *gin.Context) {
	if h.AuthzService == nil {
		respondError(c, response.CodeInternal, "error.internal", nil)
		return
	}
	policies, err := h.AuthzService.GetRolePolicies(c.Param("role"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	response.Success(c, policies)
}

type AuthzPolicyRequest struct {
	Role   string `json:"role" binding:"required"`
	Object string `json:"object" binding:"required"`
	Action string `json:"action" binding:"required"`
}

// GrantAuthzPolicy grants one object/action pair to a role.
func (h *Handler) GrantAuthzPolicy(c *gin.Context) {
	if h.AuthzService == nil {
		respondError(c, response.CodeInternal, "error.internal", nil)
		return
	}
	var req AuthzPolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.AuthzService.GrantRolePolicy(req.Role, req.Object, req.Action); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	response.Success(c, nil)
}

// RevokeAuthzPolicy revokes one object/action pair from a role.
func (h *Handler) RevokeAuthzPolicy(c *gin.Context) {
	if h.AuthzService == nil {
		respondError(c, response.CodeInternal, "error.internal", nil)
		return
	}
	var req AuthzPolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.AuthzService.RevokeRolePolicy(req.Role, req.Object, req.Action); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	response.Success(c, nil)
}

// GetAuthzAdminRoles lists the roles held by an administrator.
func (h *Handler) GetAuthzAdminRoles(c *gin.Context) {
	if h.AuthzService == nil {
		respondError(c, response.CodeInternal, "error.internal", nil)
		return
	}
	id, ok := parseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	roles, err := h.AuthzService.GetAdminRoles(id)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, roles)
}

type SetAdminRolesRequest struct {
	Roles []string `json:"roles"`
}

// SetAuthzAdminRoles replaces an administrator's role set.
func (h *Handler) SetAuthzAdminRoles(c *gin.Context) {
	if h.AuthzService == nil {
		respondError(c, response.CodeInternal, "error.internal", nil)
		return
	}
	id, ok := parseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	var req SetAdminRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := h.AuthzService.SetAdminRoles(id, req.Roles); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	response.Success(c, nil)
}
