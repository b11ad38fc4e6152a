package admin

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/partnerdesk/partnerdesk/internal/http/response"
	"github.com/partnerdesk/partnerdesk/internal/models"
	"github.com/partnerdesk/partnerdesk/internal/service"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string                 `json:"token"`
	User      map[string]interface{} `json:"user"`
	ExpiresAt time.Time              `json:"expires_at"`
}

// Login authenticates an administrator and issues a JWT.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	admin, token, expiresAt, err := h.AuthService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, response.CodeUnauthorized, "error.invalid_credentials", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, LoginResponse{
		Token: token,
		User: map[string]interface{}{
			"id":       admin.ID,
			"username": admin.Username,
			"is_super": admin.IsSuper,
		},
		ExpiresAt: expiresAt,
	})
}

// Profile returns the authenticated administrator.
func (h *Handler) Profile(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	admin, err := h.AdminRepo.GetByID(adminID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	if admin == nil {
		respondError(c, response.CodeNotFound, "error.not_found", nil)
		return
	}

	response.Success(c, gin.H{
		"id":            admin.ID,
		"username":      admin.Username,
		"is_super":      admin.IsSuper,
		"last_login_at": admin.LastLoginAt,
		"created_at":    admin.CreatedAt,
	})
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ChangePassword rotates the administrator password and revokes old tokens.
func (h *Handler) ChangePassword(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.AuthService.ChangePassword(adminID, req.OldPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPassword):
			respondError(c, response.CodeBadRequest, "error.invalid_password", nil)
		case errors.Is(err, service.ErrPasswordPolicy):
			key, found := service.PasswordPolicyKey(err)
			if !found {
				key = "error.password_policy"
			}
			respondError(c, response.CodeBadRequest, key, nil)
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "error.not_found", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	response.Success(c, nil)
}

// ListAdmins lists administrator accounts. Restricted to super admins.
func (h *Handler) ListAdmins(c *gin.Context) {
	if !h.requireSuper(c) {
		return
	}

	admins, err := h.AdminRepo.List()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, admins)
}

type CreateAdminRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	IsSuper  bool   `json:"is_super"`
}

// CreateAdmin provisions a new administrator account. Restricted to super admins.
func (h *Handler) CreateAdmin(c *gin.Context) {
	if !h.requireSuper(c) {
		return
	}

	var req CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.AuthService.ValidatePassword(req.Password); err != nil {
		key, found := service.PasswordPolicyKey(err)
		if !found {
			key = "error.password_policy"
		}
		respondError(c, response.CodeBadRequest, key, nil)
		return
	}

	existing, err := h.AdminRepo.GetByUsername(req.Username)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	if existing != nil {
		respondError(c, response.CodeConflict, "error.bad_request", nil)
		return
	}

	hash, err := h.AuthService.HashPassword(req.Password)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	admin := &models.Admin{
		Username:     req.Username,
		PasswordHash: hash,
		IsSuper:      req.IsSuper,
	}
	if err := h.AdminRepo.Create(admin); err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, gin.H{"id": admin.ID, "username": admin.Username, "is_super": admin.IsSuper})
}

// DeleteAdmin removes an administrator account. Restricted to super admins.
func (h *Handler) DeleteAdmin(c *gin.Context) {
	if !h.requireSuper(c) {
		return
	}

	id, ok := parseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	if id == adminID {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	if err := h.AdminRepo.Delete(id); err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, nil)
}

func (h *Handler) requireSuper(c *gin.Context) bool {
	adminID, ok := getAdminID(c)
	if !ok {
		return false
	}

	admin, err := h.AdminRepo.GetByID(adminID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return false
	}
	if admin == nil || !admin.IsSuper {
		respondError(c, response.CodeForbidden, "error.forbidden", nil)
		return false
	}
	return true
}
