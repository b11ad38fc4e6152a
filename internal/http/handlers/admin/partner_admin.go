package admin

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/partnerdesk/partnerdesk/internal/http/response"
	"github.com/partnerdesk/partnerdesk/internal/repository"
	"github.com/partnerdesk/partnerdesk/internal/service"
)

// ListPartners returns partner accounts with optional filters.
func (h *Handler) ListPartners(c *gin.Context) {
	page, pageSize := parsePagination(c)

	filter := repository.UserListFilter{
		Page:     page,
		PageSize: pageSize,
		Keyword:  c.Query("keyword"),
		Status:   c.Query("status"),
	}
	if raw := c.Query("parent_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil && id > 0 {
			parentID := uint(id)
			filter.ParentPartnerID = &parentID
		}
	}

	partners, total, err := h.PartnerService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.SuccessWithPage(c, partners, response.NewPagination(page, pageSize, total))
}

// GetPartner returns one partner account.
func (h *Handler) GetPartner(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	partner, err := h.PartnerService.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "error.not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, partner)
}

type PartnerStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetPartnerStatus enables or disables a partner account.
func (h *Handler) SetPartnerStatus(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	var req PartnerStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	partner, err := h.PartnerService.SetStatus(id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "error.not_found", nil)
		case errors.Is(err, service.ErrStatusInvalid):
			respondError(c, response.CodeBadRequest, "error.status_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	response.Success(c, partner)
}

type ReparentRequest struct {
	ParentID *uint `json:"parent_id"`
}

// ReparentPartner moves a partner under a new upline referrer. A null
// parent detaches the partner to the top level.
func (h *Handler) ReparentPartner(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	var req ReparentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	partner, err := h.PartnerService.Reparent(id, req.ParentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "error.not_found", nil)
		case errors.Is(err, service.ErrParentSameAsReferrer):
			respondError(c, response.CodeBadRequest, "error.parent_same_as_referrer", nil)
		case errors.Is(err, service.ErrHierarchyCycle):
			respondError(c, response.CodeBadRequest, "error.hierarchy_cycle", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	response.Success(c, partner)
}

// PartnerTeam lists the direct children of a partner.
func (h *Handler) PartnerTeam(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	page, pageSize := parsePagination(c)

	team, total, err := h.PartnerService.Team(id, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.SuccessWithPage(c, team, response.NewPagination(page, pageSize, total))
}
