package admin

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/partnerdesk/partnerdesk/internal/http/response"
	"github.com/partnerdesk/partnerdesk/internal/repository"
	"github.com/partnerdesk/partnerdesk/internal/service"
)

// ListDeals returns the deal pipeline with optional filters.
func (h *Handler) ListDeals(c *gin.Context) {
	page, pageSize := parsePagination(c)

	filter := repository.DealListFilter{
		Page:         page,
		PageSize:     pageSize,
		DealNo:       c.Query("deal_no"),
		DealStage:    c.Query("deal_stage"),
		Keyword:      c.Query("keyword"),
		WithReferrer: true,
	}
	if raw := c.Query("referrer_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil && id > 0 {
			filter.ReferrerID = uint(id)
		}
	}

	deals, total, err := h.DealService.ListDeals(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.SuccessWithPage(c, deals, response.NewPagination(page, pageSize, total))
}

// GetDeal returns one deal with its referrer.
func (h *Handler) GetDeal(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	deal, err := h.DealService.GetDeal(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "error.not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, deal)
}

type UpdateStageRequest struct {
	Stage string `json:"stage" binding:"required"`
	Note  string `json:"note"`
}

// UpdateDealStage moves a deal to a new pipeline stage.
func (h *Handler) UpdateDealStage(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	var req UpdateStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	deal, err := h.DealService.UpdateStage(service.DealStageUpdateInput{
		DealID:  id,
		Stage:   req.Stage,
		AdminID: adminID,
		Note:    req.Note,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "error.not_found", nil)
		case errors.Is(err, service.ErrDealStageInvalid):
			respondError(c, response.CodeBadRequest, "error.deal_stage_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	response.Success(c, deal)
}

// ListDealMessages returns the activity thread of a deal.
func (h *Handler) ListDealMessages(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	page, pageSize := parsePagination(c)

	messages, total, err := h.DealService.ListMessages(id, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.SuccessWithPage(c, messages, response.NewPagination(page, pageSize, total))
}

type PostMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

// PostDealMessage appends an admin reply to a deal thread.
func (h *Handler) PostDealMessage(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	message, err := h.DealService.PostAdminMessage(id, adminID, req.Body)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "error.not_found", nil)
		case errors.Is(err, service.ErrMessageEmpty):
			respondError(c, response.CodeBadRequest, "error.message_empty", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}

	response.Success(c, message)
}
