package public

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/partnerdesk/partnerdesk/internal/http/response"
	"github.com/partnerdesk/partnerdesk/internal/repository"
	"github.com/partnerdesk/partnerdesk/internal/service"
)

type DealSubmitRequest struct {
	BusinessName        string          `json:"business_name" binding:"required"`
	BusinessType        string          `json:"business_type"`
	ContactName         string          `json:"contact_name" binding:"required"`
	ContactEmail        string          `json:"contact_email"`
	ContactPhone        string          `json:"contact_phone"`
	Postcode            string          `json:"postcode"`
	EstimatedCommission decimal.Decimal `json:"estimated_commission"`
}

// SubmitDeal records a new referral at the start of the pipeline.
func (h *Handler) SubmitDeal(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var req DealSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	deal, err := h.DealService.SubmitDeal(service.DealSubmitInput{
		ReferrerID:          userID,
		BusinessName:        req.BusinessName,
		BusinessType:        req.BusinessType,
		ContactName:         req.ContactName,
		ContactEmail:        req.ContactEmail,
		ContactPhone:        req.ContactPhone,
		Postcode:            req.Postcode,
		EstimatedCommission: req.EstimatedCommission,
	})
	if err != nil {
		respondPartnerDealError(c, err)
		return
	}

	response.Success(c, deal)
}

// ListMyDeals returns the partner's own deal pipeline.
func (h *Handler) ListMyDeals(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := parsePagination(c)

	filter := repository.DealListFilter{
		Page:       page,
		PageSize:   pageSize,
		ReferrerID: userID,
		DealStage:  c.Query("deal_stage"),
		Keyword:    c.Query("keyword"),
	}

	deals, total, err := h.DealService.ListDeals(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.SuccessWithPage(c, deals, response.NewPagination(page, pageSize, total))
}

// GetMyDeal returns one of the partner's deals.
func (h *Handler) GetMyDeal(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	deal, err := h.DealService.GetDealForPartner(id, userID)
	if err != nil {
		respondPartnerDealError(c, err)
		return
	}

	response.Success(c, deal)
}

// ListMyDealMessages returns the activity thread of one of the
// partner's deals.
func (h *Handler) ListMyDealMessages(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if _, err := h.DealService.GetDealForPartner(id, userID); err != nil {
		respondPartnerDealError(c, err)
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

type DealMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

// PostMyDealMessage appends a partner reply to a deal thread.
func (h *Handler) PostMyDealMessage(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	var req DealMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	message, err := h.DealService.PostPartnerMessage(id, userID, req.Body)
	if err != nil {
		respondPartnerDealError(c, err)
		return
	}

	response.Success(c, message)
}
