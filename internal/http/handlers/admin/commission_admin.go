package admin

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/partnerdesk/partnerdesk/internal/http/response"
	"github.com/partnerdesk/partnerdesk/internal/repository"
	"github.com/partnerdesk/partnerdesk/internal/service"
)

type CommissionPreviewRequest struct {
	DealID      uint            `json:"deal_id" binding:"required"`
	GrossAmount decimal.Decimal `json:"gross_amount" binding:"required"`
}

// PreviewCommission computes the split table for a deal without saving.
func (h *Handler) PreviewCommission(c *gin.Context) {
	var req CommissionPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	preview, err := h.CommissionService.Preview(req.DealID, req.GrossAmount)
	if err != nil {
		respondCommissionError(c, err)
		return
	}

	response.Success(c, preview)
}

type CommissionCreateRequest struct {
	GrossAmount decimal.Decimal `json:"gross_amount" binding:"required"`
	Currency    string          `json:"currency"`
	EvidenceURL string          `json:"evidence_url"`
	Notes       string          `json:"notes"`
}

// CreateCommission records a commission payment and its splits for a deal.
func (h *Handler) CreateCommission(c *gin.Context) {
	dealID, ok := parseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	var req CommissionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	payment, err := h.CommissionService.Create(service.CommissionCreateInput{
		DealID:      dealID,
		GrossAmount: req.GrossAmount,
		Currency:    req.Currency,
		EvidenceURL: req.EvidenceURL,
		Notes:       req.Notes,
		AdminID:     adminID,
	})
	if err != nil {
		respondCommissionError(c, err)
		return
	}

	response.Success(c, payment)
}

// CommissionStatusByDeal reports whether a deal already carries a
// commission and whether a new one may be created.
func (h *Handler) CommissionStatusByDeal(c *gin.Context) {
	dealID, ok := parseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	status, err := h.CommissionService.StatusByDeal(dealID)
	if err != nil {
		respondCommissionError(c, err)
		return
	}

	response.Success(c, status)
}

// ListPayments returns commission payments with optional filters.
func (h *Handler) ListPayments(c *gin.Context) {
	page, pageSize := parsePagination(c)

	filter := repository.PaymentListFilter{
		Page:           page,
		PageSize:       pageSize,
		ApprovalStatus: c.Query("approval_status"),
		PaymentStatus:  c.Query("payment_status"),
		WithDeal:       true,
	}
	if raw := c.Query("deal_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil && id > 0 {
			filter.DealID = uint(id)
		}
	}

	payments, total, err := h.CommissionService.ListPayments(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.SuccessWithPage(c, payments, response.NewPagination(page, pageSize, total))
}

// GetPayment returns one commission payment with its splits.
func (h *Handler) GetPayment(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	payment, err := h.CommissionService.GetPayment(id)
	if err != nil {
		respondCommissionError(c, err)
		return
	}

	response.Success(c, payment)
}

// SubmitPayment moves a pending payment into the approval queue.
func (h *Handler) SubmitPayment(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	payment, err := h.CommissionService.SubmitForApproval(id)
	if err != nil {
		respondCommissionError(c, err)
		return
	}

	response.Success(c, payment)
}

// ApprovePayment approves a payment awaiting sign-off.
func (h *Handler) ApprovePayment(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	payment, err := h.CommissionService.Approve(id, adminID)
	if err != nil {
		respondCommissionError(c, err)
		return
	}

	response.Success(c, payment)
}

type QueryPaymentRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// QueryPayment raises a query against a payment awaiting approval.
func (h *Handler) QueryPayment(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	var req QueryPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	payment, err := h.CommissionService.RaiseQuery(id, req.Reason)
	if err != nil {
		respondCommissionError(c, err)
		return
	}

	response.Success(c, payment)
}

type ResolveQueryRequest struct {
	Note string `json:"note"`
}

// ResolvePaymentQuery returns a queried payment to the approval queue.
func (h *Handler) ResolvePaymentQuery(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	var req ResolveQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	payment, err := h.CommissionService.ResolveQuery(id, req.Note)
	if err != nil {
		respondCommissionError(c, err)
		return
	}

	response.Success(c, payment)
}

type ConfirmPaymentRequest struct {
	PaymentReference string `json:"payment_reference"`
	PaymentMethod    string `json:"payment_method"`
	Notes            string `json:"notes"`
}

// ConfirmPayment marks an approved payment as paid.
func (h *Handler) ConfirmPayment(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	var req ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	payment, err := h.CommissionService.ConfirmPayment(service.CommissionConfirmInput{
		PaymentID:        id,
		PaymentReference: req.PaymentReference,
		PaymentMethod:    req.PaymentMethod,
		Notes:            req.Notes,
		AdminID:          adminID,
	})
	if err != nil {
		respondCommissionError(c, err)
		return
	}

	response.Success(c, payment)
}

type FailPaymentRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// FailPayment abandons a payment at any non-terminal state.
func (h *Handler) FailPayment(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	var req FailPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	payment, err := h.CommissionService.Fail(id, req.Reason)
	if err != nil {
		respondCommissionError(c, err)
		return
	}

	response.Success(c, payment)
}

// respondCommissionError maps commission sentinels onto codes and keys.
func respondCommissionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		respondError(c, response.CodeNotFound, "error.not_found", nil)
	case errors.Is(err, service.ErrDealNotEligible):
		respondError(c, response.CodeBadRequest, "error.deal_not_eligible", nil)
	case errors.Is(err, service.ErrDuplicateCommission):
		respondError(c, response.CodeConflict, "error.duplicate_commission", nil)
	case errors.Is(err, service.ErrInvalidAmount):
		respondError(c, response.CodeBadRequest, "error.invalid_amount", nil)
	case errors.Is(err, service.ErrNoBeneficiary):
		respondError(c, response.CodeBadRequest, "error.no_beneficiary", nil)
	case errors.Is(err, service.ErrPaymentNotApproved):
		respondError(c, response.CodeBadRequest, "error.payment_not_approved", nil)
	case errors.Is(err, service.ErrPaymentStatusInvalid):
		respondError(c, response.CodeBadRequest, "error.payment_status_invalid", nil)
	case errors.Is(err, service.ErrHierarchyCycle):
		respondError(c, response.CodeInternal, "error.hierarchy_cycle", err)
	default:
		respondError(c, response.CodeInternal, "error.internal", err)
	}
}
