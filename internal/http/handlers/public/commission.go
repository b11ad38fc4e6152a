package public

import (
	"github.com/gin-gonic/gin"

	"github.com/partnerdesk/partnerdesk/internal/http/response"
)

// ListMyCommissions returns the partner's commission split history.
func (h *Handler) ListMyCommissions(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := parsePagination(c)

	splits, total, err := h.CommissionService.ListPartnerSplits(userID, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.SuccessWithPage(c, splits, response.NewPagination(page, pageSize, total))
}

// MyCommissionSummary totals the partner's earnings by state.
func (h *Handler) MyCommissionSummary(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	summary, err := h.CommissionService.SummaryForPartner(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, summary)
}
