package public

import (
	"github.com/gin-gonic/gin"

	"github.com/partnerdesk/partnerdesk/internal/http/response"
	"github.com/partnerdesk/partnerdesk/internal/repository"
)

// Dashboard builds the partner home screen: pipeline counters plus
// earnings totals.
func (h *Handler) Dashboard(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	pipeline, err := h.DealService.DashboardForPartner(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	earnings, err := h.CommissionService.SummaryForPartner(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, gin.H{
		"pipeline": pipeline,
		"earnings": earnings,
	})
}

// MyTeam lists the partners introduced directly by the caller.
func (h *Handler) MyTeam(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := parsePagination(c)

	team, total, err := h.PartnerService.List(repository.UserListFilter{
		Page:            page,
		PageSize:        pageSize,
		ParentPartnerID: &userID,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.SuccessWithPage(c, team, response.NewPagination(page, pageSize, total))
}
