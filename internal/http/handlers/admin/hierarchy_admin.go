package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/partnerdesk/partnerdesk/internal/http/response"
	"github.com/partnerdesk/partnerdesk/internal/queue"
)

// RebuildHierarchy rebuilds the flattened referral closure table. When
// the queue is enabled the rebuild runs on a worker, otherwise inline.
func (h *Handler) RebuildHierarchy(c *gin.Context) {
	if h.QueueClient != nil && h.QueueClient.Enabled() {
		if err := h.QueueClient.EnqueuePartnerTreeRebuild(queue.PartnerTreeRebuildPayload{}); err != nil {
			requestLog(c).Errorw("hierarchy_rebuild_enqueue_failed", "error", err)
			respondError(c, response.CodeInternal, "error.internal", err)
			return
		}
		response.Success(c, gin.H{"queued": true})
		return
	}

	rows, err := h.HierarchyService.RebuildAll()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.Success(c, gin.H{"queued": false, "rows": rows})
}
