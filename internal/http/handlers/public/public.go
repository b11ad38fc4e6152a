package public

import (
	"github.com/gin-gonic/gin"

	"github.com/partnerdesk/partnerdesk/internal/http/response"
)

// GetConfig returns site configuration the partner portal needs before
// a session exists.
func (h *Handler) GetConfig(c *gin.Context) {
	site := h.Config.Site
	response.Success(c, gin.H{
		"base_url": site.BaseURL,
		"currency": site.Currency,
	})
}
