package admin

import (
	"github.com/gin-gonic/gin"

	handlershared "github.com/partnerdesk/partnerdesk/internal/http/handlers/shared"
)

func getAdminID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, "admin_id", "error.admin_id_invalid", "error.admin_id_type_invalid")
}
