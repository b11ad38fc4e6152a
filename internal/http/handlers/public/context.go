package public

import (
	"github.com/gin-gonic/gin"

	handlershared "github.com/partnerdesk/partnerdesk/internal/http/handlers/shared"
)

func getUserID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, "user_id", "error.user_id_invalid", "error.user_id_type_invalid")
}
