package public

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	handlershared "github.com/partnerdesk/partnerdesk/internal/http/handlers/shared"
	"github.com/partnerdesk/partnerdesk/internal/http/response"
	"github.com/partnerdesk/partnerdesk/internal/service"
)

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return handlershared.NormalizePagination(page, pageSize)
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// mappedHandlerError maps one business sentinel onto a response code
// and localisation key.
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

var partnerAuthErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, key: "error.email_invalid"},
	{target: service.ErrEmailTaken, code: response.CodeConflict, key: "error.email_taken"},
	{target: service.ErrReferralCodeInvalid, code: response.CodeBadRequest, key: "error.referral_code_invalid"},
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized, key: "error.invalid_credentials"},
	{target: service.ErrUserDisabled, code: response.CodeForbidden, key: "error.account_disabled"},
	{target: service.ErrInvalidPassword, code: response.CodeBadRequest, key: "error.invalid_password"},
	{target: service.ErrNotFound, code: response.CodeNotFound, key: "error.not_found"},
}

func respondPartnerAuthError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrPasswordPolicy) {
		key, found := service.PasswordPolicyKey(err)
		if !found {
			key = "error.password_policy"
		}
		respondError(c, response.CodeBadRequest, key, nil)
		return
	}
	respondWithMappedError(c, err, partnerAuthErrorRules, response.CodeInternal, "error.internal")
}

var partnerDealErrorRules = []mappedHandlerError{
	{target: service.ErrNotFound, code: response.CodeNotFound, key: "error.not_found"},
	{target: service.ErrUserDisabled, code: response.CodeForbidden, key: "error.account_disabled"},
	{target: service.ErrMessageEmpty, code: response.CodeBadRequest, key: "error.message_empty"},
	{target: service.ErrDealStageInvalid, code: response.CodeBadRequest, key: "error.deal_stage_invalid"},
}

func respondPartnerDealError(c *gin.Context, err error) {
	respondWithMappedError(c, err, partnerDealErrorRules, response.CodeInternal, "error.internal")
}
