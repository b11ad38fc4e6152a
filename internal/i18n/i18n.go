package i18n

import (
	"strings"

	"github.com/partnerdesk/partnerdesk/internal/constants"

	"github.com/gin-gonic/gin"
)

// messages holds the per-locale message catalogue. The platform currently
// ships en-GB only; the lookup contract stays locale-keyed so further
// locales can be added without touching callers.
var messages = map[string]map[string]string{
	constants.LocaleEnGB: {
		"error.bad_request":              "Invalid request",
		"error.unauthorized":             "Unauthorised",
		"error.forbidden":                "You do not have permission to perform this action",
		"error.not_found":                "Record not found",
		"error.internal":                 "Something went wrong, please try again",
		"error.login_too_many":           "Too many login attempts, please try again later",
		"error.rate_limit_unavailable":   "Service temporarily unavailable, please try again",
		"error.invalid_credentials":      "Incorrect email or password",
		"error.invalid_password":         "Current password is incorrect",
		"error.password_policy":          "Password does not meet the required policy",
		"error.password_min_length":      "Password is too short",
		"error.password_require_upper":   "Password must contain an uppercase letter",
		"error.password_require_lower":   "Password must contain a lowercase letter",
		"error.password_require_number":  "Password must contain a number",
		"error.password_require_special": "Password must contain a symbol",
		"error.account_disabled":         "This account has been disabled",
		"error.email_taken":              "An account already exists for this email address",
		"error.referral_code_invalid":    "Referral code not recognised",
		"error.admin_id_invalid":         "Administrator identity invalid",
		"error.admin_id_type_invalid":    "Administrator identity malformed",
		"error.user_id_invalid":          "Partner identity invalid",
		"error.user_id_type_invalid":     "Partner identity malformed",
		"error.status_invalid":           "Unknown status value",
		"error.message_empty":            "Message body cannot be empty",
		"error.email_invalid":            "Email address is not valid",
		"error.auth_header_missing":      "Authorisation header missing",
		"error.auth_header_invalid":      "Authorisation header invalid",
		"error.token_invalid":            "Session invalid, please sign in again",
		"error.token_revoked":            "Session expired, please sign in again",
		"error.jwt_secret_missing":       "Authentication unavailable",
		"error.deal_stage_invalid":       "Unknown deal stage",
		"error.deal_not_eligible":        "Deal is not at a stage that allows commission creation",
		"error.duplicate_commission":     "An active commission already exists for this deal",
		"error.invalid_amount":           "Commission amount must be greater than zero",
		"error.no_beneficiary":           "Deal has no resolvable referrer to pay",
		"error.payment_not_approved":     "Commission payment has not been approved",
		"error.payment_status_invalid":   "Commission payment is not in a state that allows this action",
		"error.parent_same_as_referrer":  "Upline referrer must differ from the deal referrer",
		"error.hierarchy_cycle":          "Requested parent would create a referral loop",
		"error.settings_fetch_failed":    "Could not load settings",
		"msg.deal_submitted":             "Deal submitted",
		"msg.commission_created":         "Commission created",
		"msg.commission_approved":        "Commission approved",
		"msg.commission_paid":            "Commission paid",
	},
}

// ResolveLocale picks the response locale for a request.
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return constants.LocaleEnGB
	}
	header := strings.TrimSpace(c.GetHeader("Accept-Language"))
	if header == "" {
		return constants.LocaleEnGB
	}
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		for _, locale := range constants.SupportedLocales {
			if strings.EqualFold(tag, locale) {
				return locale
			}
		}
	}
	return constants.LocaleEnGB
}

// T resolves a message key for the locale, falling back to the default
// locale and finally to the key itself.
func T(locale, key string) string {
	if catalogue, ok := messages[locale]; ok {
		if msg, ok := catalogue[key]; ok {
			return msg
		}
	}
	if locale != constants.LocaleEnGB {
		if msg, ok := messages[constants.LocaleEnGB][key]; ok {
			return msg
		}
	}
	return key
}
