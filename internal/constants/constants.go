package constants

// Deal pipeline stage constants
const (
	DealStageQuoteRequestReceived = "quote_request_received"
	DealStageQuoteSent            = "quote_sent"
	DealStageQuoteApproved        = "quote_approved"
	DealStageAgreementSent        = "agreement_sent"
	DealStageSignedAwaitingDocs   = "signed_awaiting_docs"
	DealStageApproved             = "approved"
	DealStageLiveConfirmLTR       = "live_confirm_ltr"
	DealStageInvoiceReceived      = "invoice_received"
	DealStageCompleted            = "completed"
	DealStageDeclined             = "declined"
)

// DealStages lists every valid pipeline stage in pipeline order.
var DealStages = []string{
	DealStageQuoteRequestReceived,
	DealStageQuoteSent,
	DealStageQuoteApproved,
	DealStageAgreementSent,
	DealStageSignedAwaitingDocs,
	DealStageApproved,
	DealStageLiveConfirmLTR,
	DealStageInvoiceReceived,
	DealStageCompleted,
	DealStageDeclined,
}

// Customer journey status constants (legacy mirror of the deal stage)
const (
	JourneyStatusReviewQuote    = "review_quote"
	JourneyStatusQuoteSent      = "quote_sent"
	JourneyStatusAwaitingSignup = "awaiting_signup"
	JourneyStatusAgreementSent  = "agreement_sent"
	JourneyStatusAwaitingDocs   = "awaiting_docs"
	JourneyStatusApproved       = "approved"
	JourneyStatusLive           = "live"
	JourneyStatusComplete       = "complete"
	JourneyStatusDeclined       = "declined"
)

// CommissionEligibleDealStages lists the stages that permit commission creation.
var CommissionEligibleDealStages = []string{
	DealStageLiveConfirmLTR,
	DealStageInvoiceReceived,
	DealStageCompleted,
}

// Commission payment approval status constants
const (
	ApprovalStatusPending       = "pending"
	ApprovalStatusNeedsApproval = "needs_approval"
	ApprovalStatusApproved      = "approved"
	ApprovalStatusQueried       = "queried"
)

// Commission payment status constants
const (
	PaymentStatusPending       = "pending"
	PaymentStatusNeedsApproval = "needs_approval"
	PaymentStatusApproved      = "approved"
	PaymentStatusPaid          = "paid"
	PaymentStatusFailed        = "failed"
)

// Payment split status constants
const (
	SplitStatusPending  = "pending"
	SplitStatusApproved = "approved"
	SplitStatusPaid     = "paid"
)

// Commission split levels and percentages
const (
	SplitLevelDirect   = 0
	SplitLevelUplineL1 = 1
	SplitLevelUplineL2 = 2

	SplitPercentDirect   = 60
	SplitPercentUplineL1 = 20
	SplitPercentUplineL2 = 10

	// MaxUplineLevels bounds the ancestor walk above the direct referrer.
	MaxUplineLevels = 2
)

// Partner (user) status constants
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// Deal message author type constants
const (
	DealMessageAuthorSystem  = "system"
	DealMessageAuthorAdmin   = "admin"
	DealMessageAuthorPartner = "partner"
)

// Queue constants
const (
	QueueDefault            = "default"
	TaskDealStageEmail      = "deal:stage_email"
	TaskCommissionPaidEmail = "commission:paid_email"
	TaskPartnerTreeRebuild  = "partner:hierarchy_rebuild"
)

// Cache default configuration constants
const (
	RedisPrefixDefault = "pd"
)

// Currency constants
const (
	SiteCurrencyDefault = "GBP"
)

// Site locale constants
const (
	LocaleEnGB = "en-GB"
)

// SupportedLocales lists supported site locales in fallback order.
var SupportedLocales = []string{LocaleEnGB}

// IsValidDealStage reports whether the value is a known pipeline stage.
func IsValidDealStage(stage string) bool {
	for _, item := range DealStages {
		if item == stage {
			return true
		}
	}
	return false
}

// IsCommissionEligibleStage reports whether a deal at the stage may have a
// commission created for it.
func IsCommissionEligibleStage(stage string) bool {
	for _, item := range CommissionEligibleDealStages {
		if item == stage {
			return true
		}
	}
	return false
}

// IsTerminalPaymentStatus reports whether the payment status is final.
func IsTerminalPaymentStatus(status string) bool {
	return status == PaymentStatusPaid || status == PaymentStatusFailed
}
