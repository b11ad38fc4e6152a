package service

import "github.com/partnerdesk/partnerdesk/internal/constants"

// JourneyForStage maps an internal deal stage onto the customer-facing
// journey label. Unknown or unmapped stages fall back to the earliest
// label so a bad stage value never breaks the partner view.
func JourneyForStage(stage string) string {
	switch stage {
	case constants.DealStageQuoteRequestReceived:
		return constants.JourneyStatusReviewQuote
	case constants.DealStageQuoteSent:
		return constants.JourneyStatusQuoteSent
	case constants.DealStageQuoteApproved:
		return constants.JourneyStatusAwaitingSignup
	case constants.DealStageAgreementSent:
		return constants.JourneyStatusAgreementSent
	case constants.DealStageSignedAwaitingDocs:
		return constants.JourneyStatusAwaitingDocs
	case constants.DealStageApproved:
		return constants.JourneyStatusApproved
	case constants.DealStageLiveConfirmLTR, constants.DealStageInvoiceReceived:
		return constants.JourneyStatusLive
	case constants.DealStageDeclined:
		return constants.JourneyStatusDeclined
	default:
		return constants.JourneyStatusReviewQuote
	}
}
