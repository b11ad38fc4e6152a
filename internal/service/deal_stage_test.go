package service

import (
	"testing"

	"github.com/partnerdesk/partnerdesk/internal/constants"
)

func TestJourneyForStageMapping(t *testing.T) {
	cases := []struct {
		stage string
		want  string
	}{
		{constants.DealStageQuoteRequestReceived, constants.JourneyStatusReviewQuote},
		{constants.DealStageQuoteSent, constants.JourneyStatusQuoteSent},
		{constants.DealStageQuoteApproved, constants.JourneyStatusAwaitingSignup},
		{constants.DealStageAgreementSent, constants.JourneyStatusAgreementSent},
		{constants.DealStageSignedAwaitingDocs, constants.JourneyStatusAwaitingDocs},
		{constants.DealStageApproved, constants.JourneyStatusApproved},
		{constants.DealStageLiveConfirmLTR, constants.JourneyStatusLive},
		{constants.DealStageInvoiceReceived, constants.JourneyStatusLive},
		{constants.DealStageDeclined, constants.JourneyStatusDeclined},
	}
	for _, tc := range cases {
		if got := JourneyForStage(tc.stage); got != tc.want {
			t.Fatalf("stage %q: expected %q, got %q", tc.stage, tc.want, got)
		}
	}
}

func TestJourneyForStageFallsBackToReviewQuote(t *testing.T) {
	// completed has no journey label of its own.
	if got := JourneyForStage(constants.DealStageCompleted); got != constants.JourneyStatusReviewQuote {
		t.Fatalf("expected completed to map to review_quote, got %q", got)
	}
	if got := JourneyForStage("no-such-stage"); got != constants.JourneyStatusReviewQuote {
		t.Fatalf("expected unknown stage to map to review_quote, got %q", got)
	}
	if got := JourneyForStage(""); got != constants.JourneyStatusReviewQuote {
		t.Fatalf("expected empty stage to map to review_quote, got %q", got)
	}
}
