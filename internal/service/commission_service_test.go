package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/partnerdesk/partnerdesk/internal/constants"
	"github.com/partnerdesk/partnerdesk/internal/models"
	"github.com/partnerdesk/partnerdesk/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func TestCreateCommissionThreeLevelDistribution(t *testing.T) {
	svc, db := setupCommissionServiceTest(t)

	grandparent := createCommissionTestPartner(t, db, "gp@example.com", "GPART001", nil)
	parent := createCommissionTestPartner(t, db, "parent@example.com", "PPART001", &grandparent.ID)
	referrer := createCommissionTestPartner(t, db, "referrer@example.com", "RPART001", &parent.ID)
	deal := createCommissionTestDeal(t, db, referrer.ID, "DL-TEST01", constants.DealStageLiveConfirmLTR)

	payment, err := svc.Create(CommissionCreateInput{
		DealID:      deal.ID,
		GrossAmount: decimal.NewFromInt(1000),
		AdminID:     1,
	})
	if err != nil {
		t.Fatalf("create commission failed: %v", err)
	}
	if len(payment.Splits) != 3 {
		t.Fatalf("expected 3 splits, got %d", len(payment.Splits))
	}

	expected := map[uint]string{
		referrer.ID:    "600",
		parent.ID:      "200",
		grandparent.ID: "100",
	}
	for _, split := range payment.Splits {
		want := expected[split.BeneficiaryID]
		if want == "" {
			t.Fatalf("unexpected beneficiary %d in splits", split.BeneficiaryID)
		}
		if !split.Amount.Equal(decimal.RequireFromString(want)) {
			t.Fatalf("beneficiary %d: expected amount %s, got %s", split.BeneficiaryID, want, split.Amount)
		}
		if split.Status != constants.SplitStatusPending {
			t.Fatalf("expected pending split, got %s", split.Status)
		}
	}
	if !payment.AllocatedAmount.Equal(decimal.RequireFromString("900")) {
		t.Fatalf("expected allocated 900, got %s", payment.AllocatedAmount)
	}
	if payment.ApprovalStatus != constants.ApprovalStatusPending || payment.PaymentStatus != constants.PaymentStatusPending {
		t.Fatalf("expected pending/pending, got %s/%s", payment.ApprovalStatus, payment.PaymentStatus)
	}
}

func TestCreateCommissionShortChainKeepsRemainder(t *testing.T) {
	svc, db := setupCommissionServiceTest(t)

	parent := createCommissionTestPartner(t, db, "solo-parent@example.com", "SPART001", nil)
	referrer := createCommissionTestPartner(t, db, "solo-ref@example.com", "SREF0001", &parent.ID)
	deal := createCommissionTestDeal(t, db, referrer.ID, "DL-TEST02", constants.DealStageInvoiceReceived)

	payment, err := svc.Create(CommissionCreateInput{
		DealID:      deal.ID,
		GrossAmount: decimal.NewFromInt(500),
		AdminID:     1,
	})
	if err != nil {
		t.Fatalf("create commission failed: %v", err)
	}
	if len(payment.Splits) != 2 {
		t.Fatalf("expected 2 splits for a two-member chain, got %d", len(payment.Splits))
	}
	// The missing L2 share stays with the house, it never rolls up.
	if !payment.AllocatedAmount.Equal(decimal.RequireFromString("400")) {
		t.Fatalf("expected allocated 400, got %s", payment.AllocatedAmount)
	}
}

func TestCreateCommissionDirectReferrerOnly(t *testing.T) {
	svc, db := setupCommissionServiceTest(t)

	referrer := createCommissionTestPartner(t, db, "root-ref@example.com", "ROOT0001", nil)
	deal := createCommissionTestDeal(t, db, referrer.ID, "DL-TEST03", constants.DealStageCompleted)

	payment, err := svc.Create(CommissionCreateInput{
		DealID:      deal.ID,
		GrossAmount: decimal.NewFromInt(100),
		AdminID:     1,
	})
	if err != nil {
		t.Fatalf("create commission failed: %v", err)
	}
	if len(payment.Splits) != 1 {
		t.Fatalf("expected a single direct split, got %d", len(payment.Splits))
	}
	if payment.Splits[0].Level != constants.SplitLevelDirect {
		t.Fatalf("expected level 0, got %d", payment.Splits[0].Level)
	}
	if !payment.Splits[0].Amount.Equal(decimal.RequireFromString("60")) {
		t.Fatalf("expected direct amount 60, got %s", payment.Splits[0].Amount)
	}
}

func TestCalculateSplitsRoundsEachLevelIndependently(t *testing.T) {
	svc, _ := setupCommissionServiceTest(t)

	chain := &UplineChain{Beneficiaries: []UplineBeneficiary{
		{UserID: 1, Level: 0},
		{UserID: 2, Level: 1},
		{UserID: 3, Level: 2},
	}}
	allocations, err := svc.CalculateSplits(decimal.RequireFromString("33.33"), chain)
	if err != nil {
		t.Fatalf("calculate splits failed: %v", err)
	}
	wants := []string{"20", "6.67", "3.33"}
	for i, allocation := range allocations {
		if !allocation.Amount.Equal(decimal.RequireFromString(wants[i])) {
			t.Fatalf("level %d: expected %s, got %s", allocation.Level, wants[i], allocation.Amount)
		}
	}
}

func TestCalculateSplitsRejectsNonPositiveGross(t *testing.T) {
	svc, _ := setupCommissionServiceTest(t)

	chain := &UplineChain{Beneficiaries: []UplineBeneficiary{{UserID: 1, Level: 0}}}
	if _, err := svc.CalculateSplits(decimal.Zero, chain); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for zero gross, got %v", err)
	}
	if _, err := svc.CalculateSplits(decimal.NewFromInt(-10), chain); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for negative gross, got %v", err)
	}
}

func TestCalculateSplitsRejectsEmptyChain(t *testing.T) {
	svc, _ := setupCommissionServiceTest(t)

	if _, err := svc.CalculateSplits(decimal.NewFromInt(100), nil); !errors.Is(err, ErrNoBeneficiary) {
		t.Fatalf("expected ErrNoBeneficiary for nil chain, got %v", err)
	}
	if _, err := svc.CalculateSplits(decimal.NewFromInt(100), &UplineChain{}); !errors.Is(err, ErrNoBeneficiary) {
		t.Fatalf("expected ErrNoBeneficiary for empty chain, got %v", err)
	}
}

func TestCreateCommissionRejectsIneligibleStage(t *testing.T) {
	svc, db := setupCommissionServiceTest(t)

	referrer := createCommissionTestPartner(t, db, "early-ref@example.com", "EARLY001", nil)
	deal := createCommissionTestDeal(t, db, referrer.ID, "DL-TEST04", constants.DealStageQuoteSent)

	_, err := svc.Create(CommissionCreateInput{
		DealID:      deal.ID,
		GrossAmount: decimal.NewFromInt(100),
		AdminID:     1,
	})
	if !errors.Is(err, ErrDealNotEligible) {
		t.Fatalf("expected ErrDealNotEligible, got %v", err)
	}
}

func TestCreateCommissionRejectsDuplicateWhileActive(t *testing.T) {
	svc, db := setupCommissionServiceTest(t)

	referrer := createCommissionTestPartner(t, db, "dup-ref@example.com", "DUPRE001", nil)
	deal := createCommissionTestDeal(t, db, referrer.ID, "DL-TEST05", constants.DealStageLiveConfirmLTR)

	if _, err := svc.Create(CommissionCreateInput{DealID: deal.ID, GrossAmount: decimal.NewFromInt(100), AdminID: 1}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	_, err := svc.Create(CommissionCreateInput{DealID: deal.ID, GrossAmount: decimal.NewFromInt(100), AdminID: 1})
	if !errors.Is(err, ErrDuplicateCommission) {
		t.Fatalf("expected ErrDuplicateCommission, got %v", err)
	}
}

func TestPaymentLifecycleToPaid(t *testing.T) {
	svc, db := setupCommissionServiceTest(t)

	referrer := createCommissionTestPartner(t, db, "life-ref@example.com", "LIFER001", nil)
	deal := createCommissionTestDeal(t, db, referrer.ID, "DL-TEST06", constants.DealStageInvoiceReceived)

	payment, err := svc.Create(CommissionCreateInput{DealID: deal.ID, GrossAmount: decimal.NewFromInt(250), AdminID: 1})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	submitted, err := svc.SubmitForApproval(payment.ID)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if submitted.ApprovalStatus != constants.ApprovalStatusNeedsApproval || submitted.PaymentStatus != constants.PaymentStatusNeedsApproval {
		t.Fatalf("expected needs_approval/needs_approval, got %s/%s", submitted.ApprovalStatus, submitted.PaymentStatus)
	}

	approved, err := svc.Approve(payment.ID, 2)
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if approved.ApprovalStatus != constants.ApprovalStatusApproved || approved.PaymentStatus != constants.PaymentStatusApproved {
		t.Fatalf("expected approved/approved, got %s/%s", approved.ApprovalStatus, approved.PaymentStatus)
	}
	if approved.ApprovedBy == nil || *approved.ApprovedBy != 2 || approved.ApprovedAt == nil {
		t.Fatalf("expected approval audit fields set, got %+v", approved)
	}

	paid, err := svc.ConfirmPayment(CommissionConfirmInput{
		PaymentID:        payment.ID,
		PaymentReference: "BACS-0042",
		PaymentMethod:    "bacs",
		AdminID:          2,
	})
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if paid.PaymentStatus != constants.PaymentStatusPaid {
		t.Fatalf("expected paid, got %s", paid.PaymentStatus)
	}
	if paid.ActiveDealID != nil {
		t.Fatalf("expected active marker released after payout")
	}
	if paid.PaidBy == nil || *paid.PaidBy != 2 || paid.PaidAt == nil {
		t.Fatalf("expected payout audit fields set, got %+v", paid)
	}
	if paid.PaymentReference != "BACS-0042" {
		t.Fatalf("expected payment reference recorded, got %q", paid.PaymentReference)
	}

	reloaded, err := svc.GetPayment(payment.ID)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	for _, split := range reloaded.Splits {
		if split.Status != constants.SplitStatusPaid {
			t.Fatalf("expected all splits paid, got %s", split.Status)
		}
	}

	var dealRow models.Deal
	if err := db.First(&dealRow, deal.ID).Error; err != nil {
		t.Fatalf("reload deal failed: %v", err)
	}
	if dealRow.CommissionPaidAt == nil {
		t.Fatalf("expected deal payout timestamp set")
	}
}

func TestConfirmPaymentRequiresApproval(t *testing.T) {
	svc, db := setupCommissionServiceTest(t)

	referrer := createCommissionTestPartner(t, db, "gate-ref@example.com", "GATER001", nil)
	deal := createCommissionTestDeal(t, db, referrer.ID, "DL-TEST07", constants.DealStageLiveConfirmLTR)

	payment, err := svc.Create(CommissionCreateInput{DealID: deal.ID, GrossAmount: decimal.NewFromInt(100), AdminID: 1})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.SubmitForApproval(payment.ID); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	_, err = svc.ConfirmPayment(CommissionConfirmInput{PaymentID: payment.ID, AdminID: 1})
	if !errors.Is(err, ErrPaymentNotApproved) {
		t.Fatalf("expected ErrPaymentNotApproved, got %v", err)
	}

	reloaded, err := svc.GetPayment(payment.ID)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.PaymentStatus != constants.PaymentStatusNeedsApproval {
		t.Fatalf("expected state unchanged after rejected confirm, got %s", reloaded.PaymentStatus)
	}
	for _, split := range reloaded.Splits {
		if split.Status != constants.SplitStatusPending {
			t.Fatalf("expected splits untouched, got %s", split.Status)
		}
	}
}

func TestRaiseAndResolveQuery(t *testing.T) {
	svc, db := setupCommissionServiceTest(t)

	referrer := createCommissionTestPartner(t, db, "query-ref@example.com", "QUERY001", nil)
	deal := createCommissionTestDeal(t, db, referrer.ID, "DL-TEST08", constants.DealStageLiveConfirmLTR)

	payment, err := svc.Create(CommissionCreateInput{DealID: deal.ID, GrossAmount: decimal.NewFromInt(100), AdminID: 1})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Queries are only valid from the review queue.
	if _, err := svc.RaiseQuery(payment.ID, "missing invoice"); !errors.Is(err, ErrPaymentStatusInvalid) {
		t.Fatalf("expected ErrPaymentStatusInvalid before submission, got %v", err)
	}

	if _, err := svc.SubmitForApproval(payment.ID); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	queried, err := svc.RaiseQuery(payment.ID, "missing invoice")
	if err != nil {
		t.Fatalf("raise query failed: %v", err)
	}
	if queried.ApprovalStatus != constants.ApprovalStatusQueried {
		t.Fatalf("expected queried, got %s", queried.ApprovalStatus)
	}
	if queried.QueryReason != "missing invoice" {
		t.Fatalf("expected query reason recorded, got %q", queried.QueryReason)
	}

	resolved, err := svc.ResolveQuery(payment.ID, "invoice attached")
	if err != nil {
		t.Fatalf("resolve query failed: %v", err)
	}
	if resolved.ApprovalStatus != constants.ApprovalStatusNeedsApproval {
		t.Fatalf("expected back in review queue, got %s", resolved.ApprovalStatus)
	}
	if resolved.QueryReason != "" {
		t.Fatalf("expected query reason cleared, got %q", resolved.QueryReason)
	}
}

func TestSplitAmountsSurvivePaymentRowEdits(t *testing.T) {
	svc, db := setupCommissionServiceTest(t)

	grandparent := createCommissionTestPartner(t, db, "ledger-gp@example.com", "LEDGR001", nil)
	parent := createCommissionTestPartner(t, db, "ledger-p@example.com", "LEDGR002", &grandparent.ID)
	referrer := createCommissionTestPartner(t, db, "ledger-ref@example.com", "LEDGR003", &parent.ID)
	deal := createCommissionTestDeal(t, db, referrer.ID, "DL-TEST12", constants.DealStageInvoiceReceived)

	payment, err := svc.Create(CommissionCreateInput{DealID: deal.ID, GrossAmount: decimal.NewFromInt(1000), AdminID: 1})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	created, err := svc.GetPayment(payment.ID)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if len(created.Splits) != 3 {
		t.Fatalf("expected 3 splits, got %d", len(created.Splits))
	}
	before := make(map[uint]models.PaymentSplit, len(created.Splits))
	for _, split := range created.Splits {
		before[split.ID] = split
	}

	// Walk the payment row through every mutating transition, including the
	// note-editing ones.
	if _, err := svc.SubmitForApproval(payment.ID); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if _, err := svc.RaiseQuery(payment.ID, "gross amount looks off"); err != nil {
		t.Fatalf("raise query failed: %v", err)
	}
	if _, err := svc.ResolveQuery(payment.ID, "gross amount confirmed"); err != nil {
		t.Fatalf("resolve query failed: %v", err)
	}
	if _, err := svc.Approve(payment.ID, 2); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if _, err := svc.ConfirmPayment(CommissionConfirmInput{
		PaymentID:        payment.ID,
		PaymentReference: "BACS-0099",
		PaymentMethod:    "bacs",
		Notes:            "paid in August run",
		AdminID:          2,
	}); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	reloaded, err := svc.GetPayment(payment.ID)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if len(reloaded.Splits) != len(before) {
		t.Fatalf("expected %d splits, got %d", len(before), len(reloaded.Splits))
	}
	for _, split := range reloaded.Splits {
		orig, ok := before[split.ID]
		if !ok {
			t.Fatalf("unexpected new split row %d", split.ID)
		}
		if split.BeneficiaryID != orig.BeneficiaryID || split.Level != orig.Level {
			t.Fatalf("split %d beneficiary changed: %+v vs %+v", split.ID, split, orig)
		}
		if !split.Amount.Equal(orig.Amount.Decimal) || !split.Percentage.Equal(orig.Percentage.Decimal) {
			t.Fatalf("split %d amounts changed: %s/%s vs %s/%s",
				split.ID, split.Amount, split.Percentage, orig.Amount, orig.Percentage)
		}
		if split.Status != constants.SplitStatusPaid {
			t.Fatalf("expected split %d paid, got %s", split.ID, split.Status)
		}
	}
}

func TestFailReleasesDealForRecreation(t *testing.T) {
	svc, db := setupCommissionServiceTest(t)

	referrer := createCommissionTestPartner(t, db, "fail-ref@example.com", "FAILR001", nil)
	deal := createCommissionTestDeal(t, db, referrer.ID, "DL-TEST09", constants.DealStageLiveConfirmLTR)

	first, err := svc.Create(CommissionCreateInput{DealID: deal.ID, GrossAmount: decimal.NewFromInt(100), AdminID: 1})
	if err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	failed, err := svc.Fail(first.ID, "wrong gross amount")
	if err != nil {
		t.Fatalf("fail failed: %v", err)
	}
	if failed.PaymentStatus != constants.PaymentStatusFailed {
		t.Fatalf("expected failed, got %s", failed.PaymentStatus)
	}
	if failed.ActiveDealID != nil {
		t.Fatalf("expected active marker released on failure")
	}
	if failed.FailReason != "wrong gross amount" {
		t.Fatalf("expected fail reason recorded, got %q", failed.FailReason)
	}

	// Failed is terminal.
	if _, err := svc.Fail(first.ID, "again"); !errors.Is(err, ErrPaymentStatusInvalid) {
		t.Fatalf("expected ErrPaymentStatusInvalid on terminal payment, got %v", err)
	}

	second, err := svc.Create(CommissionCreateInput{DealID: deal.ID, GrossAmount: decimal.NewFromInt(120), AdminID: 1})
	if err != nil {
		t.Fatalf("re-create after failure failed: %v", err)
	}
	if second.ID == first.ID {
		t.Fatalf("expected a fresh payment row after failure")
	}
}

func TestPreviewPersistsNothing(t *testing.T) {
	svc, db := setupCommissionServiceTest(t)

	referrer := createCommissionTestPartner(t, db, "prev-ref@example.com", "PREVR001", nil)
	deal := createCommissionTestDeal(t, db, referrer.ID, "DL-TEST10", constants.DealStageLiveConfirmLTR)

	preview, err := svc.Preview(deal.ID, decimal.NewFromInt(1000))
	if err != nil {
		t.Fatalf("preview failed: %v", err)
	}
	if len(preview.Splits) != 1 {
		t.Fatalf("expected 1 preview split, got %d", len(preview.Splits))
	}
	if !preview.AllocatedAmount.Equal(decimal.RequireFromString("600")) {
		t.Fatalf("expected allocated 600, got %s", preview.AllocatedAmount)
	}

	var payments, splits int64
	if err := db.Model(&models.CommissionPayment{}).Count(&payments).Error; err != nil {
		t.Fatalf("count payments failed: %v", err)
	}
	if err := db.Model(&models.PaymentSplit{}).Count(&splits).Error; err != nil {
		t.Fatalf("count splits failed: %v", err)
	}
	if payments != 0 || splits != 0 {
		t.Fatalf("expected no rows written by preview, got %d payments %d splits", payments, splits)
	}
}

func TestStatusByDealDrivesDuplicateGuard(t *testing.T) {
	svc, db := setupCommissionServiceTest(t)

	referrer := createCommissionTestPartner(t, db, "status-ref@example.com", "STATR001", nil)
	deal := createCommissionTestDeal(t, db, referrer.ID, "DL-TEST11", constants.DealStageLiveConfirmLTR)

	status, err := svc.StatusByDeal(deal.ID)
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if status.Exists || !status.CanCreate {
		t.Fatalf("expected creatable with no payment, got %+v", status)
	}

	payment, err := svc.Create(CommissionCreateInput{DealID: deal.ID, GrossAmount: decimal.NewFromInt(100), AdminID: 1})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	status, err = svc.StatusByDeal(deal.ID)
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if !status.Exists || status.CanCreate {
		t.Fatalf("expected active payment to block creation, got %+v", status)
	}

	if _, err := svc.Fail(payment.ID, "superseded"); err != nil {
		t.Fatalf("fail failed: %v", err)
	}
	status, err = svc.StatusByDeal(deal.ID)
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if !status.Exists || !status.CanCreate {
		t.Fatalf("expected failed payment to allow re-creation, got %+v", status)
	}
}

func TestSummaryForPartnerBucketsByState(t *testing.T) {
	svc, db := setupCommissionServiceTest(t)

	referrer := createCommissionTestPartner(t, db, "sum-ref@example.com", "SUMRE001", nil)
	paidDeal := createCommissionTestDeal(t, db, referrer.ID, "DL-TEST12", constants.DealStageCompleted)
	pendingDeal := createCommissionTestDeal(t, db, referrer.ID, "DL-TEST13", constants.DealStageLiveConfirmLTR)

	paid, err := svc.Create(CommissionCreateInput{DealID: paidDeal.ID, GrossAmount: decimal.NewFromInt(1000), AdminID: 1})
	if err != nil {
		t.Fatalf("create paid deal commission failed: %v", err)
	}
	if _, err := svc.SubmitForApproval(paid.ID); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if _, err := svc.Approve(paid.ID, 1); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if _, err := svc.ConfirmPayment(CommissionConfirmInput{PaymentID: paid.ID, AdminID: 1}); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if _, err := svc.Create(CommissionCreateInput{DealID: pendingDeal.ID, GrossAmount: decimal.NewFromInt(200), AdminID: 1}); err != nil {
		t.Fatalf("create pending commission failed: %v", err)
	}

	summary, err := svc.SummaryForPartner(referrer.ID)
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if !summary.PaidAmount.Equal(decimal.RequireFromString("600")) {
		t.Fatalf("expected paid 600, got %s", summary.PaidAmount)
	}
	if !summary.PendingAmount.Equal(decimal.RequireFromString("120")) {
		t.Fatalf("expected pending 120, got %s", summary.PendingAmount)
	}
	if !summary.TotalAmount.Equal(decimal.RequireFromString("720")) {
		t.Fatalf("expected total 720, got %s", summary.TotalAmount)
	}
}

func setupCommissionServiceTest(t *testing.T) (*CommissionService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:commission_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.PartnerHierarchy{},
		&models.Deal{},
		&models.CommissionPayment{},
		&models.PaymentSplit{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	hierarchySvc := NewHierarchyService(repository.NewHierarchyRepository(db), userRepo)
	svc := NewCommissionService(
		repository.NewCommissionRepository(db),
		repository.NewDealRepository(db),
		userRepo,
		hierarchySvc,
		nil,
	)
	return svc, db
}

func createCommissionTestPartner(t *testing.T, db *gorm.DB, email, code string, parentID *uint) models.User {
	t.Helper()

	row := models.User{
		Email:           email,
		PasswordHash:    "hash",
		DisplayName:     "tester",
		ParentPartnerID: parentID,
		ReferralCode:    code,
		Status:          constants.UserStatusActive,
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("create partner failed: %v", err)
	}
	return row
}

func createCommissionTestDeal(t *testing.T, db *gorm.DB, referrerID uint, dealNo, stage string) models.Deal {
	t.Helper()

	row := models.Deal{
		DealNo:                dealNo,
		ReferrerID:            referrerID,
		BusinessName:          "Test Merchant",
		DealStage:             stage,
		CustomerJourneyStatus: JourneyForStage(stage),
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("create deal failed: %v", err)
	}
	return row
}
