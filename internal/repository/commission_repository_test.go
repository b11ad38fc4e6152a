package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/partnerdesk/partnerdesk/internal/constants"
	"github.com/partnerdesk/partnerdesk/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupCommissionRepositoryTest(t *testing.T) (*GormCommissionRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:commission_repo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Deal{},
		&models.CommissionPayment{},
		&models.PaymentSplit{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewCommissionRepository(db), db
}

func createCommissionRepoTestPayment(t *testing.T, db *gorm.DB, dealID uint, approvalStatus, paymentStatus string, active bool) models.CommissionPayment {
	t.Helper()

	payment := models.CommissionPayment{
		DealID:          dealID,
		Currency:        "GBP",
		GrossAmount:     models.NewMoneyFromDecimal(decimal.NewFromInt(100)),
		AllocatedAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(60)),
		ApprovalStatus:  approvalStatus,
		PaymentStatus:   paymentStatus,
		CreatedBy:       1,
	}
	if active {
		id := dealID
		payment.ActiveDealID = &id
	}
	if err := db.Create(&payment).Error; err != nil {
		t.Fatalf("create payment failed: %v", err)
	}
	return payment
}

func TestGetActivePaymentByDeal(t *testing.T) {
	repo, db := setupCommissionRepositoryTest(t)

	createCommissionRepoTestPayment(t, db, 1, constants.ApprovalStatusPending, constants.PaymentStatusFailed, false)
	active := createCommissionRepoTestPayment(t, db, 1, constants.ApprovalStatusPending, constants.PaymentStatusPending, true)

	got, err := repo.GetActivePaymentByDeal(1)
	if err != nil {
		t.Fatalf("get active payment failed: %v", err)
	}
	if got == nil || got.ID != active.ID {
		t.Fatalf("expected active payment %d, got %+v", active.ID, got)
	}

	latest, err := repo.GetLatestPaymentByDeal(1)
	if err != nil {
		t.Fatalf("get latest payment failed: %v", err)
	}
	if latest == nil || latest.ID != active.ID {
		t.Fatalf("expected latest payment %d, got %+v", active.ID, latest)
	}

	got, err = repo.GetActivePaymentByDeal(2)
	if err != nil {
		t.Fatalf("get active payment for empty deal failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected no active payment for deal 2, got %+v", got)
	}
}

func TestListPaymentsFilters(t *testing.T) {
	repo, db := setupCommissionRepositoryTest(t)

	createCommissionRepoTestPayment(t, db, 1, constants.ApprovalStatusNeedsApproval, constants.PaymentStatusNeedsApproval, true)
	createCommissionRepoTestPayment(t, db, 2, constants.ApprovalStatusApproved, constants.PaymentStatusPaid, false)
	createCommissionRepoTestPayment(t, db, 3, constants.ApprovalStatusNeedsApproval, constants.PaymentStatusNeedsApproval, true)

	payments, total, err := repo.ListPayments(PaymentListFilter{
		Page:           1,
		PageSize:       10,
		ApprovalStatus: constants.ApprovalStatusNeedsApproval,
	})
	if err != nil {
		t.Fatalf("list by approval status failed: %v", err)
	}
	if total != 2 || len(payments) != 2 {
		t.Fatalf("expected 2 payments in review, got total=%d len=%d", total, len(payments))
	}

	payments, total, err = repo.ListPayments(PaymentListFilter{Page: 1, PageSize: 10, DealID: 2})
	if err != nil {
		t.Fatalf("list by deal failed: %v", err)
	}
	if total != 1 || payments[0].PaymentStatus != constants.PaymentStatusPaid {
		t.Fatalf("expected the paid payment for deal 2, got total=%d %+v", total, payments)
	}

	payments, total, err = repo.ListPayments(PaymentListFilter{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("paginated list failed: %v", err)
	}
	if total != 3 || len(payments) != 1 {
		t.Fatalf("expected page 2 with 1 of 3, got total=%d len=%d", total, len(payments))
	}
}

func TestSumSplitsByBeneficiary(t *testing.T) {
	repo, _ := setupCommissionRepositoryTest(t)

	splits := []models.PaymentSplit{
		{PaymentID: 1, DealID: 1, BeneficiaryID: 7, Level: 0, Percentage: models.NewMoneyFromDecimal(decimal.NewFromInt(60)), Amount: models.NewMoneyFromDecimal(decimal.RequireFromString("60.50")), Status: constants.SplitStatusPending},
		{PaymentID: 2, DealID: 2, BeneficiaryID: 7, Level: 0, Percentage: models.NewMoneyFromDecimal(decimal.NewFromInt(60)), Amount: models.NewMoneyFromDecimal(decimal.RequireFromString("39.50")), Status: constants.SplitStatusPaid},
		{PaymentID: 3, DealID: 3, BeneficiaryID: 8, Level: 1, Percentage: models.NewMoneyFromDecimal(decimal.NewFromInt(20)), Amount: models.NewMoneyFromDecimal(decimal.RequireFromString("10.00")), Status: constants.SplitStatusPaid},
	}
	if err := repo.CreateSplits(splits); err != nil {
		t.Fatalf("create splits failed: %v", err)
	}

	pending, err := repo.SumSplitsByBeneficiary(7, []string{constants.SplitStatusPending})
	if err != nil {
		t.Fatalf("sum pending failed: %v", err)
	}
	if !pending.Equal(decimal.RequireFromString("60.5")) {
		t.Fatalf("expected pending 60.5, got %s", pending)
	}

	paid, err := repo.SumSplitsByBeneficiary(7, []string{constants.SplitStatusPaid})
	if err != nil {
		t.Fatalf("sum paid failed: %v", err)
	}
	if !paid.Equal(decimal.RequireFromString("39.5")) {
		t.Fatalf("expected paid 39.5, got %s", paid)
	}

	none, err := repo.SumSplitsByBeneficiary(9, []string{constants.SplitStatusPaid})
	if err != nil {
		t.Fatalf("sum empty failed: %v", err)
	}
	if !none.IsZero() {
		t.Fatalf("expected zero for unknown beneficiary, got %s", none)
	}
}

func TestMarkSplitsStatus(t *testing.T) {
	repo, _ := setupCommissionRepositoryTest(t)

	splits := []models.PaymentSplit{
		{PaymentID: 5, DealID: 5, BeneficiaryID: 1, Level: 0, Percentage: models.NewMoneyFromDecimal(decimal.NewFromInt(60)), Amount: models.NewMoneyFromDecimal(decimal.NewFromInt(60)), Status: constants.SplitStatusPending},
		{PaymentID: 5, DealID: 5, BeneficiaryID: 2, Level: 1, Percentage: models.NewMoneyFromDecimal(decimal.NewFromInt(20)), Amount: models.NewMoneyFromDecimal(decimal.NewFromInt(20)), Status: constants.SplitStatusPending},
		{PaymentID: 6, DealID: 6, BeneficiaryID: 1, Level: 0, Percentage: models.NewMoneyFromDecimal(decimal.NewFromInt(60)), Amount: models.NewMoneyFromDecimal(decimal.NewFromInt(60)), Status: constants.SplitStatusPending},
	}
	if err := repo.CreateSplits(splits); err != nil {
		t.Fatalf("create splits failed: %v", err)
	}

	if err := repo.MarkSplitsStatus(5, constants.SplitStatusPaid, time.Now()); err != nil {
		t.Fatalf("mark splits failed: %v", err)
	}

	marked, err := repo.ListSplitsByPayment(5)
	if err != nil {
		t.Fatalf("list marked splits failed: %v", err)
	}
	for _, split := range marked {
		if split.Status != constants.SplitStatusPaid {
			t.Fatalf("expected paid split, got %s", split.Status)
		}
	}

	other, err := repo.ListSplitsByPayment(6)
	if err != nil {
		t.Fatalf("list other splits failed: %v", err)
	}
	if len(other) != 1 || other[0].Status != constants.SplitStatusPending {
		t.Fatalf("expected sibling payment untouched, got %+v", other)
	}
}
