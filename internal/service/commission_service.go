package service

import (
	"strings"
	"time"

	"github.com/partnerdesk/partnerdesk/internal/constants"
	"github.com/partnerdesk/partnerdesk/internal/models"
	"github.com/partnerdesk/partnerdesk/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CommissionService implements the commission calculator and the payment
// approval workflow over deals referred by partners.
type CommissionService struct {
	repo         repository.CommissionRepository
	dealRepo     repository.DealRepository
	userRepo     repository.UserRepository
	hierarchySvc *HierarchyService
	notifySvc    *NotificationService
}

// NewCommissionService creates a commission service.
func NewCommissionService(
	repo repository.CommissionRepository,
	dealRepo repository.DealRepository,
	userRepo repository.UserRepository,
	hierarchySvc *HierarchyService,
	notifySvc *NotificationService,
) *CommissionService {
	return &CommissionService{
		repo:         repo,
		dealRepo:     dealRepo,
		userRepo:     userRepo,
		hierarchySvc: hierarchySvc,
		notifySvc:    notifySvc,
	}
}

// splitPercentForLevel returns the payout share for an upline level.
func splitPercentForLevel(level int) decimal.Decimal {
	switch level {
	case constants.SplitLevelDirect:
		return decimal.NewFromInt(constants.SplitPercentDirect)
	case constants.SplitLevelUplineL1:
		return decimal.NewFromInt(constants.SplitPercentUplineL1)
	case constants.SplitLevelUplineL2:
		return decimal.NewFromInt(constants.SplitPercentUplineL2)
	default:
		return decimal.Zero
	}
}

// SplitAllocation is one computed beneficiary share before persistence.
type SplitAllocation struct {
	BeneficiaryID uint            `json:"beneficiary_id"`
	Level         int             `json:"level"`
	Percentage    decimal.Decimal `json:"percentage"`
	Amount        decimal.Decimal `json:"amount"`
}

// CalculateSplits computes the per-beneficiary shares of a gross
// commission. Each level's amount is rounded to 2 decimal places
// independently; when the chain is shorter than three members the
// unallocated remainder stays with the house rather than rolling up.
func (s *CommissionService) CalculateSplits(gross decimal.Decimal, chain *UplineChain) ([]SplitAllocation, error) {
	if gross.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}
	if chain == nil || len(chain.Beneficiaries) == 0 {
		return nil, ErrNoBeneficiary
	}

	hundred := decimal.NewFromInt(100)
	allocations := make([]SplitAllocation, 0, len(chain.Beneficiaries))
	for _, beneficiary := range chain.Beneficiaries {
		percent := splitPercentForLevel(beneficiary.Level)
		if percent.IsZero() {
			continue
		}
		amount := gross.Mul(percent).Div(hundred).Round(2)
		allocations = append(allocations, SplitAllocation{
			BeneficiaryID: beneficiary.UserID,
			Level:         beneficiary.Level,
			Percentage:    percent,
			Amount:        amount,
		})
	}
	if len(allocations) == 0 {
		return nil, ErrNoBeneficiary
	}
	return allocations, nil
}

// CommissionPreview is the computed distribution for a deal before any
// row is written.
type CommissionPreview struct {
	DealID          uint              `json:"deal_id"`
	GrossAmount     decimal.Decimal   `json:"gross_amount"`
	AllocatedAmount decimal.Decimal   `json:"allocated_amount"`
	Currency        string            `json:"currency"`
	Splits          []SplitAllocation `json:"splits"`
}

// Preview resolves the deal's upline chain and computes the split table
// without persisting anything.
func (s *CommissionService) Preview(dealID uint, gross decimal.Decimal) (*CommissionPreview, error) {
	deal, err := s.dealRepo.GetByID(dealID)
	if err != nil {
		return nil, err
	}
	if deal == nil {
		return nil, ErrNotFound
	}

	chain, err := s.hierarchySvc.ResolveUpline(deal.ReferrerID)
	if err != nil {
		return nil, err
	}
	allocations, err := s.CalculateSplits(gross, chain)
	if err != nil {
		return nil, err
	}

	allocated := decimal.Zero
	for _, allocation := range allocations {
		allocated = allocated.Add(allocation.Amount)
	}
	return &CommissionPreview{
		DealID:          dealID,
		GrossAmount:     gross.Round(2),
		AllocatedAmount: allocated,
		Currency:        constants.SiteCurrencyDefault,
		Splits:          allocations,
	}, nil
}

// CommissionCreateInput carries the admin request to record a commission.
type CommissionCreateInput struct {
	DealID      uint
	GrossAmount decimal.Decimal
	Currency    string
	EvidenceURL string
	Notes       string
	AdminID     uint
}

// Create records a commission payment plus its splits for an eligible
// deal. At most one non-terminal payment may exist per deal; the active
// marker's unique index backs the in-transaction check against races.
func (s *CommissionService) Create(input CommissionCreateInput) (*models.CommissionPayment, error) {
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = constants.SiteCurrencyDefault
	}

	var created *models.CommissionPayment
	err := s.repo.Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		txDealRepo := s.dealRepo.WithTx(tx)

		deal, err := txDealRepo.GetByIDForUpdate(input.DealID)
		if err != nil {
			return err
		}
		if deal == nil {
			return ErrNotFound
		}
		if !constants.IsCommissionEligibleStage(deal.DealStage) {
			return ErrDealNotEligible
		}

		existing, err := txRepo.GetActivePaymentByDealForUpdate(deal.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrDuplicateCommission
		}

		chain, err := s.hierarchySvc.ResolveUpline(deal.ReferrerID)
		if err != nil {
			return err
		}
		allocations, err := s.CalculateSplits(input.GrossAmount, chain)
		if err != nil {
			return err
		}

		allocated := decimal.Zero
		for _, allocation := range allocations {
			allocated = allocated.Add(allocation.Amount)
		}

		activeDealID := deal.ID
		payment := &models.CommissionPayment{
			DealID:          deal.ID,
			ActiveDealID:    &activeDealID,
			Currency:        currency,
			GrossAmount:     models.NewMoneyFromDecimal(input.GrossAmount),
			AllocatedAmount: models.NewMoneyFromDecimal(allocated),
			ApprovalStatus:  constants.ApprovalStatusPending,
			PaymentStatus:   constants.PaymentStatusPending,
			EvidenceURL:     strings.TrimSpace(input.EvidenceURL),
			Notes:           strings.TrimSpace(input.Notes),
			CreatedBy:       input.AdminID,
		}
		if err := txRepo.CreatePayment(payment); err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateCommission
			}
			return err
		}

		splits := make([]models.PaymentSplit, 0, len(allocations))
		for _, allocation := range allocations {
			splits = append(splits, models.PaymentSplit{
				PaymentID:     payment.ID,
				DealID:        deal.ID,
				BeneficiaryID: allocation.BeneficiaryID,
				Level:         allocation.Level,
				Percentage:    models.NewMoneyFromDecimal(allocation.Percentage),
				Amount:        models.NewMoneyFromDecimal(allocation.Amount),
				Status:        constants.SplitStatusPending,
			})
		}
		if err := txRepo.CreateSplits(splits); err != nil {
			return err
		}
		payment.Splits = splits

		now := time.Now()
		deal.ActualCommission = payment.GrossAmount
		deal.CommissionCreatedAt = &now
		if err := txDealRepo.Update(deal); err != nil {
			return err
		}

		created = payment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// PaymentStatusResult is the status check response for one deal.
type PaymentStatusResult struct {
	Exists       bool                      `json:"exists"`
	Payment      *models.CommissionPayment `json:"payment,omitempty"`
	CanCreate    bool                      `json:"can_create"`
	DealEligible bool                      `json:"deal_eligible"`
}

// StatusByDeal reports whether a commission exists for the deal, along
// with its current state. Drives the admin duplicate-prevention UI.
func (s *CommissionService) StatusByDeal(dealID uint) (*PaymentStatusResult, error) {
	deal, err := s.dealRepo.GetByID(dealID)
	if err != nil {
		return nil, err
	}
	if deal == nil {
		return nil, ErrNotFound
	}

	eligible := constants.IsCommissionEligibleStage(deal.DealStage)

	active, err := s.repo.GetActivePaymentByDeal(dealID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		payment, err := s.repo.GetPaymentByID(active.ID)
		if err != nil {
			return nil, err
		}
		return &PaymentStatusResult{
			Exists:       true,
			Payment:      payment,
			CanCreate:    false,
			DealEligible: eligible,
		}, nil
	}

	latest, err := s.repo.GetLatestPaymentByDeal(dealID)
	if err != nil {
		return nil, err
	}
	if latest != nil {
		payment, err := s.repo.GetPaymentByID(latest.ID)
		if err != nil {
			return nil, err
		}
		return &PaymentStatusResult{
			Exists:       true,
			Payment:      payment,
			CanCreate:    eligible && payment.PaymentStatus == constants.PaymentStatusFailed,
			DealEligible: eligible,
		}, nil
	}

	return &PaymentStatusResult{
		Exists:       false,
		CanCreate:    eligible,
		DealEligible: eligible,
	}, nil
}

// GetPayment returns a payment with its splits.
func (s *CommissionService) GetPayment(paymentID uint) (*models.CommissionPayment, error) {
	payment, err := s.repo.GetPaymentByID(paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrNotFound
	}
	return payment, nil
}

// SubmitForApproval moves a freshly created payment into the review
// queue. Allowed only from pending.
func (s *CommissionService) SubmitForApproval(paymentID uint) (*models.CommissionPayment, error) {
	return s.transition(paymentID, func(payment *models.CommissionPayment, _ time.Time) error {
		if payment.ApprovalStatus != constants.ApprovalStatusPending ||
			payment.PaymentStatus != constants.PaymentStatusPending {
			return ErrPaymentStatusInvalid
		}
		payment.ApprovalStatus = constants.ApprovalStatusNeedsApproval
		payment.PaymentStatus = constants.PaymentStatusNeedsApproval
		return nil
	})
}

// Approve records the human approval gate. Allowed only from
// needs_approval; paid is still a separate confirmation step.
func (s *CommissionService) Approve(paymentID, adminID uint) (*models.CommissionPayment, error) {
	return s.transition(paymentID, func(payment *models.CommissionPayment, now time.Time) error {
		if payment.ApprovalStatus != constants.ApprovalStatusNeedsApproval {
			return ErrPaymentStatusInvalid
		}
		payment.ApprovalStatus = constants.ApprovalStatusApproved
		payment.PaymentStatus = constants.PaymentStatusApproved
		payment.ApprovedBy = &adminID
		payment.ApprovedAt = &now
		return nil
	})
}

// RaiseQuery parks a payment pending clarification. Allowed only from
// needs_approval.
func (s *CommissionService) RaiseQuery(paymentID uint, reason string) (*models.CommissionPayment, error) {
	return s.transition(paymentID, func(payment *models.CommissionPayment, _ time.Time) error {
		if payment.ApprovalStatus != constants.ApprovalStatusNeedsApproval {
			return ErrPaymentStatusInvalid
		}
		payment.ApprovalStatus = constants.ApprovalStatusQueried
		payment.QueryReason = strings.TrimSpace(reason)
		return nil
	})
}

// ResolveQuery returns a queried payment to the review queue.
func (s *CommissionService) ResolveQuery(paymentID uint, note string) (*models.CommissionPayment, error) {
	return s.transition(paymentID, func(payment *models.CommissionPayment, _ time.Time) error {
		if payment.ApprovalStatus != constants.ApprovalStatusQueried {
			return ErrPaymentStatusInvalid
		}
		payment.ApprovalStatus = constants.ApprovalStatusNeedsApproval
		if note = strings.TrimSpace(note); note != "" {
			payment.QueryReason = ""
			if payment.Notes == "" {
				payment.Notes = note
			} else {
				payment.Notes = payment.Notes + "\n" + note
			}
		}
		return nil
	})
}

// CommissionConfirmInput carries the payout confirmation details.
type CommissionConfirmInput struct {
	PaymentID        uint
	PaymentReference string
	PaymentMethod    string
	Notes            string
	AdminID          uint
}

// ConfirmPayment marks an approved payment as paid, stamps the audit
// fields and moves every split to paid. Confirming a payment whose
// approval gate has not been passed fails with ErrPaymentNotApproved
// and leaves all rows untouched.
func (s *CommissionService) ConfirmPayment(input CommissionConfirmInput) (*models.CommissionPayment, error) {
	var confirmed *models.CommissionPayment
	err := s.repo.Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		txDealRepo := s.dealRepo.WithTx(tx)

		payment, err := txRepo.GetPaymentByIDForUpdate(input.PaymentID)
		if err != nil {
			return err
		}
		if payment == nil {
			return ErrNotFound
		}
		if constants.IsTerminalPaymentStatus(payment.PaymentStatus) {
			return ErrPaymentStatusInvalid
		}
		if payment.ApprovalStatus != constants.ApprovalStatusApproved {
			return ErrPaymentNotApproved
		}

		now := time.Now()
		payment.PaymentStatus = constants.PaymentStatusPaid
		payment.ActiveDealID = nil
		payment.PaymentReference = strings.TrimSpace(input.PaymentReference)
		payment.PaymentMethod = strings.TrimSpace(input.PaymentMethod)
		if note := strings.TrimSpace(input.Notes); note != "" {
			if payment.Notes == "" {
				payment.Notes = note
			} else {
				payment.Notes = payment.Notes + "\n" + note
			}
		}
		payment.PaidBy = &input.AdminID
		payment.PaidAt = &now
		if err := txRepo.UpdatePayment(payment); err != nil {
			return err
		}
		if err := txRepo.MarkSplitsStatus(payment.ID, constants.SplitStatusPaid, now); err != nil {
			return err
		}

		deal, err := txDealRepo.GetByIDForUpdate(payment.DealID)
		if err != nil {
			return err
		}
		if deal != nil {
			deal.CommissionPaidAt = &now
			if err := txDealRepo.Update(deal); err != nil {
				return err
			}
		}

		confirmed = payment
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifySvc != nil {
		s.notifySvc.NotifyCommissionPaid(confirmed.ID)
	}
	return confirmed, nil
}

// Fail moves any non-terminal payment to failed and releases the active
// marker so a corrected payment can be created later.
func (s *CommissionService) Fail(paymentID uint, reason string) (*models.CommissionPayment, error) {
	return s.transition(paymentID, func(payment *models.CommissionPayment, _ time.Time) error {
		if constants.IsTerminalPaymentStatus(payment.PaymentStatus) {
			return ErrPaymentStatusInvalid
		}
		payment.PaymentStatus = constants.PaymentStatusFailed
		payment.ActiveDealID = nil
		payment.FailReason = strings.TrimSpace(reason)
		return nil
	})
}

// transition applies a locked read-check-write state change to one payment.
func (s *CommissionService) transition(paymentID uint, mutate func(*models.CommissionPayment, time.Time) error) (*models.CommissionPayment, error) {
	var result *models.CommissionPayment
	err := s.repo.Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		payment, err := txRepo.GetPaymentByIDForUpdate(paymentID)
		if err != nil {
			return err
		}
		if payment == nil {
			return ErrNotFound
		}
		now := time.Now()
		if err := mutate(payment, now); err != nil {
			return err
		}
		if err := txRepo.UpdatePayment(payment); err != nil {
			return err
		}
		result = payment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListPayments returns paginated payments for the admin console.
func (s *CommissionService) ListPayments(filter repository.PaymentListFilter) ([]models.CommissionPayment, int64, error) {
	return s.repo.ListPayments(filter)
}

// ListPartnerSplits returns a partner's own split ledger.
func (s *CommissionService) ListPartnerSplits(beneficiaryID uint, page, pageSize int) ([]models.PaymentSplit, int64, error) {
	return s.repo.ListSplits(repository.SplitListFilter{
		Page:          page,
		PageSize:      pageSize,
		BeneficiaryID: beneficiaryID,
	})
}

// PartnerCommissionSummary aggregates a partner's earnings.
type PartnerCommissionSummary struct {
	PendingAmount decimal.Decimal `json:"pending_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// SummaryForPartner totals a partner's splits by state.
func (s *CommissionService) SummaryForPartner(beneficiaryID uint) (*PartnerCommissionSummary, error) {
	pending, err := s.repo.SumSplitsByBeneficiary(beneficiaryID, []string{
		constants.SplitStatusPending,
		constants.SplitStatusApproved,
	})
	if err != nil {
		return nil, err
	}
	paid, err := s.repo.SumSplitsByBeneficiary(beneficiaryID, []string{constants.SplitStatusPaid})
	if err != nil {
		return nil, err
	}
	return &PartnerCommissionSummary{
		PendingAmount: pending,
		PaidAmount:    paid,
		TotalAmount:   pending.Add(paid),
	}, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
