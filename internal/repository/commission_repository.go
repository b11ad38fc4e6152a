package repository

import (
	"errors"
	"time"

	"github.com/partnerdesk/partnerdesk/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommissionRepository is the commission payment data access interface.
type CommissionRepository interface {
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) CommissionRepository

	CreatePayment(payment *models.CommissionPayment) error
	UpdatePayment(payment *models.CommissionPayment) error
	GetPaymentByID(id uint) (*models.CommissionPayment, error)
	GetPaymentByIDForUpdate(id uint) (*models.CommissionPayment, error)
	GetActivePaymentByDeal(dealID uint) (*models.CommissionPayment, error)
	GetActivePaymentByDealForUpdate(dealID uint) (*models.CommissionPayment, error)
	GetLatestPaymentByDeal(dealID uint) (*models.CommissionPayment, error)
	ListPayments(filter PaymentListFilter) ([]models.CommissionPayment, int64, error)

	CreateSplits(splits []models.PaymentSplit) error
	ListSplitsByPayment(paymentID uint) ([]models.PaymentSplit, error)
	ListSplits(filter SplitListFilter) ([]models.PaymentSplit, int64, error)
	MarkSplitsStatus(paymentID uint, status string, updatedAt time.Time) error
	SumSplitsByBeneficiary(beneficiaryID uint, statuses []string) (decimal.Decimal, error)
}

// GormCommissionRepository is the GORM implementation.
type GormCommissionRepository struct {
	db *gorm.DB
}

// NewCommissionRepository creates a commission repository.
func NewCommissionRepository(db *gorm.DB) *GormCommissionRepository {
	return &GormCommissionRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormCommissionRepository) WithTx(tx *gorm.DB) CommissionRepository {
	if tx == nil {
		return r
	}
	return &GormCommissionRepository{db: tx}
}

// Transaction runs fn inside a transaction.
func (r *GormCommissionRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

func (r *GormCommissionRepository) CreatePayment(payment *models.CommissionPayment) error {
	return r.db.Create(payment).Error
}

func (r *GormCommissionRepository) UpdatePayment(payment *models.CommissionPayment) error {
	return r.db.Save(payment).Error
}

func (r *GormCommissionRepository) GetPaymentByID(id uint) (*models.CommissionPayment, error) {
	if id == 0 {
		return nil, nil
	}
	var payment models.CommissionPayment
	err := r.db.Preload("Splits", func(db *gorm.DB) *gorm.DB {
		return db.Order("level ASC")
	}).First(&payment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

// GetPaymentByIDForUpdate loads a payment with a row lock inside a transaction.
func (r *GormCommissionRepository) GetPaymentByIDForUpdate(id uint) (*models.CommissionPayment, error) {
	if id == 0 {
		return nil, nil
	}
	var payment models.CommissionPayment
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&payment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

// GetActivePaymentByDeal returns the payment still in flight for a deal, if any.
func (r *GormCommissionRepository) GetActivePaymentByDeal(dealID uint) (*models.CommissionPayment, error) {
	if dealID == 0 {
		return nil, nil
	}
	var payment models.CommissionPayment
	err := r.db.Where("active_deal_id = ?", dealID).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

func (r *GormCommissionRepository) GetActivePaymentByDealForUpdate(dealID uint) (*models.CommissionPayment, error) {
	if dealID == 0 {
		return nil, nil
	}
	var payment models.CommissionPayment
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("active_deal_id = ?", dealID).
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

// GetLatestPaymentByDeal returns the most recent payment for a deal in any state.
func (r *GormCommissionRepository) GetLatestPaymentByDeal(dealID uint) (*models.CommissionPayment, error) {
	if dealID == 0 {
		return nil, nil
	}
	var payment models.CommissionPayment
	err := r.db.Where("deal_id = ?", dealID).
		Order("id DESC").
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

func (r *GormCommissionRepository) ListPayments(filter PaymentListFilter) ([]models.CommissionPayment, int64, error) {
	query := r.db.Model(&models.CommissionPayment{})

	if filter.DealID != 0 {
		query = query.Where("deal_id = ?", filter.DealID)
	}
	if filter.ApprovalStatus != "" {
		query = query.Where("approval_status = ?", filter.ApprovalStatus)
	}
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.WithDeal {
		query = query.Preload("Deal")
	}
	query = query.Preload("Splits", func(db *gorm.DB) *gorm.DB {
		return db.Order("level ASC")
	})
	query = applyPagination(query, filter.Page, filter.PageSize)

	var payments []models.CommissionPayment
	if err := query.Order("id DESC").Find(&payments).Error; err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

func (r *GormCommissionRepository) CreateSplits(splits []models.PaymentSplit) error {
	if len(splits) == 0 {
		return nil
	}
	return r.db.Create(&splits).Error
}

func (r *GormCommissionRepository) ListSplitsByPayment(paymentID uint) ([]models.PaymentSplit, error) {
	if paymentID == 0 {
		return []models.PaymentSplit{}, nil
	}
	splits := make([]models.PaymentSplit, 0, 3)
	err := r.db.Where("payment_id = ?", paymentID).
		Order("level ASC").
		Find(&splits).Error
	if err != nil {
		return nil, err
	}
	return splits, nil
}

func (r *GormCommissionRepository) ListSplits(filter SplitListFilter) ([]models.PaymentSplit, int64, error) {
	query := r.db.Model(&models.PaymentSplit{})

	if filter.PaymentID != 0 {
		query = query.Where("payment_id = ?", filter.PaymentID)
	}
	if filter.DealID != 0 {
		query = query.Where("deal_id = ?", filter.DealID)
	}
	if filter.BeneficiaryID != 0 {
		query = query.Where("beneficiary_id = ?", filter.BeneficiaryID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var splits []models.PaymentSplit
	if err := query.Order("id DESC").Find(&splits).Error; err != nil {
		return nil, 0, err
	}
	return splits, total, nil
}

// MarkSplitsStatus moves every split of a payment to the given status.
func (r *GormCommissionRepository) MarkSplitsStatus(paymentID uint, status string, updatedAt time.Time) error {
	if paymentID == 0 {
		return nil
	}
	return r.db.Model(&models.PaymentSplit{}).
		Where("payment_id = ?", paymentID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": updatedAt,
		}).Error
}

// SumSplitsByBeneficiary totals split amounts for a partner across statuses.
func (r *GormCommissionRepository) SumSplitsByBeneficiary(beneficiaryID uint, statuses []string) (decimal.Decimal, error) {
	if beneficiaryID == 0 || len(statuses) == 0 {
		return decimal.Zero, nil
	}
	var row struct {
		Total decimal.Decimal `gorm:"column:total"`
	}
	err := r.db.Model(&models.PaymentSplit{}).
		Where("beneficiary_id = ? AND status IN ?", beneficiaryID, statuses).
		Select("COALESCE(SUM(amount), 0) AS total").
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Total.Round(2), nil
}
