package repository

import (
	"errors"

	"github.com/partnerdesk/partnerdesk/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DealRepository is the deal data access interface.
type DealRepository interface {
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) DealRepository

	Create(deal *models.Deal) error
	Update(deal *models.Deal) error
	GetByID(id uint) (*models.Deal, error)
	GetByIDForUpdate(id uint) (*models.Deal, error)
	GetByDealNo(dealNo string) (*models.Deal, error)
	List(filter DealListFilter) ([]models.Deal, int64, error)
	CountByStage(referrerID uint) (map[string]int64, error)
}

// GormDealRepository is the GORM implementation.
type GormDealRepository struct {
	db *gorm.DB
}

// NewDealRepository creates a deal repository.
func NewDealRepository(db *gorm.DB) *GormDealRepository {
	return &GormDealRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormDealRepository) WithTx(tx *gorm.DB) DealRepository {
	if tx == nil {
		return r
	}
	return &GormDealRepository{db: tx}
}

// Transaction runs fn inside a transaction.
func (r *GormDealRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

func (r *GormDealRepository) Create(deal *models.Deal) error {
	return r.db.Create(deal).Error
}

func (r *GormDealRepository) Update(deal *models.Deal) error {
	return r.db.Save(deal).Error
}

func (r *GormDealRepository) GetByID(id uint) (*models.Deal, error) {
	if id == 0 {
		return nil, nil
	}
	var deal models.Deal
	if err := r.db.Preload("Referrer").First(&deal, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &deal, nil
}

// GetByIDForUpdate loads a deal with a row lock inside a transaction.
func (r *GormDealRepository) GetByIDForUpdate(id uint) (*models.Deal, error) {
	if id == 0 {
		return nil, nil
	}
	var deal models.Deal
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&deal, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &deal, nil
}

func (r *GormDealRepository) GetByDealNo(dealNo string) (*models.Deal, error) {
	if dealNo == "" {
		return nil, nil
	}
	var deal models.Deal
	if err := r.db.Where("deal_no = ?", dealNo).First(&deal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &deal, nil
}

func (r *GormDealRepository) List(filter DealListFilter) ([]models.Deal, int64, error) {
	query := r.db.Model(&models.Deal{})

	if filter.ReferrerID != 0 {
		query = query.Where("referrer_id = ?", filter.ReferrerID)
	}
	if filter.DealNo != "" {
		query = query.Where("deal_no = ?", filter.DealNo)
	}
	if filter.DealStage != "" {
		query = query.Where("deal_stage = ?", filter.DealStage)
	}
	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		query = query.Where("business_name LIKE ? OR contact_name LIKE ? OR contact_email LIKE ?", like, like, like)
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

	if filter.WithReferrer {
		query = query.Preload("Referrer")
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var deals []models.Deal
	if err := query.Order("id DESC").Find(&deals).Error; err != nil {
		return nil, 0, err
	}
	return deals, total, nil
}

// CountByStage groups a referrer's deals by stage for the dashboard.
func (r *GormDealRepository) CountByStage(referrerID uint) (map[string]int64, error) {
	type row struct {
		DealStage string
		Total     int64
	}
	query := r.db.Model(&models.Deal{}).
		Select("deal_stage, COUNT(*) AS total").
		Group("deal_stage")
	if referrerID != 0 {
		query = query.Where("referrer_id = ?", referrerID)
	}

	var rows []row
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, item := range rows {
		counts[item.DealStage] = item.Total
	}
	return counts, nil
}
