package repository

import (
	"github.com/partnerdesk/partnerdesk/internal/models"

	"gorm.io/gorm"
)

// DealMessageRepository is the deal activity feed data access interface.
type DealMessageRepository interface {
	Create(message *models.DealMessage) error
	WithTx(tx *gorm.DB) DealMessageRepository
	List(filter DealMessageListFilter) ([]models.DealMessage, int64, error)
}

// GormDealMessageRepository is the GORM implementation.
type GormDealMessageRepository struct {
	db *gorm.DB
}

// NewDealMessageRepository creates a deal message repository.
func NewDealMessageRepository(db *gorm.DB) *GormDealMessageRepository {
	return &GormDealMessageRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormDealMessageRepository) WithTx(tx *gorm.DB) DealMessageRepository {
	if tx == nil {
		return r
	}
	return &GormDealMessageRepository{db: tx}
}

func (r *GormDealMessageRepository) Create(message *models.DealMessage) error {
	return r.db.Create(message).Error
}

func (r *GormDealMessageRepository) List(filter DealMessageListFilter) ([]models.DealMessage, int64, error) {
	query := r.db.Model(&models.DealMessage{})
	if filter.DealID != 0 {
		query = query.Where("deal_id = ?", filter.DealID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var messages []models.DealMessage
	if err := query.Order("id DESC").Find(&messages).Error; err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}
