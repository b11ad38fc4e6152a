package repository

import (
	"github.com/partnerdesk/partnerdesk/internal/models"

	"gorm.io/gorm"
)

// HierarchyRepository is the partner upline cache data access interface.
type HierarchyRepository interface {
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) HierarchyRepository

	ListAncestors(childID uint) ([]models.PartnerHierarchy, error)
	ListDescendants(parentID uint) ([]models.PartnerHierarchy, error)
	ReplaceForChild(childID uint, rows []models.PartnerHierarchy) error
	DeleteByChild(childID uint) error
	DeleteAll() error
	CreateBatch(rows []models.PartnerHierarchy) error
}

// GormHierarchyRepository is the GORM implementation.
type GormHierarchyRepository struct {
	db *gorm.DB
}

// NewHierarchyRepository creates a hierarchy repository.
func NewHierarchyRepository(db *gorm.DB) *GormHierarchyRepository {
	return &GormHierarchyRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormHierarchyRepository) WithTx(tx *gorm.DB) HierarchyRepository {
	if tx == nil {
		return r
	}
	return &GormHierarchyRepository{db: tx}
}

// Transaction runs fn inside a transaction.
func (r *GormHierarchyRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// ListAncestors returns the cached upline rows for a partner ordered by level.
func (r *GormHierarchyRepository) ListAncestors(childID uint) ([]models.PartnerHierarchy, error) {
	rows := make([]models.PartnerHierarchy, 0, 2)
	err := r.db.Where("child_id = ?", childID).
		Order("level ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListDescendants returns cached rows where the partner appears as an ancestor.
func (r *GormHierarchyRepository) ListDescendants(parentID uint) ([]models.PartnerHierarchy, error) {
	var rows []models.PartnerHierarchy
	err := r.db.Where("parent_id = ?", parentID).
		Order("level ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ReplaceForChild atomically swaps the cached upline rows of one partner.
func (r *GormHierarchyRepository) ReplaceForChild(childID uint, rows []models.PartnerHierarchy) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("child_id = ?", childID).Delete(&models.PartnerHierarchy{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

func (r *GormHierarchyRepository) DeleteByChild(childID uint) error {
	return r.db.Where("child_id = ?", childID).Delete(&models.PartnerHierarchy{}).Error
}

// DeleteAll clears the cache before a full rebuild.
func (r *GormHierarchyRepository) DeleteAll() error {
	return r.db.Where("1 = 1").Delete(&models.PartnerHierarchy{}).Error
}

func (r *GormHierarchyRepository) CreateBatch(rows []models.PartnerHierarchy) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.CreateInBatches(&rows, 200).Error
}
