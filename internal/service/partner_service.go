package service

import (
	"context"
	"time"

	"github.com/partnerdesk/partnerdesk/internal/cache"
	"github.com/partnerdesk/partnerdesk/internal/constants"
	"github.com/partnerdesk/partnerdesk/internal/models"
	"github.com/partnerdesk/partnerdesk/internal/repository"
)

// PartnerService exposes admin operations over partner accounts.
type PartnerService struct {
	userRepo     repository.UserRepository
	hierarchySvc *HierarchyService
}

// NewPartnerService creates a partner admin service.
func NewPartnerService(userRepo repository.UserRepository, hierarchySvc *HierarchyService) *PartnerService {
	return &PartnerService{
		userRepo:     userRepo,
		hierarchySvc: hierarchySvc,
	}
}

// List returns paginated partners.
func (s *PartnerService) List(filter repository.UserListFilter) ([]models.User, int64, error) {
	return s.userRepo.List(filter)
}

// Get loads one partner.
func (s *PartnerService) Get(userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// SetStatus enables or disables a partner account. Disabling also
// revokes live sessions via the token version bump.
func (s *PartnerService) SetStatus(userID uint, status string) (*models.User, error) {
	if status != constants.UserStatusActive && status != constants.UserStatusDisabled {
		return nil, ErrStatusInvalid
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	if user.Status == status {
		return user, nil
	}

	user.Status = status
	if status == constants.UserStatusDisabled {
		now := time.Now()
		user.TokenVersion++
		user.TokenInvalidBefore = &now
	}
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	return user, nil
}

// Reparent moves a partner under a new upline partner.
func (s *PartnerService) Reparent(userID uint, newParentID *uint) (*models.User, error) {
	if err := s.hierarchySvc.Reparent(userID, newParentID); err != nil {
		return nil, err
	}
	return s.Get(userID)
}

// Team returns the partners directly under the given partner.
func (s *PartnerService) Team(parentID uint, page, pageSize int) ([]models.User, int64, error) {
	return s.userRepo.List(repository.UserListFilter{
		Page:            page,
		PageSize:        pageSize,
		ParentPartnerID: &parentID,
	})
}
