package service

import (
	"github.com/partnerdesk/partnerdesk/internal/constants"
	"github.com/partnerdesk/partnerdesk/internal/logger"
	"github.com/partnerdesk/partnerdesk/internal/models"
	"github.com/partnerdesk/partnerdesk/internal/repository"

	"gorm.io/gorm"
)

// HierarchyService maintains the partner upline cache and answers
// upline resolution queries for commission splits.
type HierarchyService struct {
	repo     repository.HierarchyRepository
	userRepo repository.UserRepository
}

// NewHierarchyService creates a hierarchy service.
func NewHierarchyService(repo repository.HierarchyRepository, userRepo repository.UserRepository) *HierarchyService {
	return &HierarchyService{repo: repo, userRepo: userRepo}
}

// UplineChain holds the resolved beneficiaries for one referrer, indexed
// by level. Entry 0 is always the referrer; entries 1 and 2 are present
// only when the corresponding ancestor exists and is active.
type UplineChain struct {
	Beneficiaries []UplineBeneficiary
}

// UplineBeneficiary is one resolved upline member.
type UplineBeneficiary struct {
	UserID uint
	Level  int
}

// ResolveUpline returns the referrer plus up to MaxUplineLevels active
// ancestors. The cache table is consulted first; on a miss the parent
// pointer chain is walked directly, which also covers partners created
// before the cache existed.
func (s *HierarchyService) ResolveUpline(referrerID uint) (*UplineChain, error) {
	referrer, err := s.userRepo.GetByID(referrerID)
	if err != nil {
		return nil, err
	}
	if referrer == nil {
		return nil, ErrNotFound
	}

	chain := &UplineChain{
		Beneficiaries: []UplineBeneficiary{{UserID: referrer.ID, Level: 0}},
	}

	rows, err := s.repo.ListAncestors(referrerID)
	if err != nil {
		return nil, err
	}

	ancestorIDs := make([]uint, 0, constants.MaxUplineLevels)
	if len(rows) > 0 {
		// Rows are ordered by level; position in ancestorIDs must equal
		// level-1, so a gap in the cached levels ends the chain rather
		// than promoting a higher ancestor into the missing tier.
		for _, row := range rows {
			if row.Level != len(ancestorIDs)+1 || row.Level > constants.MaxUplineLevels {
				break
			}
			ancestorIDs = append(ancestorIDs, row.ParentID)
		}
	} else {
		ancestorIDs, err = s.walkParentChain(referrer)
		if err != nil {
			return nil, err
		}
	}

	for i, ancestorID := range ancestorIDs {
		ancestor, err := s.userRepo.GetByID(ancestorID)
		if err != nil {
			return nil, err
		}
		if ancestor == nil || ancestor.Status != constants.UserStatusActive {
			// A missing or disabled ancestor ends the chain; levels
			// beyond it never leapfrog to a higher ancestor.
			break
		}
		chain.Beneficiaries = append(chain.Beneficiaries, UplineBeneficiary{
			UserID: ancestor.ID,
			Level:  i + 1,
		})
	}

	return chain, nil
}

// walkParentChain follows parent pointers up to MaxUplineLevels with a
// visited set guarding against pointer cycles.
func (s *HierarchyService) walkParentChain(start *models.User) ([]uint, error) {
	visited := map[uint]bool{start.ID: true}
	ancestorIDs := make([]uint, 0, constants.MaxUplineLevels)

	current := start
	for level := 1; level <= constants.MaxUplineLevels; level++ {
		if current.ParentPartnerID == nil || *current.ParentPartnerID == 0 {
			break
		}
		parentID := *current.ParentPartnerID
		if visited[parentID] {
			logger.Warnw("partner_hierarchy_cycle", "partner_id", start.ID, "at", parentID)
			return nil, ErrHierarchyCycle
		}
		visited[parentID] = true

		parent, err := s.userRepo.GetByID(parentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			break
		}
		ancestorIDs = append(ancestorIDs, parent.ID)
		current = parent
	}
	return ancestorIDs, nil
}

// RebuildForUser refreshes the cached upline rows of a single partner
// from the live parent pointers.
func (s *HierarchyService) RebuildForUser(userID uint) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}

	ancestorIDs, err := s.walkParentChain(user)
	if err != nil {
		return err
	}

	rows := make([]models.PartnerHierarchy, 0, len(ancestorIDs))
	for i, ancestorID := range ancestorIDs {
		rows = append(rows, models.PartnerHierarchy{
			ChildID:  userID,
			ParentID: ancestorID,
			Level:    i + 1,
		})
	}
	return s.repo.ReplaceForChild(userID, rows)
}

// RebuildAll regenerates the whole upline cache from parent pointers.
// Partners on a broken chain are skipped and reported, not fatal.
func (s *HierarchyService) RebuildAll() (int, error) {
	users, err := s.userRepo.ListAll()
	if err != nil {
		return 0, err
	}

	rows := make([]models.PartnerHierarchy, 0, len(users)*constants.MaxUplineLevels)
	skipped := 0
	for i := range users {
		ancestorIDs, err := s.walkParentChain(&users[i])
		if err != nil {
			logger.Warnw("hierarchy_rebuild_skip", "partner_id", users[i].ID, "error", err)
			skipped++
			continue
		}
		for level, ancestorID := range ancestorIDs {
			rows = append(rows, models.PartnerHierarchy{
				ChildID:  users[i].ID,
				ParentID: ancestorID,
				Level:    level + 1,
			})
		}
	}

	err = s.repo.Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.DeleteAll(); err != nil {
			return err
		}
		return txRepo.CreateBatch(rows)
	})
	if err != nil {
		return 0, err
	}

	logger.Infow("hierarchy_rebuild_done", "rows", len(rows), "skipped", skipped)
	return len(rows), nil
}

// Reparent moves a partner under a new parent (or to the root when
// newParentID is nil) and refreshes the affected cache rows.
func (s *HierarchyService) Reparent(userID uint, newParentID *uint) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}

	if newParentID != nil {
		if *newParentID == userID {
			return ErrParentSameAsReferrer
		}
		parent, err := s.userRepo.GetByID(*newParentID)
		if err != nil {
			return err
		}
		if parent == nil {
			return ErrNotFound
		}
		// Reject a parent that is currently below this partner.
		ancestorIDs, err := s.walkParentChain(parent)
		if err != nil {
			return err
		}
		for _, ancestorID := range ancestorIDs {
			if ancestorID == userID {
				return ErrHierarchyCycle
			}
		}
		if parent.ParentPartnerID != nil && *parent.ParentPartnerID == userID {
			return ErrHierarchyCycle
		}
	}

	user.ParentPartnerID = newParentID
	if err := s.userRepo.Update(user); err != nil {
		return err
	}
	if err := s.RebuildForUser(userID); err != nil {
		return err
	}

	// Children cache rows reference this partner's upline; refresh them.
	descendants, err := s.repo.ListDescendants(userID)
	if err != nil {
		return err
	}
	seen := map[uint]bool{}
	for _, row := range descendants {
		if seen[row.ChildID] {
			continue
		}
		seen[row.ChildID] = true
		if err := s.RebuildForUser(row.ChildID); err != nil {
			logger.Warnw("hierarchy_child_refresh_failed", "child_id", row.ChildID, "error", err)
		}
	}
	return nil
}
