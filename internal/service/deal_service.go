package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/partnerdesk/partnerdesk/internal/constants"
	"github.com/partnerdesk/partnerdesk/internal/logger"
	"github.com/partnerdesk/partnerdesk/internal/models"
	"github.com/partnerdesk/partnerdesk/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	dealNoPrefix     = "DL"
	dealNoRandLength = 6
	// Ambiguous characters removed so deal numbers survive being read aloud.
	dealNoAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// DealService manages the merchant deal pipeline.
type DealService struct {
	repo        repository.DealRepository
	messageRepo repository.DealMessageRepository
	userRepo    repository.UserRepository
	notifySvc   *NotificationService
}

// NewDealService creates a deal service.
func NewDealService(
	repo repository.DealRepository,
	messageRepo repository.DealMessageRepository,
	userRepo repository.UserRepository,
	notifySvc *NotificationService,
) *DealService {
	return &DealService{
		repo:        repo,
		messageRepo: messageRepo,
		userRepo:    userRepo,
		notifySvc:   notifySvc,
	}
}

// DealSubmitInput carries a new merchant referral.
type DealSubmitInput struct {
	ReferrerID          uint
	BusinessName        string
	BusinessType        string
	ContactName         string
	ContactEmail        string
	ContactPhone        string
	Postcode            string
	EstimatedCommission decimal.Decimal
}

// SubmitDeal records a new deal at the start of the pipeline. The
// referrer's direct parent is snapshotted so later reparenting cannot
// rewrite the attribution of deals already in flight.
func (s *DealService) SubmitDeal(input DealSubmitInput) (*models.Deal, error) {
	referrer, err := s.userRepo.GetByID(input.ReferrerID)
	if err != nil {
		return nil, err
	}
	if referrer == nil {
		return nil, ErrNotFound
	}
	if referrer.Status != constants.UserStatusActive {
		return nil, ErrUserDisabled
	}

	stage := constants.DealStageQuoteRequestReceived
	deal := &models.Deal{
		ReferrerID:            referrer.ID,
		ParentReferrerID:      referrer.ParentPartnerID,
		BusinessName:          strings.TrimSpace(input.BusinessName),
		BusinessType:          strings.TrimSpace(input.BusinessType),
		ContactName:           strings.TrimSpace(input.ContactName),
		ContactEmail:          strings.ToLower(strings.TrimSpace(input.ContactEmail)),
		ContactPhone:          strings.TrimSpace(input.ContactPhone),
		Postcode:              strings.ToUpper(strings.TrimSpace(input.Postcode)),
		DealStage:             stage,
		CustomerJourneyStatus: JourneyForStage(stage),
		EstimatedCommission:   models.NewMoneyFromDecimal(input.EstimatedCommission.Round(2)),
	}

	// Retry on the rare deal number collision.
	for attempt := 0; attempt < 3; attempt++ {
		dealNo, err := generateDealNo()
		if err != nil {
			return nil, err
		}
		deal.DealNo = dealNo
		if err := s.repo.Create(deal); err != nil {
			if isUniqueViolation(err) {
				continue
			}
			return nil, err
		}
		break
	}
	if deal.ID == 0 {
		return nil, fmt.Errorf("deal number allocation failed")
	}

	s.appendSystemMessage(nil, deal.ID, "Quote request received")
	return deal, nil
}

// DealStageUpdateInput carries a stage transition request.
type DealStageUpdateInput struct {
	DealID  uint
	Stage   string
	AdminID uint
	Note    string
}

// UpdateStage moves a deal to a new pipeline stage, keeps the customer
// journey label in sync and posts a feed message. The partner is
// notified asynchronously.
func (s *DealService) UpdateStage(input DealStageUpdateInput) (*models.Deal, error) {
	if !constants.IsValidDealStage(input.Stage) {
		return nil, ErrDealStageInvalid
	}

	var updated *models.Deal
	err := s.repo.Transaction(func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		deal, err := txRepo.GetByIDForUpdate(input.DealID)
		if err != nil {
			return err
		}
		if deal == nil {
			return ErrNotFound
		}
		if deal.DealStage == input.Stage {
			updated = deal
			return nil
		}

		deal.DealStage = input.Stage
		deal.CustomerJourneyStatus = JourneyForStage(input.Stage)
		if err := txRepo.Update(deal); err != nil {
			return err
		}

		body := stageMessageBody(input.Stage)
		if note := strings.TrimSpace(input.Note); note != "" {
			body = body + ": " + note
		}
		adminID := input.AdminID
		message := &models.DealMessage{
			DealID:     deal.ID,
			AuthorType: constants.DealMessageAuthorAdmin,
			AuthorID:   &adminID,
			Body:       body,
		}
		if err := s.messageRepo.WithTx(tx).Create(message); err != nil {
			return err
		}

		updated = deal
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifySvc != nil {
		s.notifySvc.NotifyDealStageChanged(updated.ID, updated.DealStage)
	}
	return updated, nil
}

// stageMessageBody renders the human-readable feed line for a stage.
func stageMessageBody(stage string) string {
	switch stage {
	case constants.DealStageQuoteRequestReceived:
		return "Quote request received"
	case constants.DealStageQuoteSent:
		return "Quote sent"
	case constants.DealStageQuoteApproved:
		return "Quote approved"
	case constants.DealStageAgreementSent:
		return "Agreement sent"
	case constants.DealStageSignedAwaitingDocs:
		return "Signed, awaiting documents"
	case constants.DealStageApproved:
		return "Application approved"
	case constants.DealStageLiveConfirmLTR:
		return "Account live"
	case constants.DealStageInvoiceReceived:
		return "Invoice received"
	case constants.DealStageCompleted:
		return "Deal completed"
	case constants.DealStageDeclined:
		return "Application declined"
	default:
		return "Stage updated"
	}
}

// GetDeal loads one deal by id.
func (s *DealService) GetDeal(dealID uint) (*models.Deal, error) {
	deal, err := s.repo.GetByID(dealID)
	if err != nil {
		return nil, err
	}
	if deal == nil {
		return nil, ErrNotFound
	}
	return deal, nil
}

// GetDealForPartner loads a deal only when it belongs to the partner.
func (s *DealService) GetDealForPartner(dealID, partnerID uint) (*models.Deal, error) {
	deal, err := s.GetDeal(dealID)
	if err != nil {
		return nil, err
	}
	if deal.ReferrerID != partnerID {
		return nil, ErrNotFound
	}
	return deal, nil
}

// ListDeals returns paginated deals.
func (s *DealService) ListDeals(filter repository.DealListFilter) ([]models.Deal, int64, error) {
	return s.repo.List(filter)
}

// ListMessages returns the activity feed of a deal.
func (s *DealService) ListMessages(dealID uint, page, pageSize int) ([]models.DealMessage, int64, error) {
	return s.messageRepo.List(repository.DealMessageListFilter{
		Page:     page,
		PageSize: pageSize,
		DealID:   dealID,
	})
}

// PostPartnerMessage appends a partner-authored message to a deal the
// partner owns.
func (s *DealService) PostPartnerMessage(dealID, partnerID uint, body string) (*models.DealMessage, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrMessageEmpty
	}
	if _, err := s.GetDealForPartner(dealID, partnerID); err != nil {
		return nil, err
	}
	authorID := partnerID
	message := &models.DealMessage{
		DealID:     dealID,
		AuthorType: constants.DealMessageAuthorPartner,
		AuthorID:   &authorID,
		Body:       body,
	}
	if err := s.messageRepo.Create(message); err != nil {
		return nil, err
	}
	return message, nil
}

// PostAdminMessage appends an admin-authored message to a deal thread.
func (s *DealService) PostAdminMessage(dealID, adminID uint, body string) (*models.DealMessage, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrMessageEmpty
	}
	if _, err := s.GetDeal(dealID); err != nil {
		return nil, err
	}
	authorID := adminID
	message := &models.DealMessage{
		DealID:     dealID,
		AuthorType: constants.DealMessageAuthorAdmin,
		AuthorID:   &authorID,
		Body:       body,
	}
	if err := s.messageRepo.Create(message); err != nil {
		return nil, err
	}
	return message, nil
}

// PartnerDashboard aggregates a partner's pipeline counts.
type PartnerDashboard struct {
	TotalDeals  int64            `json:"total_deals"`
	LiveDeals   int64            `json:"live_deals"`
	StageCounts map[string]int64 `json:"stage_counts"`
	TeamSize    int64            `json:"team_size"`
}

// DashboardForPartner builds the partner home screen counters.
func (s *DealService) DashboardForPartner(partnerID uint) (*PartnerDashboard, error) {
	counts, err := s.repo.CountByStage(partnerID)
	if err != nil {
		return nil, err
	}

	var total, live int64
	for stage, count := range counts {
		total += count
		if stage == constants.DealStageLiveConfirmLTR ||
			stage == constants.DealStageInvoiceReceived ||
			stage == constants.DealStageCompleted {
			live += count
		}
	}

	teamSize, err := s.userRepo.CountChildren(partnerID)
	if err != nil {
		return nil, err
	}

	return &PartnerDashboard{
		TotalDeals:  total,
		LiveDeals:   live,
		StageCounts: counts,
		TeamSize:    teamSize,
	}, nil
}

func (s *DealService) appendSystemMessage(tx *gorm.DB, dealID uint, body string) {
	message := &models.DealMessage{
		DealID:     dealID,
		AuthorType: constants.DealMessageAuthorSystem,
		Body:       body,
	}
	repo := s.messageRepo
	if tx != nil {
		repo = repo.WithTx(tx)
	}
	if err := repo.Create(message); err != nil {
		logger.Warnw("deal_message_write_failed", "deal_id", dealID, "error", err)
	}
}

// generateDealNo builds a short human-friendly deal reference.
func generateDealNo() (string, error) {
	var builder strings.Builder
	builder.WriteString(dealNoPrefix)
	builder.WriteByte('-')
	max := big.NewInt(int64(len(dealNoAlphabet)))
	for i := 0; i < dealNoRandLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		builder.WriteByte(dealNoAlphabet[n.Int64()])
	}
	return builder.String(), nil
}
