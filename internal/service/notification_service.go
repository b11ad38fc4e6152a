package service

import (
	"github.com/partnerdesk/partnerdesk/internal/constants"
	"github.com/partnerdesk/partnerdesk/internal/logger"
	"github.com/partnerdesk/partnerdesk/internal/queue"
	"github.com/partnerdesk/partnerdesk/internal/repository"
)

// NotificationService fans domain events out to partners. Enqueue
// failures are logged, never surfaced; a notification must not roll
// back the state change that triggered it.
type NotificationService struct {
	queueClient *queue.Client
	emailSvc    *EmailService
	dealRepo    repository.DealRepository
	userRepo    repository.UserRepository
	commRepo    repository.CommissionRepository
}

// NewNotificationService creates a notification service.
func NewNotificationService(
	queueClient *queue.Client,
	emailSvc *EmailService,
	dealRepo repository.DealRepository,
	userRepo repository.UserRepository,
	commRepo repository.CommissionRepository,
) *NotificationService {
	return &NotificationService{
		queueClient: queueClient,
		emailSvc:    emailSvc,
		dealRepo:    dealRepo,
		userRepo:    userRepo,
		commRepo:    commRepo,
	}
}

// NotifyDealStageChanged queues a stage email to the referring partner.
func (s *NotificationService) NotifyDealStageChanged(dealID uint, stage string) {
	if s == nil || s.queueClient == nil {
		return
	}
	err := s.queueClient.EnqueueDealStageEmail(queue.DealStageEmailPayload{
		DealID: dealID,
		Stage:  stage,
	})
	if err != nil {
		logger.Warnw("deal_stage_email_enqueue_failed", "deal_id", dealID, "error", err)
	}
}

// NotifyCommissionPaid queues payout emails for every beneficiary.
func (s *NotificationService) NotifyCommissionPaid(paymentID uint) {
	if s == nil || s.queueClient == nil {
		return
	}
	err := s.queueClient.EnqueueCommissionPaidEmail(queue.CommissionPaidEmailPayload{
		PaymentID: paymentID,
	})
	if err != nil {
		logger.Warnw("commission_paid_email_enqueue_failed", "payment_id", paymentID, "error", err)
	}
}

// DeliverDealStageEmail sends the stage email for a deal. Called from
// the worker when a queued task is processed.
func (s *NotificationService) DeliverDealStageEmail(dealID uint, stage string) error {
	deal, err := s.dealRepo.GetByID(dealID)
	if err != nil {
		return err
	}
	if deal == nil {
		return nil
	}
	referrer, err := s.userRepo.GetByID(deal.ReferrerID)
	if err != nil {
		return err
	}
	if referrer == nil || referrer.Email == "" {
		return nil
	}

	err = s.emailSvc.SendDealStageEmail(referrer.Email, DealStageEmailInput{
		DealNo:       deal.DealNo,
		BusinessName: deal.BusinessName,
		StageLabel:   stageMessageBody(stage),
	})
	if err == ErrEmailServiceDisabled || err == ErrEmailServiceNotConfigured {
		logger.Debugw("deal_stage_email_skipped", "deal_id", dealID, "reason", err)
		return nil
	}
	return err
}

// DeliverCommissionPaidEmails sends payout emails to each split
// beneficiary of a paid payment.
func (s *NotificationService) DeliverCommissionPaidEmails(paymentID uint) error {
	payment, err := s.commRepo.GetPaymentByID(paymentID)
	if err != nil {
		return err
	}
	if payment == nil || payment.PaymentStatus != constants.PaymentStatusPaid {
		return nil
	}
	deal, err := s.dealRepo.GetByID(payment.DealID)
	if err != nil {
		return err
	}
	dealNo := ""
	if deal != nil {
		dealNo = deal.DealNo
	}

	var firstErr error
	for _, split := range payment.Splits {
		beneficiary, err := s.userRepo.GetByID(split.BeneficiaryID)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if beneficiary == nil || beneficiary.Email == "" {
			continue
		}
		err = s.emailSvc.SendCommissionPaidEmail(beneficiary.Email, CommissionPaidEmailInput{
			DealNo:   dealNo,
			Amount:   split.Amount,
			Currency: payment.Currency,
		})
		if err == ErrEmailServiceDisabled || err == ErrEmailServiceNotConfigured {
			logger.Debugw("commission_paid_email_skipped", "payment_id", paymentID, "reason", err)
			return nil
		}
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
