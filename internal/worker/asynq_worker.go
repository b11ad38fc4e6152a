package worker

import (
	"context"
	"encoding/json"

	"github.com/partnerdesk/partnerdesk/internal/logger"
	"github.com/partnerdesk/partnerdesk/internal/provider"
	"github.com/partnerdesk/partnerdesk/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer handles queued background tasks.
type Consumer struct {
	*provider.Container
}

func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{Container: c}
}

// Register binds task types to their handlers.
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskDealStageEmail, c.handleDealStageEmail)
	mux.HandleFunc(queue.TaskCommissionPaidEmail, c.handleCommissionPaidEmail)
	mux.HandleFunc(queue.TaskPartnerTreeRebuild, c.handlePartnerTreeRebuild)
}

func (c *Consumer) handleDealStageEmail(_ context.Context, task *asynq.Task) error {
	var payload queue.DealStageEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_deal_stage_email_unmarshal_failed", "error", err)
		return err
	}
	if payload.DealID == 0 {
		logger.Debugw("worker_deal_stage_email_skip_invalid_payload")
		return nil
	}
	if c.NotificationService == nil {
		logger.Warnw("worker_deal_stage_email_skip_service_nil", "deal_id", payload.DealID)
		return nil
	}
	return c.NotificationService.DeliverDealStageEmail(payload.DealID, payload.Stage)
}

func (c *Consumer) handleCommissionPaidEmail(_ context.Context, task *asynq.Task) error {
	var payload queue.CommissionPaidEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_commission_paid_email_unmarshal_failed", "error", err)
		return err
	}
	if payload.PaymentID == 0 {
		logger.Debugw("worker_commission_paid_email_skip_invalid_payload")
		return nil
	}
	if c.NotificationService == nil {
		logger.Warnw("worker_commission_paid_email_skip_service_nil", "payment_id", payload.PaymentID)
		return nil
	}
	return c.NotificationService.DeliverCommissionPaidEmails(payload.PaymentID)
}

func (c *Consumer) handlePartnerTreeRebuild(_ context.Context, task *asynq.Task) error {
	var payload queue.PartnerTreeRebuildPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_tree_rebuild_unmarshal_failed", "error", err)
		return err
	}
	if c.HierarchyService == nil {
		logger.Warnw("worker_tree_rebuild_skip_service_nil")
		return nil
	}
	if payload.UserID != 0 {
		if err := c.HierarchyService.RebuildForUser(payload.UserID); err != nil {
			logger.Warnw("worker_tree_rebuild_user_failed", "user_id", payload.UserID, "error", err)
			return err
		}
		logger.Infow("worker_tree_rebuild_user_done", "user_id", payload.UserID)
		return nil
	}
	rows, err := c.HierarchyService.RebuildAll()
	if err != nil {
		logger.Warnw("worker_tree_rebuild_all_failed", "error", err)
		return err
	}
	logger.Infow("worker_tree_rebuild_all_done", "rows", rows)
	return nil
}
