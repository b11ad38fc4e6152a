package queue

import (
	"encoding/json"

	"github.com/partnerdesk/partnerdesk/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskDealStageEmail notifies the referrer of a deal stage change.
	TaskDealStageEmail = constants.TaskDealStageEmail
	// TaskCommissionPaidEmail notifies beneficiaries of a payout.
	TaskCommissionPaidEmail = constants.TaskCommissionPaidEmail
	// TaskPartnerTreeRebuild regenerates the partner upline cache.
	TaskPartnerTreeRebuild = constants.TaskPartnerTreeRebuild
)

// DealStageEmailPayload is the stage notification task payload.
type DealStageEmailPayload struct {
	DealID uint   `json:"deal_id"`
	Stage  string `json:"stage"`
}

// CommissionPaidEmailPayload is the payout notification task payload.
type CommissionPaidEmailPayload struct {
	PaymentID uint `json:"payment_id"`
}

// PartnerTreeRebuildPayload is the hierarchy rebuild task payload. A
// zero UserID means rebuild the whole tree.
type PartnerTreeRebuildPayload struct {
	UserID uint `json:"user_id"`
}

// NewDealStageEmailTask creates a stage notification task.
func NewDealStageEmailTask(payload DealStageEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDealStageEmail, body), nil
}

// NewCommissionPaidEmailTask creates a payout notification task.
func NewCommissionPaidEmailTask(payload CommissionPaidEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCommissionPaidEmail, body), nil
}

// NewPartnerTreeRebuildTask creates a hierarchy rebuild task.
func NewPartnerTreeRebuildTask(payload PartnerTreeRebuildPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPartnerTreeRebuild, body), nil
}
