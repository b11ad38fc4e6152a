package models

import (
	"time"

	"gorm.io/gorm"
)

// CommissionPayment is the aggregate payout record for one deal.
//
// ActiveDealID carries the deal id while the payment is non-terminal and is
// cleared on paid/failed; its unique index enforces at most one active
// commission per deal at the database level rather than by application
// check alone.
type CommissionPayment struct {
	ID           uint   `gorm:"primarykey" json:"id"`
	DealID       uint   `gorm:"not null;index" json:"deal_id"`
	ActiveDealID *uint  `gorm:"uniqueIndex" json:"-"`
	Currency     string `gorm:"type:varchar(3);not null;default:'GBP'" json:"currency"`

	GrossAmount     Money `gorm:"type:decimal(20,2);not null;default:0" json:"gross_amount"`
	AllocatedAmount Money `gorm:"type:decimal(20,2);not null;default:0" json:"allocated_amount"` // sum of split amounts at creation

	ApprovalStatus string `gorm:"type:varchar(16);not null;index" json:"approval_status"`
	PaymentStatus  string `gorm:"type:varchar(16);not null;index" json:"payment_status"`

	EvidenceURL string `gorm:"type:varchar(512);default:''" json:"evidence_url"`
	Notes       string `gorm:"type:varchar(1024);default:''" json:"notes"`
	QueryReason string `gorm:"type:varchar(512);default:''" json:"query_reason"`
	FailReason  string `gorm:"type:varchar(512);default:''" json:"fail_reason"`

	PaymentReference string `gorm:"type:varchar(64);default:''" json:"payment_reference"`
	PaymentMethod    string `gorm:"type:varchar(32);default:''" json:"payment_method"`

	CreatedBy  uint       `gorm:"not null" json:"created_by"`
	ApprovedBy *uint      `json:"approved_by,omitempty"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	PaidBy     *uint      `json:"paid_by,omitempty"`
	PaidAt     *time.Time `gorm:"index" json:"paid_at,omitempty"`

	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Deal   Deal           `gorm:"foreignKey:DealID" json:"deal,omitempty"`
	Splits []PaymentSplit `gorm:"foreignKey:PaymentID" json:"splits,omitempty"`
}

// TableName sets the table name.
func (CommissionPayment) TableName() string {
	return "commission_payments"
}
