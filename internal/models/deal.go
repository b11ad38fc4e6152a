package models

import (
	"time"

	"gorm.io/gorm"
)

// Deal is a merchant lead submitted by a partner, tracked through the
// pipeline stages to a live/completed outcome.
type Deal struct {
	ID               uint   `gorm:"primarykey" json:"id"`
	DealNo           string `gorm:"type:varchar(20);uniqueIndex;not null" json:"deal_no"`
	ReferrerID       uint   `gorm:"not null;index" json:"referrer_id"`
	ParentReferrerID *uint  `gorm:"index" json:"parent_referrer_id,omitempty"` // upline beneficiary snapshot at submission

	// Merchant identity
	BusinessName  string `gorm:"type:varchar(128);not null" json:"business_name"`
	BusinessType  string `gorm:"type:varchar(64);default:''" json:"business_type"`
	ContactName   string `gorm:"type:varchar(128);default:''" json:"contact_name"`
	ContactEmail  string `gorm:"type:varchar(128);default:''" json:"contact_email"`
	ContactPhone  string `gorm:"type:varchar(32);default:''" json:"contact_phone"`
	Postcode      string `gorm:"type:varchar(10);default:''" json:"postcode"`

	// dealStage is authoritative; customerJourneyStatus is a derived legacy
	// mirror kept in sync by the stage mapper on every stage change.
	DealStage             string `gorm:"type:varchar(32);not null;index" json:"deal_stage"`
	CustomerJourneyStatus string `gorm:"type:varchar(32);not null" json:"customer_journey_status"`

	EstimatedCommission Money      `gorm:"type:decimal(20,2);not null;default:0" json:"estimated_commission"`
	ActualCommission    Money      `gorm:"type:decimal(20,2);not null;default:0" json:"actual_commission"`
	CommissionCreatedAt *time.Time `gorm:"index" json:"commission_created_at,omitempty"`
	CommissionPaidAt    *time.Time `gorm:"index" json:"commission_paid_at,omitempty"`

	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Referrer       User  `gorm:"foreignKey:ReferrerID" json:"referrer,omitempty"`
	ParentReferrer *User `gorm:"foreignKey:ParentReferrerID" json:"parent_referrer,omitempty"`
}

// TableName sets the table name.
func (Deal) TableName() string {
	return "deals"
}
