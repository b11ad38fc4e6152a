package models

import "time"

// PaymentSplit is one beneficiary's fixed share of a commission payment,
// the immutable ledger entry. Percentage and amount are fixed at creation
// and never change, even if the parent payment's gross amount is edited
// later; only a new payment/split set reflects a new amount.
type PaymentSplit struct {
	ID            uint   `gorm:"primarykey" json:"id"`
	PaymentID     uint   `gorm:"not null;index" json:"payment_id"`
	DealID        uint   `gorm:"not null;index" json:"deal_id"`
	BeneficiaryID uint   `gorm:"not null;index" json:"beneficiary_id"`
	Level         int    `gorm:"not null" json:"level"` // 0 = direct referrer, 1/2 = upline
	Percentage    Money  `gorm:"type:decimal(10,2);not null" json:"percentage"`
	Amount        Money  `gorm:"type:decimal(20,2);not null" json:"amount"`
	Status        string `gorm:"type:varchar(16);not null;index" json:"status"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Beneficiary User `gorm:"foreignKey:BeneficiaryID" json:"beneficiary,omitempty"`
}

// TableName sets the table name.
func (PaymentSplit) TableName() string {
	return "payment_splits"
}
