package models

import (
	"time"

	"gorm.io/gorm"
)

// User is a partner account in the referral hierarchy.
type User struct {
	ID              uint       `gorm:"primarykey" json:"id"`
	Email           string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash    string     `gorm:"not null" json:"-"`
	DisplayName     string     `gorm:"default:''" json:"display_name"`
	Phone           string     `gorm:"type:varchar(32);default:''" json:"phone"`
	ParentPartnerID *uint      `gorm:"index" json:"parent_partner_id,omitempty"` // own upline; forms the referral tree
	PartnerLevel    int        `gorm:"not null;default:1" json:"partner_level"`
	ReferralCode    string     `gorm:"type:varchar(16);uniqueIndex;not null" json:"referral_code"`
	Status          string     `gorm:"type:varchar(16);default:'active'" json:"status"`

	// Payout banking details (UK domestic)
	BankName          string `gorm:"type:varchar(64);default:''" json:"bank_name"`
	BankAccountName   string `gorm:"type:varchar(128);default:''" json:"bank_account_name"`
	BankAccountNumber string `gorm:"type:varchar(16);default:''" json:"bank_account_number"`
	BankSortCode      string `gorm:"type:varchar(8);default:''" json:"bank_sort_code"`

	TokenVersion       uint64         `gorm:"not null;default:0" json:"-"`
	TokenInvalidBefore *time.Time     `gorm:"index" json:"-"`
	LastLoginAt        *time.Time     `json:"last_login_at"`
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"index" json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`

	ParentPartner *User `gorm:"foreignKey:ParentPartnerID" json:"parent_partner,omitempty"`
}

// TableName sets the table name.
func (User) TableName() string {
	return "users"
}
