package repository

import "time"

// UserListFilter filters partner listings.
type UserListFilter struct {
	Page            int
	PageSize        int
	Keyword         string
	Status          string
	ParentPartnerID *uint
	CreatedFrom     *time.Time
	CreatedTo       *time.Time
}

// DealListFilter filters deal listings.
type DealListFilter struct {
	Page         int
	PageSize     int
	ReferrerID   uint
	DealNo       string
	DealStage    string
	Keyword      string
	WithReferrer bool
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
}

// DealMessageListFilter filters deal activity feeds.
type DealMessageListFilter struct {
	Page     int
	PageSize int
	DealID   uint
}

// PaymentListFilter filters commission payment listings.
type PaymentListFilter struct {
	Page           int
	PageSize       int
	DealID         uint
	ApprovalStatus string
	PaymentStatus  string
	WithDeal       bool
	CreatedFrom    *time.Time
	CreatedTo      *time.Time
}

// SplitListFilter filters payment split listings.
type SplitListFilter struct {
	Page          int
	PageSize      int
	PaymentID     uint
	DealID        uint
	BeneficiaryID uint
	Status        string
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
}
