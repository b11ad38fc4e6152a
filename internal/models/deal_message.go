package models

import "time"

// DealMessage is one entry in a deal's status/message feed, readable by the
// referring partner.
type DealMessage struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	DealID     uint      `gorm:"not null;index" json:"deal_id"`
	AuthorType string    `gorm:"type:varchar(16);not null" json:"author_type"` // system / admin / partner
	AuthorID   *uint     `json:"author_id,omitempty"`
	Body       string    `gorm:"type:varchar(1024);not null" json:"body"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

// TableName sets the table name.
func (DealMessage) TableName() string {
	return "deal_messages"
}
