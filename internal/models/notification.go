package models

import (
	"time"
)

// Notification is a per-member message created on bidding and settlement
// events, listed newest first.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	MemberID  uint      `gorm:"not null;index" json:"member_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Message   string    `gorm:"type:text" json:"message"`
	Link      string    `gorm:"size:500" json:"link,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for Notification model
func (Notification) TableName() string {
	return "notifications"
}
