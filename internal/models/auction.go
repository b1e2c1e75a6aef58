package models

import (
	"time"
)

type AuctionStatus string

const (
	AuctionStatusScheduled  AuctionStatus = "SCHEDULED"
	AuctionStatusProcessing AuctionStatus = "PROCESSING"
	AuctionStatusTerminated AuctionStatus = "TERMINATED"
)

// Auction represents one auction round. Turn is the business key: exactly
// one auction exists per turn, and its status only ever moves forward
// (SCHEDULED -> PROCESSING -> TERMINATED).
type Auction struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	Turn      int           `gorm:"uniqueIndex;not null" json:"turn"`
	StartDate time.Time     `gorm:"not null" json:"start_date"`
	EndDate   time.Time     `gorm:"not null" json:"end_date"`
	Status    AuctionStatus `gorm:"size:50;not null;default:SCHEDULED;index" json:"status"`
	ArtWorks  []ArtWork     `gorm:"foreignKey:AuctionID" json:"art_works,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// TableName specifies the table name for Auction model
func (Auction) TableName() string {
	return "auctions"
}
