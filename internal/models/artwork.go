package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ArtWorkStatus string

const (
	ArtWorkStatusPending    ArtWorkStatus = "PENDING"
	ArtWorkStatusProcessing ArtWorkStatus = "PROCESSING"
	ArtWorkStatusSold       ArtWorkStatus = "SOLD"
	ArtWorkStatusUnsold     ArtWorkStatus = "UNSOLD"
)

// ArtWork represents a work listed for sale. Its status is PROCESSING only
// while the owning auction is PROCESSING, and it settles to SOLD or UNSOLD
// exactly once, when that auction terminates.
type ArtWork struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	ArtistID       uint            `gorm:"not null;index" json:"artist_id"`
	Artist         *Member         `gorm:"foreignKey:ArtistID" json:"artist,omitempty"`
	AuctionID      *uint           `gorm:"index" json:"auction_id,omitempty"`
	Title          string          `gorm:"size:255;not null" json:"title"`
	Description    string          `gorm:"type:text" json:"description"`
	Material       string          `gorm:"size:100" json:"material"`
	Size           string          `gorm:"size:100" json:"size"`
	ProductionYear int             `json:"production_year"`
	EstimatedPrice decimal.Decimal `gorm:"type:decimal(20,2);default:0" json:"estimated_price"`
	Status         ArtWorkStatus   `gorm:"size:50;not null;default:PENDING;index" json:"status"`
	WinningBidID   *uint           `json:"winning_bid_id,omitempty"`
	Images         []ArtWorkImage  `gorm:"foreignKey:ArtWorkID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// TableName specifies the table name for ArtWork model
func (ArtWork) TableName() string {
	return "art_works"
}

// ArtWorkImage is one image attached to an art work
type ArtWorkImage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ArtWorkID uint      `gorm:"not null;index" json:"art_work_id"`
	Image     string    `gorm:"size:500;not null" json:"image"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for ArtWorkImage model
func (ArtWorkImage) TableName() string {
	return "art_work_images"
}
