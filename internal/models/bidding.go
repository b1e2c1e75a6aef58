package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bidding is one bid placed on an art work while its auction is running.
// Settlement only ever asks whether at least one bid exists for an art work;
// the highest bid is additionally recorded on the art work at termination.
type Bidding struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	ArtWorkID uint            `gorm:"not null;index" json:"art_work_id"`
	ArtWork   *ArtWork        `gorm:"foreignKey:ArtWorkID" json:"art_work,omitempty"`
	MemberID  uint            `gorm:"not null;index" json:"member_id"`
	Member    *Member         `gorm:"foreignKey:MemberID" json:"member,omitempty"`
	Price     decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"price"`
	CreatedAt time.Time       `json:"created_at"`
}

// TableName specifies the table name for Bidding model
func (Bidding) TableName() string {
	return "biddings"
}
