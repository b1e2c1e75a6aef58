package models

import (
	"time"
)

type MemberRole string

const (
	MemberRoleUser   MemberRole = "ROLE_USER"
	MemberRoleArtist MemberRole = "ROLE_ARTIST"
)

// Member represents a registered account, either a collector or an artist.
// Artists carry the extra profile fields below.
type Member struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Username  string     `gorm:"size:100;not null" json:"username"`
	LoginID   string     `gorm:"uniqueIndex;size:100;not null" json:"login_id"`
	Email     string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string     `gorm:"size:255;not null" json:"-"`
	Telephone string     `gorm:"size:50" json:"telephone"`
	Role      MemberRole `gorm:"size:50;not null;default:ROLE_USER" json:"role"`
	Image     string     `gorm:"size:500" json:"image,omitempty"`

	// Artist profile
	Education   string `gorm:"size:255" json:"education,omitempty"`
	History     string `gorm:"type:text" json:"history,omitempty"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	Instagram   string `gorm:"size:255" json:"instagram,omitempty"`
	Behance     string `gorm:"size:255" json:"behance,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Member model
func (Member) TableName() string {
	return "members"
}

// IsArtist reports whether the member registered as an artist
func (m *Member) IsArtist() bool {
	return m.Role == MemberRoleArtist
}
