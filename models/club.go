package models

import "time"

// Club is an open interest group users can join and leave freely. Clubs
// do not participate in point accounting.
type Club struct {
	ID          string       `gorm:"primaryKey;size:36" json:"id"`
	Name        string       `gorm:"size:128;not null" json:"name"`
	Description string       `gorm:"size:512" json:"description"`
	Category    string       `gorm:"size:64" json:"category"`
	ImageURL    string       `gorm:"size:512" json:"image_url"`
	CreatedBy   uint         `gorm:"index;not null" json:"created_by"`
	CreatedAt   time.Time    `json:"created_at"`
	Members     []ClubMember `json:"-"`
}

// ClubMember links a user to a club.
type ClubMember struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	ClubID   string    `gorm:"size:36;not null;uniqueIndex:idx_club_user" json:"club_id"`
	UserID   uint      `gorm:"not null;uniqueIndex:idx_club_user" json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`
}
