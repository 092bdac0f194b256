package models

import "time"

// Notification kinds surfaced in the in-app feed.
const (
	NotifTypeStreak    = "streak"
	NotifTypeChallenge = "challenge"
	NotifTypeInfo      = "info"
)

// Notification is an in-app message shown in the user's notification
// feed. Rows are written best-effort on completion transitions; delivery
// channels (push etc.) are out of scope.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Title     string    `gorm:"size:128" json:"title"`
	Body      string    `gorm:"size:512" json:"body"`
	Type      string    `gorm:"size:16;default:info" json:"type"`
	IsRead    bool      `gorm:"default:false" json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
