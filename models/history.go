package models

import "time"

// Source type tags for history entries. The SourceID field is shared by
// both kinds.
const (
	HistoryTypeHabit     = "habit"
	HistoryTypeChallenge = "challenge"
)

// HistoryEntry is an immutable record of one completion event and its
// point award. DedupKey gives every qualifying completion a deterministic
// identity: sourceID@date for habits (one credit per day), bare sourceID
// for challenges (one credit ever). The unique index on
// (user_id, dedup_key) makes a duplicate insert a no-op instead of a
// double award.
type HistoryEntry struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_user_dedup" json:"user_id"`
	SourceID     string    `gorm:"size:36;index;not null" json:"source_id"`
	SourceName   string    `gorm:"size:128" json:"source_name"`
	Type         string    `gorm:"size:16;default:habit" json:"type"`
	Date         string    `gorm:"size:10;index;not null" json:"date"`
	DedupKey     string    `gorm:"size:48;not null;uniqueIndex:idx_user_dedup" json:"-"`
	PointsEarned int       `json:"points_earned"`
	Icon         string    `gorm:"size:64" json:"icon"`
	Color        string    `gorm:"size:16" json:"color"`
	CompletedAt  time.Time `json:"completed_at"`
}

// HabitDedupKey builds the deterministic identity for a habit completion.
func HabitDedupKey(habitID, date string) string {
	return habitID + "@" + date
}
