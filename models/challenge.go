package models

import "time"

// Challenge is a shared goal with a single cumulative per-user score.
// Unlike habits it is not owned by one user: it has a creator and a set
// of participants, modeled as ChallengeParticipant rows.
type Challenge struct {
	ID           string                 `gorm:"primaryKey;size:36" json:"id"`
	Title        string                 `gorm:"size:128;not null" json:"title"`
	Description  string                 `gorm:"size:512" json:"description"`
	Unit         string                 `gorm:"size:32" json:"unit"`
	Goal         int                    `gorm:"not null" json:"goal"`
	EndDate      string                 `gorm:"size:10" json:"end_date"`
	Icon         string                 `gorm:"size:64" json:"icon"`
	Color        string                 `gorm:"size:16" json:"color"`
	CreatedBy    uint                   `gorm:"index;not null" json:"created_by"`
	CreatedAt    time.Time              `json:"created_at"`
	Participants []ChallengeParticipant `json:"-"`
}

// Ended reports whether the challenge is past its end date. The end day
// itself still counts.
func (c *Challenge) Ended(today string) bool {
	return c.EndDate != "" && today > c.EndDate
}

// ChallengeParticipant carries one participant's cumulative score.
// Leaving a challenge flips Active off but keeps the row, so the score
// survives a rejoin.
type ChallengeParticipant struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ChallengeID string    `gorm:"size:36;not null;uniqueIndex:idx_challenge_user" json:"challenge_id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_challenge_user" json:"user_id"`
	Score       int       `gorm:"default:0" json:"score"`
	Active      bool      `gorm:"default:true" json:"active"`
	JoinedAt    time.Time `json:"joined_at"`
}
