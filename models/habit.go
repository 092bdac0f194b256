package models

import (
	"time"

	"gorm.io/datatypes"
)

// Habit is a user-owned recurring goal with a numeric daily target.
// CurrentProgress only grows within a day; the rollover job resets it
// when the local date changes.
type Habit struct {
	ID              string `gorm:"primaryKey;size:36" json:"id"`
	UserID          uint   `gorm:"index;not null" json:"user_id"`
	Name            string `gorm:"size:128;not null" json:"name"`
	Unit            string `gorm:"size:32" json:"unit"`
	Target          int    `gorm:"not null" json:"target"`
	CurrentProgress int    `gorm:"default:0" json:"current_progress"`
	StartDate       string `gorm:"size:10" json:"start_date"`
	EndDate         string `gorm:"size:10" json:"end_date"`
	Icon            string `gorm:"size:64" json:"icon"`
	IconColor       string `gorm:"size:16" json:"icon_color"`
	CardColor       string `gorm:"size:16" json:"card_color"`
	// Dates (YYYY-MM-DD) on which this habit is hidden from the daily view.
	HiddenDates   datatypes.JSONSlice[string] `json:"hidden_dates"`
	RescheduledTo string                      `gorm:"size:10" json:"rescheduled_to"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}

// Completed reports whether the habit reached its target.
func (h *Habit) Completed() bool {
	return h.CurrentProgress >= h.Target
}

// HiddenOn reports whether the habit is suppressed from the view for date.
func (h *Habit) HiddenOn(date string) bool {
	for _, d := range h.HiddenDates {
		if d == date {
			return true
		}
	}
	return false
}
