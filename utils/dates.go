package utils

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-day format used across habits, history
// entries and hidden dates. Comparisons are plain string equality, which
// sidesteps timezone drift between the DB and the app.
const DateLayout = "2006-01-02"

// FormatDateLocal renders t as a local-time YYYY-MM-DD string.
func FormatDateLocal(t time.Time) string {
	return t.In(time.Local).Format(DateLayout)
}

// Today returns the current local calendar date string.
func Today() string {
	return FormatDateLocal(time.Now())
}

// WeekKey identifies the ISO week of t, e.g. "2026-W35". Used by the
// rollover job to detect week boundaries.
func WeekKey(t time.Time) string {
	year, week := t.In(time.Local).ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}
