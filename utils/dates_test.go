package utils

import (
	"testing"
	"time"
)

func TestFormatDateLocal(t *testing.T) {
	d := time.Date(2026, 3, 7, 23, 45, 0, 0, time.Local)
	if got := FormatDateLocal(d); got != "2026-03-07" {
		t.Fatalf("FormatDateLocal = %q, want 2026-03-07", got)
	}
}

func TestWeekKey(t *testing.T) {
	cases := []struct {
		date string
		want string
	}{
		{"2026-01-01", "2026-W01"},
		{"2026-08-31", "2026-W36"},
		// Jan 1st 2027 falls in ISO week 53 of 2026.
		{"2027-01-01", "2026-W53"},
	}
	for _, c := range cases {
		d, err := time.ParseInLocation(DateLayout, c.date, time.Local)
		if err != nil {
			t.Fatalf("parse %s: %v", c.date, err)
		}
		if got := WeekKey(d); got != c.want {
			t.Errorf("WeekKey(%s) = %q, want %q", c.date, got, c.want)
		}
	}
}
