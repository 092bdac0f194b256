package services

import "errors"

// Sentinel errors returned by the services layer. Controllers translate
// these into HTTP status codes; everything else is a 500.
var (
	ErrNotFound         = errors.New("record not found")
	ErrForbidden        = errors.New("not allowed")
	ErrAlreadyCompleted = errors.New("habit already completed today")
	ErrNotParticipant   = errors.New("not a participant of this challenge")
	ErrChallengeEnded   = errors.New("challenge is past its end date")
	ErrGoalReached      = errors.New("challenge goal already reached")
)
