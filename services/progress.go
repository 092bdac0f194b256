package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/habitloop/habitloop/config"
	"github.com/habitloop/habitloop/models"
	"github.com/habitloop/habitloop/utils"
)

// ProgressService is the progress ledger: it moves habit progress and
// challenge scores, and fires the completion transition exactly when a
// counter crosses its target. The user identity is always an explicit
// parameter; nothing here reads ambient auth state.
type ProgressService struct {
	db      *gorm.DB
	history *HistoryService
}

// NewProgressService creates a ProgressService sharing the journal.
func NewProgressService(db *gorm.DB, history *HistoryService) *ProgressService {
	return &ProgressService{db: db, history: history}
}

// HabitUpdate reports the outcome of a ledger mutation on a habit.
type HabitUpdate struct {
	Habit         models.Habit `json:"habit"`
	Completed     bool         `json:"completed"`
	PointsAwarded int          `json:"points_awarded"`
}

// ChallengeUpdate reports the outcome of logging challenge progress.
type ChallengeUpdate struct {
	Challenge     models.Challenge `json:"challenge"`
	Score         int              `json:"score"`
	Completed     bool             `json:"completed"`
	PointsAwarded int              `json:"points_awarded"`
}

// IncrementHabit advances a habit by step (default 1), clamped so the
// stored progress never exceeds the target. Crossing the target records
// today's completion and credits points in the same transaction. A habit
// already at its target is a no-op error.
func (s *ProgressService) IncrementHabit(userID uint, habitID string, step int) (*HabitUpdate, error) {
	if step <= 0 {
		step = 1
	}
	var upd HabitUpdate
	err := s.db.Transaction(func(tx *gorm.DB) error {
		habit, err := loadHabit(tx, userID, habitID)
		if err != nil {
			return err
		}
		if habit.CurrentProgress >= habit.Target {
			return ErrAlreadyCompleted
		}
		next := habit.CurrentProgress + step
		if next > habit.Target {
			next = habit.Target
		}
		return s.applyProgress(tx, userID, habit, next, &upd)
	})
	if err != nil {
		return nil, err
	}
	return &upd, nil
}

// MarkHabitDone sets progress straight to the target ("mark done"),
// skipping intermediate increments. Always a completion transition since
// an already-done habit is rejected first.
func (s *ProgressService) MarkHabitDone(userID uint, habitID string) (*HabitUpdate, error) {
	var upd HabitUpdate
	err := s.db.Transaction(func(tx *gorm.DB) error {
		habit, err := loadHabit(tx, userID, habitID)
		if err != nil {
			return err
		}
		if habit.CurrentProgress >= habit.Target {
			return ErrAlreadyCompleted
		}
		return s.applyProgress(tx, userID, habit, habit.Target, &upd)
	})
	if err != nil {
		return nil, err
	}
	return &upd, nil
}

// applyProgress persists the new progress value and, when it reaches the
// target, runs the completion transition. PointsAwarded stays zero when
// the journal already holds today's entry.
func (s *ProgressService) applyProgress(tx *gorm.DB, userID uint, habit *models.Habit, next int, upd *HabitUpdate) error {
	if err := tx.Model(&models.Habit{}).Where("id = ?", habit.ID).Update("current_progress", next).Error; err != nil {
		return err
	}
	habit.CurrentProgress = next
	upd.Habit = *habit
	if next >= habit.Target {
		upd.Completed = true
		credited, err := s.history.recordHabitCompletion(tx, userID, habit, utils.Today())
		if err != nil {
			return err
		}
		if credited {
			upd.PointsAwarded = config.Get().HabitRewardPoints
		}
	}
	return nil
}

// LogChallengeProgress adds amount (default: configured step) to the
// caller's score. Requires active participation and an unfinished, still
// running challenge. Reaching the goal records the one-time completion
// entry inside the same transaction.
func (s *ProgressService) LogChallengeProgress(userID uint, challengeID string, amount int) (*ChallengeUpdate, error) {
	if amount <= 0 {
		amount = config.Get().ChallengeProgressStep
	}
	var upd ChallengeUpdate
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var ch models.Challenge
		if err := tx.Where("id = ?", challengeID).First(&ch).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if ch.Ended(utils.Today()) {
			return ErrChallengeEnded
		}

		var p models.ChallengeParticipant
		err := tx.Where("challenge_id = ? AND user_id = ?", challengeID, userID).First(&p).Error
		if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !p.Active) {
			return ErrNotParticipant
		}
		if err != nil {
			return err
		}
		if p.Score >= ch.Goal {
			return ErrGoalReached
		}

		newScore := p.Score + amount
		if err := tx.Model(&models.ChallengeParticipant{}).Where("id = ?", p.ID).
			Update("score", gorm.Expr("score + ?", amount)).Error; err != nil {
			return err
		}
		upd.Challenge = ch
		upd.Score = newScore
		if newScore >= ch.Goal {
			upd.Completed = true
			credited, err := s.history.recordChallengeCompletion(tx, userID, &ch)
			if err != nil {
				return err
			}
			if credited {
				upd.PointsAwarded = config.Get().ChallengeRewardPoints
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &upd, nil
}

func loadHabit(tx *gorm.DB, userID uint, habitID string) (*models.Habit, error) {
	var habit models.Habit
	if err := tx.Where("id = ? AND user_id = ?", habitID, userID).First(&habit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &habit, nil
}
