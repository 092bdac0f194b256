package services

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/habitloop/habitloop/config"
	"github.com/habitloop/habitloop/models"
	"github.com/habitloop/habitloop/utils"
)

// HistoryService owns the completion journal: the append-only record of
// completion events and the cascade that reverses their point awards on
// delete. Entries carry a deterministic dedup key, so the "has this
// already been credited" check is a unique index instead of a racy
// read-then-write.
type HistoryService struct {
	db *gorm.DB
}

// NewHistoryService creates a HistoryService.
func NewHistoryService(db *gorm.DB) *HistoryService {
	return &HistoryService{db: db}
}

// recordHabitCompletion appends today's completion entry for the habit
// and credits points, unless the habit was already credited for date.
// Returns whether a credit happened. Runs inside the caller's transaction
// so progress update, journal write and counter increment commit
// together.
func (s *HistoryService) recordHabitCompletion(tx *gorm.DB, userID uint, habit *models.Habit, date string) (bool, error) {
	points := config.Get().HabitRewardPoints
	entry := models.HistoryEntry{
		UserID:       userID,
		SourceID:     habit.ID,
		SourceName:   habit.Name,
		Type:         models.HistoryTypeHabit,
		Date:         date,
		DedupKey:     models.HabitDedupKey(habit.ID, date),
		PointsEarned: points,
		Icon:         habit.Icon,
		Color:        habit.CardColor,
		CompletedAt:  time.Now(),
	}
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&entry)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		// already credited for this day
		return false, nil
	}
	return true, addPoints(tx, userID, points, date)
}

// recordChallengeCompletion appends the one-time completion entry for a
// challenge. The dedup key is the bare challenge id: a challenge awards
// credit once, on reaching its goal, not daily.
func (s *HistoryService) recordChallengeCompletion(tx *gorm.DB, userID uint, ch *models.Challenge) (bool, error) {
	points := config.Get().ChallengeRewardPoints
	date := utils.Today()
	entry := models.HistoryEntry{
		UserID:       userID,
		SourceID:     ch.ID,
		SourceName:   ch.Title,
		Type:         models.HistoryTypeChallenge,
		Date:         date,
		DedupKey:     ch.ID,
		PointsEarned: points,
		Icon:         ch.Icon,
		Color:        ch.Color,
		CompletedAt:  time.Now(),
	}
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&entry)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	return true, addPoints(tx, userID, points, date)
}

// DeleteHabit removes a habit together with every journal entry that
// references it and reverses the earned points: the entry sum from
// total/weekly, the today-dated subset from daily. All of it commits in
// one transaction.
func (s *HistoryService) DeleteHabit(userID uint, habitID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var habit models.Habit
		if err := tx.Where("id = ? AND user_id = ?", habitID, userID).First(&habit).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		total, todays, err := sumEntries(tx, userID, habitID)
		if err != nil {
			return err
		}
		if err := tx.Where("user_id = ? AND source_id = ?", userID, habitID).Delete(&models.HistoryEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Habit{}, "id = ?", habitID).Error; err != nil {
			return err
		}
		return subtractPoints(tx, userID, total, todays)
	})
}

// DeleteChallenge removes a challenge (creator only) with the deleting
// user's journal entries for it, reverses that user's points and drops
// all participant rows.
func (s *HistoryService) DeleteChallenge(userID uint, challengeID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var ch models.Challenge
		if err := tx.Where("id = ?", challengeID).First(&ch).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if ch.CreatedBy != userID {
			return ErrForbidden
		}

		total, todays, err := sumEntries(tx, userID, challengeID)
		if err != nil {
			return err
		}
		if err := tx.Where("user_id = ? AND source_id = ?", userID, challengeID).Delete(&models.HistoryEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("challenge_id = ?", challengeID).Delete(&models.ChallengeParticipant{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Challenge{}, "id = ?", challengeID).Error; err != nil {
			return err
		}
		return subtractPoints(tx, userID, total, todays)
	})
}

// sumEntries totals the points of a user's entries for one source id,
// plus the subset dated today.
func sumEntries(tx *gorm.DB, userID uint, sourceID string) (total, todays int, err error) {
	var entries []models.HistoryEntry
	if err = tx.Where("user_id = ? AND source_id = ?", userID, sourceID).Find(&entries).Error; err != nil {
		return 0, 0, err
	}
	today := utils.Today()
	for _, e := range entries {
		total += e.PointsEarned
		if e.Date == today {
			todays += e.PointsEarned
		}
	}
	return total, todays, nil
}

// ListForUser returns the user's journal, newest date first.
func (s *HistoryService) ListForUser(userID uint) ([]models.HistoryEntry, error) {
	var entries []models.HistoryEntry
	err := s.db.Where("user_id = ?", userID).
		Order("date DESC, completed_at DESC").
		Find(&entries).Error
	return entries, err
}

// ListForDate returns the user's entries for one calendar date.
func (s *HistoryService) ListForDate(userID uint, date string) ([]models.HistoryEntry, error) {
	var entries []models.HistoryEntry
	err := s.db.Where("user_id = ? AND date = ?", userID, date).
		Order("completed_at DESC").
		Find(&entries).Error
	return entries, err
}
