package services

import (
	"errors"
	"sync"
	"testing"

	"gorm.io/gorm"

	"github.com/habitloop/habitloop/models"
	"github.com/habitloop/habitloop/utils"
)

func TestRecordHabitCompletionCreditsOncePerDay(t *testing.T) {
	db := newTestDB(t)
	history := NewHistoryService(db)
	user := createUser(t, db, "runner")
	habit := createHabit(t, db, user.ID, 5)
	today := utils.Today()

	credited, err := history.recordHabitCompletion(db, user.ID, &habit, today)
	if err != nil {
		t.Fatalf("first record: %v", err)
	}
	if !credited {
		t.Fatal("first record should credit")
	}

	credited, err = history.recordHabitCompletion(db, user.ID, &habit, today)
	if err != nil {
		t.Fatalf("second record: %v", err)
	}
	if credited {
		t.Fatal("duplicate record must not credit again")
	}

	total, _, daily := userPoints(t, db, user.ID)
	if total != 50 || daily != 50 {
		t.Fatalf("counters total=%d daily=%d, want 50/50", total, daily)
	}

	var count int64
	db.Model(&models.HistoryEntry{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 1 {
		t.Fatalf("history entries = %d, want 1", count)
	}
}

func TestRecordHabitCompletionConcurrent(t *testing.T) {
	db := newTestDB(t)
	history := NewHistoryService(db)
	user := createUser(t, db, "runner")
	habit := createHabit(t, db, user.ID, 5)
	today := utils.Today()

	var wg sync.WaitGroup
	credits := make(chan bool, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := db.Transaction(func(tx *gorm.DB) error {
				credited, err := history.recordHabitCompletion(tx, user.ID, &habit, today)
				if err != nil {
					return err
				}
				credits <- credited
				return nil
			})
			if err != nil {
				t.Errorf("transaction: %v", err)
			}
		}()
	}
	wg.Wait()
	close(credits)

	creditedCount := 0
	for c := range credits {
		if c {
			creditedCount++
		}
	}
	if creditedCount != 1 {
		t.Fatalf("credited %d times, want exactly 1", creditedCount)
	}

	total, _, _ := userPoints(t, db, user.ID)
	if total != 50 {
		t.Fatalf("total = %d, want 50", total)
	}
}

func TestRecordHabitCompletionNewDayCreditsAgain(t *testing.T) {
	db := newTestDB(t)
	history := NewHistoryService(db)
	user := createUser(t, db, "runner")
	habit := createHabit(t, db, user.ID, 5)

	if credited, err := history.recordHabitCompletion(db, user.ID, &habit, "2026-08-30"); err != nil || !credited {
		t.Fatalf("day one: credited=%v err=%v", credited, err)
	}
	if credited, err := history.recordHabitCompletion(db, user.ID, &habit, "2026-08-31"); err != nil || !credited {
		t.Fatalf("day two: credited=%v err=%v", credited, err)
	}

	var count int64
	db.Model(&models.HistoryEntry{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 2 {
		t.Fatalf("history entries = %d, want 2", count)
	}
}

func TestRecordChallengeCompletionCreditsOnceEver(t *testing.T) {
	db := newTestDB(t)
	history := NewHistoryService(db)
	user := createUser(t, db, "rider")
	ch := createChallenge(t, db, user.ID, 100)

	if credited, err := history.recordChallengeCompletion(db, user.ID, &ch); err != nil || !credited {
		t.Fatalf("first: credited=%v err=%v", credited, err)
	}
	if credited, err := history.recordChallengeCompletion(db, user.ID, &ch); err != nil || credited {
		t.Fatalf("second: credited=%v err=%v, want no credit", credited, err)
	}

	total, _, _ := userPoints(t, db, user.ID)
	if total != 200 {
		t.Fatalf("total = %d, want 200", total)
	}
}

func TestDeleteHabitReversesPoints(t *testing.T) {
	db := newTestDB(t)
	history := NewHistoryService(db)
	progress := NewProgressService(db, history)
	user := createUser(t, db, "runner")
	keep := createHabit(t, db, user.ID, 1)
	doomed := createHabit(t, db, user.ID, 1)

	if _, err := progress.MarkHabitDone(user.ID, keep.ID); err != nil {
		t.Fatalf("complete keep: %v", err)
	}
	if _, err := progress.MarkHabitDone(user.ID, doomed.ID); err != nil {
		t.Fatalf("complete doomed: %v", err)
	}

	if err := history.DeleteHabit(user.ID, doomed.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	total, weekly, daily := userPoints(t, db, user.ID)
	if total != 50 || weekly != 50 || daily != 50 {
		t.Fatalf("counters = %d/%d/%d, want 50/50/50 after delete", total, weekly, daily)
	}

	var count int64
	db.Model(&models.HistoryEntry{}).Where("source_id = ?", doomed.ID).Count(&count)
	if count != 0 {
		t.Fatalf("entries for deleted habit = %d, want 0", count)
	}
	if err := db.First(&models.Habit{}, "id = ?", doomed.ID).Error; !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("habit still present: %v", err)
	}
}

func TestDeleteHabitMixedDates(t *testing.T) {
	db := newTestDB(t)
	history := NewHistoryService(db)
	user := createUser(t, db, "runner")
	habit := createHabit(t, db, user.ID, 5)

	// One credit from yesterday, one from today.
	if _, err := history.recordHabitCompletion(db, user.ID, &habit, "2026-08-30"); err != nil {
		t.Fatalf("yesterday: %v", err)
	}
	if _, err := history.recordHabitCompletion(db, user.ID, &habit, utils.Today()); err != nil {
		t.Fatalf("today: %v", err)
	}

	if err := history.DeleteHabit(user.ID, habit.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	total, _, daily := userPoints(t, db, user.ID)
	if total != 0 {
		t.Fatalf("total = %d, want 0", total)
	}
	if daily != 0 {
		t.Fatalf("daily = %d, want 0", daily)
	}
}

func TestDeleteHabitClampsAtZero(t *testing.T) {
	db := newTestDB(t)
	history := NewHistoryService(db)
	user := createUser(t, db, "runner")
	habit := createHabit(t, db, user.ID, 5)

	if _, err := history.recordHabitCompletion(db, user.ID, &habit, utils.Today()); err != nil {
		t.Fatalf("record: %v", err)
	}
	// Simulate a drifted counter lower than the journal sum.
	db.Model(&models.User{}).Where("id = ?", user.ID).Update("total_points", 10)

	if err := history.DeleteHabit(user.ID, habit.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	total, _, _ := userPoints(t, db, user.ID)
	if total != 0 {
		t.Fatalf("total = %d, want clamp to 0", total)
	}
}

func TestDeleteHabitNotOwned(t *testing.T) {
	db := newTestDB(t)
	history := NewHistoryService(db)
	owner := createUser(t, db, "owner")
	other := createUser(t, db, "other")
	habit := createHabit(t, db, owner.ID, 5)

	if err := history.DeleteHabit(other.ID, habit.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteChallengeCreatorOnly(t *testing.T) {
	db := newTestDB(t)
	history := NewHistoryService(db)
	progress := NewProgressService(db, history)
	creator := createUser(t, db, "creator")
	member := createUser(t, db, "member")
	ch := createChallenge(t, db, creator.ID, 10)
	db.Create(&models.ChallengeParticipant{ChallengeID: ch.ID, UserID: member.ID, Active: true})

	if err := history.DeleteChallenge(member.ID, ch.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("member delete: %v, want ErrForbidden", err)
	}

	if _, err := progress.LogChallengeProgress(creator.ID, ch.ID, 10); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := history.DeleteChallenge(creator.ID, ch.ID); err != nil {
		t.Fatalf("creator delete: %v", err)
	}

	total, _, _ := userPoints(t, db, creator.ID)
	if total != 0 {
		t.Fatalf("creator total = %d, want 0 after delete", total)
	}

	var participants int64
	db.Model(&models.ChallengeParticipant{}).Where("challenge_id = ?", ch.ID).Count(&participants)
	if participants != 0 {
		t.Fatalf("participant rows = %d, want 0", participants)
	}
}

func TestListForDate(t *testing.T) {
	db := newTestDB(t)
	history := NewHistoryService(db)
	user := createUser(t, db, "runner")
	habit := createHabit(t, db, user.ID, 5)

	if _, err := history.recordHabitCompletion(db, user.ID, &habit, "2026-08-30"); err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := history.recordHabitCompletion(db, user.ID, &habit, "2026-08-31"); err != nil {
		t.Fatalf("record: %v", err)
	}

	entries, err := history.ListForDate(user.ID, "2026-08-30")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 || entries[0].Date != "2026-08-30" {
		t.Fatalf("entries = %+v, want single entry for 2026-08-30", entries)
	}

	all, err := history.ListForUser(user.ID)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("all entries = %d, want 2", len(all))
	}
	if all[0].Date != "2026-08-31" {
		t.Fatalf("first entry date = %s, want newest first", all[0].Date)
	}
}
