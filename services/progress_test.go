package services

import (
	"errors"
	"testing"

	"github.com/habitloop/habitloop/models"
)

func TestIncrementHabitAwardsOnTarget(t *testing.T) {
	db := newTestDB(t)
	history := NewHistoryService(db)
	progress := NewProgressService(db, history)
	user := createUser(t, db, "runner")
	habit := createHabit(t, db, user.ID, 5)

	for i := 1; i <= 4; i++ {
		upd, err := progress.IncrementHabit(user.ID, habit.ID, 1)
		if err != nil {
			t.Fatalf("increment %d: %v", i, err)
		}
		if upd.Completed {
			t.Fatalf("increment %d: completed before target", i)
		}
		if upd.PointsAwarded != 0 {
			t.Fatalf("increment %d: awarded %d points early", i, upd.PointsAwarded)
		}
		if upd.Habit.CurrentProgress != i {
			t.Fatalf("increment %d: progress = %d", i, upd.Habit.CurrentProgress)
		}
	}

	upd, err := progress.IncrementHabit(user.ID, habit.ID, 1)
	if err != nil {
		t.Fatalf("final increment: %v", err)
	}
	if !upd.Completed || upd.PointsAwarded != 50 {
		t.Fatalf("final increment: completed=%v points=%d", upd.Completed, upd.PointsAwarded)
	}

	total, weekly, daily := userPoints(t, db, user.ID)
	if total != 50 || weekly != 50 || daily != 50 {
		t.Fatalf("counters = %d/%d/%d, want 50/50/50", total, weekly, daily)
	}

	var count int64
	db.Model(&models.HistoryEntry{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 1 {
		t.Fatalf("history entries = %d, want 1", count)
	}
}

func TestIncrementHabitClampsToTarget(t *testing.T) {
	db := newTestDB(t)
	progress := NewProgressService(db, NewHistoryService(db))
	user := createUser(t, db, "runner")
	habit := createHabit(t, db, user.ID, 5)

	upd, err := progress.IncrementHabit(user.ID, habit.ID, 100)
	if err != nil {
		t.Fatalf("increment: %v", err)
	}
	if upd.Habit.CurrentProgress != 5 {
		t.Fatalf("progress = %d, want clamp to 5", upd.Habit.CurrentProgress)
	}
	if !upd.Completed {
		t.Fatal("expected completion on clamped increment")
	}
}

func TestIncrementHabitAfterTargetRejected(t *testing.T) {
	db := newTestDB(t)
	progress := NewProgressService(db, NewHistoryService(db))
	user := createUser(t, db, "runner")
	habit := createHabit(t, db, user.ID, 2)

	if _, err := progress.IncrementHabit(user.ID, habit.ID, 2); err != nil {
		t.Fatalf("increment: %v", err)
	}
	_, err := progress.IncrementHabit(user.ID, habit.ID, 1)
	if !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("err = %v, want ErrAlreadyCompleted", err)
	}

	total, _, _ := userPoints(t, db, user.ID)
	if total != 50 {
		t.Fatalf("total = %d, want 50", total)
	}
}

func TestMarkHabitDone(t *testing.T) {
	db := newTestDB(t)
	progress := NewProgressService(db, NewHistoryService(db))
	user := createUser(t, db, "runner")
	habit := createHabit(t, db, user.ID, 10)

	upd, err := progress.MarkHabitDone(user.ID, habit.ID)
	if err != nil {
		t.Fatalf("mark done: %v", err)
	}
	if upd.Habit.CurrentProgress != 10 || !upd.Completed || upd.PointsAwarded != 50 {
		t.Fatalf("progress=%d completed=%v points=%d",
			upd.Habit.CurrentProgress, upd.Completed, upd.PointsAwarded)
	}

	if _, err := progress.MarkHabitDone(user.ID, habit.ID); !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("second mark done: %v, want ErrAlreadyCompleted", err)
	}
}

func TestHabitOwnershipEnforced(t *testing.T) {
	db := newTestDB(t)
	progress := NewProgressService(db, NewHistoryService(db))
	owner := createUser(t, db, "owner")
	other := createUser(t, db, "other")
	habit := createHabit(t, db, owner.ID, 5)

	_, err := progress.IncrementHabit(other.ID, habit.ID, 1)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestLogChallengeProgressAwardsOnceAtGoal(t *testing.T) {
	db := newTestDB(t)
	progress := NewProgressService(db, NewHistoryService(db))
	user := createUser(t, db, "rider")
	ch := createChallenge(t, db, user.ID, 100)

	db.Model(&models.ChallengeParticipant{}).
		Where("challenge_id = ? AND user_id = ?", ch.ID, user.ID).
		Update("score", 95)

	upd, err := progress.LogChallengeProgress(user.ID, ch.ID, 0)
	if err != nil {
		t.Fatalf("log progress: %v", err)
	}
	if upd.Score != 100 {
		t.Fatalf("score = %d, want 100 (default step 5)", upd.Score)
	}
	if !upd.Completed || upd.PointsAwarded != 200 {
		t.Fatalf("completed=%v points=%d, want completion with 200", upd.Completed, upd.PointsAwarded)
	}

	if _, err := progress.LogChallengeProgress(user.ID, ch.ID, 5); !errors.Is(err, ErrGoalReached) {
		t.Fatalf("after goal: %v, want ErrGoalReached", err)
	}

	total, _, daily := userPoints(t, db, user.ID)
	if total != 200 || daily != 200 {
		t.Fatalf("counters total=%d daily=%d, want 200/200", total, daily)
	}
}

func TestLogChallengeProgressRequiresActiveParticipant(t *testing.T) {
	db := newTestDB(t)
	progress := NewProgressService(db, NewHistoryService(db))
	creator := createUser(t, db, "creator")
	outsider := createUser(t, db, "outsider")
	ch := createChallenge(t, db, creator.ID, 100)

	if _, err := progress.LogChallengeProgress(outsider.ID, ch.ID, 5); !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("outsider: %v, want ErrNotParticipant", err)
	}

	db.Model(&models.ChallengeParticipant{}).
		Where("challenge_id = ? AND user_id = ?", ch.ID, creator.ID).
		Update("active", false)
	if _, err := progress.LogChallengeProgress(creator.ID, ch.ID, 5); !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("inactive: %v, want ErrNotParticipant", err)
	}
}

func TestLogChallengeProgressRejectsEnded(t *testing.T) {
	db := newTestDB(t)
	progress := NewProgressService(db, NewHistoryService(db))
	user := createUser(t, db, "rider")
	ch := createChallenge(t, db, user.ID, 100)

	db.Model(&models.Challenge{}).Where("id = ?", ch.ID).Update("end_date", "2000-01-01")

	if _, err := progress.LogChallengeProgress(user.ID, ch.ID, 5); !errors.Is(err, ErrChallengeEnded) {
		t.Fatalf("err = %v, want ErrChallengeEnded", err)
	}
}
