package utils

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/habitloop/habitloop/config"
	"github.com/habitloop/habitloop/models"
)

func rolloverTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	config.SetForTest(config.AppConfig{JWTSecret: "test-secret"})
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&models.User{}, &models.Habit{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestRolloverTickResetsOnNewDay(t *testing.T) {
	db := rolloverTestDB(t)
	lastRolloverDay = ""
	lastRolloverWeek = ""

	user := models.User{Username: "runner", TotalPoints: 150, WeeklyPoints: 150, DailyPoints: 50}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	habit := models.Habit{ID: "h1", UserID: user.ID, Name: "Run", Target: 5, CurrentProgress: 3}
	if err := db.Create(&habit).Error; err != nil {
		t.Fatalf("create habit: %v", err)
	}

	day1 := time.Date(2026, 8, 31, 12, 0, 0, 0, time.Local)

	// First tick only seeds the markers.
	RolloverTick(db, day1)
	db.First(&user, user.ID)
	if user.DailyPoints != 50 {
		t.Fatalf("daily = %d after seeding tick, want 50", user.DailyPoints)
	}

	// Same day again: nothing moves.
	RolloverTick(db, day1.Add(time.Hour))
	db.First(&user, user.ID)
	if user.DailyPoints != 50 {
		t.Fatalf("daily = %d after same-day tick, want 50", user.DailyPoints)
	}

	// Next day: daily points and habit progress reset, totals survive.
	RolloverTick(db, day1.AddDate(0, 0, 1))
	db.First(&user, user.ID)
	if user.DailyPoints != 0 {
		t.Fatalf("daily = %d after day rollover, want 0", user.DailyPoints)
	}
	if user.TotalPoints != 150 {
		t.Fatalf("total = %d after day rollover, want 150", user.TotalPoints)
	}
	db.First(&habit, "id = ?", habit.ID)
	if habit.CurrentProgress != 0 {
		t.Fatalf("habit progress = %d after day rollover, want 0", habit.CurrentProgress)
	}
}

func TestRolloverTickResetsWeekly(t *testing.T) {
	db := rolloverTestDB(t)
	lastRolloverDay = ""
	lastRolloverWeek = ""

	user := models.User{Username: "runner", TotalPoints: 300, WeeklyPoints: 300, DailyPoints: 0}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	sunday := time.Date(2026, 9, 6, 12, 0, 0, 0, time.Local)
	RolloverTick(db, sunday)

	// Crossing into Monday starts a new ISO week.
	RolloverTick(db, sunday.AddDate(0, 0, 1))
	db.First(&user, user.ID)
	if user.WeeklyPoints != 0 {
		t.Fatalf("weekly = %d after week rollover, want 0", user.WeeklyPoints)
	}
	if user.TotalPoints != 300 {
		t.Fatalf("total = %d after week rollover, want 300", user.TotalPoints)
	}
}
