package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/habitloop/habitloop/config"
	"github.com/habitloop/habitloop/models"
	"github.com/habitloop/habitloop/utils"
)

// newTestDB opens a private in-memory database per test. A single
// connection keeps every session on the same :memory: instance.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	config.SetForTest(config.AppConfig{
		JWTSecret:             "test-secret",
		HabitRewardPoints:     50,
		ChallengeRewardPoints: 200,
		ChallengeProgressStep: 5,
	})

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Habit{},
		&models.Challenge{},
		&models.ChallengeParticipant{},
		&models.HistoryEntry{},
		&models.Club{},
		&models.ClubMember{},
		&models.Notification{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{Username: username}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func createHabit(t *testing.T, db *gorm.DB, userID uint, target int) models.Habit {
	t.Helper()
	habit := models.Habit{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      "Run",
		Unit:      "km",
		Target:    target,
		StartDate: utils.Today(),
	}
	if err := db.Create(&habit).Error; err != nil {
		t.Fatalf("create habit: %v", err)
	}
	return habit
}

func createChallenge(t *testing.T, db *gorm.DB, creator uint, goal int) models.Challenge {
	t.Helper()
	ch := models.Challenge{
		ID:        uuid.NewString(),
		Title:     "Distance Dash",
		Unit:      "km",
		Goal:      goal,
		EndDate:   "2099-12-31",
		CreatedBy: creator,
	}
	if err := db.Create(&ch).Error; err != nil {
		t.Fatalf("create challenge: %v", err)
	}
	p := models.ChallengeParticipant{ChallengeID: ch.ID, UserID: creator, Active: true}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("create participant: %v", err)
	}
	return ch
}

func userPoints(t *testing.T, db *gorm.DB, userID uint) (total, weekly, daily int) {
	t.Helper()
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	return user.TotalPoints, user.WeeklyPoints, user.DailyPoints
}
