package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/habitloop/habitloop/models"
	"github.com/habitloop/habitloop/utils"
)

// StatsController provides aggregate statistics such as counts and daily active users.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// GetStats returns aggregate statistics for the service.
func (s *StatsController) GetStats(ctx *gin.Context) {
	var userCount int64
	var habitCount int64
	var challengeCount int64
	var completionCount int64
	var dailyActive int64

	if err := s.db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		// Fallback to 0 instead of failing the whole endpoint
		userCount = 0
	}

	if err := s.db.Model(&models.Habit{}).Count(&habitCount).Error; err != nil {
		habitCount = 0
	}

	if err := s.db.Model(&models.Challenge{}).Count(&challengeCount).Error; err != nil {
		challengeCount = 0
	}

	if err := s.db.Model(&models.HistoryEntry{}).Count(&completionCount).Error; err != nil {
		completionCount = 0
	}

	// Daily active: users that logged at least one completion today.
	// Use string date equality to avoid timezone/type mismatches with DATE column
	today := utils.Today()
	if err := s.db.Model(&models.HistoryEntry{}).
		Where("date = ?", today).
		Distinct("user_id").
		Count(&dailyActive).Error; err != nil {
		dailyActive = 0
	}

	utils.Success(ctx, gin.H{
		"user_count":         userCount,
		"habit_count":        habitCount,
		"challenge_count":    challengeCount,
		"completion_count":   completionCount,
		"daily_active_count": dailyActive,
	})
}

// GetMyStats returns the caller's personal counters and completion totals.
func (s *StatsController) GetMyStats(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
		return
	}

	var habitCount int64
	s.db.Model(&models.Habit{}).Where("user_id = ?", userID).Count(&habitCount)

	var completionCount int64
	s.db.Model(&models.HistoryEntry{}).Where("user_id = ?", userID).Count(&completionCount)

	var todayCount int64
	s.db.Model(&models.HistoryEntry{}).
		Where("user_id = ? AND date = ?", userID, utils.Today()).
		Count(&todayCount)

	utils.Success(ctx, gin.H{
		"total_points":     user.TotalPoints,
		"weekly_points":    user.WeeklyPoints,
		"daily_points":     user.DailyPoints,
		"habit_count":      habitCount,
		"completion_count": completionCount,
		"today_count":      todayCount,
	})
}
