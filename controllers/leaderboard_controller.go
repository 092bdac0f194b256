package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/habitloop/habitloop/models"
	"github.com/habitloop/habitloop/utils"
)

const leaderboardLimit = 50

// LeaderboardController ranks users by their point counters.
type LeaderboardController struct {
	db *gorm.DB
}

// NewLeaderboardController creates a LeaderboardController.
func NewLeaderboardController(db *gorm.DB) *LeaderboardController {
	return &LeaderboardController{db: db}
}

// GetLeaderboard returns the top users ordered by total points, or by
// weekly points with ?period=weekly. Results are briefly cached in Redis
// since every client polls the same ranking.
func (l *LeaderboardController) GetLeaderboard(ctx *gin.Context) {
	period := ctx.DefaultQuery("period", "total")
	var column string
	switch period {
	case "total":
		column = "total_points"
	case "weekly":
		column = "weekly_points"
	default:
		utils.Error(ctx, http.StatusBadRequest, 40095, "period must be total or weekly")
		return
	}

	cacheKey := "cache:leaderboard:" + period
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var users []models.User
	if err := l.db.Order(column + " DESC, id ASC").Limit(leaderboardLimit).Find(&users).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50095, "failed to load leaderboard")
		return
	}

	entries := make([]gin.H, 0, len(users))
	for i, user := range users {
		points := user.TotalPoints
		if period == "weekly" {
			points = user.WeeklyPoints
		}
		entries = append(entries, gin.H{
			"rank":       i + 1,
			"user_id":    user.ID,
			"username":   user.Username,
			"avatar_url": user.AvatarURL,
			"points":     points,
		})
	}

	payload := gin.H{"period": period, "leaderboard": entries}
	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
	utils.CacheSetJSON(cacheKey, wrapper, 30*time.Second)
	utils.Success(ctx, payload)
}
