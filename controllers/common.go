package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/habitloop/habitloop/middleware"
	"github.com/habitloop/habitloop/models"
	"github.com/habitloop/habitloop/services"
	"github.com/habitloop/habitloop/utils"
)

func getUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		return uint(v), true
	case int64:
		return uint(v), true
	case float64:
		return uint(v), true
	default:
		return 0, false
	}
}

// publicUser strips private fields from a user payload.
func publicUser(user models.User) gin.H {
	return gin.H{
		"id":            user.ID,
		"username":      user.Username,
		"avatar_url":    user.AvatarURL,
		"bio":           user.Bio,
		"total_points":  user.TotalPoints,
		"weekly_points": user.WeeklyPoints,
		"daily_points":  user.DailyPoints,
		"created_at":    user.CreatedAt,
	}
}

// serviceError maps services sentinel errors onto the response envelope.
// baseCode is the controller's 500-range code for unexpected failures.
func serviceError(ctx *gin.Context, err error, baseCode int, fallback string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.Error(ctx, http.StatusNotFound, 40420, "not found")
	case errors.Is(err, services.ErrForbidden):
		utils.Error(ctx, http.StatusForbidden, 40320, "not allowed")
	case errors.Is(err, services.ErrAlreadyCompleted):
		utils.Error(ctx, http.StatusBadRequest, 40040, "already completed")
	case errors.Is(err, services.ErrNotParticipant):
		utils.Error(ctx, http.StatusBadRequest, 40041, "join the challenge first")
	case errors.Is(err, services.ErrChallengeEnded):
		utils.Error(ctx, http.StatusBadRequest, 40042, "challenge has ended")
	case errors.Is(err, services.ErrGoalReached):
		utils.Error(ctx, http.StatusBadRequest, 40043, "goal already reached")
	default:
		utils.Sugar.Errorf("%s: %v", fallback, err)
		utils.Error(ctx, http.StatusInternalServerError, baseCode, fallback)
	}
}
