package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/habitloop/habitloop/services"
	"github.com/habitloop/habitloop/utils"
)

// HistoryController exposes the completion journal as the activity feed
// and the per-day calendar view. Entries are read-only; they change only
// through completions and cascade deletes.
type HistoryController struct {
	history *services.HistoryService
}

// NewHistoryController creates a HistoryController.
func NewHistoryController(history *services.HistoryService) *HistoryController {
	return &HistoryController{history: history}
}

// ListHistory returns the caller's journal, newest first. An optional
// ?date=YYYY-MM-DD narrows it to one calendar day.
func (h *HistoryController) ListHistory(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return
	}

	date := strings.TrimSpace(ctx.Query("date"))
	if date != "" {
		if _, err := time.ParseInLocation(utils.DateLayout, date, time.Local); err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40090, "date must be YYYY-MM-DD")
			return
		}
		entries, err := h.history.ListForDate(userID, date)
		if err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50090, "failed to load history")
			return
		}
		utils.Success(ctx, gin.H{"items": entries, "date": date})
		return
	}

	entries, err := h.history.ListForUser(userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50090, "failed to load history")
		return
	}
	utils.Success(ctx, gin.H{"items": entries})
}
