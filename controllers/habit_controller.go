package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/habitloop/habitloop/models"
	"github.com/habitloop/habitloop/services"
	"github.com/habitloop/habitloop/utils"
)

// HabitController handles habit CRUD and the progress ledger endpoints.
type HabitController struct {
	db       *gorm.DB
	progress *services.ProgressService
	history  *services.HistoryService
	notifier *services.Notifier
}

// NewHabitController creates a HabitController.
func NewHabitController(db *gorm.DB, progress *services.ProgressService, history *services.HistoryService, notifier *services.Notifier) *HabitController {
	return &HabitController{db: db, progress: progress, history: history, notifier: notifier}
}

// ListHabits returns the caller's habits. With ?date=YYYY-MM-DD only
// habits visible on that day are returned: inside their start/end window
// and not hidden by a skip.
func (h *HabitController) ListHabits(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return
	}

	var habits []models.Habit
	if err := h.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&habits).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to list habits")
		return
	}

	date := strings.TrimSpace(ctx.Query("date"))
	if date == "" {
		utils.Success(ctx, gin.H{"items": habits})
		return
	}

	visible := make([]models.Habit, 0, len(habits))
	for _, habit := range habits {
		if habit.HiddenOn(date) {
			continue
		}
		if habit.StartDate != "" && date < habit.StartDate {
			continue
		}
		if habit.EndDate != "" && date > habit.EndDate {
			continue
		}
		visible = append(visible, habit)
	}
	utils.Success(ctx, gin.H{"items": visible, "date": date})
}

type habitRequest struct {
	Name      string `json:"name" binding:"required,max=128"`
	Unit      string `json:"unit"`
	Target    int    `json:"target" binding:"required"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Icon      string `json:"icon"`
	IconColor string `json:"icon_color"`
	CardColor string `json:"card_color"`
}

// CreateHabit stores a new habit for the caller.
func (h *HabitController) CreateHabit(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return
	}

	var req habitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40060, "invalid request payload")
		return
	}
	if req.Target <= 0 {
		utils.Error(ctx, http.StatusBadRequest, 40061, "target must be at least 1")
		return
	}
	if req.StartDate == "" {
		req.StartDate = utils.Today()
	}
	if req.EndDate != "" && req.EndDate < req.StartDate {
		utils.Error(ctx, http.StatusBadRequest, 40062, "end date must not be before start date")
		return
	}

	habit := models.Habit{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      utils.SanitizeText(req.Name),
		Unit:      strings.TrimSpace(req.Unit),
		Target:    req.Target,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Icon:      req.Icon,
		IconColor: req.IconColor,
		CardColor: req.CardColor,
	}
	if err := h.db.Create(&habit).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to create habit")
		return
	}
	utils.Success(ctx, habit)
}

// GetHabit returns one habit owned by the caller.
func (h *HabitController) GetHabit(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return
	}

	var habit models.Habit
	if err := h.db.Where("id = ? AND user_id = ?", ctx.Param("id"), userID).First(&habit).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40420, "habit not found")
		return
	}
	utils.Success(ctx, habit)
}

// UpdateHabit changes presentation and window fields. Progress moves only
// through the ledger endpoints below.
func (h *HabitController) UpdateHabit(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return
	}

	var habit models.Habit
	if err := h.db.Where("id = ? AND user_id = ?", ctx.Param("id"), userID).First(&habit).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40420, "habit not found")
		return
	}

	type request struct {
		Name      *string `json:"name"`
		Unit      *string `json:"unit"`
		Target    *int    `json:"target"`
		EndDate   *string `json:"end_date"`
		Icon      *string `json:"icon"`
		IconColor *string `json:"icon_color"`
		CardColor *string `json:"card_color"`
	}
	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40063, "invalid request payload")
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = utils.SanitizeText(*req.Name)
	}
	if req.Unit != nil {
		updates["unit"] = strings.TrimSpace(*req.Unit)
	}
	if req.Target != nil {
		if *req.Target <= 0 {
			utils.Error(ctx, http.StatusBadRequest, 40061, "target must be at least 1")
			return
		}
		updates["target"] = *req.Target
	}
	if req.EndDate != nil {
		updates["end_date"] = *req.EndDate
	}
	if req.Icon != nil {
		updates["icon"] = *req.Icon
	}
	if req.IconColor != nil {
		updates["icon_color"] = *req.IconColor
	}
	if req.CardColor != nil {
		updates["card_color"] = *req.CardColor
	}
	if len(updates) == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40064, "nothing to update")
		return
	}

	if err := h.db.Model(&habit).Updates(updates).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50062, "failed to update habit")
		return
	}
	utils.Success(ctx, habit)
}

// AddProgress advances a habit by step (default 1). On the completion
// transition the response carries the points awarded and an in-app
// notification is queued.
func (h *HabitController) AddProgress(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return
	}

	type request struct {
		Step int `json:"step"`
	}
	var req request
	_ = ctx.ShouldBindJSON(&req)

	upd, err := h.progress.IncrementHabit(userID, ctx.Param("id"), req.Step)
	if err != nil {
		serviceError(ctx, err, 50063, "failed to add progress")
		return
	}
	if upd.Completed && upd.PointsAwarded > 0 {
		h.notifier.Send(userID, "Goal Reached!",
			fmt.Sprintf("Amazing! You finished %q for today.", upd.Habit.Name),
			models.NotifTypeStreak)
	}
	utils.Success(ctx, upd)
}

// MarkDone sets progress straight to the target.
func (h *HabitController) MarkDone(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return
	}

	upd, err := h.progress.MarkHabitDone(userID, ctx.Param("id"))
	if err != nil {
		serviceError(ctx, err, 50064, "failed to mark habit done")
		return
	}
	if upd.PointsAwarded > 0 {
		h.notifier.Send(userID, "Well Done!",
			fmt.Sprintf("Successfully completed %q!", upd.Habit.Name),
			models.NotifTypeStreak)
	}
	utils.Success(ctx, upd)
}

// Skip hides the habit from today's view and optionally reschedules it
// to another day.
func (h *HabitController) Skip(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return
	}

	type request struct {
		RescheduleTo string `json:"reschedule_to"`
	}
	var req request
	_ = ctx.ShouldBindJSON(&req)
	if req.RescheduleTo != "" {
		if _, err := time.ParseInLocation(utils.DateLayout, req.RescheduleTo, time.Local); err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40065, "reschedule_to must be YYYY-MM-DD")
			return
		}
	}

	var habit models.Habit
	if err := h.db.Where("id = ? AND user_id = ?", ctx.Param("id"), userID).First(&habit).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40420, "habit not found")
		return
	}

	today := utils.Today()
	if !habit.HiddenOn(today) {
		habit.HiddenDates = append(habit.HiddenDates, today)
	}
	updates := map[string]interface{}{"hidden_dates": habit.HiddenDates}
	if req.RescheduleTo != "" {
		updates["rescheduled_to"] = req.RescheduleTo
	}
	if err := h.db.Model(&habit).Updates(updates).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50065, "failed to skip habit")
		return
	}
	utils.Success(ctx, habit)
}

// DeleteHabit removes the habit, its journal entries and their points in
// one transaction.
func (h *HabitController) DeleteHabit(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return
	}

	if err := h.history.DeleteHabit(userID, ctx.Param("id")); err != nil {
		serviceError(ctx, err, 50066, "failed to delete habit")
		return
	}
	utils.Success(ctx, gin.H{"message": "habit deleted"})
}
