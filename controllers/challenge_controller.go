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

// ChallengeController handles shared challenges: membership, score
// logging and cascade deletion.
type ChallengeController struct {
	db       *gorm.DB
	progress *services.ProgressService
	history  *services.HistoryService
	notifier *services.Notifier
}

// NewChallengeController creates a ChallengeController.
func NewChallengeController(db *gorm.DB, progress *services.ProgressService, history *services.HistoryService, notifier *services.Notifier) *ChallengeController {
	return &ChallengeController{db: db, progress: progress, history: history, notifier: notifier}
}

// ListChallenges returns all challenges, newest first.
func (c *ChallengeController) ListChallenges(ctx *gin.Context) {
	var challenges []models.Challenge
	if err := c.db.Order("created_at DESC").Find(&challenges).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50070, "failed to list challenges")
		return
	}
	utils.Success(ctx, gin.H{"items": challenges})
}

// CreateChallenge stores a challenge; the creator becomes the sole
// initial participant with score zero.
func (c *ChallengeController) CreateChallenge(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return
	}

	type request struct {
		Title       string `json:"title" binding:"required,max=128"`
		Description string `json:"description"`
		Unit        string `json:"unit"`
		Goal        int    `json:"goal" binding:"required"`
		EndDate     string `json:"end_date"`
		Icon        string `json:"icon"`
		Color       string `json:"color"`
	}
	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40070, "invalid request payload")
		return
	}
	if req.Goal <= 0 {
		utils.Error(ctx, http.StatusBadRequest, 40071, "goal must be at least 1")
		return
	}

	challenge := models.Challenge{
		ID:          uuid.NewString(),
		Title:       utils.SanitizeText(req.Title),
		Description: utils.SanitizeText(req.Description),
		Unit:        strings.TrimSpace(req.Unit),
		Goal:        req.Goal,
		EndDate:     req.EndDate,
		Icon:        req.Icon,
		Color:       req.Color,
		CreatedBy:   userID,
	}

	err := c.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&challenge).Error; err != nil {
			return err
		}
		return tx.Create(&models.ChallengeParticipant{
			ChallengeID: challenge.ID,
			UserID:      userID,
			Score:       0,
			Active:      true,
			JoinedAt:    time.Now(),
		}).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50071, "failed to create challenge")
		return
	}
	utils.Success(ctx, challenge)
}

// GetChallenge returns one challenge with its active roster and, when
// authenticated, the caller's own score and membership flags.
func (c *ChallengeController) GetChallenge(ctx *gin.Context) {
	var challenge models.Challenge
	if err := c.db.Where("id = ?", ctx.Param("id")).First(&challenge).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40421, "challenge not found")
		return
	}

	var participants []models.ChallengeParticipant
	if err := c.db.Where("challenge_id = ? AND active = ?", challenge.ID, true).
		Order("score DESC").Find(&participants).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50072, "failed to load participants")
		return
	}

	payload := gin.H{
		"challenge":    challenge,
		"participants": participants,
		"ended":        challenge.Ended(utils.Today()),
	}
	if userID, ok := getUserID(ctx); ok {
		var mine models.ChallengeParticipant
		err := c.db.Where("challenge_id = ? AND user_id = ?", challenge.ID, userID).First(&mine).Error
		joined := err == nil && mine.Active
		payload["joined"] = joined
		payload["is_owner"] = challenge.CreatedBy == userID
		if err == nil {
			payload["my_score"] = mine.Score
		} else {
			payload["my_score"] = 0
		}
	}
	utils.Success(ctx, payload)
}

// Join adds the caller to the roster. A returning participant keeps the
// score from the earlier stint. Joining a finished challenge is refused
// for newcomers.
func (c *ChallengeController) Join(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return
	}

	var challenge models.Challenge
	if err := c.db.Where("id = ?", ctx.Param("id")).First(&challenge).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40421, "challenge not found")
		return
	}

	var p models.ChallengeParticipant
	err := c.db.Where("challenge_id = ? AND user_id = ?", challenge.ID, userID).First(&p).Error
	switch {
	case err == nil && p.Active:
		utils.Error(ctx, http.StatusBadRequest, 40072, "already joined")
		return
	case err == nil:
		// rejoin keeps the earlier score
		if err := c.db.Model(&p).Update("active", true).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50073, "failed to join challenge")
			return
		}
		p.Active = true
	case err == gorm.ErrRecordNotFound:
		if challenge.Ended(utils.Today()) {
			utils.Error(ctx, http.StatusBadRequest, 40073, "challenge is already closed")
			return
		}
		p = models.ChallengeParticipant{
			ChallengeID: challenge.ID,
			UserID:      userID,
			Score:       0,
			Active:      true,
			JoinedAt:    time.Now(),
		}
		if err := c.db.Create(&p).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50073, "failed to join challenge")
			return
		}
	default:
		utils.Error(ctx, http.StatusInternalServerError, 50073, "failed to join challenge")
		return
	}
	utils.Success(ctx, p)
}

// Leave flips the caller inactive. The score row stays so a rejoin
// resumes where it left off.
func (c *ChallengeController) Leave(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return
	}

	res := c.db.Model(&models.ChallengeParticipant{}).
		Where("challenge_id = ? AND user_id = ? AND active = ?", ctx.Param("id"), userID, true).
		Update("active", false)
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50074, "failed to leave challenge")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40074, "not a participant")
		return
	}
	utils.Success(ctx, gin.H{"message": "left challenge"})
}

// LogProgress adds to the caller's score. Crossing the goal credits the
// one-time challenge completion.
func (c *ChallengeController) LogProgress(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return
	}

	type request struct {
		Amount int `json:"amount"`
	}
	var req request
	_ = ctx.ShouldBindJSON(&req)

	upd, err := c.progress.LogChallengeProgress(userID, ctx.Param("id"), req.Amount)
	if err != nil {
		serviceError(ctx, err, 50075, "failed to log progress")
		return
	}
	if upd.Completed && upd.PointsAwarded > 0 {
		c.notifier.Send(userID, "Challenge Complete!",
			fmt.Sprintf("You reached the goal of %q!", upd.Challenge.Title),
			models.NotifTypeChallenge)
	}
	utils.Success(ctx, upd)
}

// DeleteChallenge removes the challenge (creator only) together with the
// creator's journal entries and points for it.
func (c *ChallengeController) DeleteChallenge(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return
	}

	if err := c.history.DeleteChallenge(userID, ctx.Param("id")); err != nil {
		serviceError(ctx, err, 50076, "failed to delete challenge")
		return
	}
	utils.Success(ctx, gin.H{"message": "challenge deleted"})
}
