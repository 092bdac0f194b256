package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/habitloop/habitloop/models"
	"github.com/habitloop/habitloop/utils"
)

// ClubController handles interest clubs. Clubs carry no point
// accounting; membership is a plain join table.
type ClubController struct {
	db *gorm.DB
}

// NewClubController creates a ClubController.
func NewClubController(db *gorm.DB) *ClubController {
	return &ClubController{db: db}
}

// ListClubs returns all clubs with member counts, optionally filtered by
// category.
func (c *ClubController) ListClubs(ctx *gin.Context) {
	q := c.db.Model(&models.Club{})
	if cat := strings.TrimSpace(ctx.Query("category")); cat != "" {
		q = q.Where("category = ?", cat)
	}

	var clubs []models.Club
	if err := q.Order("created_at DESC").Find(&clubs).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50080, "failed to list clubs")
		return
	}

	items := make([]gin.H, 0, len(clubs))
	for _, club := range clubs {
		var count int64
		if err := c.db.Model(&models.ClubMember{}).Where("club_id = ?", club.ID).Count(&count).Error; err != nil {
			count = 0
		}
		items = append(items, gin.H{"club": club, "member_count": count})
	}
	utils.Success(ctx, gin.H{"items": items})
}

// CreateClub stores a club; the creator joins automatically.
func (c *ClubController) CreateClub(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return
	}

	type request struct {
		Name        string `json:"name" binding:"required,max=128"`
		Description string `json:"description"`
		Category    string `json:"category"`
		ImageURL    string `json:"image_url"`
	}
	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40080, "invalid request payload")
		return
	}

	club := models.Club{
		ID:          uuid.NewString(),
		Name:        utils.SanitizeText(req.Name),
		Description: utils.SanitizeText(req.Description),
		Category:    strings.TrimSpace(req.Category),
		ImageURL:    strings.TrimSpace(req.ImageURL),
		CreatedBy:   userID,
	}
	err := c.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&club).Error; err != nil {
			return err
		}
		return tx.Create(&models.ClubMember{
			ClubID:   club.ID,
			UserID:   userID,
			JoinedAt: time.Now(),
		}).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50081, "failed to create club")
		return
	}
	utils.Success(ctx, club)
}

// GetClub returns one club and its members.
func (c *ClubController) GetClub(ctx *gin.Context) {
	var club models.Club
	if err := c.db.Where("id = ?", ctx.Param("id")).First(&club).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40422, "club not found")
		return
	}

	var members []models.ClubMember
	if err := c.db.Where("club_id = ?", club.ID).Order("joined_at ASC").Find(&members).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50082, "failed to load members")
		return
	}

	payload := gin.H{"club": club, "members": members, "member_count": len(members)}
	if userID, ok := getUserID(ctx); ok {
		joined := false
		for _, m := range members {
			if m.UserID == userID {
				joined = true
				break
			}
		}
		payload["joined"] = joined
	}
	utils.Success(ctx, payload)
}

// Join adds the caller to the club.
func (c *ClubController) Join(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return
	}

	var club models.Club
	if err := c.db.Where("id = ?", ctx.Param("id")).First(&club).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40422, "club not found")
		return
	}

	var existing models.ClubMember
	if err := c.db.Where("club_id = ? AND user_id = ?", club.ID, userID).First(&existing).Error; err == nil {
		utils.Error(ctx, http.StatusBadRequest, 40081, "already a member")
		return
	}

	member := models.ClubMember{ClubID: club.ID, UserID: userID, JoinedAt: time.Now()}
	if err := c.db.Create(&member).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50083, "failed to join club")
		return
	}
	utils.Success(ctx, member)
}

// Leave removes the caller from the club.
func (c *ClubController) Leave(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return
	}

	res := c.db.Where("club_id = ? AND user_id = ?", ctx.Param("id"), userID).Delete(&models.ClubMember{})
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50084, "failed to leave club")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40082, "not a member")
		return
	}
	utils.Success(ctx, gin.H{"message": "left club"})
}
