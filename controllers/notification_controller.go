package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/habitloop/habitloop/models"
	"github.com/habitloop/habitloop/utils"
)

// NotificationController serves the in-app notification feed.
type NotificationController struct {
	db *gorm.DB
}

// NewNotificationController creates a NotificationController.
func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{db: db}
}

// ListNotifications returns the caller's notifications, newest first.
func (n *NotificationController) ListNotifications(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return
	}

	var notifs []models.Notification
	if err := n.db.Where("user_id = ?", userID).
		Order("created_at DESC").Limit(100).Find(&notifs).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50085, "failed to load notifications")
		return
	}

	var unread int64
	n.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).Count(&unread)

	utils.Success(ctx, gin.H{
		"notifications": notifs,
		"unread_count":  unread,
	})
}

// MarkRead marks a single notification as read.
func (n *NotificationController) MarkRead(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return
	}
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40085, "invalid notification id")
		return
	}

	res := n.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50086, "failed to update notification")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40485, "notification not found")
		return
	}
	utils.Success(ctx, gin.H{"id": id, "is_read": true})
}

// MarkAllRead marks every unread notification of the caller as read.
func (n *NotificationController) MarkAllRead(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40112, "unauthorized")
		return
	}

	res := n.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50087, "failed to update notifications")
		return
	}
	utils.Success(ctx, gin.H{"updated": res.RowsAffected})
}
