package services

import (
	"gorm.io/gorm"

	"github.com/habitloop/habitloop/models"
	"github.com/habitloop/habitloop/utils"
)

// Notifier writes rows into the in-app notification feed. Sends are
// best-effort and never fail the surrounding operation.
type Notifier struct {
	db *gorm.DB
}

// NewNotifier creates a Notifier.
func NewNotifier(db *gorm.DB) *Notifier {
	return &Notifier{db: db}
}

// Send stores one unread notification for the user.
func (n *Notifier) Send(userID uint, title, body, kind string) {
	if userID == 0 {
		return
	}
	notif := models.Notification{
		UserID: userID,
		Title:  title,
		Body:   body,
		Type:   kind,
	}
	if err := n.db.Create(&notif).Error; err != nil {
		utils.Sugar.Warnf("notification write failed user=%d: %v", userID, err)
	}
}
