package services

import (
	"gorm.io/gorm"

	"github.com/habitloop/habitloop/models"
	"github.com/habitloop/habitloop/utils"
)

// Points aggregation. The three counters on the user row are derived from
// history entries and only ever change inside the same transaction that
// writes or removes those entries, so they cannot drift from the journal.

// addPoints credits amount to the user's counters. Daily points move only
// when the completion date is today's local date. Atomic SQL increments
// mirror concurrent completions safely.
func addPoints(tx *gorm.DB, userID uint, amount int, date string) error {
	if amount <= 0 {
		return nil
	}
	updates := map[string]interface{}{
		"total_points":  gorm.Expr("total_points + ?", amount),
		"weekly_points": gorm.Expr("weekly_points + ?", amount),
	}
	if date == utils.Today() {
		updates["daily_points"] = gorm.Expr("daily_points + ?", amount)
	}
	res := tx.Model(&models.User{}).Where("id = ?", userID).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// subtractPoints reverses totalAmount from total/weekly and todayAmount
// from daily. Counters are clamped at zero so a delete can never leave a
// negative balance.
func subtractPoints(tx *gorm.DB, userID uint, totalAmount, todayAmount int) error {
	if totalAmount <= 0 && todayAmount <= 0 {
		return nil
	}
	res := tx.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"total_points":  gorm.Expr("CASE WHEN total_points >= ? THEN total_points - ? ELSE 0 END", totalAmount, totalAmount),
		"weekly_points": gorm.Expr("CASE WHEN weekly_points >= ? THEN weekly_points - ? ELSE 0 END", totalAmount, totalAmount),
		"daily_points":  gorm.Expr("CASE WHEN daily_points >= ? THEN daily_points - ? ELSE 0 END", todayAmount, todayAmount),
	})
	return res.Error
}
