package utils

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/habitloop/habitloop/models"
)

const (
	rolloverDayKey  = "rollover:last_day"
	rolloverWeekKey = "rollover:last_week"
)

var (
	lastRolloverDay  string
	lastRolloverWeek string
)

// StartRollover launches a background goroutine that detects local-date
// and ISO-week boundaries and resets the derived per-period state: daily
// points and habit progress on a new day, weekly points on a new week.
// It is best-effort and logs failures. Last-seen markers live in Redis so
// a restart inside the same period does not replay a reset.
func StartRollover(db *gorm.DB, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		for {
			// Sleep first to avoid racing immediately at startup
			time.Sleep(interval)
			RolloverTick(db, time.Now())
		}
	}()
}

// RolloverTick runs one boundary check. Split out of the loop so tests
// can drive it directly.
func RolloverTick(db *gorm.DB, now time.Time) {
	today := FormatDateLocal(now)
	week := WeekKey(now)

	if marker := loadMarker(rolloverDayKey, &lastRolloverDay); marker != today {
		if marker != "" {
			if err := db.Model(&models.User{}).Where("daily_points <> 0").
				Update("daily_points", 0).Error; err != nil {
				Sugar.Warnf("daily points rollover failed: %v", err)
			}
			if err := db.Model(&models.Habit{}).Where("current_progress <> 0").
				Update("current_progress", 0).Error; err != nil {
				Sugar.Warnf("habit progress rollover failed: %v", err)
			}
			Sugar.Infof("daily rollover done, new day %s", today)
		}
		storeMarker(rolloverDayKey, &lastRolloverDay, today)
	}

	if marker := loadMarker(rolloverWeekKey, &lastRolloverWeek); marker != week {
		if marker != "" {
			if err := db.Model(&models.User{}).Where("weekly_points <> 0").
				Update("weekly_points", 0).Error; err != nil {
				Sugar.Warnf("weekly points rollover failed: %v", err)
			}
			Sugar.Infof("weekly rollover done, new week %s", week)
		}
		storeMarker(rolloverWeekKey, &lastRolloverWeek, week)
	}
}

// loadMarker prefers the Redis value and falls back to the in-process one.
func loadMarker(key string, mem *string) string {
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if v, err := rc.Get(ctx, key).Result(); err == nil && v != "" {
			*mem = v
			return v
		}
	}
	return *mem
}

func storeMarker(key string, mem *string, value string) {
	*mem = value
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := rc.Set(ctx, key, value, 0).Err(); err != nil {
			Sugar.Debugf("rollover marker store failed key=%s: %v", key, err)
		}
	}
}
