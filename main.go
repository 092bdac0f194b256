package main

import (
	"time"

	"github.com/habitloop/habitloop/config"
	"github.com/habitloop/habitloop/models"
	"github.com/habitloop/habitloop/routes"
	"github.com/habitloop/habitloop/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.Habit{},
		&models.Challenge{},
		&models.ChallengeParticipant{},
		&models.HistoryEntry{},
		&models.Club{},
		&models.ClubMember{},
		&models.Notification{},
	)

	r := routes.SetupRouter(db)

	// Reset daily and weekly counters when the local date rolls over
	utils.StartRollover(db, time.Minute)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
