package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/habitloop/habitloop/config"
	"github.com/habitloop/habitloop/controllers"
	"github.com/habitloop/habitloop/middleware"
	"github.com/habitloop/habitloop/services"
	"github.com/habitloop/habitloop/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	// Load config and set Gin mode from configuration
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		// fallback to default recovery if logger failed to init
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}

	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	historySvc := services.NewHistoryService(db)
	progressSvc := services.NewProgressService(db, historySvc)
	notifier := services.NewNotifier(db)

	authController := controllers.NewAuthController(db)
	habitController := controllers.NewHabitController(db, progressSvc, historySvc, notifier)
	challengeController := controllers.NewChallengeController(db, progressSvc, historySvc, notifier)
	clubController := controllers.NewClubController(db)
	historyController := controllers.NewHistoryController(historySvc)
	leaderboardController := controllers.NewLeaderboardController(db)
	notificationController := controllers.NewNotificationController(db)
	statsController := controllers.NewStatsController(db)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)
	authGroup.PATCH("/profile", middleware.AuthRequired(), authController.UpdateProfile)

	// Public reads; viewer-specific fields appear when a token is sent
	api.GET("/users/:id", authController.GetUserPublic)
	api.GET("/challenges", challengeController.ListChallenges)
	api.GET("/challenges/:id", middleware.OptionalAuth(), challengeController.GetChallenge)
	api.GET("/clubs", clubController.ListClubs)
	api.GET("/clubs/:id", middleware.OptionalAuth(), clubController.GetClub)
	api.GET("/leaderboard", leaderboardController.GetLeaderboard)
	api.GET("/stats", statsController.GetStats)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())

	protected.GET("/habits", habitController.ListHabits)
	protected.POST("/habits", habitController.CreateHabit)
	protected.GET("/habits/:id", habitController.GetHabit)
	protected.PATCH("/habits/:id", habitController.UpdateHabit)
	protected.DELETE("/habits/:id", habitController.DeleteHabit)
	protected.POST("/habits/:id/progress", habitController.AddProgress)
	protected.POST("/habits/:id/done", habitController.MarkDone)
	protected.POST("/habits/:id/skip", habitController.Skip)

	protected.POST("/challenges", challengeController.CreateChallenge)
	protected.DELETE("/challenges/:id", challengeController.DeleteChallenge)
	protected.POST("/challenges/:id/join", challengeController.Join)
	protected.POST("/challenges/:id/leave", challengeController.Leave)
	protected.POST("/challenges/:id/progress", challengeController.LogProgress)

	protected.POST("/clubs", clubController.CreateClub)
	protected.POST("/clubs/:id/join", clubController.Join)
	protected.POST("/clubs/:id/leave", clubController.Leave)

	protected.GET("/history", historyController.ListHistory)
	protected.GET("/notifications", notificationController.ListNotifications)
	protected.POST("/notifications/:id/read", notificationController.MarkRead)
	protected.POST("/notifications/read-all", notificationController.MarkAllRead)
	protected.GET("/stats/me", statsController.GetMyStats)

	r.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		ctx.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	})

	return r
}
