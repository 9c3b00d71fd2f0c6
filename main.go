package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"voice-be/config"
	"voice-be/controllers"
	"voice-be/middlewares"
	"voice-be/models"
	"voice-be/routes"
	"voice-be/services"
	"voice-be/store"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
)

const issueCreateDailyLimit = 5

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found")
	}

	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	mongoClient, db, err := config.ConnectMongo(ctx, cfg)
	if err != nil {
		logger.Error("failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()
	logger.Info("MongoDB connection established")

	redisClient, err := config.ConnectRedis(ctx, cfg)
	if err != nil {
		logger.Error("failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	logger.Info("Redis connection established")

	issues := store.NewIssues(db)
	users := store.NewUsers(db)
	admins := store.NewAdmins(db)
	actions := store.NewActions(db)

	if err := models.EnsureUserIndexes(db.Collection("users")); err != nil {
		logger.Warn("failed to ensure user indexes", "error", err)
	}
	if err := models.EnsureIssueIndexes(db.Collection("issues")); err != nil {
		logger.Warn("failed to ensure issue indexes", "error", err)
	}
	if err := models.EnsureAdminIndexes(db.Collection("admins")); err != nil {
		logger.Warn("failed to ensure admin indexes", "error", err)
	}
	if err := models.EnsureAdminActionIndexes(db.Collection("admin_actions")); err != nil {
		logger.Warn("failed to ensure admin action indexes", "error", err)
	}

	auditService := services.NewAuditService(actions, logger)
	upvoteService := services.NewUpvoteService(issues, users, logger)
	issueService := services.NewIssueService(issues, users, logger)
	adminService := services.NewAdminService(issues, admins, users, auditService, logger)

	authController := controllers.NewAuthController(users, admins, cfg.JWTSecret)
	issueController := controllers.NewIssueController(issueService, upvoteService)
	adminController := controllers.NewAdminController(adminService, auditService)

	authMiddleware := middlewares.AuthMiddleware(cfg.JWTSecret)
	adminMiddleware := middlewares.AdminMiddleware(adminService)
	rateLimiter := middlewares.IssueRateLimiter(redisClient, cfg.IssueRateQueue, issueCreateDailyLimit)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	routes.AuthRoutes(r, authController, authMiddleware)
	routes.IssueRoutes(r, issueController, authMiddleware, rateLimiter)
	routes.AdminRoutes(r, adminController, authMiddleware, adminMiddleware)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	logger.Info("starting server", "port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("failed to start server", "error", err)
		os.Exit(1)
	}
}
