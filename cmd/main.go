package main

import (
	"context"
	"time"

	achievementRoutes "hardware-distribution-backend/achievements/routes"
	bleveControllers "hardware-distribution-backend/bleve/controllers"
	bleveRoutes "hardware-distribution-backend/bleve/routes"
	config "hardware-distribution-backend/config"
	importControllers "hardware-distribution-backend/imports/controllers"
	importRoutes "hardware-distribution-backend/imports/routes"
	"hardware-distribution-backend/internal/bootstrap"
	"hardware-distribution-backend/middleware"
	"hardware-distribution-backend/seeds"
	storeRoutes "hardware-distribution-backend/stores/routes"
	"hardware-distribution-backend/tasks"
	userRoutes "hardware-distribution-backend/users/routes"
	"hardware-distribution-backend/utils"
	"hardware-distribution-backend/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	// Initialize Zap logger
	config.InitLogger()
	defer config.Logger.Sync()

	// Load environment variables
	config.LoadEnv()

	ctx := context.Background()
	port := config.GetEnvOrDefault("PORT", "8080")
	settings := config.LoadImportSettings()

	// Fiber checks the whole multipart body, the pipeline checks each file.
	app := fiber.New(fiber.Config{
		BodyLimit: settings.MaxFiles*int(settings.MaxFileBytes) + 1024*1024,
	})
	middleware.InitCors(app)

	// Initialize database and configs
	db := config.ConfigureDatabase()
	redisClient := config.InitRedisServer(ctx)

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.RedisAddress(),
		Password: config.GetEnv("REDIS_PASSWORD"),
		DB:       0,
	})
	defer asynqClient.Close()

	// Initialize the mailer
	utils.InitializeMailer()

	if err := utils.InitializeDateLocation(config.GetEnv("DB_TIMEZONE")); err != nil {
		config.Logger.Fatal("Failed to initialize date location", zap.Error(err))
	}

	// ------ WebSocket Hub for import and achievement events ------
	wsHub := websocket.NewHub()
	go wsHub.Run()
	defer wsHub.Stop()

	indexPath := config.GetEnvOrDefault("BLEVE_INDEX_PATH", "./bleve_data")
	services := bootstrap.NewServices(db, redisClient, wsHub, indexPath)
	defer services.Close()

	if config.GetEnvBool("REINDEX_ON_STARTUP", false) {
		if _, err := bootstrap.IndexBleveData(ctx, services.StoreRepo, services.SearchIndex); err != nil {
			config.Logger.Error("Failed to rebuild search index", zap.Error(err))
		}
	}

	if config.GetEnvBool("SEED_DATABASE", false) {
		if err := seeds.SeedAll(ctx, db, services.Engine); err != nil {
			config.Logger.Error("Database seeding failed", zap.Error(err))
		}
	}

	// Serve static files
	app.Static("/public", "./public")

	// Routes
	importController := &importControllers.ImportController{
		Pipeline:     services.Pipeline,
		ImportRepo:   services.ImportRepo,
		Uploads:      utils.NewLocalFileStorage(config.GetEnvOrDefault("UPLOAD_TMP_DIR", "./tmp")),
		Achievements: services.Engine,
		Reports:      tasks.NewErrorReportEnqueuer(asynqClient),
		Events:       wsHub,
	}
	uploadLimiter := middleware.NewRateLimiter(
		float64(config.GetEnvInt("UPLOAD_RATE_PER_MINUTE", 10))/60,
		config.GetEnvInt("UPLOAD_RATE_BURST", 3),
	)

	importRoutes.ImportRouterInit(app, importController, uploadLimiter)
	achievementRoutes.AchievementRouterInit(app, services.Engine)
	storeRoutes.StoreRouterInit(app, services.StoreRepo)
	userRoutes.InitRoutes(app, services.UserRepo, services.Engine)
	bleveRoutes.InitBleveRoutes(app, bleveControllers.NewSearchController(services.SearchIndex))

	wsHandler := websocket.NewWsHandler(wsHub)
	app.Get("/ws", wsHandler.HandleWebSocket)
	config.Logger.Info("WebSocket endpoint registered at /ws")

	// Background cleanup of generated reports and stashed uploads
	cleanup, err := utils.RunScheduledCleanup(
		[]string{utils.ReportsDir, config.GetEnvOrDefault("UPLOAD_TMP_DIR", "./tmp")},
		time.Duration(config.GetEnvInt("FILE_RETENTION_HOURS", 24))*time.Hour,
	)
	if err != nil {
		config.Logger.Error("Failed to schedule file cleanup", zap.Error(err))
	} else {
		defer cleanup.Stop()
	}

	config.Logger.Info("Server starting", zap.String("port", port))
	if err := app.Listen(":" + port); err != nil {
		config.Logger.Fatal("Server failed", zap.String("port", port), zap.Error(err))
	}
}
