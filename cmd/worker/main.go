package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"hardware-distribution-backend/config"
	importRepositories "hardware-distribution-backend/imports/repositories"
	"hardware-distribution-backend/tasks"
	"hardware-distribution-backend/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	config.InitLogger()
	defer config.Logger.Sync()
	config.LoadEnv()

	db := config.ConfigureDatabase()
	importRepo := importRepositories.NewImportRepository(db)

	utils.InitializeMailer()

	server := asynq.NewServer(asynq.RedisClientOpt{
		Addr:     config.RedisAddress(),
		Password: config.GetEnv("REDIS_PASSWORD"),
		DB:       0,
	}, asynq.Config{
		Concurrency: config.GetEnvInt("WORKER_CONCURRENCY", 5),
	})

	handler := tasks.NewErrorReportHandler(importRepo, utils.SendEmail, utils.ReportsDir, config.Logger)
	mux := tasks.NewServeMux(handler)

	go func() {
		<-ctx.Done()
		server.Shutdown()
	}()

	config.Logger.Info("Worker starting", zap.Int("concurrency", config.GetEnvInt("WORKER_CONCURRENCY", 5)))
	if err := server.Run(mux); err != nil {
		config.Logger.Error("worker stopped", zap.Error(err))
		os.Exit(1)
	}
}
