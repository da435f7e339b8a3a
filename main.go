// main.go
package main

import (
	"context"
	"log"
	"time"

	"reuniteme/cmd"
	"reuniteme/internal/data/repository"
	"reuniteme/internal/usecase"
	"reuniteme/internal/wire"
	"reuniteme/pkg/database"
	"reuniteme/pkg/notify"
	"reuniteme/pkg/storage"
	"reuniteme/pkg/token"
	"reuniteme/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Connect to database and bring the schema up to date
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	logger.Info("Database connected successfully")

	repos := repository.NewRepository(db, logger)

	// External clients
	objects, err := storage.NewS3Storage(ctx, config.Storage, logger)
	if err != nil {
		logger.Fatal("Failed to init object storage", zap.Error(err))
	}

	clients := &usecase.Clients{
		Storage: objects,
		Notifier: notify.NewDispatcher(
			notify.NewSMTPMailer(config.Email),
			notify.NewTwilioSender(config.SMS, logger),
			config,
			logger,
		),
		UserTokens:  token.NewIssuer([]byte(config.JWT.UserSecret), config.JWT.Expiry(), "user"),
		AdminTokens: token.NewIssuer([]byte(config.JWT.AdminSecret), config.JWT.Expiry(), "admin"),
	}

	// Wire all dependencies
	app := wire.Wiring(repos, clients, config, logger)

	if config.Admin.Username != "" {
		if err := app.Service.Admin.EnsureBootstrapAdmin(ctx, config.Admin); err != nil {
			logger.Fatal("Failed to create admin", zap.Error(err))
		}
	}

	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	if err := cmd.APIServer(app.Router, config.App.Port, logger); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}
