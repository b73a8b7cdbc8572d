package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"qook-backend/internal/app"
	"qook-backend/internal/config"
	"qook-backend/internal/database"
	"qook-backend/internal/imagestore"
	"qook-backend/internal/llm"
	"qook-backend/internal/metrics"
	"qook-backend/internal/planner"
	"qook-backend/internal/recipe"
	"qook-backend/internal/server"
	"qook-backend/internal/shopping"
	"qook-backend/internal/telegram"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	command := "serve"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "serve":
		if err := serve(logger); err != nil {
			logger.Error("server exited with error", "error", err)
			os.Exit(1)
		}
	case "metrics-cleanup":
		cleanupCmd := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
		days := cleanupCmd.Int("days", 30, "Keep records for the last N days")
		cleanupCmd.Parse(os.Args[2:])

		if err := metricsCleanup(logger, *days); err != nil {
			logger.Error("metrics cleanup failed", "error", err)
			os.Exit(1)
		}
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func serve(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer db.Close()

	geminiClient, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return fmt.Errorf("initialize gemini client: %w", err)
	}
	defer geminiClient.Close()

	recipeRepo := recipe.NewRepository(db.SQL)
	planRepo := planner.NewPlanRepository(db.SQL, recipeRepo)
	metricsStore := metrics.NewStore(db.SQL)
	shoppingRepo := shopping.NewRepository(db.SQL)

	weeklyPlanner := planner.NewPlanner(planRepo, recipeRepo, geminiClient, logger)

	var uploader app.ImageUploader
	if cfg.S3Configured() {
		up, err := imagestore.NewUploader(imagestore.Config{
			Endpoint:      cfg.S3Endpoint,
			Region:        cfg.S3Region,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			Bucket:        cfg.S3Bucket,
			PublicBaseURL: cfg.S3PublicBaseURL,
			UsePathStyle:  cfg.S3UsePathStyle,
			Prefix:        cfg.S3Prefix,
		})
		if err != nil {
			return fmt.Errorf("initialize image store: %w", err)
		}
		uploader = up
		logger.Info("image storage enabled", "bucket", cfg.S3Bucket)
	} else {
		logger.Info("image storage not configured, /save-meal-image disabled")
	}

	application := app.New(
		weeklyPlanner,
		recipeRepo,
		geminiClient,
		uploader,
		metricsStore,
		shoppingRepo,
		cfg.JWTSecret,
		logger,
	)

	srv := server.New(cfg.ListenAddr, cfg.AllowedOrigins, filepath.Dir(cfg.DatabasePath), logger, application)

	if cfg.TelegramBotToken != "" && cfg.TelegramWebhookURL != "" {
		bot, err := telegram.NewBot(
			cfg.TelegramBotToken,
			cfg.TelegramWebhookURL,
			cfg.TelegramAllowedUserIDs,
			application,
			logger,
		)
		if err != nil {
			return fmt.Errorf("initialize telegram bot: %w", err)
		}
		srv.Handler().Post("/telegram/webhook", bot.WebhookHandler())
		logger.Info("telegram webhook mounted")
	}

	return srv.Run(ctx)
}

func metricsCleanup(logger *slog.Logger, days int) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer db.Close()

	affected, err := metrics.NewStore(db.SQL).Cleanup(context.Background(), days)
	if err != nil {
		return err
	}
	logger.Info("removed old metric records", "count", affected, "kept_days", days)
	return nil
}

func printUsage() {
	fmt.Println("Usage: qook-server [command]")
	fmt.Println("\nCommands:")
	fmt.Println("  serve             Start the HTTP API server (default)")
	fmt.Println("  metrics-cleanup   Remove old generation metric records")
}
