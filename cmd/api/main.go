package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"cvcraft/internal/api"
	"cvcraft/internal/config"
	"cvcraft/internal/database"
	"cvcraft/internal/export"
	"cvcraft/internal/pdf"
	"cvcraft/internal/render"
	"cvcraft/internal/storage"
)

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	log.Printf("api bootstrapped with db host=%s port=%d db=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	log.Printf("database connection ready")

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}
	log.Printf("database migrated")

	if cfg.API.SeedDemo {
		seeded, err := database.SeedDemo(context.Background(), db)
		if err != nil {
			log.Fatalf("seed demo cv: %v", err)
		}
		if seeded {
			log.Printf("seeded demo cv with ID 1")
		}
	}

	storageClient, err := storage.NewClient(cfg.MinIO)
	if err != nil {
		log.Fatalf("init storage client: %v", err)
	}
	log.Printf("storage client ready, bucket=%s", cfg.MinIO.Bucket)

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr()})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("close redis client failed", slog.Any("error", err))
		}
	}()
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("ping redis: %v", err)
	}

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.Redis.Addr()})
	defer func() {
		if err := asynqClient.Close(); err != nil {
			logger.Error("close asynq client failed", slog.Any("error", err))
		}
	}()

	photos := storage.NewPhotoResolver(storageClient, cfg.Export.PhotoTimeout, logger)
	renderer := render.NewRenderer(photos, logger, cfg.Export.FontBaseURL)
	printer := pdf.NewPrinter(cfg.Export.ChromiumBin, cfg.Export.PDFTimeout, logger)
	if !printer.Available() {
		logger.Warn("no chromium binary found, pdf export will download one on first use")
	}
	exporter := export.NewService(renderer, printer, logger)

	router := api.NewRouter(logger)
	api.RegisterRoutes(router, api.Dependencies{
		Store:           database.NewStore(db),
		Exporter:        exporter,
		Queue:           asynqClient,
		Objects:         storageClient,
		Redis:           redisClient,
		Logger:          logger,
		LinkTTL:         cfg.Export.LinkTTL,
		AllowedOrigins:  cfg.API.AllowedOrigins,
		ExportRateLimit: cfg.API.ExportRateLimit,
	})

	address := fmt.Sprintf(":%d", cfg.API.Port)
	log.Printf("api listening on %s", address)

	if err := router.Run(address); err != nil {
		log.Fatalf("failed to start api server: %v", err)
	}
}
