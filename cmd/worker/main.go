package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"cvcraft/internal/config"
	"cvcraft/internal/database"
	"cvcraft/internal/export"
	"cvcraft/internal/metrics"
	"cvcraft/internal/pdf"
	"cvcraft/internal/render"
	"cvcraft/internal/storage"
	"cvcraft/internal/tasks"
	"cvcraft/internal/worker"
)

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	log.Println("database connection ready for worker")

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

	photos := storage.NewPhotoResolver(storageClient, cfg.Export.PhotoTimeout, logger)
	renderer := render.NewRenderer(photos, logger, cfg.Export.FontBaseURL)
	printer := pdf.NewPrinter(cfg.Export.ChromiumBin, cfg.Export.PDFTimeout, logger)
	exporter := export.NewService(renderer, printer, logger)

	exportHandler := worker.NewExportTaskHandler(
		database.NewStore(db),
		storageClient,
		exporter,
		worker.NewRedisNotifier(redisClient),
		logger,
	)

	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Addr()}
	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: cfg.Worker.Concurrency,
	})

	mux := asynq.NewServeMux()
	mux.Use(metrics.AsynqMetricsMiddleware())
	mux.Handle(tasks.TypeCVExport, exportHandler)

	if cfg.Worker.MetricsPort > 0 {
		go serveMetrics(cfg.Worker.MetricsPort, logger)
	}

	logger.Info("worker service started",
		slog.String("redis_addr", cfg.Redis.Addr()),
		slog.Int("concurrency", cfg.Worker.Concurrency),
	)
	if err := server.Run(mux); err != nil {
		logger.Error("worker server stopped", slog.Any("error", err))
	}
}

// serveMetrics 暴露 worker 进程的 Prometheus 指标。
func serveMetrics(port int, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	addr := fmt.Sprintf(":%d", port)
	logger.Info("worker metrics listening", slog.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("worker metrics server stopped", slog.Any("error", err))
	}
}
