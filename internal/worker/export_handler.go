package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"cvcraft/internal/database"
	"cvcraft/internal/errcode"
	"cvcraft/internal/export"
	"cvcraft/internal/metrics"
	"cvcraft/internal/tasks"
)

// CVStore 是 worker 需要的持久化能力，*database.Store 实现了它。
type CVStore interface {
	LoadCV(ctx context.Context, id uint) (*database.Snapshot, error)
	RecordExport(ctx context.Context, id uint, objectKey, format string) (string, error)
}

// ObjectWriter 是导出产物的存储，*storage.Client 实现了它。
type ObjectWriter interface {
	PutObject(ctx context.Context, objectKey string, data []byte, contentType string) error
	DeleteObject(ctx context.Context, objectKey string) error
}

// Exporter 执行导出流程，*export.Service 实现了它。
type Exporter interface {
	Export(ctx context.Context, req export.Request, format string) (*export.Artifact, error)
}

// ExportTaskHandler 负责消费异步导出任务。
type ExportTaskHandler struct {
	store    CVStore
	objects  ObjectWriter
	exporter Exporter
	notifier Notifier
	logger   *slog.Logger
}

// NewExportTaskHandler 创建任务处理器。
func NewExportTaskHandler(store CVStore, objects ObjectWriter, exporter Exporter, notifier Notifier, logger *slog.Logger) *ExportTaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportTaskHandler{
		store:    store,
		objects:  objects,
		exporter: exporter,
		notifier: notifier,
		logger:   logger,
	}
}

// ObjectKey 返回导出产物在对象存储中的 key。
func ObjectKey(cvID uint, ext string) string {
	return fmt.Sprintf("exports/%d/%s.%s", cvID, uuid.NewString(), ext)
}

// ProcessTask 实现 asynq.Handler。
func (h *ExportTaskHandler) ProcessTask(ctx context.Context, t *asynq.Task) (retErr error) {
	log := h.logger

	var payload tasks.CVExportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		log.Error("unmarshal task payload failed", slog.Any("error", err))
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	log = log.With(
		slog.String("correlation_id", payload.CorrelationID),
		slog.Uint64("cv_id", uint64(payload.CVID)),
		slog.String("format", payload.Format),
	)
	log.Info("starting cv export task")

	notify := ExportNotifyMessage{
		CVID:          payload.CVID,
		CorrelationID: payload.CorrelationID,
		Format:        payload.Format,
	}
	errorCode := errcode.SystemError

	defer func() {
		if retErr == nil || !isFinalAsynqAttempt(ctx) {
			return
		}
		notify.Status = StatusError
		notify.ErrorCode = errorCode
		notify.ErrorMessage = strings.TrimSpace(retErr.Error())
		if err := h.notifier.Notify(ctx, notify); err != nil {
			log.Error("publish export error notification failed", slog.Any("error", err))
		}
	}()

	format, err := export.ParseFormat(payload.Format)
	if err != nil {
		errorCode = errcode.UnsupportedFormat
		return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
	}

	snapshot, err := h.store.LoadCV(ctx, payload.CVID)
	if err != nil {
		if errors.Is(err, database.ErrCVNotFound) {
			log.Warn("cv not found, skipping task")
			errorCode = errcode.CVNotFound
			return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
		}
		log.Error("load cv failed", slog.Any("error", err))
		return err
	}

	start := time.Now()
	artifact, err := h.exporter.Export(ctx, export.Request{
		Document:    snapshot.Document,
		ThemeID:     payload.ThemeID,
		LayoutID:    payload.LayoutID,
		CustomTheme: snapshot.CustomTheme,
		Overrides:   snapshot.Overrides,
	}, string(format))
	if err != nil {
		metrics.ObserveExport(string(format), metrics.ModeAsync, start, 0, err)
		log.Error("export cv failed", slog.Any("error", err))
		return err
	}
	metrics.ObserveExport(string(format), metrics.ModeAsync, start, len(artifact.Warnings), nil)

	objectKey := ObjectKey(payload.CVID, format.Extension())
	if err := h.objects.PutObject(ctx, objectKey, artifact.Data, artifact.ContentType); err != nil {
		log.Error("upload export to minio failed", slog.Any("error", err))
		return err
	}

	previous, err := h.store.RecordExport(ctx, payload.CVID, objectKey, string(format))
	if err != nil {
		log.Error("record export failed", slog.Any("error", err))
		return err
	}
	if previous != "" && previous != objectKey {
		if err := h.objects.DeleteObject(ctx, previous); err != nil {
			log.Warn("delete previous export failed", slog.String("object_key", previous), slog.Any("error", err))
		}
	}

	notify.Status = StatusCompleted
	notify.ErrorCode = errcode.OK
	notify.ObjectKey = objectKey
	notify.Filename = artifact.Filename
	if len(artifact.Warnings) > 0 {
		notify.ErrorCode = errcode.ResourceMissing
		notify.ErrorMessage = "some resources were unavailable and have been skipped"
		for _, w := range artifact.Warnings {
			notify.Warnings = append(notify.Warnings, w.Message)
		}
		log.Warn("cv exported with missing resources", slog.Int("warning_count", len(artifact.Warnings)))
	}
	if err := h.notifier.Notify(ctx, notify); err != nil {
		log.Error("publish redis notification failed", slog.Any("error", err))
		return err
	}

	log.Info("cv export task completed", slog.String("object_key", objectKey))
	return nil
}

// isFinalAsynqAttempt 判断是否为最后一次尝试；不在 asynq 中运行时视为唯一一次尝试。
func isFinalAsynqAttempt(ctx context.Context) bool {
	retryCount, ok1 := asynq.GetRetryCount(ctx)
	maxRetry, ok2 := asynq.GetMaxRetry(ctx)
	if !ok1 || !ok2 {
		return true
	}
	return retryCount >= maxRetry
}
