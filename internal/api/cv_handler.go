package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"cvcraft/internal/api/middleware"
	"cvcraft/internal/database"
	"cvcraft/internal/export"
	"cvcraft/internal/metrics"
	"cvcraft/internal/storage"
	"cvcraft/internal/tasks"
)

// CVStore 是 HTTP 层需要的 CV 读取与记账能力。
type CVStore interface {
	LoadCV(ctx context.Context, id uint) (*database.Snapshot, error)
	IncrementExportCount(ctx context.Context, id uint) error
	ListCVs(ctx context.Context, limit int) ([]database.CV, error)
}

// Exporter 执行预览与同步导出。
type Exporter interface {
	Export(ctx context.Context, req export.Request, format string) (*export.Artifact, error)
	Preview(ctx context.Context, req export.Request) (*export.Artifact, error)
}

// TaskEnqueuer 是异步导出使用的任务队列，*asynq.Client 实现了它。
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ExportStorage 提供导出产物的下载链接与历史列表，*storage.Client 实现了它。
type ExportStorage interface {
	PresignDownload(ctx context.Context, objectKey, filename string, ttl time.Duration) (string, error)
	ListObjects(ctx context.Context, prefix string, limit int) ([]storage.ObjectMeta, error)
}

// CVHandler 负责 CV 的预览、导出与下载链接。
type CVHandler struct {
	store    CVStore
	exporter Exporter
	queue    TaskEnqueuer
	objects  ExportStorage
	linkTTL  time.Duration
}

// NewCVHandler 构造 CVHandler。queue 或 objects 为 nil 时对应接口返回 503。
func NewCVHandler(store CVStore, exporter Exporter, queue TaskEnqueuer, objects ExportStorage, linkTTL time.Duration) *CVHandler {
	if linkTTL <= 0 {
		linkTTL = 15 * time.Minute
	}
	return &CVHandler{
		store:    store,
		exporter: exporter,
		queue:    queue,
		objects:  objects,
		linkTTL:  linkTTL,
	}
}

var errInvalidCVID = errors.New("invalid cv id")

const defaultListLimit = 50

type cvListItem struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	ThemeID     string    `json:"theme_id"`
	LayoutID    string    `json:"layout_id"`
	ExportCount int       `json:"export_count"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListCVs 按 id 升序返回 CV 摘要。
func (h *CVHandler) ListCVs(c *gin.Context) {
	limit := defaultListLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			BadRequest(c, "invalid limit")
			return
		}
		limit = min(n, 200)
	}

	records, err := h.store.ListCVs(c.Request.Context(), limit)
	if err != nil {
		middleware.LoggerFromContext(c).Error("list cvs failed", slog.Any("error", err))
		Internal(c, "failed to list cvs")
		return
	}

	items := make([]cvListItem, 0, len(records))
	for _, r := range records {
		items = append(items, cvListItem{
			ID:          r.ID,
			Title:       r.Title,
			ThemeID:     r.ThemeID,
			LayoutID:    r.LayoutID,
			ExportCount: r.ExportCount,
			UpdatedAt:   r.UpdatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"cvs": items})
}

// Preview 返回内联的 HTML 预览，theme 与 layout 查询参数可临时切换外观。
func (h *CVHandler) Preview(c *gin.Context) {
	snapshot, ok := h.loadSnapshot(c)
	if !ok {
		return
	}

	artifact, err := h.exporter.Preview(c.Request.Context(), requestFor(c, snapshot))
	if err != nil {
		middleware.LoggerFromContext(c).Error("render preview failed", slog.Any("error", err))
		Internal(c, "failed to render preview")
		return
	}
	setWarningHeader(c, artifact)
	c.Data(http.StatusOK, artifact.ContentType, artifact.Data)
}

// Export 同步生成导出文件并以附件形式返回。
// 格式在加载 CV 之前校验，不支持的格式不会触发任何渲染。
func (h *CVHandler) Export(c *gin.Context) {
	rawFormat := c.Query("format")
	format, err := export.ParseFormat(rawFormat)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	snapshot, ok := h.loadSnapshot(c)
	if !ok {
		return
	}

	log := middleware.LoggerFromContext(c).With(
		slog.Uint64("cv_id", uint64(snapshot.Document.ID)),
		slog.String("format", string(format)),
	)

	start := time.Now()
	artifact, err := h.exporter.Export(c.Request.Context(), requestFor(c, snapshot), string(format))
	if err != nil {
		metrics.ObserveExport(string(format), metrics.ModeSync, start, 0, err)
		log.Error("export cv failed", slog.Any("error", err))
		Internal(c, "failed to export cv")
		return
	}
	metrics.ObserveExport(string(format), metrics.ModeSync, start, len(artifact.Warnings), nil)

	if err := h.store.IncrementExportCount(c.Request.Context(), snapshot.Document.ID); err != nil {
		log.Warn("increment export count failed", slog.Any("error", err))
	}

	setWarningHeader(c, artifact)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, artifact.Filename))
	c.Data(http.StatusOK, artifact.ContentType, artifact.Data)
}

// CreateExportJob 将 PDF 或 HTML 导出任务入队并立即返回 202，结果经 WebSocket 推送。
func (h *CVHandler) CreateExportJob(c *gin.Context) {
	if h.queue == nil {
		Error(c, http.StatusServiceUnavailable, "async export is not configured")
		return
	}

	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	if format == export.FormatWord {
		BadRequest(c, "word export is a guided export and is served synchronously")
		return
	}

	snapshot, ok := h.loadSnapshot(c)
	if !ok {
		return
	}

	correlationID := middleware.GetCorrelationID(c)
	task, err := tasks.NewCVExportTask(tasks.CVExportPayload{
		CVID:          snapshot.Document.ID,
		Format:        string(format),
		ThemeID:       c.Query("theme"),
		LayoutID:      c.Query("layout"),
		CorrelationID: correlationID,
	})
	if err != nil {
		Internal(c, "failed to create task")
		return
	}

	info, err := h.queue.EnqueueContext(c.Request.Context(), task)
	if err != nil {
		middleware.LoggerFromContext(c).Error("enqueue export task failed", slog.Any("error", err))
		Internal(c, "failed to enqueue export")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message":        "export request accepted",
		"task_id":        info.ID,
		"correlation_id": correlationID,
	})
}

// GetDownloadLink 返回最近一次异步导出的限时下载链接。
func (h *CVHandler) GetDownloadLink(c *gin.Context) {
	if h.objects == nil {
		Error(c, http.StatusServiceUnavailable, "object storage is not configured")
		return
	}

	snapshot, ok := h.loadSnapshot(c)
	if !ok {
		return
	}
	if snapshot.LastExportKey == "" {
		Conflict(c, "export not ready")
		return
	}

	filename := export.SanitizeFilename(snapshot.Document.Title) + path.Ext(snapshot.LastExportKey)
	url, err := h.objects.PresignDownload(c.Request.Context(), snapshot.LastExportKey, filename, h.linkTTL)
	if err != nil {
		middleware.LoggerFromContext(c).Error("presign download failed", slog.Any("error", err))
		Internal(c, "failed to generate download link")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url":        url,
		"expires_in": int(h.linkTTL.Seconds()),
	})
}

// ListExports 列出对象存储中该 CV 的导出产物。
func (h *CVHandler) ListExports(c *gin.Context) {
	if h.objects == nil {
		Error(c, http.StatusServiceUnavailable, "object storage is not configured")
		return
	}

	snapshot, ok := h.loadSnapshot(c)
	if !ok {
		return
	}

	prefix := fmt.Sprintf("exports/%d/", snapshot.Document.ID)
	objects, err := h.objects.ListObjects(c.Request.Context(), prefix, defaultListLimit)
	if err != nil {
		middleware.LoggerFromContext(c).Error("list exports failed", slog.Any("error", err))
		Internal(c, "failed to list exports")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"latest":  snapshot.LastExportKey,
		"exports": objects,
	})
}

// loadSnapshot 解析路径中的 id 并加载 CV，失败时已写出响应。
func (h *CVHandler) loadSnapshot(c *gin.Context) (*database.Snapshot, bool) {
	id, err := parseCVID(c.Param("id"))
	if err != nil {
		BadRequest(c, errInvalidCVID.Error())
		return nil, false
	}

	snapshot, err := h.store.LoadCV(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrCVNotFound):
			NotFound(c, "cv not found")
		default:
			middleware.LoggerFromContext(c).Error("load cv failed", slog.Any("error", err))
			Internal(c, "failed to query cv")
		}
		return nil, false
	}
	return snapshot, true
}

func parseCVID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errInvalidCVID
	}
	return uint(id), nil
}

func requestFor(c *gin.Context, snapshot *database.Snapshot) export.Request {
	return export.Request{
		Document:    snapshot.Document,
		ThemeID:     c.Query("theme"),
		LayoutID:    c.Query("layout"),
		CustomTheme: snapshot.CustomTheme,
		Overrides:   snapshot.Overrides,
	}
}

func setWarningHeader(c *gin.Context, artifact *export.Artifact) {
	if len(artifact.Warnings) > 0 {
		c.Header("X-Export-Warnings", strconv.Itoa(len(artifact.Warnings)))
	}
}
