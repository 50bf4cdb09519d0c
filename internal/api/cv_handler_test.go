package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"cvcraft/internal/database"
	"cvcraft/internal/export"
	"cvcraft/internal/render"
	"cvcraft/internal/storage"
	"cvcraft/internal/tasks"
)

type fakePrinter struct {
	calls int
}

func (p *fakePrinter) Print(context.Context, string, render.PageFrame) ([]byte, error) {
	p.calls++
	return []byte("%PDF-1.7 test"), nil
}

type fakeQueue struct {
	tasks []*asynq.Task
}

func (q *fakeQueue) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	q.tasks = append(q.tasks, task)
	return &asynq.TaskInfo{ID: fmt.Sprintf("task-%d", len(q.tasks)), Type: task.Type()}, nil
}

type fakeStorage struct {
	presigned []string
	filenames []string
	objects   []storage.ObjectMeta
}

func (s *fakeStorage) PresignDownload(_ context.Context, objectKey, filename string, _ time.Duration) (string, error) {
	s.presigned = append(s.presigned, objectKey)
	s.filenames = append(s.filenames, filename)
	return "https://example.invalid/" + objectKey, nil
}

func (s *fakeStorage) ListObjects(_ context.Context, prefix string, _ int) ([]storage.ObjectMeta, error) {
	var out []storage.ObjectMeta
	for _, o := range s.objects {
		if strings.HasPrefix(o.Key, prefix) {
			out = append(out, o)
		}
	}
	return out, nil
}

type testEnv struct {
	router  *gin.Engine
	store   *database.Store
	printer *fakePrinter
	queue   *fakeQueue
	objects *fakeStorage
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := database.SeedDemo(context.Background(), db); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := quietLogger()
	env := &testEnv{
		store:   database.NewStore(newTestDB(t)),
		printer: &fakePrinter{},
		queue:   &fakeQueue{},
		objects: &fakeStorage{},
	}
	renderer := render.NewRenderer(nil, logger, "")
	env.router = NewRouter(logger)
	RegisterRoutes(env.router, Dependencies{
		Store:    env.store,
		Exporter: export.NewService(renderer, env.printer, logger),
		Queue:    env.queue,
		Objects:  env.objects,
		Logger:   logger,
		LinkTTL:  10 * time.Minute,
	})
	return env
}

func (e *testEnv) do(method, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestHealthAndMetrics(t *testing.T) {
	env := newTestEnv(t)

	if rec := env.do(http.MethodGet, "/health", nil); rec.Code != http.StatusOK {
		t.Fatalf("health: %d", rec.Code)
	}
	rec := env.do(http.MethodGet, "/metrics", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "cvcraft_http_requests_total") {
		t.Fatalf("metrics endpoint must expose http counters: %d", rec.Code)
	}
	if rec.Header().Get("X-Correlation-ID") == "" {
		t.Fatalf("every response must carry a correlation id")
	}
}

func TestExportPDF(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/v1/cvs/1/export?format=PDF", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("Content-Type") != "application/pdf" {
		t.Fatalf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="Demo_Academic_CV.pdf"` {
		t.Fatalf("unexpected disposition %q", got)
	}
	if env.printer.calls != 1 {
		t.Fatalf("printer must run once, ran %d", env.printer.calls)
	}

	snapshot, err := env.store.LoadCV(context.Background(), 1)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if snapshot.ExportCount != 1 {
		t.Fatalf("export count must be incremented, got %d", snapshot.ExportCount)
	}
}

func TestExportRejectsFormatBeforeLoading(t *testing.T) {
	env := newTestEnv(t)

	for _, target := range []string{
		"/v1/cvs/1/export?format=xml",
		"/v1/cvs/1/export",
		"/v1/cvs/404/export?format=invalid",
	} {
		rec := env.do(http.MethodGet, target, nil)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", target, rec.Code)
		}
		if !strings.Contains(decode(t, rec)["error"].(string), "unsupported format") {
			t.Fatalf("%s: unexpected body %s", target, rec.Body.String())
		}
	}
	if env.printer.calls != 0 {
		t.Fatalf("unsupported formats must not reach the printer")
	}
}

func TestExportErrors(t *testing.T) {
	env := newTestEnv(t)

	if rec := env.do(http.MethodGet, "/v1/cvs/404/export?format=pdf", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("missing cv: expected 404, got %d", rec.Code)
	}
	if rec := env.do(http.MethodGet, "/v1/cvs/abc/export?format=pdf", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad id: expected 400, got %d", rec.Code)
	}
}

func TestExportWordGuide(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/v1/cvs/1/export?format=docx", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html") {
		t.Fatalf("word export must return the html guide")
	}
	if env.printer.calls != 0 {
		t.Fatalf("word export must not print")
	}
}

func TestPreviewHonoursQueryOverrides(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/v1/cvs/1/preview?layout=modern-sidebar&theme=modern-blue", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Dr. Jane Doe") || !strings.Contains(body, "cv-columns") {
		t.Fatalf("preview must render the document with the requested layout")
	}
	if rec.Header().Get("Content-Disposition") != "" {
		t.Fatalf("preview must be inline")
	}
}

func TestCreateExportJob(t *testing.T) {
	env := newTestEnv(t)

	header := http.Header{"X-Correlation-Id": []string{"cid-42"}}
	rec := env.do(http.MethodPost, "/v1/cvs/1/export-jobs?format=html&layout=academic-detailed", header)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	if body["task_id"] != "task-1" || body["correlation_id"] != "cid-42" {
		t.Fatalf("unexpected body: %v", body)
	}

	if len(env.queue.tasks) != 1 || env.queue.tasks[0].Type() != tasks.TypeCVExport {
		t.Fatalf("export task must be enqueued")
	}
	var payload tasks.CVExportPayload
	if err := json.Unmarshal(env.queue.tasks[0].Payload(), &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.CVID != 1 || payload.Format != "html" || payload.LayoutID != "academic-detailed" || payload.CorrelationID != "cid-42" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestCreateExportJobValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := map[string]int{
		"/v1/cvs/1/export-jobs?format=word": http.StatusBadRequest,
		"/v1/cvs/1/export-jobs?format=png":  http.StatusBadRequest,
		"/v1/cvs/9/export-jobs?format=pdf":  http.StatusNotFound,
	}
	for target, want := range cases {
		if rec := env.do(http.MethodPost, target, nil); rec.Code != want {
			t.Fatalf("%s: expected %d, got %d", target, want, rec.Code)
		}
	}
	if len(env.queue.tasks) != 0 {
		t.Fatalf("rejected requests must not enqueue tasks")
	}
}

func TestDownloadLink(t *testing.T) {
	env := newTestEnv(t)

	if rec := env.do(http.MethodGet, "/v1/cvs/1/download-link", nil); rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 before any export, got %d", rec.Code)
	}

	if _, err := env.store.RecordExport(context.Background(), 1, "exports/1/abc.pdf", "pdf"); err != nil {
		t.Fatalf("record export: %v", err)
	}
	rec := env.do(http.MethodGet, "/v1/cvs/1/download-link", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	body := decode(t, rec)
	if body["url"] != "https://example.invalid/exports/1/abc.pdf" || body["expires_in"] != float64(600) {
		t.Fatalf("unexpected body: %v", body)
	}
	if env.objects.filenames[0] != "Demo_Academic_CV.pdf" {
		t.Fatalf("download must be named after the cv: %v", env.objects.filenames)
	}
}

func TestListExports(t *testing.T) {
	env := newTestEnv(t)
	env.objects.objects = []storage.ObjectMeta{
		{Key: "exports/1/a.pdf", Size: 10},
		{Key: "exports/12/b.pdf", Size: 20},
	}

	rec := env.do(http.MethodGet, "/v1/cvs/1/exports", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	exports := decode(t, rec)["exports"].([]any)
	if len(exports) != 1 {
		t.Fatalf("only this cv's exports must be listed: %v", exports)
	}
}

func TestListCVs(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/v1/cvs", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	cvs := decode(t, rec)["cvs"].([]any)
	if len(cvs) != 1 || cvs[0].(map[string]any)["title"] != "Demo Academic CV" {
		t.Fatalf("unexpected list: %v", cvs)
	}

	if rec := env.do(http.MethodGet, "/v1/cvs?limit=-1", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("negative limit must be rejected, got %d", rec.Code)
	}
}

func TestAsyncRoutesWithoutBackends(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := quietLogger()
	router := NewRouter(logger)
	RegisterRoutes(router, Dependencies{
		Store:    database.NewStore(newTestDB(t)),
		Exporter: export.NewService(render.NewRenderer(nil, logger, ""), &fakePrinter{}, logger),
		Logger:   logger,
	})

	for _, target := range []string{"/v1/cvs/1/export-jobs?format=pdf", "/v1/cvs/1/download-link"} {
		method := http.MethodGet
		if strings.Contains(target, "export-jobs") {
			method = http.MethodPost
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("%s: expected 503, got %d", target, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/ws?correlation_id=x", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("websocket route must not exist without redis, got %d", rec.Code)
	}
}

func TestWebSocketRequiresCorrelationID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewWsHandler(nil, quietLogger(), nil)
	router := gin.New()
	router.GET("/ws", h.HandleConnection)

	for _, target := range []string{"/ws", "/ws?correlation_id=bad%20id"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}
