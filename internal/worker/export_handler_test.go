package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/hibiken/asynq"

	"cvcraft/internal/cv"
	"cvcraft/internal/database"
	"cvcraft/internal/errcode"
	"cvcraft/internal/export"
	"cvcraft/internal/tasks"
)

type fakeStore struct {
	snapshot *database.Snapshot
	loadErr  error
	previous string
	recorded []string
}

func (f *fakeStore) LoadCV(context.Context, uint) (*database.Snapshot, error) {
	return f.snapshot, f.loadErr
}

func (f *fakeStore) RecordExport(_ context.Context, _ uint, objectKey, _ string) (string, error) {
	f.recorded = append(f.recorded, objectKey)
	return f.previous, nil
}

type fakeObjects struct {
	puts    map[string][]byte
	types   map[string]string
	deleted []string
	putErr  error
}

func (f *fakeObjects) PutObject(_ context.Context, key string, data []byte, contentType string) error {
	if f.putErr != nil {
		return f.putErr
	}
	if f.puts == nil {
		f.puts = map[string][]byte{}
		f.types = map[string]string{}
	}
	f.puts[key] = data
	f.types[key] = contentType
	return nil
}

func (f *fakeObjects) DeleteObject(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

type fakeExporter struct {
	artifact *export.Artifact
	err      error
	requests []export.Request
}

func (f *fakeExporter) Export(_ context.Context, req export.Request, format string) (*export.Artifact, error) {
	if _, err := export.ParseFormat(format); err != nil {
		return nil, err
	}
	f.requests = append(f.requests, req)
	return f.artifact, f.err
}

type recordingNotifier struct {
	messages []ExportNotifyMessage
}

func (n *recordingNotifier) Notify(_ context.Context, msg ExportNotifyMessage) error {
	n.messages = append(n.messages, msg)
	return nil
}

func newTask(t *testing.T, payload tasks.CVExportPayload) *asynq.Task {
	t.Helper()
	task, err := tasks.NewCVExportTask(payload)
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	return task
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func snapshot() *database.Snapshot {
	return &database.Snapshot{Document: &cv.Document{ID: 5, Title: "Async CV"}}
}

func TestProcessTaskUploadsAndNotifies(t *testing.T) {
	store := &fakeStore{snapshot: snapshot(), previous: "exports/5/old.pdf"}
	objects := &fakeObjects{}
	exporter := &fakeExporter{artifact: &export.Artifact{Filename: "Async_CV.pdf", ContentType: "application/pdf", Data: []byte("%PDF")}}
	notifier := &recordingNotifier{}
	h := NewExportTaskHandler(store, objects, exporter, notifier, quietLogger())

	err := h.ProcessTask(context.Background(), newTask(t, tasks.CVExportPayload{CVID: 5, Format: "PDF", LayoutID: "modern-sidebar", CorrelationID: "cid"}))
	if err != nil {
		t.Fatalf("process task: %v", err)
	}

	if len(store.recorded) != 1 {
		t.Fatalf("export must be recorded once: %v", store.recorded)
	}
	key := store.recorded[0]
	if !strings.HasPrefix(key, "exports/5/") || !strings.HasSuffix(key, ".pdf") {
		t.Fatalf("unexpected object key: %s", key)
	}
	if string(objects.puts[key]) != "%PDF" || objects.types[key] != "application/pdf" {
		t.Fatalf("artifact must be uploaded with its content type")
	}
	if len(objects.deleted) != 1 || objects.deleted[0] != "exports/5/old.pdf" {
		t.Fatalf("previous export must be removed: %v", objects.deleted)
	}
	if exporter.requests[0].LayoutID != "modern-sidebar" {
		t.Fatalf("layout selection must reach the exporter")
	}

	if len(notifier.messages) != 1 {
		t.Fatalf("expected one notification, got %d", len(notifier.messages))
	}
	msg := notifier.messages[0]
	if msg.Status != StatusCompleted || msg.ErrorCode != errcode.OK || msg.ObjectKey != key || msg.CorrelationID != "cid" {
		t.Fatalf("unexpected notification: %+v", msg)
	}
}

func TestProcessTaskReportsMissingResources(t *testing.T) {
	exporter := &fakeExporter{artifact: &export.Artifact{
		Filename:    "Async_CV.zip",
		ContentType: "application/zip",
		Data:        []byte("zip"),
		Warnings:    []export.Warning{{Code: errcode.ResourceMissing, Message: "photo missing"}},
	}}
	notifier := &recordingNotifier{}
	h := NewExportTaskHandler(&fakeStore{snapshot: snapshot()}, &fakeObjects{}, exporter, notifier, quietLogger())

	if err := h.ProcessTask(context.Background(), newTask(t, tasks.CVExportPayload{CVID: 5, Format: "html", CorrelationID: "cid"})); err != nil {
		t.Fatalf("process task: %v", err)
	}
	msg := notifier.messages[0]
	if msg.Status != StatusCompleted || msg.ErrorCode != errcode.ResourceMissing || len(msg.Warnings) != 1 {
		t.Fatalf("unexpected notification: %+v", msg)
	}
}

func TestProcessTaskRejectsUnsupportedFormat(t *testing.T) {
	exporter := &fakeExporter{}
	notifier := &recordingNotifier{}
	h := NewExportTaskHandler(&fakeStore{snapshot: snapshot()}, &fakeObjects{}, exporter, notifier, quietLogger())

	err := h.ProcessTask(context.Background(), newTask(t, tasks.CVExportPayload{CVID: 5, Format: "xml", CorrelationID: "cid"}))
	if !errors.Is(err, export.ErrUnsupportedFormat) || !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected unsupported format with skip retry, got %v", err)
	}
	if len(exporter.requests) != 0 {
		t.Fatalf("exporter must not run")
	}
	if len(notifier.messages) != 1 || notifier.messages[0].ErrorCode != errcode.UnsupportedFormat {
		t.Fatalf("unexpected notifications: %+v", notifier.messages)
	}
}

func TestProcessTaskMissingCV(t *testing.T) {
	notifier := &recordingNotifier{}
	h := NewExportTaskHandler(&fakeStore{loadErr: database.ErrCVNotFound}, &fakeObjects{}, &fakeExporter{}, notifier, quietLogger())

	err := h.ProcessTask(context.Background(), newTask(t, tasks.CVExportPayload{CVID: 9, Format: "pdf", CorrelationID: "cid"}))
	if !errors.Is(err, database.ErrCVNotFound) {
		t.Fatalf("expected ErrCVNotFound, got %v", err)
	}
	if notifier.messages[0].Status != StatusError || notifier.messages[0].ErrorCode != errcode.CVNotFound {
		t.Fatalf("unexpected notification: %+v", notifier.messages[0])
	}
}

func TestProcessTaskExportFailure(t *testing.T) {
	objects := &fakeObjects{}
	notifier := &recordingNotifier{}
	h := NewExportTaskHandler(&fakeStore{snapshot: snapshot()}, objects, &fakeExporter{err: errors.New("launch chromium: not found")}, notifier, quietLogger())

	if err := h.ProcessTask(context.Background(), newTask(t, tasks.CVExportPayload{CVID: 5, Format: "pdf", CorrelationID: "cid"})); err == nil {
		t.Fatalf("expected export failure")
	}
	if len(objects.puts) != 0 {
		t.Fatalf("nothing must be uploaded on failure")
	}
	msg := notifier.messages[0]
	if msg.Status != StatusError || msg.ErrorCode != errcode.SystemError || !strings.Contains(msg.ErrorMessage, "chromium") {
		t.Fatalf("unexpected notification: %+v", msg)
	}
}

func TestProcessTaskBadPayload(t *testing.T) {
	h := NewExportTaskHandler(&fakeStore{}, &fakeObjects{}, &fakeExporter{}, &recordingNotifier{}, quietLogger())
	err := h.ProcessTask(context.Background(), asynq.NewTask(tasks.TypeCVExport, []byte("{")))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("malformed payload must not be retried: %v", err)
	}
}

func TestNotifyMessageShape(t *testing.T) {
	data, err := json.Marshal(ExportNotifyMessage{Status: StatusCompleted, CVID: 1, CorrelationID: "c"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, field := range []string{`"status":"completed"`, `"cv_id":1`, `"correlation_id":"c"`, `"error_code":0`} {
		if !strings.Contains(string(data), field) {
			t.Fatalf("missing %s in %s", field, data)
		}
	}
	if NotifyChannel("abc") != "export_notify:abc" {
		t.Fatalf("unexpected channel")
	}
}
