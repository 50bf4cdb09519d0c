package main

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"cvcraft/internal/config"
)

func TestApplyDatabaseFlagsOverridesOnlySetValues(t *testing.T) {
	d := config.DatabaseConfig{Host: "db", Port: 5432, Name: "cvcraft", User: "env-user", Password: "env-pass", SSLMode: "disable"}
	applyDatabaseFlags(&d, "  ", 6543, "", "flag-user", "", "require")

	want := config.DatabaseConfig{Host: "db", Port: 6543, Name: "cvcraft", User: "flag-user", Password: "env-pass", SSLMode: "require"}
	if d != want {
		t.Fatalf("unexpected database config: %+v", d)
	}
}

func TestApplyExportFlags(t *testing.T) {
	e := config.ExportConfig{ChromiumBin: "/env/chromium", PDFTimeout: time.Minute}
	applyExportFlags(&e, "", 0)
	if e.ChromiumBin != "/env/chromium" || e.PDFTimeout != time.Minute {
		t.Fatalf("empty flags must keep env values: %+v", e)
	}

	applyExportFlags(&e, "/usr/bin/chromium", 5*time.Second)
	if e.ChromiumBin != "/usr/bin/chromium" || e.PDFTimeout != 5*time.Second {
		t.Fatalf("flags must override env values: %+v", e)
	}
}

func TestPhotoObjectsWithoutCredentials(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if objects := photoObjects(config.MinIOConfig{Endpoint: "localhost:9000"}, logger); objects != nil {
		t.Fatalf("object storage must stay nil without credentials")
	}
}
