package config

import (
	"strings"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("MINIO_ACCESS_KEY_ID", "access")
	t.Setenv("MINIO_SECRET_ACCESS_KEY", "secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.Port != 8080 {
		t.Fatalf("unexpected api port: %d", cfg.API.Port)
	}
	if cfg.Export.PDFTimeout != 60*time.Second {
		t.Fatalf("unexpected pdf timeout: %v", cfg.Export.PDFTimeout)
	}
	if cfg.MinIO.PublicEndpoint != "http://localhost:9000" {
		t.Fatalf("public endpoint must default to the internal endpoint: %s", cfg.MinIO.PublicEndpoint)
	}
	if cfg.Redis.Addr() != "localhost:6379" {
		t.Fatalf("unexpected redis addr: %s", cfg.Redis.Addr())
	}
}

func TestLoadFromEnv(t *testing.T) {
	setRequired(t)
	t.Setenv("API_PORT", "9090")
	t.Setenv("EXPORT_PDF_TIMEOUT", "15s")
	t.Setenv("EXPORT_CHROMIUM_BIN", "/usr/bin/chromium")
	t.Setenv("MINIO_PUBLIC_ENDPOINT", "https://cdn.example.com")
	t.Setenv("WORKER_CONCURRENCY", "8")
	t.Setenv("API_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("API_SEED_DEMO", "false")

	cfg, err := load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.Port != 9090 || cfg.Export.PDFTimeout != 15*time.Second || cfg.Worker.Concurrency != 8 {
		t.Fatalf("env values not applied: %+v", cfg)
	}
	if cfg.Export.ChromiumBin != "/usr/bin/chromium" || cfg.MinIO.PublicEndpoint != "https://cdn.example.com" {
		t.Fatalf("env values not applied: %+v", cfg)
	}
	if len(cfg.API.AllowedOrigins) != 2 || cfg.API.AllowedOrigins[1] != "https://b.example" || cfg.API.SeedDemo {
		t.Fatalf("api values not applied: %+v", cfg.API)
	}
}

func TestLoadValidates(t *testing.T) {
	t.Setenv("MINIO_ACCESS_KEY_ID", "")
	t.Setenv("MINIO_SECRET_ACCESS_KEY", "secret")

	_, err := load()
	if err == nil || !strings.Contains(err.Error(), "access key") {
		t.Fatalf("expected missing access key error, got %v", err)
	}
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	want := "host=db port=5432 user=u password=p dbname=n sslmode=disable"
	if d.DSN() != want {
		t.Fatalf("unexpected dsn: %s", d.DSN())
	}
}

func TestLoadOfflineWithoutMinIO(t *testing.T) {
	t.Setenv("MINIO_ACCESS_KEY_ID", "")
	t.Setenv("MINIO_SECRET_ACCESS_KEY", "")
	t.Setenv("EXPORT_FONT_BASE_URL", "https://fonts.example/css2")

	cfg, err := loadOffline()
	if err != nil {
		t.Fatalf("offline load must not require minio credentials: %v", err)
	}
	if cfg.MinIO.Configured() {
		t.Fatalf("minio must be reported as not configured")
	}
	if cfg.Export.FontBaseURL != "https://fonts.example/css2" || cfg.Database.Name != "cvcraft" {
		t.Fatalf("export and database values not applied: %+v", cfg)
	}

	setRequired(t)
	cfg, err = loadOffline()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.MinIO.Configured() {
		t.Fatalf("minio must be reported as configured once credentials are set")
	}
}

func TestLoadOfflineValidatesExport(t *testing.T) {
	t.Setenv("EXPORT_PDF_TIMEOUT", "0s")
	if _, err := loadOffline(); err == nil || !strings.Contains(err.Error(), "pdf timeout") {
		t.Fatalf("expected pdf timeout error, got %v", err)
	}
}
