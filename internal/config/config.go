package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config aggregates application settings sourced from environment variables (optionally via .env).
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	Export   ExportConfig   `mapstructure:"export"`
	Worker   WorkerConfig   `mapstructure:"worker"`
}

// APIConfig contains HTTP server settings.
type APIConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	SeedDemo       bool     `mapstructure:"seed_demo"`

	// ExportRateLimit 是每个客户端 IP 每分钟的导出请求上限，0 表示不限。
	ExportRateLimit int `mapstructure:"export_rate_limit"`
}

// DatabaseConfig contains connection options for PostgreSQL.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
}

// RedisConfig 包含 Redis 连接配置。
type RedisConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Addr 返回 host:port 形式的地址。
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// MinIOConfig contains connection options for MinIO/S3-compatible storage.
type MinIOConfig struct {
	Endpoint         string `mapstructure:"endpoint"`
	PublicEndpoint   string `mapstructure:"public_endpoint"`
	AccessKeyID      string `mapstructure:"access_key_id"`
	SecretAccessKey  string `mapstructure:"secret_access_key"`
	UseSSL           bool   `mapstructure:"use_ssl"`
	Bucket           string `mapstructure:"bucket"`
	Region           string `mapstructure:"region"`
	BucketLookup     string `mapstructure:"bucket_lookup"`
	AutoCreateBucket bool   `mapstructure:"auto_create_bucket"`
}

// ExportConfig 控制导出流程：PDF 打印超时、浏览器路径、字体 CSS 地址与下载链接有效期。
type ExportConfig struct {
	PDFTimeout   time.Duration `mapstructure:"pdf_timeout"`
	ChromiumBin  string        `mapstructure:"chromium_bin"`
	FontBaseURL  string        `mapstructure:"font_base_url"`
	PhotoTimeout time.Duration `mapstructure:"photo_timeout"`
	LinkTTL      time.Duration `mapstructure:"link_ttl"`
}

// WorkerConfig 控制 asynq worker。
type WorkerConfig struct {
	Concurrency int `mapstructure:"concurrency"`
	MetricsPort int `mapstructure:"metrics_port"`
}

// DSN builds a lib/pq compatible connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.Name,
		d.SSLMode,
	)
}

// Configured 报告是否提供了连接 MinIO 所需的 endpoint 与凭据。
func (m MinIOConfig) Configured() bool {
	return m.Endpoint != "" && m.AccessKeyID != "" && m.SecretAccessKey != ""
}

// Load reads configuration from environment variables after loading an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load()
}

// LoadOffline 读取离线导出所需的配置，只校验数据库与导出参数；
// Redis 不参与，MinIO 凭据缺失时由调用方按未配置处理。
func LoadOffline() (*Config, error) {
	_ = godotenv.Load()
	return loadOffline()
}

func loadOffline() (*Config, error) {
	cfg, err := decode()
	if err != nil {
		return nil, err
	}
	if err := validateDatabase(cfg.Database); err != nil {
		return nil, err
	}
	if err := validateExport(cfg.Export); err != nil {
		return nil, err
	}
	return cfg, nil
}

func load() (*Config, error) {
	cfg, err := decode()
	if err != nil {
		return nil, err
	}
	if err := validate(*cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.MinIO.PublicEndpoint == "" {
		scheme := "http"
		if cfg.MinIO.UseSSL {
			scheme = "https"
		}
		cfg.MinIO.PublicEndpoint = scheme + "://" + cfg.MinIO.Endpoint
	}

	return &cfg, nil
}

// MustLoad wraps Load and panics on failure.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.seed_demo", true)
	v.SetDefault("api.export_rate_limit", 30)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "cvcraft")
	v.SetDefault("database.user", "cvcraft")
	v.SetDefault("database.password", "cvcraft")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("minio.endpoint", "localhost:9000")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.bucket", "cvcraft")
	v.SetDefault("minio.region", "us-east-1")
	v.SetDefault("minio.bucket_lookup", "auto")
	v.SetDefault("minio.auto_create_bucket", true)
	v.SetDefault("export.pdf_timeout", 60*time.Second)
	v.SetDefault("export.font_base_url", "https://fonts.googleapis.com/css2")
	v.SetDefault("export.photo_timeout", 10*time.Second)
	v.SetDefault("export.link_ttl", 15*time.Minute)
	v.SetDefault("worker.concurrency", 2)
	v.SetDefault("worker.metrics_port", 9091)
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string]string{
		"api.port":                 "API_PORT",
		"api.allowed_origins":      "API_ALLOWED_ORIGINS",
		"api.seed_demo":            "API_SEED_DEMO",
		"api.export_rate_limit":    "API_EXPORT_RATE_LIMIT",
		"database.host":            "DATABASE_HOST",
		"database.port":            "DATABASE_PORT",
		"database.name":            "POSTGRES_DB",
		"database.user":            "POSTGRES_USER",
		"database.password":        "POSTGRES_PASSWORD",
		"database.sslmode":         "DATABASE_SSLMODE",
		"redis.host":               "REDIS_HOST",
		"redis.port":               "REDIS_PORT",
		"minio.endpoint":           "MINIO_ENDPOINT",
		"minio.public_endpoint":    "MINIO_PUBLIC_ENDPOINT",
		"minio.access_key_id":      "MINIO_ACCESS_KEY_ID",
		"minio.secret_access_key":  "MINIO_SECRET_ACCESS_KEY",
		"minio.use_ssl":            "MINIO_USE_SSL",
		"minio.bucket":             "MINIO_BUCKET",
		"minio.region":             "MINIO_REGION",
		"minio.bucket_lookup":      "MINIO_BUCKET_LOOKUP",
		"minio.auto_create_bucket": "MINIO_AUTO_CREATE_BUCKET",
		"export.pdf_timeout":       "EXPORT_PDF_TIMEOUT",
		"export.chromium_bin":      "EXPORT_CHROMIUM_BIN",
		"export.font_base_url":     "EXPORT_FONT_BASE_URL",
		"export.photo_timeout":     "EXPORT_PHOTO_TIMEOUT",
		"export.link_ttl":          "EXPORT_LINK_TTL",
		"worker.concurrency":       "WORKER_CONCURRENCY",
		"worker.metrics_port":      "WORKER_METRICS_PORT",
	}

	for key, env := range mappings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}

	return nil
}

func validate(cfg Config) error {
	if cfg.API.Port <= 0 {
		return errors.New("api port must be positive")
	}
	if cfg.API.ExportRateLimit < 0 {
		return errors.New("api export rate limit must not be negative")
	}
	if err := validateDatabase(cfg.Database); err != nil {
		return err
	}
	if cfg.Redis.Host == "" {
		return errors.New("redis host is required")
	}
	if cfg.Redis.Port <= 0 {
		return errors.New("redis port must be positive")
	}
	if cfg.MinIO.Endpoint == "" {
		return errors.New("minio endpoint is required")
	}
	if cfg.MinIO.AccessKeyID == "" {
		return errors.New("minio access key id is required")
	}
	if cfg.MinIO.SecretAccessKey == "" {
		return errors.New("minio secret access key is required")
	}
	if cfg.MinIO.Bucket == "" {
		return errors.New("minio bucket is required")
	}
	if err := validateExport(cfg.Export); err != nil {
		return err
	}
	if cfg.Worker.Concurrency <= 0 {
		return errors.New("worker concurrency must be positive")
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	if d.Host == "" {
		return errors.New("database host is required")
	}
	if d.Port <= 0 {
		return errors.New("database port must be positive")
	}
	if d.Name == "" {
		return errors.New("database name is required")
	}
	if d.User == "" {
		return errors.New("database user is required")
	}
	if d.Password == "" {
		return errors.New("database password is required")
	}
	if d.SSLMode == "" {
		return errors.New("database sslmode is required")
	}
	return nil
}

func validateExport(e ExportConfig) error {
	if e.PDFTimeout <= 0 {
		return errors.New("export pdf timeout must be positive")
	}
	if e.LinkTTL <= 0 {
		return errors.New("export link ttl must be positive")
	}
	return nil
}
