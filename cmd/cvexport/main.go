package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"cvcraft/internal/config"
	"cvcraft/internal/database"
	"cvcraft/internal/export"
	"cvcraft/internal/layout"
	"cvcraft/internal/pdf"
	"cvcraft/internal/render"
	"cvcraft/internal/storage"
	"cvcraft/internal/theme"
)

func main() {
	var (
		cvID        = flag.Uint("cv-id", 0, "要导出的 CV id")
		format      = flag.String("format", "pdf", "导出格式：pdf | html | word")
		out         = flag.String("out", "", "输出文件路径（默认使用 CV 标题生成文件名）")
		themeID     = flag.String("theme", "", "临时覆盖主题 id")
		layoutID    = flag.String("layout", "", "临时覆盖布局 id")
		listThemes  = flag.Bool("list-themes", false, "列出全部主题后退出")
		listLayouts = flag.Bool("list-layouts", false, "列出全部布局后退出")
		seed        = flag.Bool("seed", false, "写入示例 CV（id=1）后退出")
		chromium    = flag.String("chromium", "", "Chromium 可执行文件路径（可选，默认读 EXPORT_CHROMIUM_BIN）")
		timeout     = flag.Duration("timeout", 0, "PDF 打印超时（可选，默认读 EXPORT_PDF_TIMEOUT）")
		dbHost      = flag.String("db-host", "", "数据库 Host（可选，默认读 DATABASE_HOST）")
		dbPort      = flag.Int("db-port", 0, "数据库 Port（可选，默认读 DATABASE_PORT）")
		dbName      = flag.String("db-name", "", "数据库名（可选，默认读 POSTGRES_DB）")
		dbUser      = flag.String("db-user", "", "数据库用户（可选，默认读 POSTGRES_USER）")
		dbPass      = flag.String("db-password", "", "数据库密码（可选，默认读 POSTGRES_PASSWORD）")
		sslMode     = flag.String("db-sslmode", "", "数据库 SSLMODE（可选，默认读 DATABASE_SSLMODE）")
	)
	flag.Parse()

	if *listThemes {
		for _, t := range theme.All() {
			fmt.Printf("%-22s %s\n", t.ID, t.Name)
		}
		return
	}
	if *listLayouts {
		for _, l := range layout.All() {
			fmt.Printf("%-22s %d column(s)  %s\n", l.ID, l.ColumnCount(), l.Name)
		}
		return
	}

	// 先校验格式，避免无谓地连接数据库。
	if _, err := export.ParseFormat(*format); err != nil {
		log.Fatalf("invalid --format: %v", err)
	}

	cfg, err := config.LoadOffline()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	applyDatabaseFlags(&cfg.Database, *dbHost, *dbPort, *dbName, *dbUser, *dbPass, *sslMode)
	applyExportFlags(&cfg.Export, *chromium, *timeout)

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}

	ctx := context.Background()

	if *seed {
		created, err := database.SeedDemo(ctx, db)
		if err != nil {
			log.Fatalf("seed demo cv: %v", err)
		}
		if created {
			fmt.Println("已写入示例 CV（id=1）")
		} else {
			fmt.Println("示例 CV 已存在，未做修改")
		}
		return
	}

	if *cvID == 0 {
		log.Fatal("missing required flag: --cv-id")
	}

	store := database.NewStore(db)
	snapshot, err := store.LoadCV(ctx, *cvID)
	if err != nil {
		if errors.Is(err, database.ErrCVNotFound) {
			log.Fatalf("cv %d not found", *cvID)
		}
		log.Fatalf("load cv: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	photos := storage.NewPhotoResolver(photoObjects(cfg.MinIO, logger), cfg.Export.PhotoTimeout, logger)
	renderer := render.NewRenderer(photos, logger, cfg.Export.FontBaseURL)
	exporter := export.NewService(renderer, pdf.NewPrinter(cfg.Export.ChromiumBin, cfg.Export.PDFTimeout, logger), logger)

	artifact, err := exporter.Export(ctx, export.Request{
		Document:    snapshot.Document,
		ThemeID:     *themeID,
		LayoutID:    *layoutID,
		CustomTheme: snapshot.CustomTheme,
		Overrides:   snapshot.Overrides,
	}, *format)
	if err != nil {
		log.Fatalf("export cv: %v", err)
	}

	path := strings.TrimSpace(*out)
	if path == "" {
		path = artifact.Filename
	}
	if err := os.WriteFile(path, artifact.Data, 0o644); err != nil {
		log.Fatalf("write %s: %v", path, err)
	}
	if err := store.IncrementExportCount(ctx, *cvID); err != nil {
		log.Printf("increment export count: %v", err)
	}

	for _, w := range artifact.Warnings {
		fmt.Fprintf(os.Stderr, "警告[%d]: %s\n", w.Code, w.Message)
	}
	fmt.Printf("已导出 %s（%d 字节）\n", path, len(artifact.Data))
}

// photoObjects 在配置了 MinIO 时返回对象存储客户端，使相对路径的照片也能离线导出。
// 未配置或连接失败时返回 nil，照片按缺失降级。
func photoObjects(cfg config.MinIOConfig, logger *slog.Logger) storage.ObjectReader {
	if !cfg.Configured() {
		return nil
	}
	client, err := storage.NewClient(cfg)
	if err != nil {
		logger.Warn("minio unavailable, stored photos will be skipped", slog.Any("error", err))
		return nil
	}
	return client
}

// applyDatabaseFlags 用非空的命令行参数覆盖环境变量中的数据库配置。
func applyDatabaseFlags(d *config.DatabaseConfig, host string, port int, name, user, password, sslmode string) {
	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	set(&d.Host, host)
	set(&d.Name, name)
	set(&d.User, user)
	set(&d.Password, password)
	set(&d.SSLMode, sslmode)
	if port > 0 {
		d.Port = port
	}
}

func applyExportFlags(e *config.ExportConfig, chromium string, timeout time.Duration) {
	if bin := strings.TrimSpace(chromium); bin != "" {
		e.ChromiumBin = bin
	}
	if timeout > 0 {
		e.PDFTimeout = timeout
	}
}
