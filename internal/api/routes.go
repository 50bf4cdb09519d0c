package api

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Dependencies 汇总路由需要的服务。Queue、Objects、Redis 可以为空，
// 此时异步导出、下载链接与 WebSocket 通知分别不可用。
type Dependencies struct {
	Store          CVStore
	Exporter       Exporter
	Queue          TaskEnqueuer
	Objects        ExportStorage
	Redis          *redis.Client
	Logger         *slog.Logger
	LinkTTL        time.Duration
	AllowedOrigins []string

	// ExportRateLimit 是每个 IP 每分钟允许的导出请求数，0 表示不限流。
	ExportRateLimit int
}

// RegisterRoutes 注册 /v1 下的 API 路由。
func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	catalogHandler := NewCatalogHandler()
	cvHandler := NewCVHandler(deps.Store, deps.Exporter, deps.Queue, deps.Objects, deps.LinkTTL)

	exportLimit := func(c *gin.Context) { c.Next() }
	if deps.Redis != nil {
		exportLimit = ExportRateLimit(deps.Redis, deps.ExportRateLimit)
	}

	v1 := router.Group("/v1")
	{
		if deps.Redis != nil {
			wsHandler := NewWsHandler(deps.Redis, deps.Logger, deps.AllowedOrigins)
			v1.GET("/ws", wsHandler.HandleConnection)
		}

		v1.GET("/themes", catalogHandler.ListThemes)
		v1.GET("/themes/:id", catalogHandler.GetTheme)
		v1.GET("/layouts", catalogHandler.ListLayouts)
		v1.GET("/layouts/:id", catalogHandler.GetLayout)

		cvGroup := v1.Group("/cvs")
		{
			cvGroup.GET("", cvHandler.ListCVs)
			cvGroup.GET("/:id/preview", cvHandler.Preview)
			cvGroup.GET("/:id/export", exportLimit, cvHandler.Export)
			cvGroup.POST("/:id/export-jobs", exportLimit, cvHandler.CreateExportJob)
			cvGroup.GET("/:id/download-link", cvHandler.GetDownloadLink)
			cvGroup.GET("/:id/exports", cvHandler.ListExports)
		}
	}
}
