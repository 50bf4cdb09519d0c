package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cvcraft/internal/api/middleware"
	"cvcraft/internal/metrics"
)

// NewRouter 构建 Gin 路由引擎，挂载通用中间件、健康检查与 Prometheus 指标端点。
func NewRouter(logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.CorrelationIDMiddleware(),
		middleware.SlogLoggerMiddleware(logger),
		metrics.GinMiddleware(),
		gin.Recovery(),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
