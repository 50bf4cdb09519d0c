package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cvcraft"

// 导出方式标签。
const (
	ModeSync  = "sync"
	ModeAsync = "async"
)

var (
	exportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "export",
			Name:      "artifacts_total",
			Help:      "导出请求总数，按格式、方式与结果区分。",
		},
		[]string{"format", "mode", "result"},
	)

	exportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "export",
			Name:      "duration_seconds",
			Help:      "导出耗时分布（秒）。",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"format", "mode"},
	)

	exportWarningsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "export",
			Name:      "warnings_total",
			Help:      "导出过程中产生的告警数量（例如照片缺失）。",
		},
		[]string{"format"},
	)
)

// ObserveExport 记录一次导出的结果与耗时。
func ObserveExport(format, mode string, start time.Time, warnings int, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	exportsTotal.WithLabelValues(format, mode, result).Inc()
	exportDuration.WithLabelValues(format, mode).Observe(time.Since(start).Seconds())
	if warnings > 0 {
		exportWarningsTotal.WithLabelValues(format).Add(float64(warnings))
	}
}
