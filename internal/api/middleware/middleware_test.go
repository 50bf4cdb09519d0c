package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newRouter(logger *slog.Logger, status int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CorrelationIDMiddleware(), SlogLoggerMiddleware(logger))
	router.GET("/ping", func(c *gin.Context) {
		LoggerFromContext(c).Info("inside handler")
		c.String(status, GetCorrelationID(c))
	})
	return router
}

func TestCorrelationIDIsEchoedWhenValid(t *testing.T) {
	router := newRouter(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), http.StatusOK)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(CorrelationIDHeader, "job-123.a_b")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Body.String() != "job-123.a_b" || rec.Header().Get(CorrelationIDHeader) != "job-123.a_b" {
		t.Fatalf("valid correlation id must be kept: body=%q header=%q", rec.Body.String(), rec.Header().Get(CorrelationIDHeader))
	}
}

func TestCorrelationIDIsReplacedWhenInvalid(t *testing.T) {
	router := newRouter(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), http.StatusOK)

	for _, raw := range []string{"", "has space", "a*b", strings.Repeat("x", 65)} {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		if raw != "" {
			req.Header.Set(CorrelationIDHeader, raw)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		got := rec.Body.String()
		if got == raw || !ValidCorrelationID(got) {
			t.Fatalf("%q: expected a generated id, got %q", raw, got)
		}
	}
}

func TestLoggerCarriesCorrelationIDAndLevel(t *testing.T) {
	var buf bytes.Buffer
	router := newRouter(slog.New(slog.NewTextHandler(&buf, nil)), http.StatusNotFound)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(CorrelationIDHeader, "trace-1")
	router.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	if strings.Count(out, "correlation_id=trace-1") != 2 {
		t.Fatalf("handler and access logs must carry the correlation id:\n%s", out)
	}
	if !strings.Contains(out, `level=WARN msg="request completed"`) || !strings.Contains(out, "status=404") {
		t.Fatalf("client errors must be logged at warn level:\n%s", out)
	}
}

func TestLoggerFromContextFallsBack(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if LoggerFromContext(c) != slog.Default() {
		t.Fatalf("expected default logger without middleware")
	}
}
