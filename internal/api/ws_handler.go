package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"cvcraft/internal/api/middleware"
	"cvcraft/internal/worker"
)

// WsHandler 把异步导出的完成通知转发给 WebSocket 客户端。
// 客户端先以自己的 correlation_id 建立连接，再用同一个 X-Correlation-ID 提交导出任务。
type WsHandler struct {
	redisClient    *redis.Client
	logger         *slog.Logger
	upgrader       websocket.Upgrader
	allowedOrigins []string
}

// NewWsHandler 构造 WebSocket 处理器。
func NewWsHandler(redisClient *redis.Client, logger *slog.Logger, allowedOrigins []string) *WsHandler {
	h := &WsHandler{
		redisClient:    redisClient,
		logger:         logger,
		allowedOrigins: allowedOrigins,
	}
	h.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			if len(h.allowedOrigins) == 0 {
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			}
			for _, allowed := range h.allowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}
	return h
}

// HandleConnection 校验 correlation_id、升级连接并启动读写循环。
func (h *WsHandler) HandleConnection(c *gin.Context) {
	correlationID := strings.TrimSpace(c.Query("correlation_id"))
	if !middleware.ValidCorrelationID(correlationID) {
		BadRequest(c, "valid correlation_id is required")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("upgrade websocket failed", slog.Any("error", err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	log := h.logger.With(
		slog.String("client_ip", c.ClientIP()),
		slog.String("correlation_id", correlationID),
	)

	errCh := make(chan error, 2)
	go h.readLoop(ctx, conn, errCh, cancel)
	go h.subscribeLoop(ctx, conn, correlationID, errCh, cancel, log)

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			log.Info("websocket connection closed", slog.Any("error", err))
		} else {
			log.Info("websocket connection closed")
		}
	}
}

// readLoop 丢弃客户端消息，只用于发现断开。
func (h *WsHandler) readLoop(ctx context.Context, conn *websocket.Conn, errCh chan<- error, cancel context.CancelFunc) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if _, _, err := conn.ReadMessage(); err != nil {
			writeClose(conn, websocket.CloseAbnormalClosure, "read error")
			errCh <- fmt.Errorf("read message: %w", err)
			cancel()
			return
		}
	}
}

func writeClose(conn *websocket.Conn, code int, text string) {
	deadline := time.Now().Add(5 * time.Second)
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, text), deadline)
}

func (h *WsHandler) subscribeLoop(
	ctx context.Context,
	conn *websocket.Conn,
	correlationID string,
	errCh chan<- error,
	cancel context.CancelFunc,
	log *slog.Logger,
) {
	channel := worker.NotifyChannel(correlationID)
	pubsub := h.redisClient.Subscribe(ctx, channel)
	defer pubsub.Close()

	log.Info("subscribed to redis channel", slog.String("channel", channel))

	ch := pubsub.Channel()
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				errCh <- fmt.Errorf("pubsub channel closed")
				cancel()
				return
			}

			log.Info("forwarding message to client", slog.String("channel", channel))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				errCh <- fmt.Errorf("write message: %w", err)
				cancel()
				return
			}
		case <-ticker.C:
			deadline := time.Now().Add(5 * time.Second)
			if err := conn.WriteControl(websocket.PingMessage, []byte("ping"), deadline); err != nil {
				errCh <- fmt.Errorf("write ping: %w", err)
				cancel()
				return
			}
		}
	}
}
