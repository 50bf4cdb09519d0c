package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// 通知状态。
const (
	StatusCompleted = "completed"
	StatusError     = "error"
)

// ExportNotifyMessage 是通过 Redis Pub/Sub 转发给 WebSocket 客户端的导出结果。
type ExportNotifyMessage struct {
	Status        string   `json:"status"`
	CVID          uint     `json:"cv_id"`
	CorrelationID string   `json:"correlation_id"`
	Format        string   `json:"format,omitempty"`
	ErrorCode     int      `json:"error_code"`
	ErrorMessage  string   `json:"error_message"`
	ObjectKey     string   `json:"object_key,omitempty"`
	Filename      string   `json:"filename,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`
}

// NotifyChannel 返回某个导出任务的通知频道。
func NotifyChannel(correlationID string) string {
	return "export_notify:" + correlationID
}

// Notifier 发布导出结果。
type Notifier interface {
	Notify(ctx context.Context, msg ExportNotifyMessage) error
}

// RedisNotifier 把通知发布到 Redis 频道。
type RedisNotifier struct {
	client *redis.Client
}

// NewRedisNotifier 创建 RedisNotifier。
func NewRedisNotifier(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{client: client}
}

// Notify 实现 Notifier。
func (n *RedisNotifier) Notify(ctx context.Context, msg ExportNotifyMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}
	channel := NotifyChannel(msg.CorrelationID)
	if err := n.client.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("publish redis notification to %q: %w", channel, err)
	}
	return nil
}
