package middleware

import (
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	correlationIDKey    = "correlationID"
	CorrelationIDHeader = "X-Correlation-ID"
)

// Correlation ID 同时用作 Redis 通知频道名的一部分，只接受有限字符集。
var correlationIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// CorrelationIDMiddleware 确保每个请求都带有合法的 Correlation ID，
// 客户端提供的值不合法时重新生成。
func CorrelationIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(CorrelationIDHeader)
		if !ValidCorrelationID(id) {
			id = uuid.NewString()
		}

		c.Set(correlationIDKey, id)
		c.Header(CorrelationIDHeader, id)

		c.Next()
	}
}

// ValidCorrelationID 判断 id 是否可以安全地用于日志与通知频道。
func ValidCorrelationID(id string) bool {
	return correlationIDPattern.MatchString(id)
}

// GetCorrelationID 从上下文中取出 Correlation ID。
func GetCorrelationID(c *gin.Context) string {
	return c.GetString(correlationIDKey)
}
