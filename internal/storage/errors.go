package storage

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/minio/minio-go/v7"
)

var (
	// ErrObjectNotFound 表示对象存储中不存在指定 key。
	ErrObjectNotFound = errors.New("object not found")
	// ErrObjectTooLarge 表示对象超过读取上限。
	ErrObjectTooLarge = errors.New("object too large")
)

// objectError 把 MinIO 的错误响应归一为本包的哨兵错误，并带上操作与 key。
func objectError(op, objectKey string, err error) error {
	if err == nil {
		return nil
	}
	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		switch {
		case resp.Code == "NoSuchKey", resp.Code == "NotFound", resp.StatusCode == http.StatusNotFound:
			return fmt.Errorf("%s object %q: %w", op, objectKey, ErrObjectNotFound)
		}
	}
	return fmt.Errorf("%s object %q: %w", op, objectKey, err)
}
