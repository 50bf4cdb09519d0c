package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"cvcraft/internal/render"
)

// MaxPhotoBytes 限制单张照片的大小。
const MaxPhotoBytes int64 = 5 << 20

// ObjectReader 是读取对象存储的最小接口，*Client 实现了它。
type ObjectReader interface {
	ReadObject(ctx context.Context, objectKey string, limit int64) ([]byte, string, error)
}

// PhotoResolver 实现 render.AssetResolver：绝对 http(s) URL 通过 HTTP 下载，
// 其余引用视为对象存储中的相对路径。
type PhotoResolver struct {
	objects ObjectReader
	client  *http.Client
	logger  *slog.Logger
}

// NewPhotoResolver 创建照片解析器。objects 为 nil 时只支持绝对 URL。
func NewPhotoResolver(objects ObjectReader, timeout time.Duration, logger *slog.Logger) *PhotoResolver {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PhotoResolver{
		objects: objects,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Resolve 取回照片字节。任何失败都包装 render.ErrAssetUnavailable，由渲染器降级处理。
func (r *PhotoResolver) Resolve(ctx context.Context, ref string) (*render.Asset, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, render.ErrAssetUnavailable
	}

	if u, err := url.Parse(ref); err == nil && u.IsAbs() {
		if u.Scheme != "http" && u.Scheme != "https" {
			return nil, fmt.Errorf("%w: scheme %q not allowed", render.ErrAssetUnavailable, u.Scheme)
		}
		return r.fetch(ctx, u)
	}

	key, ok := objectKey(ref)
	if !ok {
		return nil, fmt.Errorf("%w: invalid object key %q", render.ErrAssetUnavailable, ref)
	}
	if r.objects == nil {
		return nil, fmt.Errorf("%w: object storage not configured", render.ErrAssetUnavailable)
	}

	data, contentType, err := r.objects.ReadObject(ctx, key, MaxPhotoBytes)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) || errors.Is(err, ErrObjectTooLarge) {
			r.logger.Debug("photo object unusable", slog.String("object_key", key), slog.Any("error", err))
		}
		return nil, fmt.Errorf("%w: %w", render.ErrAssetUnavailable, err)
	}
	return &render.Asset{
		Name:        path.Base(key),
		ContentType: detectContentType(contentType, data),
		Data:        data,
	}, nil
}

func (r *PhotoResolver) fetch(ctx context.Context, u *url.URL) (*render.Asset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", render.ErrAssetUnavailable, err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", render.ErrAssetUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetch %s returned %d", render.ErrAssetUnavailable, u.Redacted(), resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxPhotoBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", render.ErrAssetUnavailable, err)
	}
	if int64(len(data)) > MaxPhotoBytes {
		return nil, fmt.Errorf("%w: photo exceeds %d bytes", render.ErrAssetUnavailable, MaxPhotoBytes)
	}

	r.logger.Debug("photo fetched", slog.String("url", u.Redacted()), slog.Int("bytes", len(data)))
	return &render.Asset{
		Name:        path.Base(u.Path),
		ContentType: detectContentType(resp.Header.Get("Content-Type"), data),
		Data:        data,
	}, nil
}

// objectKey 规范化相对路径，拒绝目录穿越。
func objectKey(ref string) (string, bool) {
	ref = strings.TrimLeft(strings.ReplaceAll(ref, "\\", "/"), "/")
	if ref == "" {
		return "", false
	}
	for _, part := range strings.Split(ref, "/") {
		if part == ".." {
			return "", false
		}
	}
	cleaned := path.Clean(ref)
	if cleaned == "." || cleaned == "" {
		return "", false
	}
	return cleaned, true
}

func detectContentType(declared string, data []byte) string {
	declared = strings.TrimSpace(declared)
	if declared != "" && declared != "application/octet-stream" && declared != "binary/octet-stream" {
		return declared
	}
	return http.DetectContentType(data)
}
