package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"cvcraft/internal/config"
)

// Client 封装 MinIO 客户端：内部 endpoint 用于读写，公网 endpoint 用于签发下载链接。
type Client struct {
	internalClient *minio.Client
	publicClient   *minio.Client
	bucketName     string
}

// ObjectMeta 描述 Bucket 中对象的关键信息。
type ObjectMeta struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"content_type,omitempty"`
	LastModified time.Time `json:"last_modified"`
}

// NewClient 根据配置初始化 MinIO 客户端，并确保目标 Bucket 存在。
func NewClient(cfg config.MinIOConfig) (*Client, error) {
	bucketLookup := minio.BucketLookupAuto
	switch strings.ToLower(strings.TrimSpace(cfg.BucketLookup)) {
	case "", "auto":
		bucketLookup = minio.BucketLookupAuto
	case "dns":
		bucketLookup = minio.BucketLookupDNS
	case "path":
		bucketLookup = minio.BucketLookupPath
	default:
		return nil, fmt.Errorf("invalid minio bucket lookup %q", cfg.BucketLookup)
	}

	creds := credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	internalClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:        creds,
		Secure:       cfg.UseSSL,
		Region:       cfg.Region,
		BucketLookup: bucketLookup,
	})
	if err != nil {
		return nil, fmt.Errorf("init internal minio client: %w", err)
	}

	publicURL, err := url.Parse(cfg.PublicEndpoint)
	if err != nil {
		return nil, fmt.Errorf("parse minio public endpoint: %w", err)
	}
	if publicURL.Host == "" {
		return nil, fmt.Errorf("invalid minio public endpoint, host missing")
	}

	publicClient, err := minio.New(publicURL.Host, &minio.Options{
		Creds:        creds,
		Secure:       publicURL.Scheme == "https",
		Region:       cfg.Region,
		BucketLookup: bucketLookup,
	})
	if err != nil {
		return nil, fmt.Errorf("init public minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := internalClient.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		if !cfg.AutoCreateBucket {
			return nil, fmt.Errorf("bucket %q does not exist (auto create disabled)", cfg.Bucket)
		}
		if err := internalClient.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("make bucket %q: %w", cfg.Bucket, err)
		}
	}

	return &Client{
		internalClient: internalClient,
		publicClient:   publicClient,
		bucketName:     cfg.Bucket,
	}, nil
}

// PutObject 上传一段完整的字节内容。
func (c *Client) PutObject(ctx context.Context, objectKey string, data []byte, contentType string) error {
	opts := minio.PutObjectOptions{ContentType: contentType}
	_, err := c.internalClient.PutObject(ctx, c.bucketName, objectKey, bytes.NewReader(data), int64(len(data)), opts)
	if err != nil {
		return fmt.Errorf("put object %q: %w", objectKey, err)
	}
	return nil
}

// ReadObject 读取对象内容及其 Content-Type。对象不存在时返回 ErrObjectNotFound，
// 超过 limit 时返回 ErrObjectTooLarge。
func (c *Client) ReadObject(ctx context.Context, objectKey string, limit int64) ([]byte, string, error) {
	obj, err := c.internalClient.GetObject(ctx, c.bucketName, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", objectError("get", objectKey, err)
	}
	defer func() {
		_ = obj.Close()
	}()

	info, err := obj.Stat()
	if err != nil {
		return nil, "", objectError("stat", objectKey, err)
	}
	if limit > 0 && info.Size > limit {
		return nil, "", fmt.Errorf("object %q has %d bytes: %w", objectKey, info.Size, ErrObjectTooLarge)
	}

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, "", objectError("read", objectKey, err)
	}
	return data, info.ContentType, nil
}

// PresignDownload 生成对象的限时下载链接；filename 非空时附带 Content-Disposition。
func (c *Client) PresignDownload(ctx context.Context, objectKey, filename string, ttl time.Duration) (string, error) {
	var params url.Values
	if filename != "" {
		params = url.Values{}
		params.Set("response-content-disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	}
	presignedURL, err := c.publicClient.PresignedGetObject(ctx, c.bucketName, objectKey, ttl, params)
	if err != nil {
		return "", fmt.Errorf("generate presigned url for %q: %w", objectKey, err)
	}
	return presignedURL.String(), nil
}

// ListObjects 列出指定前缀下的对象元数据。
func (c *Client) ListObjects(ctx context.Context, prefix string, limit int) ([]ObjectMeta, error) {
	if limit <= 0 {
		limit = 50
	}
	objCh := c.internalClient.ListObjects(ctx, c.bucketName, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})
	result := make([]ObjectMeta, 0, limit)
	for object := range objCh {
		if object.Err != nil {
			return nil, fmt.Errorf("list objects under %q: %w", prefix, object.Err)
		}
		result = append(result, ObjectMeta{
			Key:          object.Key,
			Size:         object.Size,
			ContentType:  object.ContentType,
			LastModified: object.LastModified,
		})
		if len(result) >= limit {
			break
		}
	}
	return result, nil
}

// DeleteObject 删除指定对象，对象不存在视为成功。
func (c *Client) DeleteObject(ctx context.Context, objectKey string) error {
	objectKey = strings.TrimSpace(objectKey)
	if objectKey == "" {
		return nil
	}
	if err := c.internalClient.RemoveObject(ctx, c.bucketName, objectKey, minio.RemoveObjectOptions{}); err != nil {
		if err := objectError("remove", objectKey, err); !errors.Is(err, ErrObjectNotFound) {
			return err
		}
	}
	return nil
}
