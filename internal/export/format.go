// Package export 把渲染结果转换为可下载的产物（PDF、HTML 压缩包、Word 导出指引），
// 并串起 合并 → 排版 → 渲染 → 适配器 的完整导出流程。
package export

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedFormat 表示请求的导出格式不在支持范围内。
var ErrUnsupportedFormat = errors.New("unsupported format")

// Format 是封闭的导出格式集合。
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatHTML Format = "html"
	FormatWord Format = "word"
)

// ParseFormat 大小写不敏感地解析导出格式，doc、docx、word 都归为 FormatWord。
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pdf":
		return FormatPDF, nil
	case "html":
		return FormatHTML, nil
	case "doc", "docx", "word":
		return FormatWord, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// ContentType 返回产物的 MIME 类型。
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatHTML:
		return "application/zip"
	default:
		return "text/html; charset=utf-8"
	}
}

// Extension 返回产物文件扩展名（不含点）。
func (f Format) Extension() string {
	switch f {
	case FormatPDF:
		return "pdf"
	case FormatHTML:
		return "zip"
	default:
		return "html"
	}
}
