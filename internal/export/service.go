package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cvcraft/internal/compose"
	"cvcraft/internal/cv"
	"cvcraft/internal/errcode"
	"cvcraft/internal/layout"
	"cvcraft/internal/render"
	"cvcraft/internal/theme"
)

// ErrNoDocument 表示导出请求没有携带 CV 文档。
var ErrNoDocument = errors.New("export: document is required")

// Renderer 是渲染器的最小接口，*render.Renderer 实现了它。
type Renderer interface {
	Render(ctx context.Context, in render.Input) (render.Output, error)
}

// Request 是一次导出或预览的输入。
// ThemeID、LayoutID 为空时使用文档自身的选择；CustomTheme 为零值表示未配置自定义主题。
type Request struct {
	Document    *cv.Document
	ThemeID     string
	LayoutID    string
	CustomTheme theme.Validation
	Overrides   map[string]theme.Patch
}

// Service 串起导出流程。它本身无状态，可被并发调用。
type Service struct {
	renderer Renderer
	printer  Printer
	logger   *slog.Logger
	frame    render.PageFrame
}

// NewService 创建导出服务。printer 为 nil 时 PDF 导出会返回错误。
func NewService(renderer Renderer, printer Printer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		renderer: renderer,
		printer:  printer,
		logger:   logger,
		frame:    render.A4(),
	}
}

// Export 按格式导出。格式校验最先进行，不支持的格式不会触发任何渲染。
func (s *Service) Export(ctx context.Context, req Request, rawFormat string) (*Artifact, error) {
	format, err := ParseFormat(rawFormat)
	if err != nil {
		return nil, err
	}
	if req.Document == nil {
		return nil, ErrNoDocument
	}

	base := SanitizeFilename(req.Document.Title)
	artifact := &Artifact{
		Filename:    base + "." + format.Extension(),
		ContentType: format.ContentType(),
	}

	logger := s.logger.With(
		slog.Uint64("cv_id", uint64(req.Document.ID)),
		slog.String("format", string(format)),
	)

	switch format {
	case FormatWord:
		data, err := writeGuide(req.Document.Title, base+"."+FormatPDF.Extension())
		if err != nil {
			return nil, err
		}
		artifact.Data = data

	case FormatPDF:
		out, err := s.render(ctx, req, render.PhotoEmbed)
		if err != nil {
			return nil, err
		}
		data, err := printPDF(ctx, s.printer, out, s.frame)
		if err != nil {
			logger.Error("pdf export failed", slog.Any("error", err))
			return nil, err
		}
		artifact.Data = data
		artifact.Warnings = warnings(out)

	case FormatHTML:
		out, err := s.render(ctx, req, render.PhotoBundle)
		if err != nil {
			return nil, err
		}
		data, err := writeBundle(out)
		if err != nil {
			return nil, err
		}
		artifact.Data = data
		artifact.Warnings = warnings(out)
	}

	logger.Info("cv exported",
		slog.String("filename", artifact.Filename),
		slog.Int("bytes", len(artifact.Data)),
		slog.Int("warnings", len(artifact.Warnings)),
	)
	return artifact, nil
}

// Preview 返回内联照片的 HTML，供浏览器直接展示。
func (s *Service) Preview(ctx context.Context, req Request) (*Artifact, error) {
	if req.Document == nil {
		return nil, ErrNoDocument
	}
	out, err := s.render(ctx, req, render.PhotoEmbed)
	if err != nil {
		return nil, err
	}
	return &Artifact{
		Filename:    SanitizeFilename(req.Document.Title) + ".html",
		ContentType: "text/html; charset=utf-8",
		Data:        []byte(out.Markup),
		Warnings:    warnings(out),
	}, nil
}

func (s *Service) render(ctx context.Context, req Request, mode render.PhotoMode) (render.Output, error) {
	doc := req.Document

	themeID := req.ThemeID
	if themeID == "" {
		themeID = doc.ThemeID
	}
	layoutID := req.LayoutID
	if layoutID == "" {
		layoutID = doc.LayoutID
	}
	base := theme.ByID(themeID)
	l := layout.ByID(layoutID)

	if reason := req.CustomTheme.Reason(); reason != "" {
		s.logger.Debug("custom theme ignored",
			slog.Uint64("cv_id", uint64(doc.ID)),
			slog.String("reason", reason),
		)
	}

	out, err := s.renderer.Render(ctx, render.Input{
		Title:     doc.Title,
		Columns:   compose.Sections(doc, l),
		Styles:    theme.NewMerger(base, req.CustomTheme, req.Overrides),
		Header:    render.HeaderFromDocument(doc),
		Layout:    l,
		Frame:     s.frame,
		PhotoMode: mode,
	})
	if err != nil {
		return render.Output{}, fmt.Errorf("render cv: %w", err)
	}
	return out, nil
}

func warnings(out render.Output) []Warning {
	if len(out.Warnings) == 0 {
		return nil
	}
	list := make([]Warning, 0, len(out.Warnings))
	for _, w := range out.Warnings {
		list = append(list, Warning{Code: errcode.ResourceMissing, Message: w})
	}
	return list
}
