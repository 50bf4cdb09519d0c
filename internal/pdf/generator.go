package pdf

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"cvcraft/internal/render"
)

const (
	// DefaultTimeout 是单次打印的默认超时时间，覆盖浏览器启动、加载与打印全过程。
	DefaultTimeout = 60 * time.Second

	mmPerInch = 25.4
)

// Printer 使用 go-rod 在无头 Chromium 中打印 HTML。
// 每次调用启动独立的浏览器进程，并在成功、失败或超时后全部回收。
type Printer struct {
	bin     string
	timeout time.Duration
	logger  *slog.Logger
}

// NewPrinter 创建打印器。bin 为空时自动查找本机 Chromium，timeout 非正数时使用 DefaultTimeout。
func NewPrinter(bin string, timeout time.Duration, logger *slog.Logger) *Printer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Printer{bin: bin, timeout: timeout, logger: logger}
}

// Available 判断是否能找到可用的浏览器可执行文件。
func (p *Printer) Available() bool {
	if p.bin != "" {
		return true
	}
	_, ok := launcher.LookPath()
	return ok
}

// Print 渲染 markup 并按 frame 的纸张尺寸与页边距输出 PDF 字节。
func (p *Printer) Print(ctx context.Context, markup string, frame render.PageFrame) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	launch := launcher.New().
		Context(ctx).
		Headless(true).
		NoSandbox(true)

	if p.bin != "" {
		launch = launch.Bin(p.bin)
	} else if path, ok := launcher.LookPath(); ok {
		launch = launch.Bin(path)
	}

	browserURL, err := launch.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chromium: %w", err)
	}
	defer launch.Cleanup()

	browser := rod.New().Context(ctx).ControlURL(browserURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	defer func() {
		_ = browser.Close()
	}()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	defer func() {
		_ = page.Close()
	}()

	if err := page.SetDocumentContent(markup); err != nil {
		return nil, fmt.Errorf("set document content: %w", err)
	}

	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait load: %w", err)
	}

	// Web 字体未就绪时 Chromium 会用回退字体排版。
	if _, err := page.Timeout(fontsReadyTimeout).Eval(fontsReadyScript); err != nil {
		p.logger.Warn("document.fonts.ready wait failed, continue", slog.Any("error", err))
	}

	if err := (proto.EmulationSetEmulatedMedia{Media: "print"}).Call(page); err != nil {
		return nil, fmt.Errorf("set emulated media to print: %w", err)
	}

	reader, err := page.PDF(printOptions(frame))
	if err != nil {
		return nil, fmt.Errorf("export pdf: %w", err)
	}
	defer func() {
		_ = reader.Close()
	}()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read pdf bytes: %w", err)
	}

	p.logger.Debug("pdf printed",
		slog.Int("bytes", len(data)),
		slog.Duration("elapsed", time.Since(start)),
	)
	return data, nil
}

const fontsReadyTimeout = 5 * time.Second

const fontsReadyScript = `() => {
  if (document && document.fonts && document.fonts.ready) {
    return Promise.race([
      document.fonts.ready.then(() => true),
      new Promise((resolve) => setTimeout(() => resolve(true), 3000))
    ]);
  }
  return true;
}`

// printOptions 把毫米单位的页面框架换算成 CDP 需要的英寸。
func printOptions(frame render.PageFrame) *proto.PagePrintToPDF {
	inches := func(mm float64) *float64 {
		v := mm / mmPerInch
		return &v
	}
	return &proto.PagePrintToPDF{
		PrintBackground:   true,
		PreferCSSPageSize: true,
		PaperWidth:        inches(frame.WidthMM),
		PaperHeight:       inches(frame.HeightMM),
		MarginTop:         inches(frame.MarginTopMM),
		MarginRight:       inches(frame.MarginRightMM),
		MarginBottom:      inches(frame.MarginBottomMM),
		MarginLeft:        inches(frame.MarginLeftMM),
	}
}
