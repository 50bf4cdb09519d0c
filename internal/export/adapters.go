package export

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"html/template"

	"cvcraft/internal/render"
)

// Printer 把完整的 HTML 文档打印成 PDF。实现需在每次调用内自行申请并释放浏览器资源。
type Printer interface {
	Print(ctx context.Context, markup string, frame render.PageFrame) ([]byte, error)
}

// Artifact 是一次导出的结果。
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
	Warnings    []Warning
}

// Warning 是不影响产物生成的告警，Code 取自 errcode。
type Warning struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func printPDF(ctx context.Context, printer Printer, out render.Output, frame render.PageFrame) ([]byte, error) {
	if printer == nil {
		return nil, fmt.Errorf("print pdf: no printer configured")
	}
	data, err := printer.Print(ctx, out.Markup, frame)
	if err != nil {
		return nil, fmt.Errorf("print pdf: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("print pdf: empty document")
	}
	return data, nil
}

// writeBundle 写出 index.html 以及渲染结果引用的本地资源。
func writeBundle(out render.Output) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	if err := writeZipEntry(zw, "index.html", []byte(out.Markup)); err != nil {
		return nil, err
	}
	for _, asset := range out.Assets {
		if asset.Path == "" || len(asset.Data) == 0 {
			continue
		}
		if err := writeZipEntry(zw, asset.Path, asset.Data); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close bundle: %w", err)
	}
	return buf.Bytes(), nil
}

func writeZipEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
	if err != nil {
		return fmt.Errorf("create bundle entry %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write bundle entry %s: %w", name, err)
	}
	return nil
}

var guideTemplate = template.Must(template.New("guide").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>Word export: {{.Title}}</title>
<style>
body { font-family: sans-serif; max-width: 640px; margin: 40px auto; line-height: 1.5; color: #1f2937; }
code { background: #f3f4f6; padding: 1px 4px; }
</style>
</head>
<body>
<h1>Exporting "{{.Title}}" to Word</h1>
<p>Direct Word export is not available. Convert the PDF export instead:</p>
<ol>
<li>Download the PDF version of this CV{{if .PDFFilename}} (<code>{{.PDFFilename}}</code>){{end}}.</li>
<li>Open Microsoft Word and choose <strong>File → Open</strong>, then select the PDF.</li>
<li>Confirm the conversion prompt. Word turns the PDF into an editable document.</li>
<li>Review spacing and fonts, then save as <code>.docx</code>.</li>
</ol>
<p>Google Docs can do the same: upload the PDF to Drive and choose <strong>Open with → Google Docs</strong>.</p>
</body>
</html>
`))

// writeGuide 生成 Word 导出指引。该产物是静态说明，不做任何格式转换。
func writeGuide(title, pdfFilename string) ([]byte, error) {
	var buf bytes.Buffer
	err := guideTemplate.Execute(&buf, struct {
		Title       string
		PDFFilename string
	}{Title: title, PDFFilename: pdfFilename})
	if err != nil {
		return nil, fmt.Errorf("execute guide template: %w", err)
	}
	return buf.Bytes(), nil
}
