package export

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"testing"

	"cvcraft/internal/cv"
	"cvcraft/internal/errcode"
	"cvcraft/internal/render"
)

type spyRenderer struct {
	inner *render.Renderer
	calls int
	last  render.Input
}

func (s *spyRenderer) Render(ctx context.Context, in render.Input) (render.Output, error) {
	s.calls++
	s.last = in
	return s.inner.Render(ctx, in)
}

type fakePrinter struct {
	data   []byte
	err    error
	calls  int
	markup string
	frame  render.PageFrame
}

func (p *fakePrinter) Print(_ context.Context, markup string, frame render.PageFrame) ([]byte, error) {
	p.calls++
	p.markup = markup
	p.frame = frame
	return p.data, p.err
}

type staticAssets struct{ asset *render.Asset }

func (a staticAssets) Resolve(context.Context, string) (*render.Asset, error) {
	if a.asset == nil {
		return nil, render.ErrAssetUnavailable
	}
	return a.asset, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func exportTestCV() *cv.Document {
	return &cv.Document{
		ID:       7,
		Title:    "Export Test CV",
		ThemeID:  "modern-blue",
		LayoutID: "classic-single",
		PersonalInfo: cv.PersonalInfo{
			FullName: "Test Person",
			Email:    "test@example.com",
		},
		Experience: []cv.Experience{
			{ID: "e1", Title: "Engineer", Company: "Acme", StartDate: "2020-01-01", Current: true},
		},
	}
}

func newTestService(assets render.AssetResolver, printer Printer) (*Service, *spyRenderer) {
	spy := &spyRenderer{inner: render.NewRenderer(assets, quietLogger(), "")}
	return NewService(spy, printer, quietLogger()), spy
}

func zipEntries(t *testing.T, data []byte) map[string][]byte {
	t.Helper()
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zip reader failed: %v", err)
	}
	entries := make(map[string][]byte, len(reader.File))
	for _, f := range reader.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		entries[f.Name] = content
	}
	return entries
}

func TestExportPDF(t *testing.T) {
	printer := &fakePrinter{data: []byte("%PDF-1.7 fake")}
	svc, spy := newTestService(nil, printer)

	artifact, err := svc.Export(context.Background(), Request{Document: exportTestCV()}, "pdf")
	if err != nil {
		t.Fatalf("export pdf: %v", err)
	}
	if artifact.ContentType != "application/pdf" || len(artifact.Data) == 0 {
		t.Fatalf("unexpected artifact: %s %d bytes", artifact.ContentType, len(artifact.Data))
	}
	if artifact.Filename != "Export_Test_CV.pdf" {
		t.Fatalf("unexpected filename: %s", artifact.Filename)
	}
	if printer.calls != 1 || !strings.Contains(printer.markup, "Export Test CV") {
		t.Fatalf("printer must receive the rendered markup")
	}
	if printer.frame != render.A4() {
		t.Fatalf("pdf must use the fixed A4 frame: %+v", printer.frame)
	}
	if spy.last.PhotoMode != render.PhotoEmbed {
		t.Fatalf("pdf export must embed photos")
	}
}

func TestExportHTMLBundleWithoutPhoto(t *testing.T) {
	svc, _ := newTestService(nil, nil)

	artifact, err := svc.Export(context.Background(), Request{Document: exportTestCV()}, "HTML")
	if err != nil {
		t.Fatalf("export html: %v", err)
	}
	if artifact.ContentType != "application/zip" || artifact.Filename != "Export_Test_CV.zip" {
		t.Fatalf("unexpected artifact: %s %s", artifact.ContentType, artifact.Filename)
	}

	entries := zipEntries(t, artifact.Data)
	if len(entries) != 1 {
		t.Fatalf("expected only index.html, got %d entries", len(entries))
	}
	index, ok := entries["index.html"]
	if !ok || !bytes.Contains(index, []byte("Export Test CV")) {
		t.Fatalf("index.html missing or empty")
	}
	if len(artifact.Warnings) != 0 {
		t.Fatalf("no photo set, no warning expected: %v", artifact.Warnings)
	}
}

func TestExportHTMLBundleWithPhoto(t *testing.T) {
	doc := exportTestCV()
	doc.PersonalInfo.PhotoRef = "photos/7.jpg"
	svc, spy := newTestService(staticAssets{asset: &render.Asset{ContentType: "image/jpeg", Data: []byte("jpeg")}}, nil)

	artifact, err := svc.Export(context.Background(), Request{Document: doc}, "html")
	if err != nil {
		t.Fatalf("export html: %v", err)
	}
	if spy.last.PhotoMode != render.PhotoBundle {
		t.Fatalf("html export must bundle photos")
	}
	entries := zipEntries(t, artifact.Data)
	if string(entries["assets/photo.jpg"]) != "jpeg" {
		t.Fatalf("photo must be packaged under assets/: %v", entries)
	}
	if !bytes.Contains(entries["index.html"], []byte(`src="assets/photo.jpg"`)) {
		t.Fatalf("index.html must reference the bundled photo")
	}
}

func TestExportMissingPhotoWarns(t *testing.T) {
	doc := exportTestCV()
	doc.PersonalInfo.PhotoRef = "photos/missing.jpg"
	svc, _ := newTestService(staticAssets{}, nil)

	artifact, err := svc.Export(context.Background(), Request{Document: doc}, "html")
	if err != nil {
		t.Fatalf("missing photo must not fail the export: %v", err)
	}
	if len(zipEntries(t, artifact.Data)) != 1 {
		t.Fatalf("bundle without photo expected")
	}
	if len(artifact.Warnings) != 1 || artifact.Warnings[0].Code != errcode.ResourceMissing {
		t.Fatalf("expected resource-missing warning, got %+v", artifact.Warnings)
	}
}

func TestExportRejectsUnsupportedFormatBeforeRendering(t *testing.T) {
	printer := &fakePrinter{data: []byte("pdf")}
	svc, spy := newTestService(nil, printer)

	for _, format := range []string{"xml", "invalid", "", "pdfx"} {
		artifact, err := svc.Export(context.Background(), Request{Document: exportTestCV()}, format)
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Fatalf("format %q: expected ErrUnsupportedFormat, got %v", format, err)
		}
		if artifact != nil {
			t.Fatalf("format %q: no artifact expected", format)
		}
	}
	if spy.calls != 0 || printer.calls != 0 {
		t.Fatalf("renderer/printer must not run for rejected formats: render=%d print=%d", spy.calls, printer.calls)
	}
}

func TestExportWordGuide(t *testing.T) {
	svc, spy := newTestService(nil, nil)

	for _, format := range []string{"doc", "DOCX", " word "} {
		artifact, err := svc.Export(context.Background(), Request{Document: exportTestCV()}, format)
		if err != nil {
			t.Fatalf("format %q: %v", format, err)
		}
		if !strings.HasPrefix(artifact.ContentType, "text/html") {
			t.Fatalf("unexpected content type: %s", artifact.ContentType)
		}
		if !bytes.Contains(artifact.Data, []byte("Export_Test_CV.pdf")) {
			t.Fatalf("guide must point at the pdf export")
		}
	}
	if spy.calls != 0 {
		t.Fatalf("guided export must not render the document")
	}
}

func TestExportPrinterFailureIsFatal(t *testing.T) {
	printer := &fakePrinter{err: errors.New("browser crashed")}
	svc, _ := newTestService(nil, printer)

	artifact, err := svc.Export(context.Background(), Request{Document: exportTestCV()}, "pdf")
	if err == nil || artifact != nil {
		t.Fatalf("printer failure must fail the export")
	}
	if printer.calls != 1 {
		t.Fatalf("printer must not be retried: calls=%d", printer.calls)
	}
}

func TestExportRequiresDocument(t *testing.T) {
	svc, _ := newTestService(nil, nil)
	if _, err := svc.Export(context.Background(), Request{}, "html"); !errors.Is(err, ErrNoDocument) {
		t.Fatalf("expected ErrNoDocument, got %v", err)
	}
}

func TestPreviewHonoursSelectionOverride(t *testing.T) {
	svc, spy := newTestService(nil, nil)

	artifact, err := svc.Preview(context.Background(), Request{Document: exportTestCV(), LayoutID: "modern-sidebar"})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if spy.last.Layout.ID != "modern-sidebar" {
		t.Fatalf("request layout must win over document layout: %s", spy.last.Layout.ID)
	}
	if !bytes.Contains(artifact.Data, []byte("<!DOCTYPE html>")) {
		t.Fatalf("preview must return a full document")
	}
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{
		"pdf":   FormatPDF,
		" PDF ": FormatPDF,
		"html":  FormatHTML,
		"doc":   FormatWord,
		"docx":  FormatWord,
		"Word":  FormatWord,
	}
	for in, want := range cases {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"My/CV:2024*":    "My_CV_2024_",
		"Export Test CV": "Export_Test_CV",
		"":               "cv",
		"Résumé":         "R_sum_",
	}
	allowed := regexp.MustCompile(`(?i)^[a-z0-9\-_.]+$`)
	for in, want := range cases {
		got := SanitizeFilename(in)
		if got != want {
			t.Fatalf("SanitizeFilename(%q) = %q, want %q", in, got, want)
		}
		if !allowed.MatchString(got) {
			t.Fatalf("SanitizeFilename(%q) produced unsafe name %q", in, got)
		}
	}
}
