package pdf

import (
	"bytes"
	"context"
	"math"
	"testing"
	"time"

	"github.com/go-rod/rod/lib/launcher"

	"cvcraft/internal/render"
)

func TestPrintOptionsUseFrameInInches(t *testing.T) {
	opts := printOptions(render.A4())

	if math.Abs(*opts.PaperWidth-8.27) > 0.01 || math.Abs(*opts.PaperHeight-11.69) > 0.01 {
		t.Fatalf("unexpected paper size: %v x %v", *opts.PaperWidth, *opts.PaperHeight)
	}
	if math.Abs(*opts.MarginTop-18/25.4) > 1e-9 || math.Abs(*opts.MarginLeft-16/25.4) > 1e-9 {
		t.Fatalf("unexpected margins: top=%v left=%v", *opts.MarginTop, *opts.MarginLeft)
	}
	if !opts.PrintBackground {
		t.Fatalf("backgrounds must be printed")
	}
}

func TestNewPrinterDefaults(t *testing.T) {
	p := NewPrinter("", 0, nil)
	if p.timeout != DefaultTimeout {
		t.Fatalf("expected default timeout, got %v", p.timeout)
	}
	if !NewPrinter("/usr/bin/chromium", time.Second, nil).Available() {
		t.Fatalf("explicit binary must be treated as available")
	}
}

func TestPrintWithChromium(t *testing.T) {
	if _, ok := launcher.LookPath(); !ok {
		t.Skip("chromium not found")
	}
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}

	p := NewPrinter("", 30*time.Second, nil)
	data, err := p.Print(context.Background(), "<!DOCTYPE html><html><body><h1>Hello</h1></body></html>", render.A4())
	if err != nil {
		t.Fatalf("print: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output is not a pdf")
	}
}
