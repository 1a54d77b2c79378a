package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// PDFTextConfig configures the pdftotext-backed extractor.
type PDFTextConfig struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
}

// PDFTextExtractor decodes PDF text layers by shelling out to pdftotext.
// Scanned PDFs with no text layer yield little or no output; the validation
// gate downstream decides what to do with that.
type PDFTextExtractor struct {
	cfg    PDFTextConfig
	runner Runner
	logger *slog.Logger
}

func NewPDFTextExtractor(cfg PDFTextConfig, logger *slog.Logger) *PDFTextExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	return &PDFTextExtractor{cfg: cfg, runner: execRunner{}, logger: logger}
}

func (e *PDFTextExtractor) Extract(ctx context.Context, path string) (TextExtractionResult, error) {
	start := time.Now()
	e.logger.Debug("starting pdf text extraction", "path", path)

	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		e.logger.Error("pdftotext failed", "path", path, "error", err)
		return TextExtractionResult{
			Method:   "pdf-text",
			Duration: time.Since(start),
			Warnings: []string{string(errb)},
		}, fmt.Errorf("pdftotext: %w", err)
	}

	text := string(out)
	// A form-feed \f is used as page separator by default
	pages := 1 + strings.Count(text, "\f")

	return TextExtractionResult{
		Text:     text,
		Pages:    pages,
		Method:   "pdf-text",
		Duration: time.Since(start),
	}, nil
}
