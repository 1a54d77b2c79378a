package extract

import (
	"context"
	"time"
)

// TextExtractor is Stage 1: file -> text. Decoding is delegated to an
// external tool; everything downstream works on the returned text only.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (TextExtractionResult, error)
}

type TextExtractionResult struct {
	Text     string
	Pages    int
	Method   string // "pdf-text"
	Duration time.Duration
	Warnings []string
}
