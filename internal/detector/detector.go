// Package detector talks to the external AI-text-detection service.
package detector

import (
	"context"
	"io"
)

// Detector submits text or files for classification.
type Detector interface {
	// Predict classifies a piece of text.
	Predict(ctx context.Context, text string) (*Result, error)
	// AnalyzeFile uploads a document and classifies its contents.
	AnalyzeFile(ctx context.Context, name string, r io.Reader) (*Result, error)
}

// DefaultMaxTextLength is the number of runes sent to /predict.
const DefaultMaxTextLength = 10000

// Truncate cuts text to at most max runes. A non-positive max disables it.
func Truncate(text string, max int) string {
	if max <= 0 {
		return text
	}
	n := 0
	for i := range text {
		if n == max {
			return text[:i]
		}
		n++
	}
	return text
}
