// Package plain extracts PDF text with github.com/ledongthuc/pdf.
package plain

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Extractor implements port.TextExtractor on top of ledongthuc/pdf.
type Extractor struct{}

// NewExtractor creates a plain-text PDF extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

func (e *Extractor) ExtractText(ctx context.Context, data []byte) (text string, err error) {
	// the decoder panics on some malformed structures
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("decoding pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extracting page %d: %w", i, err)
		}
		sb.WriteString(pageText)
	}
	return sb.String(), nil
}
