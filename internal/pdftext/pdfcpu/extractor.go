// Package pdfcpu extracts PDF text from page content streams decoded by pdfcpu.
package pdfcpu

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	pdfcore "github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var disableConfigDir sync.Once

// Extractor implements port.TextExtractor with pdfcpu. It reads text-showing
// operators only and ignores font encodings, so output is best-effort for
// documents using embedded or composite fonts.
type Extractor struct{}

// NewExtractor creates a pdfcpu-backed extractor.
func NewExtractor() *Extractor {
	// pdfcpu would otherwise create a config directory under the user's home
	disableConfigDir.Do(func() { model.ConfigPath = "disable" })
	return &Extractor{}
}

func (e *Extractor) ExtractText(ctx context.Context, data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("decoding pdf: %v", r)
		}
	}()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pdfCtx, err := pdfapi.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return "", fmt.Errorf("reading pdf: %w", err)
	}

	var sb strings.Builder
	for pageNr := 1; pageNr <= pdfCtx.PageCount; pageNr++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		r, err := pdfcore.ExtractPageContent(pdfCtx, pageNr)
		if err != nil {
			return "", fmt.Errorf("extracting page %d: %w", pageNr, err)
		}
		if r == nil {
			continue
		}
		content, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("reading page %d content: %w", pageNr, err)
		}
		sb.WriteString(TextFromContent(content))
	}
	return sb.String(), nil
}
