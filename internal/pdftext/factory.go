package pdftext

import (
	"fmt"
	"sort"

	"pie/internal/config"
	"pie/internal/pdftext/pdfcpu"
	"pie/internal/pdftext/plain"
	"pie/internal/port"
)

// DefaultExtractor is used when no backend is configured.
const DefaultExtractor = "plain"

// ExtractorFactory creates a TextExtractor backend.
type ExtractorFactory func() port.TextExtractor

// registry of extractor backends, keyed by the PIE_PDF_EXTRACTOR value.
var extractors = map[string]ExtractorFactory{
	"plain":  func() port.TextExtractor { return plain.NewExtractor() },
	"pdfcpu": func() port.TextExtractor { return pdfcpu.NewExtractor() },
}

// RegisterExtractor registers an extractor backend by name.
func RegisterExtractor(name string, factory ExtractorFactory) {
	extractors[name] = factory
}

// NewExtractor creates the TextExtractor selected by the PDF config.
func NewExtractor(cfg *config.PDFConfig) (port.TextExtractor, error) {
	name := cfg.Extractor
	if name == "" {
		name = DefaultExtractor
	}
	factory, ok := extractors[name]
	if !ok {
		return nil, fmt.Errorf("unknown pdf extractor %q (available: %v)", name, Names())
	}
	return factory(), nil
}

// Names lists the registered backends in sorted order.
func Names() []string {
	names := make([]string, 0, len(extractors))
	for name := range extractors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
