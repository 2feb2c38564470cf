package port

import "context"

// TextExtractor abstracts PDF text extraction.
type TextExtractor interface {
	// ExtractText decodes a PDF and returns the text of every page concatenated in page order.
	// A failure on any page fails the whole extraction.
	ExtractText(ctx context.Context, data []byte) (string, error)
}
