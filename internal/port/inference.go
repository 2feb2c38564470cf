package port

import (
	"context"
	"encoding/json"

	"pie/internal/domain"
)

// ContentPart is one segment of the user message: text or an image URL.
type ContentPart struct {
	Type     domain.ContentPartType
	Text     string
	ImageURL string
}

// ExtractionRequestPayload is the prompt submitted for one extraction.
type ExtractionRequestPayload struct {
	System string
	Parts  []ContentPart
}

// InvoiceInference abstracts the hosted chat-completion call that turns a prompt
// into an invoice data JSON object.
type InvoiceInference interface {
	Complete(ctx context.Context, payload ExtractionRequestPayload) (json.RawMessage, error)
}
