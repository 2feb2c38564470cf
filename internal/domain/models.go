package domain

import "strings"

// UploadedFile is one invoice upload held in memory for the duration of a request.
type UploadedFile struct {
	FileName    string
	ContentType string
	Size        int64
	Bytes       []byte
}

// IsPDF reports whether the declared content type is application/pdf.
// Media-type parameters are ignored and the comparison is case-insensitive.
func (f *UploadedFile) IsPDF() bool {
	mediaType := f.ContentType
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = mediaType[:i]
	}
	return strings.EqualFold(strings.TrimSpace(mediaType), ContentTypePDF)
}

// InvoiceData is the payment information extracted from an invoice.
// Every field is optional and omitted from JSON when not found.
type InvoiceData struct {
	Name          string `json:"name,omitempty"`
	Account       string `json:"account,omitempty"`
	Amount        string `json:"amount,omitempty"`
	Communication string `json:"communication,omitempty"`
}

// EPCPayment is an EPC069-12 credit transfer payload, the text encoded in a SEPA payment QR code.
type EPCPayment struct {
	Payload string `json:"payload"`
}
