package domain

import (
	"errors"
	"fmt"
)

var (
	ErrFileRead           = errors.New("error reading the file")
	ErrFileTooLarge       = errors.New("file exceeds maximum allowed size")
	ErrPDFProcessing      = errors.New("error processing the PDF file")
	ErrImageProcessing    = errors.New("error processing the image")
	ErrInvalidPayment     = errors.New("invalid payment data")
	ErrCredentialNotFound = errors.New("inference API key not found")
	ErrEmptyInference     = errors.New("inference API returned an empty response")
)

// UpstreamError wraps a failure reported by the inference service or its client.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("inference service error: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// NewUpstreamError wraps err as an UpstreamError.
func NewUpstreamError(err error) *UpstreamError {
	return &UpstreamError{Err: err}
}
