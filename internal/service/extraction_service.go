package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"

	"pie/internal/domain"
	"pie/internal/parser"
	"pie/internal/port"
)

// ExtractionService turns one uploaded invoice into payment data JSON.
type ExtractionService interface {
	Extract(ctx context.Context, file domain.UploadedFile) (json.RawMessage, error)
}

type extractionService struct {
	extractor       port.TextExtractor
	inference       port.InvoiceInference
	detectImageMIME bool
	log             logrus.FieldLogger
}

// NewExtractionService creates a new ExtractionService implementation.
// With detectImageMIME unset every image is labelled image/jpeg in its data URL.
func NewExtractionService(
	extractor port.TextExtractor,
	inference port.InvoiceInference,
	detectImageMIME bool,
	log logrus.FieldLogger,
) ExtractionService {
	return &extractionService{
		extractor:       extractor,
		inference:       inference,
		detectImageMIME: detectImageMIME,
		log:             log,
	}
}

func (s *extractionService) Extract(ctx context.Context, file domain.UploadedFile) (json.RawMessage, error) {
	log := s.log.WithFields(logrus.Fields{
		"file_name":    file.FileName,
		"content_type": file.ContentType,
		"size":         len(file.Bytes),
	})

	var payload port.ExtractionRequestPayload
	if file.IsPDF() {
		text, err := s.extractor.ExtractText(ctx, file.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrPDFProcessing, err)
		}
		log.WithField("text_len", len(text)).Debug("extractionService.Extract: pdf text extracted")
		payload = parser.BuildTextPayload(text)
	} else {
		dataURL, err := s.imageDataURL(file.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrImageProcessing, err)
		}
		log.WithField("data_url_len", len(dataURL)).Debug("extractionService.Extract: image encoded")
		payload = parser.BuildImagePayload(dataURL)
	}

	result, err := s.inference.Complete(ctx, payload)
	if err != nil {
		return nil, err
	}

	if err := parser.ValidateInvoiceJSON(result); err != nil {
		log.WithError(err).Warn("extractionService.Extract: inference result does not match invoice schema")
	}

	return result, nil
}

func (s *extractionService) imageDataURL(data []byte) (string, error) {
	mediaType := domain.ContentTypeJPEG
	if s.detectImageMIME {
		if detected := mimetype.Detect(data); strings.HasPrefix(detected.String(), "image/") {
			mediaType = detected.String()
		}
	}

	var sb strings.Builder
	sb.Grow(len("data:;base64,") + len(mediaType) + base64.StdEncoding.EncodedLen(len(data)))
	sb.WriteString("data:" + mediaType + ";base64,")

	enc := base64.NewEncoder(base64.StdEncoding, &sb)
	if _, err := enc.Write(data); err != nil {
		return "", fmt.Errorf("encoding image: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encoding image: %w", err)
	}
	return sb.String(), nil
}
