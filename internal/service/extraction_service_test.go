package service_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pie/internal/domain"
	"pie/internal/logging"
	"pie/internal/pdftext/plain"
	"pie/internal/pdftext/pdftest"
	"pie/internal/port"
	"pie/internal/service"
	"pie/mocks"
)

// pngContent returns minimal PNG bytes (magic bytes plus padding).
func pngContent() []byte {
	return append([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, make([]byte, 32)...)
}

func imageURLOf(payload port.ExtractionRequestPayload) string {
	for _, p := range payload.Parts {
		if p.Type == domain.ContentPartImageURL {
			return p.ImageURL
		}
	}
	return ""
}

func TestExtractionService_Extract_PDF(t *testing.T) {
	mockExtractor := new(mocks.MockTextExtractor)
	mockInference := new(mocks.MockInvoiceInference)
	svc := service.NewExtractionService(mockExtractor, mockInference, false, logging.Discard())

	pdfBytes := []byte("%PDF-1.4 fake")
	expected := json.RawMessage(`{"name":"ACME","account":"BE71096123456769","amount":"1250.00","communication":"INV-7"}`)

	mockExtractor.On("ExtractText", mock.Anything, pdfBytes).Return("ACME BE71 0961 2345 6769 1.250,00 EUR INV-7", nil)
	mockInference.On("Complete", mock.Anything, mock.MatchedBy(func(p port.ExtractionRequestPayload) bool {
		return len(p.Parts) == 2 &&
			p.Parts[1].Type == domain.ContentPartText &&
			p.Parts[1].Text == "Extracted text:\nACME BE71 0961 2345 6769 1.250,00 EUR INV-7"
	})).Return(expected, nil)

	result, err := svc.Extract(context.Background(), domain.UploadedFile{
		FileName:    "invoice.pdf",
		ContentType: "Application/PDF",
		Bytes:       pdfBytes,
	})

	require.NoError(t, err)
	assert.JSONEq(t, string(expected), string(result))
	mockExtractor.AssertExpectations(t)
	mockInference.AssertExpectations(t)
}

func TestExtractionService_Extract_PDFWithRealExtractor(t *testing.T) {
	mockInference := new(mocks.MockInvoiceInference)
	svc := service.NewExtractionService(plain.NewExtractor(), mockInference, false, logging.Discard())

	doc := pdftest.Document("Pay to ACME SRL", "IBAN BE71 0961 2345 6769")
	mockInference.On("Complete", mock.Anything, mock.MatchedBy(func(p port.ExtractionRequestPayload) bool {
		return len(p.Parts) == 2 &&
			p.Parts[1].Type == domain.ContentPartText &&
			containsAll(p.Parts[1].Text, "Pay to ACME SRL", "IBAN BE71 0961 2345 6769")
	})).Return(json.RawMessage(`{"name":"ACME SRL","account":"BE71096123456769"}`), nil)

	result, err := svc.Extract(context.Background(), domain.UploadedFile{ContentType: "application/pdf", Bytes: doc})

	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"ACME SRL","account":"BE71096123456769"}`, string(result))
	mockInference.AssertExpectations(t)
}

func TestExtractionService_Extract_PDFFailure(t *testing.T) {
	mockExtractor := new(mocks.MockTextExtractor)
	mockInference := new(mocks.MockInvoiceInference)
	svc := service.NewExtractionService(mockExtractor, mockInference, false, logging.Discard())

	mockExtractor.On("ExtractText", mock.Anything, mock.Anything).Return("", errors.New("invalid header"))

	result, err := svc.Extract(context.Background(), domain.UploadedFile{ContentType: "application/pdf", Bytes: []byte("junk")})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrPDFProcessing)
	assert.Contains(t, err.Error(), "invalid header")
	mockInference.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestExtractionService_Extract_EmptyPDFUsesRealDecoder(t *testing.T) {
	mockInference := new(mocks.MockInvoiceInference)
	svc := service.NewExtractionService(plain.NewExtractor(), mockInference, false, logging.Discard())

	result, err := svc.Extract(context.Background(), domain.UploadedFile{ContentType: "application/pdf", Bytes: []byte{}})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrPDFProcessing)
	mockInference.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestExtractionService_Extract_ImageAlwaysLabelledJPEG(t *testing.T) {
	mockExtractor := new(mocks.MockTextExtractor)
	mockInference := new(mocks.MockInvoiceInference)
	svc := service.NewExtractionService(mockExtractor, mockInference, false, logging.Discard())

	png := pngContent()
	wantURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(png)

	mockInference.On("Complete", mock.Anything, mock.MatchedBy(func(p port.ExtractionRequestPayload) bool {
		return imageURLOf(p) == wantURL
	})).Return(json.RawMessage(`{"name":"Bob","amount":"10.00"}`), nil)

	result, err := svc.Extract(context.Background(), domain.UploadedFile{ContentType: "image/png", Bytes: png})

	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Bob","amount":"10.00"}`, string(result))
	mockExtractor.AssertNotCalled(t, "ExtractText", mock.Anything, mock.Anything)
	mockInference.AssertExpectations(t)
}

func TestExtractionService_Extract_InvalidImageStillReachesInference(t *testing.T) {
	mockExtractor := new(mocks.MockTextExtractor)
	mockInference := new(mocks.MockInvoiceInference)
	svc := service.NewExtractionService(mockExtractor, mockInference, false, logging.Discard())

	garbage := []byte("definitely not an image")
	wantURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(garbage)

	mockInference.On("Complete", mock.Anything, mock.MatchedBy(func(p port.ExtractionRequestPayload) bool {
		return imageURLOf(p) == wantURL
	})).Return(json.RawMessage(`{}`), nil)

	result, err := svc.Extract(context.Background(), domain.UploadedFile{ContentType: "text/plain", Bytes: garbage})

	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(result))
	mockInference.AssertExpectations(t)
}

func TestExtractionService_Extract_DetectImageMIME(t *testing.T) {
	mockInference := new(mocks.MockInvoiceInference)
	svc := service.NewExtractionService(new(mocks.MockTextExtractor), mockInference, true, logging.Discard())

	png := pngContent()
	mockInference.On("Complete", mock.Anything, mock.MatchedBy(func(p port.ExtractionRequestPayload) bool {
		return imageURLOf(p) == "data:image/png;base64,"+base64.StdEncoding.EncodeToString(png)
	})).Return(json.RawMessage(`{}`), nil).Once()
	mockInference.On("Complete", mock.Anything, mock.MatchedBy(func(p port.ExtractionRequestPayload) bool {
		return imageURLOf(p) == "data:image/jpeg;base64,"+base64.StdEncoding.EncodeToString([]byte("text"))
	})).Return(json.RawMessage(`{}`), nil).Once()

	_, err := svc.Extract(context.Background(), domain.UploadedFile{ContentType: "image/png", Bytes: png})
	require.NoError(t, err)

	// undetectable content falls back to image/jpeg
	_, err = svc.Extract(context.Background(), domain.UploadedFile{ContentType: "image/png", Bytes: []byte("text")})
	require.NoError(t, err)

	mockInference.AssertExpectations(t)
}

func TestExtractionService_Extract_OnlySomeFields(t *testing.T) {
	mockInference := new(mocks.MockInvoiceInference)
	svc := service.NewExtractionService(new(mocks.MockTextExtractor), mockInference, false, logging.Discard())

	mockInference.On("Complete", mock.Anything, mock.Anything).
		Return(json.RawMessage(`{"name":"ACME","amount":"99.90"}`), nil)

	result, err := svc.Extract(context.Background(), domain.UploadedFile{ContentType: "image/jpeg", Bytes: []byte{0xFF, 0xD8}})
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(result, &fields))
	assert.Len(t, fields, 2)
	assert.NotContains(t, fields, "account")
	assert.NotContains(t, fields, "communication")
}

func TestExtractionService_Extract_InferenceErrorsPassThrough(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"missing credential", domain.ErrCredentialNotFound},
		{"empty response", domain.ErrEmptyInference},
		{"upstream", domain.NewUpstreamError(errors.New("connection reset"))},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mockInference := new(mocks.MockInvoiceInference)
			svc := service.NewExtractionService(new(mocks.MockTextExtractor), mockInference, false, logging.Discard())
			mockInference.On("Complete", mock.Anything, mock.Anything).Return(nil, tc.err)

			result, err := svc.Extract(context.Background(), domain.UploadedFile{ContentType: "image/jpeg", Bytes: []byte{1}})

			assert.Nil(t, result)
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestExtractionService_Extract_SchemaMismatchIsReturnedUnmodified(t *testing.T) {
	mockInference := new(mocks.MockInvoiceInference)
	svc := service.NewExtractionService(new(mocks.MockTextExtractor), mockInference, false, logging.Discard())

	raw := json.RawMessage(`{"name":"ACME","iban":"BE71096123456769"}`)
	mockInference.On("Complete", mock.Anything, mock.Anything).Return(raw, nil)

	result, err := svc.Extract(context.Background(), domain.UploadedFile{ContentType: "image/jpeg", Bytes: []byte{1}})

	require.NoError(t, err)
	assert.JSONEq(t, string(raw), string(result))
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}
