package pdftext_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pie/internal/config"
	"pie/internal/pdftext"
	"pie/internal/pdftext/pdfcpu"
	"pie/internal/pdftext/plain"
	"pie/internal/port"
)

type stubExtractor struct{}

func (stubExtractor) ExtractText(context.Context, []byte) (string, error) { return "stub", nil }

func TestNewExtractor_Default(t *testing.T) {
	ext, err := pdftext.NewExtractor(&config.PDFConfig{})
	require.NoError(t, err)
	assert.IsType(t, &plain.Extractor{}, ext)
}

func TestNewExtractor_Pdfcpu(t *testing.T) {
	ext, err := pdftext.NewExtractor(&config.PDFConfig{Extractor: "pdfcpu"})
	require.NoError(t, err)
	assert.IsType(t, &pdfcpu.Extractor{}, ext)
}

func TestNewExtractor_Unknown(t *testing.T) {
	ext, err := pdftext.NewExtractor(&config.PDFConfig{Extractor: "tesseract"})
	assert.Nil(t, ext)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tesseract")
}

func TestRegisterExtractor(t *testing.T) {
	pdftext.RegisterExtractor("stub", func() port.TextExtractor { return stubExtractor{} })

	ext, err := pdftext.NewExtractor(&config.PDFConfig{Extractor: "stub"})
	require.NoError(t, err)
	text, err := ext.ExtractText(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "stub", text)
	assert.Contains(t, pdftext.Names(), "stub")
}
