package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"pie/internal/domain"
	"pie/internal/middleware"
	"pie/internal/service"
)

// multipartOverhead is the allowance for multipart boundaries and part headers
// on top of the file size limit.
const multipartOverhead = 1 << 20

// ExtractHandler handles invoice extraction uploads.
type ExtractHandler struct {
	extractionService service.ExtractionService
	maxUploadBytes    int64
}

// NewExtractHandler creates a new ExtractHandler. A maxUploadBytes of 0 disables the size limit.
func NewExtractHandler(extractionService service.ExtractionService, maxUploadBytes int64) *ExtractHandler {
	return &ExtractHandler{extractionService: extractionService, maxUploadBytes: maxUploadBytes}
}

// Extract handles POST /api/extract
// @Summary Extract payment data from an invoice
// @Description Upload a PDF or image invoice; returns the payment fields found (name, account, amount, communication).
// @Description Fields that were not found are omitted.
// @Tags extraction
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Invoice (PDF or image)"
// @Success 200 {object} domain.InvoiceData "Extracted payment data"
// @Failure 400 {object} ErrorResponse "File could not be read or processed"
// @Failure 413 {object} ErrorResponse "File too large"
// @Failure 500 {object} ErrorResponse "Missing API key or inference failure"
// @Router /api/extract [post]
func (h *ExtractHandler) Extract(c *gin.Context) {
	file, err := h.readUpload(c)
	if err != nil {
		HandleError(c, err)
		return
	}

	middleware.GetLogger(c).WithFields(logrus.Fields{
		"file_name":    file.FileName,
		"content_type": file.ContentType,
		"size":         file.Size,
	}).Info("extractHandler.Extract: file received")

	result, err := h.extractionService.Extract(c.Request.Context(), file)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", result)
}

func (h *ExtractHandler) readUpload(c *gin.Context) (domain.UploadedFile, error) {
	if h.maxUploadBytes > 0 && c.Request.Body != nil {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartOverhead)
	}

	header, err := c.FormFile("file")
	if err != nil {
		if isBodyTooLarge(err) {
			return domain.UploadedFile{}, fmt.Errorf("%w: %w", domain.ErrFileTooLarge, err)
		}
		return domain.UploadedFile{}, fmt.Errorf("%w: %w", domain.ErrFileRead, err)
	}
	if h.maxUploadBytes > 0 && header.Size > h.maxUploadBytes {
		return domain.UploadedFile{}, fmt.Errorf("%w: %d bytes", domain.ErrFileTooLarge, header.Size)
	}

	f, err := header.Open()
	if err != nil {
		return domain.UploadedFile{}, fmt.Errorf("%w: %w", domain.ErrFileRead, err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return domain.UploadedFile{}, fmt.Errorf("%w: %w", domain.ErrFileRead, err)
	}

	return domain.UploadedFile{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        int64(len(data)),
		Bytes:       data,
	}, nil
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
