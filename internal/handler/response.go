package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pie/internal/domain"
	"pie/internal/middleware"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Detail: detail})
}

// MapDomainError translates domain errors to HTTP status codes and details.
func MapDomainError(err error) (status int, detail string) {
	var upErr *domain.UpstreamError

	switch {
	case errors.Is(err, domain.ErrFileRead):
		return http.StatusBadRequest, "Error reading the file"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "File exceeds maximum allowed size"
	case errors.Is(err, domain.ErrPDFProcessing):
		return http.StatusBadRequest, "Error processing the PDF file"
	case errors.Is(err, domain.ErrImageProcessing):
		return http.StatusBadRequest, "Error processing the image"
	case errors.Is(err, domain.ErrInvalidPayment):
		return http.StatusBadRequest, "Invalid payment data"
	case errors.Is(err, domain.ErrCredentialNotFound):
		return http.StatusInternalServerError, "OpenAI API key not found"
	case errors.Is(err, domain.ErrEmptyInference):
		return http.StatusInternalServerError, "The OpenAI API returned an empty response"
	case errors.As(err, &upErr):
		return http.StatusInternalServerError, "An unexpected error occurred: " + upErr.Err.Error()
	default:
		return http.StatusInternalServerError, "An internal error occurred"
	}
}

// HandleError maps a domain error, logs it and sends the error response.
func HandleError(c *gin.Context, err error) {
	status, detail := MapDomainError(err)

	entry := middleware.GetLogger(c).WithError(err).WithField("status", status)
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Warn("request rejected")
	}

	RespondError(c, status, detail)
}
