package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"pie/internal/domain"
	"pie/internal/service"
)

// PaymentHandler turns extracted invoice data into bank payment payloads.
type PaymentHandler struct {
	paymentService service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// EPC handles POST /api/epc
// @Summary Build a SEPA QR payload
// @Description Formats invoice payment data as an EPC069-12 payload for a payment QR code
// @Tags payment
// @Accept json
// @Produce json
// @Param request body domain.InvoiceData true "Payment data as returned by /api/extract"
// @Success 200 {object} domain.EPCPayment
// @Failure 400 {object} ErrorResponse "Invalid payment data"
// @Router /api/epc [post]
func (h *PaymentHandler) EPC(c *gin.Context) {
	var req domain.InvoiceData
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleError(c, fmt.Errorf("%w: %w", domain.ErrInvalidPayment, err))
		return
	}

	payment, err := h.paymentService.BuildEPC(req)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}
