package mocks

import (
	"github.com/stretchr/testify/mock"

	"pie/internal/domain"
)

// MockPaymentService is a mock implementation of service.PaymentService.
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) BuildEPC(data domain.InvoiceData) (*domain.EPCPayment, error) {
	args := m.Called(data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EPCPayment), args.Error(1)
}
