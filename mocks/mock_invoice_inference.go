package mocks

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"pie/internal/port"
)

// MockInvoiceInference is a mock implementation of port.InvoiceInference.
type MockInvoiceInference struct {
	mock.Mock
}

func (m *MockInvoiceInference) Complete(ctx context.Context, payload port.ExtractionRequestPayload) (json.RawMessage, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}
