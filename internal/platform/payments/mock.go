package payments

import (
	"context"

	"github.com/google/uuid"
)

// MockGateway approves everything. It is wired in when no gateway URL is
// configured so local environments never need provider credentials.
type MockGateway struct{}

func NewMockGateway() *MockGateway { return &MockGateway{} }

func (g *MockGateway) CreateIntent(_ context.Context, _ int64, _ string) (Intent, error) {
	return Intent{
		ID:     "pi_" + uuid.New().String(),
		Status: "requires_payment_method",
	}, nil
}

func (g *MockGateway) ConfirmIntent(_ context.Context, _, _ string) (Confirmation, error) {
	return Confirmation{
		Status:        "succeeded",
		TransactionID: "txn_" + uuid.New().String(),
	}, nil
}
