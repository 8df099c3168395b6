package payment

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("payment intent not found")

	// ErrPaymentFailed covers confirms the gateway declined or aborted.
	ErrPaymentFailed = errors.New("payment confirmation failed")
)

type Repository interface {
	Create(ctx context.Context, pi *PaymentIntent) error
	GetByID(ctx context.Context, id string) (*PaymentIntent, error)
	Update(ctx context.Context, pi *PaymentIntent) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*PaymentIntent, error)
}
