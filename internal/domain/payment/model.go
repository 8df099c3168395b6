// Package payment tracks payment intents against the configured gateway.
// Intents are created, confirmed in place, and never deleted.
package payment

import (
	"time"

	"github.com/google/uuid"
)

// PaymentIntent mirrors the gateway's intent. The id is the gateway's
// string id (or a locally generated one on the mock path), not a UUID.
type PaymentIntent struct {
	ID              string     `json:"id"`
	UserID          uuid.UUID  `json:"userId"`
	Amount          float64    `json:"amount"`
	Currency        string     `json:"currency"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"createdAt"`
	ConfirmedAt     *time.Time `json:"confirmedAt,omitempty"`
	TransactionID   *string    `json:"transactionId,omitempty"`
	PaymentMethodID *string    `json:"paymentMethodId,omitempty"`
}

// ConfirmResult is what a successful confirm returns to the caller.
type ConfirmResult struct {
	Status        string         `json:"status"`
	TransactionID string         `json:"transactionId"`
	PaymentIntent *PaymentIntent `json:"paymentIntent"`
}
