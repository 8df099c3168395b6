// Package payments abstracts the external payment gateway. Intents are
// created and confirmed against the configured provider; when no provider
// is configured a deterministic in-process mock stands in so the rest of
// the API stays usable in development.
package payments

import (
	"context"
	"errors"
)

// ErrGateway wraps any provider-side failure. Callers map it to an
// upstream error status rather than blaming the client.
var ErrGateway = errors.New("payment gateway error")

// Intent is the provider's view of a payment in flight.
type Intent struct {
	ID     string
	Status string
}

// Confirmation is the result of settling an intent.
type Confirmation struct {
	Status        string
	TransactionID string
}

type Gateway interface {
	CreateIntent(ctx context.Context, amountCents int64, currency string) (Intent, error)
	ConfirmIntent(ctx context.Context, intentID, methodID string) (Confirmation, error)
}
