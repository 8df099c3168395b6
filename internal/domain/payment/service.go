package payment

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/careportal/careportal/internal/platform/payments"
	"github.com/careportal/careportal/internal/platform/validate"
)

type Service struct {
	repo    Repository
	gateway payments.Gateway
}

func NewService(repo Repository, gateway payments.Gateway) *Service {
	return &Service{repo: repo, gateway: gateway}
}

// CreateIntent registers an intent with the gateway and persists it scoped
// to the caller. Gateway failures surface as payments.ErrGateway without a
// local record being written.
func (s *Service) CreateIntent(ctx context.Context, userID uuid.UUID, amount float64, currency string) (*PaymentIntent, error) {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, validate.Errorf("amount must be a positive number")
	}
	if currency == "" {
		return nil, validate.Errorf("currency is required")
	}

	intent, err := s.gateway.CreateIntent(ctx, int64(math.Round(amount*100)), currency)
	if err != nil {
		return nil, err
	}

	pi := &PaymentIntent{
		ID:        intent.ID,
		UserID:    userID,
		Amount:    amount,
		Currency:  currency,
		Status:    intent.Status,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, pi); err != nil {
		return nil, err
	}
	return pi, nil
}

// Confirm settles an intent with the gateway and records the outcome. A
// declined or failed confirm returns ErrPaymentFailed; whatever status was
// captured before the failure stays persisted, there is no rollback.
func (s *Service) Confirm(ctx context.Context, userID uuid.UUID, intentID, methodID string) (*ConfirmResult, error) {
	if intentID == "" {
		return nil, validate.Errorf("paymentIntentId is required")
	}

	pi, err := s.repo.GetByID(ctx, intentID)
	if err != nil {
		return nil, err
	}
	if pi.UserID != userID {
		return nil, ErrNotFound
	}

	conf, err := s.gateway.ConfirmIntent(ctx, intentID, methodID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}

	now := time.Now().UTC()
	pi.Status = conf.Status
	pi.ConfirmedAt = &now
	if conf.TransactionID != "" {
		pi.TransactionID = &conf.TransactionID
	}
	if methodID != "" {
		pi.PaymentMethodID = &methodID
	}
	if err := s.repo.Update(ctx, pi); err != nil {
		return nil, err
	}

	if conf.Status != "succeeded" {
		return nil, fmt.Errorf("%w: gateway status %s", ErrPaymentFailed, conf.Status)
	}
	return &ConfirmResult{
		Status:        conf.Status,
		TransactionID: conf.TransactionID,
		PaymentIntent: pi,
	}, nil
}

// History lists the caller's intents in chronological order.
func (s *Service) History(ctx context.Context, userID uuid.UUID) ([]*PaymentIntent, error) {
	intents, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(intents, func(i, j int) bool {
		return intents[i].CreatedAt.Before(intents[j].CreatedAt)
	})
	return intents, nil
}
