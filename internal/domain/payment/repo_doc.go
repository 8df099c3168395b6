package payment

import (
	"context"

	"github.com/google/uuid"

	"github.com/careportal/careportal/internal/platform/docstore"
)

type repoDoc struct {
	store *docstore.Store
}

func NewDocRepo(store *docstore.Store) Repository {
	return &repoDoc{store: store}
}

func (r *repoDoc) Create(ctx context.Context, pi *PaymentIntent) error {
	return docstore.Insert(r.store, docstore.Payments, *pi)
}

func (r *repoDoc) GetByID(ctx context.Context, id string) (*PaymentIntent, error) {
	pi, found, err := docstore.Find(r.store, docstore.Payments, func(pi PaymentIntent) bool {
		return pi.ID == id
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return &pi, nil
}

func (r *repoDoc) Update(ctx context.Context, pi *PaymentIntent) error {
	replaced, err := docstore.Replace(r.store, docstore.Payments, func(cur PaymentIntent) bool {
		return cur.ID == pi.ID
	}, *pi)
	if err != nil {
		return err
	}
	if !replaced {
		return ErrNotFound
	}
	return nil
}

func (r *repoDoc) ListByUser(ctx context.Context, userID uuid.UUID) ([]*PaymentIntent, error) {
	all, err := docstore.All[PaymentIntent](r.store, docstore.Payments)
	if err != nil {
		return nil, err
	}
	owned := make([]*PaymentIntent, 0, len(all))
	for i := range all {
		if all[i].UserID == userID {
			owned = append(owned, &all[i])
		}
	}
	return owned, nil
}
