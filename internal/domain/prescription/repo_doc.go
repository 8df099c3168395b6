package prescription

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

func (r *repoDoc) Create(ctx context.Context, p *Prescription) error {
	return docstore.Insert(r.store, docstore.Prescriptions, *p)
}

func (r *repoDoc) GetByID(ctx context.Context, id uuid.UUID) (*Prescription, error) {
	p, found, err := docstore.Find(r.store, docstore.Prescriptions, func(p Prescription) bool {
		return p.ID == id
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (r *repoDoc) Update(ctx context.Context, p *Prescription) error {
	replaced, err := docstore.Replace(r.store, docstore.Prescriptions, func(cur Prescription) bool {
		return cur.ID == p.ID
	}, *p)
	if err != nil {
		return err
	}
	if !replaced {
		return ErrNotFound
	}
	return nil
}

func (r *repoDoc) Delete(ctx context.Context, id uuid.UUID) error {
	removed, err := docstore.Remove(r.store, docstore.Prescriptions, func(p Prescription) bool {
		return p.ID == id
	})
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotFound
	}
	return nil
}

func (r *repoDoc) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Prescription, error) {
	all, err := docstore.All[Prescription](r.store, docstore.Prescriptions)
	if err != nil {
		return nil, err
	}
	owned := make([]*Prescription, 0, len(all))
	for i := range all {
		if all[i].UserID == userID {
			owned = append(owned, &all[i])
		}
	}
	return owned, nil
}
