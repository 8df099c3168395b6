package appointment

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

func (r *repoDoc) Create(ctx context.Context, a *Appointment) error {
	return docstore.Insert(r.store, docstore.Appointments, *a)
}

func (r *repoDoc) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, found, err := docstore.Find(r.store, docstore.Appointments, func(a Appointment) bool {
		return a.ID == id
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (r *repoDoc) Update(ctx context.Context, a *Appointment) error {
	replaced, err := docstore.Replace(r.store, docstore.Appointments, func(cur Appointment) bool {
		return cur.ID == a.ID
	}, *a)
	if err != nil {
		return err
	}
	if !replaced {
		return ErrNotFound
	}
	return nil
}

func (r *repoDoc) Delete(ctx context.Context, id uuid.UUID) error {
	removed, err := docstore.Remove(r.store, docstore.Appointments, func(a Appointment) bool {
		return a.ID == id
	})
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotFound
	}
	return nil
}

func (r *repoDoc) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Appointment, error) {
	all, err := docstore.All[Appointment](r.store, docstore.Appointments)
	if err != nil {
		return nil, err
	}
	owned := make([]*Appointment, 0, len(all))
	for i := range all {
		if all[i].UserID == userID {
			owned = append(owned, &all[i])
		}
	}
	return owned, nil
}
