package record

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

func (r *repoDoc) Create(ctx context.Context, rec *MedicalRecord) error {
	return docstore.Insert(r.store, docstore.Records, *rec)
}

func (r *repoDoc) GetByID(ctx context.Context, id uuid.UUID) (*MedicalRecord, error) {
	rec, found, err := docstore.Find(r.store, docstore.Records, func(rec MedicalRecord) bool {
		return rec.ID == id
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return &rec, nil
}

func (r *repoDoc) Update(ctx context.Context, rec *MedicalRecord) error {
	replaced, err := docstore.Replace(r.store, docstore.Records, func(cur MedicalRecord) bool {
		return cur.ID == rec.ID
	}, *rec)
	if err != nil {
		return err
	}
	if !replaced {
		return ErrNotFound
	}
	return nil
}

func (r *repoDoc) Delete(ctx context.Context, id uuid.UUID) error {
	removed, err := docstore.Remove(r.store, docstore.Records, func(rec MedicalRecord) bool {
		return rec.ID == id
	})
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotFound
	}
	return nil
}

func (r *repoDoc) ListByUser(ctx context.Context, userID uuid.UUID) ([]*MedicalRecord, error) {
	all, err := docstore.All[MedicalRecord](r.store, docstore.Records)
	if err != nil {
		return nil, err
	}
	owned := make([]*MedicalRecord, 0, len(all))
	for i := range all {
		if all[i].UserID == userID {
			owned = append(owned, &all[i])
		}
	}
	return owned, nil
}
