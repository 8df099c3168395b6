package account

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/careportal/careportal/internal/platform/docstore"
)

type repoDoc struct {
	store *docstore.Store

	// Serializes the duplicate-email check against the insert. The store
	// locks each call individually, which is not enough for check-then-add.
	mu sync.Mutex
}

func NewDocRepo(store *docstore.Store) Repository {
	return &repoDoc{store: store}
}

func (r *repoDoc) Create(ctx context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, found, err := docstore.Find(r.store, docstore.Users, func(su storedUser) bool {
		return strings.EqualFold(su.Email, u.Email)
	})
	if err != nil {
		return err
	}
	if found {
		return ErrEmailTaken
	}
	return docstore.Insert(r.store, docstore.Users, stored(u))
}

func (r *repoDoc) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	su, found, err := docstore.Find(r.store, docstore.Users, func(su storedUser) bool {
		return su.ID == id
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return su.user(), nil
}

func (r *repoDoc) GetByEmail(ctx context.Context, email string) (*User, error) {
	su, found, err := docstore.Find(r.store, docstore.Users, func(su storedUser) bool {
		return strings.EqualFold(su.Email, email)
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return su.user(), nil
}
