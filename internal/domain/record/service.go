package record

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/careportal/careportal/internal/platform/validate"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, rec *MedicalRecord) error {
	if rec.Title == "" {
		return validate.Errorf("title is required")
	}
	if rec.Date.IsZero() {
		rec.Date = time.Now().UTC()
	}
	rec.ID = uuid.New()
	rec.UserID = userID
	return s.repo.Create(ctx, rec)
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*MedicalRecord, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.UserID != userID {
		return nil, ErrNotFound
	}
	return rec, nil
}

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, req UpdateRequest) (*MedicalRecord, error) {
	rec, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		rec.Title = *req.Title
	}
	if req.Description != nil {
		rec.Description = *req.Description
	}
	if req.Date != nil {
		rec.Date = *req.Date
	}

	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*MedicalRecord, error) {
	return s.repo.ListByUser(ctx, userID)
}
