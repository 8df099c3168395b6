package prescription

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

func (s *Service) Create(ctx context.Context, userID uuid.UUID, p *Prescription) error {
	if p.Medication == "" {
		return validate.Errorf("medication is required")
	}
	if p.Dosage == "" {
		return validate.Errorf("dosage is required")
	}
	if p.StartDate.IsZero() {
		p.StartDate = time.Now().UTC()
	}
	if p.EndDate != nil && p.EndDate.Before(p.StartDate) {
		return validate.Errorf("endDate must not precede startDate")
	}
	p.ID = uuid.New()
	p.UserID = userID
	return s.repo.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Prescription, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, req UpdateRequest) (*Prescription, error) {
	p, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Medication != nil {
		p.Medication = *req.Medication
	}
	if req.Dosage != nil {
		p.Dosage = *req.Dosage
	}
	if req.Instructions != nil {
		p.Instructions = *req.Instructions
	}
	if req.StartDate != nil {
		p.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		p.EndDate = req.EndDate
	}
	if p.EndDate != nil && p.EndDate.Before(p.StartDate) {
		return nil, validate.Errorf("endDate must not precede startDate")
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Prescription, error) {
	return s.repo.ListByUser(ctx, userID)
}
