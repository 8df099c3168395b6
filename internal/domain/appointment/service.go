package appointment

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

var validStatuses = map[string]bool{
	"scheduled": true,
	"confirmed": true,
	"cancelled": true,
	"completed": true,
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, a *Appointment) error {
	if a.DoctorName == "" {
		return validate.Errorf("doctorName is required")
	}
	if a.ScheduledAt.IsZero() {
		return validate.Errorf("scheduledAt is required")
	}
	if a.Status == "" {
		a.Status = "scheduled"
	}
	if !validStatuses[a.Status] {
		return validate.Errorf("invalid status: %s", a.Status)
	}

	now := time.Now().UTC()
	a.ID = uuid.New()
	a.UserID = userID
	a.CreatedAt = now
	a.UpdatedAt = now
	return s.repo.Create(ctx, a)
}

// Get returns the appointment only when the caller owns it. Records owned
// by someone else are indistinguishable from missing ones.
func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.UserID != userID {
		return nil, ErrNotFound
	}
	return a, nil
}

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, req UpdateRequest) (*Appointment, error) {
	a, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.DoctorName != nil {
		a.DoctorName = *req.DoctorName
	}
	if req.ScheduledAt != nil {
		a.ScheduledAt = *req.ScheduledAt
	}
	if req.Reason != nil {
		a.Reason = *req.Reason
	}
	if req.Status != nil {
		if !validStatuses[*req.Status] {
			return nil, validate.Errorf("invalid status: %s", *req.Status)
		}
		a.Status = *req.Status
	}
	a.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Appointment, error) {
	return s.repo.ListByUser(ctx, userID)
}
