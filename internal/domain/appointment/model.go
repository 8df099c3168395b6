// Package appointment manages a patient's appointments.
package appointment

import (
	"time"

	"github.com/google/uuid"
)

type Appointment struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"userId"`
	DoctorName  string    `json:"doctorName"`
	ScheduledAt time.Time `json:"scheduledAt"`
	Reason      string    `json:"reason,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// UpdateRequest carries a partial update. Only non-nil fields are applied;
// id and userId can never be overwritten through it.
type UpdateRequest struct {
	DoctorName  *string    `json:"doctorName"`
	ScheduledAt *time.Time `json:"scheduledAt"`
	Reason      *string    `json:"reason"`
	Status      *string    `json:"status"`
}
