// Package prescription manages a patient's prescriptions.
package prescription

import (
	"time"

	"github.com/google/uuid"
)

type Prescription struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"userId"`
	Medication   string     `json:"medication"`
	Dosage       string     `json:"dosage"`
	Instructions string     `json:"instructions,omitempty"`
	StartDate    time.Time  `json:"startDate"`
	EndDate      *time.Time `json:"endDate,omitempty"`
}

type UpdateRequest struct {
	Medication   *string    `json:"medication"`
	Dosage       *string    `json:"dosage"`
	Instructions *string    `json:"instructions"`
	StartDate    *time.Time `json:"startDate"`
	EndDate      *time.Time `json:"endDate"`
}
