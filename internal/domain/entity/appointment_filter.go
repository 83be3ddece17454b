package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentRange selects a practitioner's appointments whose scheduled_at
// falls within [From, To], both bounds inclusive.
// Used by repository layer to avoid coupling with delivery DTOs.
type AppointmentRange struct {
	PractitionerID uuid.UUID
	From           time.Time
	To             time.Time
}

// Contains reports whether t lies within the range.
func (r AppointmentRange) Contains(t time.Time) bool {
	return !t.Before(r.From) && !t.After(r.To)
}
