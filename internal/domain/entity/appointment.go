package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "Scheduled"
	AppointmentStatusConfirmed AppointmentStatus = "Confirmed"
	AppointmentStatusCompleted AppointmentStatus = "Completed"
	AppointmentStatusCancelled AppointmentStatus = "Cancelled"
)

// AppointmentStatuses lists every status in lifecycle order.
var AppointmentStatuses = []AppointmentStatus{
	AppointmentStatusScheduled,
	AppointmentStatusConfirmed,
	AppointmentStatusCompleted,
	AppointmentStatusCancelled,
}

var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusScheduled: {AppointmentStatusConfirmed, AppointmentStatusCancelled},
	AppointmentStatusConfirmed: {AppointmentStatusCompleted, AppointmentStatusCancelled},
}

func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusConfirmed, AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s AppointmentStatus) IsTerminal() bool {
	return len(appointmentTransitions[s]) == 0
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range appointmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PaymentMethod is a tag recorded on the appointment; no payment is processed.
type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "Cash"
	PaymentMethodCard PaymentMethod = "Card"
	PaymentMethodPIX  PaymentMethod = "PIX"
)

// Appointment books a patient for a procedure in a practitioner's schedule.
// At most one non-cancelled appointment may hold a (practitioner, scheduled_at) slot;
// idx_appointments_active_slot enforces it in storage.
type Appointment struct {
	ID             uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	PractitionerID uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_appointments_active_slot,where:status <> 'Cancelled';index" json:"practitioner_id"`
	PatientID      uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	ProcedureID    uuid.UUID         `gorm:"type:uuid;not null;index" json:"procedure_id"`
	ScheduledAt    time.Time         `gorm:"not null;uniqueIndex:idx_appointments_active_slot" json:"scheduled_at"`
	Status         AppointmentStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Observations   *string           `gorm:"type:text" json:"observations,omitempty"`
	PaymentMethod  *PaymentMethod    `gorm:"type:varchar(10)" json:"payment_method,omitempty"`
	CreatedAt      time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Practitioner *User      `gorm:"foreignKey:PractitionerID;constraint:OnDelete:RESTRICT" json:"-"`
	Patient      *Patient   `gorm:"foreignKey:PatientID;constraint:OnDelete:RESTRICT" json:"patient,omitempty"`
	Procedure    *Procedure `gorm:"foreignKey:ProcedureID;constraint:OnDelete:RESTRICT" json:"procedure,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.ScheduledAt = SlotInstant(a.ScheduledAt)
	return nil
}

// SlotInstant normalizes t to the instant stored for a slot: UTC at microsecond
// precision, the resolution of a PostgreSQL timestamptz.
func SlotInstant(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// IsActive reports whether the appointment occupies its slot
func (a *Appointment) IsActive() bool {
	return a.Status != AppointmentStatusCancelled
}
