package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

// CreateAppointmentRequest is the candidate appointment. The practitioner is
// the authenticated caller and is not part of the payload.
type CreateAppointmentRequest struct {
	PatientID     string  `json:"patient_id" validate:"required,uuid"`
	ProcedureID   string  `json:"procedure_id" validate:"required,uuid"`
	ScheduledAt   string  `json:"scheduled_at" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Observations  *string `json:"observations" validate:"omitempty,max=2000"`
	PaymentMethod *string `json:"payment_method" validate:"omitempty,oneof=Cash Card PIX"`
}

type TransitionAppointmentRequest struct {
	Status string `json:"status" validate:"required,oneof=Scheduled Confirmed Completed Cancelled"`
}

// Response DTOs

type AppointmentResponse struct {
	ID             uuid.UUID          `json:"id"`
	PractitionerID uuid.UUID          `json:"practitioner_id"`
	PatientID      uuid.UUID          `json:"patient_id"`
	ProcedureID    uuid.UUID          `json:"procedure_id"`
	ScheduledAt    time.Time          `json:"scheduled_at"`
	Status         string             `json:"status"`
	Observations   *string            `json:"observations,omitempty"`
	PaymentMethod  *string            `json:"payment_method,omitempty"`
	Patient        *AppointmentParty  `json:"patient,omitempty"`
	Procedure      *AppointmentCharge `json:"procedure,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// AppointmentParty is the patient summary shown next to an appointment.
type AppointmentParty struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Phone string    `json:"phone"`
}

// AppointmentCharge is the procedure summary shown next to an appointment.
type AppointmentCharge struct {
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
