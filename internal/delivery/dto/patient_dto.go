package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreatePatientRequest struct {
	Name         string  `json:"name" validate:"required,min=3,max=255"`
	Phone        string  `json:"phone" validate:"required,min=10,max=30"`
	Email        *string `json:"email" validate:"omitempty,email"`
	Observations *string `json:"observations" validate:"omitempty,max=2000"`
}

// Response DTOs

type PatientResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Email        *string   `json:"email,omitempty"`
	Observations *string   `json:"observations,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type PatientListResponse struct {
	Patients []PatientResponse `json:"patients"`
	Total    int               `json:"total"`
}
