package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateProcedureRequest struct {
	Name        string           `json:"name" validate:"required,min=3,max=255"`
	Description *string          `json:"description" validate:"omitempty,max=2000"`
	Value       *decimal.Decimal `json:"value" validate:"required"`
}

// Response DTOs

type ProcedureResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Value       decimal.Decimal `json:"value"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type ProcedureListResponse struct {
	Procedures []ProcedureResponse `json:"procedures"`
	Total      int                 `json:"total"`
}
