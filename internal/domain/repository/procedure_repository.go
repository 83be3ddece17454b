package repository

import (
	"clinic-scheduling/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProcedureRepository interface {
	Create(db *gorm.DB, procedure *entity.Procedure) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Procedure, error)
	// FindAll returns procedures ordered by name.
	FindAll(db *gorm.DB) ([]entity.Procedure, error)
}
