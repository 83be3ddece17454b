package repository

import (
	"errors"

	"clinic-scheduling/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrSlotTaken is returned by Create when another active appointment holds
	// the same practitioner and scheduled_at.
	ErrSlotTaken = errors.New("slot already booked")
	// ErrReferenceNotFound is returned when a foreign key does not resolve.
	ErrReferenceNotFound = errors.New("referenced record does not exist")
)

type AppointmentRepository interface {
	// Create inserts in a single statement; uniqueness of the active slot is
	// enforced by the database.
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	// FindByPractitionerInRange returns appointments ascending by scheduled_at.
	FindByPractitionerInRange(db *gorm.DB, filter entity.AppointmentRange) ([]entity.Appointment, error)
	// FindByPractitioner returns appointments newest first.
	FindByPractitioner(db *gorm.DB, practitionerID uuid.UUID) ([]entity.Appointment, error)
	// UpdateStatus sets status to `to` only while it still equals `from`.
	// Returns affected rows: 1 = applied, 0 = missing row or status changed.
	UpdateStatus(db *gorm.DB, id uuid.UUID, from, to entity.AppointmentStatus) (int64, error)
}
