package repository

import (
	"clinic-scheduling/internal/domain/entity"

	"gorm.io/gorm"
)

type AuditLogRepository interface {
	Create(db *gorm.DB, log *entity.AuditLog) error
	// FindAll returns the most recent entries first, at most limit rows.
	FindAll(db *gorm.DB, limit int) ([]entity.AuditLog, error)
	FindByID(db *gorm.DB, id int64) (*entity.AuditLog, error)
	// FindByEntity returns the trail of one record, oldest first.
	FindByEntity(db *gorm.DB, entityType, entityID string) ([]entity.AuditLog, error)
}
