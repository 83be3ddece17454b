package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"clinic-scheduling/pkg/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultStoreTimeout bounds a use case's store calls when none is configured.
const DefaultStoreTimeout = 5 * time.Second

// storeScope derives a context that expires after timeout and a db handle bound to it.
func storeScope(ctx context.Context, db *gorm.DB, timeout time.Duration) (*gorm.DB, context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return db.WithContext(ctx), ctx, cancel
}

// storageError wraps a store failure as a retryable error unless it already
// carries a kind.
func storageError(err error) error {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.Storage(err)
}

func parseID(field, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, apperror.Validation("validation failed", map[string]string{
			field: field + " must be a valid UUID",
		})
	}
	return id, nil
}

// optionalText trims s and maps a blank value to nil, so absent optional
// fields are stored as NULL rather than as empty strings.
func optionalText(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
