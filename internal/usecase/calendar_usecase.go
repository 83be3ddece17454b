package usecase

import (
	"context"
	"time"

	"clinic-scheduling/internal/domain/entity"
	"clinic-scheduling/internal/domain/repository"
	"clinic-scheduling/pkg/apperror"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type CalendarUsecase interface {
	// ForRange buckets the practitioner's appointments in [start, end] by day.
	ForRange(ctx context.Context, practitionerID uuid.UUID, start, end time.Time) (*entity.Calendar, error)
	// Month is ForRange over one calendar month in the practitioner's timezone.
	Month(ctx context.Context, practitionerID uuid.UUID, year int, month time.Month) (*entity.Calendar, error)
}

type calendarUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	userRepo        repository.UserRepository
	defaultLocation *time.Location
	storeTimeout    time.Duration
}

func NewCalendarUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	userRepo repository.UserRepository,
	defaultLocation *time.Location,
	storeTimeout time.Duration,
) CalendarUsecase {
	if defaultLocation == nil {
		defaultLocation = time.UTC
	}
	return &calendarUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		userRepo:        userRepo,
		defaultLocation: defaultLocation,
		storeTimeout:    storeTimeout,
	}
}

func (u *calendarUsecase) ForRange(ctx context.Context, practitionerID uuid.UUID, start, end time.Time) (*entity.Calendar, error) {
	if start.After(end) {
		return nil, apperror.Validation("validation failed", map[string]string{
			"start": "start must not be after end",
		})
	}

	db, _, cancel := storeScope(ctx, u.db, u.storeTimeout)
	defer cancel()

	loc, err := u.location(db, practitionerID)
	if err != nil {
		return nil, err
	}
	return u.build(db, practitionerID, start, end, loc)
}

func (u *calendarUsecase) Month(ctx context.Context, practitionerID uuid.UUID, year int, month time.Month) (*entity.Calendar, error) {
	if month < time.January || month > time.December {
		return nil, apperror.Validation("validation failed", map[string]string{
			"month": "month must be between 1 and 12",
		})
	}

	db, _, cancel := storeScope(ctx, u.db, u.storeTimeout)
	defer cancel()

	loc, err := u.location(db, practitionerID)
	if err != nil {
		return nil, err
	}

	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return u.build(db, practitionerID, start, end, loc)
}

func (u *calendarUsecase) build(db *gorm.DB, practitionerID uuid.UUID, start, end time.Time, loc *time.Location) (*entity.Calendar, error) {
	r := entity.AppointmentRange{PractitionerID: practitionerID, From: start, To: end}

	appointments, err := u.appointmentRepo.FindByPractitionerInRange(db, r)
	if err != nil {
		u.log.Warnf("Failed to list appointments for practitioner %s: %+v", practitionerID, err)
		return nil, storageError(err)
	}

	return entity.NewCalendar(r, loc, appointments), nil
}

// location resolves the practitioner's timezone, falling back to the configured default.
func (u *calendarUsecase) location(db *gorm.DB, practitionerID uuid.UUID) (*time.Location, error) {
	user, err := u.userRepo.FindByID(db, practitionerID)
	if err != nil {
		u.log.Warnf("Failed to find practitioner %s: %+v", practitionerID, err)
		return nil, storageError(err)
	}
	return user.Location(u.defaultLocation), nil
}
