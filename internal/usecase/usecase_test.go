package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"clinic-scheduling/internal/domain/entity"
	"clinic-scheduling/internal/infrastructure/database"
	"clinic-scheduling/internal/repository"
	"clinic-scheduling/internal/service"
	"clinic-scheduling/pkg/apperror"
	"clinic-scheduling/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.NewSQLiteConnection(dsn, &gorm.Config{
		Logger:         logger.Discard,
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// testEnv wires the scheduling use cases over a fresh in-memory database.
type testEnv struct {
	db           *gorm.DB
	appointments AppointmentUsecase
	calendar     CalendarUsecase
	patients     PatientUsecase
	procedures   ProcedureUsecase

	practitioner *entity.User
	patient      *entity.Patient
	procedure    *entity.Procedure
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	log := quietLogger()
	v := validator.NewValidator()

	userRepo := repository.NewUserRepository()
	patientRepo := repository.NewPatientRepository()
	procedureRepo := repository.NewProcedureRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	auditLogRepo := repository.NewAuditLogRepository()
	auditService := service.NewAuditService(log, auditLogRepo)

	env := &testEnv{
		db: db,
		appointments: NewAppointmentUsecase(db, log, v, appointmentRepo, patientRepo, procedureRepo,
			auditLogRepo, auditService, time.Second),
		calendar:   NewCalendarUsecase(db, log, appointmentRepo, userRepo, time.UTC, time.Second),
		patients:   NewPatientUsecase(db, log, v, patientRepo, auditService, time.Second),
		procedures: NewProcedureUsecase(db, log, v, procedureRepo, auditService, time.Second),
	}

	env.practitioner = &entity.User{
		Email:    uuid.NewString() + "@clinic.test",
		Password: "hash",
		FullName: "Dr. Ana Souza",
		Role:     entity.RolePractitioner,
		Timezone: "UTC",
	}
	require.NoError(t, userRepo.Create(db, env.practitioner))

	env.patient = &entity.Patient{Name: "Maria Silva", Phone: "11987654321"}
	require.NoError(t, patientRepo.Create(db, env.patient))

	env.procedure = &entity.Procedure{Name: "Consultation", Value: decimal.NewFromInt(150)}
	require.NoError(t, procedureRepo.Create(db, env.procedure))

	return env
}

func TestStoreScope_AppliesTimeout(t *testing.T) {
	db := newTestDB(t)

	scoped, ctx, cancel := storeScope(context.Background(), db, 50*time.Millisecond)
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(50*time.Millisecond), deadline, 50*time.Millisecond)
	assert.Equal(t, ctx, scoped.Statement.Context)
}

func TestStoreScope_DefaultTimeout(t *testing.T) {
	db := newTestDB(t)

	_, ctx, cancel := storeScope(context.Background(), db, 0)
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(DefaultStoreTimeout), deadline, time.Second)
}

func TestStorageError(t *testing.T) {
	conflict := apperror.Conflict("slot already booked")
	assert.Same(t, conflict, storageError(conflict))

	err := storageError(errors.New("connection reset"))
	assert.True(t, apperror.IsStorage(err))
	assert.True(t, err.(*apperror.Error).Retryable())
}

func TestParseID(t *testing.T) {
	id := uuid.New()

	parsed, err := parseID("patient_id", id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = parseID("patient_id", "not-a-uuid")
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	assert.Equal(t, "patient_id must be a valid UUID", err.(*apperror.Error).Fields["patient_id"])
}
