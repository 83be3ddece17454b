package repository

import (
	"fmt"
	"testing"
	"time"

	"clinic-scheduling/internal/domain/entity"
	"clinic-scheduling/internal/infrastructure/database"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
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

type fixtures struct {
	practitioner *entity.User
	patient      *entity.Patient
	procedure    *entity.Procedure
}

func seedFixtures(t *testing.T, db *gorm.DB) fixtures {
	t.Helper()

	practitioner := &entity.User{
		Email:    uuid.NewString() + "@clinic.test",
		Password: "hash",
		FullName: "Dr. Ana Souza",
		Role:     entity.RolePractitioner,
		Timezone: "UTC",
	}
	require.NoError(t, NewUserRepository().Create(db, practitioner))

	patient := &entity.Patient{Name: "Maria Silva", Phone: "11987654321"}
	require.NoError(t, NewPatientRepository().Create(db, patient))

	procedure := &entity.Procedure{Name: "Consultation", Value: decimal.NewFromInt(150)}
	require.NoError(t, NewProcedureRepository().Create(db, procedure))

	return fixtures{practitioner: practitioner, patient: patient, procedure: procedure}
}

func (f fixtures) appointment(scheduledAt time.Time) *entity.Appointment {
	return &entity.Appointment{
		PractitionerID: f.practitioner.ID,
		PatientID:      f.patient.ID,
		ProcedureID:    f.procedure.ID,
		ScheduledAt:    scheduledAt,
		Status:         entity.AppointmentStatusScheduled,
	}
}

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return ts
}
