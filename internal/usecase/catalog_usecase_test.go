package usecase

import (
	"context"
	"strconv"
	"testing"

	"clinic-scheduling/internal/delivery/dto"
	"clinic-scheduling/internal/domain/entity"
	"clinic-scheduling/internal/repository"
	"clinic-scheduling/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatientUsecase_CreateAndList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	email := "joao@example.com"

	created, err := env.patients.Create(ctx, env.practitioner.ID, &dto.CreatePatientRequest{
		Name:  "  Joao Pereira ",
		Phone: "11912345678",
		Email: &email,
	})
	require.NoError(t, err)
	assert.Equal(t, "Joao Pereira", created.Name)

	found, err := env.patients.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "joao@example.com", *found.Email)

	list, err := env.patients.List(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, list.Total)
	assert.Equal(t, "Joao Pereira", list.Patients[0].Name)
	assert.Equal(t, "Maria Silva", list.Patients[1].Name)

	trail, err := repository.NewAuditLogRepository().FindByEntity(env.db, entity.AuditEntityPatient, created.ID.String())
	require.NoError(t, err)
	require.Len(t, trail, 1)
	assert.Equal(t, entity.AuditActionPatientCreate, trail[0].Action)
}

func TestPatientUsecase_Create_Invalid(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.patients.Create(context.Background(), env.practitioner.ID, &dto.CreatePatientRequest{Name: "Jo"})
	require.Error(t, err)

	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Fields, "name")
	assert.Contains(t, appErr.Fields, "phone")
}

func TestPatientUsecase_Create_TrimsBeforeValidating(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.patients.Create(context.Background(), env.practitioner.ID, &dto.CreatePatientRequest{
		Name:  "  ab  ",
		Phone: " 123456789 ",
	})
	require.Error(t, err)

	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
	assert.Contains(t, appErr.Fields, "name")
	assert.Contains(t, appErr.Fields, "phone")

	list, err := env.patients.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
}

func TestPatientUsecase_Create_BlankOptionalFieldsStoredAsNull(t *testing.T) {
	for _, email := range []string{"", "   "} {
		t.Run("email "+strconv.Quote(email), func(t *testing.T) {
			env := newTestEnv(t)
			ctx := context.Background()
			blank := email
			notes := " "

			created, err := env.patients.Create(ctx, env.practitioner.ID, &dto.CreatePatientRequest{
				Name:         "Joao Pereira",
				Phone:        "11912345678",
				Email:        &blank,
				Observations: &notes,
			})
			require.NoError(t, err)
			assert.Nil(t, created.Email)
			assert.Nil(t, created.Observations)

			found, err := env.patients.GetByID(ctx, created.ID)
			require.NoError(t, err)
			assert.Nil(t, found.Email)
			assert.Nil(t, found.Observations)
		})
	}
}

func TestPatientUsecase_GetByID_Missing(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.patients.GetByID(context.Background(), uuid.New())
	assert.True(t, apperror.IsNotFound(err))
}

func TestProcedureUsecase_Create(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	value := decimal.RequireFromString("89.999")

	created, err := env.procedures.Create(ctx, env.practitioner.ID, &dto.CreateProcedureRequest{
		Name:  "Whitening",
		Value: &value,
	})
	require.NoError(t, err)
	assert.True(t, created.Value.Equal(decimal.RequireFromString("90.00")))

	list, err := env.procedures.List(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, list.Total)
	assert.Equal(t, "Consultation", list.Procedures[0].Name)

	_, err = env.procedures.GetByID(ctx, uuid.New())
	assert.True(t, apperror.IsNotFound(err))
}

func TestProcedureUsecase_Create_RejectsNegativeValue(t *testing.T) {
	env := newTestEnv(t)
	value := decimal.NewFromInt(-1)

	_, err := env.procedures.Create(context.Background(), env.practitioner.ID, &dto.CreateProcedureRequest{
		Name:  "Refund",
		Value: &value,
	})
	require.Error(t, err)

	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "value must not be negative", appErr.Fields["value"])
}

func TestProcedureUsecase_Create_MissingValue(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.procedures.Create(context.Background(), env.practitioner.ID, &dto.CreateProcedureRequest{Name: "Checkup"})
	require.Error(t, err)

	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Fields, "value")
}

func TestProcedureUsecase_Create_TrimsBeforeValidating(t *testing.T) {
	env := newTestEnv(t)
	value := decimal.NewFromInt(10)
	description := "   "

	_, err := env.procedures.Create(context.Background(), env.practitioner.ID, &dto.CreateProcedureRequest{
		Name:        "  x  ",
		Description: &description,
		Value:       &value,
	})
	require.Error(t, err)

	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Fields, "name")

	created, err := env.procedures.Create(context.Background(), env.practitioner.ID, &dto.CreateProcedureRequest{
		Name:        " Cleaning ",
		Description: &description,
		Value:       &value,
	})
	require.NoError(t, err)
	assert.Equal(t, "Cleaning", created.Name)
	assert.Nil(t, created.Description)
}
