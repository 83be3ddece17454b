package usecase

import (
	"context"
	"strings"
	"time"

	"clinic-scheduling/internal/converter"
	"clinic-scheduling/internal/delivery/dto"
	"clinic-scheduling/internal/domain/entity"
	"clinic-scheduling/internal/domain/repository"
	"clinic-scheduling/internal/service"
	"clinic-scheduling/pkg/apperror"
	"clinic-scheduling/pkg/validator"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type PatientUsecase interface {
	Create(ctx context.Context, actorID uuid.UUID, req *dto.CreatePatientRequest) (*dto.PatientResponse, error)
	GetByID(ctx context.Context, patientID uuid.UUID) (*dto.PatientResponse, error)
	List(ctx context.Context) (*dto.PatientListResponse, error)
}

type patientUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	validator    *validator.CustomValidator
	patientRepo  repository.PatientRepository
	auditService service.AuditService
	storeTimeout time.Duration
}

func NewPatientUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validator *validator.CustomValidator,
	patientRepo repository.PatientRepository,
	auditService service.AuditService,
	storeTimeout time.Duration,
) PatientUsecase {
	return &patientUsecase{
		db:           db,
		log:          log,
		validator:    validator,
		patientRepo:  patientRepo,
		auditService: auditService,
		storeTimeout: storeTimeout,
	}
}

// Create registers a patient at intake.
func (u *patientUsecase) Create(ctx context.Context, actorID uuid.UUID, req *dto.CreatePatientRequest) (*dto.PatientResponse, error) {
	// Length rules apply to the values that will be stored
	normalized := dto.CreatePatientRequest{
		Name:         strings.TrimSpace(req.Name),
		Phone:        strings.TrimSpace(req.Phone),
		Email:        optionalText(req.Email),
		Observations: optionalText(req.Observations),
	}
	if err := u.validator.ValidateRequest(&normalized); err != nil {
		return nil, err
	}

	db, ctx, cancel := storeScope(ctx, u.db, u.storeTimeout)
	defer cancel()

	tx := db.Begin()
	if tx.Error != nil {
		u.log.Warnf("Failed to begin transaction: %+v", tx.Error)
		return nil, storageError(tx.Error)
	}
	defer tx.Rollback()

	patient := &entity.Patient{
		Name:         normalized.Name,
		Phone:        normalized.Phone,
		Email:        normalized.Email,
		Observations: normalized.Observations,
	}

	if err := u.patientRepo.Create(tx, patient); err != nil {
		u.log.Warnf("Failed to create patient: %+v", err)
		return nil, storageError(err)
	}

	resp := converter.PatientToResponse(patient)
	if err := u.auditService.LogCreate(ctx, tx, &actorID, entity.AuditActionPatientCreate,
		entity.AuditEntityPatient, patient.ID.String(), resp); err != nil {
		return nil, storageError(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, storageError(err)
	}

	return resp, nil
}

func (u *patientUsecase) GetByID(ctx context.Context, patientID uuid.UUID) (*dto.PatientResponse, error) {
	db, _, cancel := storeScope(ctx, u.db, u.storeTimeout)
	defer cancel()

	patient, err := u.patientRepo.FindByID(db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", patientID, err)
		return nil, storageError(err)
	}
	if patient == nil {
		return nil, apperror.NotFound("patient")
	}

	return converter.PatientToResponse(patient), nil
}

func (u *patientUsecase) List(ctx context.Context) (*dto.PatientListResponse, error) {
	db, _, cancel := storeScope(ctx, u.db, u.storeTimeout)
	defer cancel()

	patients, err := u.patientRepo.FindAll(db)
	if err != nil {
		u.log.Warnf("Failed to find all patients: %+v", err)
		return nil, storageError(err)
	}

	return &dto.PatientListResponse{
		Patients: converter.PatientsToResponses(patients),
		Total:    len(patients),
	}, nil
}
