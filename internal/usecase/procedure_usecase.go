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

type ProcedureUsecase interface {
	Create(ctx context.Context, actorID uuid.UUID, req *dto.CreateProcedureRequest) (*dto.ProcedureResponse, error)
	GetByID(ctx context.Context, procedureID uuid.UUID) (*dto.ProcedureResponse, error)
	List(ctx context.Context) (*dto.ProcedureListResponse, error)
}

type procedureUsecase struct {
	db            *gorm.DB
	log           *logrus.Logger
	validator     *validator.CustomValidator
	procedureRepo repository.ProcedureRepository
	auditService  service.AuditService
	storeTimeout  time.Duration
}

func NewProcedureUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validator *validator.CustomValidator,
	procedureRepo repository.ProcedureRepository,
	auditService service.AuditService,
	storeTimeout time.Duration,
) ProcedureUsecase {
	return &procedureUsecase{
		db:            db,
		log:           log,
		validator:     validator,
		procedureRepo: procedureRepo,
		auditService:  auditService,
		storeTimeout:  storeTimeout,
	}
}

// Create adds a procedure to the catalogue. Value must not be negative.
func (u *procedureUsecase) Create(ctx context.Context, actorID uuid.UUID, req *dto.CreateProcedureRequest) (*dto.ProcedureResponse, error) {
	normalized := dto.CreateProcedureRequest{
		Name:        strings.TrimSpace(req.Name),
		Description: optionalText(req.Description),
		Value:       req.Value,
	}
	if err := u.validator.ValidateRequest(&normalized); err != nil {
		return nil, err
	}
	if normalized.Value.IsNegative() {
		return nil, apperror.Validation("validation failed", map[string]string{
			"value": "value must not be negative",
		})
	}

	db, ctx, cancel := storeScope(ctx, u.db, u.storeTimeout)
	defer cancel()

	tx := db.Begin()
	if tx.Error != nil {
		u.log.Warnf("Failed to begin transaction: %+v", tx.Error)
		return nil, storageError(tx.Error)
	}
	defer tx.Rollback()

	procedure := &entity.Procedure{
		Name:        normalized.Name,
		Description: normalized.Description,
		Value:       normalized.Value.Round(2),
	}

	if err := u.procedureRepo.Create(tx, procedure); err != nil {
		u.log.Warnf("Failed to create procedure: %+v", err)
		return nil, storageError(err)
	}

	resp := converter.ProcedureToResponse(procedure)
	if err := u.auditService.LogCreate(ctx, tx, &actorID, entity.AuditActionProcedureCreate,
		entity.AuditEntityProcedure, procedure.ID.String(), resp); err != nil {
		return nil, storageError(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, storageError(err)
	}

	return resp, nil
}

func (u *procedureUsecase) GetByID(ctx context.Context, procedureID uuid.UUID) (*dto.ProcedureResponse, error) {
	db, _, cancel := storeScope(ctx, u.db, u.storeTimeout)
	defer cancel()

	procedure, err := u.procedureRepo.FindByID(db, procedureID)
	if err != nil {
		u.log.Warnf("Failed to find procedure %s: %+v", procedureID, err)
		return nil, storageError(err)
	}
	if procedure == nil {
		return nil, apperror.NotFound("procedure")
	}

	return converter.ProcedureToResponse(procedure), nil
}

func (u *procedureUsecase) List(ctx context.Context) (*dto.ProcedureListResponse, error) {
	db, _, cancel := storeScope(ctx, u.db, u.storeTimeout)
	defer cancel()

	procedures, err := u.procedureRepo.FindAll(db)
	if err != nil {
		u.log.Warnf("Failed to find all procedures: %+v", err)
		return nil, storageError(err)
	}

	return &dto.ProcedureListResponse{
		Procedures: converter.ProceduresToResponses(procedures),
		Total:      len(procedures),
	}, nil
}
