package usecase

import (
	"context"
	"errors"
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

const (
	msgSlotAlreadyBooked = "slot already booked"
	msgMissingReferences = "referenced records do not exist"
)

type AppointmentUsecase interface {
	Create(ctx context.Context, practitionerID uuid.UUID, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	Transition(ctx context.Context, actorID, appointmentID uuid.UUID, status entity.AppointmentStatus) (*dto.AppointmentResponse, error)
	GetByID(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	ListByPractitioner(ctx context.Context, practitionerID uuid.UUID) (*dto.AppointmentListResponse, error)
	History(ctx context.Context, appointmentID uuid.UUID) (*dto.AuditLogListResponse, error)
}

type appointmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	validator       *validator.CustomValidator
	appointmentRepo repository.AppointmentRepository
	patientRepo     repository.PatientRepository
	procedureRepo   repository.ProcedureRepository
	auditLogRepo    repository.AuditLogRepository
	auditService    service.AuditService
	storeTimeout    time.Duration
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validator *validator.CustomValidator,
	appointmentRepo repository.AppointmentRepository,
	patientRepo repository.PatientRepository,
	procedureRepo repository.ProcedureRepository,
	auditLogRepo repository.AuditLogRepository,
	auditService service.AuditService,
	storeTimeout time.Duration,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:              db,
		log:             log,
		validator:       validator,
		appointmentRepo: appointmentRepo,
		patientRepo:     patientRepo,
		procedureRepo:   procedureRepo,
		auditLogRepo:    auditLogRepo,
		auditService:    auditService,
		storeTimeout:    storeTimeout,
	}
}

// Create books a new appointment in the practitioner's schedule.
//
// Flow:
// 1. Validate the request shape (one message per invalid field)
// 2. Resolve patient and procedure; missing ones are validation errors
// 3. Insert with status Scheduled; the active-slot unique index rejects double booking
// 4. Write the audit row in the same transaction
func (u *appointmentUsecase) Create(ctx context.Context, practitionerID uuid.UUID, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	if err := u.validator.ValidateRequest(req); err != nil {
		return nil, err
	}
	candidate, err := buildAppointment(practitionerID, req)
	if err != nil {
		return nil, err
	}

	db, ctx, cancel := storeScope(ctx, u.db, u.storeTimeout)
	defer cancel()

	// Step 2: referenced records must exist
	patient, procedure, missing, err := u.resolveReferences(db, candidate)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, apperror.Validation(msgMissingReferences, missing)
	}

	// Step 3: atomic insert
	tx := db.Begin()
	if tx.Error != nil {
		u.log.Warnf("Failed to begin transaction: %+v", tx.Error)
		return nil, storageError(tx.Error)
	}
	defer tx.Rollback()

	if err := u.appointmentRepo.Create(tx, candidate); err != nil {
		switch {
		case errors.Is(err, repository.ErrSlotTaken):
			return nil, apperror.Conflict(msgSlotAlreadyBooked)
		case errors.Is(err, repository.ErrReferenceNotFound):
			tx.Rollback()
			return nil, u.unresolvedReference(db, candidate)
		}
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, storageError(err)
	}

	// Step 4: audit
	if err := u.auditService.LogCreate(ctx, tx, &practitionerID, entity.AuditActionAppointmentCreate,
		entity.AuditEntityAppointment, candidate.ID.String(), converter.AppointmentToResponse(candidate)); err != nil {
		return nil, storageError(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, storageError(err)
	}

	candidate.Patient = patient
	candidate.Procedure = procedure

	u.log.Infof("Appointment created: id=%s, practitioner=%s, at=%s", candidate.ID, practitionerID, candidate.ScheduledAt.Format(time.RFC3339))
	return converter.AppointmentToResponse(candidate), nil
}

// resolveReferences loads the patient and procedure of candidate and names
// each one that does not exist.
func (u *appointmentUsecase) resolveReferences(db *gorm.DB, candidate *entity.Appointment) (*entity.Patient, *entity.Procedure, map[string]string, error) {
	patient, err := u.patientRepo.FindByID(db, candidate.PatientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", candidate.PatientID, err)
		return nil, nil, nil, storageError(err)
	}
	procedure, err := u.procedureRepo.FindByID(db, candidate.ProcedureID)
	if err != nil {
		u.log.Warnf("Failed to find procedure %s: %+v", candidate.ProcedureID, err)
		return nil, nil, nil, storageError(err)
	}

	missing := make(map[string]string)
	if patient == nil {
		missing["patient_id"] = "patient does not exist"
	}
	if procedure == nil {
		missing["procedure_id"] = "procedure does not exist"
	}
	return patient, procedure, missing, nil
}

// unresolvedReference explains a foreign key violation on insert. Patient and
// procedure were checked before the insert, so when both still resolve the
// practitioner is the missing record.
func (u *appointmentUsecase) unresolvedReference(db *gorm.DB, candidate *entity.Appointment) error {
	_, _, missing, err := u.resolveReferences(db, candidate)
	if err != nil {
		return err
	}
	if len(missing) == 0 {
		missing["practitioner_id"] = "practitioner does not exist"
	}
	return apperror.Validation(msgMissingReferences, missing)
}

func buildAppointment(practitionerID uuid.UUID, req *dto.CreateAppointmentRequest) (*entity.Appointment, error) {
	patientID, err := parseID("patient_id", req.PatientID)
	if err != nil {
		return nil, err
	}
	procedureID, err := parseID("procedure_id", req.ProcedureID)
	if err != nil {
		return nil, err
	}
	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		return nil, apperror.Validation("validation failed", map[string]string{
			"scheduled_at": "scheduled_at must be a valid RFC 3339 timestamp",
		})
	}

	appointment := &entity.Appointment{
		PractitionerID: practitionerID,
		PatientID:      patientID,
		ProcedureID:    procedureID,
		ScheduledAt:    entity.SlotInstant(scheduledAt),
		Status:         entity.AppointmentStatusScheduled,
		Observations:   optionalText(req.Observations),
	}
	if req.PaymentMethod != nil {
		method := entity.PaymentMethod(*req.PaymentMethod)
		appointment.PaymentMethod = &method
	}
	return appointment, nil
}

// Transition moves an appointment along its status machine.
//
// The update is a compare-and-set on the status read in step 1. When another
// caller changed the status in between, nothing is written and the caller gets
// an invalid transition error computed against the newer status.
func (u *appointmentUsecase) Transition(ctx context.Context, actorID, appointmentID uuid.UUID, status entity.AppointmentStatus) (*dto.AppointmentResponse, error) {
	if !status.IsValid() {
		return nil, apperror.Validation("validation failed", map[string]string{
			"status": "status must be one of: Scheduled, Confirmed, Completed, Cancelled",
		})
	}

	db, ctx, cancel := storeScope(ctx, u.db, u.storeTimeout)
	defer cancel()

	// Step 1: current state
	current, err := u.appointmentRepo.FindByID(db, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, storageError(err)
	}
	if current == nil {
		return nil, apperror.NotFound("appointment")
	}
	if !current.Status.CanTransitionTo(status) {
		return nil, apperror.InvalidTransition(string(current.Status), string(status))
	}

	// Step 2: compare-and-set
	tx := db.Begin()
	if tx.Error != nil {
		u.log.Warnf("Failed to begin transaction: %+v", tx.Error)
		return nil, storageError(tx.Error)
	}
	defer tx.Rollback()

	affected, err := u.appointmentRepo.UpdateStatus(tx, appointmentID, current.Status, status)
	if err != nil {
		u.log.Warnf("Failed to update appointment %s status: %+v", appointmentID, err)
		return nil, storageError(err)
	}
	if affected == 0 {
		tx.Rollback()
		return nil, u.staleTransition(db, appointmentID, status)
	}

	if err := u.auditService.LogUpdate(ctx, tx, &actorID, entity.AuditActionAppointmentTransition,
		entity.AuditEntityAppointment, appointmentID.String(), string(current.Status), string(status)); err != nil {
		return nil, storageError(err)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, storageError(err)
	}

	u.log.Infof("Appointment transitioned: id=%s, %s -> %s", appointmentID, current.Status, status)

	updated, err := u.appointmentRepo.FindByID(db, appointmentID)
	if err != nil || updated == nil {
		// The transition is committed; answer from what we already know.
		u.log.Warnf("Failed to reload appointment %s: %+v", appointmentID, err)
		current.Status = status
		return converter.AppointmentToResponse(current), nil
	}
	return converter.AppointmentToResponse(updated), nil
}

// staleTransition explains a lost compare-and-set.
func (u *appointmentUsecase) staleTransition(db *gorm.DB, appointmentID uuid.UUID, status entity.AppointmentStatus) error {
	latest, err := u.appointmentRepo.FindByID(db, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to reload appointment %s: %+v", appointmentID, err)
		return storageError(err)
	}
	if latest == nil {
		return apperror.NotFound("appointment")
	}
	return apperror.InvalidTransition(string(latest.Status), string(status))
}

func (u *appointmentUsecase) GetByID(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	db, _, cancel := storeScope(ctx, u.db, u.storeTimeout)
	defer cancel()

	appointment, err := u.appointmentRepo.FindByID(db, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, storageError(err)
	}
	if appointment == nil {
		return nil, apperror.NotFound("appointment")
	}

	return converter.AppointmentToResponse(appointment), nil
}

// ListByPractitioner returns the practitioner's appointments, newest first.
func (u *appointmentUsecase) ListByPractitioner(ctx context.Context, practitionerID uuid.UUID) (*dto.AppointmentListResponse, error) {
	db, _, cancel := storeScope(ctx, u.db, u.storeTimeout)
	defer cancel()

	appointments, err := u.appointmentRepo.FindByPractitioner(db, practitionerID)
	if err != nil {
		u.log.Warnf("Failed to list appointments for practitioner %s: %+v", practitionerID, err)
		return nil, storageError(err)
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// History returns the audit trail of one appointment, oldest first.
func (u *appointmentUsecase) History(ctx context.Context, appointmentID uuid.UUID) (*dto.AuditLogListResponse, error) {
	db, _, cancel := storeScope(ctx, u.db, u.storeTimeout)
	defer cancel()

	appointment, err := u.appointmentRepo.FindByID(db, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, storageError(err)
	}
	if appointment == nil {
		return nil, apperror.NotFound("appointment")
	}

	logs, err := u.auditLogRepo.FindByEntity(db, entity.AuditEntityAppointment, appointmentID.String())
	if err != nil {
		u.log.Warnf("Failed to find history of appointment %s: %+v", appointmentID, err)
		return nil, storageError(err)
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(logs),
		Total: len(logs),
	}, nil
}
