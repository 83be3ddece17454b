package bootstrap

import (
	"fmt"
	"time"

	"clinic-scheduling/config"
	"clinic-scheduling/internal/repository"
	"clinic-scheduling/internal/service"
	"clinic-scheduling/internal/usecase"
	"clinic-scheduling/pkg/jwt"
	"clinic-scheduling/pkg/validator"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Container holds the wired use cases shared by the server and the seeder.
type Container struct {
	JWT       *jwt.JWTService
	Validator *validator.CustomValidator

	Auth        usecase.AuthUsecase
	Patient     usecase.PatientUsecase
	Procedure   usecase.ProcedureUsecase
	Appointment usecase.AppointmentUsecase
	Calendar    usecase.CalendarUsecase
	AuditLog    usecase.AuditLogUsecase
}

// NewContainer wires repositories, services and use cases. tokenStore may be
// nil for callers that never issue or check tokens.
func NewContainer(cfg *config.Config, db *gorm.DB, tokenStore service.TokenStore, log *logrus.Logger) (*Container, error) {
	defaultLocation, err := time.LoadLocation(cfg.Scheduling.DefaultTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid default timezone: %w", err)
	}

	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()
	storeTimeout := cfg.Scheduling.StoreTimeout

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	patientRepo := repository.NewPatientRepository()
	procedureRepo := repository.NewProcedureRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)

	return &Container{
		JWT:       jwtService,
		Validator: customValidator,

		Auth:        usecase.NewAuthUsecase(db, log, userRepo, jwtService, tokenStore, auditService, cfg.Scheduling.DefaultTimezone),
		Patient:     usecase.NewPatientUsecase(db, log, customValidator, patientRepo, auditService, storeTimeout),
		Procedure:   usecase.NewProcedureUsecase(db, log, customValidator, procedureRepo, auditService, storeTimeout),
		Appointment: usecase.NewAppointmentUsecase(db, log, customValidator, appointmentRepo, patientRepo, procedureRepo, auditLogRepo, auditService, storeTimeout),
		Calendar:    usecase.NewCalendarUsecase(db, log, appointmentRepo, userRepo, defaultLocation, storeTimeout),
		AuditLog:    usecase.NewAuditLogUsecase(db, log, auditLogRepo),
	}, nil
}
