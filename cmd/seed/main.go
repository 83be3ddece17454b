package main

import (
	"context"
	"flag"
	"fmt"
	"time"
	_ "time/tzdata"

	"clinic-scheduling/cmd/bootstrap"
	"clinic-scheduling/config"
	"clinic-scheduling/internal/delivery/dto"
	"clinic-scheduling/internal/domain/entity"
	"clinic-scheduling/internal/infrastructure/database"
	"clinic-scheduling/pkg/apperror"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const seedPassword = "changeme123"

var procedureNames = []string{
	"Consultation",
	"Follow-up",
	"Prophylaxis",
	"Tooth extraction",
	"Root canal",
	"Whitening",
	"X-ray",
	"Orthodontic adjustment",
}

var paymentMethods = []string{
	string(entity.PaymentMethodCash),
	string(entity.PaymentMethodCard),
	string(entity.PaymentMethodPIX),
}

func main() {
	practitioners := flag.Int("practitioners", 3, "practitioner accounts to create")
	patients := flag.Int("patients", 50, "patients to create")
	appointments := flag.Int("appointments", 200, "appointments to book across practitioners")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	flag.Parse()

	bootstrap.SetupLogger()
	log := logrus.StandardLogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewConnection(*cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// No token store: the seeder never issues tokens
	c, err := bootstrap.NewContainer(cfg, db, nil, log)
	if err != nil {
		log.Fatalf("Failed to initialize use cases: %v", err)
	}

	gofakeit.Seed(*seed)
	ctx := context.Background()

	s := &seeder{c: c, log: log}
	if err := s.run(ctx, *practitioners, *patients, *appointments); err != nil {
		log.Fatalf("Seed failed: %v", err)
	}
	log.Info("Seed complete")
}

type seeder struct {
	c   *bootstrap.Container
	log *logrus.Logger
}

func (s *seeder) run(ctx context.Context, practitionerCount, patientCount, appointmentCount int) error {
	admin, err := s.c.Auth.CreatePractitioner(ctx, uuid.Nil, &dto.CreatePractitionerRequest{
		Email:    fmt.Sprintf("admin+%d@clinic.test", gofakeit.Number(1000, 9999)),
		Password: seedPassword,
		FullName: "Clinic Admin",
		Role:     string(entity.RoleAdmin),
	})
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	s.log.Infof("Admin: %s / %s", admin.Email, seedPassword)

	practitionerIDs := make([]uuid.UUID, 0, practitionerCount)
	for i := 0; i < practitionerCount; i++ {
		user, err := s.c.Auth.CreatePractitioner(ctx, admin.ID, &dto.CreatePractitionerRequest{
			Email:    gofakeit.Email(),
			Password: seedPassword,
			FullName: "Dr. " + gofakeit.Name(),
		})
		if err != nil {
			return fmt.Errorf("create practitioner: %w", err)
		}
		practitionerIDs = append(practitionerIDs, user.ID)
		s.log.Infof("Practitioner: %s / %s", user.Email, seedPassword)
	}

	patientIDs := make([]string, 0, patientCount)
	for i := 0; i < patientCount; i++ {
		email := gofakeit.Email()
		patient, err := s.c.Patient.Create(ctx, admin.ID, &dto.CreatePatientRequest{
			Name:  gofakeit.Name(),
			Phone: gofakeit.Phone(),
			Email: &email,
		})
		if err != nil {
			return fmt.Errorf("create patient: %w", err)
		}
		patientIDs = append(patientIDs, patient.ID.String())
	}
	s.log.Infof("Patients seeded: %d", len(patientIDs))

	procedureIDs := make([]string, 0, len(procedureNames))
	for _, name := range procedureNames {
		value := decimal.NewFromFloat(gofakeit.Price(80, 900)).Round(2)
		procedure, err := s.c.Procedure.Create(ctx, admin.ID, &dto.CreateProcedureRequest{
			Name:  name,
			Value: &value,
		})
		if err != nil {
			return fmt.Errorf("create procedure: %w", err)
		}
		procedureIDs = append(procedureIDs, procedure.ID.String())
	}
	s.log.Infof("Procedures seeded: %d", len(procedureIDs))

	if len(practitionerIDs) == 0 || len(patientIDs) == 0 {
		return nil
	}

	booked, taken := 0, 0
	today := time.Now().UTC().Truncate(24 * time.Hour)
	for i := 0; i < appointmentCount; i++ {
		// Hourly slots between 08:00 and 17:00 UTC over the next 30 days
		slot := today.AddDate(0, 0, gofakeit.Number(0, 29)).Add(time.Duration(gofakeit.Number(8, 17)) * time.Hour)
		payment := paymentMethods[gofakeit.Number(0, len(paymentMethods)-1)]

		_, err := s.c.Appointment.Create(ctx, practitionerIDs[gofakeit.Number(0, len(practitionerIDs)-1)], &dto.CreateAppointmentRequest{
			PatientID:     patientIDs[gofakeit.Number(0, len(patientIDs)-1)],
			ProcedureID:   procedureIDs[gofakeit.Number(0, len(procedureIDs)-1)],
			ScheduledAt:   slot.Format(time.RFC3339),
			PaymentMethod: &payment,
		})
		switch {
		case err == nil:
			booked++
		case apperror.IsConflict(err):
			taken++
		default:
			return fmt.Errorf("create appointment: %w", err)
		}
	}
	s.log.Infof("Appointments seeded: %d booked, %d slots already taken", booked, taken)

	return nil
}
