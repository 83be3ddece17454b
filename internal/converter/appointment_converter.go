package converter

import (
	"clinic-scheduling/internal/delivery/dto"
	"clinic-scheduling/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:             appointment.ID,
		PractitionerID: appointment.PractitionerID,
		PatientID:      appointment.PatientID,
		ProcedureID:    appointment.ProcedureID,
		ScheduledAt:    appointment.ScheduledAt.UTC(),
		Status:         string(appointment.Status),
		Observations:   appointment.Observations,
		CreatedAt:      appointment.CreatedAt,
		UpdatedAt:      appointment.UpdatedAt,
	}

	if appointment.PaymentMethod != nil {
		method := string(*appointment.PaymentMethod)
		response.PaymentMethod = &method
	}

	// Display joins, present when the repository preloaded them
	if appointment.Patient != nil {
		response.Patient = &dto.AppointmentParty{
			ID:    appointment.Patient.ID,
			Name:  appointment.Patient.Name,
			Phone: appointment.Patient.Phone,
		}
	}
	if appointment.Procedure != nil {
		response.Procedure = &dto.AppointmentCharge{
			ID:    appointment.Procedure.ID,
			Name:  appointment.Procedure.Name,
			Value: appointment.Procedure.Value,
		}
	}

	return response
}

// AppointmentsToResponses converts a slice of Appointment entities to slice of AppointmentResponse DTOs
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, 0, len(appointments))
	for i := range appointments {
		responses = append(responses, *AppointmentToResponse(&appointments[i]))
	}
	return responses
}
