package handler

import (
	"net/http"

	"clinic-scheduling/internal/delivery/dto"
	"clinic-scheduling/internal/domain/entity"
	"clinic-scheduling/internal/usecase"
	"clinic-scheduling/pkg/response"
	"clinic-scheduling/pkg/validator"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

// CreateAppointment books a slot in the caller's schedule.
func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	practitionerID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req dto.CreateAppointmentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	appointment, err := h.appointmentUsecase.Create(r.Context(), practitionerID, &req)
	if err != nil {
		response.AppError(w, err, "Failed to create appointment")
		return
	}

	response.Success(w, http.StatusCreated, "Appointment created successfully", appointment)
}

func (h *AppointmentHandler) GetMyAppointments(w http.ResponseWriter, r *http.Request) {
	practitionerID, ok := callerID(w, r)
	if !ok {
		return
	}

	appointments, err := h.appointmentUsecase.ListByPractitioner(r.Context(), practitionerID)
	if err != nil {
		response.AppError(w, err, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	appointmentID, ok := pathID(w, r, "appointment")
	if !ok {
		return
	}

	appointment, err := h.appointmentUsecase.GetByID(r.Context(), appointmentID)
	if err != nil {
		response.AppError(w, err, "Failed to get appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment retrieved successfully", appointment)
}

func (h *AppointmentHandler) TransitionAppointment(w http.ResponseWriter, r *http.Request) {
	actorID, ok := callerID(w, r)
	if !ok {
		return
	}
	appointmentID, ok := pathID(w, r, "appointment")
	if !ok {
		return
	}

	var req dto.TransitionAppointmentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.validator.ValidateRequest(&req); err != nil {
		response.AppError(w, err, "Failed to update appointment status")
		return
	}

	appointment, err := h.appointmentUsecase.Transition(r.Context(), actorID, appointmentID, entity.AppointmentStatus(req.Status))
	if err != nil {
		response.AppError(w, err, "Failed to update appointment status")
		return
	}

	response.Success(w, http.StatusOK, "Appointment status updated successfully", appointment)
}

func (h *AppointmentHandler) GetAppointmentHistory(w http.ResponseWriter, r *http.Request) {
	appointmentID, ok := pathID(w, r, "appointment")
	if !ok {
		return
	}

	history, err := h.appointmentUsecase.History(r.Context(), appointmentID)
	if err != nil {
		response.AppError(w, err, "Failed to get appointment history")
		return
	}

	response.Success(w, http.StatusOK, "Appointment history retrieved successfully", history)
}
