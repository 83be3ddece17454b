package handler

import (
	"net/http"

	"clinic-scheduling/internal/delivery/dto"
	"clinic-scheduling/internal/usecase"
	"clinic-scheduling/pkg/response"
)

type ProcedureHandler struct {
	procedureUsecase usecase.ProcedureUsecase
}

func NewProcedureHandler(procedureUsecase usecase.ProcedureUsecase) *ProcedureHandler {
	return &ProcedureHandler{
		procedureUsecase: procedureUsecase,
	}
}

func (h *ProcedureHandler) CreateProcedure(w http.ResponseWriter, r *http.Request) {
	actorID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req dto.CreateProcedureRequest
	if !decodeBody(w, r, &req) {
		return
	}

	procedure, err := h.procedureUsecase.Create(r.Context(), actorID, &req)
	if err != nil {
		response.AppError(w, err, "Failed to create procedure")
		return
	}

	response.Success(w, http.StatusCreated, "Procedure created successfully", procedure)
}

func (h *ProcedureHandler) GetProcedure(w http.ResponseWriter, r *http.Request) {
	procedureID, ok := pathID(w, r, "procedure")
	if !ok {
		return
	}

	procedure, err := h.procedureUsecase.GetByID(r.Context(), procedureID)
	if err != nil {
		response.AppError(w, err, "Failed to get procedure")
		return
	}

	response.Success(w, http.StatusOK, "Procedure retrieved successfully", procedure)
}

func (h *ProcedureHandler) GetAllProcedures(w http.ResponseWriter, r *http.Request) {
	procedures, err := h.procedureUsecase.List(r.Context())
	if err != nil {
		response.AppError(w, err, "Failed to get procedures")
		return
	}

	response.Success(w, http.StatusOK, "Procedures retrieved successfully", procedures)
}
