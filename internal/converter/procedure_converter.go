package converter

import (
	"clinic-scheduling/internal/delivery/dto"
	"clinic-scheduling/internal/domain/entity"
)

// ProcedureToResponse converts a Procedure entity to ProcedureResponse DTO
func ProcedureToResponse(procedure *entity.Procedure) *dto.ProcedureResponse {
	if procedure == nil {
		return nil
	}

	return &dto.ProcedureResponse{
		ID:          procedure.ID,
		Name:        procedure.Name,
		Description: procedure.Description,
		Value:       procedure.Value,
		CreatedAt:   procedure.CreatedAt,
		UpdatedAt:   procedure.UpdatedAt,
	}
}

func ProceduresToResponses(procedures []entity.Procedure) []dto.ProcedureResponse {
	responses := make([]dto.ProcedureResponse, len(procedures))
	for i := range procedures {
		responses[i] = *ProcedureToResponse(&procedures[i])
	}
	return responses
}
