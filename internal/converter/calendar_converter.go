package converter

import (
	"clinic-scheduling/internal/delivery/dto"
	"clinic-scheduling/internal/domain/entity"
)

// CalendarToResponse materializes the day buckets of a calendar, days ascending.
func CalendarToResponse(cal *entity.Calendar) *dto.CalendarResponse {
	if cal == nil {
		return nil
	}

	response := &dto.CalendarResponse{
		Timezone:     cal.Location.String(),
		Start:        cal.Range.From.In(cal.Location),
		End:          cal.Range.To.In(cal.Location),
		Days:         []dto.CalendarDayResponse{},
		StatusCounts: make(map[string]int),
		Total:        cal.Len(),
	}

	for day, appointments := range cal.All() {
		bucket := dto.CalendarDayResponse{Date: day.String()}
		for appointment := range appointments {
			bucket.Appointments = append(bucket.Appointments, *AppointmentToResponse(&appointment))
		}
		response.Days = append(response.Days, bucket)
	}

	for status, count := range cal.CountByStatus() {
		response.StatusCounts[string(status)] = count
	}

	return response
}
