package handler

import (
	"net/http"
	"time"

	"clinic-scheduling/internal/converter"
	"clinic-scheduling/internal/domain/entity"
	"clinic-scheduling/internal/usecase"
	"clinic-scheduling/pkg/response"
)

const monthLayout = "2006-01"

type CalendarHandler struct {
	calendarUsecase usecase.CalendarUsecase
	now             func() time.Time
}

func NewCalendarHandler(calendarUsecase usecase.CalendarUsecase) *CalendarHandler {
	return &CalendarHandler{
		calendarUsecase: calendarUsecase,
		now:             time.Now,
	}
}

// GetCalendar returns the caller's appointments grouped by day.
//
// Query: ?start=&end= (RFC 3339, inclusive) or ?month=YYYY-MM. Without either
// the current month is used.
func (h *CalendarHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	practitionerID, ok := callerID(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	var (
		cal *entity.Calendar
		err error
	)

	switch {
	case query.Get("start") != "" || query.Get("end") != "":
		start, startErr := time.Parse(time.RFC3339, query.Get("start"))
		end, endErr := time.Parse(time.RFC3339, query.Get("end"))
		if startErr != nil || endErr != nil {
			fields := make(map[string]string)
			if startErr != nil {
				fields["start"] = "start must be a valid RFC 3339 timestamp"
			}
			if endErr != nil {
				fields["end"] = "end must be a valid RFC 3339 timestamp"
			}
			response.ValidationError(w, fields)
			return
		}
		cal, err = h.calendarUsecase.ForRange(r.Context(), practitionerID, start, end)

	case query.Get("month") != "":
		month, parseErr := time.Parse(monthLayout, query.Get("month"))
		if parseErr != nil {
			response.ValidationError(w, map[string]string{"month": "month must use the YYYY-MM format"})
			return
		}
		cal, err = h.calendarUsecase.Month(r.Context(), practitionerID, month.Year(), month.Month())

	default:
		now := h.now()
		cal, err = h.calendarUsecase.Month(r.Context(), practitionerID, now.Year(), now.Month())
	}

	if err != nil {
		response.AppError(w, err, "Failed to get calendar")
		return
	}

	response.Success(w, http.StatusOK, "Calendar retrieved successfully", converter.CalendarToResponse(cal))
}
