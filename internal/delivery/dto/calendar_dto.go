package dto

import "time"

// CalendarDayResponse holds the appointments of one day, earliest first.
type CalendarDayResponse struct {
	Date         string                `json:"date"` // YYYY-MM-DD in the calendar timezone
	Appointments []AppointmentResponse `json:"appointments"`
}

type CalendarResponse struct {
	Timezone     string                `json:"timezone"`
	Start        time.Time             `json:"start"`
	End          time.Time             `json:"end"`
	Days         []CalendarDayResponse `json:"days"`
	StatusCounts map[string]int        `json:"status_counts"`
	Total        int                   `json:"total"`
}
