package entity

import (
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return t
}

func appt(scheduledAt string, status AppointmentStatus) Appointment {
	return Appointment{ID: uuid.New(), ScheduledAt: at(scheduledAt), Status: status}
}

func marchRange() AppointmentRange {
	return AppointmentRange{From: at("2024-03-01T00:00:00Z"), To: at("2024-03-31T23:59:59Z")}
}

func TestNewCalendar_GroupsAndOrders(t *testing.T) {
	input := []Appointment{
		appt("2024-03-11T09:00:00Z", AppointmentStatusScheduled),
		appt("2024-03-10T16:00:00Z", AppointmentStatusConfirmed),
		appt("2024-03-10T08:30:00Z", AppointmentStatusScheduled),
		appt("2024-03-10T12:00:00Z", AppointmentStatusCancelled),
	}

	cal := NewCalendar(marchRange(), time.UTC, input)

	assert.Equal(t, []Day{{2024, time.March, 10}, {2024, time.March, 11}}, cal.Days())

	var times []string
	for a := range cal.Appointments(Day{2024, time.March, 10}) {
		times = append(times, a.ScheduledAt.Format("15:04"))
	}
	assert.Equal(t, []string{"08:30", "12:00", "16:00"}, times)
	assert.Equal(t, 4, cal.Len())
}

func TestNewCalendar_ExcludesOutOfRange(t *testing.T) {
	input := []Appointment{
		appt("2024-02-29T23:59:59Z", AppointmentStatusScheduled),
		appt("2024-03-01T00:00:00Z", AppointmentStatusScheduled),
		appt("2024-03-31T23:59:59Z", AppointmentStatusScheduled),
		appt("2024-04-01T00:00:00Z", AppointmentStatusScheduled),
	}

	cal := NewCalendar(marchRange(), time.UTC, input)

	assert.Equal(t, 2, cal.Len())
	assert.Equal(t, []Day{{2024, time.March, 1}, {2024, time.March, 31}}, cal.Days())
}

func TestNewCalendar_UsesLocationForDayBoundaries(t *testing.T) {
	saoPaulo, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	// 01:30 UTC on the 11th is 22:30 on the 10th in Sao Paulo (UTC-3).
	input := []Appointment{appt("2024-03-11T01:30:00Z", AppointmentStatusScheduled)}

	cal := NewCalendar(marchRange(), saoPaulo, input)

	assert.Equal(t, []Day{{2024, time.March, 10}}, cal.Days())
}

func TestCalendar_AppointmentsIsRestartable(t *testing.T) {
	cal := NewCalendar(marchRange(), time.UTC, []Appointment{
		appt("2024-03-10T08:00:00Z", AppointmentStatusScheduled),
		appt("2024-03-10T09:00:00Z", AppointmentStatusScheduled),
	})
	seq := cal.Appointments(Day{2024, time.March, 10})

	first := slices.Collect(seq)
	second := slices.Collect(seq)

	assert.Len(t, first, 2)
	assert.Equal(t, first, second)
}

func TestCalendar_MissingDayIsEmpty(t *testing.T) {
	cal := NewCalendar(marchRange(), time.UTC, nil)

	assert.Empty(t, cal.Days())
	assert.Empty(t, slices.Collect(cal.Appointments(Day{2024, time.March, 5})))
}

func TestCalendar_AllStopsEarly(t *testing.T) {
	cal := NewCalendar(marchRange(), time.UTC, []Appointment{
		appt("2024-03-02T08:00:00Z", AppointmentStatusScheduled),
		appt("2024-03-03T08:00:00Z", AppointmentStatusScheduled),
		appt("2024-03-04T08:00:00Z", AppointmentStatusScheduled),
	})

	var seen []Day
	for day := range cal.All() {
		seen = append(seen, day)
		if len(seen) == 2 {
			break
		}
	}
	assert.Equal(t, []Day{{2024, time.March, 2}, {2024, time.March, 3}}, seen)
}

func TestCalendar_CountByStatus(t *testing.T) {
	cal := NewCalendar(marchRange(), time.UTC, []Appointment{
		appt("2024-03-02T08:00:00Z", AppointmentStatusScheduled),
		appt("2024-03-02T09:00:00Z", AppointmentStatusScheduled),
		appt("2024-03-03T08:00:00Z", AppointmentStatusCompleted),
	})

	counts := cal.CountByStatus()
	assert.Equal(t, 2, counts[AppointmentStatusScheduled])
	assert.Equal(t, 1, counts[AppointmentStatusCompleted])
	assert.Equal(t, 0, counts[AppointmentStatusCancelled])
	assert.Len(t, counts, len(AppointmentStatuses))
}

func TestDay_String(t *testing.T) {
	assert.Equal(t, "2024-03-05", Day{2024, time.March, 5}.String())
}
