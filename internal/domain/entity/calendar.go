package entity

import (
	"fmt"
	"iter"
	"slices"
	"time"
)

// Day is a calendar date in some location.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf returns the calendar day of t as observed in loc.
func DayOf(t time.Time, loc *time.Location) Day {
	y, m, d := t.In(loc).Date()
	return Day{Year: y, Month: m, Day: d}
}

func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Start returns midnight of d in loc.
func (d Day) Start(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Day) Before(other Day) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// Calendar is a practitioner's appointments bucketed by day. Days without
// appointments have no bucket. Each bucket is ordered by scheduled_at.
type Calendar struct {
	Location *time.Location
	Range    AppointmentRange

	days    []Day
	buckets map[Day][]Appointment
}

// NewCalendar groups appointments by their day in loc, keeping only those inside r.
// The input order is irrelevant.
func NewCalendar(r AppointmentRange, loc *time.Location, appointments []Appointment) *Calendar {
	cal := &Calendar{
		Location: loc,
		Range:    r,
		buckets:  make(map[Day][]Appointment),
	}

	for _, appt := range appointments {
		if !r.Contains(appt.ScheduledAt) {
			continue
		}
		day := DayOf(appt.ScheduledAt, loc)
		if _, ok := cal.buckets[day]; !ok {
			cal.days = append(cal.days, day)
		}
		cal.buckets[day] = append(cal.buckets[day], appt)
	}

	slices.SortFunc(cal.days, func(a, b Day) int {
		switch {
		case a.Before(b):
			return -1
		case b.Before(a):
			return 1
		}
		return 0
	})
	for _, bucket := range cal.buckets {
		slices.SortStableFunc(bucket, func(a, b Appointment) int {
			return a.ScheduledAt.Compare(b.ScheduledAt)
		})
	}

	return cal
}

// Days returns the days that have at least one appointment, ascending.
func (c *Calendar) Days() []Day {
	return slices.Clone(c.days)
}

// Appointments yields the appointments of day in time order. The sequence can
// be ranged over any number of times.
func (c *Calendar) Appointments(day Day) iter.Seq[Appointment] {
	return func(yield func(Appointment) bool) {
		for _, appt := range c.buckets[day] {
			if !yield(appt) {
				return
			}
		}
	}
}

// All yields every non-empty day with its appointment sequence, ascending.
func (c *Calendar) All() iter.Seq2[Day, iter.Seq[Appointment]] {
	return func(yield func(Day, iter.Seq[Appointment]) bool) {
		for _, day := range c.days {
			if !yield(day, c.Appointments(day)) {
				return
			}
		}
	}
}

// Len returns the number of appointments in the calendar.
func (c *Calendar) Len() int {
	n := 0
	for _, bucket := range c.buckets {
		n += len(bucket)
	}
	return n
}

// CountByStatus returns how many appointments hold each status. Every status
// is present in the result.
func (c *Calendar) CountByStatus() map[AppointmentStatus]int {
	counts := make(map[AppointmentStatus]int, len(AppointmentStatuses))
	for _, status := range AppointmentStatuses {
		counts[status] = 0
	}
	for _, bucket := range c.buckets {
		for _, appt := range bucket {
			counts[appt.Status]++
		}
	}
	return counts
}
