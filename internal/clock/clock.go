// Package clock provides the process-wide temporal reference: the
// timezone, the current instant and the current date are captured once
// at startup and threaded explicitly through the pipeline, so a single
// run stays internally consistent even while real time advances.
package clock

import (
	"fmt"
	"time"
)

// Date is a calendar date with no time-of-day and no zone attached.
// All bucket math operates on Dates in the reference timezone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// NewDate builds a Date from its components.
func NewDate(year int, month time.Month, day int) Date {
	// Normalize through time.Date so Feb 30 and friends collapse
	// the same way the time package does.
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

func (d Date) asTime() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return DateOf(d.asTime().AddDate(0, 0, n))
}

// DaysUntil returns the number of whole days from d to o.
func (d Date) DaysUntil(o Date) int {
	return int(o.asTime().Sub(d.asTime()) / (24 * time.Hour))
}

// Before reports whether d is earlier than o.
func (d Date) Before(o Date) bool { return d.asTime().Before(o.asTime()) }

// After reports whether d is later than o.
func (d Date) After(o Date) bool { return d.asTime().After(o.asTime()) }

// Equal reports whether d and o are the same calendar date.
func (d Date) Equal(o Date) bool { return d == o }

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d == Date{} }

// Weekday returns the day of the week for d.
func (d Date) Weekday() time.Weekday { return d.asTime().Weekday() }

// Min returns the earlier of d and o.
func (d Date) Min(o Date) Date {
	if o.Before(d) {
		return o
	}
	return d
}

// Max returns the later of d and o.
func (d Date) Max(o Date) Date {
	if o.After(d) {
		return o
	}
	return d
}

// Midnight returns the instant at 00:00:00 on d in loc.
func (d Date) Midnight(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Clock is the frozen temporal reference for one run.
type Clock struct {
	Location *time.Location
	Now      time.Time
	Today    Date
}

// New builds a Clock frozen at now, interpreted in loc.
func New(loc *time.Location, now time.Time) Clock {
	local := now.In(loc)
	return Clock{Location: loc, Now: local, Today: DateOf(local)}
}

// System builds a Clock from the wall clock. tzName selects the
// reference timezone; empty means the system default.
func System(tzName string) (Clock, error) {
	loc := time.Local
	if tzName != "" {
		parsed, err := time.LoadLocation(tzName)
		if err != nil {
			return Clock{}, fmt.Errorf("load timezone %q: %w", tzName, err)
		}
		loc = parsed
	}
	return New(loc, time.Now()), nil
}

// LocalDate converts an instant to its calendar date in the reference
// timezone. Nil input yields a zero Date.
func (c Clock) LocalDate(t *time.Time) Date {
	if t == nil {
		return Date{}
	}
	return DateOf(t.In(c.Location))
}

// Tomorrow is the day after Today.
func (c Clock) Tomorrow() Date { return c.Today.AddDays(1) }
