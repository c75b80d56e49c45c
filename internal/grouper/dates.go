package grouper

import (
	"time"

	"github.com/coreassistant/planned/internal/clock"
	"github.com/coreassistant/planned/internal/model"
	"github.com/coreassistant/planned/internal/period"
)

// Dates is the shared table of reference dates one grouping pass works
// against. All entries are computed once from the same "today" so a
// pass never straddles a midnight boundary.
type Dates struct {
	Today               clock.Date
	Weekday             int // Monday is 0, Sunday is 6.
	ThisWeekFri         clock.Date
	ThisWeekSat         clock.Date
	ThisWeekSun         clock.Date
	NextWeekMon         clock.Date
	NextWeekTue         clock.Date
	NextWeekSun         clock.Date
	FirstThisMonth      clock.Date
	FirstNextMonth      clock.Date
	LastThisMonth       clock.Date
	FirstMonthAfterNext clock.Date
	LastNextMonth       clock.Date
}

func mondayIndexed(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

func nextMonth(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}

// Calculate derives every reference date from today.
func Calculate(today clock.Date) Dates {
	wd := mondayIndexed(today.Weekday())
	yNext, mNext := nextMonth(today.Year, today.Month)
	yAfter, mAfter := nextMonth(yNext, mNext)
	firstNextMonth := clock.NewDate(yNext, mNext, 1)
	firstMonthAfterNext := clock.NewDate(yAfter, mAfter, 1)
	thisWeekSun := today.AddDays(6 - wd)
	nextWeekMon := thisWeekSun.AddDays(1)
	return Dates{
		Today:               today,
		Weekday:             wd,
		ThisWeekFri:         today.AddDays(4 - wd),
		ThisWeekSat:         today.AddDays(5 - wd),
		ThisWeekSun:         thisWeekSun,
		NextWeekMon:         nextWeekMon,
		NextWeekTue:         nextWeekMon.AddDays(1),
		NextWeekSun:         nextWeekMon.AddDays(6),
		FirstThisMonth:      clock.NewDate(today.Year, today.Month, 1),
		FirstNextMonth:      firstNextMonth,
		LastThisMonth:       firstNextMonth.AddDays(-1),
		FirstMonthAfterNext: firstMonthAfterNext,
		LastNextMonth:       firstMonthAfterNext.AddDays(-1),
	}
}

func isWeekday(d clock.Date) bool {
	return mondayIndexed(d.Weekday()) <= 4
}

func (dt Dates) inRestOfThisWeek(d clock.Date) bool {
	start := dt.Today.AddDays(2).Max(dt.Today)
	return !d.Before(start) && !d.After(dt.ThisWeekFri)
}

func (dt Dates) inThisWeekend(d clock.Date) bool {
	return !d.Before(dt.ThisWeekSat) && !d.After(dt.ThisWeekSun)
}

func (dt Dates) inNextWeekRange(d clock.Date) bool {
	start := dt.NextWeekMon
	if dt.Weekday == 6 {
		start = dt.NextWeekTue
	}
	return !d.Before(start) && !d.After(dt.NextWeekSun)
}

// inNextMonth reports whether d lands in the calendar month right
// after today's, including the December to January rollover.
func (dt Dates) inNextMonth(d clock.Date) bool {
	if dt.Today.Month == time.December {
		return d.Month == time.January && d.Year == dt.Today.Year+1
	}
	return d.Month == dt.Today.Month+1 && d.Year == dt.Today.Year
}

// fixedPeriodFor returns the calendar window a bucket always covers,
// or false for the buckets whose window follows their member items.
func (dt Dates) fixedPeriodFor(g model.Group) (period.Period, bool) {
	switch g {
	case model.GroupToday:
		return period.Single(dt.Today), true
	case model.GroupTomorrow:
		return period.Single(dt.Today.AddDays(1)), true
	case model.GroupRestOfThisWeek:
		start := dt.Today.AddDays(2).Max(dt.Today)
		return period.Span(start, dt.ThisWeekFri), true
	case model.GroupThisFriday:
		return period.Single(dt.ThisWeekFri), true
	case model.GroupThisWeekend:
		return period.Span(dt.ThisWeekSat, dt.ThisWeekSun), true
	case model.GroupThisSunday:
		return period.Single(dt.ThisWeekSun), true
	case model.GroupNextWeek:
		start := dt.NextWeekMon
		if dt.Weekday == 6 {
			start = dt.NextWeekTue
		}
		return period.Span(start, dt.NextWeekSun), true
	case model.GroupRestOfThisMonth:
		start := dt.NextWeekSun.AddDays(1).Max(dt.FirstThisMonth)
		return period.Span(start, dt.LastThisMonth), true
	case model.GroupNextMonth:
		return period.Span(dt.FirstNextMonth, dt.LastNextMonth), true
	default:
		return period.Period{}, false
	}
}
