// Package render turns classified planned items into indented text:
// a line formatter decides what one item says, a tree renderer walks
// subitems, and the console presenter frames the buckets.
package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/coreassistant/planned/internal/clock"
	"github.com/coreassistant/planned/internal/model"
)

// ErrEmptyTitle reports an item that reached the formatter with no
// printable title.
var ErrEmptyTitle = errors.New("item title must not be empty")

// LineFormatter renders one item as a single line at the given tree
// level.
type LineFormatter interface {
	FormatLine(it *model.Item, level, indentStep int) (string, error)
}

type dateFlags struct {
	todayOrTomorrow bool
	beforeToday     bool
	today           bool
	tomorrow        bool
}

type stateFlags struct {
	spanningNow bool
	ongoing     bool
}

type timeHints struct {
	duration   string
	untilStart string
	untilEnd   string
}

// TextLineFormatter renders "- title [status] (details)" lines. The
// detail list adapts to the item: overdue tasks say "dued:", events
// under way say "until:", and anything obvious from context is left
// out.
type TextLineFormatter struct {
	clk    clock.Clock
	conv   DateConverter
	bullet string
}

// NewTextLineFormatter builds a formatter against the given clock.
func NewTextLineFormatter(clk clock.Clock) *TextLineFormatter {
	return &TextLineFormatter{clk: clk, conv: NewDateConverter(clk.Location), bullet: "-"}
}

func (f *TextLineFormatter) dateFlagsFor(it *model.Item) dateFlags {
	d := f.clk.LocalDate(it.StartAt())
	if d.IsZero() {
		return dateFlags{}
	}
	return dateFlags{
		todayOrTomorrow: d == f.clk.Today || d == f.clk.Tomorrow(),
		beforeToday:     d.Before(f.clk.Today),
		today:           d == f.clk.Today,
		tomorrow:        d == f.clk.Tomorrow(),
	}
}

func (f *TextLineFormatter) stateFlagsFor(it *model.Item) (stateFlags, error) {
	var flags stateFlags
	if start, end := it.StartAt(), it.EndAt(); start != nil && end != nil {
		flags.spanningNow = !f.clk.Now.Before(*start) && !f.clk.Now.After(*end)
	}
	if it.Type == model.ItemTypeEvent {
		ongoing, err := it.IsOngoing()
		if err != nil {
			return stateFlags{}, err
		}
		flags.ongoing = ongoing
	}
	return flags, nil
}

func (f *TextLineFormatter) timeHintsFor(it *model.Item) (timeHints, error) {
	var hints timeHints
	var err error
	if hints.untilStart, err = it.TimeUntilStart(); err != nil {
		return timeHints{}, err
	}
	if it.Type == model.ItemTypeEvent {
		if hints.duration, err = it.DurationString(); err != nil {
			return timeHints{}, err
		}
		if hints.untilEnd, err = it.TimeUntilEnd(); err != nil {
			return timeHints{}, err
		}
	}
	return hints, nil
}

// statusTag hides statuses that carry no information: a task status
// only matters once the task is due, and "confirmed" is an event's
// normal state.
func statusTag(it *model.Item, date dateFlags) string {
	if it.Status == model.StatusNone {
		return ""
	}
	tag := fmt.Sprintf("[%s]", it.Status)
	switch it.Type {
	case model.ItemTypeTask:
		if !date.today && !date.beforeToday {
			return ""
		}
	case model.ItemTypeEvent:
		if it.Status == model.StatusConfirmed {
			return ""
		}
	}
	return tag
}

func (f *TextLineFormatter) details(it *model.Item, date dateFlags, state stateFlags, hints timeHints, allDay bool, calendarDays int) []string {
	start := f.conv.ConvertStart(it.StartRaw, StartContext{
		Type:            it.Type,
		AllDay:          allDay,
		CalendarDays:    calendarDays,
		TodayOrTomorrow: date.todayOrTomorrow,
		SpanningNow:     state.spanningNow,
	})
	end := f.conv.ConvertEnd(it.EndRaw, EndContext{AllDay: allDay, CalendarDays: calendarDays})

	var details []string
	if start != "" {
		switch {
		case it.Type == model.ItemTypeEvent && allDay:
			details = append(details, "date: "+start)
		case it.Type == model.ItemTypeEvent:
			details = append(details, "start: "+start)
		case it.Type == model.ItemTypeTask && !date.todayOrTomorrow:
			prefix := "due: "
			if date.beforeToday {
				prefix = "dued: "
			}
			details = append(details, prefix+start)
		}
	}
	if end != "" {
		switch {
		case it.Type == model.ItemTypeEvent && (!allDay || calendarDays > 1):
			details = append(details, "end: "+end)
		case it.Type == model.ItemTypeTask:
			details = append(details, "completed: "+end)
		}
	}
	if loc := strings.TrimSpace(it.Location); loc != "" && it.Type == model.ItemTypeEvent {
		details = append(details, "location: "+loc)
	}
	if it.Type == model.ItemTypeEvent && hints.duration != "" && hints.duration != "1d" {
		details = append(details, "duration: "+hints.duration)
	}
	if hints.untilStart != "" && !date.tomorrow {
		details = append(details, "in: "+hints.untilStart)
	}
	if hints.untilEnd != "" && state.ongoing {
		details = append(details, "until: "+hints.untilEnd)
	}
	if it.List != nil {
		details = append(details, "list: "+it.List.Name)
	}
	if it.Source != "" {
		details = append(details, "source: "+string(it.Source))
	}
	return details
}

// FormatLine renders one item at the given depth.
func (f *TextLineFormatter) FormatLine(it *model.Item, level, indentStep int) (string, error) {
	title := strings.TrimSpace(it.Title)
	if title == "" {
		return "", ErrEmptyTitle
	}

	allDay, err := it.IsAllDay()
	if err != nil {
		return "", err
	}
	calendarDays, err := it.CalendarDays()
	if err != nil {
		return "", err
	}

	var date dateFlags
	var state stateFlags
	var hints timeHints
	if it.StartRaw != "" {
		date = f.dateFlagsFor(it)
		if state, err = f.stateFlagsFor(it); err != nil {
			return "", err
		}
		if hints, err = f.timeHintsFor(it); err != nil {
			return "", err
		}
	}

	parts := []string{strings.Repeat(" ", indentStep*level) + f.bullet, title}
	if tag := statusTag(it, date); tag != "" {
		parts = append(parts, tag)
	}
	if details := f.details(it, date, state, hints, allDay, calendarDays); len(details) > 0 {
		parts = append(parts, "("+strings.Join(details, ", ")+")")
	}
	return strings.TrimRight(strings.Join(parts, " "), " "), nil
}
