// Package model holds the normalized item entity, its closed enums and
// the display-order sorter. An Item is a tagged union: Type is always
// task or event, and type-dependent behavior routes through explicit
// switches rather than a type hierarchy.
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/coreassistant/planned/internal/clock"
)

// Untitled is the placeholder title for items with a blank or missing
// title.
const Untitled = "(untitled)"

// UnsupportedTypeError reports a type-guarded operation invoked on the
// wrong item type.
type UnsupportedTypeError struct {
	Op   string
	Type ItemType
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("%s is not supported for item type %q", e.Op, e.Type)
}

// Item is the normalized representation of a task or calendar event.
// Raw timestamps are stored normalized to the reference timezone and
// re-parsed lazily on each temporal query.
type Item struct {
	Kind        string
	ID          string
	Etag        string
	SelfLink    string
	WebViewLink string
	Type        ItemType
	Title       string
	Notes       string
	Location    string
	Status      ItemStatus
	StartRaw    string
	EndRaw      string
	UpdatedRaw  string
	Parent      string
	Position    string
	Priority    int
	ProjectID   string
	SectionID   string
	Labels      []string
	Hidden      bool
	Deleted     bool
	Links       []map[string]any

	// Subitems is the exclusively-owned ordered children list,
	// populated by the hierarchy builder.
	Subitems []*Item

	// List is a weak reference to the originating container; lookup
	// only, never traversed back.
	List   *ItemList
	Source DataSource

	clk clock.Clock
}

func cleanString(s string) string { return strings.TrimSpace(s) }

// New normalizes and validates an item against the given temporal
// reference. Raw timestamps are parsed once here so later lazy parses
// cannot fail; an event end landing exactly on local midnight is
// pulled back one second to represent an inclusive all-day range.
func New(clk clock.Clock, it Item) (*Item, error) {
	if it.Type != ItemTypeTask && it.Type != ItemTypeEvent {
		return nil, &ConversionError{Kind: "type", Value: string(it.Type), Allowed: allowedKeys(apiToType)}
	}
	it.clk = clk
	it.Kind = cleanString(it.Kind)
	it.ID = cleanString(it.ID)
	it.Etag = cleanString(it.Etag)
	it.SelfLink = cleanString(it.SelfLink)
	it.WebViewLink = cleanString(it.WebViewLink)
	it.Notes = cleanString(it.Notes)
	it.Location = cleanString(it.Location)
	it.Parent = cleanString(it.Parent)
	it.Position = cleanString(it.Position)
	if it.Title = cleanString(it.Title); it.Title == "" {
		it.Title = Untitled
	}

	keepMidnight := it.Type == ItemTypeTask
	for _, raw := range []*string{&it.StartRaw, &it.EndRaw, &it.UpdatedRaw} {
		if *raw == "" {
			continue
		}
		parsed, err := ParseRFC3339(*raw, clk.Location, keepMidnight)
		if err != nil {
			return nil, err
		}
		*raw = parsed.Format(time.RFC3339)
	}
	if it.Type == ItemTypeEvent && it.StartRaw != "" && it.EndRaw != "" {
		end, err := ParseRFC3339(it.EndRaw, clk.Location, false)
		if err != nil {
			return nil, err
		}
		if isLocalMidnight(end, clk.Location) {
			it.EndRaw = end.Add(-time.Second).Format(time.RFC3339)
		}
	}

	item := &it
	for _, sub := range item.Subitems {
		if sub == item {
			return nil, fmt.Errorf("item cannot be its own subitem")
		}
	}
	return item, nil
}

func (it *Item) parseRaw(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	parsed, err := ParseRFC3339(raw, it.clk.Location, it.Type == ItemTypeTask)
	if err != nil {
		return nil
	}
	return &parsed
}

// StartAt parses the start timestamp; nil when absent.
func (it *Item) StartAt() *time.Time { return it.parseRaw(it.StartRaw) }

// EndAt parses the end timestamp; nil when absent.
func (it *Item) EndAt() *time.Time { return it.parseRaw(it.EndRaw) }

// UpdatedAt parses the updated timestamp; nil when absent.
func (it *Item) UpdatedAt() *time.Time { return it.parseRaw(it.UpdatedRaw) }

// IsRoot reports whether the item has no parent.
func (it *Item) IsRoot() bool { return it.Parent == "" }

// AddSubitem appends sub to the children list, ignoring duplicates.
func (it *Item) AddSubitem(sub *Item) error {
	if sub == it {
		return fmt.Errorf("item cannot be its own subitem")
	}
	for _, existing := range it.Subitems {
		if existing == sub {
			return nil
		}
	}
	it.Subitems = append(it.Subitems, sub)
	return nil
}

// IsAllDay reports whether the item covers whole local calendar days.
// Tasks are always all-day. An event qualifies only when it starts at
// local midnight, ends at 23:59:59 and its span covers full days
// exactly.
func (it *Item) IsAllDay() (bool, error) {
	switch it.Type {
	case ItemTypeTask:
		return true, nil
	case ItemTypeEvent:
		start, end := it.StartAt(), it.EndAt()
		if start == nil || end == nil {
			return false, nil
		}
		if !isWallMidnight(start.In(it.clk.Location)) {
			return false, nil
		}
		endLocal := end.In(it.clk.Location)
		if endLocal.Hour() != 23 || endLocal.Minute() != 59 || endLocal.Second() != 59 {
			return false, nil
		}
		seconds := int64(end.Sub(*start) / time.Second)
		return seconds%86400 == 86399, nil
	default:
		return false, &UnsupportedTypeError{Op: "IsAllDay", Type: it.Type}
	}
}

// IsOngoing reports whether an event's span contains the reference
// instant and the event is not all-day. Events only.
func (it *Item) IsOngoing() (bool, error) {
	if it.Type != ItemTypeEvent {
		return false, &UnsupportedTypeError{Op: "IsOngoing", Type: it.Type}
	}
	start, end := it.StartAt(), it.EndAt()
	if start == nil || end == nil {
		return false, nil
	}
	if start.After(it.clk.Now) || end.Before(it.clk.Now) {
		return false, nil
	}
	allDay, err := it.IsAllDay()
	if err != nil {
		return false, err
	}
	return !allDay, nil
}

// CalendarDays returns the number of local calendar days the item
// touches. Tasks always occupy one day.
func (it *Item) CalendarDays() (int, error) {
	switch it.Type {
	case ItemTypeTask:
		return 1, nil
	case ItemTypeEvent:
		start, end := it.StartAt(), it.EndAt()
		if start == nil || end == nil {
			return 1, nil
		}
		return it.clk.LocalDate(start).DaysUntil(it.clk.LocalDate(end)) + 1, nil
	default:
		return 0, &UnsupportedTypeError{Op: "CalendarDays", Type: it.Type}
	}
}

// roundUp59 bumps a second count ending in :59 to the next minute, so
// provider windows like 09:00:00..09:59:59 read as whole units.
func roundUp59(seconds int64) int64 {
	if seconds%60 == 59 {
		return seconds + 1
	}
	return seconds
}

// DurationString renders the event's elapsed span as compact
// "XdYhZm", keeping only non-zero components ("0m" when all are
// zero). Empty when either bound is missing or the span is negative.
// Events only.
func (it *Item) DurationString() (string, error) {
	if it.Type != ItemTypeEvent {
		return "", &UnsupportedTypeError{Op: "DurationString", Type: it.Type}
	}
	start, end := it.StartAt(), it.EndAt()
	if start == nil || end == nil {
		return "", nil
	}
	seconds := roundUp59(int64(end.Sub(*start) / time.Second))
	if seconds < 0 {
		return "", nil
	}
	days := seconds / 86400
	hours := (seconds % 86400) / 3600
	minutes := (seconds % 3600) / 60
	var b strings.Builder
	if days > 0 {
		fmt.Fprintf(&b, "%dd", days)
	}
	if hours > 0 {
		fmt.Fprintf(&b, "%dh", hours)
	}
	if minutes > 0 {
		fmt.Fprintf(&b, "%dm", minutes)
	}
	if b.Len() == 0 {
		return "0m", nil
	}
	return b.String(), nil
}

// TimeUntilStart renders the countdown from now to the item's start.
// Any partial day counts as a full one, so days >= 1 report days+1.
// Empty when the start is missing or already passed.
func (it *Item) TimeUntilStart() (string, error) {
	if it.Type != ItemTypeTask && it.Type != ItemTypeEvent {
		return "", &UnsupportedTypeError{Op: "TimeUntilStart", Type: it.Type}
	}
	start := it.StartAt()
	if start == nil {
		return "", nil
	}
	seconds := roundUp59(int64(start.Sub(it.clk.Now) / time.Second))
	if seconds <= 0 {
		return "", nil
	}
	days := seconds / 86400
	if days > 0 {
		return fmt.Sprintf("%dd", days+1), nil
	}
	hours := (seconds % 86400) / 3600
	minutes := (seconds % 3600) / 60
	if hours > 0 {
		return fmt.Sprintf("%dh%dm", hours, minutes), nil
	}
	return fmt.Sprintf("%dm", minutes), nil
}

// TimeUntilEnd renders the remaining time of an event that is under
// way (start <= now < end); empty otherwise. Unlike TimeUntilStart,
// whole days report as-is. Events only.
func (it *Item) TimeUntilEnd() (string, error) {
	if it.Type != ItemTypeEvent {
		return "", &UnsupportedTypeError{Op: "TimeUntilEnd", Type: it.Type}
	}
	start, end := it.StartAt(), it.EndAt()
	if start == nil || end == nil {
		return "", nil
	}
	if start.After(it.clk.Now) || !it.clk.Now.Before(*end) {
		return "", nil
	}
	seconds := roundUp59(int64(end.Sub(it.clk.Now) / time.Second))
	if seconds <= 0 {
		return "", nil
	}
	if days := seconds / 86400; days > 0 {
		return fmt.Sprintf("%dd", days), nil
	}
	hours := (seconds % 86400) / 3600
	minutes := (seconds % 3600) / 60
	if hours > 0 {
		return fmt.Sprintf("%dh%dm", hours, minutes), nil
	}
	return fmt.Sprintf("%dm", minutes), nil
}
