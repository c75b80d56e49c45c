package model

import (
	"fmt"
	"sort"
	"strings"
)

// ItemType discriminates the two item flavors. It is a closed enum:
// every provider value must map to one of these or fail conversion.
type ItemType string

const (
	ItemTypeTask  ItemType = "task"
	ItemTypeEvent ItemType = "event"
)

// ItemStatus is the normalized scheduling status of an item.
type ItemStatus string

const (
	StatusNone        ItemStatus = ""
	StatusNeedsAction ItemStatus = "needs_action"
	StatusConfirmed   ItemStatus = "confirmed"
	StatusTentative   ItemStatus = "tentative"
	StatusCompleted   ItemStatus = "completed"
	StatusCancelled   ItemStatus = "cancelled"
)

// DataSource identifies the provider an item came from.
type DataSource string

const (
	SourceGoogleTask     DataSource = "google-task"
	SourceGoogleCalendar DataSource = "google-calendar"
	SourceTodoist        DataSource = "todoist"
)

// ConversionError reports a provider value that does not belong to a
// closed enum. It always carries the offending value and the allowed
// set; silently defaulting here would corrupt bucket placement.
type ConversionError struct {
	Kind    string
	Value   string
	Allowed []string
}

func (e *ConversionError) Error() string {
	allowed := append([]string(nil), e.Allowed...)
	sort.Strings(allowed)
	return fmt.Sprintf("unexpected %s value %q, allowed: %s", e.Kind, e.Value, strings.Join(allowed, ", "))
}

var apiToType = map[string]ItemType{
	"task":  ItemTypeTask,
	"event": ItemTypeEvent,
}

var apiToStatus = map[string]ItemStatus{
	"cancelled":   StatusCancelled,
	"completed":   StatusCompleted,
	"confirmed":   StatusConfirmed,
	"needsAction": StatusNeedsAction,
	"tentative":   StatusTentative,
}

var apiToSource = map[string]DataSource{
	"google-task":     SourceGoogleTask,
	"google-calendar": SourceGoogleCalendar,
	"todoist":         SourceTodoist,
}

func allowedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

// ItemTypeFromAPI converts a raw provider type string.
func ItemTypeFromAPI(raw string) (ItemType, error) {
	if t, ok := apiToType[raw]; ok {
		return t, nil
	}
	return "", &ConversionError{Kind: "type", Value: raw, Allowed: allowedKeys(apiToType)}
}

// ItemStatusFromAPI converts a raw provider status string. An empty
// input maps to StatusNone without error.
func ItemStatusFromAPI(raw string) (ItemStatus, error) {
	if raw == "" {
		return StatusNone, nil
	}
	if s, ok := apiToStatus[raw]; ok {
		return s, nil
	}
	return StatusNone, &ConversionError{Kind: "status", Value: raw, Allowed: allowedKeys(apiToStatus)}
}

// DataSourceFromAPI converts a raw provider source string.
func DataSourceFromAPI(raw string) (DataSource, error) {
	if s, ok := apiToSource[raw]; ok {
		return s, nil
	}
	return "", &ConversionError{Kind: "data source", Value: raw, Allowed: allowedKeys(apiToSource)}
}

// Group is one of the 12 fixed time buckets, ordered by numeric id.
type Group int

const (
	GroupDued Group = iota
	GroupOngoing
	GroupToday
	GroupTomorrow
	GroupRestOfThisWeek
	GroupThisFriday
	GroupThisWeekend
	GroupThisSunday
	GroupNextWeek
	GroupRestOfThisMonth
	GroupNextMonth
	GroupFuture
)

var groupLabels = map[Group]string{
	GroupDued:            "DUED",
	GroupOngoing:         "ON GOING",
	GroupToday:           "TODAY",
	GroupTomorrow:        "TOMORROW",
	GroupRestOfThisWeek:  "REST OF THIS WEEK",
	GroupThisFriday:      "THIS FRIDAY",
	GroupThisWeekend:     "THIS WEEKEND",
	GroupThisSunday:      "THIS SUNDAY",
	GroupNextWeek:        "NEXT WEEK",
	GroupRestOfThisMonth: "REST OF THIS MONTH",
	GroupNextMonth:       "NEXT MONTH",
	GroupFuture:          "FUTURE",
}

// Label returns the display label for g.
func (g Group) Label() string { return groupLabels[g] }

func (g Group) String() string { return g.Label() }

// Groups returns all buckets in their fixed display order.
func Groups() []Group {
	out := make([]Group, 0, len(groupLabels))
	for g := GroupDued; g <= GroupFuture; g++ {
		out = append(out, g)
	}
	return out
}
