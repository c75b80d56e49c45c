package mapper

import (
	"github.com/coreassistant/planned/internal/clock"
	"github.com/coreassistant/planned/internal/model"
)

// PlannedListKey is the synthetic record key fetchers use to attach
// the originating container to every raw record before mapping.
const PlannedListKey = "plannedItemList"

func plannedList(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	list, ok := v.(*model.ItemList)
	if !ok {
		return nil, nil
	}
	return list, nil
}

// NewGoogleTasks maps Google Tasks API task resources. Due dates land
// in start_raw and completion timestamps in end_raw.
func NewGoogleTasks(clk clock.Clock) *Table {
	return NewTable(clk, map[string]FieldSpec{
		"kind":              {Source: "kind"},
		"id":                {Source: "id", Required: true},
		"etag":              {Source: "etag"},
		"self_link":         {Source: "selfLink"},
		"web_view_link":     {Source: "webViewLink"},
		"title":             {Source: "title", Default: model.Untitled},
		"notes":             {Source: "notes"},
		"status":            {Source: "status", Transform: statusFromAPI},
		"start_raw":         {Source: "due"},
		"end_raw":           {Source: "completed"},
		"updated_raw":       {Source: "updated"},
		"parent":            {Source: "parent"},
		"position":          {Source: "position"},
		"hidden":            {Source: "hidden", Default: false},
		"deleted":           {Source: "deleted", Default: false},
		"links":             {Source: "links"},
		"type":              {Source: "type", Transform: constant(model.ItemTypeTask)},
		"planned_item_list": {Source: PlannedListKey, Transform: plannedList},
		"data_source":       {Source: "data_source", Transform: constant(model.SourceGoogleTask)},
	})
}

// eventTime extracts the timestamp from a Calendar API start/end
// object, which carries either a dateTime or an all-day date.
func eventTime(v any) (any, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case map[string]any:
		if dt, ok := val["dateTime"].(string); ok && dt != "" {
			return dt, nil
		}
		if d, ok := val["date"].(string); ok && d != "" {
			return d, nil
		}
		return "", nil
	default:
		return "", nil
	}
}

func cancelledAsDeleted(v any) (any, error) {
	return asString(v) == "cancelled", nil
}

// NewGoogleCalendarEvents maps Google Calendar API event resources.
func NewGoogleCalendarEvents(clk clock.Clock) *Table {
	return NewTable(clk, map[string]FieldSpec{
		"kind":              {Source: "kind", Default: "calendar#event"},
		"id":                {Source: "id", Required: true},
		"etag":              {Source: "etag"},
		"self_link":         {Source: "selfLink"},
		"web_view_link":     {Source: "htmlLink"},
		"title":             {Source: "summary", Default: model.Untitled},
		"notes":             {Source: "description"},
		"location":          {Source: "location"},
		"status":            {Source: "status", Transform: statusFromAPI},
		"start_raw":         {Source: "start", Transform: eventTime},
		"end_raw":           {Source: "end", Transform: eventTime},
		"updated_raw":       {Source: "updated"},
		"deleted":           {Source: "status", Transform: cancelledAsDeleted, Default: false},
		"type":              {Source: "type", Transform: constant(model.ItemTypeEvent)},
		"planned_item_list": {Source: PlannedListKey, Transform: plannedList},
		"data_source":       {Source: "data_source", Transform: constant(model.SourceGoogleCalendar)},
	})
}
