package mapper

import (
	"fmt"

	"github.com/coreassistant/planned/internal/clock"
	"github.com/coreassistant/planned/internal/model"
)

// todoistPriority inverts the Todoist scale (4 = urgent) into the
// normalized one (1 = urgent).
func todoistPriority(v any) (any, error) {
	p, ok := asInt(v)
	if !ok {
		return nil, fmt.Errorf("expected numeric priority, got %T", v)
	}
	return 5 - p, nil
}

func todoistStatus(v any) (any, error) {
	if AsBool(v) {
		return model.StatusCompleted, nil
	}
	return model.StatusNeedsAction, nil
}

// todoistDue extracts a due timestamp from the Todoist due object,
// preferring the datetime form over the bare date.
func todoistDue(v any) (any, error) {
	due, ok := v.(map[string]any)
	if !ok {
		return "", nil
	}
	if dt, ok := due["datetime"].(string); ok && dt != "" {
		return dt, nil
	}
	if d, ok := due["date"].(string); ok && d != "" {
		return d, nil
	}
	return "", nil
}

func positionString(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	return asString(v), nil
}

// NewTodoistTasks maps Todoist REST API task resources.
func NewTodoistTasks(clk clock.Clock) *Table {
	return NewTable(clk, map[string]FieldSpec{
		"kind":              {Source: "kind", Default: "todoist#task"},
		"id":                {Source: "id", Required: true},
		"self_link":         {Source: "url"},
		"web_view_link":     {Source: "url"},
		"title":             {Source: "content", Default: model.Untitled},
		"notes":             {Source: "description"},
		"status":            {Source: "is_completed", Transform: todoistStatus},
		"start_raw":         {Source: "due", Transform: todoistDue},
		"end_raw":           {Source: "completed_at"},
		"updated_raw":       {Source: "created_at"},
		"parent":            {Source: "parent_id"},
		"position":          {Source: "order", Transform: positionString},
		"priority":          {Source: "priority", Default: 4, Transform: todoistPriority},
		"project_id":        {Source: "project_id"},
		"section_id":        {Source: "section_id"},
		"labels":            {Source: "labels"},
		"type":              {Source: "type", Transform: constant(model.ItemTypeTask)},
		"planned_item_list": {Source: PlannedListKey, Transform: plannedList},
		"data_source":       {Source: "data_source", Transform: constant(model.SourceTodoist)},
	})
}
