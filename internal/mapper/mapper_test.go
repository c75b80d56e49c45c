package mapper

import (
	"errors"
	"testing"
	"time"

	"github.com/coreassistant/planned/internal/clock"
	"github.com/coreassistant/planned/internal/model"
)

func testClock(t *testing.T) clock.Clock {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Madrid")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return clock.New(loc, time.Date(2024, time.June, 12, 10, 0, 0, 0, loc))
}

func TestLookup(t *testing.T) {
	t.Parallel()

	raw := map[string]any{
		"id": "x",
		"due": map[string]any{
			"datetime": "2024-06-12T09:00:00",
		},
	}

	tests := []struct {
		path string
		want any
	}{
		{"id", "x"},
		{"due.datetime", "2024-06-12T09:00:00"},
		{"due.date", nil},
		{"missing.deep.path", nil},
		{"id.not.a.map", nil},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			if got := Lookup(raw, tt.path); got != tt.want {
				t.Errorf("Lookup(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestAsBool(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		v    any
		want bool
	}{
		{"nil", nil, false},
		{"bool", true, true},
		{"float nonzero", 1.0, true},
		{"float zero", 0.0, false},
		{"yes string", " Yes ", true},
		{"no string", "no", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := AsBool(tt.v); got != tt.want {
				t.Errorf("AsBool(%v) = %t, want %t", tt.v, got, tt.want)
			}
		})
	}
}

func TestGoogleTasksMapper(t *testing.T) {
	t.Parallel()
	clk := testClock(t)

	list := &model.ItemList{Kind: model.ListKindTaskList, ID: "l1", Name: "Chores"}
	raw := map[string]any{
		"kind":           "tasks#task",
		"id":             "t1",
		"title":          "water plants",
		"status":         "needsAction",
		"due":            "2024-06-12T00:00:00.000Z",
		"updated":        "2024-06-11T08:00:00.000Z",
		"parent":         "t0",
		"position":       "00000000001",
		"hidden":         false,
		PlannedListKey:   list,
	}

	it, err := NewGoogleTasks(clk).ToItem(raw)
	if err != nil {
		t.Fatalf("ToItem: %v", err)
	}
	if it.Type != model.ItemTypeTask || it.Source != model.SourceGoogleTask {
		t.Errorf("type/source = %s/%s", it.Type, it.Source)
	}
	if it.Status != model.StatusNeedsAction {
		t.Errorf("Status = %q", it.Status)
	}
	if it.Parent != "t0" || it.Position != "00000000001" {
		t.Errorf("hierarchy fields = %q/%q", it.Parent, it.Position)
	}
	if it.List != list {
		t.Error("planned list not attached")
	}
	// Due dates keep their local-midnight semantics.
	if got := clk.LocalDate(it.StartAt()); got != clk.Today {
		t.Errorf("due date = %v, want %v", got, clk.Today)
	}
}

func TestGoogleTasksMapperRequiresID(t *testing.T) {
	t.Parallel()
	clk := testClock(t)

	_, err := NewGoogleTasks(clk).ToItem(map[string]any{"title": "nameless"})
	var merr *MappingError
	if !errors.As(err, &merr) {
		t.Fatalf("err = %v, want MappingError", err)
	}
	if merr.Field != "id" {
		t.Errorf("failing field = %q, want id", merr.Field)
	}
}

func TestGoogleTasksMapperRejectsUnknownStatus(t *testing.T) {
	t.Parallel()
	clk := testClock(t)

	_, err := NewGoogleTasks(clk).ToItem(map[string]any{"id": "t1", "status": "snoozed"})
	var cerr *model.ConversionError
	if !errors.As(err, &cerr) {
		t.Fatalf("err = %v, want wrapped ConversionError", err)
	}
}

func TestGoogleCalendarEventsMapper(t *testing.T) {
	t.Parallel()
	clk := testClock(t)

	tests := []struct {
		name      string
		raw       map[string]any
		wantStart string
		wantTitle string
	}{
		{
			name: "timed event",
			raw: map[string]any{
				"id":      "e1",
				"summary": "standup",
				"status":  "confirmed",
				"start":   map[string]any{"dateTime": "2024-06-13T09:00:00+02:00"},
				"end":     map[string]any{"dateTime": "2024-06-13T09:15:00+02:00"},
			},
			wantStart: "2024-06-13T09:00:00+02:00",
			wantTitle: "standup",
		},
		{
			name: "all-day event",
			raw: map[string]any{
				"id":    "e2",
				"start": map[string]any{"date": "2024-06-14"},
				"end":   map[string]any{"date": "2024-06-15"},
			},
			wantStart: "2024-06-14T00:00:00+02:00",
			wantTitle: model.Untitled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			it, err := NewGoogleCalendarEvents(clk).ToItem(tt.raw)
			if err != nil {
				t.Fatalf("ToItem: %v", err)
			}
			if it.Type != model.ItemTypeEvent || it.Source != model.SourceGoogleCalendar {
				t.Errorf("type/source = %s/%s", it.Type, it.Source)
			}
			if it.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", it.Title, tt.wantTitle)
			}
			if it.StartRaw != tt.wantStart {
				t.Errorf("StartRaw = %q, want %q", it.StartRaw, tt.wantStart)
			}
		})
	}
}

func TestGoogleCalendarCancelledMarksDeleted(t *testing.T) {
	t.Parallel()
	clk := testClock(t)

	it, err := NewGoogleCalendarEvents(clk).ToItem(map[string]any{
		"id":     "e3",
		"status": "cancelled",
	})
	if err != nil {
		t.Fatalf("ToItem: %v", err)
	}
	if !it.Deleted {
		t.Error("cancelled event should be marked deleted")
	}
	if it.Status != model.StatusCancelled {
		t.Errorf("Status = %q, want cancelled", it.Status)
	}
}

func TestTodoistTasksMapper(t *testing.T) {
	t.Parallel()
	clk := testClock(t)

	raw := map[string]any{
		"id":           "101",
		"content":      "buy milk",
		"description":  "2% if possible",
		"is_completed": false,
		"priority":     4.0, // urgent on the Todoist scale
		"order":        3.0,
		"parent_id":    "100",
		"project_id":   "p9",
		"labels":       []any{"errand", "home"},
		"due":          map[string]any{"date": "2024-06-13"},
		"url":          "https://todoist.com/task/101",
	}

	it, err := NewTodoistTasks(clk).ToItem(raw)
	if err != nil {
		t.Fatalf("ToItem: %v", err)
	}
	if it.Title != "buy milk" || it.Source != model.SourceTodoist {
		t.Errorf("title/source = %q/%s", it.Title, it.Source)
	}
	if it.Status != model.StatusNeedsAction {
		t.Errorf("Status = %q", it.Status)
	}
	if it.Priority != 1 {
		t.Errorf("Priority = %d, want 1 (inverted scale)", it.Priority)
	}
	if it.Position != "3" {
		t.Errorf("Position = %q, want \"3\"", it.Position)
	}
	if len(it.Labels) != 2 || it.Labels[0] != "errand" {
		t.Errorf("Labels = %v", it.Labels)
	}
	if got := clk.LocalDate(it.StartAt()); got != clock.NewDate(2024, time.June, 13) {
		t.Errorf("due = %v, want 2024-06-13", got)
	}
}

func TestTodoistCompletedStatus(t *testing.T) {
	t.Parallel()
	clk := testClock(t)

	it, err := NewTodoistTasks(clk).ToItem(map[string]any{
		"id":           "102",
		"content":      "done thing",
		"is_completed": true,
	})
	if err != nil {
		t.Fatalf("ToItem: %v", err)
	}
	if it.Status != model.StatusCompleted {
		t.Errorf("Status = %q, want completed", it.Status)
	}
	if it.Priority != 1 {
		t.Errorf("Priority default = %d, want 1 (inverted from the scale default)", it.Priority)
	}
}
