package planner

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/coreassistant/planned/internal/clock"
	"github.com/coreassistant/planned/internal/model"
	"github.com/coreassistant/planned/internal/period"
	"github.com/coreassistant/planned/internal/sources"
)

func testClock(t *testing.T) clock.Clock {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Madrid")
	if err != nil {
		t.Fatalf("failed to load location: %v", err)
	}
	return clock.New(loc, time.Date(2024, time.June, 12, 10, 0, 0, 0, loc))
}

func newItem(t *testing.T, clk clock.Clock, typ model.ItemType, id, title, startRaw string) *model.Item {
	t.Helper()
	status := model.StatusNeedsAction
	if typ == model.ItemTypeEvent {
		status = model.StatusConfirmed
	}
	it, err := model.New(clk, model.Item{
		Type:     typ,
		ID:       id,
		Title:    title,
		Status:   status,
		StartRaw: startRaw,
	})
	if err != nil {
		t.Fatalf("failed to build item: %v", err)
	}
	return it
}

type stubTaskSource struct {
	lists    []*model.ItemList
	tasks    []*model.Item
	listsErr error
}

func (s *stubTaskSource) Name() string { return "stub-tasks" }

func (s *stubTaskSource) TaskLists(context.Context) ([]*model.ItemList, error) {
	return s.lists, s.listsErr
}

func (s *stubTaskSource) PendingTasks(context.Context, *model.ItemList, period.Period) ([]*model.Item, error) {
	return s.tasks, nil
}

func (s *stubTaskSource) MarkComplete(context.Context, *model.ItemList, string) error {
	return nil
}

type stubEventSource struct {
	lists  []*model.ItemList
	events []*model.Item
}

func (s *stubEventSource) Name() string { return "stub-events" }

func (s *stubEventSource) Calendars(context.Context) ([]*model.ItemList, error) {
	return s.lists, nil
}

func (s *stubEventSource) UpcomingEvents(context.Context, *model.ItemList, period.Period) ([]*model.Item, error) {
	return s.events, nil
}

func TestPlanGroupsTasksAndEvents(t *testing.T) {
	t.Parallel()

	clk := testClock(t)
	taskList := &model.ItemList{Kind: model.ListKindTaskList, ID: "tl", Name: "Tasks"}
	calendar := &model.ItemList{Kind: model.ListKindCalendar, ID: "cal", Name: "Personal"}

	taskSrc := &stubTaskSource{
		lists: []*model.ItemList{taskList},
		tasks: []*model.Item{
			newItem(t, clk, model.ItemTypeTask, "t1", "file expenses", "2024-06-12T00:00:00+02:00"),
		},
	}
	eventSrc := &stubEventSource{
		lists: []*model.ItemList{calendar},
		events: []*model.Item{
			newItem(t, clk, model.ItemTypeEvent, "e1", "standup", "2024-06-12T15:00:00+02:00"),
		},
	}

	p, err := NewWithSources(clk, zap.NewNop(), []sources.TaskSource{taskSrc}, []sources.EventSource{eventSrc})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	buckets, err := p.Plan(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(buckets) != len(model.Groups()) {
		t.Fatalf("got %d buckets, want %d", len(buckets), len(model.Groups()))
	}

	var today []string
	for _, bucket := range buckets {
		if bucket.Group == model.GroupToday {
			for _, item := range bucket.Items {
				today = append(today, item.Title)
			}
		}
	}
	want := []string{"file expenses", "standup"}
	if len(today) != len(want) {
		t.Fatalf("TODAY items = %v, want %v", today, want)
	}
	for i := range want {
		if today[i] != want[i] {
			t.Errorf("TODAY[%d] = %q, want %q", i, today[i], want[i])
		}
	}
}

func TestPlanPropagatesListErrors(t *testing.T) {
	t.Parallel()

	clk := testClock(t)
	taskSrc := &stubTaskSource{listsErr: errors.New("token expired")}

	p, err := NewWithSources(clk, zap.NewNop(), []sources.TaskSource{taskSrc}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Plan(context.Background()); err == nil {
		t.Fatal("expected error, got nil")
	}
}
