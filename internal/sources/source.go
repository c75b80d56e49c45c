// Package sources defines the provider contract and the provider
// independent fetch plumbing: sequential list fetching with per-list
// failure isolation, container record validation, and the parent task
// auto-completion pass.
package sources

import (
	"context"

	"github.com/coreassistant/planned/internal/model"
	"github.com/coreassistant/planned/internal/period"
)

// TaskSource is a provider of task containers and their tasks.
type TaskSource interface {
	Name() string
	TaskLists(ctx context.Context) ([]*model.ItemList, error)
	// PendingTasks returns the root tasks still needing action in the
	// list, subtasks attached. The window bounds the dated fetch;
	// undated tasks are always included.
	PendingTasks(ctx context.Context, list *model.ItemList, window period.Period) ([]*model.Item, error)
	MarkComplete(ctx context.Context, list *model.ItemList, itemID string) error
}

// EventSource is a provider of calendars and their upcoming events.
type EventSource interface {
	Name() string
	Calendars(ctx context.Context) ([]*model.ItemList, error)
	// UpcomingEvents returns the events inside the window that have
	// not already finished.
	UpcomingEvents(ctx context.Context, list *model.ItemList, window period.Period) ([]*model.Item, error)
}
