package sources

import (
	"context"

	"go.uber.org/zap"

	"github.com/coreassistant/planned/internal/model"
	"github.com/coreassistant/planned/internal/period"
)

// CompleteFunc marks one task complete at its provider.
type CompleteFunc func(ctx context.Context, itemID string) error

// AutoCompleter finishes parent tasks whose entire subtree is already
// done: once every subtask of a pending parent is completed, the
// parent is marked complete at the provider and locally.
type AutoCompleter struct {
	log       *zap.Logger
	processed map[string]bool
}

// NewAutoCompleter builds a completer logging through log.
func NewAutoCompleter(log *zap.Logger) *AutoCompleter {
	return &AutoCompleter{log: log}
}

// Process walks the given root tasks depth first, deepest parents
// first, and returns how many were auto-completed.
func (a *AutoCompleter) Process(ctx context.Context, tasks []*model.Item, complete CompleteFunc) int {
	a.processed = make(map[string]bool)
	completed := 0
	for _, task := range tasks {
		if task.IsRoot() && task.ID != "" && !a.processed[task.ID] {
			completed += a.processRecursive(ctx, task, complete)
		}
	}
	a.log.Info("auto-completion finished", zap.Int("completed", completed))
	return completed
}

func (a *AutoCompleter) processRecursive(ctx context.Context, task *model.Item, complete CompleteFunc) int {
	if task.ID == "" || a.processed[task.ID] {
		return 0
	}
	a.processed[task.ID] = true

	completed := 0
	for _, sub := range task.Subitems {
		completed += a.processRecursive(ctx, sub, complete)
	}

	if a.shouldComplete(task) {
		if err := complete(ctx, task.ID); err != nil {
			a.log.Warn("marking task complete failed",
				zap.String("task_id", task.ID),
				zap.String("title", task.Title),
				zap.Error(err))
		} else {
			completed++
			task.Status = model.StatusCompleted
			a.log.Info("task auto-completed",
				zap.String("task_id", task.ID),
				zap.String("title", task.Title))
		}
	}
	return completed
}

func (a *AutoCompleter) shouldComplete(task *model.Item) bool {
	if task.Status == model.StatusCompleted {
		return false
	}
	if len(task.Subitems) == 0 {
		return false
	}
	return allSubtasksCompleted(task)
}

// ApplyAutoComplete runs the completer over the tasks of every list
// and, when anything was completed, refetches all lists so the
// returned set reflects the provider state. With nothing completed
// the input tasks are returned unchanged.
func ApplyAutoComplete(ctx context.Context, log *zap.Logger, src TaskSource, lists []*model.ItemList, window period.Period, tasks []*model.Item) []*model.Item {
	completer := NewAutoCompleter(log)
	total := 0
	for _, list := range lists {
		var listTasks []*model.Item
		for _, task := range tasks {
			if task.List != nil && task.List.ID == list.ID {
				listTasks = append(listTasks, task)
			}
		}
		if len(listTasks) == 0 {
			continue
		}
		list := list
		total += completer.Process(ctx, listTasks, func(ctx context.Context, itemID string) error {
			return src.MarkComplete(ctx, list, itemID)
		})
	}
	if total == 0 {
		return tasks
	}
	log.Info("refetching tasks after auto-completion",
		zap.String("source", src.Name()),
		zap.Int("completed", total))
	return FetchFromLists(ctx, log, lists, func(ctx context.Context, list *model.ItemList) ([]*model.Item, error) {
		return src.PendingTasks(ctx, list, window)
	})
}

func allSubtasksCompleted(task *model.Item) bool {
	for _, sub := range task.Subitems {
		if sub.Status != model.StatusCompleted {
			return false
		}
		if !allSubtasksCompleted(sub) {
			return false
		}
	}
	return true
}
