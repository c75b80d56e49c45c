package sources

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/coreassistant/planned/internal/model"
	"github.com/coreassistant/planned/internal/period"
)

func pendingTask(id string, subs ...*model.Item) *model.Item {
	for _, sub := range subs {
		sub.Parent = id
	}
	return &model.Item{ID: id, Status: model.StatusNeedsAction, Subitems: subs}
}

func doneTask(id string, subs ...*model.Item) *model.Item {
	for _, sub := range subs {
		sub.Parent = id
	}
	return &model.Item{ID: id, Status: model.StatusCompleted, Subitems: subs}
}

func TestAutoCompleterCompletesParent(t *testing.T) {
	t.Parallel()

	parent := pendingTask("p", doneTask("s1"), doneTask("s2"))

	var marked []string
	completer := NewAutoCompleter(zap.NewNop())
	got := completer.Process(context.Background(), []*model.Item{parent},
		func(_ context.Context, id string) error {
			marked = append(marked, id)
			return nil
		})

	if got != 1 {
		t.Fatalf("completed = %d, want 1", got)
	}
	if len(marked) != 1 || marked[0] != "p" {
		t.Errorf("marked = %v, want [p]", marked)
	}
	if parent.Status != model.StatusCompleted {
		t.Errorf("parent status = %q, want completed", parent.Status)
	}
}

func TestAutoCompleterCompletesDeepestFirst(t *testing.T) {
	t.Parallel()

	child := pendingTask("child", doneTask("leaf1"), doneTask("leaf2"))
	root := pendingTask("root", child)

	var marked []string
	completer := NewAutoCompleter(zap.NewNop())
	got := completer.Process(context.Background(), []*model.Item{root},
		func(_ context.Context, id string) error {
			marked = append(marked, id)
			return nil
		})

	if got != 2 {
		t.Fatalf("completed = %d, want 2", got)
	}
	if len(marked) != 2 || marked[0] != "child" || marked[1] != "root" {
		t.Errorf("marked = %v, want [child root]", marked)
	}
}

func TestAutoCompleterLeavesPendingWork(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		task *model.Item
	}{
		{"pending subtask", pendingTask("p", doneTask("s1"), pendingTask("s2"))},
		{"no subtasks", pendingTask("p")},
		{"already completed", doneTask("p", doneTask("s1"))},
		{"completed subtask hides pending grandchild", pendingTask("p", doneTask("s", pendingTask("g")))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			completer := NewAutoCompleter(zap.NewNop())
			got := completer.Process(context.Background(), []*model.Item{tt.task},
				func(context.Context, string) error {
					t.Error("complete should not be called")
					return nil
				})
			if got != 0 {
				t.Errorf("completed = %d, want 0", got)
			}
		})
	}
}

func TestAutoCompleterKeepsStatusOnError(t *testing.T) {
	t.Parallel()

	parent := pendingTask("p", doneTask("s1"))

	completer := NewAutoCompleter(zap.NewNop())
	got := completer.Process(context.Background(), []*model.Item{parent},
		func(context.Context, string) error { return errors.New("boom") })

	if got != 0 {
		t.Errorf("completed = %d, want 0", got)
	}
	if parent.Status != model.StatusNeedsAction {
		t.Errorf("parent status = %q, want needs_action", parent.Status)
	}
}

type fakeTaskSource struct {
	marked      []string
	refetches   int
	refetched   []*model.Item
	completeErr error
}

func (f *fakeTaskSource) Name() string { return "fake" }

func (f *fakeTaskSource) TaskLists(context.Context) ([]*model.ItemList, error) {
	return nil, nil
}

func (f *fakeTaskSource) PendingTasks(_ context.Context, list *model.ItemList, _ period.Period) ([]*model.Item, error) {
	f.refetches++
	return f.refetched, nil
}

func (f *fakeTaskSource) MarkComplete(_ context.Context, _ *model.ItemList, itemID string) error {
	if f.completeErr != nil {
		return f.completeErr
	}
	f.marked = append(f.marked, itemID)
	return nil
}

func TestApplyAutoCompleteRefetchesAfterCompletion(t *testing.T) {
	t.Parallel()

	listA := &model.ItemList{Kind: model.ListKindTaskList, ID: "a", Name: "A"}
	listB := &model.ItemList{Kind: model.ListKindTaskList, ID: "b", Name: "B"}

	parent := pendingTask("p", doneTask("s1"))
	parent.List = listA
	other := pendingTask("q")
	other.List = listB

	src := &fakeTaskSource{refetched: []*model.Item{{ID: "fresh"}}}
	got := ApplyAutoComplete(context.Background(), zap.NewNop(), src,
		[]*model.ItemList{listA, listB}, period.Period{}, []*model.Item{parent, other})

	if len(src.marked) != 1 || src.marked[0] != "p" {
		t.Errorf("marked = %v, want [p]", src.marked)
	}
	if src.refetches != 2 {
		t.Errorf("refetches = %d, want 2 (one per list)", src.refetches)
	}
	if len(got) != 2 || got[0].ID != "fresh" {
		t.Errorf("got = %v, want the refetched items", got)
	}
}

func TestApplyAutoCompleteKeepsTasksWhenNothingCompleted(t *testing.T) {
	t.Parallel()

	list := &model.ItemList{Kind: model.ListKindTaskList, ID: "a", Name: "A"}
	task := pendingTask("p", pendingTask("s1"))
	task.List = list

	src := &fakeTaskSource{}
	tasks := []*model.Item{task}
	got := ApplyAutoComplete(context.Background(), zap.NewNop(), src,
		[]*model.ItemList{list}, period.Period{}, tasks)

	if src.refetches != 0 {
		t.Errorf("refetches = %d, want 0", src.refetches)
	}
	if len(got) != 1 || got[0] != task {
		t.Errorf("got = %v, want the original tasks", got)
	}
}
