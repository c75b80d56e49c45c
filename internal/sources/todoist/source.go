package todoist

import (
	"context"

	"go.uber.org/zap"

	"github.com/coreassistant/planned/internal/clock"
	"github.com/coreassistant/planned/internal/hierarchy"
	"github.com/coreassistant/planned/internal/mapper"
	"github.com/coreassistant/planned/internal/model"
	"github.com/coreassistant/planned/internal/period"
	"github.com/coreassistant/planned/internal/sources"
)

// DefaultMaxItems caps how many tasks one query may return.
const DefaultMaxItems = 200

// Source provides Todoist projects and their tasks through the
// sources contract.
type Source struct {
	client   *Client
	log      *zap.Logger
	ignored  sources.IgnoreFunc
	maxItems int

	tasksMapper *mapper.Table
}

// New builds a source over a REST client. ignored filters projects out
// by name and may be nil. maxItems <= 0 falls back to DefaultMaxItems.
func New(clk clock.Clock, client *Client, log *zap.Logger, ignored sources.IgnoreFunc, maxItems int) *Source {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	return &Source{
		client:      client,
		log:         log,
		ignored:     ignored,
		maxItems:    maxItems,
		tasksMapper: mapper.NewTodoistTasks(clk),
	}
}

// Name identifies the provider in logs.
func (s *Source) Name() string { return "todoist" }

// TaskLists returns the token's projects, validated and with ignored
// names filtered out.
func (s *Source) TaskLists(ctx context.Context) ([]*model.ItemList, error) {
	projects, err := s.client.Projects(ctx)
	if err != nil {
		return nil, err
	}

	var lists []*model.ItemList
	for _, raw := range projects {
		if len(lists) >= s.maxItems {
			break
		}
		list, err := sources.BuildTodoistProject(raw, s.ignored)
		if err != nil {
			s.log.Warn("skipping invalid project", zap.Error(err))
			continue
		}
		if list == nil {
			continue
		}
		lists = append(lists, list)
	}
	return lists, nil
}

// projectFilter returns the project id to query by. The inbox
// pseudo-id and non-numeric ids mean an unscoped query.
func projectFilter(list *model.ItemList) string {
	id := list.ID
	if id == "" || id == "inbox" || !isDigits(id) {
		return ""
	}
	return id
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// PendingTasks fetches the project's active tasks, builds the subtask
// hierarchy, and returns the root tasks still needing action. The
// REST API only returns open tasks, so the window is not used.
func (s *Source) PendingTasks(ctx context.Context, list *model.ItemList, _ period.Period) ([]*model.Item, error) {
	tasks, err := s.client.Tasks(ctx, projectFilter(list))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var records []map[string]any
	for _, record := range tasks {
		if len(records) >= s.maxItems {
			break
		}
		if completed, _ := record["is_completed"].(bool); completed {
			continue
		}
		id, _ := record["id"].(string)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		record[mapper.PlannedListKey] = list
		records = append(records, record)
		seen[id] = struct{}{}
	}

	builder := hierarchy.Builder{Policy: hierarchy.Lenient}
	items, err := builder.Build(records, s.tasksMapper)
	if err != nil {
		return nil, err
	}

	var pending []*model.Item
	for _, task := range items {
		if task.IsRoot() && task.Status == model.StatusNeedsAction {
			pending = append(pending, task)
		}
	}
	return pending, nil
}

// MarkComplete closes the task at the provider.
func (s *Source) MarkComplete(ctx context.Context, _ *model.ItemList, itemID string) error {
	return s.client.CloseTask(ctx, itemID)
}
