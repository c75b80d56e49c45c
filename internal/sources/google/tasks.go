package google

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/coreassistant/planned/internal/clock"
	"github.com/coreassistant/planned/internal/hierarchy"
	"github.com/coreassistant/planned/internal/mapper"
	"github.com/coreassistant/planned/internal/model"
	"github.com/coreassistant/planned/internal/period"
)

// taskCollector deduplicates raw task records by id across the dated
// and undated fetches and stamps each record with its container.
type taskCollector struct {
	list  *model.ItemList
	items []map[string]any
	seen  map[string]struct{}
}

func newTaskCollector(list *model.ItemList) *taskCollector {
	return &taskCollector{list: list, seen: make(map[string]struct{})}
}

func (c *taskCollector) add(records []map[string]any) {
	for _, record := range records {
		id, _ := record["id"].(string)
		if id == "" {
			continue
		}
		if _, dup := c.seen[id]; dup {
			continue
		}
		record[mapper.PlannedListKey] = c.list
		c.items = append(c.items, record)
		c.seen[id] = struct{}{}
	}
}

// dayBoundStamp renders a due filter bound: the local wall date with
// the requested time of day and a Z suffix, the form the Tasks API
// compares due timestamps against.
func dayBoundStamp(d clock.Date, endOfDay bool) string {
	if endOfDay {
		return d.String() + "T23:59:59.999Z"
	}
	return d.String() + "T00:00:00.000Z"
}

// PendingTasks fetches the list's tasks due inside the window plus all
// undated tasks, builds the subtask hierarchy, and returns the root
// tasks still needing action.
func (s *Source) PendingTasks(ctx context.Context, list *model.ItemList, window period.Period) ([]*model.Item, error) {
	collector := newTaskCollector(list)

	dated := url.Values{}
	dated.Set("dueMin", dayBoundStamp(window.Start, false))
	dated.Set("dueMax", dayBoundStamp(window.End, true))
	if err := s.fetchTaskPages(ctx, collector, list, dated, false); err != nil {
		return nil, err
	}
	if err := s.fetchTaskPages(ctx, collector, list, nil, true); err != nil {
		return nil, err
	}

	builder := hierarchy.Builder{Policy: hierarchy.Lenient}
	tasks, err := builder.Build(collector.items, s.tasksMapper)
	if err != nil {
		return nil, err
	}

	var pending []*model.Item
	for _, task := range tasks {
		if task.IsRoot() && task.Status == model.StatusNeedsAction {
			pending = append(pending, task)
		}
	}
	return pending, nil
}

// fetchTaskPages pages through the list's tasks until the collector is
// full or the pages run out. With undatedOnly set, records carrying a
// due date are dropped.
func (s *Source) fetchTaskPages(ctx context.Context, collector *taskCollector, list *model.ItemList, extra url.Values, undatedOnly bool) error {
	token := ""
	for {
		remaining := s.maxItems - len(collector.items)
		if remaining < 1 {
			remaining = 1
		}
		size := tasksPageCap
		if remaining < size {
			size = remaining
		}

		params := url.Values{}
		params.Set("showCompleted", "true")
		params.Set("showHidden", "true")
		params.Set("showDeleted", "false")
		params.Set("maxResults", strconv.Itoa(size))
		if token != "" {
			params.Set("pageToken", token)
		}
		for key, values := range extra {
			for _, value := range values {
				params.Add(key, value)
			}
		}

		var p page
		endpoint := s.client.tasksURL("/lists/" + url.PathEscape(list.ID) + "/tasks")
		if err := s.client.getJSON(ctx, endpoint, params, &p); err != nil {
			return err
		}

		records := p.Items
		if undatedOnly {
			undated := records[:0]
			for _, record := range records {
				if _, hasDue := record["due"]; !hasDue {
					undated = append(undated, record)
				}
			}
			records = undated
		}
		collector.add(records)

		if p.NextPageToken == "" || len(collector.items) >= s.maxItems {
			return nil
		}
		token = p.NextPageToken
	}
}

// MarkComplete flags the task completed at the provider.
func (s *Source) MarkComplete(ctx context.Context, list *model.ItemList, itemID string) error {
	body := map[string]any{
		"id":        itemID,
		"status":    "completed",
		"completed": s.clk.Now.UTC().Format(time.RFC3339),
	}
	endpoint := s.client.tasksURL("/lists/" + url.PathEscape(list.ID) + "/tasks/" + url.PathEscape(itemID))
	return s.client.putJSON(ctx, endpoint, body)
}
