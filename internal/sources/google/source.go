package google

import (
	"context"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/coreassistant/planned/internal/clock"
	"github.com/coreassistant/planned/internal/mapper"
	"github.com/coreassistant/planned/internal/model"
	"github.com/coreassistant/planned/internal/sources"
)

const (
	// DefaultMaxItems caps how many records one query may accumulate.
	DefaultMaxItems = 200

	tasksPageCap        = 100
	calendarListPageCap = 250
	eventsPageCap       = 250
)

// Source provides Google Tasks task lists and Google Calendar
// calendars through the sources contracts.
type Source struct {
	clk      clock.Clock
	client   *Client
	log      *zap.Logger
	ignored  sources.IgnoreFunc
	maxItems int

	tasksMapper  *mapper.Table
	eventsMapper *mapper.Table
}

// New builds a source over an authorized client. ignored filters
// containers out by name and may be nil. maxItems <= 0 falls back to
// DefaultMaxItems.
func New(clk clock.Clock, client *Client, log *zap.Logger, ignored sources.IgnoreFunc, maxItems int) *Source {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	return &Source{
		clk:          clk,
		client:       client,
		log:          log,
		ignored:      ignored,
		maxItems:     maxItems,
		tasksMapper:  mapper.NewGoogleTasks(clk),
		eventsMapper: mapper.NewGoogleCalendarEvents(clk),
	}
}

// Name identifies the provider in logs.
func (s *Source) Name() string { return "google" }

// page is the common envelope of Tasks and Calendar list responses.
type page struct {
	Items         []map[string]any `json:"items"`
	NextPageToken string           `json:"nextPageToken"`
}

type pageFunc func(ctx context.Context, pageToken string, pageSize int) (page, error)

// paginate walks pages until maxItems records are collected or the
// token runs out.
func paginate(ctx context.Context, fetch pageFunc, maxItems, pageCap int) ([]map[string]any, error) {
	var results []map[string]any
	token := ""
	for {
		remaining := maxItems - len(results)
		if remaining < 1 {
			remaining = 1
		}
		size := pageCap
		if remaining < size {
			size = remaining
		}

		p, err := fetch(ctx, token, size)
		if err != nil {
			return nil, err
		}
		for _, record := range p.Items {
			results = append(results, record)
			if len(results) >= maxItems {
				return results, nil
			}
		}
		if p.NextPageToken == "" {
			return results, nil
		}
		token = p.NextPageToken
	}
}

// TaskLists returns the account's task lists, validated and with
// ignored names filtered out.
func (s *Source) TaskLists(ctx context.Context) ([]*model.ItemList, error) {
	records, err := paginate(ctx, func(ctx context.Context, token string, size int) (page, error) {
		params := url.Values{}
		params.Set("maxResults", strconv.Itoa(size))
		if token != "" {
			params.Set("pageToken", token)
		}
		var p page
		err := s.client.getJSON(ctx, s.client.tasksURL("/users/@me/lists"), params, &p)
		return p, err
	}, s.maxItems, tasksPageCap)
	if err != nil {
		return nil, err
	}

	var lists []*model.ItemList
	for _, raw := range records {
		list, err := sources.BuildTaskList(raw, s.ignored)
		if err != nil {
			s.log.Warn("skipping invalid task list", zap.Error(err))
			continue
		}
		if list == nil {
			continue
		}
		lists = append(lists, list)
	}
	return lists, nil
}

// Calendars returns the account's calendar list, validated and with
// ignored names filtered out.
func (s *Source) Calendars(ctx context.Context) ([]*model.ItemList, error) {
	records, err := paginate(ctx, func(ctx context.Context, token string, size int) (page, error) {
		params := url.Values{}
		params.Set("maxResults", strconv.Itoa(size))
		params.Set("minAccessRole", "reader")
		params.Set("showHidden", "true")
		if token != "" {
			params.Set("pageToken", token)
		}
		var p page
		err := s.client.getJSON(ctx, s.client.calendarURL("/users/me/calendarList"), params, &p)
		return p, err
	}, s.maxItems, calendarListPageCap)
	if err != nil {
		return nil, err
	}

	var lists []*model.ItemList
	for _, raw := range records {
		list, err := sources.BuildCalendar(raw, s.ignored)
		if err != nil {
			s.log.Warn("skipping invalid calendar", zap.Error(err))
			continue
		}
		if list == nil {
			continue
		}
		lists = append(lists, list)
	}
	return lists, nil
}
