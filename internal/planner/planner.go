// Package planner wires the sources, the sorter and the grouper into
// the agenda pipeline: fetch tasks and events, auto-complete finished
// parents, sort everything and classify it into time buckets.
package planner

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/coreassistant/planned/internal/clock"
	"github.com/coreassistant/planned/internal/config"
	"github.com/coreassistant/planned/internal/grouper"
	"github.com/coreassistant/planned/internal/model"
	"github.com/coreassistant/planned/internal/period"
	"github.com/coreassistant/planned/internal/sources"
	"github.com/coreassistant/planned/internal/sources/google"
	"github.com/coreassistant/planned/internal/sources/todoist"
)

const (
	// TaskWindowDays is how far ahead dated tasks are fetched.
	TaskWindowDays = 120
	// EventWindowDays is how far ahead events are fetched.
	EventWindowDays = 60
)

// Planner runs the agenda pipeline over the configured sources.
type Planner struct {
	clk clock.Clock
	log *zap.Logger

	taskSources  []sources.TaskSource
	eventSources []sources.EventSource

	taskWindow  period.Period
	eventWindow period.Period
}

// New builds a planner from configuration. The Google client is only
// constructed when a Google-backed mode is active, so Todoist-only
// setups need no credentials file.
func New(ctx context.Context, cfg *config.Config, clk clock.Clock, log *zap.Logger) (*Planner, error) {
	taskDays := TaskWindowDays
	taskWindow, err := period.New(clk.Today, period.Options{Duration: &taskDays})
	if err != nil {
		return nil, fmt.Errorf("failed to build task window: %w", err)
	}
	eventDays := EventWindowDays
	today := clk.Today
	eventWindow, err := period.New(clk.Today, period.Options{Start: &today, Duration: &eventDays})
	if err != nil {
		return nil, fmt.Errorf("failed to build event window: %w", err)
	}

	p := &Planner{
		clk:         clk,
		log:         log,
		taskWindow:  taskWindow,
		eventWindow: eventWindow,
	}

	if cfg.UseGoogle() {
		client, err := google.NewClient(ctx, cfg.GoogleCredentialsFile, cfg.GoogleTokenFile)
		if err != nil {
			return nil, fmt.Errorf("failed to build google client: %w", err)
		}
		src := google.New(clk, client, log, cfg.IsIgnored, cfg.MaxResults)
		p.taskSources = append(p.taskSources, src)
		p.eventSources = append(p.eventSources, src)
	}
	if cfg.UseTodoist() {
		client := todoist.NewClient(cfg.TodoistAPIToken)
		src := todoist.New(clk, client, log, cfg.IsIgnored, cfg.MaxResults)
		p.taskSources = append(p.taskSources, src)
	}
	if len(p.taskSources) == 0 && len(p.eventSources) == 0 {
		return nil, fmt.Errorf("no sources configured for mode %q", cfg.Mode)
	}
	return p, nil
}

// NewWithSources builds a planner over explicit sources. Tests use it
// to avoid real providers.
func NewWithSources(clk clock.Clock, log *zap.Logger, taskSources []sources.TaskSource, eventSources []sources.EventSource) (*Planner, error) {
	taskDays := TaskWindowDays
	taskWindow, err := period.New(clk.Today, period.Options{Duration: &taskDays})
	if err != nil {
		return nil, err
	}
	eventDays := EventWindowDays
	today := clk.Today
	eventWindow, err := period.New(clk.Today, period.Options{Start: &today, Duration: &eventDays})
	if err != nil {
		return nil, err
	}
	return &Planner{
		clk:          clk,
		log:          log,
		taskSources:  taskSources,
		eventSources: eventSources,
		taskWindow:   taskWindow,
		eventWindow:  eventWindow,
	}, nil
}

// Clock exposes the temporal reference the pipeline runs against.
func (p *Planner) Clock() clock.Clock { return p.clk }

// Containers returns every container the active sources expose, task
// lists first, calendars after.
func (p *Planner) Containers(ctx context.Context) ([]*model.ItemList, error) {
	var lists []*model.ItemList
	for _, src := range p.taskSources {
		found, err := src.TaskLists(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s containers: %w", src.Name(), err)
		}
		lists = append(lists, found...)
	}
	for _, src := range p.eventSources {
		found, err := src.Calendars(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s calendars: %w", src.Name(), err)
		}
		lists = append(lists, found...)
	}
	return lists, nil
}

// Plan fetches everything, sorts it and classifies it into the twelve
// time buckets.
func (p *Planner) Plan(ctx context.Context) ([]grouper.Bucket, error) {
	log := p.log.With(zap.String("run_id", uuid.NewString()))

	var items []*model.Item
	for _, src := range p.taskSources {
		tasks, err := p.fetchTasks(ctx, log, src)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s tasks: %w", src.Name(), err)
		}
		log.Info("tasks fetched",
			zap.String("source", src.Name()),
			zap.Int("tasks", len(tasks)))
		items = append(items, tasks...)
	}
	for _, src := range p.eventSources {
		events, err := p.fetchEvents(ctx, log, src)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s events: %w", src.Name(), err)
		}
		log.Info("events fetched",
			zap.String("source", src.Name()),
			zap.Int("events", len(events)))
		items = append(items, events...)
	}

	sorted := model.Sort(p.clk, items)
	buckets, err := grouper.New(p.clk).Group(sorted)
	if err != nil {
		return nil, fmt.Errorf("failed to group items: %w", err)
	}
	return buckets, nil
}

func (p *Planner) fetchTasks(ctx context.Context, log *zap.Logger, src sources.TaskSource) ([]*model.Item, error) {
	lists, err := src.TaskLists(ctx)
	if err != nil {
		return nil, err
	}
	tasks := sources.FetchFromLists(ctx, log, lists, func(ctx context.Context, list *model.ItemList) ([]*model.Item, error) {
		return src.PendingTasks(ctx, list, p.taskWindow)
	})
	return sources.ApplyAutoComplete(ctx, log, src, lists, p.taskWindow, tasks), nil
}

func (p *Planner) fetchEvents(ctx context.Context, log *zap.Logger, src sources.EventSource) ([]*model.Item, error) {
	lists, err := src.Calendars(ctx)
	if err != nil {
		return nil, err
	}
	return sources.FetchFromLists(ctx, log, lists, func(ctx context.Context, list *model.ItemList) ([]*model.Item, error) {
		return src.UpcomingEvents(ctx, list, p.eventWindow)
	}), nil
}
