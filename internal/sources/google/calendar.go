package google

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/coreassistant/planned/internal/hierarchy"
	"github.com/coreassistant/planned/internal/mapper"
	"github.com/coreassistant/planned/internal/model"
	"github.com/coreassistant/planned/internal/period"
)

// isPast reports whether the event is already over: its end has
// passed, or it has no end and its start has passed.
func isPast(now time.Time, it *model.Item) bool {
	start := it.StartAt()
	end := it.EndAt()
	if end != nil && end.Before(now) {
		return true
	}
	if start != nil && end == nil && start.Before(now) {
		return true
	}
	return false
}

// UpcomingEvents fetches the calendar's events inside the window,
// recurrences expanded to single instances, and drops the ones that
// already finished.
func (s *Source) UpcomingEvents(ctx context.Context, list *model.ItemList, window period.Period) ([]*model.Item, error) {
	timeMin := window.Start.String() + "T00:00:00Z"
	timeMax := window.End.String() + "T23:59:59Z"

	records, err := paginate(ctx, func(ctx context.Context, token string, size int) (page, error) {
		params := url.Values{}
		params.Set("singleEvents", "true")
		params.Set("maxResults", strconv.Itoa(size))
		params.Set("timeMin", timeMin)
		params.Set("timeMax", timeMax)
		if token != "" {
			params.Set("pageToken", token)
		}
		var p page
		endpoint := s.client.calendarURL("/calendars/" + url.PathEscape(list.ID) + "/events")
		err := s.client.getJSON(ctx, endpoint, params, &p)
		return p, err
	}, s.maxItems, eventsPageCap)
	if err != nil {
		return nil, err
	}

	for _, record := range records {
		record[mapper.PlannedListKey] = list
	}

	builder := hierarchy.Builder{Policy: hierarchy.Lenient}
	events, err := builder.Build(records, s.eventsMapper)
	if err != nil {
		return nil, err
	}

	var upcoming []*model.Item
	for _, event := range events {
		if !isPast(s.clk.Now, event) {
			upcoming = append(upcoming, event)
		}
	}
	return upcoming, nil
}
