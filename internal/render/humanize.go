package render

import (
	"strings"
	"time"

	"github.com/coreassistant/planned/internal/model"
)

// StartContext carries the item facts that pick the start timestamp's
// display form.
type StartContext struct {
	Type            model.ItemType
	AllDay          bool
	CalendarDays    int
	TodayOrTomorrow bool
	SpanningNow     bool
}

// EndContext carries the item facts that pick the end timestamp's
// display form.
type EndContext struct {
	AllDay       bool
	CalendarDays int
}

// DateConverter turns stored RFC 3339 timestamps into the shortest
// human form that still disambiguates: bare times for today's timed
// events, bare dates for all-day spans, full timestamps only for
// timed multi-day events.
type DateConverter struct {
	loc *time.Location
}

// NewDateConverter converts into loc.
func NewDateConverter(loc *time.Location) DateConverter {
	return DateConverter{loc: loc}
}

const (
	timeOnlyLayout = "15:04:05Z07:00"
	dateLayout     = "2006-01-02"
	stampLayout    = "2006-01-02T15:04:05Z07:00"
)

func (c DateConverter) parseLocal(raw string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t.In(c.loc), true
}

// ConvertStart renders a start timestamp, or "" when it should not be
// shown at all (missing, or an all-day event already implied by the
// bucket it sits in).
func (c DateConverter) ConvertStart(raw string, ctx StartContext) string {
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "T") {
		return raw
	}
	local, ok := c.parseLocal(raw)
	if !ok {
		return raw
	}
	isEvent := ctx.Type == model.ItemTypeEvent
	switch {
	case !ctx.AllDay && ctx.TodayOrTomorrow && isEvent:
		return local.Format(timeOnlyLayout)
	case ctx.AllDay && ctx.TodayOrTomorrow && isEvent:
		return ""
	case ctx.SpanningNow && isEvent:
		return local.Format(timeOnlyLayout)
	case ctx.AllDay:
		return local.Format(dateLayout)
	case ctx.CalendarDays >= 1:
		return local.Format(stampLayout)
	default:
		return local.Format(dateLayout)
	}
}

// ConvertEnd renders an end timestamp, or "" when missing. All-day
// ends collapse to the date; a timed same-day end needs only the
// time.
func (c DateConverter) ConvertEnd(raw string, ctx EndContext) string {
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "T") {
		return raw
	}
	local, ok := c.parseLocal(raw)
	if !ok {
		return raw
	}
	switch {
	case ctx.AllDay:
		return local.Format(dateLayout)
	case ctx.CalendarDays == 1:
		return local.Format(timeOnlyLayout)
	case ctx.CalendarDays > 1:
		return local.Format(stampLayout)
	default:
		return local.Format(dateLayout)
	}
}
