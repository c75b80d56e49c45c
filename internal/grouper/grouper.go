// Package grouper classifies planned items into the fixed sequence of
// twelve time buckets relative to a single reference date. Both the
// classification cascade and the bucket windows are pure functions of
// the injected clock, so a pass is fully deterministic.
package grouper

import (
	"strings"

	"github.com/coreassistant/planned/internal/clock"
	"github.com/coreassistant/planned/internal/model"
	"github.com/coreassistant/planned/internal/period"
)

// Bucket is one classified group: its label, the calendar window it
// covers and the items that landed in it. Items keep their input
// order within a bucket.
type Bucket struct {
	Group  model.Group
	Period period.Period
	Items  []*model.Item
}

// Grouper classifies items against the clock captured at construction.
type Grouper struct {
	clk     clock.Clock
	dates   Dates
	enabled map[model.Group]bool
}

// New builds a Grouper whose "today" and reference dates are fixed for
// every subsequent Group call.
func New(clk clock.Clock) *Grouper {
	dates := Calculate(clk.Today)
	return &Grouper{clk: clk, dates: dates, enabled: enabledWeekFlags(dates.Weekday)}
}

// enabledWeekFlags disables the weekend buckets that no longer make
// sense late in the week: on Friday only THIS SUNDAY stays on, and on
// the weekend itself both are off.
func enabledWeekFlags(wd int) map[model.Group]bool {
	switch wd {
	case 4:
		return map[model.Group]bool{
			model.GroupThisSunday:  true,
			model.GroupThisWeekend: false,
		}
	case 5, 6:
		return map[model.Group]bool{
			model.GroupThisSunday:  false,
			model.GroupThisWeekend: false,
		}
	default:
		return map[model.Group]bool{
			model.GroupThisSunday:  false,
			model.GroupThisWeekend: true,
		}
	}
}

// Group classifies every item into at most one bucket, applies the
// Friday promotion and the coarse-bucket dedup, and returns all twelve
// buckets in their fixed order with their periods attached. Items that
// match no cascade branch are dropped.
func (g *Grouper) Group(items []*model.Item) ([]Bucket, error) {
	buckets := make(map[model.Group][]*model.Item)
	for _, it := range items {
		grp, ok, err := g.groupFor(it)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		buckets[grp] = append(buckets[grp], it)
	}
	if err := g.promoteThisFriday(buckets); err != nil {
		return nil, err
	}
	dedupeAfterMonth(buckets)
	return g.assemble(buckets)
}

func (g *Grouper) groupFor(it *model.Item) (model.Group, bool, error) {
	switch it.Type {
	case model.ItemTypeTask:
		grp, ok := g.groupForTask(it)
		return grp, ok, nil
	case model.ItemTypeEvent:
		return g.groupForEvent(it)
	default:
		return 0, false, &model.UnsupportedTypeError{Op: "Group", Type: it.Type}
	}
}

func (g *Grouper) groupForTask(it *model.Item) (model.Group, bool) {
	startD := g.clk.LocalDate(it.StartAt())
	switch {
	case it.Status == model.StatusCompleted:
		return model.GroupDued, true
	case startD.IsZero() || startD == g.dates.Today:
		return model.GroupToday, true
	case startD.Before(g.dates.Today):
		return model.GroupDued, true
	case startD == g.dates.Today.AddDays(1):
		return model.GroupTomorrow, true
	case g.dates.Weekday == 4 && g.enabled[model.GroupThisSunday] && startD == g.dates.ThisWeekSun:
		return model.GroupThisSunday, true
	case g.enabled[model.GroupThisWeekend] && g.dates.inThisWeekend(startD):
		return model.GroupThisWeekend, true
	case g.dates.inRestOfThisWeek(startD) && isWeekday(startD):
		return model.GroupRestOfThisWeek, true
	case g.dates.inNextWeekRange(startD):
		return model.GroupNextWeek, true
	case startD.Month == g.dates.Today.Month && startD.Year == g.dates.Today.Year && startD.After(g.dates.ThisWeekSun):
		return model.GroupRestOfThisMonth, true
	case g.dates.inNextMonth(startD):
		return model.GroupNextMonth, true
	case !startD.Before(g.dates.FirstMonthAfterNext):
		return model.GroupFuture, true
	}
	return 0, false
}

func (g *Grouper) groupForEvent(it *model.Item) (model.Group, bool, error) {
	ongoing, err := it.IsOngoing()
	if err != nil {
		return 0, false, err
	}
	start, end := it.StartAt(), it.EndAt()
	startD := g.clk.LocalDate(start)
	now := g.clk.Now
	switch {
	case ongoing:
		return model.GroupOngoing, true, nil
	case start == nil && end == nil:
		return model.GroupToday, true, nil
	case (start != nil && end != nil && !now.Before(*start) && !now.After(*end)) || startD == g.dates.Today:
		return model.GroupToday, true, nil
	case startD == g.dates.Today.AddDays(1):
		return model.GroupTomorrow, true, nil
	case g.dates.Weekday == 4 && g.enabled[model.GroupThisSunday] && startD == g.dates.ThisWeekSun:
		return model.GroupThisSunday, true, nil
	case startD.IsZero():
		return 0, false, nil
	case g.enabled[model.GroupThisWeekend] && g.dates.inThisWeekend(startD):
		return model.GroupThisWeekend, true, nil
	case g.dates.inRestOfThisWeek(startD) && isWeekday(startD):
		return model.GroupRestOfThisWeek, true, nil
	case g.dates.inNextWeekRange(startD):
		return model.GroupNextWeek, true, nil
	case startD.Month == g.dates.Today.Month && startD.Year == g.dates.Today.Year && startD.After(g.dates.ThisWeekSun):
		return model.GroupRestOfThisMonth, true, nil
	case g.dates.inNextMonth(startD):
		return model.GroupNextMonth, true, nil
	case !startD.Before(g.dates.FirstMonthAfterNext):
		return model.GroupFuture, true, nil
	}
	return 0, false, nil
}

// itemDateSpan projects an item onto the calendar: tasks collapse to
// their single due date (today when undated), events span their start
// and end dates with single-sided fallbacks.
func (g *Grouper) itemDateSpan(it *model.Item) (clock.Date, clock.Date, error) {
	switch it.Type {
	case model.ItemTypeTask:
		ref := it.StartAt()
		if ref == nil {
			ref = it.EndAt()
		}
		d := g.clk.LocalDate(ref)
		if d.IsZero() {
			d = g.dates.Today
		}
		return d, d, nil
	case model.ItemTypeEvent:
		s := g.clk.LocalDate(it.StartAt())
		e := g.clk.LocalDate(it.EndAt())
		switch {
		case s.IsZero() && e.IsZero():
			return g.dates.Today, g.dates.Today, nil
		case s.IsZero():
			return e, e, nil
		case e.IsZero():
			return s, s, nil
		default:
			return s, e, nil
		}
	default:
		return clock.Date{}, clock.Date{}, &model.UnsupportedTypeError{Op: "itemDateSpan", Type: it.Type}
	}
}

func (g *Grouper) isExactlyOn(d clock.Date, it *model.Item) (bool, error) {
	s, e, err := g.itemDateSpan(it)
	if err != nil {
		return false, err
	}
	return s == d && e == d, nil
}

// promoteThisFriday moves the whole REST OF THIS WEEK bucket into
// THIS FRIDAY when every member falls exactly on this Friday.
func (g *Grouper) promoteThisFriday(buckets map[model.Group][]*model.Item) error {
	rotw := buckets[model.GroupRestOfThisWeek]
	if len(rotw) == 0 {
		return nil
	}
	for _, it := range rotw {
		on, err := g.isExactlyOn(g.dates.ThisWeekFri, it)
		if err != nil {
			return err
		}
		if !on {
			return nil
		}
	}
	buckets[model.GroupThisFriday] = append(buckets[model.GroupThisFriday], rotw...)
	buckets[model.GroupRestOfThisWeek] = nil
	return nil
}

// dedupeAfterMonth drops repeated titles once buckets turn coarse:
// from REST OF THIS MONTH onward, an item whose trimmed title already
// appeared in any earlier bucket (or earlier in this pass) is removed.
// Finer buckets are never filtered.
func dedupeAfterMonth(buckets map[model.Group][]*model.Item) {
	seen := make(map[string]struct{})
	for _, grp := range model.Groups() {
		if grp >= model.GroupRestOfThisMonth {
			break
		}
		for _, it := range buckets[grp] {
			seen[strings.TrimSpace(it.Title)] = struct{}{}
		}
	}
	for _, grp := range model.Groups() {
		if grp < model.GroupRestOfThisMonth {
			continue
		}
		entries := buckets[grp]
		if len(entries) == 0 {
			continue
		}
		filtered := entries[:0]
		for _, it := range entries {
			key := strings.TrimSpace(it.Title)
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			filtered = append(filtered, it)
			seen[key] = struct{}{}
		}
		buckets[grp] = filtered
	}
}

// dynamicSpan is the min/max calendar span across the entries, falling
// back to a single day on today when the bucket is empty.
func (g *Grouper) dynamicSpan(entries []*model.Item) (clock.Date, clock.Date, error) {
	if len(entries) == 0 {
		return g.dates.Today, g.dates.Today, nil
	}
	var sMin, eMax clock.Date
	for i, it := range entries {
		s, e, err := g.itemDateSpan(it)
		if err != nil {
			return clock.Date{}, clock.Date{}, err
		}
		if i == 0 {
			sMin, eMax = s, e
			continue
		}
		sMin = sMin.Min(s)
		eMax = eMax.Max(e)
	}
	return sMin, eMax, nil
}

func (g *Grouper) assemble(buckets map[model.Group][]*model.Item) ([]Bucket, error) {
	out := make([]Bucket, 0, len(model.Groups()))
	for _, grp := range model.Groups() {
		entries := buckets[grp]
		p, fixed := g.dates.fixedPeriodFor(grp)
		if !fixed {
			s, e, err := g.dynamicSpan(entries)
			if err != nil {
				return nil, err
			}
			p = period.Span(s, e)
		}
		out = append(out, Bucket{Group: grp, Period: p, Items: entries})
	}
	return out, nil
}
