package model

import (
	"sort"
	"strings"
	"time"

	"github.com/coreassistant/planned/internal/clock"
)

// Display-order categories, compared ascending. Orthogonal to the
// time buckets.
const (
	catPast     = 1 // task completed or dated before today; event ended or started before now
	catDateless = 2
	catToday    = 3 // due or occurring today, or ongoing now
	catDefault  = 4
)

func sortCategory(clk clock.Clock, it *Item) int {
	start, end := it.StartAt(), it.EndAt()
	startDate := clk.LocalDate(start)
	cat := catDefault
	switch it.Type {
	case ItemTypeTask:
		if it.Status == StatusCompleted || (!startDate.IsZero() && startDate.Before(clk.Today)) {
			cat = catPast
		}
		if start == nil {
			cat = catDateless
		}
		if startDate == clk.Today {
			cat = catToday
		}
	case ItemTypeEvent:
		if (end != nil && end.Before(clk.Now)) || (start != nil && start.Before(clk.Now)) {
			cat = catPast
		}
		if start == nil && end == nil {
			cat = catDateless
		}
		within := start != nil && end != nil && !start.After(clk.Now) && !end.Before(clk.Now)
		if within || startDate == clk.Today {
			cat = catToday
		}
	}
	return cat
}

func statusRank(s ItemStatus) int {
	switch s {
	case StatusNeedsAction:
		return 1
	case StatusConfirmed:
		return 2
	case StatusTentative:
		return 3
	case StatusCompleted:
		return 4
	case StatusCancelled:
		return 5
	default:
		return 6
	}
}

func typeRank(t ItemType) int {
	switch t {
	case ItemTypeTask:
		return 1
	case ItemTypeEvent:
		return 2
	default:
		return 3
	}
}

// effectiveRef is the instant an item is ordered by: start-or-end for
// tasks, start for events.
func effectiveRef(it *Item) *time.Time {
	if it.Type == ItemTypeTask {
		if start := it.StartAt(); start != nil {
			return start
		}
		return it.EndAt()
	}
	return it.StartAt()
}

func titleKey(it *Item) string {
	title := strings.TrimSpace(it.Title)
	if title == "" {
		title = Untitled
	}
	return strings.ToLower(title)
}

type sortKey struct {
	category int
	ref      *time.Time
	status   int
	typ      int
	title    string
}

func keyOf(clk clock.Clock, it *Item) sortKey {
	k := sortKey{
		category: sortCategory(clk, it),
		status:   statusRank(it.Status),
		typ:      typeRank(it.Type),
		title:    titleKey(it),
	}
	// Date-less items skip the time key entirely so they group
	// together ordered purely by status/type/title.
	if k.category != catDateless {
		k.ref = effectiveRef(it)
	}
	return k
}

func keyLess(a, b sortKey) bool {
	if a.category != b.category {
		return a.category < b.category
	}
	if a.ref != nil && b.ref != nil {
		if !a.ref.Equal(*b.ref) {
			return a.ref.Before(*b.ref)
		}
	} else if (a.ref != nil) != (b.ref != nil) {
		// Within a category, dated items come before undated ones.
		return a.ref != nil
	}
	if a.status != b.status {
		return a.status < b.status
	}
	if a.typ != b.typ {
		return a.typ < b.typ
	}
	return a.title < b.title
}

// Sort returns items in display order: category, then reference time,
// status rank, type rank and case-folded title. The input is not
// modified; sorting is stable and idempotent.
func Sort(clk clock.Clock, items []*Item) []*Item {
	type keyed struct {
		item *Item
		key  sortKey
	}
	ks := make([]keyed, len(items))
	for i, it := range items {
		ks[i] = keyed{item: it, key: keyOf(clk, it)}
	}
	sort.SliceStable(ks, func(i, j int) bool {
		return keyLess(ks[i].key, ks[j].key)
	})
	out := make([]*Item, len(ks))
	for i, k := range ks {
		out[i] = k.item
	}
	return out
}
