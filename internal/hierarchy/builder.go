// Package hierarchy reconstructs parent/child trees from the flat
// record lists providers return. It uses an arena pattern: index every
// node by id first, link second, so construction is independent of
// record order and duplicate ids and missing parents are detected
// deterministically.
package hierarchy

import (
	"fmt"
	"sort"

	"github.com/coreassistant/planned/internal/model"
)

// ParentPolicy decides what happens to a child whose parent id is not
// in the batch.
type ParentPolicy int

const (
	// Lenient demotes the orphan to a root.
	Lenient ParentPolicy = iota
	// Strict fails the whole build.
	Strict
)

// ParentNotFoundError is returned under the Strict policy when a
// child references a parent absent from the batch.
type ParentNotFoundError struct {
	ParentID string
	ChildID  string
}

func (e *ParentNotFoundError) Error() string {
	return fmt.Sprintf("parent %s not found for item %s", e.ParentID, e.ChildID)
}

// Mapper converts one raw provider record into an item.
type Mapper interface {
	ToItem(raw map[string]any) (*model.Item, error)
}

// positionSentinel sorts unpositioned siblings after every positioned
// one.
const positionSentinel = "￿"

func siblingKey(it *model.Item) (string, string) {
	pos := it.Position
	if pos == "" {
		pos = positionSentinel
	}
	return pos, it.Title
}

func sortSiblings(items []*model.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		pi, ti := siblingKey(items[i])
		pj, tj := siblingKey(items[j])
		if pi != pj {
			return pi < pj
		}
		return ti < tj
	})
}

// Builder assembles item trees from flat records.
type Builder struct {
	Policy ParentPolicy
}

// Build maps every record through mapper and links the results into a
// forest of root items. Records without an id and duplicate ids
// (first occurrence wins) are dropped silently; mapping errors
// propagate. Root lists and every children list come back sorted by
// (position, title).
func (b Builder) Build(records []map[string]any, mapper Mapper) ([]*model.Item, error) {
	byID := make(map[string]*model.Item, len(records))
	order := make([]string, 0, len(records))
	for _, raw := range records {
		node, err := mapper.ToItem(raw)
		if err != nil {
			return nil, err
		}
		if node.ID == "" {
			continue
		}
		if _, seen := byID[node.ID]; seen {
			continue
		}
		byID[node.ID] = node
		order = append(order, node.ID)
	}

	var roots []*model.Item
	for _, id := range order {
		node := byID[id]
		if node.Parent == "" {
			roots = append(roots, node)
			continue
		}
		parent, ok := byID[node.Parent]
		if !ok {
			if b.Policy == Strict {
				return nil, &ParentNotFoundError{ParentID: node.Parent, ChildID: node.ID}
			}
			roots = append(roots, node)
			continue
		}
		if err := parent.AddSubitem(node); err != nil {
			return nil, err
		}
	}

	sortSiblings(roots)
	for _, id := range order {
		if node := byID[id]; len(node.Subitems) > 0 {
			sortSiblings(node.Subitems)
		}
	}
	return roots, nil
}
