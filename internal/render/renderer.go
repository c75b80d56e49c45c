package render

import (
	"errors"
	"strings"

	"github.com/coreassistant/planned/internal/model"
)

// ErrBadIndent reports a negative indent step.
var ErrBadIndent = errors.New("indent step must be >= 0")

// TreeRenderer walks item trees iteratively and emits one formatted
// line per node, indented by depth. Revisited nodes are printed once
// more with a cycle marker instead of being followed, so rendering
// stays safe on trees mutated after construction.
type TreeRenderer struct {
	indentStep int
	formatter  LineFormatter
	newline    string
}

// NewTreeRenderer builds a renderer over the given formatter.
func NewTreeRenderer(formatter LineFormatter, indentStep int) (*TreeRenderer, error) {
	if indentStep < 0 {
		return nil, ErrBadIndent
	}
	return &TreeRenderer{indentStep: indentStep, formatter: formatter, newline: "\n"}, nil
}

type frame struct {
	item  *model.Item
	level int
}

// Render formats the forest rooted at items, depth first.
func (r *TreeRenderer) Render(items []*model.Item) (string, error) {
	var lines []string
	seen := make(map[*model.Item]struct{})
	stack := make([]frame, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		stack = append(stack, frame{item: items[i], level: 1})
	}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		line, err := r.formatter.FormatLine(top.item, top.level, r.indentStep)
		if err != nil {
			return "", err
		}
		if _, revisit := seen[top.item]; revisit {
			lines = append(lines, line+"  [cycle]")
			continue
		}
		seen[top.item] = struct{}{}
		lines = append(lines, line)

		subs := top.item.Subitems
		for i := len(subs) - 1; i >= 0; i-- {
			stack = append(stack, frame{item: subs[i], level: top.level + 1})
		}
	}
	return strings.Join(lines, r.newline), nil
}
