package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/coreassistant/planned/internal/clock"
	"github.com/coreassistant/planned/internal/grouper"
	"github.com/coreassistant/planned/internal/model"
)

// ConsolePresenter writes grouped items as sectioned text, one "===
// LABEL ===" block per non-empty bucket with its calendar window
// under the header.
type ConsolePresenter struct {
	clk      clock.Clock
	renderer *TreeRenderer
	out      io.Writer
	header   *color.Color
	window   *color.Color
}

// NewConsolePresenter builds a presenter writing to out with the
// given tree indent.
func NewConsolePresenter(clk clock.Clock, out io.Writer, indentStep int) (*ConsolePresenter, error) {
	renderer, err := NewTreeRenderer(NewTextLineFormatter(clk), indentStep)
	if err != nil {
		return nil, err
	}
	return &ConsolePresenter{
		clk:      clk,
		renderer: renderer,
		out:      out,
		header:   color.New(color.FgCyan, color.Bold),
		window:   color.New(color.Faint),
	}, nil
}

// NewPlainPresenter builds a presenter with color disabled, for
// writers that are not terminals.
func NewPlainPresenter(clk clock.Clock, out io.Writer, indentStep int) (*ConsolePresenter, error) {
	p, err := NewConsolePresenter(clk, out, indentStep)
	if err != nil {
		return nil, err
	}
	p.header.DisableColor()
	p.window.DisableColor()
	return p, nil
}

// validBucket reports whether a bucket should be displayed: it needs
// a real period and at least one item.
func validBucket(b grouper.Bucket) bool {
	return !b.Period.IsZero() && len(b.Items) > 0
}

var singleDayGroups = map[model.Group]bool{
	model.GroupToday:      true,
	model.GroupTomorrow:   true,
	model.GroupThisFriday: true,
	model.GroupThisSunday: true,
}

var rangeGroups = map[model.Group]bool{
	model.GroupRestOfThisWeek:  true,
	model.GroupThisWeekend:     true,
	model.GroupNextWeek:        true,
	model.GroupRestOfThisMonth: true,
	model.GroupNextMonth:       true,
}

func (p *ConsolePresenter) printWindow(b grouper.Bucket) {
	switch {
	case b.Group == model.GroupDued:
		p.window.Fprintf(p.out, "Before %s\n", p.clk.Today)
	case b.Group == model.GroupFuture:
		p.window.Fprintf(p.out, "Starting from %s\n", b.Period.Start)
	case b.Group == model.GroupOngoing:
		// The window of an ongoing bucket is implied by its items.
	default:
		name := "Date"
		if b.Period.Duration > 1 {
			name = "Period"
		}
		if singleDayGroups[b.Group] && b.Period.Start == b.Period.End {
			p.window.Fprintf(p.out, "%s: %s\n", name, b.Period.Start)
		} else if rangeGroups[b.Group] {
			p.window.Fprintf(p.out, "%s: %s → %s\n", name, b.Period.Start, b.Period.End)
		}
	}
}

// Present writes every displayable bucket in order, blank lines
// between sections.
func (p *ConsolePresenter) Present(buckets []grouper.Bucket) error {
	first := true
	for _, b := range buckets {
		if !validBucket(b) {
			continue
		}
		if !first {
			fmt.Fprintln(p.out)
		}
		first = false
		p.header.Fprintf(p.out, "=== %s ===\n", b.Group.Label())
		p.printWindow(b)
		text, err := p.renderer.Render(b.Items)
		if err != nil {
			return err
		}
		fmt.Fprintln(p.out, text)
	}
	return nil
}
