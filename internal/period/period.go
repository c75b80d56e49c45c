// Package period implements validated date ranges used both for the
// fixed bucket windows and for item date spans.
package period

import (
	"fmt"

	"github.com/coreassistant/planned/internal/clock"
)

// DefaultDuration is the window size, in days, applied when a Period
// is constructed without an explicit duration.
const DefaultDuration = 60

// ValidationError reports invalid caller-supplied Period arguments.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid period: " + e.Reason
}

// InvariantError reports an internal end<start violation after
// derivation. Distinct from ValidationError: this one is never caused
// by caller input alone.
type InvariantError struct {
	Start clock.Date
	End   clock.Date
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("period invariant violated: end %s < start %s", e.End, e.Start)
}

// Period is an inclusive-or-exclusive date range. End is never before
// Start.
type Period struct {
	Start     clock.Date
	End       clock.Date
	Duration  int
	Inclusive bool
}

// Options carries the optional construction arguments. Nil fields are
// derived per the rules in New.
type Options struct {
	Start     *clock.Date
	End       *clock.Date
	Duration  *int
	Inclusive bool
}

func minDuration(inclusive bool) int {
	if inclusive {
		return 1
	}
	return 0
}

func spanDays(duration int, inclusive bool) int {
	if inclusive {
		return duration - 1
	}
	return duration
}

// New builds a Period around today.
//
// With neither bound given, the window is centered on today with a
// floor/ceil split of duration. With one bound given, the other is
// derived from duration. With both given, end must not precede start
// and duration is recomputed from the span unless explicitly supplied.
func New(today clock.Date, opts Options) (Period, error) {
	duration := DefaultDuration
	userDuration := opts.Duration != nil
	if userDuration {
		duration = *opts.Duration
	}
	if duration < minDuration(opts.Inclusive) {
		return Period{}, &ValidationError{Reason: fmt.Sprintf(
			"duration must be >= %d with inclusive=%t", minDuration(opts.Inclusive), opts.Inclusive)}
	}

	start, end, err := deriveBounds(today, opts.Start, opts.End, duration, opts.Inclusive)
	if err != nil {
		return Period{}, err
	}
	if end.Before(start) {
		return Period{}, &InvariantError{Start: start, End: end}
	}

	p := Period{Start: start, End: end, Inclusive: opts.Inclusive, Duration: duration}
	if !userDuration {
		p.Duration = start.DaysUntil(end)
		if opts.Inclusive {
			p.Duration++
		}
	}
	return p, nil
}

func deriveBounds(today clock.Date, start, end *clock.Date, duration int, inclusive bool) (clock.Date, clock.Date, error) {
	switch {
	case start == nil && end == nil:
		half := duration / 2
		return today.AddDays(-(duration - half)), today.AddDays(half), nil
	case start != nil && end != nil:
		if end.Before(*start) {
			return clock.Date{}, clock.Date{}, &ValidationError{Reason: "end cannot be earlier than start"}
		}
		return *start, *end, nil
	case start != nil:
		return *start, start.AddDays(spanDays(duration, inclusive)), nil
	default:
		return end.AddDays(-spanDays(duration, inclusive)), *end, nil
	}
}

// Single returns the one-day inclusive Period covering d.
func Single(d clock.Date) Period {
	return Period{Start: d, End: d, Duration: 1, Inclusive: true}
}

// Span returns the inclusive Period from start through end. The start
// is clamped so it never exceeds end.
func Span(start, end clock.Date) Period {
	start = start.Min(end)
	return Period{Start: start, End: end, Duration: start.DaysUntil(end) + 1, Inclusive: true}
}

func (p Period) String() string {
	return fmt.Sprintf("%s..%s (%dd, inclusive=%t)", p.Start, p.End, p.Duration, p.Inclusive)
}

// Contains reports whether d falls inside the period.
func (p Period) Contains(d clock.Date) bool {
	return !d.Before(p.Start) && !d.After(p.End)
}

// IsZero reports whether p is the zero Period.
func (p Period) IsZero() bool {
	return p.Start.IsZero() && p.End.IsZero()
}
