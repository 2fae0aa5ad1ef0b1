package carousel

import (
	"context"
	"time"
)

// Direction is the scroll axis of a carousel.
type Direction int

const (
	Horizontal Direction = iota
	Vertical
)

func (d Direction) String() string {
	if d == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Timing holds the settle delays that stand in for animation completion.
// They are heuristics; ordering comes from the gates, not from these values.
type Timing struct {
	// ReloadSettle elapses between a window refresh and its completion.
	ReloadSettle time.Duration
	// ScrollSettle elapses between a programmatic scroll and its completion.
	ScrollSettle time.Duration
	// AnimationSettle elapses between a scroll animation ending and the
	// centered cell being selected.
	AnimationSettle time.Duration
	// Frame is the step of the deceleration simulation.
	Frame time.Duration
}

// DefaultTiming returns the stock settle delays.
func DefaultTiming() Timing {
	return Timing{
		ReloadSettle:    40 * time.Millisecond,
		ScrollSettle:    300 * time.Millisecond,
		AnimationSettle: 100 * time.Millisecond,
		Frame:           16 * time.Millisecond,
	}
}

type options struct {
	name      string
	direction Direction
	timing    Timing
	mode      SelectionMode
	paging    bool
	ctx       context.Context
}

// Option configures a Carousel.
type Option func(*options)

// WithName labels the carousel in logs.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

func WithDirection(d Direction) Option {
	return func(o *options) {
		o.direction = d
	}
}

// WithTiming overrides the settle delays. Zero fields keep their defaults.
func WithTiming(t Timing) Option {
	return func(o *options) {
		if t.ReloadSettle > 0 {
			o.timing.ReloadSettle = t.ReloadSettle
		}
		if t.ScrollSettle > 0 {
			o.timing.ScrollSettle = t.ScrollSettle
		}
		if t.AnimationSettle > 0 {
			o.timing.AnimationSettle = t.AnimationSettle
		}
		if t.Frame > 0 {
			o.timing.Frame = t.Frame
		}
	}
}

func WithSelectionMode(m SelectionMode) Option {
	return func(o *options) {
		o.mode = m
	}
}

// WithPaging disables snapping to the nearest cell when deceleration ends.
func WithPaging(paging bool) Option {
	return func(o *options) {
		o.paging = paging
	}
}

// WithContext bounds the carousel's background work. Close cancels it too.
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		o.ctx = ctx
	}
}
