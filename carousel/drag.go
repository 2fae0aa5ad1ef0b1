package carousel

import "math"

// Phase is where the carousel is in a drag gesture.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDragging
	PhaseDecelerating
	PhaseSettling
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDragging:
		return "dragging"
	case PhaseDecelerating:
		return "decelerating"
	case PhaseSettling:
		return "settling"
	default:
		return "unknown"
	}
}

const (
	// MinFlingVelocity is the release speed, in content units per frame,
	// below which a drag ends without momentum.
	MinFlingVelocity = 0.5
	// Friction scales the fling velocity every frame.
	Friction = 0.9
)

// BeginDrag starts a user drag. Any selection is dropped right away.
func (c *Carousel) BeginDrag() {
	c.flingGen++
	c.phase = PhaseDragging
	c.DeselectAll()
}

// DragBy moves the window by delta along the scroll axis.
func (c *Carousel) DragBy(delta float64) {
	if c.vp.setOffset(c.vp.offset + delta) {
		c.didScroll()
	}
}

// EndDrag releases the drag. A slow release snaps to the nearest slot; a fast
// one keeps moving until friction stops it.
func (c *Carousel) EndDrag(velocity float64) {
	if c.phase != PhaseDragging {
		return
	}

	if math.Abs(velocity) < MinFlingVelocity {
		c.logf("info", "end dragging")
		c.phase = PhaseSettling
		c.ScrollToNearestSlot(true, nil)
		return
	}

	c.phase = PhaseDecelerating
	c.flingGen++
	c.decelerate(c.flingGen, velocity)
}

// EndDecelerating finishes a fling. With paging the window stays where it
// stopped.
func (c *Carousel) EndDecelerating() {
	if c.phase != PhaseDecelerating {
		return
	}
	c.flingGen++

	if c.opts.paging {
		c.phase = PhaseIdle
		return
	}
	c.logf("info", "end decelerating")
	c.phase = PhaseSettling
	c.ScrollToNearestSlot(true, nil)
}

func (c *Carousel) decelerate(gen int, velocity float64) {
	c.after(c.opts.timing.Frame, func() {
		if gen != c.flingGen || c.phase != PhaseDecelerating {
			return
		}
		c.DragBy(velocity)
		velocity *= Friction
		if math.Abs(velocity) < MinFlingVelocity {
			c.EndDecelerating()
			return
		}
		c.decelerate(gen, velocity)
	})
}

// didScroll follows every change of the window position.
func (c *Carousel) didScroll() {
	if c.settling == 0 {
		c.wrapIfNeeded()
	}
	c.refreshCells(false)
}
