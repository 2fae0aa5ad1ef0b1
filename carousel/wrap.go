package carousel

import "math"

const (
	wrapLow  = 0.25
	wrapHigh = 0.75
)

// wrapIfNeeded pulls the window back by a quarter of the content whenever it
// drifts into the outer quarters, and moves the index offset by the same
// number of slots so the same items stay on screen. Slot extents are assumed
// uniform enough that a quarter of the content is a quarter of the slots.
func (c *Carousel) wrapIfNeeded() {
	content := c.vp.contentSize()
	if content <= 0 || c.countOfSlots == 0 {
		return
	}

	lower, upper := content*wrapLow, content*wrapHigh
	if c.vp.maxOffset() < upper {
		return
	}

	jump := content * wrapLow
	slots := int(math.Round(float64(c.countOfSlots) * wrapLow))

	var shift int
	switch {
	case c.vp.offset >= upper:
		c.vp.setOffset(c.vp.offset - jump)
		shift = slots
	case c.vp.offset <= lower:
		c.vp.setOffset(c.vp.offset + jump)
		shift = -slots
	default:
		return
	}
	c.indexOffset += shift

	moved := make(map[int]struct{}, len(c.selected))
	for slot := range c.selected {
		if s := slot - shift; s >= 0 && s < c.countOfSlots {
			moved[s] = struct{}{}
		}
	}
	c.selected = moved

	c.relayout()
	c.refreshCells(true)
}
