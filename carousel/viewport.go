package carousel

import (
	"math"
	"sort"
)

// defaultExtent is used for items whose host size is not positive.
const defaultExtent = 50.0

// viewport is the geometry of the rendered window along the scroll axis.
// starts has one entry per slot plus a trailing entry holding the content size.
type viewport struct {
	direction Direction
	width     float64
	height    float64
	starts    []float64
	offset    float64
}

// frame is the visible length along the scroll axis.
func (v *viewport) frame() float64 {
	if v.direction == Vertical {
		return v.height
	}
	return v.width
}

func (v *viewport) slots() int {
	if len(v.starts) == 0 {
		return 0
	}
	return len(v.starts) - 1
}

func (v *viewport) contentSize() float64 {
	if len(v.starts) == 0 {
		return 0
	}
	return v.starts[len(v.starts)-1]
}

// layout replaces the slot extents and clamps the offset into the new content.
func (v *viewport) layout(extents []float64) {
	starts := make([]float64, len(extents)+1)
	for i, e := range extents {
		if e <= 0 || math.IsNaN(e) || math.IsInf(e, 0) {
			e = defaultExtent
		}
		starts[i+1] = starts[i] + e
	}
	v.starts = starts
	v.setOffset(v.offset)
}

func (v *viewport) maxOffset() float64 {
	return math.Max(0, v.contentSize()-v.frame())
}

// setOffset moves the window, clamped to the content. It reports whether the
// offset changed.
func (v *viewport) setOffset(offset float64) bool {
	clamped := math.Min(math.Max(offset, 0), v.maxOffset())
	if clamped == v.offset {
		return false
	}
	v.offset = clamped
	return true
}

// slotFrame returns the start and extent of a slot in content coordinates.
func (v *viewport) slotFrame(slot int) (start, extent float64) {
	if slot < 0 || slot >= v.slots() {
		return 0, 0
	}
	return v.starts[slot], v.starts[slot+1] - v.starts[slot]
}

// slotAt finds the slot covering a content position.
func (v *viewport) slotAt(pos float64) (int, bool) {
	n := v.slots()
	if n == 0 || pos < 0 || pos >= v.contentSize() {
		return 0, false
	}
	i := sort.Search(n, func(i int) bool { return v.starts[i+1] > pos })
	if i >= n {
		return 0, false
	}
	return i, true
}

// centerSlot is the slot under the geometric center of the window.
func (v *viewport) centerSlot() (int, bool) {
	if v.frame() <= 0 {
		return 0, false
	}
	return v.slotAt(v.offset + v.frame()/2)
}

// centeredOffset is the offset that puts a slot's center on the window's
// center, before clamping.
func (v *viewport) centeredOffset(slot int) float64 {
	start, extent := v.slotFrame(slot)
	return start + extent/2 - v.frame()/2
}

// visibleSlots lists the slots overlapping the window, ascending.
func (v *viewport) visibleSlots() []int {
	n := v.slots()
	if n == 0 || v.frame() <= 0 {
		return nil
	}

	end := v.offset + v.frame()
	first := sort.Search(n, func(i int) bool { return v.starts[i+1] > v.offset })

	var visible []int
	for i := first; i < n && v.starts[i] < end; i++ {
		visible = append(visible, i)
	}
	return visible
}
