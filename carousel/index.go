package carousel

// MinRenderedSlots is the smallest rendered window. Small data sets are
// repeated across this many slots so the wrap edges stay out of reach.
const MinRenderedSlots = 500

// LogicalIndex maps a slot of the rendered window to the host's item index.
//
// Negative remainders wrap to (itemCount-1)+n, not itemCount+n. Hosts have
// come to rely on that mapping, so it is kept as is.
func LogicalIndex(slot, offset, itemCount int) int {
	if itemCount <= 0 {
		return 0
	}

	n := (slot + offset) % itemCount
	if n >= 0 {
		return n
	}
	return (itemCount - 1) + n
}

// Counts derives the real item count and the rendered slot count from what
// the host reported. Anything up to and including MinRenderedSlots renders
// MinRenderedSlots slots.
func Counts(reported int) (items, rendered int) {
	if reported <= 0 {
		return 0, 0
	}
	if reported > MinRenderedSlots {
		return reported, reported
	}
	return reported, MinRenderedSlots
}

// counts asks the host for its item count.
func (c *Carousel) counts() (items, rendered int) {
	if c.host == nil {
		return 0, 0
	}
	return Counts(c.host.NumberOfItems(c))
}

// logical maps a slot using the window's current offset and item count.
func (c *Carousel) logical(slot int) int {
	return LogicalIndex(slot, c.indexOffset, c.itemsCount)
}
