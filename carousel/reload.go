package carousel

// ReloadData re-reads the host's item count and rebuilds the window. Reloads
// are serialized; each one holds its gate for the reload settle delay.
//
// When completion is nil the carousel restores a selection itself: the first
// load with items centers the default index, later ones snap to the nearest
// slot. In FollowSelectedIndex mode every reload refreshes the selection.
// Safe to call from any goroutine.
func (c *Carousel) ReloadData(completion func()) {
	c.guarded(c.reloadGate, func(release func()) {
		c.reloadWindow()
		c.after(c.opts.timing.ReloadSettle, func() {
			if completion != nil {
				completion()
			} else {
				c.settleAfterReload()
			}
			release()
		})
	})
}

// reloadWindow adopts the host's current counts. A changed item count shifts
// the index offset by the count delta times the number of full cycles in
// front of the selected slot, which keeps the selected item where it was.
func (c *Carousel) reloadWindow() {
	items, rendered := c.counts()

	if items != c.itemsCount {
		cycles := 0
		if slot, ok := c.firstSelectedSlot(); ok && c.itemsCount > 0 {
			cycles = (c.indexOffset + slot) / c.itemsCount
		}
		if items > 0 {
			c.indexOffset += ((items - c.itemsCount) * cycles) % items
		}
		c.logf("info", "item count %d -> %d, index offset %d", c.itemsCount, items, c.indexOffset)
	}

	c.itemsCount, c.countOfSlots = items, rendered
	for slot := range c.selected {
		if slot >= rendered {
			delete(c.selected, slot)
		}
	}

	c.relayout()
	c.refreshCells(true)
}

func (c *Carousel) settleAfterReload() {
	if c.opts.mode == FollowSelectedIndex {
		c.RefreshSelection()
		return
	}

	if c.shouldSetDefault {
		if c.itemsCount == 0 {
			return
		}
		c.shouldSetDefault = false
		c.logf("info", "selecting default item")
		c.selectItem(c.targetIndex(), false, nil)
		return
	}

	c.ScrollToNearestSlot(false, func() {
		c.SelectCellInCenter(false)
	})
}
