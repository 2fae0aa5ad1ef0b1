package carousel

// SelectItem scrolls the given logical index into the center and selects it.
// A negative index is applied as a distance past the middle slot, offset by
// that slot's own logical index.
func (c *Carousel) SelectItem(index int, animated bool) {
	c.selectItem(index, animated, nil)
}

// selectItem resets the index offset and jumps to the slot nearest the window
// middle that shows index. done fires in every case.
func (c *Carousel) selectItem(index int, animated bool, done func()) {
	finish := func() {
		if done != nil {
			done()
		}
	}

	// The window was built from the counts of the last reload, and slots
	// map back to items through them.
	items, rendered := c.itemsCount, c.countOfSlots
	if items == 0 || c.vp.slots() == 0 {
		finish()
		return
	}

	center := rendered / 2
	normalCenter := center % items
	delta := normalCenter + index
	if index >= 0 {
		delta = index - normalCenter
	}

	c.indexOffset = 0
	c.relayout()
	c.refreshCells(true)

	c.scrollToSlot(center+delta, false, func() {
		for _, slot := range c.selectedSlots() {
			if cell := c.live[slot]; cell != nil {
				cell.SetSelected(false, false)
			}
			delete(c.selected, slot)
		}
		c.SelectCellInCenter(animated)
		finish()
	})
}

// RefreshSelection re-centers the host's target index. Calls are serialized;
// the next one starts only after the previous selection has settled.
// Safe to call from any goroutine.
func (c *Carousel) RefreshSelection() {
	c.guarded(c.refreshGate, func(release func()) {
		c.selectItem(c.targetIndex(), true, release)
	})
}

// ScrollToNearestSlot snaps the slot under the window center into place. The
// slot is resolved when the scroll gets its turn; a snap that comes up while
// the user is dragging is dropped. A snap with nothing to snap to ends a
// pending settle.
func (c *Carousel) ScrollToNearestSlot(animated bool, completion func()) {
	c.scrollTo(func() (int, bool) {
		if c.phase == PhaseDragging || c.phase == PhaseDecelerating {
			return 0, false
		}
		return c.vp.centerSlot()
	}, animated, completion, func() {
		if c.phase == PhaseSettling {
			c.phase = PhaseIdle
		}
	})
}

// SelectCellInCenter selects the middle visible slot. It does nothing when that
// slot is already selected, so repeated calls notify the host once.
func (c *Carousel) SelectCellInCenter(animated bool) {
	visible := c.vp.visibleSlots()
	if len(visible) == 0 {
		return
	}

	slot := visible[len(visible)/2]
	if _, ok := c.selected[slot]; ok {
		return
	}
	c.selected[slot] = struct{}{}

	cell := c.live[slot]
	if cell == nil {
		return
	}
	cell.SetSelected(true, animated)
	if c.itemsCount > 0 {
		c.notifySelected(cell, slot)
	}
}

// DeselectAll clears the selection of every live selected cell and tells the
// host about each one.
func (c *Carousel) DeselectAll() {
	for _, slot := range c.selectedSlots() {
		cell := c.live[slot]
		if cell == nil {
			continue
		}
		cell.SetSelected(false, true)
		delete(c.selected, slot)
		if c.itemsCount > 0 {
			c.notifyDeselected(cell, slot)
		}
	}
}

// scrollToSlot runs completion even when the window emptied before the scroll
// got its turn.
func (c *Carousel) scrollToSlot(slot int, animated bool, completion func()) {
	c.scrollTo(func() (int, bool) { return slot, true }, animated, completion, completion)
}

// scrollTo centers the resolved slot once the scroll gate admits it. The gate
// is held for the scroll settle delay, after which completion runs. skipped
// runs instead when there is nothing to scroll to.
func (c *Carousel) scrollTo(resolve func() (int, bool), animated bool, completion, skipped func()) {
	c.guarded(c.scrollGate, func(release func()) {
		slot, ok := resolve()
		if !ok || c.vp.slots() == 0 {
			if skipped != nil {
				skipped()
			}
			release()
			return
		}
		if n := c.vp.slots(); slot >= n {
			slot = n - 1
		}
		if slot < 0 {
			slot = 0
		}

		c.settling++
		if c.vp.setOffset(c.vp.centeredOffset(slot)) {
			c.didScroll()
		}
		if animated {
			c.dispatch(c.scrollAnimationEnded)
		}

		c.after(c.opts.timing.ScrollSettle, func() {
			c.settling--
			if completion != nil {
				completion()
			}
			release()
		})
	})
}

// scrollAnimationEnded selects the centered cell once the animation has had
// time to come to rest.
func (c *Carousel) scrollAnimationEnded() {
	c.logf("info", "end scrolling animation")
	c.after(c.opts.timing.AnimationSettle, func() {
		if c.phase == PhaseDragging || c.phase == PhaseDecelerating {
			return
		}
		c.SelectCellInCenter(true)
		if c.phase == PhaseSettling {
			c.phase = PhaseIdle
		}
	})
}
