// Package carousel implements an endlessly wrapping strip of cells that keeps
// one cell centered and selected.
//
// A small data set is repeated across a fixed window of slots (see Counts);
// LogicalIndex maps every slot back onto the host's items, and an index offset
// that survives reloads keeps the selected item centered when the item count
// changes or the window wraps. Scrolls, reloads and selection refreshes are
// each serialized through their own gate and applied on a single UI context
// provided by a Dispatcher.
//
// Apart from New, ReloadData, RefreshSelection and Close, every method must be
// called on the UI context.
package carousel

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"infinite-carousel/log"
)

// Dispatcher is the UI execution context.
type Dispatcher interface {
	// Dispatch runs task on the UI context after everything already queued.
	Dispatch(task func())
	// DispatchAfter dispatches task once d has elapsed, unless cancelled.
	DispatchAfter(d time.Duration, task func()) (cancel func())
}

// VisibleCell describes a slot inside the window, positioned relative to the
// window's leading edge.
type VisibleCell struct {
	Slot     int
	Index    int
	Cell     Cell
	Start    float64
	Extent   float64
	Selected bool
}

type Carousel struct {
	opts       options
	host       DataSource
	dispatcher Dispatcher
	pool       *Pool

	vp      viewport
	laidOut bool

	// Rendered window. Only touched on the UI context.
	itemsCount       int
	countOfSlots     int
	indexOffset      int
	shouldSetDefault bool

	selected map[int]struct{}
	live     map[int]Cell

	phase    Phase
	settling int
	flingGen int

	reloadGate  *gate
	scrollGate  *gate
	refreshGate *gate
	inflight    atomic.Int32

	ctx    context.Context
	cancel context.CancelFunc
	closed atomic.Bool

	timersMu  sync.Mutex
	timers    map[int]func()
	nextTimer int
}

// New creates a carousel bound to a host and a UI context. The host is held
// as a plain back-reference; SetDataSource(nil) detaches it.
func New(host DataSource, dispatcher Dispatcher, opts ...Option) *Carousel {
	o := options{
		name:   "carousel",
		timing: DefaultTiming(),
		ctx:    context.Background(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	ctx, cancel := context.WithCancel(o.ctx)
	return &Carousel{
		opts:             o,
		host:             host,
		dispatcher:       dispatcher,
		pool:             NewPool(),
		vp:               viewport{direction: o.direction},
		shouldSetDefault: true,
		selected:         make(map[int]struct{}),
		live:             make(map[int]Cell),
		reloadGate:       newGate(),
		scrollGate:       newGate(),
		refreshGate:      newGate(),
		ctx:              ctx,
		cancel:           cancel,
		timers:           make(map[int]func()),
	}
}

func (c *Carousel) Name() string {
	return c.opts.name
}

// SetDataSource swaps the host. A nil host makes every query return zero
// values until a new one is set and the data reloaded.
func (c *Carousel) SetDataSource(host DataSource) {
	c.host = host
}

// Register binds a cell factory to a reuse identifier.
func (c *Carousel) Register(factory CellFactory, reuseID string) {
	c.pool.Register(factory, reuseID)
}

// DequeueCell returns a reusable cell for the item being configured, or nil
// when nothing is registered under reuseID.
func (c *Carousel) DequeueCell(reuseID string, index int) Cell {
	cell := c.pool.Dequeue(reuseID)
	if cell == nil {
		c.logf("warning", "no cell registered for %q (item %d)", reuseID, index)
	}
	return cell
}

func (c *Carousel) Direction() Direction {
	return c.vp.direction
}

// SetDirection changes the scroll axis. It is ignored once the carousel has
// been laid out.
func (c *Carousel) SetDirection(d Direction) {
	if c.laidOut && d != c.vp.direction {
		c.logf("warning", "scroll direction is fixed after layout, ignoring %s", d)
		return
	}
	c.vp.direction = d
}

// SetFrame sizes the viewport. Like a toolkit layout pass, it then re-centers
// the selected slot, or selects whatever sits in the center.
func (c *Carousel) SetFrame(width, height float64) {
	first := !c.laidOut
	c.laidOut = true
	if !first && width == c.vp.width && height == c.vp.height {
		return
	}

	// Keep whatever sat under the center there.
	center := c.vp.offset + c.vp.frame()/2
	c.vp.width, c.vp.height = width, height
	c.relayout()
	c.vp.setOffset(center - c.vp.frame()/2)
	c.refreshCells(false)

	c.dispatch(func() {
		if slot, ok := c.firstSelectedSlot(); ok {
			c.scrollToSlot(slot, false, func() {
				c.SelectCellInCenter(false)
			})
			return
		}
		c.SelectCellInCenter(false)
	})
}

// SelectedLogicalIndex reports the selected item, if any.
func (c *Carousel) SelectedLogicalIndex() (int, bool) {
	slot, ok := c.firstSelectedSlot()
	if !ok || c.itemsCount == 0 {
		return 0, false
	}
	return c.logical(slot), true
}

// ItemCount is the real item count of the rendered window.
func (c *Carousel) ItemCount() int {
	return c.itemsCount
}

// SlotCount is the number of rendered slots.
func (c *Carousel) SlotCount() int {
	return c.countOfSlots
}

// IndexOffset is the current slot to item correction.
func (c *Carousel) IndexOffset() int {
	return c.indexOffset
}

// ContentOffset is the window's position along the scroll axis.
func (c *Carousel) ContentOffset() float64 {
	return c.vp.offset
}

// Phase reports the drag/settle state.
func (c *Carousel) Phase() Phase {
	return c.phase
}

// Busy reports whether a reload, scroll or refresh is queued or running, or a
// deferred step of one is still pending. Safe to call from any goroutine.
func (c *Carousel) Busy() bool {
	return c.inflight.Load() > 0
}

// VisibleCells lists the slots inside the window, ascending.
func (c *Carousel) VisibleCells() []VisibleCell {
	slots := c.vp.visibleSlots()
	out := make([]VisibleCell, 0, len(slots))
	for _, slot := range slots {
		start, extent := c.vp.slotFrame(slot)
		_, sel := c.selected[slot]
		out = append(out, VisibleCell{
			Slot:     slot,
			Index:    c.logical(slot),
			Cell:     c.live[slot],
			Start:    start - c.vp.offset,
			Extent:   extent,
			Selected: sel,
		})
	}
	return out
}

// Close stops background work and pending deferred tasks. Queued gate
// requests give up without running.
func (c *Carousel) Close() {
	if !c.closed.CompareAndSwap(false, true) {
		return
	}
	c.cancel()

	c.timersMu.Lock()
	defer c.timersMu.Unlock()
	for id, cancel := range c.timers {
		cancel()
		delete(c.timers, id)
	}
}

func (c *Carousel) dispatch(task func()) {
	c.inflight.Add(1)
	c.dispatcher.Dispatch(func() {
		defer c.inflight.Add(-1)
		if c.ctx.Err() != nil {
			return
		}
		task()
	})
}

// after runs task on the UI context once d has elapsed. Close cancels it.
func (c *Carousel) after(d time.Duration, task func()) {
	c.timersMu.Lock()
	defer c.timersMu.Unlock()
	if c.closed.Load() {
		return
	}

	id := c.nextTimer
	c.nextTimer++
	c.inflight.Add(1)
	c.timers[id] = c.dispatcher.DispatchAfter(d, func() {
		defer c.inflight.Add(-1)
		c.timersMu.Lock()
		delete(c.timers, id)
		c.timersMu.Unlock()

		if c.ctx.Err() != nil {
			return
		}
		task()
	})
}

// guarded acquires g off the UI context, then runs op on it. op must call
// release once its settle delay has elapsed.
func (c *Carousel) guarded(g *gate, op func(release func())) {
	if c.closed.Load() {
		return
	}

	t := g.take()
	c.inflight.Add(1)
	go func() {
		if err := t.acquire(c.ctx); err != nil {
			c.inflight.Add(-1)
			return
		}

		var once sync.Once
		release := func() {
			once.Do(func() {
				g.release()
				c.inflight.Add(-1)
			})
		}

		c.dispatcher.Dispatch(func() {
			if c.ctx.Err() != nil {
				release()
				return
			}
			op(release)
		})
	}()
}

// relayout recomputes every slot's extent from the host's item sizes.
func (c *Carousel) relayout() {
	if c.host == nil || c.countOfSlots == 0 || c.itemsCount == 0 {
		c.vp.layout(nil)
		return
	}

	sizes := make(map[int]float64, c.itemsCount)
	extents := make([]float64, c.countOfSlots)
	for slot := range extents {
		index := c.logical(slot)
		extent, ok := sizes[index]
		if !ok {
			w, h := c.host.SizeForItem(index, c)
			extent = w
			if c.vp.direction == Vertical {
				extent = h
			}
			sizes[index] = extent
		}
		extents[slot] = extent
	}
	c.vp.layout(extents)
}

// refreshCells recycles cells that left the window and asks the host for the
// ones that entered it. With all set, every live cell is refetched.
func (c *Carousel) refreshCells(all bool) {
	visible := c.vp.visibleSlots()
	keep := make(map[int]struct{}, len(visible))
	for _, slot := range visible {
		keep[slot] = struct{}{}
	}

	for slot, cell := range c.live {
		if _, ok := keep[slot]; ok && !all {
			continue
		}
		c.pool.Recycle(cell)
		delete(c.live, slot)
	}

	if c.host == nil || c.itemsCount == 0 {
		return
	}
	for _, slot := range visible {
		if _, ok := c.live[slot]; ok {
			continue
		}
		cell := c.host.CellForItem(c.logical(slot), c)
		if cell == nil {
			continue
		}
		_, sel := c.selected[slot]
		cell.SetSelected(sel, false)
		c.live[slot] = cell
	}
}

func (c *Carousel) selectedSlots() []int {
	slots := make([]int, 0, len(c.selected))
	for slot := range c.selected {
		slots = append(slots, slot)
	}
	sort.Ints(slots)
	return slots
}

func (c *Carousel) firstSelectedSlot() (int, bool) {
	slots := c.selectedSlots()
	if len(slots) == 0 {
		return 0, false
	}
	return slots[0], true
}

func (c *Carousel) logf(level, format string, v ...interface{}) {
	log.LogFor(c.opts.name, level, format, v...)
}
