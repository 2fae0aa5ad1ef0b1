package carousel

import (
	"context"
	"fmt"
	"testing"
	"time"

	"infinite-carousel/log"
	"infinite-carousel/mainloop"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	log.Initialize(&log.LogConfig{})
	defer log.Close()
	m.Run()
}

const reuseID = "cell"

type testCell struct {
	index    int
	selected bool
}

func (c *testCell) SetSelected(selected, animated bool) {
	c.selected = selected
}

// testHost is only touched from the loop goroutine.
type testHost struct {
	count         int
	defaultIndex  int
	selectedIndex int
	events        []string
}

func (h *testHost) NumberOfItems(c *Carousel) int {
	return h.count
}

func (h *testHost) CellForItem(index int, c *Carousel) Cell {
	cell := c.DequeueCell(reuseID, index).(*testCell)
	cell.index = index
	return cell
}

func (h *testHost) SizeForItem(index int, c *Carousel) (float64, float64) {
	return 10, 10
}

func (h *testHost) DefaultIndex(c *Carousel) int {
	return h.defaultIndex
}

func (h *testHost) SelectedIndex(c *Carousel) int {
	return h.selectedIndex
}

func (h *testHost) UserDidSelectCell(cell Cell, index int, c *Carousel) {
	h.events = append(h.events, fmt.Sprintf("select %d", index))
}

func (h *testHost) UserDidDeselectCell(cell Cell, index int, c *Carousel) {
	h.events = append(h.events, fmt.Sprintf("deselect %d", index))
}

var fastTiming = Timing{
	ReloadSettle:    time.Millisecond,
	ScrollSettle:    2 * time.Millisecond,
	AnimationSettle: time.Millisecond,
	Frame:           time.Millisecond,
}

type fixture struct {
	t       *testing.T
	c       *Carousel
	loop    *mainloop.Loop
	host    *testHost
	created int
}

// newFixture builds a carousel whose window shows five 10-unit slots.
func newFixture(t *testing.T, host *testHost, opts ...Option) *fixture {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	loop := mainloop.New()
	go loop.Run(ctx)

	opts = append([]Option{WithTiming(fastTiming), WithName(t.Name())}, opts...)
	c := New(host, loop, opts...)
	t.Cleanup(c.Close)

	f := &fixture{t: t, c: c, loop: loop, host: host}
	f.sync(func() {
		c.Register(func() Cell {
			f.created++
			return &testCell{}
		}, reuseID)
		if c.Direction() == Vertical {
			c.SetFrame(10, 50)
		} else {
			c.SetFrame(50, 10)
		}
	})
	return f
}

func (f *fixture) sync(task func()) {
	f.loop.Sync(task)
}

// settle waits until the carousel has no queued or deferred work left.
func (f *fixture) settle() {
	f.t.Helper()
	require.Eventually(f.t, func() bool {
		var busy bool
		f.sync(func() { busy = f.c.Busy() })
		return !busy
	}, 5*time.Second, time.Millisecond)
}

func (f *fixture) reload() {
	f.t.Helper()
	f.c.ReloadData(nil)
	f.settle()
}

func (f *fixture) events() []string {
	var events []string
	f.sync(func() { events = append(events, f.host.events...) })
	return events
}

func (f *fixture) selected() (int, bool) {
	var (
		index int
		ok    bool
	)
	f.sync(func() { index, ok = f.c.SelectedLogicalIndex() })
	return index, ok
}

func (f *fixture) visibleIndexes() []int {
	var indexes []int
	f.sync(func() {
		for _, v := range f.c.VisibleCells() {
			indexes = append(indexes, v.Index)
		}
	})
	return indexes
}

func TestReloadSelectsDefaultIndexOnce(t *testing.T) {
	f := newFixture(t, &testHost{count: 12, defaultIndex: 3})
	f.reload()

	assert.Equal(t, []string{"select 3"}, f.events())

	index, ok := f.selected()
	require.True(t, ok)
	assert.Equal(t, 3, index)

	f.sync(func() {
		assert.Equal(t, 12, f.c.ItemCount())
		assert.Equal(t, MinRenderedSlots, f.c.SlotCount())

		visible := f.c.VisibleCells()
		require.Len(t, visible, 5)
		center := visible[2]
		assert.Equal(t, 3, center.Index)
		assert.True(t, center.Selected)
		assert.Equal(t, 20.0, center.Start)
		require.NotNil(t, center.Cell)
		assert.True(t, center.Cell.(*testCell).selected)
		assert.Equal(t, 3, center.Cell.(*testCell).index)
	})
}

func TestSelectCellInCenterIsIdempotent(t *testing.T) {
	f := newFixture(t, &testHost{count: 12, defaultIndex: 3})
	f.reload()

	f.sync(func() {
		f.c.SelectCellInCenter(true)
		f.c.SelectCellInCenter(false)
	})
	assert.Equal(t, []string{"select 3"}, f.events())
}

func TestReloadUnchangedKeepsSelection(t *testing.T) {
	f := newFixture(t, &testHost{count: 12, defaultIndex: 3})
	f.reload()
	f.reload()
	f.reload()

	index, ok := f.selected()
	require.True(t, ok)
	assert.Equal(t, 3, index)
	assert.Equal(t, []string{"select 3"}, f.events())
}

func TestReloadWithNoItems(t *testing.T) {
	host := &testHost{count: 0, defaultIndex: 3}
	f := newFixture(t, host)
	f.reload()

	f.sync(func() {
		assert.Equal(t, 0, f.c.SlotCount())
		assert.Empty(t, f.c.VisibleCells())
		f.c.SelectCellInCenter(false)
		f.c.DeselectAll()
	})
	assert.Empty(t, f.events())
	_, ok := f.selected()
	assert.False(t, ok)

	// The default index is still pending for the first load with items.
	f.sync(func() { host.count = 12 })
	f.reload()
	assert.Equal(t, []string{"select 3"}, f.events())
}

func TestReloadCompletionOverridesSelection(t *testing.T) {
	f := newFixture(t, &testHost{count: 12, defaultIndex: 3})

	var order []int
	for i := 1; i <= 3; i++ {
		i := i
		f.c.ReloadData(func() { order = append(order, i) })
	}
	f.settle()

	f.sync(func() {
		assert.Equal(t, []int{1, 2, 3}, order)
	})
	assert.Empty(t, f.events())
}

func TestFollowSelectedIndex(t *testing.T) {
	host := &testHost{count: 12, defaultIndex: 1, selectedIndex: 7}
	f := newFixture(t, host, WithSelectionMode(FollowSelectedIndex))
	f.reload()

	index, ok := f.selected()
	require.True(t, ok)
	assert.Equal(t, 7, index)

	f.sync(func() { host.selectedIndex = 2 })
	f.c.RefreshSelection()
	f.settle()

	index, ok = f.selected()
	require.True(t, ok)
	assert.Equal(t, 2, index)
	assert.Equal(t, []string{"select 7", "select 2"}, f.events())
}

func TestSelectItemDeselectsSilently(t *testing.T) {
	f := newFixture(t, &testHost{count: 12, defaultIndex: 3})
	f.reload()

	f.sync(func() { f.c.SelectItem(7, false) })
	f.settle()

	index, ok := f.selected()
	require.True(t, ok)
	assert.Equal(t, 7, index)
	assert.Equal(t, []string{"select 3", "select 7"}, f.events())

	f.sync(func() {
		assert.Equal(t, 0, f.c.IndexOffset())
		selected := 0
		for _, v := range f.c.VisibleCells() {
			if v.Selected {
				selected++
			}
		}
		assert.Equal(t, 1, selected)
	})
}

func TestSelectItemPositions(t *testing.T) {
	// With 12 items the middle slot 250 shows item 10. A negative position
	// counts on from that item.
	tests := []struct {
		name string
		pos  int
		want int
	}{
		{name: "first", pos: 0, want: 0},
		{name: "inside", pos: 5, want: 5},
		{name: "last", pos: 11, want: 11},
		{name: "negative", pos: -2, want: 6},
		{name: "negative past middle", pos: -10, want: 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, &testHost{count: 12, defaultIndex: 3})
			f.reload()

			f.sync(func() { f.c.SelectItem(tt.pos, false) })
			f.settle()

			index, ok := f.selected()
			require.True(t, ok)
			assert.Equal(t, tt.want, index)
		})
	}
}

func TestSelectItemUsesLoadedCount(t *testing.T) {
	host := &testHost{count: 31}
	f := newFixture(t, host)
	f.reload()

	// The host shrinks but the window still holds 31 items until the next
	// reload.
	f.sync(func() {
		host.count = 28
		f.c.SelectItem(5, false)
	})
	f.settle()

	index, ok := f.selected()
	require.True(t, ok)
	assert.Equal(t, 5, index)
	assert.Equal(t, []string{"select 0", "select 5"}, f.events())

	f.reload()
	index, ok = f.selected()
	require.True(t, ok)
	assert.Equal(t, 5, index)
	f.sync(func() { assert.Equal(t, 28, f.c.ItemCount()) })
}

func TestDragWithNothingToSnapEndsIdle(t *testing.T) {
	f := newFixture(t, &testHost{count: 0})
	f.reload()

	f.sync(func() {
		f.c.BeginDrag()
		f.c.EndDrag(0)
		assert.Equal(t, PhaseSettling, f.c.Phase())
	})
	f.settle()
	f.sync(func() { assert.Equal(t, PhaseIdle, f.c.Phase()) })
}

func TestDragDeselectsBeforeSelecting(t *testing.T) {
	f := newFixture(t, &testHost{count: 12, defaultIndex: 3})
	f.reload()

	f.sync(func() {
		f.c.BeginDrag()
		assert.Equal(t, PhaseDragging, f.c.Phase())
		f.c.DragBy(10)
		f.c.EndDrag(0)
		assert.Equal(t, PhaseSettling, f.c.Phase())
	})
	f.settle()

	assert.Equal(t, []string{"select 3", "deselect 3", "select 4"}, f.events())
	f.sync(func() {
		assert.Equal(t, PhaseIdle, f.c.Phase())
	})
}

func TestDragSnapsToNearestSlot(t *testing.T) {
	f := newFixture(t, &testHost{count: 12, defaultIndex: 3})
	f.reload()

	var before float64
	f.sync(func() {
		before = f.c.ContentOffset()
		f.c.BeginDrag()
		f.c.DragBy(-13)
		f.c.EndDrag(0)
	})
	f.settle()

	f.sync(func() {
		assert.Equal(t, before-10, f.c.ContentOffset())
	})
	index, ok := f.selected()
	require.True(t, ok)
	assert.Equal(t, 2, index)
}

func TestFlingDeceleratesThenSnaps(t *testing.T) {
	f := newFixture(t, &testHost{count: 12, defaultIndex: 3})
	f.reload()

	f.sync(func() {
		f.c.BeginDrag()
		f.c.DragBy(3)
		f.c.EndDrag(20)
		assert.Equal(t, PhaseDecelerating, f.c.Phase())
	})
	f.settle()

	f.sync(func() {
		assert.Equal(t, PhaseIdle, f.c.Phase())

		visible := f.c.VisibleCells()
		require.Len(t, visible, 5)
		assert.Equal(t, 20.0, visible[2].Start)
		assert.True(t, visible[2].Selected)

		index, ok := f.c.SelectedLogicalIndex()
		require.True(t, ok)
		assert.Equal(t, visible[2].Index, index)
	})

	events := f.events()
	require.Len(t, events, 3)
	assert.Equal(t, "deselect 3", events[1])
}

func TestFlingWithPagingStaysPut(t *testing.T) {
	f := newFixture(t, &testHost{count: 12, defaultIndex: 3}, WithPaging(true))
	f.reload()

	f.sync(func() {
		f.c.BeginDrag()
		f.c.EndDrag(20)
	})
	f.settle()

	f.sync(func() {
		assert.Equal(t, PhaseIdle, f.c.Phase())
	})
	_, ok := f.selected()
	assert.False(t, ok)
	assert.Equal(t, []string{"select 3", "deselect 3"}, f.events())
}

func TestEndDragOutsideDragIsIgnored(t *testing.T) {
	f := newFixture(t, &testHost{count: 12, defaultIndex: 3})
	f.reload()

	f.sync(func() {
		f.c.EndDrag(0)
		f.c.EndDecelerating()
		assert.Equal(t, PhaseIdle, f.c.Phase())
	})
	assert.Equal(t, []string{"select 3"}, f.events())
}

func TestWrapKeepsVisibleItems(t *testing.T) {
	f := newFixture(t, &testHost{count: 12, defaultIndex: 3})
	f.reload()

	// Selected slot 243 is centered at offset 2410 of 5000.
	f.sync(func() {
		require.Equal(t, 2410.0, f.c.ContentOffset())
		f.c.DragBy(1300)
		assert.Equal(t, 0, f.c.IndexOffset())
		f.c.DragBy(50)
	})

	f.sync(func() {
		assert.Equal(t, 2510.0, f.c.ContentOffset())
		assert.Equal(t, 125, f.c.IndexOffset())
	})
	assert.Equal(t, []int{4, 5, 6, 7, 8}, f.visibleIndexes())

	index, ok := f.selected()
	require.True(t, ok)
	assert.Equal(t, 3, index)

	f.sync(func() {
		f.c.DragBy(-1300)
	})
	f.sync(func() {
		assert.Equal(t, 2460.0, f.c.ContentOffset())
		assert.Equal(t, 0, f.c.IndexOffset())
	})
	assert.Equal(t, []int{6, 7, 8, 9, 10}, f.visibleIndexes())
}

func TestResizeWithoutFullCycles(t *testing.T) {
	host := &testHost{count: 300, defaultIndex: 10}
	f := newFixture(t, host)
	f.reload()

	index, ok := f.selected()
	require.True(t, ok)
	require.Equal(t, 10, index)

	f.sync(func() { host.count = 280 })
	f.reload()

	index, ok = f.selected()
	require.True(t, ok)
	assert.Equal(t, 10, index)
	assert.Equal(t, []string{"select 10"}, f.events())
}

func TestResizeAcrossFullCycles(t *testing.T) {
	host := &testHost{count: 31, defaultIndex: 4}
	f := newFixture(t, host)
	f.reload()

	for _, count := range []int{30, 28, 31, 29} {
		f.sync(func() { host.count = count })
		f.reload()

		index, ok := f.selected()
		require.True(t, ok, "count %d", count)
		assert.Equal(t, 4, index, "count %d", count)
	}
	assert.Equal(t, []string{"select 4"}, f.events())
}

func TestSetFrameKeepsSelection(t *testing.T) {
	f := newFixture(t, &testHost{count: 12, defaultIndex: 3})
	f.reload()

	f.sync(func() { f.c.SetFrame(70, 10) })
	f.settle()

	index, ok := f.selected()
	require.True(t, ok)
	assert.Equal(t, 3, index)
	assert.Equal(t, []string{"select 3"}, f.events())
	assert.Len(t, f.visibleIndexes(), 7)
}

func TestVerticalCarousel(t *testing.T) {
	f := newFixture(t, &testHost{count: 12, defaultIndex: 5}, WithDirection(Vertical))
	f.reload()

	index, ok := f.selected()
	require.True(t, ok)
	assert.Equal(t, 5, index)
	assert.Equal(t, []int{3, 4, 5, 6, 7}, f.visibleIndexes())

	f.sync(func() {
		f.c.SetDirection(Horizontal)
		assert.Equal(t, Vertical, f.c.Direction())
	})
}

func TestDetachedHost(t *testing.T) {
	f := newFixture(t, &testHost{count: 12, defaultIndex: 3})
	f.reload()

	f.sync(func() { f.c.SetDataSource(nil) })
	f.reload()

	f.sync(func() {
		assert.Equal(t, 0, f.c.SlotCount())
		assert.Empty(t, f.c.VisibleCells())
	})
	_, ok := f.selected()
	assert.False(t, ok)
}

func TestCellsAreRecycled(t *testing.T) {
	f := newFixture(t, &testHost{count: 12, defaultIndex: 3})
	f.reload()

	f.sync(func() {
		assert.Equal(t, 5, f.created)
		f.c.DragBy(20)
		f.c.DragBy(300)
		assert.Len(t, f.c.live, 5)
		assert.Equal(t, 5, f.created)
		assert.Equal(t, 0, f.c.pool.Free(reuseID))
	})
	assert.Equal(t, []int{9, 10, 11, 0, 1}, f.visibleIndexes())
}

func TestCloseStopsPendingWork(t *testing.T) {
	f := newFixture(t, &testHost{count: 12, defaultIndex: 3})
	f.c.Close()
	f.c.ReloadData(nil)
	f.c.RefreshSelection()

	time.Sleep(20 * time.Millisecond)
	f.sync(func() {
		assert.Equal(t, 0, f.c.SlotCount())
	})
	assert.Empty(t, f.events())
}
