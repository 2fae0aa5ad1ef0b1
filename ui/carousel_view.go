package ui

import (
	"math"
	"strings"
	"time"

	"infinite-carousel/carousel"
	"infinite-carousel/keys"
	"infinite-carousel/ui/debounce"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/ansi"
	"github.com/muesli/reflow/truncate"
)

// WheelSettle is how long the wheel must stay quiet before a wheel scroll is
// treated as a released drag.
const WheelSettle = 150 * time.Millisecond

// CarouselView draws a carousel into a terminal block and turns keys and mouse
// events into drag gestures. All methods must run on the carousel's UI
// context.
type CarouselView struct {
	c          *carousel.Carousel
	dispatcher carousel.Dispatcher

	width, height int
	focused       bool

	wheel    *debounce.Debouncer
	wheeling bool

	dragging bool
	lastPos  int
	velocity float64
}

func NewCarouselView(c *carousel.Carousel, dispatcher carousel.Dispatcher) *CarouselView {
	return &CarouselView{
		c:          c,
		dispatcher: dispatcher,
		wheel:      debounce.New(WheelSettle),
	}
}

func (v *CarouselView) Carousel() *carousel.Carousel {
	return v.c
}

// SetSize sets the block the carousel renders into and lays it out.
func (v *CarouselView) SetSize(width, height int) {
	v.width, v.height = width, height
	v.c.SetFrame(float64(width), float64(height))
}

func (v *CarouselView) Size() (int, int) {
	return v.width, v.height
}

func (v *CarouselView) SetFocused(focused bool) {
	v.focused = focused
}

func (v *CarouselView) Focused() bool {
	return v.focused
}

// SetWheelSettle changes the wheel quiet period.
func (v *CarouselView) SetWheelSettle(d time.Duration) {
	v.wheel.SetDelay(d)
}

// HandleKey steps the carousel one cell for the arrow keys of its axis. It
// reports whether the key was used.
func (v *CarouselView) HandleKey(msg tea.KeyMsg) bool {
	name, ok := keys.Lookup(msg.String())
	if !ok || v.dragging {
		return false
	}

	vertical := v.c.Direction() == carousel.Vertical
	switch {
	case name == keys.KeyPrev && !vertical, name == keys.KeyUp && vertical:
		v.Step(-1)
	case name == keys.KeyNext && !vertical, name == keys.KeyDown && vertical:
		v.Step(1)
	default:
		return false
	}
	return true
}

// Step flicks the carousel by n cells and lets it settle on the new center.
func (v *CarouselView) Step(n int) {
	v.endWheel()
	v.c.BeginDrag()
	v.c.DragBy(float64(n) * v.centerExtent())
	v.c.EndDrag(0)
}

// HandleMouse handles a mouse event at x, y relative to the view's top left
// corner. It reports whether the event was used.
func (v *CarouselView) HandleMouse(msg tea.MouseMsg, x, y int) bool {
	pos := x
	if v.c.Direction() == carousel.Vertical {
		pos = y
	}

	switch {
	case msg.Button == tea.MouseButtonWheelUp, msg.Button == tea.MouseButtonWheelLeft:
		v.scrollWheel(-1)
	case msg.Button == tea.MouseButtonWheelDown, msg.Button == tea.MouseButtonWheelRight:
		v.scrollWheel(1)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		v.endWheel()
		v.dragging = true
		v.lastPos = pos
		v.velocity = 0
		v.c.BeginDrag()
	case msg.Action == tea.MouseActionMotion && v.dragging:
		delta := float64(v.lastPos - pos)
		v.lastPos = pos
		v.velocity = delta
		v.c.DragBy(delta)
	case msg.Action == tea.MouseActionRelease && v.dragging:
		v.dragging = false
		v.c.EndDrag(v.velocity)
	default:
		return false
	}
	return true
}

func (v *CarouselView) scrollWheel(dir int) {
	if v.dragging {
		return
	}
	if !v.wheeling {
		v.wheeling = true
		v.c.BeginDrag()
	}
	v.c.DragBy(float64(dir) * math.Max(1, v.centerExtent()/2))
	v.wheel.Trigger(func() {
		v.dispatcher.Dispatch(v.endWheel)
	})
}

func (v *CarouselView) endWheel() {
	v.wheel.Cancel()
	if !v.wheeling {
		return
	}
	v.wheeling = false
	v.c.EndDrag(0)
}

// Close drops a pending wheel release.
func (v *CarouselView) Close() {
	v.wheel.Cancel()
}

func (v *CarouselView) centerExtent() float64 {
	visible := v.c.VisibleCells()
	if len(visible) == 0 {
		return 1
	}
	return math.Max(1, visible[len(visible)/2].Extent)
}

// String renders exactly width x height cells.
func (v *CarouselView) String() string {
	if v.width <= 0 || v.height <= 0 {
		return ""
	}

	var lines []string
	if v.c.Direction() == carousel.Vertical {
		lines = v.renderVertical()
	} else {
		lines = v.renderHorizontal()
	}
	for i, line := range lines {
		lines[i] = padLine(line, v.width)
	}
	return strings.Join(lines, "\n")
}

// renderHorizontal lays cells side by side. Cells cut by the window edges are
// left blank.
func (v *CarouselView) renderHorizontal() []string {
	rows := make([]strings.Builder, v.height)
	col := 0
	for _, cell := range v.c.VisibleCells() {
		start := int(math.Round(cell.Start))
		end := int(math.Round(cell.Start + cell.Extent))
		lo, hi := max(start, 0), min(end, v.width)
		if hi <= lo {
			continue
		}

		var block []string
		if r, ok := cell.Cell.(Renderable); ok && lo == start && hi == end {
			block = strings.Split(r.Render(hi-lo, v.height), "\n")
		}
		for i := range rows {
			if lo > col {
				rows[i].WriteString(strings.Repeat(" ", lo-col))
			}
			if i < len(block) {
				rows[i].WriteString(padLine(block[i], hi-lo))
			} else {
				rows[i].WriteString(strings.Repeat(" ", hi-lo))
			}
		}
		col = hi
	}

	lines := make([]string, v.height)
	for i := range rows {
		lines[i] = rows[i].String()
	}
	return lines
}

// renderVertical stacks cells and clips the ones cut by the window edges.
func (v *CarouselView) renderVertical() []string {
	lines := make([]string, 0, v.height)
	row := 0
	for _, cell := range v.c.VisibleCells() {
		start := int(math.Round(cell.Start))
		end := int(math.Round(cell.Start + cell.Extent))
		extent := end - start
		if extent <= 0 {
			continue
		}

		block := make([]string, extent)
		if r, ok := cell.Cell.(Renderable); ok {
			copy(block, strings.Split(r.Render(v.width, extent), "\n"))
		}
		for i, line := range block {
			y := start + i
			if y < row || y >= v.height {
				continue
			}
			for row < y {
				lines = append(lines, "")
				row++
			}
			lines = append(lines, line)
			row++
		}
	}
	for len(lines) < v.height {
		lines = append(lines, "")
	}
	return lines
}

// padLine pads or cuts a styled line to exactly width printable cells.
func padLine(line string, width int) string {
	w := ansi.PrintableRuneWidth(line)
	if w > width {
		line = truncate.String(line, uint(width))
		w = ansi.PrintableRuneWidth(line)
	}
	return line + strings.Repeat(" ", width-w)
}
