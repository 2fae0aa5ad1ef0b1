package ui

import (
	"strings"

	"infinite-carousel/carousel"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
)

const ellipsis = "…"

var labelStyle = lipgloss.NewStyle().
	Foreground(lipgloss.AdaptiveColor{Light: "#1a1a1a", Dark: "#dddddd"})

var selectedLabelStyle = lipgloss.NewStyle().
	Bold(true).
	Background(lipgloss.Color("#dde4f0")).
	Foreground(lipgloss.AdaptiveColor{Light: "#1a1a1a", Dark: "#1a1a1a"})

var boxBorderColor = lipgloss.AdaptiveColor{Light: "#888888", Dark: "#888888"}

var selectedBoxBorderColor = lipgloss.Color("62")

// Renderable is a cell that can draw itself into a width x height block.
type Renderable interface {
	Render(width, height int) string
}

// LabelCell shows one line of text centered in its block, optionally inside a
// rounded border.
type LabelCell struct {
	text     string
	selected bool
	bordered bool
}

// NewLabelCell is a carousel.CellFactory for plain labels.
func NewLabelCell() carousel.Cell {
	return &LabelCell{}
}

// NewBoxCell is a carousel.CellFactory for bordered labels.
func NewBoxCell() carousel.Cell {
	return &LabelCell{bordered: true}
}

func (c *LabelCell) SetText(text string) {
	c.text = text
}

func (c *LabelCell) Text() string {
	return c.text
}

func (c *LabelCell) SetSelected(selected, animated bool) {
	c.selected = selected
}

func (c *LabelCell) Selected() bool {
	return c.selected
}

func (c *LabelCell) Render(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	style := labelStyle
	if c.selected {
		style = selectedLabelStyle
	}

	if c.bordered && width >= 3 && height >= 3 {
		var border lipgloss.TerminalColor = boxBorderColor
		if c.selected {
			border = selectedBoxBorderColor
		}
		body := c.block(width-2, height-2, style)
		return lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Render(body)
	}
	return c.block(width, height, style)
}

// block centers the text vertically and horizontally.
func (c *LabelCell) block(width, height int, style lipgloss.Style) string {
	blank := strings.Repeat(" ", width)
	lines := make([]string, height)
	for i := range lines {
		lines[i] = style.Render(blank)
	}
	lines[height/2] = style.Render(centerText(c.text, width))
	return strings.Join(lines, "\n")
}

// centerText truncates text to width and pads it evenly on both sides.
func centerText(text string, width int) string {
	if runewidth.StringWidth(text) > width {
		text = truncate.StringWithTail(text, uint(width), ellipsis)
	}
	w := runewidth.StringWidth(text)
	if w >= width {
		return text
	}
	left := (width - w) / 2
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", width-w-left)
}
