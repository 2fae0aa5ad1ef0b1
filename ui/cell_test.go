package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestLabelCellRender(t *testing.T) {
	cell := NewLabelCell().(*LabelCell)
	cell.SetText("FEB")

	lines := strings.Split(cell.Render(6, 3), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "      ", lines[0])
	assert.Equal(t, " FEB  ", lines[1])
	assert.Equal(t, "      ", lines[2])

	cell.SetSelected(true, false)
	assert.True(t, cell.Selected())
	assert.Equal(t, " FEB  ", strings.Split(cell.Render(6, 3), "\n")[1])
}

func TestLabelCellTruncates(t *testing.T) {
	cell := &LabelCell{}
	cell.SetText("SEPTEMBER")

	line := cell.Render(5, 1)
	assert.Equal(t, "SEPT…", line)
	assert.Empty(t, cell.Render(0, 3))
}

func TestBoxCellRender(t *testing.T) {
	cell := NewBoxCell().(*LabelCell)
	cell.SetText("1986-02-05")

	lines := strings.Split(cell.Render(14, 3), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "╭────────────╮", lines[0])
	assert.Equal(t, "│ 1986-02-05 │", lines[1])
	assert.Equal(t, "╰────────────╯", lines[2])

	cell.SetSelected(true, false)
	assert.Equal(t, "│ 1986-02-05 │", strings.Split(cell.Render(14, 3), "\n")[1])

	// Too small for a border.
	assert.Equal(t, "19…", cell.Render(3, 1))
}

func TestCenterText(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{text: "5", width: 6, want: "  5   "},
		{text: "1986", width: 6, want: " 1986 "},
		{text: "", width: 3, want: "   "},
		{text: "日本", width: 6, want: " 日本 "},
		{text: "abcdef", width: 6, want: "abcdef"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, centerText(tt.text, tt.width), "text %q", tt.text)
	}
}

func TestErrBox(t *testing.T) {
	box := NewErrBox()
	box.SetSize(20, 1)
	assert.Equal(t, strings.Repeat(" ", 20), box.String())

	box.SetError(errors.New("clipboard\nunavailable"))
	assert.Equal(t, "clipboard//unavaila…", strings.TrimSpace(box.String()))

	box.Clear()
	assert.NoError(t, box.Err())
}

func TestErrBoxKeepsMessageThatFits(t *testing.T) {
	box := NewErrBox()
	box.SetSize(7, 1)
	box.SetError(errors.New("no date"))
	assert.Equal(t, "no date", box.String())
}
