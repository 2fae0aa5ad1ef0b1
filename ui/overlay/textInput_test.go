package overlay

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func typeText(o *TextInputOverlay, s string) {
	for _, r := range s {
		o.HandleKeyPress(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestSubmit(t *testing.T) {
	o := NewTextInputOverlay("Go to date", "YYYY-MM-DD")
	var got string
	o.OnSubmit = func(value string) { got = value }

	typeText(o, "1990-10-30")
	assert.Equal(t, "1990-10-30", o.GetValue())

	closed := o.HandleKeyPress(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, closed)
	assert.True(t, o.Submitted)
	assert.Equal(t, "1990-10-30", got)
}

func TestCancel(t *testing.T) {
	o := NewTextInputOverlay("Go to date", "")
	canceled := false
	o.OnCancel = func() { canceled = true }

	typeText(o, "feb")
	assert.False(t, o.HandleKeyPress(tea.KeyMsg{Type: tea.KeyBackspace}))
	assert.Equal(t, "fe", o.GetValue())

	assert.True(t, o.HandleKeyPress(tea.KeyMsg{Type: tea.KeyEsc}))
	assert.True(t, canceled)
	assert.False(t, o.Submitted)
}

func TestRender(t *testing.T) {
	o := NewTextInputOverlay("Go to date", "")
	o.SetWidth(30)
	o.SetValue("2001")

	out := o.Render()
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 4)
	assert.Contains(t, out, "Go to date")
	assert.Contains(t, out, "> 2001")

	placed := strings.Split(PlaceOverlay(40, 10, out), "\n")
	assert.Len(t, placed, 10)
}
