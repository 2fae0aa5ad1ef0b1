package overlay

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TextInputOverlay is a one line prompt shown over the main view.
type TextInputOverlay struct {
	input     textinput.Model
	Title     string
	Submitted bool
	Canceled  bool
	OnSubmit  func(value string)
	OnCancel  func()
	width     int
}

// NewTextInputOverlay creates a focused prompt with the given title and
// placeholder.
func NewTextInputOverlay(title, placeholder string) *TextInputOverlay {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "> "
	ti.CharLimit = 64
	ti.Focus()

	return &TextInputOverlay{
		input: ti,
		Title: title,
	}
}

func (t *TextInputOverlay) SetWidth(width int) {
	t.width = width
}

// HandleKeyPress processes a key press. It returns true when the overlay
// should be closed.
func (t *TextInputOverlay) HandleKeyPress(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyEsc:
		t.Canceled = true
		if t.OnCancel != nil {
			t.OnCancel()
		}
		return true
	case tea.KeyEnter:
		t.Submitted = true
		if t.OnSubmit != nil {
			t.OnSubmit(t.GetValue())
		}
		return true
	default:
		t.input, _ = t.input.Update(msg)
		return false
	}
}

func (t *TextInputOverlay) GetValue() string {
	return t.input.Value()
}

func (t *TextInputOverlay) SetValue(value string) {
	t.input.SetValue(value)
}

// Render draws the prompt in a rounded box.
func (t *TextInputOverlay) Render() string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1)

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("62")).
		Bold(true)

	if t.width > 6 {
		// Border and padding take four columns, the prompt two.
		t.input.Width = t.width - 6 - len(t.input.Prompt)
	}

	content := titleStyle.Render(t.Title) + "\n" + t.input.View()
	return style.Render(content)
}

// PlaceOverlay centers fg over a background of width x height.
func PlaceOverlay(width, height int, fg string) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, fg)
}
