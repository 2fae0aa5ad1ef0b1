package app

import (
	"fmt"

	"infinite-carousel/keys"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type helpText interface {
	// toContent returns the help UI content.
	toContent() string
}

type helpTypeGeneral struct{}

// helpCategories is the display order of the help sections.
var helpCategories = []keys.HelpCategory{
	keys.HelpCategoryNavigation,
	keys.HelpCategorySelection,
	keys.HelpCategoryOther,
}

func (h helpTypeGeneral) toContent() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Infinite Carousel"),
		"",
		descStyle.Render("Day, month and year wrap around forever. Pick a date below to jump to it."),
		"",
	)

	for _, category := range helpCategories {
		categoryKeys := keys.GetKeysInCategory(category)
		if len(categoryKeys) == 0 {
			continue
		}

		content = lipgloss.JoinVertical(lipgloss.Left,
			content,
			headerStyle.Render(string(category)+":"),
		)
		for _, keyName := range categoryKeys {
			keyText := keys.GlobalkeyBindings[keyName].Help().Key
			helpInfo := keys.GetKeyHelp(keyName)

			keyLine := keyStyle.Render(fmt.Sprintf("%-10s", keyText)) + descStyle.Render("- "+helpInfo.Description)
			content = lipgloss.JoinVertical(lipgloss.Left, content, keyLine)
		}
		content = lipgloss.JoinVertical(lipgloss.Left, content, "")
	}

	content = lipgloss.JoinVertical(lipgloss.Left,
		content,
		headerStyle.Render("Mouse:"),
		descStyle.Render("Drag a carousel or use the wheel; it settles on the nearest cell."),
		"",
		descStyle.Render("Press any key to close."),
	)
	return helpBoxStyle.Render(content)
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("#7D56F4"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#36CFC9"))
	keyStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFCC00"))
	descStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#1a1a1a", Dark: "#FFFFFF"})
	helpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)
)

// showHelpScreen displays the help screen overlay.
func (m *home) showHelpScreen(helpType helpText) (tea.Model, tea.Cmd) {
	m.helpContent = helpType.toContent()
	m.state = stateHelp
	return m, nil
}

// handleHelpState handles key events when in help state. Any key closes the
// help screen.
func (m *home) handleHelpState(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.helpContent = ""
	m.state = stateDefault
	return m, nil
}
