package keys

import (
	"github.com/charmbracelet/bubbles/key"
)

type KeyName int

const (
	KeyPrev KeyName = iota // Previous cell of a horizontal carousel
	KeyNext                // Next cell of a horizontal carousel
	KeyUp                  // Previous cell of a vertical carousel
	KeyDown                // Next cell of a vertical carousel

	KeyTab      // Tab moves focus to the next carousel.
	KeyShiftTab // ShiftTab moves focus back.

	KeyToday
	KeyCopy
	KeyGoto
	KeyReload
	KeyHelp
	KeyQuit
)

// GlobalKeyStringsMap is a global, immutable map string to keybinding.
var GlobalKeyStringsMap = map[string]KeyName{
	"left":      KeyPrev,
	"h":         KeyPrev,
	"right":     KeyNext,
	"l":         KeyNext,
	"up":        KeyUp,
	"k":         KeyUp,
	"down":      KeyDown,
	"j":         KeyDown,
	"tab":       KeyTab,
	"shift+tab": KeyShiftTab,
	"t":         KeyToday,
	"y":         KeyCopy,
	"g":         KeyGoto,
	"r":         KeyReload,
	"?":         KeyHelp,
	"q":         KeyQuit,
	"ctrl+c":    KeyQuit,
}

// GlobalkeyBindings is a global, immutable map of KeyName to keybinding.
var GlobalkeyBindings = map[KeyName]key.Binding{
	KeyPrev: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "previous"),
	),
	KeyNext: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "next"),
	),
	KeyUp: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "previous date"),
	),
	KeyDown: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "next date"),
	),
	KeyTab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next carousel"),
	),
	KeyShiftTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "previous carousel"),
	),
	KeyToday: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "today"),
	),
	KeyCopy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy date"),
	),
	KeyGoto: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "go to date"),
	),
	KeyReload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	KeyHelp: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	KeyQuit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Lookup resolves a key press to its name.
func Lookup(s string) (KeyName, bool) {
	name, ok := GlobalKeyStringsMap[s]
	return name, ok
}

// Bindings returns the bindings for names, in order.
func Bindings(names ...KeyName) []key.Binding {
	bindings := make([]key.Binding, 0, len(names))
	for _, name := range names {
		if b, ok := GlobalkeyBindings[name]; ok {
			bindings = append(bindings, b)
		}
	}
	return bindings
}
