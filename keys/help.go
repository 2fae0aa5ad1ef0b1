package keys

import (
	"sort"

	"github.com/charmbracelet/bubbles/key"
)

// HelpCategory organizes commands by function
type HelpCategory string

const (
	HelpCategoryNavigation HelpCategory = "Navigation"
	HelpCategorySelection  HelpCategory = "Selection"
	HelpCategoryOther      HelpCategory = "Other"
	HelpCategoryUncategory HelpCategory = "Uncategorized" // For keys without categories
)

// KeyHelpInfo adds extended help information to key bindings
type KeyHelpInfo struct {
	Description string       // Extended description for help text
	Category    HelpCategory // Category for organizing in help screens
}

// KeyHelpMap maps KeyNames to their help information
var KeyHelpMap = map[KeyName]KeyHelpInfo{
	KeyPrev:     {Description: "Move the focused carousel back one cell", Category: HelpCategoryNavigation},
	KeyNext:     {Description: "Move the focused carousel forward one cell", Category: HelpCategoryNavigation},
	KeyUp:       {Description: "Move the dates list back one date", Category: HelpCategoryNavigation},
	KeyDown:     {Description: "Move the dates list forward one date", Category: HelpCategoryNavigation},
	KeyTab:      {Description: "Focus the next carousel", Category: HelpCategoryNavigation},
	KeyShiftTab: {Description: "Focus the previous carousel", Category: HelpCategoryNavigation},

	KeyToday: {Description: "Select today's date", Category: HelpCategorySelection},
	KeyCopy:  {Description: "Copy the selected date to the clipboard", Category: HelpCategorySelection},
	KeyGoto:  {Description: "Type a date or month name to jump to", Category: HelpCategorySelection},

	KeyReload: {Description: "Reload every carousel", Category: HelpCategoryOther},
	KeyHelp:   {Description: "Toggle the full help", Category: HelpCategoryOther},
	KeyQuit:   {Description: "Quit the application", Category: HelpCategoryOther},
}

// GetKeyHelp returns the help information for a key
func GetKeyHelp(keyName KeyName) KeyHelpInfo {
	info, exists := KeyHelpMap[keyName]
	if !exists {
		return KeyHelpInfo{
			Description: "No description",
			Category:    HelpCategoryUncategory,
		}
	}
	return info
}

// GetKeysInCategory returns all key names in a given category, in declaration
// order.
func GetKeysInCategory(category HelpCategory) []KeyName {
	var names []KeyName
	for k, info := range KeyHelpMap {
		if info.Category == category {
			names = append(names, k)
		}
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// HelpMap adapts the global bindings to the bubbles help.KeyMap interface.
type HelpMap struct{}

func (HelpMap) ShortHelp() []key.Binding {
	return Bindings(KeyPrev, KeyNext, KeyTab, KeyToday, KeyCopy, KeyHelp, KeyQuit)
}

func (HelpMap) FullHelp() [][]key.Binding {
	categories := []HelpCategory{HelpCategoryNavigation, HelpCategorySelection, HelpCategoryOther}
	columns := make([][]key.Binding, 0, len(categories))
	for _, category := range categories {
		columns = append(columns, Bindings(GetKeysInCategory(category)...))
	}
	return columns
}
