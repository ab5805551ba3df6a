package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the status view
type KeyMap struct {
	Trigger key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Trigger: key.NewBinding(
			key.WithKeys("t", "enter"),
			key.WithHelp("t", "start research cycle"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Keys is the global key bindings instance
var Keys = DefaultKeyMap()
