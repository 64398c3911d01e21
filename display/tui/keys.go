package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the key bindings for the dashboard.
type keyMap struct {
	Quit    key.Binding
	Pause   key.Binding
	PerCore key.Binding
}

// ShortHelp returns the keybindings shown in the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.PerCore, k.Quit}
}

// FullHelp returns the expanded keybinding groups.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Pause, k.PerCore, k.Quit}}
}

// keys holds the default key bindings used by the dashboard.
var keys = keyMap{
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	Pause:   key.NewBinding(key.WithKeys("p", " "), key.WithHelp("p", "pause")),
	PerCore: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "per-core")),
}
