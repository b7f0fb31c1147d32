package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the prompt key bindings.
type keyMap struct {
	Submit   key.Binding
	Previous key.Binding
	Next     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Quit     key.Binding
}

// ShortHelp returns the bindings for the help bar.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Previous, k.Next, k.Quit}
}

// FullHelp returns the bindings grouped for expanded help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.Quit},
		{k.Previous, k.Next},
		{k.PageUp, k.PageDown},
	}
}

// defaultKeyMap returns the prompt key bindings.
func defaultKeyMap() keyMap {
	return keyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "run"),
		),
		Previous: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "previous command"),
		),
		Next: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "next command"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "scroll up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "scroll down"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "quit"),
		),
	}
}
