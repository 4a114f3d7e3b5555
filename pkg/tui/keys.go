package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap is the set of bindings shown in the help line.
type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Back    key.Binding
	Forward key.Binding
	Erase   key.Binding
	Restart key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k", "shift+tab"),
			key.WithHelp("↑/k", "prev question"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j", "tab"),
			key.WithHelp("↓/j", "next question"),
		),
		Back: key.NewBinding(
			key.WithKeys("left", "p"),
			key.WithHelp("←/p", "back"),
		),
		Forward: key.NewBinding(
			key.WithKeys("right", "n", "enter"),
			key.WithHelp("→/enter", "next page"),
		),
		Erase: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("⌫", "erase"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "back to questions"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Back, k.Forward, k.Restart, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Erase},
		{k.Back, k.Forward, k.Restart, k.Quit},
	}
}
