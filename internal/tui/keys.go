package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the TUI.
type KeyMap struct {
	// Navigation
	Up   key.Binding
	Down key.Binding

	// Energy
	High key.Binding
	Med  key.Binding
	Low  key.Binding

	// Job actions
	Timer key.Binding // Start the job, or pause/resume its timer
	Done  key.Binding // Complete the job

	// View
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		High: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "high energy"),
		),
		Med: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "medium energy"),
		),
		Low: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "low energy"),
		),
		Timer: key.NewBinding(
			key.WithKeys("s", "enter"),
			key.WithHelp("s", "start/pause"),
		),
		Done: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "done"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns keybindings to show in the mini help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.High, k.Med, k.Low, k.Timer, k.Done, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.High, k.Med, k.Low},
		{k.Timer, k.Done},
		{k.Refresh, k.Help, k.Quit},
	}
}
