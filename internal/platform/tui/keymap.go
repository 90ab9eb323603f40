package tui

import "github.com/charmbracelet/bubbles/key"

// GameKeyMap defines the key bindings for the board screen.
type GameKeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	Remove      key.Binding
	RotateLeft  key.Binding
	RotateRight key.Binding
	Restart     key.Binding
	Export      key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k GameKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Remove, k.RotateLeft, k.RotateRight, k.Restart, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k GameKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Remove, k.RotateLeft, k.RotateRight},
		{k.Restart, k.Export, k.Help, k.Quit},
	}
}

// DefaultGameKeyMap returns default key bindings. Rotation bindings are
// disabled when the rotation variant is off.
func DefaultGameKeyMap(rotation bool) GameKeyMap {
	km := GameKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k", "w"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j", "s"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h", "a"),
			key.WithHelp("←/h", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l", "d"),
			key.WithHelp("→/l", "right"),
		),
		Remove: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("space", "remove"),
		),
		RotateLeft: key.NewBinding(
			key.WithKeys("z", "["),
			key.WithHelp("z", "rotate left"),
		),
		RotateRight: key.NewBinding(
			key.WithKeys("x", "]"),
			key.WithHelp("x", "rotate right"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "new board"),
		),
		Export: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "export layout"),
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
	km.RotateLeft.SetEnabled(rotation)
	km.RotateRight.SetEnabled(rotation)
	return km
}
