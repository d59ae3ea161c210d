package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Left   key.Binding
	Right  key.Binding
	Down   key.Binding
	Rotate key.Binding
	Drop   key.Binding
	Toggle key.Binding
	Speed  key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "move left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "move right"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "soft drop"),
		),
		Rotate: key.NewBinding(
			key.WithKeys("up", "k", "x"),
			key.WithHelp("↑/x", "rotate"),
		),
		Drop: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "hard drop"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("enter", "p"),
			key.WithHelp("enter/p", "start/pause"),
		),
		Speed: key.NewBinding(
			key.WithKeys("s", "tab"),
			key.WithHelp("s", "change speed"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) help() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Down, k.Rotate, k.Drop, k.Toggle, k.Speed, k.Quit}
}
