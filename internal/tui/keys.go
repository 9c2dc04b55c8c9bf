package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit   key.Binding
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
	Toggle key.Binding
	Diff   key.Binding
	Swap   key.Binding
	Back   key.Binding
	Help   key.Binding
}

var keys = keyMap{
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k/up", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j/down", "down")),
	Top:    key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
	Bottom: key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
	Toggle: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "open/toggle")),
	Diff:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "diff against...")),
	Swap:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "swap diff sides")),
	Back:   key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
	Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Diff, k.Back, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.Toggle, k.Diff, k.Swap, k.Back},
		{k.Help, k.Quit},
	}
}
