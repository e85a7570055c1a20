package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the bindings shared by every view. Individual views pick
// the subset they surface in the help bar.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	enter   key.Binding
	back    key.Binding
	yes     key.Binding
	no      key.Binding
	restart key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	bind := func(help string, keys ...string) key.Binding {
		return key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], help))
	}

	return keyMap{
		up:      bind("move up", "up", "k"),
		down:    bind("move down", "down", "j"),
		enter:   bind("select", "enter"),
		back:    bind("go back", "esc"),
		yes:     bind("confirm", "y"),
		no:      bind("cancel", "n"),
		restart: bind("start over", "r"),
		quit:    bind("quit", "q", "ctrl+c"),
	}
}

// ShortHelp and FullHelp satisfy [help.KeyMap].
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.enter, k.back, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.yes, k.no, k.restart, k.quit},
	}
}
