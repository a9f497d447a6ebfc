// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds every binding the search screen responds to. Search and
// Focus apply while typing; the result bindings apply while the list has
// focus.
type KeyMap struct {
	Quit      key.Binding
	Help      key.Binding
	Back      key.Binding
	Search    key.Binding
	Focus     key.Binding
	Up        key.Binding
	Down      key.Binding
	Details   key.Binding
	NewSearch key.Binding
	Filter    key.Binding
	Language  key.Binding
}

func bind(help, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, desc))
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit:      bind("q", "quit", "q", "ctrl+c"),
		Help:      bind("?", "help", "?"),
		Back:      bind("esc", "back", "esc"),
		Search:    bind("enter", "search", "enter"),
		Focus:     bind("tab", "switch focus", "tab"),
		Up:        bind("↑/k", "up", "up", "k"),
		Down:      bind("↓/j", "down", "down", "j"),
		Details:   bind("enter", "details", "enter"),
		NewSearch: bind("n", "new search", "n"),
		Filter:    bind("f", "filter type", "f"),
		Language:  bind("l", "language", "l"),
	}
}

// ShortHelp returns the bindings shown while typing a query.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Focus, k.Back}
}

// ResultsHelp returns the bindings shown while browsing results.
func (k *KeyMap) ResultsHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Details, k.Filter, k.NewSearch, k.Help, k.Quit}
}

// FullHelp groups every binding for the help screen.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Search, k.Focus, k.Back},
		{k.Up, k.Down, k.Details, k.NewSearch},
		{k.Filter, k.Language},
		{k.Help, k.Quit},
	}
}
