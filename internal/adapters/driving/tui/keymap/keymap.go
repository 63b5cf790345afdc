// Package keymap defines the key bindings of the catalogue browser.
package keymap

import (
	"slices"

	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds every binding the views react to.
type KeyMap struct {
	Quit   key.Binding
	Help   key.Binding
	Back   key.Binding
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
	Select key.Binding

	// Generate samples a sentence from the selected owner's model.
	Generate key.Binding

	// Random picks a random published quote of the selected owner.
	Random key.Binding

	Add    key.Binding
	Delete key.Binding
	Reload key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Top:      key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "first")),
		Bottom:   key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "last")),
		Select:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Generate: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "generate sentence")),
		Random:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "random quote")),
		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Delete:   key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		Reload:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),
	}
}

// ShortHelp returns the bindings shown in the status bar.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Back, k.Help, k.Quit}
}

// FullHelp returns the bindings shown on the help screen, grouped by
// purpose.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.Select, k.Back},
		{k.Generate, k.Random},
		{k.Add, k.Delete, k.Reload},
		{k.Help, k.Quit},
	}
}

// Matches reports whether keyStr triggers binding.
func Matches(keyStr string, binding key.Binding) bool {
	return slices.Contains(binding.Keys(), keyStr)
}
