// Package list provides a scrolling, selectable list used by every
// catalogue screen.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/custodia-labs/quotechain/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/quotechain/internal/adapters/driving/tui/styles"
)

// minLineWidth keeps rows readable on very narrow terminals.
const minLineWidth = 20

// Model is a list of T rendered one line per item.
type Model[T any] struct {
	items    []T
	selected int
	render   func(T) string
	empty    string

	styles *styles.Styles
	keys   *keymap.KeyMap
	width  int
	height int
}

// New creates a list. render produces the text of one row; empty is
// shown when there are no items.
func New[T any](s *styles.Styles, render func(T) string, empty string) *Model[T] {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &Model[T]{
		render: render,
		empty:  empty,
		styles: s,
		keys:   keymap.DefaultKeyMap(),
		width:  80,
		height: 20,
	}
}

// Update moves the selection. It never produces a command.
func (m *Model[T]) Update(msg tea.Msg) (*Model[T], tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch s := k.String(); {
	case keymap.Matches(s, m.keys.Up):
		m.MoveUp()
	case keymap.Matches(s, m.keys.Down):
		m.MoveDown()
	case keymap.Matches(s, m.keys.Top):
		m.selected = 0
	case keymap.Matches(s, m.keys.Bottom):
		m.selected = max(len(m.items)-1, 0)
	}
	return m, nil
}

// View renders the visible window of rows around the selection.
func (m *Model[T]) View() string {
	if len(m.items) == 0 {
		return m.styles.Muted.Render(m.empty)
	}

	visible := m.visibleRows()
	start := 0
	if m.selected >= visible {
		start = m.selected - visible + 1
	}
	end := min(start+visible, len(m.items))

	lineWidth := max(m.width-4, minLineWidth)
	lines := make([]string, 0, end-start+1)
	for i := start; i < end; i++ {
		text := runewidth.Truncate(m.render(m.items[i]), lineWidth, "...")
		if i == m.selected {
			lines = append(lines, m.styles.Selected.Render("> "+text))
		} else {
			lines = append(lines, m.styles.Normal.Render("  "+text))
		}
	}
	if len(m.items) > visible {
		lines = append(lines, m.styles.Muted.Render(
			fmt.Sprintf("  [%d-%d of %d]", start+1, end, len(m.items))))
	}
	return strings.Join(lines, "\n")
}

func (m *Model[T]) visibleRows() int {
	return max(m.height, 1)
}

// SetItems replaces the items, keeping the selection in range.
func (m *Model[T]) SetItems(items []T) {
	m.items = items
	if m.selected >= len(items) {
		m.selected = max(len(items)-1, 0)
	}
}

// Items returns the current items.
func (m *Model[T]) Items() []T {
	return m.items
}

// Selected returns the selected item. ok is false for an empty list.
func (m *Model[T]) Selected() (item T, ok bool) {
	if len(m.items) == 0 {
		return item, false
	}
	return m.items[m.selected], true
}

// SelectedIndex returns the index of the selected item.
func (m *Model[T]) SelectedIndex() int {
	return m.selected
}

// MoveUp moves the selection up one row.
func (m *Model[T]) MoveUp() {
	if m.selected > 0 {
		m.selected--
	}
}

// MoveDown moves the selection down one row.
func (m *Model[T]) MoveDown() {
	if m.selected < len(m.items)-1 {
		m.selected++
	}
}

// Reset clears the items and the selection.
func (m *Model[T]) Reset() {
	m.items = nil
	m.selected = 0
}

// SetDimensions sets the width in cells and the number of rows shown.
func (m *Model[T]) SetDimensions(width, rows int) {
	m.width = width
	m.height = rows
}

// Len returns the number of items.
func (m *Model[T]) Len() int {
	return len(m.items)
}
