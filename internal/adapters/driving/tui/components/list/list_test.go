package list

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newNames(names ...string) *Model[string] {
	m := New(nil, func(s string) string { return s }, "Nothing here.")
	m.SetItems(names)
	return m
}

func TestModel_Empty(t *testing.T) {
	m := newNames()

	_, ok := m.Selected()
	assert.False(t, ok)
	assert.Contains(t, m.View(), "Nothing here.")
	assert.Zero(t, m.Len())
}

func TestModel_Navigation(t *testing.T) {
	m := newNames("Alice", "Bob", "Carol")

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(runes("j"))
	m.Update(runes("j"))
	assert.Equal(t, 2, m.SelectedIndex(), "stops at the last row")

	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	got, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "Bob", got)

	m.Update(runes("g"))
	assert.Zero(t, m.SelectedIndex())
	m.Update(runes("k"))
	assert.Zero(t, m.SelectedIndex(), "stops at the first row")

	m.Update(runes("G"))
	assert.Equal(t, 2, m.SelectedIndex())
}

func TestModel_IgnoresOtherMessages(t *testing.T) {
	m := newNames("Alice", "Bob")

	_, cmd := m.Update(tea.WindowSizeMsg{Width: 10, Height: 10})
	assert.Nil(t, cmd)
	assert.Zero(t, m.SelectedIndex())
}

func TestModel_SetItemsClampsSelection(t *testing.T) {
	m := newNames("a", "b", "c")
	m.Update(runes("G"))

	m.SetItems([]string{"a"})
	assert.Zero(t, m.SelectedIndex())

	m.SetItems(nil)
	_, ok := m.Selected()
	assert.False(t, ok)
}

func TestModel_ViewScrollsWithSelection(t *testing.T) {
	items := make([]string, 10)
	for i := range items {
		items[i] = fmt.Sprintf("row-%d", i)
	}
	m := newNames(items...)
	m.SetDimensions(80, 3)

	view := m.View()
	assert.Contains(t, view, "row-0")
	assert.NotContains(t, view, "row-3")
	assert.Contains(t, view, "[1-3 of 10]")

	for range 5 {
		m.MoveDown()
	}
	view = m.View()
	assert.Contains(t, view, "> row-5")
	assert.NotContains(t, view, "row-2")
	assert.Contains(t, view, "[4-6 of 10]")
}

func TestModel_ViewTruncatesLongRows(t *testing.T) {
	m := newNames(strings.Repeat("word ", 40))
	m.SetDimensions(30, 5)

	assert.Contains(t, m.View(), "...")
}

func TestModel_Reset(t *testing.T) {
	m := newNames("a", "b")
	m.MoveDown()

	m.Reset()
	assert.Zero(t, m.Len())
	assert.Zero(t, m.SelectedIndex())
}
