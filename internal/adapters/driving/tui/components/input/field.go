// Package input provides a labelled single-line editor for adding quotes
// and changing settings.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/quotechain/internal/adapters/driving/tui/styles"
)

// Field is a labelled text input that is closed until Open is called.
type Field struct {
	textinput textinput.Model
	label     string
	styles    *styles.Styles
	width     int
}

// NewField creates a closed field.
func NewField(s *styles.Styles, label, placeholder string, charLimit int) *Field {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = charLimit
	ti.Width = 50

	return &Field{textinput: ti, label: label, styles: s, width: 60}
}

// Open starts editing with value pre-filled.
func (f *Field) Open(value string) tea.Cmd {
	f.textinput.SetValue(value)
	f.textinput.CursorEnd()
	return tea.Batch(f.textinput.Focus(), textinput.Blink)
}

// Close stops editing and clears the value.
func (f *Field) Close() {
	f.textinput.Blur()
	f.textinput.Reset()
}

// Active reports whether the field is being edited.
func (f *Field) Active() bool {
	return f.textinput.Focused()
}

// SetLabel changes the label shown before the input.
func (f *Field) SetLabel(label string) {
	f.label = label
}

// Update forwards msg to the input while the field is open.
func (f *Field) Update(msg tea.Msg) (*Field, tea.Cmd) {
	if !f.Active() {
		return f, nil
	}
	var cmd tea.Cmd
	f.textinput, cmd = f.textinput.Update(msg)
	return f, cmd
}

// View renders the label and the input box.
func (f *Field) View() string {
	label := f.styles.Subtitle.Render(f.label + ": ")
	box := f.styles.InputField.Render(f.textinput.View())
	return lipgloss.JoinHorizontal(lipgloss.Center, label, box)
}

// Value returns the text entered so far.
func (f *Field) Value() string {
	return f.textinput.Value()
}

// SetWidth fits the input box into width cells next to its label.
func (f *Field) SetWidth(width int) {
	f.width = width
	f.textinput.Width = max(width-lipgloss.Width(f.label)-8, 20)
}
