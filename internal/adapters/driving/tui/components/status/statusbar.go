// Package status renders the bottom bar: where the user is, the last
// error and the main key hints.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/quotechain/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/quotechain/internal/adapters/driving/tui/styles"
)

const pathSep = " › "

// Bar is the status bar.
type Bar struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	path   []string
	err    error
	width  int
}

// NewBar creates a status bar.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &Bar{styles: s, keymap: km, width: 80}
}

// View renders the bar across the full width.
func (b *Bar) View() string {
	left := b.renderLeft()
	right := b.renderRight()
	gap := max(b.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	return b.styles.StatusBar.Width(b.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (b *Bar) renderLeft() string {
	if b.err != nil {
		return b.styles.Error.Render(fmt.Sprintf("Error: %v", b.err))
	}
	if len(b.path) == 0 {
		return b.styles.Muted.Render("quotechain")
	}
	return b.styles.Normal.Render(strings.Join(b.path, pathSep))
}

func (b *Bar) renderRight() string {
	bindings := b.keymap.ShortHelp()
	hints := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		h := binding.Help()
		hints = append(hints, h.Key+" "+h.Desc)
	}
	return b.styles.Muted.Render(strings.Join(hints, " · "))
}

// SetPath sets the breadcrumb and clears any error.
func (b *Bar) SetPath(parts ...string) {
	b.path = parts
	b.err = nil
}

// Path returns the breadcrumb.
func (b *Bar) Path() []string {
	return b.path
}

// SetError shows err until the next SetPath or ClearError.
func (b *Bar) SetError(err error) {
	b.err = err
}

// ClearError removes the error.
func (b *Bar) ClearError() {
	b.err = nil
}

// Err returns the error on display.
func (b *Bar) Err() error {
	return b.err
}

// SetWidth sets the bar width.
func (b *Bar) SetWidth(width int) {
	b.width = width
}
