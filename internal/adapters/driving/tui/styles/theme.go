// Package styles holds the colour palette and lipgloss styles of the
// catalogue browser.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is the colour palette.
type Theme struct {
	Accent    lipgloss.Color
	Highlight lipgloss.Color
	Text      lipgloss.Color
	Faint     lipgloss.Color
	Good      lipgloss.Color
	Caution   lipgloss.Color
	Bad       lipgloss.Color
	Frame     lipgloss.Color
	Bar       lipgloss.Color
}

// DefaultTheme returns a palette for dark terminals.
func DefaultTheme() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("#D97706"), // amber
		Highlight: lipgloss.Color("#0EA5E9"), // sky
		Text:      lipgloss.Color("#E5E7EB"),
		Faint:     lipgloss.Color("#6B7280"),
		Good:      lipgloss.Color("#84CC16"),
		Caution:   lipgloss.Color("#FACC15"),
		Bad:       lipgloss.Color("#EF4444"),
		Frame:     lipgloss.Color("#374151"),
		Bar:       lipgloss.Color("#111827"),
	}
}

// Styles are the rendering styles derived from a Theme.
type Styles struct {
	theme *Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style

	// Quote renders quotation and generated sentence text.
	Quote lipgloss.Style

	InputField lipgloss.Style
	StatusBar  lipgloss.Style
	Help       lipgloss.Style
	Border     lipgloss.Style
}

// NewStyles derives styles from theme. A nil theme uses DefaultTheme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme:    theme,
		Title:    lipgloss.NewStyle().Bold(true).Foreground(theme.Accent),
		Subtitle: lipgloss.NewStyle().Bold(true).Foreground(theme.Highlight),
		Normal:   lipgloss.NewStyle().Foreground(theme.Text),
		Muted:    lipgloss.NewStyle().Foreground(theme.Faint),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(theme.Bar).Background(theme.Accent),
		Error:    lipgloss.NewStyle().Foreground(theme.Bad),
		Success:  lipgloss.NewStyle().Foreground(theme.Good),
		Warning:  lipgloss.NewStyle().Foreground(theme.Caution),
		Quote: lipgloss.NewStyle().
			Italic(true).
			Foreground(theme.Text).
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(theme.Accent).
			PaddingLeft(1),
		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Frame).
			Padding(0, 1),
		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Faint).
			Background(theme.Bar).
			Padding(0, 1),
		Help: lipgloss.NewStyle().Foreground(theme.Faint),
		Border: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Frame),
	}
}

// DefaultStyles returns styles for DefaultTheme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the palette the styles were derived from.
func (s *Styles) Theme() *Theme {
	return s.theme
}
