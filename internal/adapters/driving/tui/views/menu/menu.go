// Package menu provides the main navigation menu of the catalogue browser.
package menu

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/quotechain/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/quotechain/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/quotechain/internal/adapters/driving/tui/styles"
)

// Item is one menu entry. Selecting it either emits Msg or quits.
type Item struct {
	Label string
	Msg   tea.Msg
	Quit  bool
}

// View is the main menu.
type View struct {
	styles   *styles.Styles
	keys     *keymap.KeyMap
	items    []Item
	selected int
	width    int
	height   int
	ready    bool
}

// NewView creates the menu.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles: s,
		keys:   keymap.DefaultKeyMap(),
		items: []Item{
			{Label: "Groups", Msg: messages.ViewChanged{View: messages.ViewGroups}},
			{Label: "All Sources", Msg: messages.SourcesRequested{}},
			{Label: "Settings", Msg: messages.ViewChanged{View: messages.ViewSettings}},
			{Label: "Help", Msg: messages.ViewChanged{View: messages.ViewHelp}},
			{Label: "Quit", Quit: true},
		},
		width:  80,
		height: 24,
	}
}

// Init initialises the menu view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		switch s := msg.String(); {
		case keymap.Matches(s, v.keys.Up):
			if v.selected > 0 {
				v.selected--
			}
		case keymap.Matches(s, v.keys.Down):
			if v.selected < len(v.items)-1 {
				v.selected++
			}
		case keymap.Matches(s, v.keys.Select):
			item := v.items[v.selected]
			if item.Quit {
				return v, tea.Quit
			}
			return v, func() tea.Msg { return item.Msg }
		case keymap.Matches(s, v.keys.Quit):
			return v, tea.Quit
		}
	}

	return v, nil
}

// View renders the menu.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("quotechain"))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Muted.Render("Quote catalogue and sentence generator"))
	b.WriteString("\n\n")

	for i, item := range v.items {
		if i == v.selected {
			b.WriteString("> " + v.styles.Selected.Render(item.Label))
		} else {
			b.WriteString("  " + v.styles.Normal.Render(item.Label))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [Enter] Select  [q] Quit"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Selected returns the currently selected index.
func (v *View) Selected() int {
	return v.selected
}
