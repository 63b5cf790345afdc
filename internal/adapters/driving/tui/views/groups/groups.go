// Package groups lists every group of the catalogue.
package groups

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/quotechain/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/quotechain/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/quotechain/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/quotechain/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/quotechain/internal/core/domain"
	"github.com/custodia-labs/quotechain/internal/core/ports/driving"
)

// View is the group list.
type View struct {
	styles    *styles.Styles
	keys      *keymap.KeyMap
	catalogue driving.CatalogueService
	ctx       context.Context

	list    *list.Model[domain.Group]
	loading bool
	err     error
	width   int
	height  int
}

// NewView creates the group list.
func NewView(s *styles.Styles, catalogue driving.CatalogueService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:    s,
		keys:      keymap.DefaultKeyMap(),
		catalogue: catalogue,
		ctx:       context.Background(),
		list:      list.New(s, renderGroup, "No groups. Create one with 'quotechain group add'."),
		width:     80,
		height:    24,
	}
}

func renderGroup(g domain.Group) string {
	if g.Description == "" {
		return g.Name
	}
	return fmt.Sprintf("%s  %s", g.Name, g.Description)
}

// SetContext sets the context used for catalogue calls.
func (v *View) SetContext(ctx context.Context) {
	v.ctx = ctx
}

// Init loads the groups.
func (v *View) Init() tea.Cmd {
	return v.load()
}

func (v *View) load() tea.Cmd {
	if v.catalogue == nil {
		return nil
	}
	v.loading = true
	ctx, catalogue := v.ctx, v.catalogue
	return func() tea.Msg {
		groups, err := catalogue.ListGroups(ctx)
		return messages.GroupsLoaded{Groups: groups, Err: err}
	}
}

// Update handles messages for the group list.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)

	case messages.GroupsLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.list.SetItems(msg.Groups)
		}

	case tea.KeyMsg:
		switch s := msg.String(); {
		case keymap.Matches(s, v.keys.Back):
			return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }
		case keymap.Matches(s, v.keys.Reload):
			return v, v.load()
		case keymap.Matches(s, v.keys.Select):
			if g, ok := v.list.Selected(); ok {
				return v, func() tea.Msg { return messages.GroupSelected{Group: g} }
			}
		default:
			v.list.Update(msg)
		}
	}
	return v, nil
}

// View renders the group list.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Groups"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading groups..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %v", v.err)))
	default:
		b.WriteString(v.list.View())
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [Enter] Open  [ctrl+r] Reload  [Esc] Back"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.list.SetDimensions(width, max(height-8, 3))
}

// Groups returns the loaded groups.
func (v *View) Groups() []domain.Group {
	return v.list.Items()
}

// Err returns the last load error.
func (v *View) Err() error {
	return v.err
}
