// Package sources lists the sources of a group, or every source.
package sources

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

// View is the source list.
type View struct {
	styles    *styles.Styles
	keys      *keymap.KeyMap
	catalogue driving.CatalogueService
	ctx       context.Context

	group   *domain.Group
	list    *list.Model[domain.Source]
	loading bool
	err     error
	width   int
	height  int
}

// NewView creates the source list.
func NewView(s *styles.Styles, catalogue driving.CatalogueService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:    s,
		keys:      keymap.DefaultKeyMap(),
		catalogue: catalogue,
		ctx:       context.Background(),
		list:      list.New(s, renderSource, "No sources."),
		width:     80,
		height:    24,
	}
}

func renderSource(src domain.Source) string {
	flag := "   "
	if src.AllowMarkov {
		flag = "[m]"
	}
	return fmt.Sprintf("%s %s", flag, src.Name)
}

// SetContext sets the context used for catalogue calls.
func (v *View) SetContext(ctx context.Context) {
	v.ctx = ctx
}

// SetGroup scopes the list to group, or to every source when group is
// nil, and returns the command loading it.
func (v *View) SetGroup(group *domain.Group) tea.Cmd {
	v.group = group
	v.err = nil
	v.list.Reset()
	return v.Init()
}

// Init loads the sources.
func (v *View) Init() tea.Cmd {
	if v.catalogue == nil {
		return nil
	}
	v.loading = true
	ctx, catalogue, groupID := v.ctx, v.catalogue, v.groupID()
	return func() tea.Msg {
		sources, err := catalogue.ListSources(ctx, groupID)
		return messages.SourcesLoaded{GroupID: groupID, Sources: sources, Err: err}
	}
}

func (v *View) groupID() string {
	if v.group == nil {
		return ""
	}
	return v.group.ID
}

// Update handles messages for the source list.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)

	case messages.SourcesLoaded:
		if msg.GroupID != v.groupID() {
			return v, nil
		}
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.list.SetItems(msg.Sources)
		}

	case tea.KeyMsg:
		switch s := msg.String(); {
		case keymap.Matches(s, v.keys.Back):
			target := messages.ViewMenu
			if v.group != nil {
				target = messages.ViewGroupDetail
			}
			return v, func() tea.Msg { return messages.ViewChanged{View: target} }
		case keymap.Matches(s, v.keys.Reload):
			return v, v.Init()
		case keymap.Matches(s, v.keys.Select):
			if src, ok := v.list.Selected(); ok {
				return v, func() tea.Msg { return messages.SourceSelected{Source: src} }
			}
		default:
			v.list.Update(msg)
		}
	}
	return v, nil
}

// View renders the source list.
func (v *View) View() string {
	var b strings.Builder
	title := "All Sources"
	if v.group != nil {
		title = "Sources of " + v.group.Name
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading sources..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %v", v.err)))
	default:
		b.WriteString(v.list.View())
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[m] markov enabled  [Enter] Open  [ctrl+r] Reload  [Esc] Back"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.list.SetDimensions(width, max(height-8, 3))
}

// Group returns the scoping group, nil for every source.
func (v *View) Group() *domain.Group {
	return v.group
}

// Sources returns the loaded sources.
func (v *View) Sources() []domain.Source {
	return v.list.Items()
}

// Err returns the last load error.
func (v *View) Err() error {
	return v.err
}
