// Package groupdetail shows one group with its counts and samples
// sentences or quotes from it.
package groupdetail

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/quotechain/internal/adapters/driving/tui/components/sample"
	"github.com/custodia-labs/quotechain/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/quotechain/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/quotechain/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/quotechain/internal/core/domain"
	"github.com/custodia-labs/quotechain/internal/core/ports/driving"
)

// MenuOption is an action on the group.
type MenuOption int

const (
	OptionViewSources MenuOption = iota
	OptionGenerate
	OptionRandomQuote
	OptionBack
)

var optionLabels = [...]string{
	OptionViewSources: "View Sources",
	OptionGenerate:    "Generate Sentence",
	OptionRandomQuote: "Random Quote",
	OptionBack:        "Back",
}

// View is the group detail screen.
type View struct {
	styles    *styles.Styles
	keys      *keymap.KeyMap
	catalogue driving.CatalogueService
	panel     *sample.Panel
	ctx       context.Context

	group    *domain.Group
	summary  *domain.GroupSummary
	selected MenuOption
	err      error
	width    int
	height   int
}

// NewView creates the group detail screen.
func NewView(
	s *styles.Styles,
	catalogue driving.CatalogueService,
	generator driving.SentenceGenerator,
	retriever driving.QuoteRetriever,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:    s,
		keys:      keymap.DefaultKeyMap(),
		catalogue: catalogue,
		panel:     sample.NewPanel(s, generator, retriever),
		ctx:       context.Background(),
		width:     80,
		height:    24,
	}
}

// SetContext sets the context used for service calls.
func (v *View) SetContext(ctx context.Context) {
	v.ctx = ctx
	v.panel.SetContext(ctx)
}

// SetGroup switches to group and returns the command loading its summary.
func (v *View) SetGroup(group domain.Group) tea.Cmd {
	v.group = &group
	v.summary = nil
	v.err = nil
	v.selected = OptionViewSources
	v.panel.SetOwner(domain.GroupOwner(group.ID))
	return v.Init()
}

// Init loads the summary of the current group.
func (v *View) Init() tea.Cmd {
	if v.group == nil || v.catalogue == nil {
		return nil
	}
	ctx, catalogue, id := v.ctx, v.catalogue, v.group.ID
	return func() tea.Msg {
		summary, err := catalogue.GroupSummary(ctx, id)
		return messages.GroupSummaryLoaded{Summary: summary, Err: err}
	}
}

// Update handles messages for the group detail screen.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	if v.panel.Update(msg) {
		return v, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)

	case messages.GroupSummaryLoaded:
		v.err = msg.Err
		if msg.Err == nil && msg.Summary != nil && v.group != nil && msg.Summary.Group.ID == v.group.ID {
			v.summary = msg.Summary
		}

	case tea.KeyMsg:
		return v, v.handleKey(msg)
	}
	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch s := msg.String(); {
	case keymap.Matches(s, v.keys.Back):
		return back
	case keymap.Matches(s, v.keys.Up):
		if v.selected > 0 {
			v.selected--
		}
	case keymap.Matches(s, v.keys.Down):
		if v.selected < OptionBack {
			v.selected++
		}
	case keymap.Matches(s, v.keys.Generate):
		return v.run(OptionGenerate)
	case keymap.Matches(s, v.keys.Random):
		return v.run(OptionRandomQuote)
	case keymap.Matches(s, v.keys.Select):
		return v.run(v.selected)
	}
	return nil
}

func back() tea.Msg {
	return messages.ViewChanged{View: messages.ViewGroups}
}

func (v *View) run(option MenuOption) tea.Cmd {
	if v.group == nil {
		return nil
	}
	switch option {
	case OptionViewSources:
		group := *v.group
		return func() tea.Msg { return messages.SourcesRequested{Group: &group} }
	case OptionGenerate:
		return v.panel.Generate()
	case OptionRandomQuote:
		return v.panel.RandomQuote()
	case OptionBack:
		return back
	}
	return nil
}

// View renders the group detail screen.
func (v *View) View() string {
	if v.group == nil {
		return v.styles.Muted.Render("No group selected.")
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render(v.group.Name))
	b.WriteString("\n")
	if v.group.Description != "" {
		b.WriteString(v.styles.Muted.Render(v.group.Description))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %v", v.err)))
	case v.summary == nil:
		b.WriteString(v.styles.Muted.Render("Loading..."))
	default:
		ready := v.styles.Warning.Render("not ready")
		if v.summary.MarkovReady {
			ready = v.styles.Success.Render("ready")
		}
		fmt.Fprintf(&b, "Sources:        %d (%d markov)\n", v.summary.TotalSources, v.summary.MarkovSources)
		fmt.Fprintf(&b, "Quotes:         %d\n", v.summary.TotalQuotes)
		fmt.Fprintf(&b, "Text model:     %s", ready)
	}
	b.WriteString("\n\n")

	for opt := OptionViewSources; opt <= OptionBack; opt++ {
		if opt == v.selected {
			b.WriteString("> " + v.styles.Selected.Render(optionLabels[opt]))
		} else {
			b.WriteString("  " + v.styles.Normal.Render(optionLabels[opt]))
		}
		b.WriteString("\n")
	}

	if out := v.panel.View(); out != "" {
		b.WriteString("\n")
		b.WriteString(out)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[Enter] Select  [s] Sentence  [r] Random quote  [Esc] Back"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Group returns the group on screen.
func (v *View) Group() *domain.Group {
	return v.group
}

// Summary returns the loaded summary.
func (v *View) Summary() *domain.GroupSummary {
	return v.summary
}

// Selected returns the highlighted option.
func (v *View) Selected() MenuOption {
	return v.selected
}

// Panel returns the sample panel.
func (v *View) Panel() *sample.Panel {
	return v.panel
}
