// Package sourcedetail shows one source, toggles its markov flag and
// samples sentences or quotes from it.
package sourcedetail

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

// MenuOption is an action on the source.
type MenuOption int

const (
	OptionViewQuotes MenuOption = iota
	OptionGenerate
	OptionRandomQuote
	OptionToggleMarkov
	OptionBack
)

// View is the source detail screen.
type View struct {
	styles    *styles.Styles
	keys      *keymap.KeyMap
	catalogue driving.CatalogueService
	panel     *sample.Panel
	ctx       context.Context

	source     *domain.Source
	quoteCount int
	counted    bool
	selected   MenuOption
	updating   bool
	result     string
	err        error
	width      int
	height     int
}

// NewView creates the source detail screen.
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

// SetSource switches to source and returns the command counting its
// quotes.
func (v *View) SetSource(source domain.Source) tea.Cmd {
	v.source = &source
	v.quoteCount, v.counted = 0, false
	v.selected = OptionViewQuotes
	v.updating = false
	v.result, v.err = "", nil
	v.panel.SetOwner(domain.SourceOwner(source.ID))
	return v.Init()
}

// Init counts the quotes of the current source.
func (v *View) Init() tea.Cmd {
	if v.source == nil || v.catalogue == nil {
		return nil
	}
	ctx, catalogue, id := v.ctx, v.catalogue, v.source.ID
	return func() tea.Msg {
		quotes, err := catalogue.ListQuotes(ctx, id)
		return messages.QuotesLoaded{SourceID: id, Quotes: quotes, Err: err}
	}
}

// Update handles messages for the source detail screen.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	if v.panel.Update(msg) {
		return v, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)

	case messages.QuotesLoaded:
		if v.source == nil || msg.SourceID != v.source.ID {
			return v, nil
		}
		v.err = msg.Err
		if msg.Err == nil {
			v.quoteCount, v.counted = len(msg.Quotes), true
		}

	case messages.SourceUpdated:
		if v.source == nil || msg.Source.ID != v.source.ID {
			return v, nil
		}
		v.updating = false
		v.err = msg.Err
		if msg.Err == nil {
			src := msg.Source
			v.source = &src
			v.result = messages.ResultText(msg.Result)
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
	return messages.ViewChanged{View: messages.ViewSources}
}

func (v *View) run(option MenuOption) tea.Cmd {
	if v.source == nil {
		return nil
	}
	switch option {
	case OptionViewQuotes:
		src := *v.source
		return func() tea.Msg { return messages.QuotesRequested{Source: src} }
	case OptionGenerate:
		return v.panel.Generate()
	case OptionRandomQuote:
		return v.panel.RandomQuote()
	case OptionToggleMarkov:
		return v.toggleMarkov()
	case OptionBack:
		return back
	}
	return nil
}

func (v *View) toggleMarkov() tea.Cmd {
	if v.catalogue == nil || v.updating {
		return nil
	}
	v.updating = true
	v.result = ""
	ctx, catalogue := v.ctx, v.catalogue
	src := *v.source
	src.AllowMarkov = !src.AllowMarkov
	return func() tea.Msg {
		result, err := catalogue.UpdateSource(ctx, src)
		return messages.SourceUpdated{Source: src, Result: result, Err: err}
	}
}

func (v *View) optionLabel(opt MenuOption) string {
	switch opt {
	case OptionViewQuotes:
		return "View Quotes"
	case OptionGenerate:
		return "Generate Sentence"
	case OptionRandomQuote:
		return "Random Quote"
	case OptionToggleMarkov:
		if v.source != nil && v.source.AllowMarkov {
			return "Disable Markov"
		}
		return "Enable Markov"
	default:
		return "Back"
	}
}

// View renders the source detail screen.
func (v *View) View() string {
	if v.source == nil {
		return v.styles.Muted.Render("No source selected.")
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render(v.source.Name))
	b.WriteString("\n")
	if v.source.Description != "" {
		b.WriteString(v.styles.Muted.Render(v.source.Description))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	markov := v.styles.Muted.Render("disabled")
	if v.source.AllowMarkov {
		markov = v.styles.Success.Render("enabled")
	}
	fmt.Fprintf(&b, "Markov:   %s\n", markov)
	if v.counted {
		fmt.Fprintf(&b, "Quotes:   %d\n", v.quoteCount)
	} else {
		b.WriteString("Quotes:   " + v.styles.Muted.Render("counting...") + "\n")
	}

	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %v", v.err)))
		b.WriteString("\n")
	case v.updating:
		b.WriteString(v.styles.Muted.Render("Updating..."))
		b.WriteString("\n")
	case v.result != "":
		b.WriteString(v.styles.Success.Render(v.result))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for opt := OptionViewQuotes; opt <= OptionBack; opt++ {
		if opt == v.selected {
			b.WriteString("> " + v.styles.Selected.Render(v.optionLabel(opt)))
		} else {
			b.WriteString("  " + v.styles.Normal.Render(v.optionLabel(opt)))
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

// Source returns the source on screen.
func (v *View) Source() *domain.Source {
	return v.source
}

// QuoteCount returns the number of quotes, and false until counted.
func (v *View) QuoteCount() (int, bool) {
	return v.quoteCount, v.counted
}

// Selected returns the highlighted option.
func (v *View) Selected() MenuOption {
	return v.selected
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
