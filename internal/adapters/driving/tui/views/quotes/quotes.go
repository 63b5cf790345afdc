// Package quotes lists the quotes of a source and adds or deletes them.
package quotes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/quotechain/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/quotechain/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/quotechain/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/quotechain/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/quotechain/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/quotechain/internal/core/domain"
	"github.com/custodia-labs/quotechain/internal/core/ports/driving"
)

const quoteCharLimit = 1000

var errEmptyQuote = errors.New("quote text is empty")

// View is the quote list of one source.
type View struct {
	styles    *styles.Styles
	keys      *keymap.KeyMap
	catalogue driving.CatalogueService
	ctx       context.Context
	now       func() time.Time

	source  *domain.Source
	list    *list.Model[domain.Quote]
	field   *input.Field
	loading bool
	status  string
	err     error
	width   int
	height  int
}

// NewView creates the quote list.
func NewView(s *styles.Styles, catalogue driving.CatalogueService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	v := &View{
		styles:    s,
		keys:      keymap.DefaultKeyMap(),
		catalogue: catalogue,
		ctx:       context.Background(),
		now:       time.Now,
		field:     input.NewField(s, "New quote", "Type the quote and press enter", quoteCharLimit),
		width:     80,
		height:    24,
	}
	v.list = list.New(s, v.renderQuote, "No quotes. Press 'a' to add one.")
	return v
}

func (v *View) renderQuote(q domain.Quote) string {
	text := strings.Join(strings.Fields(q.Text), " ")
	if !q.IsPublished(v.now()) {
		text = "(scheduled) " + text
	}
	return text
}

// SetContext sets the context used for catalogue calls.
func (v *View) SetContext(ctx context.Context) {
	v.ctx = ctx
}

// SetSource switches to source and returns the command loading its
// quotes.
func (v *View) SetSource(source domain.Source) tea.Cmd {
	v.source = &source
	v.list.Reset()
	v.field.Close()
	v.status, v.err = "", nil
	return v.Init()
}

// Init loads the quotes of the current source.
func (v *View) Init() tea.Cmd {
	if v.source == nil || v.catalogue == nil {
		return nil
	}
	v.loading = true
	ctx, catalogue, id := v.ctx, v.catalogue, v.source.ID
	return func() tea.Msg {
		quotes, err := catalogue.ListQuotes(ctx, id)
		return messages.QuotesLoaded{SourceID: id, Quotes: quotes, Err: err}
	}
}

// Update handles messages for the quote list.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)

	case messages.QuotesLoaded:
		if v.source == nil || msg.SourceID != v.source.ID {
			return v, nil
		}
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.list.SetItems(msg.Quotes)

	case messages.QuoteAdded:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.status = "Quote added. " + messages.ResultText(msg.Result)
		return v, v.Init()

	case messages.QuoteDeleted:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.status = "Quote deleted."
		return v, v.Init()

	case tea.KeyMsg:
		if v.field.Active() {
			return v, v.handleFieldKey(msg)
		}
		return v, v.handleKey(msg)

	default:
		if v.field.Active() {
			var cmd tea.Cmd
			v.field, cmd = v.field.Update(msg)
			return v, cmd
		}
	}
	return v, nil
}

func (v *View) handleFieldKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		v.field.Close()
		return nil
	case tea.KeyEnter:
		text := strings.TrimSpace(v.field.Value())
		v.field.Close()
		if text == "" {
			v.err = errEmptyQuote
			return nil
		}
		return v.add(text)
	}
	var cmd tea.Cmd
	v.field, cmd = v.field.Update(msg)
	return cmd
}

func (v *View) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch s := msg.String(); {
	case keymap.Matches(s, v.keys.Back):
		return func() tea.Msg { return messages.ViewChanged{View: messages.ViewSourceDetail} }
	case keymap.Matches(s, v.keys.Reload):
		return v.Init()
	case keymap.Matches(s, v.keys.Add):
		if v.source == nil {
			return nil
		}
		v.status, v.err = "", nil
		return v.field.Open("")
	case keymap.Matches(s, v.keys.Delete):
		if q, ok := v.list.Selected(); ok {
			return v.remove(q.ID)
		}
	case keymap.Matches(s, v.keys.Select):
		if q, ok := v.list.Selected(); ok {
			return func() tea.Msg { return messages.QuoteSelected{Quote: q} }
		}
	default:
		v.list.Update(msg)
	}
	return nil
}

func (v *View) add(text string) tea.Cmd {
	if v.catalogue == nil {
		return nil
	}
	ctx, catalogue := v.ctx, v.catalogue
	quote := domain.Quote{SourceID: v.source.ID, Text: text}
	return func() tea.Msg {
		saved, result, err := catalogue.AddQuote(ctx, quote)
		return messages.QuoteAdded{Quote: saved, Result: result, Err: err}
	}
}

func (v *View) remove(id string) tea.Cmd {
	if v.catalogue == nil {
		return nil
	}
	ctx, catalogue := v.ctx, v.catalogue
	return func() tea.Msg {
		return messages.QuoteDeleted{ID: id, Err: catalogue.DeleteQuote(ctx, id)}
	}
}

// View renders the quote list.
func (v *View) View() string {
	if v.source == nil {
		return v.styles.Muted.Render("No source selected.")
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Quotes of " + v.source.Name))
	b.WriteString("\n\n")

	if v.loading {
		b.WriteString(v.styles.Muted.Render("Loading quotes..."))
	} else {
		b.WriteString(v.list.View())
	}
	b.WriteString("\n\n")

	if v.field.Active() {
		b.WriteString(v.field.View())
		b.WriteString("\n\n")
	}
	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %v", v.err)))
		b.WriteString("\n\n")
	case v.status != "":
		b.WriteString(v.styles.Success.Render(v.status))
		b.WriteString("\n\n")
	}

	if v.field.Active() {
		b.WriteString(v.styles.Help.Render("[Enter] Save  [Esc] Cancel"))
	} else {
		b.WriteString(v.styles.Help.Render("[Enter] Open  [a] Add  [d] Delete  [ctrl+r] Reload  [Esc] Back"))
	}
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.list.SetDimensions(width, max(height-12, 3))
	v.field.SetWidth(width)
}

// Source returns the source whose quotes are listed.
func (v *View) Source() *domain.Source {
	return v.source
}

// Quotes returns the loaded quotes.
func (v *View) Quotes() []domain.Quote {
	return v.list.Items()
}

// Editing reports whether the add field is open.
func (v *View) Editing() bool {
	return v.field.Active()
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
