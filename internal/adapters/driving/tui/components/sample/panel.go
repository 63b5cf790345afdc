// Package sample runs the generate-sentence and random-quote actions for
// a group or source and renders their latest result.
package sample

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/quotechain/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/quotechain/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/quotechain/internal/core/domain"
	"github.com/custodia-labs/quotechain/internal/core/ports/driving"
)

var (
	errNoGenerator = errors.New("sentence generation not available")
	errNoRetriever = errors.New("random quotes not available")
)

type resultKind int

const (
	kindNone resultKind = iota
	kindSentence
	kindQuote
)

// Panel holds the latest sample for one owner.
type Panel struct {
	styles    *styles.Styles
	generator driving.SentenceGenerator
	retriever driving.QuoteRetriever
	ctx       context.Context

	owner   domain.Owner
	kind    resultKind
	text    string
	quote   *domain.Quote
	missing bool
	busy    bool
	err     error
}

// NewPanel creates a panel. Either service may be nil; its action then
// reports that it is unavailable.
func NewPanel(s *styles.Styles, generator driving.SentenceGenerator, retriever driving.QuoteRetriever) *Panel {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &Panel{styles: s, generator: generator, retriever: retriever, ctx: context.Background()}
}

// SetContext sets the context the actions run under.
func (p *Panel) SetContext(ctx context.Context) {
	p.ctx = ctx
}

// SetOwner switches the panel to owner and clears the previous result.
func (p *Panel) SetOwner(owner domain.Owner) {
	p.owner = owner
	p.kind = kindNone
	p.text, p.quote, p.missing, p.busy, p.err = "", nil, false, false, nil
}

// Generate returns a command sampling a sentence with the configured
// character limit and tries.
func (p *Panel) Generate() tea.Cmd {
	owner, gen, ctx := p.owner, p.generator, p.ctx
	p.busy = true
	return func() tea.Msg {
		if gen == nil {
			return messages.SentenceGenerated{Owner: owner, Err: errNoGenerator}
		}
		sentence, ok, err := gen.Generate(ctx, owner, 0, 0)
		return messages.SentenceGenerated{Owner: owner, Sentence: sentence, OK: ok, Err: err}
	}
}

// RandomQuote returns a command picking a random published quote.
func (p *Panel) RandomQuote() tea.Cmd {
	owner, ret, ctx := p.owner, p.retriever, p.ctx
	p.busy = true
	return func() tea.Msg {
		if ret == nil {
			return messages.QuoteRetrieved{Owner: owner, Err: errNoRetriever}
		}
		quote, ok, err := ret.RandomQuote(ctx, owner)
		return messages.QuoteRetrieved{Owner: owner, Quote: quote, OK: ok, Err: err}
	}
}

// Update records results for the current owner. handled is false for
// messages the panel does not consume.
func (p *Panel) Update(msg tea.Msg) (handled bool) {
	switch msg := msg.(type) {
	case messages.SentenceGenerated:
		if msg.Owner != p.owner {
			return true
		}
		p.busy = false
		p.kind, p.text, p.quote = kindSentence, msg.Sentence, nil
		p.missing, p.err = !msg.OK, msg.Err
		return true
	case messages.QuoteRetrieved:
		if msg.Owner != p.owner {
			return true
		}
		p.busy = false
		p.kind, p.text, p.quote = kindQuote, "", msg.Quote
		p.missing, p.err = !msg.OK, msg.Err
		return true
	}
	return false
}

// View renders the latest result, or nothing before the first action.
func (p *Panel) View() string {
	if p.busy {
		return p.styles.Muted.Render("Working...")
	}
	if p.err != nil {
		return p.styles.Error.Render(fmt.Sprintf("Error: %v", p.err))
	}

	switch p.kind {
	case kindSentence:
		if p.missing {
			return p.styles.Warning.Render("No sentence. The model is not ready or every try failed.")
		}
		return p.styles.Subtitle.Render("Generated") + "\n" + p.styles.Quote.Render(p.text)
	case kindQuote:
		if p.missing || p.quote == nil {
			return p.styles.Warning.Render("No published quotes.")
		}
		var b strings.Builder
		b.WriteString(p.styles.Subtitle.Render("Random quote"))
		b.WriteString("\n")
		b.WriteString(p.styles.Quote.Render(p.quote.Text))
		if p.quote.Citation != "" {
			b.WriteString("\n")
			b.WriteString(p.styles.Muted.Render("  " + p.quote.Citation))
		}
		return b.String()
	}
	return ""
}

// Busy reports whether an action is in flight.
func (p *Panel) Busy() bool {
	return p.busy
}

// Sentence returns the last generated sentence.
func (p *Panel) Sentence() string {
	return p.text
}

// Quote returns the last retrieved quote.
func (p *Panel) Quote() *domain.Quote {
	return p.quote
}

// Err returns the error of the last action.
func (p *Panel) Err() error {
	return p.err
}
