// Package quotedetail shows every field of one quote.
package quotedetail

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/quotechain/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/quotechain/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/quotechain/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/quotechain/internal/core/domain"
)

const timeLayout = "2006-01-02 15:04"

// View is the quote detail screen.
type View struct {
	styles *styles.Styles
	keys   *keymap.KeyMap
	now    func() time.Time

	quote  *domain.Quote
	offset int
	width  int
	height int
}

// NewView creates the quote detail screen.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles: s,
		keys:   keymap.DefaultKeyMap(),
		now:    time.Now,
		width:  80,
		height: 24,
	}
}

// SetQuote shows quote from the top.
func (v *View) SetQuote(quote domain.Quote) {
	v.quote = &quote
	v.offset = 0
}

// Update handles messages for the quote detail screen.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)

	case tea.KeyMsg:
		switch s := msg.String(); {
		case keymap.Matches(s, v.keys.Back):
			return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewQuotes} }
		case keymap.Matches(s, v.keys.Up):
			if v.offset > 0 {
				v.offset--
			}
		case keymap.Matches(s, v.keys.Down):
			if v.offset < v.maxOffset() {
				v.offset++
			}
		case keymap.Matches(s, v.keys.Top):
			v.offset = 0
		case keymap.Matches(s, v.keys.Bottom):
			v.offset = v.maxOffset()
		}
	}
	return v, nil
}

func (v *View) bodyRows() int {
	return max(v.height-6, 3)
}

func (v *View) maxOffset() int {
	return max(len(v.lines())-v.bodyRows(), 0)
}

func (v *View) lines() []string {
	if v.quote == nil {
		return nil
	}
	q := v.quote
	width := max(v.width-4, 20)

	var out []string
	text := lipgloss.NewStyle().Width(width).Render(q.Text)
	out = append(out, strings.Split(v.styles.Quote.Render(text), "\n")...)
	out = append(out, "")
	out = append(out, v.field("Citation", q.Citation))
	out = append(out, v.field("URL", q.CitationURL))
	out = append(out, v.field("Published", v.published()))
	out = append(out, v.field("Created", formatTime(q.CreatedAt)))
	out = append(out, v.field("Modified", formatTime(q.ModifiedAt)))
	out = append(out, v.field("ID", q.ID))
	return out
}

func (v *View) field(label, value string) string {
	if value == "" {
		value = v.styles.Muted.Render("-")
	}
	return v.styles.Subtitle.Render(label+":") + strings.Repeat(" ", max(11-len(label), 1)) + value
}

func (v *View) published() string {
	q := v.quote
	if q.PubDate == nil {
		return "published"
	}
	state := "published"
	if !q.IsPublished(v.now()) {
		state = "scheduled"
	}
	return formatTime(*q.PubDate) + " (" + state + ")"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(timeLayout)
}

// View renders the quote detail screen.
func (v *View) View() string {
	if v.quote == nil {
		return v.styles.Muted.Render("No quote selected.")
	}

	lines := v.lines()
	end := min(v.offset+v.bodyRows(), len(lines))

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Quote"))
	b.WriteString("\n\n")
	b.WriteString(strings.Join(lines[v.offset:end], "\n"))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[j/k] Scroll  [Esc] Back"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.offset = min(v.offset, v.maxOffset())
}

// Quote returns the quote on screen.
func (v *View) Quote() *domain.Quote {
	return v.quote
}

// Offset returns the first visible line.
func (v *View) Offset() int {
	return v.offset
}
