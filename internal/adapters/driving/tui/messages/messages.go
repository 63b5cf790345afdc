// Package messages defines the Bubbletea messages exchanged between the
// catalogue browser and its views.
package messages

import (
	"fmt"

	"github.com/custodia-labs/quotechain/internal/core/domain"
)

// ViewType identifies a screen.
type ViewType int

const (
	ViewMenu ViewType = iota
	ViewGroups
	ViewGroupDetail
	ViewSources
	ViewSourceDetail
	ViewQuotes
	ViewQuoteDetail
	ViewSettings
	ViewHelp
)

var viewNames = [...]string{
	ViewMenu:         "menu",
	ViewGroups:       "groups",
	ViewGroupDetail:  "group_detail",
	ViewSources:      "sources",
	ViewSourceDetail: "source_detail",
	ViewQuotes:       "quotes",
	ViewQuoteDetail:  "quote_detail",
	ViewSettings:     "settings",
	ViewHelp:         "help",
}

func (v ViewType) String() string {
	if v < 0 || int(v) >= len(viewNames) {
		return "unknown"
	}
	return viewNames[v]
}

// ViewChanged switches to another screen.
type ViewChanged struct {
	View ViewType
}

// ErrorOccurred reports a failure the current screen should show.
type ErrorOccurred struct {
	Err error
}

// Quit ends the program.
type Quit struct{}

// GroupsLoaded carries every group.
type GroupsLoaded struct {
	Groups []domain.Group
	Err    error
}

// GroupSelected opens the detail screen of a group.
type GroupSelected struct {
	Group domain.Group
}

// GroupSummaryLoaded carries the counts of the group on screen.
type GroupSummaryLoaded struct {
	Summary *domain.GroupSummary
	Err     error
}

// SourcesRequested opens the source list of a group. A nil Group lists
// every source.
type SourcesRequested struct {
	Group *domain.Group
}

// SourcesLoaded carries the sources of a group, or all sources when
// GroupID is empty.
type SourcesLoaded struct {
	GroupID string
	Sources []domain.Source
	Err     error
}

// SourceSelected opens the detail screen of a source.
type SourceSelected struct {
	Source domain.Source
}

// SourceUpdated reports an edited source and the model update it caused.
type SourceUpdated struct {
	Source domain.Source
	Result domain.UpdateResult
	Err    error
}

// QuotesRequested opens the quote list of a source.
type QuotesRequested struct {
	Source domain.Source
}

// QuotesLoaded carries the quotes of a source.
type QuotesLoaded struct {
	SourceID string
	Quotes   []domain.Quote
	Err      error
}

// QuoteSelected opens the detail screen of a quote.
type QuoteSelected struct {
	Quote domain.Quote
}

// QuoteAdded reports a new quote and how the text models took it.
type QuoteAdded struct {
	Quote  *domain.Quote
	Result domain.UpdateResult
	Err    error
}

// QuoteDeleted reports a removed quote.
type QuoteDeleted struct {
	ID  string
	Err error
}

// SentenceGenerated carries a sampled sentence. OK is false when the
// owner is not ready or the tries ran out.
type SentenceGenerated struct {
	Owner    domain.Owner
	Sentence string
	OK       bool
	Err      error
}

// QuoteRetrieved carries a random published quote. OK is false when the
// owner has none.
type QuoteRetrieved struct {
	Owner domain.Owner
	Quote *domain.Quote
	OK    bool
	Err   error
}

// SettingsLoaded carries the current settings.
type SettingsLoaded struct {
	Settings *domain.Settings
	Err      error
}

// SettingSaved reports the outcome of setting one config key.
type SettingSaved struct {
	Key string
	Err error
}

// ResultText describes an update result the way the CLI prints it.
func ResultText(r domain.UpdateResult) string {
	if r.Outcome == domain.OutcomeSkipped && r.Reason != "" {
		return fmt.Sprintf("Text models: skipped (%s)", r.Reason)
	}
	if r.Outcome == "" {
		return "Text models: unchanged"
	}
	return fmt.Sprintf("Text models: %s", r.Outcome)
}
