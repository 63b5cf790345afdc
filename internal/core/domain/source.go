package domain

import (
	"strings"
	"time"
)

// Group is an abstract collection of sources, e.g. a novel whose
// characters are quoted individually. Its text model aggregates every
// eligible member source.
type Group struct {
	// ID is the unique identifier for the group.
	ID string

	// Name is the human-readable name for this group.
	Name string

	// Description is free text describing the group.
	Description string

	// TextModelID references the aggregate TextModel.
	// Empty when no model is attached.
	TextModelID string

	// CreatedAt is when the group was created.
	CreatedAt time.Time

	// UpdatedAt is when the group was last updated.
	UpdatedAt time.Time
}

// Source is an individual entity quotes are attributed to, such as a
// character or an author. Every source belongs to exactly one group.
type Source struct {
	// ID is the unique identifier for the source.
	ID string

	// GroupID links to the owning Group.
	GroupID string

	// Name is the human-readable name for this source.
	Name string

	// Description is free text describing the source.
	Description string

	// AllowMarkov enables sentence generation from this source's quotes.
	AllowMarkov bool

	// TextModelID references the source's TextModel.
	// Empty when no model is attached.
	TextModelID string

	// CreatedAt is when the source was created.
	CreatedAt time.Time

	// UpdatedAt is when the source was last updated.
	UpdatedAt time.Time
}

// Quote is a single quotation attributed to a Source.
type Quote struct {
	// ID is the unique identifier for the quote. Empty for unsaved quotes.
	ID string

	// SourceID links to the Source being quoted.
	SourceID string

	// Text is the quotation itself.
	Text string

	// Citation optionally describes where the quote is from.
	Citation string

	// CitationURL optionally links to the citation.
	CitationURL string

	// PubDate is the earliest time the quote may appear in random results.
	// Full model rebuilds ignore it. Nil means always published.
	PubDate *time.Time

	// CreatedAt is when the quote was created.
	CreatedAt time.Time

	// ModifiedAt is when the quote was last modified.
	ModifiedAt time.Time
}

// IsPublished returns true if the quote has no publish date or the
// publish date is not after now.
func (q *Quote) IsPublished(now time.Time) bool {
	return q.PubDate == nil || !q.PubDate.After(now)
}

// Validate checks required quote fields.
func (q *Quote) Validate() error {
	if q.SourceID == "" || strings.TrimSpace(q.Text) == "" {
		return ErrInvalidInput
	}
	return nil
}

// GroupSummary aggregates counts for a group.
type GroupSummary struct {
	Group         Group
	TotalSources  int
	MarkovSources int
	TotalQuotes   int
	MarkovReady   bool
}
