package driving

import (
	"context"

	"github.com/custodia-labs/quotechain/internal/async"
	"github.com/custodia-labs/quotechain/internal/core/domain"
)

// EligibilityService decides whether sources and groups are markov ready.
// The synchronous methods block on the asynchronous ones.
type EligibilityService interface {
	// SourceReady reports whether a source is markov ready.
	SourceReady(ctx context.Context, sourceID string) (bool, error)

	// SourceReadyAsync evaluates SourceReady without blocking the caller.
	SourceReadyAsync(ctx context.Context, sourceID string) *async.Future[bool]

	// GroupReady reports whether a group is markov ready.
	GroupReady(ctx context.Context, groupID string) (bool, error)

	// GroupReadyAsync evaluates GroupReady without blocking the caller.
	GroupReadyAsync(ctx context.Context, groupID string) *async.Future[bool]

	// Ready dispatches on the owner kind.
	Ready(ctx context.Context, owner domain.Owner) (bool, error)
}

// IncrementalCombiner merges a single new quote into existing models.
type IncrementalCombiner interface {
	// AddQuote merges quote into the source and group models atomically.
	AddQuote(ctx context.Context, source *domain.Source, quote *domain.Quote) (domain.UpdateResult, error)

	// AddQuoteAsync runs AddQuote without blocking the caller.
	AddQuoteAsync(ctx context.Context, source *domain.Source, quote *domain.Quote) *async.Future[domain.UpdateResult]
}

// Sentence is a generated sentence. OK is false when nothing was produced.
type Sentence struct {
	Text string
	OK   bool
}

// SentenceGenerator produces synthetic sentences from text models.
type SentenceGenerator interface {
	// Generate samples a sentence of at most charLimit characters using
	// at most tries attempts. Zero values use the configured defaults.
	// ok is false if the owner is not ready or the budget ran out.
	Generate(ctx context.Context, owner domain.Owner, charLimit, tries int) (sentence string, ok bool, err error)

	// GenerateAsync runs Generate without blocking the caller.
	GenerateAsync(ctx context.Context, owner domain.Owner, charLimit, tries int) *async.Future[Sentence]
}

// QuoteRetriever returns random published quotes.
type QuoteRetriever interface {
	// RandomQuote picks a published quote of owner, favouring the least
	// used. ok is false when there are no candidates.
	RandomQuote(ctx context.Context, owner domain.Owner) (quote *domain.Quote, ok bool, err error)
}

// StatsService reads usage counters.
type StatsService interface {
	// SourceStats returns the stats for a source.
	SourceStats(ctx context.Context, sourceID string) (*domain.SourceStats, error)

	// GroupStats returns the stats for a group.
	GroupStats(ctx context.Context, groupID string) (*domain.GroupStats, error)

	// QuoteStats returns the stats for a quote.
	QuoteStats(ctx context.Context, quoteID string) (*domain.QuoteStats, error)
}
