package driven

import (
	"context"

	"github.com/custodia-labs/quotechain/internal/core/domain"
)

// StatsStore persists usage counters for groups, sources and quotes.
// Increments for a single event are applied atomically.
type StatsStore interface {
	// InitGroup creates the zeroed stats row for a group.
	InitGroup(ctx context.Context, groupID string) error

	// InitSource creates the zeroed stats row for a source.
	InitSource(ctx context.Context, sourceID string) error

	// InitQuote creates the zeroed stats row for a quote.
	InitQuote(ctx context.Context, quoteID string) error

	// RecordGenerated increments quotes_generated on the group and, when
	// sourceID is not empty, on the source.
	RecordGenerated(ctx context.Context, groupID, sourceID string) error

	// RecordRetrieved increments quotes_requested on the group and source
	// and times_used on the quote.
	RecordRetrieved(ctx context.Context, groupID, sourceID, quoteID string) error

	// GroupStats returns the stats for a group.
	GroupStats(ctx context.Context, groupID string) (*domain.GroupStats, error)

	// SourceStats returns the stats for a source.
	SourceStats(ctx context.Context, sourceID string) (*domain.SourceStats, error)

	// QuoteStats returns the stats for a quote.
	QuoteStats(ctx context.Context, quoteID string) (*domain.QuoteStats, error)
}
