package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/quotechain/internal/core/domain"
)

// QuoteStore persists quotes.
type QuoteStore interface {
	// Save stores or updates a quote. ModifiedAt is set by the store.
	Save(ctx context.Context, quote *domain.Quote) error

	// Get retrieves a quote by ID.
	Get(ctx context.Context, id string) (*domain.Quote, error)

	// Delete removes a quote.
	Delete(ctx context.Context, id string) error

	// ListBySource returns every quote of a source regardless of
	// publish date, oldest first.
	ListBySource(ctx context.Context, sourceID string) ([]domain.Quote, error)

	// CountBySource returns the number of quotes of a source
	// regardless of publish date.
	CountBySource(ctx context.Context, sourceID string) (int, error)

	// LatestChange returns when the corpus of a source last changed: the
	// latest quote modification time, or publish date that has passed by
	// now if that is later. ok is false if the source has no quotes.
	LatestChange(ctx context.Context, sourceID string, now time.Time) (latest time.Time, ok bool, err error)

	// ListLeastUsed returns up to limit quotes from the given sources that
	// are published at now, ordered by times used ascending.
	ListLeastUsed(ctx context.Context, sourceIDs []string, now time.Time, limit int) ([]domain.Quote, error)
}
