package driven

import (
	"context"

	"github.com/custodia-labs/quotechain/internal/core/domain"
)

// EventObserver receives notifications after successful operations.
// Observers are called synchronously and must not block for long.
// Errors are logged by the caller and never fail the operation.
type EventObserver interface {
	// SentenceGenerated is called after a sentence is generated.
	SentenceGenerated(ctx context.Context, ev domain.SentenceGenerated) error

	// QuoteRetrieved is called after a random quote is returned.
	QuoteRetrieved(ctx context.Context, ev domain.QuoteRetrieved) error

	// ModelUpdated is called after a text model is persisted.
	ModelUpdated(ctx context.Context, ev domain.ModelUpdated) error
}
