package driving

import (
	"context"

	"github.com/custodia-labs/quotechain/internal/core/domain"
)

// Scheduler runs the periodic markov sweep in the background.
type Scheduler interface {
	// Start blocks until ctx is cancelled or Stop is called.
	Start(ctx context.Context) error

	// Stop waits for a running sweep to finish.
	Stop() error

	// History returns up to limit scheduled runs, newest first.
	History(ctx context.Context, limit int) ([]domain.SweepRun, error)
}
