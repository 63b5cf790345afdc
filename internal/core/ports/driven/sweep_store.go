package driven

import (
	"context"

	"github.com/custodia-labs/quotechain/internal/core/domain"
)

// SweepStore persists the periodic sweep schedule and a bounded history
// of scheduled runs.
type SweepStore interface {
	// LoadSchedule returns the stored schedule, or nil and no error if
	// none has been saved yet.
	LoadSchedule(ctx context.Context) (*domain.SweepSchedule, error)

	SaveSchedule(ctx context.Context, schedule *domain.SweepSchedule) error

	// RecordRun appends run to the history.
	RecordRun(ctx context.Context, run domain.SweepRun) error

	// RecentRuns returns up to limit runs, most recent first.
	RecentRuns(ctx context.Context, limit int) ([]domain.SweepRun, error)

	// PruneRuns drops all but the newest keep runs.
	PruneRuns(ctx context.Context, keep int) error
}
