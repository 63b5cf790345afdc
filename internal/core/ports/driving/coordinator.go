package driving

import (
	"context"

	"github.com/custodia-labs/quotechain/internal/core/domain"
)

// ModelCoordinator keeps source and group text models consistent with
// the catalogue as it changes.
type ModelCoordinator interface {
	// SourceCreated attaches an empty text model and stats to a new source.
	SourceCreated(ctx context.Context, sourceID string) error

	// GroupCreated attaches an empty text model and stats to a new group.
	GroupCreated(ctx context.Context, groupID string) error

	// MarkovToggled handles a change of a source's AllowMarkov flag.
	// previous is the flag value before the change.
	MarkovToggled(ctx context.Context, sourceID string, previous bool) (domain.UpdateResult, error)

	// QuoteSaved merges a newly saved quote into the source and group
	// models. CorpusError is returned unchanged from the combiner.
	QuoteSaved(ctx context.Context, quote *domain.Quote) (domain.UpdateResult, error)

	// Rebuild fully rebuilds the model of owner. Rebuilding a source also
	// rebuilds its group in the same atomic write.
	Rebuild(ctx context.Context, owner domain.Owner) (domain.UpdateResult, error)

	// DeleteSource deletes a source's text model and then the source.
	DeleteSource(ctx context.Context, sourceID string) error

	// DeleteGroup deletes every source of a group, the group's text
	// model and then the group.
	DeleteGroup(ctx context.Context, groupID string) error

	// Sweep resynchronises every stale model. With force every model is
	// rebuilt. Per-entity failures are collected in the report and joined
	// into the returned error; they never stop the sweep.
	Sweep(ctx context.Context, force bool) (*domain.SweepReport, error)
}
