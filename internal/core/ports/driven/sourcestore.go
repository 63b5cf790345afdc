package driven

import (
	"context"

	"github.com/custodia-labs/quotechain/internal/core/domain"
)

// GroupStore persists source groups.
type GroupStore interface {
	// Save stores or updates a group.
	Save(ctx context.Context, group domain.Group) error

	// Get retrieves a group by ID.
	Get(ctx context.Context, id string) (*domain.Group, error)

	// Delete removes a group. Its sources and quotes are removed with it.
	Delete(ctx context.Context, id string) error

	// List returns all groups ordered by name.
	List(ctx context.Context) ([]domain.Group, error)
}

// SourceStore persists sources.
type SourceStore interface {
	// Save stores or updates a source.
	Save(ctx context.Context, source domain.Source) error

	// Get retrieves a source by ID.
	Get(ctx context.Context, id string) (*domain.Source, error)

	// Delete removes a source. Its quotes are removed with it.
	Delete(ctx context.Context, id string) error

	// List returns all sources.
	List(ctx context.Context) ([]domain.Source, error)

	// ListByGroup returns the sources of a group.
	ListByGroup(ctx context.Context, groupID string) ([]domain.Source, error)
}
