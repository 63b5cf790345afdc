package driving

import (
	"context"

	"github.com/custodia-labs/quotechain/internal/core/domain"
)

// CatalogueService manages groups, sources and quotes. Mutations are
// forwarded to the ModelCoordinator so text models stay consistent.
type CatalogueService interface {
	// CreateGroup creates a group with an empty text model.
	CreateGroup(ctx context.Context, name, description string) (*domain.Group, error)

	// GetGroup retrieves a group by ID.
	GetGroup(ctx context.Context, id string) (*domain.Group, error)

	// ListGroups returns all groups.
	ListGroups(ctx context.Context) ([]domain.Group, error)

	// DeleteGroup removes a group, its sources and every text model they own.
	DeleteGroup(ctx context.Context, id string) error

	// GroupSummary returns source and quote counts for a group.
	GroupSummary(ctx context.Context, id string) (*domain.GroupSummary, error)

	// CreateSource creates a source in a group with an empty text model.
	CreateSource(ctx context.Context, source domain.Source) (*domain.Source, error)

	// GetSource retrieves a source by ID.
	GetSource(ctx context.Context, id string) (*domain.Source, error)

	// ListSources returns the sources of a group, or all sources if
	// groupID is empty.
	ListSources(ctx context.Context, groupID string) ([]domain.Source, error)

	// UpdateSource modifies a source. Toggling AllowMarkov rebuilds models.
	UpdateSource(ctx context.Context, source domain.Source) (domain.UpdateResult, error)

	// DeleteSource removes a source and its text model.
	DeleteSource(ctx context.Context, id string) error

	// AddQuote saves a new quote and merges it into the text models.
	// A CorpusError is returned if the merge fails; the quote is kept.
	AddQuote(ctx context.Context, quote domain.Quote) (*domain.Quote, domain.UpdateResult, error)

	// GetQuote retrieves a quote by ID.
	GetQuote(ctx context.Context, id string) (*domain.Quote, error)

	// ListQuotes returns every quote of a source.
	ListQuotes(ctx context.Context, sourceID string) ([]domain.Quote, error)

	// UpdateQuote modifies a quote. Models are resynchronised by the sweep.
	UpdateQuote(ctx context.Context, quote domain.Quote) (*domain.Quote, error)

	// DeleteQuote removes a quote. Models are resynchronised by the sweep.
	DeleteQuote(ctx context.Context, id string) error
}
