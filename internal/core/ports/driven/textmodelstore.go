package driven

import (
	"context"

	"github.com/custodia-labs/quotechain/internal/core/domain"
)

// TextModelStore persists text models.
type TextModelStore interface {
	// Create inserts a new, empty text model and returns it.
	Create(ctx context.Context) (*domain.TextModel, error)

	// Get retrieves a text model by ID.
	Get(ctx context.Context, id string) (*domain.TextModel, error)

	// Save writes the payload and members of an existing model and
	// advances its ModifiedAt.
	Save(ctx context.Context, model *domain.TextModel) error

	// SaveBatch saves every model as a single atomic unit: either all
	// are written or none are. Returns ErrNotFound, writing nothing,
	// if any model does not exist.
	SaveBatch(ctx context.Context, models ...*domain.TextModel) error

	// Delete removes a text model.
	Delete(ctx context.Context, id string) error
}
