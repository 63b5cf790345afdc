package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/custodia-labs/quotechain/internal/core/domain"
	"github.com/custodia-labs/quotechain/internal/core/ports/driven"
	"github.com/custodia-labs/quotechain/internal/core/ports/driving"
)

// Ensure Retriever implements the interface.
var _ driving.QuoteRetriever = (*Retriever)(nil)

// Retriever returns random published quotes, drawn uniformly from the
// least used candidates so repeated requests rotate through a source.
type Retriever struct {
	groups    driven.GroupStore
	sources   driven.SourceStore
	quotes    driven.QuoteStore
	settings  domain.QuoteSettings
	observers observers
	now       func() time.Time
	intN      func(n int) int
}

// NewRetriever creates a new quote retriever.
func NewRetriever(
	groups driven.GroupStore,
	sources driven.SourceStore,
	quotes driven.QuoteStore,
	settings domain.QuoteSettings,
	obs ...driven.EventObserver,
) *Retriever {
	return &Retriever{
		groups:    groups,
		sources:   sources,
		quotes:    quotes,
		settings:  settings,
		observers: obs,
		now:       time.Now,
		intN:      rand.IntN,
	}
}

// RandomQuote picks a published quote of owner. ok is false when the
// owner has no published quotes.
func (r *Retriever) RandomQuote(ctx context.Context, owner domain.Owner) (*domain.Quote, bool, error) {
	if err := owner.Validate(); err != nil {
		return nil, false, err
	}

	var sourceIDs []string
	var groupID string
	limit := r.settings.RandomSample
	if owner.IsSource() {
		source, err := r.sources.Get(ctx, owner.ID)
		if err != nil {
			return nil, false, fmt.Errorf("get source: %w", err)
		}
		sourceIDs, groupID = []string{source.ID}, source.GroupID
	} else {
		if _, err := r.groups.Get(ctx, owner.ID); err != nil {
			return nil, false, fmt.Errorf("get group: %w", err)
		}
		sources, err := r.sources.ListByGroup(ctx, owner.ID)
		if err != nil {
			return nil, false, fmt.Errorf("list sources: %w", err)
		}
		for i := range sources {
			sourceIDs = append(sourceIDs, sources[i].ID)
		}
		groupID = owner.ID
		limit = r.settings.GroupRandomSample
	}

	candidates, err := r.quotes.ListLeastUsed(ctx, sourceIDs, r.now(), limit)
	if err != nil {
		return nil, false, fmt.Errorf("list candidates: %w", err)
	}
	if len(candidates) == 0 {
		return nil, false, nil
	}

	quote := candidates[r.intN(len(candidates))]
	r.observers.quoteRetrieved(ctx, domain.QuoteRetrieved{
		Owner:    owner,
		SourceID: quote.SourceID,
		GroupID:  groupID,
		QuoteID:  quote.ID,
	})
	return &quote, true, nil
}
