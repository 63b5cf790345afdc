package services

import (
	"context"

	"github.com/custodia-labs/quotechain/internal/core/domain"
	"github.com/custodia-labs/quotechain/internal/core/ports/driven"
	"github.com/custodia-labs/quotechain/internal/logger"
)

// observers fans events out to every registered observer. Observer
// failures are logged and never fail the operation that fired the event.
type observers []driven.EventObserver

func (o observers) sentenceGenerated(ctx context.Context, ev domain.SentenceGenerated) {
	for _, obs := range o {
		if err := obs.SentenceGenerated(ctx, ev); err != nil {
			logger.Warn("Observer failed on sentence generated for %s: %v", ev.Owner, err)
		}
	}
}

func (o observers) quoteRetrieved(ctx context.Context, ev domain.QuoteRetrieved) {
	for _, obs := range o {
		if err := obs.QuoteRetrieved(ctx, ev); err != nil {
			logger.Warn("Observer failed on quote retrieved for %s: %v", ev.Owner, err)
		}
	}
}

func (o observers) modelUpdated(ctx context.Context, outcome domain.UpdateOutcome, owners ...domain.Owner) {
	for _, owner := range owners {
		ev := domain.ModelUpdated{Owner: owner, Outcome: outcome}
		for _, obs := range o {
			if err := obs.ModelUpdated(ctx, ev); err != nil {
				logger.Warn("Observer failed on model updated for %s: %v", owner, err)
			}
		}
	}
}
