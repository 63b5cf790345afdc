package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/quotechain/internal/async"
	"github.com/custodia-labs/quotechain/internal/core/domain"
	"github.com/custodia-labs/quotechain/internal/core/ports/driven"
	"github.com/custodia-labs/quotechain/internal/core/ports/driving"
)

// Ensure EligibilityService implements the interface.
var _ driving.EligibilityService = (*EligibilityService)(nil)

// EligibilityService evaluates the markov readiness predicates against
// the stores. SourceReady and GroupReady block on their Async variants,
// so both call paths share one implementation.
type EligibilityService struct {
	groups  driven.GroupStore
	sources driven.SourceStore
	quotes  driven.QuoteStore
	rules   domain.Eligibility
}

// NewEligibilityService creates a new eligibility service.
func NewEligibilityService(
	groups driven.GroupStore,
	sources driven.SourceStore,
	quotes driven.QuoteStore,
	rules domain.Eligibility,
) *EligibilityService {
	return &EligibilityService{
		groups:  groups,
		sources: sources,
		quotes:  quotes,
		rules:   rules,
	}
}

// Rules returns the thresholds in use.
func (s *EligibilityService) Rules() domain.Eligibility {
	return s.rules
}

// SourceReady reports whether a source is markov ready.
func (s *EligibilityService) SourceReady(ctx context.Context, sourceID string) (bool, error) {
	return s.SourceReadyAsync(ctx, sourceID).Await(ctx)
}

// SourceReadyAsync evaluates SourceReady on its own goroutine.
func (s *EligibilityService) SourceReadyAsync(ctx context.Context, sourceID string) *async.Future[bool] {
	return async.Go(func() (bool, error) {
		source, err := s.sources.Get(ctx, sourceID)
		if err != nil {
			return false, fmt.Errorf("get source: %w", err)
		}
		return s.sourceReady(ctx, source)
	})
}

// GroupReady reports whether a group is markov ready.
func (s *EligibilityService) GroupReady(ctx context.Context, groupID string) (bool, error) {
	return s.GroupReadyAsync(ctx, groupID).Await(ctx)
}

// GroupReadyAsync evaluates GroupReady on its own goroutine.
func (s *EligibilityService) GroupReadyAsync(ctx context.Context, groupID string) *async.Future[bool] {
	return async.Go(func() (bool, error) {
		group, err := s.groups.Get(ctx, groupID)
		if err != nil {
			return false, fmt.Errorf("get group: %w", err)
		}
		eligible, quotes, err := s.eligibleSources(ctx, groupID)
		if err != nil {
			return false, err
		}
		return s.rules.GroupReady(len(eligible), group.TextModelID != "", quotes), nil
	})
}

// Ready dispatches on the owner kind.
func (s *EligibilityService) Ready(ctx context.Context, owner domain.Owner) (bool, error) {
	if err := owner.Validate(); err != nil {
		return false, err
	}
	if owner.IsSource() {
		return s.SourceReady(ctx, owner.ID)
	}
	return s.GroupReady(ctx, owner.ID)
}

// sourceReady applies the source predicate to an already loaded source.
func (s *EligibilityService) sourceReady(ctx context.Context, source *domain.Source) (bool, error) {
	if !source.AllowMarkov {
		return false, nil
	}
	count, err := s.quotes.CountBySource(ctx, source.ID)
	if err != nil {
		return false, fmt.Errorf("count quotes: %w", err)
	}
	return s.rules.SourceReady(source.AllowMarkov, count), nil
}

// eligibleSources returns the markov ready sources of a group together
// with the total quote count across them.
func (s *EligibilityService) eligibleSources(ctx context.Context, groupID string) ([]domain.Source, int, error) {
	sources, err := s.sources.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, 0, fmt.Errorf("list sources: %w", err)
	}

	var eligible []domain.Source
	total := 0
	for i := range sources {
		if !sources[i].AllowMarkov {
			continue
		}
		count, err := s.quotes.CountBySource(ctx, sources[i].ID)
		if err != nil {
			return nil, 0, fmt.Errorf("count quotes: %w", err)
		}
		if s.rules.SourceReady(true, count) {
			eligible = append(eligible, sources[i])
			total += count
		}
	}
	return eligible, total, nil
}
