package services

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/custodia-labs/quotechain/internal/async"
	"github.com/custodia-labs/quotechain/internal/core/domain"
	"github.com/custodia-labs/quotechain/internal/core/ports/driven"
	"github.com/custodia-labs/quotechain/internal/core/ports/driving"
	"github.com/custodia-labs/quotechain/internal/logger"
)

// Ensure IncrementalCombiner implements the interface.
var _ driving.IncrementalCombiner = (*IncrementalCombiner)(nil)

// IncrementalCombiner merges one new quote into the existing source and
// group models without rescanning the corpus. A singleton model is built
// from the quote and combined in strict mode with each existing model;
// both results are written in one batch or not at all.
type IncrementalCombiner struct {
	groups      driven.GroupStore
	textModels  driven.TextModelStore
	modeller    driven.TextModeller
	eligibility *EligibilityService
	builder     *CorpusBuilder
	observers   observers
}

// NewIncrementalCombiner creates a new incremental combiner.
func NewIncrementalCombiner(
	groups driven.GroupStore,
	textModels driven.TextModelStore,
	modeller driven.TextModeller,
	eligibility *EligibilityService,
	builder *CorpusBuilder,
	obs ...driven.EventObserver,
) *IncrementalCombiner {
	return &IncrementalCombiner{
		groups:      groups,
		textModels:  textModels,
		modeller:    modeller,
		eligibility: eligibility,
		builder:     builder,
		observers:   obs,
	}
}

// AddQuote merges quote into the source and group models atomically.
// It blocks on AddQuoteAsync.
func (c *IncrementalCombiner) AddQuote(
	ctx context.Context,
	source *domain.Source,
	quote *domain.Quote,
) (domain.UpdateResult, error) {
	return c.AddQuoteAsync(ctx, source, quote).Await(ctx)
}

// AddQuoteAsync runs the merge on its own goroutine.
func (c *IncrementalCombiner) AddQuoteAsync(
	ctx context.Context,
	source *domain.Source,
	quote *domain.Quote,
) *async.Future[domain.UpdateResult] {
	return async.Go(func() (domain.UpdateResult, error) {
		return c.addQuote(ctx, source, quote)
	})
}

func (c *IncrementalCombiner) addQuote(
	ctx context.Context,
	source *domain.Source,
	quote *domain.Quote,
) (domain.UpdateResult, error) {
	if source == nil || quote == nil {
		return domain.UpdateResult{}, domain.ErrInvalidInput
	}
	if quote.ID == "" {
		return domain.Skipped(domain.SkipUnsavedQuote), nil
	}
	if source.TextModelID == "" {
		return domain.Skipped(domain.SkipNoTextModel), nil
	}
	ready, err := c.eligibility.sourceReady(ctx, source)
	if err != nil {
		return domain.UpdateResult{}, err
	}
	if !ready {
		return domain.Skipped(domain.SkipNotReady), nil
	}

	sourceModel, err := c.builder.model(ctx, source.TextModelID)
	if err != nil {
		return domain.UpdateResult{}, err
	}
	if !sourceModel.IsReady() {
		logger.Debug("Source %s has no model yet, rebuilding instead of merging", source.ID)
		return c.builder.RebuildSource(ctx, source)
	}

	owner := domain.SourceOwner(source.ID)
	singleton, err := c.modeller.Build(ctx, []string{quote.Text})
	if err != nil {
		return domain.UpdateResult{}, domain.NewCorpusError("add quote", owner, err)
	}
	merged, _, err := c.modeller.Combine(ctx, [][]byte{sourceModel.Data, singleton}, driven.CombineStrict)
	if err != nil {
		return domain.UpdateResult{}, domain.NewCorpusError("add quote", owner, err)
	}
	sourceModel.Data = merged

	batch := []*domain.TextModel{sourceModel}
	owners := []domain.Owner{owner}

	groupModel, err := c.groupModel(ctx, source.GroupID)
	if err != nil {
		return domain.UpdateResult{}, err
	}
	if groupModel != nil {
		groupOwner := domain.GroupOwner(source.GroupID)
		if groupModel.IsReady() && slices.Contains(groupModel.Members, source.ID) {
			groupModel.Data, _, err = c.modeller.Combine(ctx, [][]byte{groupModel.Data, singleton}, driven.CombineStrict)
			if err != nil {
				return domain.UpdateResult{}, domain.NewCorpusError("add quote", groupOwner, err)
			}
		} else {
			// The group model has no baseline for this source, so it is
			// recombined with the freshly merged source model instead.
			groupModel.Data, groupModel.Members, err = c.builder.composeGroup(
				ctx, source.GroupID, map[string][]byte{source.ID: merged})
			if err != nil {
				return domain.UpdateResult{}, err
			}
		}
		batch = append(batch, groupModel)
		owners = append(owners, groupOwner)
	}

	if err := c.textModels.SaveBatch(ctx, batch...); err != nil {
		return domain.UpdateResult{}, fmt.Errorf("save text models: %w", err)
	}
	logger.Debug("Merged quote %s into %d model(s)", quote.ID, len(batch))
	c.observers.modelUpdated(ctx, domain.OutcomeMerged, owners...)
	return domain.Merged(), nil
}

// groupModel returns the model of a group, or nil if it has none.
func (c *IncrementalCombiner) groupModel(ctx context.Context, groupID string) (*domain.TextModel, error) {
	group, err := c.groups.Get(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("get group: %w", err)
	}
	m, err := c.builder.model(ctx, group.TextModelID)
	if errors.Is(err, domain.ErrNoTextModel) {
		return nil, nil
	}
	return m, err
}
