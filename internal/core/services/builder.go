package services

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/custodia-labs/quotechain/internal/core/domain"
	"github.com/custodia-labs/quotechain/internal/core/ports/driven"
	"github.com/custodia-labs/quotechain/internal/logger"
)

// CorpusBuilder rebuilds text models from the full corpus.
//
// A source model is built from every quote of the source, whatever its
// publish date. A
// group model is the combination of exactly the models of its currently
// eligible sources, combined in strict mode; a group with a single
// eligible source gets a copy of that source's model.
type CorpusBuilder struct {
	groups      driven.GroupStore
	sources     driven.SourceStore
	quotes      driven.QuoteStore
	textModels  driven.TextModelStore
	modeller    driven.TextModeller
	eligibility *EligibilityService
	observers   observers
}

// NewCorpusBuilder creates a new corpus builder.
func NewCorpusBuilder(
	groups driven.GroupStore,
	sources driven.SourceStore,
	quotes driven.QuoteStore,
	textModels driven.TextModelStore,
	modeller driven.TextModeller,
	eligibility *EligibilityService,
	obs ...driven.EventObserver,
) *CorpusBuilder {
	return &CorpusBuilder{
		groups:      groups,
		sources:     sources,
		quotes:      quotes,
		textModels:  textModels,
		modeller:    modeller,
		eligibility: eligibility,
		observers:   obs,
	}
}

// RebuildSource rebuilds a source model and, in the same atomic write,
// the model of its group with the fresh source model as an input.
// A source without quotes is left untouched.
func (b *CorpusBuilder) RebuildSource(ctx context.Context, source *domain.Source) (domain.UpdateResult, error) {
	sourceModel, err := b.model(ctx, source.TextModelID)
	if errors.Is(err, domain.ErrNoTextModel) {
		return domain.Skipped(domain.SkipNoTextModel), nil
	}
	if err != nil {
		return domain.UpdateResult{}, err
	}

	payload, err := b.buildSource(ctx, source)
	if err != nil {
		return domain.UpdateResult{}, err
	}
	if payload == nil {
		logger.Debug("Source %s has no quotes, nothing to rebuild", source.ID)
		return domain.Skipped(domain.SkipNoCorpus), nil
	}
	sourceModel.Data = payload

	batch := []*domain.TextModel{sourceModel}
	owners := []domain.Owner{domain.SourceOwner(source.ID)}

	group, err := b.groups.Get(ctx, source.GroupID)
	if err != nil {
		return domain.UpdateResult{}, fmt.Errorf("get group: %w", err)
	}
	if group.TextModelID != "" {
		groupModel, err := b.model(ctx, group.TextModelID)
		if err != nil {
			return domain.UpdateResult{}, err
		}
		groupPayload, members, err := b.composeGroup(ctx, group.ID, map[string][]byte{source.ID: payload})
		if err != nil {
			return domain.UpdateResult{}, err
		}
		if groupPayload != nil || groupModel.IsReady() {
			groupModel.Data = groupPayload
			groupModel.Members = members
			batch = append(batch, groupModel)
			owners = append(owners, domain.GroupOwner(group.ID))
		}
	}

	if err := b.textModels.SaveBatch(ctx, batch...); err != nil {
		return domain.UpdateResult{}, fmt.Errorf("save text models: %w", err)
	}
	logger.Debug("Rebuilt %d model(s) for source %s", len(batch), source.ID)
	b.observers.modelUpdated(ctx, domain.OutcomeRebuilt, owners...)
	return domain.Rebuilt(), nil
}

// RebuildGroup recombines a group model from its eligible sources. A
// group left with no eligible source models has its payload cleared.
func (b *CorpusBuilder) RebuildGroup(ctx context.Context, groupID string) (domain.UpdateResult, error) {
	group, err := b.groups.Get(ctx, groupID)
	if err != nil {
		return domain.UpdateResult{}, fmt.Errorf("get group: %w", err)
	}
	groupModel, err := b.model(ctx, group.TextModelID)
	if errors.Is(err, domain.ErrNoTextModel) {
		return domain.Skipped(domain.SkipNoTextModel), nil
	}
	if err != nil {
		return domain.UpdateResult{}, err
	}

	payload, members, err := b.composeGroup(ctx, groupID, nil)
	if err != nil {
		return domain.UpdateResult{}, err
	}
	if payload == nil && !groupModel.IsReady() {
		return domain.Skipped(domain.SkipNoModels), nil
	}

	groupModel.Data = payload
	groupModel.Members = members
	if err := b.textModels.Save(ctx, groupModel); err != nil {
		return domain.UpdateResult{}, fmt.Errorf("save text model: %w", err)
	}
	logger.Debug("Rebuilt group %s from %d source model(s)", groupID, len(members))
	b.observers.modelUpdated(ctx, domain.OutcomeRebuilt, domain.GroupOwner(groupID))
	return domain.Rebuilt(), nil
}

// rebuildSourceOnly rebuilds a source model without touching its group.
// The sweep uses it so a group is recombined once after all its members.
func (b *CorpusBuilder) rebuildSourceOnly(ctx context.Context, source *domain.Source) (domain.UpdateResult, error) {
	sourceModel, err := b.model(ctx, source.TextModelID)
	if errors.Is(err, domain.ErrNoTextModel) {
		return domain.Skipped(domain.SkipNoTextModel), nil
	}
	if err != nil {
		return domain.UpdateResult{}, err
	}
	payload, err := b.buildSource(ctx, source)
	if err != nil {
		return domain.UpdateResult{}, err
	}
	if payload == nil {
		return domain.Skipped(domain.SkipNoCorpus), nil
	}

	sourceModel.Data = payload
	if err := b.textModels.Save(ctx, sourceModel); err != nil {
		return domain.UpdateResult{}, fmt.Errorf("save text model: %w", err)
	}
	b.observers.modelUpdated(ctx, domain.OutcomeRebuilt, domain.SourceOwner(source.ID))
	return domain.Rebuilt(), nil
}

// corpus returns the text of every quote of a source. Publish dates are
// ignored: a full rebuild resyncs the model with everything stored, the
// same set eligibility counts.
func (b *CorpusBuilder) corpus(ctx context.Context, sourceID string) ([]string, error) {
	quotes, err := b.quotes.ListBySource(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	corpus := make([]string, 0, len(quotes))
	for i := range quotes {
		corpus = append(corpus, quotes[i].Text)
	}
	return corpus, nil
}

// buildSource builds a payload from a source's corpus. It returns nil
// if the corpus is empty.
func (b *CorpusBuilder) buildSource(ctx context.Context, source *domain.Source) ([]byte, error) {
	corpus, err := b.corpus(ctx, source.ID)
	if err != nil {
		return nil, err
	}
	if len(corpus) == 0 {
		return nil, nil
	}
	logger.Debug("Building source %s from %d quote(s)", source.ID, len(corpus))
	payload, err := b.modeller.Build(ctx, corpus)
	if err != nil {
		return nil, domain.NewCorpusError("rebuild source", domain.SourceOwner(source.ID), err)
	}
	return payload, nil
}

// composeGroup combines the models of a group's eligible sources.
// overrides replaces the stored payload of the given sources. It
// returns a nil payload if no eligible source has a model.
func (b *CorpusBuilder) composeGroup(
	ctx context.Context,
	groupID string,
	overrides map[string][]byte,
) ([]byte, []string, error) {
	eligible, _, err := b.eligibility.eligibleSources(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}

	var payloads [][]byte
	var members []string
	for i := range eligible {
		payload, ok := overrides[eligible[i].ID]
		if !ok {
			m, err := b.model(ctx, eligible[i].TextModelID)
			if errors.Is(err, domain.ErrNoTextModel) || errors.Is(err, domain.ErrNotFound) {
				continue
			}
			if err != nil {
				return nil, nil, err
			}
			payload = m.Data
		}
		if len(payload) == 0 {
			continue
		}
		payloads = append(payloads, payload)
		members = append(members, eligible[i].ID)
	}

	switch len(payloads) {
	case 0:
		return nil, nil, nil
	case 1:
		return slices.Clone(payloads[0]), members, nil
	}

	logger.Debug("Combining %d source models for group %s", len(payloads), groupID)
	combined, _, err := b.modeller.Combine(ctx, payloads, driven.CombineStrict)
	if err != nil {
		return nil, nil, domain.NewCorpusError("rebuild group", domain.GroupOwner(groupID), err)
	}
	return combined, members, nil
}

// model loads a text model, returning ErrNoTextModel if none is attached.
func (b *CorpusBuilder) model(ctx context.Context, id string) (*domain.TextModel, error) {
	if id == "" {
		return nil, domain.ErrNoTextModel
	}
	m, err := b.textModels.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get text model %s: %w", id, err)
	}
	return m, nil
}
