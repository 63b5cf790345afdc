package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/custodia-labs/quotechain/internal/async"
	"github.com/custodia-labs/quotechain/internal/core/domain"
	"github.com/custodia-labs/quotechain/internal/core/ports/driven"
	"github.com/custodia-labs/quotechain/internal/core/ports/driving"
	"github.com/custodia-labs/quotechain/internal/logger"
)

// Ensure Generator implements the interface.
var _ driving.SentenceGenerator = (*Generator)(nil)

// Generator samples sentences from source and group models.
type Generator struct {
	groups      driven.GroupStore
	sources     driven.SourceStore
	textModels  driven.TextModelStore
	modeller    driven.TextModeller
	eligibility *EligibilityService
	builder     *CorpusBuilder
	settings    domain.MarkovSettings
	observers   observers

	// rebuilds collapses concurrent on-demand rebuilds of the same owner.
	rebuilds singleflight.Group
}

// NewGenerator creates a new sentence generator.
func NewGenerator(
	groups driven.GroupStore,
	sources driven.SourceStore,
	textModels driven.TextModelStore,
	modeller driven.TextModeller,
	eligibility *EligibilityService,
	builder *CorpusBuilder,
	settings domain.MarkovSettings,
	obs ...driven.EventObserver,
) *Generator {
	return &Generator{
		groups:      groups,
		sources:     sources,
		textModels:  textModels,
		modeller:    modeller,
		eligibility: eligibility,
		builder:     builder,
		settings:    settings,
		observers:   obs,
	}
}

// Generate samples one sentence from the model of owner.
// An owner that is not markov ready yields ok == false and no error.
// A ready owner whose model was never built is rebuilt first.
func (g *Generator) Generate(
	ctx context.Context,
	owner domain.Owner,
	charLimit, tries int,
) (string, bool, error) {
	if err := owner.Validate(); err != nil {
		return "", false, err
	}
	ready, err := g.eligibility.Ready(ctx, owner)
	if err != nil {
		return "", false, err
	}
	if !ready {
		logger.Debug("%s is not markov ready", owner)
		return "", false, nil
	}

	if charLimit <= 0 {
		charLimit = g.settings.CharLimit
	}
	if tries <= 0 {
		tries = g.settings.Tries
	}

	model, groupID, err := g.load(ctx, owner)
	if err != nil {
		return "", false, err
	}
	if !model.IsReady() {
		if err := g.rebuild(ctx, owner); err != nil {
			return "", false, err
		}
		if model, groupID, err = g.load(ctx, owner); err != nil {
			return "", false, err
		}
		if !model.IsReady() {
			return "", false, nil
		}
	}

	logger.Debug("Generating for %s (limit=%d, tries=%d)", owner, charLimit, tries)
	sentence, ok, err := g.modeller.Generate(ctx, model.Data, charLimit, tries)
	if err != nil {
		return "", false, fmt.Errorf("generate sentence: %w", err)
	}
	if !ok {
		logger.Debug("No sentence for %s within %d tries", owner, tries)
		return "", false, nil
	}

	g.observers.sentenceGenerated(ctx, domain.SentenceGenerated{
		Owner:     owner,
		GroupID:   groupID,
		CharLimit: charLimit,
		Sentence:  sentence,
	})
	return sentence, true, nil
}

// GenerateAsync runs Generate on its own goroutine.
func (g *Generator) GenerateAsync(
	ctx context.Context,
	owner domain.Owner,
	charLimit, tries int,
) *async.Future[driving.Sentence] {
	return async.Go(func() (driving.Sentence, error) {
		text, ok, err := g.Generate(ctx, owner, charLimit, tries)
		return driving.Sentence{Text: text, OK: ok}, err
	})
}

// load returns the model of owner and the group it belongs to.
func (g *Generator) load(ctx context.Context, owner domain.Owner) (*domain.TextModel, string, error) {
	var modelID, groupID string
	if owner.IsSource() {
		source, err := g.sources.Get(ctx, owner.ID)
		if err != nil {
			return nil, "", fmt.Errorf("get source: %w", err)
		}
		modelID, groupID = source.TextModelID, source.GroupID
	} else {
		group, err := g.groups.Get(ctx, owner.ID)
		if err != nil {
			return nil, "", fmt.Errorf("get group: %w", err)
		}
		modelID, groupID = group.TextModelID, group.ID
	}
	model, err := g.builder.model(ctx, modelID)
	if err != nil {
		return nil, "", err
	}
	return model, groupID, nil
}

// rebuild builds the model of owner on demand. Concurrent callers for
// the same owner share a single rebuild, which is detached from the
// cancellation of whichever caller started it.
func (g *Generator) rebuild(ctx context.Context, owner domain.Owner) error {
	_, err, shared := g.rebuilds.Do(owner.String(), func() (any, error) {
		ctx := context.WithoutCancel(ctx)
		logger.Debug("Model of %s is empty, rebuilding before generation", owner)
		if owner.IsGroup() {
			return g.builder.RebuildGroup(ctx, owner.ID)
		}
		source, err := g.sources.Get(ctx, owner.ID)
		if err != nil {
			return nil, fmt.Errorf("get source: %w", err)
		}
		return g.builder.RebuildSource(ctx, source)
	})
	if shared {
		logger.Debug("Shared rebuild of %s", owner)
	}
	return err
}
