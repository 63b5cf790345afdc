package services

import (
	"context"
	"fmt"
	"slices"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/quotechain/internal/core/domain"
	"github.com/custodia-labs/quotechain/internal/core/ports/driven"
	"github.com/custodia-labs/quotechain/internal/core/ports/driving"
	"github.com/custodia-labs/quotechain/internal/logger"
)

// Ensure Coordinator implements the interface.
var _ driving.ModelCoordinator = (*Coordinator)(nil)

// Coordinator decides, for every catalogue event, whether text models
// are rebuilt, merged or left alone, and runs the maintenance sweep.
type Coordinator struct {
	builder     *CorpusBuilder
	combiner    *IncrementalCombiner
	eligibility *EligibilityService
	stats       driven.StatsStore
	settings    domain.SweepSettings
	limiter     *rate.Limiter
	now         func() time.Time
}

// NewCoordinator creates a new coordinator. The builder's stores are
// shared by the coordinator.
func NewCoordinator(
	builder *CorpusBuilder,
	combiner *IncrementalCombiner,
	stats driven.StatsStore,
	settings domain.SweepSettings,
) *Coordinator {
	limit := rate.Inf
	if settings.RebuildRate > 0 {
		limit = rate.Limit(settings.RebuildRate)
	}
	return &Coordinator{
		builder:     builder,
		combiner:    combiner,
		eligibility: builder.eligibility,
		stats:       stats,
		settings:    settings,
		limiter:     rate.NewLimiter(limit, 1),
		now:         time.Now,
	}
}

// SourceCreated attaches an empty text model and stats to a new source.
func (c *Coordinator) SourceCreated(ctx context.Context, sourceID string) error {
	source, err := c.builder.sources.Get(ctx, sourceID)
	if err != nil {
		return fmt.Errorf("get source: %w", err)
	}
	if err := c.attachSourceModel(ctx, source); err != nil {
		return err
	}
	if c.stats != nil {
		if err := c.stats.InitSource(ctx, sourceID); err != nil {
			return fmt.Errorf("init source stats: %w", err)
		}
	}
	return nil
}

// GroupCreated attaches an empty text model and stats to a new group.
func (c *Coordinator) GroupCreated(ctx context.Context, groupID string) error {
	group, err := c.builder.groups.Get(ctx, groupID)
	if err != nil {
		return fmt.Errorf("get group: %w", err)
	}
	if err := c.attachGroupModel(ctx, group); err != nil {
		return err
	}
	if c.stats != nil {
		if err := c.stats.InitGroup(ctx, groupID); err != nil {
			return fmt.Errorf("init group stats: %w", err)
		}
	}
	return nil
}

// MarkovToggled reacts to a change of a source's AllowMarkov flag.
// Enabling rebuilds the source and its group in one write; disabling
// recombines the group without the source.
func (c *Coordinator) MarkovToggled(
	ctx context.Context,
	sourceID string,
	previous bool,
) (domain.UpdateResult, error) {
	source, err := c.builder.sources.Get(ctx, sourceID)
	if err != nil {
		return domain.UpdateResult{}, fmt.Errorf("get source: %w", err)
	}
	if source.AllowMarkov == previous {
		return domain.Skipped(domain.SkipNoFlip), nil
	}

	if !source.AllowMarkov {
		logger.Debug("Markov disabled for source %s, recombining group %s", source.ID, source.GroupID)
		return c.builder.RebuildGroup(ctx, source.GroupID)
	}

	ready, err := c.eligibility.sourceReady(ctx, source)
	if err != nil {
		return domain.UpdateResult{}, err
	}
	if !ready {
		return domain.Skipped(domain.SkipNotReady), nil
	}
	logger.Debug("Markov enabled for source %s, rebuilding", source.ID)
	return c.builder.RebuildSource(ctx, source)
}

// QuoteSaved merges a newly saved quote into the models. Quotes that are
// unsaved, not yet published or older than the source model are skipped.
// A CorpusError from the combiner is returned unchanged.
func (c *Coordinator) QuoteSaved(ctx context.Context, quote *domain.Quote) (domain.UpdateResult, error) {
	if quote == nil {
		return domain.UpdateResult{}, domain.ErrInvalidInput
	}
	if quote.ID == "" {
		return domain.Skipped(domain.SkipUnsavedQuote), nil
	}
	if !quote.IsPublished(c.now()) {
		return domain.Skipped(domain.SkipFutureQuote), nil
	}

	source, err := c.builder.sources.Get(ctx, quote.SourceID)
	if err != nil {
		return domain.UpdateResult{}, fmt.Errorf("get source: %w", err)
	}
	if source.TextModelID != "" {
		model, err := c.builder.model(ctx, source.TextModelID)
		if err != nil {
			return domain.UpdateResult{}, err
		}
		if model.IsReady() && quote.ModifiedAt.Before(model.ModifiedAt) {
			return domain.Skipped(domain.SkipStaleQuote), nil
		}
	}
	return c.combiner.AddQuote(ctx, source, quote)
}

// Rebuild fully rebuilds the model of owner.
func (c *Coordinator) Rebuild(ctx context.Context, owner domain.Owner) (domain.UpdateResult, error) {
	if err := owner.Validate(); err != nil {
		return domain.UpdateResult{}, err
	}
	if owner.IsGroup() {
		return c.builder.RebuildGroup(ctx, owner.ID)
	}
	source, err := c.builder.sources.Get(ctx, owner.ID)
	if err != nil {
		return domain.UpdateResult{}, fmt.Errorf("get source: %w", err)
	}
	return c.builder.RebuildSource(ctx, source)
}

// DeleteSource deletes a source's text model, its quotes and then the
// source. A group model that included the source is recombined; if that
// fails the sweep repairs it later.
func (c *Coordinator) DeleteSource(ctx context.Context, sourceID string) error {
	source, err := c.builder.sources.Get(ctx, sourceID)
	if err != nil {
		return fmt.Errorf("get source: %w", err)
	}
	if err := c.deleteSource(ctx, source); err != nil {
		return err
	}

	if c.groupHasMember(ctx, source.GroupID, source.ID) {
		if _, err := c.builder.RebuildGroup(ctx, source.GroupID); err != nil {
			logger.Warn("Recombining group %s after deleting source %s: %v", source.GroupID, source.ID, err)
		}
	}
	return nil
}

// DeleteGroup deletes every source of a group, the group's text model
// and then the group.
func (c *Coordinator) DeleteGroup(ctx context.Context, groupID string) error {
	group, err := c.builder.groups.Get(ctx, groupID)
	if err != nil {
		return fmt.Errorf("get group: %w", err)
	}
	sources, err := c.builder.sources.ListByGroup(ctx, groupID)
	if err != nil {
		return fmt.Errorf("list sources: %w", err)
	}
	for i := range sources {
		if err := c.deleteSource(ctx, &sources[i]); err != nil {
			return err
		}
	}
	if group.TextModelID != "" {
		if err := c.builder.textModels.Delete(ctx, group.TextModelID); err != nil {
			return fmt.Errorf("delete text model: %w", err)
		}
	}
	if err := c.builder.groups.Delete(ctx, groupID); err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	return nil
}

// deleteSource removes the text model before the source row so the model
// is never orphaned.
func (c *Coordinator) deleteSource(ctx context.Context, source *domain.Source) error {
	if source.TextModelID != "" {
		if err := c.builder.textModels.Delete(ctx, source.TextModelID); err != nil {
			return fmt.Errorf("delete text model: %w", err)
		}
	}
	quotes, err := c.builder.quotes.ListBySource(ctx, source.ID)
	if err != nil {
		return fmt.Errorf("list quotes: %w", err)
	}
	for i := range quotes {
		if err := c.builder.quotes.Delete(ctx, quotes[i].ID); err != nil {
			return fmt.Errorf("delete quote: %w", err)
		}
	}
	if err := c.builder.sources.Delete(ctx, source.ID); err != nil {
		return fmt.Errorf("delete source: %w", err)
	}
	return nil
}

func (c *Coordinator) groupHasMember(ctx context.Context, groupID, sourceID string) bool {
	group, err := c.builder.groups.Get(ctx, groupID)
	if err != nil {
		return false
	}
	model, err := c.builder.model(ctx, group.TextModelID)
	if err != nil {
		return false
	}
	return slices.Contains(model.Members, sourceID)
}

func (c *Coordinator) attachSourceModel(ctx context.Context, source *domain.Source) error {
	if source.TextModelID != "" {
		return nil
	}
	model, err := c.builder.textModels.Create(ctx)
	if err != nil {
		return fmt.Errorf("create text model: %w", err)
	}
	source.TextModelID = model.ID
	if err := c.builder.sources.Save(ctx, *source); err != nil {
		return fmt.Errorf("save source: %w", err)
	}
	return nil
}

func (c *Coordinator) attachGroupModel(ctx context.Context, group *domain.Group) error {
	if group.TextModelID != "" {
		return nil
	}
	model, err := c.builder.textModels.Create(ctx)
	if err != nil {
		return fmt.Errorf("create text model: %w", err)
	}
	group.TextModelID = model.ID
	if err := c.builder.groups.Save(ctx, *group); err != nil {
		return fmt.Errorf("save group: %w", err)
	}
	return nil
}
