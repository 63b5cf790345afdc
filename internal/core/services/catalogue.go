package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/quotechain/internal/core/domain"
	"github.com/custodia-labs/quotechain/internal/core/ports/driven"
	"github.com/custodia-labs/quotechain/internal/core/ports/driving"
)

// Ensure Catalogue implements the interface.
var _ driving.CatalogueService = (*Catalogue)(nil)

// Catalogue manages groups, sources and quotes and forwards every
// mutation to the model coordinator.
type Catalogue struct {
	groups      driven.GroupStore
	sources     driven.SourceStore
	quotes      driven.QuoteStore
	stats       driven.StatsStore
	coordinator driving.ModelCoordinator
	eligibility driving.EligibilityService
	now         func() time.Time
}

// NewCatalogue creates a new catalogue service.
func NewCatalogue(
	groups driven.GroupStore,
	sources driven.SourceStore,
	quotes driven.QuoteStore,
	stats driven.StatsStore,
	coordinator driving.ModelCoordinator,
	eligibility driving.EligibilityService,
) *Catalogue {
	return &Catalogue{
		groups:      groups,
		sources:     sources,
		quotes:      quotes,
		stats:       stats,
		coordinator: coordinator,
		eligibility: eligibility,
		now:         time.Now,
	}
}

// CreateGroup creates a group with an empty text model.
func (c *Catalogue) CreateGroup(ctx context.Context, name, description string) (*domain.Group, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: group name is required", domain.ErrInvalidInput)
	}
	now := c.now()
	group := domain.Group{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := c.groups.Save(ctx, group); err != nil {
		return nil, fmt.Errorf("save group: %w", err)
	}
	if err := c.coordinator.GroupCreated(ctx, group.ID); err != nil {
		return nil, err
	}
	return c.groups.Get(ctx, group.ID)
}

// GetGroup retrieves a group by ID.
func (c *Catalogue) GetGroup(ctx context.Context, id string) (*domain.Group, error) {
	return c.groups.Get(ctx, id)
}

// ListGroups returns all groups.
func (c *Catalogue) ListGroups(ctx context.Context) ([]domain.Group, error) {
	return c.groups.List(ctx)
}

// DeleteGroup removes a group, its sources and their text models.
func (c *Catalogue) DeleteGroup(ctx context.Context, id string) error {
	return c.coordinator.DeleteGroup(ctx, id)
}

// GroupSummary returns source and quote counts for a group.
func (c *Catalogue) GroupSummary(ctx context.Context, id string) (*domain.GroupSummary, error) {
	group, err := c.groups.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	sources, err := c.sources.ListByGroup(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}

	summary := &domain.GroupSummary{Group: *group, TotalSources: len(sources)}
	for i := range sources {
		if sources[i].AllowMarkov {
			summary.MarkovSources++
		}
		n, err := c.quotes.CountBySource(ctx, sources[i].ID)
		if err != nil {
			return nil, fmt.Errorf("count quotes: %w", err)
		}
		summary.TotalQuotes += n
	}
	if summary.MarkovReady, err = c.eligibility.GroupReady(ctx, id); err != nil {
		return nil, err
	}
	return summary, nil
}

// CreateSource creates a source in an existing group. An empty ID is
// assigned a new one.
func (c *Catalogue) CreateSource(ctx context.Context, source domain.Source) (*domain.Source, error) {
	if strings.TrimSpace(source.Name) == "" || source.GroupID == "" {
		return nil, fmt.Errorf("%w: source name and group are required", domain.ErrInvalidInput)
	}
	if _, err := c.groups.Get(ctx, source.GroupID); err != nil {
		return nil, fmt.Errorf("get group: %w", err)
	}
	if source.ID == "" {
		source.ID = uuid.NewString()
	} else if existing, err := c.sources.Get(ctx, source.ID); err == nil && existing != nil {
		return nil, domain.ErrAlreadyExists
	}

	now := c.now()
	source.TextModelID = ""
	source.CreatedAt, source.UpdatedAt = now, now
	if err := c.sources.Save(ctx, source); err != nil {
		return nil, fmt.Errorf("save source: %w", err)
	}
	if err := c.coordinator.SourceCreated(ctx, source.ID); err != nil {
		return nil, err
	}
	return c.sources.Get(ctx, source.ID)
}

// GetSource retrieves a source by ID.
func (c *Catalogue) GetSource(ctx context.Context, id string) (*domain.Source, error) {
	return c.sources.Get(ctx, id)
}

// ListSources returns the sources of a group, or all sources if groupID
// is empty.
func (c *Catalogue) ListSources(ctx context.Context, groupID string) ([]domain.Source, error) {
	if groupID == "" {
		return c.sources.List(ctx)
	}
	return c.sources.ListByGroup(ctx, groupID)
}

// UpdateSource modifies a source's name, description and AllowMarkov
// flag. Sources cannot move between groups.
func (c *Catalogue) UpdateSource(ctx context.Context, source domain.Source) (domain.UpdateResult, error) {
	existing, err := c.sources.Get(ctx, source.ID)
	if err != nil {
		return domain.UpdateResult{}, err
	}
	if source.GroupID != "" && source.GroupID != existing.GroupID {
		return domain.UpdateResult{}, fmt.Errorf("%w: sources cannot change group", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(source.Name) == "" {
		source.Name = existing.Name
	}

	previous := existing.AllowMarkov
	existing.Name = source.Name
	existing.Description = source.Description
	existing.AllowMarkov = source.AllowMarkov
	existing.UpdatedAt = c.now()
	if err := c.sources.Save(ctx, *existing); err != nil {
		return domain.UpdateResult{}, fmt.Errorf("save source: %w", err)
	}
	if previous == existing.AllowMarkov {
		return domain.Skipped(domain.SkipNoFlip), nil
	}
	return c.coordinator.MarkovToggled(ctx, existing.ID, previous)
}

// DeleteSource removes a source and its text model.
func (c *Catalogue) DeleteSource(ctx context.Context, id string) error {
	return c.coordinator.DeleteSource(ctx, id)
}

// AddQuote saves a new quote and merges it into the text models. The
// quote is kept even if the merge fails.
func (c *Catalogue) AddQuote(ctx context.Context, quote domain.Quote) (*domain.Quote, domain.UpdateResult, error) {
	if err := quote.Validate(); err != nil {
		return nil, domain.UpdateResult{}, err
	}
	if _, err := c.sources.Get(ctx, quote.SourceID); err != nil {
		return nil, domain.UpdateResult{}, fmt.Errorf("get source: %w", err)
	}

	quote.ID = uuid.NewString()
	quote.CreatedAt = time.Time{}
	if err := c.quotes.Save(ctx, &quote); err != nil {
		return nil, domain.UpdateResult{}, fmt.Errorf("save quote: %w", err)
	}
	if c.stats != nil {
		if err := c.stats.InitQuote(ctx, quote.ID); err != nil {
			return nil, domain.UpdateResult{}, fmt.Errorf("init quote stats: %w", err)
		}
	}

	result, err := c.coordinator.QuoteSaved(ctx, &quote)
	return &quote, result, err
}

// GetQuote retrieves a quote by ID.
func (c *Catalogue) GetQuote(ctx context.Context, id string) (*domain.Quote, error) {
	return c.quotes.Get(ctx, id)
}

// ListQuotes returns every quote of a source.
func (c *Catalogue) ListQuotes(ctx context.Context, sourceID string) ([]domain.Quote, error) {
	return c.quotes.ListBySource(ctx, sourceID)
}

// UpdateQuote modifies a quote's text, citation and publish date. Models
// are not touched; the next sweep rebuilds them.
func (c *Catalogue) UpdateQuote(ctx context.Context, quote domain.Quote) (*domain.Quote, error) {
	existing, err := c.quotes.Get(ctx, quote.ID)
	if err != nil {
		return nil, err
	}
	if quote.SourceID != "" && quote.SourceID != existing.SourceID {
		return nil, fmt.Errorf("%w: quotes cannot change source", domain.ErrInvalidInput)
	}
	quote.SourceID = existing.SourceID
	quote.CreatedAt = existing.CreatedAt
	if err := quote.Validate(); err != nil {
		return nil, err
	}
	if err := c.quotes.Save(ctx, &quote); err != nil {
		return nil, fmt.Errorf("save quote: %w", err)
	}
	return &quote, nil
}

// DeleteQuote removes a quote and touches its source so the next sweep
// rebuilds the source model.
func (c *Catalogue) DeleteQuote(ctx context.Context, id string) error {
	quote, err := c.quotes.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := c.quotes.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete quote: %w", err)
	}
	source, err := c.sources.Get(ctx, quote.SourceID)
	if err != nil {
		return fmt.Errorf("get source: %w", err)
	}
	source.UpdatedAt = c.now()
	if err := c.sources.Save(ctx, *source); err != nil {
		return fmt.Errorf("save source: %w", err)
	}
	return nil
}
