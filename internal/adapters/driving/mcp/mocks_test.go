package mcp

import (
	"context"

	"github.com/custodia-labs/quotechain/internal/async"
	"github.com/custodia-labs/quotechain/internal/core/domain"
	"github.com/custodia-labs/quotechain/internal/core/ports/driving"
)

// mockGenerator is a mock implementation of driving.SentenceGenerator.
type mockGenerator struct {
	sentence string
	ok       bool
	err      error

	gotOwner     domain.Owner
	gotCharLimit int
	gotTries     int
}

func (m *mockGenerator) Generate(
	_ context.Context,
	owner domain.Owner,
	charLimit, tries int,
) (string, bool, error) {
	m.gotOwner, m.gotCharLimit, m.gotTries = owner, charLimit, tries
	return m.sentence, m.ok, m.err
}

func (m *mockGenerator) GenerateAsync(
	ctx context.Context,
	owner domain.Owner,
	charLimit, tries int,
) *async.Future[driving.Sentence] {
	text, ok, err := m.Generate(ctx, owner, charLimit, tries)
	return async.Resolved(driving.Sentence{Text: text, OK: ok}, err)
}

// mockRetriever is a mock implementation of driving.QuoteRetriever.
type mockRetriever struct {
	quote *domain.Quote
	err   error
}

func (m *mockRetriever) RandomQuote(_ context.Context, _ domain.Owner) (*domain.Quote, bool, error) {
	return m.quote, m.quote != nil, m.err
}

// mockCatalogue is a mock implementation of driving.CatalogueService.
type mockCatalogue struct {
	groups    []domain.Group
	summaries map[string]*domain.GroupSummary
	sources   []domain.Source
	err       error
}

func (m *mockCatalogue) CreateGroup(_ context.Context, _, _ string) (*domain.Group, error) {
	return nil, m.err
}

func (m *mockCatalogue) GetGroup(_ context.Context, _ string) (*domain.Group, error) {
	return nil, m.err
}

func (m *mockCatalogue) ListGroups(_ context.Context) ([]domain.Group, error) {
	return m.groups, m.err
}

func (m *mockCatalogue) DeleteGroup(_ context.Context, _ string) error {
	return m.err
}

func (m *mockCatalogue) GroupSummary(_ context.Context, id string) (*domain.GroupSummary, error) {
	if m.err != nil {
		return nil, m.err
	}
	if s, ok := m.summaries[id]; ok {
		return s, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockCatalogue) CreateSource(_ context.Context, _ domain.Source) (*domain.Source, error) {
	return nil, m.err
}

func (m *mockCatalogue) GetSource(_ context.Context, _ string) (*domain.Source, error) {
	return nil, m.err
}

func (m *mockCatalogue) ListSources(_ context.Context, _ string) ([]domain.Source, error) {
	return m.sources, m.err
}

func (m *mockCatalogue) UpdateSource(_ context.Context, _ domain.Source) (domain.UpdateResult, error) {
	return domain.UpdateResult{}, m.err
}

func (m *mockCatalogue) DeleteSource(_ context.Context, _ string) error {
	return m.err
}

func (m *mockCatalogue) AddQuote(_ context.Context, _ domain.Quote) (*domain.Quote, domain.UpdateResult, error) {
	return nil, domain.UpdateResult{}, m.err
}

func (m *mockCatalogue) GetQuote(_ context.Context, _ string) (*domain.Quote, error) {
	return nil, m.err
}

func (m *mockCatalogue) ListQuotes(_ context.Context, _ string) ([]domain.Quote, error) {
	return nil, m.err
}

func (m *mockCatalogue) UpdateQuote(_ context.Context, _ domain.Quote) (*domain.Quote, error) {
	return nil, m.err
}

func (m *mockCatalogue) DeleteQuote(_ context.Context, _ string) error {
	return m.err
}

func validPorts() *Ports {
	return &Ports{Generator: &mockGenerator{}, Quotes: &mockRetriever{}}
}
