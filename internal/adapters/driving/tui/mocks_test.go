package tui

import (
	"context"

	"github.com/custodia-labs/quotechain/internal/core/domain"
	"github.com/custodia-labs/quotechain/internal/core/ports/driving"
)

type mockCatalogue struct {
	driving.CatalogueService
	groups  []domain.Group
	sources []domain.Source
	quotes  []domain.Quote
}

func (m *mockCatalogue) ListGroups(_ context.Context) ([]domain.Group, error) {
	return m.groups, nil
}

func (m *mockCatalogue) GroupSummary(_ context.Context, id string) (*domain.GroupSummary, error) {
	for _, g := range m.groups {
		if g.ID == id {
			return &domain.GroupSummary{Group: g, TotalSources: len(m.sources)}, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockCatalogue) ListSources(_ context.Context, groupID string) ([]domain.Source, error) {
	var out []domain.Source
	for _, s := range m.sources {
		if groupID == "" || s.GroupID == groupID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockCatalogue) ListQuotes(_ context.Context, sourceID string) ([]domain.Quote, error) {
	var out []domain.Quote
	for _, q := range m.quotes {
		if q.SourceID == sourceID {
			out = append(out, q)
		}
	}
	return out, nil
}

type mockGenerator struct {
	driving.SentenceGenerator
}

func (mockGenerator) Generate(_ context.Context, owner domain.Owner, _, _ int) (string, bool, error) {
	return "Generated for " + owner.ID + ".", true, nil
}

type mockRetriever struct{}

func (mockRetriever) RandomQuote(_ context.Context, _ domain.Owner) (*domain.Quote, bool, error) {
	return nil, false, nil
}

type mockSettings struct {
	driving.SettingsService
}

func (mockSettings) Get() (*domain.Settings, error) {
	s := domain.DefaultSettings()
	return &s, nil
}
