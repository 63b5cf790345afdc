package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/quotechain/internal/core/domain"
	"github.com/custodia-labs/quotechain/internal/core/ports/driven"
)

// Ensure StatsStore implements the interface.
var _ driven.StatsStore = (*StatsStore)(nil)

// StatsStore is an in-memory implementation of driven.StatsStore.
// Counters for unknown IDs are created on first increment.
type StatsStore struct {
	mu      sync.RWMutex
	groups  map[string]domain.GroupStats
	sources map[string]domain.SourceStats
	quotes  map[string]domain.QuoteStats
}

// NewStatsStore creates a new in-memory stats store.
func NewStatsStore() *StatsStore {
	return &StatsStore{
		groups:  make(map[string]domain.GroupStats),
		sources: make(map[string]domain.SourceStats),
		quotes:  make(map[string]domain.QuoteStats),
	}
}

// InitGroup creates the zeroed stats for a group.
func (s *StatsStore) InitGroup(_ context.Context, groupID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[groupID]; !ok {
		s.groups[groupID] = domain.GroupStats{GroupID: groupID}
	}
	return nil
}

// InitSource creates the zeroed stats for a source.
func (s *StatsStore) InitSource(_ context.Context, sourceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sources[sourceID]; !ok {
		s.sources[sourceID] = domain.SourceStats{SourceID: sourceID}
	}
	return nil
}

// InitQuote creates the zeroed stats for a quote.
func (s *StatsStore) InitQuote(_ context.Context, quoteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quotes[quoteID]; !ok {
		s.quotes[quoteID] = domain.QuoteStats{QuoteID: quoteID}
	}
	return nil
}

// RecordGenerated increments generation counters.
func (s *StatsStore) RecordGenerated(_ context.Context, groupID, sourceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := s.groups[groupID]
	g.GroupID = groupID
	g.QuotesGenerated++
	s.groups[groupID] = g
	if sourceID != "" {
		src := s.sources[sourceID]
		src.SourceID = sourceID
		src.QuotesGenerated++
		s.sources[sourceID] = src
	}
	return nil
}

// RecordRetrieved increments retrieval counters.
func (s *StatsStore) RecordRetrieved(_ context.Context, groupID, sourceID, quoteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := s.groups[groupID]
	g.GroupID = groupID
	g.QuotesRequested++
	s.groups[groupID] = g

	src := s.sources[sourceID]
	src.SourceID = sourceID
	src.QuotesRequested++
	s.sources[sourceID] = src

	q := s.quotes[quoteID]
	q.QuoteID = quoteID
	q.TimesUsed++
	s.quotes[quoteID] = q
	return nil
}

// GroupStats returns the stats for a group.
func (s *StatsStore) GroupStats(_ context.Context, groupID string) (*domain.GroupStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.groups[groupID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &st, nil
}

// SourceStats returns the stats for a source.
func (s *StatsStore) SourceStats(_ context.Context, sourceID string) (*domain.SourceStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.sources[sourceID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &st, nil
}

// QuoteStats returns the stats for a quote.
func (s *StatsStore) QuoteStats(_ context.Context, quoteID string) (*domain.QuoteStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.quotes[quoteID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &st, nil
}
