package services

import (
	"context"

	"github.com/custodia-labs/quotechain/internal/core/domain"
	"github.com/custodia-labs/quotechain/internal/core/ports/driven"
	"github.com/custodia-labs/quotechain/internal/core/ports/driving"
)

// Ensure the stats types implement their interfaces.
var (
	_ driven.EventObserver = (*StatsRecorder)(nil)
	_ driving.StatsService = (*StatsService)(nil)
)

// StatsRecorder keeps usage counters up to date from generation and
// retrieval events.
type StatsRecorder struct {
	store driven.StatsStore
}

// NewStatsRecorder creates a new stats recorder.
func NewStatsRecorder(store driven.StatsStore) *StatsRecorder {
	return &StatsRecorder{store: store}
}

// SentenceGenerated counts a generation against the group, and against
// the source when a source model produced it.
func (r *StatsRecorder) SentenceGenerated(ctx context.Context, ev domain.SentenceGenerated) error {
	sourceID := ""
	if ev.Owner.IsSource() {
		sourceID = ev.Owner.ID
	}
	return r.store.RecordGenerated(ctx, ev.GroupID, sourceID)
}

// QuoteRetrieved counts a retrieval against the group, source and quote.
func (r *StatsRecorder) QuoteRetrieved(ctx context.Context, ev domain.QuoteRetrieved) error {
	return r.store.RecordRetrieved(ctx, ev.GroupID, ev.SourceID, ev.QuoteID)
}

// ModelUpdated is a no-op.
func (r *StatsRecorder) ModelUpdated(context.Context, domain.ModelUpdated) error {
	return nil
}

// StatsService reads usage counters.
type StatsService struct {
	store driven.StatsStore
}

// NewStatsService creates a new stats service.
func NewStatsService(store driven.StatsStore) *StatsService {
	return &StatsService{store: store}
}

// SourceStats returns the stats for a source.
func (s *StatsService) SourceStats(ctx context.Context, sourceID string) (*domain.SourceStats, error) {
	return s.store.SourceStats(ctx, sourceID)
}

// GroupStats returns the stats for a group.
func (s *StatsService) GroupStats(ctx context.Context, groupID string) (*domain.GroupStats, error) {
	return s.store.GroupStats(ctx, groupID)
}

// QuoteStats returns the stats for a quote.
func (s *StatsService) QuoteStats(ctx context.Context, quoteID string) (*domain.QuoteStats, error) {
	return s.store.QuoteStats(ctx, quoteID)
}
