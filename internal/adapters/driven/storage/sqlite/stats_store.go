package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/custodia-labs/quotechain/internal/core/domain"
	"github.com/custodia-labs/quotechain/internal/core/ports/driven"
)

// statsStore implements driven.StatsStore.
type statsStore struct {
	store *Store
}

var _ driven.StatsStore = (*statsStore)(nil)

// InitGroup creates the zeroed stats row for a group.
func (s *statsStore) InitGroup(ctx context.Context, groupID string) error {
	return s.exec(ctx, "initialising group stats",
		"INSERT OR IGNORE INTO group_stats (group_id) VALUES (?)", groupID)
}

// InitSource creates the zeroed stats row for a source.
func (s *statsStore) InitSource(ctx context.Context, sourceID string) error {
	return s.exec(ctx, "initialising source stats",
		"INSERT OR IGNORE INTO source_stats (source_id) VALUES (?)", sourceID)
}

// InitQuote creates the zeroed stats row for a quote.
func (s *statsStore) InitQuote(ctx context.Context, quoteID string) error {
	return s.exec(ctx, "initialising quote stats",
		"INSERT OR IGNORE INTO quote_stats (quote_id) VALUES (?)", quoteID)
}

// RecordGenerated increments generation counters in one transaction.
func (s *statsStore) RecordGenerated(ctx context.Context, groupID, sourceID string) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO group_stats (group_id, quotes_generated) VALUES (?, 1)
		ON CONFLICT(group_id) DO UPDATE SET quotes_generated = quotes_generated + 1
	`, groupID); err != nil {
		return fmt.Errorf("recording group generation: %w", err)
	}
	if sourceID != "" {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO source_stats (source_id, quotes_generated) VALUES (?, 1)
			ON CONFLICT(source_id) DO UPDATE SET quotes_generated = quotes_generated + 1
		`, sourceID); err != nil {
			return fmt.Errorf("recording source generation: %w", err)
		}
	}
	return tx.Commit()
}

// RecordRetrieved increments retrieval counters in one transaction.
func (s *statsStore) RecordRetrieved(ctx context.Context, groupID, sourceID, quoteID string) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	statements := []struct {
		query string
		arg   string
	}{
		{`INSERT INTO group_stats (group_id, quotes_requested) VALUES (?, 1)
		  ON CONFLICT(group_id) DO UPDATE SET quotes_requested = quotes_requested + 1`, groupID},
		{`INSERT INTO source_stats (source_id, quotes_requested) VALUES (?, 1)
		  ON CONFLICT(source_id) DO UPDATE SET quotes_requested = quotes_requested + 1`, sourceID},
		{`INSERT INTO quote_stats (quote_id, times_used) VALUES (?, 1)
		  ON CONFLICT(quote_id) DO UPDATE SET times_used = times_used + 1`, quoteID},
	}
	for _, st := range statements {
		if _, err := tx.ExecContext(ctx, st.query, st.arg); err != nil {
			return fmt.Errorf("recording retrieval: %w", err)
		}
	}
	return tx.Commit()
}

// GroupStats returns the stats for a group.
func (s *statsStore) GroupStats(ctx context.Context, groupID string) (*domain.GroupStats, error) {
	st := domain.GroupStats{GroupID: groupID}
	err := s.store.db.QueryRowContext(ctx, `
		SELECT quotes_requested, quotes_generated FROM group_stats WHERE group_id = ?
	`, groupID).Scan(&st.QuotesRequested, &st.QuotesGenerated)
	if err != nil {
		return nil, notFound(err, "group stats")
	}
	return &st, nil
}

// SourceStats returns the stats for a source.
func (s *statsStore) SourceStats(ctx context.Context, sourceID string) (*domain.SourceStats, error) {
	st := domain.SourceStats{SourceID: sourceID}
	err := s.store.db.QueryRowContext(ctx, `
		SELECT quotes_requested, quotes_generated FROM source_stats WHERE source_id = ?
	`, sourceID).Scan(&st.QuotesRequested, &st.QuotesGenerated)
	if err != nil {
		return nil, notFound(err, "source stats")
	}
	return &st, nil
}

// QuoteStats returns the stats for a quote.
func (s *statsStore) QuoteStats(ctx context.Context, quoteID string) (*domain.QuoteStats, error) {
	st := domain.QuoteStats{QuoteID: quoteID}
	err := s.store.db.QueryRowContext(ctx, `
		SELECT times_used FROM quote_stats WHERE quote_id = ?
	`, quoteID).Scan(&st.TimesUsed)
	if err != nil {
		return nil, notFound(err, "quote stats")
	}
	return &st, nil
}

func (s *statsStore) exec(ctx context.Context, what, query string, args ...any) error {
	if _, err := s.store.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	return nil
}

func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return fmt.Errorf("scanning %s: %w", what, err)
}
