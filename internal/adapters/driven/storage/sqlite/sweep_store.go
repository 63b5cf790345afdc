package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/quotechain/internal/core/domain"
	"github.com/custodia-labs/quotechain/internal/core/ports/driven"
)

// sweepStore implements driven.SweepStore. The schedule lives in a
// single-row table.
type sweepStore struct {
	store *Store
}

var _ driven.SweepStore = (*sweepStore)(nil)

func (s *sweepStore) LoadSchedule(ctx context.Context) (*domain.SweepSchedule, error) {
	var (
		schedule                 domain.SweepSchedule
		intervalSeconds          int64
		enabled                  int
		lastRun, nextRun, lastOK sql.NullString
		lastError                sql.NullString
	)
	err := s.store.db.QueryRowContext(ctx, `
		SELECT interval_seconds, enabled, last_run, next_run, last_success, last_error
		FROM sweep_schedule WHERE id = 1
	`).Scan(&intervalSeconds, &enabled, &lastRun, &nextRun, &lastOK, &lastError)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading sweep schedule: %w", err)
	}

	schedule.Interval = time.Duration(intervalSeconds) * time.Second
	schedule.Enabled = enabled == 1
	schedule.LastRun = parseNullableTime(lastRun)
	schedule.NextRun = parseNullableTime(nextRun)
	schedule.LastSuccess = parseNullableTime(lastOK)
	schedule.LastError = lastError.String
	return &schedule, nil
}

func (s *sweepStore) SaveSchedule(ctx context.Context, schedule *domain.SweepSchedule) error {
	if schedule == nil {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sweep_schedule (id, interval_seconds, enabled, last_run, next_run, last_success, last_error)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			interval_seconds = excluded.interval_seconds,
			enabled = excluded.enabled,
			last_run = excluded.last_run,
			next_run = excluded.next_run,
			last_success = excluded.last_success,
			last_error = excluded.last_error
	`, int64(schedule.Interval/time.Second), boolToInt(schedule.Enabled),
		formatNullableTime(schedule.LastRun), formatNullableTime(schedule.NextRun),
		formatNullableTime(schedule.LastSuccess), nullString(schedule.LastError))
	if err != nil {
		return fmt.Errorf("saving sweep schedule: %w", err)
	}
	return nil
}

func (s *sweepStore) RecordRun(ctx context.Context, run domain.SweepRun) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sweep_runs (started_at, ended_at, sources_updated, groups_updated, failures, error)
		VALUES (?, ?, ?, ?, ?, ?)
	`, formatTime(run.StartedAt), formatTime(run.EndedAt),
		run.SourcesUpdated, run.GroupsUpdated, run.Failures, nullString(run.Error))
	if err != nil {
		return fmt.Errorf("recording sweep run: %w", err)
	}
	return nil
}

func (s *sweepStore) RecentRuns(ctx context.Context, limit int) ([]domain.SweepRun, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT started_at, ended_at, sources_updated, groups_updated, failures, error
		FROM sweep_runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying sweep runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.SweepRun //nolint:prealloc // size unknown from query
	for rows.Next() {
		var (
			run            domain.SweepRun
			started, ended string
			errMsg         sql.NullString
		)
		if err := rows.Scan(&started, &ended, &run.SourcesUpdated, &run.GroupsUpdated,
			&run.Failures, &errMsg); err != nil {
			return nil, fmt.Errorf("scanning sweep run: %w", err)
		}
		run.StartedAt = parseTime(started)
		run.EndedAt = parseTime(ended)
		run.Error = errMsg.String
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sweep runs: %w", err)
	}
	return runs, nil
}

func (s *sweepStore) PruneRuns(ctx context.Context, keep int) error {
	_, err := s.store.db.ExecContext(ctx, `
		DELETE FROM sweep_runs
		WHERE id NOT IN (
			SELECT id FROM sweep_runs ORDER BY started_at DESC, id DESC LIMIT ?
		)
	`, keep)
	if err != nil {
		return fmt.Errorf("pruning sweep runs: %w", err)
	}
	return nil
}
