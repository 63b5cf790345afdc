package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quotechain/internal/core/domain"
)

func TestSweepStore_LoadSchedule_Empty(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	got, err := store.SweepStore().LoadSchedule(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSweepStore_SaveAndLoadSchedule(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	sweeps := store.SweepStore()

	assert.ErrorIs(t, sweeps.SaveSchedule(ctx, nil), domain.ErrInvalidInput)

	now := time.Now().UTC()
	schedule := &domain.SweepSchedule{
		Interval:    time.Hour,
		Enabled:     true,
		LastRun:     now.Add(-30 * time.Minute),
		NextRun:     now.Add(30 * time.Minute),
		LastSuccess: now.Add(-30 * time.Minute),
	}
	require.NoError(t, sweeps.SaveSchedule(ctx, schedule))

	got, err := sweeps.LoadSchedule(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, time.Hour, got.Interval)
	assert.True(t, got.Enabled)
	assert.True(t, got.LastRun.Equal(schedule.LastRun))
	assert.True(t, got.NextRun.Equal(schedule.NextRun))
	assert.Empty(t, got.LastError)

	schedule.Enabled = false
	schedule.LastError = "boom"
	require.NoError(t, sweeps.SaveSchedule(ctx, schedule))

	got, err = sweeps.LoadSchedule(ctx)
	require.NoError(t, err)
	assert.False(t, got.Enabled)
	assert.Equal(t, "boom", got.LastError)
}

func TestSweepStore_RunsAndPrune(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	sweeps := store.SweepStore()

	base := time.Now().UTC()
	for i := range 5 {
		run := domain.SweepRun{
			StartedAt:      base.Add(time.Duration(i) * time.Minute),
			EndedAt:        base.Add(time.Duration(i)*time.Minute + time.Second),
			SourcesUpdated: i,
			GroupsUpdated:  1,
		}
		if i%2 == 1 {
			run.Failures = 1
			run.Error = "failed"
		}
		require.NoError(t, sweeps.RecordRun(ctx, run))
	}

	runs, err := sweeps.RecentRuns(ctx, 3)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, 4, runs[0].SourcesUpdated)
	assert.True(t, runs[0].Succeeded())
	assert.Equal(t, "failed", runs[1].Error)
	assert.Equal(t, 1, runs[1].Failures)

	require.NoError(t, sweeps.PruneRuns(ctx, 2))
	runs, err = sweeps.RecentRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, 4, runs[0].SourcesUpdated)
	assert.Equal(t, 3, runs[1].SourcesUpdated)
}

func TestTimeFormat_SortsLexically(t *testing.T) {
	a := time.Date(2024, 1, 1, 0, 0, 0, 5, time.UTC)
	b := time.Date(2024, 1, 1, 0, 0, 0, 400_000_000, time.UTC)

	assert.Less(t, formatTime(a), formatTime(b))
	assert.True(t, parseTime(formatTime(a)).Equal(a))
	assert.Nil(t, formatNullableTime(time.Time{}))
}
