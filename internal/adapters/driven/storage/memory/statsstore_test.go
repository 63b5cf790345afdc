package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quotechain/internal/core/domain"
)

func TestStatsStore_InitAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewStatsStore()

	_, err := store.GroupStats(ctx, "g1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, store.InitGroup(ctx, "g1"))
	require.NoError(t, store.InitSource(ctx, "s1"))
	require.NoError(t, store.InitQuote(ctx, "q1"))

	g, err := store.GroupStats(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, domain.GroupStats{GroupID: "g1"}, *g)

	s, err := store.SourceStats(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.SourceStats{SourceID: "s1"}, *s)

	q, err := store.QuoteStats(ctx, "q1")
	require.NoError(t, err)
	assert.Equal(t, domain.QuoteStats{QuoteID: "q1"}, *q)
}

func TestStatsStore_InitDoesNotReset(t *testing.T) {
	ctx := context.Background()
	store := NewStatsStore()
	require.NoError(t, store.RecordGenerated(ctx, "g1", ""))
	require.NoError(t, store.InitGroup(ctx, "g1"))

	g, err := store.GroupStats(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, 1, g.QuotesGenerated)
}

func TestStatsStore_RecordGenerated(t *testing.T) {
	ctx := context.Background()
	store := NewStatsStore()

	require.NoError(t, store.RecordGenerated(ctx, "g1", "s1"))
	require.NoError(t, store.RecordGenerated(ctx, "g1", ""))

	g, err := store.GroupStats(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, 2, g.QuotesGenerated)
	assert.Zero(t, g.QuotesRequested)

	s, err := store.SourceStats(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, s.QuotesGenerated)
}

func TestStatsStore_RecordRetrieved(t *testing.T) {
	ctx := context.Background()
	store := NewStatsStore()

	require.NoError(t, store.RecordRetrieved(ctx, "g1", "s1", "q1"))

	g, err := store.GroupStats(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, 1, g.QuotesRequested)

	s, err := store.SourceStats(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, s.QuotesRequested)

	q, err := store.QuoteStats(ctx, "q1")
	require.NoError(t, err)
	assert.Equal(t, 1, q.TimesUsed)
}

func TestStatsStore_Concurrency(t *testing.T) {
	ctx := context.Background()
	store := NewStatsStore()

	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.RecordRetrieved(ctx, "g", "s", "q")
		}()
	}
	wg.Wait()

	q, err := store.QuoteStats(ctx, "q")
	require.NoError(t, err)
	assert.Equal(t, 100, q.TimesUsed)
}
