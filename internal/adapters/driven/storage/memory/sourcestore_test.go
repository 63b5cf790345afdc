package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quotechain/internal/core/domain"
)

func TestGroupStore_CRUD(t *testing.T) {
	ctx := context.Background()
	store := NewGroupStore()

	_, err := store.Get(ctx, "g1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, store.Save(ctx, domain.Group{ID: "g1", Name: "Zeta"}))
	require.NoError(t, store.Save(ctx, domain.Group{ID: "g2", Name: "Alpha"}))

	got, err := store.Get(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "Zeta", got.Name)

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Alpha", list[0].Name)

	require.NoError(t, store.Delete(ctx, "g1"))
	_, err = store.Get(ctx, "g1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGroupStore_DataIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewGroupStore()
	require.NoError(t, store.Save(ctx, domain.Group{ID: "g1", Name: "Original"}))

	got, err := store.Get(ctx, "g1")
	require.NoError(t, err)
	got.Name = "Modified"

	again, err := store.Get(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "Original", again.Name)
}

func TestSourceStore_ListByGroup(t *testing.T) {
	ctx := context.Background()
	store := NewSourceStore()

	require.NoError(t, store.Save(ctx, domain.Source{ID: "s1", GroupID: "g1", Name: "b"}))
	require.NoError(t, store.Save(ctx, domain.Source{ID: "s2", GroupID: "g1", Name: "a"}))
	require.NoError(t, store.Save(ctx, domain.Source{ID: "s3", GroupID: "g2", Name: "c"}))

	inGroup, err := store.ListByGroup(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, inGroup, 2)
	assert.Equal(t, "s2", inGroup[0].ID)
	assert.Equal(t, "s1", inGroup[1].ID)

	all, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := store.ListByGroup(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSourceStore_SaveUpdateDelete(t *testing.T) {
	ctx := context.Background()
	store := NewSourceStore()

	require.NoError(t, store.Save(ctx, domain.Source{ID: "s1", Name: "Before"}))
	require.NoError(t, store.Save(ctx, domain.Source{ID: "s1", Name: "After", AllowMarkov: true}))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "After", got.Name)
	assert.True(t, got.AllowMarkov)

	require.NoError(t, store.Delete(ctx, "s1"))
	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Get(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSourceStore_Concurrency(t *testing.T) {
	ctx := context.Background()
	store := NewSourceStore()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := string(rune('a' + n))
			_ = store.Save(ctx, domain.Source{ID: id, GroupID: "g"})
			_, _ = store.ListByGroup(ctx, "g")
		}(i)
	}
	wg.Wait()

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 20)
}

func TestStores_RejectEmptyID(t *testing.T) {
	ctx := context.Background()

	assert.ErrorIs(t, NewGroupStore().Save(ctx, domain.Group{Name: "x"}), domain.ErrInvalidInput)
	assert.ErrorIs(t, NewSourceStore().Save(ctx, domain.Source{Name: "x"}), domain.ErrInvalidInput)
}
