package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quotechain/internal/core/domain"
)

func TestCoordinator_CreatedAttachesModels(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	g := env.group(t, "Novel")
	src := env.source(t, g.ID, "Narrator", true)

	require.NotEmpty(t, g.TextModelID)
	require.NotEmpty(t, src.TextModelID)
	assert.NotEqual(t, g.TextModelID, src.TextModelID)
	assert.False(t, env.model(t, src.TextModelID).IsReady())

	_, err := env.stats.GroupStats(ctx, g.ID)
	require.NoError(t, err)
	_, err = env.stats.SourceStats(ctx, src.ID)
	require.NoError(t, err)
}

func TestCoordinator_MarkovToggledOn(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	g := env.group(t, "Novel")
	a := env.readySource(t, g.ID, "Alice", 11)
	b := env.source(t, g.ID, "Bob", false)
	env.seedQuotes(t, b.ID, 15)
	groupBefore := env.groupModel(t, g.ID)

	ready, err := env.eligibility.SourceReady(ctx, b.ID)
	require.NoError(t, err)
	require.False(t, ready)

	b.AllowMarkov = true
	res, err := env.catalogue.UpdateSource(ctx, *b)
	require.NoError(t, err)
	assert.Equal(t, domain.Rebuilt(), res)

	ready, err = env.eligibility.SourceReady(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, ready)

	sourceModel := env.model(t, b.TextModelID)
	groupAfter := env.groupModel(t, g.ID)
	assert.True(t, sourceModel.IsReady())
	assert.True(t, groupAfter.ModifiedAt.After(groupBefore.ModifiedAt))
	assert.Equal(t, sourceModel.ModifiedAt, groupAfter.ModifiedAt)
	assert.ElementsMatch(t, []string{a.ID, b.ID}, groupAfter.Members)
}

func TestCoordinator_MarkovToggledOff(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	g := env.group(t, "Novel")
	a := env.readySource(t, g.ID, "Alice", 11)
	b := env.readySource(t, g.ID, "Bob", 11)

	b.AllowMarkov = false
	res, err := env.catalogue.UpdateSource(ctx, *b)
	require.NoError(t, err)
	assert.Equal(t, domain.Rebuilt(), res)

	groupModel := env.groupModel(t, g.ID)
	assert.Equal(t, []string{a.ID}, groupModel.Members)
	assert.Equal(t, env.model(t, a.TextModelID).Data, groupModel.Data)
}

func TestCoordinator_MarkovToggled_Skips(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	g := env.group(t, "Novel")
	src := env.source(t, g.ID, "Short", false)
	env.seedQuotes(t, src.ID, 4)

	src.Description = "renamed only"
	res, err := env.catalogue.UpdateSource(ctx, *src)
	require.NoError(t, err)
	assert.Equal(t, domain.Skipped(domain.SkipNoFlip), res)

	src.AllowMarkov = true
	res, err = env.catalogue.UpdateSource(ctx, *src)
	require.NoError(t, err)
	assert.Equal(t, domain.Skipped(domain.SkipNotReady), res)
	assert.False(t, env.model(t, src.TextModelID).IsReady())
}

func TestCoordinator_QuoteSaved_Skips(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	g := env.group(t, "Novel")
	src := env.readySource(t, g.ID, "Narrator", 11)

	_, err := env.coordinator.QuoteSaved(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	res, err := env.coordinator.QuoteSaved(ctx, &domain.Quote{SourceID: src.ID, Text: "Unsaved."})
	require.NoError(t, err)
	assert.Equal(t, domain.Skipped(domain.SkipUnsavedQuote), res)

	pub := time.Now().Add(time.Hour)
	future := &domain.Quote{ID: "future", SourceID: src.ID, Text: "Later.", PubDate: &pub}
	require.NoError(t, env.quotes.Save(ctx, future))
	res, err = env.coordinator.QuoteSaved(ctx, future)
	require.NoError(t, err)
	assert.Equal(t, domain.Skipped(domain.SkipFutureQuote), res)

	stale := saveQuote(t, env, src.ID, "stale", "Written before the rebuild.")
	_, err = env.coordinator.Rebuild(ctx, domain.SourceOwner(src.ID))
	require.NoError(t, err)
	res, err = env.coordinator.QuoteSaved(ctx, stale)
	require.NoError(t, err)
	assert.Equal(t, domain.Skipped(domain.SkipStaleQuote), res)
}

func TestCoordinator_AddQuoteCrossesThreshold(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	g := env.group(t, "Novel")
	src := env.source(t, g.ID, "Narrator", true)
	env.seedQuotes(t, src.ID, 9)

	_, res, err := env.catalogue.AddQuote(ctx, domain.Quote{SourceID: src.ID, Text: "The tenth line."})
	require.NoError(t, err)
	assert.Equal(t, domain.Skipped(domain.SkipNotReady), res)

	_, res, err = env.catalogue.AddQuote(ctx, domain.Quote{SourceID: src.ID, Text: "The eleventh line."})
	require.NoError(t, err)
	assert.Equal(t, domain.Rebuilt(), res)

	before := env.groupModel(t, g.ID)
	_, res, err = env.catalogue.AddQuote(ctx, domain.Quote{SourceID: src.ID, Text: "The twelfth line."})
	require.NoError(t, err)
	assert.Equal(t, domain.Merged(), res)
	assert.True(t, env.groupModel(t, g.ID).ModifiedAt.After(before.ModifiedAt))
}

func TestCoordinator_Rebuild(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	g := env.group(t, "Novel")
	src := env.readySource(t, g.ID, "Narrator", 11)
	before := env.groupModel(t, g.ID)

	res, err := env.coordinator.Rebuild(ctx, domain.GroupOwner(g.ID))
	require.NoError(t, err)
	assert.Equal(t, domain.Rebuilt(), res)
	assert.True(t, env.groupModel(t, g.ID).ModifiedAt.After(before.ModifiedAt))

	res, err = env.coordinator.Rebuild(ctx, domain.SourceOwner(src.ID))
	require.NoError(t, err)
	assert.Equal(t, domain.Rebuilt(), res)

	_, err = env.coordinator.Rebuild(ctx, domain.Owner{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCoordinator_DeleteSource(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	g := env.group(t, "Novel")
	a := env.readySource(t, g.ID, "Alice", 11)
	b := env.readySource(t, g.ID, "Bob", 12)

	require.NoError(t, env.catalogue.DeleteSource(ctx, a.ID))

	_, err := env.sources.Get(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = env.textModels.Get(ctx, a.TextModelID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	quotes, err := env.quotes.ListBySource(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, quotes)

	groupModel := env.groupModel(t, g.ID)
	assert.Equal(t, []string{b.ID}, groupModel.Members)
	assert.Equal(t, env.model(t, b.TextModelID).Data, groupModel.Data)
}

func TestCoordinator_DeleteSource_NotMember(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	g := env.group(t, "Novel")
	env.readySource(t, g.ID, "Alice", 11)
	muted := env.source(t, g.ID, "Muted", false)
	before := env.groupModel(t, g.ID)

	require.NoError(t, env.catalogue.DeleteSource(ctx, muted.ID))
	assert.Equal(t, before.ModifiedAt, env.groupModel(t, g.ID).ModifiedAt)
}

func TestCoordinator_DeleteGroup(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	g := env.group(t, "Novel")
	a := env.readySource(t, g.ID, "Alice", 11)
	b := env.source(t, g.ID, "Bob", false)

	require.NoError(t, env.catalogue.DeleteGroup(ctx, g.ID))

	_, err := env.groups.Get(ctx, g.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	for _, id := range []string{g.TextModelID, a.TextModelID, b.TextModelID} {
		_, err := env.textModels.Get(ctx, id)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	}
	sources, err := env.sources.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, sources)
}
