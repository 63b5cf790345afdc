package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quotechain/internal/adapters/driven/markov"
	"github.com/custodia-labs/quotechain/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/quotechain/internal/core/domain"
	"github.com/custodia-labs/quotechain/internal/core/ports/driven"
)

// recordingObserver captures every event it receives.
type recordingObserver struct {
	mu        sync.Mutex
	generated []domain.SentenceGenerated
	retrieved []domain.QuoteRetrieved
	updated   []domain.ModelUpdated
}

func (r *recordingObserver) SentenceGenerated(_ context.Context, ev domain.SentenceGenerated) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generated = append(r.generated, ev)
	return nil
}

func (r *recordingObserver) QuoteRetrieved(_ context.Context, ev domain.QuoteRetrieved) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.retrieved = append(r.retrieved, ev)
	return nil
}

func (r *recordingObserver) ModelUpdated(_ context.Context, ev domain.ModelUpdated) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updated = append(r.updated, ev)
	return nil
}

func (r *recordingObserver) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generated, r.retrieved, r.updated = nil, nil, nil
}

// failingModeller fails Build for any corpus containing marker.
type failingModeller struct {
	driven.TextModeller
	marker string
}

func (f *failingModeller) Build(ctx context.Context, corpus []string) ([]byte, error) {
	for _, entry := range corpus {
		if strings.Contains(entry, f.marker) {
			return nil, fmt.Errorf("cannot build %q", f.marker)
		}
	}
	return f.TextModeller.Build(ctx, corpus)
}

// contextModeller fails Build once its context is done.
type contextModeller struct {
	driven.TextModeller
}

func (c *contextModeller) Build(ctx context.Context, corpus []string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.TextModeller.Build(ctx, corpus)
}

// testEnv wires every markov service over in-memory stores.
type testEnv struct {
	groups     *memory.GroupStore
	sources    *memory.SourceStore
	quotes     *memory.QuoteStore
	textModels *memory.TextModelStore
	stats      *memory.StatsStore
	modeller   *markov.Modeller

	eligibility *EligibilityService
	builder     *CorpusBuilder
	combiner    *IncrementalCombiner
	coordinator *Coordinator
	generator   *Generator
	retriever   *Retriever
	catalogue   *Catalogue
	events      *recordingObserver
}

type envOption func(*domain.Settings, *driven.TextModeller)

func withMinQuotes(n int) envOption {
	return func(s *domain.Settings, _ *driven.TextModeller) { s.Markov.MinQuotes = n }
}

func withFailingBuild(marker string) envOption {
	return func(_ *domain.Settings, m *driven.TextModeller) {
		*m = &failingModeller{TextModeller: *m, marker: marker}
	}
}

func withContextAwareBuild() envOption {
	return func(_ *domain.Settings, m *driven.TextModeller) {
		*m = &contextModeller{TextModeller: *m}
	}
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	settings := domain.DefaultSettings()
	settings.Sweep.Concurrency = 2
	modeller := markov.NewModeller(markov.WithSeed(7), markov.WithOverlapCheck(false))
	var textModeller driven.TextModeller = modeller
	for _, opt := range opts {
		opt(&settings, &textModeller)
	}

	env := &testEnv{
		groups:     memory.NewGroupStore(),
		sources:    memory.NewSourceStore(),
		stats:      memory.NewStatsStore(),
		textModels: memory.NewTextModelStore(),
		modeller:   modeller,
		events:     &recordingObserver{},
	}
	env.quotes = memory.NewQuoteStore(env.stats)
	recorder := NewStatsRecorder(env.stats)

	env.eligibility = NewEligibilityService(env.groups, env.sources, env.quotes, settings.Markov.Eligibility())
	env.builder = NewCorpusBuilder(env.groups, env.sources, env.quotes, env.textModels,
		textModeller, env.eligibility, env.events)
	env.combiner = NewIncrementalCombiner(env.groups, env.textModels, textModeller,
		env.eligibility, env.builder, env.events)
	env.coordinator = NewCoordinator(env.builder, env.combiner, env.stats, settings.Sweep)
	env.generator = NewGenerator(env.groups, env.sources, env.textModels, textModeller,
		env.eligibility, env.builder, settings.Markov, env.events, recorder)
	env.retriever = NewRetriever(env.groups, env.sources, env.quotes, settings.Quotes, env.events, recorder)
	env.catalogue = NewCatalogue(env.groups, env.sources, env.quotes, env.stats, env.coordinator, env.eligibility)
	return env
}

func (e *testEnv) group(t *testing.T, name string) *domain.Group {
	t.Helper()
	g, err := e.catalogue.CreateGroup(context.Background(), name, "")
	require.NoError(t, err)
	return g
}

func (e *testEnv) source(t *testing.T, groupID, name string, allowMarkov bool) *domain.Source {
	t.Helper()
	s, err := e.catalogue.CreateSource(context.Background(), domain.Source{
		GroupID:     groupID,
		Name:        name,
		AllowMarkov: allowMarkov,
	})
	require.NoError(t, err)
	return s
}

// seedQuotes stores n quotes directly, without notifying the coordinator.
func (e *testEnv) seedQuotes(t *testing.T, sourceID string, n int) []domain.Quote {
	t.Helper()
	quotes := make([]domain.Quote, 0, n)
	for i := range n {
		q := domain.Quote{
			ID:       fmt.Sprintf("%s-q%02d", sourceID, i),
			SourceID: sourceID,
			Text:     quoteText(sourceID, i),
		}
		require.NoError(t, e.quotes.Save(context.Background(), &q))
		quotes = append(quotes, q)
	}
	return quotes
}

// readySource creates a source with n seeded quotes and built models.
func (e *testEnv) readySource(t *testing.T, groupID, name string, n int) *domain.Source {
	t.Helper()
	src := e.source(t, groupID, name, true)
	e.seedQuotes(t, src.ID, n)
	res, err := e.builder.RebuildSource(context.Background(), src)
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeRebuilt, res.Outcome)
	return e.reload(t, src.ID)
}

func (e *testEnv) reload(t *testing.T, sourceID string) *domain.Source {
	t.Helper()
	s, err := e.sources.Get(context.Background(), sourceID)
	require.NoError(t, err)
	return s
}

func (e *testEnv) model(t *testing.T, id string) *domain.TextModel {
	t.Helper()
	m, err := e.textModels.Get(context.Background(), id)
	require.NoError(t, err)
	return m
}

func (e *testEnv) groupModel(t *testing.T, groupID string) *domain.TextModel {
	t.Helper()
	g, err := e.groups.Get(context.Background(), groupID)
	require.NoError(t, err)
	return e.model(t, g.TextModelID)
}

var quoteSubjects = []string{"The lighthouse", "A quiet fox", "My old neighbour", "The river", "Every winter"}
var quoteEndings = []string{"remembers the sea.", "waits for morning.", "keeps its secrets.", "never hurries home."}

func quoteText(prefix string, i int) string {
	return fmt.Sprintf("%s %s says %d %s",
		quoteSubjects[i%len(quoteSubjects)], prefix, i, quoteEndings[i%len(quoteEndings)])
}

func advance(now *func() time.Time, d time.Duration) {
	base := time.Now()
	*now = func() time.Time { return base.Add(d) }
}
