package cli

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/quotechain/internal/async"
	"github.com/custodia-labs/quotechain/internal/core/domain"
	"github.com/custodia-labs/quotechain/internal/core/ports/driving"
)

// mockCatalogue implements driving.CatalogueService over maps.
type mockCatalogue struct {
	groups  map[string]domain.Group
	sources map[string]domain.Source
	quotes  map[string]domain.Quote
	summary *domain.GroupSummary
	result  domain.UpdateResult
	err     error

	updatedSource *domain.Source
	updatedQuote  *domain.Quote
	deleted       []string
	nextID        int
}

func newMockCatalogue() *mockCatalogue {
	return &mockCatalogue{
		groups:  make(map[string]domain.Group),
		sources: make(map[string]domain.Source),
		quotes:  make(map[string]domain.Quote),
		result:  domain.Skipped(domain.SkipNotReady),
	}
}

func (m *mockCatalogue) id(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}

func (m *mockCatalogue) CreateGroup(_ context.Context, name, description string) (*domain.Group, error) {
	if m.err != nil {
		return nil, m.err
	}
	g := domain.Group{ID: m.id("group"), Name: name, Description: description}
	m.groups[g.ID] = g
	return &g, nil
}

func (m *mockCatalogue) GetGroup(_ context.Context, id string) (*domain.Group, error) {
	g, ok := m.groups[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &g, nil
}

func (m *mockCatalogue) ListGroups(_ context.Context) ([]domain.Group, error) {
	if m.err != nil {
		return nil, m.err
	}
	groups := make([]domain.Group, 0, len(m.groups))
	for _, g := range m.groups {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].ID < groups[j].ID })
	return groups, nil
}

func (m *mockCatalogue) DeleteGroup(_ context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockCatalogue) GroupSummary(_ context.Context, id string) (*domain.GroupSummary, error) {
	if m.summary == nil || m.summary.Group.ID != id {
		return nil, domain.ErrNotFound
	}
	return m.summary, nil
}

func (m *mockCatalogue) CreateSource(_ context.Context, source domain.Source) (*domain.Source, error) {
	if m.err != nil {
		return nil, m.err
	}
	source.ID = m.id("source")
	m.sources[source.ID] = source
	return &source, nil
}

func (m *mockCatalogue) GetSource(_ context.Context, id string) (*domain.Source, error) {
	s, ok := m.sources[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (m *mockCatalogue) ListSources(_ context.Context, groupID string) ([]domain.Source, error) {
	var sources []domain.Source
	for _, s := range m.sources {
		if groupID == "" || s.GroupID == groupID {
			sources = append(sources, s)
		}
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i].ID < sources[j].ID })
	return sources, nil
}

func (m *mockCatalogue) UpdateSource(_ context.Context, source domain.Source) (domain.UpdateResult, error) {
	if m.err != nil {
		return domain.UpdateResult{}, m.err
	}
	m.updatedSource = &source
	m.sources[source.ID] = source
	return m.result, nil
}

func (m *mockCatalogue) DeleteSource(_ context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return m.err
}

func (m *mockCatalogue) AddQuote(_ context.Context, quote domain.Quote) (*domain.Quote, domain.UpdateResult, error) {
	quote.ID = m.id("quote")
	m.quotes[quote.ID] = quote
	return &quote, m.result, m.err
}

func (m *mockCatalogue) GetQuote(_ context.Context, id string) (*domain.Quote, error) {
	q, ok := m.quotes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &q, nil
}

func (m *mockCatalogue) ListQuotes(_ context.Context, sourceID string) ([]domain.Quote, error) {
	var quotes []domain.Quote
	for _, q := range m.quotes {
		if q.SourceID == sourceID {
			quotes = append(quotes, q)
		}
	}
	sort.Slice(quotes, func(i, j int) bool { return quotes[i].ID < quotes[j].ID })
	return quotes, nil
}

func (m *mockCatalogue) UpdateQuote(_ context.Context, quote domain.Quote) (*domain.Quote, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.updatedQuote = &quote
	m.quotes[quote.ID] = quote
	return &quote, nil
}

func (m *mockCatalogue) DeleteQuote(_ context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return m.err
}

// mockCoordinator implements driving.ModelCoordinator.
type mockCoordinator struct {
	report  *domain.SweepReport
	result  domain.UpdateResult
	err     error
	forced  []bool
	rebuilt []domain.Owner
}

func (m *mockCoordinator) SourceCreated(context.Context, string) error { return nil }

func (m *mockCoordinator) GroupCreated(context.Context, string) error { return nil }

func (m *mockCoordinator) MarkovToggled(context.Context, string, bool) (domain.UpdateResult, error) {
	return m.result, m.err
}

func (m *mockCoordinator) QuoteSaved(context.Context, *domain.Quote) (domain.UpdateResult, error) {
	return m.result, m.err
}

func (m *mockCoordinator) Rebuild(_ context.Context, owner domain.Owner) (domain.UpdateResult, error) {
	m.rebuilt = append(m.rebuilt, owner)
	return m.result, m.err
}

func (m *mockCoordinator) DeleteSource(context.Context, string) error { return m.err }

func (m *mockCoordinator) DeleteGroup(context.Context, string) error { return m.err }

func (m *mockCoordinator) Sweep(_ context.Context, force bool) (*domain.SweepReport, error) {
	m.forced = append(m.forced, force)
	return m.report, m.err
}

// mockGenerator implements driving.SentenceGenerator.
type mockGenerator struct {
	sentence  string
	ok        bool
	err       error
	owner     domain.Owner
	charLimit int
	tries     int
}

func (m *mockGenerator) Generate(_ context.Context, owner domain.Owner, charLimit, tries int) (string, bool, error) {
	m.owner, m.charLimit, m.tries = owner, charLimit, tries
	return m.sentence, m.ok, m.err
}

func (m *mockGenerator) GenerateAsync(ctx context.Context, owner domain.Owner, charLimit, tries int) *async.Future[driving.Sentence] {
	return async.Go(func() (driving.Sentence, error) {
		text, ok, err := m.Generate(ctx, owner, charLimit, tries)
		return driving.Sentence{Text: text, OK: ok}, err
	})
}

// mockRetriever implements driving.QuoteRetriever.
type mockRetriever struct {
	quote *domain.Quote
	err   error
	owner domain.Owner
}

func (m *mockRetriever) RandomQuote(_ context.Context, owner domain.Owner) (*domain.Quote, bool, error) {
	m.owner = owner
	return m.quote, m.quote != nil, m.err
}

// mockStats implements driving.StatsService.
type mockStats struct{}

func (mockStats) SourceStats(_ context.Context, id string) (*domain.SourceStats, error) {
	return &domain.SourceStats{SourceID: id, QuotesRequested: 4, QuotesGenerated: 7}, nil
}

func (mockStats) GroupStats(_ context.Context, id string) (*domain.GroupStats, error) {
	return &domain.GroupStats{GroupID: id, QuotesRequested: 3, QuotesGenerated: 9}, nil
}

func (mockStats) QuoteStats(_ context.Context, id string) (*domain.QuoteStats, error) {
	return &domain.QuoteStats{QuoteID: id}, nil
}

// mockSettings implements driving.SettingsService in memory.
type mockSettings struct {
	settings domain.Settings
	set      map[string]string
	err      error
}

func newMockSettings() *mockSettings {
	return &mockSettings{settings: domain.DefaultSettings(), set: make(map[string]string)}
}

func (m *mockSettings) Get() (*domain.Settings, error) {
	s := m.settings
	return &s, m.err
}

func (m *mockSettings) Save(settings *domain.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	m.settings = *settings
	return nil
}

func (m *mockSettings) Set(key, value string) error {
	if !strings.Contains(key, ".") {
		return domain.ErrInvalidInput
	}
	m.set[key] = value
	return nil
}

func (m *mockSettings) Keys() []string {
	return []string{"markov.min_quotes", "sweep.interval"}
}

func (m *mockSettings) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// mockScheduler implements driving.Scheduler. Start blocks until ctx
// is cancelled.
type mockScheduler struct {
	started bool
	stopped bool
	runs    []domain.SweepRun
	limit   int
}

func (m *mockScheduler) Start(ctx context.Context) error {
	m.started = true
	<-ctx.Done()
	return ctx.Err()
}

func (m *mockScheduler) Stop() error {
	m.stopped = true
	return nil
}

func (m *mockScheduler) History(_ context.Context, limit int) ([]domain.SweepRun, error) {
	m.limit = limit
	return m.runs, nil
}

type testServices struct {
	catalogue   *mockCatalogue
	coordinator *mockCoordinator
	generator   *mockGenerator
	retriever   *mockRetriever
	settings    *mockSettings
	scheduler   *mockScheduler
}

// setupTestServices installs fresh mocks and clears them after the test.
func setupTestServices(t *testing.T) *testServices {
	t.Helper()
	ts := &testServices{
		catalogue:   newMockCatalogue(),
		coordinator: &mockCoordinator{},
		generator:   &mockGenerator{},
		retriever:   &mockRetriever{},
		settings:    newMockSettings(),
		scheduler:   &mockScheduler{},
	}
	SetServices(Services{
		Catalogue:   ts.catalogue,
		Coordinator: ts.coordinator,
		Generator:   ts.generator,
		Retriever:   ts.retriever,
		Stats:       mockStats{},
		Settings:    ts.settings,
		Scheduler:   ts.scheduler,
	})
	t.Cleanup(func() { SetServices(Services{}) })
	return ts
}

// executeCommand runs rootCmd with args and returns stdout and stderr.
func executeCommand(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		resetFlags(rootCmd)
	}()

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// resetFlags restores every flag so state does not leak between runs.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue) //nolint:errcheck // default values always parse
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func datePtr(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}
