// Command quotechain manages quote collections and generates sentences
// from their Markov text models.
package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/quotechain/internal/adapters/driven/config/file"
	"github.com/custodia-labs/quotechain/internal/adapters/driven/markov"
	"github.com/custodia-labs/quotechain/internal/adapters/driven/metrics"
	"github.com/custodia-labs/quotechain/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/quotechain/internal/adapters/driving/cli"
	"github.com/custodia-labs/quotechain/internal/core/services"
)

// Set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	store, err := sqlite.NewStore(settings.DataDir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	tokenizer, err := markov.NewTokenizer(settings.Markov.Tokenizer)
	if err != nil {
		return fmt.Errorf("creating tokenizer: %w", err)
	}
	modeller := markov.NewModeller(
		markov.WithStateSize(settings.Markov.StateSize),
		markov.WithTokenizer(tokenizer),
	)

	groups := store.GroupStore()
	sources := store.SourceStore()
	quotes := store.QuoteStore()
	textModels := store.TextModelStore()
	stats := store.StatsStore()

	observer := metrics.New()
	recorder := services.NewStatsRecorder(stats)

	eligibility := services.NewEligibilityService(groups, sources, quotes, settings.Markov.Eligibility())
	builder := services.NewCorpusBuilder(groups, sources, quotes, textModels, modeller, eligibility, observer)
	combiner := services.NewIncrementalCombiner(groups, textModels, modeller, eligibility, builder, observer)
	coordinator := services.NewCoordinator(builder, combiner, stats, settings.Sweep)

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Catalogue:   services.NewCatalogue(groups, sources, quotes, stats, coordinator, eligibility),
		Coordinator: coordinator,
		Generator: services.NewGenerator(
			groups, sources, textModels, modeller, eligibility, builder, settings.Markov, recorder, observer,
		),
		Retriever: services.NewRetriever(groups, sources, quotes, settings.Quotes, recorder, observer),
		Stats:     services.NewStatsService(stats),
		Settings:  settingsService,
		Scheduler: services.NewScheduler(settings.Sweep, store.SweepStore(), coordinator),
		Metrics:   observer.Handler(),
	})

	return cli.Execute()
}
