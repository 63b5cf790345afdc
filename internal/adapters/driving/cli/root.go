// Package cli provides the quotechain command line interface.
package cli

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quotechain/internal/core/domain"
	"github.com/custodia-labs/quotechain/internal/core/ports/driving"
	"github.com/custodia-labs/quotechain/internal/logger"
)

var version = "dev"

var verbose bool

// Services wired by the composition root.
var (
	catalogueService  driving.CatalogueService
	modelCoordinator  driving.ModelCoordinator
	sentenceGenerator driving.SentenceGenerator
	quoteRetriever    driving.QuoteRetriever
	statsService      driving.StatsService
	settingsService   driving.SettingsService
	scheduler         driving.Scheduler
	metricsHandler    http.Handler
)

// Services groups the driving ports the commands depend on.
type Services struct {
	Catalogue   driving.CatalogueService
	Coordinator driving.ModelCoordinator
	Generator   driving.SentenceGenerator
	Retriever   driving.QuoteRetriever
	Stats       driving.StatsService
	Settings    driving.SettingsService
	Scheduler   driving.Scheduler

	// Metrics serves the Prometheus exposition format. Optional.
	Metrics http.Handler
}

// SetServices installs the services used by the commands.
func SetServices(s Services) {
	catalogueService = s.Catalogue
	modelCoordinator = s.Coordinator
	sentenceGenerator = s.Generator
	quoteRetriever = s.Retriever
	statsService = s.Stats
	settingsService = s.Settings
	scheduler = s.Scheduler
	metricsHandler = s.Metrics
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "quotechain",
	Short: "Markov text models for quote collections",
	Long: `quotechain keeps a Markov text model for every source of quotes and
for every group of sources, and generates new sentences from them.

Models are updated incrementally as quotes are added. Run
'quotechain markov sweep' to resynchronise after edits and deletions.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug output")
}

// Execute runs the root command.
func Execute() error {
	rootCmd.SetOut(os.Stdout)
	return describeError(rootCmd.Execute())
}

// describeError adds a recovery hint to errors the user can act on.
func describeError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrCorpus):
		return fmt.Errorf("%w\nmodels may be out of date, run 'quotechain markov sweep --force'", err)
	case errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("%w\nuse the list commands to find valid IDs", err)
	default:
		return err
	}
}

// addOwnerFlags registers the --group and --source selectors on cmd.
func addOwnerFlags(cmd *cobra.Command) {
	cmd.Flags().String("group", "", "group ID")
	cmd.Flags().String("source", "", "source ID")
	cmd.MarkFlagsMutuallyExclusive("group", "source")
	cmd.MarkFlagsOneRequired("group", "source")
}

// ownerFromFlags reads the owner selected with addOwnerFlags.
func ownerFromFlags(cmd *cobra.Command) (domain.Owner, error) {
	groupID, err := cmd.Flags().GetString("group")
	if err != nil {
		return domain.Owner{}, err
	}
	sourceID, err := cmd.Flags().GetString("source")
	if err != nil {
		return domain.Owner{}, err
	}

	owner := domain.GroupOwner(strings.TrimSpace(groupID))
	if sourceID != "" {
		owner = domain.SourceOwner(strings.TrimSpace(sourceID))
	}
	return owner, owner.Validate()
}

// printResult reports the model update outcome of a mutation.
func printResult(cmd *cobra.Command, result domain.UpdateResult) {
	if result.Outcome == domain.OutcomeSkipped {
		cmd.Printf("Text models: skipped (%s)\n", result.Reason)
		return
	}
	cmd.Printf("Text models: %s\n", result.Outcome)
}
