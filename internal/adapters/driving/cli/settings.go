package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quotechain/internal/core/domain"
)

var errSettingsNotConfigured = errors.New("settings service not configured")

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure markov thresholds, quote sampling and the sweep.

Use subcommands to change a single setting or run the interactive wizard.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a single setting",
	Long: `Change a single setting by its config key, for example:

  quotechain settings set markov.min_quotes 20
  quotechain settings set sweep.interval 30m

Run 'quotechain settings keys' for the full list.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List setting keys",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsReset,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure the markov settings step by step.`,
	RunE:  runSettingsWizard,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Markov]")
	cmd.Printf("  Min quotes: %d\n", settings.Markov.MinQuotes)
	cmd.Printf("  Char limit: %d\n", settings.Markov.CharLimit)
	cmd.Printf("  Tries: %d\n", settings.Markov.Tries)
	cmd.Printf("  State size: %d\n", settings.Markov.StateSize)
	cmd.Printf("  Tokenizer: %s\n", settings.Markov.Tokenizer.Description())
	cmd.Println()

	cmd.Println("[Quotes]")
	cmd.Printf("  Random sample: %d\n", settings.Quotes.RandomSample)
	cmd.Printf("  Group random sample: %d\n", settings.Quotes.GroupRandomSample)
	cmd.Println()

	cmd.Println("[Sweep]")
	cmd.Printf("  Scheduler: %s\n", yesNo(settings.Sweep.SchedulerEnabled))
	cmd.Printf("  Interval: %s\n", settings.Sweep.Interval)
	cmd.Printf("  Concurrency: %d\n", settings.Sweep.Concurrency)
	if settings.Sweep.RebuildRate > 0 {
		cmd.Printf("  Rebuild rate: %g/s\n", settings.Sweep.RebuildRate)
	} else {
		cmd.Printf("  Rebuild rate: unlimited\n")
	}
	cmd.Println()

	cmd.Println("[Storage]")
	dataDir := settings.DataDir
	if dataDir == "" {
		dataDir = "(default)"
	}
	cmd.Printf("  Data dir: %s\n", dataDir)
	cmd.Println()

	if err := settings.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'quotechain settings wizard' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}

	cmd.Printf("Set %s = %s\n", args[0], args[1])
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	for _, key := range settingsService.Keys() {
		cmd.Println(key)
	}
	return nil
}

func runSettingsReset(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	defaults := settingsService.GetDefaults()
	if err := settingsService.Save(&defaults); err != nil {
		return fmt.Errorf("failed to reset settings: %w", err)
	}

	cmd.Println("Settings restored to defaults.")
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("quotechain Settings Wizard")
	cmd.Println("==========================")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())

	// Step 1: Eligibility
	cmd.Println("Step 1: Markov Eligibility")
	cmd.Println("--------------------------")
	cmd.Println("A source needs more quotes than this before it gets a text model.")
	settings.Markov.MinQuotes = promptInt(cmd, reader, "Minimum quotes", settings.Markov.MinQuotes)
	cmd.Println()

	// Step 2: Generation
	cmd.Println("Step 2: Sentence Generation")
	cmd.Println("---------------------------")
	settings.Markov.CharLimit = promptInt(cmd, reader, "Character limit", settings.Markov.CharLimit)
	settings.Markov.Tries = promptInt(cmd, reader, "Attempts per sentence", settings.Markov.Tries)
	settings.Markov.StateSize = promptInt(cmd, reader, "Chain state size", settings.Markov.StateSize)

	tokenizers := []domain.TokenizerKind{domain.TokenizerWhitespace, domain.TokenizerKagome}
	current := 1
	for i, k := range tokenizers {
		cmd.Printf("  %d. %s\n", i+1, k.Description())
		if k == settings.Markov.Tokenizer {
			current = i + 1
		}
	}
	cmd.Printf("Tokenizer [%d]: ", current)
	settings.Markov.Tokenizer = tokenizers[parseChoice(readLine(reader), len(tokenizers), current)-1]
	cmd.Println()

	// Step 3: Sweep
	cmd.Println("Step 3: Maintenance Sweep")
	cmd.Println("-------------------------")
	cmd.Printf("Run the sweep periodically? [%s]: ", yesNo(settings.Sweep.SchedulerEnabled))
	if input := readLine(reader); input != "" {
		settings.Sweep.SchedulerEnabled = confirmed(input)
	}
	cmd.Printf("Sweep interval [%s]: ", settings.Sweep.Interval)
	if input := readLine(reader); input != "" {
		interval, err := time.ParseDuration(input)
		if err != nil {
			return fmt.Errorf("invalid sweep interval: %w", err)
		}
		settings.Sweep.Interval = interval
	}
	cmd.Println()

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	cmd.Println("All settings are valid and saved.")
	cmd.Println("Run 'quotechain markov sweep --force' if you changed the state size or tokenizer.")

	return nil
}

// Helper functions.

func promptInt(cmd *cobra.Command, reader *bufio.Reader, label string, current int) int {
	cmd.Printf("%s [%d]: ", label, current)
	input := readLine(reader)
	if input == "" {
		return current
	}
	val, err := strconv.Atoi(input)
	if err != nil {
		cmd.Printf("  %q is not a number, keeping %d\n", input, current)
		return current
	}
	return val
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}
