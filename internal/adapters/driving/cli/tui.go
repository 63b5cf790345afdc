package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/quotechain/internal/adapters/driving/tui"
	"github.com/custodia-labs/quotechain/internal/logger"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse the catalogue in an interactive terminal UI",
	Long: `Browse groups, sources and quotes, generate sentences and pick random
quotes in an interactive terminal UI.

When scheduler.enabled is true the markov sweep runs in the background
while the UI is open.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Open / Select
  s        - Generate a sentence
  r        - Random quote
  a, d     - Add or delete a quote
  Esc      - Back
  ?        - Help (from the menu)
  q        - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// tuiPorts collects the services the browser uses.
func tuiPorts() *tui.Ports {
	return &tui.Ports{
		Catalogue: catalogueService,
		Generator: sentenceGenerator,
		Retriever: quoteRetriever,
		Settings:  settingsService,
	}
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\nStack trace:\n%s\n", r, debug.Stack())
			err = fmt.Errorf("tui panicked: %v", r)
		}
	}()

	app, err := tui.NewApp(tuiPorts())
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	// The UI is long-running, so the sweep runs alongside it when enabled.
	if schedulerEnabled() {
		schedulerCtx, schedulerCancel := context.WithCancel(cmd.Context())
		defer schedulerCancel()

		go func() {
			if err := scheduler.Start(schedulerCtx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("scheduler stopped: %v", err)
			}
		}()

		defer func() {
			if err := scheduler.Stop(); err != nil {
				logger.Warn("scheduler stop error: %v", err)
			}
		}()
	}

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

func schedulerEnabled() bool {
	if scheduler == nil || settingsService == nil {
		return false
	}
	settings, err := settingsService.Get()
	if err != nil {
		logger.Warn("reading settings: %v", err)
		return false
	}
	return settings.Sweep.SchedulerEnabled
}
