package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var errCoordinatorNotConfigured = errors.New("model coordinator not configured")

var markovCmd = &cobra.Command{
	Use:   "markov",
	Short: "Maintain text models",
}

var markovSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Resynchronise stale text models",
	Long: `Rebuild every source and group model that is out of date with its
quotes or membership. With --force every model is rebuilt.

A failure on one source or group is reported and the sweep carries on.`,
	Args: cobra.NoArgs,
	RunE: runMarkovSweep,
}

var markovRebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the text model of a group or source",
	Long: `Rebuild a text model from its quotes. Rebuilding a source also
rebuilds its group.`,
	Args: cobra.NoArgs,
	RunE: runMarkovRebuild,
}

func init() {
	markovSweepCmd.Flags().BoolP("force", "f", false, "rebuild every model")
	markovSweepCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")

	addOwnerFlags(markovRebuildCmd)

	markovCmd.AddCommand(markovSweepCmd)
	markovCmd.AddCommand(markovRebuildCmd)
	rootCmd.AddCommand(markovCmd)
}

func runMarkovSweep(cmd *cobra.Command, _ []string) error {
	if modelCoordinator == nil {
		return errCoordinatorNotConfigured
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}
	yes, err := cmd.Flags().GetBool("yes")
	if err != nil {
		return err
	}

	if force && !yes && isInteractive() {
		cmd.Print("Rebuild every text model? [y/N]: ")
		if !confirmed(readLine(bufio.NewReader(cmd.InOrStdin()))) {
			cmd.Println("Cancelled.")
			return nil
		}
	}

	if force {
		cmd.Println("Rebuilding all text models...")
	} else {
		cmd.Println("Sweeping stale text models...")
	}

	report, err := modelCoordinator.Sweep(cmd.Context(), force)
	if report != nil {
		cmd.Printf("Sources updated: %d\n", report.SourcesUpdated)
		cmd.Printf("Groups updated: %d\n", report.GroupsUpdated)
		for _, f := range report.Failures {
			cmd.PrintErrf("  failed %s: %v\n", f.Owner, f.Err)
		}
		cmd.Printf("Took %s\n", report.EndedAt.Sub(report.StartedAt).Round(time.Millisecond))
	}
	if err != nil {
		return fmt.Errorf("sweep finished with errors: %w", err)
	}
	return nil
}

func runMarkovRebuild(cmd *cobra.Command, _ []string) error {
	if modelCoordinator == nil {
		return errCoordinatorNotConfigured
	}

	owner, err := ownerFromFlags(cmd)
	if err != nil {
		return err
	}

	result, err := modelCoordinator.Rebuild(cmd.Context(), owner)
	if err != nil {
		return fmt.Errorf("failed to rebuild %s: %w", owner, err)
	}

	printResult(cmd, result)
	return nil
}

// isInteractive reports whether stdin is attached to a terminal.
var isInteractive = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func confirmed(answer string) bool {
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
