package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quotechain/internal/core/domain"
)

var sourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Manage quote sources",
	Long: `A source is a person or publication that quotes are attributed to.
A source gets its own text model once it has enough quotes and markov
generation is allowed for it.`,
}

var sourceAddCmd = &cobra.Command{
	Use:   "add <group-id> <name>",
	Short: "Add a source to a group",
	Args:  cobra.ExactArgs(2),
	RunE:  runSourceAdd,
}

var sourceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sources",
	Args:  cobra.NoArgs,
	RunE:  runSourceList,
}

var sourceShowCmd = &cobra.Command{
	Use:   "show <source-id>",
	Short: "Show a source",
	Args:  cobra.ExactArgs(1),
	RunE:  runSourceShow,
}

var sourceUpdateCmd = &cobra.Command{
	Use:   "update <source-id>",
	Short: "Update a source",
	Long: `Update the name, description or markov flag of a source.

Turning --allow-markov on or off rebuilds the source and group models.`,
	Args: cobra.ExactArgs(1),
	RunE: runSourceUpdate,
}

var sourceDeleteCmd = &cobra.Command{
	Use:   "delete <source-id>",
	Short: "Delete a source and its quotes",
	Args:  cobra.ExactArgs(1),
	RunE:  runSourceDelete,
}

func init() {
	sourceAddCmd.Flags().StringP("description", "d", "", "source description")
	sourceAddCmd.Flags().Bool("allow-markov", false, "allow markov generation for this source")

	sourceListCmd.Flags().String("group", "", "only list sources of this group")

	sourceUpdateCmd.Flags().String("name", "", "new name")
	sourceUpdateCmd.Flags().StringP("description", "d", "", "new description")
	sourceUpdateCmd.Flags().Bool("allow-markov", false, "allow markov generation for this source")

	sourceCmd.AddCommand(sourceAddCmd)
	sourceCmd.AddCommand(sourceListCmd)
	sourceCmd.AddCommand(sourceShowCmd)
	sourceCmd.AddCommand(sourceUpdateCmd)
	sourceCmd.AddCommand(sourceDeleteCmd)
	rootCmd.AddCommand(sourceCmd)
}

func runSourceAdd(cmd *cobra.Command, args []string) error {
	if catalogueService == nil {
		return errCatalogueNotConfigured
	}

	description, err := cmd.Flags().GetString("description")
	if err != nil {
		return err
	}
	allowMarkov, err := cmd.Flags().GetBool("allow-markov")
	if err != nil {
		return err
	}

	source, err := catalogueService.CreateSource(cmd.Context(), domain.Source{
		GroupID:     args[0],
		Name:        args[1],
		Description: description,
		AllowMarkov: allowMarkov,
	})
	if err != nil {
		return fmt.Errorf("failed to add source: %w", err)
	}

	cmd.Printf("Added source %s (%s)\n", source.Name, source.ID)
	return nil
}

func runSourceList(cmd *cobra.Command, _ []string) error {
	if catalogueService == nil {
		return errCatalogueNotConfigured
	}

	groupID, err := cmd.Flags().GetString("group")
	if err != nil {
		return err
	}

	sources, err := catalogueService.ListSources(cmd.Context(), groupID)
	if err != nil {
		return fmt.Errorf("failed to list sources: %w", err)
	}

	if len(sources) == 0 {
		cmd.Println("No sources.")
		return nil
	}

	for _, s := range sources {
		markov := ""
		if s.AllowMarkov {
			markov = "  [markov]"
		}
		cmd.Printf("%s  %s  (group %s)%s\n", s.ID, s.Name, s.GroupID, markov)
	}
	return nil
}

func runSourceShow(cmd *cobra.Command, args []string) error {
	if catalogueService == nil {
		return errCatalogueNotConfigured
	}

	source, err := catalogueService.GetSource(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get source: %w", err)
	}
	quotes, err := catalogueService.ListQuotes(cmd.Context(), source.ID)
	if err != nil {
		return fmt.Errorf("failed to list quotes: %w", err)
	}

	cmd.Printf("Source: %s\n", source.Name)
	cmd.Printf("  ID: %s\n", source.ID)
	cmd.Printf("  Group: %s\n", source.GroupID)
	if source.Description != "" {
		cmd.Printf("  Description: %s\n", source.Description)
	}
	cmd.Printf("  Allow markov: %s\n", yesNo(source.AllowMarkov))
	cmd.Printf("  Quotes: %d\n", len(quotes))

	if statsService != nil {
		if stats, err := statsService.SourceStats(cmd.Context(), source.ID); err == nil {
			cmd.Printf("  Quotes requested: %d\n", stats.QuotesRequested)
			cmd.Printf("  Sentences generated: %d\n", stats.QuotesGenerated)
		}
	}
	return nil
}

func runSourceUpdate(cmd *cobra.Command, args []string) error {
	if catalogueService == nil {
		return errCatalogueNotConfigured
	}

	source, err := catalogueService.GetSource(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get source: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("name") {
		source.Name, _ = flags.GetString("name") //nolint:errcheck // flag is registered
	}
	if flags.Changed("description") {
		source.Description, _ = flags.GetString("description") //nolint:errcheck // flag is registered
	}
	if flags.Changed("allow-markov") {
		source.AllowMarkov, _ = flags.GetBool("allow-markov") //nolint:errcheck // flag is registered
	}

	result, err := catalogueService.UpdateSource(cmd.Context(), *source)
	if err != nil {
		return fmt.Errorf("failed to update source: %w", err)
	}

	cmd.Printf("Updated source %s\n", source.ID)
	printResult(cmd, result)
	return nil
}

func runSourceDelete(cmd *cobra.Command, args []string) error {
	if catalogueService == nil {
		return errCatalogueNotConfigured
	}

	if err := catalogueService.DeleteSource(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete source: %w", err)
	}

	cmd.Printf("Deleted source %s\n", args[0])
	return nil
}
