package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errCatalogueNotConfigured = errors.New("catalogue service not configured")

var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Manage groups of sources",
	Long: `A group collects related sources. Its text model combines the models
of every markov ready source in the group.`,
}

var groupCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a group",
	Args:  cobra.ExactArgs(1),
	RunE:  runGroupCreate,
}

var groupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List groups",
	Args:  cobra.NoArgs,
	RunE:  runGroupList,
}

var groupShowCmd = &cobra.Command{
	Use:   "show <group-id>",
	Short: "Show a group with its counts and usage",
	Args:  cobra.ExactArgs(1),
	RunE:  runGroupShow,
}

var groupDeleteCmd = &cobra.Command{
	Use:   "delete <group-id>",
	Short: "Delete a group with its sources and quotes",
	Args:  cobra.ExactArgs(1),
	RunE:  runGroupDelete,
}

func init() {
	groupCreateCmd.Flags().StringP("description", "d", "", "group description")

	groupCmd.AddCommand(groupCreateCmd)
	groupCmd.AddCommand(groupListCmd)
	groupCmd.AddCommand(groupShowCmd)
	groupCmd.AddCommand(groupDeleteCmd)
	rootCmd.AddCommand(groupCmd)
}

func runGroupCreate(cmd *cobra.Command, args []string) error {
	if catalogueService == nil {
		return errCatalogueNotConfigured
	}

	description, err := cmd.Flags().GetString("description")
	if err != nil {
		return err
	}

	group, err := catalogueService.CreateGroup(cmd.Context(), args[0], description)
	if err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}

	cmd.Printf("Created group %s (%s)\n", group.Name, group.ID)
	return nil
}

func runGroupList(cmd *cobra.Command, _ []string) error {
	if catalogueService == nil {
		return errCatalogueNotConfigured
	}

	groups, err := catalogueService.ListGroups(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list groups: %w", err)
	}

	if len(groups) == 0 {
		cmd.Println("No groups. Create one with 'quotechain group create <name>'.")
		return nil
	}

	for _, g := range groups {
		cmd.Printf("%s  %s\n", g.ID, g.Name)
	}
	return nil
}

func runGroupShow(cmd *cobra.Command, args []string) error {
	if catalogueService == nil {
		return errCatalogueNotConfigured
	}

	summary, err := catalogueService.GroupSummary(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get group: %w", err)
	}

	g := summary.Group
	cmd.Printf("Group: %s\n", g.Name)
	cmd.Printf("  ID: %s\n", g.ID)
	if g.Description != "" {
		cmd.Printf("  Description: %s\n", g.Description)
	}
	cmd.Printf("  Sources: %d (%d markov enabled)\n", summary.TotalSources, summary.MarkovSources)
	cmd.Printf("  Quotes: %d\n", summary.TotalQuotes)
	cmd.Printf("  Markov ready: %s\n", yesNo(summary.MarkovReady))

	if statsService != nil {
		if stats, err := statsService.GroupStats(cmd.Context(), g.ID); err == nil {
			cmd.Printf("  Quotes requested: %d\n", stats.QuotesRequested)
			cmd.Printf("  Sentences generated: %d\n", stats.QuotesGenerated)
		}
	}
	return nil
}

func runGroupDelete(cmd *cobra.Command, args []string) error {
	if catalogueService == nil {
		return errCatalogueNotConfigured
	}

	if err := catalogueService.DeleteGroup(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}

	cmd.Printf("Deleted group %s\n", args[0])
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
