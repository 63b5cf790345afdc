package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/quotechain/internal/core/domain"
)

// pubDateLayouts are tried in order when parsing --pub-date.
var pubDateLayouts = []string{time.RFC3339, "2006-01-02"}

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Manage quotes",
}

var quoteAddCmd = &cobra.Command{
	Use:   "add <source-id> <text>",
	Short: "Add a quote to a source",
	Long: `Add a quote to a source. If the source is markov ready the quote is
merged into the source and group models straight away.

A quote with a --pub-date in the future is hidden from generation and
retrieval until that date passes.`,
	Args: cobra.ExactArgs(2),
	RunE: runQuoteAdd,
}

var quoteListCmd = &cobra.Command{
	Use:   "list <source-id>",
	Short: "List the quotes of a source",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuoteList,
}

var quoteUpdateCmd = &cobra.Command{
	Use:   "update <quote-id>",
	Short: "Update a quote",
	Long: `Update a quote. Text models pick up the change on the next
'quotechain markov sweep'.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuoteUpdate,
}

var quoteDeleteCmd = &cobra.Command{
	Use:   "delete <quote-id>",
	Short: "Delete a quote",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuoteDelete,
}

func init() {
	for _, c := range []*cobra.Command{quoteAddCmd, quoteUpdateCmd} {
		c.Flags().String("citation", "", "where the quote was said or written")
		c.Flags().String("url", "", "citation URL")
		c.Flags().String("pub-date", "", "publish date (RFC 3339 or YYYY-MM-DD)")
	}
	quoteUpdateCmd.Flags().String("text", "", "new quote text")

	quoteCmd.AddCommand(quoteAddCmd)
	quoteCmd.AddCommand(quoteListCmd)
	quoteCmd.AddCommand(quoteUpdateCmd)
	quoteCmd.AddCommand(quoteDeleteCmd)
	rootCmd.AddCommand(quoteCmd)
}

func runQuoteAdd(cmd *cobra.Command, args []string) error {
	if catalogueService == nil {
		return errCatalogueNotConfigured
	}

	quote := domain.Quote{SourceID: args[0], Text: args[1]}
	if err := applyQuoteFlags(cmd.Flags(), &quote); err != nil {
		return err
	}

	saved, result, err := catalogueService.AddQuote(cmd.Context(), quote)
	if saved != nil {
		cmd.Printf("Added quote %s\n", saved.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to add quote: %w", err)
	}

	printResult(cmd, result)
	return nil
}

func runQuoteList(cmd *cobra.Command, args []string) error {
	if catalogueService == nil {
		return errCatalogueNotConfigured
	}

	quotes, err := catalogueService.ListQuotes(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to list quotes: %w", err)
	}

	if len(quotes) == 0 {
		cmd.Println("No quotes.")
		return nil
	}

	now := time.Now()
	for _, q := range quotes {
		suffix := ""
		if !q.IsPublished(now) {
			suffix = fmt.Sprintf("  (publishes %s)", q.PubDate.Format("2006-01-02"))
		}
		cmd.Printf("%s  %q%s\n", q.ID, q.Text, suffix)
	}
	return nil
}

func runQuoteUpdate(cmd *cobra.Command, args []string) error {
	if catalogueService == nil {
		return errCatalogueNotConfigured
	}

	quote, err := catalogueService.GetQuote(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get quote: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("text") {
		quote.Text, _ = flags.GetString("text") //nolint:errcheck // flag is registered
	}
	if err := applyQuoteFlags(flags, quote); err != nil {
		return err
	}

	if _, err := catalogueService.UpdateQuote(cmd.Context(), *quote); err != nil {
		return fmt.Errorf("failed to update quote: %w", err)
	}

	cmd.Printf("Updated quote %s\n", quote.ID)
	return nil
}

func runQuoteDelete(cmd *cobra.Command, args []string) error {
	if catalogueService == nil {
		return errCatalogueNotConfigured
	}

	if err := catalogueService.DeleteQuote(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete quote: %w", err)
	}

	cmd.Printf("Deleted quote %s\n", args[0])
	return nil
}

// applyQuoteFlags copies the citation flags that were set onto quote.
func applyQuoteFlags(flags *pflag.FlagSet, quote *domain.Quote) error {
	if flags.Changed("citation") {
		quote.Citation, _ = flags.GetString("citation") //nolint:errcheck // flag is registered
	}
	if flags.Changed("url") {
		quote.CitationURL, _ = flags.GetString("url") //nolint:errcheck // flag is registered
	}
	if flags.Changed("pub-date") {
		raw, _ := flags.GetString("pub-date") //nolint:errcheck // flag is registered
		if raw == "" {
			quote.PubDate = nil
			return nil
		}
		pubDate, err := parsePubDate(raw)
		if err != nil {
			return err
		}
		quote.PubDate = &pubDate
	}
	return nil
}

func parsePubDate(raw string) (time.Time, error) {
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid publish date %q", domain.ErrInvalidInput, raw)
}
