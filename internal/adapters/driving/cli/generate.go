package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a sentence from a text model",
	Long: `Generate a new sentence from the text model of a group or source.

Nothing is printed to stdout if the model is not markov ready or no
sentence fits within --chars after --tries attempts.

Examples:
  quotechain generate --group 3f2c...
  quotechain generate --source 9a1b... --chars 140 --tries 50`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

var randomCmd = &cobra.Command{
	Use:   "random",
	Short: "Print a random published quote",
	Long: `Print a random published quote of a group or source. Quotes that have
been used least often are preferred.`,
	Args: cobra.NoArgs,
	RunE: runRandom,
}

func init() {
	addOwnerFlags(generateCmd)
	generateCmd.Flags().IntP("chars", "c", 0, "maximum sentence length (0 = configured default)")
	generateCmd.Flags().IntP("tries", "t", 0, "sampling attempts (0 = configured default)")

	addOwnerFlags(randomCmd)

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(randomCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	if sentenceGenerator == nil {
		return errors.New("generator not configured")
	}

	owner, err := ownerFromFlags(cmd)
	if err != nil {
		return err
	}
	chars, err := cmd.Flags().GetInt("chars")
	if err != nil {
		return err
	}
	tries, err := cmd.Flags().GetInt("tries")
	if err != nil {
		return err
	}
	if chars < 0 || tries < 0 {
		return errors.New("--chars and --tries must not be negative")
	}

	sentence, ok, err := sentenceGenerator.Generate(cmd.Context(), owner, chars, tries)
	if err != nil {
		return fmt.Errorf("failed to generate sentence: %w", err)
	}
	if !ok {
		cmd.PrintErrf("No sentence generated for %s.\n", owner)
		return nil
	}

	cmd.Println(sentence)
	return nil
}

func runRandom(cmd *cobra.Command, _ []string) error {
	if quoteRetriever == nil {
		return errors.New("quote retriever not configured")
	}

	owner, err := ownerFromFlags(cmd)
	if err != nil {
		return err
	}

	quote, ok, err := quoteRetriever.RandomQuote(cmd.Context(), owner)
	if err != nil {
		return fmt.Errorf("failed to get random quote: %w", err)
	}
	if !ok {
		cmd.PrintErrf("No published quotes for %s.\n", owner)
		return nil
	}

	cmd.Printf("%q\n", quote.Text)
	if quote.Citation != "" {
		cmd.Printf("  -- %s\n", quote.Citation)
	}
	if quote.CitationURL != "" {
		cmd.Printf("  %s\n", quote.CitationURL)
	}
	return nil
}
