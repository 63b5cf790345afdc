package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/quotechain/internal/core/domain"
)

// GenerateInput is the input schema for the generate_sentence tool.
type GenerateInput struct {
	Kind      string `json:"kind" jsonschema:"either source or group"`
	ID        string `json:"id" jsonschema:"the source or group id"`
	CharLimit int `json:"char_limit,omitempty" jsonschema:"maximum sentence length in characters (default from settings)"`
	Tries     int `json:"tries,omitempty" jsonschema:"number of sampling attempts (default from settings)"`
}

// GenerateOutput is the output schema for the generate_sentence tool.
type GenerateOutput struct {
	Sentence string `json:"sentence,omitempty"`
	OK       bool   `json:"ok"`
}

// RandomQuoteInput is the input schema for the random_quote tool.
type RandomQuoteInput struct {
	Kind string `json:"kind" jsonschema:"either source or group"`
	ID   string `json:"id" jsonschema:"the source or group id"`
}

// RandomQuoteOutput is the output schema for the random_quote tool.
type RandomQuoteOutput struct {
	Found bool         `json:"found"`
	Quote *QuoteOutput `json:"quote,omitempty"`
}

// QuoteOutput represents a single quote.
type QuoteOutput struct {
	ID          string `json:"id"`
	SourceID    string `json:"source_id"`
	Text        string `json:"text"`
	Citation    string `json:"citation,omitempty"`
	CitationURL string `json:"citation_url,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "generate_sentence",
		Description: "Generate a new sentence in the voice of a source or group",
	}, s.handleGenerate)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "random_quote",
		Description: "Return a random published quote of a source or group, preferring the least used",
	}, s.handleRandomQuote)
}

// handleGenerate handles the generate_sentence tool invocation.
func (s *Server) handleGenerate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GenerateInput,
) (*mcp.CallToolResult, GenerateOutput, error) {
	owner, err := parseOwner(input.Kind, input.ID)
	if err != nil {
		return nil, GenerateOutput{}, err
	}

	sentence, ok, err := s.ports.Generator.Generate(ctx, owner, input.CharLimit, input.Tries)
	if err != nil {
		return nil, GenerateOutput{}, err
	}
	return nil, GenerateOutput{Sentence: sentence, OK: ok}, nil
}

// handleRandomQuote handles the random_quote tool invocation.
func (s *Server) handleRandomQuote(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RandomQuoteInput,
) (*mcp.CallToolResult, RandomQuoteOutput, error) {
	owner, err := parseOwner(input.Kind, input.ID)
	if err != nil {
		return nil, RandomQuoteOutput{}, err
	}

	quote, ok, err := s.ports.Quotes.RandomQuote(ctx, owner)
	if err != nil {
		return nil, RandomQuoteOutput{}, err
	}
	if !ok {
		return nil, RandomQuoteOutput{}, nil
	}
	return nil, RandomQuoteOutput{
		Found: true,
		Quote: &QuoteOutput{
			ID:          quote.ID,
			SourceID:    quote.SourceID,
			Text:        quote.Text,
			Citation:    quote.Citation,
			CitationURL: quote.CitationURL,
		},
	}, nil
}

// parseOwner builds a validated owner from tool arguments.
func parseOwner(kind, id string) (domain.Owner, error) {
	owner := domain.Owner{Kind: domain.OwnerKind(kind), ID: id}
	if err := owner.Validate(); err != nil {
		return domain.Owner{}, fmt.Errorf("invalid owner: %w", err)
	}
	return owner, nil
}
