package mcp

import (
	"github.com/custodia-labs/quotechain/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Generator produces sentences from text models.
	Generator driving.SentenceGenerator

	// Quotes returns random published quotes.
	Quotes driving.QuoteRetriever

	// Catalogue lists groups and sources for resources. Optional.
	Catalogue driving.CatalogueService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Generator == nil {
		return ErrMissingGenerator
	}
	if p.Quotes == nil {
		return ErrMissingRetriever
	}
	return nil
}
