// Package tui provides the interactive catalogue browser. It is a
// driving adapter and reaches the core only through driving ports.
package tui

import (
	"github.com/custodia-labs/quotechain/internal/core/ports/driving"
)

// Ports aggregates the driving ports the browser uses.
type Ports struct {
	// Catalogue browses and edits groups, sources and quotes.
	Catalogue driving.CatalogueService

	// Generator samples sentences from text models.
	Generator driving.SentenceGenerator

	// Retriever picks random published quotes. Optional.
	Retriever driving.QuoteRetriever

	// Settings edits the configuration. Optional.
	Settings driving.SettingsService
}

// NewPorts creates a Ports aggregate with the required services.
func NewPorts(catalogue driving.CatalogueService, generator driving.SentenceGenerator) *Ports {
	return &Ports{Catalogue: catalogue, Generator: generator}
}

// Validate ensures the required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Catalogue == nil {
		return ErrMissingCatalogue
	}
	if p.Generator == nil {
		return ErrMissingGenerator
	}
	return nil
}
