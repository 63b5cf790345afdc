// Package mcp provides an MCP (Model Context Protocol) server adapter for quotechain.
// It lets AI assistants generate sentences from text models and pull random quotes.
package mcp

import "errors"

var (
	// ErrMissingGenerator is returned when the sentence generator is not provided.
	ErrMissingGenerator = errors.New("mcp: sentence generator is required")

	// ErrMissingRetriever is returned when the quote retriever is not provided.
	ErrMissingRetriever = errors.New("mcp: quote retriever is required")
)
