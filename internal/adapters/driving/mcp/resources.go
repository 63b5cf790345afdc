package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const uriScheme = "quotechain://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "groups",
		Name:        "groups",
		Description: "All groups with source and quote counts",
		MIMEType:    "application/json",
	}, s.handleGroupsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "groups/{groupId}/sources",
		Name:        "group-sources",
		Description: "Sources of a specific group",
		MIMEType:    "application/json",
	}, s.handleSourcesResource)
}

// handleGroupsResource returns every group with its summary counts.
func (s *Server) handleGroupsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Catalogue == nil {
		return jsonResult(req.Params.URI, "[]"), nil
	}

	groups, err := s.ports.Catalogue.ListGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing groups: %w", err)
	}

	type groupInfo struct {
		ID            string `json:"id"`
		Name          string `json:"name"`
		TotalSources  int    `json:"total_sources"`
		MarkovSources int    `json:"markov_sources"`
		TotalQuotes   int    `json:"total_quotes"`
		MarkovReady   bool   `json:"markov_ready"`
	}

	infos := make([]groupInfo, len(groups))
	for i := range groups {
		summary, err := s.ports.Catalogue.GroupSummary(ctx, groups[i].ID)
		if err != nil {
			return nil, fmt.Errorf("summarising group %s: %w", groups[i].ID, err)
		}
		infos[i] = groupInfo{
			ID:            groups[i].ID,
			Name:          groups[i].Name,
			TotalSources:  summary.TotalSources,
			MarkovSources: summary.MarkovSources,
			TotalQuotes:   summary.TotalQuotes,
			MarkovReady:   summary.MarkovReady,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling groups: %w", err)
	}
	return jsonResult(req.Params.URI, string(data)), nil
}

// handleSourcesResource returns the sources of a group.
func (s *Server) handleSourcesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Catalogue == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract groupId from URI: quotechain://groups/{groupId}/sources
	groupID := extractGroupID(req.Params.URI)
	if groupID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	sources, err := s.ports.Catalogue.ListSources(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}

	type sourceInfo struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description,omitempty"`
		AllowMarkov bool   `json:"allow_markov"`
	}

	infos := make([]sourceInfo, len(sources))
	for i := range sources {
		infos[i] = sourceInfo{
			ID:          sources[i].ID,
			Name:        sources[i].Name,
			Description: sources[i].Description,
			AllowMarkov: sources[i].AllowMarkov,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling sources: %w", err)
	}
	return jsonResult(req.Params.URI, string(data)), nil
}

func jsonResult(uri, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     text,
		}},
	}
}

// extractGroupID returns the id in quotechain://groups/{groupId}/sources,
// or "" if uri does not have that shape.
func extractGroupID(uri string) string {
	rest, ok := strings.CutPrefix(uri, uriScheme+"groups/")
	if !ok {
		return ""
	}
	id, ok := strings.CutSuffix(rest, "/sources")
	if !ok || strings.Contains(id, "/") {
		return ""
	}
	return id
}
