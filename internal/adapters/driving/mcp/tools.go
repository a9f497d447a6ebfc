package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

// SearchInput is the input schema for the federated_search tool.
type SearchInput struct {
	Query         string   `json:"query" jsonschema:"the free-text search query"`
	OwnerID       string   `json:"ownerId,omitempty" jsonschema:"the user whose records are searched"`
	Language      string   `json:"language,omitempty" jsonschema:"query language, en or fr (default en)"`
	Limit         int      `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
	Offset        int      `json:"offset,omitempty" jsonschema:"number of results each source skips"`
	Types         []string `json:"types,omitempty" jsonschema:"restrict the search to these record types"`
	CreatedAfter  string   `json:"createdAfter,omitempty" jsonschema:"RFC 3339 lower bound on record creation time"`
	CreatedBefore string   `json:"createdBefore,omitempty" jsonschema:"RFC 3339 upper bound on record creation time"`
}

// SearchOutput is the output schema for the federated_search tool.
type SearchOutput struct {
	Query        string               `json:"query"`
	Results      []SearchResultOutput `json:"results"`
	TotalCount   int                  `json:"totalCount"`
	SearchTimeMs int64                `json:"searchTimeMs"`
	Suggestions  []string             `json:"suggestions,omitempty"`
}

// SearchResultOutput represents a single ranked result.
type SearchResultOutput struct {
	ID              string         `json:"id"`
	Type            string         `json:"type"`
	Title           string         `json:"title"`
	Content         string         `json:"content,omitempty"`
	URL             string         `json:"url,omitempty"`
	ConfidenceScore float64        `json:"confidenceScore"`
	Highlights      []string       `json:"highlights,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
	CreatedAt       string         `json:"createdAt"`
}

// HealthInput is the (empty) input schema for the health tool.
type HealthInput struct{}

// HealthOutput is the output schema for the health tool.
type HealthOutput struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "federated_search",
		Description: "Search documents, messages, billing records, transcripts, work items and contacts in one call",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "health",
		Description: "Report whether the search service is up",
	}, s.handleHealth)
}

// handleSearch handles the federated_search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	req, err := s.toRequest(input)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	resp, err := s.ports.Search.Search(ctx, req)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Query:        resp.Query,
		Results:      make([]SearchResultOutput, len(resp.Results)),
		TotalCount:   resp.TotalCount,
		SearchTimeMs: resp.SearchTimeMs,
		Suggestions:  resp.Suggestions,
	}
	for i := range resp.Results {
		r := &resp.Results[i]
		output.Results[i] = SearchResultOutput{
			ID:              r.ID,
			Type:            r.Type.String(),
			Title:           r.Title,
			Content:         r.Content,
			URL:             r.URL,
			ConfidenceScore: r.ConfidenceScore,
			Highlights:      r.Highlights,
			Metadata:        r.Metadata,
			CreatedAt:       r.CreatedAt.UTC().Format(time.RFC3339),
		}
	}

	return nil, output, nil
}

// handleHealth handles the health tool invocation.
func (s *Server) handleHealth(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ HealthInput,
) (*mcp.CallToolResult, HealthOutput, error) {
	status := s.ports.Search.Health(ctx)
	return nil, HealthOutput{
		Status:    status.Status,
		Timestamp: status.Timestamp.UTC().Format(time.RFC3339),
	}, nil
}

// toRequest converts tool input into a search request.
func (s *Server) toRequest(input SearchInput) (domain.SearchRequest, error) {
	owner := strings.TrimSpace(input.OwnerID)
	if owner == "" {
		owner = s.ports.DefaultOwner
	}
	if owner == "" {
		return domain.SearchRequest{}, ErrMissingOwner
	}

	req := domain.SearchRequest{
		Query:    input.Query,
		OwnerID:  owner,
		Language: domain.Language(strings.ToLower(input.Language)),
		Limit:    input.Limit,
		Offset:   input.Offset,
	}

	for _, raw := range input.Types {
		t, err := domain.ParseRecordType(raw)
		if err != nil {
			return domain.SearchRequest{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
		req.Filters.Types = append(req.Filters.Types, t)
	}

	var err error
	if req.Filters.CreatedAfter, err = parseTime("createdAfter", input.CreatedAfter); err != nil {
		return domain.SearchRequest{}, err
	}
	if req.Filters.CreatedBefore, err = parseTime("createdBefore", input.CreatedBefore); err != nil {
		return domain.SearchRequest{}, err
	}
	return req, nil
}

func parseTime(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, field, err)
	}
	return &t, nil
}
