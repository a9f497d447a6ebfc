package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for resources.
	uriScheme = "sercha://"

	recordTypesURI = uriScheme + "record-types"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         recordTypesURI,
		Name:        "record-types",
		Description: "Searchable record types and the fields each one matches on",
		MIMEType:    "application/json",
	}, s.handleRecordTypesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: recordTypesURI + "/{type}",
		Name:        "record-type",
		Description: "Fields of a single searchable record type",
		MIMEType:    "application/json",
	}, s.handleRecordTypeResource)
}

// handleRecordTypesResource returns every searchable record type.
func (s *Server) handleRecordTypesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	return jsonResource(req.Params.URI, s.ports.Search.RecordTypes())
}

// handleRecordTypeResource returns one record type.
func (s *Server) handleRecordTypeResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	name := extractRecordType(req.Params.URI)
	if name == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	rt, err := domain.ParseRecordType(name)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	for _, info := range s.ports.Search.RecordTypes() {
		if info.Type == rt {
			return jsonResource(req.Params.URI, info)
		}
	}
	return nil, mcp.ResourceNotFoundError(req.Params.URI)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractRecordType extracts the type from a URI like sercha://record-types/{type}.
func extractRecordType(uri string) string {
	const prefix = recordTypesURI + "/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	return strings.TrimPrefix(uri, prefix)
}
