// Package mcp provides an MCP (Model Context Protocol) server adapter.
// It lets AI assistants run federated searches and inspect the record
// types that can be searched.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")

// ErrMissingOwner is returned when a tool call has no owner and no default is configured.
var ErrMissingOwner = errors.New("mcp: ownerId is required")
