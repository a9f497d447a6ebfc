package mcp

import (
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driving"
)

// Ports aggregates the driving ports required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides federated search and the record type catalogue.
	Search driving.SearchService

	// DefaultOwner is used when a tool call omits ownerId.
	DefaultOwner string
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
