// Package tui provides an interactive terminal user interface for federated search.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"strings"

	"github.com/custodia-labs/sercha-federated/internal/core/ports/driving"
)

// Ports aggregates the driving ports and identity the TUI needs.
type Ports struct {
	// Search provides federated search.
	Search driving.SearchService

	// OwnerID scopes every search to one owner's records.
	OwnerID string
}

// NewPorts creates a new Ports aggregate.
func NewPorts(search driving.SearchService, ownerID string) *Ports {
	return &Ports{
		Search:  search,
		OwnerID: ownerID,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if strings.TrimSpace(p.OwnerID) == "" {
		return ErrMissingOwner
	}
	return nil
}
