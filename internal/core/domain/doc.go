// Package domain defines the core business entities for federated search.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Record: A raw owner-scoped row from one of the record stores
//   - QueryAnalysis: The structured reading of a free-text query
//   - SearchResult: The canonical cross-source result shape
//   - SearchResponse: The per-request output handed to presentation layers
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
