// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

// SearchRequested is a command to perform a search.
type SearchRequested struct {
	Query   string
	Filters domain.SearchFilters
}

// SearchCompleted carries the search response back to the model.
// Response is the degraded response when Err is set.
type SearchCompleted struct {
	Response *domain.SearchResponse
	Err      error
}

// ViewChanged is sent when switching between the search and help screens.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which screen is currently active.
type ViewType int

const (
	// ViewSearch is the search input and results screen.
	ViewSearch ViewType = iota
	// ViewHelp is the keybindings screen.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewSearch:
		return "search"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
