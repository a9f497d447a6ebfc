package tui

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("tui: search service is required")

// ErrMissingOwner is returned when no owner is given to search for.
var ErrMissingOwner = errors.New("tui: owner is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
