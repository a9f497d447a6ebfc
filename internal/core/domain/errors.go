package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	// Search requests failing validation are rejected with this error
	// before any source adapter runs.
	ErrInvalidInput = errors.New("invalid input")

	// ErrOwnerConflict indicates a save would hand a record ID held by one
	// owner to another.
	ErrOwnerConflict = errors.New("record belongs to another owner")

	// ErrUnsupportedType indicates an unknown record type or provider.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrSearchFailed indicates an unexpected failure inside the search pipeline.
	// The caller still receives a well-formed, empty response alongside it.
	ErrSearchFailed = errors.New("search failed")

	// ErrStoreUnavailable indicates the record store could not be reached.
	ErrStoreUnavailable = errors.New("record store unavailable")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Query analysis degrades to the deterministic keyword fallback.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrAnalysisFailed indicates the LLM produced no usable query analysis.
	// It never leaves the analyzer; it only names the fallback reason.
	ErrAnalysisFailed = errors.New("query analysis failed")

	// ErrRateLimited indicates the outbound LLM rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
