package domain

import (
	"slices"
	"time"
)

// Search defaults and caps.
const (
	// DefaultLimit is the page size used when a request omits one.
	DefaultLimit = 10

	// DefaultMaxLimit caps the page size a caller may ask for.
	DefaultMaxLimit = 100

	// DefaultContextLength is the highlight window width in characters.
	DefaultContextLength = 150

	// MaxHighlights is the most snippets kept per result.
	MaxHighlights = 3

	// MaxSuggestions is the most follow-up terms returned per response.
	MaxSuggestions = 5

	// FallbackIntent is the intent assigned when query analysis falls back.
	FallbackIntent = "general_search"

	// NeutralSentiment is the sentiment assigned when query analysis falls back.
	NeutralSentiment = "neutral"
)

// Language is the language hint of a search request.
type Language string

// Supported languages.
const (
	LanguageEnglish Language = "en"
	LanguageFrench  Language = "fr"
)

// IsValid returns true if the language is supported.
func (l Language) IsValid() bool {
	return l == LanguageEnglish || l == LanguageFrench
}

// String returns the string representation.
func (l Language) String() string {
	return string(l)
}

// SearchFilters narrows a search.
// The zero value matches every record type and creation time.
type SearchFilters struct {
	// Types restricts the search to these record types. Empty means all.
	Types []RecordType `json:"types,omitempty"`

	// CreatedAfter excludes records created before this instant.
	CreatedAfter *time.Time `json:"createdAfter,omitempty"`

	// CreatedBefore excludes records created after this instant.
	CreatedBefore *time.Time `json:"createdBefore,omitempty"`
}

// Includes reports whether records of type t pass the type filter.
func (f SearchFilters) Includes(t RecordType) bool {
	if len(f.Types) == 0 {
		return true
	}
	return slices.Contains(f.Types, t)
}

// SearchRequest is a single federated search call.
type SearchRequest struct {
	// Query is the free-text query (required).
	Query string `json:"query"`

	// OwnerID scopes every adapter to this user's records (required).
	OwnerID string `json:"ownerId"`

	// Filters optionally narrows the search.
	Filters SearchFilters `json:"filters,omitempty"`

	// Limit is the page size. Zero means DefaultLimit.
	Limit int `json:"limit,omitempty"`

	// Offset is applied inside every source adapter.
	Offset int `json:"offset,omitempty"`

	// Language is the query language. Empty means English.
	Language Language `json:"language,omitempty"`
}

// QueryAnalysis is the structured reading of a query, produced once per request.
type QueryAnalysis struct {
	// Intent is an informational label such as "find_invoice".
	Intent string `json:"intent"`

	// Keywords are lower-cased match tokens. Never empty.
	Keywords []string `json:"keywords"`

	// Entities maps an entity kind to its extracted value.
	Entities map[string]any `json:"entities"`

	// TimeRange is an optional free-form time hint.
	TimeRange string `json:"timeRange,omitempty"`

	// Sentiment is an optional sentiment hint.
	Sentiment string `json:"sentiment,omitempty"`

	// Language is the language the query was analysed in.
	Language Language `json:"language,omitempty"`
}

// AnalysisOutcome is the result of analysing a query.
// Either the language service produced Analysis, or FellBack is set and
// Analysis holds the deterministic keyword fallback with Reason explaining why.
type AnalysisOutcome struct {
	Analysis QueryAnalysis
	FellBack bool
	Reason   string
}

// SearchResult is the canonical cross-source result shape.
type SearchResult struct {
	// ID is unique within Type, not across types.
	ID string `json:"id"`

	// Type is the record kind that produced this result.
	Type RecordType `json:"type"`

	// Title is a short display string.
	Title string `json:"title"`

	// Content is the searchable body text. May be empty, never absent.
	Content string `json:"content"`

	// URL is an optional deep link.
	URL string `json:"url,omitempty"`

	// Metadata holds type-specific values.
	Metadata map[string]any `json:"metadata"`

	// ConfidenceScore is set by the scorer, always within [0,1].
	ConfidenceScore float64 `json:"confidenceScore"`

	// Highlights is set by the highlighter, at most MaxHighlights entries.
	Highlights []string `json:"highlights"`

	// CreatedAt is used for recency weighting and display.
	CreatedAt time.Time `json:"createdAt"`
}

// MetadataString returns a string metadata value, or the empty string.
func (r *SearchResult) MetadataString(key string) string {
	if r.Metadata == nil {
		return ""
	}
	s, _ := r.Metadata[key].(string)
	return s
}

// SearchResponse is the per-request output.
type SearchResponse struct {
	Query        string         `json:"query"`
	Results      []SearchResult `json:"results"`
	TotalCount   int            `json:"totalCount"`
	SearchTimeMs int64          `json:"searchTimeMs"`
	Suggestions  []string       `json:"suggestions,omitempty"`
	Error        string         `json:"error,omitempty"`
}

// DegradedResponse returns the well-formed empty response used when a search fails.
func DegradedResponse(query string, err error) *SearchResponse {
	resp := &SearchResponse{
		Query:   query,
		Results: []SearchResult{},
	}
	if err != nil {
		resp.Error = err.Error()
	}
	return resp
}

// HealthStatus is returned by the liveness check.
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
