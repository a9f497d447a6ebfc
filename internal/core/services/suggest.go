package services

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

// minSuggestionLength is the rune count a token must exceed to be suggested.
const minSuggestionLength = 3

// Suggest proposes follow-up terms taken from the content of the top ranked
// results. Terms already in the query are skipped. The language is accepted
// for future stop-word handling and does not change the output.
func Suggest(query string, ranked []domain.SearchResult, _ domain.Language) []string {
	suggestions := []string{}
	lowerQuery := strings.ToLower(query)

	top := ranked[:min(len(ranked), domain.MaxSuggestions)]
	for _, r := range top {
		for _, token := range strings.Fields(r.Content) {
			token = strings.ToLower(token)
			if utf8.RuneCountInString(token) <= minSuggestionLength {
				continue
			}
			if strings.Contains(lowerQuery, token) || slices.Contains(suggestions, token) {
				continue
			}
			suggestions = append(suggestions, token)
			if len(suggestions) == domain.MaxSuggestions {
				return suggestions
			}
		}
	}
	return suggestions
}
