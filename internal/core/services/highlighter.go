package services

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

// minHighlightLength is the shortest snippet worth showing.
const minHighlightLength = 20

// Highlight extracts up to domain.MaxHighlights snippets of content around the
// first occurrence of each keyword, in keyword order. Offsets are in runes.
// The returned slice is never nil.
func Highlight(content string, keywords []string, contextLength int) []string {
	highlights := []string{}
	if content == "" {
		return highlights
	}

	text := []rune(content)
	lower := foldRunes(text)
	half := contextLength / 2

	for _, kw := range keywords {
		if len(highlights) >= domain.MaxHighlights {
			break
		}
		needle := foldRunes([]rune(kw))
		idx := indexRunes(lower, needle)
		if idx < 0 {
			continue
		}

		start := max(idx-half, 0)
		end := min(idx+len(needle)+half, len(text))
		snippet := strings.TrimSpace(string(text[start:end]))

		if utf8.RuneCountInString(snippet) > minHighlightLength && !slices.Contains(highlights, snippet) {
			highlights = append(highlights, snippet)
		}
	}
	return highlights
}

// HighlightAll sets Highlights on every result from its content.
func HighlightAll(results []domain.SearchResult, keywords []string) {
	for i := range results {
		results[i].Highlights = Highlight(results[i].Content, keywords, domain.DefaultContextLength)
	}
}

func foldRunes(text []rune) []rune {
	out := make([]rune, len(text))
	for i, r := range text {
		out[i] = unicode.ToLower(r)
	}
	return out
}

func indexRunes(haystack, needle []rune) int {
	if len(needle) == 0 {
		return 0
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if slices.Equal(haystack[i:i+len(needle)], needle) {
			return i
		}
	}
	return -1
}
