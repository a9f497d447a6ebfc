package services

import (
	"strings"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

// Scoring weights.
const (
	entityBoost = 0.2
	maxScore    = 1.0
)

// ConfidenceScore rates how well result matches analysis, within [0,1].
// Each keyword found in the title, content or name fields adds
// 1/len(keywords); each string entity found adds entityBoost.
func ConfidenceScore(result *domain.SearchResult, analysis domain.QueryAnalysis) float64 {
	haystack := scoreHaystack(result)

	score := 0.0
	if n := len(analysis.Keywords); n > 0 {
		per := 1.0 / float64(n)
		for _, kw := range analysis.Keywords {
			if strings.Contains(haystack, strings.ToLower(kw)) {
				score += per
			}
		}
	}

	for _, v := range analysis.Entities {
		s, ok := v.(string)
		if !ok || s == "" {
			continue
		}
		if strings.Contains(haystack, strings.ToLower(s)) {
			score += entityBoost
		}
	}

	return clampScore(score)
}

// ScoreAll sets ConfidenceScore on every result.
func ScoreAll(results []domain.SearchResult, analysis domain.QueryAnalysis) {
	for i := range results {
		results[i].ConfidenceScore = ConfidenceScore(&results[i], analysis)
	}
}

func scoreHaystack(result *domain.SearchResult) string {
	var b strings.Builder
	b.WriteString(result.Title)
	b.WriteByte(' ')
	b.WriteString(result.Content)
	if desc, ok := descriptorFor(result.Type); ok {
		for _, key := range desc.NameFields {
			if v := result.MetadataString(key); v != "" {
				b.WriteByte(' ')
				b.WriteString(v)
			}
		}
	}
	return strings.ToLower(b.String())
}

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > maxScore {
		return maxScore
	}
	return s
}
