package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

func TestHighlight_SingleMatchWindow(t *testing.T) {
	content := strings.Repeat("x", 200) + " invoice " + strings.Repeat("y", 200)

	got := Highlight(content, []string{"invoice"}, domain.DefaultContextLength)

	require.Len(t, got, 1)
	idx := strings.Index(content, "invoice")
	want := strings.TrimSpace(content[idx-75 : idx+len("invoice")+75])
	assert.Equal(t, want, got[0])
	assert.LessOrEqual(t, len(got[0]), domain.DefaultContextLength+len("invoice"))
}

func TestHighlight_ClampsAtBounds(t *testing.T) {
	start := "Invoice " + strings.Repeat("a", 30)
	got := Highlight(start, []string{"invoice"}, domain.DefaultContextLength)
	require.Len(t, got, 1)
	assert.Equal(t, start, got[0])

	end := strings.Repeat("b", 30) + " total due"
	got = Highlight(end, []string{"due"}, domain.DefaultContextLength)
	require.Len(t, got, 1)
	assert.Equal(t, end, got[0])
}

func TestHighlight_CaseInsensitive(t *testing.T) {
	content := "Payment received from ACME Corporation today"

	got := Highlight(content, []string{"acme"}, domain.DefaultContextLength)

	require.Len(t, got, 1)
	assert.Contains(t, got[0], "ACME")
}

func TestHighlight_DropsShortAndMissing(t *testing.T) {
	assert.Empty(t, Highlight("tiny acme", []string{"acme"}, domain.DefaultContextLength))
	assert.Empty(t, Highlight("a long enough sentence without it", []string{"globex"}, domain.DefaultContextLength))
	assert.NotNil(t, Highlight("", []string{"x"}, domain.DefaultContextLength))
}

func TestHighlight_DedupesAndCaps(t *testing.T) {
	content := "alpha beta gamma delta epsilon zeta eta theta"

	got := Highlight(content, []string{"alpha", "beta", "gamma", "delta"}, domain.DefaultContextLength)

	// Every keyword yields the whole sentence, so only one snippet survives.
	assert.Equal(t, []string{content}, got)

	long := strings.Repeat("w ", 200)
	long = "one " + long + " two " + long + " three " + long + " four " + long
	got = Highlight(long, []string{"one", "two", "three", "four"}, 40)
	assert.Len(t, got, domain.MaxHighlights)
	for _, h := range got {
		assert.Greater(t, utf8.RuneCountInString(h), 20)
	}
}

func TestHighlight_Multibyte(t *testing.T) {
	content := strings.Repeat("é", 100) + " facture " + strings.Repeat("à", 100)

	got := Highlight(content, []string{"FACTURE"}, 20)

	require.Len(t, got, 1)
	assert.True(t, utf8.ValidString(got[0]))
	assert.Contains(t, got[0], "facture")
}
