// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

const (
	// linesPerResult is the height of one rendered result.
	linesPerResult = 2

	// titleReserve is the room kept beside a title for the cursor, badge
	// and score.
	titleReserve = 24
	indent       = "    "
)

// ResultList shows ranked results two lines each and keeps the selection
// on screen. Navigation is driven by the owning view.
type ResultList struct {
	styles   *styles.Styles
	results  []domain.SearchResult
	selected int
	width    int
	height   int
}

// NewResultList creates a new result list component.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &ResultList{styles: s, width: 80, height: 10}
}

// View renders the window of results that contains the selection.
func (r *ResultList) View() string {
	if len(r.results) == 0 {
		return r.styles.Muted.Render("No results")
	}

	start, end := r.window()
	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		rows = append(rows, r.row(&r.results[i], i == r.selected))
	}
	return strings.Join(rows, "\n")
}

// window returns the half-open range of visible indexes.
func (r *ResultList) window() (start, end int) {
	visible := max((r.height-1)/linesPerResult, 1)
	start = max(r.selected-visible+1, 0)
	return start, min(start+visible, len(r.results))
}

func (r *ResultList) row(result *domain.SearchResult, selected bool) string {
	title := result.Title
	if title == "" {
		title = "(untitled)"
	}
	title = truncate(title, max(r.width-titleReserve, 10))

	cursor, titleStyle := "  ", r.styles.Normal
	if selected {
		cursor, titleStyle = "> ", r.styles.Selected
	}
	head := cursor + r.styles.TypeBadge(result.Type) + " " + titleStyle.Render(title) +
		"  " + r.styles.Score.Render(fmt.Sprintf("%3.0f%%", result.ConfidenceScore*100))

	return head + "\n" + r.styles.Muted.Render(indent+truncate(preview(result), max(r.width-len(indent)-2, 20)))
}

// preview is the first highlight, or the content when nothing matched a
// highlightable field, collapsed to one line.
func preview(result *domain.SearchResult) string {
	text := result.Content
	if len(result.Highlights) > 0 {
		text = result.Highlights[0]
	}
	return strings.Join(strings.Fields(text), " ")
}

// truncate shortens s to n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	runes := []rune(s)
	switch {
	case len(runes) <= n:
		return s
	case n <= 3:
		return string(runes[:n])
	default:
		return string(runes[:n-3]) + "..."
	}
}

// SetResults replaces the results and selects the first one.
func (r *ResultList) SetResults(results []domain.SearchResult) {
	r.results = results
	r.selected = 0
}

// Results returns the current results.
func (r *ResultList) Results() []domain.SearchResult {
	return r.results
}

// Selected returns the index of the selected result.
func (r *ResultList) Selected() int {
	return r.selected
}

// SetSelected selects index when it is in range.
func (r *ResultList) SetSelected(index int) {
	if index >= 0 && index < len(r.results) {
		r.selected = index
	}
}

// SelectedResult returns the selected result, or nil when the list is empty.
func (r *ResultList) SelectedResult() *domain.SearchResult {
	if r.selected < 0 || r.selected >= len(r.results) {
		return nil
	}
	return &r.results[r.selected]
}

// MoveUp moves the selection up one result.
func (r *ResultList) MoveUp() {
	r.selected = max(r.selected-1, 0)
}

// MoveDown moves the selection down one result.
func (r *ResultList) MoveDown() {
	r.selected = max(min(r.selected+1, len(r.results)-1), 0)
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Len returns the number of results.
func (r *ResultList) Len() int {
	return len(r.results)
}
