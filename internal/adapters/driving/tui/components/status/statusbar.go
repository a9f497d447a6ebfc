// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/tui/styles"
)

// State is what the bar reports on its left side.
type State string

const (
	StateReady     State = "ready"
	StateSearching State = "searching"
	StateError     State = "error"
	StateHelp      State = "help"
	StateResults   State = "results"
)

// hintSep separates keybinding hints.
const hintSep = " | "

// Bar is a passive one-line summary of the last search plus the keys that
// apply right now. Views push state into it with the Set methods.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	state   State
	message string
	query   string
	shown   int
	total   int
	tookMs  int64
	width   int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &Bar{styles: s, keymap: km, state: StateReady, width: 80}
}

// View renders the bar at its width. Hints that do not fit beside the
// summary are dropped from the end; an error message is cut to leave room
// for the first hint.
func (s *Bar) View() string {
	inner := s.width - s.styles.StatusBar.GetHorizontalFrameSize()
	hints := s.hints()
	first := 0
	if len(hints) > 0 {
		first = lipgloss.Width(hints[0])
	}

	left := s.renderLeft(inner - first - 1)
	right := s.fitHints(hints, inner-lipgloss.Width(left)-1)
	padding := max(inner-lipgloss.Width(left)-lipgloss.Width(right), 1)

	return s.styles.StatusBar.Width(s.width).Render(left + strings.Repeat(" ", padding) + right)
}

// renderLeft renders the state summary within room columns.
func (s *Bar) renderLeft(room int) string {
	switch s.state {
	case StateSearching:
		if s.query == "" {
			return s.styles.Muted.Render("Searching...")
		}
		return s.styles.Muted.Render(clip(fmt.Sprintf("Searching for %q...", s.query), room))
	case StateError:
		text := "Error"
		if s.message != "" {
			text = "Error: " + s.message
		}
		return s.styles.Error.Render(clip(text, room))
	case StateHelp:
		return s.styles.Normal.Render("Help")
	case StateResults:
		if s.shown == 0 {
			return s.styles.Muted.Render("No results")
		}
		return s.styles.Normal.Render(s.summary())
	default:
		return s.styles.Muted.Render("Ready")
	}
}

// summary describes the last page, e.g. "10 of 42 results in 35ms".
func (s *Bar) summary() string {
	noun := "results"
	if s.total == 1 {
		noun = "result"
	}
	return fmt.Sprintf("%d of %d %s in %dms", s.shown, s.total, noun, s.tookMs)
}

func (s *Bar) hints() []string {
	bindings := s.keymap.ShortHelp()
	if s.state == StateResults && s.shown > 0 {
		bindings = s.keymap.ResultsHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		hints = append(hints, hintText(b))
	}
	return hints
}

func hintText(b key.Binding) string {
	h := b.Help()
	return h.Key + ": " + h.Desc
}

// fitHints joins as many leading hints as fit in room columns. The first
// hint is always kept.
func (s *Bar) fitHints(hints []string, room int) string {
	if len(hints) == 0 {
		return ""
	}
	out := hints[0]
	for _, h := range hints[1:] {
		next := out + hintSep + h
		if lipgloss.Width(next) > room {
			break
		}
		out = next
	}
	return s.styles.Muted.Render(out)
}

// clip shortens text to n columns, marking the cut with an ellipsis.
func clip(text string, n int) string {
	if n <= 0 || lipgloss.Width(text) <= n {
		return text
	}
	runes := []rune(text)
	if n <= 3 || len(runes) <= 3 {
		return string(runes[:min(n, len(runes))])
	}
	for lipgloss.Width(string(runes)) > n-3 {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetSearching switches to the searching state for query.
func (s *Bar) SetSearching(query string) {
	s.state = StateSearching
	s.query = query
	s.message = ""
}

// SetMessage sets the text shown with the error state.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetResults records the page size, the total match count and the search
// time of the last response.
func (s *Bar) SetResults(shown, total int, tookMs int64) {
	s.shown = shown
	s.total = max(total, shown)
	s.tookMs = tookMs
}

// ResultCount returns how many results the last page held.
func (s *Bar) ResultCount() int {
	return s.shown
}

// TotalCount returns the total match count of the last response.
func (s *Bar) TotalCount() int {
	return s.total
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to default state.
func (s *Bar) Clear() {
	*s = Bar{styles: s.styles, keymap: s.keymap, state: StateReady, width: s.width}
}
