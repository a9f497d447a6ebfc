// Package input provides text input components for the TUI.
package input

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

const (
	maxQueryLen = 256

	// labelWidth is the room taken by the label, border and scope hint.
	labelWidth    = 30
	minInputWidth = 20
)

// SearchInput is the query line. Its label shows the language and type
// filter the next search will use, and it completes related queries from
// the last response with the right arrow.
type SearchInput struct {
	styles    *styles.Styles
	textinput textinput.Model
	width     int
	language  domain.Language
	filter    domain.RecordType
}

// NewSearchInput creates a focused search input.
func NewSearchInput(s *styles.Styles) *SearchInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "invoices from acme last month..."
	ti.CharLimit = maxQueryLen
	ti.ShowSuggestions = true
	ti.KeyMap.AcceptSuggestion = key.NewBinding(key.WithKeys("right"))
	ti.PlaceholderStyle = s.Muted
	ti.CompletionStyle = s.Muted
	ti.Focus()

	in := &SearchInput{textinput: ti, styles: s, language: domain.LanguageEnglish}
	in.SetWidth(labelWidth + 50)
	return in
}

// Init starts the cursor blinking.
func (s *SearchInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update passes msg to the underlying text input.
func (s *SearchInput) Update(msg tea.Msg) (*SearchInput, tea.Cmd) {
	var cmd tea.Cmd
	s.textinput, cmd = s.textinput.Update(msg)
	return s, cmd
}

// View renders the label, the bordered input and the scope hint.
func (s *SearchInput) View() string {
	scope := "all"
	if s.filter != "" {
		scope = s.filter.Description()
	}
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center,
		s.styles.Title.Render("Search "),
		s.styles.InputField.Render(s.textinput.View()),
		s.styles.Muted.Render(fmt.Sprintf(" [%s | %s]", s.language, scope)),
	)
}

// Value returns the current query text.
func (s *SearchInput) Value() string { return s.textinput.Value() }

// SetValue replaces the query text.
func (s *SearchInput) SetValue(value string) { s.textinput.SetValue(value) }

// Reset clears the query text.
func (s *SearchInput) Reset() { s.textinput.Reset() }

// Focus gives the input keyboard focus.
func (s *SearchInput) Focus() tea.Cmd { return s.textinput.Focus() }

// Blur removes keyboard focus.
func (s *SearchInput) Blur() { s.textinput.Blur() }

// Focused reports whether the input has keyboard focus.
func (s *SearchInput) Focused() bool { return s.textinput.Focused() }

// SetWidth sizes the text field to what remains beside the label.
func (s *SearchInput) SetWidth(width int) {
	s.width = width
	s.textinput.Width = max(width-labelWidth, minInputWidth)
}

// Width returns the total width given to the input.
func (s *SearchInput) Width() int { return s.width }

// SetLanguage sets the language shown next to the input.
func (s *SearchInput) SetLanguage(lang domain.Language) { s.language = lang }

// SetFilter sets the record type shown next to the input. Empty means all.
func (s *SearchInput) SetFilter(t domain.RecordType) { s.filter = t }

// SetSuggestions offers queries to complete while typing.
func (s *SearchInput) SetSuggestions(queries []string) {
	s.textinput.SetSuggestions(queries)
}
