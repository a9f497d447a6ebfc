// Package search provides the main search view for the TUI.
package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driving"
)

// View represents the search view with input, results list, and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.SearchInput
	list      *list.ResultList
	statusbar *status.Bar

	searchService driving.SearchService
	ownerID       string
	ctx           context.Context

	language    domain.Language
	filter      domain.RecordType
	suggestions []string

	width       int
	height      int
	ready       bool
	err         error
	focusInput  bool // true = typing a query, false = navigating results
	showDetails bool
}

// NewView creates a new search view that searches on behalf of ownerID.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	searchService driving.SearchService,
	ownerID string,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:        s,
		keymap:        km,
		input:         input.NewSearchInput(s),
		list:          list.NewResultList(s),
		statusbar:     status.NewBar(s, km),
		searchService: searchService,
		ownerID:       ownerID,
		ctx:           context.Background(),
		language:      domain.LanguageEnglish,
		width:         80,
		height:        24,
		focusInput:    true,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchRequested:
		v.statusbar.SetSearching(msg.Query)
		return v, v.performSearch(msg)

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg routes a key to the detail box, the input or the result
// list, whichever is showing.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	km := v.keymap
	switch {
	case v.showDetails:
		if key.Matches(msg, km.Back) || key.Matches(msg, km.Details) {
			v.showDetails = false
		}
		return v, nil
	case key.Matches(msg, km.Focus):
		v.toggleFocus()
		return v, nil
	case v.focusInput:
		return v.handleInputKey(msg)
	default:
		v.handleResultsKey(msg)
		return v, nil
	}
}

func (v *View) handleInputKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Search):
		query := strings.TrimSpace(v.input.Value())
		if query == "" {
			return v, nil
		}
		req := messages.SearchRequested{Query: query, Filters: v.filters()}
		return v, func() tea.Msg { return req }
	case key.Matches(msg, v.keymap.Back):
		switch {
		case v.input.Value() != "":
			v.input.Reset()
		case len(v.list.Results()) > 0:
			v.toggleFocus()
		}
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleResultsKey(msg tea.KeyMsg) {
	km := v.keymap
	switch {
	case key.Matches(msg, km.Up):
		v.list.MoveUp()
	case key.Matches(msg, km.Down):
		v.list.MoveDown()
	case key.Matches(msg, km.Details):
		v.showDetails = v.list.SelectedResult() != nil
	case key.Matches(msg, km.Back):
		v.toggleFocus()
	case key.Matches(msg, km.NewSearch):
		v.Reset()
	case key.Matches(msg, km.Filter):
		v.cycleFilter()
	case key.Matches(msg, km.Language):
		v.toggleLanguage()
	}
}

func (v *View) toggleFocus() {
	v.focusInput = !v.focusInput
	if v.focusInput {
		v.input.Focus()
		v.statusbar.SetState(status.StateReady)
		return
	}
	v.input.Blur()
	v.statusbar.SetState(status.StateResults)
}

// cycleFilter advances the type filter through every record type and back
// to all types.
func (v *View) cycleFilter() {
	types := domain.AllRecordTypes()
	next := domain.RecordType("")
	if v.filter == "" {
		next = types[0]
	} else {
		for i, t := range types {
			if t == v.filter && i+1 < len(types) {
				next = types[i+1]
			}
		}
	}
	v.filter = next
	v.input.SetFilter(next)
}

func (v *View) toggleLanguage() {
	if v.language == domain.LanguageEnglish {
		v.language = domain.LanguageFrench
	} else {
		v.language = domain.LanguageEnglish
	}
	v.input.SetLanguage(v.language)
}

func (v *View) filters() domain.SearchFilters {
	if v.filter == "" {
		return domain.SearchFilters{}
	}
	return domain.SearchFilters{Types: []domain.RecordType{v.filter}}
}

// performSearch runs the request against the search service.
func (v *View) performSearch(msg messages.SearchRequested) tea.Cmd {
	svc := v.searchService
	ctx := v.ctx
	req := domain.SearchRequest{
		Query:    msg.Query,
		OwnerID:  v.ownerID,
		Language: v.language,
		Filters:  msg.Filters,
	}
	return func() tea.Msg {
		if svc == nil {
			return messages.ErrorOccurred{Err: ErrNoSearchService}
		}
		resp, err := svc.Search(ctx, req)
		return messages.SearchCompleted{Response: resp, Err: err}
	}
}

// handleSearchCompleted processes a search response.
func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	resp := msg.Response
	if resp == nil {
		resp = &domain.SearchResponse{}
	}

	v.list.SetResults(resp.Results)
	v.suggestions = resp.Suggestions
	v.input.SetSuggestions(resp.Suggestions)
	v.statusbar.SetResults(len(resp.Results), resp.TotalCount, resp.SearchTimeMs)

	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return
	}

	v.err = nil
	v.statusbar.SetMessage("")
	v.statusbar.SetState(status.StateResults)
	v.focusInput = false
	v.input.Blur()
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 12)
	sections = append(sections, v.styles.Title.Render("Sercha Federated Search"), "", v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	if v.showDetails {
		sections = append(sections, v.renderDetails())
	} else {
		sections = append(sections, v.list.View())
	}

	if len(v.suggestions) > 0 {
		sections = append(sections, "", v.styles.Muted.Render("Related: "+strings.Join(v.suggestions, " · ")))
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderDetails renders every field of the selected result in a bordered box.
func (v *View) renderDetails() string {
	r := v.list.SelectedResult()
	if r == nil {
		return ""
	}

	lines := []string{
		v.styles.TypeBadge(r.Type) + " " + v.styles.Subtitle.Render(r.Title),
		v.styles.Muted.Render(fmt.Sprintf("%s · %.0f%% match · %s", r.ID, r.ConfidenceScore*100, r.CreatedAt.Format("2006-01-02"))),
	}
	if r.URL != "" {
		lines = append(lines, r.URL)
	}

	keys := make([]string, 0, len(r.Metadata))
	for k := range r.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %v", k, r.Metadata[k]))
	}

	for _, h := range r.Highlights {
		lines = append(lines, v.styles.Normal.Render("“"+h+"”"))
	}

	return v.styles.Border.Padding(0, 1).Render(strings.Join(lines, "\n"))
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-10) // header, input, suggestions, status
	v.statusbar.SetWidth(width)
}

// Width returns the current width.
func (v *View) Width() int {
	return v.width
}

// Height returns the current height.
func (v *View) Height() int {
	return v.height
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Query returns the current search query.
func (v *View) Query() string {
	return v.input.Value()
}

// SetQuery sets the search query.
func (v *View) SetQuery(query string) {
	v.input.SetValue(query)
}

// Results returns the current search results.
func (v *View) Results() []domain.SearchResult {
	return v.list.Results()
}

// Suggestions returns the related queries of the last response.
func (v *View) Suggestions() []string {
	return v.suggestions
}

// SelectedResult returns the currently selected result.
func (v *View) SelectedResult() *domain.SearchResult {
	return v.list.SelectedResult()
}

// Language returns the language sent with each search.
func (v *View) Language() domain.Language {
	return v.language
}

// Filter returns the active type filter. Empty means all types.
func (v *View) Filter() domain.RecordType {
	return v.filter
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// DetailsVisible reports whether the result detail box is shown.
func (v *View) DetailsVisible() bool {
	return v.showDetails
}

// Reset returns the view to an empty query with input focus.
func (v *View) Reset() {
	v.focusInput = true
	v.showDetails = false
	v.input.Focus()
	v.input.Reset()
	v.list.SetResults(nil)
	v.suggestions = nil
	v.err = nil
	v.statusbar.Clear()
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}
