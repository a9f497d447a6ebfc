package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/tui/views/search"
	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

var _ tea.Model = (*App)(nil)

// App is the root bubbletea model. It owns the global bindings and the help
// screen, and hands everything else to the search view.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap
	help   help.Model

	searchView  *search.View
	currentView messages.ViewType
	err         error

	width, height int
	ready         bool
}

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	h := help.New()
	h.ShowAll = true
	h.Styles.FullKey = s.Subtitle
	h.Styles.FullDesc = s.Normal
	h.Styles.FullSeparator = s.Muted

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		help:        h,
		searchView:  search.NewView(s, km, ports.Search, ports.OwnerID),
		currentView: messages.ViewSearch,
	}, nil
}

// WithContext sets the context searches run under.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.searchView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("sercha - Federated Search"),
		a.searchView.Init(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil
	case tea.KeyMsg:
		if cmd, handled := a.globalKey(msg); handled {
			return a, cmd
		}
	case messages.ViewChanged:
		a.currentView = msg.View
		return a, nil
	case messages.Quit:
		return a, tea.Quit
	}

	var cmd tea.Cmd
	a.searchView, cmd = a.searchView.Update(msg)
	if errMsg, ok := msg.(messages.ErrorOccurred); ok {
		a.err = errMsg.Err
	} else {
		a.err = a.searchView.Err()
	}
	return a, cmd
}

// globalKey applies the bindings that work on every screen. Printable keys
// belong to the input while it has focus, so q and ? only act from the
// result list or the help screen.
func (a *App) globalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if msg.Type == tea.KeyCtrlC {
		return tea.Quit, true
	}

	if a.currentView == messages.ViewHelp {
		switch {
		case key.Matches(msg, a.keymap.Quit):
			return tea.Quit, true
		case key.Matches(msg, a.keymap.Help), key.Matches(msg, a.keymap.Back):
			a.currentView = messages.ViewSearch
		}
		return nil, true
	}

	if a.searchView.InputFocused() {
		return nil, false
	}
	switch {
	case key.Matches(msg, a.keymap.Quit):
		return tea.Quit, true
	case key.Matches(msg, a.keymap.Help):
		a.currentView = messages.ViewHelp
		return nil, true
	}
	return nil, false
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}
	if a.currentView == messages.ViewHelp {
		return a.viewHelp()
	}
	return a.searchView.View()
}

func (a *App) viewHelp() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		a.styles.Title.Render("Help"),
		"",
		a.help.View(a.keymap),
		"",
		"Searching as "+a.ports.OwnerID,
		"",
		a.styles.Muted.Render("[?/esc] back to search"),
	)
}

// Query returns the current search query.
func (a *App) Query() string {
	return a.searchView.Query()
}

// Results returns the current search results.
func (a *App) Results() []domain.SearchResult {
	return a.searchView.Results()
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its first size.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width, a.height = width, height
	a.ready = true
	a.help.Width = width
	a.searchView.SetDimensions(width, height)
}
