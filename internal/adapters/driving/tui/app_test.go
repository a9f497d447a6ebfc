package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

func newTestApp(t *testing.T, search *MockSearchService) *App {
	t.Helper()
	if search == nil {
		search = &MockSearchService{}
	}
	app, err := NewApp(&Ports{Search: search, OwnerID: "u1"})
	require.NoError(t, err)
	return app
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testResponse() *domain.SearchResponse {
	return &domain.SearchResponse{
		Query: "acme",
		Results: []domain.SearchResult{
			{ID: "inv-1", Type: domain.RecordTypeBillingRecord, Title: "Invoice ACM-001", ConfidenceScore: 1},
			{ID: "c-1", Type: domain.RecordTypeContact, Title: "Acme Corp", ConfidenceScore: 0.5},
		},
		TotalCount:   2,
		SearchTimeMs: 4,
		Suggestions:  []string{"acme invoices"},
	}
}

func TestNewApp_Success(t *testing.T) {
	app := newTestApp(t, nil)

	assert.Equal(t, messages.ViewSearch, app.CurrentView())
	assert.False(t, app.Ready())
	assert.Nil(t, app.Err())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{Search: &MockSearchService{}})

	assert.Nil(t, app)
	assert.ErrorIs(t, err, ErrMissingOwner)
}

func TestApp_WithContext(t *testing.T) {
	app := newTestApp(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	assert.Same(t, app, app.WithContext(ctx))
	assert.Equal(t, ctx, app.ctx)
}

func TestApp_Init(t *testing.T) {
	assert.NotNil(t, newTestApp(t, nil).Init())
}

func TestApp_Update_WindowSize(t *testing.T) {
	app := newTestApp(t, nil)

	model, cmd := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Same(t, app, model)
	assert.Nil(t, cmd)
	assert.True(t, app.Ready())
	assert.Equal(t, 120, app.width)
}

func TestApp_View_NotReady(t *testing.T) {
	assert.Equal(t, "Initialising...", newTestApp(t, nil).View())
}

func TestApp_SearchRoundTrip(t *testing.T) {
	var got domain.SearchRequest
	app := newTestApp(t, &MockSearchService{
		SearchFunc: func(_ context.Context, req domain.SearchRequest) (*domain.SearchResponse, error) {
			got = req
			return testResponse(), nil
		},
	})
	app.SetDimensions(120, 40)

	app.Update(runes("acme"))
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	requested := cmd()
	require.IsType(t, messages.SearchRequested{}, requested)

	_, cmd = app.Update(requested)
	require.NotNil(t, cmd)
	app.Update(cmd())

	assert.Equal(t, "acme", got.Query)
	assert.Equal(t, "u1", got.OwnerID)
	assert.Equal(t, domain.LanguageEnglish, got.Language)
	require.Len(t, app.Results(), 2)

	view := app.View()
	assert.Contains(t, view, "Invoice ACM-001")
	assert.Contains(t, view, "acme invoices")
	assert.Contains(t, view, "2 of 2 results in 4ms")
}

func TestApp_Update_SearchCompleted_WithError(t *testing.T) {
	app := newTestApp(t, nil)
	app.SetDimensions(120, 40)
	failure := errors.New("search failed: boom")

	app.Update(messages.SearchCompleted{Response: domain.DegradedResponse("acme", failure), Err: failure})

	assert.Equal(t, failure, app.Err())
	assert.Empty(t, app.Results())
	assert.Contains(t, app.View(), "boom")
}

func TestApp_Update_ErrorOccurred(t *testing.T) {
	app := newTestApp(t, nil)
	failure := errors.New("broken")

	app.Update(messages.ErrorOccurred{Err: failure})

	assert.Equal(t, failure, app.Err())
}

func TestApp_Update_CtrlC(t *testing.T) {
	app := newTestApp(t, nil)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_Update_QuitMessage(t *testing.T) {
	_, cmd := newTestApp(t, nil).Update(messages.Quit{})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_Update_QTypesWhileInputFocused(t *testing.T) {
	app := newTestApp(t, nil)

	app.Update(runes("q"))

	assert.Equal(t, "q", app.Query())
}

func TestApp_Update_QQuitsFromResults(t *testing.T) {
	app := newTestApp(t, nil)
	app.Update(messages.SearchCompleted{Response: testResponse()})

	_, cmd := app.Update(runes("q"))

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_HelpToggle(t *testing.T) {
	app := newTestApp(t, nil)
	app.SetDimensions(100, 40)
	app.Update(messages.SearchCompleted{Response: testResponse()})

	app.Update(runes("?"))
	assert.Equal(t, messages.ViewHelp, app.CurrentView())
	view := app.View()
	assert.Contains(t, view, "filter type")
	assert.Contains(t, view, "Searching as u1")

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewSearch, app.CurrentView())
}

func TestApp_Update_ViewChanged(t *testing.T) {
	app := newTestApp(t, nil)

	app.Update(messages.ViewChanged{View: messages.ViewHelp})

	assert.Equal(t, messages.ViewHelp, app.CurrentView())
}
