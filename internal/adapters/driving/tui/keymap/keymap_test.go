package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap_Bindings(t *testing.T) {
	km := DefaultKeyMap()
	require.NotNil(t, km)

	tests := []struct {
		name    string
		binding key.Binding
		keys    []string
	}{
		{"quit", km.Quit, []string{"q", "ctrl+c"}},
		{"help", km.Help, []string{"?"}},
		{"back", km.Back, []string{"esc"}},
		{"search", km.Search, []string{"enter"}},
		{"focus", km.Focus, []string{"tab"}},
		{"up", km.Up, []string{"up", "k"}},
		{"down", km.Down, []string{"down", "j"}},
		{"details", km.Details, []string{"enter"}},
		{"new search", km.NewSearch, []string{"n"}},
		{"filter", km.Filter, []string{"f"}},
		{"language", km.Language, []string{"l"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.keys, tt.binding.Keys())
			assert.NotEmpty(t, tt.binding.Help().Desc)
		})
	}
}

func TestKeyMap_HelpGroups(t *testing.T) {
	km := DefaultKeyMap()

	assert.Len(t, km.ShortHelp(), 3)
	assert.Contains(t, km.ResultsHelp(), km.Filter)

	total := 0
	for _, group := range km.FullHelp() {
		total += len(group)
	}
	assert.Equal(t, 11, total)
}

func TestKeyMap_MatchesKeyMessages(t *testing.T) {
	km := DefaultKeyMap()

	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")}, km.Up))
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyDown}, km.Down))
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyCtrlC}, km.Quit))
	assert.False(t, key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}, km.Up))
}
