package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func TestKeymapScopes(t *testing.T) {
	km := NewKeymap(
		Bind("toggle", "toggle", []string{scopeForm}, "ctrl+t"),
		Bind("quit", "quit", []string{anyScope}, "q"),
		Bind("help", "help", nil, "?"),
	)
	require.True(t, km.Matches(tea.KeyMsg{Type: tea.KeyCtrlT}, "toggle", scopeForm))
	require.False(t, km.Matches(tea.KeyMsg{Type: tea.KeyCtrlT}, "toggle", scopeTabs))
	require.True(t, km.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}, "quit", scopeTabs))
	require.True(t, km.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}}, "help", scopePrompt))
	require.False(t, km.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}, "toggle", scopeForm))

	help := km.Help(scopeForm)
	require.Len(t, help, 3)
	require.Equal(t, "ctrl+t", help[0].Help().Key)
}

func TestDefaultKeymapKeepsLettersFreeInForms(t *testing.T) {
	for _, b := range DefaultKeymap().Help(scopeForm) {
		for _, k := range b.Keys() {
			require.NotEqual(t, 1, len([]rune(k)), "single rune %q bound in form scope", k)
		}
	}
}
