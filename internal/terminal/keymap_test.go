package terminal

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/shellkit/pkg/shell"
	"github.com/stretchr/testify/assert"
)

func TestToKeypress(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want shell.Keypress
	}{
		{name: "tab", msg: tea.KeyMsg{Type: tea.KeyTab}, want: shell.Keypress{Name: "tab"}},
		{name: "enter", msg: tea.KeyMsg{Type: tea.KeyEnter}, want: shell.Keypress{Name: "enter"}},
		{name: "rune", msg: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}}, want: shell.Keypress{Name: "a", Rune: 'a'}},
		{name: "space", msg: tea.KeyMsg{Type: tea.KeySpace}, want: shell.Keypress{Name: " ", Rune: ' '}},
		{name: "ctrl", msg: tea.KeyMsg{Type: tea.KeyCtrlC}, want: shell.Keypress{Name: "c", Ctrl: true}},
		{name: "shift", msg: tea.KeyMsg{Type: tea.KeyShiftTab}, want: shell.Keypress{Name: "tab", Shift: true}},
		{
			name: "alt rune",
			msg:  tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}, Alt: true},
			want: shell.Keypress{Name: "x", Rune: 'x', Meta: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, toKeypress(tt.msg))
		})
	}
}

func TestPromptFor(t *testing.T) {
	assert.Equal(t, "$ ", promptFor("$ "))
	assert.Equal(t, "shellkit$ ", promptFor("shellkit$"))
	assert.Equal(t, "$ calc> ", promptFor("$ calc>"))
}
