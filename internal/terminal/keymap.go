package terminal

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/shellkit/pkg/shell"
)

// Key bindings for the interactive prompt
const (
	KeyComplete    = "tab"
	KeySubmit      = "enter"
	KeyHistoryPrev = "up"
	KeyHistoryNext = "down"
	KeyInterrupt   = "ctrl+c"
	KeyEOF         = "ctrl+d"
	KeyClearLine   = "ctrl+u"
)

// toKeypress converts a bubbletea key event into the session's key type.
// Modifier prefixes are stripped from Name and reported as flags.
func toKeypress(msg tea.KeyMsg) shell.Keypress {
	name := msg.String()
	k := shell.Keypress{Meta: msg.Alt}

	name = strings.TrimPrefix(name, "alt+")
	if rest, ok := strings.CutPrefix(name, "ctrl+"); ok {
		k.Ctrl = true
		name = rest
	}
	if rest, ok := strings.CutPrefix(name, "shift+"); ok {
		k.Shift = true
		name = rest
	}
	k.Name = name

	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
		k.Rune = msg.Runes[0]
	} else if msg.Type == tea.KeySpace {
		k.Rune = ' '
	}
	return k
}
