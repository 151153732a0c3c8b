// Package terminal connects a shell.Session to a real terminal: an
// interactive bubbletea prompt with tab completion and history, a plain
// line reader for pipes and scripts, and a huh-backed prompter for
// questions asked by running commands.
package terminal

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/shellkit/internal/ui"
	"github.com/rileyhilliard/shellkit/pkg/shell"
	"golang.org/x/term"
)

// resultMsg reports that a submitted line finished.
type resultMsg struct {
	line string
	res  shell.Result
}

// completionMsg carries the answer to a tab press for the input it was
// computed from.
type completionMsg struct {
	input string
	comp  shell.Completion
}

// exitMsg quits the prompt.
type exitMsg struct{}

// Model is the bubbletea model of the interactive prompt.
type Model struct {
	ctx      context.Context
	session  *shell.Session
	renderer *ProgramRenderer
	input    textinput.Model
	width    int
	quitting bool
}

// NewModel creates a prompt for session. renderer may be nil when the
// session draws elsewhere.
func NewModel(ctx context.Context, session *shell.Session, renderer *ProgramRenderer) Model {
	ti := textinput.New()
	ti.PromptStyle = ui.PromptStyle()
	ti.Focus()

	m := Model{
		ctx:      ctx,
		session:  session,
		renderer: renderer,
		input:    ti,
	}
	m.refreshPrompt()
	return m
}

// Init starts the cursor blinking.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key input, engine output and completion results.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case printMsg:
		return m, tea.Println(string(msg))

	case renderMsg:
		m.setLine(string(msg))
		return m, nil

	case completionMsg:
		return m.applyCompletion(msg)

	case resultMsg:
		// A line may have entered or left a mode.
		m.refreshPrompt()
		return m, nil

	case exitMsg:
		m.quitting = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the prompt line.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.input.View()
}

// Value returns the current input line.
func (m Model) Value() string {
	return m.input.Value()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.session.Keypress(toKeypress(msg))

	switch msg.String() {
	case KeyInterrupt:
		if m.session.Cancel() {
			return m, nil
		}
		if m.input.Value() != "" {
			m.setLine("")
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit

	case KeyEOF:
		if m.input.Value() == "" {
			m.quitting = true
			return m, tea.Quit
		}

	case KeyClearLine:
		m.setLine("")
		return m, nil

	case KeyComplete:
		return m, m.completeCmd()

	case KeySubmit:
		return m.submit()

	case KeyHistoryPrev:
		if h := m.session.History(); h != nil {
			if line := h.Previous(); line != "" {
				m.setLine(line)
			}
		}
		return m, nil

	case KeyHistoryNext:
		if h := m.session.History(); h != nil {
			m.setLine(h.Next())
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.syncCursor()
	return m, cmd
}

// submit echoes the line above the prompt and queues it on the session.
func (m Model) submit() (tea.Model, tea.Cmd) {
	line := m.input.Value()
	echo := tea.Println(m.input.Prompt + line)
	m.setLine("")

	if strings.TrimSpace(line) == "" {
		return m, echo
	}
	if h := m.session.History(); h != nil {
		h.Push(line)
	}
	return m, tea.Sequence(echo, m.execCmd(line))
}

func (m Model) execCmd(line string) tea.Cmd {
	ctx, s := m.ctx, m.session
	return func() tea.Msg {
		return resultMsg{line: line, res: s.Run(ctx, line)}
	}
}

func (m Model) completeCmd() tea.Cmd {
	ctx, s := m.ctx, m.session
	value, pos := m.input.Value(), m.input.Position()
	return func() tea.Msg {
		return completionMsg{input: value, comp: s.Complete(ctx, value, pos)}
	}
}

// applyCompletion ignores answers for input that has changed since the
// tab press.
func (m Model) applyCompletion(msg completionMsg) (tea.Model, tea.Cmd) {
	if msg.input != m.input.Value() || msg.comp.Empty() || msg.comp.Hold {
		return m, nil
	}
	if len(msg.comp.Candidates) > 0 {
		return m, tea.Println(ui.Columns(msg.comp.Candidates, m.width))
	}
	m.input.SetValue(msg.comp.Line)
	m.input.SetCursor(msg.comp.Cursor)
	m.syncCursor()
	return m, nil
}

func (m *Model) setLine(line string) {
	m.input.SetValue(line)
	m.input.CursorEnd()
	m.syncCursor()
}

func (m *Model) syncCursor() {
	if m.renderer != nil {
		m.renderer.setCursor(m.input.Position())
	}
}

func (m *Model) refreshPrompt() {
	m.input.Prompt = promptFor(m.session.Delimiter())
}

// promptFor makes sure the delimiter is followed by a space.
func promptFor(delimiter string) string {
	if strings.HasSuffix(delimiter, " ") {
		return delimiter
	}
	return delimiter + " "
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// RunPrompt runs the interactive prompt for the shell's local session until
// the user quits, exit is run outside a mode, or ctx is cancelled. The
// shell must draw on r. prompter may be nil.
func RunPrompt(ctx context.Context, sh *shell.Shell, r *ProgramRenderer, prompter *FormPrompter) error {
	s := sh.Local()
	p := tea.NewProgram(NewModel(ctx, s, r), tea.WithContext(ctx))

	r.Attach(p)
	defer r.Detach()
	if prompter != nil {
		prompter.Suspend = p.ReleaseTerminal
		prompter.Resume = p.RestoreTerminal
	}

	remove := sh.On(shell.EventExit, func(ev shell.Event) {
		if ev.Session == s {
			go p.Send(exitMsg{})
		}
	})
	defer remove()

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
