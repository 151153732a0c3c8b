package shell

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/rileyhilliard/shellkit/internal/logger"
)

// Logger is the logging interface accepted by Shell and Session.
type Logger = logger.Logger

// Keypress is one key event from the terminal.
type Keypress struct {
	Name  string // "tab", "enter", "up", "a", ...
	Rune  rune
	Ctrl  bool
	Meta  bool
	Shift bool
}

// Renderer is the terminal surface a session draws on.
type Renderer interface {
	// CursorPosition returns the cursor offset within the current input line.
	CursorPosition() int
	// Render replaces the current input line.
	Render(text string)
	// Write prints a line of output above the prompt.
	Write(text string)
	// Keypresses streams key events. A renderer without key input may return nil.
	Keypresses() <-chan Keypress
}

// History is the per-session command history.
type History interface {
	Push(line string)
	Previous() string
	Next() string
	// EnterScope stashes the current history so a mode starts blank.
	EnterScope()
	// ExitScope restores the history stashed by EnterScope.
	ExitScope()
}

// QuestionKind selects how a Prompter asks.
type QuestionKind int

const (
	AskInput QuestionKind = iota
	AskConfirm
	AskSelect
)

// Question is asked of the user from inside a running command.
type Question struct {
	Kind    QuestionKind
	Message string
	Default string
	Choices []string
}

// Answer holds a Prompter's reply. Confirmed is only meaningful for AskConfirm.
type Answer struct {
	Value     string
	Confirmed bool
}

// Prompter asks the user questions on behalf of Instance.Prompt.
type Prompter interface {
	Ask(ctx context.Context, q Question) (Answer, error)
}

// writerRenderer adapts an io.Writer for hosts with no interactive terminal.
type writerRenderer struct {
	mu sync.Mutex
	w  io.Writer
}

// WriterRenderer returns a Renderer that prints output lines to w and has no
// key input or cursor.
func WriterRenderer(w io.Writer) Renderer {
	return &writerRenderer{w: w}
}

func (r *writerRenderer) CursorPosition() int         { return 0 }
func (r *writerRenderer) Render(string)               {}
func (r *writerRenderer) Keypresses() <-chan Keypress { return nil }

func (r *writerRenderer) Write(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.w, text)
}
