package terminal

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/shellkit/pkg/shell"
)

// printMsg asks the prompt model to print a line above the input.
type printMsg string

// renderMsg replaces the prompt's input line.
type renderMsg string

// ProgramRenderer implements shell.Renderer on top of a running
// tea.Program. Until a program is attached, and after it is detached,
// output lines go to the fallback writer.
type ProgramRenderer struct {
	mu       sync.Mutex
	program  *tea.Program
	fallback io.Writer
	cursor   atomic.Int64
}

var _ shell.Renderer = (*ProgramRenderer)(nil)

// NewProgramRenderer creates a renderer that prints to fallback while no
// program is attached.
func NewProgramRenderer(fallback io.Writer) *ProgramRenderer {
	return &ProgramRenderer{fallback: fallback}
}

// Attach routes output through p.
func (r *ProgramRenderer) Attach(p *tea.Program) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.program = p
}

// Detach returns output to the fallback writer.
func (r *ProgramRenderer) Detach() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.program = nil
}

func (r *ProgramRenderer) CursorPosition() int {
	return int(r.cursor.Load())
}

func (r *ProgramRenderer) setCursor(pos int) {
	r.cursor.Store(int64(pos))
}

func (r *ProgramRenderer) Render(text string) {
	if p := r.attached(); p != nil {
		p.Send(renderMsg(text))
	}
}

func (r *ProgramRenderer) Write(text string) {
	if p := r.attached(); p != nil {
		p.Send(printMsg(text))
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.fallback, text)
}

// Keypresses returns nil. The prompt model forwards keys to the session
// itself.
func (r *ProgramRenderer) Keypresses() <-chan shell.Keypress { return nil }

func (r *ProgramRenderer) attached() *tea.Program {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.program
}
