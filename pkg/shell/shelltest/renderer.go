// Package shelltest provides fakes for testing hosts built on package shell.
package shelltest

import (
	"strings"
	"sync"

	"github.com/rileyhilliard/shellkit/pkg/shell"
)

// Renderer captures everything a session writes. It is safe for
// concurrent use.
type Renderer struct {
	mu     sync.Mutex
	lines  []string
	input  string
	cursor int
	keys   chan shell.Keypress
}

var _ shell.Renderer = (*Renderer)(nil)

// NewRenderer returns an empty capture renderer.
func NewRenderer() *Renderer {
	return &Renderer{keys: make(chan shell.Keypress, 16)}
}

func (r *Renderer) CursorPosition() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cursor
}

func (r *Renderer) Render(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.input = text
	r.cursor = len(text)
}

func (r *Renderer) Write(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, text)
}

func (r *Renderer) Keypresses() <-chan shell.Keypress { return r.keys }

// Press queues a key event on the Keypresses channel.
func (r *Renderer) Press(k shell.Keypress) { r.keys <- k }

// Lines returns a copy of every written line.
func (r *Renderer) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

// Output returns the written lines joined by newlines.
func (r *Renderer) Output() string {
	return strings.Join(r.Lines(), "\n")
}

// Input returns the last rendered input line.
func (r *Renderer) Input() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.input
}

// Contains reports whether any written line contains substr.
func (r *Renderer) Contains(substr string) bool {
	for _, l := range r.Lines() {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

// Reset drops captured output.
func (r *Renderer) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = nil
	r.input = ""
	r.cursor = 0
}
