package terminal

import (
	"bufio"
	"context"
	"io"
	"sync"

	"github.com/rileyhilliard/shellkit/pkg/shell"
)

const maxLineSize = 1024 * 1024

// RunLines feeds the shell's local session one line at a time from in,
// waiting for each to finish before reading the next. It stops at end of
// input, when exit runs outside a mode, or when ctx is cancelled. Failed
// lines do not stop the loop; their errors are already rendered.
func RunLines(ctx context.Context, sh *shell.Shell, in io.Reader) error {
	s := sh.Local()

	exited := make(chan struct{})
	var once sync.Once
	remove := sh.On(shell.EventExit, func(ev shell.Event) {
		if ev.Session == s {
			once.Do(func() { close(exited) })
		}
	})
	defer remove()

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := scanner.Text()
		if h := s.History(); h != nil {
			h.Push(line)
		}
		s.Run(ctx, line)

		if ctx.Err() != nil {
			return nil
		}
		select {
		case <-exited:
			return nil
		default:
		}
	}
	return scanner.Err()
}
