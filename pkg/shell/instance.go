package shell

import (
	"context"
	"fmt"
	"strings"

	"github.com/rileyhilliard/shellkit/internal/errors"
)

// Instance is one pipe stage of a running command line. It is the handle
// an action uses to produce output, ask questions, or reach its session.
type Instance struct {
	cmd        *Command
	args       Args
	item       *item
	session    *Session
	downstream *Instance
}

// Command returns the command this stage runs.
func (i *Instance) Command() *Command { return i.cmd }

// Session returns the owning session.
func (i *Instance) Session() *Session { return i.session }

// Downstream returns the next pipe stage, or nil for the last stage.
func (i *Instance) Downstream() *Instance { return i.downstream }

// Input returns the raw command line this stage belongs to.
func (i *Instance) Input() string { return i.item.raw }

// Log emits output. On the last stage it is written to the session's
// renderer. Otherwise the values become the next stage's Args.Stdin and that
// stage runs; the item completes only after every such run finishes.
func (i *Instance) Log(values ...any) {
	if i.session == nil {
		invariant("instance has no session")
	}
	text := make([]string, len(values))
	for n, v := range values {
		text[n] = fmt.Sprint(v)
	}

	if i.downstream == nil {
		i.session.write(strings.Join(text, " "))
		return
	}

	s := i.session
	if !s.register(i.item) {
		s.logger.Debug("discarding piped output from '%s': item already settled", i.cmd.name)
		return
	}

	next := i.downstream
	args := next.args.withStdin(text)
	if next.cmd.Validate != nil {
		if err := next.cmd.Validate(args); err != nil {
			s.complete(i.item, newValidationError(next.cmd.name, err.Error()))
			return
		}
	}
	s.invoke(i.item, next, next.cmd.Action, args)
}

// Writer returns a line-buffered writer that Logs each complete line.
// Call Flush on it to emit a trailing partial line.
func (i *Instance) Writer() *LineWriter {
	return &LineWriter{emit: func(line string) { i.Log(line) }}
}

// Prompt asks the user a question through the session's Prompter.
func (i *Instance) Prompt(ctx context.Context, q Question) (Answer, error) {
	s := i.session
	if s == nil {
		invariant("instance has no session")
	}
	if s.prompter == nil {
		return Answer{}, errors.New(errors.ErrAction,
			"Prompt unavailable in this session",
			"Run the command from an interactive terminal.")
	}
	s.emit(Event{Kind: EventClientPrompt, Command: i.cmd.name, Input: q.Message})
	return s.prompter.Ask(ctx, q)
}

// Cancelled reports whether the command line this stage belongs to was cancelled.
func (i *Instance) Cancelled() bool {
	return i.item.ctx.Err() != nil
}
