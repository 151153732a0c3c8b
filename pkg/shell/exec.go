package shell

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rileyhilliard/shellkit/internal/errors"
	"github.com/rileyhilliard/shellkit/internal/ui"
	"github.com/rileyhilliard/shellkit/internal/util"
)

// ItemState is the lifecycle state of one submitted command line.
type ItemState int

const (
	StateBuilt ItemState = iota
	StateValidating
	StateRunning
	StateCompleting
	StateCancelled
	StateDone
)

func (s ItemState) String() string {
	switch s {
	case StateBuilt:
		return "built"
	case StateValidating:
		return "validating"
	case StateRunning:
		return "running"
	case StateCompleting:
		return "completing"
	case StateCancelled:
		return "cancelled"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("ItemState(%d)", int(s))
	}
}

// Result is the outcome of one command line. Cancellation is not an error.
type Result struct {
	Err       error
	Cancelled bool
}

// item is one submitted command line and its pipe chain.
type item struct {
	req     *request
	raw     string
	cmd     *Command
	args    Args
	stages  []*Instance
	session *Session

	ctx    context.Context
	cancel context.CancelFunc

	state      ItemState // guarded by session.mu
	err        error     // first failure, guarded by session.mu
	ran        bool
	entersMode bool
	settled    sync.Once
	done       chan struct{}
	result     chan Result
}

// stage is one resolved pipe segment before instances exist.
type stage struct {
	cmd  *Command
	args Args
}

// link builds one Instance per stage and points each at the next.
func (it *item) link(stages []stage) {
	it.stages = make([]*Instance, len(stages))
	for n, st := range stages {
		it.stages[n] = &Instance{cmd: st.cmd, args: st.args, item: it, session: it.session}
	}
	for n := 0; n < len(it.stages)-1; n++ {
		it.stages[n].downstream = it.stages[n+1]
	}
}

func (it *item) head() *Instance {
	if len(it.stages) == 0 {
		return nil
	}
	return it.stages[0]
}

// begin makes it the session's running item with one unit of outstanding work.
func (s *Session) begin(it *item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = it
	s.registered, s.completed = 1, 0
	it.state = StateRunning
	it.ran = true
}

// register records one more unit of outstanding work for a piped Log.
// It returns false once the item has settled.
func (s *Session) register(it *item) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != it || it.state != StateRunning {
		return false
	}
	s.registered++
	return true
}

// invoke runs h for inst with a single-fire completion. Handler panics are
// reported as action failures; a FatalInvariant keeps propagating.
func (s *Session) invoke(it *item, inst *Instance, h Handler, args Args) {
	var once sync.Once
	done := func(err error) {
		once.Do(func() { s.complete(it, wrapAction(inst.cmd.name, err)) })
	}

	defer func() {
		if r := recover(); r != nil {
			if f, ok := r.(FatalInvariant); ok {
				panic(f)
			}
			done(fmt.Errorf("panic: %v", r))
		}
	}()

	if h == nil {
		done(nil)
		return
	}
	h.start(it.ctx, inst, args, done)
}

// complete records one finished unit of work. The item is done when every
// registered unit has completed. Settles after cancellation are ignored.
func (s *Session) complete(it *item, err error) {
	s.mu.Lock()
	if s.current != it || it.state != StateRunning {
		s.mu.Unlock()
		return
	}
	if err != nil && it.err == nil {
		it.err = err
	}
	s.completed++
	if s.completed < s.registered {
		s.mu.Unlock()
		return
	}
	it.state = StateCompleting
	s.registered, s.completed = 0, 0
	s.mu.Unlock()

	s.finish(it, false)
}

// Cancel cancels the running command line. Each stage's Cancel hook runs
// once, head to tail, then the item context is cancelled and the item
// settles as cancelled. Handlers that ignore cancellation keep running but
// can no longer complete the item. Cancel reports whether anything was running.
func (s *Session) Cancel() bool {
	s.mu.Lock()
	it := s.current
	s.mu.Unlock()
	return s.cancelItem(it)
}

// cancelItem cancels it if it is still the running item.
func (s *Session) cancelItem(it *item) bool {
	s.mu.Lock()
	if it == nil || s.current != it || it.state != StateRunning {
		s.mu.Unlock()
		return false
	}
	it.state = StateCancelled
	s.registered, s.completed = 0, 0
	s.mu.Unlock()

	s.logger.Debug("cancelling '%s'", it.raw)
	for inst := it.head(); inst != nil; inst = inst.downstream {
		if inst.cmd.Cancel != nil {
			inst.cmd.Cancel(inst)
		}
	}
	it.cancel()
	s.finish(it, true)
	return true
}

// finish runs Done hooks, renders failures, emits the outcome event and
// delivers the result. It runs at most once per item. Cancelled items skip
// the Done hooks, and a mode whose Init failed or was cancelled is left.
func (s *Session) finish(it *item, cancelled bool) {
	it.settled.Do(func() {
		if it.ran && !cancelled {
			for _, inst := range it.stages {
				if inst.cmd.Done != nil {
					inst.cmd.Done(inst)
				}
			}
		}

		s.mu.Lock()
		err := it.err
		it.state = StateDone
		if s.current == it {
			s.current = nil
		}
		s.mu.Unlock()

		if it.entersMode && (cancelled || err != nil) && s.Mode() == it.cmd {
			s.exitMode()
		}

		res := Result{Err: err, Cancelled: cancelled}
		name := ""
		if it.cmd != nil {
			name = it.cmd.name
		}
		switch {
		case cancelled:
			res.Err = nil
			s.emit(Event{Kind: EventCommandCancelled, Command: name, Input: it.raw})
		case err != nil:
			s.renderError(it.cmd, err)
			s.emit(Event{Kind: EventCommandError, Command: name, Input: it.raw, Err: err})
		default:
			s.emit(Event{Kind: EventCommandExecuted, Command: name, Input: it.raw})
		}

		if it.cancel != nil {
			it.cancel()
		}
		it.result <- res
		close(it.done)
	})
}

// fail settles an item that never started running.
func (s *Session) fail(it *item, err error) {
	s.mu.Lock()
	it.err = err
	s.mu.Unlock()
	s.finish(it, false)
}

// renderError prints a failure followed by the relevant help block.
func (s *Session) renderError(cmd *Command, err error) {
	var ve *ValidationError
	var re *ResolutionError
	switch {
	case asError(err, &ve):
		s.write(errorLine(ve.Message))
		if c := s.registry().Lookup(ve.Command); c != nil {
			cmd = c
		}
		if cmd != nil {
			s.write(CommandHelp(cmd))
		}
	case asError(err, &re):
		s.write(errorLine(errors.Message(re)))
		if re.Group != "" {
			s.write(GroupHelp(s.registry(), re.Group))
			return
		}
		if first, _, _ := strings.Cut(re.Input, " "); first != "" {
			if near := util.SuggestSimilar(first, s.registry().Names(), 3); len(near) > 0 {
				s.write(ui.MutedStyle().Render("Did you mean: " + strings.Join(near, ", ") + "?"))
			}
		}
		s.write(GeneralHelp(s.registry()))
	default:
		msg := errors.Message(err)
		if cause := unwrapCause(err); cause != nil {
			msg = cause.Error()
		}
		s.write(errorLine(msg))
	}
}
