package shell

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rileyhilliard/shellkit/internal/errors"
)

// exitInput leaves the current mode.
const exitInput = "exit"

// Session is the state of one terminal attached to a Shell: its mode,
// prompt delimiter, history and a FIFO queue of submitted command lines.
// At most one line runs at a time; the rest wait in order.
type Session struct {
	ID string

	shell    *Shell
	renderer Renderer
	history  History
	prompter Prompter
	logger   Logger

	mu         sync.Mutex
	queue      []*request
	current    *item
	registered int
	completed  int
	mode       *Command
	modeInput  string
	delimiter  string
	suffix     string
	tabs       int
	ownKeys    bool

	wake      chan struct{}
	closed    chan struct{}
	startOnce sync.Once
	closeOnce sync.Once
}

type request struct {
	ctx    context.Context
	line   string
	result chan Result
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithHistory binds a history collaborator to the session.
func WithHistory(h History) SessionOption {
	return func(s *Session) { s.history = h }
}

// WithPrompter lets commands in the session ask questions.
func WithPrompter(p Prompter) SessionOption {
	return func(s *Session) { s.prompter = p }
}

// WithSessionRenderer overrides the shell's renderer for this session.
func WithSessionRenderer(r Renderer) SessionOption {
	return func(s *Session) {
		s.renderer = r
		s.ownKeys = true
	}
}

func newSession(sh *Shell, opts ...SessionOption) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		shell:     sh,
		renderer:  sh.renderer,
		logger:    sh.logger,
		delimiter: sh.delimiter,
		wake:      make(chan struct{}, 1),
		closed:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ownKeys {
		s.listenKeys()
	}
	return s
}

// listenKeys forwards the renderer's key events to Keypress until the
// session closes.
func (s *Session) listenKeys() {
	keys := s.renderer.Keypresses()
	if keys == nil {
		return
	}
	go func() {
		for {
			select {
			case k, ok := <-keys:
				if !ok {
					return
				}
				s.Keypress(k)
			case <-s.closed:
				return
			}
		}
	}()
}

// Exec queues line for execution and returns a channel that receives its
// result once it has run.
func (s *Session) Exec(ctx context.Context, line string) <-chan Result {
	return s.enqueue(ctx, line).result
}

func (s *Session) enqueue(ctx context.Context, line string) *request {
	if s.shell == nil {
		invariant("session is not bound to a shell")
	}
	req := &request{ctx: ctx, line: line, result: make(chan Result, 1)}

	s.mu.Lock()
	select {
	case <-s.closed:
		s.mu.Unlock()
		req.result <- Result{Err: errors.New(errors.ErrAction, "Session is closed", "")}
		return req
	default:
	}
	s.queue = append(s.queue, req)
	depth := len(s.queue)
	s.mu.Unlock()

	s.logger.Debug("session %s queued %q (%d pending)", s.ID, line, depth)
	s.startOnce.Do(func() { go s.drain() })
	select {
	case s.wake <- struct{}{}:
	default:
	}
	return req
}

// Run executes line and waits for its result. If ctx ends first, Run
// returns ctx.Err(): a line still queued is dropped and a running one is
// cancelled as if by Cancel.
func (s *Session) Run(ctx context.Context, line string) Result {
	req := s.enqueue(ctx, line)
	select {
	case r := <-req.result:
		return r
	case <-ctx.Done():
		s.abandon(req)
		return Result{Err: ctx.Err()}
	}
}

// abandon drops req from the queue, or cancels it when it is running.
func (s *Session) abandon(req *request) {
	s.mu.Lock()
	for n, queued := range s.queue {
		if queued == req {
			s.queue = append(s.queue[:n], s.queue[n+1:]...)
			s.mu.Unlock()
			s.logger.Debug("session %s dropped %q", s.ID, req.line)
			return
		}
	}
	it := s.current
	s.mu.Unlock()

	if it != nil && it.req == req {
		s.cancelItem(it)
	}
}

func (s *Session) dequeue() *request {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return nil
	}
	req := s.queue[0]
	s.queue = s.queue[1:]
	return req
}

func (s *Session) drain() {
	for {
		req := s.dequeue()
		if req == nil {
			select {
			case <-s.wake:
				continue
			case <-s.closed:
				return
			}
		}
		it := s.run(req)
		select {
		case <-it.done:
		case <-s.closed:
			return
		}
	}
}

// run resolves and starts one request. Resolution happens here rather than
// at Exec time so a line queued behind a mode entry is read in that mode.
func (s *Session) run(req *request) *item {
	ctx, cancel := context.WithCancel(req.ctx)
	it := &item{
		req:     req,
		raw:     req.line,
		session: s,
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
		result:  req.result,
	}
	line := strings.TrimSpace(req.line)

	if mode := s.Mode(); mode != nil {
		it.cmd = mode
		if line == exitInput {
			s.exitMode()
			s.finish(it, false)
			return it
		}
		it.link([]stage{{cmd: mode, args: Args{Raw: line, Positional: map[string]any{}, Options: map[string]any{}}}})
		s.begin(it)
		s.invoke(it, it.head(), mode.Action, it.head().args)
		return it
	}

	if line == "" {
		cancel()
		it.state = StateDone
		it.result <- Result{}
		close(it.done)
		return it
	}

	stages, err := s.resolve(line)
	if len(stages) > 0 {
		it.cmd = stages[0].cmd
	}
	if err != nil {
		s.fail(it, err)
		return it
	}
	it.args = stages[0].args
	it.link(stages)
	head := it.head()

	if head.args.Help {
		s.write(helpFor(s.registry(), head.cmd, head.args))
		s.finish(it, false)
		return it
	}

	it.state = StateValidating
	if it.cmd.Validate != nil {
		if err := it.cmd.Validate(head.args); err != nil {
			s.fail(it, newValidationError(it.cmd.name, err.Error()))
			return it
		}
	}

	if it.cmd.Mode {
		it.entersMode = true
		s.enterMode(it.cmd, line)
		s.begin(it)
		s.invoke(it, head, it.cmd.Init, head.args)
		return it
	}

	s.begin(it)
	s.invoke(it, head, it.cmd.Action, head.args)
	return it
}

// resolve matches every pipe segment and builds its args. A Parse rewrite
// on the head command is applied once to the whole line.
func (s *Session) resolve(line string) ([]stage, error) {
	reg := s.registry()
	head, pipes := SplitPipes(line)

	cmd, rest, err := reg.Match(head)
	if err != nil {
		return nil, err
	}
	if cmd.Parse != nil {
		if rewritten := cmd.Parse(line); rewritten != line {
			s.logger.Debug("'%s' rewrote %q to %q", cmd.name, line, rewritten)
			head, pipes = SplitPipes(rewritten)
			if cmd, rest, err = reg.Match(head); err != nil {
				return nil, err
			}
		}
	}

	stages := make([]stage, 0, 1+len(pipes))
	for n, seg := range append([]string{head}, pipes...) {
		c, text := cmd, rest
		if n > 0 {
			if c, text, err = reg.Match(seg); err != nil {
				return stages, err
			}
		}
		args, err := BuildArgs(text, c)
		if err != nil {
			return append(stages, stage{cmd: c, args: args}), err
		}
		stages = append(stages, stage{cmd: c, args: args})
	}
	return stages, nil
}

func (s *Session) enterMode(cmd *Command, line string) {
	s.mu.Lock()
	s.mode = cmd
	s.modeInput = line
	s.suffix = cmd.Delimiter
	s.mu.Unlock()

	if s.history != nil {
		s.history.EnterScope()
	}
	s.logger.Debug("session %s entered mode '%s'", s.ID, cmd.name)
	s.emit(Event{Kind: EventModeEnter, Command: cmd.name, Input: line})
}

func (s *Session) exitMode() {
	s.mu.Lock()
	mode := s.mode
	s.mode = nil
	s.modeInput = ""
	s.suffix = ""
	s.mu.Unlock()

	if s.history != nil {
		s.history.ExitScope()
	}
	s.logger.Debug("session %s left mode '%s'", s.ID, mode.name)
	s.emit(Event{Kind: EventModeExit, Command: mode.name})
}

// Mode returns the active mode command, or nil.
func (s *Session) Mode() *Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// ModeInput returns the line that entered the active mode.
func (s *Session) ModeInput() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modeInput
}

// Delimiter returns the prompt: the base delimiter plus any mode suffix.
func (s *Session) Delimiter() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delimiter + s.suffix
}

// SetDelimiter replaces the base delimiter.
func (s *Session) SetDelimiter(d string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delimiter = d
}

// History returns the bound history, or nil.
func (s *Session) History() History { return s.history }

// Busy reports whether a command line is running.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil
}

// Keypress records a key event. Any key other than tab resets the
// repeated-tab counter.
func (s *Session) Keypress(k Keypress) {
	if k.Name != "tab" {
		s.mu.Lock()
		s.tabs = 0
		s.mu.Unlock()
	}
	s.emit(Event{Kind: EventKeypress, Keypress: k})
}

// Close cancels the running line, fails queued ones and stops the queue.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.Cancel()

		s.mu.Lock()
		pending := s.queue
		s.queue = nil
		close(s.closed)
		s.mu.Unlock()

		for _, req := range pending {
			req.result <- Result{Err: errors.New(errors.ErrAction, "Session is closed", "")}
		}
	})
}

func (s *Session) write(text string) {
	if s.renderer != nil {
		s.renderer.Write(text)
	}
}

func (s *Session) emit(ev Event) {
	ev.Session = s
	s.shell.emit(ev)
}

func (s *Session) registry() *Registry {
	return s.shell.registry
}
