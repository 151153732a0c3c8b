// Package shell is a framework for interactive, shell-like command-line
// applications. A Shell holds registered commands; each attached Session
// reads lines, resolves them against the registry (multi-word names,
// aliases, a catch-all), and runs them as pipe chains of Instances, one
// line at a time. Commands can also open modes: nested prompts whose
// input goes verbatim to one action until "exit".
//
// A minimal host:
//
//	sh := shell.New(shell.WithRenderer(shell.WriterRenderer(os.Stdout)))
//	sh.RegisterCommand(shell.Command{
//		Use: "say <words...>",
//		Action: shell.Sync(func(ctx context.Context, in *shell.Instance, args shell.Args) error {
//			in.Log(args.String("words"))
//			return nil
//		}),
//	})
//	res := <-sh.Execute(ctx, "say hello | reverse")
package shell

import (
	"context"
	"io"
	"sort"
	"sync"

	"github.com/rileyhilliard/shellkit/internal/logger"
)

// Shell owns a command registry, the renderer and the sessions attached to
// it. Hosts may run several independent Shells in one process.
type Shell struct {
	registry  *Registry
	renderer  Renderer
	logger    Logger
	delimiter string

	mu        sync.Mutex
	sessions  map[string]*Session
	local     *Session
	listeners map[EventKind][]listenerEntry
	nextID    int
}

// ShellOption configures a Shell.
type ShellOption func(*shellConfig)

type shellConfig struct {
	renderer  Renderer
	logger    Logger
	delimiter string
	local     []SessionOption
}

// WithRenderer sets the renderer sessions draw on by default.
func WithRenderer(r Renderer) ShellOption {
	return func(c *shellConfig) { c.renderer = r }
}

// WithLogger sets the logger for the shell and its sessions.
func WithLogger(l Logger) ShellOption {
	return func(c *shellConfig) { c.logger = l }
}

// WithDelimiter sets the base prompt delimiter.
func WithDelimiter(d string) ShellOption {
	return func(c *shellConfig) { c.delimiter = d }
}

// WithLocalSession configures the session used by Execute.
func WithLocalSession(opts ...SessionOption) ShellOption {
	return func(c *shellConfig) { c.local = append(c.local, opts...) }
}

// New creates a Shell with the built-in help and exit commands registered
// and a local session attached.
func New(opts ...ShellOption) *Shell {
	cfg := shellConfig{
		renderer:  WriterRenderer(io.Discard),
		logger:    logger.Noop(),
		delimiter: "$ ",
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	sh := &Shell{
		registry:  NewRegistry(),
		renderer:  cfg.renderer,
		logger:    cfg.logger,
		delimiter: cfg.delimiter,
		sessions:  make(map[string]*Session),
		listeners: make(map[EventKind][]listenerEntry),
	}
	sh.registerBuiltins()

	sh.local = newSession(sh, cfg.local...)
	if !sh.local.ownKeys {
		sh.local.listenKeys()
	}
	sh.sessions[sh.local.ID] = sh.local
	return sh
}

// Registry exposes the command registry.
func (sh *Shell) Registry() *Registry { return sh.registry }

// Logger returns the shell's logger.
func (sh *Shell) Logger() Logger { return sh.logger }

// RegisterCommand adds a command.
func (sh *Shell) RegisterCommand(c Command) (*Command, error) {
	cmd, err := sh.registry.Add(c)
	if err != nil {
		return nil, err
	}
	sh.logger.Debug("registered '%s'", cmd.Usage())
	return cmd, nil
}

// RegisterMode adds a command that opens a mode.
func (sh *Shell) RegisterMode(c Command) (*Command, error) {
	c.Mode = true
	return sh.RegisterCommand(c)
}

// RegisterCatchAll adds the command that receives otherwise unmatched input.
// Its Use lists only arguments, e.g. "[words...]".
func (sh *Shell) RegisterCatchAll(c Command) (*Command, error) {
	c.CatchAll = true
	return sh.RegisterCommand(c)
}

// RemoveCommand unregisters a command by name or alias.
func (sh *Shell) RemoveCommand(name string) bool {
	return sh.registry.Remove(name)
}

// Local returns the session used by Execute and CancelCurrent.
func (sh *Shell) Local() *Session { return sh.local }

// Execute queues line on the local session.
func (sh *Shell) Execute(ctx context.Context, line string) <-chan Result {
	if sh.local == nil {
		invariant("shell has no local session")
	}
	return sh.local.Exec(ctx, line)
}

// Run executes line on the local session and waits for the result.
func (sh *Shell) Run(ctx context.Context, line string) Result {
	return sh.local.Run(ctx, line)
}

// ExecuteSync executes line on the local session and returns its error.
// A cancelled line returns nil.
func (sh *Shell) ExecuteSync(ctx context.Context, line string) error {
	return sh.Run(ctx, line).Err
}

// CancelCurrent cancels the local session's running line.
func (sh *Shell) CancelCurrent() bool {
	return sh.local.Cancel()
}

// NewSession creates a session bound to sh. It is not attached.
func (sh *Shell) NewSession(opts ...SessionOption) *Session {
	return newSession(sh, opts...)
}

// Attach adds a session to the shell.
func (sh *Shell) Attach(s *Session) {
	if s.shell != sh {
		invariant("attaching a session created by another shell")
	}
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.sessions[s.ID] = s
	sh.logger.Debug("attached session %s", s.ID)
}

// Detach closes a session and removes it from the shell.
func (sh *Shell) Detach(s *Session) {
	sh.mu.Lock()
	delete(sh.sessions, s.ID)
	sh.mu.Unlock()
	s.Close()
	sh.logger.Debug("detached session %s", s.ID)
}

// Sessions returns the attached sessions ordered by ID.
func (sh *Shell) Sessions() []*Session {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	out := make([]*Session, 0, len(sh.sessions))
	for _, s := range sh.sessions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Close detaches every session.
func (sh *Shell) Close() {
	for _, s := range sh.Sessions() {
		sh.Detach(s)
	}
}

// On registers a listener for one event kind. The returned func removes it.
func (sh *Shell) On(kind EventKind, fn Listener) (remove func()) {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.nextID++
	id := sh.nextID
	sh.listeners[kind] = append(sh.listeners[kind], listenerEntry{id: id, fn: fn})

	return func() {
		sh.mu.Lock()
		defer sh.mu.Unlock()
		entries := sh.listeners[kind]
		for n, e := range entries {
			if e.id == id {
				sh.listeners[kind] = append(entries[:n:n], entries[n+1:]...)
				return
			}
		}
	}
}

func (sh *Shell) emit(ev Event) {
	sh.mu.Lock()
	entries := append([]listenerEntry(nil), sh.listeners[ev.Kind]...)
	sh.mu.Unlock()

	for _, e := range entries {
		e.fn(ev)
	}
}
