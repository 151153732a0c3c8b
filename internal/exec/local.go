package exec

import (
	"context"
	"io"
	"os"
	"os/exec"
	"sort"
	"sync"
	"time"

	"github.com/rileyhilliard/shellkit/internal/errors"
)

const (
	// stderrTail is how much trailing stderr is kept to explain a failure.
	stderrTail = 4096
	// waitDelay bounds how long output pipes stay open after a cancelled
	// command is killed. Grandchildren can otherwise hold them open.
	waitDelay = time.Second
)

// Local is one command run through the user's shell on this machine.
type Local struct {
	Command string
	Dir     string
	// Env is added to the current process environment.
	Env    map[string]string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes the command and waits for it. A non-zero exit is reported
// through exitCode, not err, except when the shell could not find the
// program (exit 127), which returns an ErrExec error naming it.
// Cancelling ctx kills the command.
func (l Local) Run(ctx context.Context) (exitCode int, err error) {
	command := exec.CommandContext(ctx, shellPath(), "-c", l.Command)
	command.Dir = l.Dir
	command.WaitDelay = waitDelay
	command.Env = mergeEnv(os.Environ(), l.Env)
	command.Stdin = l.Stdin
	command.Stdout = orDiscard(l.Stdout)

	tail := &tailBuffer{max: stderrTail}
	command.Stderr = io.MultiWriter(orDiscard(l.Stderr), tail)

	runErr := command.Run()
	if runErr == nil {
		return 0, nil
	}
	if ctx.Err() != nil {
		return -1, ctx.Err()
	}
	if exitErr, ok := runErr.(*exec.ExitError); ok {
		code := exitErr.ExitCode()
		if notFound := HandleExecError(l.Command, tail.String(), code); notFound != nil {
			return code, notFound
		}
		return code, nil
	}
	return -1, errors.WrapWithCode(runErr, errors.ErrExec,
		"Couldn't run the command locally",
		"Make sure the command exists and is executable.")
}

// shellPath picks $SHELL so pipes, redirects and globs behave as the
// user expects.
func shellPath() string {
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}
	return "/bin/sh"
}

// mergeEnv appends extra as KEY=VALUE pairs in key order. Later entries
// win, so extra overrides base.
func mergeEnv(base []string, extra map[string]string) []string {
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	env := append([]string(nil), base...)
	for _, k := range keys {
		env = append(env, k+"="+extra[k])
	}
	return env
}

func orDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	mu  sync.Mutex
	max int
	buf []byte
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.max; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(t.buf)
}
