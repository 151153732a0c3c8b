package shell

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// captureRenderer records output lines for assertions.
type captureRenderer struct {
	mu    sync.Mutex
	lines []string
}

func (r *captureRenderer) CursorPosition() int         { return 0 }
func (r *captureRenderer) Render(string)               {}
func (r *captureRenderer) Keypresses() <-chan Keypress { return nil }

func (r *captureRenderer) Write(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, text)
}

func (r *captureRenderer) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

func (r *captureRenderer) Output() string {
	return strings.Join(r.Lines(), "\n")
}

func (r *captureRenderer) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = nil
}

// fakeHistory counts scope changes.
type fakeHistory struct {
	mu     sync.Mutex
	pushed []string
	enters int
	exits  int
}

func (h *fakeHistory) Push(line string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pushed = append(h.pushed, line)
}

func (h *fakeHistory) Previous() string { return "" }
func (h *fakeHistory) Next() string     { return "" }

func (h *fakeHistory) EnterScope() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.enters++
}

func (h *fakeHistory) ExitScope() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.exits++
}

func (h *fakeHistory) counts() (enters, exits int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.enters, h.exits
}

var noop = Sync(func(context.Context, *Instance, Args) error { return nil })

// newTestShell returns a shell with the say, reverse and upper commands.
func newTestShell(t *testing.T, opts ...ShellOption) (*Shell, *captureRenderer) {
	t.Helper()
	out := &captureRenderer{}
	sh := New(append([]ShellOption{WithRenderer(out)}, opts...)...)
	t.Cleanup(sh.Close)

	mustRegister(t, sh, Command{
		Use:         "say <words...>",
		Description: "Echo words.",
		Action: Sync(func(ctx context.Context, in *Instance, args Args) error {
			in.Log(args.String("words"))
			return nil
		}),
	})
	mustRegister(t, sh, Command{
		Use:         "reverse",
		Description: "Reverse piped input.",
		Action: Sync(func(ctx context.Context, in *Instance, args Args) error {
			in.Log(reverseString(strings.Join(args.Stdin, " ")))
			return nil
		}),
	})
	mustRegister(t, sh, Command{
		Use: "upper",
		Action: Sync(func(ctx context.Context, in *Instance, args Args) error {
			in.Log(strings.ToUpper(strings.Join(args.Stdin, " ")))
			return nil
		}),
	})
	return sh, out
}

func mustRegister(t *testing.T, sh *Shell, c Command) *Command {
	t.Helper()
	cmd, err := sh.RegisterCommand(c)
	require.NoError(t, err)
	return cmd
}

func run(t *testing.T, sh *Shell, line string) Result {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res := sh.Run(ctx, line)
	require.NotErrorIs(t, res.Err, context.DeadlineExceeded, "timed out running %q", line)
	return res
}

func reverseString(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}
