package cli

import (
	"context"
	"strconv"
	"testing"

	"github.com/rileyhilliard/shellkit/internal/config"
	"github.com/rileyhilliard/shellkit/internal/errors"
	"github.com/rileyhilliard/shellkit/pkg/shell"
	"github.com/rileyhilliard/shellkit/pkg/shell/history"
	"github.com/rileyhilliard/shellkit/pkg/shell/shelltest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// answerPrompter answers every confirm question the same way.
type answerPrompter struct {
	confirm bool
	asked   []shell.Question
}

func (p *answerPrompter) Ask(ctx context.Context, q shell.Question) (shell.Answer, error) {
	p.asked = append(p.asked, q)
	return shell.Answer{Value: strconv.FormatBool(p.confirm), Confirmed: p.confirm}, nil
}

type commandFixture struct {
	sh   *shell.Shell
	out  *shelltest.Renderer
	hist *history.History
}

func newCommandFixture(t *testing.T, opts ...shell.SessionOption) *commandFixture {
	t.Helper()
	t.Setenv("SHELL", "/bin/sh")

	hist, err := history.New()
	require.NoError(t, err)
	out := shelltest.NewRenderer()
	sh := shell.New(
		shell.WithRenderer(out),
		shell.WithDelimiter("shellkit$"),
		shell.WithLocalSession(append([]shell.SessionOption{shell.WithHistory(hist)}, opts...)...),
	)
	t.Cleanup(sh.Close)
	require.NoError(t, registerCommands(sh))
	return &commandFixture{sh: sh, out: out, hist: hist}
}

func (f *commandFixture) run(t *testing.T, line string) shell.Result {
	t.Helper()
	f.out.Reset()
	return f.sh.Run(context.Background(), line)
}

func TestTextCommands(t *testing.T) {
	f := newCommandFixture(t)

	tests := []struct {
		name string
		line string
		want []string
	}{
		{name: "say", line: "say hello world", want: []string{"hello world"}},
		{name: "reverse arguments", line: "reverse abc", want: []string{"cba"}},
		{name: "reverse keeps multibyte runes", line: "reverse héllo", want: []string{"olléh"}},
		{name: "upper arguments", line: "upper shout", want: []string{"SHOUT"}},
		{name: "pipe chain", line: "say cheese | reverse | upper", want: []string{"ESEEHC"}},
		{name: "quoted pipe is literal", line: `say "a | b" | upper`, want: []string{"A | B"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := f.run(t, tt.line)
			require.NoError(t, res.Err)
			assert.Equal(t, tt.want, f.out.Lines())
		})
	}
}

func TestShCommand(t *testing.T) {
	f := newCommandFixture(t)

	tests := []struct {
		name string
		line string
		want []string
	}{
		{name: "runs through the shell", line: "sh echo hi", want: []string{"hi"}},
		{name: "flags reach the program", line: "sh ls -d /", want: []string{"/"}},
		{name: "piped input becomes stdin", line: "say one | sh cat", want: []string{"one"}},
		{name: "output can be piped on", line: "sh echo quiet | upper", want: []string{"QUIET"}},
		{name: "shell syntax survives", line: "sh echo a; echo b", want: []string{"a", "b"}},
		{name: "quoted pipe stays literal", line: "sh echo 'a|tr a-z A-Z'", want: []string{"a|tr a-z A-Z"}},
		{name: "quoted whitespace survives", line: `sh printf '%s\n' "a   b"`, want: []string{"a   b"}},
		{name: "double dash kept for the program", line: "sh -- echo -- x", want: []string{"-- x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := f.run(t, tt.line)
			require.NoError(t, res.Err)
			assert.Equal(t, tt.want, f.out.Lines())
		})
	}

	t.Run("non-zero exit fails the line", func(t *testing.T) {
		res := f.run(t, "sh exit 3")
		require.Error(t, res.Err)
		assert.Contains(t, res.Err.Error(), "exited with status 3")
	})

	t.Run("help is not passed through", func(t *testing.T) {
		res := f.run(t, "sh --help")
		require.NoError(t, res.Err)
		assert.True(t, f.out.Contains("sh"))
	})
}

func TestHistoryCommand(t *testing.T) {
	f := newCommandFixture(t)
	for _, line := range []string{"say a", "say b", "say c"} {
		f.hist.Push(line)
	}

	t.Run("lists every entry", func(t *testing.T) {
		require.NoError(t, f.run(t, "history").Err)
		lines := f.out.Lines()
		require.Len(t, lines, 3)
		assert.Contains(t, lines[0], "1")
		assert.Contains(t, lines[0], "say a")
		assert.Contains(t, lines[2], "say c")
	})

	t.Run("limit keeps the newest", func(t *testing.T) {
		require.NoError(t, f.run(t, "history -n 2").Err)
		lines := f.out.Lines()
		require.Len(t, lines, 2)
		assert.Contains(t, lines[0], "say b")
		assert.Contains(t, lines[1], "say c")
	})

	t.Run("clear needs a prompter without --yes", func(t *testing.T) {
		res := f.run(t, "history --clear")
		require.Error(t, res.Err)
		assert.Len(t, f.hist.Entries(), 3)
	})

	t.Run("clear with --yes", func(t *testing.T) {
		require.NoError(t, f.run(t, "history -c -y").Err)
		assert.Empty(t, f.hist.Entries())
		assert.True(t, f.out.Contains("Cleared 3 entries"))
	})

	t.Run("clear when empty", func(t *testing.T) {
		require.NoError(t, f.run(t, "history -cy").Err)
		assert.True(t, f.out.Contains("already empty"))
	})
}

func TestHistoryClearAsks(t *testing.T) {
	tests := []struct {
		name        string
		confirm     bool
		wantEntries int
		wantOutput  string
	}{
		{name: "confirmed", confirm: true, wantEntries: 0, wantOutput: "Cleared 1 entry"},
		{name: "declined", confirm: false, wantEntries: 1, wantOutput: "History kept."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &answerPrompter{confirm: tt.confirm}
			f := newCommandFixture(t, shell.WithPrompter(p))
			f.hist.Push("say a")

			require.NoError(t, f.run(t, "history --clear").Err)
			assert.Len(t, f.hist.Entries(), tt.wantEntries)
			assert.True(t, f.out.Contains(tt.wantOutput), "output: %s", f.out.Output())
			require.Len(t, p.asked, 1)
			assert.Equal(t, shell.AskConfirm, p.asked[0].Kind)
			assert.Equal(t, "Clear 1 history entry?", p.asked[0].Message)
		})
	}
}

func TestHistoryCommandWithoutHistory(t *testing.T) {
	out := shelltest.NewRenderer()
	sh := shell.New(shell.WithRenderer(out))
	t.Cleanup(sh.Close)
	require.NoError(t, registerCommands(sh))

	res := sh.Run(context.Background(), "history")
	require.Error(t, res.Err)
	assert.True(t, out.Contains("keeps no history"))
}

func TestCalcMode(t *testing.T) {
	f := newCommandFixture(t)
	s := f.sh.Local()

	require.NoError(t, f.run(t, "calc").Err)
	require.NotNil(t, s.Mode())
	assert.Equal(t, "calc", s.Mode().Name())
	assert.Equal(t, "shellkit$ calc>", s.Delimiter())
	assert.True(t, f.out.Contains("Entering calc mode"))

	tests := []struct {
		line string
		want string
	}{
		{line: "2 * (3 + 4)", want: "14"},
		{line: "ans + 1", want: "15"},
		{line: "max(ans, 3)", want: "15"},
		{line: `"calc" + "ulate"`, want: "calculate"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			require.NoError(t, f.run(t, tt.line).Err)
			assert.Equal(t, []string{tt.want}, f.out.Lines())
		})
	}

	t.Run("bad expression keeps the mode", func(t *testing.T) {
		res := f.run(t, "1 +")
		require.Error(t, res.Err)
		assert.True(t, errors.IsCode(res.Err, errors.ErrAction) || shell.IsAction(res.Err))
		assert.NotNil(t, s.Mode())
	})

	t.Run("exit leaves the mode", func(t *testing.T) {
		require.NoError(t, f.run(t, "exit").Err)
		assert.Nil(t, s.Mode())
		assert.Equal(t, "shellkit$", s.Delimiter())
	})

	t.Run("re-entering resets the last result", func(t *testing.T) {
		require.NoError(t, f.run(t, "calc").Err)
		require.NoError(t, f.run(t, "ans + 1").Err)
		assert.Equal(t, []string{"1"}, f.out.Lines())
	})
}

func TestPassThrough(t *testing.T) {
	tests := []struct {
		name string
		cmd  string
		line string
		want string
	}{
		{name: "flags after the name", cmd: "sh", line: "sh ls -la", want: "sh -- ls -la"},
		{name: "pipes preserved", cmd: "sh", line: "sh ls -l | upper", want: "sh -- ls -l | upper"},
		{name: "multi-word name", cmd: "task build", line: "task  build --race", want: "task build -- --race"},
		{name: "bare name unchanged", cmd: "sh", line: "sh", want: "sh"},
		{name: "help unchanged", cmd: "sh", line: "sh --help", want: "sh --help"},
		{name: "already separated", cmd: "sh", line: "sh -- ls", want: "sh -- ls"},
		{name: "other command unchanged", cmd: "sh", line: "say hi", want: "say hi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, passThrough(tt.cmd)(tt.line))
		})
	}
}

func TestShellText(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "-- ls -la", want: "ls -la"},
		{raw: `-- echo "a  b"`, want: `echo "a  b"`},
		{raw: "cat", want: "cat"},
		{raw: "--", want: ""},
		{raw: "--color ls", want: "--color ls"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, shellText(tt.raw))
		})
	}
}

func TestReverseRunes(t *testing.T) {
	assert.Equal(t, "", reverseRunes(""))
	assert.Equal(t, "a", reverseRunes("a"))
	assert.Equal(t, "dlrow", reverseRunes("world"))
}

func TestRegisterCommandsRejectsClash(t *testing.T) {
	sh := shell.New(shell.WithRenderer(shelltest.NewRenderer()))
	t.Cleanup(sh.Close)
	_, err := sh.RegisterCommand(shell.Command{
		Use:    "say",
		Action: shell.Sync(func(context.Context, *shell.Instance, shell.Args) error { return nil }),
	})
	require.NoError(t, err)

	err = registerCommands(sh)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrRegistry))
}

func TestReservedNamesCoverDemoCommands(t *testing.T) {
	for _, name := range []string{"say", "reverse", "upper", "sh", "history", "calc", "task"} {
		assert.True(t, config.IsReservedTaskName(name), name)
	}
}
