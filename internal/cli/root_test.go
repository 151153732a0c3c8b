package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rileyhilliard/shellkit/internal/errors"
	"github.com/rileyhilliard/shellkit/pkg/shell/shelltest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `version: 1
prompt:
  delimiter: "test$"
  color: never
history:
  store: memory
tasks:
  hello:
    description: Says hello
    run: echo hello from task
`

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".shellkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRootCmdFlags(t *testing.T) {
	root := NewRootCmd()

	tests := []struct {
		name     string
		flag     string
		defValue string
	}{
		{name: "config", flag: "config", defValue: ""},
		{name: "no-color", flag: "no-color", defValue: "false"},
		{name: "verbose", flag: "verbose", defValue: "false"},
		{name: "history-store", flag: "history-store", defValue: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := root.PersistentFlags().Lookup(tt.flag)
			require.NotNil(t, f, "root should define --%s", tt.flag)
			assert.Equal(t, tt.defValue, f.DefValue)
		})
	}

	assert.Equal(t, "v", root.PersistentFlags().Lookup("verbose").Shorthand)
}

func TestRootCmdSubcommands(t *testing.T) {
	root := NewRootCmd()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "exec")
	assert.Contains(t, names, "version")
}

func executeRoot(t *testing.T, in string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("SHELL", "/bin/sh")

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(in))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestExecCmd(t *testing.T) {
	cfg := writeTestConfig(t, testConfig)

	tests := []struct {
		name     string
		args     []string
		want     string
		wantCode int
	}{
		{name: "single command", args: []string{"exec", "--config", cfg, "say", "hi"}, want: "hi"},
		{name: "quoted pipe", args: []string{"exec", "--config", cfg, "say hi | upper"}, want: "HI"},
		{name: "config task", args: []string{"exec", "--config", cfg, "task", "hello"}, want: "hello from task"},
		{name: "unknown command", args: []string{"exec", "--config", cfg, "nope"}, want: "Invalid command.", wantCode: exitFailed},
		{name: "validation error", args: []string{"exec", "--config", cfg, "say"}, want: "Missing required argument", wantCode: exitFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := executeRoot(t, "", tt.args...)
			assert.Contains(t, out, tt.want)
			if tt.wantCode == 0 {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, errors.ExitCode(err))
		})
	}
}

func TestExecCmdRequiresLine(t *testing.T) {
	_, err := executeRoot(t, "", "exec")
	require.Error(t, err)
}

func TestExecCmdBadConfig(t *testing.T) {
	cfg := writeTestConfig(t, "version: 1\nhistory:\n  store: floppy\n")

	_, err := executeRoot(t, "", "exec", "--config", cfg, "say", "hi")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestHistoryStoreFlagOverridesConfig(t *testing.T) {
	cfg := writeTestConfig(t, "version: 1\nhistory:\n  store: sqlite\n  path: "+filepath.Join(t.TempDir(), "h.db")+"\n")

	_, err := executeRoot(t, "", "exec", "--config", cfg, "--history-store", "floppy", "say", "hi")
	require.Error(t, err, "an invalid override is validated like config")

	out, err := executeRoot(t, "", "exec", "--config", cfg, "--history-store", "memory", "say", "hi")
	require.NoError(t, err)
	assert.Contains(t, out, "hi")
}

func TestRootReadsLinesWhenNotATerminal(t *testing.T) {
	cfg := writeTestConfig(t, testConfig)

	out, err := executeRoot(t, "say one\nsay two | upper\nexit\nsay never\n", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "one")
	assert.Contains(t, out, "TWO")
	assert.NotContains(t, out, "never")
}

func TestNewAppRegistersEverything(t *testing.T) {
	cfg := writeTestConfig(t, testConfig)
	out := shelltest.NewRenderer()

	a, err := newApp(appOptions{flags: &rootFlags{configPath: cfg}, renderer: out})
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, cfg, a.cfgPath)
	assert.Equal(t, "test$", a.shell.Local().Delimiter())
	for _, name := range []string{"say", "reverse", "upper", "sh", "history", "calc", "task hello", "help", "exit"} {
		assert.NotNil(t, a.shell.Registry().Lookup(name), name)
	}

	a.history.Push("say x")
	require.NoError(t, a.shell.Run(context.Background(), "history").Err)
	assert.True(t, out.Contains("say x"))
}

func TestNewAppFileLogger(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "shellkit.log")
	cfg := writeTestConfig(t, "version: 1\nhistory:\n  store: memory\nlog:\n  level: debug\n  file: "+logFile+"\n")

	a, err := newApp(appOptions{flags: &rootFlags{configPath: cfg}, renderer: shelltest.NewRenderer()})
	require.NoError(t, err)
	require.NoError(t, a.shell.Run(context.Background(), "say logged").Err)
	a.Close()

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[shellkit]")
}
