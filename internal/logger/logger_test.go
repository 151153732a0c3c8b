package logger

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureStdLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return &buf
}

func TestEnvLogger_Debug(t *testing.T) {
	tests := []struct {
		name      string
		envValue  string
		expectLog bool
	}{
		{name: "logs when SHELLKIT_DEBUG is set", envValue: "1", expectLog: true},
		{name: "logs for any value", envValue: "yes", expectLog: true},
		{name: "silent when unset", envValue: "", expectLog: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureStdLog(t)
			t.Setenv(DebugEnv, tt.envValue)

			NewEnvLogger("[session]").Debug("drained %d items", 3)

			if tt.expectLog {
				assert.Contains(t, buf.String(), "[session] drained 3 items")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestEnvLogger_Levels(t *testing.T) {
	buf := captureStdLog(t)
	l := NewEnvLogger("[x]")

	l.Info("info %d", 1)
	l.Warn("careful")
	l.Error("broken")

	out := buf.String()
	assert.Contains(t, out, "[x] info 1")
	assert.Contains(t, out, "[x] WARN: careful")
	assert.Contains(t, out, "[x] ERROR: broken")
}

func TestNoopLogger(t *testing.T) {
	buf := captureStdLog(t)

	l := Noop()
	l.Debug("debug")
	l.Info("info")
	l.Warn("warn")
	l.Error("error")

	assert.Empty(t, buf.String())
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   LevelDebug,
		"DEBUG":   LevelDebug,
		"info":    LevelInfo,
		"warn":    LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"":        LevelInfo,
		"verbose": LevelInfo,
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, ParseLevel(in))
		})
	}
}

func TestLookupLevel(t *testing.T) {
	_, ok := LookupLevel("verbose")
	assert.False(t, ok)

	l, ok := LookupLevel(" Warn ")
	assert.True(t, ok)
	assert.Equal(t, LevelWarn, l)
}

func TestFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shellkit.log")
	l := NewFileLogger("[test]", path, LevelInfo, Rotation{MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1})

	l.Debug("hidden")
	l.Info("visible %s", "line")
	l.Error("bad")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	out := string(data)
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "INFO [test] visible line")
	assert.Contains(t, out, "ERROR [test] bad")
}

func TestBufferLogger(t *testing.T) {
	l := NewBufferLogger()

	l.Debug("debug %s", "msg")
	l.Info("info %s", "msg")
	l.Warn("warn %s", "msg")
	l.Error("error %s", "msg")

	require.Len(t, l.Messages, 4)
	assert.Equal(t, LogMessage{Level: "debug", Message: "debug msg"}, l.Messages[0])
	assert.Equal(t, LogMessage{Level: "error", Message: "error msg"}, l.Messages[3])

	assert.True(t, l.HasLevel("warn"))
	assert.True(t, l.Contains("info m"))
	assert.False(t, l.Contains("nope"))

	l.Clear()
	assert.Empty(t, l.Messages)
	assert.False(t, l.HasLevel("debug"))
}

func TestDefault(t *testing.T) {
	original := defaultLogger
	defer func() { defaultLogger = original }()

	assert.NotNil(t, Default())

	buf := NewBufferLogger()
	SetDefault(buf)
	assert.Equal(t, buf, Default())
}
