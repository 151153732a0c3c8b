package terminal

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rileyhilliard/shellkit/pkg/shell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunLines(t *testing.T) {
	f := newPromptFixture(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	in := strings.NewReader("say one\n\nnope\nsay two\n")
	require.NoError(t, RunLines(ctx, f.sh, in))

	lines := f.out.Lines()
	require.NotEmpty(t, lines)
	assert.Equal(t, "one", lines[0])
	assert.Equal(t, "two", lines[len(lines)-1])
	assert.Equal(t, []string{"say one", "nope", "say two"}, f.hist.Entries())
}

func TestRunLinesStopsAtExit(t *testing.T) {
	f := newPromptFixture(t)
	exits := 0
	remove := f.sh.On(shell.EventExit, func(shell.Event) { exits++ })
	defer remove()

	in := strings.NewReader("say before\nexit\nsay after\n")
	require.NoError(t, RunLines(context.Background(), f.sh, in))

	assert.Equal(t, []string{"before"}, f.out.Lines())
	assert.Equal(t, 1, exits)
}

func TestRunLinesExitInsideModeLeavesMode(t *testing.T) {
	f := newPromptFixture(t)

	in := strings.NewReader("calc\nexit\nsay still here\n")
	require.NoError(t, RunLines(context.Background(), f.sh, in))

	assert.Contains(t, f.out.Lines(), "still here")
	assert.Nil(t, f.sh.Local().Mode())
}
