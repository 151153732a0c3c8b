package cli

import (
	"os"
	"os/signal"
	"strings"

	"github.com/rileyhilliard/shellkit/internal/errors"
	"github.com/rileyhilliard/shellkit/pkg/shell"
	"github.com/spf13/cobra"
)

// Exit codes for exec.
const (
	exitFailed    = 1
	exitCancelled = 130
)

func newExecCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "exec <line...>",
		Short: "Run one command line and exit",
		Long: `Run a single shellkit command line without starting the prompt.

The arguments are joined with spaces into one line, so quote pipes to keep
your shell from interpreting them.

Examples:
  shellkit exec say hello
  shellkit exec "say hello | reverse"
  shellkit exec task build`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			a, err := newApp(appOptions{flags: flags, renderer: shell.WriterRenderer(cmd.OutOrStdout())})
			if err != nil {
				return err
			}
			defer a.Close()

			line := strings.Join(args, " ")
			res := a.shell.Run(ctx, line)
			switch {
			case res.Cancelled || ctx.Err() != nil:
				return errors.NewExitError(exitCancelled)
			case res.Err != nil:
				// The session has already rendered the failure.
				return errors.NewExitError(exitFailed)
			}
			return nil
		},
	}
}
