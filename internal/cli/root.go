package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rileyhilliard/shellkit/internal/errors"
	"github.com/rileyhilliard/shellkit/internal/terminal"
	"github.com/rileyhilliard/shellkit/internal/ui"
	"github.com/rileyhilliard/shellkit/pkg/shell"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the shellkit command tree.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:   "shellkit",
		Short: "Interactive shell with pipes, modes and config tasks",
		Long: `shellkit starts an interactive prompt for the demo command set and
any tasks declared in .shellkit.yaml.

Commands can be piped into each other, and calc opens a nested mode:
  say hello world | reverse | upper
  calc
  sh ls -la | upper

When stdin is not a terminal, lines are read and run one at a time:
  printf 'say hi\nhistory\n' | shellkit`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd.Context(), flags, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default: search for .shellkit.yaml)")
	pf.BoolVar(&flags.noColor, "no-color", false, "disable colored output")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")
	pf.StringVar(&flags.historyStore, "history-store", "", "history backend: memory, file or sqlite")

	root.AddCommand(newVersionCmd(), newExecCmd(flags))
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	err := NewRootCmd().ExecuteContext(ctx)
	if err == nil {
		return
	}
	if _, reported := err.(*errors.ExitError); !reported {
		fmt.Fprintln(os.Stderr, strings.TrimRight(err.Error(), "\n"))
	}
	os.Exit(errors.ExitCode(err))
}

// runShell drives the local session from the terminal prompt, or from in
// line by line when either end is not a terminal.
func runShell(ctx context.Context, flags *rootFlags, in io.Reader, out io.Writer) error {
	stdin, inFile := in.(*os.File)
	stdout, outFile := out.(*os.File)
	if inFile && outFile && terminal.IsTerminal(stdin) && terminal.IsTerminal(stdout) {
		return runPrompt(ctx, flags, stdout)
	}
	return runLines(ctx, flags, in, out)
}

func runPrompt(ctx context.Context, flags *rootFlags, out *os.File) error {
	r := terminal.NewProgramRenderer(out)
	prompter := &terminal.FormPrompter{}
	a, err := newApp(appOptions{flags: flags, renderer: r, prompter: prompter, interactive: true})
	if err != nil {
		return err
	}
	defer a.Close()

	r.Write(ui.RenderHeader(ui.HeaderInfo{
		Name:    "shellkit",
		Version: formatVersion(version),
		Tagline: "Type 'help' for commands, Tab to complete, 'exit' to quit.",
	}))
	return terminal.RunPrompt(ctx, a.shell, r, prompter)
}

func runLines(ctx context.Context, flags *rootFlags, in io.Reader, out io.Writer) error {
	a, err := newApp(appOptions{flags: flags, renderer: shell.WriterRenderer(out)})
	if err != nil {
		return err
	}
	defer a.Close()

	stop := cancelOnInterrupt(a.shell)
	defer stop()
	return terminal.RunLines(ctx, a.shell, in)
}

// cancelOnInterrupt makes SIGINT cancel the running line. An interrupt
// while nothing runs saves history and exits.
func cancelOnInterrupt(sh *shell.Shell) (stop func()) {
	sigs := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(sigs, os.Interrupt)

	go func() {
		for {
			select {
			case <-done:
				return
			case <-sigs:
				if sh.CancelCurrent() {
					continue
				}
				if h, ok := sh.Local().History().(interface{ Flush() error }); ok {
					_ = h.Flush()
				}
				os.Exit(130)
			}
		}
	}()

	return func() {
		signal.Stop(sigs)
		close(done)
	}
}
