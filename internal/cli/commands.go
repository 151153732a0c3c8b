package cli

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/rileyhilliard/shellkit/internal/errors"
	"github.com/rileyhilliard/shellkit/internal/exec"
	"github.com/rileyhilliard/shellkit/internal/ui"
	"github.com/rileyhilliard/shellkit/internal/util"
	"github.com/rileyhilliard/shellkit/pkg/shell"
)

// defaultHistoryLimit caps "history" output when --limit is not given.
const defaultHistoryLimit = 20

// registerCommands adds the demo command set to sh.
func registerCommands(sh *shell.Shell) error {
	commands := []shell.Command{
		sayCommand(),
		reverseCommand(),
		upperCommand(),
		shCommand(),
		historyCommand(),
	}
	for _, c := range commands {
		if _, err := sh.RegisterCommand(c); err != nil {
			return err
		}
	}
	_, err := sh.RegisterMode(calcCommand())
	return err
}

func sayCommand() shell.Command {
	return shell.Command{
		Use:         "say <words...>",
		Description: "Prints its arguments.",
		Action: shell.Sync(func(ctx context.Context, in *shell.Instance, args shell.Args) error {
			in.Log(args.String("words"))
			return nil
		}),
	}
}

func reverseCommand() shell.Command {
	return shell.Command{
		Use:         "reverse [text...]",
		Description: "Reverses piped input, or its arguments.",
		Action: shell.Sync(func(ctx context.Context, in *shell.Instance, args shell.Args) error {
			in.Log(reverseRunes(inputText(args, "text")))
			return nil
		}),
	}
}

func upperCommand() shell.Command {
	return shell.Command{
		Use:         "upper [text...]",
		Description: "Uppercases piped input, or its arguments.",
		Action: shell.Sync(func(ctx context.Context, in *shell.Instance, args shell.Args) error {
			in.Log(strings.ToUpper(inputText(args, "text")))
			return nil
		}),
	}
}

func shCommand() shell.Command {
	return shell.Command{
		Use:         "sh <command...>",
		Description: "Runs a command through the system shell. Piped input becomes its stdin.",
		Parse:       passThrough("sh"),
		Action: shell.Sync(func(ctx context.Context, in *shell.Instance, args shell.Args) error {
			command := shellText(args.Raw)
			stdout, stderr := in.Writer(), in.Writer()
			defer stdout.Flush()
			defer stderr.Flush()

			local := exec.Local{Command: command, Stdout: stdout, Stderr: stderr}
			if len(args.Stdin) > 0 {
				local.Stdin = strings.NewReader(strings.Join(args.Stdin, "\n") + "\n")
			}
			code, err := local.Run(ctx)
			if err != nil {
				return err
			}
			if code != 0 {
				return errors.Newf(errors.ErrExec, "'%s' exited with status %d", command, code)
			}
			return nil
		}),
	}
}

// shellText is the command text for /bin/sh: the arguments as typed, so
// quoting reaches the shell, minus the "--" that passThrough inserts.
func shellText(raw string) string {
	if raw == "--" {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(raw, "-- "))
}

// entryLister is the part of a persisted history the history command needs.
type entryLister interface {
	Entries() []string
	Clear() error
}

func historyCommand() shell.Command {
	return shell.Command{
		Use:         "history",
		Description: "Lists or clears the command history.",
		Options: []shell.Option{
			{Flags: "-c, --clear", Description: "Clear the saved history"},
			{Flags: "-y, --yes", Description: "Clear without asking"},
			{Flags: "-n, --limit <n>", Description: "Show at most n entries", Default: defaultHistoryLimit},
		},
		Action: shell.Sync(func(ctx context.Context, in *shell.Instance, args shell.Args) error {
			h, ok := in.Session().History().(entryLister)
			if !ok {
				return errors.New(errors.ErrAction,
					"This session keeps no history",
					"Start shellkit with a history store configured.")
			}

			if args.Bool("clear") {
				return clearHistory(ctx, in, h, args.Bool("yes"))
			}

			entries := h.Entries()
			limit := args.OptInt("limit", defaultHistoryLimit)
			start := 0
			if limit > 0 && len(entries) > limit {
				start = len(entries) - limit
			}
			for i := start; i < len(entries); i++ {
				in.Log(fmt.Sprintf("%s  %s", ui.MutedStyle().Render(fmt.Sprintf("%4d", i+1)), entries[i]))
			}
			return nil
		}),
	}
}

func clearHistory(ctx context.Context, in *shell.Instance, h entryLister, yes bool) error {
	n := len(h.Entries())
	if n == 0 {
		in.Log("History is already empty.")
		return nil
	}
	if !yes {
		answer, err := in.Prompt(ctx, shell.Question{
			Kind:    shell.AskConfirm,
			Message: fmt.Sprintf("Clear %d history %s?", n, util.Pluralize(n, "entry", "entries")),
			Default: "false",
		})
		if err != nil {
			return err
		}
		if !answer.Confirmed {
			in.Log("History kept.")
			return nil
		}
	}
	if err := h.Clear(); err != nil {
		return err
	}
	in.Log(ui.SuccessStyle().Render(fmt.Sprintf("%s Cleared %d %s", ui.SymbolSuccess, n, util.Pluralize(n, "entry", "entries"))))
	return nil
}

// calcCommand opens a mode where each line is evaluated as an expression.
// The previous result in the same session is available as "ans".
func calcCommand() shell.Command {
	c := &calc{last: map[*shell.Session]any{}}
	return shell.Command{
		Use:         "calc",
		Description: "Opens an expression calculator. Type 'exit' to leave.",
		Delimiter:   " calc>",
		Init: shell.Sync(func(ctx context.Context, in *shell.Instance, args shell.Args) error {
			c.reset(in.Session())
			in.Log(ui.MutedStyle().Render("Entering calc mode. Try 2 * (3 + 4), then ans + 1. Type 'exit' to leave."))
			return nil
		}),
		Action: shell.Sync(func(ctx context.Context, in *shell.Instance, args shell.Args) error {
			if args.Raw == "" {
				return nil
			}
			out, err := c.eval(in.Session(), args.Raw)
			if err != nil {
				return errors.WrapWithCode(err, errors.ErrAction,
					fmt.Sprintf("Can't evaluate '%s'", args.Raw),
					"Expressions look like 2 * (3 + 4) or max(1, ans).")
			}
			in.Log(out)
			return nil
		}),
	}
}

// calc keeps the last result per session.
type calc struct {
	mu   sync.Mutex
	last map[*shell.Session]any
}

func (c *calc) reset(s *shell.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last[s] = 0
}

func (c *calc) eval(s *shell.Session, input string) (any, error) {
	c.mu.Lock()
	env := map[string]any{"ans": c.last[s]}
	c.mu.Unlock()
	if env["ans"] == nil {
		env["ans"] = 0
	}

	program, err := expr.Compile(input, expr.Env(env))
	if err != nil {
		return nil, err
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.last[s] = out
	c.mu.Unlock()
	return out, nil
}

// inputText prefers piped input over the named variadic argument.
func inputText(args shell.Args, name string) string {
	if len(args.Stdin) > 0 {
		return strings.Join(args.Stdin, " ")
	}
	return args.String(name)
}

func reverseRunes(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}

// passThrough returns a Parse hook that ends option parsing right after
// the command name, so flags meant for an external program reach it as
// positional words: "sh ls -la" runs "ls -la".
func passThrough(name string) func(line string) string {
	return func(line string) string {
		head, pipes := shell.SplitPipes(line)
		rest := strings.TrimSpace(head)
		for _, word := range strings.Fields(name) {
			if !strings.HasPrefix(rest, word) {
				return line
			}
			rest = strings.TrimSpace(rest[len(word):])
		}
		if rest == "" || rest == "--help" || rest == "/?" || rest == "--" || strings.HasPrefix(rest, "-- ") {
			return line
		}
		return strings.Join(append([]string{name + " -- " + rest}, pipes...), " | ")
	}
}
