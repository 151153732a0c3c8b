package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/rileyhilliard/shellkit/internal/config"
	"github.com/rileyhilliard/shellkit/internal/errors"
	"github.com/rileyhilliard/shellkit/internal/exec"
	"github.com/rileyhilliard/shellkit/internal/util"
	"github.com/rileyhilliard/shellkit/pkg/shell"
)

// taskGroup is the command group config tasks are registered under.
const taskGroup = "task"

// registerTasks adds one "task <name> [args...]" command per configured task.
func registerTasks(sh *shell.Shell, cfg *config.Config) error {
	for _, name := range config.TaskNames(cfg) {
		task := cfg.Tasks[name]
		if _, err := sh.RegisterCommand(taskCommand(name, task)); err != nil {
			return err
		}
	}
	return nil
}

func taskCommand(name string, task config.TaskConfig) shell.Command {
	full := taskGroup + " " + name
	return shell.Command{
		Use:         full + " [args...]",
		Description: taskDescription(task),
		Parse:       passThrough(full),
		Action: shell.Sync(func(ctx context.Context, in *shell.Instance, args shell.Args) error {
			return runTask(ctx, in, name, task, args)
		}),
	}
}

func runTask(ctx context.Context, in *shell.Instance, name string, task config.TaskConfig, args shell.Args) error {
	stdout, stderr := in.Writer(), in.Writer()
	defer stdout.Flush()
	defer stderr.Flush()

	tio := exec.TaskIO{Stdout: stdout, Stderr: stderr}
	if extra := args.Strings("args"); len(extra) > 0 {
		if task.Run == "" {
			return errors.New(errors.ErrValidation,
				fmt.Sprintf("Task '%s' has steps and doesn't take arguments", name),
				"Pass arguments only to single-command tasks.")
		}
		tio.Args = util.ShellJoin(extra)
	}
	if len(args.Stdin) > 0 {
		tio.Stdin = strings.NewReader(strings.Join(args.Stdin, "\n") + "\n")
	}

	result, err := exec.ExecuteTask(ctx, &task, task.Env, tio)
	if err != nil {
		return err
	}
	if result.ExitCode == 0 {
		return nil
	}
	if result.FailedStep >= 0 && result.FailedStep < len(result.StepResults) {
		step := result.StepResults[result.FailedStep]
		return errors.Newf(errors.ErrExec, "Task '%s' failed at %s (exit %d)", name, step.Name, step.ExitCode)
	}
	return errors.Newf(errors.ErrExec, "Task '%s' failed (exit %d)", name, result.ExitCode)
}

func taskDescription(task config.TaskConfig) string {
	if task.Description != "" {
		return task.Description
	}
	if task.Run != "" {
		return "Runs: " + task.Run
	}
	return fmt.Sprintf("Runs %d steps", len(task.Commands()))
}
