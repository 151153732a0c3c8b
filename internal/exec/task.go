package exec

import (
	"context"
	"fmt"
	"io"

	"github.com/rileyhilliard/shellkit/internal/config"
	"github.com/rileyhilliard/shellkit/internal/errors"
)

// TaskResult contains the result of a task execution.
type TaskResult struct {
	ExitCode    int          // Final exit code (0 if all steps passed)
	StepResults []StepResult // Results for each step (nil for single-command tasks)
	FailedStep  int          // Index of first failed step (-1 if none)
}

// StepResult contains the result of a single step execution.
type StepResult struct {
	Name     string // Step name, or "step N" when unnamed
	ExitCode int    // Exit code from the step
	OnFail   string // The on_fail behavior for this step
}

// TaskIO wires a task's streams and extra arguments.
type TaskIO struct {
	Dir    string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Args are shell-quoted and appended to a single-command task.
	Args string
}

// ExecuteTask runs a task locally. Single-command tasks run Run; multi-step
// tasks run each step in order and honor on_fail.
func ExecuteTask(ctx context.Context, task *config.TaskConfig, env map[string]string, tio TaskIO) (*TaskResult, error) {
	if task == nil {
		return nil, errors.New(errors.ErrExec,
			"Task is nil",
			"This is an internal error - task should be validated before execution")
	}

	if task.Run != "" {
		cmd := task.Run
		if tio.Args != "" {
			cmd += " " + tio.Args
		}
		exitCode, err := tio.local(cmd, env).Run(ctx)
		if err != nil {
			return nil, err
		}
		return &TaskResult{ExitCode: exitCode, FailedStep: -1}, nil
	}

	if len(task.Steps) == 0 {
		return nil, errors.New(errors.ErrExec,
			"Task has no run command or steps",
			"Add either 'run' or 'steps' to your task configuration")
	}
	return executeSteps(ctx, task.Steps, env, tio)
}

func executeSteps(ctx context.Context, steps []config.TaskStep, env map[string]string, tio TaskIO) (*TaskResult, error) {
	result := &TaskResult{
		StepResults: make([]StepResult, 0, len(steps)),
		FailedStep:  -1,
	}

	for i, step := range steps {
		stepResult := StepResult{
			Name:   step.Name,
			OnFail: config.GetStepOnFail(step),
		}
		if step.Name == "" {
			stepResult.Name = fmt.Sprintf("step %d", i+1)
		}

		exitCode, err := tio.local(step.Run, env).Run(ctx)
		if err != nil {
			return nil, err
		}

		stepResult.ExitCode = exitCode
		result.StepResults = append(result.StepResults, stepResult)

		if exitCode != 0 {
			if result.FailedStep == -1 {
				result.FailedStep = i
			}
			result.ExitCode = exitCode
			if stepResult.OnFail == config.OnFailStop {
				return result, nil
			}
		}
	}

	return result, nil
}

func (tio TaskIO) local(cmd string, env map[string]string) Local {
	return Local{
		Command: cmd,
		Dir:     tio.Dir,
		Env:     env,
		Stdin:   tio.Stdin,
		Stdout:  tio.Stdout,
		Stderr:  tio.Stderr,
	}
}
