package config

import (
	"fmt"
	"regexp"

	"github.com/rileyhilliard/shellkit/internal/errors"
	"github.com/rileyhilliard/shellkit/internal/logger"
	"github.com/rileyhilliard/shellkit/pkg/shell/store"
)

// ReservedTaskNames are command names that cannot be used as task names.
var ReservedTaskNames = map[string]bool{
	"help":    true,
	"exit":    true,
	"quit":    true,
	"say":     true,
	"reverse": true,
	"upper":   true,
	"sh":      true,
	"history": true,
	"calc":    true,
	"task":    true,
}

var taskNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// IsReservedTaskName reports whether name is taken by a built-in command.
func IsReservedTaskName(name string) bool {
	return ReservedTaskNames[name]
}

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but shellkit only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade shellkit, or lower 'version' in your config.")
	}

	if err := validatePrompt(cfg.Prompt); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'prompt' section in your "+ConfigFileName+".")
	}

	if err := validateHistory(cfg.History); err != nil {
		return err
	}

	if err := validateLog(cfg.Log); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'log' section in your "+ConfigFileName+".")
	}

	for name, task := range cfg.Tasks {
		if ReservedTaskNames[name] {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Can't use '%s' as a task name - that's a built-in command", name),
				fmt.Sprintf("Pick a different name, like 'my-%s' or 'do-%s'.", name, name))
		}
		if err := validateTask(name, task); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check your task config in "+ConfigFileName+".")
		}
	}

	return nil
}

func validatePrompt(p PromptConfig) error {
	switch p.Color {
	case ColorAuto, ColorAlways, ColorNever:
		return nil
	default:
		return fmt.Errorf("prompt.color is '%s' but it needs to be 'auto', 'always', or 'never'", p.Color)
	}
}

func validateHistory(h HistoryConfig) error {
	if _, err := store.ParseKind(h.Store); err != nil {
		return err
	}
	if h.Max < 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("history.max can't be negative (got %d)", h.Max),
			"Use 0 to keep nothing, or a positive limit.")
	}
	if h.Key == "" {
		return errors.New(errors.ErrConfig,
			"history.key is empty",
			"Remove it to use the default, or set a name like 'history'.")
	}
	return nil
}

func validateLog(l LogConfig) error {
	if _, ok := logger.LookupLevel(l.Level); !ok {
		return fmt.Errorf("log.level is '%s' but it needs to be 'debug', 'info', 'warn', or 'error'", l.Level)
	}
	if l.MaxSizeMB < 0 || l.MaxBackups < 0 || l.MaxAgeDays < 0 {
		return fmt.Errorf("log rotation limits can't be negative")
	}
	return nil
}

func validateTask(name string, task TaskConfig) error {
	if !taskNamePattern.MatchString(name) {
		return fmt.Errorf("task name '%s' must be a single word of letters, digits, '.', '_' or '-'", name)
	}

	hasRun := task.Run != ""
	hasSteps := len(task.Steps) > 0

	if !hasRun && !hasSteps {
		return fmt.Errorf("task '%s' needs either 'run' (single command) or 'steps' (multiple commands)", name)
	}

	if hasRun && hasSteps {
		return fmt.Errorf("task '%s' has both 'run' and 'steps' - pick one or the other", name)
	}

	for i, step := range task.Steps {
		if step.Run == "" {
			return fmt.Errorf("task '%s' step %d is missing the 'run' command", name, i+1)
		}
		if step.OnFail != "" && step.OnFail != OnFailStop && step.OnFail != OnFailContinue {
			return fmt.Errorf("task '%s' step %d has on_fail='%s' but it needs to be 'stop' or 'continue'", name, i+1, step.OnFail)
		}
	}

	return nil
}
