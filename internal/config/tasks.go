package config

import (
	"fmt"
	"sort"

	"github.com/rileyhilliard/shellkit/internal/errors"
	"github.com/rileyhilliard/shellkit/internal/util"
)

// OnFail constants define what happens when a step fails.
const (
	OnFailStop     = "stop"     // Default: stop execution on failure
	OnFailContinue = "continue" // Continue to next step on failure
)

// GetTask returns a task by name from the config.
func GetTask(cfg *Config, name string) (*TaskConfig, error) {
	if cfg == nil {
		return nil, errors.New(errors.ErrConfig,
			"Config hasn't been loaded yet",
			"This is unexpected - load a config before looking up tasks.")
	}

	task, ok := cfg.Tasks[name]
	if !ok {
		hint := "Add tasks to your " + ConfigFileName + " under 'tasks:'."
		if names := TaskNames(cfg); len(names) > 0 {
			hint = fmt.Sprintf("Available tasks: %s", util.JoinOrNone(names))
		}
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("No task named '%s'", name),
			hint)
	}

	return &task, nil
}

// TaskNames returns the configured task names in sorted order.
func TaskNames(cfg *Config) []string {
	if cfg == nil {
		return nil
	}
	names := make([]string, 0, len(cfg.Tasks))
	for name := range cfg.Tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Commands returns the shell commands a task runs, in order.
func (t TaskConfig) Commands() []TaskStep {
	if t.Run != "" {
		return []TaskStep{{Run: t.Run}}
	}
	return t.Steps
}

// GetStepOnFail returns the on_fail behavior for a step.
// Defaults to "stop" if not specified.
func GetStepOnFail(step TaskStep) string {
	if step.OnFail == "" {
		return OnFailStop
	}
	return step.OnFail
}
