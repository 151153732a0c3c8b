package config

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Color modes for prompt.color.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config represents the complete .shellkit.yaml configuration file.
type Config struct {
	Version int                   `yaml:"version" mapstructure:"version"`
	Prompt  PromptConfig          `yaml:"prompt" mapstructure:"prompt"`
	History HistoryConfig         `yaml:"history" mapstructure:"history"`
	Log     LogConfig             `yaml:"log" mapstructure:"log"`
	Tasks   map[string]TaskConfig `yaml:"tasks" mapstructure:"tasks"`
}

// PromptConfig controls the interactive prompt.
type PromptConfig struct {
	// Delimiter is the base prompt. Modes append their own suffix.
	Delimiter string `yaml:"delimiter" mapstructure:"delimiter"`

	// Color mode: "auto", "always", or "never".
	// "auto" disables color when output is piped.
	Color string `yaml:"color" mapstructure:"color"`
}

// HistoryConfig selects where command history is kept.
type HistoryConfig struct {
	// Store is "memory", "file" or "sqlite".
	Store string `yaml:"store" mapstructure:"store"`

	// Path overrides the store location. Empty means the XDG state dir.
	Path string `yaml:"path" mapstructure:"path"`

	// Max is the number of entries kept.
	Max int `yaml:"max" mapstructure:"max"`

	// Key names the history within the store.
	Key string `yaml:"key" mapstructure:"key"`
}

// LogConfig controls diagnostic logging. With File empty, logs go to
// stderr and debug output follows SHELLKIT_DEBUG.
type LogConfig struct {
	Level      string `yaml:"level" mapstructure:"level"`
	File       string `yaml:"file" mapstructure:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days" mapstructure:"max_age_days"`
}

// TaskConfig defines a named task run through the local shell.
type TaskConfig struct {
	// Description shown in help.
	Description string `yaml:"description" mapstructure:"description"`

	// Run is the command to execute (for simple single-command tasks).
	Run string `yaml:"run" mapstructure:"run"`

	// Steps for multi-step tasks (mutually exclusive with Run).
	Steps []TaskStep `yaml:"steps" mapstructure:"steps"`

	// Env contains environment variables for this task.
	Env map[string]string `yaml:"env" mapstructure:"env"`
}

// TaskStep is a single step in a multi-step task.
type TaskStep struct {
	// Name identifies this step in output.
	Name string `yaml:"name" mapstructure:"name"`

	// Run is the command to execute.
	Run string `yaml:"run" mapstructure:"run"`

	// OnFail controls behavior when step fails: "stop" (default) or "continue".
	OnFail string `yaml:"on_fail" mapstructure:"on_fail"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		Prompt: PromptConfig{
			Delimiter: "shellkit$",
			Color:     ColorAuto,
		},
		History: HistoryConfig{
			Store: "file",
			Max:   500,
			Key:   "history",
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Tasks: make(map[string]TaskConfig),
	}
}
