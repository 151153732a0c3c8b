package config

import (
	"testing"

	"github.com/rileyhilliard/shellkit/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantMsg string
	}{
		{
			name:    "future version",
			mutate:  func(cfg *Config) { cfg.Version = CurrentConfigVersion + 1 },
			wantMsg: "from the future",
		},
		{
			name:    "unknown color",
			mutate:  func(cfg *Config) { cfg.Prompt.Color = "sometimes" },
			wantMsg: "prompt.color is 'sometimes'",
		},
		{
			name:    "unknown store",
			mutate:  func(cfg *Config) { cfg.History.Store = "redis" },
			wantMsg: "Unknown history store 'redis'",
		},
		{
			name:    "negative max",
			mutate:  func(cfg *Config) { cfg.History.Max = -1 },
			wantMsg: "history.max can't be negative",
		},
		{
			name:    "empty key",
			mutate:  func(cfg *Config) { cfg.History.Key = "" },
			wantMsg: "history.key is empty",
		},
		{
			name:    "unknown log level",
			mutate:  func(cfg *Config) { cfg.Log.Level = "loud" },
			wantMsg: "log.level is 'loud'",
		},
		{
			name:    "negative rotation",
			mutate:  func(cfg *Config) { cfg.Log.MaxBackups = -2 },
			wantMsg: "can't be negative",
		},
		{
			name:    "reserved task name",
			mutate:  func(cfg *Config) { cfg.Tasks["help"] = TaskConfig{Run: "true"} },
			wantMsg: "Can't use 'help' as a task name",
		},
		{
			name:    "task name with spaces",
			mutate:  func(cfg *Config) { cfg.Tasks["two words"] = TaskConfig{Run: "true"} },
			wantMsg: "must be a single word",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrConfig))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidateTask(t *testing.T) {
	tests := []struct {
		name    string
		task    TaskConfig
		wantErr string
	}{
		{name: "run only", task: TaskConfig{Run: "make"}},
		{name: "steps only", task: TaskConfig{Steps: []TaskStep{{Run: "a"}, {Run: "b", OnFail: OnFailContinue}}}},
		{name: "neither", task: TaskConfig{}, wantErr: "needs either 'run'"},
		{name: "both", task: TaskConfig{Run: "a", Steps: []TaskStep{{Run: "b"}}}, wantErr: "has both 'run' and 'steps'"},
		{name: "step without run", task: TaskConfig{Steps: []TaskStep{{Name: "x"}}}, wantErr: "step 1 is missing"},
		{name: "bad on_fail", task: TaskConfig{Steps: []TaskStep{{Run: "a", OnFail: "retry"}}}, wantErr: "on_fail='retry'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTask("build", tt.task)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestIsReservedTaskName(t *testing.T) {
	assert.True(t, IsReservedTaskName("help"))
	assert.True(t, IsReservedTaskName("calc"))
	assert.False(t, IsReservedTaskName("build"))
}
