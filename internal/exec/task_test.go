package exec

import (
	"bytes"
	"context"
	"testing"

	"github.com/rileyhilliard/shellkit/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteTaskSingleCommand(t *testing.T) {
	useSh(t)
	var stdout bytes.Buffer
	task := &config.TaskConfig{Run: "echo $GREETING"}

	result, err := ExecuteTask(context.Background(), task, map[string]string{"GREETING": "hi"},
		TaskIO{Stdout: &stdout, Args: "'there friend'"})
	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, -1, result.FailedStep)
	assert.Nil(t, result.StepResults)
	assert.Equal(t, "hi there friend\n", stdout.String())
}

func TestExecuteTaskSteps(t *testing.T) {
	useSh(t)

	tests := []struct {
		name       string
		steps      []config.TaskStep
		wantCode   int
		wantFailed int
		wantRan    int
		wantOut    string
	}{
		{
			name:       "all pass",
			steps:      []config.TaskStep{{Name: "one", Run: "echo 1"}, {Run: "echo 2"}},
			wantFailed: -1,
			wantRan:    2,
			wantOut:    "1\n2\n",
		},
		{
			name:       "stop on failure",
			steps:      []config.TaskStep{{Run: "exit 3"}, {Run: "echo never"}},
			wantCode:   3,
			wantFailed: 0,
			wantRan:    1,
		},
		{
			name:       "continue on failure",
			steps:      []config.TaskStep{{Run: "exit 3", OnFail: config.OnFailContinue}, {Run: "echo after"}},
			wantCode:   3,
			wantFailed: 0,
			wantRan:    2,
			wantOut:    "after\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout bytes.Buffer
			result, err := ExecuteTask(context.Background(), &config.TaskConfig{Steps: tt.steps}, nil, TaskIO{Stdout: &stdout})
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, result.ExitCode)
			assert.Equal(t, tt.wantFailed, result.FailedStep)
			assert.Len(t, result.StepResults, tt.wantRan)
			assert.Equal(t, tt.wantOut, stdout.String())
		})
	}
}

func TestExecuteTaskStepNames(t *testing.T) {
	useSh(t)
	task := &config.TaskConfig{Steps: []config.TaskStep{{Name: "lint", Run: "true"}, {Run: "true"}}}

	result, err := ExecuteTask(context.Background(), task, nil, TaskIO{})
	require.NoError(t, err)
	require.Len(t, result.StepResults, 2)
	assert.Equal(t, "lint", result.StepResults[0].Name)
	assert.Equal(t, "step 2", result.StepResults[1].Name)
	assert.Equal(t, config.OnFailStop, result.StepResults[1].OnFail)
}

func TestExecuteTaskInvalid(t *testing.T) {
	_, err := ExecuteTask(context.Background(), nil, nil, TaskIO{})
	assert.Error(t, err)

	_, err = ExecuteTask(context.Background(), &config.TaskConfig{}, nil, TaskIO{})
	assert.Error(t, err)
}
