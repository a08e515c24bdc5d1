package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/taskgrid/internal/nodestore"
)

// AssertTaskStatus checks the final Execution Record of a planned task.
func AssertTaskStatus(t *testing.T, result *HarnessResult, task string, want nodestore.Status) {
	t.Helper()
	require.NotNil(t, result.Result, "run produced no result: %v", result.Err)

	got, ok := result.Result.Status[task]
	require.True(t, ok, "task %q was not planned; plan: %v", task, result.Result.Order)
	require.Equal(t, want, got, "unexpected status for task %q", task)
}

// AssertNoSpawns checks that no process was started.
func AssertNoSpawns(t *testing.T, result *HarnessResult) {
	t.Helper()
	require.Empty(t, result.Launcher.Lines(), "expected zero spawned processes")
}
