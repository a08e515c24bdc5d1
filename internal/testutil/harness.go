package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/taskgrid/internal/app"
	"github.com/vk/taskgrid/internal/cli"
	"github.com/vk/taskgrid/internal/loader"
)

// SafeBuffer is a thread-safe buffer for capturing output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	// Stdout receives task output and --list.
	Stdout string
	// Stderr receives logs, progress lines and the failure summary.
	Stderr   string
	Result   *app.Result
	Err      error
	ExitCode int
	Launcher *RecordingLauncher
}

// RunIntegrationTest writes files into a temporary directory and runs the
// full CLI → app pipeline there with a RecordingLauncher, so no real process
// is started.
func RunIntegrationTest(t *testing.T, files map[string]string, args ...string) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithLauncher(context.Background(), t, files, &RecordingLauncher{}, args...)
}

// RunIntegrationTestWithLauncher is RunIntegrationTest with a caller-provided
// context and launcher.
func RunIntegrationTestWithLauncher(ctx context.Context, t *testing.T, files map[string]string, launcher *RecordingLauncher, args ...string) *HarnessResult {
	t.Helper()

	// 1. Create a temporary root directory and write every file into it.
	tmpDir := t.TempDir()
	for name, content := range files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0o755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0o644))
	}

	stdout, stderr := &SafeBuffer{}, &SafeBuffer{}
	result := &HarnessResult{Launcher: launcher}

	// 2. Parse the CLI exactly as main does, rooted at the temporary directory.
	cliArgs := append([]string{"--directory", tmpDir, "--no-color", "--log-level", "debug"}, args...)
	appConfig, shouldExit, err := cli.Parse(cliArgs, stdout)
	if err == nil && !shouldExit {
		environ := map[string]string{"PATH": os.Getenv("PATH"), "HOME": tmpDir}
		testApp := app.NewApp(stdout, stderr, appConfig, loader.New(environ),
			app.WithLauncher(launcher),
			app.WithEnviron(environ),
		)
		result.Result, err = testApp.Run(ctx, appConfig)
	}

	result.Err = err
	result.ExitCode = cli.ExitCode(err)
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()

	if os.Getenv("TASKGRID_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), result.Stderr)
	}
	return result
}
