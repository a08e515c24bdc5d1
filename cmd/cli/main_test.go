package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/taskgrid/internal/cli"
)

func writeDefinition(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600), "failed to set up test file")
	return path
}

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func environ() []string {
	return []string{"PATH=" + os.Getenv("PATH")}
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, &bytes.Buffer{}, []string{"-h"}, nil)

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{"--this-is-not-a-valid-flag"}, nil)

	require.Error(t, err, "run() should return an error when argument parsing fails")
	assert.Equal(t, cli.ExitInvalidInvocation, cli.ExitCode(err))
	assert.Contains(t, err.Error(), "unknown flag: --this-is-not-a-valid-flag")
}

func TestRun_RealProcesses(t *testing.T) {
	requireShell(t)
	t.Parallel()

	// --- Arrange ---
	path := writeDefinition(t, "Makefile.toml", `
[config]
skip_core_tasks = true

[env]
GREETING = "hello"

[tasks.greet]
command = "echo"
args = ["${GREETING}", "${@}"]

[tasks.script]
dependencies = ["greet"]
script = ["echo from-script ${@}", "echo $GREETING-again"]
`)
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, &bytes.Buffer{}, []string{"-f", path, "--no-color", "script", "a", "b"}, environ())

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, "hello a b\nfrom-script a b\nhello-again\n", out.String())
}

func TestRun_ExitCodes(t *testing.T) {
	requireShell(t)
	t.Parallel()

	definition := `
[config]
skip_core_tasks = true

[tasks.ok]
script = "true"

[tasks.fails]
script = ["exit 7", "echo never"]

[tasks.missing-binary]
command = "definitely-not-a-real-binary-4711"

[tasks.needs-arg]
min_args = 1
script = "echo ${@}"
`

	testCases := []struct {
		name string
		args []string
		want int
	}{
		{name: "success", args: []string{"ok"}, want: cli.ExitOK},
		{name: "non-zero exit", args: []string{"fails"}, want: cli.ExitTaskFailure},
		{name: "spawn failure", args: []string{"missing-binary"}, want: cli.ExitTaskFailure},
		{name: "missing arguments", args: []string{"needs-arg"}, want: cli.ExitInvalidInvocation},
		{name: "unknown target", args: []string{"nope"}, want: cli.ExitInvalidInvocation},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeDefinition(t, "Makefile.toml", definition)
			out, errOut := &bytes.Buffer{}, &bytes.Buffer{}

			err := run(context.Background(), out, errOut, append([]string{"-f", path, "--no-color"}, tc.args...), environ())

			assert.Equal(t, tc.want, cli.ExitCode(err), "stderr:\n%s", errOut.String())
			assert.NotContains(t, out.String(), "never")
		})
	}
}

func TestRun_CycleIsDefinitionError(t *testing.T) {
	t.Parallel()

	path := writeDefinition(t, "Makefile.toml", "[tasks.A]\ndependencies = [\"B\"]\n[tasks.B]\ndependencies = [\"A\"]\n")

	err := run(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, []string{"-f", path, "A"}, nil)

	require.Error(t, err)
	assert.Equal(t, cli.ExitDefinitionError, cli.ExitCode(err))
	assert.Contains(t, err.Error(), "cyclic dependency: A -> B -> A")
}
