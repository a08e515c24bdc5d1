package executor_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/taskgrid/internal/config"
	"github.com/vk/taskgrid/internal/executor"
)

func TestRender_Command(t *testing.T) {
	testCases := []struct {
		name     string
		args     []string
		trailing []string
		want     []string
	}{
		{
			name:     "placeholder entry splices every argument",
			args:     []string{"build", "${@}", "--release"},
			trailing: []string{"--features", "a b"},
			want:     []string{"build", "--features", "a b", "--release"},
		},
		{
			name:     "placeholder entry with no arguments disappears",
			args:     []string{"build", "${@}"},
			trailing: nil,
			want:     []string{"build"},
		},
		{
			name:     "embedded placeholder joins with spaces",
			args:     []string{"--flags=${@}"},
			trailing: []string{"-v", "-x"},
			want:     []string{"--flags=-v -x"},
		},
		{
			name:     "environment references resolve from the merged env",
			args:     []string{"--target", "${TARGET}", "${UNSET}x"},
			trailing: nil,
			want:     []string{"--target", "x86_64-unknown-none", "x"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Arrange ---
			task := &config.Task{Name: "build-kernel", Command: "cargo", Args: tc.args}
			settings := config.NewSettings()
			settings.Env["TARGET"] = "x86_64-unknown-none"

			// --- Act ---
			step, err := executor.Render(task, settings, executor.Input{Args: tc.trailing, Dir: "/work"})

			// --- Assert ---
			require.NoError(t, err)
			cmd, ok := step.Action.(*executor.ExternalCommand)
			require.True(t, ok)
			assert.Equal(t, "cargo", cmd.Name)
			assert.Equal(t, tc.want, cmd.Args)
		})
	}
}

func TestRender_Script(t *testing.T) {
	// --- Arrange ---
	task := &config.Task{
		Name:   "usb",
		Script: []string{"./write-usb.sh ${@}", "echo ${HOME}"},
	}
	settings := config.NewSettings()

	// --- Act ---
	step, err := executor.Render(task, settings, executor.Input{Args: []string{"/dev/sdb", "--force"}})

	// --- Assert ---
	require.NoError(t, err)
	script, ok := step.Action.(*executor.ScriptBody)
	require.True(t, ok)
	assert.Equal(t, "sh", script.Runner)
	assert.Equal(t, []string{"./write-usb.sh /dev/sdb --force", "echo ${HOME}"}, script.Fragments,
		"only the placeholder is substituted in scripts")
}

func TestRender_ScriptRunnerOverride(t *testing.T) {
	settings := config.NewSettings()
	settings.ScriptRunner = "bash"

	step, err := executor.Render(&config.Task{Name: "a", Script: []string{"true"}}, settings, executor.Input{})
	require.NoError(t, err)
	assert.Equal(t, "bash", step.Action.(*executor.ScriptBody).Runner)

	step, err = executor.Render(&config.Task{Name: "b", Script: []string{"true"}, ScriptRunner: "zsh"}, settings, executor.Input{})
	require.NoError(t, err)
	assert.Equal(t, "zsh", step.Action.(*executor.ScriptBody).Runner)
}

func TestRender_Environment(t *testing.T) {
	// --- Arrange ---
	settings := config.NewSettings()
	settings.Env = map[string]string{"PROFILE": "release", "SHARED": "global"}
	task := &config.Task{Name: "a", Env: map[string]string{"SHARED": "task"}}
	in := executor.Input{Environ: map[string]string{"PATH": "/bin", "PROFILE": "ambient"}}

	// --- Act ---
	step, err := executor.Render(task, settings, in)

	// --- Assert ---
	require.NoError(t, err)
	assert.Nil(t, step.Action, "a task without command or script is an aggregator")
	assert.Equal(t, []string{"PATH=/bin", "PROFILE=release", "SHARED=task"}, step.Env)
}

func TestRender_WorkingDirectory(t *testing.T) {
	settings := config.NewSettings()
	in := executor.Input{Dir: "/project"}

	step, err := executor.Render(&config.Task{Name: "a", Cwd: "kernel"}, settings, in)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/project", "kernel"), step.Dir)

	step, err = executor.Render(&config.Task{Name: "b", Cwd: "/abs"}, settings, in)
	require.NoError(t, err)
	assert.Equal(t, "/abs", step.Dir)

	step, err = executor.Render(&config.Task{Name: "c"}, settings, in)
	require.NoError(t, err)
	assert.Equal(t, "/project", step.Dir)
}

func TestRender_Errors(t *testing.T) {
	t.Run("missing arguments", func(t *testing.T) {
		task := &config.Task{Name: "usb-check", Script: []string{"test -b ${@}"}, MinArgs: 1}

		_, err := executor.Render(task, config.NewSettings(), executor.Input{})

		require.ErrorIs(t, err, executor.ErrMissingArguments)
		assert.NotErrorIs(t, err, executor.ErrRender)
		var renderErr *executor.RenderError
		require.True(t, errors.As(err, &renderErr))
		assert.Equal(t, "usb-check", renderErr.Task)
	})

	t.Run("unterminated reference in args", func(t *testing.T) {
		task := &config.Task{Name: "a", Command: "echo", Args: []string{"${OOPS"}}

		_, err := executor.Render(task, config.NewSettings(), executor.Input{})

		require.ErrorIs(t, err, executor.ErrRender)
		assert.ErrorContains(t, err, "args[0]")
	})

	t.Run("unterminated reference in script is left to the shell", func(t *testing.T) {
		task := &config.Task{Name: "a", Script: []string{"echo ${OOPS"}}

		_, err := executor.Render(task, config.NewSettings(), executor.Input{})

		assert.NoError(t, err)
	})
}
