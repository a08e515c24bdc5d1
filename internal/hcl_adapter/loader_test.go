package hcl_adapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/taskgrid/internal/config"
)

func decode(t *testing.T, src string, environ map[string]string) (*config.Model, error) {
	t.Helper()
	return NewLoader(environ).Decode(context.Background(), "Taskfile.hcl", []byte(src))
}

func TestDecode_FullDefinition(t *testing.T) {
	// --- Arrange ---
	src := `
		config {
		  skip_core_tasks = true
		  script_runner   = "bash"
		  env = {
		    DISK_IMG = "${env.HOME}/disk.img"
		  }
		}

		task "build-loader" {
		  description = "Build the UEFI loader"
		  cwd         = "loader"
		  command     = "cargo"
		  args        = ["build", "$${@}"]
		}

		task "clean" {
		  script = ["rm -rf build", "rm -f ${env.HOME}/disk.img"]
		}

		task "mount" {
		  script   = "sudo mount -o loop $DISK_IMG mnt"
		  min_args = 1
		  unknown  = "ignored"
		}

		task "build" {
		  dependencies = ["build-loader", "clean"]
		}
	`

	// --- Act ---
	model, err := decode(t, src, map[string]string{"HOME": "/home/mikan"})

	// --- Assert ---
	require.NoError(t, err)
	assert.True(t, model.Settings.SkipCoreTasks)
	assert.Equal(t, "bash", model.Settings.ScriptRunner)
	assert.Equal(t, "/home/mikan/disk.img", model.Settings.Env["DISK_IMG"])
	assert.Equal(t, []string{"build-loader", "clean", "mount", "build"}, model.TaskNames())

	loader, ok := model.Task("build-loader")
	require.True(t, ok)
	assert.Equal(t, "cargo", loader.Command)
	assert.Equal(t, []string{"build", config.Placeholder}, loader.Args)
	assert.Equal(t, "loader", loader.Cwd)
	assert.Equal(t, "Build the UEFI loader", loader.Description)

	clean, _ := model.Task("clean")
	assert.Equal(t, []string{"rm -rf build", "rm -f /home/mikan/disk.img"}, clean.Script)

	mount, _ := model.Task("mount")
	assert.Equal(t, []string{"sudo mount -o loop $DISK_IMG mnt"}, mount.Script)
	assert.Equal(t, 1, mount.MinArgs)

	build, _ := model.Task("build")
	assert.True(t, build.IsAggregator())
	assert.Equal(t, []string{"build-loader", "clean"}, build.Dependencies)
}

func TestDecode_Errors(t *testing.T) {
	testCases := []struct {
		name        string
		src         string
		wantSection string
		wantErr     string
	}{
		{
			name:    "syntax error",
			src:     `task "a" {`,
			wantErr: "failed to parse HCL",
		},
		{
			name:        "script with nested list",
			src:         `task "a" { script = [["x"]] }`,
			wantSection: `task "a"`,
			wantErr:     "script must be a string or a list of strings",
		},
		{
			name:        "args not a list",
			src:         `task "a" { args = { x = 1 } }`,
			wantSection: `task "a"`,
		},
		{
			name:        "unknown env reference",
			src:         `config { env = { A = env.NOPE } }`,
			wantSection: "config",
		},
		{
			name:        "two config blocks",
			src:         "config {}\nconfig {}",
			wantSection: "config",
			wantErr:     "at most one config block",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := decode(t, tc.src, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, config.ErrMalformedDefinition)

			var defErr *config.DefinitionError
			require.ErrorAs(t, err, &defErr)
			assert.Equal(t, tc.wantSection, defErr.Section)
			if tc.wantErr != "" {
				assert.ErrorContains(t, err, tc.wantErr)
			}
		})
	}
}
