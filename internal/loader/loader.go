package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/taskgrid/internal/config"
	"github.com/vk/taskgrid/internal/ctxlog"
	"github.com/vk/taskgrid/internal/hcl_adapter"
)

// DefaultFileNames are probed, in order, when no definition path is given.
var DefaultFileNames = []string{"Taskfile.hcl", "Makefile.toml", "taskgrid.yaml", "taskgrid.yml"}

// ErrNoDefinition is returned by Discover when no default file exists.
var ErrNoDefinition = errors.New("no definition file found")

// Loader implements config.Loader for every supported format.
type Loader struct {
	environ map[string]string
}

// New creates a loader that expands references against the given ambient
// environment. A nil environment means the current process environment.
func New(environ map[string]string) *Loader {
	if environ == nil {
		environ = EnvironMap(os.Environ())
	}
	return &Loader{environ: environ}
}

// Load reads path once and translates it into the model.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	ctx, logger := ctxlog.With(ctx, "source", path)
	logger.Debug("Loading definition source.")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, config.Malformed(path, "", err)
	}

	var model *config.Model
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".hcl":
		model, err = hcl_adapter.NewLoader(l.environ).Decode(ctx, path, data)
	case ".toml":
		model, err = decodeTOML(ctx, path, data, l.environ)
	case ".yaml", ".yml":
		model, err = decodeYAML(ctx, path, data, l.environ)
	default:
		err = config.Malformed(path, "", fmt.Errorf("unsupported definition format %q", ext))
	}
	if err != nil {
		return nil, err
	}

	model.Source = path
	if err := finish(ctx, model); err != nil {
		return nil, err
	}

	logger.Debug("Definition loaded.", "tasks", model.TaskNames(), "skip_core_tasks", model.Settings.SkipCoreTasks)
	return model, nil
}

// finish applies engine defaults, synthesizes core tasks and checks every
// task's structural invariants.
func finish(ctx context.Context, model *config.Model) error {
	s := model.Settings
	if s.ScriptRunner == "" {
		s.ScriptRunner = config.DefaultScriptRunner
	}
	if s.DefaultTask == "" {
		s.DefaultTask = config.DefaultTaskName
	}

	seen := make(map[string]struct{}, len(model.Tasks))
	for _, t := range model.Tasks {
		if _, dup := seen[t.Name]; dup {
			return config.Malformed(model.Source, config.TaskSection(t.Name), errors.New("duplicate task definition"))
		}
		seen[t.Name] = struct{}{}
		if err := t.Validate(); err != nil {
			return config.Malformed(model.Source, config.TaskSection(t.Name), err)
		}
	}

	synthesizeCoreTasks(ctx, model)
	return nil
}

// Discover returns the first default definition file present in dir.
func Discover(dir string) (string, error) {
	for _, name := range DefaultFileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w in %s (looked for %s)", ErrNoDefinition, dir, strings.Join(DefaultFileNames, ", "))
}
