package app

import (
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/vk/taskgrid/internal/config"
	"github.com/vk/taskgrid/internal/executor"
	"github.com/vk/taskgrid/internal/loader"
)

// App encapsulates the dependencies of one invocation.
type App struct {
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
	logW     io.Writer
	logger   *slog.Logger
	loader   config.Loader
	launcher executor.Launcher
	environ  map[string]string
	runID    string
}

// Option customizes an App.
type Option func(*App)

// WithLauncher replaces the process launcher.
func WithLauncher(l executor.Launcher) Option {
	return func(a *App) { a.launcher = l }
}

// WithStdin sets the standard input handed to task processes.
func WithStdin(r io.Reader) Option {
	return func(a *App) { a.stdin = r }
}

// WithEnviron replaces the ambient environment passed to task processes.
func WithEnviron(environ map[string]string) Option {
	return func(a *App) { a.environ = environ }
}

// WithLogOutput sends structured logs somewhere other than stderr.
func WithLogOutput(w io.Writer) Option {
	return func(a *App) { a.logW = w }
}

// NewApp is the constructor for the run controller. Task output goes to
// stdout / stderr; logs and progress lines go to stderr.
func NewApp(stdout, stderr io.Writer, cfg *Config, ldr config.Loader, opts ...Option) *App {
	a := &App{
		stdout:   stdout,
		stderr:   stderr,
		logW:     stderr,
		loader:   ldr,
		launcher: executor.OSLauncher{},
		runID:    uuid.NewString(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.environ == nil {
		a.environ = loader.EnvironMap(os.Environ())
	}
	a.logger = newLogger(cfg.LogLevel, cfg.LogFormat, a.logW).With("run_id", a.runID)
	a.logger.Debug("Logger configured successfully.")
	return a
}
