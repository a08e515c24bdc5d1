package app

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/vk/taskgrid/internal/config"
	"github.com/vk/taskgrid/internal/ctxlog"
	"github.com/vk/taskgrid/internal/dag"
	"github.com/vk/taskgrid/internal/executor"
	"github.com/vk/taskgrid/internal/inmemorystore"
	"github.com/vk/taskgrid/internal/loader"
	"github.com/vk/taskgrid/internal/nodestore"
	"github.com/vk/taskgrid/internal/scheduler"
)

// Result is the outcome of one run.
type Result struct {
	RunID  string
	Source string
	Target string
	// Order is the planned execution order.
	Order []string
	// Status holds the final Execution Record state of every planned task.
	Status map[string]nodestore.Status
}

// Succeeded reports whether the target task succeeded.
func (r *Result) Succeeded() bool {
	return r != nil && r.Status[r.Target] == nodestore.Succeeded
}

// Run drives Loader → Validator → Scheduler → Executor for one invocation.
// Load and validation errors are returned before any task is attempted.
func (a *App) Run(ctx context.Context, cfg *Config) (*Result, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	path := cfg.MakefilePath
	if path == "" {
		discovered, err := loader.Discover(cfg.WorkDir)
		if err != nil {
			return nil, err
		}
		path = discovered
	}

	model, err := a.loader.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load definition: %w", err)
	}

	if cfg.List {
		a.printTaskList(model)
		return &Result{RunID: a.runID, Source: path}, nil
	}

	graph, err := dag.Build(ctx, model)
	if err != nil {
		return nil, fmt.Errorf("invalid task graph: %w", err)
	}

	target := cfg.Target
	if target == "" {
		target = model.Settings.DefaultTask
	}
	req := scheduler.Request{Target: target, Before: model.Settings.InitTask, After: model.Settings.EndTask}

	// Execution Records are owned by this run only.
	records := inmemorystore.New()
	plan, err := scheduler.New(graph, records).Plan(ctx, req)
	if err != nil {
		return nil, err
	}

	ctx, logger := ctxlog.With(ctx, "target", target)
	logger.Info("🚀 Starting run.", "source", path, "tasks", plan.Len(), "workers", cfg.Workers)

	exec := executor.New(records, executor.Options{
		Workers:  cfg.Workers,
		FailFast: cfg.FailFast,
		Launcher: a.launcher,
		Stdin:    a.stdin,
		Stdout:   a.stdout,
		Stderr:   a.stderr,
		Reporter: executor.NewReporter(a.stderr, cfg.NoColor),
	})
	runErr := exec.Run(ctx, model, plan, executor.Input{
		Args:    cfg.Args,
		Environ: a.environ,
		Dir:     definitionDir(path),
	})

	result := &Result{RunID: a.runID, Source: path, Target: target, Order: plan.Order, Status: make(map[string]nodestore.Status, plan.Len())}
	for _, name := range plan.Order {
		result.Status[name] = records.Status(ctx, name)
	}

	if runErr != nil && result.Succeeded() {
		// Only tasks planned after the target can fail once it has succeeded.
		a.printFailureSummary(ctx, records, plan, cfg.NoColor, fmt.Sprintf("Target %s succeeded, but later tasks failed", target))
		logger.Warn("Tasks after the target failed.", "error", runErr)
		return result, nil
	}
	if runErr != nil {
		a.printFailureSummary(ctx, records, plan, cfg.NoColor, fmt.Sprintf("Run failed for target %s", target))
		logger.Error("Run failed.", "error", runErr)
		return result, runErr
	}
	if !result.Succeeded() {
		return result, fmt.Errorf("target task %q finished as %s", target, result.Status[target])
	}

	logger.Info("🏁 Run finished.")
	return result, nil
}

func definitionDir(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Dir(path)
	}
	return filepath.Dir(abs)
}

// taskLabel renders a task's action for reports.
func taskLabel(t *config.Task) string {
	switch {
	case t.IsAggregator():
		return "aggregator"
	case t.Command != "":
		return "command"
	default:
		return "script"
	}
}
