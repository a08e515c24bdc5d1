package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"github.com/vk/taskgrid/internal/config"
	"github.com/vk/taskgrid/internal/ctxlog"
	"github.com/vk/taskgrid/internal/nodestore"
	"github.com/vk/taskgrid/internal/scheduler"
)

// ErrFailFast is the skip cause of tasks not started after a failure when
// fail-fast is enabled.
var ErrFailFast = errors.New("run stopped after first failure")

// Options configures an Executor.
type Options struct {
	// Workers is the number of tasks that may run at once. Values below two
	// select sequential, depth-first execution.
	Workers int
	// FailFast stops starting new tasks after the first failure.
	FailFast bool
	Launcher Launcher
	Stdin    io.Reader
	Stdout   io.Writer
	Stderr   io.Writer
	Reporter *Reporter
}

// Executor runs plans against one run's Execution Records.
type Executor struct {
	records nodestore.Store
	opts    Options
	// stopped is set once a task fails and fail-fast is on.
	stopped atomic.Bool
}

// New creates an executor over the given records.
func New(records nodestore.Store, opts Options) *Executor {
	if opts.Launcher == nil {
		opts.Launcher = OSLauncher{}
	}
	if opts.Stdout == nil {
		opts.Stdout = io.Discard
	}
	if opts.Stderr == nil {
		opts.Stderr = io.Discard
	}
	return &Executor{records: records, opts: opts}
}

// Run renders every planned task and then executes the plan. It returns nil
// when every planned task succeeded; otherwise the error wraps the first
// root-cause failure in plan order.
func (e *Executor) Run(ctx context.Context, model *config.Model, plan *scheduler.Plan, in Input) error {
	logger := ctxlog.FromContext(ctx)

	steps, err := e.render(ctx, model, plan, in)
	if err != nil {
		return err
	}

	if e.opts.Workers > 1 {
		logger.Debug("Executing plan concurrently.", "workers", e.opts.Workers, "tasks", plan.Len())
		e.runConcurrent(ctx, plan, steps)
	} else {
		logger.Debug("Executing plan sequentially.", "tasks", plan.Len())
		e.runSequential(ctx, plan, steps)
	}

	var failed []string
	var rootCause error
	for _, name := range plan.Order {
		if e.records.Status(ctx, name) != nodestore.Failed {
			continue
		}
		failed = append(failed, name)
		if rootCause == nil {
			rootCause = e.records.Err(ctx, name)
		}
	}
	if rootCause != nil {
		return fmt.Errorf("execution failed for %s: %w", strings.Join(failed, ", "), rootCause)
	}
	if status := e.records.Status(ctx, plan.Target); status != nodestore.Succeeded {
		return fmt.Errorf("target task %q finished as %s", plan.Target, status)
	}
	return nil
}

// render prepares every planned task before anything is spawned. A failure
// fails that task and skips every other planned task.
func (e *Executor) render(ctx context.Context, model *config.Model, plan *scheduler.Plan, in Input) (map[string]*Step, error) {
	logger := ctxlog.FromContext(ctx)
	steps := make(map[string]*Step, plan.Len())

	for _, name := range plan.Order {
		task, ok := model.Task(name)
		if !ok {
			return nil, fmt.Errorf("planned task %q is not defined", name)
		}
		step, err := Render(task, model.Settings, in)
		if err != nil {
			logger.Error("Task could not be rendered.", "task", name, "error", err)
			if ferr := e.records.Fail(ctx, name, err); ferr != nil {
				logger.Warn("Could not record render failure.", "task", name, "error", ferr)
			}
			e.opts.Reporter.Failed(name, err)
			for _, other := range plan.Order {
				if other == name {
					continue
				}
				e.skip(ctx, other, &SkipError{Task: other, Cause: err})
			}
			return nil, err
		}
		steps[name] = step
	}
	return steps, nil
}

func (e *Executor) runSequential(ctx context.Context, plan *scheduler.Plan, steps map[string]*Step) {
	for _, name := range plan.Order {
		if !e.ready(ctx, plan, name) {
			continue
		}
		e.runStep(ctx, steps[name])
	}
}

// ready reports whether a task may start. When it may not, the task is
// recorded Skipped with the reason.
func (e *Executor) ready(ctx context.Context, plan *scheduler.Plan, name string) bool {
	if err := ctx.Err(); err != nil {
		e.skip(ctx, name, &SkipError{Task: name, Cause: err})
		return false
	}
	if e.stopped.Load() {
		e.skip(ctx, name, &SkipError{Task: name, Cause: ErrFailFast})
		return false
	}
	for _, prereq := range plan.Prerequisites(name) {
		if e.records.Status(ctx, prereq) != nodestore.Succeeded {
			e.skip(ctx, name, &SkipError{Task: name, Upstream: prereq})
			return false
		}
	}
	return true
}

func (e *Executor) skip(ctx context.Context, name string, reason *SkipError) {
	if !e.records.Skip(ctx, name, reason) {
		return
	}
	logger := ctxlog.FromContext(ctx)
	logger.Warn("Skipping task.", "task", name, "reason", reason)
	if reason.Upstream != "" {
		e.opts.Reporter.Skipped(name, fmt.Sprintf("dependency %s did not succeed", reason.Upstream))
	} else {
		e.opts.Reporter.Skipped(name, reason.Cause.Error())
	}
}

// runStep claims and executes one task. Tasks already claimed in this run
// are left alone.
func (e *Executor) runStep(ctx context.Context, step *Step) {
	name := step.Task.Name
	ctx, logger := ctxlog.With(ctx, "task", name)

	if !e.records.Claim(ctx, name) {
		logger.Debug("Task already claimed in this run.", "status", e.records.Status(ctx, name))
		return
	}

	e.opts.Reporter.Running(name)
	var err error
	if step.Action == nil {
		logger.Debug("Aggregator task, nothing to spawn.")
	} else {
		logger.Info("▶️ Running task", "action", step.Action.String())
		err = step.Action.Run(ctx, &Invocation{
			Task:     name,
			Env:      step.Env,
			Dir:      step.Dir,
			Stdin:    e.opts.Stdin,
			Stdout:   e.opts.Stdout,
			Stderr:   e.opts.Stderr,
			Launcher: e.opts.Launcher,
		})
	}

	if err != nil {
		logger.Error("Task failed.", "error", err)
		if ferr := e.records.Fail(ctx, name, err); ferr != nil {
			logger.Error("Could not record task failure.", "error", ferr)
		}
		e.opts.Reporter.Failed(name, err)
		if e.opts.FailFast {
			e.stopped.Store(true)
		}
		return
	}

	if serr := e.records.Succeed(ctx, name); serr != nil {
		logger.Error("Could not record task success.", "error", serr)
		return
	}
	logger.Info("✅ Task succeeded")
	e.opts.Reporter.Succeeded(name)
}
