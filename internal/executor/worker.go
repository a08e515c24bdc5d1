package executor

import (
	"context"
	"sync/atomic"

	"github.com/sourcegraph/conc/pool"
	"github.com/vk/taskgrid/internal/ctxlog"
	"github.com/vk/taskgrid/internal/scheduler"
)

// runConcurrent executes the plan on a bounded pool. Each task carries a join
// counter of unfinished prerequisites; a task is handed to the pool once its
// counter reaches zero, whatever the prerequisites' outcome, and ready then
// decides whether it runs or is skipped.
func (e *Executor) runConcurrent(ctx context.Context, plan *scheduler.Plan, steps map[string]*Step) {
	logger := ctxlog.FromContext(ctx)

	counters := make(map[string]*atomic.Int32, plan.Len())
	readyChan := make(chan string, plan.Len())
	for _, name := range plan.Order {
		c := &atomic.Int32{}
		c.Store(int32(len(plan.Prerequisites(name))))
		counters[name] = c
		if c.Load() == 0 {
			logger.Debug("Found root task.", "task", name)
			readyChan <- name
		}
	}

	workers := pool.New().WithMaxGoroutines(e.opts.Workers)
	for remaining := plan.Len(); remaining > 0; remaining-- {
		name := <-readyChan
		workers.Go(func() {
			if e.ready(ctx, plan, name) {
				e.runStep(ctx, steps[name])
			}
			for _, dependent := range plan.Dependents(name) {
				if counters[dependent].Add(-1) == 0 {
					logger.Debug("Unlocking dependent task.", "task", dependent, "after", name)
					readyChan <- dependent
				}
			}
		})
	}
	workers.Wait()
}
