package loader

import (
	"context"

	"github.com/vk/taskgrid/internal/config"
	"github.com/vk/taskgrid/internal/ctxlog"
)

const (
	coreInitTask  = "init"
	coreEndTask   = "end"
	coreEmptyTask = "empty"
)

// coreTasks are appended, in this order, when the source does not define them.
var coreTasks = []*config.Task{
	{Name: coreEmptyTask, Description: "Empty task, does nothing."},
	{Name: coreInitTask, Description: "Runs before the requested task."},
	{Name: coreEndTask, Description: "Runs after the requested task succeeds."},
	{Name: config.DefaultTaskName, Description: "Runs when no task is named."},
}

// synthesizeCoreTasks adds the built-in aggregator tasks and hook names unless
// the definition opted out with skip_core_tasks.
func synthesizeCoreTasks(ctx context.Context, model *config.Model) {
	if model.Settings.SkipCoreTasks {
		return
	}
	logger := ctxlog.FromContext(ctx)

	for _, core := range coreTasks {
		if _, exists := model.Task(core.Name); exists {
			continue
		}
		t := *core
		model.Tasks = append(model.Tasks, &t)
		logger.Debug("Synthesized core task.", "task", t.Name)
	}

	if model.Settings.InitTask == "" {
		model.Settings.InitTask = coreInitTask
	}
	if model.Settings.EndTask == "" {
		model.Settings.EndTask = coreEndTask
	}
}
