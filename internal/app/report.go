package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/vk/taskgrid/internal/config"
	"github.com/vk/taskgrid/internal/executor"
	"github.com/vk/taskgrid/internal/nodestore"
	"github.com/vk/taskgrid/internal/scheduler"
)

// printTaskList writes every task with its kind and description.
func (a *App) printTaskList(model *config.Model) {
	width := 0
	for _, t := range model.Tasks {
		width = max(width, len(t.Name))
	}
	for _, t := range model.Tasks {
		line := fmt.Sprintf("%-*s  %-10s", width, t.Name, taskLabel(t))
		if t.Description != "" {
			line += "  " + t.Description
		}
		fmt.Fprintln(a.stdout, line)
	}
}

// printFailureSummary lists failed tasks with their command or fragment and
// exit status, so task failures read differently from engine errors.
func (a *App) printFailureSummary(ctx context.Context, records nodestore.Store, plan *scheduler.Plan, noColor bool, headline string) {
	header := color.New(color.FgRed, color.Bold)
	if noColor {
		header.DisableColor()
	}

	var skipped int
	header.Fprintf(a.stderr, "[taskgrid] %s\n", headline)
	for _, name := range plan.Order {
		switch records.Status(ctx, name) {
		case nodestore.Failed:
			fmt.Fprintf(a.stderr, "  %s: %s\n", name, describeFailure(records.Err(ctx, name)))
		case nodestore.Skipped:
			skipped++
		}
	}
	if skipped > 0 {
		fmt.Fprintf(a.stderr, "  %d task(s) skipped\n", skipped)
	}
}

func describeFailure(err error) string {
	var exitErr *executor.ExitStatusError
	var spawnErr *executor.SpawnError
	var renderErr *executor.RenderError
	switch {
	case errors.As(err, &exitErr):
		return fmt.Sprintf("`%s` exited with status %d", exitErr.Command, exitErr.Code)
	case errors.As(err, &spawnErr):
		return fmt.Sprintf("`%s` could not be started: %v", spawnErr.Command, spawnErr.Err)
	case errors.As(err, &renderErr):
		return renderErr.Err.Error()
	case err != nil:
		return err.Error()
	default:
		return "failed"
	}
}
