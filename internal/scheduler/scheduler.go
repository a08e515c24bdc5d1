package scheduler

import (
	"context"
	"fmt"

	"github.com/vk/taskgrid/internal/ctxlog"
	"github.com/vk/taskgrid/internal/dag"
	"github.com/vk/taskgrid/internal/nodestore"
)

// Request names the target and the optional hooks around it.
type Request struct {
	Target string
	// Before runs ahead of the target; the target's subtree waits for it.
	Before string
	// After runs once the target has succeeded.
	After string
}

// Scheduler computes plans over a validated graph.
type Scheduler struct {
	graph   *dag.Graph
	records nodestore.Store
}

// New creates a scheduler for the given graph and the run's records.
func New(g *dag.Graph, records nodestore.Store) *Scheduler {
	return &Scheduler{graph: g, records: records}
}

// Plan returns the tasks to run for req. The traversal is depth-first from
// each root, prerequisites before the task, siblings in declaration order.
// Tasks already Succeeded in this run are left out.
//
// Hooks are planned in three parts: Before, Target, After. A task first
// reached in a later part that has no prerequisite in that same part waits
// on the previous part's root, which makes the whole part run after it.
func (s *Scheduler) Plan(ctx context.Context, req Request) (*Plan, error) {
	logger := ctxlog.FromContext(ctx)

	if !s.graph.Has(req.Target) {
		return nil, &TargetError{Target: req.Target}
	}
	for _, hook := range []string{req.Before, req.After} {
		if hook != "" && !s.graph.Has(hook) {
			return nil, &TargetError{Target: hook}
		}
	}

	p := newPlan(req.Target)
	visited := make(map[string]bool)
	anchor := ""
	for _, root := range []string{req.Before, req.Target, req.After} {
		if root == "" {
			continue
		}
		part := make(map[string]bool)
		if err := s.visit(ctx, p, root, anchor, visited, part); err != nil {
			return nil, err
		}
		if p.Contains(root) {
			anchor = root
		}
	}

	logger.Debug("Execution plan computed.", "target", req.Target, "tasks", p.Len(), "order", p.Order)
	return p, nil
}

func (s *Scheduler) visit(ctx context.Context, p *Plan, task, anchor string, visited, part map[string]bool) error {
	if visited[task] {
		return nil
	}
	visited[task] = true

	if s.records.Status(ctx, task) == nodestore.Succeeded {
		return nil
	}

	deps, err := s.graph.Dependencies(task)
	if err != nil {
		return fmt.Errorf("failed to plan task %q: %w", task, err)
	}

	inPart := false
	for _, dep := range deps {
		if err := s.visit(ctx, p, dep, anchor, visited, part); err != nil {
			return err
		}
		if p.Contains(dep) {
			p.link(dep, task)
			if part[dep] {
				inPart = true
			}
		}
	}
	if !inPart && anchor != "" && anchor != task {
		p.link(anchor, task)
	}

	part[task] = true
	p.add(task)
	return nil
}
