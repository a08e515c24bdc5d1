package dag

import (
	"context"

	"github.com/vk/taskgrid/internal/config"
	"github.com/vk/taskgrid/internal/ctxlog"
)

// Build constructs the graph for a loaded model and validates it. References
// are checked for every task before acyclicity, so an undefined dependency is
// always reported ahead of a cycle.
func Build(ctx context.Context, model *config.Model) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	g := New()
	for _, t := range model.Tasks {
		g.AddNode(t.Name)
	}

	for _, t := range model.Tasks {
		for _, dep := range t.Dependencies {
			if !g.Has(dep) {
				return nil, &ReferenceError{Task: t.Name, Missing: dep}
			}
		}
	}
	if s := model.Settings; s != nil {
		for _, hook := range []struct{ key, name string }{
			{"init_task", s.InitTask},
			{"end_task", s.EndTask},
		} {
			if hook.name != "" && !g.Has(hook.name) {
				return nil, &ReferenceError{Setting: hook.key, Missing: hook.name}
			}
		}
	}

	edges := 0
	for _, t := range model.Tasks {
		for _, dep := range t.Dependencies {
			if err := g.AddEdge(dep, t.Name); err != nil {
				return nil, err
			}
			edges++
		}
	}

	if err := g.DetectCycles(); err != nil {
		return nil, err
	}

	logger.Debug("Task graph built and validated.", "nodes", len(model.Tasks), "edges", edges)
	return g, nil
}
