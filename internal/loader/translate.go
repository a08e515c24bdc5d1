package loader

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/vk/taskgrid/internal/config"
	"github.com/vk/taskgrid/internal/ctxlog"
)

// document is the generic tree produced by the TOML and YAML decoders.
type document map[string]any

// translate converts a decoded TOML or YAML document into the model. order
// lists task names in declaration order; names missing from it are appended
// alphabetically.
func translate(ctx context.Context, source string, doc document, order []string, environ map[string]string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	model := &config.Model{Source: source, Settings: config.NewSettings()}

	if raw, ok := doc["config"]; ok {
		if err := translateSettings(raw, model.Settings); err != nil {
			return nil, config.Malformed(source, "config", err)
		}
	}

	if raw, ok := doc["env"]; ok {
		env, err := toEnv(raw)
		if err != nil {
			return nil, config.Malformed(source, "env", err)
		}
		expanded, err := expandEnvMap(env, environ)
		if err != nil {
			return nil, config.Malformed(source, "env", err)
		}
		for k, v := range expanded {
			model.Settings.Env[k] = v
		}
	}

	rawTasks := map[string]any{}
	if raw, ok := doc["tasks"]; ok {
		table, ok := asTable(raw)
		if !ok {
			return nil, config.Malformed(source, "tasks", fmt.Errorf("expected a table, got %T", raw))
		}
		rawTasks = table
	}

	for _, name := range declarationOrder(order, rawTasks) {
		task, err := translateTask(name, rawTasks[name], model.Settings.Env, environ)
		if err != nil {
			return nil, config.Malformed(source, config.TaskSection(name), err)
		}
		model.Tasks = append(model.Tasks, task)
	}

	logger.Debug("Translated definition document.", "tasks", len(model.Tasks))
	return model, nil
}

// declarationOrder keeps the names from order that exist in tasks and appends
// the remainder sorted.
func declarationOrder(order []string, tasks map[string]any) []string {
	out := make([]string, 0, len(tasks))
	seen := make(map[string]struct{}, len(tasks))
	for _, name := range order {
		if _, ok := tasks[name]; !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	var rest []string
	for name := range tasks {
		if _, ok := seen[name]; !ok {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

func translateSettings(raw any, s *config.Settings) error {
	table, ok := asTable(raw)
	if !ok {
		return fmt.Errorf("expected a table, got %T", raw)
	}
	if v, ok := table["skip_core_tasks"]; ok {
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("skip_core_tasks: expected a bool, got %T", v)
		}
		s.SkipCoreTasks = b
	}
	for key, dst := range map[string]*string{
		"script_runner": &s.ScriptRunner,
		"init_task":     &s.InitTask,
		"end_task":      &s.EndTask,
		"default_task":  &s.DefaultTask,
	} {
		if v, ok := table[key]; ok {
			str, err := toString(v, key)
			if err != nil {
				return err
			}
			*dst = str
		}
	}
	return nil
}

func translateTask(name string, raw any, globalEnv, environ map[string]string) (*config.Task, error) {
	task := &config.Task{Name: name}
	if raw == nil {
		return task, nil
	}
	table, ok := asTable(raw)
	if !ok {
		return nil, fmt.Errorf("expected a table, got %T", raw)
	}

	var err error
	for key, dst := range map[string]*string{
		"description":   &task.Description,
		"command":       &task.Command,
		"cwd":           &task.Cwd,
		"script_runner": &task.ScriptRunner,
	} {
		if v, ok := table[key]; ok {
			if *dst, err = toString(v, key); err != nil {
				return nil, err
			}
		}
	}
	if v, ok := table["dependencies"]; ok {
		if task.Dependencies, err = toStringList(v, "dependencies"); err != nil {
			return nil, err
		}
	}
	if v, ok := table["args"]; ok {
		if task.Args, err = toStringList(v, "args"); err != nil {
			return nil, err
		}
	}
	if v, ok := table["script"]; ok {
		if task.Script, err = toScript(v); err != nil {
			return nil, err
		}
	}
	if v, ok := table["min_args"]; ok {
		if task.MinArgs, err = toInt(v, "min_args"); err != nil {
			return nil, err
		}
	}
	if v, ok := table["env"]; ok {
		env, err := toEnv(v)
		if err != nil {
			return nil, err
		}
		if task.Env, err = expandEnvMap(env, globalEnv, environ); err != nil {
			return nil, err
		}
	}
	return task, nil
}

// asTable accepts a decoded mapping whichever map type the decoder chose.
func asTable(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case document:
		return t, true
	}
	return nil, false
}

func toString(v any, field string) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s: expected a string, got %T", field, v)
	}
	return s, nil
}

func toStringList(v any, field string) ([]string, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected a list of strings, got %T", field, v)
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%s[%d]: expected a string, got %T", field, i, item)
		}
		out = append(out, s)
	}
	return out, nil
}

// toScript accepts a single fragment or a list of fragments.
func toScript(v any) ([]string, error) {
	if s, ok := v.(string); ok {
		return []string{s}, nil
	}
	return toStringList(v, "script")
}

func toInt(v any, field string) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		if n == math.Trunc(n) {
			return int(n), nil
		}
	}
	return 0, fmt.Errorf("%s: expected an integer, got %v", field, v)
}

// toEnv accepts a table of scalar values and renders them as strings.
func toEnv(v any) (map[string]string, error) {
	table, ok := asTable(v)
	if !ok {
		return nil, fmt.Errorf("env: expected a table, got %T", v)
	}
	out := make(map[string]string, len(table))
	for k, val := range table {
		switch val.(type) {
		case string, bool, int, int64, uint64, float64:
			out[k] = fmt.Sprint(val)
		default:
			return nil, fmt.Errorf("env.%s: expected a scalar value, got %T", k, val)
		}
	}
	return out, nil
}
