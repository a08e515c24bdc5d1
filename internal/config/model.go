package config

import (
	"errors"
	"fmt"
)

const (
	// Placeholder is replaced by the caller's trailing arguments at render time.
	Placeholder = "${@}"
	// DefaultTaskName names the task run when no explicit target is given.
	DefaultTaskName = "default"
	// DefaultScriptRunner is the interpreter used for script fragments.
	DefaultScriptRunner = "sh"
)

// Model is the unified, format-agnostic representation of one definition
// source: the global settings plus every task in declaration order.
type Model struct {
	// Source is the path the model was loaded from.
	Source   string
	Settings *Settings
	Tasks    []*Task
}

// Settings is the process-wide configuration shared by all tasks.
type Settings struct {
	// SkipCoreTasks disables synthesis of the built-in tasks.
	SkipCoreTasks bool
	// Env holds variables visible to every task unless a task overrides them.
	Env map[string]string
	// ScriptRunner is the interpreter invoked as `<runner> -c <fragment>`.
	ScriptRunner string
	// InitTask runs before the target in the same run, when set.
	InitTask string
	// EndTask runs after the target succeeds, when set.
	EndTask string
	// DefaultTask is the target used when none is named.
	DefaultTask string
}

// Task is the format-agnostic representation of a single task definition.
type Task struct {
	Name         string
	Description  string
	Dependencies []string
	Command      string
	Args         []string
	Script       []string
	Env          map[string]string
	// Cwd is the working directory of the task's processes, relative to the
	// definition file unless absolute.
	Cwd          string
	ScriptRunner string
	// MinArgs is the number of trailing arguments the task requires.
	MinArgs int
}

// NewSettings returns settings populated with the engine defaults.
func NewSettings() *Settings {
	return &Settings{
		Env:          make(map[string]string),
		ScriptRunner: DefaultScriptRunner,
		DefaultTask:  DefaultTaskName,
	}
}

// IsAggregator reports whether the task has no primary action.
func (t *Task) IsAggregator() bool {
	return t.Command == "" && len(t.Script) == 0
}

// Validate checks the structural invariants of a single task.
func (t *Task) Validate() error {
	if t.Name == "" {
		return errors.New("task name is required")
	}
	if t.Command != "" && len(t.Script) > 0 {
		return fmt.Errorf("task %q defines both command and script", t.Name)
	}
	if len(t.Args) > 0 && t.Command == "" {
		return fmt.Errorf("task %q defines args without a command", t.Name)
	}
	if t.MinArgs < 0 {
		return fmt.Errorf("task %q has negative min_args %d", t.Name, t.MinArgs)
	}
	for i, dep := range t.Dependencies {
		if dep == "" {
			return fmt.Errorf("task %q has an empty dependency name at position %d", t.Name, i)
		}
	}
	return nil
}

// Task looks a task up by name.
func (m *Model) Task(name string) (*Task, bool) {
	for _, t := range m.Tasks {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// TaskNames returns every task name in declaration order.
func (m *Model) TaskNames() []string {
	names := make([]string, 0, len(m.Tasks))
	for _, t := range m.Tasks {
		names = append(names, t.Name)
	}
	return names
}
