package executor

import (
	"context"
	"io"
	"strings"

	"github.com/vk/taskgrid/internal/ctxlog"
)

// Invocation is everything a rendered action needs to spawn its processes.
type Invocation struct {
	Task string
	// Env is the merged environment as KEY=VALUE pairs.
	Env      []string
	Dir      string
	Stdin    io.Reader
	Stdout   io.Writer
	Stderr   io.Writer
	Launcher Launcher
}

func (inv *Invocation) process(path string, args []string) *Process {
	return &Process{
		Path:   path,
		Args:   args,
		Env:    inv.Env,
		Dir:    inv.Dir,
		Stdin:  inv.Stdin,
		Stdout: inv.Stdout,
		Stderr: inv.Stderr,
	}
}

// Action is the primary action of a task. A nil Action is an aggregator.
type Action interface {
	Run(ctx context.Context, inv *Invocation) error
	// String renders the action for logs and failure reports.
	String() string
}

// ExternalCommand spawns one program with fully rendered arguments.
type ExternalCommand struct {
	Name string
	Args []string
}

// Run implements Action.
func (c *ExternalCommand) Run(ctx context.Context, inv *Invocation) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Spawning command.", "command", c.Name, "args", c.Args)

	code, err := inv.Launcher.Launch(ctx, inv.process(c.Name, c.Args))
	if err != nil {
		return &SpawnError{Task: inv.Task, Command: c.String(), Err: err}
	}
	if code != 0 {
		return &ExitStatusError{Task: inv.Task, Command: c.String(), Code: code}
	}
	return nil
}

func (c *ExternalCommand) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// ScriptBody runs each fragment as `<runner> -c <fragment>`, in order,
// stopping at the first failure.
type ScriptBody struct {
	Runner    string
	Fragments []string
}

// Run implements Action.
func (s *ScriptBody) Run(ctx context.Context, inv *Invocation) error {
	logger := ctxlog.FromContext(ctx)
	for i, fragment := range s.Fragments {
		logger.Debug("Spawning script fragment.", "runner", s.Runner, "index", i, "fragment", fragment)

		code, err := inv.Launcher.Launch(ctx, inv.process(s.Runner, []string{"-c", fragment}))
		if err != nil {
			return &SpawnError{Task: inv.Task, Command: fragment, Err: err}
		}
		if code != 0 {
			return &ExitStatusError{Task: inv.Task, Command: fragment, Code: code}
		}
	}
	return nil
}

func (s *ScriptBody) String() string {
	return strings.Join(s.Fragments, "; ")
}
