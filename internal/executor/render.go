package executor

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vk/taskgrid/internal/config"
)

// Input is the per-run Invocation Context shared by every task.
type Input struct {
	// Args are the trailing positional arguments, forwarded verbatim.
	Args []string
	// Environ is the ambient process environment.
	Environ map[string]string
	// Dir is the directory relative task working directories resolve against.
	Dir string
}

// Step is a task rendered and ready to run.
type Step struct {
	Task   *config.Task
	Action Action
	Env    []string
	Dir    string
}

// Render resolves a task's environment, substitutes placeholders and fixes
// its action. No process is started.
func Render(task *config.Task, settings *config.Settings, in Input) (*Step, error) {
	if len(in.Args) < task.MinArgs {
		return nil, &RenderError{
			Task: task.Name,
			Err:  fmt.Errorf("%w: requires at least %d trailing argument(s), got %d", ErrMissingArguments, task.MinArgs, len(in.Args)),
		}
	}

	env := mergeEnv(in.Environ, settings.Env, task.Env)
	step := &Step{Task: task, Env: environList(env), Dir: in.Dir}
	if task.Cwd != "" {
		step.Dir = task.Cwd
		if !filepath.IsAbs(task.Cwd) {
			step.Dir = filepath.Join(in.Dir, task.Cwd)
		}
	}

	switch {
	case task.Command != "":
		name, err := renderValue(task.Command, in.Args, env)
		if err != nil {
			return nil, &RenderError{Task: task.Name, Err: fmt.Errorf("%w: command: %v", ErrRender, err)}
		}
		args, err := renderArgs(task.Args, in.Args, env)
		if err != nil {
			return nil, &RenderError{Task: task.Name, Err: err}
		}
		step.Action = &ExternalCommand{Name: name, Args: args}
	case len(task.Script) > 0:
		runner := task.ScriptRunner
		if runner == "" {
			runner = settings.ScriptRunner
		}
		if runner == "" {
			runner = config.DefaultScriptRunner
		}
		joined := strings.Join(in.Args, " ")
		fragments := make([]string, 0, len(task.Script))
		for _, fragment := range task.Script {
			fragments = append(fragments, strings.ReplaceAll(fragment, config.Placeholder, joined))
		}
		step.Action = &ScriptBody{Runner: runner, Fragments: fragments}
	}
	return step, nil
}

// renderArgs expands argument templates. An entry that is exactly the
// placeholder splices every trailing argument in as separate arguments.
func renderArgs(templates, trailing []string, env map[string]string) ([]string, error) {
	out := make([]string, 0, len(templates)+len(trailing))
	for i, tmpl := range templates {
		if tmpl == config.Placeholder {
			out = append(out, trailing...)
			continue
		}
		v, err := renderValue(tmpl, trailing, env)
		if err != nil {
			return nil, fmt.Errorf("%w: args[%d]: %v", ErrRender, i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// renderValue substitutes `${@}` with the trailing arguments joined by spaces
// and `${NAME}` with the merged environment. Unknown names render empty.
func renderValue(tmpl string, trailing []string, env map[string]string) (string, error) {
	segments, err := config.ParseTemplate(tmpl)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, seg := range segments {
		switch {
		case !seg.IsRef():
			sb.WriteString(seg.Literal)
		case seg.Ref == "@":
			sb.WriteString(strings.Join(trailing, " "))
		default:
			sb.WriteString(env[seg.Ref])
		}
	}
	return sb.String(), nil
}

// mergeEnv layers maps left to right; later layers win.
func mergeEnv(layers ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, layer := range layers {
		for k, v := range layer {
			out[k] = v
		}
	}
	return out
}

func environList(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}
