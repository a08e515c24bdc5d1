package hcl_adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/taskgrid/internal/config"
	"github.com/vk/taskgrid/internal/ctxlog"
)

// Loader is the HCL-specific decoder for task definitions.
type Loader struct {
	environ map[string]string
}

// NewLoader creates a new HCL loader that resolves `env.<NAME>` references
// against the given environment.
func NewLoader(environ map[string]string) *Loader {
	return &Loader{environ: environ}
}

// Decode parses the HCL source and translates all blocks into the model.
// Errors are reported as config.DefinitionError naming the failing section.
func (l *Loader) Decode(ctx context.Context, source string, data []byte) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "source", source)

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, source)
	if diags.HasErrors() {
		return nil, config.Malformed(source, "", fmt.Errorf("failed to parse HCL: %w", diags))
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
		return nil, config.Malformed(source, "", fmt.Errorf("failed to decode HCL: %w", diags))
	}

	evalCtx := newEvalContext(l.environ)
	model := &config.Model{Source: source, Settings: config.NewSettings()}

	if len(root.Configs) > 1 {
		return nil, config.Malformed(source, "config", errors.New("at most one config block is allowed"))
	}
	if len(root.Configs) == 1 {
		if err := l.translateConfig(ctx, root.Configs[0], evalCtx, model.Settings); err != nil {
			return nil, config.Malformed(source, "config", err)
		}
	}

	for _, block := range root.Tasks {
		task, err := l.translateTask(ctx, block, evalCtx)
		if err != nil {
			return nil, config.Malformed(source, config.TaskSection(block.Name), err)
		}
		model.Tasks = append(model.Tasks, task)
	}

	logger.Debug("HCL loading complete.", "tasks", len(model.Tasks))
	return model, nil
}

// translateConfig decodes the `config` block into the settings.
func (l *Loader) translateConfig(ctx context.Context, block *ConfigBlock, evalCtx *hcl.EvalContext, settings *config.Settings) error {
	logger := ctxlog.FromContext(ctx)

	var body ConfigBody
	if diags := gohcl.DecodeBody(block.Body, evalCtx, &body); diags.HasErrors() {
		return diags
	}

	if body.SkipCoreTasks != nil {
		settings.SkipCoreTasks = *body.SkipCoreTasks
	}
	if body.ScriptRunner != nil {
		settings.ScriptRunner = *body.ScriptRunner
	}
	if body.InitTask != nil {
		settings.InitTask = *body.InitTask
	}
	if body.EndTask != nil {
		settings.EndTask = *body.EndTask
	}
	if body.DefaultTask != nil {
		settings.DefaultTask = *body.DefaultTask
	}
	for k, v := range body.Env {
		settings.Env[k] = v
	}

	logger.Debug("Translated config block.", "skip_core_tasks", settings.SkipCoreTasks, "env_count", len(settings.Env))
	return nil
}

// translateTask decodes a single `task` block into the agnostic model.
func (l *Loader) translateTask(ctx context.Context, block *TaskBlock, evalCtx *hcl.EvalContext) (*config.Task, error) {
	ctx, logger := ctxlog.With(ctx, "task", block.Name)
	logger.Debug("Translating HCL task to internal config model.")

	var body TaskBody
	if diags := gohcl.DecodeBody(block.Body, evalCtx, &body); diags.HasErrors() {
		return nil, diags
	}

	task := &config.Task{
		Name:         block.Name,
		Dependencies: body.Dependencies,
		Args:         body.Args,
		Env:          body.Env,
	}
	if body.Description != nil {
		task.Description = *body.Description
	}
	if body.Command != nil {
		task.Command = *body.Command
	}
	if body.Cwd != nil {
		task.Cwd = *body.Cwd
	}
	if body.ScriptRunner != nil {
		task.ScriptRunner = *body.ScriptRunner
	}
	if body.MinArgs != nil {
		task.MinArgs = *body.MinArgs
	}

	if isExprDefined(ctx, body.Script, "script") {
		val, diags := body.Script.Value(evalCtx)
		if diags.HasErrors() {
			return nil, diags
		}
		fragments, err := scriptFragments(val)
		if err != nil {
			return nil, err
		}
		task.Script = fragments
	}

	return task, nil
}
