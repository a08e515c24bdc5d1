package hcl_adapter

import "github.com/hashicorp/hcl/v2"

// fileRoot is used to decode the top-level blocks of a definition file.
type fileRoot struct {
	Configs []*ConfigBlock `hcl:"config,block"`
	Tasks   []*TaskBlock   `hcl:"task,block"`
	Remain  hcl.Body       `hcl:",remain"`
}

// ConfigBlock captures the raw body of the `config` block so it can be decoded
// on its own and errors can name the section.
type ConfigBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// ConfigBody is the schema of the `config` block.
type ConfigBody struct {
	SkipCoreTasks *bool             `hcl:"skip_core_tasks,optional"`
	ScriptRunner  *string           `hcl:"script_runner,optional"`
	InitTask      *string           `hcl:"init_task,optional"`
	EndTask       *string           `hcl:"end_task,optional"`
	DefaultTask   *string           `hcl:"default_task,optional"`
	Env           map[string]string `hcl:"env,optional"`
	Remain        hcl.Body          `hcl:",remain"`
}

// TaskBlock is a labelled `task` block whose body is decoded separately.
type TaskBlock struct {
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

// TaskBody is the schema of a `task` block. Unknown attributes fall into
// Remain and are ignored.
type TaskBody struct {
	Description  *string           `hcl:"description,optional"`
	Dependencies []string          `hcl:"dependencies,optional"`
	Command      *string           `hcl:"command,optional"`
	Args         []string          `hcl:"args,optional"`
	Script       hcl.Expression    `hcl:"script,optional"`
	Env          map[string]string `hcl:"env,optional"`
	Cwd          *string           `hcl:"cwd,optional"`
	ScriptRunner *string           `hcl:"script_runner,optional"`
	MinArgs      *int              `hcl:"min_args,optional"`
	Remain       hcl.Body          `hcl:",remain"`
}
