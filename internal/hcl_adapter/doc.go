// Package hcl_adapter decodes HCL task definitions into the format-agnostic
// config.Model.
//
// A definition file holds at most one `config` block and any number of
// `task "<name>"` blocks:
//
//	config {
//	  skip_core_tasks = true
//	  env = {
//	    DISK_IMG = "${env.HOME}/disk.img"
//	  }
//	}
//
//	task "run" {
//	  dependencies = ["build"]
//	  command      = "./tools/run_qemu.sh"
//	  args         = ["$${@}"]
//	}
//
// Expressions are evaluated against the ambient process environment, exposed
// as the `env` object. The trailing-arguments placeholder must be written with
// the HCL escape `$${@}` so that it survives evaluation as the literal `${@}`.
package hcl_adapter
