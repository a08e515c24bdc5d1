package cli

import (
	"errors"

	"github.com/vk/taskgrid/internal/config"
	"github.com/vk/taskgrid/internal/dag"
	"github.com/vk/taskgrid/internal/executor"
	"github.com/vk/taskgrid/internal/loader"
	"github.com/vk/taskgrid/internal/scheduler"
)

// Process exit codes.
const (
	ExitOK                = 0
	ExitTaskFailure       = 1
	ExitInvalidInvocation = 2
	ExitDefinitionError   = 3
)

// ExitCode classifies a run error. Definition and graph problems, invocation
// mistakes and task failures get distinct codes.
func ExitCode(err error) int {
	var exitErr *ExitError
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &exitErr):
		return exitErr.Code
	case errors.Is(err, scheduler.ErrUnknownTarget),
		errors.Is(err, executor.ErrMissingArguments):
		return ExitInvalidInvocation
	case errors.Is(err, config.ErrMalformedDefinition),
		errors.Is(err, loader.ErrNoDefinition),
		errors.Is(err, dag.ErrUnknownTaskReference),
		errors.Is(err, dag.ErrCyclicDependency),
		errors.Is(err, executor.ErrRender):
		return ExitDefinitionError
	default:
		return ExitTaskFailure
	}
}

// Exit wraps a run error into an ExitError carrying its exit code.
func Exit(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	return &ExitError{Code: ExitCode(err), Message: err.Error(), Err: err}
}
