package scheduler

import (
	"errors"
	"fmt"
)

// ErrUnknownTarget is returned when the requested task does not exist.
var ErrUnknownTarget = errors.New("unknown target task")

// TargetError names the task that could not be found.
type TargetError struct {
	Target string
}

func (e *TargetError) Error() string {
	return fmt.Sprintf("%s %q", ErrUnknownTarget, e.Target)
}

func (e *TargetError) Unwrap() error { return ErrUnknownTarget }
