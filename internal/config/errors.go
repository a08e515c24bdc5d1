package config

import (
	"errors"
	"fmt"
)

// ErrMalformedDefinition is the sentinel for every load-time failure.
var ErrMalformedDefinition = errors.New("malformed definition")

// DefinitionError identifies the section of a definition source that could
// not be loaded.
type DefinitionError struct {
	Source  string
	Section string
	Err     error
}

func (e *DefinitionError) Error() string {
	if e.Section == "" {
		return fmt.Sprintf("%s: %s: %v", ErrMalformedDefinition, e.Source, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s: %v", ErrMalformedDefinition, e.Source, e.Section, e.Err)
}

func (e *DefinitionError) Unwrap() []error {
	return []error{ErrMalformedDefinition, e.Err}
}

// Malformed builds a DefinitionError for the given section.
func Malformed(source, section string, err error) error {
	return &DefinitionError{Source: source, Section: section, Err: err}
}

// TaskSection renders the section name used for errors about one task.
func TaskSection(name string) string {
	return fmt.Sprintf("task %q", name)
}
