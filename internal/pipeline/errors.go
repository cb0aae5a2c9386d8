package pipeline

import (
	"errors"
	"fmt"
)

// Failure kinds. Every failed step wraps exactly one of them.
var (
	ErrPrivilege   = errors.New("insufficient privileges")
	ErrNetwork     = errors.New("network error")
	ErrProcess     = errors.New("process error")
	ErrConfigStore = errors.New("environment store error")
	ErrFilesystem  = errors.New("filesystem error")
)

var (
	// ErrAlreadyRun is returned when Run is called on a pipeline that already finished.
	ErrAlreadyRun = errors.New("pipeline already ran")

	// ErrExtensionMissing means the editor did not list the extension after installing it.
	ErrExtensionMissing = errors.New("extension not installed")
)

// StepError ties a failure to the step that produced it. It matches both its
// Kind and its underlying cause with errors.Is / errors.As.
type StepError struct {
	State State
	Kind  error
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.State, e.Err)
}

func (e *StepError) Unwrap() []error { return []error{e.Kind, e.Err} }
