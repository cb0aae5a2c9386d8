package pipeline

import "time"

// Status is the pass/fail outcome of one step.
type Status int

const (
	Success Status = iota
	Failed
	Skipped
)

func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// StepResult is the immutable outcome of one step.
type StepResult struct {
	state    State
	status   Status
	err      error
	note     string
	duration time.Duration
}

func succeeded(s State, note string) StepResult {
	return StepResult{state: s, status: Success, note: note}
}

func skipped(s State, why string) StepResult {
	return StepResult{state: s, status: Skipped, note: why}
}

func failed(s State, kind, cause error) StepResult {
	return StepResult{state: s, status: Failed, err: &StepError{State: s, Kind: kind, Err: cause}}
}

func (r StepResult) withDuration(d time.Duration) StepResult {
	r.duration = d
	return r
}

// State returns the step this result belongs to.
func (r StepResult) State() State { return r.state }

// Status returns the outcome kind.
func (r StepResult) Status() Status { return r.status }

// Err returns the *StepError of a failed step, nil otherwise.
func (r StepResult) Err() error { return r.err }

// Note is a human-readable detail: why a step was skipped or what it changed.
func (r StepResult) Note() string { return r.note }

// Duration is the wall time the step took.
func (r StepResult) Duration() time.Duration { return r.duration }

// Proceed reports whether the pipeline may continue past this step.
func (r StepResult) Proceed() bool { return r.status != Failed }
