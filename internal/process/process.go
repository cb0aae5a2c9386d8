package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"setup-cpp/internal/logger"
)

var (
	// ErrNonZeroExit classifies a process that ran to completion with a non-zero exit code.
	ErrNonZeroExit = errors.New("process exited with non-zero code")

	// ErrAbnormalExit classifies a process killed by a signal or a crash status.
	ErrAbnormalExit = errors.New("process terminated abnormally")

	// ErrNotStarted classifies a process that could not be spawned at all.
	ErrNotStarted = errors.New("process could not be started")
)

// Spec describes one external process invocation.
// - Name: executable path or a name resolved through PATH.
// - Args: ordered argument list.
// - Dir: optional working directory.
// - Env: extra KEY=value pairs appended to the inherited environment.
// - Capture: buffer stdout/stderr into the Outcome instead of streaming them.
type Spec struct {
	Name    string
	Args    []string
	Dir     string
	Env     []string
	Capture bool
}

// String renders the spec as a shell-like command line for logs.
func (s Spec) String() string {
	return strings.TrimSpace(s.Name + " " + strings.Join(s.Args, " "))
}

// Termination tells how the process ended.
type Termination int

const (
	// Normal means the process exited on its own with an exit code.
	Normal Termination = iota
	// Abnormal means the process was signaled or crashed.
	Abnormal
	// NotStarted means the process never ran.
	NotStarted
)

func (t Termination) String() string {
	switch t {
	case Normal:
		return "normal"
	case Abnormal:
		return "abnormal"
	case NotStarted:
		return "not-started"
	default:
		return fmt.Sprintf("termination(%d)", int(t))
	}
}

// Outcome is the read-only result of one Run call.
type Outcome struct {
	Spec        Spec
	ExitCode    int
	Termination Termination
	// Reason names the signal or crash status for Abnormal, empty otherwise.
	Reason   string
	Stdout   []byte
	Stderr   []byte
	Duration time.Duration

	startErr error
}

// Success reports whether the process exited normally with code 0.
func (o Outcome) Success() bool {
	return o.Termination == Normal && o.ExitCode == 0
}

// Err converts a failed outcome into a typed error, or nil on success.
func (o Outcome) Err() error {
	switch {
	case o.Termination == NotStarted:
		return &StartError{Name: o.Spec.Name, Err: o.startErr}
	case o.Termination == Abnormal:
		return &CrashError{Name: o.Spec.Name, Reason: o.Reason, ExitCode: o.ExitCode}
	case o.ExitCode != 0:
		return &ExitError{Name: o.Spec.Name, Code: o.ExitCode}
	}
	return nil
}

// ExitError reports a clean exit with a non-zero code.
type ExitError struct {
	Name string
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with error code %d", e.Name, e.Code)
}

func (e *ExitError) Unwrap() error { return ErrNonZeroExit }

// CrashError reports a signal or crash termination.
type CrashError struct {
	Name     string
	Reason   string
	ExitCode int
}

func (e *CrashError) Error() string {
	return fmt.Sprintf("%s crashed (%s)", e.Name, e.Reason)
}

func (e *CrashError) Unwrap() error { return ErrAbnormalExit }

// StartError reports a spawn failure such as a missing executable.
type StartError struct {
	Name string
	Err  error
}

func (e *StartError) Error() string {
	return fmt.Sprintf("failed to start %s: %v", e.Name, e.Err)
}

func (e *StartError) Unwrap() []error { return []error{ErrNotStarted, e.Err} }

// Runner spawns processes and waits for them to finish.
type Runner struct {
	// Timeout bounds each invocation when positive. Zero waits forever.
	Timeout time.Duration
	// Stdout and Stderr receive streamed output for specs that do not capture.
	// Nil means the parent's os.Stdout / os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
}

// NewRunner creates a Runner with the given per-process timeout.
func NewRunner(timeout time.Duration) *Runner {
	return &Runner{Timeout: timeout}
}

// Run starts the process described by spec, blocks until it exits and classifies the result.
func (r *Runner) Run(ctx context.Context, spec Spec) Outcome {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, spec.Name, spec.Args...)
	cmd.Dir = spec.Dir
	if len(spec.Env) > 0 {
		cmd.Env = append(os.Environ(), spec.Env...)
	}

	var stdout, stderr bytes.Buffer
	if spec.Capture {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	} else {
		cmd.Stdout = orDefault(r.Stdout, os.Stdout)
		cmd.Stderr = orDefault(r.Stderr, os.Stderr)
	}

	logger.Debug("[DEBUG] Running command: %s\n", spec)
	start := time.Now()
	err := cmd.Run()

	out := Outcome{
		Spec:     spec,
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: time.Since(start),
	}

	if err == nil {
		return out
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		classify(&out, exitErr.ProcessState)
		if ctx.Err() != nil && out.Termination == Abnormal {
			out.Reason = fmt.Sprintf("%s after %v", out.Reason, ctx.Err())
		}
		logger.Debug("[DEBUG] %s finished: termination=%s code=%d\n", spec.Name, out.Termination, out.ExitCode)
		return out
	}

	out.Termination = NotStarted
	out.ExitCode = -1
	out.startErr = err
	return out
}

// classify fills exit code and termination kind from the finished process state.
func classify(out *Outcome, state *os.ProcessState) {
	out.ExitCode = state.ExitCode()
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		out.Termination = Abnormal
		out.Reason = "signal: " + ws.Signal().String()
		return
	}
	if reason, crashed := crashStatus(out.ExitCode); crashed {
		out.Termination = Abnormal
		out.Reason = reason
		return
	}
	out.Termination = Normal
}

func orDefault(w io.Writer, def io.Writer) io.Writer {
	if w == nil {
		return def
	}
	return w
}
