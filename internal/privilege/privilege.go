// Package privilege probes whether the current process may modify
// machine-wide configuration.
package privilege

import (
	"context"

	"setup-cpp/internal/logger"
	"setup-cpp/internal/process"
)

// Runner is the subset of process.Runner the command probe needs.
type Runner interface {
	Run(ctx context.Context, spec process.Spec) process.Outcome
}

// TokenChecker asks the operating system directly: membership in the
// Administrators group on Windows, effective uid 0 elsewhere.
type TokenChecker struct{}

// HasElevatedRights reports whether the process token is elevated.
// A failed probe counts as not elevated.
func (TokenChecker) HasElevatedRights(ctx context.Context) bool {
	ok, err := isElevated()
	if err != nil {
		logger.Debug("[DEBUG] Elevation probe failed: %v\n", err)
		return false
	}
	return ok
}

// CommandChecker runs a probe command that only succeeds with elevated
// rights, e.g. `net session` on Windows.
type CommandChecker struct {
	Runner Runner
	Spec   process.Spec
}

// DefaultProbeCommand is the classic Windows administrator probe.
var DefaultProbeCommand = []string{"net", "session"}

// NewCommandChecker builds a CommandChecker from an argv. An empty argv
// falls back to DefaultProbeCommand.
func NewCommandChecker(runner Runner, argv []string) *CommandChecker {
	if len(argv) == 0 {
		argv = DefaultProbeCommand
	}
	return &CommandChecker{
		Runner: runner,
		Spec:   process.Spec{Name: argv[0], Args: argv[1:], Capture: true},
	}
}

// HasElevatedRights reports whether the probe command exits with code 0.
func (c *CommandChecker) HasElevatedRights(ctx context.Context) bool {
	out := c.Runner.Run(ctx, c.Spec)
	if !out.Success() {
		logger.Debug("[DEBUG] Privilege probe %q failed: %v\n", c.Spec, out.Err())
		return false
	}
	return true
}
