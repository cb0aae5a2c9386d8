package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"setup-cpp/internal/config"
	"setup-cpp/internal/download"
	"setup-cpp/internal/envpath"
	"setup-cpp/internal/installer"
	"setup-cpp/internal/logger"
	"setup-cpp/internal/process"
	"setup-cpp/internal/templates"
	"setup-cpp/internal/workspace"
)

// PrivilegeChecker decides whether machine-wide configuration may be modified.
type PrivilegeChecker interface {
	HasElevatedRights(ctx context.Context) bool
}

// Fetcher starts a download and delivers exactly one Result on the returned channel.
type Fetcher interface {
	Fetch(ctx context.Context, task download.Task) <-chan download.Result
}

// Runner runs a process to completion.
type Runner interface {
	Run(ctx context.Context, spec process.Spec) process.Outcome
}

// PathConfigurator appends a directory to the persistent search path.
type PathConfigurator interface {
	AppendToPath(segment string) (envpath.Mutation, error)
}

// WorkspaceInitializer creates the workspace root and its config directory.
type WorkspaceInitializer interface {
	EnsureLayout(root string) (workspace.Layout, error)
}

// ConfigWriter replaces a file's content with payload.
type ConfigWriter interface {
	Write(path string, payload []byte) error
}

// Cleaner removes temporary files, best effort.
type Cleaner interface {
	RemoveIfExists(path string)
}

// Extractor unpacks an archive into a directory.
type Extractor interface {
	Extract(src, dest string) (string, error)
}

// ReleaseResolver finds the toolchain archive of a published release.
type ReleaseResolver interface {
	Resolve(ctx context.Context, q installer.ReleaseQuery) (installer.Asset, error)
}

// Components are the collaborators a pipeline drives. Only those needed by the
// planned steps must be set.
type Components struct {
	Privilege PrivilegeChecker
	Fetcher   Fetcher
	Runner    Runner
	Path      PathConfigurator
	Workspace WorkspaceInitializer
	Writer    ConfigWriter
	Cleaner   Cleaner
	Extractor Extractor
	Releases  ReleaseResolver
}

// Outcome is the terminal report of one run.
type Outcome struct {
	State      State // Done or Aborted
	FailedAt   State // step that failed; Start when the run did not abort
	Reason     string
	Err        error
	Results    []StepResult
	StartedAt  time.Time
	FinishedAt time.Time
}

// Aborted reports whether the run stopped on a failure.
func (o Outcome) Aborted() bool { return o.State == Aborted }

// Pipeline executes a plan of steps once.
type Pipeline struct {
	cfg   *config.Config
	files templates.Table
	c     Components
	plan  []State

	mu    sync.Mutex
	state State
	ran   bool
}

// New validates the plan and the components it needs. An empty plan means
// every step in canonical order.
func New(cfg *config.Config, files templates.Table, c Components, plan ...State) (*Pipeline, error) {
	if cfg == nil {
		return nil, errors.New("pipeline: nil config")
	}
	if len(plan) == 0 {
		plan = Steps()
	}
	if err := validatePlan(plan); err != nil {
		return nil, fmt.Errorf("pipeline: invalid plan: %w", err)
	}
	if err := c.check(plan, cfg); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	return &Pipeline{
		cfg:   cfg,
		files: files,
		c:     c,
		plan:  append([]State(nil), plan...),
		state: Start,
	}, nil
}

// check reports the first component a planned step needs but was not given.
func (c Components) check(plan []State, cfg *config.Config) error {
	for _, s := range plan {
		var missing string
		switch s {
		case CheckPrivilege:
			if c.Privilege == nil {
				missing = "privilege checker"
			}
		case InitWorkspace:
			if c.Workspace == nil {
				missing = "workspace initializer"
			}
		case DownloadToolchain, DownloadEditor:
			if c.Fetcher == nil {
				missing = "fetcher"
			} else if s == DownloadToolchain && cfg.Toolchain.Release.Repo != "" && c.Releases == nil {
				missing = "release resolver"
			}
		case InstallToolchain:
			if cfg.Toolchain.Kind == config.KindArchive && c.Extractor == nil {
				missing = "extractor"
			} else if cfg.Toolchain.Kind != config.KindArchive && c.Runner == nil {
				missing = "runner"
			}
		case InstallEditor, InstallEditorExtension, VerifyEditorExtension:
			if c.Runner == nil {
				missing = "runner"
			}
		case ConfigureToolchainPath:
			if c.Path == nil {
				missing = "path configurator"
			}
		case WriteConfigFiles:
			if c.Writer == nil {
				missing = "config writer"
			}
		case CleanupTempFiles:
			if c.Cleaner == nil {
				missing = "cleaner"
			}
		}
		if missing != "" {
			return fmt.Errorf("%s needs a %s", s, missing)
		}
	}
	return nil
}

// Plan returns the steps this pipeline runs, in order.
func (p *Pipeline) Plan() []State {
	return append([]State(nil), p.plan...)
}

// State returns the current position of the state machine.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Pipeline) enter(s State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

// Run executes the plan one step at a time until a step fails or the plan is
// exhausted. The returned error is the failing step's *StepError, or
// ErrAlreadyRun when the pipeline was used before.
func (p *Pipeline) Run(ctx context.Context) (Outcome, error) {
	p.mu.Lock()
	if p.ran {
		p.mu.Unlock()
		return Outcome{}, ErrAlreadyRun
	}
	p.ran = true
	p.mu.Unlock()

	out := Outcome{FailedAt: Start, StartedAt: time.Now()}
	rc := &runContext{cfg: p.cfg, files: p.files, c: p.c}

	for _, s := range p.plan {
		p.enter(s)
		logger.Info("[INFO] Current step: %s\n", s)

		start := time.Now()
		res := rc.step(ctx, s).withDuration(time.Since(start))
		out.Results = append(out.Results, res)

		switch res.Status() {
		case Skipped:
			logger.Info("[INFO] Skipped %s: %s\n", s, res.Note())
		case Failed:
			logger.Error("[ERROR] %v\n", res.Err())
			p.enter(Aborted)
			out.State = Aborted
			out.FailedAt = s
			out.Err = res.Err()
			out.Reason = res.Err().Error()
			out.FinishedAt = time.Now()
			return out, out.Err
		default:
			if res.Note() != "" {
				logger.Debug("[DEBUG] %s: %s\n", s, res.Note())
			}
		}
	}

	p.enter(Done)
	logger.Info("[INFO] Current step: %s\n", Done)
	out.State = Done
	out.FinishedAt = time.Now()
	return out, nil
}
