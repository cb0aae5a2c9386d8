package pipeline

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"setup-cpp/internal/config"
	"setup-cpp/internal/download"
	"setup-cpp/internal/installer"
	"setup-cpp/internal/logger"
	"setup-cpp/internal/process"
	"setup-cpp/internal/templates"
	"setup-cpp/internal/workspace"
)

// runContext is the state one run threads from step to step. Nothing outside
// the run holds a reference to it.
type runContext struct {
	cfg   *config.Config
	files templates.Table
	c     Components

	layout        workspace.Layout
	toolchainFile string
	editorFile    string
	downloaded    []string
}

func (rc *runContext) step(ctx context.Context, s State) StepResult {
	switch s {
	case CheckPrivilege:
		return rc.checkPrivilege(ctx)
	case InitWorkspace:
		return rc.initWorkspace()
	case DownloadToolchain:
		return rc.downloadToolchain(ctx)
	case InstallToolchain:
		return rc.installToolchain(ctx)
	case ConfigureToolchainPath:
		return rc.configurePath()
	case DownloadEditor:
		return rc.fetch(ctx, s, rc.cfg.Editor.URL, rc.cfg.Editor.FileName, rc.cfg.Editor.SHA256, &rc.editorFile)
	case InstallEditor:
		return rc.run(ctx, s, process.Spec{Name: rc.editorFile, Args: rc.cfg.Editor.SilentArgs})
	case InstallEditorExtension:
		return rc.run(ctx, s, process.Spec{
			Name: rc.cfg.Editor.Binary,
			Args: []string{"--install-extension", rc.cfg.Editor.Extension},
		})
	case VerifyEditorExtension:
		return rc.verifyExtension(ctx)
	case WriteConfigFiles:
		return rc.writeConfigFiles()
	case CleanupTempFiles:
		return rc.cleanup()
	default:
		return failed(s, ErrFilesystem, fmt.Errorf("no handler for state %s", s))
	}
}

func (rc *runContext) checkPrivilege(ctx context.Context) StepResult {
	if !rc.c.Privilege.HasElevatedRights(ctx) {
		return failed(CheckPrivilege, ErrPrivilege, errors.New("administrator rights are required, restart as administrator"))
	}
	return succeeded(CheckPrivilege, "")
}

func (rc *runContext) initWorkspace() StepResult {
	layout, err := rc.c.Workspace.EnsureLayout(rc.cfg.Workspace.Root)
	if err != nil {
		return failed(InitWorkspace, ErrFilesystem, err)
	}
	rc.layout = layout
	return succeeded(InitWorkspace, layout.ConfigDir)
}

// downloadToolchain fetches the configured toolchain, first resolving the
// archive from a GitHub release when one is configured.
func (rc *runContext) downloadToolchain(ctx context.Context) StepResult {
	tc := rc.cfg.Toolchain
	url, name := tc.URL, tc.FileName
	if r := tc.Release; r.Repo != "" {
		asset, err := rc.c.Releases.Resolve(ctx, installer.ReleaseQuery{Repo: r.Repo, Tag: r.Tag, Asset: r.Asset})
		if err != nil {
			return failed(DownloadToolchain, ErrNetwork, err)
		}
		url, name = asset.URL, asset.Name
	}
	return rc.fetch(ctx, DownloadToolchain, url, name, tc.SHA256, &rc.toolchainFile)
}

// fetch downloads url into the download directory and blocks until the
// fetcher reports completion. dest receives the local path on success.
func (rc *runContext) fetch(ctx context.Context, s State, url, name, sum string, dest *string) StepResult {
	task := download.Task{
		URL:    url,
		Dest:   filepath.Join(rc.cfg.Download.Dir, name),
		SHA256: sum,
	}
	// The task file may be partly written before a failure, so it is tracked
	// for cleanup up front.
	rc.downloaded = append(rc.downloaded, task.Dest)

	logger.Info("[INFO] Downloading %s\n", url)
	res, ok := <-rc.c.Fetcher.Fetch(ctx, task)
	if !ok {
		return failed(s, ErrNetwork, fmt.Errorf("download of %s ended without a result", url))
	}
	if res.Err != nil {
		var fe *download.FileError
		if errors.As(res.Err, &fe) {
			return failed(s, ErrFilesystem, res.Err)
		}
		return failed(s, ErrNetwork, res.Err)
	}
	*dest = task.Dest
	return succeeded(s, fmt.Sprintf("%d bytes to %s", res.Size, task.Dest))
}

func (rc *runContext) installToolchain(ctx context.Context) StepResult {
	tc := rc.cfg.Toolchain
	if tc.Kind != config.KindArchive {
		return rc.run(ctx, InstallToolchain, process.Spec{Name: rc.toolchainFile, Args: tc.SilentArgs})
	}
	logger.Info("[INFO] Extracting %s into %s\n", rc.toolchainFile, tc.InstallDir)
	dir, err := rc.c.Extractor.Extract(rc.toolchainFile, tc.InstallDir)
	if err != nil {
		return failed(InstallToolchain, ErrFilesystem, err)
	}
	return succeeded(InstallToolchain, "extracted to "+dir)
}

func (rc *runContext) configurePath() StepResult {
	m, err := rc.c.Path.AppendToPath(rc.cfg.Toolchain.PathSegment)
	if err != nil {
		return failed(ConfigureToolchainPath, ErrConfigStore, err)
	}
	if !m.Changed() {
		return succeeded(ConfigureToolchainPath, fmt.Sprintf("%s already contains %s", m.Variable, rc.cfg.Toolchain.PathSegment))
	}
	return succeeded(ConfigureToolchainPath, fmt.Sprintf("appended %s to %s", rc.cfg.Toolchain.PathSegment, m.Variable))
}

// run executes spec and maps any unsuccessful outcome to a process failure.
func (rc *runContext) run(ctx context.Context, s State, spec process.Spec) StepResult {
	out := rc.c.Runner.Run(ctx, spec)
	logCaptured(spec, out)
	if err := out.Err(); err != nil {
		return failed(s, ErrProcess, err)
	}
	return succeeded(s, "")
}

func (rc *runContext) verifyExtension(ctx context.Context) StepResult {
	if !rc.cfg.Verify.Enabled {
		return skipped(VerifyEditorExtension, "verification disabled")
	}
	ed := rc.cfg.Editor
	spec := process.Spec{Name: ed.Binary, Args: []string{"--list-extensions"}, Capture: true}
	out := rc.c.Runner.Run(ctx, spec)
	logCaptured(spec, out)
	if err := out.Err(); err != nil {
		return failed(VerifyEditorExtension, ErrProcess, err)
	}
	if !listsExtension(out.Stdout, ed.Extension) {
		return failed(VerifyEditorExtension, ErrProcess, fmt.Errorf("%w: %s", ErrExtensionMissing, ed.Extension))
	}
	return succeeded(VerifyEditorExtension, ed.Extension+" is installed")
}

// listsExtension reports whether id appears as a line of an extension listing.
// Extension ids are case-insensitive and may carry an @version suffix.
func listsExtension(listing []byte, id string) bool {
	sc := bufio.NewScanner(bytes.NewReader(listing))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if at := strings.IndexByte(line, '@'); at > 0 {
			line = line[:at]
		}
		if strings.EqualFold(line, id) {
			return true
		}
	}
	return false
}

func (rc *runContext) writeConfigFiles() StepResult {
	for _, f := range rc.files {
		path := rc.layout.ConfigPath(f.Name)
		if err := rc.c.Writer.Write(path, f.Payload); err != nil {
			return failed(WriteConfigFiles, ErrFilesystem, err)
		}
		logger.Info("[INFO] Wrote %s\n", path)
	}
	return succeeded(WriteConfigFiles, fmt.Sprintf("%d files", len(rc.files)))
}

func (rc *runContext) cleanup() StepResult {
	for _, path := range rc.downloaded {
		rc.c.Cleaner.RemoveIfExists(path)
	}
	return succeeded(CleanupTempFiles, fmt.Sprintf("%d files", len(rc.downloaded)))
}

func logCaptured(spec process.Spec, out process.Outcome) {
	if len(out.Stdout) > 0 {
		logger.Debug("[DEBUG] %s stdout:\n%s\n", spec.Name, out.Stdout)
	}
	if len(out.Stderr) > 0 {
		logger.Debug("[DEBUG] %s stderr:\n%s\n", spec.Name, out.Stderr)
	}
}
