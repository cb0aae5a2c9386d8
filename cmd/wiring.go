package cmd

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/afero"

	"setup-cpp/internal/config"
	"setup-cpp/internal/download"
	"setup-cpp/internal/envpath"
	"setup-cpp/internal/installer"
	"setup-cpp/internal/logger"
	"setup-cpp/internal/pipeline"
	"setup-cpp/internal/privilege"
	"setup-cpp/internal/process"
	"setup-cpp/internal/report"
	"setup-cpp/internal/templates"
	"setup-cpp/internal/workspace"
)

// components builds the production collaborators for cfg.
func components(cfg *config.Config, fsys afero.Fs) pipeline.Components {
	runner := process.NewRunner(cfg.Process.Timeout)

	var checker pipeline.PrivilegeChecker = privilege.TokenChecker{}
	if cfg.Privilege.Probe == config.ProbeCommand {
		checker = privilege.NewCommandChecker(runner, cfg.Privilege.Command)
	}

	return pipeline.Components{
		Privilege: checker,
		Fetcher:   download.New(nil, cfg.Download.Timeout),
		Runner:    runner,
		Path:      envpath.NewConfigurator(envpath.DefaultStore(), cfg.Environment.Variable),
		Workspace: workspace.NewInitializer(fsys, cfg.Workspace.ConfigDir),
		Writer:    workspace.NewWriter(fsys),
		Cleaner:   workspace.NewCleaner(fsys),
		Extractor: installer.Extractor{},
		Releases:  installer.NewReleaseResolver(nil),
	}
}

// runPlan loads the configuration, runs the given steps (all of them when
// none are given), records the report and prints the closing message.
func runPlan(ctx context.Context, plan ...pipeline.State) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	fsys := afero.NewOsFs()
	files, err := templates.Load(fsys, cfg.Workspace.Overrides())
	if err != nil {
		return err
	}

	p, err := pipeline.New(cfg, files, components(cfg, fsys), plan...)
	if err != nil {
		return err
	}

	out, runErr := p.Run(ctx)

	if err := report.Save(fsys, reportPath, report.FromOutcome(out)); err != nil {
		logger.Warn("[WARN] %v\n", err)
	}

	if runErr != nil {
		return fmt.Errorf("provisioning aborted at %s: %w", out.FailedAt, runErr)
	}
	if slices.Contains(p.Plan(), pipeline.WriteConfigFiles) {
		logger.Info("[INFO] Setup finished. Open %s with the \"Open Folder\" command of the editor and write your code there.\n", cfg.Workspace.Root)
	} else {
		logger.Info("[INFO] Finished.\n")
	}
	return nil
}
