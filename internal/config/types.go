package config

import "time"

// Installer kinds for the toolchain.
const (
	KindInstaller = "installer" // self-extracting executable run with silent flags
	KindArchive   = "archive"   // .zip/.7z/.tar.* unpacked into InstallDir
)

// Privilege probes.
const (
	ProbeToken   = "token"
	ProbeCommand = "command"
)

// Release picks the toolchain archive from a GitHub release instead of a fixed URL.
// - Repo: "owner/name"; empty disables the lookup.
// - Tag: empty means the latest release.
// - Asset: substring of the wanted archive's file name.
type Release struct {
	Repo  string `mapstructure:"repo" yaml:"repo,omitempty"`
	Tag   string `mapstructure:"tag" yaml:"tag,omitempty"`
	Asset string `mapstructure:"asset" yaml:"asset,omitempty"`
}

// Toolchain describes the compiler download and how to install it.
// - URL/FileName/SHA256: where to fetch it, the local file name, optional digest.
// - Release: when set, overrides URL and FileName with a GitHub release asset.
// - Kind: "installer" (run with SilentArgs) or "archive" (extract into InstallDir).
// - PathSegment: directory appended to the machine-wide search path.
type Toolchain struct {
	URL         string   `mapstructure:"url" yaml:"url"`
	FileName    string   `mapstructure:"file_name" yaml:"file_name"`
	SHA256      string   `mapstructure:"sha256" yaml:"sha256,omitempty"`
	Kind        string   `mapstructure:"kind" yaml:"kind"`
	SilentArgs  []string `mapstructure:"silent_args" yaml:"silent_args"`
	InstallDir  string   `mapstructure:"install_dir" yaml:"install_dir"`
	PathSegment string   `mapstructure:"path_segment" yaml:"path_segment"`
	Release     Release  `mapstructure:"release" yaml:"release,omitempty"`
}

// Editor describes the editor download, its CLI binary and the extension to install.
type Editor struct {
	URL        string   `mapstructure:"url" yaml:"url"`
	FileName   string   `mapstructure:"file_name" yaml:"file_name"`
	SHA256     string   `mapstructure:"sha256" yaml:"sha256,omitempty"`
	SilentArgs []string `mapstructure:"silent_args" yaml:"silent_args"`
	Binary     string   `mapstructure:"binary" yaml:"binary"`
	Extension  string   `mapstructure:"extension" yaml:"extension"`
}

// Environment names the persistent search-path variable.
type Environment struct {
	Variable string `mapstructure:"variable" yaml:"variable"`
}

// FileOverride replaces (or adds) the configuration file Name with the bytes of Path.
type FileOverride struct {
	Name string `mapstructure:"name" yaml:"name"`
	Path string `mapstructure:"path" yaml:"path"`
}

// Workspace is where the editor configuration files go.
type Workspace struct {
	Root      string         `mapstructure:"root" yaml:"root"`
	ConfigDir string         `mapstructure:"config_dir" yaml:"config_dir"`
	Files     []FileOverride `mapstructure:"files" yaml:"files,omitempty"`
}

// Overrides returns Files keyed by name; later entries win.
func (w Workspace) Overrides() map[string]string {
	m := make(map[string]string, len(w.Files))
	for _, f := range w.Files {
		m[f.Name] = f.Path
	}
	return m
}

// Download controls where installers are stored and how long a transfer may take.
type Download struct {
	Dir     string        `mapstructure:"dir" yaml:"dir"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// Process bounds each spawned process. Zero means no limit.
type Process struct {
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// Verify toggles the post-install extension listing check.
type Verify struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// Privilege selects how elevated rights are detected.
// - Probe: "token" asks the OS; "command" runs Command and expects exit code 0.
type Privilege struct {
	Probe   string   `mapstructure:"probe" yaml:"probe"`
	Command []string `mapstructure:"command" yaml:"command"`
}

// Config is the fully resolved configuration for one provisioning run.
type Config struct {
	Toolchain   Toolchain   `mapstructure:"toolchain" yaml:"toolchain"`
	Editor      Editor      `mapstructure:"editor" yaml:"editor"`
	Environment Environment `mapstructure:"environment" yaml:"environment"`
	Workspace   Workspace   `mapstructure:"workspace" yaml:"workspace"`
	Download    Download    `mapstructure:"download" yaml:"download"`
	Process     Process     `mapstructure:"process" yaml:"process"`
	Verify      Verify      `mapstructure:"verify" yaml:"verify"`
	Privilege   Privilege   `mapstructure:"privilege" yaml:"privilege"`
}
