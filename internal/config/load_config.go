package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides, e.g. SETUP_CPP_WORKSPACE_ROOT.
const EnvPrefix = "SETUP_CPP"

// DefaultConfig mirrors the classic Windows MinGW + VS Code setup.
func DefaultConfig() Config {
	variable := "PATH"
	if runtime.GOOS == "windows" {
		variable = "Path"
	}

	root := ""
	if home, err := os.UserHomeDir(); err == nil {
		root = filepath.Join(home, "Desktop", "vscode")
	}

	return Config{
		Toolchain: Toolchain{
			URL:         "https://nchc.dl.sourceforge.net/project/mingw/Installer/mingw-get-setup.exe?viasf=1",
			FileName:    "mingw-get-setup.exe",
			Kind:        KindInstaller,
			SilentArgs:  []string{"/S"},
			InstallDir:  `C:\MinGW`,
			PathSegment: `C:\MinGW\bin`,
		},
		Editor: Editor{
			URL:        "https://update.code.visualstudio.com/latest/win32-x64-user/stable",
			FileName:   "VSCodeSetup.exe",
			SilentArgs: []string{"/S"},
			Binary:     "code",
			Extension:  "ms-vscode.cpptools",
		},
		Environment: Environment{Variable: variable},
		Workspace: Workspace{
			Root:      root,
			ConfigDir: ".vscode",
		},
		Download:  Download{Dir: filepath.Join(os.TempDir(), "setup-cpp")},
		Verify:    Verify{Enabled: true},
		Privilege: Privilege{Probe: ProbeToken, Command: []string{"net", "session"}},
	}
}

// Load resolves the configuration: defaults, then the optional YAML file at
// path, then SETUP_CPP_* environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("toolchain.url", defaults.Toolchain.URL)
	v.SetDefault("toolchain.file_name", defaults.Toolchain.FileName)
	v.SetDefault("toolchain.sha256", defaults.Toolchain.SHA256)
	v.SetDefault("toolchain.kind", defaults.Toolchain.Kind)
	v.SetDefault("toolchain.silent_args", defaults.Toolchain.SilentArgs)
	v.SetDefault("toolchain.install_dir", defaults.Toolchain.InstallDir)
	v.SetDefault("toolchain.path_segment", defaults.Toolchain.PathSegment)
	v.SetDefault("toolchain.release.repo", defaults.Toolchain.Release.Repo)
	v.SetDefault("toolchain.release.tag", defaults.Toolchain.Release.Tag)
	v.SetDefault("toolchain.release.asset", defaults.Toolchain.Release.Asset)
	v.SetDefault("editor.url", defaults.Editor.URL)
	v.SetDefault("editor.file_name", defaults.Editor.FileName)
	v.SetDefault("editor.sha256", defaults.Editor.SHA256)
	v.SetDefault("editor.silent_args", defaults.Editor.SilentArgs)
	v.SetDefault("editor.binary", defaults.Editor.Binary)
	v.SetDefault("editor.extension", defaults.Editor.Extension)
	v.SetDefault("environment.variable", defaults.Environment.Variable)
	v.SetDefault("workspace.root", defaults.Workspace.Root)
	v.SetDefault("workspace.config_dir", defaults.Workspace.ConfigDir)
	v.SetDefault("workspace.files", []FileOverride{})
	v.SetDefault("download.dir", defaults.Download.Dir)
	v.SetDefault("download.timeout", defaults.Download.Timeout)
	v.SetDefault("process.timeout", defaults.Process.Timeout)
	v.SetDefault("verify.enabled", defaults.Verify.Enabled)
	v.SetDefault("privilege.probe", defaults.Privilege.Probe)
	v.SetDefault("privilege.command", defaults.Privilege.Command)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values viper cannot type-check.
func (c Config) Validate() error {
	var errs []error
	switch c.Toolchain.Kind {
	case KindInstaller, KindArchive:
	default:
		errs = append(errs, fmt.Errorf("toolchain.kind must be %q or %q, got %q", KindInstaller, KindArchive, c.Toolchain.Kind))
	}
	if c.Toolchain.Kind == KindArchive && c.Toolchain.InstallDir == "" {
		errs = append(errs, errors.New("toolchain.install_dir is required for archive installs"))
	}
	if r := c.Toolchain.Release; r.Repo != "" {
		if strings.Count(r.Repo, "/") != 1 {
			errs = append(errs, fmt.Errorf("toolchain.release.repo must be \"owner/name\", got %q", r.Repo))
		}
		if r.Asset == "" {
			errs = append(errs, errors.New("toolchain.release.asset is required with toolchain.release.repo"))
		}
		if c.Toolchain.Kind != KindArchive {
			errs = append(errs, errors.New("toolchain.release requires toolchain.kind \"archive\""))
		}
	}
	switch c.Privilege.Probe {
	case ProbeToken:
	case ProbeCommand:
		if len(c.Privilege.Command) == 0 {
			errs = append(errs, errors.New("privilege.command must not be empty when probe is \"command\""))
		}
	default:
		errs = append(errs, fmt.Errorf("privilege.probe must be %q or %q, got %q", ProbeToken, ProbeCommand, c.Privilege.Probe))
	}
	for field, name := range map[string]string{
		"toolchain.file_name": c.Toolchain.FileName,
		"editor.file_name":    c.Editor.FileName,
	} {
		if name == "" || filepath.Base(name) != name {
			errs = append(errs, fmt.Errorf("%s must be a plain file name, got %q", field, name))
		}
	}
	if c.Download.Timeout < 0 || c.Process.Timeout < 0 {
		errs = append(errs, errors.New("timeouts must not be negative"))
	}
	return errors.Join(errs...)
}

// YAML renders the configuration for `config show`.
func (c Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
