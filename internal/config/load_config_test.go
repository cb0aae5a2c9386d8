package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Toolchain.FileName != "mingw-get-setup.exe" {
		t.Errorf("toolchain.file_name = %q", cfg.Toolchain.FileName)
	}
	if cfg.Toolchain.PathSegment != `C:\MinGW\bin` {
		t.Errorf("toolchain.path_segment = %q", cfg.Toolchain.PathSegment)
	}
	if cfg.Editor.Binary != "code" || cfg.Editor.Extension != "ms-vscode.cpptools" {
		t.Errorf("editor = %+v", cfg.Editor)
	}
	if len(cfg.Editor.SilentArgs) != 1 || cfg.Editor.SilentArgs[0] != "/S" {
		t.Errorf("editor.silent_args = %v", cfg.Editor.SilentArgs)
	}
	if !cfg.Verify.Enabled {
		t.Error("verify.enabled should default to true")
	}
	if cfg.Workspace.ConfigDir != ".vscode" {
		t.Errorf("workspace.config_dir = %q", cfg.Workspace.ConfigDir)
	}
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "setup.yaml")
	content := `
toolchain:
  kind: archive
  url: https://example.invalid/winlibs.7z
  file_name: winlibs.7z
  install_dir: C:\mingw64
  path_segment: C:\mingw64\bin
editor:
  silent_args: ["/VERYSILENT", "/MERGETASKS=!runcode"]
download:
  timeout: 90s
workspace:
  files:
    - name: settings.json
      path: ./my-settings.json
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SETUP_CPP_WORKSPACE_ROOT", filepath.Join(dir, "ws"))
	t.Setenv("SETUP_CPP_VERIFY_ENABLED", "false")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Toolchain.Kind != KindArchive || cfg.Toolchain.FileName != "winlibs.7z" {
		t.Errorf("toolchain = %+v", cfg.Toolchain)
	}
	if len(cfg.Toolchain.SilentArgs) != 1 {
		t.Errorf("unset keys should keep defaults, silent_args = %v", cfg.Toolchain.SilentArgs)
	}
	if len(cfg.Editor.SilentArgs) != 2 || cfg.Editor.SilentArgs[0] != "/VERYSILENT" {
		t.Errorf("editor.silent_args = %v", cfg.Editor.SilentArgs)
	}
	if cfg.Download.Timeout != 90*time.Second {
		t.Errorf("download.timeout = %v", cfg.Download.Timeout)
	}
	if cfg.Workspace.Root != filepath.Join(dir, "ws") {
		t.Errorf("workspace.root = %q, env override ignored", cfg.Workspace.Root)
	}
	if cfg.Verify.Enabled {
		t.Error("SETUP_CPP_VERIFY_ENABLED=false ignored")
	}
	if cfg.Workspace.Overrides()["settings.json"] != "./my-settings.json" {
		t.Errorf("workspace.files = %v", cfg.Workspace.Files)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad kind", func(c *Config) { c.Toolchain.Kind = "msi" }, "toolchain.kind"},
		{"archive without dir", func(c *Config) { c.Toolchain.Kind = KindArchive; c.Toolchain.InstallDir = "" }, "install_dir"},
		{"bad probe", func(c *Config) { c.Privilege.Probe = "sudo" }, "privilege.probe"},
		{"empty probe command", func(c *Config) { c.Privilege.Probe = ProbeCommand; c.Privilege.Command = nil }, "privilege.command"},
		{"file name with dir", func(c *Config) { c.Editor.FileName = "../VSCodeSetup.exe" }, "editor.file_name"},
		{"negative timeout", func(c *Config) { c.Process.Timeout = -time.Second }, "timeouts"},
		{"release without asset", func(c *Config) {
			c.Toolchain.Kind = KindArchive
			c.Toolchain.Release = Release{Repo: "niXman/mingw-builds-binaries"}
		}, "release.asset"},
		{"release repo without owner", func(c *Config) {
			c.Toolchain.Kind = KindArchive
			c.Toolchain.Release = Release{Repo: "mingw", Asset: "x86_64"}
		}, "owner/name"},
		{"release with installer kind", func(c *Config) {
			c.Toolchain.Release = Release{Repo: "niXman/mingw-builds-binaries", Asset: "x86_64"}
		}, "archive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Validate() = %v, want error mentioning %q", err, tt.want)
			}
		})
	}

	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestYAML_RoundTrips(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	cfg.Process.Timeout = 10 * time.Minute

	data, err := cfg.YAML()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "timeout: 10m0s") {
		t.Errorf("durations should render as strings:\n%s", data)
	}
	var back Config
	if err := yaml.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.Editor.Extension != cfg.Editor.Extension || back.Process.Timeout != cfg.Process.Timeout {
		t.Errorf("round trip mismatch: %+v", back)
	}
}
