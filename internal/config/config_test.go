package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// Helper to write a config file under a temp dir and return its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if cfg != nil {
		t.Fatalf("Load() = %+v, want nil for a missing file", cfg)
	}
}

func TestLoadParsesAllSections(t *testing.T) {
	path := writeConfig(t, `
[editor]
tab_width = 4

[log]
level = "debug"
file = "/tmp/mote.log"

[theme]
status_info = "#ffffff"
status_warning = "#ffcc00"
status_error = "#ff0000"

[session]
path = "/tmp/session.db"

[plugin]
dir = "/tmp/plugins"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg == nil {
		t.Fatal("Load() = nil, want parsed config")
	}
	if cfg.Editor.TabWidth != 4 {
		t.Errorf("Editor.TabWidth = %d, want 4", cfg.Editor.TabWidth)
	}
	if cfg.Log.Level != "debug" || cfg.Log.File != "/tmp/mote.log" {
		t.Errorf("Log = %+v, want level debug, file /tmp/mote.log", cfg.Log)
	}
	if cfg.Theme.StatusInfo != "#ffffff" || cfg.Theme.StatusWarning != "#ffcc00" || cfg.Theme.StatusError != "#ff0000" {
		t.Errorf("Theme = %+v, want the three hex values", cfg.Theme)
	}
	if cfg.Session.Path != "/tmp/session.db" {
		t.Errorf("Session.Path = %q, want /tmp/session.db", cfg.Session.Path)
	}
	if cfg.Plugin.Dir != "/tmp/plugins" {
		t.Errorf("Plugin.Dir = %q, want /tmp/plugins", cfg.Plugin.Dir)
	}
}

func TestLoadPartialFileLeavesZeroValues(t *testing.T) {
	path := writeConfig(t, "[log]\nlevel = \"warn\"\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn", cfg.Log.Level)
	}
	if cfg.Log.File != "" || cfg.Editor.TabWidth != 0 || cfg.Theme.StatusInfo != "" {
		t.Errorf("unset sections = %+v, want zero values", cfg)
	}
}

func TestLoadMalformedReturnsParseError(t *testing.T) {
	path := writeConfig(t, "log = {{{\n")

	cfg, err := Load(path)
	if cfg != nil {
		t.Errorf("Load() = %+v, want nil on parse failure", cfg)
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("Load() error = %v, want *ParseError", err)
	}
	if parseErr.Path != path {
		t.Errorf("ParseError.Path = %q, want %q", parseErr.Path, path)
	}
	if parseErr.Unwrap() == nil {
		t.Error("ParseError.Unwrap() = nil, want wrapped cause")
	}
}

func TestLoadUnreadablePathWrapsError(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if cfg != nil || err == nil {
		t.Fatalf("Load(dir) = %+v, %v, want nil config and an error", cfg, err)
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		t.Errorf("Load(dir) error = %v, want a read error, not *ParseError", err)
	}
}

func TestDefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)

	path, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath() error = %v", err)
	}
	want := filepath.Join(home, "mote", "config.toml")
	if path != want {
		t.Errorf("DefaultPath() = %q, want %q", path, want)
	}
}
