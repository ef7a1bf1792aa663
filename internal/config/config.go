// Package config loads mote's TOML configuration file. A missing file
// is not an error: Load returns (nil, nil) and callers fall back to
// defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config is the parsed configuration file. Zero values mean "not set";
// callers supply the effective fallbacks.
type Config struct {
	Editor  EditorConfig  `toml:"editor"`
	Log     LogConfig     `toml:"log"`
	Theme   ThemeConfig   `toml:"theme"`
	Session SessionConfig `toml:"session"`
	Plugin  PluginConfig  `toml:"plugin"`
}

// EditorConfig holds editing settings.
type EditorConfig struct {
	// TabWidth is the number of columns a tab occupies.
	TabWidth int `toml:"tab_width"`
}

// LogConfig controls the log sink.
type LogConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `toml:"level"`

	// File is the log destination. Empty discards log output; the
	// terminal is never used while the editor owns it.
	File string `toml:"file"`
}

// ThemeConfig holds the status-row background colors as "#rrggbb" hex
// strings.
type ThemeConfig struct {
	StatusInfo    string `toml:"status_info"`
	StatusWarning string `toml:"status_warning"`
	StatusError   string `toml:"status_error"`
}

// SessionConfig controls cursor-position persistence.
type SessionConfig struct {
	// Path is the session database location. Empty places it in the
	// mote config directory.
	Path string `toml:"path"`
}

// PluginConfig controls the Lua plugin host.
type PluginConfig struct {
	// Dir is the plugin directory scanned at startup. Empty uses
	// "plugins" inside the mote config directory.
	Dir string `toml:"dir"`
}

// Dir returns the mote configuration directory.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate user config dir: %w", err)
	}
	return filepath.Join(base, "mote"), nil
}

// DefaultPath returns the standard configuration file location.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads and parses the configuration at path. A file that does not
// exist returns (nil, nil). Malformed TOML returns a *ParseError.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Message: err.Error(), Err: err}
	}
	return &cfg, nil
}

// ParseError reports a malformed configuration file.
type ParseError struct {
	Path    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
