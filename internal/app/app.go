// Package app wires the editor together and manages its lifecycle:
// configuration, logging, the editing state, the terminal, session
// persistence, the plugin host, and the main loop.
package app

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/dshills/mote/internal/buffer"
	"github.com/dshills/mote/internal/config"
	"github.com/dshills/mote/internal/editor"
	"github.com/dshills/mote/internal/event"
	"github.com/dshills/mote/internal/excmd"
	"github.com/dshills/mote/internal/mode"
	"github.com/dshills/mote/internal/plugin"
	"github.com/dshills/mote/internal/registry"
	"github.com/dshills/mote/internal/render"
	"github.com/dshills/mote/internal/session"
	"github.com/dshills/mote/internal/term"
)

// ErrAlreadyRunning is returned by Run when the editor is already
// running.
var ErrAlreadyRunning = errors.New("editor already running")

// InitError wraps a component initialization failure.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return "init " + e.Component + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// Options configures the application.
type Options struct {
	// ConfigPath overrides the default configuration file location.
	ConfigPath string

	// File is the file to edit. Empty opens an unnamed buffer.
	File string

	// LogLevel and LogFile override the configuration file's log
	// section when non-empty.
	LogLevel string
	LogFile  string

	// PluginDir overrides the configuration file's plugin directory.
	PluginDir string

	// Terminal supplies the screen. Nil means the process terminal.
	Terminal *term.Terminal
}

// App is the assembled editor.
type App struct {
	opts   Options
	cfg    config.Config
	logger *Logger

	buf      *buffer.Buffer
	state    *editor.State
	reg      *registry.Registry
	engine   *mode.Engine
	queue    *event.Queue
	terminal *term.Terminal
	renderer *render.Renderer
	store    *session.Store
	plugins  *plugin.Host

	logFile *os.File
	running atomic.Bool
	stop    atomic.Bool
}

// New assembles an editor from opts in dependency order: configuration,
// logger, buffer and editing state, registry and mode engine, event
// queue, terminal and renderer, session store, plugin host. Plugins
// themselves load in Run.
func New(opts Options) (*App, error) {
	a := &App{opts: opts}

	if err := a.loadConfig(); err != nil {
		return nil, err
	}
	if err := a.initLogger(); err != nil {
		return nil, err
	}

	a.buf = buffer.New()
	if opts.File != "" {
		if err := a.buf.Load(opts.File); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, &InitError{Component: "buffer", Err: err}
			}
			a.logger.Debug("new file: %s", opts.File)
		}
	}
	a.state = editor.NewState(a.buf)

	a.reg = registry.New()
	a.engine = mode.New(a.state, a.reg, excmd.Defaults())
	a.queue = event.NewQueue()

	a.terminal = opts.Terminal
	if a.terminal == nil {
		t, err := term.New()
		if err != nil {
			return nil, &InitError{Component: "terminal", Err: err}
		}
		a.terminal = t
	}
	theme := render.ThemeFromHex(a.cfg.Theme.StatusInfo, a.cfg.Theme.StatusWarning, a.cfg.Theme.StatusError)
	a.renderer = render.New(a.terminal, theme)

	a.openSession()
	a.restoreCursor()

	a.plugins = plugin.New(a.state, a.reg)
	a.plugins.SetErrorHandler(func(name string, err error) {
		a.logger.WithComponent("plugin").Error("%s: %v", name, err)
	})

	return a, nil
}

// loadConfig resolves and reads the configuration file. A missing file
// leaves the zero config; a malformed one fails startup so the user
// sees the parse message instead of silently losing their settings.
func (a *App) loadConfig() error {
	path := a.opts.ConfigPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	if cfg != nil {
		a.cfg = *cfg
	}
	return nil
}

// initLogger builds the application logger from the config file and
// flag overrides. Without a log file, output is discarded.
func (a *App) initLogger() error {
	level := a.cfg.Log.Level
	if a.opts.LogLevel != "" {
		level = a.opts.LogLevel
	}
	path := a.cfg.Log.File
	if a.opts.LogFile != "" {
		path = a.opts.LogFile
	}

	cfg := LoggerConfig{Level: ParseLogLevel(level), Prefix: "mote"}
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return &InitError{Component: "log file", Err: err}
		}
		a.logFile = f
		cfg.Output = f
	}
	a.logger = NewLogger(cfg)
	SetLogger(a.logger)
	return nil
}

// openSession opens the cursor-position store. Failures disable
// persistence for this run; the editor works without it.
func (a *App) openSession() {
	path := a.cfg.Session.Path
	if path == "" {
		dir, err := config.Dir()
		if err != nil {
			a.logger.Warn("session store disabled: %v", err)
			return
		}
		path = filepath.Join(dir, "session.db")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		a.logger.Warn("session store disabled: %v", err)
		return
	}
	store, err := session.Open(path)
	if err != nil {
		a.logger.Warn("session store disabled: %v", err)
		return
	}
	a.store = store
}

// restoreCursor moves the cursor to the position saved for the buffer's
// file, if any. SetCursor clamps stale positions.
func (a *App) restoreCursor() {
	if a.store == nil || a.buf.Path() == "" {
		return
	}
	line, col, err := a.store.Cursor(a.buf.Path())
	if err != nil {
		if !errors.Is(err, session.ErrNoPosition) {
			a.logger.Warn("session restore failed: %v", err)
		}
		return
	}
	a.state.SetCursor(line, col)
}

// Close releases resources held outside Run: core keybindings, the
// session store, and the log file.
func (a *App) Close() {
	if a.engine != nil {
		a.engine.Close()
	}
	if a.store != nil {
		_ = a.store.Close()
		a.store = nil
	}
	if a.logFile != nil {
		_ = a.logFile.Close()
		a.logFile = nil
	}
}

// State returns the editing state.
func (a *App) State() *editor.State {
	return a.state
}

// Buffer returns the text buffer.
func (a *App) Buffer() *buffer.Buffer {
	return a.buf
}

// Registry returns the command registry.
func (a *App) Registry() *registry.Registry {
	return a.reg
}

// Config returns the effective configuration.
func (a *App) Config() config.Config {
	return a.cfg
}

// Logger returns the application logger.
func (a *App) Logger() *Logger {
	return a.logger
}

// IsRunning reports whether Run is active.
func (a *App) IsRunning() bool {
	return a.running.Load()
}
