// Package plugin loads Lua plugins and connects them to the command
// registry. Each plugin lives in its own directory under the configured
// plugin root, runs in its own interpreter, and contributes commands and
// keybindings through a `mote` module injected into the script
// environment before its entry script runs.
//
// The host is not safe for concurrent use. Plugins load during startup
// and their handlers run on the editor loop, so no locking is needed.
package plugin

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/mote/internal/editor"
	"github.com/dshills/mote/internal/registry"
)

// handlerAnchor is the global table each interpreter uses to keep
// handler functions reachable so the Lua GC cannot collect them while
// the registry still points at them.
const handlerAnchor = "__mote_handlers"

// Host owns the interpreters for every loaded plugin.
type Host struct {
	state   *editor.State
	reg     *registry.Registry
	plugins []*Plugin
	onError func(plugin string, err error)
}

// Plugin is one loaded plugin: its interpreter, the handler functions it
// anchored, and the registry handles needed to withdraw what it
// contributed.
type Plugin struct {
	Name    string
	Version string
	Dir     string

	host     *Host
	ls       *lua.LState
	handlers *lua.LTable
	handles  []registry.Handle
}

// LoadResult reports the outcome for one plugin directory.
type LoadResult struct {
	Name    string
	Version string
	Path    string
	Err     error
}

// New creates a host that registers plugin contributions against reg and
// runs their handlers against state.
func New(state *editor.State, reg *registry.Registry) *Host {
	return &Host{state: state, reg: reg}
}

// SetErrorHandler installs a callback for failures raised by plugin
// command handlers after loading. Load failures are reported through
// LoadAll results instead.
func (h *Host) SetErrorHandler(fn func(plugin string, err error)) {
	h.onError = fn
}

// LoadAll discovers and runs every plugin directory under root, in
// directory name order. A missing root loads nothing. A plugin that
// fails to load contributes nothing; the failure lands in its result.
func (h *Host) LoadAll(root string) []LoadResult {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return []LoadResult{{Path: root, Err: fmt.Errorf("reading plugin directory: %w", err)}}
	}

	var results []LoadResult
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		results = append(results, h.load(filepath.Join(root, entry.Name())))
	}
	return results
}

// load runs one plugin directory. On any failure the plugin's partial
// contributions are withdrawn and its interpreter closed.
func (h *Host) load(dir string) LoadResult {
	manifest, err := loadManifest(dir)
	res := LoadResult{Name: manifest.Name, Version: manifest.Version, Path: dir}
	if err != nil {
		res.Err = err
		return res
	}

	p := &Plugin{Name: manifest.Name, Version: manifest.Version, Dir: dir, host: h}
	p.ls = lua.NewState()
	p.handlers = p.ls.NewTable()
	p.ls.SetGlobal(handlerAnchor, p.handlers)
	p.installModule()

	if err := p.ls.DoFile(filepath.Join(dir, manifest.Main)); err != nil {
		p.teardown()
		res.Err = fmt.Errorf("running %s: %w", manifest.Main, err)
		return res
	}

	h.plugins = append(h.plugins, p)
	return res
}

// Loaded returns the successfully loaded plugins.
func (h *Host) Loaded() []*Plugin {
	return h.plugins
}

// Close withdraws every plugin's registrations and shuts the
// interpreters down.
func (h *Host) Close() {
	for _, p := range h.plugins {
		p.teardown()
	}
	h.plugins = nil
}

func (p *Plugin) teardown() {
	for _, handle := range p.handles {
		p.host.reg.Unregister(handle)
	}
	p.handles = nil
	p.ls.SetGlobal(handlerAnchor, lua.LNil)
	p.ls.Close()
}

func (p *Plugin) reportError(err error) {
	if p.host.onError != nil {
		p.host.onError(p.Name, err)
	}
}

func (p *Plugin) origin() registry.Origin {
	return registry.Origin{Kind: registry.OriginPlugin, Name: p.Name}
}
