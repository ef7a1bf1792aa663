package app

import (
	"path/filepath"
	"time"

	"github.com/dshills/mote/internal/config"
)

// frameInterval is the main loop cadence, roughly sixty frames a
// second.
const frameInterval = 16 * time.Millisecond

// idleSleep is how long the input goroutine sleeps when the terminal
// has no pending events.
const idleSleep = 5 * time.Millisecond

// Run drives the editor until quit. An input goroutine feeds the event
// queue while the main loop drains it, applies events in order, and
// renders a frame per batch. The input goroutine is joined and the
// terminal restored on every return path.
func (a *App) Run() error {
	if !a.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer a.running.Store(false)

	if err := a.terminal.Init(); err != nil {
		return &InitError{Component: "terminal", Err: err}
	}
	defer a.terminal.Fini()
	defer a.plugins.Close()

	a.logger.Info("editor starting, file=%q", a.buf.Path())
	a.loadPlugins()

	a.stop.Store(false)
	inputDone := make(chan struct{})
	go func() {
		defer close(inputDone)
		a.pollInput()
	}()

	a.loop()

	a.stop.Store(true)
	a.terminal.Stop()
	<-inputDone

	a.persistCursor()
	a.logger.Info("editor stopped")
	return nil
}

// Shutdown asks a running editor to stop. Safe to call from any
// goroutine; the main loop notices within one frame.
func (a *App) Shutdown() {
	a.stop.Store(true)
}

// pollInput feeds terminal keys into the queue until stopped. It never
// touches the editing state.
func (a *App) pollInput() {
	for !a.stop.Load() {
		ev, ok := a.terminal.PollKey()
		if !ok {
			time.Sleep(idleSleep)
			continue
		}
		a.queue.Push(ev)
	}
}

// loop applies queued events at a fixed cadence and renders once per
// non-empty batch.
func (a *App) loop() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	a.renderer.Render(a.state, a.engine.CommandBuffer())
	for a.state.Running() && !a.stop.Load() {
		<-ticker.C

		batch := a.queue.ConsumeAll()
		if len(batch) == 0 {
			continue
		}
		for _, ev := range batch {
			a.engine.HandleEvent(ev)
			if !a.state.Running() {
				break
			}
		}
		a.renderer.Render(a.state, a.engine.CommandBuffer())
	}
}

// loadPlugins runs every plugin under the configured root and logs the
// outcome per plugin. Load failures never stop the editor.
func (a *App) loadPlugins() {
	root := a.opts.PluginDir
	if root == "" {
		root = a.cfg.Plugin.Dir
	}
	if root == "" {
		dir, err := config.Dir()
		if err != nil {
			return
		}
		root = filepath.Join(dir, "plugins")
	}

	log := a.logger.WithComponent("plugin")
	for _, res := range a.plugins.LoadAll(root) {
		if res.Err != nil {
			log.Warn("skipped %s: %v", res.Path, res.Err)
			continue
		}
		if res.Version != "" {
			log.Info("loaded %s %s", res.Name, res.Version)
		} else {
			log.Info("loaded %s", res.Name)
		}
	}
}

// persistCursor saves the final cursor position for the buffer's file.
func (a *App) persistCursor() {
	if a.store == nil || a.buf.Path() == "" {
		return
	}
	if err := a.store.SaveCursor(a.buf.Path(), a.state.CursorLine(), a.state.CursorColumn()); err != nil {
		a.logger.Warn("session save failed: %v", err)
	}
}
