package mode

import (
	"strings"

	"github.com/dshills/mote/internal/editor"
	"github.com/dshills/mote/internal/key"
	"github.com/dshills/mote/internal/registry"
)

// Engine owns modal key dispatch for one editing session. It routes
// events by mode, tracks the pending multi-key command and its counts,
// and holds the yank buffer and find-repeat memory. The Engine is not
// safe for concurrent use; the main loop is its only caller.
type Engine struct {
	state    *editor.State
	reg      *registry.Registry
	dispatch Dispatcher

	pending       string
	counts        countState
	commandBuffer []rune

	yank         []string
	yankLinewise bool

	hasLastFind      bool
	lastFindTarget   rune
	lastFindBackward bool
	lastFindTill     bool

	handles []registry.Handle
}

// New builds an engine around the session state and registers the core
// normal-mode commands and bindings. dispatch may be nil, in which case
// every colon command reports "Unknown command".
func New(state *editor.State, reg *registry.Registry, dispatch Dispatcher) *Engine {
	e := &Engine{state: state, reg: reg, dispatch: dispatch}
	e.installCoreBindings()
	return e
}

// Close unregisters everything the engine contributed to the registry.
func (e *Engine) Close() {
	for _, h := range e.handles {
		e.reg.Unregister(h)
	}
	e.handles = nil
}

// HandleEvent dispatches one key event according to the active mode.
func (e *Engine) HandleEvent(ev key.Event) {
	switch e.state.Mode() {
	case editor.ModeInsert:
		e.handleInsertMode(ev)
	case editor.ModeCommandLine:
		e.handleCommandMode(ev)
	default:
		e.handleNormalMode(ev)
	}
}

// CommandBuffer returns the colon-command line typed so far.
func (e *Engine) CommandBuffer() string {
	return string(e.commandBuffer)
}

// installCoreBindings contributes the built-in normal-mode commands so
// they flow through the registry like any external contribution and can
// be shadowed by higher-precedence origins.
func (e *Engine) installCoreBindings() {
	e.registerNormal("core.normal.move_down", "Move Down", func() {
		e.pending = ""
		e.state.MoveCursorLine(e.counts.consumeOr(1))
		e.state.ClearStatus()
	}, "j", "<Down>")

	e.registerNormal("core.normal.move_up", "Move Up", func() {
		e.pending = ""
		e.state.MoveCursorLine(-e.counts.consumeOr(1))
		e.state.ClearStatus()
	}, "k", "<Up>")

	e.registerNormal("core.normal.move_left", "Move Left", func() {
		e.pending = ""
		e.state.MoveCursorColumn(-e.counts.consumeOr(1))
		e.state.ClearStatus()
	}, "h", "<Left>")

	e.registerNormal("core.normal.move_right", "Move Right", func() {
		e.pending = ""
		e.state.MoveCursorColumn(e.counts.consumeOr(1))
		e.state.ClearStatus()
	}, "l", "<Right>")

	e.registerNormal("core.normal.enter_insert", "Enter Insert Mode", func() {
		e.pending = ""
		e.enterInsertMode()
	}, "i")

	e.registerNormal("core.normal.append", "Append", func() {
		e.pending = ""
		e.appendAfterCursor()
	}, "a")

	e.registerNormal("core.normal.append_line_end", "Append at Line End", func() {
		e.pending = ""
		e.appendAtLineEnd()
	}, "A")

	e.registerNormal("core.normal.insert_line_start", "Insert at Line Start", func() {
		e.pending = ""
		e.insertAtLineStart()
	}, "I")

	e.registerNormal("core.normal.insert_below", "Insert Below", func() {
		e.pending = ""
		e.openLineBelow()
	}, "o")

	e.registerNormal("core.normal.insert_above", "Insert Above", func() {
		e.pending = ""
		e.openLineAbove()
	}, "O")
}

// registerNormal registers one session-lifetime normal-mode command and
// its gestures under the core.mode origin, retaining handles for Close.
func (e *Engine) registerNormal(id, label string, fn func(), gestures ...string) {
	origin := registry.Origin{Kind: registry.OriginCore, Name: "core.mode"}

	result := e.reg.RegisterCommand(registry.CommandRegistration{
		Descriptor: registry.CommandDescriptor{
			ID:               id,
			Label:            label,
			ShortDescription: label,
			Modes:            []registry.BindingMode{registry.BindNormal},
			UndoScope:        registry.UndoNone,
		},
		Callable: registry.Callable{Native: func(registry.Invocation) { fn() }},
		Lifetime: registry.LifetimeSession,
	}, origin)
	if result.Status != registry.StatusRejected && result.Handle.Valid() {
		e.handles = append(e.handles, result.Handle)
	}
	if result.Status == registry.StatusRejected {
		return
	}

	for _, gesture := range gestures {
		bindingResult := e.reg.RegisterKeybinding(registry.KeybindingRegistration{
			Descriptor: registry.KeybindingDescriptor{
				ID:        id + ".binding." + sanitizeGesture(gesture),
				CommandID: id,
				Mode:      registry.BindNormal,
				Gesture:   gesture,
			},
			Lifetime: registry.LifetimeSession,
		}, origin)
		if bindingResult.Status != registry.StatusRejected && bindingResult.Handle.Valid() {
			e.handles = append(e.handles, bindingResult.Handle)
		}
	}
}

// sanitizeGesture maps a gesture to the identifier-safe form used in
// binding ids: ASCII alphanumerics pass through, everything else becomes
// an underscore.
func sanitizeGesture(gesture string) string {
	var b strings.Builder
	b.Grow(len(gesture))
	for _, r := range gesture {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "binding"
	}
	return b.String()
}

// executeRegisteredBinding resolves the event's gesture against the
// registry and invokes the bound command. It declines when a multi-key
// command is pending so operator motions are never stolen by bindings.
func (e *Engine) executeRegisteredBinding(ev key.Event) bool {
	if e.pending != "" {
		return false
	}
	gesture := ev.Gesture()
	if gesture == "" {
		return false
	}

	record, ok := e.reg.ResolveKeybinding(bindingModeFor(e.state.Mode()), gesture)
	if !ok {
		record, ok = e.reg.ResolveKeybinding(registry.BindAny, gesture)
		if !ok {
			return false
		}
	}
	return e.invokeCommand(record.Descriptor.CommandID, record.Descriptor.Arguments)
}

func bindingModeFor(mode editor.Mode) registry.BindingMode {
	switch mode {
	case editor.ModeNormal:
		return registry.BindNormal
	case editor.ModeInsert:
		return registry.BindInsert
	case editor.ModeCommandLine:
		return registry.BindCommand
	case editor.ModeVisual:
		return registry.BindVisual
	default:
		return registry.BindAny
	}
}

// invokeCommand looks up a command, following shadowed entries, and runs
// its native callback. A miss or a callable without a native callback
// reports a warning and lets the caller fall back to literal dispatch.
func (e *Engine) invokeCommand(commandID string, args map[string]string) bool {
	record, ok := e.reg.FindCommand(commandID, true)
	if !ok {
		e.state.SetStatus("Command not found", editor.SeverityWarning)
		return false
	}
	if record.Callable.Native != nil {
		record.Callable.Native(registry.Invocation{CommandID: commandID, Arguments: args})
		return true
	}
	e.state.SetStatus("Command not executable", editor.SeverityWarning)
	return false
}
