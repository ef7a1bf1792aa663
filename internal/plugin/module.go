package plugin

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/mote/internal/editor"
	"github.com/dshills/mote/internal/registry"
)

// installModule builds the `mote` global for p's interpreter.
func (p *Plugin) installModule() {
	ls := p.ls
	mod := ls.NewTable()
	ls.SetField(mod, "command", ls.NewFunction(p.luaCommand))
	ls.SetField(mod, "bind", ls.NewFunction(p.luaBind))
	ls.SetField(mod, "status", ls.NewFunction(p.luaStatus))
	ls.SetField(mod, "line", ls.NewFunction(p.luaLine))
	ls.SetField(mod, "column", ls.NewFunction(p.luaColumn))
	ls.SetGlobal("mote", mod)
}

// luaCommand implements mote.command(id, fn [, opts]). The handler is
// anchored against garbage collection and invoked through the registry
// with a table of string arguments. Recognized options: label,
// description, priority.
func (p *Plugin) luaCommand(L *lua.LState) int {
	id := L.CheckString(1)
	fn := L.CheckFunction(2)
	opts := L.OptTable(3, nil)

	if id == "" {
		L.ArgError(1, "command id must not be empty")
	}
	p.handlers.RawSetString(id, fn)

	reg := registry.CommandRegistration{
		Descriptor: registry.CommandDescriptor{
			ID:               id,
			Label:            stringField(L, opts, "label", id),
			ShortDescription: stringField(L, opts, "description", ""),
		},
		Callable: registry.Callable{Native: p.invoke(id)},
		Priority: intField(L, opts, "priority", 0),
		Lifetime: registry.LifetimeSession,
	}
	res := p.host.reg.RegisterCommand(reg, p.origin())
	if res.Status == registry.StatusRejected {
		L.RaiseError("command %q rejected: %s", id, conflictMessage(res))
	}
	p.handles = append(p.handles, res.Handle)
	return 0
}

// luaBind implements mote.bind(mode, gesture, command_id [, opts]).
// Recognized options: id, when, priority, args.
func (p *Plugin) luaBind(L *lua.LState) int {
	modeName := L.CheckString(1)
	gesture := L.CheckString(2)
	commandID := L.CheckString(3)
	opts := L.OptTable(4, nil)

	mode, ok := parseBindingMode(modeName)
	if !ok {
		L.ArgError(1, fmt.Sprintf("unknown mode %q", modeName))
	}
	if gesture == "" {
		L.ArgError(2, "gesture must not be empty")
	}

	reg := registry.KeybindingRegistration{
		Descriptor: registry.KeybindingDescriptor{
			ID:        stringField(L, opts, "id", fmt.Sprintf("%s/%s/%s", p.Name, modeName, gesture)),
			CommandID: commandID,
			Mode:      mode,
			Gesture:   gesture,
			When:      stringField(L, opts, "when", ""),
			Arguments: argumentsField(L, opts),
		},
		Priority: intField(L, opts, "priority", 0),
		Lifetime: registry.LifetimeSession,
	}
	res := p.host.reg.RegisterKeybinding(reg, p.origin())
	if res.Status == registry.StatusRejected {
		L.RaiseError("binding %q rejected: %s", gesture, conflictMessage(res))
	}
	p.handles = append(p.handles, res.Handle)
	return 0
}

// luaStatus implements mote.status(message [, level]) with levels info,
// warning, and error.
func (p *Plugin) luaStatus(L *lua.LState) int {
	message := L.CheckString(1)
	level := L.OptString(2, "info")

	severity := editor.SeverityInfo
	switch level {
	case "info":
	case "warning":
		severity = editor.SeverityWarning
	case "error":
		severity = editor.SeverityError
	default:
		L.ArgError(2, fmt.Sprintf("unknown level %q", level))
	}
	p.host.state.SetStatus(message, severity)
	return 0
}

// luaLine implements mote.line(), returning the 1-based cursor line.
func (p *Plugin) luaLine(L *lua.LState) int {
	L.Push(lua.LNumber(p.host.state.CursorLine() + 1))
	return 1
}

// luaColumn implements mote.column(), returning the 1-based cursor
// column.
func (p *Plugin) luaColumn(L *lua.LState) int {
	L.Push(lua.LNumber(p.host.state.CursorColumn() + 1))
	return 1
}

// invoke builds the native callback bridging a registry invocation to
// the anchored Lua handler for id.
func (p *Plugin) invoke(id string) func(registry.Invocation) {
	return func(inv registry.Invocation) {
		fn := p.handlers.RawGetString(id)
		if fn.Type() != lua.LTFunction {
			return
		}
		args := p.ls.NewTable()
		for k, v := range inv.Arguments {
			args.RawSetString(k, lua.LString(v))
		}
		p.ls.Push(fn)
		p.ls.Push(args)
		if err := p.ls.PCall(1, 0, nil); err != nil {
			p.reportError(fmt.Errorf("command %s: %w", id, err))
		}
	}
}

// parseBindingMode maps the script-facing mode names onto binding modes.
func parseBindingMode(name string) (registry.BindingMode, bool) {
	switch name {
	case "normal":
		return registry.BindNormal, true
	case "insert":
		return registry.BindInsert, true
	case "command":
		return registry.BindCommand, true
	case "visual":
		return registry.BindVisual, true
	case "any":
		return registry.BindAny, true
	default:
		return registry.BindNormal, false
	}
}

func conflictMessage(res registry.Result) string {
	if res.Conflict != nil && res.Conflict.Message != "" {
		return res.Conflict.Message
	}
	return "conflicts with an existing registration"
}

// stringField reads a string option, tolerating a missing table.
func stringField(L *lua.LState, opts *lua.LTable, key, fallback string) string {
	if opts == nil {
		return fallback
	}
	if s, ok := L.GetField(opts, key).(lua.LString); ok {
		return string(s)
	}
	return fallback
}

// intField reads an integer option, tolerating a missing table.
func intField(L *lua.LState, opts *lua.LTable, key string, fallback int) int {
	if opts == nil {
		return fallback
	}
	if n, ok := L.GetField(opts, key).(lua.LNumber); ok {
		return int(n)
	}
	return fallback
}

// argumentsField reads the args option into the string map a keybinding
// carries to its command.
func argumentsField(L *lua.LState, opts *lua.LTable) map[string]string {
	if opts == nil {
		return nil
	}
	tbl, ok := L.GetField(opts, "args").(*lua.LTable)
	if !ok {
		return nil
	}
	out := make(map[string]string)
	tbl.ForEach(func(k, v lua.LValue) {
		out[lua.LVAsString(k)] = lua.LVAsString(v)
	})
	return out
}
