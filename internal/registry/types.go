package registry

// ResourceKind identifies what kind of resource a registration
// contributes.
type ResourceKind uint8

const (
	ResourceCommand ResourceKind = iota
	ResourceKeybinding
	ResourceTheme
	ResourceFiletype
	ResourcePlugin
	ResourceOption
)

// String returns the lowercase resource name.
func (k ResourceKind) String() string {
	switch k {
	case ResourceCommand:
		return "command"
	case ResourceKeybinding:
		return "keybinding"
	case ResourceTheme:
		return "theme"
	case ResourceFiletype:
		return "filetype"
	case ResourcePlugin:
		return "plugin"
	case ResourceOption:
		return "option"
	default:
		return "unknown"
	}
}

// OriginKind classifies the contributing party of a registration.
// Precedence rank strictly increases Core < Native < Plugin < User, so a
// user contribution always beats a plugin one, and so on down.
type OriginKind uint8

const (
	OriginCore OriginKind = iota
	OriginNative
	OriginPlugin
	OriginUser
)

// String returns the lowercase origin kind name.
func (k OriginKind) String() string {
	switch k {
	case OriginCore:
		return "core"
	case OriginNative:
		return "native"
	case OriginPlugin:
		return "plugin"
	case OriginUser:
		return "user"
	default:
		return "unknown"
	}
}

// rank is the precedence rank used during conflict resolution.
func (k OriginKind) rank() int {
	return int(k)
}

// Origin names the party that contributed a registration.
type Origin struct {
	Kind OriginKind
	Name string
}

// Lifetime describes how long a registration is expected to live.
type Lifetime uint8

const (
	// LifetimeStatic registrations last for the process.
	LifetimeStatic Lifetime = iota
	// LifetimeSession registrations are torn down with the editing session.
	LifetimeSession
)

// Status is the outcome of a registration or the state of an entry.
type Status uint8

const (
	// StatusApplied means the entry is (or became) the active winner.
	StatusApplied Status = iota
	// StatusShadowed means the entry lost precedence but remains
	// available for promotion.
	StatusShadowed
	// StatusRejected means the registration was refused outright.
	StatusRejected
)

// String returns the lowercase status name.
func (s Status) String() string {
	switch s {
	case StatusApplied:
		return "applied"
	case StatusShadowed:
		return "shadowed"
	case StatusRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// UndoScope declares the granularity of undo a command would need.
type UndoScope uint8

const (
	UndoNone UndoScope = iota
	UndoLine
	UndoBuffer
)

// ParameterKind types a declared command parameter.
type ParameterKind uint8

const (
	ParamString ParameterKind = iota
	ParamInteger
	ParamNumber
	ParamBoolean
	ParamArray
	ParamObject
)

// Parameter describes one declared command parameter.
type Parameter struct {
	Name     string
	Kind     ParameterKind
	Required bool
	Default  string
}

// Capability is a bitmask of effects a command declares.
type Capability uint32

const (
	CapReadBuffer Capability = 1 << iota
	CapWriteBuffer
	CapFilesystem
	CapNetwork
	CapSpawnProcess
)

// BindingMode scopes a keybinding (or a command's applicability) to an
// input mode. BindAny participates in resolution only through the
// caller's explicit fallback lookup, never by shadowing mode-specific
// bindings.
type BindingMode uint8

const (
	BindNormal BindingMode = iota
	BindInsert
	BindCommand
	BindVisual
	BindAny
)

// String returns the lowercase binding mode name.
func (m BindingMode) String() string {
	switch m {
	case BindNormal:
		return "normal"
	case BindInsert:
		return "insert"
	case BindCommand:
		return "command"
	case BindVisual:
		return "visual"
	case BindAny:
		return "any"
	default:
		return "unknown"
	}
}

// CommandDescriptor is the immutable identity and contract of a command.
type CommandDescriptor struct {
	ID               string
	Label            string
	ShortDescription string
	DocURL           string
	Modes            []BindingMode
	Parameters       []Parameter
	Capabilities     Capability
	UndoScope        UndoScope
}

// Invocation is passed to a command's native callback when it runs.
type Invocation struct {
	CommandID string
	Arguments map[string]string
}

// Callable is how a command is executed: an in-process callback, an RPC
// endpoint for out-of-process commands, or both. At least one must be
// present for a registration to be valid.
type Callable struct {
	Native      func(Invocation)
	RPCEndpoint string
}

// Valid reports whether the callable can be invoked at all.
func (c Callable) Valid() bool {
	return c.Native != nil || c.RPCEndpoint != ""
}

// CommandRegistration is the payload for RegisterCommand.
type CommandRegistration struct {
	Descriptor CommandDescriptor
	Callable   Callable
	Priority   int
	Lifetime   Lifetime
}

// CommandRecord is a snapshot of a registered command.
type CommandRecord struct {
	Descriptor CommandDescriptor
	Callable   Callable
	Origin     Origin
	Priority   int
	Lifetime   Lifetime
	Token      uint64
	Sequence   uint64
	Status     Status
}

// KeybindingDescriptor is the immutable identity of a keybinding.
type KeybindingDescriptor struct {
	ID        string
	CommandID string
	Mode      BindingMode
	Gesture   string
	When      string
	Arguments map[string]string
}

// Equal reports full descriptor equality, including the argument map.
func (d KeybindingDescriptor) Equal(other KeybindingDescriptor) bool {
	if d.ID != other.ID || d.CommandID != other.CommandID ||
		d.Mode != other.Mode || d.Gesture != other.Gesture ||
		d.When != other.When {
		return false
	}
	if len(d.Arguments) != len(other.Arguments) {
		return false
	}
	for k, v := range d.Arguments {
		if ov, ok := other.Arguments[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// KeybindingRegistration is the payload for RegisterKeybinding.
type KeybindingRegistration struct {
	Descriptor KeybindingDescriptor
	Priority   int
	Lifetime   Lifetime
}

// KeybindingRecord is a snapshot of a registered keybinding.
type KeybindingRecord struct {
	Descriptor KeybindingDescriptor
	Origin     Origin
	Priority   int
	Lifetime   Lifetime
	Token      uint64
	Sequence   uint64
	Status     Status
}

// ConflictRecord is one audit-log entry describing how a registration
// collision was resolved.
type ConflictRecord struct {
	Resource ResourceKind
	ID       string
	Winner   Origin
	Loser    Origin
	Message  string
}

// Handle is the capability needed to unregister an entry. A zero token
// marks an invalid handle; invalid handles are always refused.
type Handle struct {
	Resource ResourceKind
	ID       string
	Token    uint64
}

// Valid reports whether the handle refers to a real registration.
func (h Handle) Valid() bool {
	return h.Token != 0
}

// Result reports the outcome of a registration attempt.
type Result struct {
	Status   Status
	Handle   Handle
	Conflict *ConflictRecord
}

// Event notifies subscribers of a registry state change.
type Event struct {
	Resource ResourceKind
	ID       string
	Status   Status
}

// Callback receives registry events synchronously, in subscription
// order, with the registry's lock released. Callbacks may safely
// re-enter the registry.
type Callback func(Event)

// Subscription identifies a registered callback. Zero is never issued.
type Subscription uint64

// commandDescriptorsCompatible reports whether two command descriptors
// with the same id can coexist as duplicates: same modes, parameters,
// and undo scope.
func commandDescriptorsCompatible(a, b CommandDescriptor) bool {
	if a.UndoScope != b.UndoScope {
		return false
	}
	if len(a.Modes) != len(b.Modes) || len(a.Parameters) != len(b.Parameters) {
		return false
	}
	for i := range a.Modes {
		if a.Modes[i] != b.Modes[i] {
			return false
		}
	}
	for i := range a.Parameters {
		if a.Parameters[i] != b.Parameters[i] {
			return false
		}
	}
	return true
}
