// Package registry provides the extension registry: commands and
// keybindings contributed by the core editor, native extensions,
// plugins, and user configuration, with deterministic conflict
// resolution between them.
//
// Precedence is origin rank first (Core < Native < Plugin < User), then
// numeric priority. A losing entry is not discarded: it is pushed onto
// a shadow stack for its id (commands) or mode+gesture slot
// (keybindings) and becomes eligible for promotion when the winner is
// unregistered. Every contested registration leaves a ConflictRecord in
// the audit log.
package registry

import (
	"sort"
	"sync"
)

// Registry is safe for concurrent use. Subscriber callbacks are invoked
// with no internal lock held, so they may reenter the registry.
type Registry struct {
	mu sync.Mutex

	commands      map[string]commandEntry
	commandShadow map[string][]commandEntry

	bindings      map[string]keybindingEntry   // active, by binding id
	bindingOwner  map[string]string            // slot key -> active binding id
	bindingShadow map[string][]keybindingEntry // slot key -> shadowed entries
	tokenSlot     map[uint64]string            // binding token -> slot key

	conflicts   []ConflictRecord
	subscribers []subscriber

	version          uint64
	nextToken        uint64
	nextSequence     uint64
	nextSubscription uint64
}

type commandEntry struct {
	descriptor CommandDescriptor
	callable   Callable
	origin     Origin
	priority   int
	lifetime   Lifetime
	token      uint64
	sequence   uint64
}

type keybindingEntry struct {
	descriptor KeybindingDescriptor
	origin     Origin
	priority   int
	lifetime   Lifetime
	token      uint64
	sequence   uint64
	slot       string
}

type subscriber struct {
	id Subscription
	cb Callback
}

// New creates an empty registry. Version starts at 1 and every token,
// sequence, and subscription id counter starts at 1 so that zero values
// always mean "absent".
func New() *Registry {
	return &Registry{
		commands:         make(map[string]commandEntry),
		commandShadow:    make(map[string][]commandEntry),
		bindings:         make(map[string]keybindingEntry),
		bindingOwner:     make(map[string]string),
		bindingShadow:    make(map[string][]keybindingEntry),
		tokenSlot:        make(map[uint64]string),
		version:          1,
		nextToken:        1,
		nextSequence:     1,
		nextSubscription: 1,
	}
}

type decision uint8

const (
	decideReplace decision = iota
	decideShadow
	decideReject
)

// RegisterCommand registers a command under descriptor.ID on behalf of
// origin. The returned Result carries the outcome status, an
// unregistration handle when the entry was stored (applied or
// shadowed), and the conflict record when the slot was contested.
func (r *Registry) RegisterCommand(reg CommandRegistration, origin Origin) Result {
	if reg.Descriptor.ID == "" {
		return r.rejectInvalid(ResourceCommand, "", origin, "Command id must not be empty")
	}
	if !reg.Callable.Valid() {
		return r.rejectInvalid(ResourceCommand, reg.Descriptor.ID, origin,
			"Command callable must provide native callback or RPC endpoint")
	}

	incoming := commandEntry{
		descriptor: reg.Descriptor,
		callable:   reg.Callable,
		origin:     origin,
		priority:   reg.Priority,
		lifetime:   reg.Lifetime,
	}

	var result Result
	var events []Event

	r.mu.Lock()
	incoming.token = r.nextToken
	r.nextToken++
	incoming.sequence = r.nextSequence
	r.nextSequence++

	id := incoming.descriptor.ID
	existing, occupied := r.commands[id]
	if !occupied {
		r.commands[id] = incoming
		r.version++
		result.Status = StatusApplied
		result.Handle = Handle{Resource: ResourceCommand, ID: id, Token: incoming.token}
		events = append(events, Event{Resource: ResourceCommand, ID: id, Status: StatusApplied})
	} else {
		verdict, conflict := resolveCommandConflict(existing, incoming)
		if conflict != nil {
			r.conflicts = append(r.conflicts, *conflict)
			result.Conflict = conflict
		}

		switch verdict {
		case decideReplace:
			r.commandShadow[id] = append(r.commandShadow[id], existing)
			r.commands[id] = incoming
			r.version++
			result.Status = StatusApplied
			result.Handle = Handle{Resource: ResourceCommand, ID: id, Token: incoming.token}
			events = append(events,
				Event{Resource: ResourceCommand, ID: existing.descriptor.ID, Status: StatusShadowed},
				Event{Resource: ResourceCommand, ID: id, Status: StatusApplied})
		case decideShadow:
			r.commandShadow[id] = append(r.commandShadow[id], incoming)
			r.version++
			result.Status = StatusShadowed
			result.Handle = Handle{Resource: ResourceCommand, ID: id, Token: incoming.token}
			events = append(events, Event{Resource: ResourceCommand, ID: id, Status: StatusShadowed})
		case decideReject:
			result.Status = StatusRejected
		}
	}
	r.mu.Unlock()

	for _, ev := range events {
		r.notify(ev)
	}
	return result
}

// RegisterKeybinding registers a keybinding. Binding ids must be unique
// across the whole registry, active and shadowed alike; gesture
// conflicts within a mode resolve by precedence like commands do.
func (r *Registry) RegisterKeybinding(reg KeybindingRegistration, origin Origin) Result {
	desc := reg.Descriptor
	if desc.ID == "" {
		return r.rejectInvalid(ResourceKeybinding, "", origin, "Keybinding id must not be empty")
	}
	if desc.Gesture == "" {
		return r.rejectInvalid(ResourceKeybinding, desc.ID, origin, "Keybinding gesture must not be empty")
	}

	incoming := keybindingEntry{
		descriptor: desc,
		origin:     origin,
		priority:   reg.Priority,
		lifetime:   reg.Lifetime,
		slot:       slotKey(desc.Mode, desc.Gesture),
	}

	var result Result
	var events []Event

	r.mu.Lock()
	if holder, taken := r.bindingIDHolder(desc.ID); taken {
		conflict := ConflictRecord{
			Resource: ResourceKeybinding,
			ID:       desc.ID,
			Winner:   holder,
			Loser:    origin,
			Message:  "Keybinding id already registered",
		}
		r.conflicts = append(r.conflicts, conflict)
		r.mu.Unlock()
		return Result{Status: StatusRejected, Conflict: &conflict}
	}

	incoming.token = r.nextToken
	r.nextToken++
	incoming.sequence = r.nextSequence
	r.nextSequence++
	r.tokenSlot[incoming.token] = incoming.slot

	ownerID, occupied := r.bindingOwner[incoming.slot]
	if !occupied {
		r.bindings[desc.ID] = incoming
		r.bindingOwner[incoming.slot] = desc.ID
		r.version++
		result.Status = StatusApplied
		result.Handle = Handle{Resource: ResourceKeybinding, ID: desc.ID, Token: incoming.token}
		events = append(events, Event{Resource: ResourceKeybinding, ID: desc.ID, Status: StatusApplied})
	} else {
		existing := r.bindings[ownerID]
		verdict, conflict := resolveKeybindingConflict(existing, incoming)
		if conflict != nil {
			r.conflicts = append(r.conflicts, *conflict)
			result.Conflict = conflict
		}

		switch verdict {
		case decideReplace:
			r.bindingShadow[incoming.slot] = append(r.bindingShadow[incoming.slot], existing)
			delete(r.bindings, ownerID)
			r.bindings[desc.ID] = incoming
			r.bindingOwner[incoming.slot] = desc.ID
			r.version++
			result.Status = StatusApplied
			result.Handle = Handle{Resource: ResourceKeybinding, ID: desc.ID, Token: incoming.token}
			events = append(events,
				Event{Resource: ResourceKeybinding, ID: existing.descriptor.ID, Status: StatusShadowed},
				Event{Resource: ResourceKeybinding, ID: desc.ID, Status: StatusApplied})
		case decideShadow:
			r.bindingShadow[incoming.slot] = append(r.bindingShadow[incoming.slot], incoming)
			r.version++
			result.Status = StatusShadowed
			result.Handle = Handle{Resource: ResourceKeybinding, ID: desc.ID, Token: incoming.token}
			events = append(events, Event{Resource: ResourceKeybinding, ID: desc.ID, Status: StatusShadowed})
		case decideReject:
			delete(r.tokenSlot, incoming.token)
			result.Status = StatusRejected
		}
	}
	r.mu.Unlock()

	for _, ev := range events {
		r.notify(ev)
	}
	return result
}

// Unregister removes the entry the handle was issued for. Removing an
// active entry promotes the best shadowed rival (highest rank, then
// priority, then earliest sequence) and emits a single Rejected-status
// event for the removed id; removing a shadowed entry is silent.
// Returns false for invalid or stale handles.
func (r *Registry) Unregister(h Handle) bool {
	if !h.Valid() {
		return false
	}

	var events []Event
	removed := false

	r.mu.Lock()
	switch h.Resource {
	case ResourceCommand:
		if entry, ok := r.commands[h.ID]; ok && entry.token == h.Token {
			delete(r.commands, h.ID)
			r.promoteCommandShadow(h.ID)
			r.version++
			events = append(events, Event{Resource: ResourceCommand, ID: h.ID, Status: StatusRejected})
			removed = true
			break
		}
		if list, ok := r.commandShadow[h.ID]; ok {
			trimmed := list[:0]
			for _, entry := range list {
				if entry.token != h.Token {
					trimmed = append(trimmed, entry)
				}
			}
			if len(trimmed) != len(list) {
				if len(trimmed) == 0 {
					delete(r.commandShadow, h.ID)
				} else {
					r.commandShadow[h.ID] = trimmed
				}
				r.version++
				removed = true
			}
		}
	case ResourceKeybinding:
		if entry, ok := r.bindings[h.ID]; ok && entry.token == h.Token {
			slot := entry.slot
			delete(r.bindings, h.ID)
			delete(r.bindingOwner, slot)
			delete(r.tokenSlot, h.Token)
			r.promoteKeybindingShadow(slot)
			r.version++
			events = append(events, Event{Resource: ResourceKeybinding, ID: h.ID, Status: StatusRejected})
			removed = true
			break
		}
		if slot, ok := r.tokenSlot[h.Token]; ok {
			list := r.bindingShadow[slot]
			trimmed := list[:0]
			for _, entry := range list {
				if entry.token != h.Token {
					trimmed = append(trimmed, entry)
				}
			}
			if len(trimmed) != len(list) {
				if len(trimmed) == 0 {
					delete(r.bindingShadow, slot)
				} else {
					r.bindingShadow[slot] = trimmed
				}
				delete(r.tokenSlot, h.Token)
				r.version++
				removed = true
			}
		}
	}
	r.mu.Unlock()

	for _, ev := range events {
		r.notify(ev)
	}
	return removed
}

// FindCommand returns the active record for id. With includeShadow it
// falls back to the most recently shadowed entry.
func (r *Registry) FindCommand(id string, includeShadow bool) (CommandRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.commands[id]; ok {
		return entry.record(StatusApplied), true
	}
	if !includeShadow {
		return CommandRecord{}, false
	}
	list := r.commandShadow[id]
	if len(list) == 0 {
		return CommandRecord{}, false
	}
	return list[len(list)-1].record(StatusShadowed), true
}

// ListCommands returns the active commands sorted by id.
func (r *Registry) ListCommands() []CommandRecord {
	r.mu.Lock()
	records := make([]CommandRecord, 0, len(r.commands))
	for _, entry := range r.commands {
		records = append(records, entry.record(StatusApplied))
	}
	r.mu.Unlock()

	sort.Slice(records, func(i, j int) bool {
		return records[i].Descriptor.ID < records[j].Descriptor.ID
	})
	return records
}

// FindKeybinding returns the record for a binding id. With
// includeShadow it also searches the shadow stacks.
func (r *Registry) FindKeybinding(id string, includeShadow bool) (KeybindingRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.bindings[id]; ok {
		return entry.record(StatusApplied), true
	}
	if !includeShadow {
		return KeybindingRecord{}, false
	}
	for _, list := range r.bindingShadow {
		for _, entry := range list {
			if entry.descriptor.ID == id {
				return entry.record(StatusShadowed), true
			}
		}
	}
	return KeybindingRecord{}, false
}

// ResolveKeybinding returns the active binding for the exact
// mode+gesture slot. It never falls back across modes; callers that
// want BindAny behavior issue a second lookup themselves.
func (r *Registry) ResolveKeybinding(mode BindingMode, gesture string) (KeybindingRecord, bool) {
	slot := slotKey(mode, gesture)

	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.bindingOwner[slot]
	if !ok {
		return KeybindingRecord{}, false
	}
	entry, ok := r.bindings[id]
	if !ok {
		return KeybindingRecord{}, false
	}
	return entry.record(StatusApplied), true
}

// ListKeybindings returns the active keybindings sorted by id.
func (r *Registry) ListKeybindings() []KeybindingRecord {
	r.mu.Lock()
	records := make([]KeybindingRecord, 0, len(r.bindings))
	for _, entry := range r.bindings {
		records = append(records, entry.record(StatusApplied))
	}
	r.mu.Unlock()

	sort.Slice(records, func(i, j int) bool {
		return records[i].Descriptor.ID < records[j].Descriptor.ID
	})
	return records
}

// ConflictLog returns a snapshot of the conflict audit trail in the
// order conflicts occurred.
func (r *Registry) ConflictLog() []ConflictRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ConflictRecord, len(r.conflicts))
	copy(out, r.conflicts)
	return out
}

// Version returns the mutation counter. It starts at 1 and increments
// on every applied, shadowed, unregistered, or promoted entry, so
// callers can cheaply detect "anything changed".
func (r *Registry) Version() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.version
}

// Subscribe registers a callback for registry events. Events are
// delivered synchronously in subscription order. A nil callback
// returns the zero Subscription.
func (r *Registry) Subscribe(cb Callback) Subscription {
	if cb == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	id := Subscription(r.nextSubscription)
	r.nextSubscription++
	r.subscribers = append(r.subscribers, subscriber{id: id, cb: cb})
	return id
}

// Unsubscribe removes a subscription. Returns false if the id is zero
// or unknown.
func (r *Registry) Unsubscribe(id Subscription) bool {
	if id == 0 {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, sub := range r.subscribers {
		if sub.id == id {
			r.subscribers = append(r.subscribers[:i], r.subscribers[i+1:]...)
			return true
		}
	}
	return false
}

// notify copies the subscriber list under the lock and invokes the
// callbacks after releasing it.
func (r *Registry) notify(ev Event) {
	r.mu.Lock()
	callbacks := make([]Callback, 0, len(r.subscribers))
	for _, sub := range r.subscribers {
		callbacks = append(callbacks, sub.cb)
	}
	r.mu.Unlock()

	for _, cb := range callbacks {
		cb(ev)
	}
}

// rejectInvalid records a validation failure in the conflict log and
// returns the rejection. Validation failures name the registrant as
// both winner and loser since no rival was involved.
func (r *Registry) rejectInvalid(kind ResourceKind, id string, origin Origin, msg string) Result {
	conflict := ConflictRecord{
		Resource: kind,
		ID:       id,
		Winner:   origin,
		Loser:    origin,
		Message:  msg,
	}
	r.mu.Lock()
	r.conflicts = append(r.conflicts, conflict)
	r.mu.Unlock()
	return Result{Status: StatusRejected, Conflict: &conflict}
}

// bindingIDHolder reports whether a binding id is in use anywhere,
// active or shadowed, and by which origin.
func (r *Registry) bindingIDHolder(id string) (Origin, bool) {
	if entry, ok := r.bindings[id]; ok {
		return entry.origin, true
	}
	for _, list := range r.bindingShadow {
		for _, entry := range list {
			if entry.descriptor.ID == id {
				return entry.origin, true
			}
		}
	}
	return Origin{}, false
}

// promoteCommandShadow moves the best shadowed command for id into the
// active slot. Callers hold the lock.
func (r *Registry) promoteCommandShadow(id string) {
	list, ok := r.commandShadow[id]
	if !ok || len(list) == 0 {
		delete(r.commandShadow, id)
		return
	}

	best := 0
	for i := 1; i < len(list); i++ {
		if preferCommand(list[i], list[best]) {
			best = i
		}
	}

	promoted := list[best]
	list = append(list[:best], list[best+1:]...)
	if len(list) == 0 {
		delete(r.commandShadow, id)
	} else {
		r.commandShadow[id] = list
	}
	r.commands[id] = promoted
	r.version++
}

// promoteKeybindingShadow moves the best shadowed binding for a slot
// into the active position. Callers hold the lock.
func (r *Registry) promoteKeybindingShadow(slot string) {
	list, ok := r.bindingShadow[slot]
	if !ok || len(list) == 0 {
		delete(r.bindingShadow, slot)
		return
	}

	best := 0
	for i := 1; i < len(list); i++ {
		if preferKeybinding(list[i], list[best]) {
			best = i
		}
	}

	promoted := list[best]
	list = append(list[:best], list[best+1:]...)
	if len(list) == 0 {
		delete(r.bindingShadow, slot)
	} else {
		r.bindingShadow[slot] = list
	}
	r.bindings[promoted.descriptor.ID] = promoted
	r.bindingOwner[slot] = promoted.descriptor.ID
	r.tokenSlot[promoted.token] = slot
	r.version++
}

// preferCommand reports whether a should be promoted over b.
func preferCommand(a, b commandEntry) bool {
	if ra, rb := a.origin.Kind.rank(), b.origin.Kind.rank(); ra != rb {
		return ra > rb
	}
	if a.priority != b.priority {
		return a.priority > b.priority
	}
	return a.sequence < b.sequence
}

// preferKeybinding reports whether a should be promoted over b.
func preferKeybinding(a, b keybindingEntry) bool {
	if ra, rb := a.origin.Kind.rank(), b.origin.Kind.rank(); ra != rb {
		return ra > rb
	}
	if a.priority != b.priority {
		return a.priority > b.priority
	}
	return a.sequence < b.sequence
}

func resolveCommandConflict(existing, incoming commandEntry) (decision, *ConflictRecord) {
	verdict := decideShadow
	switch {
	case incoming.origin.Kind.rank() > existing.origin.Kind.rank():
		verdict = decideReplace
	case incoming.origin.Kind.rank() < existing.origin.Kind.rank():
		verdict = decideShadow
	case incoming.priority > existing.priority:
		verdict = decideReplace
	case incoming.priority < existing.priority:
		verdict = decideShadow
	default:
		if commandDescriptorsCompatible(existing.descriptor, incoming.descriptor) {
			return decideShadow, &ConflictRecord{
				Resource: ResourceCommand,
				ID:       incoming.descriptor.ID,
				Winner:   existing.origin,
				Loser:    incoming.origin,
				Message:  "Duplicate command ignored (same precedence and priority)",
			}
		}
		return decideReject, &ConflictRecord{
			Resource: ResourceCommand,
			ID:       incoming.descriptor.ID,
			Winner:   existing.origin,
			Loser:    incoming.origin,
			Message:  "Command signature conflict with identical precedence and priority",
		}
	}

	conflict := &ConflictRecord{Resource: ResourceCommand, ID: incoming.descriptor.ID}
	if verdict == decideReplace {
		conflict.Winner = incoming.origin
		conflict.Loser = existing.origin
		conflict.Message = "Replaced command due to higher precedence or priority"
	} else {
		conflict.Winner = existing.origin
		conflict.Loser = incoming.origin
		conflict.Message = "Command shadowed by higher precedence or priority"
	}
	return verdict, conflict
}

func resolveKeybindingConflict(existing, incoming keybindingEntry) (decision, *ConflictRecord) {
	verdict := decideShadow
	switch {
	case incoming.origin.Kind.rank() > existing.origin.Kind.rank():
		verdict = decideReplace
	case incoming.origin.Kind.rank() < existing.origin.Kind.rank():
		verdict = decideShadow
	case incoming.priority > existing.priority:
		verdict = decideReplace
	case incoming.priority < existing.priority:
		verdict = decideShadow
	default:
		if incoming.descriptor.Equal(existing.descriptor) {
			return decideShadow, &ConflictRecord{
				Resource: ResourceKeybinding,
				ID:       incoming.descriptor.ID,
				Winner:   existing.origin,
				Loser:    incoming.origin,
				Message:  "Duplicate keybinding ignored (same precedence and priority)",
			}
		}
		return decideReject, &ConflictRecord{
			Resource: ResourceKeybinding,
			ID:       incoming.descriptor.ID,
			Winner:   existing.origin,
			Loser:    incoming.origin,
			Message:  "Conflicting keybinding with identical precedence and priority",
		}
	}

	conflict := &ConflictRecord{Resource: ResourceKeybinding, ID: incoming.descriptor.ID}
	if verdict == decideReplace {
		conflict.Winner = incoming.origin
		conflict.Loser = existing.origin
		conflict.Message = "Replaced keybinding due to higher precedence or priority"
	} else {
		conflict.Winner = existing.origin
		conflict.Loser = incoming.origin
		conflict.Message = "Keybinding shadowed by higher precedence or priority"
	}
	return verdict, conflict
}

func (e commandEntry) record(status Status) CommandRecord {
	return CommandRecord{
		Descriptor: e.descriptor,
		Callable:   e.callable,
		Origin:     e.origin,
		Priority:   e.priority,
		Lifetime:   e.lifetime,
		Token:      e.token,
		Sequence:   e.sequence,
		Status:     status,
	}
}

func (e keybindingEntry) record(status Status) KeybindingRecord {
	return KeybindingRecord{
		Descriptor: e.descriptor,
		Origin:     e.origin,
		Priority:   e.priority,
		Lifetime:   e.lifetime,
		Token:      e.token,
		Sequence:   e.sequence,
		Status:     status,
	}
}

// slotKey composes the resolution key for a keybinding: bindings
// collide only when both mode and gesture match.
func slotKey(mode BindingMode, gesture string) string {
	return mode.String() + ":" + gesture
}
