// file: callback.go
package ats

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Closure is a server-invocable callback. args are the decoded positional
// arguments p0..pN from an invokeCallback request; the return value becomes
// the result of that reverse call.
type Closure func(args []any) (any, error)

// CallbackRegistry holds process-wide callbacks keyed by id, so a server
// that calls back into the client can look one up by the id handed out when
// it was registered.
type CallbackRegistry struct {
	mu      sync.RWMutex
	entries map[string]Closure
	seq     atomic.Uint64
}

// NewCallbackRegistry constructs an empty registry. Tests construct their
// own instance rather than sharing the package-level default.
func NewCallbackRegistry() *CallbackRegistry {
	return &CallbackRegistry{entries: make(map[string]Closure)}
}

// Register stores fn under a freshly generated id and returns that id.
func (r *CallbackRegistry) Register(fn Closure) string {
	id := r.nextID()
	r.mu.Lock()
	r.entries[id] = fn
	r.mu.Unlock()
	return id
}

// Unregister removes the callback with the given id, reporting whether one
// was actually registered under it.
func (r *CallbackRegistry) Unregister(id string) bool {
	r.mu.Lock()
	_, ok := r.entries[id]
	delete(r.entries, id)
	r.mu.Unlock()
	return ok
}

// Lookup returns the callback registered under id, if any.
func (r *CallbackRegistry) Lookup(id string) (Closure, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.entries[id]
	return fn, ok
}

// Invoke looks up id and calls it, reporting a CapabilityError with code
// CALLBACK_ERROR when no callback is registered under it.
func (r *CallbackRegistry) Invoke(id string, args []any) (any, error) {
	fn, ok := r.Lookup(id)
	if !ok {
		return nil, NewCapabilityError(string(CodeCallbackError), "no callback registered for id "+id, "")
	}
	return fn(args)
}

func (r *CallbackRegistry) nextID() string {
	seq := r.seq.Add(1)
	return "callback_" + strconv.FormatUint(seq, 10) + "_" + uuid.NewString()
}

// defaultCallbacks is the process-wide registry package-level helpers and
// Client use unless a caller plumbs through its own.
var defaultCallbacks = NewCallbackRegistry()

// RegisterCallback registers fn in the default process-wide registry.
func RegisterCallback(fn Closure) string {
	return defaultCallbacks.Register(fn)
}

// UnregisterCallback removes id from the default process-wide registry,
// reporting whether one was actually registered under it.
func UnregisterCallback(id string) bool {
	return defaultCallbacks.Unregister(id)
}
