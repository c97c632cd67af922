// file: cancellation.go
package ats

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// tokenCanceller is the minimal surface a Client must provide for a
// handle-backed Token to propagate cancellation to the server. Declared as
// an interface here, rather than importing Client directly, to keep this
// file free of any dependency on the connection/dispatch machinery.
type tokenCanceller interface {
	cancelRemoteToken(handle Handle) error
}

// Token represents a single cancellation signal. It is monotone: once
// cancelled it stays cancelled, and every continuation registered on it
// runs exactly once, in registration order, on the transition.
type Token struct {
	id            string
	handle        *Handle // nil for a local-only token
	canceller     tokenCanceller
	mu            sync.Mutex
	cancelled     atomic.Bool
	continuations []func()
}

// NewToken constructs a purely local cancellation token: Cancel only runs
// local continuations and never talks to the server.
func NewToken() *Token {
	return &Token{id: newCancellationID()}
}

// NewHandleToken constructs a cancellation token backed by a server-side
// handle: Cancel also asks canceller to propagate cancellation remotely.
func NewHandleToken(handle Handle, canceller tokenCanceller) *Token {
	return &Token{id: newCancellationID(), handle: &handle, canceller: canceller}
}

// ID returns the token's registry id.
func (t *Token) ID() string {
	return t.id
}

// IsCancelled reports whether the token has transitioned to cancelled.
func (t *Token) IsCancelled() bool {
	return t.cancelled.Load()
}

// Register adds a continuation to run when the token is cancelled. If the
// token is already cancelled, fn runs immediately, synchronously, before
// Register returns.
func (t *Token) Register(fn func()) {
	t.mu.Lock()
	if t.cancelled.Load() {
		t.mu.Unlock()
		fn()
		return
	}
	t.continuations = append(t.continuations, fn)
	t.mu.Unlock()
}

// Cancel transitions the token to cancelled, if it has not already, running
// every registered continuation exactly once, in registration order, then
// propagating to the server if this is a handle-backed token.
func (t *Token) Cancel() error {
	if !t.cancelled.CompareAndSwap(false, true) {
		return nil
	}

	t.mu.Lock()
	conts := t.continuations
	t.continuations = nil
	t.mu.Unlock()

	for _, fn := range conts {
		fn()
	}

	if t.handle != nil && t.canceller != nil {
		return t.canceller.cancelRemoteToken(*t.handle)
	}
	return nil
}

var cancellationSeq atomic.Uint64

func newCancellationID() string {
	seq := cancellationSeq.Add(1)
	return "cancel_" + strconv.FormatUint(seq, 10) + "_" + uuid.NewString()
}

// CancellationRegistry tracks live tokens by id. Client does not consult it
// when dispatching server-originated requests: every inbound method other
// than invokeCallback is answered with method-not-found.
type CancellationRegistry struct {
	mu     sync.RWMutex
	tokens map[string]*Token
}

// NewCancellationRegistry constructs an empty registry.
func NewCancellationRegistry() *CancellationRegistry {
	return &CancellationRegistry{tokens: make(map[string]*Token)}
}

// Register stores token under its own id.
func (r *CancellationRegistry) Register(token *Token) {
	r.mu.Lock()
	r.tokens[token.id] = token
	r.mu.Unlock()
}

// Unregister removes the token with the given id, reporting whether one
// was actually registered under it.
func (r *CancellationRegistry) Unregister(id string) bool {
	r.mu.Lock()
	_, ok := r.tokens[id]
	delete(r.tokens, id)
	r.mu.Unlock()
	return ok
}

// Lookup returns the token registered under id, if any.
func (r *CancellationRegistry) Lookup(id string) (*Token, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tok, ok := r.tokens[id]
	return tok, ok
}

// defaultCancellations is the process-wide registry RegisterCancellation
// always registers tokens in.
var defaultCancellations = NewCancellationRegistry()

// cancellationSender is the minimal client surface RegisterCancellation
// needs to propagate a fired token to the server. *Client satisfies this
// via its CancelToken method.
type cancellationSender interface {
	CancelToken(tokenID string) (bool, error)
}

// RegisterCancellation registers token in the default process-wide registry
// and schedules a continuation that sends a cancelToken request for its id
// through sender when the token fires. This is what makes a plain local
// token (NewToken) propagate cancellation to the server the same way a
// handle-backed token (NewHandleToken) already does on its own. sender may
// be nil, in which case the token is registered but never propagated.
// Returns the token's id.
func RegisterCancellation(token *Token, sender cancellationSender) string {
	defaultCancellations.Register(token)
	if sender != nil {
		token.Register(func() {
			_, _ = sender.CancelToken(token.id)
		})
	}
	return token.id
}
