// file: lazylist.go
package ats

import "sync"

// AspireList is a lazily-resolved handle-backed list proxy. It holds a
// context handle and an optional getter capability id; Handle() resolves
// the actual collection handle at most once over the proxy's lifetime. The
// type parameter identifies the element type generated wrapper code
// reconstructs from the resolved handle; the core never decodes elements
// itself.
type AspireList[T any] struct {
	context Handle
	getter  string // capability id; empty means "already resolved to context"
	client  *Client

	once     sync.Once
	err      error
	resolved Handle
}

// NewAspireList constructs an already-resolved list: Handle() returns
// handle with no round trip.
func NewAspireList[T any](handle Handle) *AspireList[T] {
	l := &AspireList[T]{resolved: handle}
	l.once.Do(func() {})
	return l
}

// NewAspireListWithGetter constructs a list whose real handle is deferred
// until first access, resolved by invoking getter through client with
// {"context": context}.
func NewAspireListWithGetter[T any](context Handle, client *Client, getter string) *AspireList[T] {
	return &AspireList[T]{context: context, client: client, getter: getter}
}

// Handle resolves and returns the underlying collection handle, invoking
// the getter capability at most once over the proxy's lifetime. If the
// getter's result does not decode as a handle, the context handle is used
// as the fallback.
func (l *AspireList[T]) Handle() (Handle, error) {
	l.once.Do(l.resolve)
	return l.resolved, l.err
}

func (l *AspireList[T]) resolve() {
	if l.getter == "" {
		l.resolved = l.context
		return
	}
	if l.client == nil {
		l.err = NewProtocolError("ats: AspireList has a getter but no client to invoke it through", nil)
		l.resolved = l.context
		return
	}

	raw, err := l.client.InvokeCapability(l.getter, map[string]any{"context": l.context.ToJSON()})
	if err != nil {
		l.err = err
		l.resolved = l.context
		return
	}

	if h, ok := DecodeHandle(raw); ok {
		l.resolved = h
		return
	}
	l.resolved = l.context
}
