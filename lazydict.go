// file: lazydict.go
package ats

import "sync"

// AspireDict is the keyed counterpart to AspireList: a lazily-resolved
// handle-backed dict proxy. See AspireList for the resolution contract.
type AspireDict[K comparable, V any] struct {
	context Handle
	getter  string
	client  *Client

	once     sync.Once
	err      error
	resolved Handle
}

// NewAspireDict constructs an already-resolved dict.
func NewAspireDict[K comparable, V any](handle Handle) *AspireDict[K, V] {
	d := &AspireDict[K, V]{resolved: handle}
	d.once.Do(func() {})
	return d
}

// NewAspireDictWithGetter constructs a dict whose real handle is deferred
// until first access.
func NewAspireDictWithGetter[K comparable, V any](context Handle, client *Client, getter string) *AspireDict[K, V] {
	return &AspireDict[K, V]{context: context, client: client, getter: getter}
}

// Handle resolves and returns the underlying collection handle, invoking
// the getter capability at most once over the proxy's lifetime.
func (d *AspireDict[K, V]) Handle() (Handle, error) {
	d.once.Do(d.resolve)
	return d.resolved, d.err
}

func (d *AspireDict[K, V]) resolve() {
	if d.getter == "" {
		d.resolved = d.context
		return
	}
	if d.client == nil {
		d.err = NewProtocolError("ats: AspireDict has a getter but no client to invoke it through", nil)
		d.resolved = d.context
		return
	}

	raw, err := d.client.InvokeCapability(d.getter, map[string]any{"context": d.context.ToJSON()})
	if err != nil {
		d.err = err
		d.resolved = d.context
		return
	}

	if h, ok := DecodeHandle(raw); ok {
		d.resolved = h
		return
	}
	d.resolved = d.context
}
