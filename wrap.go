// file: wrap.go
package ats

// ToJSONer is implemented by every value the generated wrapper layer can
// hand the client as a capability argument without further conversion.
// Handle and ReferenceExpression both satisfy it.
type ToJSONer interface {
	ToJSON() any
}

// HasHandle is satisfied by every generated wrapper type: each one owns a
// handle identifying its server-side counterpart.
type HasHandle interface {
	Handle() Handle
}

// HandleWrapperBase is the base type generated wrapper types embed to get
// (handle, client) storage and accessors for free, the way the original
// HandleWrapperBase/AspireClient pairing works.
type HandleWrapperBase struct {
	handle Handle
	client *Client
}

// NewHandleWrapperBase constructs a base wrapper from a handle and the
// client that produced it.
func NewHandleWrapperBase(handle Handle, client *Client) HandleWrapperBase {
	return HandleWrapperBase{handle: handle, client: client}
}

// Handle returns the wrapped handle.
func (b HandleWrapperBase) Handle() Handle {
	return b.handle
}

// Client returns the client this wrapper invokes capabilities through.
func (b HandleWrapperBase) Client() *Client {
	return b.client
}

// ResourceBuilderBase is the base type generated resource-builder wrappers
// embed; it layers on HandleWrapperBase without adding state of its own,
// matching the original's ResourceBuilderBase/HandleWrapperBase split.
type ResourceBuilderBase struct {
	HandleWrapperBase
}

// NewResourceBuilderBase constructs a resource-builder base wrapper.
func NewResourceBuilderBase(handle Handle, client *Client) ResourceBuilderBase {
	return ResourceBuilderBase{HandleWrapperBase: NewHandleWrapperBase(handle, client)}
}

// WrapIfHandle is a documented no-op: wrapping a marshalled handle into a
// typed proxy is the generated wrapper layer's responsibility, not the
// core's. It exists purely so callers that want to express "wrap this if
// it's a handle, otherwise pass it through" have a single call site to
// make that intent visible, matching the original's wrap_if_handle.
func WrapIfHandle(v any) any {
	return v
}

// SerializeValue renders v to its wire representation, calling ToJSON when
// v implements ToJSONer and returning v unchanged otherwise.
func SerializeValue(v any) any {
	if j, ok := v.(ToJSONer); ok {
		return j.ToJSON()
	}
	return v
}

// SerializeHandleOwner renders a HasHandle's underlying handle to its wire
// form, the shape generated argument-map construction needs.
func SerializeHandleOwner(w HasHandle) any {
	return w.Handle().ToJSON()
}
