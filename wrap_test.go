// file: wrap_test.go
package ats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandleWrapperBaseAccessors(t *testing.T) {
	h := NewHandle("h1", "Builder")
	base := NewHandleWrapperBase(h, nil)

	assert.Equal(t, h, base.Handle())
	assert.Nil(t, base.Client())
}

func TestResourceBuilderBaseEmbedsHandleWrapperBase(t *testing.T) {
	h := NewHandle("h2", "Resource")
	rb := NewResourceBuilderBase(h, nil)

	var _ HasHandle = rb
	assert.Equal(t, h, rb.Handle())
}

func TestWrapIfHandleIsANoOp(t *testing.T) {
	v := map[string]any{"$handle": "h1", "$type": "T"}
	got := WrapIfHandle(v)
	assert.Equal(t, v, got)
}

func TestSerializeValueUsesToJSONWhenAvailable(t *testing.T) {
	h := NewHandle("h1", "T")
	assert.Equal(t, h.ToJSON(), SerializeValue(h))
	assert.Equal(t, 42, SerializeValue(42))
}

func TestSerializeHandleOwner(t *testing.T) {
	h := NewHandle("h1", "T")
	base := NewHandleWrapperBase(h, nil)
	assert.Equal(t, h.ToJSON(), SerializeHandleOwner(base))
}
