// file: lazylist_test.go
package ats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAspireListWithoutGetterResolvesToContext(t *testing.T) {
	ctx := NewHandle("list-1", "List")
	l := NewAspireListWithGetter[any](ctx, nil, "")

	h, err := l.Handle()
	require.NoError(t, err)
	assert.Equal(t, ctx, h)
}

func TestAspireListAlreadyResolvedNeedsNoClient(t *testing.T) {
	resolved := NewHandle("list-2", "List")
	l := NewAspireList[any](resolved)

	h, err := l.Handle()
	require.NoError(t, err)
	assert.Equal(t, resolved, h)
}

func TestAspireListGetterInvokedAtMostOnce(t *testing.T) {
	c, server := newTestClientPair(t)
	ctx := NewHandle("ctx-1", "Container")
	l := NewAspireListWithGetter[any](ctx, c, "G")

	calls := 0
	done := make(chan struct{})
	go func() {
		defer close(done)
		req := readFramed(t, server)
		calls++
		assert.Equal(t, "invokeCapability", req.Method)
		writeFramed(t, server, `{"jsonrpc":"2.0","id":1,"result":{"$handle":"resolved-1","$type":"List"}}`)
	}()

	h1, err := l.Handle()
	require.NoError(t, err)
	<-done
	assert.Equal(t, NewHandle("resolved-1", "List"), h1)

	// second access must not round-trip again.
	h2, err := l.Handle()
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
	assert.Equal(t, 1, calls)
}

func TestAspireListGetterResultNotAHandleFallsBackToContext(t *testing.T) {
	c, server := newTestClientPair(t)
	ctx := NewHandle("ctx-2", "Container")
	l := NewAspireListWithGetter[any](ctx, c, "G")

	done := make(chan struct{})
	go func() {
		defer close(done)
		readFramed(t, server)
		writeFramed(t, server, `{"jsonrpc":"2.0","id":1,"result":null}`)
	}()

	h, err := l.Handle()
	require.NoError(t, err)
	<-done
	assert.Equal(t, ctx, h)
}
