// file: callback_test.go
package ats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallbackRegistryRegisterAndInvoke(t *testing.T) {
	reg := NewCallbackRegistry()

	id := reg.Register(func(args []any) (any, error) {
		n, _ := args[0].(int)
		s, _ := args[1].(string)
		return n + len(s), nil
	})

	result, err := reg.Invoke(id, []any{42, "x"})
	require.NoError(t, err)
	assert.Equal(t, 43, result)
}

func TestCallbackRegistryUnregisterMakesInvokeFail(t *testing.T) {
	reg := NewCallbackRegistry()
	id := reg.Register(func(args []any) (any, error) { return nil, nil })

	reg.Unregister(id)

	_, err := reg.Invoke(id, nil)
	require.Error(t, err)
	assert.True(t, IsCapabilityCode(err, CodeCallbackError))
}

func TestCallbackRegistryIssuesUniqueIDs(t *testing.T) {
	reg := NewCallbackRegistry()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := reg.Register(func(args []any) (any, error) { return nil, nil })
		require.False(t, seen[id], "callback id %q reused", id)
		seen[id] = true
	}
}

func TestUnknownCallbackIDFailsWithCallbackErrorCode(t *testing.T) {
	reg := NewCallbackRegistry()
	_, err := reg.Invoke("does-not-exist", nil)
	require.Error(t, err)
	assert.True(t, IsCapabilityCode(err, CodeCallbackError))
}
