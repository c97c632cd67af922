// file: internal/wire/message_test.go
package wire

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequestMessageShape(t *testing.T) {
	msg, err := NewRequestMessage(7, "invokeCapability", []any{"X/op", map[string]any{"a": 1}})
	require.NoError(t, err)

	assert.Equal(t, Version, msg.JSONRPC)
	assert.Equal(t, "invokeCapability", msg.Method)
	assert.True(t, msg.IsRequest())
	assert.False(t, msg.IsResponse())

	id, err := DecodeID(msg.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), id)
}

func TestNewResultMessageDecodesResultExactly(t *testing.T) {
	id := json.RawMessage(`1`)
	msg, err := NewResultMessage(id, map[string]any{"$handle": "h1", "$type": "T"})
	require.NoError(t, err)
	assert.True(t, msg.IsResponse())

	result, err := DecodeResult(msg)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"$handle": "h1", "$type": "T"}, result)
}

func TestNewErrorMessageCarriesCodeAndMessage(t *testing.T) {
	msg := NewErrorMessage(json.RawMessage(`1`), CodeMethodNotFound, "unknown method foo")
	require.NotNil(t, msg.Error)
	assert.Equal(t, int64(CodeMethodNotFound), msg.Error.Code)
	assert.Equal(t, "unknown method foo", msg.Error.Message)
}

func TestDecodeResultAbsentReturnsNil(t *testing.T) {
	msg := &Message{}
	result, err := DecodeResult(msg)
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestDecodeIDRejectsNonNumeric(t *testing.T) {
	_, err := DecodeID(json.RawMessage(`"not-a-number"`))
	assert.Error(t, err)
}

func TestDecodeParamsArrayIntoFixedArray(t *testing.T) {
	var dst [2]json.RawMessage
	err := DecodeParamsArray(json.RawMessage(`["cb_1", {"p0": 42}]`), &dst)
	require.NoError(t, err)
	assert.Equal(t, json.RawMessage(`"cb_1"`), dst[0])
	assert.JSONEq(t, `{"p0": 42}`, string(dst[1]))
}

func TestDecodeParamsArrayMissingFails(t *testing.T) {
	var dst []json.RawMessage
	err := DecodeParamsArray(nil, &dst)
	assert.Error(t, err)
}
