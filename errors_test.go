// file: errors_test.go
package ats

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigErrorIsErrConfig(t *testing.T) {
	err := NewConfigError("missing REMOTE_APP_HOST_SOCKET_PATH", nil)
	assert.ErrorIs(t, err, ErrConfig)
	assert.False(t, errors.Is(err, ErrConnect))
}

func TestNewConnectErrorWrapsCause(t *testing.T) {
	cause := errors.New("dial failed")
	err := NewConnectError("ats: failed to open connection", cause)
	assert.ErrorIs(t, err, ErrConnect)
	assert.ErrorIs(t, err, cause)
}

func TestCapabilityErrorMessageAndFields(t *testing.T) {
	err := NewCapabilityError("HANDLE_NOT_FOUND", "bad", "X/op")

	var capErr *CapabilityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, CodeHandleNotFound, capErr.Code)
	assert.Equal(t, "bad", capErr.Message)
	assert.Equal(t, "X/op", capErr.Capability)
	assert.Contains(t, capErr.Error(), "HANDLE_NOT_FOUND")
	assert.Contains(t, capErr.Error(), "X/op")
}

func TestCapabilityErrorWithoutCapabilityOmitsIt(t *testing.T) {
	err := NewCapabilityError("INTERNAL_ERROR", "oops", "")
	assert.NotContains(t, err.Error(), "invoking")
}

func TestCapabilityErrorAttachesStructuredDetails(t *testing.T) {
	err := NewCapabilityError("HANDLE_NOT_FOUND", "bad", "X/op")
	details := errors.GetAllDetails(err)
	assert.Contains(t, details, "code: HANDLE_NOT_FOUND")
	assert.Contains(t, details, "capability: X/op")
}

func TestIsCapabilityCode(t *testing.T) {
	err := NewCapabilityError("TYPE_MISMATCH", "nope", "")
	assert.True(t, IsCapabilityCode(err, CodeTypeMismatch))
	assert.False(t, IsCapabilityCode(err, CodeInternalError))
	assert.False(t, IsCapabilityCode(errors.New("unrelated"), CodeTypeMismatch))
}
