// file: bootstrap_test.go
package ats

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectFailsWithConfigErrorWhenEnvVarUnset(t *testing.T) {
	original, had := os.LookupEnv(socketPathEnvVar)
	require.NoError(t, os.Unsetenv(socketPathEnvVar))
	t.Cleanup(func() {
		if had {
			_ = os.Setenv(socketPathEnvVar, original)
		}
	})

	_, err := Connect()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfig)
	assert.Contains(t, err.Error(), socketPathEnvVar)
}

func TestSocketPathFromEnv(t *testing.T) {
	t.Setenv(socketPathEnvVar, "/tmp/ats.sock")
	path, err := socketPathFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/ats.sock", path)
}
