//go:build windows

// file: internal/atsconn/connection_windows.go
package atsconn

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/sys/windows"
)

// dial opens the named pipe \\.\pipe\<basename-of-path>. The directory
// components of path are discarded, matching the original implementation's
// documented (if questionable — see DESIGN.md) behavior. timeout is unused:
// CreateFile with OPEN_EXISTING against a pipe either succeeds or fails
// immediately, it does not block waiting for a listener.
func dial(path string, timeout time.Duration) (Connection, error) {
	_ = timeout
	pipePath := `\\.\pipe\` + filepath.Base(path)

	pathPtr, err := windows.UTF16PtrFromString(pipePath)
	if err != nil {
		return nil, errors.Wrapf(err, "atsconn: encode pipe path %q", pipePath)
	}

	handle, err := windows.CreateFile(
		pathPtr,
		windows.GENERIC_READ|windows.GENERIC_WRITE,
		0,
		nil,
		windows.OPEN_EXISTING,
		0,
		0,
	)
	if err != nil {
		return nil, errors.Wrapf(err, "atsconn: open named pipe %q", pipePath)
	}

	return os.NewFile(uintptr(handle), pipePath), nil
}
