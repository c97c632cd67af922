// Package atsconn opens the platform-specific duplex byte stream ATS runs
// its framed JSON-RPC protocol over: a Unix domain socket on POSIX, a named
// pipe on Windows.
package atsconn

import (
	"io"
	"time"
)

// Connection is the duplex byte stream the client reads requests from and
// writes responses to. Implementations must support one reader and one
// writer operating concurrently; write atomicity across concurrent callers
// is the caller's responsibility (see wire.FrameWriter).
type Connection interface {
	io.Reader
	io.Writer
	io.Closer
}

// Dial opens the ATS endpoint at path within timeout, dispatching to the
// platform-specific implementation (connection_unix.go /
// connection_windows.go).
func Dial(path string, timeout time.Duration) (Connection, error) {
	return dial(path, timeout)
}
