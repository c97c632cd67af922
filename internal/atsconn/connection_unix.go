//go:build !windows

// file: internal/atsconn/connection_unix.go
package atsconn

import (
	"net"
	"time"

	"github.com/cockroachdb/errors"
)

// dial opens a Unix domain stream socket at the filesystem path.
func dial(path string, timeout time.Duration) (Connection, error) {
	conn, err := net.DialTimeout("unix", path, timeout)
	if err != nil {
		return nil, errors.Wrapf(err, "atsconn: dial unix socket %q", path)
	}
	return conn, nil
}
