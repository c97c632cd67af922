// file: errors.go
package ats

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Sentinel errors marking the four error kinds. Use errors.Is against these
// to classify an error returned from anywhere in this package, the way
// mcperror's sentinels classify MCP errors.
var (
	ErrConfig     = errors.New("ats: configuration error")
	ErrConnect    = errors.New("ats: connection error")
	ErrProtocol   = errors.New("ats: protocol error")
	ErrCapability = errors.New("ats: capability error")
)

// CapabilityErrorCode enumerates the closed set of capability error codes
// the server is documented to emit. Any code not in this set still decodes
// successfully — Code holds it verbatim — it simply has no named constant.
type CapabilityErrorCode string

const (
	CodeCapabilityNotFound CapabilityErrorCode = "CAPABILITY_NOT_FOUND"
	CodeHandleNotFound     CapabilityErrorCode = "HANDLE_NOT_FOUND"
	CodeTypeMismatch       CapabilityErrorCode = "TYPE_MISMATCH"
	CodeInvalidArgument    CapabilityErrorCode = "INVALID_ARGUMENT"
	CodeArgumentOutOfRange CapabilityErrorCode = "ARGUMENT_OUT_OF_RANGE"
	CodeCallbackError      CapabilityErrorCode = "CALLBACK_ERROR"
	CodeInternalError      CapabilityErrorCode = "INTERNAL_ERROR"
)

// NewConfigError reports a problem with the client's environment or
// configuration — a missing or malformed environment variable, an invalid
// option. Example usage:
//
//	return ats.NewConfigError("REMOTE_APP_HOST_SOCKET_PATH is not set", nil)
func NewConfigError(message string, cause error) error {
	var err error
	if cause == nil {
		err = errors.Newf("%s", message)
	} else {
		err = errors.Wrapf(cause, "%s", message)
	}
	return errors.Mark(err, ErrConfig)
}

// NewConnectError reports a transport-level failure establishing or
// maintaining the connection to the server.
func NewConnectError(message string, cause error) error {
	var err error
	if cause == nil {
		err = errors.Newf("%s", message)
	} else {
		err = errors.Wrapf(cause, "%s", message)
	}
	return errors.Mark(err, ErrConnect)
}

// NewProtocolError reports a violation of the wire protocol itself:
// malformed framing, a response id with no matching outstanding call, a
// message shape that is neither a request nor a response.
func NewProtocolError(message string, cause error) error {
	var err error
	if cause == nil {
		err = errors.Newf("%s", message)
	} else {
		err = errors.Wrapf(cause, "%s", message)
	}
	return errors.Mark(err, ErrProtocol)
}

// CapabilityError is the decoded form of a server-reported $error envelope.
// Unlike the other three kinds it carries structured fields the caller may
// want to inspect directly, so it is a named type rather than a bare
// errors.Mark wrapper.
type CapabilityError struct {
	Code       CapabilityErrorCode
	Message    string
	Capability string // empty if the server omitted it
	cause      error
}

// NewCapabilityError constructs a CapabilityError from the fields decoded
// out of a $error envelope.
func NewCapabilityError(code string, message string, capability string) *CapabilityError {
	e := &CapabilityError{
		Code:       CapabilityErrorCode(code),
		Message:    message,
		Capability: capability,
	}
	base := errors.Newf("%s", message)
	base = errorDetails(base, map[string]any{"code": code, "capability": capability})
	e.cause = errors.Mark(base, ErrCapability)
	return e
}

func (e *CapabilityError) Error() string {
	if e.Capability != "" {
		return fmt.Sprintf("ats: capability error [%s] invoking %q: %s", e.Code, e.Capability, e.Message)
	}
	return fmt.Sprintf("ats: capability error [%s]: %s", e.Code, e.Message)
}

func (e *CapabilityError) Unwrap() error {
	return e.cause
}

// IsCapabilityCode reports whether err is a *CapabilityError carrying code.
func IsCapabilityCode(err error, code CapabilityErrorCode) bool {
	var capErr *CapabilityError
	if !errors.As(err, &capErr) {
		return false
	}
	return capErr.Code == code
}

// errorDetails attaches free-form diagnostic fields to err, the way
// mcperror.ErrorWithDetails attaches category/code/properties.
func errorDetails(err error, fields map[string]any) error {
	for k, v := range fields {
		err = errors.WithDetail(err, fmt.Sprintf("%s: %v", k, v))
	}
	return err
}
