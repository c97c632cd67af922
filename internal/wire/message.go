// Package wire implements the JSON-RPC 2.0 message shapes and Content-Length
// framing used by the ATS transport. It has no knowledge of capabilities,
// handles, or callbacks — just the bytes-on-the-wire contract.
package wire

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/sourcegraph/jsonrpc2"
)

// Version is the JSON-RPC protocol version string ATS speaks.
const Version = "2.0"

// Error is the JSON-RPC 2.0 error object shape. It is a direct alias of
// jsonrpc2.Error so this module's error responses are byte-compatible with
// the wider JSON-RPC tooling ecosystem.
type Error = jsonrpc2.Error

// Standard JSON-RPC 2.0 reverse-dispatch error codes used by this module.
const (
	CodeMethodNotFound = -32601
	CodeCallbackError  = -32000
)

// Message is the superset shape of every frame on the wire: a request, a
// notification, or a response. Exactly one of (Method) or (Result, Error)
// is populated, per JSON-RPC 2.0.
type Message struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// IsRequest reports whether m carries a method and should be answered.
func (m *Message) IsRequest() bool {
	return m.Method != "" && len(m.ID) > 0
}

// IsResponse reports whether m is a response to a previously sent request.
func (m *Message) IsResponse() bool {
	return m.Method == "" && len(m.ID) > 0
}

// NewRequestMessage builds a request frame with the given numeric id.
func NewRequestMessage(id uint64, method string, params interface{}) (*Message, error) {
	idJSON, err := json.Marshal(id)
	if err != nil {
		return nil, errors.Wrap(err, "wire.NewRequestMessage: marshal id")
	}
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return nil, errors.Wrap(err, "wire.NewRequestMessage: marshal params")
	}
	return &Message{
		JSONRPC: Version,
		ID:      idJSON,
		Method:  method,
		Params:  paramsJSON,
	}, nil
}

// NewResultMessage builds a success response frame echoing id.
func NewResultMessage(id json.RawMessage, result interface{}) (*Message, error) {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return nil, errors.Wrap(err, "wire.NewResultMessage: marshal result")
	}
	return &Message{
		JSONRPC: Version,
		ID:      id,
		Result:  resultJSON,
	}, nil
}

// NewErrorMessage builds an error response frame echoing id.
func NewErrorMessage(id json.RawMessage, code int64, message string) *Message {
	return &Message{
		JSONRPC: Version,
		ID:      id,
		Error:   &Error{Code: code, Message: message},
	}
}

// DecodeResult decodes m.Result into a generic value, the way every
// InvokeCapability caller needs it: a map, slice, string, number, bool, or
// nil, exactly as the server sent it with no lossy re-serialization.
func DecodeResult(m *Message) (interface{}, error) {
	if len(m.Result) == 0 {
		return nil, nil
	}
	var v interface{}
	if err := json.Unmarshal(m.Result, &v); err != nil {
		return nil, errors.Wrap(err, "wire.DecodeResult: unmarshal result")
	}
	return v, nil
}

// DecodeID decodes a raw JSON-RPC id into a uint64, as used by ats request
// ids. Returns an error if id is not a JSON number.
func DecodeID(id json.RawMessage) (uint64, error) {
	var n uint64
	if err := json.Unmarshal(id, &n); err != nil {
		return 0, errors.Wrapf(err, "wire.DecodeID: id %q is not a number", string(id))
	}
	return n, nil
}

// DecodeParamsArray decodes params as a JSON array into dst (a pointer to a
// slice or to a fixed-size array), the shape used by invokeCapability/cancelToken/invokeCallback
// params.
func DecodeParamsArray(params json.RawMessage, dst interface{}) error {
	if len(params) == 0 {
		return errors.New("wire.DecodeParamsArray: missing params")
	}
	if err := json.Unmarshal(params, dst); err != nil {
		return errors.Wrap(err, "wire.DecodeParamsArray: unmarshal")
	}
	return nil
}
