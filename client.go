// file: client.go
package ats

import (
	"encoding/json"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/aspire-go/ats-client/internal/atsconn"
	"github.com/aspire-go/ats-client/internal/logging"
	"github.com/aspire-go/ats-client/internal/wire"
)

// methodInvokeCapability and friends are the JSON-RPC method names the
// wire protocol recognizes, named here rather than scattered as literals.
const (
	methodInvokeCapability = "invokeCapability"
	methodCancelToken      = "cancelToken"
	methodInvokeCallback   = "invokeCallback"
)

// DefaultConnectTimeout bounds how long Connect waits to open the
// underlying transport before giving up with a ConnectError.
const DefaultConnectTimeout = 10 * time.Second

var logger = logging.GetLogger("ats.client")

// DisconnectListener is called once, in registration order, each time the
// client transitions to disconnected.
type DisconnectListener func()

// callResult is what the background read loop hands back to the goroutine
// blocked in call(): either the matching response frame, or an error if the
// connection died or the protocol was violated before a match arrived.
type callResult struct {
	msg *wire.Message
	err error
}

// Client owns the connection to the server: it assigns request ids, writes
// framed requests, and runs a background read loop that correlates
// responses to their waiting caller by id and dispatches server-originated
// callback requests concurrently.
//
// A server-originated invokeCallback can itself invoke a capability back on
// this same client before answering — the callback closure just calls
// InvokeCapability like any other caller would. Dispatching each reverse
// call on its own goroutine, and multiplexing responses through a
// pending-call table keyed by request id rather than a single held lock, is
// what lets that nested call proceed without the read loop that would
// otherwise deliver its response being blocked waiting on the outer call.
type Client struct {
	socketPath string
	connectTO  time.Duration
	log        logging.Logger

	callbacks     *CallbackRegistry
	cancellations *CancellationRegistry

	// connMu guards only the Connect/Disconnect lifecycle transition, not
	// individual calls.
	connMu sync.Mutex
	conn   atsconn.Connection
	reader *wire.FrameReader
	writer *wire.FrameWriter

	nextID    atomic.Uint64
	connected atomic.Int32

	pendingMu sync.Mutex
	pending   map[uint64]chan callResult

	listenersMu sync.Mutex
	listeners   []DisconnectListener
}

// ClientOption configures a Client at construction time.
type ClientOption func(*Client)

// WithSocketPath overrides the socket/pipe path that would otherwise be
// read from the environment.
func WithSocketPath(path string) ClientOption {
	return func(c *Client) {
		c.socketPath = path
	}
}

// WithConnectTimeout overrides DefaultConnectTimeout.
func WithConnectTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.connectTO = d
		} else {
			c.log.Warn("ignoring non-positive connect timeout")
		}
	}
}

// WithLogger overrides the default package logger.
func WithLogger(l logging.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithCallbackRegistry overrides the default process-wide callback
// registry, primarily for test isolation.
func WithCallbackRegistry(r *CallbackRegistry) ClientOption {
	return func(c *Client) {
		if r != nil {
			c.callbacks = r
		}
	}
}

// WithCancellationRegistry overrides the default process-wide
// cancellation registry, primarily for test isolation.
func WithCancellationRegistry(r *CancellationRegistry) ClientOption {
	return func(c *Client) {
		if r != nil {
			c.cancellations = r
		}
	}
}

// NewClient constructs a Client. It does not connect; call Connect.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		connectTO:     DefaultConnectTimeout,
		log:           logger,
		callbacks:     defaultCallbacks,
		cancellations: defaultCancellations,
		pending:       make(map[uint64]chan callResult),
	}
	// nextID starts at 0 so the first Add(1) in call() yields 1, matching
	// the documented "next request id starts at 1" contract.

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Connect opens the underlying connection, if not already connected, and
// starts the background read loop. Calling Connect on an already-connected
// client is a no-op success.
func (c *Client) Connect() error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.connected.Load() == 1 {
		return nil
	}

	if c.socketPath == "" {
		return NewConfigError("ats: no socket path configured", nil)
	}

	c.log.Debug("connecting", "path", c.socketPath)

	conn, err := atsconn.Dial(c.socketPath, c.connectTO)
	if err != nil {
		return NewConnectError("ats: failed to open connection to "+c.socketPath, err)
	}

	c.conn = conn
	c.reader = wire.NewFrameReader(conn)
	c.writer = wire.NewFrameWriter(conn)
	c.connected.Store(1)

	go c.readLoop()

	c.log.Info("connected", "path", c.socketPath)
	return nil
}

// OnDisconnect appends a listener invoked once, in registration order, each
// time the client transitions to disconnected — whether from an explicit
// Disconnect or the connection dying underneath it. Listeners stay
// registered across reconnects.
func (c *Client) OnDisconnect(listener DisconnectListener) {
	c.listenersMu.Lock()
	c.listeners = append(c.listeners, listener)
	c.listenersMu.Unlock()
}

// Disconnect closes the connection and fires every disconnect listener once,
// in registration order. Calling Disconnect when not connected is a no-op.
func (c *Client) Disconnect() error {
	c.connMu.Lock()
	if c.connected.Load() != 1 {
		c.connMu.Unlock()
		return nil
	}
	closeErr := c.conn.Close()
	c.connMu.Unlock()

	c.teardown(NewConnectError("ats: connection closed", nil))

	if closeErr != nil {
		return errors.Wrap(closeErr, "ats: error closing connection")
	}
	return nil
}

// teardown marks the client disconnected, fails every outstanding call, and
// fires disconnect listeners. It runs at most once per connection — both an
// explicit Disconnect and a read-loop failure call it, and only the first to
// win the CompareAndSwap does anything.
func (c *Client) teardown(failWith error) {
	if !c.connected.CompareAndSwap(1, 0) {
		return
	}

	c.pendingMu.Lock()
	pending := c.pending
	c.pending = make(map[uint64]chan callResult)
	c.pendingMu.Unlock()
	for _, ch := range pending {
		ch <- callResult{err: failWith}
	}

	c.listenersMu.Lock()
	listeners := append([]DisconnectListener(nil), c.listeners...)
	c.listenersMu.Unlock()
	for _, l := range listeners {
		l()
	}
}

// readLoop owns the connection's only reader. It runs for the lifetime of
// one connection, routing each response frame to the goroutine waiting on
// it and dispatching each reverse invokeCallback request on its own
// goroutine so a callback that calls back into this client is never
// blocked behind the loop that would deliver its own response.
func (c *Client) readLoop() {
	for {
		msg, err := c.reader.ReadMessage()
		if err != nil {
			c.teardown(NewProtocolError("ats: connection closed while awaiting response", err))
			return
		}

		if msg.IsRequest() {
			go c.dispatchReverse(msg)
			continue
		}

		id, err := wire.DecodeID(msg.ID)
		if err != nil {
			c.log.Error("received response with unparseable id", "error", err)
			continue
		}

		c.pendingMu.Lock()
		ch, ok := c.pending[id]
		if ok {
			delete(c.pending, id)
		}
		c.pendingMu.Unlock()

		if !ok {
			// The single-outstanding-call contract makes an id with no
			// waiting caller a protocol violation rather than a frame to
			// discard: there is no legitimate reason for the server to send
			// a response the client never asked for on this connection.
			c.teardown(NewProtocolError("ats: response id did not match any outstanding call", nil))
			return
		}
		ch <- callResult{msg: msg}
	}
}

// InvokeCapability sends an invokeCapability request and blocks until the
// matching response arrives. Any server-originated callback requests that
// arrive first are serviced concurrently by the read loop. args is
// marshalled as a single object keyed by parameter name.
func (c *Client) InvokeCapability(capabilityID string, args map[string]any) (any, error) {
	return c.call(methodInvokeCapability, []any{capabilityID, args})
}

// CancelToken sends a best-effort cancelToken request for tokenID and
// returns the server's boolean.
func (c *Client) CancelToken(tokenID string) (bool, error) {
	result, err := c.call(methodCancelToken, []any{tokenID})
	if err != nil {
		return false, err
	}
	ok, _ := result.(bool)
	return ok, nil
}

// cancelRemoteToken implements tokenCanceller for handle-backed tokens
// whose id has already been registered with this client.
func (c *Client) cancelRemoteToken(handle Handle) error {
	_, err := c.CancelToken(handle.HandleID)
	return err
}

// call assigns the next request id, registers a pending slot for it, writes
// the framed request, and blocks until the read loop delivers either the
// matching response or a teardown failure.
func (c *Client) call(method string, params []any) (any, error) {
	if c.connected.Load() != 1 {
		return nil, NewProtocolError("ats: invoke called while not connected", nil)
	}

	id := c.nextID.Add(1)
	req, err := wire.NewRequestMessage(id, method, params)
	if err != nil {
		return nil, NewProtocolError("ats: failed to build request", err)
	}

	ch := make(chan callResult, 1)
	c.pendingMu.Lock()
	c.pending[id] = ch
	c.pendingMu.Unlock()

	if err := c.writer.WriteMessage(req); err != nil {
		c.pendingMu.Lock()
		delete(c.pending, id)
		c.pendingMu.Unlock()
		return nil, NewConnectError("ats: failed to write request", err)
	}

	res := <-ch
	if res.err != nil {
		return nil, res.err
	}
	msg := res.msg

	if msg.Error != nil {
		return nil, NewProtocolError("ats: "+msg.Error.Message, nil)
	}

	result, err := wire.DecodeResult(msg)
	if err != nil {
		return nil, NewProtocolError("ats: failed to decode result", err)
	}

	if envelope, ok := result.(map[string]any); ok {
		if errObj, has := envelope["$error"]; has {
			return nil, decodeCapabilityError(errObj)
		}
	}

	return result, nil
}

// dispatchReverse answers a server-originated invokeCallback request. It
// runs on its own goroutine so a callback closure that calls
// InvokeCapability on this same client reaches call() without anything
// blocking it.
func (c *Client) dispatchReverse(msg *wire.Message) {
	if msg.Method != methodInvokeCallback {
		c.replyError(msg.ID, wire.CodeMethodNotFound, "unknown method "+msg.Method)
		return
	}

	var params [2]json.RawMessage
	if err := wire.DecodeParamsArray(msg.Params, &params); err != nil {
		c.replyError(msg.ID, wire.CodeCallbackError, "malformed invokeCallback params")
		return
	}

	var callbackID string
	if err := json.Unmarshal(params[0], &callbackID); err != nil {
		c.replyError(msg.ID, wire.CodeCallbackError, "malformed callback id")
		return
	}

	args, err := decodeCallbackArgs(params[1])
	if err != nil {
		c.replyError(msg.ID, wire.CodeCallbackError, err.Error())
		return
	}

	result, err := c.callbacks.Invoke(callbackID, args)
	if err != nil {
		c.replyError(msg.ID, wire.CodeCallbackError, err.Error())
		return
	}

	resp, err := wire.NewResultMessage(msg.ID, result)
	if err != nil {
		c.replyError(msg.ID, wire.CodeCallbackError, "failed to encode callback result")
		return
	}
	if err := c.writer.WriteMessage(resp); err != nil {
		c.log.Error("failed to write invokeCallback response", "error", err)
	}
}

func (c *Client) replyError(id json.RawMessage, code int64, message string) {
	resp := wire.NewErrorMessage(id, code, message)
	if err := c.writer.WriteMessage(resp); err != nil {
		c.log.Error("failed to write error response", "error", err)
	}
}

// decodeCallbackArgs implements the three accepted shapes for an
// invokeCallback args value: a dense p0..pN object (scan stops at the
// first missing index), a single non-null value, or null.
func decodeCallbackArgs(raw json.RawMessage) ([]any, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err == nil {
		if _, isPositional := obj["p0"]; isPositional {
			return decodePositionalObject(obj)
		}
	}

	var single any
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, errors.Wrap(err, "ats: malformed invokeCallback args")
	}
	return []any{single}, nil
}

func decodePositionalObject(obj map[string]json.RawMessage) ([]any, error) {
	var args []any
	for i := 0; ; i++ {
		raw, ok := obj["p"+strconv.Itoa(i)]
		if !ok {
			break
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, errors.Wrapf(err, "ats: malformed invokeCallback arg p%d", i)
		}
		args = append(args, v)
	}
	return args, nil
}

func decodeCapabilityError(raw any) error {
	obj, ok := raw.(map[string]any)
	if !ok {
		return NewProtocolError("ats: $error envelope was not an object", nil)
	}
	code, _ := obj["code"].(string)
	message, _ := obj["message"].(string)
	capability, _ := obj["capability"].(string)
	return NewCapabilityError(code, message, capability)
}

// socketPathEnvVar is the environment variable Connect reads the endpoint
// path from when no explicit WithSocketPath option overrides it.
const socketPathEnvVar = "REMOTE_APP_HOST_SOCKET_PATH"

// socketPathFromEnv reads socketPathEnvVar, returning a ConfigError naming
// it explicitly when unset.
func socketPathFromEnv() (string, error) {
	path := os.Getenv(socketPathEnvVar)
	if path == "" {
		return "", NewConfigError(
			"ats: "+socketPathEnvVar+" is not set; run via the aspire run launcher", nil)
	}
	return path, nil
}
