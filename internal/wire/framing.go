// file: internal/wire/framing.go
package wire

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
)

// ErrFraming is the sentinel every framing-level failure is marked with, so
// callers can distinguish "malformed frame" from other I/O errors with
// errors.Is without depending on this package's concrete error shape.
var ErrFraming = errors.New("wire: malformed frame")

const contentLengthHeader = "content-length"

// FrameReader decodes Content-Length-framed JSON-RPC messages from a
// buffered stream, the way stdioObjectStream.ReadObject does for stdin/
// stdout, generalized to any io.Reader.
type FrameReader struct {
	r *bufio.Reader
}

// NewFrameReader wraps r for framed reads.
func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{r: bufio.NewReader(r)}
}

// ReadMessage blocks until a complete framed message is available, decodes
// its JSON body, and returns it. It returns io.EOF verbatim when the stream
// ends cleanly before any header bytes arrive, and a wrapped ErrFraming
// error for any other malformed input (missing/non-numeric Content-Length,
// truncated body).
func (f *FrameReader) ReadMessage() (*Message, error) {
	contentLength := -1
	sawHeader := false

	for {
		line, err := f.r.ReadString('\n')
		if err != nil {
			if err == io.EOF && !sawHeader && line == "" {
				return nil, io.EOF
			}
			return nil, errors.Mark(errors.Wrap(err, "wire: read header line"), ErrFraming)
		}
		sawHeader = true

		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break // blank line terminates the header block
		}

		idx := strings.IndexByte(line, ':')
		if idx < 0 {
			return nil, errors.Mark(errors.Newf("wire: malformed header %q", line), ErrFraming)
		}
		key := strings.ToLower(strings.TrimSpace(line[:idx]))
		value := strings.TrimSpace(line[idx+1:])
		if key == contentLengthHeader {
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, errors.Mark(errors.Wrapf(err, "wire: invalid Content-Length %q", value), ErrFraming)
			}
			contentLength = n
		}
		// Other headers are parsed and ignored per the framing contract.
	}

	if contentLength < 0 {
		return nil, errors.Mark(errors.New("wire: missing Content-Length header"), ErrFraming)
	}

	body := make([]byte, contentLength)
	if _, err := io.ReadFull(f.r, body); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "wire: truncated message body"), ErrFraming)
	}

	var msg Message
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "wire: invalid JSON body"), ErrFraming)
	}
	return &msg, nil
}

// FrameWriter encodes messages with Content-Length framing and guarantees
// each write is contiguous on the underlying stream.
type FrameWriter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewFrameWriter wraps w for framed writes. Callers may share one
// FrameWriter across goroutines; writes are serialized internally.
func NewFrameWriter(w io.Writer) *FrameWriter {
	return &FrameWriter{w: w}
}

// WriteMessage marshals msg and writes it as one framed, contiguous unit.
func (f *FrameWriter) WriteMessage(msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, "wire: marshal message")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(body))
	if _, err := io.WriteString(f.w, header); err != nil {
		return errors.Wrap(err, "wire: write header")
	}
	if _, err := f.w.Write(body); err != nil {
		return errors.Wrap(err, "wire: write body")
	}
	return nil
}
