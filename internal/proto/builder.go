package proto

import (
	"math/big"
	"strconv"
)

// Writer is the egress capability a Builder flushes its staging
// buffer through. It returns the number of leading bytes accepted;
// returning more than was offered is a contract violation by the
// embedder. A non-nil error aborts the in-progress add/finish call.
type Writer func(p []byte) (int, error)

// FlushResult classifies what happened during an add_* or Finish
// call, matching the wire-compatible 0/1/2 status codes from the meta
// client's original embedding surface.
type FlushResult int

const (
	// NotFlushed means the call staged bytes without needing to write
	// anything to the Writer.
	NotFlushed FlushResult = 0
	// Flushed means at least one write to the Writer occurred and
	// accepted at least one byte.
	Flushed FlushResult = 1
	// WriteStalled means the Writer returned 0 while bytes remained
	// staged — a dead sink. No further bytes from the triggering call
	// were staged past that point.
	WriteStalled FlushResult = 2
)

// Int returns the wire-compatible status code for embedding
// boundaries that still speak in 0/1/2.
func (r FlushResult) Int() int { return int(r) }

// Builder accumulates meta protocol commands into a fixed-capacity
// staging buffer and flushes through writer when a full buffer needs
// room for more bytes, or when Finish is called. A single logical command larger than the
// buffer is transparently split across multiple writer calls. Builder
// is not safe for concurrent use — one logical task drives it at a
// time, per the package's cooperative single-writer model.
type Builder struct {
	buf    []byte
	length int
	cap    int
	writer Writer

	flushCount uint64
}

// NewBuilder returns a Builder that stages up to capacity bytes before
// flushing through writer. capacity must be at least 1.
func NewBuilder(writer Writer, capacity int) *Builder {
	if capacity < 1 {
		panic("proto: builder capacity must be at least 1")
	}
	return &Builder{
		buf:    make([]byte, capacity),
		cap:    capacity,
		writer: writer,
	}
}

// FlushCount returns the number of calls made to the writer since
// construction. Exposed for tests that want to assert on write
// batching behavior.
func (b *Builder) FlushCount() uint64 { return b.flushCount }

// AddMGet stages a meta-get command for key. When n is non-nil and
// greater than zero, the recache-TTL token N<n> is included; a nil,
// zero, or negative n is elided.
func (b *Builder) AddMGet(key []byte, n *int64) (FlushResult, error) {
	cmd := make([]byte, 0, len(key)+16)
	cmd = append(cmd, "mg "...)
	cmd = append(cmd, key...)
	cmd = append(cmd, ' ')
	if n != nil && *n > 0 {
		cmd = append(cmd, 'N')
		cmd = strconv.AppendInt(cmd, *n, 10)
		cmd = append(cmd, ' ')
	}
	cmd = append(cmd, "v\r\n"...)
	return b.stage(cmd)
}

// AddMSet stages a meta-set command storing value under key. When cas
// is non-nil, the C<cas> token is included — even when cas is zero —
// using cas's full decimal magnitude (math/big, so 64-bit-and-larger
// values round-trip exactly).
func (b *Builder) AddMSet(key, value []byte, cas *big.Int) (FlushResult, error) {
	cmd := make([]byte, 0, len(key)+len(value)+32)
	cmd = append(cmd, "ms "...)
	cmd = append(cmd, key...)
	cmd = append(cmd, ' ')
	cmd = strconv.AppendInt(cmd, int64(len(value)), 10)
	if cas != nil {
		cmd = append(cmd, " C"...)
		cmd = cas.Append(cmd, 10)
	}
	cmd = append(cmd, '\r', '\n')
	cmd = append(cmd, value...)
	cmd = append(cmd, '\r', '\n')
	return b.stage(cmd)
}

// AddDelete stages a meta-delete command for key.
func (b *Builder) AddDelete(key []byte) (FlushResult, error) {
	cmd := make([]byte, 0, len(key)+8)
	cmd = append(cmd, "md "...)
	cmd = append(cmd, key...)
	cmd = append(cmd, '\r', '\n')
	return b.stage(cmd)
}

// Finish flushes any staged bytes. Finishing with nothing staged is a
// no-op success.
func (b *Builder) Finish() (FlushResult, error) {
	if b.length == 0 {
		return NotFlushed, nil
	}
	return b.flushN(b.length)
}

// stage copies cmd into the staging buffer. A full buffer is only
// flushed when more bytes need room — filling the buffer to exactly
// capacity at the end of a call stages it for the next add_*/Finish
// call rather than flushing eagerly, matching the builder's tested
// batching behavior (a command landing exactly on the buffer boundary
// waits for the next write attempt before it goes out).
func (b *Builder) stage(cmd []byte) (FlushResult, error) {
	flushedAny := false
	for len(cmd) > 0 {
		if b.length == b.cap {
			result, err := b.flushN(b.cap)
			if err != nil || result == WriteStalled {
				return result, err
			}
			flushedAny = true
		}

		room := b.cap - b.length
		n := room
		if n > len(cmd) {
			n = len(cmd)
		}
		copy(b.buf[b.length:], cmd[:n])
		b.length += n
		cmd = cmd[n:]
	}
	if flushedAny {
		return Flushed, nil
	}
	return NotFlushed, nil
}

// flushN writes the first n staged bytes through the writer, compacts
// any bytes the writer declined to the front of the buffer, and
// updates length accordingly.
func (b *Builder) flushN(n int) (FlushResult, error) {
	w, err := b.writer(b.buf[:n])
	b.flushCount++
	if err != nil {
		return WriteStalled, err
	}
	if w == 0 {
		return WriteStalled, nil
	}
	if w < n {
		copy(b.buf, b.buf[w:n])
	}
	b.length = n - w
	return Flushed, nil
}
