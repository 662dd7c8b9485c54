package metacache

import (
	"io"
	"sync"

	"metacache/internal/proto"
	"metacache/internal/stats"
)

// Conn is the socket capability a Client drives. Any io.ReadWriteCloser
// satisfies it, including *net.TCPConn.
type Conn interface {
	io.Reader
	io.Writer
	io.Closer
}

// inner holds everything a Client and its Pipelines jointly keep alive.
// Client and Pipeline each hold a strong reference to the same inner;
// neither owns the other, so the slot is only released when the last
// reference drops. This mirrors the reference-counted single-struct
// design used in place of the source's shared/weak pointer pair — the
// pool itself is the only thing tests need to observe, so no weak
// reference is kept here.
type inner struct {
	mu sync.Mutex

	conn  Conn
	index int

	builder *proto.Builder
	parser  *proto.Parser

	refs int32
	closed bool
}

func newInner(conn Conn, capacity int) *inner {
	in := &inner{conn: conn, parser: proto.NewParser()}
	in.builder = proto.NewBuilder(func(p []byte) (int, error) {
		return conn.Write(p)
	}, capacity)
	return in
}

// retain adds a strong reference and returns the same inner, used when
// handing out a Pipeline that shares this inner's socket and buffers.
func (in *inner) retain() *inner {
	in.mu.Lock()
	in.refs++
	in.mu.Unlock()
	return in
}

// release drops a strong reference. When the last reference drops, the
// slot is removed from the registry and the socket is closed. Returns
// whether this call performed the final teardown.
func (in *inner) release() (bool, error) {
	in.mu.Lock()
	in.refs--
	remaining := in.refs
	already := in.closed
	if remaining <= 0 {
		in.closed = true
	}
	in.mu.Unlock()

	if remaining > 0 || already {
		return false, nil
	}

	globalClients.Remove(in.index)
	stats.RecordRemove()
	return true, in.conn.Close()
}
