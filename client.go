// Package metacache is a client library for the memcached meta text
// protocol. It speaks mg/ms/md commands and VA/HD/NS/EX/NF/VERSION
// responses over any io.ReadWriteCloser; Client owns nothing about how
// that connection was dialed.
package metacache

import (
	"errors"
	"math/big"

	"metacache/internal/logger"
	"metacache/internal/proto"
	"metacache/internal/stats"
)

// ErrDoubleClose is returned by Close when called on a Client or
// Pipeline whose reference has already been released. Per the
// resource-lifecycle contract, this is a programmer error surfaced as
// an error here rather than a panic, since Close is the one lifecycle
// operation callers are expected to defer and double-defer is common.
var ErrDoubleClose = errors.New("metacache: double close")

// Client is an open handle to a meta protocol connection: an owned
// Command Builder and Response Parser bound to one socket, registered
// in the process-wide client registry under a recycled slot index.
// Client is not safe for concurrent use by multiple goroutines — it is
// driven by one logical task at a time, per the package's single
// writer/single reader model. Distinct Clients backed by distinct
// sockets are fully independent.
type Client struct {
	in     *inner
	closed bool
}

// Open registers conn as a new client: it is inserted into the
// process-wide Slot Pool and bound to a fresh Builder and Parser. The
// returned Client owns conn until it (and any Pipeline taken from it)
// is closed.
func Open(conn Conn, opts ...Option) *Client {
	cfg := resolveOptions(opts)
	in := newInner(conn, cfg.capacity)
	in.refs = 1
	in.index = globalClients.Insert(in)
	stats.RecordInsert()
	logger.WithSlot(in.index).Debug("client opened")
	return &Client{in: in}
}

// OpenFunc calls factory to produce a connection and opens a Client
// around it, accepting a nullary constructor in place of an
// already-established socket — useful when the caller wants the pool
// insertion and connection dial to happen atomically from its point of
// view.
func OpenFunc(factory func() (Conn, error)) (*Client, error) {
	conn, err := factory()
	if err != nil {
		return nil, err
	}
	return Open(conn), nil
}

// Pipeline returns a handle that shares this Client's Builder for
// batching writes and keeps the underlying socket and buffers alive
// until the pipeline is itself closed. Closing the Client while a
// Pipeline is still open does not release the slot; the slot is freed
// only when the last of {Client, Pipeline} closes.
func (c *Client) Pipeline() *Pipeline {
	return &Pipeline{in: c.in.retain()}
}

// AddMGet stages a meta-get command. See proto.Builder.AddMGet.
func (c *Client) AddMGet(key []byte, n *int64) (proto.FlushResult, error) {
	return c.in.builder.AddMGet(key, n)
}

// AddMSet stages a meta-set command. See proto.Builder.AddMSet.
func (c *Client) AddMSet(key, value []byte, cas *big.Int) (proto.FlushResult, error) {
	return c.in.builder.AddMSet(key, value, cas)
}

// AddDelete stages a meta-delete command. See proto.Builder.AddDelete.
func (c *Client) AddDelete(key []byte) (proto.FlushResult, error) {
	return c.in.builder.AddDelete(key)
}

// Finish flushes any staged bytes. See proto.Builder.Finish.
func (c *Client) Finish() (proto.FlushResult, error) {
	return c.in.builder.Finish()
}

// Handle feeds chunk to the response parser. See proto.Parser.Handle.
func (c *Client) Handle(chunk []byte) error {
	return c.in.parser.Handle(chunk)
}

// Get, GetString, GetData, GetLen, and Pending mirror proto.Parser's
// observer idiom directly against this client's parser.
func (c *Client) Get() proto.Kind   { return c.in.parser.Get() }
func (c *Client) GetString() []byte { return c.in.parser.GetString() }
func (c *Client) GetData() []byte   { return c.in.parser.GetData() }
func (c *Client) GetLen() int       { return c.in.parser.GetLen() }
func (c *Client) Pending() int      { return c.in.parser.Pending() }

// AwaitNext blocks until the response parser has a record ready and
// returns its kind, reading from the underlying connection as needed.
// If Pending() is already non-zero it returns immediately without
// touching the connection.
//
// A single Read may return n>0 bytes and a non-nil error together —
// io.Reader's contract explicitly allows this, and a server that
// writes a full response and closes the connection in the same flush
// is a legitimate case of it. AwaitNext feeds whatever bytes arrived
// to the parser and checks Pending() before looking at the read
// error, so a record completed by those bytes is always returned
// rather than discarded in favor of the error.
func (c *Client) AwaitNext() (proto.Kind, error) {
	if c.in.parser.Pending() > 0 {
		return c.in.parser.Get(), nil
	}

	buf := make([]byte, 4096)
	for {
		n, err := c.in.conn.Read(buf)
		if n > 0 {
			if herr := c.in.parser.Handle(buf[:n]); herr != nil {
				return proto.KindNone, herr
			}
			if c.in.parser.Pending() > 0 {
				return c.in.parser.Get(), nil
			}
		}
		if err != nil {
			return proto.KindNone, err
		}
	}
}

// Version issues a version\r\n request — a header-only command outside
// the meta family — and blocks, reading from the connection and
// feeding the parser, until a VERSION record is produced. It returns
// the decoded version token.
func (c *Client) Version() (string, error) {
	if _, err := c.in.conn.Write([]byte("version\r\n")); err != nil {
		return "", err
	}

	for {
		kind, err := c.AwaitNext()
		if err != nil {
			return "", err
		}
		if kind == proto.KindVersion {
			return string(c.in.parser.GetString()), nil
		}
	}
}

// Close releases this Client's reference to its underlying connection.
// The slot is freed and the socket closed once the last of {Client,
// any Pipeline taken from it} has also closed. Calling Close twice on
// the same Client returns ErrDoubleClose.
func (c *Client) Close() error {
	if c.closed {
		return ErrDoubleClose
	}
	c.closed = true
	_, err := c.in.release()
	return err
}
