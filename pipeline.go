package metacache

import (
	"math/big"

	"metacache/internal/proto"
)

// Pipeline is a second handle onto a Client's Builder, used to batch
// commands from a distinct logical task while the socket and buffers
// stay alive. It shares the Builder and Parser with the Client (and any
// other Pipeline) it was taken from — there is exactly one Builder and
// one Parser per underlying connection, regardless of how many handles
// reference it.
type Pipeline struct {
	in     *inner
	closed bool
}

// AddMGet stages a meta-get command through the shared Builder.
func (p *Pipeline) AddMGet(key []byte, n *int64) (proto.FlushResult, error) {
	return p.in.builder.AddMGet(key, n)
}

// AddMSet stages a meta-set command through the shared Builder.
func (p *Pipeline) AddMSet(key, value []byte, cas *big.Int) (proto.FlushResult, error) {
	return p.in.builder.AddMSet(key, value, cas)
}

// AddDelete stages a meta-delete command through the shared Builder.
func (p *Pipeline) AddDelete(key []byte) (proto.FlushResult, error) {
	return p.in.builder.AddDelete(key)
}

// Finish flushes any bytes staged through this pipeline (or any other
// handle sharing the same Builder).
func (p *Pipeline) Finish() (proto.FlushResult, error) {
	return p.in.builder.Finish()
}

// Close releases this Pipeline's reference. The underlying slot and
// socket are only released once every handle sharing this inner —
// the originating Client and any sibling Pipelines — has also closed.
func (p *Pipeline) Close() error {
	if p.closed {
		return ErrDoubleClose
	}
	p.closed = true
	_, err := p.in.release()
	return err
}
