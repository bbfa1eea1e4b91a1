// Package pool lends scratch buffers to stream decoders.
package pool

import (
	"errors"
	"math"
	"sync"
)

// ErrPoolExhausted is returned by a bounded pool with every buffer lent out.
var ErrPoolExhausted = errors.New("pool: exhausted")

const (
	// DefaultSize is the initial capacity of a pooled buffer.
	DefaultSize = 512
	// MaxRetained is the largest capacity a released buffer may keep. It is
	// the packet size limit, so only a misbehaving caller grows past it.
	MaxRetained = math.MaxUint16
)

// Buffer is a reusable scratch region.
type Buffer struct {
	b []byte
}

// Bytes returns a slice of length n, growing the backing array when needed.
// The contents are unspecified.
func (b *Buffer) Bytes(n int) []byte {
	if cap(b.b) < n {
		b.b = make([]byte, n, max(n, 2*cap(b.b)))
	}
	return b.b[:n]
}

// Pool lends buffers. Every Acquire that succeeds must be paired with one
// Release of the same buffer.
type Pool interface {
	Acquire() (*Buffer, error)
	Release(*Buffer)
}

// syncPool never fails; idle buffers may be dropped by the garbage collector.
type syncPool struct {
	p sync.Pool
}

// New returns an unbounded pool of buffers with the given initial capacity.
func New(size int) Pool {
	if size <= 0 {
		size = DefaultSize
	}
	sp := &syncPool{}
	sp.p.New = func() any {
		return &Buffer{b: make([]byte, 0, size)}
	}
	return sp
}

func (sp *syncPool) Acquire() (*Buffer, error) {
	return sp.p.Get().(*Buffer), nil
}

func (sp *syncPool) Release(b *Buffer) {
	if b == nil || cap(b.b) > MaxRetained {
		return
	}
	sp.p.Put(b)
}

// Bounded lends at most n buffers at a time.
type Bounded struct {
	free chan *Buffer
	size int
}

// NewBounded preallocates n buffers of the given capacity.
func NewBounded(n, size int) *Bounded {
	if size <= 0 {
		size = DefaultSize
	}
	free := make(chan *Buffer, n)
	for i := 0; i < n; i++ {
		free <- &Buffer{b: make([]byte, 0, size)}
	}
	return &Bounded{free: free, size: size}
}

// Acquire returns ErrPoolExhausted instead of waiting.
func (p *Bounded) Acquire() (*Buffer, error) {
	select {
	case b := <-p.free:
		return b, nil
	default:
		return nil, ErrPoolExhausted
	}
}

// Release returns b to the pool. An oversized b goes back with a fresh
// backing array so the pool keeps n buffers.
func (p *Bounded) Release(b *Buffer) {
	if b == nil {
		return
	}
	if cap(b.b) > MaxRetained {
		b.b = make([]byte, 0, p.size)
	}
	select {
	case p.free <- b:
	default:
		// Not ours, or released twice.
	}
}

// Available reports how many buffers can be acquired right now.
func (p *Bounded) Available() int {
	return len(p.free)
}
