package wirepack

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/alexhholmes/wirepack/internal/codec"
	"github.com/alexhholmes/wirepack/internal/observability"
	"github.com/alexhholmes/wirepack/internal/pool"
)

type (
	// BufferPool lends scratch buffers to stream decoders.
	BufferPool = pool.Pool
	Buffer     = pool.Buffer
)

// Option configures Compile and Register.
type Option func(*options)

type options struct {
	registerer prometheus.Registerer
	pool       pool.Pool
	metrics    *observability.Metrics
}

// WithMetrics records packet, error and diagnostic counts on reg. Several
// codecs may share one registry.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

// WithBufferPool replaces the shared stream buffer pool.
func WithBufferPool(p BufferPool) Option {
	return func(o *options) {
		o.pool = p
	}
}

func buildOptions(opts []Option) (options, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.registerer != nil {
		m, err := observability.NewMetrics(o.registerer)
		if err != nil {
			return o, err
		}
		o.metrics = m
	}
	return o, nil
}

// NewBufferPool returns an unbounded pool of buffers with initial capacity size.
func NewBufferPool(size int) BufferPool { return pool.New(size) }

// NewBoundedPool returns a pool that lends at most n buffers and fails with
// ErrPoolExhausted beyond that.
func NewBoundedPool(n, size int) *pool.Bounded { return pool.NewBounded(n, size) }

// AcquireBuffer borrows a scratch buffer from the shared pool. Generated
// stream decoders use it; pair every call with ReleaseBuffer.
func AcquireBuffer() (*Buffer, error) {
	return codec.SharedPool().Acquire()
}

// ReleaseBuffer returns b to the shared pool.
func ReleaseBuffer(b *Buffer) {
	codec.SharedPool().Release(b)
}
