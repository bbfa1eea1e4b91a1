package example

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/alexhholmes/wirepack"
)

// ErrUnknownPacket is returned for a header no decoder was registered for.
var ErrUnknownPacket = errors.New("example: unknown packet")

type decodeFunc func(ctx context.Context, r io.Reader) (any, error)

// Dispatcher reads packets of any registered type from one stream. It peeks
// the header (and the sub-header when the header has variants) to pick the
// codec, then lets the codec consume the whole packet.
type Dispatcher struct {
	reg      *wirepack.Registry
	decoders map[wirepack.Key]decodeFunc
	r        *bufio.Reader
}

// NewDispatcher registers every packet type of this package.
func NewDispatcher(r io.Reader, opts ...wirepack.Option) (*Dispatcher, error) {
	d := &Dispatcher{
		reg:      wirepack.NewRegistry(),
		decoders: make(map[wirepack.Key]decodeFunc),
		r:        bufio.NewReader(r),
	}
	errs := []error{
		handle[Target](d, opts...),
		handle[ChatOutgoing](d, opts...),
		handle[GuildMemberList](d, opts...),
		handle[GuildRename](d, opts...),
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return d, nil
}

func handle[T any](d *Dispatcher, opts ...wirepack.Option) error {
	c, err := wirepack.Register[T](d.reg, opts...)
	if err != nil {
		return err
	}
	d.decoders[wirepack.KeyOf(c.Metadata())] = func(ctx context.Context, r io.Reader) (any, error) {
		v, err := c.DeserializeFromStream(ctx, r)
		if err != nil {
			return nil, err
		}
		return &v, nil
	}
	return nil
}

// Next decodes the next packet and returns a pointer to it.
func (d *Dispatcher) Next(ctx context.Context) (any, error) {
	head, err := d.r.Peek(1)
	if err != nil {
		return nil, err
	}
	key := wirepack.Key{Header: head[0], SubHeader: wirepack.NoSubHeader}

	variants := d.reg.Variants(key.Header)
	if len(variants) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPacket, key)
	}
	if sh := variants[0].SubHeader; sh != nil {
		// sub-headers of this protocol always follow the header directly
		if sh.Position != 0 {
			return nil, fmt.Errorf("example: %s: sub-header at field %d", variants[0].Name, sh.Position)
		}
		head, err = d.r.Peek(2)
		if err != nil {
			return nil, err
		}
		key.SubHeader = int(head[1])
	}

	decode, ok := d.decoders[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPacket, key)
	}
	return decode(ctx, d.r)
}
