package codec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/alexhholmes/wirepack/internal/observability"
)

// decodeState carries what earlier steps learned about later ones.
type decodeState struct {
	src int
	env dynEnv
}

// width returns how many bytes step s occupies on the wire.
func (p *Program) width(s *step, st *decodeState) (int, error) {
	switch {
	case s.kind != stepField:
		return 1, nil
	case !s.dynamic:
		return s.field.width, nil
	}
	n, wire, err := p.dynamicLength(st.src)
	if err != nil {
		return 0, &FieldError{Type: p.desc.Name, Field: s.desc.Name, Err: err}
	}
	st.env = dynEnv{wire: wire, count: n}
	return wire, nil
}

// apply decodes region, which holds exactly the bytes of s, into v.
func (p *Program) apply(s *step, v reflect.Value, region []byte, st *decodeState) error {
	switch s.kind {
	case stepHeader, stepSubHeader:
		if region[0] != s.value {
			what := "header"
			if s.kind == stepSubHeader {
				what = "sub-header"
			}
			return fmt.Errorf("%s: %w: %s 0x%02X, want 0x%02X", p.desc.Name, ErrHeaderMismatch, what, region[0], s.value)
		}
		return nil
	case stepSequence:
		return nil
	}

	var err error
	switch {
	case s.dynamic:
		err = s.field.getN(v.Field(s.field.index), region, st.env.count)
	case s.source:
		st.src, err = readLength(s.desc.Primitive, region)
		if err == nil {
			err = s.field.get(v.Field(s.field.index), region)
		}
	default:
		err = s.field.get(v.Field(s.field.index), region)
	}
	if err != nil {
		return &FieldError{Type: p.desc.Name, Field: s.desc.Name, Err: err}
	}
	return nil
}

// Decode reads one packet from buf at off into v, which must be a settable
// value of the bound type. It returns the bytes consumed. On error v may be
// partially written.
func (p *Program) Decode(v reflect.Value, buf []byte, off int) (int, error) {
	n, err := p.decode(v, buf, off)
	if err != nil {
		p.opts.Metrics.Error(p.desc.Name, observability.OpDecode, Reason(err))
		return 0, err
	}
	p.opts.Metrics.Packet(p.desc.Name, observability.OpDecode, n)
	return n, nil
}

func (p *Program) decode(v reflect.Value, buf []byte, off int) (int, error) {
	if off < 0 || off > len(buf) {
		return 0, &DecodeError{Type: p.desc.Name, Offset: off, Need: 1, Have: 0, Err: ErrTruncated}
	}
	var st decodeState
	for i := range p.steps {
		s := &p.steps[i]
		pos := s.at.At(off, st.env)
		width, err := p.width(s, &st)
		if err != nil {
			return 0, err
		}
		if err := Need(buf, pos, width, p.desc.Name, s.label()); err != nil {
			return 0, err
		}
		if err := p.apply(s, v, buf[pos:pos+width], &st); err != nil {
			return 0, err
		}
	}
	return p.end.At(0, st.env), nil
}

// deadlineReader is implemented by net.Conn and os.File.
type deadlineReader interface {
	SetReadDeadline(t time.Time) error
}

// BindContext makes blocked reads on r return once ctx is done, after
// ctx.Err is already set. It only affects readers with read deadlines. The
// returned func must be called when reading is over; it clears the deadline.
func BindContext(ctx context.Context, r io.Reader) func() {
	dr, ok := r.(deadlineReader)
	if !ok || ctx.Done() == nil {
		return func() {}
	}
	stop := context.AfterFunc(ctx, func() {
		_ = dr.SetReadDeadline(time.Now())
	})
	return func() {
		stop()
		_ = dr.SetReadDeadline(time.Time{})
	}
}

// Need reports a DecodeError unless buf holds n bytes at at.
func Need(buf []byte, at, n int, typeName, field string) error {
	if at >= 0 && at+n <= len(buf) {
		return nil
	}
	return &DecodeError{
		Type:   typeName,
		Field:  field,
		Offset: at,
		Need:   n,
		Have:   max(len(buf)-at, 0),
		Err:    ErrTruncated,
	}
}

// ReadFull fills buf from r for one stream step. read is the number of bytes
// of the packet consumed before the step. A context error wins over the read
// error it caused.
func ReadFull(ctx context.Context, r io.Reader, buf []byte, read int, typeName, field string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	got, err := io.ReadFull(r, buf)
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &DecodeError{
			Type:   typeName,
			Field:  field,
			Offset: read,
			Need:   len(buf),
			Have:   got,
			Err:    ErrTruncated,
		}
	}
	return fmt.Errorf("%s: read: %w", typeName, err)
}

// DecodeStream reads one packet from r into v, one step at a time, through a
// pooled scratch buffer. ctx is checked before every read; readers with read
// deadlines are also interrupted while blocked.
func (p *Program) DecodeStream(ctx context.Context, r io.Reader, v reflect.Value) (int, error) {
	n, err := p.decodeStream(ctx, r, v)
	if err != nil {
		log.Debug().Err(err).Str("type", p.desc.Name).Int("read", n).Msg("stream decode failed")
		p.opts.Metrics.Error(p.desc.Name, observability.OpStream, Reason(err))
		return 0, err
	}
	p.opts.Metrics.Packet(p.desc.Name, observability.OpStream, n)
	return n, nil
}

func (p *Program) decodeStream(ctx context.Context, r io.Reader, v reflect.Value) (int, error) {
	buf, err := p.opts.Pool.Acquire()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", p.desc.Name, err)
	}
	defer p.opts.Pool.Release(buf)
	defer BindContext(ctx, r)()

	var st decodeState
	read := 0
	for i := range p.steps {
		s := &p.steps[i]
		width, err := p.width(s, &st)
		if err != nil {
			return read, err
		}
		region := buf.Bytes(width)
		if err := ReadFull(ctx, r, region, read, p.desc.Name, s.label()); err != nil {
			return read, err
		}
		read += width

		if err := p.apply(s, v, region, &st); err != nil {
			return read, err
		}
	}
	return read, nil
}
