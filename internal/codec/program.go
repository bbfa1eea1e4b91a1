// Package codec executes analyzed layouts against Go values.
//
// A Program is compiled once per packet type. It holds one step per wire
// slot (header, sub-header, field, sequence byte) together with the offset
// accumulator snapshot of that slot, so encode and buffer decode address
// every field directly and stream decode reads the same steps in order.
package codec

import (
	"fmt"
	"math"
	"reflect"

	"github.com/rs/zerolog/log"

	"github.com/alexhholmes/wirepack/internal/observability"
	"github.com/alexhholmes/wirepack/internal/offset"
	"github.com/alexhholmes/wirepack/internal/pool"
	"github.com/alexhholmes/wirepack/internal/schema"
)

// MaxPacketSize is the largest encodable packet.
const MaxPacketSize = math.MaxUint16

var sharedPool = pool.New(pool.DefaultSize)

// SharedPool is the buffer pool used when Options.Pool is nil.
func SharedPool() pool.Pool { return sharedPool }

// Options tune a compiled program.
type Options struct {
	Metrics *observability.Metrics // nil disables recording
	Pool    pool.Pool              // stream scratch buffers; nil uses SharedPool
}

type stepKind uint8

const (
	stepHeader stepKind = iota
	stepSubHeader
	stepField
	stepSequence
)

type step struct {
	kind  stepKind
	value byte // header and sub-header
	at    offset.Accumulator

	desc    *schema.FieldDescriptor
	field   fieldCodec
	dynamic bool
	source  bool // carries the dynamic field's length
}

// label names the step in errors; framing bytes have no field name.
func (s *step) label() string {
	if s.kind == stepField {
		return s.desc.Name
	}
	return ""
}

// Program is the compiled codec of one packet type. It is safe for
// concurrent use.
type Program struct {
	desc  *schema.TypeDescriptor
	typ   reflect.Type
	steps []step
	end   offset.Accumulator
	dyn   int // step index of the dynamic field, -1 without one
	opts  Options
}

// Compile binds desc to the struct type t.
func Compile(t reflect.Type, desc *schema.TypeDescriptor, opts Options) (*Program, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("codec: %s is not a struct", t)
	}
	if opts.Pool == nil {
		opts.Pool = sharedPool
	}
	p := &Program{desc: desc, typ: t, dyn: -1, opts: opts}

	slots, end := desc.Slots()
	for _, slot := range slots {
		s := step{at: slot.At, value: slot.Value}
		switch slot.Kind {
		case schema.SlotHeader:
			s.kind = stepHeader
		case schema.SlotSubHeader:
			s.kind = stepSubHeader
		case schema.SlotSequence:
			s.kind = stepSequence
		case schema.SlotField:
			fd := slot.Field
			sf, ok := t.FieldByName(fd.Name)
			if !ok || len(sf.Index) != 1 {
				return nil, fmt.Errorf("codec: %s has no field %s", t, fd.Name)
			}
			fc, err := buildField(fd, sf.Type)
			if err != nil {
				return nil, fmt.Errorf("codec: %s: %w", desc.Name, err)
			}
			fc.index = sf.Index[0]
			s.kind = stepField
			s.desc = fd
			s.field = fc
			s.source = fd.IsSizeSource
			s.dynamic = fd.HasDynamicLength()
			if s.dynamic {
				p.dyn = len(p.steps)
			}
		}
		p.steps = append(p.steps, s)
	}
	p.end = end

	log.Debug().
		Str("type", desc.Name).
		Int("steps", len(p.steps)).
		Stringer("size", p.end).
		Msg("compiled packet program")
	return p, nil
}

// Descriptor returns the layout the program was compiled from.
func (p *Program) Descriptor() *schema.TypeDescriptor { return p.desc }

// Type returns the bound Go type.
func (p *Program) Type() reflect.Type { return p.typ }

// dynEnv resolves offset terms. A packet has at most one dynamic field, so
// every term refers to the same value.
type dynEnv struct {
	wire  int // wire bytes of the dynamic field
	count int // logical length or element count
}

func (e dynEnv) Length(string) int { return e.wire }
func (e dynEnv) Count(string) int  { return e.count }

func (p *Program) env(v reflect.Value) dynEnv {
	if p.dyn < 0 {
		return dynEnv{}
	}
	fc := &p.steps[p.dyn].field
	n := fc.length(v.Field(fc.index))
	return dynEnv{wire: fc.wire(n), count: n}
}

// Size returns the wire size of v, which must be of the bound type.
func (p *Program) Size(v reflect.Value) int {
	return p.end.At(0, p.env(v))
}

// Encode writes v into buf starting at off and returns the bytes written.
// Size-source fields are written from the dynamic field, not from v.
func (p *Program) Encode(v reflect.Value, buf []byte, off int) (int, error) {
	n, err := p.encode(v, buf, off)
	if err != nil {
		p.opts.Metrics.Error(p.desc.Name, observability.OpEncode, Reason(err))
		return 0, err
	}
	p.opts.Metrics.Packet(p.desc.Name, observability.OpEncode, n)
	return n, nil
}

func (p *Program) encode(v reflect.Value, buf []byte, off int) (int, error) {
	env := p.env(v)
	size := p.end.At(0, env)
	if size > MaxPacketSize {
		return 0, fmt.Errorf("%s: %w: %d bytes", p.desc.Name, ErrPacketTooLarge, size)
	}
	if off < 0 || off > len(buf) || len(buf)-off < size {
		return 0, fmt.Errorf("%s: %w: need %d bytes at offset %d, have %d",
			p.desc.Name, ErrShortBuffer, size, off, len(buf))
	}

	for i := range p.steps {
		s := &p.steps[i]
		pos := s.at.At(off, env)
		switch s.kind {
		case stepHeader, stepSubHeader:
			buf[pos] = s.value
		case stepSequence:
			buf[pos] = 0
		case stepField:
			width := s.field.width
			if s.dynamic {
				width = env.wire
			}
			region := buf[pos : pos+width]
			var err error
			if s.source {
				err = putLength(s.desc.Primitive, region, p.sourceValue(env, size))
			} else {
				err = s.field.put(v.Field(s.field.index), region)
			}
			if err != nil {
				return 0, &FieldError{Type: p.desc.Name, Field: s.desc.Name, Err: err}
			}
		}
	}
	return size, nil
}

func (p *Program) sourceValue(env dynEnv, size int) int {
	if p.steps[p.dyn].desc.SizeMode == schema.SizeTotal {
		return size
	}
	return env.count
}

// dynamicLength turns a decoded size source into the logical length and the
// wire width of the dynamic field.
func (p *Program) dynamicLength(src int) (n, wire int, err error) {
	s := &p.steps[p.dyn]
	if src > MaxPacketSize {
		return 0, 0, fmt.Errorf("%w: length %d exceeds the packet limit", ErrInvalidLength, src)
	}
	if s.desc.SizeMode == schema.SizeCount {
		wire = s.field.wire(src)
		if p.desc.FixedSize+wire > MaxPacketSize {
			return 0, 0, fmt.Errorf("%w: length %d needs %d bytes, over the packet limit", ErrInvalidLength, src, p.desc.FixedSize+wire)
		}
		return src, wire, nil
	}

	rest := src - p.desc.FixedSize
	if s.desc.Kind == schema.KindString {
		if rest < 1 {
			return 0, 0, fmt.Errorf("%w: total %d leaves no room for a terminator", ErrInvalidLength, src)
		}
		return rest - 1, rest, nil
	}
	size := s.desc.ElementSize
	switch {
	case rest < 0:
		return 0, 0, fmt.Errorf("%w: total %d is below the static size %d", ErrInvalidLength, src, p.desc.FixedSize)
	case size == 0:
		return 0, 0, nil
	case rest%size != 0:
		return 0, 0, fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrInvalidLength, rest, size)
	}
	return rest / size, rest, nil
}
