// Package wirepack compiles annotated Go structs into codecs for a fixed
// binary packet protocol.
//
// A packet type marks its header with a blank field and describes its
// dynamic fields with tags:
//
//	type ChatOutgoing struct {
//		_           struct{} `packet:"header=0x04"`
//		Length      uint16
//		MessageType uint8
//		Vid         uint32
//		Message     string `packet:"total=Length"`
//	}
//
//	codec, err := wirepack.Compile[ChatOutgoing]()
//	b, err := codec.Marshal(&ChatOutgoing{Message: "hello"})
//
// The layout is analyzed once. Schema defects come back as Diagnostics,
// all of them at once, and no codec is built for a type that has any.
package wirepack

import (
	"context"
	"fmt"
	"io"
	"reflect"

	"github.com/alexhholmes/wirepack/internal/analyzer"
	"github.com/alexhholmes/wirepack/internal/codec"
	"github.com/alexhholmes/wirepack/internal/diag"
	"github.com/alexhholmes/wirepack/internal/parser"
	"github.com/alexhholmes/wirepack/internal/schema"
)

type (
	Diagnostic  = diag.Diagnostic
	Diagnostics = diag.List
	Code        = diag.Code

	// Metadata is the per-type tuple consumed by a frame dispatcher.
	Metadata  = schema.Metadata
	SubHeader = schema.SubHeader

	DecodeError = codec.DecodeError
	FieldError  = codec.FieldError
)

const (
	MissingSizeField           = diag.MissingSizeField
	SizeFieldAfterDynamicField = diag.SizeFieldAfterDynamicField
	MultipleDynamicFields      = diag.MultipleDynamicFields
	OrderOutOfRange            = diag.OrderOutOfRange
	SelfReferenceLoop          = diag.SelfReferenceLoop
	UnknownFieldType           = diag.UnknownFieldType
	InvalidAnnotation          = diag.InvalidAnnotation
	DuplicateOrder             = diag.DuplicateOrder
	InvalidSizeField           = diag.InvalidSizeField
	NestedDynamicField         = diag.NestedDynamicField
	SubHeaderOutOfRange        = diag.SubHeaderOutOfRange
	ValueOutOfRange            = diag.ValueOutOfRange
)

var (
	ErrTruncated      = codec.ErrTruncated
	ErrShortBuffer    = codec.ErrShortBuffer
	ErrValueTooLong   = codec.ErrValueTooLong
	ErrEmbeddedNUL    = codec.ErrEmbeddedNUL
	ErrLengthMismatch = codec.ErrLengthMismatch
	ErrPacketTooLarge = codec.ErrPacketTooLarge
	ErrSizeOverflow   = codec.ErrSizeOverflow
	ErrInvalidLength  = codec.ErrInvalidLength
	ErrHeaderMismatch = codec.ErrHeaderMismatch
	ErrPoolExhausted  = codec.ErrPoolExhausted
)

// Codec encodes and decodes values of T. It is safe for concurrent use.
type Codec[T any] struct {
	prog *codec.Program
}

// Compile analyzes T and builds its codec. A schema defect returns
// Diagnostics as the error.
func Compile[T any](opts ...Option) (*Codec[T], error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}

	typ := reflect.TypeOf((*T)(nil)).Elem()
	desc, err := describe(typ)
	if err != nil {
		if diags, ok := err.(diag.List); ok {
			o.metrics.Diagnostics(diags)
		}
		return nil, err
	}

	prog, err := codec.Compile(typ, desc, codec.Options{Metrics: o.metrics, Pool: o.pool})
	if err != nil {
		return nil, err
	}
	return &Codec[T]{prog: prog}, nil
}

// MustCompile is Compile that panics on error. It suits package-level vars.
func MustCompile[T any](opts ...Option) *Codec[T] {
	c, err := Compile[T](opts...)
	if err != nil {
		panic(fmt.Sprintf("wirepack: compile %s: %v", reflect.TypeOf((*T)(nil)).Elem(), err))
	}
	return c
}

func describe(typ reflect.Type) (*schema.TypeDescriptor, error) {
	file, err := parser.FromType(typ)
	if err != nil {
		return nil, fmt.Errorf("wirepack: %w", err)
	}
	desc, diags := analyzer.Analyze(file.Types[0], analyzer.RegistryFor(file))
	if len(diags) > 0 {
		return nil, diags
	}
	return desc, nil
}

// Check analyzes T without building a codec.
func Check[T any]() Diagnostics {
	_, err := describe(reflect.TypeOf((*T)(nil)).Elem())
	if diags, ok := err.(diag.List); ok {
		return diags
	}
	if err != nil {
		return Diagnostics{diag.New(diag.UnknownFieldType, reflect.TypeOf((*T)(nil)).Elem().String(), "", "%v", err)}
	}
	return nil
}

// Name is the type name used in diagnostics, errors and metrics.
func (c *Codec[T]) Name() string { return c.prog.Descriptor().Name }

// Metadata returns the dispatch tuple of T.
func (c *Codec[T]) Metadata() Metadata { return c.prog.Descriptor().Metadata() }

// Size returns the exact wire size of v. It may exceed 65535, in which case
// Serialize fails with ErrPacketTooLarge.
func (c *Codec[T]) Size(v *T) int {
	return c.prog.Size(reflect.ValueOf(v).Elem())
}

// GetSize returns the wire size of v. Sizes above 65535 are reported as 0.
func (c *Codec[T]) GetSize(v *T) uint16 {
	n := c.Size(v)
	if n > codec.MaxPacketSize {
		return 0
	}
	return uint16(n)
}

// Serialize writes v into buf at offset and returns the number of bytes
// written. Size-source fields are derived from the field they size; their
// values in v are ignored.
func (c *Codec[T]) Serialize(v *T, buf []byte, offset int) (int, error) {
	return c.prog.Encode(reflect.ValueOf(v).Elem(), buf, offset)
}

// Marshal returns v in a newly allocated buffer of exactly GetSize bytes.
func (c *Codec[T]) Marshal(v *T) ([]byte, error) {
	rv := reflect.ValueOf(v).Elem()
	size := c.prog.Size(rv)
	if size > codec.MaxPacketSize {
		return nil, fmt.Errorf("%s: %w: %d bytes", c.Name(), ErrPacketTooLarge, size)
	}
	buf := make([]byte, size)
	if _, err := c.prog.Encode(rv, buf, 0); err != nil {
		return nil, err
	}
	return buf, nil
}

// Deserialize decodes one packet from buf at offset. On error the zero T is
// returned.
func (c *Codec[T]) Deserialize(buf []byte, offset int) (T, error) {
	v, _, err := c.DeserializeN(buf, offset)
	return v, err
}

// DeserializeN is Deserialize that also reports the bytes consumed.
func (c *Codec[T]) DeserializeN(buf []byte, offset int) (T, int, error) {
	var out T
	n, err := c.prog.Decode(reflect.ValueOf(&out).Elem(), buf, offset)
	if err != nil {
		var zero T
		return zero, 0, err
	}
	return out, n, nil
}

// DeserializeFromStream reads exactly one packet from r. It stops at the
// first error, including cancellation of ctx, and never returns a partly
// decoded value.
func (c *Codec[T]) DeserializeFromStream(ctx context.Context, r io.Reader) (T, error) {
	var out T
	if _, err := c.prog.DecodeStream(ctx, r, reflect.ValueOf(&out).Elem()); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
