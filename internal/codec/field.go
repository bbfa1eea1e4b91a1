package codec

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"

	"github.com/alexhholmes/wirepack/internal/schema"
)

var byteType = reflect.TypeOf(byte(0))

// fieldCodec encodes one field. Static fields own exactly width bytes. The
// dynamic field has width 0 and sizes its region from the value (encode) or
// the size source (decode).
type fieldCodec struct {
	name  string
	index int // struct field index in the owning type
	width int
	put   putFunc
	get   getFunc

	// dynamic field only
	length func(v reflect.Value) int        // logical length or element count
	wire   func(n int) int                  // wire bytes for a logical length
	getN   func(v reflect.Value, b []byte, n int) error
}

// buildField compiles fd against the Go type t of the field.
func buildField(fd *schema.FieldDescriptor, t reflect.Type) (fieldCodec, error) {
	fc := fieldCodec{name: fd.Name, width: fd.StaticSize()}

	switch fd.Kind {
	case schema.KindNumeric, schema.KindBool, schema.KindEnum:
		if err := checkKind(fd, t); err != nil {
			return fc, err
		}
		fc.put, fc.get = scalarCodec(fd.Primitive)
		return fc, nil

	case schema.KindString:
		if t.Kind() != reflect.String {
			return fc, mismatch(fd, t)
		}
		if fd.HasDynamicLength() {
			dynamicString(&fc)
		} else {
			fixedString(&fc, fd.ElementSize)
		}
		return fc, nil

	case schema.KindArray:
		return buildArray(fd, t, fc)

	case schema.KindStruct:
		if t.Kind() != reflect.Struct {
			return fc, mismatch(fd, t)
		}
		return buildStruct(fd, t, fc)
	}
	return fc, fmt.Errorf("field %s: unsupported kind %s", fd.Name, fd.Kind)
}

func fixedString(fc *fieldCodec, width int) {
	fc.put = func(v reflect.Value, b []byte) error {
		s := v.String()
		if len(s) > width {
			return ErrValueTooLong
		}
		n := copy(b, s)
		clear(b[n:width])
		return nil
	}
	fc.get = func(v reflect.Value, b []byte) error {
		v.SetString(string(untilNUL(b[:width])))
		return nil
	}
}

func dynamicString(fc *fieldCodec) {
	fc.length = func(v reflect.Value) int { return v.Len() }
	fc.wire = func(n int) int { return n + 1 }
	fc.put = func(v reflect.Value, b []byte) error {
		s := v.String()
		if strings.IndexByte(s, 0) >= 0 {
			return ErrEmbeddedNUL
		}
		n := copy(b, s)
		b[n] = 0
		return nil
	}
	fc.getN = func(v reflect.Value, b []byte, n int) error {
		v.SetString(string(untilNUL(b[:n])))
		return nil
	}
}

func untilNUL(b []byte) []byte {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return b[:i]
	}
	return b
}

func buildArray(fd *schema.FieldDescriptor, t reflect.Type, fc fieldCodec) (fieldCodec, error) {
	if t.Kind() != reflect.Array && t.Kind() != reflect.Slice {
		return fc, mismatch(fd, t)
	}
	elem, err := buildField(fd.Elem, t.Elem())
	if err != nil {
		return fc, err
	}
	size := fd.ElementSize
	raw := t.Elem() == byteType

	putElems := func(v reflect.Value, b []byte) error {
		if raw {
			copy(b, v.Bytes())
			return nil
		}
		for i := 0; i < v.Len(); i++ {
			if err := elem.put(v.Index(i), b[i*size:(i+1)*size]); err != nil {
				return err
			}
		}
		return nil
	}
	// v must already hold n elements.
	getElems := func(v reflect.Value, b []byte, n int) error {
		if raw {
			copy(v.Bytes(), b[:n])
			return nil
		}
		for i := 0; i < n; i++ {
			if err := elem.get(v.Index(i), b[i*size:(i+1)*size]); err != nil {
				return err
			}
		}
		return nil
	}

	switch {
	case t.Kind() == reflect.Array:
		if t.Len() != fd.ArrayLength {
			return fc, mismatch(fd, t)
		}
		fc.put = putElems
		fc.get = func(v reflect.Value, b []byte) error {
			return getElems(v, b, fd.ArrayLength)
		}

	case fd.ArrayLength >= 0:
		n := fd.ArrayLength
		fc.put = func(v reflect.Value, b []byte) error {
			if v.Len() != n {
				return fmt.Errorf("%w: have %d, want %d", ErrLengthMismatch, v.Len(), n)
			}
			return putElems(v, b)
		}
		fc.get = func(v reflect.Value, b []byte) error {
			v.Set(reflect.MakeSlice(t, n, n))
			return getElems(v, b, n)
		}

	default:
		fc.length = func(v reflect.Value) int { return v.Len() }
		fc.wire = func(n int) int { return n * size }
		fc.put = putElems
		fc.getN = func(v reflect.Value, b []byte, n int) error {
			if n == 0 {
				v.SetZero()
				return nil
			}
			v.Set(reflect.MakeSlice(t, n, n))
			return getElems(v, b, n)
		}
	}
	return fc, nil
}

// buildStruct flattens a nested type: its subfields are laid out back to back
// in position order.
func buildStruct(fd *schema.FieldDescriptor, t reflect.Type, fc fieldCodec) (fieldCodec, error) {
	subs := make([]fieldCodec, len(fd.SubFields))
	offsets := make([]int, len(fd.SubFields))
	at := 0
	for i := range fd.SubFields {
		sub := &fd.SubFields[i]
		sf, ok := t.FieldByName(sub.Name)
		if !ok || len(sf.Index) != 1 {
			return fc, fmt.Errorf("field %s: %s has no field %s", fd.Name, t, sub.Name)
		}
		c, err := buildField(sub, sf.Type)
		if err != nil {
			return fc, err
		}
		c.index = sf.Index[0]
		subs[i] = c
		offsets[i] = at
		at += c.width
	}

	fc.put = func(v reflect.Value, b []byte) error {
		for i, c := range subs {
			if err := c.put(v.Field(c.index), b[offsets[i]:offsets[i]+c.width]); err != nil {
				return fmt.Errorf("%s: %w", c.name, err)
			}
		}
		return nil
	}
	fc.get = func(v reflect.Value, b []byte) error {
		for i, c := range subs {
			if err := c.get(v.Field(c.index), b[offsets[i]:offsets[i]+c.width]); err != nil {
				return fmt.Errorf("%s: %w", c.name, err)
			}
		}
		return nil
	}
	return fc, nil
}

func checkKind(fd *schema.FieldDescriptor, t reflect.Type) error {
	var ok bool
	switch fd.Primitive {
	case schema.PrimBool:
		ok = t.Kind() == reflect.Bool
	case schema.PrimUint8:
		ok = t.Kind() == reflect.Uint8
	case schema.PrimInt8:
		ok = t.Kind() == reflect.Int8
	case schema.PrimUint16:
		ok = t.Kind() == reflect.Uint16
	case schema.PrimInt16:
		ok = t.Kind() == reflect.Int16
	case schema.PrimUint32:
		ok = t.Kind() == reflect.Uint32
	case schema.PrimInt32:
		ok = t.Kind() == reflect.Int32
	case schema.PrimUint64:
		ok = t.Kind() == reflect.Uint64
	case schema.PrimInt64:
		ok = t.Kind() == reflect.Int64
	case schema.PrimFloat32:
		ok = t.Kind() == reflect.Float32
	case schema.PrimFloat64:
		ok = t.Kind() == reflect.Float64
	}
	if !ok {
		return mismatch(fd, t)
	}
	return nil
}

func mismatch(fd *schema.FieldDescriptor, t reflect.Type) error {
	return fmt.Errorf("field %s: descriptor %s does not match Go type %s", fd.Name, fd.GoType, t)
}
