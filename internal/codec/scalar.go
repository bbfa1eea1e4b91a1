package codec

import (
	"encoding/binary"
	"math"
	"reflect"

	"github.com/alexhholmes/wirepack/internal/schema"
)

var le = binary.LittleEndian

type putFunc func(v reflect.Value, b []byte) error
type getFunc func(v reflect.Value, b []byte) error

// scalarCodec returns the little-endian encoder pair for p. Enums reach here
// with their underlying primitive.
func scalarCodec(p schema.Primitive) (putFunc, getFunc) {
	switch p {
	case schema.PrimBool:
		return func(v reflect.Value, b []byte) error {
				b[0] = 0
				if v.Bool() {
					b[0] = 1
				}
				return nil
			}, func(v reflect.Value, b []byte) error {
				v.SetBool(b[0] != 0)
				return nil
			}
	case schema.PrimUint8:
		return func(v reflect.Value, b []byte) error {
				b[0] = byte(v.Uint())
				return nil
			}, func(v reflect.Value, b []byte) error {
				v.SetUint(uint64(b[0]))
				return nil
			}
	case schema.PrimInt8:
		return func(v reflect.Value, b []byte) error {
				b[0] = byte(v.Int())
				return nil
			}, func(v reflect.Value, b []byte) error {
				v.SetInt(int64(int8(b[0])))
				return nil
			}
	case schema.PrimUint16:
		return func(v reflect.Value, b []byte) error {
				le.PutUint16(b, uint16(v.Uint()))
				return nil
			}, func(v reflect.Value, b []byte) error {
				v.SetUint(uint64(le.Uint16(b)))
				return nil
			}
	case schema.PrimInt16:
		return func(v reflect.Value, b []byte) error {
				le.PutUint16(b, uint16(v.Int()))
				return nil
			}, func(v reflect.Value, b []byte) error {
				v.SetInt(int64(int16(le.Uint16(b))))
				return nil
			}
	case schema.PrimUint32:
		return func(v reflect.Value, b []byte) error {
				le.PutUint32(b, uint32(v.Uint()))
				return nil
			}, func(v reflect.Value, b []byte) error {
				v.SetUint(uint64(le.Uint32(b)))
				return nil
			}
	case schema.PrimInt32:
		return func(v reflect.Value, b []byte) error {
				le.PutUint32(b, uint32(v.Int()))
				return nil
			}, func(v reflect.Value, b []byte) error {
				v.SetInt(int64(int32(le.Uint32(b))))
				return nil
			}
	case schema.PrimUint64:
		return func(v reflect.Value, b []byte) error {
				le.PutUint64(b, v.Uint())
				return nil
			}, func(v reflect.Value, b []byte) error {
				v.SetUint(le.Uint64(b))
				return nil
			}
	case schema.PrimInt64:
		return func(v reflect.Value, b []byte) error {
				le.PutUint64(b, uint64(v.Int()))
				return nil
			}, func(v reflect.Value, b []byte) error {
				v.SetInt(int64(le.Uint64(b)))
				return nil
			}
	case schema.PrimFloat32:
		return func(v reflect.Value, b []byte) error {
				le.PutUint32(b, math.Float32bits(float32(v.Float())))
				return nil
			}, func(v reflect.Value, b []byte) error {
				v.SetFloat(float64(math.Float32frombits(le.Uint32(b))))
				return nil
			}
	case schema.PrimFloat64:
		return func(v reflect.Value, b []byte) error {
				le.PutUint64(b, math.Float64bits(v.Float()))
				return nil
			}, func(v reflect.Value, b []byte) error {
				v.SetFloat(math.Float64frombits(le.Uint64(b)))
				return nil
			}
	}
	return nil, nil
}

// putLength stores a derived length in a size source of primitive p.
func putLength(p schema.Primitive, b []byte, n int) error {
	if n < 0 || uint64(n) > maxOf(p) {
		return ErrSizeOverflow
	}
	switch p.Size() {
	case 1:
		b[0] = byte(n)
	case 2:
		le.PutUint16(b, uint16(n))
	case 4:
		le.PutUint32(b, uint32(n))
	case 8:
		le.PutUint64(b, uint64(n))
	}
	return nil
}

// readLength decodes a size source of primitive p. Negative values are
// invalid lengths.
func readLength(p schema.Primitive, b []byte) (int, error) {
	var n int64
	switch p {
	case schema.PrimUint8:
		n = int64(b[0])
	case schema.PrimInt8:
		n = int64(int8(b[0]))
	case schema.PrimUint16:
		n = int64(le.Uint16(b))
	case schema.PrimInt16:
		n = int64(int16(le.Uint16(b)))
	case schema.PrimUint32:
		n = int64(le.Uint32(b))
	case schema.PrimInt32:
		n = int64(int32(le.Uint32(b)))
	case schema.PrimUint64, schema.PrimInt64:
		u := le.Uint64(b)
		if u > math.MaxInt32 {
			return 0, ErrInvalidLength
		}
		n = int64(u)
	}
	if n < 0 || n > math.MaxInt32 {
		return 0, ErrInvalidLength
	}
	return int(n), nil
}

func maxOf(p schema.Primitive) uint64 {
	switch p {
	case schema.PrimUint8:
		return math.MaxUint8
	case schema.PrimInt8:
		return math.MaxInt8
	case schema.PrimUint16:
		return math.MaxUint16
	case schema.PrimInt16:
		return math.MaxInt16
	case schema.PrimUint32:
		return math.MaxUint32
	case schema.PrimInt32:
		return math.MaxInt32
	case schema.PrimUint64:
		return math.MaxUint64
	case schema.PrimInt64:
		return math.MaxInt64
	}
	return 0
}
