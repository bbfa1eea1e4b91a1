package codegen

import (
	"fmt"

	"github.com/alexhholmes/wirepack/internal/schema"
)

// typeEmitter holds write/read code generators for a primitive
type typeEmitter struct {
	put func(c emitCtx) string
	get func(c emitCtx) string
}

// emitCtx carries context for code emission
type emitCtx struct {
	value  string // expression written, or assigned to when reading
	at     string // rendered position in buf
	goType string // declared type; conversions are emitted around reads
}

// conv wraps expr in a conversion to goType unless it already has type base.
func (c emitCtx) conv(base, expr string) string {
	if c.goType == "" || c.goType == base {
		return expr
	}
	return c.goType + "(" + expr + ")"
}

// emitters returns the code generators keyed by primitive. Integer widths
// above one byte go through encoding/binary, floats through math.
func (g *Generator) emitters() map[schema.Primitive]typeEmitter {
	return map[schema.Primitive]typeEmitter{
		schema.PrimBool: {
			put: func(c emitCtx) string {
				return fmt.Sprintf("\tbuf[%s] = 0\n\tif %s {\n\t\tbuf[%s] = 1\n\t}\n", c.at, c.value, c.at)
			},
			get: func(c emitCtx) string {
				return fmt.Sprintf("\t%s = %s\n", c.value, c.conv("bool", "buf["+c.at+"] != 0"))
			},
		},
		schema.PrimUint8: {
			put: func(c emitCtx) string {
				return fmt.Sprintf("\tbuf[%s] = byte(%s)\n", c.at, c.value)
			},
			get: func(c emitCtx) string {
				if c.goType == "byte" {
					return fmt.Sprintf("\t%s = buf[%s]\n", c.value, c.at)
				}
				return fmt.Sprintf("\t%s = %s\n", c.value, c.conv("uint8", "buf["+c.at+"]"))
			},
		},
		schema.PrimInt8: {
			put: func(c emitCtx) string {
				return fmt.Sprintf("\tbuf[%s] = byte(%s)\n", c.at, c.value)
			},
			get: func(c emitCtx) string {
				return fmt.Sprintf("\t%s = %s\n", c.value, c.conv("int8", "int8(buf["+c.at+"])"))
			},
		},
		schema.PrimUint16: g.integer(16, "uint16"),
		schema.PrimInt16:  g.integer(16, "int16"),
		schema.PrimUint32: g.integer(32, "uint32"),
		schema.PrimInt32:  g.integer(32, "int32"),
		schema.PrimUint64: g.integer(64, "uint64"),
		schema.PrimInt64:  g.integer(64, "int64"),
		schema.PrimFloat32: {
			put: func(c emitCtx) string {
				g.use("encoding/binary")
				g.use("math")
				return fmt.Sprintf("\tbinary.LittleEndian.PutUint32(buf[%s:], math.Float32bits(float32(%s)))\n", c.at, c.value)
			},
			get: func(c emitCtx) string {
				g.use("encoding/binary")
				g.use("math")
				return fmt.Sprintf("\t%s = %s\n", c.value,
					c.conv("float32", "math.Float32frombits(binary.LittleEndian.Uint32(buf["+c.at+":]))"))
			},
		},
		schema.PrimFloat64: {
			put: func(c emitCtx) string {
				g.use("encoding/binary")
				g.use("math")
				return fmt.Sprintf("\tbinary.LittleEndian.PutUint64(buf[%s:], math.Float64bits(float64(%s)))\n", c.at, c.value)
			},
			get: func(c emitCtx) string {
				g.use("encoding/binary")
				g.use("math")
				return fmt.Sprintf("\t%s = %s\n", c.value,
					c.conv("float64", "math.Float64frombits(binary.LittleEndian.Uint64(buf["+c.at+":]))"))
			},
		},
	}
}

// integer emits a little-endian integer of the given width. Signed values
// travel as their two's complement bit pattern.
func (g *Generator) integer(bits int, typ string) typeEmitter {
	unsigned := fmt.Sprintf("uint%d", bits)
	return typeEmitter{
		put: func(c emitCtx) string {
			g.use("encoding/binary")
			return fmt.Sprintf("\tbinary.LittleEndian.PutUint%d(buf[%s:], %s(%s))\n", bits, c.at, unsigned, c.value)
		},
		get: func(c emitCtx) string {
			g.use("encoding/binary")
			read := fmt.Sprintf("binary.LittleEndian.Uint%d(buf[%s:])", bits, c.at)
			if typ != unsigned {
				read = typ + "(" + read + ")"
			}
			return fmt.Sprintf("\t%s = %s\n", c.value, c.conv(typ, read))
		},
	}
}
