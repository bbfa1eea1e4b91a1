// Package schema holds the analyzed, immutable description of a packet type.
//
// Descriptors are produced once by the analyzer and only read afterwards; the
// codec and the source generator both walk the same tree.
package schema

import "fmt"

// Kind classifies a field by its wire encoding rule.
type Kind int

const (
	KindNumeric Kind = iota // fixed-width integer or float
	KindBool                // one byte, 1 or 0
	KindEnum                // named integer type, encoded as its underlying primitive
	KindString              // fixed (padded) or dynamic (null terminated)
	KindArray               // fixed or dynamic element sequence
	KindStruct              // nested custom type, flattened
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindBool:
		return "bool"
	case KindEnum:
		return "enum"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindStruct:
		return "struct"
	default:
		return "unknown"
	}
}

// Primitive is the wire representation of a scalar.
type Primitive int

const (
	PrimNone Primitive = iota
	PrimBool
	PrimUint8
	PrimInt8
	PrimUint16
	PrimInt16
	PrimUint32
	PrimInt32
	PrimUint64
	PrimInt64
	PrimFloat32
	PrimFloat64
)

var primitiveNames = map[Primitive]string{
	PrimBool:    "bool",
	PrimUint8:   "uint8",
	PrimInt8:    "int8",
	PrimUint16:  "uint16",
	PrimInt16:   "int16",
	PrimUint32:  "uint32",
	PrimInt32:   "int32",
	PrimUint64:  "uint64",
	PrimInt64:   "int64",
	PrimFloat32: "float32",
	PrimFloat64: "float64",
}

func (p Primitive) String() string {
	if name, ok := primitiveNames[p]; ok {
		return name
	}
	return "none"
}

// Size returns the wire width of p in bytes, 0 for PrimNone.
func (p Primitive) Size() int {
	switch p {
	case PrimBool, PrimUint8, PrimInt8:
		return 1
	case PrimUint16, PrimInt16:
		return 2
	case PrimUint32, PrimInt32, PrimFloat32:
		return 4
	case PrimUint64, PrimInt64, PrimFloat64:
		return 8
	default:
		return 0
	}
}

// IsInteger reports whether p can carry a length or a count.
func (p Primitive) IsInteger() bool {
	switch p {
	case PrimUint8, PrimInt8, PrimUint16, PrimInt16,
		PrimUint32, PrimInt32, PrimUint64, PrimInt64:
		return true
	}
	return false
}

// PrimitiveByName maps a Go basic type name to its primitive.
func PrimitiveByName(name string) (Primitive, bool) {
	switch name {
	case "byte":
		return PrimUint8, true
	case "bool":
		return PrimBool, true
	}
	for p, n := range primitiveNames {
		if n == name {
			return p, true
		}
	}
	return PrimNone, false
}

// SizeMode selects what a size-source field carries on the wire.
type SizeMode int

const (
	// SizeCount: element count of an array, logical byte length of a string.
	SizeCount SizeMode = iota
	// SizeTotal: the total serialized size of the packet. The dynamic field's
	// length is recovered by subtracting the static part.
	SizeTotal
)

func (m SizeMode) String() string {
	if m == SizeTotal {
		return "total"
	}
	return "count"
}

// FieldDescriptor describes one field of a packet or nested type.
type FieldDescriptor struct {
	Name      string
	GoType    string // source spelling, e.g. "[]Item" or "Empire"
	Kind      Kind
	Primitive Primitive // scalar kinds and enums; PrimNone otherwise
	TypeName  string    // enum or struct type name

	// ElementSize is the static width of one element: the whole field for
	// scalars, nested structs and fixed strings, Elem's width for arrays.
	// 0 means a dynamically sized string.
	ElementSize int
	// ArrayLength is the fixed element count; -1 for dynamic arrays and
	// non-array kinds.
	ArrayLength int

	SizeField string   // size source of a dynamic string or array
	SizeMode  SizeMode // meaningful when SizeField is set

	// SizeFor names the dynamic field this field supplies the length of.
	SizeFor      string
	SizeForMode  SizeMode
	IsSizeSource bool

	Order    int // requested position, -1 when not overridden
	Position int // final position within the owning type

	Elem      *FieldDescriptor  // element descriptor for arrays
	SubFields []FieldDescriptor // fields of a nested struct, in position order
}

// HasDynamicLength reports whether the wire width depends on a runtime value.
func (f *FieldDescriptor) HasDynamicLength() bool {
	switch f.Kind {
	case KindString:
		return f.ElementSize == 0
	case KindArray:
		return f.ArrayLength < 0
	}
	return false
}

// StaticSize is the field's fixed contribution to the packet size.
func (f *FieldDescriptor) StaticSize() int {
	if f.HasDynamicLength() {
		return 0
	}
	if f.Kind == KindArray {
		return f.ArrayLength * f.Elem.StaticSize()
	}
	return f.ElementSize
}

func (f *FieldDescriptor) String() string {
	switch {
	case f.Kind == KindArray && f.ArrayLength >= 0:
		return fmt.Sprintf("%s [%d]%s", f.Name, f.ArrayLength, f.Elem.GoType)
	case f.HasDynamicLength():
		return fmt.Sprintf("%s %s (%s=%s)", f.Name, f.GoType, f.SizeMode, f.SizeField)
	default:
		return fmt.Sprintf("%s %s", f.Name, f.GoType)
	}
}

// SubHeader is a constant byte interleaved before the field at Position.
type SubHeader struct {
	Value    byte
	Position int
}

// TypeDescriptor is an analyzed packet or nested type.
type TypeDescriptor struct {
	Name        string
	IsPacket    bool // carries a header byte
	Header      byte
	SubHeader   *SubHeader
	HasSequence bool
	Fields      []FieldDescriptor

	// FixedSize is the sum of every static contribution including header,
	// sub-header and sequence bytes. It excludes the dynamic field.
	FixedSize int

	dynamic int
}

// NewTypeDescriptor finalizes a descriptor; fields must already be in
// position order.
func NewTypeDescriptor(name string, fields []FieldDescriptor) *TypeDescriptor {
	t := &TypeDescriptor{Name: name, Fields: fields, dynamic: -1}
	for i := range fields {
		if fields[i].HasDynamicLength() && t.dynamic < 0 {
			t.dynamic = i
		}
	}
	return t
}

// DynamicField returns the type's single dynamic field, if any.
func (t *TypeDescriptor) DynamicField() (*FieldDescriptor, bool) {
	if t.dynamic < 0 {
		return nil, false
	}
	return &t.Fields[t.dynamic], true
}

// StaticSize returns the full packet size when it does not depend on
// runtime values. The second result is false when a dynamic field exists.
func (t *TypeDescriptor) StaticSize() (int, bool) {
	if t.dynamic >= 0 {
		return 0, false
	}
	return t.FixedSize, true
}

// Field looks up a top-level field by name.
func (t *TypeDescriptor) Field(name string) (*FieldDescriptor, bool) {
	for i := range t.Fields {
		if t.Fields[i].Name == name {
			return &t.Fields[i], true
		}
	}
	return nil, false
}

// Metadata is the tuple consumed by an external frame dispatcher.
type Metadata struct {
	Name          string
	IsPacket      bool
	Header        byte
	SubHeader     *SubHeader
	HasStaticSize bool
	HasSequence   bool
	// Size is the full packet size when HasStaticSize, otherwise the size of
	// the static part.
	Size int
}

// Metadata returns the dispatch tuple for t.
func (t *TypeDescriptor) Metadata() Metadata {
	m := Metadata{
		Name:          t.Name,
		IsPacket:      t.IsPacket,
		Header:        t.Header,
		HasSequence:   t.HasSequence,
		HasStaticSize: t.dynamic < 0,
		Size:          t.FixedSize,
	}
	if t.SubHeader != nil {
		sh := *t.SubHeader
		m.SubHeader = &sh
	}
	return m
}
