// Package codegen emits Go source for analyzed packet types.
//
// The generated methods are the ahead-of-time twin of the runtime codec:
// Serialize, GetSize, Deserialize, DeserializeFromStream and PacketMetadata.
// Every position is the rendered offset accumulator of its slot, so the
// generated code and the runtime codec agree on the wire format.
package codegen

import (
	"fmt"
	"go/format"
	"sort"
	"strconv"
	"strings"

	"github.com/alexhholmes/wirepack/internal/offset"
	"github.com/alexhholmes/wirepack/internal/parser"
	"github.com/alexhholmes/wirepack/internal/schema"
)

// ImportPath is the package generated code calls into.
const ImportPath = "github.com/alexhholmes/wirepack"

// Generator collects analyzed types of one output file
type Generator struct {
	pkg     string
	source  string // input name for the header comment
	aliases []parser.Alias
	decls   []*parser.TypeLayout
	types   []*schema.TypeDescriptor
	imports map[string]bool
}

// NewGenerator creates a generator for package pkg. source names the input
// in the generated header.
func NewGenerator(pkg, source string) *Generator {
	return &Generator{
		pkg:     pkg,
		source:  source,
		imports: make(map[string]bool),
	}
}

// Declare emits the struct and enum declarations of f. YAML inputs need
// this; Go inputs already declare their types.
func (g *Generator) Declare(f *parser.File) {
	g.aliases = append(g.aliases, f.Aliases...)
	g.decls = append(g.decls, f.Types...)
}

// Add queues methods for desc.
func (g *Generator) Add(desc *schema.TypeDescriptor) {
	g.types = append(g.types, desc)
}

// Generate returns the formatted file.
func (g *Generator) Generate() ([]byte, error) {
	var body strings.Builder
	for _, a := range g.aliases {
		body.WriteString(fmt.Sprintf("type %s %s\n\n", a.Name, a.Underlying))
	}
	for _, t := range g.decls {
		body.WriteString(g.declaration(t))
	}
	for _, d := range g.types {
		body.WriteString(g.GenerateType(d))
	}

	var out strings.Builder
	out.WriteString(fmt.Sprintf("// Code generated by packetgen from %s. DO NOT EDIT.\n\n", g.source))
	out.WriteString(fmt.Sprintf("package %s\n\n", g.pkg))
	if imports := g.importList(); len(imports) > 0 {
		out.WriteString("import (\n")
		for _, imp := range imports {
			out.WriteString(fmt.Sprintf("\t%q\n", imp))
		}
		out.WriteString(")\n\n")
	}
	out.WriteString(body.String())

	src, err := format.Source([]byte(out.String()))
	if err != nil {
		return nil, fmt.Errorf("format generated code: %w", err)
	}
	return src, nil
}

func (g *Generator) importList() []string {
	list := make([]string, 0, len(g.imports))
	for imp := range g.imports {
		list = append(list, imp)
	}
	sort.Strings(list)
	return list
}

func (g *Generator) use(imp string) {
	g.imports[imp] = true
}

// declaration renders a YAML type as a Go struct. Packets get a marker
// field so the reflect front-end sees the same annotation.
func (g *Generator) declaration(t *parser.TypeLayout) string {
	var code strings.Builder
	params := ""
	if t.Anno != nil {
		params = t.Anno.String()
		if params == "" {
			code.WriteString("// @packet\n")
		}
	}
	code.WriteString(fmt.Sprintf("type %s struct {\n", t.Name))
	if params != "" {
		code.WriteString(fmt.Sprintf("\t_ struct{} `packet:%q`\n", params))
	}
	for _, f := range t.Fields {
		tag := ""
		if f.Tag != nil {
			tag = f.Tag.String()
		}
		if tag == "" {
			code.WriteString(fmt.Sprintf("\t%s %s\n", f.Name, f.GoType))
			continue
		}
		code.WriteString(fmt.Sprintf("\t%s %s `packet:%q`\n", f.Name, f.GoType, tag))
	}
	code.WriteString("}\n\n")
	return code.String()
}

// GenerateType returns the methods of one type, unformatted.
func (g *Generator) GenerateType(d *schema.TypeDescriptor) string {
	g.use("context")
	g.use("fmt")
	g.use("io")
	g.use(ImportPath)

	slots, end := d.Slots()
	w := &typeWriter{g: g, d: d, slots: slots, end: end}
	if dyn, ok := d.DynamicField(); ok {
		w.dyn = dyn
	}

	var code strings.Builder
	code.WriteString(w.metadata())
	code.WriteString(w.getSize())
	code.WriteString(w.serialize())
	code.WriteString(w.deserialize())
	code.WriteString(w.deserializeStream())
	return code.String()
}

// typeWriter emits the methods of one type.
type typeWriter struct {
	g     *Generator
	d     *schema.TypeDescriptor
	slots []schema.Slot
	end   offset.Accumulator
	dyn   *schema.FieldDescriptor // nil for static types
	field string                  // top-level field being emitted, for errors
}

// encodeTerm renders dynamic offset terms from the receiver's values.
func encodeTerm(t offset.Term) string {
	switch t.Kind {
	case offset.RuntimeLength:
		return "(len(p." + t.Field + ") + 1)"
	case offset.RuntimeCount:
		return "len(p." + t.Field + ")*" + strconv.Itoa(t.ElemSize)
	}
	return strconv.Itoa(t.N)
}

// decodeTerm renders dynamic offset terms as the decoded wire width.
func decodeTerm(offset.Term) string { return "dyn" }

func (w *typeWriter) label(field string) string {
	if field == "" {
		return w.d.Name
	}
	return w.d.Name + "." + field
}

func (w *typeWriter) metadata() string {
	var code strings.Builder
	_, static := w.d.StaticSize()
	code.WriteString(fmt.Sprintf("// PacketMetadata returns the dispatch tuple of %s.\n", w.d.Name))
	code.WriteString(fmt.Sprintf("func (*%s) PacketMetadata() wirepack.Metadata {\n", w.d.Name))
	code.WriteString("\treturn wirepack.Metadata{\n")
	code.WriteString(fmt.Sprintf("\t\tName: %q,\n", w.d.Name))
	code.WriteString(fmt.Sprintf("\t\tIsPacket: %t,\n", w.d.IsPacket))
	code.WriteString(fmt.Sprintf("\t\tHeader: 0x%02X,\n", w.d.Header))
	if sh := w.d.SubHeader; sh != nil {
		code.WriteString(fmt.Sprintf("\t\tSubHeader: &wirepack.SubHeader{Value: 0x%02X, Position: %d},\n", sh.Value, sh.Position))
	}
	code.WriteString(fmt.Sprintf("\t\tHasStaticSize: %t,\n", static))
	code.WriteString(fmt.Sprintf("\t\tHasSequence: %t,\n", w.d.HasSequence))
	code.WriteString(fmt.Sprintf("\t\tSize: %d,\n", w.d.FixedSize))
	code.WriteString("\t}\n")
	code.WriteString("}\n\n")
	return code.String()
}

func (w *typeWriter) sizeExpr() string {
	return w.end.Render("", encodeTerm)
}

func (w *typeWriter) getSize() string {
	var code strings.Builder
	code.WriteString(fmt.Sprintf("// GetSize returns the wire size of p, or 0 when it exceeds %d bytes.\n", maxPacketSize))
	code.WriteString(fmt.Sprintf("func (p *%s) GetSize() uint16 {\n", w.d.Name))
	if w.dyn == nil {
		code.WriteString(fmt.Sprintf("\treturn %d\n", w.d.FixedSize))
		code.WriteString("}\n\n")
		return code.String()
	}
	code.WriteString(fmt.Sprintf("\tsize := %s\n", w.sizeExpr()))
	code.WriteString(fmt.Sprintf("\tif size > %d {\n", maxPacketSize))
	code.WriteString("\t\treturn 0\n")
	code.WriteString("\t}\n")
	code.WriteString("\treturn uint16(size)\n")
	code.WriteString("}\n\n")
	return code.String()
}

const maxPacketSize = 65535

func (w *typeWriter) serialize() string {
	var code strings.Builder
	name := w.d.Name

	code.WriteString("// Serialize writes p into buf at offset and returns the bytes written.\n")
	code.WriteString(fmt.Sprintf("func (p *%s) Serialize(buf []byte, offset int) (int, error) {\n", name))
	code.WriteString(fmt.Sprintf("\tsize := %s\n", w.sizeExpr()))
	if w.dyn != nil {
		code.WriteString(fmt.Sprintf("\tif size > %d {\n", maxPacketSize))
		code.WriteString(fmt.Sprintf("\t\treturn 0, fmt.Errorf(\"%s: %%w: %%d bytes\", wirepack.ErrPacketTooLarge, size)\n", name))
		code.WriteString("\t}\n")
	}
	code.WriteString("\tif offset < 0 || offset > len(buf) || len(buf)-offset < size {\n")
	code.WriteString(fmt.Sprintf("\t\treturn 0, fmt.Errorf(\"%s: %%w: need %%d bytes at offset %%d, have %%d\", wirepack.ErrShortBuffer, size, offset, len(buf))\n", name))
	code.WriteString("\t}\n\n")

	for _, slot := range w.slots {
		at := slot.At.Render("offset", encodeTerm)
		switch slot.Kind {
		case schema.SlotHeader:
			code.WriteString(fmt.Sprintf("\t// header at %s\n", slot.At))
			code.WriteString(fmt.Sprintf("\tbuf[%s] = 0x%02X\n\n", at, slot.Value))
		case schema.SlotSubHeader:
			code.WriteString(fmt.Sprintf("\t// sub-header at %s\n", slot.At))
			code.WriteString(fmt.Sprintf("\tbuf[%s] = 0x%02X\n\n", at, slot.Value))
		case schema.SlotSequence:
			code.WriteString(fmt.Sprintf("\t// sequence at %s\n", slot.At))
			code.WriteString(fmt.Sprintf("\tbuf[%s] = 0\n\n", at))
		case schema.SlotField:
			f := slot.Field
			w.field = f.Name
			code.WriteString(fmt.Sprintf("\t// %s: %s at %s\n", f.Name, f.GoType, slot.At))
			if f.IsSizeSource {
				code.WriteString(w.putSource(f, at))
			} else {
				code.WriteString(w.put(f, "p."+f.Name, at, 0))
			}
			code.WriteString("\n")
		}
	}

	code.WriteString("\treturn size, nil\n")
	code.WriteString("}\n\n")
	return code.String()
}

// putSource writes the length a size source carries instead of its value.
func (w *typeWriter) putSource(f *schema.FieldDescriptor, at string) string {
	var code strings.Builder
	value := "size"
	if w.dyn.SizeMode == schema.SizeCount {
		value = "len(p." + w.dyn.Name + ")"
	}
	// size and every length are already bounded by maxPacketSize
	if limit, ok := sourceLimit(f.Primitive); ok && limit < maxPacketSize {
		code.WriteString(fmt.Sprintf("\tif %s > %d {\n", value, limit))
		code.WriteString(fmt.Sprintf("\t\treturn 0, fmt.Errorf(\"%s: %%w\", wirepack.ErrSizeOverflow)\n", w.label(f.Name)))
		code.WriteString("\t}\n")
	}
	code.WriteString(w.g.emitters()[f.Primitive].put(emitCtx{value: value, at: at}))
	return code.String()
}

func sourceLimit(p schema.Primitive) (uint64, bool) {
	switch p {
	case schema.PrimUint8:
		return 255, true
	case schema.PrimInt8:
		return 127, true
	case schema.PrimInt16:
		return 32767, true
	}
	return 0, false
}

// put writes the value expression of f starting at at. depth picks the loop
// variable of nested arrays.
func (w *typeWriter) put(f *schema.FieldDescriptor, value, at string, depth int) string {
	var code strings.Builder

	switch f.Kind {
	case schema.KindNumeric, schema.KindBool, schema.KindEnum:
		return w.g.emitters()[f.Primitive].put(emitCtx{value: value, at: at})

	case schema.KindString:
		if f.HasDynamicLength() {
			w.g.use("strings")
			code.WriteString(fmt.Sprintf("\tif strings.IndexByte(%s, 0) >= 0 {\n", value))
			code.WriteString(fmt.Sprintf("\t\treturn 0, fmt.Errorf(\"%s: %%w\", wirepack.ErrEmbeddedNUL)\n", w.label(w.field)))
			code.WriteString("\t}\n")
			code.WriteString(fmt.Sprintf("\tcopy(buf[%s:], %s)\n", at, value))
			code.WriteString(fmt.Sprintf("\tbuf[%s+len(%s)] = 0\n", at, value))
			return code.String()
		}
		code.WriteString(fmt.Sprintf("\tif len(%s) > %d {\n", value, f.ElementSize))
		code.WriteString(fmt.Sprintf("\t\treturn 0, fmt.Errorf(\"%s: %%w\", wirepack.ErrValueTooLong)\n", w.label(w.field)))
		code.WriteString("\t}\n")
		code.WriteString(fmt.Sprintf("\tclear(buf[%s : %s])\n", at, plus(at, f.ElementSize)))
		code.WriteString(fmt.Sprintf("\tcopy(buf[%s:], %s)\n", at, value))
		return code.String()

	case schema.KindArray:
		if f.ArrayLength >= 0 && !isGoArray(f) {
			code.WriteString(fmt.Sprintf("\tif len(%s) != %d {\n", value, f.ArrayLength))
			code.WriteString(fmt.Sprintf("\t\treturn 0, fmt.Errorf(\"%s: %%w: have %%d, want %d\", wirepack.ErrLengthMismatch, len(%s))\n",
				w.label(w.field), f.ArrayLength, value))
			code.WriteString("\t}\n")
		}
		if isRawBytes(f) {
			code.WriteString(fmt.Sprintf("\tcopy(buf[%s:], %s[:])\n", at, value))
			return code.String()
		}
		i := loopVar(depth)
		code.WriteString(fmt.Sprintf("\tfor %s := range %s {\n", i, value))
		code.WriteString(indent(w.put(f.Elem, value+"["+i+"]", indexed(at, i, f.ElementSize), depth+1)))
		code.WriteString("\t}\n")
		return code.String()

	case schema.KindStruct:
		off := 0
		for i := range f.SubFields {
			sub := &f.SubFields[i]
			code.WriteString(w.put(sub, value+"."+sub.Name, plus(at, off), depth))
			off += sub.StaticSize()
		}
		return code.String()
	}
	return fmt.Sprintf("\t// %s: unsupported kind %s\n", value, f.Kind)
}

func (w *typeWriter) deserialize() string {
	var code strings.Builder
	name := w.d.Name

	code.WriteString(fmt.Sprintf("// Deserialize decodes one %s from buf at offset. p is only written on success.\n", name))
	code.WriteString(fmt.Sprintf("func (p *%s) Deserialize(buf []byte, offset int) error {\n", name))
	code.WriteString(fmt.Sprintf("\tvar v %s\n", name))
	code.WriteString(w.dynVars())

	for _, slot := range w.slots {
		at := slot.At.Render("offset", decodeTerm)
		width := w.width(slot)
		field := ""
		if slot.Kind == schema.SlotField {
			field = slot.Field.Name
		}
		code.WriteString(fmt.Sprintf("\tif err := wirepack.Need(buf, %s, %s, %q, %q); err != nil {\n", at, width, name, field))
		code.WriteString("\t\treturn err\n")
		code.WriteString("\t}\n")
		code.WriteString(w.getSlot(slot, at))
		code.WriteString("\n")
	}

	code.WriteString("\t*p = v\n")
	code.WriteString("\treturn nil\n")
	code.WriteString("}\n\n")
	return code.String()
}

func (w *typeWriter) deserializeStream() string {
	var code strings.Builder
	name := w.d.Name

	code.WriteString(fmt.Sprintf("// DeserializeFromStream reads one %s from r. p is only written on success.\n", name))
	code.WriteString(fmt.Sprintf("func (p *%s) DeserializeFromStream(ctx context.Context, r io.Reader) error {\n", name))
	code.WriteString("\tb, err := wirepack.AcquireBuffer()\n")
	code.WriteString("\tif err != nil {\n")
	code.WriteString(fmt.Sprintf("\t\treturn fmt.Errorf(\"%s: %%w\", err)\n", name))
	code.WriteString("\t}\n")
	code.WriteString("\tdefer wirepack.ReleaseBuffer(b)\n")
	code.WriteString("\tdefer wirepack.BindContext(ctx, r)()\n\n")
	code.WriteString(fmt.Sprintf("\tvar v %s\n", name))
	code.WriteString(w.dynVars())
	code.WriteString("\tread := 0\n")

	for _, slot := range w.slots {
		width := w.width(slot)
		field := ""
		if slot.Kind == schema.SlotField {
			field = slot.Field.Name
		}
		code.WriteString("\t{\n")
		code.WriteString(fmt.Sprintf("\t\tbuf := b.Bytes(%s)\n", width))
		code.WriteString(fmt.Sprintf("\t\tif err := wirepack.ReadFull(ctx, r, buf, read, %q, %q); err != nil {\n", name, field))
		code.WriteString("\t\t\treturn err\n")
		code.WriteString("\t\t}\n")
		code.WriteString(indent(w.getSlot(slot, "0")))
		code.WriteString(fmt.Sprintf("\t\tread += %s\n", width))
		code.WriteString("\t}\n")
	}

	code.WriteString("\t*p = v\n")
	code.WriteString("\treturn nil\n")
	code.WriteString("}\n\n")
	return code.String()
}

// dynVars declares the locals the size source fills in.
func (w *typeWriter) dynVars() string {
	switch {
	case w.dyn == nil:
		return ""
	case w.dyn.Kind == schema.KindString:
		return "\tvar dyn int\n"
	default:
		return "\tvar dyn, count int\n"
	}
}

func (w *typeWriter) width(slot schema.Slot) string {
	switch {
	case slot.Kind != schema.SlotField:
		return "1"
	case slot.Field.HasDynamicLength():
		return "dyn"
	default:
		return strconv.Itoa(slot.Field.StaticSize())
	}
}

// getSlot decodes one slot from buf at at into v.
func (w *typeWriter) getSlot(slot schema.Slot, at string) string {
	var code strings.Builder
	switch slot.Kind {
	case schema.SlotHeader, schema.SlotSubHeader:
		what := "header"
		if slot.Kind == schema.SlotSubHeader {
			what = "sub-header"
		}
		code.WriteString(fmt.Sprintf("\tif buf[%s] != 0x%02X {\n", at, slot.Value))
		code.WriteString(fmt.Sprintf("\t\treturn fmt.Errorf(\"%s: %%w: %s 0x%%02X, want 0x%02X\", wirepack.ErrHeaderMismatch, buf[%s])\n",
			w.d.Name, what, slot.Value, at))
		code.WriteString("\t}\n")
	case schema.SlotSequence:
		code.WriteString("\t// sequence value is not checked\n")
	case schema.SlotField:
		f := slot.Field
		w.field = f.Name
		code.WriteString(w.get(f, "v."+f.Name, at, 0))
		if f.IsSizeSource {
			code.WriteString(w.decodeSource(f))
		}
	}
	return code.String()
}

// decodeSource turns the decoded size source into dyn and count. Lengths
// are bounded by maxPacketSize before anything is sized from them.
func (w *typeWriter) decodeSource(f *schema.FieldDescriptor) string {
	var code strings.Builder
	invalid := func(cond, detail, arg string) {
		code.WriteString(fmt.Sprintf("\tif %s {\n", cond))
		code.WriteString(fmt.Sprintf("\t\treturn fmt.Errorf(\"%s: %%w: %s\", wirepack.ErrInvalidLength, %s)\n", w.label(f.Name), detail, arg))
		code.WriteString("\t}\n")
	}

	limit, narrow := sourceLimit(f.Primitive)
	if !narrow {
		if f.Primitive != schema.PrimUint16 {
			invalid(fmt.Sprintf("v.%s > %d", f.Name, maxPacketSize), "length %d exceeds the packet limit", "v."+f.Name)
		}
		limit = maxPacketSize
	}
	if !isUnsigned(f.Primitive) {
		invalid(fmt.Sprintf("v.%s < 0", f.Name), "negative length %d", "v."+f.Name)
	}
	code.WriteString(fmt.Sprintf("\tsrc := int(v.%s)\n", f.Name))

	d := w.dyn
	switch {
	case d.SizeMode == schema.SizeCount && d.Kind == schema.KindString:
		code.WriteString("\tdyn = src + 1\n")
	case d.SizeMode == schema.SizeCount:
		code.WriteString("\tcount = src\n")
		code.WriteString(fmt.Sprintf("\tdyn = count * %d\n", d.ElementSize))
	case d.Kind == schema.KindString:
		code.WriteString(fmt.Sprintf("\tdyn = src - %d\n", w.d.FixedSize))
		invalid("dyn < 1", "total %d leaves no room for a terminator", "src")
	case d.ElementSize == 0:
		code.WriteString(fmt.Sprintf("\tdyn = src - %d\n", w.d.FixedSize))
		invalid("dyn != 0", "total %d does not match the static size", "src")
	default:
		code.WriteString(fmt.Sprintf("\tdyn = src - %d\n", w.d.FixedSize))
		invalid(fmt.Sprintf("dyn < 0 || dyn%%%d != 0", d.ElementSize), fmt.Sprintf("total %%d is not the static size plus whole %d byte elements", d.ElementSize), "src")
		code.WriteString(fmt.Sprintf("\tcount = dyn / %d\n", d.ElementSize))
	}

	// a count can still ask for more than the packet holds
	if d.SizeMode == schema.SizeCount && w.d.FixedSize+countWire(d, int(limit)) > maxPacketSize {
		invalid(fmt.Sprintf("dyn > %d", maxPacketSize-w.d.FixedSize), "length %d exceeds the packet limit", "src")
	}
	return code.String()
}

// countWire is the wire width of a count-mode field holding n.
func countWire(d *schema.FieldDescriptor, n int) int {
	if d.Kind == schema.KindString {
		return n + 1
	}
	return n * d.ElementSize
}

func isUnsigned(p schema.Primitive) bool {
	switch p {
	case schema.PrimUint8, schema.PrimUint16, schema.PrimUint32, schema.PrimUint64:
		return true
	}
	return false
}

// get decodes f from buf at at into the assignable expression value.
func (w *typeWriter) get(f *schema.FieldDescriptor, value, at string, depth int) string {
	var code strings.Builder

	switch f.Kind {
	case schema.KindNumeric, schema.KindBool, schema.KindEnum:
		return w.g.emitters()[f.Primitive].get(emitCtx{value: value, at: at, goType: f.GoType})

	case schema.KindString:
		end := plus(at, f.ElementSize)
		if f.HasDynamicLength() {
			end = at + "+dyn-1"
		}
		code.WriteString(fmt.Sprintf("\t%s = wirepack.CString(buf[%s : %s])\n", value, at, end))
		return code.String()

	case schema.KindArray:
		n := strconv.Itoa(f.ArrayLength)
		closing := ""
		switch {
		case f.HasDynamicLength():
			n = "count"
			code.WriteString("\tif count > 0 {\n")
			code.WriteString(fmt.Sprintf("\t%s = make(%s, count)\n", value, f.GoType))
			closing = "\t}\n"
		case !isGoArray(f):
			code.WriteString(fmt.Sprintf("\t%s = make(%s, %s)\n", value, f.GoType, n))
		}
		if isRawBytes(f) {
			code.WriteString(fmt.Sprintf("\tcopy(%s[:], buf[%s:])\n", value, at))
		} else {
			i := loopVar(depth)
			code.WriteString(fmt.Sprintf("\tfor %s := range %s {\n", i, value))
			code.WriteString(indent(w.get(f.Elem, value+"["+i+"]", indexed(at, i, f.ElementSize), depth+1)))
			code.WriteString("\t}\n")
		}
		code.WriteString(closing)
		return code.String()

	case schema.KindStruct:
		off := 0
		for i := range f.SubFields {
			sub := &f.SubFields[i]
			code.WriteString(w.get(sub, value+"."+sub.Name, plus(at, off), depth))
			off += sub.StaticSize()
		}
		return code.String()
	}
	return fmt.Sprintf("\t// %s: unsupported kind %s\n", value, f.Kind)
}

func isGoArray(f *schema.FieldDescriptor) bool {
	return strings.HasPrefix(f.GoType, "[") && !strings.HasPrefix(f.GoType, "[]")
}

// isRawBytes reports whether the array can be copied in one operation.
func isRawBytes(f *schema.FieldDescriptor) bool {
	if f.Elem == nil {
		return false
	}
	return f.Elem.GoType == "byte" || f.Elem.GoType == "uint8"
}

func loopVar(depth int) string {
	return string(rune('i' + depth))
}

func plus(at string, n int) string {
	switch {
	case n == 0:
		return at
	case at == "0":
		return strconv.Itoa(n)
	}
	return at + " + " + strconv.Itoa(n)
}

func indexed(at, i string, size int) string {
	if at == "0" {
		return i + "*" + strconv.Itoa(size)
	}
	return at + " + " + i + "*" + strconv.Itoa(size)
}

func indent(code string) string {
	lines := strings.SplitAfter(code, "\n")
	var b strings.Builder
	for _, l := range lines {
		if l == "" {
			continue
		}
		b.WriteString("\t")
		b.WriteString(l)
	}
	return b.String()
}
