package analyzer

import (
	"go/token"
	"slices"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/alexhholmes/wirepack/internal/diag"
	"github.com/alexhholmes/wirepack/internal/parser"
	"github.com/alexhholmes/wirepack/internal/schema"
)

// Analyze performs layout analysis on a parsed type
//
// Nested struct types named by its fields are resolved through the registry
// and analyzed recursively. Every defect found is returned as a diagnostic;
// the descriptor is nil whenever the list is non-empty. The registry is only
// read, so concurrent calls sharing one registry are safe.
func Analyze(layout *parser.TypeLayout, registry *TypeRegistry) (*schema.TypeDescriptor, diag.List) {
	a := &analysis{
		registry: registry,
		nested:   make(map[string]*schema.TypeDescriptor),
	}

	desc := a.analyzeType(layout, nil, true)

	diags := a.diags
	diags.Sort()
	if len(diags) > 0 {
		for _, d := range diags {
			log.Warn().Str("type", d.Type).Str("field", d.Field).Str("code", d.Code.String()).Msg(d.Message)
		}
		return nil, diags
	}

	log.Debug().
		Str("type", desc.Name).
		Int("fields", len(desc.Fields)).
		Int("fixed_size", desc.FixedSize).
		Bool("static", desc.Metadata().HasStaticSize).
		Msg("analyzed")
	return desc, nil
}

// AnalyzeFile analyzes every root of f. Types with diagnostics produce no
// descriptor; diagnostics shared by several roots (a broken nested type) are
// reported once.
func AnalyzeFile(f *parser.File, registry *TypeRegistry) ([]*schema.TypeDescriptor, diag.List) {
	var (
		descs []*schema.TypeDescriptor
		all   diag.List
	)
	for _, root := range f.Roots() {
		desc, diags := Analyze(root, registry)
		if desc != nil {
			descs = append(descs, desc)
		}
		all = append(all, diags...)
	}
	all.Sort()
	return descs, slices.Compact(all)
}

type analysis struct {
	registry *TypeRegistry
	nested   map[string]*schema.TypeDescriptor // nil entry: nested type failed
	diags    diag.List
}

func (a *analysis) report(pos token.Position, code diag.Code, typeName, field, format string, args ...any) {
	d := diag.New(code, typeName, field, format, args...)
	d.Pos = pos
	a.diags = append(a.diags, d)
}

// entry is a resolved field with the source position diagnostics point at.
type entry struct {
	fd  schema.FieldDescriptor
	pos token.Position
}

func (a *analysis) analyzeType(layout *parser.TypeLayout, stack []string, root bool) *schema.TypeDescriptor {
	name := layout.Name
	stack = append(stack[:len(stack):len(stack)], name)

	if layout.AnnoErr != nil {
		a.report(layout.Pos, diag.InvalidAnnotation, name, "", "%v", layout.AnnoErr)
	}
	anno := layout.Annotation()

	// Phase 1: Resolve field shapes and static sizes
	declared := 0
	var entries []entry
	for _, field := range layout.Fields {
		if field.TagErr != nil {
			a.report(field.Pos, diag.InvalidAnnotation, name, field.Name, "%v", field.TagErr)
			continue
		}
		declared++
		fd, ok := a.resolveField(name, field, stack)
		if !ok {
			continue
		}
		entries = append(entries, entry{fd: fd, pos: field.Pos})
	}

	// Phase 2: Apply order overrides
	entries = a.applyOrder(name, entries, declared)

	// Phase 3: Validate dynamic fields and their size sources
	a.validateDynamic(name, entries)

	fields := make([]schema.FieldDescriptor, len(entries))
	for i := range entries {
		entries[i].fd.Position = i
		fields[i] = entries[i].fd
	}
	desc := schema.NewTypeDescriptor(name, fields)

	// Phase 4: Type-level metadata, only meaningful for the root
	if root && anno.IsPacket() {
		a.applyAnnotation(layout, anno, desc)
	}

	for i := range desc.Fields {
		desc.FixedSize += desc.Fields[i].StaticSize()
	}
	if desc.IsPacket {
		desc.FixedSize++
		if desc.SubHeader != nil {
			desc.FixedSize++
		}
		if desc.HasSequence {
			desc.FixedSize++
		}
	}

	return desc
}

func (a *analysis) applyAnnotation(layout *parser.TypeLayout, anno *parser.TypeAnnotation, desc *schema.TypeDescriptor) {
	desc.IsPacket = true
	desc.HasSequence = anno.Sequence

	if anno.Header > 0xFF {
		a.report(layout.Pos, diag.ValueOutOfRange, layout.Name, "", "header 0x%X does not fit in one byte", anno.Header)
	}
	desc.Header = byte(anno.Header)

	if !anno.HasSubHeader() {
		return
	}
	if anno.SubHeader > 0xFF {
		a.report(layout.Pos, diag.ValueOutOfRange, layout.Name, "", "subheader 0x%X does not fit in one byte", anno.SubHeader)
	}
	if anno.SubPos != 0 && anno.SubPos >= len(desc.Fields) {
		a.report(layout.Pos, diag.SubHeaderOutOfRange, layout.Name, "",
			"subheader position %d beyond last field (%d fields)", anno.SubPos, len(desc.Fields))
	}
	desc.SubHeader = &schema.SubHeader{Value: byte(anno.SubHeader), Position: anno.SubPos}
}

// applyOrder removes every overridden field from declaration order and
// re-inserts it at its requested index, lowest index first.
func (a *analysis) applyOrder(typeName string, entries []entry, declared int) []entry {
	var (
		rest      []entry
		overrides []entry
		taken     = make(map[int]string)
	)

	for _, e := range entries {
		order := e.fd.Order
		if order == -1 {
			rest = append(rest, e)
			continue
		}
		if order < 0 || order >= declared {
			a.report(e.pos, diag.OrderOutOfRange, typeName, e.fd.Name,
				"order %d out of range for %d fields", order, declared)
			rest = append(rest, e)
			continue
		}
		if other, dup := taken[order]; dup {
			a.report(e.pos, diag.DuplicateOrder, typeName, e.fd.Name,
				"order %d already taken by %s", order, other)
			rest = append(rest, e)
			continue
		}
		taken[order] = e.fd.Name
		overrides = append(overrides, e)
	}

	sort.SliceStable(overrides, func(i, j int) bool {
		return overrides[i].fd.Order < overrides[j].fd.Order
	})
	for _, e := range overrides {
		rest = slices.Insert(rest, min(e.fd.Order, len(rest)), e)
	}
	return rest
}

func (a *analysis) validateDynamic(typeName string, entries []entry) {
	seenDynamic := ""
	for i := range entries {
		dyn := &entries[i]
		if !dyn.fd.HasDynamicLength() {
			continue
		}

		if seenDynamic != "" {
			a.report(dyn.pos, diag.MultipleDynamicFields, typeName, dyn.fd.Name,
				"%s is dynamic but %s already is; at most one dynamic field per type", dyn.fd.Name, seenDynamic)
		} else {
			seenDynamic = dyn.fd.Name
		}

		if dyn.fd.SizeField == "" {
			a.report(dyn.pos, diag.MissingSizeField, typeName, dyn.fd.Name,
				"dynamic %s needs len= or a size source", dyn.fd.Kind)
			continue
		}

		src := -1
		for j := range entries {
			if entries[j].fd.Name == dyn.fd.SizeField {
				src = j
				break
			}
		}
		if src < 0 {
			a.report(dyn.pos, diag.MissingSizeField, typeName, dyn.fd.Name,
				"size source %s is not a field of %s", dyn.fd.SizeField, typeName)
			continue
		}

		source := &entries[src].fd
		if src >= i {
			a.report(dyn.pos, diag.SizeFieldAfterDynamicField, typeName, dyn.fd.Name,
				"size source %s at position %d must precede position %d", source.Name, src, i)
		}
		if !source.Primitive.IsInteger() {
			a.report(entries[src].pos, diag.InvalidSizeField, typeName, source.Name,
				"size source must be an integer, got %s", source.GoType)
			continue
		}

		source.IsSizeSource = true
		source.SizeFor = dyn.fd.Name
		source.SizeForMode = dyn.fd.SizeMode
	}
}

func (a *analysis) resolveField(typeName string, field parser.Field, stack []string) (schema.FieldDescriptor, bool) {
	fd, ok := a.resolveShape(typeName, field, field.GoType, field.Tag, stack)
	if !ok {
		return fd, false
	}
	fd.Name = field.Name
	fd.Order = field.Tag.Order
	if sf := field.Tag.SizeField(); sf != "" {
		fd.SizeField = sf
		if field.Tag.Total != "" {
			fd.SizeMode = schema.SizeTotal
		}
	}
	return fd, true
}

// resolveShape computes kind and static size of goType. tag is nil for array
// elements, which carry no annotations of their own.
func (a *analysis) resolveShape(typeName string, field parser.Field, goType string, tag *parser.FieldTag, stack []string) (schema.FieldDescriptor, bool) {
	fd := schema.FieldDescriptor{GoType: goType, ArrayLength: -1, Order: -1}
	if tag == nil {
		tag = &parser.FieldTag{Order: -1}
	}
	resolved := a.registry.ResolveType(goType)

	invalid := func(format string, args ...any) (schema.FieldDescriptor, bool) {
		a.report(field.Pos, diag.InvalidAnnotation, typeName, field.Name, format, args...)
		return fd, false
	}

	switch {
	case resolved == "string":
		fd.Kind = schema.KindString
		fd.ElementSize = tag.Len
		return fd, true

	case strings.HasPrefix(resolved, "[]"):
		elem, ok := a.resolveElem(typeName, field, resolved[2:], stack)
		if !ok {
			return fd, false
		}
		fd.Kind = schema.KindArray
		fd.Elem = elem
		fd.ElementSize = elem.StaticSize()
		if tag.Len > 0 {
			fd.ArrayLength = tag.Len
		}
		return fd, true

	case strings.HasPrefix(resolved, "["):
		n, elemType, ok := splitArray(resolved)
		if !ok {
			a.report(field.Pos, diag.UnknownFieldType, typeName, field.Name, "unresolvable array length in %s", goType)
			return fd, false
		}
		if tag.Len > 0 || tag.SizeField() != "" {
			return invalid("fixed array %s takes no len= or size source", goType)
		}
		elem, ok := a.resolveElem(typeName, field, elemType, stack)
		if !ok {
			return fd, false
		}
		fd.Kind = schema.KindArray
		fd.Elem = elem
		fd.ElementSize = elem.StaticSize()
		fd.ArrayLength = n
		return fd, true
	}

	if p, ok := schema.PrimitiveByName(resolved); ok {
		if tag.Len > 0 || tag.SizeField() != "" {
			return invalid("%s takes no len= or size source", goType)
		}
		fd.Primitive = p
		fd.ElementSize = p.Size()
		switch {
		case p == schema.PrimBool:
			fd.Kind = schema.KindBool
		case resolved != goType && p.IsInteger():
			fd.Kind = schema.KindEnum
			fd.TypeName = goType
		default:
			fd.Kind = schema.KindNumeric
		}
		return fd, true
	}

	if _, ok := a.registry.Lookup(resolved); ok {
		if tag.Len > 0 || tag.SizeField() != "" {
			return invalid("struct %s takes no len= or size source", goType)
		}
		nested, ok := a.nestedType(typeName, field, resolved, stack)
		if !ok {
			return fd, false
		}
		fd.Kind = schema.KindStruct
		fd.TypeName = resolved
		fd.SubFields = nested.Fields
		for i := range nested.Fields {
			fd.ElementSize += nested.Fields[i].StaticSize()
		}
		return fd, true
	}

	a.report(field.Pos, diag.UnknownFieldType, typeName, field.Name, "%s has no wire encoding", goType)
	return fd, false
}

func (a *analysis) resolveElem(typeName string, field parser.Field, elemType string, stack []string) (*schema.FieldDescriptor, bool) {
	elem, ok := a.resolveShape(typeName, field, elemType, nil, stack)
	if !ok {
		return nil, false
	}
	if elem.Kind == schema.KindString {
		a.report(field.Pos, diag.UnknownFieldType, typeName, field.Name,
			"arrays of strings are not supported: %s", elemType)
		return nil, false
	}
	if elem.HasDynamicLength() {
		a.report(field.Pos, diag.NestedDynamicField, typeName, field.Name,
			"array element %s is not statically sized", elemType)
		return nil, false
	}
	elem.Name = field.Name
	return &elem, true
}

// nestedType analyzes a struct referenced from a field. Results are memoized
// per analysis so a type used by several fields reports its defects once.
func (a *analysis) nestedType(typeName string, field parser.Field, name string, stack []string) (*schema.TypeDescriptor, bool) {
	if slices.Contains(stack, name) {
		a.report(field.Pos, diag.SelfReferenceLoop, typeName, field.Name,
			"%s contains itself: %s", name, strings.Join(append(slices.Clone(stack), name), " -> "))
		return nil, false
	}

	if desc, done := a.nested[name]; done {
		return desc, desc != nil
	}

	layout, _ := a.registry.Lookup(name)
	before := len(a.diags)
	desc := a.analyzeType(layout, stack, false)
	if len(a.diags) > before {
		a.nested[name] = nil
		return nil, false
	}

	if dyn, ok := desc.DynamicField(); ok {
		a.report(field.Pos, diag.NestedDynamicField, typeName, field.Name,
			"nested type %s has dynamic field %s", name, dyn.Name)
		a.nested[name] = nil
		return nil, false
	}

	a.nested[name] = desc
	return desc, true
}
