package parser

import (
	"fmt"
	"reflect"
)

// FromType builds a File from a compiled struct type. The root is always
// Types[0]; nested struct types and named scalar types reachable from its
// fields follow.
func FromType(t reflect.Type) (*File, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%s is not a struct", t)
	}

	w := &typeWalker{
		seen:    make(map[reflect.Type]bool),
		aliased: make(map[string]bool),
	}
	w.visit(t)

	return &File{
		Package: t.PkgPath(),
		Types:   w.types,
		Aliases: w.aliases,
	}, nil
}

// TypeName is the name under which a reflected type appears in layouts.
func TypeName(t reflect.Type) string {
	return t.String()
}

type typeWalker struct {
	seen    map[reflect.Type]bool
	aliased map[string]bool
	types   []*TypeLayout
	aliases []Alias
}

func (w *typeWalker) visit(t reflect.Type) {
	if w.seen[t] {
		return
	}
	w.seen[t] = true

	layout := &TypeLayout{Name: TypeName(t)}
	w.types = append(w.types, layout)

	var nested []reflect.Type
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tagValue := sf.Tag.Get(TagKey)

		if sf.Name == "_" {
			if tagValue != "" && layout.Anno == nil && layout.AnnoErr == nil {
				layout.Anno, layout.AnnoErr = ParseParams(tagValue)
			}
			continue
		}
		if sf.Anonymous || !sf.IsExported() {
			continue
		}

		f := Field{
			Name:   sf.Name,
			GoType: w.spell(sf.Type),
		}
		f.Tag, f.TagErr = ParseTag(tagValue)
		if f.TagErr == nil && f.Tag.Skip {
			continue
		}
		layout.Fields = append(layout.Fields, f)

		if st, ok := structOf(sf.Type); ok {
			nested = append(nested, st)
		}
	}

	for _, st := range nested {
		w.visit(st)
	}
}

// structOf unwraps arrays and slices down to a struct element.
func structOf(t reflect.Type) (reflect.Type, bool) {
	for t.Kind() == reflect.Array || t.Kind() == reflect.Slice {
		t = t.Elem()
	}
	return t, t.Kind() == reflect.Struct
}

// spell renders t the way the source front-end would, registering named
// non-struct types as aliases of their underlying spelling.
func (w *typeWalker) spell(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Struct:
		return TypeName(t)
	case reflect.Array, reflect.Slice:
		if t.Name() != "" {
			w.alias(t, w.composite(t))
			return TypeName(t)
		}
		return w.composite(t)
	}

	if t.Name() == "" || t.PkgPath() == "" {
		// Unnamed or predeclared: uint8, string, map[string]int, *T
		return t.String()
	}

	// Named scalar: type Empire uint8
	w.alias(t, t.Kind().String())
	return TypeName(t)
}

func (w *typeWalker) composite(t reflect.Type) string {
	if t.Kind() == reflect.Array {
		return fmt.Sprintf("[%d]%s", t.Len(), w.spell(t.Elem()))
	}
	return "[]" + w.spell(t.Elem())
}

func (w *typeWalker) alias(t reflect.Type, underlying string) {
	name := TypeName(t)
	if w.aliased[name] {
		return
	}
	w.aliased[name] = true
	w.aliases = append(w.aliases, Alias{Name: name, Underlying: underlying})
}
