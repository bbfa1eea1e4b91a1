// Package parser turns packet declarations into raw layouts.
//
// Three front-ends produce the same File shape: Go source (go/ast), compiled
// Go types (reflect) and YAML definitions. None of them validates the layout;
// malformed annotations and tags are kept on the layout and reported by the
// analyzer as diagnostics.
package parser

import "go/token"

// File is the result of parsing one input.
type File struct {
	Package string
	Path    string
	Types   []*TypeLayout // every struct, declaration order
	Aliases []Alias       // named non-struct types, e.g. enums
}

// Alias is a named type declared over another type.
type Alias struct {
	Name       string
	Underlying string
}

// Roots returns the annotated types, the ones a codec is built for.
func (f *File) Roots() []*TypeLayout {
	var roots []*TypeLayout
	for _, t := range f.Types {
		if t.Annotated() {
			roots = append(roots, t)
		}
	}
	return roots
}

// Lookup finds a type by name.
func (f *File) Lookup(name string) (*TypeLayout, bool) {
	for _, t := range f.Types {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// TypeLayout represents a parsed struct
type TypeLayout struct {
	Name    string
	Anno    *TypeAnnotation // nil when the type carries no annotation
	AnnoErr error           // malformed annotation
	Fields  []Field
	Pos     token.Position
}

// Annotated reports whether the type was marked with @packet or a marker field.
func (t *TypeLayout) Annotated() bool {
	return t.Anno != nil || t.AnnoErr != nil
}

// Annotation returns the annotation, or the nested-type default when absent.
func (t *TypeLayout) Annotation() *TypeAnnotation {
	if t.Anno == nil {
		return defaultAnnotation()
	}
	return t.Anno
}

// Field represents a struct field with its packet tag
type Field struct {
	Name   string
	GoType string
	Tag    *FieldTag // never nil when TagErr is nil
	TagErr error
	Pos    token.Position
}
