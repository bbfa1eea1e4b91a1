// Package diag defines located schema diagnostics. They are reported as data
// so a caller can print every defect of a type at once.
package diag

import (
	"fmt"
	"go/token"
	"sort"
	"strings"
)

// Code identifies a class of schema error.
type Code int

const (
	MissingSizeField Code = iota + 1
	SizeFieldAfterDynamicField
	MultipleDynamicFields
	OrderOutOfRange
	SelfReferenceLoop
	UnknownFieldType
	InvalidAnnotation
	DuplicateOrder
	InvalidSizeField
	NestedDynamicField
	SubHeaderOutOfRange
	ValueOutOfRange
)

var codeNames = map[Code]string{
	MissingSizeField:           "MissingSizeField",
	SizeFieldAfterDynamicField: "SizeFieldAfterDynamicField",
	MultipleDynamicFields:      "MultipleDynamicFields",
	OrderOutOfRange:            "OrderOutOfRange",
	SelfReferenceLoop:          "SelfReferenceLoop",
	UnknownFieldType:           "UnknownFieldType",
	InvalidAnnotation:          "InvalidAnnotation",
	DuplicateOrder:             "DuplicateOrder",
	InvalidSizeField:           "InvalidSizeField",
	NestedDynamicField:         "NestedDynamicField",
	SubHeaderOutOfRange:        "SubHeaderOutOfRange",
	ValueOutOfRange:            "ValueOutOfRange",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Code(%d)", int(c))
}

// Diagnostic is one schema defect.
type Diagnostic struct {
	Code    Code
	Type    string
	Field   string // empty for type-level defects
	Pos     token.Position
	Message string
}

func (d Diagnostic) Error() string {
	var b strings.Builder
	if d.Pos.IsValid() {
		b.WriteString(d.Pos.String())
		b.WriteString(": ")
	}
	b.WriteString(d.Type)
	if d.Field != "" {
		b.WriteString(".")
		b.WriteString(d.Field)
	}
	fmt.Fprintf(&b, ": %s: %s", d.Code, d.Message)
	return b.String()
}

// New builds a diagnostic with a formatted message.
func New(code Code, typeName, field string, format string, args ...any) Diagnostic {
	return Diagnostic{
		Code:    code,
		Type:    typeName,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}

// List is an ordered set of diagnostics. A non-empty List is an error.
type List []Diagnostic

func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no diagnostics"
	case 1:
		return l[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d schema errors:", len(l))
	for _, d := range l {
		b.WriteString("\n\t")
		b.WriteString(d.Error())
	}
	return b.String()
}

// Err returns l as an error, or nil when empty.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// Has reports whether any diagnostic carries code.
func (l List) Has(code Code) bool {
	for _, d := range l {
		if d.Code == code {
			return true
		}
	}
	return false
}

// ForType returns the diagnostics reported against typeName.
func (l List) ForType(typeName string) List {
	var out List
	for _, d := range l {
		if d.Type == typeName {
			out = append(out, d)
		}
	}
	return out
}

// Sort orders diagnostics by type, then field, then code.
func (l List) Sort() {
	sort.SliceStable(l, func(i, j int) bool {
		if l[i].Type != l[j].Type {
			return l[i].Type < l[j].Type
		}
		if l[i].Field != l[j].Field {
			return l[i].Field < l[j].Field
		}
		return l[i].Code < l[j].Code
	})
}
