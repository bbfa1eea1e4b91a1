package analyzer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/alexhholmes/wirepack/internal/parser"
	"github.com/alexhholmes/wirepack/internal/schema"
)

// SizeOf returns the wire size in bytes of a primitive or a fixed array of
// primitives. Returns -1 for dynamic shapes (strings, slices).
// Returns error for anything that needs the registry or has no encoding.
func SizeOf(goType string) (int, error) {
	if p, ok := schema.PrimitiveByName(goType); ok {
		return p.Size(), nil
	}

	if goType == "string" || strings.HasPrefix(goType, "[]") {
		return -1, nil
	}

	// Array: [N]T
	if n, elem, ok := splitArray(goType); ok {
		elemSize, err := SizeOf(elem)
		if err != nil {
			return 0, fmt.Errorf("array element: %w", err)
		}
		if elemSize < 0 {
			return 0, fmt.Errorf("array of dynamic type not supported: %s", goType)
		}
		return n * elemSize, nil
	}

	if strings.HasPrefix(goType, "*") {
		return 0, fmt.Errorf("pointer types not supported: %s", goType)
	}

	return 0, fmt.Errorf("unknown type: %s (use type registry for structs)", goType)
}

var arrayRe = regexp.MustCompile(`^\[([0-9A-Fa-fx_]+)\](.+)$`)

// splitArray parses [N]T into N and T. N may be decimal or hex.
func splitArray(goType string) (int, string, bool) {
	matches := arrayRe.FindStringSubmatch(goType)
	if matches == nil {
		return 0, "", false
	}
	n, err := strconv.ParseInt(matches[1], 0, 32)
	if err != nil || n < 0 {
		return 0, "", false
	}
	return int(n), matches[2], true
}

// TypeRegistry tracks struct declarations and named types for layout analysis
type TypeRegistry struct {
	types   map[string]*parser.TypeLayout // struct name → declaration
	aliases map[string]string             // alias → underlying type
}

func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		types:   make(map[string]*parser.TypeLayout),
		aliases: make(map[string]string),
	}
}

// RegistryFor builds a registry holding everything declared in files.
func RegistryFor(files ...*parser.File) *TypeRegistry {
	r := NewTypeRegistry()
	for _, f := range files {
		r.AddFile(f)
	}
	return r
}

// Register adds a struct declaration
func (r *TypeRegistry) Register(layout *parser.TypeLayout) {
	r.types[layout.Name] = layout
}

// RegisterAlias adds a named type mapping (e.g., type Empire uint8)
func (r *TypeRegistry) RegisterAlias(alias, underlying string) {
	r.aliases[alias] = underlying
}

// AddFile registers every struct and named type of a parsed file.
func (r *TypeRegistry) AddFile(f *parser.File) {
	for _, t := range f.Types {
		r.Register(t)
	}
	for _, a := range f.Aliases {
		r.RegisterAlias(a.Name, a.Underlying)
	}
}

// Lookup returns a registered struct declaration
func (r *TypeRegistry) Lookup(name string) (*parser.TypeLayout, bool) {
	layout, ok := r.types[name]
	return layout, ok
}

// ResolveType resolves type aliases to their underlying types
// Returns the original type if not an alias
func (r *TypeRegistry) ResolveType(goType string) string {
	// Alias chains are bounded by the number of aliases; a cycle stops there.
	for i := 0; i <= len(r.aliases); i++ {
		underlying, ok := r.aliases[goType]
		if !ok {
			break
		}
		goType = underlying
	}
	return goType
}
