package analyzer

import (
	"testing"

	"github.com/alexhholmes/wirepack/internal/parser"
)

func TestSizeOf(t *testing.T) {
	tests := []struct {
		goType   string
		wantSize int
		wantErr  bool
	}{
		// Primitive types
		{"uint8", 1, false},
		{"int8", 1, false},
		{"byte", 1, false},
		{"bool", 1, false},
		{"uint16", 2, false},
		{"int16", 2, false},
		{"uint32", 4, false},
		{"int32", 4, false},
		{"float32", 4, false},
		{"uint64", 8, false},
		{"int64", 8, false},
		{"float64", 8, false},

		// Arrays
		{"[16]byte", 16, false},
		{"[0x10]byte", 16, false},
		{"[8]uint32", 32, false},
		{"[2][3]uint16", 12, false},

		// Dynamic shapes
		{"string", -1, false},
		{"[]byte", -1, false},
		{"[]MyStruct", -1, false},
		{"[][]byte", -1, false},

		// Error cases
		{"int", 0, true},       // platform sized
		{"*uint32", 0, true},   // pointer
		{"MyStruct", 0, true},  // needs registry
		{"[16]*byte", 0, true}, // array of pointers
		{"[abc]byte", 0, true}, // invalid array size
		{"[4]string", 0, true}, // array of dynamic type
	}

	for _, tt := range tests {
		t.Run(tt.goType, func(t *testing.T) {
			got, err := SizeOf(tt.goType)

			if tt.wantErr {
				if err == nil {
					t.Errorf("SizeOf(%q) expected error, got nil", tt.goType)
				}
				return
			}

			if err != nil {
				t.Fatalf("SizeOf(%q) unexpected error: %v", tt.goType, err)
			}

			if got != tt.wantSize {
				t.Errorf("SizeOf(%q) = %d, want %d", tt.goType, got, tt.wantSize)
			}
		})
	}
}

func TestTypeRegistryResolve(t *testing.T) {
	reg := NewTypeRegistry()
	reg.RegisterAlias("Empire", "uint8")
	reg.RegisterAlias("Kingdom", "Empire")
	reg.RegisterAlias("Name", "[16]byte")
	// A cycle must not hang resolution
	reg.RegisterAlias("Ping", "Pong")
	reg.RegisterAlias("Pong", "Ping")

	tests := []struct {
		goType string
		want   string
	}{
		{"Empire", "uint8"},
		{"Kingdom", "uint8"},
		{"Name", "[16]byte"},
		{"uint32", "uint32"},
		{"Item", "Item"},
	}

	for _, tt := range tests {
		if got := reg.ResolveType(tt.goType); got != tt.want {
			t.Errorf("ResolveType(%q) = %q, want %q", tt.goType, got, tt.want)
		}
	}

	if got := reg.ResolveType("Ping"); got != "Ping" && got != "Pong" {
		t.Errorf("ResolveType(Ping) = %q", got)
	}
}

func TestTypeRegistryAddFile(t *testing.T) {
	file := &parser.File{
		Types:   []*parser.TypeLayout{{Name: "Item"}, {Name: "Member"}},
		Aliases: []parser.Alias{{Name: "Empire", Underlying: "uint8"}},
	}
	reg := RegistryFor(file)

	if _, ok := reg.Lookup("Item"); !ok {
		t.Error("Lookup(Item) not found")
	}
	if _, ok := reg.Lookup("Member"); !ok {
		t.Error("Lookup(Member) not found")
	}
	if _, ok := reg.Lookup("Empire"); ok {
		t.Error("aliases are not struct declarations")
	}
	if got := reg.ResolveType("Empire"); got != "uint8" {
		t.Errorf("ResolveType(Empire) = %q, want uint8", got)
	}
}
