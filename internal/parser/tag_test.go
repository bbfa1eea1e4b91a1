package parser

import (
	"testing"
)

func TestParseTag(t *testing.T) {
	tests := []struct {
		tag       string
		wantSkip  bool
		wantOrder int
		wantLen   int
		wantSize  string
		wantTotal string
		wantErr   bool
	}{
		// Declaration order, type decides
		{"", false, -1, 0, "", "", false},
		{"-", true, -1, 0, "", "", false},

		// Order overrides
		{"order=0", false, 0, 0, "", "", false},
		{"order=3", false, 3, 0, "", "", false},

		// Fixed lengths
		{"len=25", false, -1, 25, "", "", false},
		{"order=1,len=4", false, 1, 4, "", "", false},

		// Size sources
		{"size=Count", false, -1, 0, "Count", "", false},
		{"total=Size", false, -1, 0, "", "Size", false},
		{"order=0,total=Size", false, 0, 0, "", "Size", false},
		{"size=Count, order=2", false, 2, 0, "Count", "", false}, // spaces tolerated

		// Error cases
		{"order", false, 0, 0, "", "", true},               // no value
		{"order=x", false, 0, 0, "", "", true},             // non-numeric order
		{"len=0", false, 0, 0, "", "", true},               // zero length
		{"len=-3", false, 0, 0, "", "", true},              // negative length
		{"size=", false, 0, 0, "", "", true},               // empty size field
		{"size=A,total=B", false, 0, 0, "", "", true},      // both modes
		{"len=4,size=Count", false, 0, 0, "", "", true},    // fixed and sized
		{"order=1,unknown=foo", false, 0, 0, "", "", true}, // unknown param
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got, err := ParseTag(tt.tag)

			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseTag(%q) expected error, got nil", tt.tag)
				}
				return
			}

			if err != nil {
				t.Fatalf("ParseTag(%q) unexpected error: %v", tt.tag, err)
			}

			if got.Skip != tt.wantSkip {
				t.Errorf("ParseTag(%q).Skip = %v, want %v", tt.tag, got.Skip, tt.wantSkip)
			}
			if got.Order != tt.wantOrder {
				t.Errorf("ParseTag(%q).Order = %d, want %d", tt.tag, got.Order, tt.wantOrder)
			}
			if got.Len != tt.wantLen {
				t.Errorf("ParseTag(%q).Len = %d, want %d", tt.tag, got.Len, tt.wantLen)
			}
			if got.Size != tt.wantSize {
				t.Errorf("ParseTag(%q).Size = %q, want %q", tt.tag, got.Size, tt.wantSize)
			}
			if got.Total != tt.wantTotal {
				t.Errorf("ParseTag(%q).Total = %q, want %q", tt.tag, got.Total, tt.wantTotal)
			}
		})
	}
}

func TestFieldTagSizeField(t *testing.T) {
	tests := []struct {
		tag  FieldTag
		want string
	}{
		{FieldTag{Size: "Count"}, "Count"},
		{FieldTag{Total: "Size"}, "Size"},
		{FieldTag{}, ""},
	}

	for _, tt := range tests {
		if got := tt.tag.SizeField(); got != tt.want {
			t.Errorf("%+v.SizeField() = %q, want %q", tt.tag, got, tt.want)
		}
	}
}

func TestFieldTagString(t *testing.T) {
	tests := []string{"", "-", "order=2", "len=8", "size=Count", "order=0,total=Size"}
	for _, in := range tests {
		tag, err := ParseTag(in)
		if err != nil {
			t.Fatalf("ParseTag(%q) error: %v", in, err)
		}
		if got := tag.String(); got != in {
			t.Errorf("ParseTag(%q).String() = %q", in, got)
		}
	}
}
