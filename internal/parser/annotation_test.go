package parser

import (
	"testing"
)

func TestParseAnnotation(t *testing.T) {
	tests := []struct {
		comment string
		wantHdr int
		wantSub int
		wantPos int
		wantSeq bool
		wantErr bool
	}{
		// Valid annotations
		{"@packet", -1, -1, 0, false, false}, // nested type
		{"@packet header=0x01", 0x01, -1, 0, false, false},
		{"@packet header=4", 4, -1, 0, false, false},
		{"@packet header=0x26 subheader=0x05 subpos=0", 0x26, 0x05, 0, false, false},
		{"@packet subpos=2 subheader=0x05 header=0x26", 0x26, 0x05, 2, false, false}, // Order doesn't matter
		{"@packet header=0x04 sequence", 0x04, -1, 0, true, false},
		{"@packet header=0x04,sequence=true", 0x04, -1, 0, true, false},
		{"@packet header=0x04 sequence=false", 0x04, -1, 0, false, false},
		{"@packet header=0x1FF", 0x1FF, -1, 0, false, false}, // range is checked by the analyzer

		// Error cases
		{"", 0, 0, 0, false, true},                            // no annotation
		{"header=0x01", 0, 0, 0, false, true},                 // missing @packet
		{"@packet header=abc", 0, 0, 0, false, true},          // non-numeric header
		{"@packet header=", 0, 0, 0, false, true},             // empty value
		{"@packet header", 0, 0, 0, false, true},              // no value
		{"@packet subheader=0x05", 0, 0, 0, false, true},      // subheader without header
		{"@packet sequence", 0, 0, 0, false, true},            // sequence without header
		{"@packet header=1 sequence=maybe", 0, 0, 0, false, true},
		{"@packet header=1 subpos=-1", 0, 0, 0, false, true},
		{"@packet header=1 unknown=bar", 0, 0, 0, false, true}, // unknown param
	}

	for _, tt := range tests {
		t.Run(tt.comment, func(t *testing.T) {
			got, err := ParseAnnotation(tt.comment)

			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseAnnotation(%q) expected error, got nil", tt.comment)
				}
				return
			}

			if err != nil {
				t.Fatalf("ParseAnnotation(%q) unexpected error: %v", tt.comment, err)
			}

			if got.Header != tt.wantHdr {
				t.Errorf("ParseAnnotation(%q).Header = %d, want %d", tt.comment, got.Header, tt.wantHdr)
			}
			if got.SubHeader != tt.wantSub {
				t.Errorf("ParseAnnotation(%q).SubHeader = %d, want %d", tt.comment, got.SubHeader, tt.wantSub)
			}
			if got.SubPos != tt.wantPos {
				t.Errorf("ParseAnnotation(%q).SubPos = %d, want %d", tt.comment, got.SubPos, tt.wantPos)
			}
			if got.Sequence != tt.wantSeq {
				t.Errorf("ParseAnnotation(%q).Sequence = %v, want %v", tt.comment, got.Sequence, tt.wantSeq)
			}
		})
	}
}

func TestAnnotationPredicates(t *testing.T) {
	var nilAnno *TypeAnnotation
	if nilAnno.IsPacket() || nilAnno.HasSubHeader() {
		t.Error("nil annotation must not report packet or sub-header")
	}

	anno, err := ParseAnnotation("@packet header=0x26 subheader=0x05")
	if err != nil {
		t.Fatalf("ParseAnnotation() error: %v", err)
	}
	if !anno.IsPacket() || !anno.HasSubHeader() {
		t.Errorf("IsPacket=%v HasSubHeader=%v, want true/true", anno.IsPacket(), anno.HasSubHeader())
	}
}

func TestCleanComment(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"// @packet header=0x01", "@packet header=0x01"},
		{"  //   @packet header=0x01  ", "@packet header=0x01"},
		{"/* @packet header=0x01 */", "@packet header=0x01"},
		{"  /*  @packet header=0x01  */  ", "@packet header=0x01"},
		{"@packet header=0x01", "@packet header=0x01"}, // no markers
		{"", ""},
	}

	for _, tt := range tests {
		got := CleanComment(tt.input)
		if got != tt.want {
			t.Errorf("CleanComment(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFindAnnotation(t *testing.T) {
	tests := []struct {
		name      string
		comments  []string
		wantHdr   int
		wantFound bool
		wantErr   bool
	}{
		{
			name: "found in first line",
			comments: []string{
				"@packet header=0x01",
				"other comment",
			},
			wantHdr:   0x01,
			wantFound: true,
		},
		{
			name: "found in second line",
			comments: []string{
				"ChatOutgoing is sent by the server.",
				"@packet header=0x04 sequence",
			},
			wantHdr:   0x04,
			wantFound: true,
		},
		{
			name: "malformed",
			comments: []string{
				"@packet header=zz",
			},
			wantFound: true,
			wantErr:   true,
		},
		{
			name: "not found",
			comments: []string{
				"Just a comment",
				"Another comment",
			},
			wantFound: false,
		},
		{
			name:      "empty comments",
			comments:  []string{},
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found, err := FindAnnotation(tt.comments)

			if found != tt.wantFound {
				t.Errorf("FindAnnotation() found = %v, want %v", found, tt.wantFound)
				return
			}
			if (err != nil) != tt.wantErr {
				t.Fatalf("FindAnnotation() err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantFound || tt.wantErr {
				return
			}

			if got.Header != tt.wantHdr {
				t.Errorf("FindAnnotation().Header = %d, want %d", got.Header, tt.wantHdr)
			}
		})
	}
}

func TestTypeAnnotationString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"header=0x04", "header=0x04"},
		{"header=38 subheader=5 subpos=1 sequence", "header=0x26,subheader=0x05,subpos=1,sequence"},
		{"", ""},
	}
	for _, tt := range tests {
		anno, err := ParseParams(tt.in)
		if err != nil {
			t.Fatalf("ParseParams(%q) error: %v", tt.in, err)
		}
		if got := anno.String(); got != tt.want {
			t.Errorf("ParseParams(%q).String() = %q, want %q", tt.in, got, tt.want)
		}
	}
}
