package parser

import (
	"testing"
)

const chatYAML = `
package: game
enums:
  - name: Empire
    type: uint8
types:
  - name: Member
    fields:
      - {name: Pid, type: uint32}
      - {name: Name, type: string, len: 25}
  - name: ChatOutgoing
    header: 0x04
    sequence: true
    fields:
      - {name: Size, type: uint16}
      - {name: Empire, type: Empire}
      - {name: Message, type: string, total: Size}
      - {name: Scratch, type: string, skip: true}
  - name: Reordered
    header: 0x26
    subheader: 0x05
    fields:
      - {name: A, type: uint8}
      - {name: B, type: uint16, order: 0}
`

func TestParseYAML(t *testing.T) {
	file, err := ParseYAML("chat.yaml", []byte(chatYAML))
	if err != nil {
		t.Fatalf("ParseYAML() error: %v", err)
	}

	if file.Package != "game" {
		t.Errorf("Package = %q, want game", file.Package)
	}
	if len(file.Types) != 3 {
		t.Fatalf("found %d types, want 3", len(file.Types))
	}
	if roots := file.Roots(); len(roots) != 2 {
		t.Fatalf("Roots() = %d, want 2", len(roots))
	}

	chat, _ := file.Lookup("ChatOutgoing")
	if chat.Anno.Header != 0x04 || !chat.Anno.Sequence {
		t.Errorf("ChatOutgoing.Anno = %+v", chat.Anno)
	}
	if len(chat.Fields) != 3 {
		t.Fatalf("ChatOutgoing has %d fields, want 3", len(chat.Fields))
	}
	if chat.Fields[2].Tag.Total != "Size" {
		t.Errorf("Message.Tag.Total = %q, want Size", chat.Fields[2].Tag.Total)
	}
	if chat.Fields[2].Pos.Filename != "chat.yaml" || chat.Fields[2].Pos.Line == 0 {
		t.Errorf("Message.Pos = %v, want a chat.yaml line", chat.Fields[2].Pos)
	}

	member, _ := file.Lookup("Member")
	if member.Fields[1].Tag.Len != 25 || member.Fields[1].Tag.Order != -1 {
		t.Errorf("Member.Name.Tag = %+v", member.Fields[1].Tag)
	}

	re, _ := file.Lookup("Reordered")
	if re.Anno.SubHeader != 0x05 {
		t.Errorf("Reordered.SubHeader = %d, want 5", re.Anno.SubHeader)
	}
	if re.Fields[1].Tag.Order != 0 {
		t.Errorf("B.Tag.Order = %d, want 0", re.Fields[1].Tag.Order)
	}

	if len(file.Aliases) != 1 || file.Aliases[0].Name != "Empire" {
		t.Errorf("Aliases = %+v", file.Aliases)
	}
}

func TestParseYAMLErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"no package", "types: []"},
		{"bad header", "package: p\ntypes:\n  - name: A\n    header: zz\n"},
		{"unnamed type", "package: p\ntypes:\n  - header: 1\n"},
		{"field without type", "package: p\ntypes:\n  - name: A\n    fields:\n      - {name: X}\n"},
		{"enum without type", "package: p\nenums:\n  - {name: E}\n"},
		{"not yaml", "package: [unterminated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseYAML("bad.yaml", []byte(tt.doc)); err == nil {
				t.Errorf("ParseYAML(%q) expected error", tt.doc)
			}
		})
	}
}

func TestParseYAMLInvalidTagKept(t *testing.T) {
	doc := "package: p\ntypes:\n  - name: A\n    header: 1\n    fields:\n      - {name: X, type: string, size: N, total: M}\n"
	file, err := ParseYAML("tag.yaml", []byte(doc))
	if err != nil {
		t.Fatalf("ParseYAML() error: %v", err)
	}
	if file.Types[0].Fields[0].TagErr == nil {
		t.Error("TagErr = nil, want error for size and total together")
	}
}
