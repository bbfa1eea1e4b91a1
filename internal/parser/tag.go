package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// TagKey is the struct tag key read by every front-end
const TagKey = "packet"

// FieldTag is a parsed packet struct tag
type FieldTag struct {
	Skip  bool
	Order int    // -1 if unspecified; explicit position otherwise
	Len   int    // 0 if unspecified; fixed byte length (string) or element count (slice)
	Size  string // size source carrying a count or logical length
	Total string // size source carrying the total packet size
}

// SizeField returns whichever size source is set
func (t *FieldTag) SizeField() string {
	if t.Size != "" {
		return t.Size
	}
	return t.Total
}

func defaultTag() *FieldTag {
	return &FieldTag{Order: -1}
}

// ParseTag parses packet struct tags
//
// Semantics:
//   - "-"            : field is not part of the wire layout
//   - "order=N"      : field is spliced into absolute position N
//   - "len=N"        : fixed length string of N bytes, or slice of N elements
//   - "size=Field"   : dynamic field whose count/length comes from Field
//   - "total=Field"  : dynamic field; Field carries the whole packet size
//
// Examples:
//
//	""                   → declaration order, type decides the encoding
//	"len=25"             → fixed 25 byte string
//	"size=Count"         → []Item sized by Count
//	"order=0,total=Size" → dynamic string at position 0 sized by packet length
func ParseTag(tag string) (*FieldTag, error) {
	f := defaultTag()
	if tag == "" {
		return f, nil
	}
	if tag == "-" {
		f.Skip = true
		return f, nil
	}

	for _, part := range strings.Split(tag, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return nil, fmt.Errorf("invalid parameter: %s", part)
		}

		switch key {
		case "order":
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("invalid order: %s", value)
			}
			f.Order = n

		case "len":
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("invalid len: %s", value)
			}
			if n <= 0 {
				return nil, fmt.Errorf("len must be positive, got: %d", n)
			}
			f.Len = n

		case "size", "total":
			if value == "" {
				return nil, fmt.Errorf("%s= requires field name", key)
			}
			if key == "size" {
				f.Size = value
			} else {
				f.Total = value
			}

		default:
			return nil, fmt.Errorf("unknown parameter: %s", key)
		}
	}

	if err := f.validate(); err != nil {
		return nil, err
	}
	return f, nil
}

func (t *FieldTag) validate() error {
	if t.Size != "" && t.Total != "" {
		return fmt.Errorf("size= and total= are mutually exclusive")
	}
	if t.Len > 0 && t.SizeField() != "" {
		return fmt.Errorf("len= cannot be combined with a size source")
	}
	if t.Len < 0 {
		return fmt.Errorf("len must be positive, got: %d", t.Len)
	}
	return nil
}

// String renders t back into tag syntax. Defaults are omitted.
func (t *FieldTag) String() string {
	if t.Skip {
		return "-"
	}
	var parts []string
	if t.Order >= 0 {
		parts = append(parts, "order="+strconv.Itoa(t.Order))
	}
	if t.Len > 0 {
		parts = append(parts, "len="+strconv.Itoa(t.Len))
	}
	if t.Size != "" {
		parts = append(parts, "size="+t.Size)
	}
	if t.Total != "" {
		parts = append(parts, "total="+t.Total)
	}
	return strings.Join(parts, ",")
}
