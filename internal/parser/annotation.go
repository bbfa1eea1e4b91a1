package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// TypeAnnotation holds a parsed @packet annotation
type TypeAnnotation struct {
	Header    int // -1 for nested (non-packet) types
	SubHeader int // -1 when absent
	SubPos    int // position of the field the sub-header precedes
	Sequence  bool
}

// IsPacket reports whether the type carries a header byte
func (a *TypeAnnotation) IsPacket() bool {
	return a != nil && a.Header >= 0
}

// HasSubHeader reports whether a sub-header byte is interleaved
func (a *TypeAnnotation) HasSubHeader() bool {
	return a != nil && a.SubHeader >= 0
}

func defaultAnnotation() *TypeAnnotation {
	return &TypeAnnotation{Header: -1, SubHeader: -1}
}

var annotationRe = regexp.MustCompile(`^@packet(?:\s+(.+))?$`)

// ParseAnnotation parses @packet annotation from comment text
//
// Expected format:
//
//	// @packet
//	// @packet header=0x01
//	// @packet header=0x26 subheader=0x05 subpos=0
//	// @packet header=0x04 sequence
//
// Params are space- or comma-separated key=value pairs. Without a header the
// type is a nested type.
func ParseAnnotation(comment string) (*TypeAnnotation, error) {
	matches := annotationRe.FindStringSubmatch(strings.TrimSpace(comment))
	if matches == nil {
		return nil, fmt.Errorf("no @packet annotation found")
	}
	return ParseParams(matches[1])
}

// ParseParams parses annotation parameters without the @packet prefix. It is
// also used for the tag of a blank marker field:
//
//	_ struct{} `packet:"header=0x04,sequence"`
func ParseParams(params string) (*TypeAnnotation, error) {
	anno := defaultAnnotation()

	fields := strings.FieldsFunc(params, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	for _, field := range fields {
		key, value, hasValue := strings.Cut(field, "=")

		switch key {
		case "header":
			n, err := parseNumber(key, value, hasValue)
			if err != nil {
				return nil, err
			}
			anno.Header = n

		case "subheader":
			n, err := parseNumber(key, value, hasValue)
			if err != nil {
				return nil, err
			}
			anno.SubHeader = n

		case "subpos":
			n, err := parseNumber(key, value, hasValue)
			if err != nil {
				return nil, err
			}
			anno.SubPos = n

		case "sequence":
			if !hasValue {
				anno.Sequence = true
				continue
			}
			b, err := strconv.ParseBool(value)
			if err != nil {
				return nil, fmt.Errorf("invalid sequence value: %s", value)
			}
			anno.Sequence = b

		default:
			return nil, fmt.Errorf("unknown parameter: %s", key)
		}
	}

	if err := anno.validate(); err != nil {
		return nil, err
	}
	return anno, nil
}

func (a *TypeAnnotation) validate() error {
	if a.SubHeader >= 0 && a.Header < 0 {
		return fmt.Errorf("subheader requires header")
	}
	if a.Sequence && a.Header < 0 {
		return fmt.Errorf("sequence requires header")
	}
	if a.SubPos < 0 {
		return fmt.Errorf("subpos must not be negative, got: %d", a.SubPos)
	}
	return nil
}

// parseNumber accepts decimal and 0x-prefixed hex values
func parseNumber(key, value string, hasValue bool) (int, error) {
	if !hasValue || value == "" {
		return 0, fmt.Errorf("%s= requires a value", key)
	}
	n, err := strconv.ParseInt(value, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", key, value)
	}
	return int(n), nil
}

// FindAnnotation searches comment lines for @packet annotation
// Returns the annotation and true if found. A malformed annotation is
// returned as an error with found=true.
func FindAnnotation(comments []string) (*TypeAnnotation, bool, error) {
	for _, comment := range comments {
		if !strings.HasPrefix(comment, "@packet") {
			continue
		}
		anno, err := ParseAnnotation(comment)
		return anno, true, err
	}
	return nil, false, nil
}

// CleanComment removes comment markers from a line
// "// @packet header=0x01" → "@packet header=0x01"
// "/* @packet header=0x01 */" → "@packet header=0x01"
func CleanComment(line string) string {
	line = strings.TrimSpace(line)

	// Remove // prefix
	if strings.HasPrefix(line, "//") {
		line = strings.TrimPrefix(line, "//")
		line = strings.TrimSpace(line)
		return line
	}

	// Remove /* */ wrapper
	if strings.HasPrefix(line, "/*") && strings.HasSuffix(line, "*/") {
		line = strings.TrimPrefix(line, "/*")
		line = strings.TrimSuffix(line, "*/")
		line = strings.TrimSpace(line)
		return line
	}

	return line
}

// String renders a in the comma-separated marker tag form.
func (a *TypeAnnotation) String() string {
	var parts []string
	if a.IsPacket() {
		parts = append(parts, fmt.Sprintf("header=0x%02X", a.Header))
	}
	if a.HasSubHeader() {
		parts = append(parts, fmt.Sprintf("subheader=0x%02X", a.SubHeader))
		if a.SubPos != 0 {
			parts = append(parts, "subpos="+strconv.Itoa(a.SubPos))
		}
	}
	if a.Sequence {
		parts = append(parts, "sequence")
	}
	return strings.Join(parts, ",")
}
