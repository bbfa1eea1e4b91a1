package parser

import (
	"fmt"
	"go/token"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// yamlFile is the document shape of a YAML packet definition:
//
//	package: game
//	enums:
//	  - name: Empire
//	    type: uint8
//	types:
//	  - name: ChatOutgoing
//	    header: 0x04
//	    fields:
//	      - {name: Size, type: uint16}
//	      - {name: Message, type: string, total: Size}
type yamlFile struct {
	Package string     `yaml:"package"`
	Enums   []yamlEnum `yaml:"enums"`
	Types   []yamlType `yaml:"types"`
}

type yamlEnum struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type yamlType struct {
	Name      string      `yaml:"name"`
	Packet    bool        `yaml:"packet"`
	Header    *yamlNumber `yaml:"header"`
	SubHeader *yamlNumber `yaml:"subheader"`
	SubPos    int         `yaml:"subpos"`
	Sequence  bool        `yaml:"sequence"`
	Fields    []yamlField `yaml:"fields"`

	line, column int
}

func (t *yamlType) UnmarshalYAML(value *yaml.Node) error {
	type plain yamlType
	if err := value.Decode((*plain)(t)); err != nil {
		return err
	}
	t.line, t.column = value.Line, value.Column
	return nil
}

type yamlField struct {
	Name  string `yaml:"name"`
	Type  string `yaml:"type"`
	Order *int   `yaml:"order"`
	Len   int    `yaml:"len"`
	Size  string `yaml:"size"`
	Total string `yaml:"total"`
	Skip  bool   `yaml:"skip"`

	line, column int
}

func (f *yamlField) UnmarshalYAML(value *yaml.Node) error {
	type plain yamlField
	if err := value.Decode((*plain)(f)); err != nil {
		return err
	}
	f.line, f.column = value.Line, value.Column
	return nil
}

// yamlNumber accepts decimal and 0x-prefixed hex scalars.
type yamlNumber int

func (n *yamlNumber) UnmarshalYAML(value *yaml.Node) error {
	v, err := strconv.ParseInt(value.Value, 0, 32)
	if err != nil {
		return fmt.Errorf("line %d: invalid number %q", value.Line, value.Value)
	}
	*n = yamlNumber(v)
	return nil
}

// LoadYAML reads a YAML packet definition from disk.
func LoadYAML(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseYAML(path, data)
}

// ParseYAML parses a YAML packet definition. Types with a header or
// packet: true become roots.
func ParseYAML(path string, data []byte) (*File, error) {
	var doc yamlFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("yaml error: %w", err)
	}
	if doc.Package == "" {
		return nil, fmt.Errorf("%s: package is required", path)
	}

	out := &File{Package: doc.Package, Path: path}
	for _, e := range doc.Enums {
		if e.Name == "" || e.Type == "" {
			return nil, fmt.Errorf("%s: enum requires name and type", path)
		}
		out.Aliases = append(out.Aliases, Alias{Name: e.Name, Underlying: e.Type})
	}

	for _, yt := range doc.Types {
		if yt.Name == "" {
			return nil, fmt.Errorf("%s:%d: type requires a name", path, yt.line)
		}
		layout := &TypeLayout{
			Name: yt.Name,
			Pos:  token.Position{Filename: path, Line: yt.line, Column: yt.column},
		}
		if yt.Packet || yt.Header != nil {
			layout.Anno, layout.AnnoErr = yt.annotation()
		}

		for _, yf := range yt.Fields {
			if yf.Skip {
				continue
			}
			if yf.Name == "" || yf.Type == "" {
				return nil, fmt.Errorf("%s:%d: field requires name and type", path, yf.line)
			}
			f := Field{
				Name:   yf.Name,
				GoType: yf.Type,
				Pos:    token.Position{Filename: path, Line: yf.line, Column: yf.column},
			}
			f.Tag, f.TagErr = yf.tag()
			layout.Fields = append(layout.Fields, f)
		}
		out.Types = append(out.Types, layout)
	}

	return out, nil
}

func (t *yamlType) annotation() (*TypeAnnotation, error) {
	anno := defaultAnnotation()
	if t.Header != nil {
		anno.Header = int(*t.Header)
	}
	if t.SubHeader != nil {
		anno.SubHeader = int(*t.SubHeader)
	}
	anno.SubPos = t.SubPos
	anno.Sequence = t.Sequence
	if err := anno.validate(); err != nil {
		return nil, err
	}
	return anno, nil
}

func (f *yamlField) tag() (*FieldTag, error) {
	tag := defaultTag()
	if f.Order != nil {
		tag.Order = *f.Order
	}
	tag.Len = f.Len
	tag.Size = f.Size
	tag.Total = f.Total
	if err := tag.validate(); err != nil {
		return nil, err
	}
	return tag, nil
}
