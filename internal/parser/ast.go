package parser

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"reflect"
	"strconv"
	"strings"
)

// ParseFile parses a Go source file and extracts every struct type. Types
// annotated with @packet (or a blank marker field) become roots; the others
// are available as nested types.
func ParseFile(filename string) (*File, error) {
	return ParseSource(filename, nil)
}

// ParseSource is ParseFile for in-memory source. src follows the rules of
// go/parser.ParseFile.
func ParseSource(filename string, src any) (*File, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	e := &extractor{fset: fset, consts: collectConsts(file)}
	out := &File{Package: file.Name.Name, Path: filename}
	e.extractTypes(file, out)
	return out, nil
}

type extractor struct {
	fset   *token.FileSet
	consts map[string]string
}

func (e *extractor) extractTypes(file *ast.File, out *File) {
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}

		for _, spec := range genDecl.Specs {
			typeSpec := spec.(*ast.TypeSpec)

			structType, ok := typeSpec.Type.(*ast.StructType)
			if !ok {
				// type Empire uint8, type Name [16]byte, ...
				out.Aliases = append(out.Aliases, Alias{
					Name:       typeSpec.Name.Name,
					Underlying: e.typeToString(typeSpec.Type),
				})
				continue
			}

			// A doc comment on a grouped spec wins over the group's.
			doc := typeSpec.Doc
			if doc == nil {
				doc = genDecl.Doc
			}

			layout := &TypeLayout{
				Name: typeSpec.Name.Name,
				Pos:  e.fset.Position(typeSpec.Pos()),
			}
			layout.Anno, layout.AnnoErr = extractAnnotation(doc)
			layout.Fields = e.extractFields(structType, layout)
			out.Types = append(out.Types, layout)
		}
	}
}

func extractAnnotation(doc *ast.CommentGroup) (*TypeAnnotation, error) {
	if doc == nil {
		return nil, nil
	}

	// Extract comment text lines
	var lines []string
	for _, comment := range doc.List {
		for _, line := range strings.Split(comment.Text, "\n") {
			lines = append(lines, CleanComment(line))
		}
	}

	anno, found, err := FindAnnotation(lines)
	if !found {
		return nil, nil
	}
	return anno, err
}

func (e *extractor) extractFields(structType *ast.StructType, layout *TypeLayout) []Field {
	var fields []Field

	for _, field := range structType.Fields.List {
		if len(field.Names) == 0 {
			continue // Embedded field, skip
		}

		var tagValue string
		if field.Tag != nil {
			raw, err := strconv.Unquote(field.Tag.Value)
			if err != nil {
				raw = strings.Trim(field.Tag.Value, "`")
			}
			tagValue = reflect.StructTag(raw).Get(TagKey)
		}

		for _, name := range field.Names {
			if name.Name == "_" {
				// _ struct{} `packet:"header=0x04"` marks the type
				if tagValue != "" && layout.Anno == nil && layout.AnnoErr == nil {
					layout.Anno, layout.AnnoErr = ParseParams(tagValue)
				}
				continue
			}
			if !name.IsExported() {
				continue
			}

			f := Field{
				Name:   name.Name,
				GoType: e.typeToString(field.Type),
				Pos:    e.fset.Position(name.Pos()),
			}
			f.Tag, f.TagErr = ParseTag(tagValue)
			if f.TagErr == nil && f.Tag.Skip {
				continue
			}
			fields = append(fields, f)
		}
	}

	return fields
}

// typeToString converts AST type expression to string
// Anything without a binary encoding still gets a spelling so the analyzer
// can name it in a diagnostic.
func (e *extractor) typeToString(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		// Simple type: uint16, Item, Empire
		return t.Name

	case *ast.ArrayType:
		if t.Len == nil {
			// Slice: []byte, []Item
			return "[]" + e.typeToString(t.Elt)
		}
		// Array: [8]byte, [NameLen]byte
		return fmt.Sprintf("[%s]%s", e.exprToString(t.Len), e.typeToString(t.Elt))

	case *ast.StarExpr:
		return "*" + e.typeToString(t.X)

	case *ast.SelectorExpr:
		return e.typeToString(t.X) + "." + t.Sel.Name

	case *ast.MapType:
		return "map[" + e.typeToString(t.Key) + "]" + e.typeToString(t.Value)

	case *ast.StructType:
		return "struct{...}"

	default:
		return "unknown"
	}
}

func (e *extractor) exprToString(expr ast.Expr) string {
	switch x := expr.(type) {
	case *ast.BasicLit:
		return x.Value
	case *ast.Ident:
		if v, ok := e.consts[x.Name]; ok {
			return v
		}
		return x.Name
	default:
		return "?"
	}
}

// collectConsts records integer constants declared with a literal value so
// array lengths such as [NameLen]byte resolve.
func collectConsts(file *ast.File) map[string]string {
	consts := make(map[string]string)
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.CONST {
			continue
		}
		for _, spec := range genDecl.Specs {
			vs := spec.(*ast.ValueSpec)
			for i, name := range vs.Names {
				if i >= len(vs.Values) {
					break
				}
				lit, ok := vs.Values[i].(*ast.BasicLit)
				if !ok || lit.Kind != token.INT {
					continue
				}
				n, err := strconv.ParseInt(lit.Value, 0, 64)
				if err != nil {
					continue
				}
				consts[name.Name] = strconv.FormatInt(n, 10)
			}
		}
	}
	return consts
}
