package codegen

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
)

// Directive marks a struct for generation.
const Directive = "//typecodec:generate"

// ParseFile parses a Go source file and returns its AST.
func ParseFile(filename string) (*ast.File, *token.FileSet, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, nil, parser.ParseComments)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse file %q: %w", filename, err)
	}
	return file, fset, nil
}

// ExtractStructs returns the structs of file carrying the directive.
func ExtractStructs(file *ast.File, filePath string) ([]*StructInfo, error) {
	imports := ExtractImports(file)
	var structs []*StructInfo
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}
		for _, spec := range genDecl.Specs {
			typeSpec := spec.(*ast.TypeSpec)
			doc := typeSpec.Doc
			if doc == nil && len(genDecl.Specs) == 1 {
				doc = genDecl.Doc
			}
			args, ok, err := directiveArgs(doc)
			if err != nil {
				return nil, fmt.Errorf("type %s: %w", typeSpec.Name.Name, err)
			}
			if !ok {
				continue
			}
			st, isStruct := typeSpec.Type.(*ast.StructType)
			if !isStruct || typeSpec.TypeParams != nil {
				return nil, fmt.Errorf("type %s: %s applies to non-generic structs", typeSpec.Name.Name, Directive)
			}
			fields, err := extractFields(st)
			if err != nil {
				return nil, fmt.Errorf("type %s: %w", typeSpec.Name.Name, err)
			}
			name := args["name"]
			if name == "" {
				name = file.Name.Name + "." + typeSpec.Name.Name
			}
			structs = append(structs, &StructInfo{
				Name:     typeSpec.Name.Name,
				TypeName: name,
				Tag:      args["tag"],
				FilePath: filePath,
				Fields:   fields,
				Imports:  imports,
			})
		}
	}
	return structs, nil
}

// ExtractImports maps import names to paths.
func ExtractImports(file *ast.File) map[string]string {
	imports := make(map[string]string)
	for _, imp := range file.Imports {
		path := strings.Trim(imp.Path.Value, `"`)
		name := importName(path)
		if imp.Name != nil {
			name = imp.Name.Name
		}
		imports[name] = path
	}
	return imports
}

// importName guesses the package name of an import path from its last
// element.
func importName(path string) string {
	parts := strings.Split(path, "/")
	name := parts[len(parts)-1]
	// gopkg.in/yaml.v3
	if i := strings.Index(name, ".v"); i > 0 {
		name = name[:i]
	}
	return strings.TrimPrefix(name, "go-")
}

func directiveArgs(doc *ast.CommentGroup) (map[string]string, bool, error) {
	if doc == nil {
		return nil, false, nil
	}
	for _, c := range doc.List {
		rest, ok := strings.CutPrefix(c.Text, Directive)
		if !ok {
			continue
		}
		if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
			continue
		}
		args, err := parseDirectiveArgs(rest)
		return args, err == nil, err
	}
	return nil, false, nil
}

func extractFields(st *ast.StructType) ([]*FieldInfo, error) {
	var fields []*FieldInfo
	for _, field := range st.Fields.List {
		tag, err := fieldTag(field)
		if err != nil {
			return nil, err
		}
		ft, err := ParseFieldTag(tag)
		if err != nil {
			return nil, err
		}
		if ft.Skip {
			continue
		}
		if len(field.Names) == 0 {
			if tag != "" {
				return nil, fmt.Errorf("embedded field %s: tagged embedded fields are not supported", exprString(field.Type))
			}
			continue
		}
		if len(field.Names) > 1 && ft.Name != "" {
			return nil, fmt.Errorf("fields %s share the name %q", field.Names[0].Name, ft.Name)
		}
		for _, n := range field.Names {
			if !n.IsExported() {
				continue
			}
			fields = append(fields, &FieldInfo{Name: n.Name, Type: field.Type, Tag: ft})
		}
	}
	return fields, nil
}
