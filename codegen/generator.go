package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"sort"
	"strconv"

	"github.com/signadot/typecodec/schema"
)

const (
	schemaImport = "github.com/signadot/typecodec/schema"
	parseImport  = "github.com/signadot/typecodec/parse"
)

// GenerateCode renders the descriptor declarations for structs, all
// declared in package pkgName.
func GenerateCode(pkgName string, structs []*StructInfo) ([]byte, error) {
	local := make(map[string]*StructInfo, len(structs))
	names := make(map[string]string, len(structs))
	for _, s := range structs {
		if _, ok := local[s.Name]; ok {
			return nil, fmt.Errorf("struct %s declared twice", s.Name)
		}
		if prev, ok := names[s.TypeName]; ok {
			return nil, fmt.Errorf("structs %s and %s share descriptor name %q", prev, s.Name, s.TypeName)
		}
		local[s.Name] = s
		names[s.TypeName] = s.Name
	}
	used := map[string]string{"schema": schemaImport}

	body := bytes.NewBuffer(nil)
	fmt.Fprintf(body, "var (\n")
	for _, s := range structs {
		fmt.Fprintf(body, "\t%s = schema.Object[%s](%s)\n", s.VarName(), s.Name, strconv.Quote(s.TypeName))
	}
	fmt.Fprintf(body, ")\n\n")

	fmt.Fprintf(body, "func init() {\n")
	for _, s := range structs {
		m := &typeMapper{local: local, imports: s.Imports, used: used}
		if s.Tag != "" {
			fmt.Fprintf(body, "\t%s.WithTag(%s)\n", s.VarName(), strconv.Quote(s.Tag))
		}
		fmt.Fprintf(body, "\t%s.Define(\n", s.VarName())
		keys := map[string]bool{}
		for _, f := range s.Fields {
			if keys[f.Key()] {
				return nil, fmt.Errorf("%s.%s: duplicate property %q", s.Name, f.Name, f.Key())
			}
			keys[f.Key()] = true
			prop, err := m.property(s, f)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", s.Name, f.Name, err)
			}
			fmt.Fprintf(body, "\t\t%s,\n", prop)
		}
		fmt.Fprintf(body, "\t)\n")
	}
	fmt.Fprintf(body, "}\n\n")

	fmt.Fprintf(body, "// RegisterCodecTypes adds the descriptors declared in this file to reg.\n")
	fmt.Fprintf(body, "func RegisterCodecTypes(reg *schema.Registry) error {\n\treturn reg.Register(\n")
	for _, s := range structs {
		fmt.Fprintf(body, "\t\t%s,\n", s.VarName())
	}
	fmt.Fprintf(body, "\t)\n}\n")

	out := bytes.NewBuffer(nil)
	fmt.Fprintf(out, "// Code generated by tcodec-gen. DO NOT EDIT.\n\npackage %s\n\nimport (\n", pkgName)
	importNames := make([]string, 0, len(used))
	for name := range used {
		importNames = append(importNames, name)
	}
	sort.Slice(importNames, func(i, j int) bool { return used[importNames[i]] < used[importNames[j]] })
	for _, name := range importNames {
		path := used[name]
		if importName(path) == name {
			fmt.Fprintf(out, "\t%s\n", strconv.Quote(path))
		} else {
			fmt.Fprintf(out, "\t%s %s\n", name, strconv.Quote(path))
		}
	}
	fmt.Fprintf(out, ")\n\n")
	out.Write(body.Bytes())

	src, err := format.Source(out.Bytes())
	if err != nil {
		return nil, fmt.Errorf("formatting generated code: %w\n%s", err, out.Bytes())
	}
	return src, nil
}

func (m *typeMapper) property(s *StructInfo, f *FieldInfo) (string, error) {
	desc, err := m.descriptor(f.Type)
	if err != nil {
		return "", err
	}
	if err := m.useImports(f.Type); err != nil {
		return "", err
	}
	goType := exprString(f.Type)
	buf := bytes.NewBuffer(nil)
	fmt.Fprintf(buf, "schema.Prop(%s, %s,\n", strconv.Quote(f.Key()), desc)
	fmt.Fprintf(buf, "func(obj *%s) %s { return obj.%s },\n", s.Name, goType, f.Name)
	fmt.Fprintf(buf, "func(obj *%s, val %s) { obj.%s = val }", s.Name, goType, f.Name)
	if f.Tag.Required {
		fmt.Fprintf(buf, ",\nschema.Required()")
	}
	switch f.Tag.Include {
	case schema.IncludeAlways:
		fmt.Fprintf(buf, ",\nschema.WithInclude(schema.IncludeAlways)")
	case schema.IncludeNonNull:
		fmt.Fprintf(buf, ",\nschema.WithInclude(schema.IncludeNonNull)")
	}
	if f.Tag.Default != "" {
		m.used["parse"] = parseImport
		fmt.Fprintf(buf, ",\nschema.DefaultJSON(parse.MustParse(%s))", strconv.Quote(f.Tag.Default))
	}
	buf.WriteString(")")
	return buf.String(), nil
}
