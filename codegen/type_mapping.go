package codegen

import (
	"fmt"
	"go/ast"
	"go/types"
)

var basicDescriptors = map[string]string{
	"bool":    "schema.Bool()",
	"string":  "schema.String()",
	"int":     "schema.Int()",
	"int8":    "schema.Int8()",
	"int16":   "schema.Int16()",
	"int32":   "schema.Int32()",
	"int64":   "schema.Int64()",
	"uint":    "schema.Uint()",
	"uint8":   "schema.Uint8()",
	"byte":    "schema.Uint8()",
	"uint16":  "schema.Uint16()",
	"uint32":  "schema.Uint32()",
	"uint64":  "schema.Uint64()",
	"float32": "schema.Float32()",
	"float64": "schema.Float64()",
	"rune":    "schema.Char()",
}

type qualifiedScalar struct {
	desc string
	// ptr marks scalars whose Go values are pointers.
	ptr bool
}

// qualifiedDescriptors is keyed by import path and type name.
var qualifiedDescriptors = map[[2]string]qualifiedScalar{
	{"time", "Time"}:                             {desc: "schema.Time()"},
	{"github.com/shopspring/decimal", "Decimal"}: {desc: "schema.BigDecimal()"},
	{"math/big", "Int"}:                          {desc: "schema.BigInt()", ptr: true},
	{"github.com/signadot/typecodec/ir", "Node"}: {desc: "schema.JSON()", ptr: true},
	{"github.com/beevik/etree", "Document"}:      {desc: "schema.XML()", ptr: true},
}

// typeMapper turns field type expressions into descriptor expressions.
type typeMapper struct {
	local map[string]*StructInfo
	// imports of the file declaring the struct being mapped.
	imports map[string]string
	// used collects the imports the generated code needs.
	used map[string]string
}

func exprString(e ast.Expr) string {
	return types.ExprString(e)
}

func (m *typeMapper) descriptor(e ast.Expr) (string, error) {
	switch x := e.(type) {
	case *ast.ParenExpr:
		return m.descriptor(x.X)
	case *ast.Ident:
		if d, ok := basicDescriptors[x.Name]; ok {
			return d, nil
		}
		if s, ok := m.local[x.Name]; ok {
			return s.VarName(), nil
		}
		return "", fmt.Errorf("type %s has no descriptor; mark it with %s", x.Name, Directive)
	case *ast.SelectorExpr:
		q, ok, err := m.qualified(x)
		if err != nil {
			return "", err
		}
		if !ok || q.ptr {
			return "", fmt.Errorf("unsupported type %s", exprString(x))
		}
		return q.desc, nil
	case *ast.StarExpr:
		if id, ok := x.X.(*ast.Ident); ok {
			if s, ok := m.local[id.Name]; ok {
				return s.VarName(), nil
			}
		}
		if sel, ok := x.X.(*ast.SelectorExpr); ok {
			q, ok, err := m.qualified(sel)
			if err != nil {
				return "", err
			}
			if ok && q.ptr {
				return q.desc, nil
			}
		}
		elem, err := m.descriptor(x.X)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("schema.PtrOf[%s](%s)", exprString(x.X), elem), nil
	case *ast.ArrayType:
		if x.Len != nil {
			return "", fmt.Errorf("fixed size array %s is not supported; use a slice", exprString(x))
		}
		if id, ok := x.Elt.(*ast.Ident); ok && (id.Name == "byte" || id.Name == "uint8") {
			return "schema.Bytes()", nil
		}
		elem, err := m.descriptor(x.Elt)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("schema.ListOf[%s](%s)", exprString(x), elem), nil
	case *ast.MapType:
		key, err := m.descriptor(x.Key)
		if err != nil {
			return "", err
		}
		if st, ok := x.Value.(*ast.StructType); ok && st.Fields.NumFields() == 0 {
			return fmt.Sprintf("schema.SetOf[%s](%s)", exprString(x), key), nil
		}
		val, err := m.descriptor(x.Value)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("schema.MapOf[%s](%s, %s)", exprString(x), key, val), nil
	}
	return "", fmt.Errorf("unsupported type %s", exprString(e))
}

func (m *typeMapper) qualified(sel *ast.SelectorExpr) (qualifiedScalar, bool, error) {
	var zero qualifiedScalar
	id, ok := sel.X.(*ast.Ident)
	if !ok {
		return zero, false, fmt.Errorf("unsupported type %s", exprString(sel))
	}
	path, ok := m.imports[id.Name]
	if !ok {
		return zero, false, fmt.Errorf("unknown package %s in %s", id.Name, exprString(sel))
	}
	q, ok := qualifiedDescriptors[[2]string{path, sel.Sel.Name}]
	return q, ok, nil
}

// useImports records the packages a Go type expression refers to.
func (m *typeMapper) useImports(e ast.Expr) error {
	var err error
	ast.Inspect(e, func(n ast.Node) bool {
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		id, ok := sel.X.(*ast.Ident)
		if !ok {
			return true
		}
		path, ok := m.imports[id.Name]
		if !ok {
			err = fmt.Errorf("unknown package %s in %s", id.Name, exprString(e))
			return false
		}
		if prev, ok := m.used[id.Name]; ok && prev != path {
			err = fmt.Errorf("import name %s refers to both %s and %s", id.Name, prev, path)
			return false
		}
		m.used[id.Name] = path
		return false
	})
	return err
}
