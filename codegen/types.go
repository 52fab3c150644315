package codegen

import "go/ast"

// PackageInfo holds information about a Go package.
type PackageInfo struct {
	// Path is the import path.
	Path string
	// Dir is the directory containing the package.
	Dir   string
	Name  string
	Files []string
}

// StructInfo is a struct selected for generation.
type StructInfo struct {
	// Name is the Go type name.
	Name string
	// TypeName is the descriptor name, <package>.<Name> unless the
	// directive sets name=.
	TypeName string
	// Tag is the discriminator written when the type is a polymorphic
	// variant.
	Tag      string
	FilePath string
	Fields   []*FieldInfo
	// Imports maps the import names of the declaring file to their paths.
	Imports map[string]string
}

// VarName is the generated descriptor variable.
func (s *StructInfo) VarName() string {
	return s.Name + "Type"
}

// FieldInfo is one exported struct field.
type FieldInfo struct {
	Name string
	Type ast.Expr
	Tag  FieldTag
}

// Key is the declared property name.
func (f *FieldInfo) Key() string {
	if f.Tag.Name != "" {
		return f.Tag.Name
	}
	return lowerFirst(f.Name)
}

// Config holds configuration for code generation.
type Config struct {
	// Dir is the directory to scan (default: current directory).
	Dir       string
	Recursive bool
	// OutputFile overrides <package>_codec_gen.go. It only applies when a
	// single package is processed.
	OutputFile string
	// Check type-checks each package before generating.
	Check bool
}
