package schema

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

var (
	ErrSchema = errors.New("schema error")
	ErrShape  = errors.New("shape mismatch")
)

// Type is a static description of the shape of a value. Descriptors are
// built once, usually at package initialization, and are not modified
// after the first codec is resolved for them.
type Type struct {
	Kind Kind
	// Name is the fully qualified name of named types ("example.com/zoo.Cat").
	// Anonymous container descriptors have no name.
	Name   string
	Scalar Scalar
	// Params are the type arguments: the element of sequences and
	// pointers, the key and value of maps. Derived descriptors may leave
	// them empty and inherit them from Super.
	Params   []*Type
	Super    *Type
	Abstract bool
	// Tag is the explicit discriminator value of a polymorphic subtype.
	Tag      string
	Props    []*Property
	Members  []string
	TypeInfo *TypeInfo
	Doc      string

	shape any
	err   error
}

// ID identifies the descriptor for memoization. Named descriptors use
// their name; anonymous ones are identified by kind, parameters and the
// Go type they build.
func (t *Type) ID() string {
	if t.Name != "" {
		return t.Name
	}
	if t.Kind == ScalarKind {
		return t.Scalar.String()
	}
	buf := &strings.Builder{}
	buf.WriteString(t.Kind.String())
	if len(t.Params) > 0 {
		buf.WriteByte('<')
		for i, p := range t.Params {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(p.ID())
		}
		buf.WriteByte('>')
	}
	if g := t.GoType(); g != "" {
		buf.WriteString("@" + g)
	}
	return buf.String()
}

func (t *Type) String() string {
	return t.ID()
}

// GoType names the Go type values of t are built as, when known.
func (t *Type) GoType() string {
	if s, ok := t.shape.(interface{ GoType() string }); ok {
		return s.GoType()
	}
	return ""
}

// Err reports construction problems recorded while building t.
func (t *Type) Err() error {
	return t.err
}

func (t *Type) fail(err error) {
	t.err = multierr.Append(t.err, err)
}

// Named sets the name of the descriptor.
func (t *Type) Named(name string) *Type {
	t.Name = name
	return t
}

// Extends sets the supertype.
func (t *Type) Extends(super *Type) *Type {
	t.Super = super
	return t
}

// WithTag sets the discriminator value used when t is a polymorphic variant.
func (t *Type) WithTag(tag string) *Type {
	t.Tag = tag
	return t
}

// Polymorphic marks t as the root of a polymorphic hierarchy.
func (t *Type) Polymorphic(ti TypeInfo) *Type {
	t.TypeInfo = &ti
	return t
}

// Define appends properties to an object descriptor. Recursive types are
// declared first and defined afterwards.
func (t *Type) Define(props ...*Property) *Type {
	if t.Kind != ObjectKind {
		t.fail(fmt.Errorf("%w: %s: properties on %s descriptor", ErrSchema, t.ID(), t.Kind))
		return t
	}
	obj, _ := t.shape.(ObjectShape)
	for _, p := range props {
		if p.owner != nil && obj != nil {
			if v := obj.New(); v != nil && !p.owner(v) {
				t.fail(fmt.Errorf("%w: %s: property %q belongs to another type", ErrSchema, t.ID(), p.Name))
				continue
			}
		}
		t.Props = append(t.Props, p)
	}
	return t
}

// Prop returns the property with the given declared name.
func (t *Type) Prop(name string) *Property {
	for _, p := range t.Props {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Supers returns t followed by its supertypes, nearest first.
func (t *Type) Supers() []*Type {
	var res []*Type
	seen := map[*Type]bool{}
	for x := t; x != nil && !seen[x]; x = x.Super {
		seen[x] = true
		res = append(res, x)
	}
	return res
}

// IsSubtypeOf reports whether root is t or one of its supertypes.
func (t *Type) IsSubtypeOf(root *Type) bool {
	for _, x := range t.Supers() {
		if x == root {
			return true
		}
	}
	return false
}

// TypeArgs returns the type parameters of t, walking the supertype chain
// when t does not declare them itself. The owner is the descriptor the
// parameters were found on, nil when none declares any.
func (t *Type) TypeArgs() (params []*Type, owner *Type) {
	for _, x := range t.Supers() {
		if len(x.Params) > 0 {
			return x.Params, x
		}
	}
	return nil, nil
}

// Shape returns the Go value shape of t, walking the supertype chain.
func (t *Type) Shape() any {
	for _, x := range t.Supers() {
		if x.shape != nil {
			return x.shape
		}
	}
	return nil
}

// SeqShape returns the sequence shape for array, list, set and
// collection descriptors.
func (t *Type) SeqShape() (SeqShape, bool) {
	s, ok := t.Shape().(SeqShape)
	return s, ok
}

func (t *Type) MapShape() (MapShape, bool) {
	s, ok := t.Shape().(MapShape)
	return s, ok
}

func (t *Type) PtrShape() (PtrShape, bool) {
	s, ok := t.Shape().(PtrShape)
	return s, ok
}

func (t *Type) EnumShape() (EnumShape, bool) {
	s, ok := t.Shape().(EnumShape)
	return s, ok
}

// ObjectShape is not inherited: every object descriptor builds its own
// values.
func (t *Type) ObjectShape() (ObjectShape, bool) {
	s, ok := t.shape.(ObjectShape)
	return s, ok
}

// Root returns the nearest descriptor in t's supertype chain carrying
// polymorphic type information.
func (t *Type) Root() *Type {
	for _, x := range t.Supers() {
		if x.TypeInfo != nil {
			return x
		}
	}
	return nil
}

// ShortName is the last component of a qualified name.
func ShortName(name string) string {
	if i := strings.LastIndexAny(name, "./"); i >= 0 {
		return name[i+1:]
	}
	return name
}
