package schema

import (
	"fmt"

	"github.com/signadot/typecodec/ir"
)

// Include overrides the null-elision policy for one property.
type Include int

const (
	// IncludeDefault follows the configured null-elision policy.
	IncludeDefault Include = iota
	// IncludeAlways writes the property even when null.
	IncludeAlways
	// IncludeNonNull omits the property when null.
	IncludeNonNull
)

func (i Include) String() string {
	switch i {
	case IncludeAlways:
		return "always"
	case IncludeNonNull:
		return "nonnull"
	}
	return "default"
}

func ParseInclude(s string) (Include, error) {
	switch s {
	case "", "default":
		return IncludeDefault, nil
	case "always":
		return IncludeAlways, nil
	case "nonnull", "non_null":
		return IncludeNonNull, nil
	}
	return 0, fmt.Errorf("%w: unknown include policy %q", ErrSchema, s)
}

// Property is one serializable property of an object descriptor.
type Property struct {
	Name string
	// JSONName renames the property on the wire. Decoding falls back to
	// Name when the renamed key is absent.
	JSONName string
	Type     *Type
	// Default is used when the property is missing or null on decode.
	Default    any
	HasDefault bool
	// DefaultJSON is a default in wire form. It is checked when the codec
	// is built and decoded afresh for every use.
	DefaultJSON *ir.Node
	// Required properties must be present and non-null.
	Required bool
	Include  Include

	get   func(obj any) (any, error)
	set   func(obj, v any) error
	owner func(obj any) bool
}

// Key is the JSON key written for the property.
func (p *Property) Key() string {
	if p.JSONName != "" {
		return p.JSONName
	}
	return p.Name
}

func (p *Property) Get(obj any) (any, error) {
	if p.get == nil {
		return nil, fmt.Errorf("%w: property %q has no getter", ErrSchema, p.Name)
	}
	return p.get(obj)
}

func (p *Property) Set(obj, v any) error {
	if p.set == nil {
		return nil
	}
	return p.set(obj, v)
}

// AppliesTo reports whether the property can read values of obj, such as
// whether an inherited property fits a subtype's Go type.
func (p *Property) AppliesTo(obj any) bool {
	return p.owner == nil || p.owner(obj)
}

// ReadOnly reports whether decoding skips the property.
func (p *Property) ReadOnly() bool {
	return p.set == nil
}

type PropOption func(*Property)

func Rename(jsonName string) PropOption {
	return func(p *Property) { p.JSONName = jsonName }
}

// Default sets the value used when the property is absent or null. Each
// decoded object gets its own copy of v, made through the property codec.
func Default(v any) PropOption {
	return func(p *Property) {
		p.Default = v
		p.HasDefault = true
	}
}

func DefaultJSON(n *ir.Node) PropOption {
	return func(p *Property) { p.DefaultJSON = n }
}

func Required() PropOption {
	return func(p *Property) { p.Required = true }
}

func WithInclude(i Include) PropOption {
	return func(p *Property) { p.Include = i }
}

// Prop declares a property of the struct T with Go type F. A nil set
// makes the property read-only.
func Prop[T, F any](name string, typ *Type, get func(*T) F, set func(*T, F), opts ...PropOption) *Property {
	p := &Property{Name: name, Type: typ}
	p.get = func(obj any) (any, error) {
		switch x := obj.(type) {
		case *T:
			if x != nil {
				return get(x), nil
			}
		case T:
			return get(&x), nil
		}
		return nil, fmt.Errorf("%w: property %q does not apply to %T", ErrShape, name, obj)
	}
	if set != nil {
		p.set = func(obj, v any) error {
			x, ok := obj.(*T)
			if !ok || x == nil {
				return fmt.Errorf("%w: property %q does not apply to %T", ErrShape, name, obj)
			}
			f, err := As[F](v)
			if err != nil {
				return err
			}
			set(x, f)
			return nil
		}
	}
	p.owner = func(obj any) bool {
		_, ok := obj.(*T)
		return ok
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}
