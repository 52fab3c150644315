package schema

import (
	"fmt"

	"github.com/signadot/typecodec/ir"
)

// IDKind selects how a polymorphic subtype is identified on the wire.
type IDKind int

const (
	// IDNone disables polymorphic dispatch; values decode as the static type.
	IDNone IDKind = iota
	// IDClass uses the fully qualified type name.
	IDClass
	// IDMinimalClass uses the short type name.
	IDMinimalClass
	// IDName uses the subtype's tag, or its short name when it has none.
	IDName
	// IDCustom asks a TagResolver.
	IDCustom
)

var idKindNames = []string{
	IDNone:         "none",
	IDClass:        "class",
	IDMinimalClass: "minimal_class",
	IDName:         "name",
	IDCustom:       "custom",
}

func (k IDKind) String() string {
	if k >= 0 && int(k) < len(idKindNames) {
		return idKindNames[k]
	}
	return fmt.Sprintf("IDKind(%d)", int(k))
}

func ParseIDKind(s string) (IDKind, error) {
	for i, n := range idKindNames {
		if n == s {
			return IDKind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown discriminator kind %q", ErrSchema, s)
}

// Inclusion selects where the discriminator is placed.
type Inclusion int

const (
	// AsProperty writes the discriminator as the first object property.
	AsProperty Inclusion = iota
	// AsExistingProperty expects the subtype to carry the property itself.
	AsExistingProperty
	// AsWrapperObject wraps the value: {"<tag>": {...}}.
	AsWrapperObject
)

func (a Inclusion) String() string {
	switch a {
	case AsExistingProperty:
		return "existing_property"
	case AsWrapperObject:
		return "wrapper_object"
	}
	return "property"
}

func ParseInclusion(s string) (Inclusion, error) {
	switch s {
	case "", "property":
		return AsProperty, nil
	case "existing_property":
		return AsExistingProperty, nil
	case "wrapper_object":
		return AsWrapperObject, nil
	}
	return 0, fmt.Errorf("%w: unknown discriminator placement %q", ErrSchema, s)
}

// DefaultProperty is the discriminator key used when TypeInfo.Property is
// empty. IDNone has none.
func DefaultProperty(k IDKind) string {
	switch k {
	case IDClass:
		return "@class"
	case IDMinimalClass:
		return "@c"
	case IDName, IDCustom:
		return "@type"
	}
	return ""
}

// TagResolver supplies discriminator values for IDCustom hierarchies.
type TagResolver interface {
	// TagOf returns the discriminator written for values of t.
	TagOf(t *Type) (string, error)
	// TagFrom derives the discriminator of an encoded object that does not
	// carry the discriminator property. ok is false when it cannot tell.
	TagFrom(obj *ir.Node) (tag string, ok bool, err error)
}

// TypeInfo configures a polymorphic hierarchy root.
type TypeInfo struct {
	Use      IDKind
	Include  Inclusion
	Property string
	// DefaultImpl decodes objects that carry no discriminator.
	DefaultImpl *Type
	// Subtypes, when set, is the closed set of variants. Otherwise every
	// registered descendant of the root is a variant.
	Subtypes []*Type
	Resolver TagResolver
}

func (ti *TypeInfo) PropertyName() string {
	if ti.Use == IDNone {
		return ""
	}
	if ti.Property != "" {
		return ti.Property
	}
	return DefaultProperty(ti.Use)
}

// TagOf computes the discriminator value of the subtype t.
func (ti *TypeInfo) TagOf(t *Type) (string, error) {
	switch ti.Use {
	case IDClass:
		return t.Name, nil
	case IDMinimalClass:
		return ShortName(t.Name), nil
	case IDName:
		if t.Tag != "" {
			return t.Tag, nil
		}
		return ShortName(t.Name), nil
	case IDCustom:
		if ti.Resolver != nil {
			return ti.Resolver.TagOf(t)
		}
		if t.Tag != "" {
			return t.Tag, nil
		}
		return "", fmt.Errorf("%w: %s: custom discriminator without resolver or tag", ErrSchema, t.ID())
	}
	return "", fmt.Errorf("%w: %s: no discriminator for %s", ErrSchema, t.ID(), ti.Use)
}
