package schema

import (
	"fmt"
)

var scalarTypes = func() map[Scalar]*Type {
	res := make(map[Scalar]*Type, len(scalarNames))
	for _, s := range Scalars() {
		res[s] = &Type{Kind: ScalarKind, Scalar: s}
	}
	return res
}()

// ScalarType returns the shared descriptor of a scalar.
func ScalarType(s Scalar) *Type {
	return scalarTypes[s]
}

// ScalarByName looks up a scalar descriptor by its name ("int32").
func ScalarByName(name string) (*Type, bool) {
	for s, t := range scalarTypes {
		if s.String() == name {
			return t, true
		}
	}
	return nil, false
}

func Bool() *Type       { return scalarTypes[ScalarBool] }
func Int8() *Type       { return scalarTypes[ScalarInt8] }
func Int16() *Type      { return scalarTypes[ScalarInt16] }
func Int32() *Type      { return scalarTypes[ScalarInt32] }
func Int64() *Type      { return scalarTypes[ScalarInt64] }
func Int() *Type        { return scalarTypes[ScalarInt] }
func Uint8() *Type      { return scalarTypes[ScalarUint8] }
func Uint16() *Type     { return scalarTypes[ScalarUint16] }
func Uint32() *Type     { return scalarTypes[ScalarUint32] }
func Uint64() *Type     { return scalarTypes[ScalarUint64] }
func Uint() *Type       { return scalarTypes[ScalarUint] }
func Float32() *Type    { return scalarTypes[ScalarFloat32] }
func Float64() *Type    { return scalarTypes[ScalarFloat64] }
func Char() *Type       { return scalarTypes[ScalarChar] }
func String() *Type     { return scalarTypes[ScalarString] }
func BigDecimal() *Type { return scalarTypes[ScalarBigDecimal] }
func BigInt() *Type     { return scalarTypes[ScalarBigInt] }
func Time() *Type       { return scalarTypes[ScalarTime] }
func JSON() *Type       { return scalarTypes[ScalarJSON] }
func XML() *Type        { return scalarTypes[ScalarXML] }
func Bytes() *Type      { return scalarTypes[ScalarBytes] }

func params(ps ...*Type) []*Type {
	for _, p := range ps {
		if p == nil {
			return nil
		}
	}
	return ps
}

// ListOf describes an ordered sequence decoded into S. A nil elem leaves
// the descriptor unparameterized; its parameters then come from Super.
func ListOf[S ~[]E, E any](elem *Type) *Type {
	return &Type{Kind: ListKind, Params: params(elem), shape: sliceShape[S, E]{}}
}

// CollectionOf is ListOf for values declared as general collections.
func CollectionOf[S ~[]E, E any](elem *Type) *Type {
	return &Type{Kind: CollectionKind, Params: params(elem), shape: sliceShape[S, E]{}}
}

// ArrayOf describes a sequence sized exactly from its encoded length.
// Arrays of uint8 use the byte encoding.
func ArrayOf[S ~[]E, E any](elem *Type) *Type {
	return &Type{Kind: ArrayKind, Params: params(elem), shape: sliceShape[S, E]{}}
}

// SetOf describes a set held as a map to empty structs.
func SetOf[S ~map[E]struct{}, E comparable](elem *Type) *Type {
	return &Type{Kind: SetKind, Params: params(elem), shape: setShape[S, E]{}}
}

func MapOf[M ~map[K]V, K comparable, V any](key, value *Type) *Type {
	return &Type{Kind: MapKind, Params: params(key, value), shape: mapShape[M, K, V]{}}
}

// PtrOf describes a nullable *E.
func PtrOf[E any](elem *Type) *Type {
	return &Type{Kind: PointerKind, Params: params(elem), shape: ptrShape[E]{}}
}

// Derive describes a named type whose shape and parameters are those of
// super.
func Derive(name string, super *Type) *Type {
	return &Type{Kind: super.Kind, Name: name, Super: super, Scalar: super.Scalar}
}

func M[E comparable](name string, value E) Member[E] {
	return Member[E]{Name: name, Value: value}
}

// EnumOf describes an enum whose members encode as their names.
func EnumOf[E comparable](name string, members ...Member[E]) *Type {
	t := &Type{Kind: EnumKind, Name: name, shape: &enumShape[E]{members: members}}
	seen := map[string]bool{}
	for _, m := range members {
		if seen[m.Name] {
			t.fail(fmt.Errorf("%w: %s: duplicate enum member %q", ErrSchema, name, m.Name))
		}
		seen[m.Name] = true
		t.Members = append(t.Members, m.Name)
	}
	return t
}

// Enum describes an enum of plain string values.
func Enum(name string, members ...string) *Type {
	ms := make([]Member[string], len(members))
	for i, m := range members {
		ms[i] = Member[string]{Name: m, Value: m}
	}
	return EnumOf(name, ms...)
}

// Object describes a struct type T. Values decode as *T.
func Object[T any](name string, props ...*Property) *Type {
	t := &Type{Kind: ObjectKind, Name: name, shape: objectShape[T]{}}
	return t.Define(props...)
}

// Interface describes an abstract root implemented by the Go interface I.
func Interface[I any](name string) *Type {
	return &Type{Kind: ObjectKind, Name: name, Abstract: true, shape: interfaceShape[I]{}}
}

// Abstract describes an abstract root with no Go type of its own.
func Abstract(name string, props ...*Property) *Type {
	t := &Type{Kind: ObjectKind, Name: name, Abstract: true}
	return t.Define(props...)
}
