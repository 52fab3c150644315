package schema

import (
	"fmt"
	"slices"
)

// SeqShape moves elements in and out of a Go sequence value.
type SeqShape interface {
	// Elems returns the elements of v; ok is false when v is nil.
	Elems(v any) (elems []any, ok bool, err error)
	Build(elems []any) (any, error)
	GoType() string
}

type Entry struct {
	Key, Value any
}

// MapShape moves entries in and out of a Go map value.
type MapShape interface {
	Entries(v any) (entries []Entry, ok bool, err error)
	Build(entries []Entry) (any, error)
	GoType() string
}

// PtrShape wraps and unwraps nullable values.
type PtrShape interface {
	Deref(v any) (elem any, ok bool, err error)
	Ref(elem any) (any, error)
	GoType() string
}

// EnumShape maps enum values to member names.
type EnumShape interface {
	NameOf(v any) (string, bool)
	ValueOf(name string) (any, bool)
}

// ObjectShape creates object values and recognizes instances.
type ObjectShape interface {
	// New returns a pointer to a fresh value, or nil for abstract types.
	New() any
	// Instance returns v as a pointer. ok is false when v is not an
	// instance; a nil pointer instance gives (nil, true).
	Instance(v any) (ptr any, ok bool)
}

// As converts a decoded value to T. A nil value gives the zero T and a
// pointer to T is dereferenced.
func As[T any](v any) (T, error) {
	var zero T
	switch x := v.(type) {
	case nil:
		return zero, nil
	case T:
		return x, nil
	case *T:
		if x == nil {
			return zero, nil
		}
		return *x, nil
	}
	return zero, fmt.Errorf("%w: cannot use %T as %T", ErrShape, v, zero)
}

func goType[T any]() string {
	var zero T
	return fmt.Sprintf("%T", zero)
}

type sliceShape[S ~[]E, E any] struct{}

func (sliceShape[S, E]) Elems(v any) ([]any, bool, error) {
	var s S
	switch x := v.(type) {
	case nil:
		return nil, false, nil
	case S:
		s = x
	case *S:
		if x == nil {
			return nil, false, nil
		}
		s = *x
	default:
		return nil, false, fmt.Errorf("%w: cannot use %T as %s", ErrShape, v, goType[S]())
	}
	if s == nil {
		return nil, false, nil
	}
	res := make([]any, len(s))
	for i, e := range s {
		res[i] = e
	}
	return res, true, nil
}

func (sliceShape[S, E]) Build(elems []any) (any, error) {
	s := make(S, len(elems))
	for i, e := range elems {
		x, err := As[E](e)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		s[i] = x
	}
	return s, nil
}

func (sliceShape[S, E]) GoType() string { return goType[S]() }

type setShape[S ~map[E]struct{}, E comparable] struct{}

func (setShape[S, E]) Elems(v any) ([]any, bool, error) {
	var s S
	switch x := v.(type) {
	case nil:
		return nil, false, nil
	case S:
		s = x
	case *S:
		if x == nil {
			return nil, false, nil
		}
		s = *x
	default:
		return nil, false, fmt.Errorf("%w: cannot use %T as %s", ErrShape, v, goType[S]())
	}
	if s == nil {
		return nil, false, nil
	}
	res := make([]any, 0, len(s))
	for e := range s {
		res = append(res, e)
	}
	return res, true, nil
}

func (setShape[S, E]) Build(elems []any) (any, error) {
	s := make(S, len(elems))
	for i, e := range elems {
		x, err := As[E](e)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		s[x] = struct{}{}
	}
	return s, nil
}

func (setShape[S, E]) GoType() string { return goType[S]() }

type mapShape[M ~map[K]V, K comparable, V any] struct{}

func (mapShape[M, K, V]) Entries(v any) ([]Entry, bool, error) {
	var m M
	switch x := v.(type) {
	case nil:
		return nil, false, nil
	case M:
		m = x
	case *M:
		if x == nil {
			return nil, false, nil
		}
		m = *x
	default:
		return nil, false, fmt.Errorf("%w: cannot use %T as %s", ErrShape, v, goType[M]())
	}
	if m == nil {
		return nil, false, nil
	}
	res := make([]Entry, 0, len(m))
	for k, e := range m {
		res = append(res, Entry{Key: k, Value: e})
	}
	return res, true, nil
}

func (mapShape[M, K, V]) Build(entries []Entry) (res any, err error) {
	// dynamic maps keyed by any panic on uncomparable keys
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrShape, r)
		}
	}()
	m := make(M, len(entries))
	for _, e := range entries {
		k, err := As[K](e.Key)
		if err != nil {
			return nil, err
		}
		v, err := As[V](e.Value)
		if err != nil {
			return nil, err
		}
		m[k] = v
	}
	return m, nil
}

func (mapShape[M, K, V]) GoType() string { return goType[M]() }

type ptrShape[E any] struct{}

func (ptrShape[E]) Deref(v any) (any, bool, error) {
	switch x := v.(type) {
	case nil:
		return nil, false, nil
	case *E:
		if x == nil {
			return nil, false, nil
		}
		return *x, true, nil
	case E:
		return x, true, nil
	}
	return nil, false, fmt.Errorf("%w: cannot use %T as %s", ErrShape, v, goType[*E]())
}

func (ptrShape[E]) Ref(elem any) (any, error) {
	if elem == nil {
		return nil, nil
	}
	x, err := As[E](elem)
	if err != nil {
		return nil, err
	}
	return &x, nil
}

func (ptrShape[E]) GoType() string { return goType[*E]() }

type Member[E comparable] struct {
	Name  string
	Value E
}

type enumShape[E comparable] struct {
	members []Member[E]
}

func (s *enumShape[E]) NameOf(v any) (string, bool) {
	x, err := As[E](v)
	if err != nil {
		return "", false
	}
	i := slices.IndexFunc(s.members, func(m Member[E]) bool { return m.Value == x })
	if i < 0 {
		return "", false
	}
	return s.members[i].Name, true
}

func (s *enumShape[E]) ValueOf(name string) (any, bool) {
	i := slices.IndexFunc(s.members, func(m Member[E]) bool { return m.Name == name })
	if i < 0 {
		return nil, false
	}
	return s.members[i].Value, true
}

type objectShape[T any] struct{}

func (objectShape[T]) New() any { return new(T) }

func (objectShape[T]) Instance(v any) (any, bool) {
	switch x := v.(type) {
	case *T:
		if x == nil {
			return nil, true
		}
		return x, true
	case T:
		return &x, true
	}
	return nil, false
}

// interfaceShape recognizes any value implementing I.
type interfaceShape[I any] struct{}

func (interfaceShape[I]) New() any { return nil }

func (interfaceShape[I]) Instance(v any) (any, bool) {
	if v == nil {
		return nil, false
	}
	_, ok := v.(I)
	return v, ok
}
