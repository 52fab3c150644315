package schema

import "slices"

// Record is the value of an object descriptor that has no Go struct,
// such as descriptors loaded from a file. Fields keep assignment order.
type Record struct {
	Type   *Type
	keys   []string
	values map[string]any
}

func NewRecord(t *Type) *Record {
	return &Record{Type: t, values: map[string]any{}}
}

func (r *Record) Get(name string) any {
	return r.values[name]
}

func (r *Record) Lookup(name string) (any, bool) {
	v, ok := r.values[name]
	return v, ok
}

func (r *Record) Set(name string, v any) {
	if _, ok := r.values[name]; !ok {
		r.keys = append(r.keys, name)
	}
	r.values[name] = v
}

func (r *Record) Keys() []string {
	return slices.Clone(r.keys)
}

type recordShape struct {
	t *Type
}

func (s recordShape) New() any {
	return NewRecord(s.t)
}

func (s recordShape) Instance(v any) (any, bool) {
	r, ok := v.(*Record)
	if !ok {
		return nil, false
	}
	if r == nil {
		return nil, true
	}
	return r, r.Type == s.t
}

// RecordObject describes an object whose values are *Record.
func RecordObject(name string, props ...*Property) *Type {
	t := &Type{Kind: ObjectKind, Name: name}
	t.shape = recordShape{t: t}
	return t.Define(props...)
}

// RecordProp declares a property of a record object.
func RecordProp(name string, typ *Type, opts ...PropOption) *Property {
	p := &Property{Name: name, Type: typ}
	p.get = func(obj any) (any, error) {
		r, ok := obj.(*Record)
		if !ok || r == nil {
			return nil, ErrShape
		}
		return r.Get(name), nil
	}
	p.set = func(obj, v any) error {
		r, ok := obj.(*Record)
		if !ok || r == nil {
			return ErrShape
		}
		r.Set(name, v)
		return nil
	}
	p.owner = func(obj any) bool {
		_, ok := obj.(*Record)
		return ok
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Dynamic container descriptors build []any and map values.
func DynamicList(elem *Type) *Type       { return ListOf[[]any](elem) }
func DynamicCollection(elem *Type) *Type { return CollectionOf[[]any](elem) }
func DynamicArray(elem *Type) *Type      { return ArrayOf[[]any](elem) }

// DynamicSet holds set elements in a slice; the set codec removes
// duplicates.
func DynamicSet(elem *Type) *Type {
	return &Type{Kind: SetKind, Params: params(elem), shape: sliceShape[[]any, any]{}}
}

// DynamicMap builds map[string]any for string keys and map[any]any
// otherwise.
func DynamicMap(key, value *Type) *Type {
	if key != nil && key.Kind == ScalarKind && key.Scalar == ScalarString {
		return MapOf[map[string]any](key, value)
	}
	return MapOf[map[any]any](key, value)
}
