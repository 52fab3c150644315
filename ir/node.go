package ir

import (
	"maps"
	"math"
	"slices"
	"strconv"
)

// Node is a JSON value. Objects keep their keys in Fields and the
// corresponding values in Values, in insertion order.
//
// Numbers keep the raw text they were parsed from in Number when it is
// known, alongside Int64 (integral values that fit) and Float64.
type Node struct {
	Type   Type
	Fields []*Node
	Values []*Node

	String  string
	Bool    bool
	Number  string
	Float64 *float64
	Int64   *int64
}

func Null() *Node { return &Node{Type: NullType} }

func FromString(v string) *Node { return &Node{Type: StringType, String: v} }

func FromBool(v bool) *Node { return &Node{Type: BoolType, Bool: v} }

func FromInt(v int64) *Node { return &Node{Type: NumberType, Int64: &v} }

func FromFloat(f float64) *Node { return &Node{Type: NumberType, Float64: &f} }

// FromUint keeps values above MaxInt64 exact through Number.
func FromUint(v uint64) *Node {
	if v <= math.MaxInt64 {
		return FromInt(int64(v))
	}
	n := FromFloat(float64(v))
	n.Number = strconv.FormatUint(v, 10)
	return n
}

// FromNumber builds a number node from JSON number text. The text is kept
// verbatim; Int64 and Float64 are filled in when the text fits them.
func FromNumber(text string) *Node {
	res := &Node{Type: NumberType, Number: text}
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		res.Int64 = &i
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		res.Float64 = &f
	}
	return res
}

// NumberText returns the JSON text of a number node.
func (y *Node) NumberText() string {
	switch {
	case y.Number != "":
		return y.Number
	case y.Int64 != nil:
		return strconv.FormatInt(*y.Int64, 10)
	case y.Float64 == nil:
		return "0"
	}
	f := *y.Float64
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Float returns the value of a number node as a float64.
func (y *Node) Float() (float64, bool) {
	switch {
	case y.Type != NumberType:
		return 0, false
	case y.Float64 != nil:
		return *y.Float64, true
	case y.Int64 != nil:
		return float64(*y.Int64), true
	}
	f, err := strconv.ParseFloat(y.Number, 64)
	return f, err == nil
}

type KeyVal struct {
	Key *Node
	Val *Node
}

// FromKeyVals builds an object preserving the order of kvs. Nil keys
// become "" and nil values become null.
func FromKeyVals(kvs []KeyVal) *Node {
	res := &Node{
		Type:   ObjectType,
		Fields: make([]*Node, 0, len(kvs)),
		Values: make([]*Node, 0, len(kvs)),
	}
	for _, kv := range kvs {
		res.Fields = append(res.Fields, orElse(kv.Key, FromString("")))
		res.Values = append(res.Values, orNull(kv.Val))
	}
	return res
}

// FromMap builds an object with keys in sorted order.
func FromMap(m map[string]*Node) *Node {
	kvs := make([]KeyVal, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		kvs = append(kvs, KeyVal{Key: FromString(k), Val: m[k]})
	}
	return FromKeyVals(kvs)
}

func FromSlice(elems []*Node) *Node {
	vals := make([]*Node, len(elems))
	for i, e := range elems {
		vals[i] = orNull(e)
	}
	return &Node{Type: ArrayType, Values: vals}
}

func orElse(n, alt *Node) *Node {
	if n == nil {
		return alt
	}
	return n
}

func orNull(n *Node) *Node {
	if n == nil {
		return Null()
	}
	return n
}

// Get returns the value of field in the object y, or nil.
func Get(y *Node, field string) *Node {
	if y == nil || y.Type != ObjectType {
		return nil
	}
	if i := slices.IndexFunc(y.Fields, func(f *Node) bool { return f.String == field }); i >= 0 {
		return y.Values[i]
	}
	return nil
}

// Keys returns the field names of an object in order.
func (y *Node) Keys() []string {
	res := make([]string, len(y.Fields))
	for i, f := range y.Fields {
		res[i] = f.String
	}
	return res
}

// Clone returns a deep copy of y.
func (y *Node) Clone() *Node {
	if y == nil {
		return nil
	}
	dst := *y
	if y.Float64 != nil {
		f := *y.Float64
		dst.Float64 = &f
	}
	if y.Int64 != nil {
		i := *y.Int64
		dst.Int64 = &i
	}
	dst.Values = cloneAll(y.Values)
	dst.Fields = cloneAll(y.Fields)
	return &dst
}

func cloneAll(ns []*Node) []*Node {
	if ns == nil {
		return nil
	}
	res := make([]*Node, len(ns))
	for i, n := range ns {
		res[i] = n.Clone()
	}
	return res
}
