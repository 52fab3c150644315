package ir

import (
	"fmt"
	"maps"
	"slices"
)

// FromAny converts generic Go data, as produced by YAML or expression
// evaluation, into a node. Map keys are sorted.
func FromAny(v any) (*Node, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case *Node:
		return x, nil
	case bool:
		return FromBool(x), nil
	case string:
		return FromString(x), nil
	case int:
		return FromInt(int64(x)), nil
	case int8:
		return FromInt(int64(x)), nil
	case int16:
		return FromInt(int64(x)), nil
	case int32:
		return FromInt(int64(x)), nil
	case int64:
		return FromInt(x), nil
	case uint:
		return FromUint(uint64(x)), nil
	case uint8:
		return FromUint(uint64(x)), nil
	case uint16:
		return FromUint(uint64(x)), nil
	case uint32:
		return FromUint(uint64(x)), nil
	case uint64:
		return FromUint(x), nil
	case float32:
		return FromFloat(float64(x)), nil
	case float64:
		return FromFloat(x), nil
	case []any:
		vals := make([]*Node, len(x))
		for i, e := range x {
			n, err := FromAny(e)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			vals[i] = n
		}
		return FromSlice(vals), nil
	case map[string]any:
		keys := slices.Sorted(maps.Keys(x))
		kvs := make([]KeyVal, len(keys))
		for i, k := range keys {
			n, err := FromAny(x[k])
			if err != nil {
				return nil, fmt.Errorf(".%s: %w", k, err)
			}
			kvs[i] = KeyVal{Key: FromString(k), Val: n}
		}
		return FromKeyVals(kvs), nil
	case map[any]any:
		m := make(map[string]any, len(x))
		for k, e := range x {
			m[fmt.Sprint(k)] = e
		}
		return FromAny(m)
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupported, v)
}

// ToAny converts a node to generic Go data: nil, bool, int64 or float64,
// string, []any and map[string]any.
func ToAny(n *Node) any {
	if n == nil {
		return nil
	}
	switch n.Type {
	case BoolType:
		return n.Bool
	case NumberType:
		if n.Int64 != nil {
			return *n.Int64
		}
		f, _ := n.Float()
		return f
	case StringType:
		return n.String
	case ArrayType:
		res := make([]any, len(n.Values))
		for i, v := range n.Values {
			res[i] = ToAny(v)
		}
		return res
	case ObjectType:
		res := make(map[string]any, len(n.Fields))
		for i, f := range n.Fields {
			res[f.String] = ToAny(n.Values[i])
		}
		return res
	}
	return nil
}
