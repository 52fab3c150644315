package ir

import (
	"cmp"
	"math/big"
	"strings"
)

// typeOrder ranks node types for Compare; unlisted types sort last.
var typeOrder = map[Type]int{
	NullType:   1,
	BoolType:   2,
	NumberType: 3,
	StringType: 4,
	ArrayType:  5,
	ObjectType: 6,
}

func orderOf(t Type) int {
	if o, ok := typeOrder[t]; ok {
		return o
	}
	return len(typeOrder) + 1
}

// Compare orders two nodes, returning -1, 0 or +1. Values of different
// types order null, bool, number, string, array, object. Numbers compare
// by value however they were written; object fields compare in document
// order, so {"a":1,"b":2} and {"b":2,"a":1} differ.
func Compare(a, b *Node) int {
	switch {
	case a == b:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if c := cmp.Compare(orderOf(a.Type), orderOf(b.Type)); c != 0 {
		return c
	}
	switch a.Type {
	case BoolType:
		return cmp.Compare(boolOrd(a.Bool), boolOrd(b.Bool))
	case NumberType:
		return numberCmp(a, b)
	case StringType:
		return strings.Compare(a.String, b.String)
	case ArrayType:
		return seqCmp(a.Values, b.Values, nil, nil)
	case ObjectType:
		return seqCmp(a.Values, b.Values, a.Fields, b.Fields)
	}
	return 0
}

// Equal reports whether a and b are the same JSON value.
func Equal(a, b *Node) bool { return Compare(a, b) == 0 }

func boolOrd(v bool) int {
	if v {
		return 1
	}
	return 0
}

func numberCmp(a, b *Node) int {
	if a.Int64 != nil && b.Int64 != nil {
		return cmp.Compare(*a.Int64, *b.Int64)
	}
	x, xok := new(big.Float).SetPrec(256).SetString(a.NumberText())
	y, yok := new(big.Float).SetPrec(256).SetString(b.NumberText())
	if !xok || !yok {
		return strings.Compare(a.NumberText(), b.NumberText())
	}
	return x.Cmp(y)
}

// seqCmp compares element-wise, keys (when given) before values, and
// then by length.
func seqCmp(av, bv, ak, bk []*Node) int {
	n := min(len(av), len(bv))
	for i := 0; i < n; i++ {
		if ak != nil {
			if c := Compare(ak[i], bk[i]); c != 0 {
				return c
			}
		}
		if c := Compare(av[i], bv[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(av), len(bv))
}
