package ir

import (
	"testing"
)

func obj(kvs ...any) *Node {
	res := make([]KeyVal, 0, len(kvs)/2)
	for i := 0; i+1 < len(kvs); i += 2 {
		res = append(res, KeyVal{Key: FromString(kvs[i].(string)), Val: kvs[i+1].(*Node)})
	}
	return FromKeyVals(res)
}

func arr(vs ...*Node) *Node { return FromSlice(vs) }

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b *Node
		want int
	}{
		{"null before false", Null(), FromBool(false), -1},
		{"true before zero", FromBool(true), FromInt(0), -1},
		{"number before empty string", FromInt(99), FromString(""), -1},
		{"string before empty array", FromString("z"), arr(), -1},
		{"array before empty object", arr(FromInt(1)), obj(), -1},
		{"nil before null", nil, Null(), -1},

		{"false before true", FromBool(false), FromBool(true), -1},
		{"same bool", FromBool(true), FromBool(true), 0},

		{"int equals float", FromInt(1), FromFloat(1.0), 0},
		{"exponent text", FromInt(10), FromNumber("1e1"), 0},
		{"trailing zeros", FromNumber("2.50"), FromFloat(2.5), 0},
		{"ints", FromInt(-7), FromInt(3), -1},
		{"floats", FromFloat(0.25), FromFloat(0.5), -1},
		{"beyond int64", FromNumber("123456789012345678901"), FromNumber("123456789012345678902"), -1},
		{"negative mixed", FromInt(-3), FromFloat(-2.5), -1},

		{"strings", FromString("apple"), FromString("banana"), -1},

		{"empty arrays", arr(), arr(), 0},
		{"prefix array", arr(FromInt(1)), arr(FromInt(1), FromInt(0)), -1},
		{"array elements", arr(FromString("a"), FromInt(2)), arr(FromString("a"), FromInt(3)), -1},

		{"empty objects", obj(), obj(), 0},
		{"prefix object", obj("a", Null()), obj("a", Null(), "b", Null()), -1},
		{"object keys", obj("a", FromInt(5)), obj("b", FromInt(1)), -1},
		{"object values", obj("a", FromInt(1)), obj("a", FromInt(2)), -1},
		{"key order matters", obj("a", FromInt(1), "b", FromInt(2)), obj("b", FromInt(2), "a", FromInt(1)), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compare(tt.a, tt.b); got != tt.want {
				t.Errorf("Compare(a, b) = %d, want %d", got, tt.want)
			}
			if got := Compare(tt.b, tt.a); got != -tt.want {
				t.Errorf("Compare(b, a) = %d, want %d", got, -tt.want)
			}
			if Equal(tt.a, tt.b) != (tt.want == 0) {
				t.Errorf("Equal disagrees with Compare")
			}
		})
	}
}

func TestNumberText(t *testing.T) {
	tests := []struct {
		node *Node
		want string
	}{
		{FromInt(-42), "-42"},
		{FromFloat(2.5), "2.5"},
		{FromFloat(3), "3"},
		{FromFloat(1e300), "1e+300"},
		{FromNumber("1.000"), "1.000"},
		{FromUint(18446744073709551615), "18446744073709551615"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.node.NumberText(); got != tt.want {
				t.Errorf("NumberText() = %q, want %q", got, tt.want)
			}
		})
	}
}
