package schema

import "fmt"

// Kind classifies a type descriptor.
type Kind int

const (
	ScalarKind Kind = iota
	ArrayKind
	ListKind
	SetKind
	CollectionKind
	MapKind
	EnumKind
	ObjectKind
	PointerKind
)

var kindNames = []string{
	ScalarKind:     "scalar",
	ArrayKind:      "array",
	ListKind:       "list",
	SetKind:        "set",
	CollectionKind: "collection",
	MapKind:        "map",
	EnumKind:       "enum",
	ObjectKind:     "object",
	PointerKind:    "ptr",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func ParseKind(s string) (Kind, error) {
	for i, n := range kindNames {
		if n == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown kind %q", ErrSchema, s)
}

// IsSequence reports whether values of the kind are encoded as JSON arrays.
func (k Kind) IsSequence() bool {
	switch k {
	case ArrayKind, ListKind, SetKind, CollectionKind:
		return true
	}
	return false
}

// Arity is the number of type parameters a kind takes.
func (k Kind) Arity() int {
	switch k {
	case ArrayKind, ListKind, SetKind, CollectionKind, PointerKind:
		return 1
	case MapKind:
		return 2
	}
	return 0
}

// Scalar identifies an entry of the scalar codec table.
type Scalar int

const (
	NoScalar Scalar = iota
	ScalarBool
	ScalarInt8
	ScalarInt16
	ScalarInt32
	ScalarInt64
	ScalarInt
	ScalarUint8
	ScalarUint16
	ScalarUint32
	ScalarUint64
	ScalarUint
	ScalarFloat32
	ScalarFloat64
	ScalarChar
	ScalarString
	ScalarBigDecimal
	ScalarBigInt
	ScalarTime
	ScalarJSON
	ScalarXML
	ScalarBytes
)

var scalarNames = []string{
	NoScalar:         "",
	ScalarBool:       "bool",
	ScalarInt8:       "int8",
	ScalarInt16:      "int16",
	ScalarInt32:      "int32",
	ScalarInt64:      "int64",
	ScalarInt:        "int",
	ScalarUint8:      "uint8",
	ScalarUint16:     "uint16",
	ScalarUint32:     "uint32",
	ScalarUint64:     "uint64",
	ScalarUint:       "uint",
	ScalarFloat32:    "float32",
	ScalarFloat64:    "float64",
	ScalarChar:       "char",
	ScalarString:     "string",
	ScalarBigDecimal: "decimal",
	ScalarBigInt:     "bigint",
	ScalarTime:       "time",
	ScalarJSON:       "json",
	ScalarXML:        "xml",
	ScalarBytes:      "bytes",
}

func (s Scalar) String() string {
	if s >= 0 && int(s) < len(scalarNames) {
		return scalarNames[s]
	}
	return fmt.Sprintf("Scalar(%d)", int(s))
}

// Scalars lists every scalar id.
func Scalars() []Scalar {
	res := make([]Scalar, 0, len(scalarNames)-1)
	for i := range scalarNames[1:] {
		res = append(res, Scalar(i+1))
	}
	return res
}

// IsInteger reports whether the scalar is a fixed width integer.
func (s Scalar) IsInteger() bool {
	return s >= ScalarInt8 && s <= ScalarUint
}
