package codec

import (
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/signadot/typecodec/ir"
	"github.com/signadot/typecodec/schema"
)

// scalarCoder is an entry of the scalar table. enc never sees nil.
type scalarCoder struct {
	s   schema.Scalar
	enc func(es *encState, v any) (*ir.Node, error)
	dec func(ds *decState, n *ir.Node) (any, error)
}

func (c *scalarCoder) encode(es *encState, v any) (*ir.Node, error) {
	if v == nil {
		return es.null(), nil
	}
	n, err := c.enc(es, v)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return es.null(), nil
	}
	return n, nil
}

func (c *scalarCoder) decode(ds *decState, n *ir.Node) (any, error) {
	if isNull(n) && c.s != schema.ScalarChar {
		return nil, nil
	}
	return c.dec(ds, n)
}

var scalarTable = map[schema.Scalar]*scalarCoder{
	schema.ScalarBool:       {s: schema.ScalarBool, enc: encodeBool, dec: decodeBool},
	schema.ScalarInt8:       intCoder[int8](schema.ScalarInt8),
	schema.ScalarInt16:      intCoder[int16](schema.ScalarInt16),
	schema.ScalarInt32:      intCoder[int32](schema.ScalarInt32),
	schema.ScalarInt64:      intCoder[int64](schema.ScalarInt64),
	schema.ScalarInt:        intCoder[int](schema.ScalarInt),
	schema.ScalarUint8:      intCoder[uint8](schema.ScalarUint8),
	schema.ScalarUint16:     intCoder[uint16](schema.ScalarUint16),
	schema.ScalarUint32:     intCoder[uint32](schema.ScalarUint32),
	schema.ScalarUint64:     intCoder[uint64](schema.ScalarUint64),
	schema.ScalarUint:       intCoder[uint](schema.ScalarUint),
	schema.ScalarFloat32:    floatCoder[float32](schema.ScalarFloat32, 32),
	schema.ScalarFloat64:    floatCoder[float64](schema.ScalarFloat64, 64),
	schema.ScalarChar:       {s: schema.ScalarChar, enc: encodeChar, dec: decodeChar},
	schema.ScalarString:     {s: schema.ScalarString, enc: encodeString, dec: decodeString},
	schema.ScalarBigDecimal: {s: schema.ScalarBigDecimal, enc: encodeDecimal, dec: decodeDecimal},
	schema.ScalarBigInt:     {s: schema.ScalarBigInt, enc: encodeBigInt, dec: decodeBigInt},
	schema.ScalarTime:       {s: schema.ScalarTime, enc: encodeTime, dec: decodeTime},
	schema.ScalarJSON:       {s: schema.ScalarJSON, enc: encodeJSON, dec: decodeJSON},
	schema.ScalarXML:        {s: schema.ScalarXML, enc: encodeXML, dec: decodeXML},
	schema.ScalarBytes:      {s: schema.ScalarBytes, enc: encodeBytes, dec: decodeBytes},
}

// value extracts a T or a non-nil *T. ok is false for a nil *T.
func value[T any](v any) (x T, ok bool, err error) {
	switch y := v.(type) {
	case T:
		return y, true, nil
	case *T:
		if y == nil {
			return x, false, nil
		}
		return *y, true, nil
	}
	return x, false, encodeErr(ErrUnsupportedValue, "cannot encode %T as %T", v, x)
}

func encodeBool(_ *encState, v any) (*ir.Node, error) {
	b, ok, err := value[bool](v)
	if !ok {
		return nil, err
	}
	return ir.FromBool(b), nil
}

func decodeBool(_ *decState, n *ir.Node) (any, error) {
	if n.Type != ir.BoolType {
		return nil, mismatch("boolean", n)
	}
	return n.Bool, nil
}

type integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

func bounds[T integer]() (lo, hi decimal.Decimal) {
	var z T
	bits := 8
	for x := T(1) << 7; x<<1 != 0 && bits < 64; x <<= 1 {
		bits++
	}
	if z-1 < 0 {
		lo = decimal.NewFromBigInt(new(big.Int).Lsh(big.NewInt(-1), uint(bits-1)), 0)
		hi = decimal.NewFromBigInt(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(bits-1)), big.NewInt(1)), 0)
		return lo, hi
	}
	hi = decimal.NewFromBigInt(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(bits)), big.NewInt(1)), 0)
	return decimal.Zero, hi
}

func intCoder[T integer](s schema.Scalar) *scalarCoder {
	lo, hi := bounds[T]()
	var z T
	signed := z-1 < 0
	toNode := func(x T) *ir.Node {
		if signed {
			return ir.FromInt(int64(x))
		}
		return ir.FromUint(uint64(x))
	}
	fromDecimal := func(d decimal.Decimal) T {
		b := d.BigInt()
		if signed {
			return T(b.Int64())
		}
		return T(b.Uint64())
	}
	return &scalarCoder{
		s: s,
		enc: func(_ *encState, v any) (*ir.Node, error) {
			x, ok, err := value[T](v)
			if ok {
				return toNode(x), nil
			}
			if _, isPtr := v.(*T); isPtr {
				return nil, nil
			}
			// records may hold other integer widths
			d, isInt := anyInteger(v)
			if !isInt {
				return nil, err
			}
			if d.LessThan(lo) || d.GreaterThan(hi) {
				return nil, encodeErr(ErrOutOfRange, "%s does not fit %s", d, s)
			}
			return toNode(fromDecimal(d)), nil
		},
		dec: func(_ *decState, n *ir.Node) (any, error) {
			d, err := integerOf(n, maxIntDigits)
			if err != nil {
				return nil, err
			}
			if d.LessThan(lo) || d.GreaterThan(hi) {
				return nil, decodeErr(ErrOutOfRange, n, "%s does not fit %s", d, s)
			}
			return fromDecimal(d), nil
		},
	}
}

func anyInteger(v any) (decimal.Decimal, bool) {
	switch x := v.(type) {
	case int:
		return decimal.NewFromInt(int64(x)), true
	case int8:
		return decimal.NewFromInt(int64(x)), true
	case int16:
		return decimal.NewFromInt(int64(x)), true
	case int32:
		return decimal.NewFromInt(int64(x)), true
	case int64:
		return decimal.NewFromInt(x), true
	case uint:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(x)), 0), true
	case uint8:
		return decimal.NewFromInt(int64(x)), true
	case uint16:
		return decimal.NewFromInt(int64(x)), true
	case uint32:
		return decimal.NewFromInt(int64(x)), true
	case uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(x), 0), true
	}
	return decimal.Decimal{}, false
}

// numberText returns the number text of a number node or of a string
// holding a number.
func numberText(n *ir.Node, expected string) (string, error) {
	switch n.Type {
	case ir.NumberType:
		return n.NumberText(), nil
	case ir.StringType:
		s := strings.TrimSpace(n.String)
		if isNumberText(s) {
			return s, nil
		}
	}
	return "", mismatch(expected, n)
}

func isNumberText(s string) bool {
	if s == "" || strings.Trim(s, "0123456789+-.eE") != "" {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil || errors.Is(err, strconv.ErrRange)
}

// Digit limits for integers written with exponents. Fixed widths never
// need more than maxIntDigits; *big.Int and big decimal values are capped
// at maxBigDigits.
const (
	maxIntDigits = 20
	maxBigDigits = 4096
)

// integerOf reads an integral value through decimal text, so wide values
// are not rounded. Values of more than maxDigits digits are ErrOutOfRange;
// the check runs before the exponent is applied, so "1e999999999" is
// rejected without being expanded.
func integerOf(n *ir.Node, maxDigits int) (decimal.Decimal, error) {
	text, err := numberText(n, "integer")
	if err != nil {
		return decimal.Decimal{}, err
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Decimal{}, mismatch("integer", n)
	}
	if d.Coefficient().Sign() == 0 {
		return decimal.Zero, nil
	}
	digits, exp := coefficientDigits(d), int64(d.Exponent())
	switch {
	case digits+exp > int64(maxDigits):
		return decimal.Decimal{}, decodeErr(ErrOutOfRange, n, "%s has more than %d digits", text, maxDigits)
	case -exp >= digits:
		// a non-zero magnitude below one
		return decimal.Decimal{}, mismatch("integer", n)
	}
	if !d.Equal(d.Truncate(0)) {
		return decimal.Decimal{}, mismatch("integer", n)
	}
	return d, nil
}

func coefficientDigits(d decimal.Decimal) int64 {
	return int64(len(strings.TrimPrefix(d.Coefficient().Text(10), "-")))
}

type float interface {
	~float32 | ~float64
}

func floatCoder[T float](s schema.Scalar, bits int) *scalarCoder {
	return &scalarCoder{
		s: s,
		enc: func(_ *encState, v any) (*ir.Node, error) {
			x, ok, err := value[T](v)
			if !ok {
				if _, isPtr := v.(*T); isPtr {
					return nil, nil
				}
				d, isInt := anyInteger(v)
				if !isInt {
					return nil, err
				}
				return ir.FromNumber(d.String()), nil
			}
			f := float64(x)
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return nil, encodeErr(ErrUnsupportedValue, "%v has no JSON form", f)
			}
			return ir.FromNumber(floatText(f, bits)), nil
		},
		dec: func(_ *decState, n *ir.Node) (any, error) {
			text, err := numberText(n, "number")
			if err != nil {
				return nil, err
			}
			f, err := strconv.ParseFloat(text, bits)
			if err != nil {
				if errors.Is(err, strconv.ErrRange) {
					return nil, decodeErr(ErrOutOfRange, n, "%s does not fit %s", text, s)
				}
				return nil, mismatch("number", n)
			}
			return T(f), nil
		},
	}
}

func floatText(f float64, bits int) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, bits)
	}
	return strconv.FormatFloat(f, 'g', -1, bits)
}

func encodeChar(_ *encState, v any) (*ir.Node, error) {
	if s, ok := v.(string); ok {
		r, size := utf8.DecodeRuneInString(s)
		if size == 0 || size != len(s) {
			return nil, encodeErr(ErrUnsupportedValue, "%q is not a single character", s)
		}
		return ir.FromInt(int64(r)), nil
	}
	r, ok, err := value[rune](v)
	if !ok {
		return nil, err
	}
	return ir.FromInt(int64(r)), nil
}

// decodeChar rejects null: a character has no absent value.
func decodeChar(_ *decState, n *ir.Node) (any, error) {
	switch {
	case isNull(n):
		return nil, mismatch("character", ir.Null())
	case n.Type == ir.StringType:
		r, size := utf8.DecodeRuneInString(n.String)
		if size > 0 && size == len(n.String) && r != utf8.RuneError {
			return r, nil
		}
	case n.Type == ir.NumberType:
		d, err := integerOf(n, maxIntDigits)
		if errors.Is(err, ErrOutOfRange) {
			return nil, err
		}
		if err != nil {
			return nil, mismatch("character", n)
		}
		if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(utf8.MaxRune)) {
			return nil, decodeErr(ErrOutOfRange, n, "%s is not a code point", d)
		}
		return rune(d.IntPart()), nil
	}
	return nil, mismatch("character", n)
}

func encodeString(_ *encState, v any) (*ir.Node, error) {
	s, ok, err := value[string](v)
	if !ok {
		return nil, err
	}
	return ir.FromString(s), nil
}

func decodeString(_ *decState, n *ir.Node) (any, error) {
	switch n.Type {
	case ir.StringType:
		return n.String, nil
	case ir.BoolType:
		return strconv.FormatBool(n.Bool), nil
	case ir.NumberType:
		return n.NumberText(), nil
	}
	return nil, mismatch("string", n)
}

func encodeDecimal(_ *encState, v any) (*ir.Node, error) {
	d, ok, err := value[decimal.Decimal](v)
	if !ok {
		return nil, err
	}
	return ir.FromString(d.String()), nil
}

func decodeDecimal(_ *decState, n *ir.Node) (any, error) {
	text, err := numberText(n, "decimal")
	if err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return nil, mismatch("decimal", n)
	}
	if exp := int64(d.Exponent()); exp > maxBigDigits || -exp > maxBigDigits+coefficientDigits(d) {
		return nil, decodeErr(ErrOutOfRange, n, "%s is beyond %d digits", text, maxBigDigits)
	}
	return d, nil
}

func encodeBigInt(_ *encState, v any) (*ir.Node, error) {
	switch x := v.(type) {
	case *big.Int:
		if x == nil {
			return nil, nil
		}
		return ir.FromString(x.String()), nil
	case big.Int:
		return ir.FromString(x.String()), nil
	}
	if d, ok := anyInteger(v); ok {
		return ir.FromString(d.String()), nil
	}
	return nil, encodeErr(ErrUnsupportedValue, "cannot encode %T as *big.Int", v)
}

func decodeBigInt(_ *decState, n *ir.Node) (any, error) {
	d, err := integerOf(n, maxBigDigits)
	if err != nil {
		return nil, err
	}
	return d.BigInt(), nil
}

func encodeTime(es *encState, v any) (*ir.Node, error) {
	t, ok, err := value[time.Time](v)
	if !ok {
		return nil, err
	}
	if es.s.layout == "" {
		return ir.FromInt(t.UnixMilli()), nil
	}
	return ir.FromString(t.In(es.s.loc).Format(es.s.layout)), nil
}

func decodeTime(ds *decState, n *ir.Node) (any, error) {
	if ds.s.layout == "" {
		if n.Type != ir.NumberType {
			return nil, mismatch("epoch milliseconds", n)
		}
		d, err := integerOf(n, maxIntDigits)
		if errors.Is(err, ErrOutOfRange) {
			return nil, err
		}
		if err != nil {
			return nil, mismatch("epoch milliseconds", n)
		}
		if !d.BigInt().IsInt64() {
			return nil, decodeErr(ErrOutOfRange, n, "%s is not a representable time", d)
		}
		return time.UnixMilli(d.IntPart()).In(ds.s.loc), nil
	}
	if n.Type != ir.StringType {
		return nil, mismatch(fmt.Sprintf("date string %q", ds.s.DateFormat), n)
	}
	t, err := time.ParseInLocation(ds.s.layout, n.String, ds.s.loc)
	if err != nil {
		return nil, &DecodingError{
			Kind:    ErrMalformed,
			Node:    n,
			Message: fmt.Sprintf("%q does not match date format %q", n.String, ds.s.DateFormat),
			Err:     err,
		}
	}
	return t, nil
}

func encodeJSON(_ *encState, v any) (*ir.Node, error) {
	x, ok := v.(*ir.Node)
	if !ok {
		return nil, encodeErr(ErrUnsupportedValue, "cannot encode %T as *ir.Node", v)
	}
	if x == nil {
		return nil, nil
	}
	return x.Clone(), nil
}

func decodeJSON(_ *decState, n *ir.Node) (any, error) {
	return n.Clone(), nil
}

func encodeXML(_ *encState, v any) (*ir.Node, error) {
	doc, ok := v.(*etree.Document)
	if !ok {
		return nil, encodeErr(ErrUnsupportedValue, "cannot encode %T as *etree.Document", v)
	}
	if doc == nil {
		return nil, nil
	}
	s, err := doc.WriteToString()
	if err != nil {
		return nil, &EncodingError{Kind: ErrUnsupportedValue, Message: "writing XML", Err: err}
	}
	return ir.FromString(s), nil
}

func decodeXML(_ *decState, n *ir.Node) (any, error) {
	if n.Type != ir.StringType {
		return nil, mismatch("XML string", n)
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromString(n.String); err != nil {
		return nil, &DecodingError{Kind: ErrMalformed, Node: n, Message: "invalid XML", Err: err}
	}
	return doc, nil
}

func encodeBytes(es *encState, v any) (*ir.Node, error) {
	b, ok, err := value[[]byte](v)
	if !ok {
		return nil, err
	}
	if b == nil {
		return nil, nil
	}
	if es.s.ByteArrays == Base64Bytes {
		return ir.FromString(base64.StdEncoding.EncodeToString(b)), nil
	}
	vals := make([]*ir.Node, len(b))
	for i, x := range b {
		vals[i] = ir.FromInt(int64(x))
	}
	return ir.FromSlice(vals), nil
}

// decodeBytes reads base64 text in either mode. Array mode also reads
// arrays of byte values; negative values are signed bytes.
func decodeBytes(ds *decState, n *ir.Node) (any, error) {
	if n.Type == ir.StringType {
		b, err := base64.StdEncoding.DecodeString(n.String)
		if err != nil {
			return nil, &DecodingError{Kind: ErrMalformed, Node: n, Message: "invalid base64", Err: err}
		}
		return b, nil
	}
	if ds.s.ByteArrays == Base64Bytes {
		return nil, mismatch("base64 string", n)
	}
	vals, err := sequence(n)
	if err != nil {
		return nil, err
	}
	lo, hi := decimal.NewFromInt(math.MinInt8), decimal.NewFromInt(math.MaxUint8)
	res := make([]byte, len(vals))
	for i, x := range vals {
		d, err := integerOf(x, maxIntDigits)
		if err != nil {
			return nil, withPath(err, ir.IndexSegment(i))
		}
		if d.LessThan(lo) || d.GreaterThan(hi) {
			return nil, withPath(decodeErr(ErrOutOfRange, x, "%s is not a byte", d), ir.IndexSegment(i))
		}
		res[i] = byte(d.IntPart())
	}
	return res, nil
}
