package codec

import (
	"errors"
	"math"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/signadot/typecodec/ir"
	"github.com/signadot/typecodec/schema"
)

func TestScalarRoundTrip(t *testing.T) {
	r := newResolver(t)
	tests := []struct {
		name string
		typ  *schema.Type
		v    any
		json string
	}{
		{name: "bool", typ: schema.Bool(), v: true, json: "true"},
		{name: "int8", typ: schema.Int8(), v: int8(-5), json: "-5"},
		{name: "int64 beyond double", typ: schema.Int64(), v: int64(9007199254740993), json: "9007199254740993"},
		{name: "uint64 max", typ: schema.Uint64(), v: uint64(math.MaxUint64), json: "18446744073709551615"},
		{name: "uint16", typ: schema.Uint16(), v: uint16(65535), json: "65535"},
		{name: "float64", typ: schema.Float64(), v: 1.5, json: "1.5"},
		{name: "float32", typ: schema.Float32(), v: float32(0.1), json: "0.1"},
		{name: "char", typ: schema.Char(), v: 'A', json: "65"},
		{name: "string", typ: schema.String(), v: `say "hi"`, json: `"say \"hi\""`},
		{name: "bytes", typ: schema.Bytes(), v: []byte("hi"), json: `"aGk="`},
		{name: "time", typ: schema.Time(), v: time.UnixMilli(1700000000123).UTC(), json: "1700000000123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := codecFor(t, r, tt.typ)
			if got := marshal(t, c, tt.v); got != tt.json {
				t.Errorf("marshal got %s want %s", got, tt.json)
			}
			got := unmarshal(t, c, tt.json)
			if diff := cmp.Diff(tt.v, got); diff != "" {
				t.Errorf("unmarshal (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScalarDecode(t *testing.T) {
	r := newResolver(t)
	tests := []struct {
		name string
		typ  *schema.Type
		in   string
		want any
		err  error
	}{
		{name: "integral exponent", typ: schema.Int32(), in: "1e3", want: int32(1000)},
		{name: "integer from string", typ: schema.Int32(), in: `"42"`, want: int32(42)},
		{name: "null integer", typ: schema.Int32(), in: "null", want: nil},
		{name: "fraction", typ: schema.Int32(), in: "1.5", err: ErrTypeMismatch},
		{name: "not a number", typ: schema.Int32(), in: `"not-a-number"`, err: ErrTypeMismatch},
		{name: "int8 overflow", typ: schema.Int8(), in: "200", err: ErrOutOfRange},
		{name: "negative unsigned", typ: schema.Uint8(), in: "-1", err: ErrOutOfRange},
		{name: "float overflow", typ: schema.Float64(), in: "1e400", err: ErrOutOfRange},
		{name: "huge exponent", typ: schema.Int32(), in: "1e999999999", err: ErrOutOfRange},
		{name: "huge exponent text", typ: schema.Int32(), in: `"1e999999999"`, err: ErrOutOfRange},
		{name: "tiny exponent", typ: schema.Int64(), in: "1e-999999999", err: ErrTypeMismatch},
		{name: "zero with huge exponent", typ: schema.Int32(), in: "0e999999999", want: int32(0)},
		{name: "wide exponent in range", typ: schema.Int64(), in: "9e18", want: int64(9e18)},
		{name: "big int huge exponent", typ: schema.BigInt(), in: "1e999999999", err: ErrOutOfRange},
		{name: "big int huge exponent text", typ: schema.BigInt(), in: `"1e999999999"`, err: ErrOutOfRange},
		{name: "decimal huge exponent", typ: schema.BigDecimal(), in: "1e999999999", err: ErrOutOfRange},
		{name: "decimal tiny exponent", typ: schema.BigDecimal(), in: `"1e-999999999"`, err: ErrOutOfRange},
		{name: "char huge exponent", typ: schema.Char(), in: "1e999999999", err: ErrOutOfRange},
		{name: "epoch huge exponent", typ: schema.Time(), in: "1e999999999", err: ErrOutOfRange},
		{name: "float from string", typ: schema.Float64(), in: `"2.25"`, want: 2.25},
		{name: "bool from string", typ: schema.Bool(), in: `"true"`, err: ErrTypeMismatch},
		{name: "string from number", typ: schema.String(), in: "12", want: "12"},
		{name: "string from object", typ: schema.String(), in: `{}`, err: ErrTypeMismatch},
		{name: "char from string", typ: schema.Char(), in: `"é"`, want: 'é'},
		{name: "char too long", typ: schema.Char(), in: `"ab"`, err: ErrTypeMismatch},
		{name: "char null", typ: schema.Char(), in: "null", err: ErrTypeMismatch},
		{name: "char negative", typ: schema.Char(), in: "-1", err: ErrOutOfRange},
		{name: "bad base64", typ: schema.Bytes(), in: `"%%%"`, err: ErrMalformed},
		{name: "byte array in base64 mode", typ: schema.Bytes(), in: `[1,2]`, err: ErrTypeMismatch},
		{name: "epoch from string", typ: schema.Time(), in: `"2024-01-01"`, err: ErrTypeMismatch},
		{name: "bad xml", typ: schema.XML(), in: `"<<"`, err: ErrMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := codecFor(t, r, tt.typ)
			got, err := c.Unmarshal([]byte(tt.in))
			if tt.err != nil {
				if !errors.Is(err, tt.err) || !errors.Is(err, ErrDecoding) {
					t.Fatalf("got %v, %v want %v", got, err, tt.err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestMismatchMessage(t *testing.T) {
	c := codecFor(t, newResolver(t), schema.Int32())
	_, err := c.Unmarshal([]byte(`"not-a-number"`))
	var de *DecodingError
	if !errors.As(err, &de) {
		t.Fatalf("got %v", err)
	}
	if de.Expected != "integer" || !strings.Contains(err.Error(), "integer") {
		t.Errorf("message %q does not name the expected kind", err.Error())
	}
	if !strings.Contains(err.Error(), `"not-a-number"`) {
		t.Errorf("message %q does not show the value", err.Error())
	}
}

func TestScalarEncodeErrors(t *testing.T) {
	r := newResolver(t)
	tests := []struct {
		name string
		typ  *schema.Type
		v    any
		err  error
	}{
		{name: "nan", typ: schema.Float64(), v: math.NaN(), err: ErrUnsupportedValue},
		{name: "wrong go type", typ: schema.Bool(), v: "yes", err: ErrUnsupportedValue},
		{name: "too wide", typ: schema.Int8(), v: 300, err: ErrOutOfRange},
		{name: "multi char", typ: schema.Char(), v: "ab", err: ErrUnsupportedValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codecFor(t, r, tt.typ).Marshal(tt.v)
			if !errors.Is(err, tt.err) || !errors.Is(err, ErrEncoding) {
				t.Errorf("got %v want %v", err, tt.err)
			}
		})
	}
}

func TestNullScalars(t *testing.T) {
	r := newResolver(t)
	c := codecFor(t, r, schema.PtrOf[int32](schema.Int32()))
	if got := marshal(t, c, (*int32)(nil)); got != "null" {
		t.Errorf("nil pointer got %s", got)
	}
	if got := marshal(t, c, ptr(int32(7))); got != "7" {
		t.Errorf("pointer got %s", got)
	}
	if diff := cmp.Diff(ptr(int32(7)), unmarshal(t, c, "7")); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if got := unmarshal(t, c, "null"); got != nil {
		t.Errorf("null decoded as %v", got)
	}
}

func TestDecimalAndBigInt(t *testing.T) {
	r := newResolver(t)
	dc := codecFor(t, r, schema.BigDecimal())
	if got := marshal(t, dc, decimal.RequireFromString("12.50")); got != `"12.5"` {
		t.Errorf("decimal got %s", got)
	}
	for _, in := range []string{`"0.1000000000000000000001"`, `0.1000000000000000000001`} {
		d, ok := unmarshal(t, dc, in).(decimal.Decimal)
		if !ok || !d.Equal(decimal.RequireFromString("0.1000000000000000000001")) {
			t.Errorf("decimal from %s got %v", in, d)
		}
	}
	bc := codecFor(t, r, schema.BigInt())
	n, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	if got := marshal(t, bc, n); got != `"123456789012345678901234567890"` {
		t.Errorf("bigint got %s", got)
	}
	b, ok := unmarshal(t, bc, "123456789012345678901234567890").(*big.Int)
	if !ok || b.Cmp(n) != 0 {
		t.Errorf("bigint decoded as %v", b)
	}
}

func TestTimeFormats(t *testing.T) {
	newYork, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("no zone database: %v", err)
	}
	when := time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC)
	noon := time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		format string
		zone   string
		v      time.Time
		json   string
		want   time.Time
	}{
		{name: "strftime", format: "%Y-%m-%d", v: when, json: `"2024-03-05"`, want: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{name: "go layout", format: time.RFC3339, v: when, json: `"2024-03-05T10:30:00Z"`, want: when},
		{name: "configured zone", format: "%Y-%m-%d %H:%M", zone: "America/New_York", v: noon,
			json: `"2024-01-05 07:00"`, want: noon.In(newYork)},
		{name: "pattern with offset", format: "%Y-%m-%dT%H:%M%z", zone: "America/New_York", v: noon,
			json: `"2024-01-05T07:00-0500"`, want: noon},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.DateFormat = tt.format
			if tt.zone != "" {
				cfg.TimeZone = tt.zone
			}
			c := codecFor(t, newResolver(t, WithConfig(cfg)), schema.Time())
			if got := marshal(t, c, tt.v); got != tt.json {
				t.Errorf("got %s want %s", got, tt.json)
			}
			got, ok := unmarshal(t, c, tt.json).(time.Time)
			if !ok || !got.Equal(tt.want) {
				t.Errorf("decoded %v want %v", got, tt.want)
			}
			if _, err := c.Unmarshal([]byte(`"03/05/2024"`)); !errors.Is(err, ErrMalformed) {
				t.Errorf("foreign date text got %v", err)
			}
		})
	}
}

func TestByteArrayMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ByteArrays = ArrayBytes
	r := newResolver(t, WithConfig(cfg))
	c := codecFor(t, r, schema.Bytes())
	if got := marshal(t, c, []byte{1, 255}); got != "[1,255]" {
		t.Errorf("got %s", got)
	}
	for in, want := range map[string][]byte{
		"[1,255]":  {1, 255},
		"[-1,2]":   {255, 2},
		`"AQI="`:   {1, 2},
		"[0,0,0]":  {0, 0, 0},
		`[]`:       {},
		`["7", 8]`: {7, 8},
	} {
		if diff := cmp.Diff(want, unmarshal(t, c, in)); diff != "" {
			t.Errorf("%s (-want +got):\n%s", in, diff)
		}
	}
	if _, err := c.Unmarshal([]byte("[256]")); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("256 got %v", err)
	}

	arr := codecFor(t, r, schema.ArrayOf[[]uint8](schema.Uint8()))
	if got := marshal(t, arr, []uint8{3, 4}); got != "[3,4]" {
		t.Errorf("uint8 array got %s", got)
	}
	if err := r.Configure(DefaultConfig()); err != nil {
		t.Fatal(err)
	}
	if got := marshal(t, arr, []uint8{3, 4}); got != `"AwQ="` {
		t.Errorf("uint8 array after reconfigure got %s", got)
	}
}

func TestOpaqueJSONAndXML(t *testing.T) {
	r := newResolver(t)
	jc := codecFor(t, r, schema.JSON())
	in := `{"a":[1,true,null],"b":"x"}`
	n, ok := unmarshal(t, jc, in).(*ir.Node)
	if !ok {
		t.Fatalf("decoded %T", n)
	}
	if got := marshal(t, jc, n); got != in {
		t.Errorf("json got %s want %s", got, in)
	}

	xc := codecFor(t, r, schema.XML())
	doc, ok := unmarshal(t, xc, `"<a><b>1</b></a>"`).(*etree.Document)
	if !ok {
		t.Fatalf("decoded %T", doc)
	}
	if b := doc.FindElement("a/b"); b == nil || b.Text() != "1" {
		t.Errorf("xml content lost")
	}
	if got := marshal(t, xc, doc); got != `"<a><b>1</b></a>"` {
		t.Errorf("xml got %s", got)
	}
}
