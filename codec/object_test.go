package codec

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/typecodec/ir"
	"github.com/signadot/typecodec/schema"
)

func TestObjectNulls(t *testing.T) {
	pt := personType()
	v := &Person{Name: "ada", Age: 36}
	tests := []struct {
		ignore bool
		json   string
	}{
		{ignore: false, json: `{"name":"ada","nick":null,"email":null,"age":36}`},
		{ignore: true, json: `{"name":"ada","email":null,"age":36}`},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.IgnoreNulls = tt.ignore
		c := codecFor(t, newResolver(t, WithConfig(cfg)), pt)
		if got := marshal(t, c, v); got != tt.json {
			t.Errorf("ignoreNulls=%v got %s want %s", tt.ignore, got, tt.json)
		}
		if diff := cmp.Diff(v, unmarshal(t, c, tt.json)); diff != "" {
			t.Errorf("ignoreNulls=%v (-want +got):\n%s", tt.ignore, diff)
		}
	}
}

func TestObjectDecode(t *testing.T) {
	c := codecFor(t, newResolver(t), personType())
	tests := []struct {
		name string
		in   string
		want *Person
	}{
		{name: "unknown fields ignored", in: `{"name":"ada","extra":[1,{"x":2}],"age":1}`, want: &Person{Name: "ada", Age: 1}},
		{name: "empty object", in: `{}`, want: &Person{}},
		{name: "explicit null pointer", in: `{"nick":null,"email":"a@b"}`, want: &Person{Email: ptr("a@b")}},
		{name: "value object", in: `{"nick":"al"}`, want: &Person{Nick: ptr("al")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, unmarshal(t, c, tt.in)); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
	if got := unmarshal(t, c, "null"); got != nil {
		t.Errorf("null decoded as %v", got)
	}
	_, err := c.Unmarshal([]byte(`{"age":"old"}`))
	var de *DecodingError
	if !errors.As(err, &de) || !errors.Is(err, ErrTypeMismatch) || de.Path() != "age" {
		t.Errorf("got %v", err)
	}
	if _, err := c.Unmarshal([]byte(`[]`)); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("array as object got %v", err)
	}
	if _, err := c.Marshal(&Point{}); !errors.Is(err, ErrUnsupportedValue) {
		t.Errorf("foreign value encoded: %v", err)
	}
}

func TestValueAndPointerEncodeAlike(t *testing.T) {
	c := codecFor(t, newResolver(t), pointType())
	if a, b := marshal(t, c, Point{X: 1}), marshal(t, c, &Point{X: 1}); a != b || a != `{"x":1,"y":0}` {
		t.Errorf("value %s pointer %s", a, b)
	}
	if got := marshal(t, c, (*Point)(nil)); got != "null" {
		t.Errorf("nil pointer got %s", got)
	}
}

type Settings struct {
	Retries int
	Mode    string
	Tags    []string
}

func TestDefaults(t *testing.T) {
	st := schema.Object[Settings]("app.Settings",
		schema.Prop("retries", schema.Int(),
			func(s *Settings) int { return s.Retries },
			func(s *Settings, v int) { s.Retries = v },
			schema.Default(3)),
		schema.Prop("mode", schema.String(),
			func(s *Settings) string { return s.Mode },
			func(s *Settings, v string) { s.Mode = v },
			schema.Rename("run_mode"), schema.DefaultJSON(ir.FromString("fast"))),
		schema.Prop("tags", schema.ListOf[[]string](schema.String()),
			func(s *Settings) []string { return s.Tags },
			func(s *Settings, v []string) { s.Tags = v },
			schema.DefaultJSON(ir.FromSlice([]*ir.Node{ir.FromString("a")}))),
	)
	c := codecFor(t, newResolver(t), st)
	tests := []struct {
		name string
		in   string
		want *Settings
	}{
		{name: "missing", in: `{}`, want: &Settings{Retries: 3, Mode: "fast", Tags: []string{"a"}}},
		{name: "null", in: `{"retries":null,"run_mode":null,"tags":null}`, want: &Settings{Retries: 3, Mode: "fast", Tags: []string{"a"}}},
		{name: "present", in: `{"retries":0,"run_mode":"slow","tags":[]}`, want: &Settings{Mode: "slow", Tags: []string{}}},
		{name: "declared name", in: `{"mode":"slow"}`, want: &Settings{Retries: 3, Mode: "slow", Tags: []string{"a"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, unmarshal(t, c, tt.in)); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}

	// defaults are decoded afresh, so values do not share state
	a := unmarshal(t, c, `{}`).(*Settings)
	a.Tags[0] = "changed"
	if b := unmarshal(t, c, `{}`).(*Settings); b.Tags[0] != "a" {
		t.Errorf("default shared between values: %v", b.Tags)
	}
	if got := marshal(t, c, &Settings{Mode: "m"}); got != `{"retries":0,"run_mode":"m","tags":null}` {
		t.Errorf("got %s", got)
	}
}

func TestBadDefaultFailsConstruction(t *testing.T) {
	st := schema.Object[Settings]("app.Settings",
		schema.Prop("retries", schema.Int(),
			func(s *Settings) int { return s.Retries },
			func(s *Settings, v int) { s.Retries = v },
			schema.DefaultJSON(ir.FromString("many"))),
	)
	r := newResolver(t)
	if _, err := r.CodecFor(st); !errors.Is(err, ErrInvalidConfig) || !errors.Is(err, ErrConfiguration) {
		t.Fatalf("got %v", err)
	}
	if len(r.coders) != 0 {
		t.Errorf("failed build left %d coders", len(r.coders))
	}
}

func TestGoDefaultsAreCopied(t *testing.T) {
	st := schema.Object[Settings]("app.Settings",
		schema.Prop("tags", schema.ListOf[[]string](schema.String()),
			func(s *Settings) []string { return s.Tags },
			func(s *Settings, v []string) { s.Tags = v },
			schema.Default([]string{"a", "b"})),
	)
	cfg := DefaultConfig()
	cfg.IgnoreNulls = true
	c := codecFor(t, newResolver(t, WithConfig(cfg)), st)
	a := unmarshal(t, c, `{}`).(*Settings)
	a.Tags[0] = "changed"
	b := unmarshal(t, c, `{"tags":null}`).(*Settings)
	if diff := cmp.Diff([]string{"a", "b"}, b.Tags); diff != "" {
		t.Errorf("default shared between values (-want +got):\n%s", diff)
	}
}

func TestBadGoDefaultFailsConstruction(t *testing.T) {
	st := schema.Object[Settings]("app.Settings",
		schema.Prop("retries", schema.Int(),
			func(s *Settings) int { return s.Retries },
			func(s *Settings, v int) { s.Retries = v },
			schema.Default("many")),
	)
	if _, err := newResolver(t).CodecFor(st); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("got %v", err)
	}
}

func TestRequired(t *testing.T) {
	z := newZoo(schema.TypeInfo{Use: schema.IDName})
	c := codecFor(t, z.resolver(t), z.cat)
	for _, in := range []string{`{"@type":"cat"}`, `{"@type":"cat","name":null}`} {
		_, err := c.Unmarshal([]byte(in))
		var de *DecodingError
		if !errors.As(err, &de) || !errors.Is(err, ErrMissingProperty) || de.Path() != "name" {
			t.Errorf("%s got %v", in, err)
		}
	}
}

func TestReadOnlyProperty(t *testing.T) {
	pt := schema.Object[Point]("geo.Point",
		schema.Prop("x", schema.Int(), func(p *Point) int { return p.X }, func(p *Point, v int) { p.X = v }),
		schema.Prop("sum", schema.Int(), func(p *Point) int { return p.X + p.Y }, nil),
	)
	c := codecFor(t, newResolver(t), pt)
	if got := marshal(t, c, &Point{X: 2, Y: 3}); got != `{"x":2,"sum":5}` {
		t.Errorf("got %s", got)
	}
	if diff := cmp.Diff(&Point{X: 2}, unmarshal(t, c, `{"x":2,"sum":"ignored"}`)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestRecords(t *testing.T) {
	pet := schema.RecordObject("zoo.Pet",
		schema.RecordProp("name", schema.String(), schema.Required()),
		schema.RecordProp("age", schema.Int32()),
	)
	c := codecFor(t, newResolver(t), pet)
	rec, ok := unmarshal(t, c, `{"age":4,"name":"rex"}`).(*schema.Record)
	if !ok {
		t.Fatalf("decoded %T", rec)
	}
	if rec.Get("name") != "rex" || rec.Get("age") != int32(4) {
		t.Errorf("record %v", rec.Keys())
	}
	if got := marshal(t, c, rec); got != `{"name":"rex","age":4}` {
		t.Errorf("got %s", got)
	}
	if _, err := c.Marshal(schema.NewRecord(schema.RecordObject("zoo.Rock"))); !errors.Is(err, ErrUnsupportedValue) {
		t.Errorf("record of another type encoded: %v", err)
	}
}
