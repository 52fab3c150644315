package codec

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/typecodec/schema"
)

func TestMapStyles(t *testing.T) {
	ages := schema.MapOf[map[string]int](schema.String(), schema.Int())
	byID := schema.MapOf[map[int]string](schema.Int(), schema.String())
	tests := []struct {
		name  string
		typ   *schema.Type
		style MapStyle
		v     any
		json  string
	}{
		{name: "simple", typ: ages, style: SimpleMaps,
			v: map[string]int{"bob": 2, "al": 1}, json: `{"al":1,"bob":2}`},
		{name: "entry", typ: ages, style: EntryMaps,
			v:    map[string]int{"bob": 2, "al": 1},
			json: `{"entry":[{"key":"al","value":1},{"key":"bob","value":2}]}`},
		{name: "simple int keys", typ: byID, style: SimpleMaps,
			v: map[int]string{10: "x", 2: "y"}, json: `{"10":"x","2":"y"}`},
		{name: "entry int keys", typ: byID, style: EntryMaps,
			v: map[int]string{10: "x"}, json: `{"entry":[{"key":"10","value":"x"}]}`},
		{name: "empty", typ: ages, style: SimpleMaps, v: map[string]int{}, json: `{}`},
		{name: "empty entry", typ: ages, style: EntryMaps, v: map[string]int{}, json: `{"entry":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := codecFor(t, newResolver(t), tt.typ, WithMapStyle(tt.style))
			if got := marshal(t, c, tt.v); got != tt.json {
				t.Errorf("marshal got %s want %s", got, tt.json)
			}
			if diff := cmp.Diff(tt.v, unmarshal(t, c, tt.json)); diff != "" {
				t.Errorf("unmarshal (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMapStyleFromConfig(t *testing.T) {
	ages := schema.MapOf[map[string]int](schema.String(), schema.Int())
	cfg := DefaultConfig()
	cfg.MapStyle = EntryMaps
	r := newResolver(t, WithConfig(cfg))
	c := codecFor(t, r, ages)
	if got := marshal(t, c, map[string]int{"a": 1}); got != `{"entry":[{"key":"a","value":1}]}` {
		t.Errorf("got %s", got)
	}
	pinned := codecFor(t, r, ages, WithMapStyle(SimpleMaps))
	if pinned == c {
		t.Fatalf("style pinned codec shared with configured one")
	}
	if got := marshal(t, pinned, map[string]int{"a": 1}); got != `{"a":1}` {
		t.Errorf("pinned got %s", got)
	}
	if err := r.Configure(DefaultConfig()); err != nil {
		t.Fatal(err)
	}
	if got := marshal(t, c, map[string]int{"a": 1}); got != `{"a":1}` {
		t.Errorf("after reconfigure got %s", got)
	}
}

func TestMapNullValues(t *testing.T) {
	typ := schema.MapOf[map[string]*int](schema.String(), schema.PtrOf[int](schema.Int()))
	v := map[string]*int{"a": ptr(1), "b": nil}
	for ignore, want := range map[bool]string{
		false: `{"a":1,"b":null}`,
		true:  `{"a":1}`,
	} {
		cfg := DefaultConfig()
		cfg.IgnoreNulls = ignore
		c := codecFor(t, newResolver(t, WithConfig(cfg)), typ)
		if got := marshal(t, c, v); got != want {
			t.Errorf("ignoreNulls=%v got %s want %s", ignore, got, want)
		}
	}
}

func TestMapDecodeErrors(t *testing.T) {
	ages := schema.MapOf[map[string]int](schema.String(), schema.Int())
	byID := schema.MapOf[map[int]string](schema.Int(), schema.String())
	tests := []struct {
		name  string
		typ   *schema.Type
		style MapStyle
		in    string
		err   error
		path  string
	}{
		{name: "array as map", typ: ages, style: SimpleMaps, in: `[1]`, err: ErrTypeMismatch},
		{name: "bad value", typ: ages, style: SimpleMaps, in: `{"a":"x"}`, err: ErrTypeMismatch, path: "a"},
		{name: "bad key", typ: byID, style: SimpleMaps, in: `{"ten":"x"}`, err: ErrTypeMismatch, path: "ten"},
		{name: "no entry", typ: ages, style: EntryMaps, in: `{"a":1}`, err: ErrMissingProperty},
		{name: "entry not array", typ: ages, style: EntryMaps, in: `{"entry":{}}`, err: ErrTypeMismatch, path: "entry"},
		{name: "entry without key", typ: ages, style: EntryMaps, in: `{"entry":[{"value":1}]}`, err: ErrMissingProperty, path: "entry[0]"},
		{name: "bad entry value", typ: ages, style: EntryMaps, in: `{"entry":[{"key":"a","value":true}]}`, err: ErrTypeMismatch, path: "entry[0].value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := codecFor(t, newResolver(t), tt.typ, WithMapStyle(tt.style))
			_, err := c.Unmarshal([]byte(tt.in))
			var de *DecodingError
			if !errors.As(err, &de) || !errors.Is(err, tt.err) {
				t.Fatalf("got %v want %v", err, tt.err)
			}
			if de.Path() != tt.path {
				t.Errorf("path %q want %q", de.Path(), tt.path)
			}
		})
	}
}

func TestEntryWithoutValueIsNull(t *testing.T) {
	typ := schema.MapOf[map[string]*int](schema.String(), schema.PtrOf[int](schema.Int()))
	c := codecFor(t, newResolver(t), typ, WithMapStyle(EntryMaps))
	want := map[string]*int{"a": nil}
	if diff := cmp.Diff(want, unmarshal(t, c, `{"entry":[{"key":"a"}]}`)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestUnsupportedMapStyle(t *testing.T) {
	ages := schema.MapOf[map[string]int](schema.String(), schema.Int())
	_, err := newResolver(t).CodecFor(ages, WithMapStyle("xml"))
	if !errors.Is(err, ErrUnsupportedStyle) || !errors.Is(err, ErrConfiguration) {
		t.Errorf("got %v", err)
	}
}
