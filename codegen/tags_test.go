package codegen

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/typecodec/schema"
)

func TestParseFieldTag(t *testing.T) {
	tests := []struct {
		tag  string
		want FieldTag
		err  bool
	}{
		{tag: "", want: FieldTag{}},
		{tag: "-", want: FieldTag{Skip: true}},
		{tag: "name", want: FieldTag{Name: "name"}},
		{tag: "name,omitempty", want: FieldTag{Name: "name", Include: schema.IncludeNonNull}},
		{tag: ",always,required", want: FieldTag{Include: schema.IncludeAlways, Required: true}},
		{tag: "n,default=[1,2]", want: FieldTag{Name: "n", Default: "[1,2]"}},
		{tag: `default={"a":1}`, want: FieldTag{Default: `{"a":1}`}},
		{tag: "n,default=[1,", err: true},
		{tag: "n,required,default=1", err: true},
		{tag: "n,sometimes", err: true},
		{tag: "n,xdefault=1", err: true},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got, err := ParseFieldTag(tt.tag)
			if tt.err {
				if err == nil {
					t.Fatalf("accepted %q", tt.tag)
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

func TestLowerFirst(t *testing.T) {
	for in, want := range map[string]string{
		"Name":    "name",
		"ID":      "id",
		"URLPath": "urlPath",
		"X":       "x",
		"HTTP2":   "http2",
	} {
		if got := lowerFirst(in); got != want {
			t.Errorf("%s: got %s want %s", in, got, want)
		}
	}
}
