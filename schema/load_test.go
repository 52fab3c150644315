package schema

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/typecodec/ir"
	"go.uber.org/multierr"
)

func TestLoadFile(t *testing.T) {
	reg := NewRegistry()
	ts, err := LoadFile("testdata/zoo.yaml", reg)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, x := range ts {
		names = append(names, x.Name)
	}
	want := []string{"zoo.Animal", "zoo.Cat", "zoo.Dog", "zoo.Toy", "zoo.Color", "zoo.Names", "zoo.Keeper"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("names (-want +got):\n%s", diff)
	}

	animal, _ := reg.Lookup("zoo.Animal")
	cat, _ := reg.Lookup("zoo.Cat")
	dog, _ := reg.Lookup("zoo.Dog")
	if !animal.Abstract || animal.TypeInfo == nil {
		t.Fatalf("zoo.Animal: abstract=%v typeInfo=%v", animal.Abstract, animal.TypeInfo)
	}
	if got := animal.TypeInfo.PropertyName(); got != "kind" {
		t.Errorf("discriminator property %q", got)
	}
	if subs := animal.TypeInfo.Subtypes; len(subs) != 2 || subs[0] != cat || subs[1] != dog {
		t.Errorf("subtypes %v", subs)
	}
	if cat.Super != animal || cat.Tag != "cat" {
		t.Errorf("zoo.Cat super=%v tag=%q", cat.Super, cat.Tag)
	}

	lives := cat.Prop("lives")
	if lives == nil || lives.DefaultJSON == nil || !ir.Equal(lives.DefaultJSON, ir.FromInt(9)) {
		t.Errorf("lives default: %+v", lives)
	}
	if p := cat.Prop("color"); p == nil || p.Include != IncludeAlways {
		t.Errorf("color include: %+v", p)
	}
	friends := cat.Prop("friends").Type
	if friends.Kind != ListKind || friends.Params[0] != cat {
		t.Errorf("friends: %s", friends.ID())
	}
	if got := dog.Prop("goodBoy").Key(); got != "good_boy" {
		t.Errorf("goodBoy key %q", got)
	}
	toys := dog.Prop("toys").Type
	if toys.Kind != MapKind || toys.GoType() != "map[string]interface {}" {
		t.Errorf("toys: %s", toys.ID())
	}

	names2, _ := reg.Lookup("zoo.Names")
	if names2.Kind != SetKind {
		t.Errorf("zoo.Names kind %s", names2.Kind)
	}
	if args, owner := names2.TypeArgs(); len(args) != 1 || args[0] != String() || owner == names2 {
		t.Errorf("zoo.Names args %v owner %v", args, owner)
	}

	keeper, _ := reg.Lookup("zoo.Keeper")
	if got := keeper.Prop("badge").Type.GoType(); got != "[]uint8" {
		t.Errorf("badge go type %q", got)
	}
	if got := keeper.Prop("shifts").Type.GoType(); got != "[]interface {}" {
		t.Errorf("shifts go type %q", got)
	}
}

func TestLoadInternsAnonymousTypes(t *testing.T) {
	reg := NewRegistry()
	src := `
types:
  - name: a.A
    properties:
      - {name: x, type: "list<int32>"}
      - {name: y, type: "list<int32>"}
`
	ts, err := Load([]byte(src), reg)
	if err != nil {
		t.Fatal(err)
	}
	a := ts[0]
	if a.Prop("x").Type != a.Prop("y").Type {
		t.Errorf("list<int32> not interned")
	}
}

func TestLoadErrors(t *testing.T) {
	reg := NewRegistry()
	d, err := os.ReadFile("testdata/broken.yaml")
	if err != nil {
		t.Fatal(err)
	}
	_, err = Load(d, reg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrSchema) {
		t.Errorf("not a schema error: %v", err)
	}
	msgs := []string{
		`unknown type "bad.Missing"`,
		"unterminated type arguments",
		`duplicate enum member "X"`,
		`unknown discriminator kind "sideways"`,
	}
	for _, m := range msgs {
		if !strings.Contains(err.Error(), m) {
			t.Errorf("error %q does not mention %q", err, m)
		}
	}
	if n := len(multierr.Errors(err)); n < len(msgs) {
		t.Errorf("got %d errors, want at least %d", n, len(msgs))
	}
	if len(reg.Types()) != 0 {
		t.Errorf("failed load registered %d types", len(reg.Types()))
	}
}

func TestTypeExpr(t *testing.T) {
	reg := NewRegistry()
	named := RecordObject("x.N")
	reg.MustRegister(named)
	l := &loader{reg: reg, local: map[string]*Type{}}
	tests := []struct {
		src    string
		id     string
		errMsg string
	}{
		{src: "int32", id: "int32"},
		{src: "x.N", id: "x.N"},
		{src: "list<x.N>", id: "list<x.N>@[]interface {}"},
		{src: "map<string,list<bool>>", id: "map<string,list<bool>@[]interface {}>@map[string]interface {}"},
		{src: "ptr<x.N>", id: "x.N"},
		{src: "list", errMsg: "needs type arguments"},
		{src: "map<string>", errMsg: "takes 2 type arguments"},
		{src: "int32<bool>", errMsg: "takes no type arguments"},
		{src: "list<bool> x", errMsg: "trailing text"},
		{src: "", errMsg: "expected type name"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := l.typeExpr(tt.src)
			if tt.errMsg != "" {
				if err == nil || !strings.Contains(err.Error(), tt.errMsg) {
					t.Fatalf("got error %v, want %q", err, tt.errMsg)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got.ID() != tt.id {
				t.Errorf("got %q want %q", got.ID(), tt.id)
			}
		})
	}
}

func TestParseTypeExpr(t *testing.T) {
	reg := NewRegistry()
	if _, err := Load([]byte("types: [{name: x.N}]"), reg); err != nil {
		t.Fatal(err)
	}
	got, err := ParseTypeExpr("set<x.N>", reg)
	if err != nil {
		t.Fatal(err)
	}
	if got.Kind != SetKind {
		t.Errorf("kind %s", got.Kind)
	}
	if _, err := ParseTypeExpr("x.Missing", reg); err == nil {
		t.Errorf("unknown name accepted")
	}
}
