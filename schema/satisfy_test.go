package schema

import "testing"

func TestCheckSatisfiable(t *testing.T) {
	reg := NewRegistry()

	loop := RecordObject("sat.Loop")
	loop.Define(RecordProp("next", loop, Required()))

	chain := RecordObject("sat.Chain")
	chain.Define(RecordProp("next", chain))

	tree := RecordObject("sat.Tree")
	tree.Define(RecordProp("kids", DynamicList(tree), Required()))

	shape := Abstract("sat.Shape")
	circle := RecordObject("sat.Circle").Extends(shape)
	group := RecordObject("sat.Group", RecordProp("first", shape, Required())).Extends(shape)

	empty := Abstract("sat.Empty")

	ring := Abstract("sat.Ring")
	link := RecordObject("sat.Link", RecordProp("in", ring, Required())).Extends(ring)

	noColor := Enum("sat.NoColor")
	paint := RecordObject("sat.Paint", RecordProp("color", noColor, Required()))

	nullable := RecordObject("sat.Nullable")
	nullable.Define(RecordProp("self", PtrOf[*Record](nullable), Required()))

	reg.MustRegister(loop, chain, tree, shape, circle, group, empty, ring, link, noColor, paint, nullable)

	tests := []struct {
		typ  *Type
		want bool
	}{
		{typ: loop, want: false},
		{typ: chain, want: true},
		{typ: tree, want: true},
		{typ: shape, want: true},
		{typ: group, want: true},
		{typ: empty, want: false},
		{typ: ring, want: false},
		{typ: link, want: false},
		{typ: paint, want: false},
		{typ: nullable, want: false},
		{typ: ListOf[[]*Record](loop), want: true},
		{typ: String(), want: true},
	}
	for _, tt := range tests {
		t.Run(tt.typ.ID(), func(t *testing.T) {
			err := CheckSatisfiable(tt.typ, reg.SubtypesOf)
			if got := err == nil; got != tt.want {
				t.Fatalf("satisfiable = %v want %v (%v)", got, tt.want, err)
			}
			if err != nil && !IsUnsatisfiable(err) {
				t.Errorf("unexpected error kind %v", err)
			}
		})
	}
}
