package codec

import (
	"testing"

	"github.com/signadot/typecodec/schema"
)

type Animal interface{ animal() }

type Cat struct {
	Name    string
	Lives   int32
	Friends []*Cat
}

type Dog struct {
	Name    string
	GoodBoy bool
}

func (*Cat) animal() {}
func (*Dog) animal() {}

type zooTypes struct {
	animal, cat, dog, animals *schema.Type
}

func newZoo(ti schema.TypeInfo) *zooTypes {
	z := &zooTypes{}
	z.animal = schema.Interface[Animal]("zoo.Animal").Polymorphic(ti)
	z.cat = schema.Object[Cat]("zoo.Cat").Extends(z.animal).WithTag("cat")
	z.cat.Define(
		schema.Prop("name", schema.String(),
			func(c *Cat) string { return c.Name },
			func(c *Cat, v string) { c.Name = v },
			schema.Required()),
		schema.Prop("lives", schema.Int32(),
			func(c *Cat) int32 { return c.Lives },
			func(c *Cat, v int32) { c.Lives = v },
			schema.Default(int32(9))),
		schema.Prop("friends", schema.ListOf[[]*Cat](z.cat),
			func(c *Cat) []*Cat { return c.Friends },
			func(c *Cat, v []*Cat) { c.Friends = v },
			schema.WithInclude(schema.IncludeNonNull)),
	)
	z.dog = schema.Object[Dog]("zoo.Dog").Extends(z.animal)
	z.dog.Define(
		schema.Prop("name", schema.String(),
			func(d *Dog) string { return d.Name },
			func(d *Dog, v string) { d.Name = v }),
		schema.Prop("goodBoy", schema.Bool(),
			func(d *Dog) bool { return d.GoodBoy },
			func(d *Dog, v bool) { d.GoodBoy = v },
			schema.Rename("good_boy")),
	)
	z.animals = schema.ListOf[[]Animal](z.animal)
	return z
}

func (z *zooTypes) resolver(t *testing.T, opts ...Option) *Resolver {
	t.Helper()
	reg := schema.NewRegistry()
	reg.MustRegister(z.animal, z.cat, z.dog)
	return newResolver(t, append([]Option{WithRegistry(reg)}, opts...)...)
}

type Person struct {
	Name  string
	Nick  *string
	Email *string
	Age   int
}

func personType() *schema.Type {
	return schema.Object[Person]("people.Person",
		schema.Prop("name", schema.String(),
			func(p *Person) string { return p.Name },
			func(p *Person, v string) { p.Name = v }),
		schema.Prop("nick", schema.PtrOf[string](schema.String()),
			func(p *Person) *string { return p.Nick },
			func(p *Person, v *string) { p.Nick = v }),
		schema.Prop("email", schema.PtrOf[string](schema.String()),
			func(p *Person) *string { return p.Email },
			func(p *Person, v *string) { p.Email = v },
			schema.WithInclude(schema.IncludeAlways)),
		schema.Prop("age", schema.Int(),
			func(p *Person) int { return p.Age },
			func(p *Person, v int) { p.Age = v }),
	)
}

type Point struct {
	X, Y int
}

func pointType() *schema.Type {
	return schema.Object[Point]("geo.Point",
		schema.Prop("x", schema.Int(), func(p *Point) int { return p.X }, func(p *Point, v int) { p.X = v }),
		schema.Prop("y", schema.Int(), func(p *Point) int { return p.Y }, func(p *Point, v int) { p.Y = v }),
	)
}

type Node struct {
	Value int
	Kids  []*Node
}

func nodeType() *schema.Type {
	t := schema.Object[Node]("tree.Node")
	return t.Define(
		schema.Prop("value", schema.Int(), func(n *Node) int { return n.Value }, func(n *Node, v int) { n.Value = v }),
		schema.Prop("kids", schema.ListOf[[]*Node](t),
			func(n *Node) []*Node { return n.Kids },
			func(n *Node, v []*Node) { n.Kids = v },
			schema.WithInclude(schema.IncludeNonNull)),
	)
}

func newResolver(t *testing.T, opts ...Option) *Resolver {
	t.Helper()
	r, err := NewResolver(opts...)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func codecFor(t *testing.T, r *Resolver, typ *schema.Type, opts ...CodecOption) *Codec {
	t.Helper()
	c, err := r.CodecFor(typ, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func marshal(t *testing.T, c *Codec, v any) string {
	t.Helper()
	d, err := c.Marshal(v)
	if err != nil {
		t.Fatalf("marshal %v: %v", v, err)
	}
	return string(d)
}

func unmarshal(t *testing.T, c *Codec, in string) any {
	t.Helper()
	v, err := c.Unmarshal([]byte(in))
	if err != nil {
		t.Fatalf("unmarshal %s: %v", in, err)
	}
	return v
}

func ptr[T any](v T) *T {
	return &v
}
