package encode

import (
	"github.com/signadot/typecodec/ir"

	"github.com/fatih/color"
)

// ColorAttr names the part of a token being colored.
type ColorAttr int

const (
	FieldColor ColorAttr = iota
	ValueColor
	SepColor
)

type Colorable struct {
	Type ir.Type
	Attr ColorAttr
}

// Colors maps (node type, attribute) pairs to painters. Pairs with no
// entry are written through Default.
type Colors struct {
	Default func(string) string
	Map     map[Colorable]func(string) string
}

func paint(c *color.Color) func(string) string {
	f := c.SprintFunc()
	return func(s string) string { return f(s) }
}

// NewColors returns the palette used by the command line tools.
func NewColors() *Colors {
	punct := paint(color.RGB(255, 0, 196))
	c := &Colors{
		Default: plain,
		Map: map[Colorable]func(string) string{
			{ir.NullType, ValueColor}:   paint(color.RGB(168, 0, 196)),
			{ir.BoolType, ValueColor}:   paint(color.New(color.FgCyan)),
			{ir.NumberType, ValueColor}: paint(color.RGB(128, 216, 236)),
			{ir.StringType, ValueColor}: paint(color.RGB(8, 196, 16)),
			{ir.ObjectType, FieldColor}: paint(color.RGB(128, 168, 196)),
			{ir.ObjectType, SepColor}:   paint(color.RGB(196, 128, 128)),
		},
	}
	for _, t := range ir.Types() {
		k := Colorable{Type: t, Attr: SepColor}
		if _, ok := c.Map[k]; !ok {
			c.Map[k] = punct
		}
	}
	return c
}

func plain(s string) string { return s }

func (c *Colors) Color(t ir.Type, a ColorAttr, s string) string {
	if f := c.Map[Colorable{Type: t, Attr: a}]; f != nil {
		return f(s)
	}
	if c.Default == nil {
		return s
	}
	return c.Default(s)
}
