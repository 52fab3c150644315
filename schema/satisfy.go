package schema

// Satisfiability of descriptor graphs
//
// A descriptor is satisfiable when some finite JSON value decodes as it.
// Scalars, nullable values and containers (which may be empty) always
// are. An object is satisfiable when all of its required properties are,
// and an abstract root when one of its variants is.
//
// The check builds a circuit per descriptor with references expanded
// inline. A reference back to a descriptor already being expanded is the
// constant false: reaching it means the value would have to contain
// itself forever. The circuit is handed to a SAT solver; an
// unsatisfiable formula means the descriptor cannot be instantiated.
//
//	Node: {next: Node (required)}          -> false            -> impossible
//	Node: {next: Node (optional)}          -> true             -> fine
//	Shape (abstract): Circle | Group{kids: list<Shape>}  -> true

import (
	"errors"
	"fmt"

	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
)

var ErrUnsatisfiable = fmt.Errorf("%w: unsatisfiable", ErrSchema)

type satBuilder struct {
	c        *logic.C
	active   map[*Type]bool
	variants func(*Type) []*Type
}

// CheckSatisfiable returns ErrUnsatisfiable when no finite value of t
// exists. variants lists the concrete subtypes of an abstract descriptor;
// it may be nil when t has no abstract parts.
func CheckSatisfiable(t *Type, variants func(*Type) []*Type) error {
	b := &satBuilder{
		c:        logic.NewC(),
		active:   map[*Type]bool{},
		variants: variants,
	}
	f := b.build(t)
	g := gini.New()
	b.c.ToCnf(g)
	g.Assume(f)
	if g.Solve() != 1 {
		return fmt.Errorf("%w: %s: no finite value exists", ErrUnsatisfiable, t.ID())
	}
	return nil
}

// IsUnsatisfiable reports whether err came from CheckSatisfiable.
func IsUnsatisfiable(err error) bool {
	return errors.Is(err, ErrUnsatisfiable)
}

func (b *satBuilder) build(t *Type) z.Lit {
	if t == nil {
		return b.c.T
	}
	switch t.Kind {
	case EnumKind:
		if len(t.Members) == 0 {
			return b.c.F
		}
		return b.c.T
	case ObjectKind:
		return b.object(t)
	}
	return b.c.T
}

func (b *satBuilder) object(t *Type) z.Lit {
	if b.active[t] {
		return b.c.F
	}
	b.active[t] = true
	defer delete(b.active, t)

	if t.Abstract {
		var vs []*Type
		if b.variants != nil {
			vs = b.variants(t)
		}
		lits := make([]z.Lit, 0, len(vs))
		for _, v := range vs {
			if v == t {
				continue
			}
			lits = append(lits, b.object(v))
		}
		if len(lits) == 0 {
			return b.c.F
		}
		return b.c.Ors(lits...)
	}

	lits := []z.Lit{b.c.T}
	for _, p := range t.Props {
		if !p.Required {
			continue
		}
		pt := p.Type
		// a required nullable still needs its element
		if pt != nil && pt.Kind == PointerKind {
			if args, _ := pt.TypeArgs(); len(args) == 1 {
				pt = args[0]
			}
		}
		lits = append(lits, b.build(pt))
	}
	return b.c.Ands(lits...)
}
