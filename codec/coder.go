package codec

import (
	"github.com/signadot/typecodec/ir"
)

// coder is the internal form of a codec. encode returns a nil node for a
// null value the configuration says to elide; the caller decides whether
// that omits a property, omits a map entry or writes null.
type coder interface {
	encode(es *encState, v any) (*ir.Node, error)
	decode(ds *decState, n *ir.Node) (any, error)
}

type encState struct {
	s        *settings
	depth    int
	visiting map[any]struct{}
}

func newEncState(s *settings) *encState {
	return &encState{s: s, visiting: map[any]struct{}{}}
}

func (es *encState) null() *ir.Node {
	if es.s.IgnoreNulls {
		return nil
	}
	return ir.Null()
}

func (es *encState) enter() error {
	es.depth++
	if es.depth > es.s.MaxDepth {
		return encodeErr(ErrDepthExceeded, "nesting exceeds %d", es.s.MaxDepth)
	}
	return nil
}

func (es *encState) leave() {
	es.depth--
}

// push marks ptr as being encoded; encoding it again before pop is a cycle.
func (es *encState) push(ptr any) error {
	if _, ok := es.visiting[ptr]; ok {
		return encodeErr(ErrCycle, "%T refers back to itself", ptr)
	}
	es.visiting[ptr] = struct{}{}
	return nil
}

func (es *encState) pop(ptr any) {
	delete(es.visiting, ptr)
}

type decState struct {
	s     *settings
	depth int
}

func (ds *decState) enter(n *ir.Node) error {
	ds.depth++
	if ds.depth > ds.s.MaxDepth {
		return decodeErr(ErrDepthExceeded, n, "nesting exceeds %d", ds.s.MaxDepth)
	}
	return nil
}

func (ds *decState) leave() {
	ds.depth--
}

func isNull(n *ir.Node) bool {
	return n == nil || n.Type == ir.NullType
}
