package codec

import (
	"slices"
	"strings"

	"github.com/signadot/typecodec/encode"
	"github.com/signadot/typecodec/ir"
	"github.com/signadot/typecodec/schema"
)

// sequence returns the elements of an array node. A bare object stands
// for a one element array: some producers unwrap single element
// collections.
func sequence(n *ir.Node) ([]*ir.Node, error) {
	switch n.Type {
	case ir.ArrayType:
		return n.Values, nil
	case ir.ObjectType:
		return []*ir.Node{n}, nil
	}
	return nil, mismatch("array", n)
}

// seqCoder handles lists, collections, sets and arrays.
type seqCoder struct {
	kind  schema.Kind
	shape schema.SeqShape
	elem  coder
}

func (c *seqCoder) encode(es *encState, v any) (*ir.Node, error) {
	elems, ok, err := c.shape.Elems(v)
	if err != nil {
		return nil, &EncodingError{Kind: ErrUnsupportedValue, Err: err}
	}
	if !ok {
		return es.null(), nil
	}
	if err := es.enter(); err != nil {
		return nil, err
	}
	defer es.leave()
	vals := make([]*ir.Node, 0, len(elems))
	for i, e := range elems {
		n, err := c.elem.encode(es, e)
		if err != nil {
			return nil, withPath(err, ir.IndexSegment(i))
		}
		if n == nil {
			n = ir.Null()
		}
		vals = append(vals, n)
	}
	if c.kind == schema.SetKind {
		vals = sortedUnique(vals)
	}
	return ir.FromSlice(vals), nil
}

// sortedUnique orders set elements by their wire text so that equal sets
// encode identically.
func sortedUnique(vals []*ir.Node) []*ir.Node {
	type keyed struct {
		text string
		n    *ir.Node
	}
	ks := make([]keyed, len(vals))
	for i, n := range vals {
		ks[i] = keyed{text: encode.String(n), n: n}
	}
	slices.SortFunc(ks, func(a, b keyed) int { return strings.Compare(a.text, b.text) })
	ks = slices.CompactFunc(ks, func(a, b keyed) bool { return a.text == b.text })
	res := make([]*ir.Node, len(ks))
	for i := range ks {
		res[i] = ks[i].n
	}
	return res
}

func (c *seqCoder) decode(ds *decState, n *ir.Node) (any, error) {
	if isNull(n) {
		return nil, nil
	}
	vals, err := sequence(n)
	if err != nil {
		return nil, err
	}
	if err := ds.enter(n); err != nil {
		return nil, err
	}
	defer ds.leave()
	elems := make([]any, 0, len(vals))
	var seen map[any]bool
	if c.kind == schema.SetKind {
		seen = make(map[any]bool, len(vals))
	}
	for i, x := range vals {
		e, err := c.elem.decode(ds, x)
		if err != nil {
			return nil, withPath(err, ir.IndexSegment(i))
		}
		if seen != nil {
			k := dedupKey(e, x)
			if seen[k] {
				continue
			}
			seen[k] = true
		}
		elems = append(elems, e)
	}
	res, err := c.shape.Build(elems)
	if err != nil {
		return nil, &DecodingError{Kind: ErrTypeMismatch, Node: n, Message: err.Error(), Err: err}
	}
	return res, nil
}

type textKey string

// dedupKey identifies a decoded set element. Plain values compare by
// value; anything else by the text it was decoded from.
func dedupKey(v any, n *ir.Node) any {
	switch v.(type) {
	case nil, bool, string, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64:
		return v
	}
	return textKey(encode.String(n))
}

// ptrCoder handles nullable values.
type ptrCoder struct {
	shape schema.PtrShape
	elem  coder
}

func (c *ptrCoder) encode(es *encState, v any) (*ir.Node, error) {
	e, ok, err := c.shape.Deref(v)
	if err != nil {
		return nil, &EncodingError{Kind: ErrUnsupportedValue, Err: err}
	}
	if !ok {
		return es.null(), nil
	}
	return c.elem.encode(es, e)
}

func (c *ptrCoder) decode(ds *decState, n *ir.Node) (any, error) {
	if isNull(n) {
		return nil, nil
	}
	e, err := c.elem.decode(ds, n)
	if err != nil || e == nil {
		return nil, err
	}
	res, err := c.shape.Ref(e)
	if err != nil {
		return nil, &DecodingError{Kind: ErrTypeMismatch, Node: n, Message: err.Error(), Err: err}
	}
	return res, nil
}

type enumCoder struct {
	t     *schema.Type
	shape schema.EnumShape
}

func (c *enumCoder) encode(es *encState, v any) (*ir.Node, error) {
	if v == nil {
		return es.null(), nil
	}
	name, ok := c.shape.NameOf(v)
	if !ok {
		return nil, encodeErr(ErrUnsupportedValue, "%v is not a member of %s", v, c.t.ID())
	}
	return ir.FromString(name), nil
}

func (c *enumCoder) decode(ds *decState, n *ir.Node) (any, error) {
	if isNull(n) {
		return nil, nil
	}
	if n.Type != ir.StringType {
		return nil, mismatch("enum name", n)
	}
	v, ok := c.shape.ValueOf(n.String)
	if !ok {
		return nil, &DecodingError{
			Kind:     ErrUnknownEnumValue,
			Expected: "one of " + strings.Join(c.members(), ", "),
			Node:     n,
		}
	}
	return v, nil
}

func (c *enumCoder) members() []string {
	for _, x := range c.t.Supers() {
		if len(x.Members) > 0 {
			return x.Members
		}
	}
	return nil
}

// byteSeqCoder gives arrays of uint8 the byte sequence encoding.
type byteSeqCoder struct {
	shape schema.SeqShape
}

func (c *byteSeqCoder) encode(es *encState, v any) (*ir.Node, error) {
	elems, ok, err := c.shape.Elems(v)
	if err != nil {
		return nil, &EncodingError{Kind: ErrUnsupportedValue, Err: err}
	}
	if !ok {
		return es.null(), nil
	}
	bs := make([]byte, len(elems))
	for i, e := range elems {
		b, ok := e.(uint8)
		if !ok {
			return nil, withPath(encodeErr(ErrUnsupportedValue, "%T is not a byte", e), ir.IndexSegment(i))
		}
		bs[i] = b
	}
	return scalarTable[schema.ScalarBytes].encode(es, bs)
}

func (c *byteSeqCoder) decode(ds *decState, n *ir.Node) (any, error) {
	v, err := scalarTable[schema.ScalarBytes].decode(ds, n)
	if err != nil || v == nil {
		return nil, err
	}
	bs := v.([]byte)
	elems := make([]any, len(bs))
	for i, b := range bs {
		elems[i] = b
	}
	res, err := c.shape.Build(elems)
	if err != nil {
		return nil, &DecodingError{Kind: ErrTypeMismatch, Node: n, Message: err.Error(), Err: err}
	}
	return res, nil
}
