package codec

import (
	"fmt"

	"github.com/signadot/typecodec/ir"
	"github.com/signadot/typecodec/schema"
)

type propCoder struct {
	p *schema.Property
	c coder
}

// objectCoder reads and writes the properties of one concrete object
// descriptor, inherited ones first.
type objectCoder struct {
	t     *schema.Type
	shape schema.ObjectShape
	props []*propCoder
}

// objectProps lists the properties of t and its supertypes, supertypes
// first. A property redeclared by a subtype keeps the position of the
// inherited one. Inherited properties that cannot read values of t are
// skipped.
func objectProps(t *schema.Type, proto any) []*schema.Property {
	supers := t.Supers()
	var res []*schema.Property
	pos := map[string]int{}
	for i := len(supers) - 1; i >= 0; i-- {
		for _, p := range supers[i].Props {
			if i > 0 && proto != nil && !p.AppliesTo(proto) {
				continue
			}
			if j, ok := pos[p.Name]; ok {
				res[j] = p
				continue
			}
			pos[p.Name] = len(res)
			res = append(res, p)
		}
	}
	return res
}

func (c *objectCoder) encode(es *encState, v any) (*ir.Node, error) {
	if v == nil {
		return es.null(), nil
	}
	ptr, ok := c.shape.Instance(v)
	if !ok {
		return nil, encodeErr(ErrUnsupportedValue, "cannot encode %T as %s", v, c.t.ID())
	}
	if ptr == nil {
		return es.null(), nil
	}
	kvs, err := c.fields(es, ptr)
	if err != nil {
		return nil, err
	}
	return ir.FromKeyVals(kvs), nil
}

// fields encodes the properties of the instance ptr.
func (c *objectCoder) fields(es *encState, ptr any) ([]ir.KeyVal, error) {
	if err := es.push(ptr); err != nil {
		return nil, err
	}
	defer es.pop(ptr)
	if err := es.enter(); err != nil {
		return nil, err
	}
	defer es.leave()

	kvs := make([]ir.KeyVal, 0, len(c.props))
	for _, pc := range c.props {
		key := pc.p.Key()
		v, err := pc.p.Get(ptr)
		if err != nil {
			return nil, withPath(&EncodingError{Kind: ErrUnsupportedValue, Err: err}, ir.FieldSegment(key))
		}
		n, err := pc.c.encode(es, v)
		if err != nil {
			return nil, withPath(err, ir.FieldSegment(key))
		}
		switch {
		case n == nil && pc.p.Include == schema.IncludeAlways:
			n = ir.Null()
		case n == nil:
			continue
		case n.Type == ir.NullType && pc.p.Include == schema.IncludeNonNull:
			continue
		}
		kvs = append(kvs, ir.KeyVal{Key: ir.FromString(key), Val: n})
	}
	return kvs, nil
}

func (c *objectCoder) decode(ds *decState, n *ir.Node) (any, error) {
	if isNull(n) {
		return nil, nil
	}
	if n.Type != ir.ObjectType {
		return nil, mismatch("object", n)
	}
	if err := ds.enter(n); err != nil {
		return nil, err
	}
	defer ds.leave()

	obj := c.shape.New()
	for _, pc := range c.props {
		p := pc.p
		if p.ReadOnly() {
			continue
		}
		seg := ir.FieldSegment(p.Key())
		val := ir.Get(n, p.Key())
		if val == nil && p.JSONName != "" {
			if val = ir.Get(n, p.Name); val != nil {
				seg = ir.FieldSegment(p.Name)
			}
		}
		if isNull(val) {
			v, set, err := c.missing(ds, pc, val)
			if err != nil {
				return nil, withPath(err, seg)
			}
			if !set {
				continue
			}
			if err := p.Set(obj, v); err != nil {
				return nil, withPath(&DecodingError{Kind: ErrTypeMismatch, Node: val, Message: err.Error(), Err: err}, seg)
			}
			continue
		}
		v, err := pc.c.decode(ds, val)
		if err != nil {
			return nil, withPath(err, seg)
		}
		if err := p.Set(obj, v); err != nil {
			return nil, withPath(&DecodingError{Kind: ErrTypeMismatch, Node: val, Message: err.Error(), Err: err}, seg)
		}
	}
	return obj, nil
}

// missing produces the value of a property that is absent (val nil) or
// null. set is false when nothing should be assigned.
func (c *objectCoder) missing(ds *decState, pc *propCoder, val *ir.Node) (v any, set bool, err error) {
	p := pc.p
	switch {
	case p.Required:
		return nil, false, &DecodingError{
			Kind:    ErrMissingProperty,
			Node:    val,
			Message: fmt.Sprintf("required property %q of %s is missing or null", p.Key(), c.t.ID()),
		}
	case p.HasDefault:
		v, err := copyDefault(ds, pc)
		return v, err == nil, err
	case p.DefaultJSON != nil:
		v, err := pc.c.decode(ds, p.DefaultJSON)
		return v, err == nil, err
	case val != nil:
		return nil, true, nil
	}
	return nil, false, nil
}

// copyDefault passes a Go default through the property codec so decoded
// values never share slices, maps or pointers with it. Nulls are kept
// while copying so that IgnoreNulls cannot change the copy.
func copyDefault(ds *decState, pc *propCoder) (any, error) {
	keep := *ds.s
	keep.IgnoreNulls = false
	n, err := pc.c.encode(newEncState(&keep), pc.p.Default)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, nil
	}
	return pc.c.decode(ds, n)
}
