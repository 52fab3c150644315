package codec

import (
	"fmt"
	"slices"
	"strings"

	"github.com/signadot/typecodec/ir"
	"github.com/signadot/typecodec/schema"
)

// catalog is the closed set of concrete variants of one polymorphic root.
type catalog struct {
	root     *schema.Type
	info     *schema.TypeInfo
	prop     string
	variants []*variant
	byTag    map[string]*variant
}

type variant struct {
	t   *schema.Type
	tag string
	obj *objectCoder
}

// polyCoder dispatches on the concrete variant. Codecs for a type below
// the root see only the variants below that type.
type polyCoder struct {
	t        *schema.Type
	cat      *catalog
	variants []*variant
	byTag    map[string]*variant
	fallback *variant
}

func newPolyCoder(t *schema.Type, cat *catalog) *polyCoder {
	c := &polyCoder{t: t, cat: cat, byTag: map[string]*variant{}}
	for _, v := range cat.variants {
		if !v.t.IsSubtypeOf(t) {
			continue
		}
		c.variants = append(c.variants, v)
		c.byTag[v.tag] = v
	}
	if d := cat.info.DefaultImpl; d != nil {
		c.fallback = c.variantOf(d)
	} else if len(c.variants) == 1 {
		c.fallback = c.variants[0]
	}
	return c
}

func (c *polyCoder) variantOf(t *schema.Type) *variant {
	for _, v := range c.variants {
		if v.t == t {
			return v
		}
	}
	return nil
}

func (c *polyCoder) tags() string {
	tags := make([]string, 0, len(c.variants))
	for _, v := range c.variants {
		tags = append(tags, v.tag)
	}
	slices.Sort(tags)
	return strings.Join(tags, ", ")
}

func (c *polyCoder) encode(es *encState, v any) (*ir.Node, error) {
	if v == nil {
		return es.null(), nil
	}
	var (
		vr  *variant
		ptr any
	)
	for _, x := range c.variants {
		if p, ok := x.obj.shape.Instance(v); ok {
			vr, ptr = x, p
			break
		}
	}
	if vr == nil {
		return nil, encodeErr(ErrUnregisteredSubtype, "%T is not a registered subtype of %s", v, c.t.ID())
	}
	if ptr == nil {
		return es.null(), nil
	}
	kvs, err := vr.obj.fields(es, ptr)
	if err != nil {
		return nil, err
	}
	tag := ir.KeyVal{Key: ir.FromString(c.cat.prop), Val: ir.FromString(vr.tag)}
	switch c.cat.info.Include {
	case schema.AsWrapperObject:
		return ir.FromKeyVals([]ir.KeyVal{{Key: ir.FromString(vr.tag), Val: ir.FromKeyVals(kvs)}}), nil
	case schema.AsExistingProperty:
		if slices.ContainsFunc(kvs, func(kv ir.KeyVal) bool { return kv.Key.String == c.cat.prop }) {
			return ir.FromKeyVals(kvs), nil
		}
	default:
		if slices.ContainsFunc(kvs, func(kv ir.KeyVal) bool { return kv.Key.String == c.cat.prop }) {
			return nil, encodeErr(ErrDuplicateKey, "%s has a property named like its discriminator %q", vr.t.ID(), c.cat.prop)
		}
	}
	return ir.FromKeyVals(append([]ir.KeyVal{tag}, kvs...)), nil
}

func (c *polyCoder) decode(ds *decState, n *ir.Node) (any, error) {
	if isNull(n) {
		return nil, nil
	}
	if c.cat.info.Include == schema.AsWrapperObject {
		if n.Type != ir.ObjectType || len(n.Fields) != 1 {
			return nil, mismatch("object with a single discriminator key", n)
		}
		tag := n.Fields[0].String
		vr, err := c.lookup(tag, n)
		if err != nil {
			return nil, err
		}
		res, err := vr.obj.decode(ds, n.Values[0])
		return res, withPath(err, ir.FieldSegment(tag))
	}
	if n.Type != ir.ObjectType {
		return nil, mismatch("object", n)
	}
	vr, err := c.dispatch(n)
	if err != nil {
		return nil, err
	}
	return vr.obj.decode(ds, n)
}

// dispatch picks the variant of an object in property form.
func (c *polyCoder) dispatch(n *ir.Node) (*variant, error) {
	d := ir.Get(n, c.cat.prop)
	if !isNull(d) {
		if d.Type != ir.StringType {
			return nil, withPath(mismatch("discriminator string", d), ir.FieldSegment(c.cat.prop))
		}
		vr, err := c.lookup(d.String, d)
		return vr, withPath(err, ir.FieldSegment(c.cat.prop))
	}
	info := c.cat.info
	if info.Use == schema.IDCustom && info.Resolver != nil {
		tag, ok, err := info.Resolver.TagFrom(n)
		if err != nil {
			return nil, &DecodingError{Kind: ErrMissingDiscriminator, Node: n, Message: "deriving discriminator", Err: err}
		}
		if ok {
			return c.lookup(tag, n)
		}
	}
	if c.fallback != nil {
		return c.fallback, nil
	}
	return nil, &DecodingError{
		Kind:    ErrMissingDiscriminator,
		Node:    n,
		Message: fmt.Sprintf("%s needs a %q property", c.t.ID(), c.cat.prop),
	}
}

func (c *polyCoder) lookup(tag string, n *ir.Node) (*variant, error) {
	if vr, ok := c.byTag[tag]; ok {
		return vr, nil
	}
	return nil, &DecodingError{
		Kind:     ErrUnknownDiscriminator,
		Expected: "one of " + c.tags(),
		Node:     n,
	}
}
