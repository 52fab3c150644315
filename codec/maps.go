package codec

import (
	"slices"
	"strings"

	"github.com/signadot/typecodec/encode"
	"github.com/signadot/typecodec/ir"
	"github.com/signadot/typecodec/parse"
	"github.com/signadot/typecodec/schema"
)

const (
	entryKey      = "entry"
	entryKeyKey   = "key"
	entryValueKey = "value"
)

type mapCoder struct {
	t     *schema.Type
	shape schema.MapShape
	key   coder
	value coder
	// style is empty when the configured style applies.
	style MapStyle
	// parseKeys decodes property names as JSON text before falling back
	// to the name itself.
	parseKeys bool
}

func (c *mapCoder) styleFor(s *settings) MapStyle {
	if c.style != "" {
		return c.style
	}
	return s.MapStyle
}

type mapEntry struct {
	key   string
	value *ir.Node
}

func (c *mapCoder) encode(es *encState, v any) (*ir.Node, error) {
	entries, ok, err := c.shape.Entries(v)
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
	res := make([]mapEntry, 0, len(entries))
	for _, e := range entries {
		kn, err := c.key.encode(es, e.Key)
		if err != nil {
			return nil, err
		}
		if isNull(kn) {
			return nil, encodeErr(ErrUnsupportedValue, "null map key")
		}
		key := kn.String
		if kn.Type != ir.StringType {
			key = encode.String(kn)
		}
		vn, err := c.value.encode(es, e.Value)
		if err != nil {
			return nil, withPath(err, ir.FieldSegment(key))
		}
		if vn == nil {
			continue
		}
		res = append(res, mapEntry{key: key, value: vn})
	}
	slices.SortFunc(res, func(a, b mapEntry) int { return strings.Compare(a.key, b.key) })
	for i := 1; i < len(res); i++ {
		if res[i].key == res[i-1].key {
			return nil, encodeErr(ErrDuplicateKey, "two keys encode as %q", res[i].key)
		}
	}
	if c.styleFor(es.s) == EntryMaps {
		vals := make([]*ir.Node, len(res))
		for i, e := range res {
			vals[i] = ir.FromKeyVals([]ir.KeyVal{
				{Key: ir.FromString(entryKeyKey), Val: ir.FromString(e.key)},
				{Key: ir.FromString(entryValueKey), Val: e.value},
			})
		}
		return ir.FromKeyVals([]ir.KeyVal{{Key: ir.FromString(entryKey), Val: ir.FromSlice(vals)}}), nil
	}
	kvs := make([]ir.KeyVal, len(res))
	for i, e := range res {
		kvs[i] = ir.KeyVal{Key: ir.FromString(e.key), Val: e.value}
	}
	return ir.FromKeyVals(kvs), nil
}

func (c *mapCoder) decode(ds *decState, n *ir.Node) (any, error) {
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
	var (
		entries []schema.Entry
		err     error
	)
	if c.styleFor(ds.s) == EntryMaps {
		entries, err = c.decodeEntries(ds, n)
	} else {
		entries, err = c.decodeSimple(ds, n)
	}
	if err != nil {
		return nil, err
	}
	res, err := c.shape.Build(entries)
	if err != nil {
		return nil, &DecodingError{Kind: ErrTypeMismatch, Node: n, Message: err.Error(), Err: err}
	}
	return res, nil
}

func (c *mapCoder) decodeSimple(ds *decState, n *ir.Node) ([]schema.Entry, error) {
	entries := make([]schema.Entry, 0, len(n.Fields))
	for i, f := range n.Fields {
		seg := ir.FieldSegment(f.String)
		k, err := c.decodeKey(ds, f.String)
		if err != nil {
			return nil, withPath(err, seg)
		}
		v, err := c.value.decode(ds, n.Values[i])
		if err != nil {
			return nil, withPath(err, seg)
		}
		entries = append(entries, schema.Entry{Key: k, Value: v})
	}
	return entries, nil
}

func (c *mapCoder) decodeEntries(ds *decState, n *ir.Node) ([]schema.Entry, error) {
	list := ir.Get(n, entryKey)
	if list == nil {
		return nil, &DecodingError{Kind: ErrMissingProperty, Node: n, Message: `expected an "entry" array`}
	}
	if list.Type != ir.ArrayType {
		return nil, withPath(mismatch("entry array", list), ir.FieldSegment(entryKey))
	}
	entries := make([]schema.Entry, 0, len(list.Values))
	for i, e := range list.Values {
		seg := ir.FieldSegment(entryKey) + ir.IndexSegment(i)
		if e.Type != ir.ObjectType {
			return nil, withPath(mismatch("entry object", e), seg)
		}
		kn := ir.Get(e, entryKeyKey)
		if kn == nil {
			return nil, withPath(&DecodingError{Kind: ErrMissingProperty, Node: e, Message: `entry without "key"`}, seg)
		}
		if kn.Type != ir.StringType {
			return nil, withPath(mismatch("string", kn), seg+ir.FieldSegment(entryKeyKey))
		}
		k, err := c.decodeKey(ds, kn.String)
		if err != nil {
			return nil, withPath(err, seg+ir.FieldSegment(entryKeyKey))
		}
		vn := ir.Get(e, entryValueKey)
		if vn == nil {
			vn = ir.Null()
		}
		v, err := c.value.decode(ds, vn)
		if err != nil {
			return nil, withPath(err, seg+ir.FieldSegment(entryValueKey))
		}
		entries = append(entries, schema.Entry{Key: k, Value: v})
	}
	return entries, nil
}

func (c *mapCoder) decodeKey(ds *decState, s string) (any, error) {
	if c.parseKeys {
		if parsed, err := parse.Parse([]byte(s), parse.ParseMaxDepth(ds.s.MaxDepth)); err == nil {
			if k, err := c.key.decode(ds, parsed); err == nil && k != nil {
				return k, nil
			}
		}
	}
	kn := ir.FromString(s)
	k, err := c.key.decode(ds, kn)
	if err != nil {
		return nil, err
	}
	if k == nil {
		return nil, decodeErr(ErrTypeMismatch, kn, "map key decodes to null")
	}
	return k, nil
}

// keyParsing reports whether property names may hold keys of t as JSON
// text. String and enum keys are always the name itself.
func keyParsing(t *schema.Type) bool {
	for t != nil && t.Kind == schema.PointerKind {
		args, _ := t.TypeArgs()
		if len(args) == 0 {
			return true
		}
		t = args[0]
	}
	if t == nil {
		return true
	}
	switch t.Kind {
	case schema.EnumKind:
		return false
	case schema.ScalarKind:
		return t.Scalar != schema.ScalarString
	}
	return true
}
