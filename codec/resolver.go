package codec

import (
	"sync"
	"sync/atomic"

	"github.com/signadot/typecodec/debug"
	"github.com/signadot/typecodec/schema"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type cacheKey struct {
	id    string
	style MapStyle
	// exact object codecs never dispatch on a discriminator. They are
	// the variants of polymorphic catalogs.
	exact bool
}

type catalogKey struct {
	root  *schema.Type
	style MapStyle
}

// Resolver builds and memoizes codecs. It is safe for concurrent use;
// codecs it returns read the current configuration on every call.
type Resolver struct {
	mu  sync.Mutex
	reg *schema.Registry
	log *zap.Logger
	cfg atomic.Pointer[settings]

	coders   map[cacheKey]coder
	catalogs map[catalogKey]*catalog
	codecs   map[cacheKey]*Codec
}

func NewResolver(opts ...Option) (*Resolver, error) {
	o := &options{cfg: DefaultConfig()}
	for _, opt := range opts {
		opt(o)
	}
	s, err := o.cfg.settings()
	if err != nil {
		return nil, err
	}
	r := &Resolver{
		reg:      o.reg,
		log:      o.log,
		coders:   map[cacheKey]coder{},
		catalogs: map[catalogKey]*catalog{},
		codecs:   map[cacheKey]*Codec{},
	}
	if r.reg == nil {
		r.reg = schema.NewRegistry()
	}
	switch {
	case r.log != nil:
	case debug.Resolve():
		r.log = debug.Logger()
	default:
		r.log = zap.NewNop()
	}
	r.cfg.Store(s)
	return r, nil
}

func (r *Resolver) Registry() *schema.Registry {
	return r.reg
}

// Config returns the configuration in effect.
func (r *Resolver) Config() Config {
	return r.cfg.Load().Config
}

// Configure validates cfg and makes it the configuration for subsequent
// encode and decode calls. Calls already running keep the configuration
// they started with.
func (r *Resolver) Configure(cfg Config) error {
	s, err := cfg.settings()
	if err != nil {
		return err
	}
	r.cfg.Store(s)
	r.log.Debug("configured",
		zap.String("mapStyle", string(s.MapStyle)),
		zap.String("byteArrays", string(s.ByteArrays)),
		zap.Bool("ignoreNulls", s.IgnoreNulls),
		zap.String("dateFormat", s.DateFormat))
	return nil
}

// CodecFor returns the codec of t, building it on first use. Requests
// for the same descriptor and options return the same *Codec. When
// construction fails nothing built for the request is kept.
func (r *Resolver) CodecFor(t *schema.Type, opts ...CodecOption) (*Codec, error) {
	if t == nil {
		return nil, configErr(nil, ErrUnsupportedShape, "nil descriptor")
	}
	co := &codecOpts{}
	for _, opt := range opts {
		opt(co)
	}
	if co.style != "" {
		if err := checkStyle(co.style); err != nil {
			err.(*ConfigurationError).Type = t.ID()
			return nil, err
		}
	}
	k := cacheKey{id: t.ID(), style: co.style}

	r.mu.Lock()
	defer r.mu.Unlock()
	if cd, ok := r.codecs[k]; ok {
		return cd, nil
	}
	b := &builder{r: r, style: co.style, building: map[cacheKey]bool{}}
	c, err := b.coder(t, false)
	if err == nil {
		err = b.checkDefaults()
	}
	if err != nil {
		b.rollback()
		r.log.Debug("build failed", zap.String("type", k.id), zap.Error(err))
		return nil, err
	}
	cd := &Codec{r: r, t: t, c: c}
	r.codecs[k] = cd
	return cd, nil
}

// Check builds the codec of every given descriptor, or of every
// registered one when none are given, and verifies each has a finite
// value. All problems are reported together.
func (r *Resolver) Check(types ...*schema.Type) error {
	errs := r.reg.Validate()
	if len(types) == 0 {
		types = r.reg.Types()
	}
	for _, t := range types {
		if t == nil {
			continue
		}
		if err := t.Err(); err != nil {
			if reg, ok := r.reg.Lookup(t.Name); !ok || reg != t {
				errs = multierr.Append(errs, err)
			}
			continue
		}
		if _, err := r.CodecFor(t); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		errs = multierr.Append(errs, schema.CheckSatisfiable(t, r.satVariants))
	}
	return errs
}

// variantTypes lists the concrete variants of a polymorphic root.
// Explicit subtypes take precedence over registry discovery; abstract
// ones stand for their own registered descendants.
func (r *Resolver) variantTypes(root *schema.Type) []*schema.Type {
	info := root.TypeInfo
	if info == nil || len(info.Subtypes) == 0 {
		return r.reg.SubtypesOf(root)
	}
	var res []*schema.Type
	seen := map[*schema.Type]bool{}
	add := func(t *schema.Type) {
		if !seen[t] {
			seen[t] = true
			res = append(res, t)
		}
	}
	if !root.Abstract {
		add(root)
	}
	for _, s := range info.Subtypes {
		if s == nil {
			continue
		}
		if s.Abstract {
			for _, x := range r.reg.SubtypesOf(s) {
				add(x)
			}
			continue
		}
		add(s)
	}
	return res
}

func (r *Resolver) satVariants(t *schema.Type) []*schema.Type {
	root := t.Root()
	if root == nil {
		return r.reg.SubtypesOf(t)
	}
	var res []*schema.Type
	for _, v := range r.variantTypes(root) {
		if v.IsSubtypeOf(t) {
			res = append(res, v)
		}
	}
	return res
}

type pendingDefault struct {
	t *schema.Type
	p *schema.Property
	c coder
}

// builder is one top-level construction. Coders are cached before their
// children are built, so a descriptor reached again through its own
// properties or elements gets the unfinished coder. It is complete
// before any value is encoded or decoded.
type builder struct {
	r        *Resolver
	style    MapStyle
	added    []cacheKey
	cats     []catalogKey
	building map[cacheKey]bool
	defaults []pendingDefault
}

func (b *builder) put(k cacheKey, c coder) {
	b.r.coders[k] = c
	b.added = append(b.added, k)
}

func (b *builder) rollback() {
	for _, k := range b.added {
		delete(b.r.coders, k)
	}
	for _, k := range b.cats {
		delete(b.r.catalogs, k)
	}
}

func (b *builder) coder(t *schema.Type, exact bool) (coder, error) {
	if t == nil {
		return nil, configErr(nil, ErrUnsupportedShape, "nil descriptor")
	}
	if err := t.Err(); err != nil {
		return nil, &ConfigurationError{Type: t.ID(), Kind: ErrUnsupportedShape, Message: "invalid descriptor", Err: err}
	}
	if t.Kind != schema.ObjectKind {
		exact = false
	}
	k := cacheKey{id: t.ID(), style: b.style, exact: exact}
	if c, ok := b.r.coders[k]; ok {
		if b.building[k] {
			b.r.log.Debug("recursive reference", zap.String("type", k.id))
		}
		return c, nil
	}
	b.building[k] = true
	defer delete(b.building, k)

	var (
		c   coder
		err error
	)
	switch t.Kind {
	case schema.ScalarKind:
		c, err = b.scalar(t, k)
	case schema.PointerKind:
		c, err = b.pointer(t, k)
	case schema.ArrayKind, schema.ListKind, schema.SetKind, schema.CollectionKind:
		c, err = b.sequence(t, k)
	case schema.MapKind:
		c, err = b.mapping(t, k)
	case schema.EnumKind:
		c, err = b.enum(t, k)
	case schema.ObjectKind:
		c, err = b.object(t, exact, k)
	default:
		err = configErr(t, ErrUnsupportedShape, "unknown kind %s", t.Kind)
	}
	if err != nil {
		return nil, err
	}
	b.r.log.Debug("codec built",
		zap.String("type", k.id),
		zap.Stringer("kind", t.Kind),
		zap.String("style", string(k.style)),
		zap.Bool("exact", k.exact))
	return c, nil
}

func (b *builder) scalar(t *schema.Type, k cacheKey) (coder, error) {
	c, ok := scalarTable[t.Scalar]
	if !ok {
		return nil, configErr(t, ErrUnsupportedShape, "unknown scalar %s", t.Scalar)
	}
	b.put(k, c)
	return c, nil
}

func (b *builder) pointer(t *schema.Type, k cacheKey) (coder, error) {
	args, _ := t.TypeArgs()
	if len(args) != 1 {
		return nil, configErr(t, ErrUnparameterizedCollection, "nullable without element type")
	}
	shape, ok := t.PtrShape()
	if !ok {
		return nil, configErr(t, ErrUnsupportedShape, "nullable without a Go shape")
	}
	c := &ptrCoder{shape: shape}
	b.put(k, c)
	elem, err := b.coder(args[0], false)
	if err != nil {
		return nil, err
	}
	c.elem = elem
	return c, nil
}

func (b *builder) sequence(t *schema.Type, k cacheKey) (coder, error) {
	args, _ := t.TypeArgs()
	if len(args) != 1 {
		return nil, configErr(t, ErrUnparameterizedCollection, "%s without element type", t.Kind)
	}
	shape, ok := t.SeqShape()
	if !ok {
		return nil, configErr(t, ErrUnsupportedShape, "%s without a Go shape", t.Kind)
	}
	elem := args[0]
	if t.Kind == schema.ArrayKind && elem != nil {
		if elem.Kind == schema.ArrayKind {
			return nil, configErr(t, ErrUnsupportedShape, "multi-dimensional array")
		}
		if elem.Kind == schema.ScalarKind && elem.Scalar == schema.ScalarUint8 {
			c := &byteSeqCoder{shape: shape}
			b.put(k, c)
			return c, nil
		}
	}
	c := &seqCoder{kind: t.Kind, shape: shape}
	b.put(k, c)
	ec, err := b.coder(elem, false)
	if err != nil {
		return nil, err
	}
	c.elem = ec
	return c, nil
}

func (b *builder) mapping(t *schema.Type, k cacheKey) (coder, error) {
	args, _ := t.TypeArgs()
	if len(args) != 2 {
		return nil, configErr(t, ErrUnparameterizedCollection, "map without key and value types")
	}
	shape, ok := t.MapShape()
	if !ok {
		return nil, configErr(t, ErrUnsupportedShape, "map without a Go shape")
	}
	c := &mapCoder{t: t, shape: shape, style: b.style, parseKeys: keyParsing(args[0])}
	b.put(k, c)
	kc, err := b.coder(args[0], false)
	if err != nil {
		return nil, err
	}
	vc, err := b.coder(args[1], false)
	if err != nil {
		return nil, err
	}
	c.key, c.value = kc, vc
	return c, nil
}

func (b *builder) enum(t *schema.Type, k cacheKey) (coder, error) {
	shape, ok := t.EnumShape()
	if !ok {
		return nil, configErr(t, ErrUnsupportedShape, "enum without members")
	}
	c := &enumCoder{t: t, shape: shape}
	b.put(k, c)
	return c, nil
}

func (b *builder) object(t *schema.Type, exact bool, k cacheKey) (coder, error) {
	if root := t.Root(); !exact && root != nil && root.TypeInfo.Use != schema.IDNone {
		cat, err := b.catalog(root)
		if err != nil {
			return nil, err
		}
		// building the catalog may have reached t already
		if c, ok := b.r.coders[k]; ok {
			return c, nil
		}
		c := newPolyCoder(t, cat)
		if len(c.variants) == 0 {
			return nil, configErr(t, ErrPolymorphicRegistration, "no concrete variants of %s", t.ID())
		}
		b.put(k, c)
		return c, nil
	}
	if t.Abstract {
		return nil, configErr(t, ErrPolymorphicRegistration, "abstract type without polymorphic type information")
	}
	shape, ok := t.ObjectShape()
	if !ok {
		return nil, configErr(t, ErrUnsupportedShape, "object without a Go shape")
	}
	c := &objectCoder{t: t, shape: shape}
	b.put(k, c)
	for _, p := range objectProps(t, shape.New()) {
		if p.Type == nil {
			return nil, configErr(t, ErrUnsupportedShape, "property %q has no type", p.Name)
		}
		pc, err := b.coder(p.Type, false)
		if err != nil {
			return nil, err
		}
		if p.HasDefault || p.DefaultJSON != nil {
			b.defaults = append(b.defaults, pendingDefault{t: t, p: p, c: pc})
		}
		c.props = append(c.props, &propCoder{p: p, c: pc})
	}
	return c, nil
}

func (b *builder) catalog(root *schema.Type) (*catalog, error) {
	ck := catalogKey{root: root, style: b.style}
	if cat, ok := b.r.catalogs[ck]; ok {
		return cat, nil
	}
	info := root.TypeInfo
	if info.Use == schema.IDCustom && info.Resolver == nil {
		return nil, configErr(root, ErrPolymorphicRegistration, "custom discriminator without a tag resolver")
	}
	cat := &catalog{
		root:  root,
		info:  info,
		prop:  info.PropertyName(),
		byTag: map[string]*variant{},
	}
	for _, vt := range b.r.variantTypes(root) {
		if vt.Kind != schema.ObjectKind || !vt.IsSubtypeOf(root) {
			return nil, configErr(vt, ErrPolymorphicRegistration, "not a subtype of %s", root.ID())
		}
		if vt.Abstract {
			continue
		}
		tag, err := info.TagOf(vt)
		if err != nil {
			return nil, &ConfigurationError{Type: vt.ID(), Kind: ErrPolymorphicRegistration, Message: "discriminator", Err: err}
		}
		if tag == "" {
			return nil, configErr(vt, ErrPolymorphicRegistration, "empty discriminator")
		}
		if prev, ok := cat.byTag[tag]; ok {
			return nil, configErr(vt, ErrPolymorphicRegistration, "discriminator %q is taken by %s", tag, prev.t.ID())
		}
		vr := &variant{t: vt, tag: tag}
		cat.variants = append(cat.variants, vr)
		cat.byTag[tag] = vr
	}
	if len(cat.variants) == 0 {
		return nil, configErr(root, ErrPolymorphicRegistration, "no concrete variants")
	}
	if d := info.DefaultImpl; d != nil {
		found := false
		for _, vr := range cat.variants {
			found = found || vr.t == d
		}
		if !found {
			return nil, configErr(root, ErrPolymorphicRegistration, "default implementation %s is not a variant", d.ID())
		}
	}
	b.r.catalogs[ck] = cat
	b.cats = append(b.cats, ck)
	for _, vr := range cat.variants {
		c, err := b.coder(vr.t, true)
		if err != nil {
			return nil, err
		}
		obj, ok := c.(*objectCoder)
		if !ok {
			return nil, configErr(vr.t, ErrPolymorphicRegistration, "variant is not a concrete object")
		}
		vr.obj = obj
	}
	b.r.log.Debug("catalog built",
		zap.String("root", root.ID()),
		zap.Int("variants", len(cat.variants)),
		zap.String("property", cat.prop),
		zap.Stringer("include", info.Include))
	return cat, nil
}

// checkDefaults decodes every default reached by the build; Go-valued
// defaults are copied through their codec the way decoding does.
func (b *builder) checkDefaults() error {
	ds := &decState{s: b.r.cfg.Load()}
	for _, d := range b.defaults {
		var err error
		if d.p.HasDefault {
			_, err = copyDefault(ds, &propCoder{p: d.p, c: d.c})
		} else {
			_, err = d.c.decode(ds, d.p.DefaultJSON)
		}
		if err != nil {
			return &ConfigurationError{
				Type:    d.t.ID(),
				Kind:    ErrInvalidConfig,
				Message: "default of property " + d.p.Key(),
				Err:     err,
			}
		}
	}
	return nil
}
