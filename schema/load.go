package schema

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/signadot/typecodec/ir"
	"go.uber.org/multierr"
)

// Descriptor files
//
// A descriptor file declares record-backed types:
//
//	types:
//	  - name: zoo.Animal
//	    abstract: true
//	    typeInfo: {use: name, property: kind}
//	  - name: zoo.Cat
//	    extends: zoo.Animal
//	    tag: cat
//	    properties:
//	      - {name: name, type: string, required: true}
//	      - {name: lives, type: int32, default: 9}
//	      - {name: friends, type: "list<zoo.Cat>"}
//	  - name: zoo.Color
//	    kind: enum
//	    values: [RED, GREEN]
//
// Type expressions are scalar names, declared names, and list<T>,
// set<T>, collection<T>, array<T>, map<K,V> and ptr<T>. Names may refer
// to types declared later in the file and to types already registered.

type fileDoc struct {
	Types []*typeDoc `yaml:"types"`
}

type typeDoc struct {
	Name       string       `yaml:"name"`
	Kind       string       `yaml:"kind"`
	Params     []string     `yaml:"params"`
	Extends    string       `yaml:"extends"`
	Abstract   bool         `yaml:"abstract"`
	Tag        string       `yaml:"tag"`
	Doc        string       `yaml:"doc"`
	Values     []string     `yaml:"values"`
	TypeInfo   *typeInfoDoc `yaml:"typeInfo"`
	Properties []*propDoc   `yaml:"properties"`
}

type typeInfoDoc struct {
	Use      string   `yaml:"use"`
	Include  string   `yaml:"include"`
	Property string   `yaml:"property"`
	Default  string   `yaml:"default"`
	Subtypes []string `yaml:"subtypes"`
	Expr     string   `yaml:"expr"`
}

type propDoc struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Rename   string `yaml:"rename"`
	Default  any    `yaml:"default"`
	Required bool   `yaml:"required"`
	Include  string `yaml:"include"`
}

// LoadFile reads a descriptor file and registers its types in reg.
func LoadFile(path string, reg *Registry) ([]*Type, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ts, err := Load(d, reg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ts, nil
}

// Load parses descriptor file contents and registers the types in reg.
// All problems found are reported together.
func Load(d []byte, reg *Registry) ([]*Type, error) {
	doc := &fileDoc{}
	if err := yaml.Unmarshal(d, doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchema, err)
	}
	l := &loader{reg: reg, local: map[string]*Type{}}
	var errs error
	var res []*Type
	for _, td := range doc.Types {
		t, err := l.declare(td)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		res = append(res, t)
	}
	if errs != nil {
		return nil, errs
	}
	for i, td := range doc.Types {
		errs = multierr.Append(errs, l.define(res[i], td))
	}
	if errs != nil {
		return nil, errs
	}
	if err := reg.Register(res...); err != nil {
		return nil, err
	}
	return res, nil
}

type loader struct {
	reg   *Registry
	local map[string]*Type
}

func (l *loader) lookup(name string) (*Type, bool) {
	if t, ok := l.local[name]; ok {
		return t, true
	}
	return l.reg.Lookup(name)
}

// declare creates an empty descriptor so that later definitions can refer
// to it.
func (l *loader) declare(td *typeDoc) (*Type, error) {
	if td.Name == "" {
		return nil, fmt.Errorf("%w: type without name", ErrSchema)
	}
	if _, ok := l.lookup(td.Name); ok {
		return nil, fmt.Errorf("%w: type %q declared twice", ErrSchema, td.Name)
	}
	kind := td.Kind
	if kind == "" {
		kind = "object"
	}
	var t *Type
	switch kind {
	case "object":
		t = RecordObject(td.Name)
		t.Abstract = td.Abstract
	case "enum":
		t = Enum(td.Name, td.Values...)
	case "derived":
		if td.Extends == "" {
			return nil, fmt.Errorf("%w: %s: derived type needs extends", ErrSchema, td.Name)
		}
		t = &Type{Name: td.Name}
	default:
		k, err := ParseKind(kind)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", td.Name, err)
		}
		switch k {
		case ListKind:
			t = DynamicList(nil)
		case SetKind:
			t = DynamicSet(nil)
		case CollectionKind:
			t = DynamicCollection(nil)
		case ArrayKind:
			t = DynamicArray(nil)
		case MapKind:
			t = DynamicMap(nil, nil)
		default:
			return nil, fmt.Errorf("%w: %s: kind %s cannot be declared", ErrSchema, td.Name, k)
		}
		t.Name = td.Name
	}
	t.Tag = td.Tag
	t.Doc = td.Doc
	l.local[td.Name] = t
	return t, nil
}

func (l *loader) define(t *Type, td *typeDoc) error {
	var errs error
	if td.Extends != "" {
		super, err := l.typeExpr(td.Extends)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: extends: %w", td.Name, err))
		} else {
			t.Super = super
			if td.Kind == "derived" {
				t.Kind = super.Kind
				t.Scalar = super.Scalar
			}
		}
	}
	if len(td.Params) > 0 {
		ps := make([]*Type, 0, len(td.Params))
		for _, p := range td.Params {
			pt, err := l.typeExpr(p)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("%s: params: %w", td.Name, err))
				continue
			}
			ps = append(ps, pt)
		}
		t.Params = ps
		if t.Kind == MapKind && len(ps) == 2 {
			// string keyed maps decode to map[string]any
			t.shape = DynamicMap(ps[0], ps[1]).shape
		}
	}
	for _, pd := range td.Properties {
		p, err := l.property(pd)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s.%s: %w", td.Name, pd.Name, err))
			continue
		}
		t.Define(p)
	}
	if td.TypeInfo != nil {
		ti, err := l.typeInfo(td.TypeInfo)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: typeInfo: %w", td.Name, err))
		} else {
			t.TypeInfo = ti
		}
	}
	return multierr.Append(errs, t.Err())
}

func (l *loader) property(pd *propDoc) (*Property, error) {
	if pd.Name == "" {
		return nil, fmt.Errorf("%w: property without name", ErrSchema)
	}
	pt, err := l.typeExpr(pd.Type)
	if err != nil {
		return nil, err
	}
	inc, err := ParseInclude(pd.Include)
	if err != nil {
		return nil, err
	}
	opts := []PropOption{Rename(pd.Rename), WithInclude(inc)}
	if pd.Required {
		opts = append(opts, Required())
	}
	if pd.Default != nil {
		n, err := ir.FromAny(pd.Default)
		if err != nil {
			return nil, fmt.Errorf("default: %w", err)
		}
		opts = append(opts, DefaultJSON(n))
	}
	return RecordProp(pd.Name, pt, opts...), nil
}

func (l *loader) typeInfo(tid *typeInfoDoc) (*TypeInfo, error) {
	use, err := ParseIDKind(tid.Use)
	if err != nil {
		return nil, err
	}
	inc, err := ParseInclusion(tid.Include)
	if err != nil {
		return nil, err
	}
	ti := &TypeInfo{Use: use, Include: inc, Property: tid.Property}
	if tid.Default != "" {
		d, ok := l.lookup(tid.Default)
		if !ok {
			return nil, fmt.Errorf("%w: unknown default type %q", ErrSchema, tid.Default)
		}
		ti.DefaultImpl = d
	}
	for _, s := range tid.Subtypes {
		st, ok := l.lookup(s)
		if !ok {
			return nil, fmt.Errorf("%w: unknown subtype %q", ErrSchema, s)
		}
		ti.Subtypes = append(ti.Subtypes, st)
	}
	if tid.Expr != "" {
		if use != IDCustom {
			return nil, fmt.Errorf("%w: expr requires use: custom", ErrSchema)
		}
		r, err := NewExprTags(tid.Expr)
		if err != nil {
			return nil, err
		}
		ti.Resolver = r
	}
	return ti, nil
}

var generics = map[string]Kind{
	"list":       ListKind,
	"set":        SetKind,
	"collection": CollectionKind,
	"array":      ArrayKind,
	"map":        MapKind,
	"ptr":        PointerKind,
}

// ParseTypeExpr parses a type expression such as "map<string,list<zoo.Cat>>"
// against the descriptors registered in reg.
func ParseTypeExpr(s string, reg *Registry) (*Type, error) {
	l := &loader{reg: reg, local: map[string]*Type{}}
	return l.typeExpr(s)
}

// typeExpr parses a type expression such as "map<string,list<zoo.Cat>>".
func (l *loader) typeExpr(s string) (*Type, error) {
	p := &exprParser{src: s, l: l}
	t, err := p.parse()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("%w: trailing text in type %q", ErrSchema, s)
	}
	return t, nil
}

type exprParser struct {
	src string
	pos int
	l   *loader
}

func (p *exprParser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *exprParser) parse() (*Type, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) && !strings.ContainsRune("<>, ", rune(p.src[p.pos])) {
		p.pos++
	}
	name := p.src[start:p.pos]
	if name == "" {
		return nil, fmt.Errorf("%w: expected type name in %q", ErrSchema, p.src)
	}
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == '<' {
		kind, ok := generics[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q takes no type arguments", ErrSchema, name)
		}
		p.pos++
		var args []*Type
		for {
			arg, err := p.parse()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			p.skipSpace()
			if p.pos >= len(p.src) {
				return nil, fmt.Errorf("%w: unterminated type arguments in %q", ErrSchema, p.src)
			}
			if p.src[p.pos] == ',' {
				p.pos++
				continue
			}
			if p.src[p.pos] == '>' {
				p.pos++
				break
			}
			return nil, fmt.Errorf("%w: unexpected %q in %q", ErrSchema, p.src[p.pos], p.src)
		}
		if len(args) != kind.Arity() {
			return nil, fmt.Errorf("%w: %s takes %d type arguments, got %d", ErrSchema, name, kind.Arity(), len(args))
		}
		return p.l.reg.Intern(dynamicOf(kind, args)), nil
	}
	if t, ok := ScalarByName(name); ok {
		return t, nil
	}
	if t, ok := p.l.lookup(name); ok {
		return t, nil
	}
	if _, ok := generics[name]; ok {
		return nil, fmt.Errorf("%w: %s needs type arguments", ErrSchema, name)
	}
	return nil, fmt.Errorf("%w: unknown type %q", ErrSchema, name)
}

func dynamicOf(k Kind, args []*Type) *Type {
	switch k {
	case ListKind:
		return DynamicList(args[0])
	case SetKind:
		return DynamicSet(args[0])
	case CollectionKind:
		return DynamicCollection(args[0])
	case ArrayKind:
		if args[0].Kind == ScalarKind && args[0].Scalar == ScalarUint8 {
			return ArrayOf[[]byte](args[0])
		}
		return DynamicArray(args[0])
	case MapKind:
		return DynamicMap(args[0], args[1])
	}
	// record values are already nullable
	return args[0]
}
