package parse

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-json-experiment/json/jsontext"
	"github.com/signadot/typecodec/ir"
	"github.com/tidwall/jsonc"
)

// Parse parses exactly one JSON value from d.
func Parse(d []byte, opts ...ParseOption) (*ir.Node, error) {
	o := &parseOpts{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(o)
	}
	if o.comments {
		d = jsonc.ToJSON(d)
	}
	dec := jsontext.NewDecoder(bytes.NewReader(d), jsontext.AllowDuplicateNames(o.duplicates))
	p := &parser{dec: dec, opts: o}
	node, err := p.value(0)
	if err != nil {
		return nil, p.wrap(err)
	}
	if _, err := dec.ReadToken(); err != io.EOF {
		if err == nil {
			err = ErrTrailing
		}
		return nil, p.wrap(err)
	}
	return node, nil
}

func ParseReader(r io.Reader, opts ...ParseOption) (*ir.Node, error) {
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(d, opts...)
}

type parser struct {
	dec  *jsontext.Decoder
	opts *parseOpts
}

func (p *parser) wrap(err error) error {
	if errors.Is(err, io.EOF) {
		err = fmt.Errorf("%w: unexpected end of input", ErrParse)
	}
	return &SyntaxError{Offset: p.dec.InputOffset(), Err: err}
}

func (p *parser) value(depth int) (*ir.Node, error) {
	tok, err := p.dec.ReadToken()
	if err != nil {
		return nil, err
	}
	switch tok.Kind() {
	case 'n':
		return ir.Null(), nil
	case 't', 'f':
		return ir.FromBool(tok.Bool()), nil
	case '"':
		return ir.FromString(tok.String()), nil
	case '0':
		return ir.FromNumber(tok.String()), nil
	case '[':
		if depth+1 > p.opts.maxDepth {
			return nil, ErrDepth
		}
		return p.array(depth + 1)
	case '{':
		if depth+1 > p.opts.maxDepth {
			return nil, ErrDepth
		}
		return p.object(depth + 1)
	}
	return nil, fmt.Errorf("%w: unexpected token %c", ErrParse, tok.Kind())
}

func (p *parser) array(depth int) (*ir.Node, error) {
	vals := []*ir.Node{}
	for p.dec.PeekKind() != ']' {
		v, err := p.value(depth)
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	if _, err := p.dec.ReadToken(); err != nil {
		return nil, err
	}
	return ir.FromSlice(vals), nil
}

func (p *parser) object(depth int) (*ir.Node, error) {
	kvs := []ir.KeyVal{}
	index := map[string]int{}
	for p.dec.PeekKind() != '}' {
		keyTok, err := p.dec.ReadToken()
		if err != nil {
			return nil, err
		}
		key := keyTok.String()
		v, err := p.value(depth)
		if err != nil {
			return nil, err
		}
		if i, ok := index[key]; ok {
			kvs[i].Val = v
			continue
		}
		index[key] = len(kvs)
		kvs = append(kvs, ir.KeyVal{Key: ir.FromString(key), Val: v})
	}
	if _, err := p.dec.ReadToken(); err != nil {
		return nil, err
	}
	return ir.FromKeyVals(kvs), nil
}
