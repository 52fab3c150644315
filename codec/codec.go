package codec

import (
	"bytes"
	"errors"
	"io"

	"github.com/signadot/typecodec/debug"
	"github.com/signadot/typecodec/encode"
	"github.com/signadot/typecodec/ir"
	"github.com/signadot/typecodec/parse"
	"github.com/signadot/typecodec/schema"
)

// Codec converts between values of one descriptor and JSON.
type Codec struct {
	r *Resolver
	t *schema.Type
	c coder
}

func (c *Codec) Type() *schema.Type {
	return c.t
}

// ToIR encodes v. A null v gives a JSON null even when nulls are
// ignored.
func (c *Codec) ToIR(v any) (*ir.Node, error) {
	n, err := c.c.encode(newEncState(c.r.cfg.Load()), v)
	if err != nil {
		return nil, err
	}
	if n == nil {
		n = ir.Null()
	}
	if debug.Encode() {
		debug.Logf("encoded %s: %s\n", c.t.ID(), n)
	}
	return n, nil
}

// FromIR decodes n. A JSON null decodes to nil for every descriptor
// except char.
func (c *Codec) FromIR(n *ir.Node) (any, error) {
	if n == nil {
		n = ir.Null()
	}
	if debug.Decode() {
		debug.Logf("decoding %s: %s\n", c.t.ID(), n)
	}
	return c.c.decode(&decState{s: c.r.cfg.Load()}, n)
}

// Marshal encodes v as compact JSON unless opts say otherwise.
func (c *Codec) Marshal(v any, opts ...encode.EncodeOption) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := c.Encode(buf, v, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *Codec) Unmarshal(d []byte) (any, error) {
	n, err := parse.Parse(d, parse.ParseMaxDepth(c.r.cfg.Load().MaxDepth))
	if err != nil {
		return nil, parseErr(err)
	}
	return c.FromIR(n)
}

func (c *Codec) Encode(w io.Writer, v any, opts ...encode.EncodeOption) error {
	n, err := c.ToIR(v)
	if err != nil {
		return err
	}
	opts = append([]encode.EncodeOption{encode.EncodeWire(true)}, opts...)
	if err := encode.Encode(n, w, opts...); err != nil {
		if errors.Is(err, encode.ErrEncoding) {
			return &EncodingError{Kind: ErrUnsupportedValue, Err: err}
		}
		return err
	}
	return nil
}

func (c *Codec) Decode(r io.Reader) (any, error) {
	n, err := parse.ParseReader(r, parse.ParseMaxDepth(c.r.cfg.Load().MaxDepth))
	if err != nil {
		var se *parse.SyntaxError
		if !errors.As(err, &se) {
			return nil, err
		}
		return nil, parseErr(err)
	}
	return c.FromIR(n)
}

func parseErr(err error) error {
	kind := ErrMalformed
	if errors.Is(err, parse.ErrDepth) {
		kind = ErrDepthExceeded
	}
	return &DecodingError{Kind: kind, Message: "invalid JSON", Err: err}
}

// Typed is a Codec for values held as T.
type Typed[T any] struct {
	*Codec
}

// For returns the codec of t for values of type T. Decoded pointers to T
// are dereferenced.
func For[T any](r *Resolver, t *schema.Type, opts ...CodecOption) (*Typed[T], error) {
	c, err := r.CodecFor(t, opts...)
	if err != nil {
		return nil, err
	}
	return &Typed[T]{Codec: c}, nil
}

func (c *Typed[T]) ToIR(v T) (*ir.Node, error) {
	return c.Codec.ToIR(v)
}

func (c *Typed[T]) FromIR(n *ir.Node) (T, error) {
	v, err := c.Codec.FromIR(n)
	if err != nil {
		var zero T
		return zero, err
	}
	return c.as(v, n)
}

func (c *Typed[T]) Marshal(v T, opts ...encode.EncodeOption) ([]byte, error) {
	return c.Codec.Marshal(v, opts...)
}

func (c *Typed[T]) Unmarshal(d []byte) (T, error) {
	v, err := c.Codec.Unmarshal(d)
	if err != nil {
		var zero T
		return zero, err
	}
	return c.as(v, nil)
}

func (c *Typed[T]) as(v any, n *ir.Node) (T, error) {
	x, err := schema.As[T](v)
	if err != nil {
		return x, &DecodingError{Kind: ErrTypeMismatch, Node: n, Message: err.Error(), Err: err}
	}
	return x, nil
}
