package encode

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/go-json-experiment/json/jsontext"
	"github.com/signadot/typecodec/ir"
)

var ErrEncoding = errors.New("encoding error")

type EncState struct {
	depth, indent int
	wire          bool

	Color func(ir.Type, ColorAttr, string) string
}

// Encode writes node to w as JSON. Unless EncodeWire is given the output
// is indented and ends with a newline.
func Encode(node *ir.Node, w io.Writer, opts ...EncodeOption) error {
	es := &EncState{
		indent: 2,
	}
	for _, opt := range opts {
		opt(es)
	}
	if node == nil {
		node = ir.Null()
	}
	if err := encode(node, w, es); err != nil {
		return err
	}
	if es.wire {
		return nil
	}
	return writeString(w, "\n")
}

func encode(node *ir.Node, w io.Writer, es *EncState) error {
	switch node.Type {
	case ir.NullType:
		return es.writeValue(w, node.Type, "null")
	case ir.BoolType:
		if node.Bool {
			return es.writeValue(w, node.Type, "true")
		}
		return es.writeValue(w, node.Type, "false")
	case ir.NumberType:
		if node.Number == "" && node.Int64 == nil && node.Float64 != nil {
			f := *node.Float64
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return fmt.Errorf("%w: %v is not representable in JSON", ErrEncoding, f)
			}
		}
		return es.writeValue(w, node.Type, node.NumberText())
	case ir.StringType:
		q, err := quote(node.String)
		if err != nil {
			return err
		}
		return es.writeValue(w, node.Type, q)
	case ir.ArrayType:
		return encodeArray(node, w, es)
	case ir.ObjectType:
		return encodeObject(node, w, es)
	}
	return fmt.Errorf("%w: unknown node type %d", ErrEncoding, node.Type)
}

func encodeArray(node *ir.Node, w io.Writer, es *EncState) error {
	if len(node.Values) == 0 {
		return es.writeSep(w, node.Type, "[]")
	}
	if err := es.writeSep(w, node.Type, "["); err != nil {
		return err
	}
	es.depth++
	for i, v := range node.Values {
		if i > 0 {
			if err := es.writeSep(w, node.Type, ","); err != nil {
				return err
			}
		}
		if err := es.writeNL(w); err != nil {
			return err
		}
		if err := encode(v, w, es); err != nil {
			return err
		}
	}
	es.depth--
	if err := es.writeNL(w); err != nil {
		return err
	}
	return es.writeSep(w, node.Type, "]")
}

func encodeObject(node *ir.Node, w io.Writer, es *EncState) error {
	if len(node.Fields) == 0 {
		return es.writeSep(w, node.Type, "{}")
	}
	if err := es.writeSep(w, node.Type, "{"); err != nil {
		return err
	}
	es.depth++
	for i, f := range node.Fields {
		if i > 0 {
			if err := es.writeSep(w, node.Type, ","); err != nil {
				return err
			}
		}
		if err := es.writeNL(w); err != nil {
			return err
		}
		if f.Type != ir.StringType {
			return fmt.Errorf("%w: object key of type %s", ErrEncoding, f.Type)
		}
		q, err := quote(f.String)
		if err != nil {
			return err
		}
		if es.Color != nil {
			q = es.Color(ir.ObjectType, FieldColor, q)
		}
		if err := writeString(w, q); err != nil {
			return err
		}
		colon := ":"
		if !es.wire {
			colon = ": "
		}
		if err := es.writeSep(w, node.Type, colon); err != nil {
			return err
		}
		if err := encode(node.Values[i], w, es); err != nil {
			return err
		}
	}
	es.depth--
	if err := es.writeNL(w); err != nil {
		return err
	}
	return es.writeSep(w, node.Type, "}")
}

// quote renders s as a JSON string literal.
func quote(s string) (string, error) {
	buf := bytes.NewBuffer(nil)
	enc := jsontext.NewEncoder(buf)
	if err := enc.WriteToken(jsontext.String(s)); err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

func (es *EncState) writeNL(w io.Writer) error {
	if es.wire {
		return nil
	}
	return writeString(w, "\n"+strings.Repeat(" ", es.indent*es.depth))
}

func (es *EncState) writeValue(w io.Writer, t ir.Type, s string) error {
	if es.Color != nil {
		s = es.Color(t, ValueColor, s)
	}
	return writeString(w, s)
}

func (es *EncState) writeSep(w io.Writer, t ir.Type, s string) error {
	if es.Color != nil {
		s = es.Color(t, SepColor, s)
	}
	return writeString(w, s)
}

func writeString(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	return err
}
