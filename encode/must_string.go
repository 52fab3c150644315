package encode

import (
	"bytes"
	"strings"

	"github.com/signadot/typecodec/ir"
)

func MustString(node *ir.Node, opts ...EncodeOption) string {
	buf := bytes.NewBuffer(nil)
	if err := Encode(node, buf, opts...); err != nil {
		panic(err)
	}
	return strings.TrimSpace(buf.String())
}

// String renders node in wire form, falling back to a placeholder for
// values JSON cannot represent. It is meant for messages.
func String(node *ir.Node) string {
	if node == nil {
		return "<nil>"
	}
	buf := bytes.NewBuffer(nil)
	if err := Encode(node, buf, EncodeWire(true)); err != nil {
		return "<" + node.Type.String() + ">"
	}
	return buf.String()
}
