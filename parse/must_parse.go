package parse

import "github.com/signadot/typecodec/ir"

// MustParse is Parse for literals known to be valid, such as defaults in
// generated code.
func MustParse(s string, opts ...ParseOption) *ir.Node {
	node, err := Parse([]byte(s), opts...)
	if err != nil {
		panic(err)
	}
	return node
}
