// Package encode encodes IR nodes to JSON text.
//
// # Usage
//
//	node := ir.FromMap(map[string]*ir.Node{
//	    "name": ir.FromString("alice"),
//	    "age":  ir.FromInt(30),
//	})
//	err := encode.Encode(node, os.Stdout)
//
//	// Compact form
//	err := encode.Encode(node, w, encode.EncodeWire(true))
//
// # Related Packages
//
//   - github.com/signadot/typecodec/ir - IR representation
//   - github.com/signadot/typecodec/parse - Parse text to IR
package encode
