// Package ir provides the JSON value tree shared by the parser, the
// encoder and the codecs.
//
// A *Node is one of null, bool, number, string, array or object. Objects
// keep insertion order. Number nodes remember the text they were parsed
// from so that integers and decimals wider than a float64 are not rounded.
//
// # Related Packages
//
//   - github.com/signadot/typecodec/parse - Parse JSON text to IR
//   - github.com/signadot/typecodec/encode - Encode IR to JSON text
//   - github.com/signadot/typecodec/codec - Typed values to and from IR
package ir
