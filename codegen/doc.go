// Package codegen writes descriptor declarations for Go structs.
//
// Structs opt in with a directive in their doc comment:
//
//	//typecodec:generate name=geo.Point
//	type Point struct {
//		X int `codec:"x"`
//		Y int `codec:"y,required"`
//		Label *string `codec:"label,omitempty"`
//		Zoom int `codec:",default=1"`
//	}
//
// The generated file declares one *schema.Type per struct, named
// <Struct>Type, and a RegisterCodecTypes function adding them to a
// registry. Field tags accept the wire name followed by the flags
// omitempty, always, required and default=<json>, which must come last.
// A wire name of "-" skips the field.
package codegen
