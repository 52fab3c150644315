// Package schema describes the static shape of values.
//
// A [Type] is a descriptor: a scalar, a container with type parameters,
// an enum, an object with ordered properties, or a nullable pointer.
// Descriptors are built once with the generic builders
//
//	var PointType = schema.Object[Point]("geo.Point",
//		schema.Prop("x", schema.Int(), func(p *Point) int { return p.X }, func(p *Point, v int) { p.X = v }),
//	)
//	var PathType = schema.ListOf[[]Point](PointType)
//
// or loaded from descriptor files with [LoadFile], whose object values are
// [*Record]s. The builders capture how to move values in and out of Go
// values, so the codec layer never needs reflection.
//
// Named descriptors are collected in a [Registry], the closed world in
// which polymorphic hierarchies ([TypeInfo]) find their variants.
package schema
