// Package basetype provides the thin numeric typedef layer the core
// packages treat as a boundary collaborator: fixed-width integer and
// float aliases plus small 2D/3D point and size containers, the Go
// counterpart of BaseI8.h..BaseF64.h and the generated Point/Size
// headers. Unlike the C originals there is no _new/_init/_clear/_delete
// ceremony — Go zero values are already valid, and these types carry
// no resources to release.
package basetype

// Fixed-width aliases matching the original's BaseI8..BaseF64 family.
// They exist so call sites that traffic in "a queue of BaseF32 samples"
// read the same way the ToolBOSLib sources do, even though Go's own
// int8/float32 would serve identically.
type (
	I8  = int8
	UI8 = uint8

	I16  = int16
	UI16 = uint16

	I32  = int32
	UI32 = uint32

	I64  = int64
	UI64 = uint64

	F32 = float32
	F64 = float64
)

// Point2D is the two-dimensional point container (BaseF64Point2D and
// siblings collapse to one generic struct since Go generics over the
// numeric aliases above would add nothing the original's per-type
// macros provided).
type Point2D struct {
	X, Y float64
}

// Point3D is the three-dimensional point container.
type Point3D struct {
	X, Y, Z float64
}

// Size2D is a width/height pair.
type Size2D struct {
	Width, Height float64
}

// Size3D is a width/height/depth triple.
type Size3D struct {
	Width, Height, Depth float64
}
