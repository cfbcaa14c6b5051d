package geom

import "gonum.org/v1/gonum/spatial/r3"

// Vec3 is a point or direction in 3D space.
type Vec3 = r3.Vec

// V3 is shorthand for constructing a Vec3.
func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Kind identifies a canonical shape variant. Its string form is the "type"
// tag written to the recording document.
type Kind string

const (
	KindPoint     Kind = "point"
	KindLine      Kind = "line"
	KindPolyline  Kind = "polyline"
	KindPolygon   Kind = "polygon"
	KindTransform Kind = "transform"
)

// Valid reports whether k names one of the canonical variants.
func (k Kind) Valid() bool {
	switch k {
	case KindPoint, KindLine, KindPolyline, KindPolygon, KindTransform:
		return true
	default:
		return false
	}
}

// Shape is one of the canonical variants. The set is sealed; it cannot be
// implemented outside this package.
type Shape interface {
	Loggable
	Kind() Kind
	sealed()
}

// Point is a single position.
type Point Vec3

// Line is a segment between two positions.
type Line struct {
	Start Vec3
	End   Vec3
}

// Polyline is an open sequence of connected positions.
type Polyline struct {
	Points []Vec3
}

// Polygon is a closed loop of positions. The closing edge is implied.
type Polygon struct {
	Points []Vec3
}

// Transform is a 4x4 affine matrix stored column-major: indices 0..3 are the
// X axis column, 4..7 the Y axis, 8..11 the Z axis and 12..15 the
// translation column.
type Transform [16]float64

func (Point) Kind() Kind     { return KindPoint }
func (Line) Kind() Kind      { return KindLine }
func (Polyline) Kind() Kind  { return KindPolyline }
func (Polygon) Kind() Kind   { return KindPolygon }
func (Transform) Kind() Kind { return KindTransform }

func (Point) sealed()     {}
func (Line) sealed()      {}
func (Polyline) sealed()  {}
func (Polygon) sealed()   {}
func (Transform) sealed() {}

// Shape returns p unchanged.
func (p Point) Shape() Shape { return p }

// Shape returns l unchanged.
func (l Line) Shape() Shape { return l }

// Shape returns a copy of p that does not alias the caller's slice.
func (p Polyline) Shape() Shape { return Polyline{Points: clonePoints(p.Points)} }

// Shape returns a copy of p that does not alias the caller's slice.
func (p Polygon) Shape() Shape { return Polygon{Points: clonePoints(p.Points)} }

// Shape returns t unchanged.
func (t Transform) Shape() Shape { return t }

// Vec returns the point as a Vec3.
func (p Point) Vec() Vec3 { return Vec3(p) }

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translation returns a transform that moves by v.
func Translation(v Vec3) Transform {
	t := Identity()
	t[12], t[13], t[14] = v.X, v.Y, v.Z
	return t
}

// At returns the element at row r, column c.
func (t Transform) At(r, c int) float64 {
	return t[c*4+r]
}

// Translation returns the translation column of t.
func (t Transform) Translation() Vec3 {
	return Vec3{X: t[12], Y: t[13], Z: t[14]}
}

// Position returns the anchor position of a shape: the point itself, the
// start of a line, the first vertex of a polyline or polygon, or the
// translation of a transform. Empty point lists anchor at the origin.
func Position(s Shape) Vec3 {
	switch v := s.(type) {
	case Point:
		return Vec3(v)
	case Line:
		return v.Start
	case Polyline:
		if len(v.Points) > 0 {
			return v.Points[0]
		}
	case Polygon:
		if len(v.Points) > 0 {
			return v.Points[0]
		}
	case Transform:
		return v.Translation()
	}
	return Vec3{}
}

func clonePoints(pts []Vec3) []Vec3 {
	if pts == nil {
		return nil
	}
	out := make([]Vec3, len(pts))
	copy(out, pts)
	return out
}
