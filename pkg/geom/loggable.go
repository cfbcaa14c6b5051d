package geom

import (
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Loggable is implemented by any value that can be recorded. Shape must be
// pure and total: every value maps to exactly one canonical shape.
type Loggable interface {
	Shape() Shape
}

// Vec2 is a position in the XY plane.
type Vec2 struct {
	X, Y float64
}

// Lift places v in 3D space with z = 0.
func (v Vec2) Lift() Vec3 {
	return Vec3{X: v.X, Y: v.Y}
}

// Line2D is a planar segment. It is logged as a Line in the z = 0 plane.
type Line2D struct {
	Start Vec2
	End   Vec2
}

// Shape lifts the segment into 3D.
func (l Line2D) Shape() Shape {
	return Line{Start: l.Start.Lift(), End: l.End.Lift()}.Shape()
}

// Path2D is a planar polyline. It is logged as a Polyline in the z = 0 plane.
type Path2D struct {
	Points []Vec2
}

// Shape lifts every vertex into 3D.
func (p Path2D) Shape() Shape {
	pts := make([]Vec3, len(p.Points))
	for i, v := range p.Points {
		pts[i] = v.Lift()
	}
	return Polyline{Points: pts}
}

// Capsule is logged as the Line along its axis. The radius is not part of
// the canonical form.
type Capsule struct {
	A      Vec3
	B      Vec3
	Radius float64
}

// Shape returns the capsule axis.
func (c Capsule) Shape() Shape {
	return Line{Start: c.A, End: c.B}
}

// Center returns the midpoint of the capsule axis.
func (c Capsule) Center() Vec3 {
	return r3.Scale(0.5, r3.Add(c.A, c.B))
}

// Sphere is logged as the Point at its centre.
type Sphere struct {
	Center Vec3
	Radius float64
}

// Shape returns the sphere centre.
func (s Sphere) Shape() Shape {
	return Point(s.Center)
}

// Pose is a rigid transform given as a position and a rotation quaternion.
// A zero rotation is treated as identity.
type Pose struct {
	Position Vec3
	Rotation quat.Number
}

// Shape returns the pose as a column-major Transform.
func (p Pose) Shape() Shape {
	return p.Matrix()
}

// Matrix builds the column-major transform for p.
func (p Pose) Matrix() Transform {
	q := p.Rotation
	if n := quat.Abs(q); n == 0 {
		q = quat.Number{Real: 1}
	} else {
		q = quat.Scale(1/n, q)
	}
	x := rotate(q, Vec3{X: 1})
	y := rotate(q, Vec3{Y: 1})
	z := rotate(q, Vec3{Z: 1})
	return Transform{
		x.X, x.Y, x.Z, 0,
		y.X, y.Y, y.Z, 0,
		z.X, z.Y, z.Z, 0,
		p.Position.X, p.Position.Y, p.Position.Z, 1,
	}
}

// rotate applies the unit quaternion q to v.
func rotate(q quat.Number, v Vec3) Vec3 {
	r := quat.Mul(quat.Mul(q, quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}), quat.Conj(q))
	return Vec3{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}

// Convert returns the canonical shape for l.
func Convert(l Loggable) Shape {
	return l.Shape()
}
