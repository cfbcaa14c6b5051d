// Package geom defines the canonical shapes houlog can record and the
// Loggable conversion that maps caller types onto them.
//
// The set of shapes is closed: [Point], [Line], [Polyline], [Polygon] and
// [Transform]. Callers that want to log their own types implement
// [Loggable] by returning one of these shapes:
//
//	type Segment struct{ A, B mylib.Vec }
//
//	func (s Segment) Shape() geom.Shape {
//	    return geom.Line{Start: toVec3(s.A), End: toVec3(s.B)}
//	}
//
// Conversion is pure and must not fail. Types that have no natural 3D form
// may delegate to another Loggable, as [Line2D] does by fixing z to zero.
package geom
