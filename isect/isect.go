// Package isect implements the intersection operations: plane-plane,
// line-plane, line-line, and the curve-based family
// (curve-curve, curve-line, curve-self, curve-plane) built on a
// bounding-box tree over recursive Bézier subdivision (tree.go).
//
// Lines, polylines, arcs and circles all reduce to a curve.Curve via
// their prim.*.ToNURBS() method, so the curve-based operations here
// cover the spec's wider enumeration (polyline-plane, line-circle,
// plane-circle, ...) without a separate code path per primitive pair.
package isect

import (
	"fmt"
	"math"

	"nurbskit.dev/kernel/geom"
)

// PlanePlaneResult is the infinite line two non-parallel planes meet
// in.
type PlanePlaneResult struct {
	Point     geom.Point3
	Direction geom.Vector3
}

// PlanePlane intersects two planes: the direction is the unitized
// cross product of the normals; a point on
// both planes is found by holding the coordinate of the cross
// product's largest-magnitude component at 0 and solving a 2x2 linear
// system over the other two coordinates.
func PlanePlane(a, b geom.Plane) (PlanePlaneResult, error) {
	dir := a.ZAxis.Cross(b.ZAxis)
	l := dir.Length()
	if l < geom.Eps {
		return PlanePlaneResult{}, fmt.Errorf("isect: plane-plane: %w", geom.ErrParallelConfig)
	}
	dir = dir.Div(l)

	// da, db: the plane equations ZAxis . P = ZAxis . Origin.
	da := a.ZAxis.Dot(a.Origin)
	db := b.ZAxis.Dot(b.Origin)

	axis := dominantAxis(dir)
	i, j := otherTwo(axis)
	n1 := [2]float64{component(a.ZAxis, i), component(a.ZAxis, j)}
	n2 := [2]float64{component(b.ZAxis, i), component(b.ZAxis, j)}
	det := n1[0]*n2[1] - n1[1]*n2[0]
	if math.Abs(det) < geom.Eps {
		return PlanePlaneResult{}, fmt.Errorf("isect: plane-plane: %w", geom.ErrParallelConfig)
	}
	ci := (da*n2[1] - db*n1[1]) / det
	cj := (n1[0]*db - n2[0]*da) / det

	var p geom.Point3
	setComponent(&p, i, ci)
	setComponent(&p, j, cj)
	setComponent(&p, axis, 0)
	return PlanePlaneResult{Point: p, Direction: dir}, nil
}

// dominantAxis returns the index (0=X, 1=Y, 2=Z) of v's
// largest-magnitude component, the axis held fixed when solving for a
// point on both planes (choosing the largest-magnitude component).
func dominantAxis(v geom.Vector3) int {
	ax, ay, az := math.Abs(v.X), math.Abs(v.Y), math.Abs(v.Z)
	switch {
	case ax >= ay && ax >= az:
		return 0
	case ay >= az:
		return 1
	default:
		return 2
	}
}

func otherTwo(axis int) (int, int) {
	switch axis {
	case 0:
		return 1, 2
	case 1:
		return 0, 2
	default:
		return 0, 1
	}
}

func component(v geom.Point3, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func setComponent(p *geom.Point3, axis int, val float64) {
	switch axis {
	case 0:
		p.X = val
	case 1:
		p.Y = val
	default:
		p.Z = val
	}
}

// Line is an infinite line through Origin in Direction (unit length),
// the representation used by LinePlane and LineLine; a finite segment
// is prim.Line.
type Line struct {
	Origin    geom.Point3
	Direction geom.Vector3
}

// LinePlaneResult is the point a line meets a plane in, and the line
// parameter (in units of Direction) at which it occurs.
type LinePlaneResult struct {
	Point geom.Point3
	T     float64
}

// LinePlane intersects an infinite line with a plane: t = (plane.ZAxis
// . (plane.Origin - line.Origin)) /
// (plane.ZAxis . line.Direction); a near-zero denominator means the
// line is parallel to (and possibly lies within) the plane.
func LinePlane(l Line, p geom.Plane) (LinePlaneResult, error) {
	denom := p.ZAxis.Dot(l.Direction)
	if math.Abs(denom) < geom.Eps {
		return LinePlaneResult{}, fmt.Errorf("isect: line-plane: %w", geom.ErrParallelConfig)
	}
	t := p.ZAxis.Dot(p.Origin.Sub(l.Origin)) / denom
	return LinePlaneResult{Point: l.Origin.Add(l.Direction.Mul(t)), T: t}, nil
}

// LineLineResult holds the two lines' closest foot-points and
// parameters; PointA == PointB (within tolerance) when the lines
// genuinely intersect.
type LineLineResult struct {
	PointA, PointB geom.Point3
	S, T           float64
}

// LineLine finds the closest points between two skew (or intersecting)
// infinite lines: the standard
// two-equation linear system from minimizing |A(s)-B(t)|^2, returning
// Parallel when its determinant falls below EPS.
func LineLine(a, b Line) (LineLineResult, error) {
	w0 := a.Origin.Sub(b.Origin)
	da, db := a.Direction, b.Direction
	aDotA := da.Dot(da)
	aDotB := da.Dot(db)
	bDotB := db.Dot(db)
	aDotW := da.Dot(w0)
	bDotW := db.Dot(w0)

	det := aDotA*bDotB - aDotB*aDotB
	if math.Abs(det) < geom.Eps {
		return LineLineResult{}, fmt.Errorf("isect: line-line: %w", geom.ErrParallelConfig)
	}
	s := (aDotB*bDotW - bDotB*aDotW) / det
	t := (aDotA*bDotW - aDotB*aDotW) / det
	return LineLineResult{
		PointA: a.Origin.Add(da.Mul(s)),
		PointB: b.Origin.Add(db.Mul(t)),
		S:      s,
		T:      t,
	}, nil
}
