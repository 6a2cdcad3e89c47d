package prim

import (
	"fmt"

	"nurbskit.dev/kernel/curve"
	"nurbskit.dev/kernel/geom"
	"nurbskit.dev/kernel/knot"
)

// Line is a straight segment between two distinct points.
type Line struct {
	Start, End geom.Point3
}

// NewLine builds a line between two points at least EpsMax apart.
func NewLine(start, end geom.Point3) (Line, error) {
	if start.DistanceTo(end) < geom.EpsMax {
		return Line{}, fmt.Errorf("prim: line: %w", geom.ErrInvalidPointCount)
	}
	return Line{Start: start, End: end}, nil
}

// ToNURBS reduces the line to a degree-1 clamped NURBS curve.
func (l Line) ToNURBS() (curve.Curve, error) {
	cps := []geom.Point4{geom.NewPoint4(l.Start, 1), geom.NewPoint4(l.End, 1)}
	return curve.New(1, knot.Vector{0, 0, 1, 1}, cps)
}

// Polyline is an ordered list of at least two distinct vertices:
// vertices within EpsMax of their predecessor are culled during
// construction.
type Polyline struct {
	vertices []geom.Point3
}

// NewPolyline builds a polyline from a vertex list, culling
// near-duplicate consecutive vertices.
func NewPolyline(points []geom.Point3) (Polyline, error) {
	if len(points) == 0 {
		return Polyline{}, fmt.Errorf("prim: polyline: %w", geom.ErrInvalidPointCount)
	}
	verts := make([]geom.Point3, 0, len(points))
	verts = append(verts, points[0])
	for _, p := range points[1:] {
		if p.DistanceTo(verts[len(verts)-1]) >= geom.EpsMax {
			verts = append(verts, p)
		}
	}
	if len(verts) < 2 {
		return Polyline{}, fmt.Errorf("prim: polyline: %w", geom.ErrInvalidPointCount)
	}
	return Polyline{vertices: verts}, nil
}

// Vertices returns a copy of the polyline's (culled) vertex list.
func (p Polyline) Vertices() []geom.Point3 { return append([]geom.Point3(nil), p.vertices...) }

// ToNURBS reduces the polyline to a degree-1 NURBS curve with a
// clamped uniform knot vector.
func (p Polyline) ToNURBS() (curve.Curve, error) {
	return polylineToNURBS(p.vertices)
}

func polylineToNURBS(verts []geom.Point3) (curve.Curve, error) {
	cps := make([]geom.Point4, len(verts))
	for i, v := range verts {
		cps[i] = geom.NewPoint4(v, 1)
	}
	return curve.New(1, knot.UniformClamped(1, len(verts)), cps)
}
