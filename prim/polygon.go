package prim

import (
	"fmt"

	"nurbskit.dev/kernel/curve"
	"nurbskit.dev/kernel/geom"
)

// Polygon is a closed polyline with an explicit coplanarity invariant:
// at least three vertices, all coplanar within EpsMin, vertex list
// closed (first = last).
type Polygon struct {
	vertices []geom.Point3 // closed: vertices[0] == vertices[len-1]
}

// NewPolygon builds a polygon from an open or already-closed vertex
// list, fitting a plane to the (distinct) vertices and rejecting any
// whose signed distance from it exceeds EpsMin.
func NewPolygon(points []geom.Point3) (Polygon, error) {
	if len(points) == 0 {
		return Polygon{}, fmt.Errorf("prim: polygon: %w", geom.ErrInvalidPointCount)
	}
	open := points
	if points[0].DistanceTo(points[len(points)-1]) < geom.EpsMax {
		open = points[:len(points)-1]
	}
	if len(open) < 3 {
		return Polygon{}, fmt.Errorf("prim: polygon: %w", geom.ErrInvalidPointCount)
	}
	// Newell's normal and the vertex centroid give a plane fitted to all
	// vertices.
	var normal geom.Vector3
	var centroid geom.Point3
	for i, a := range open {
		b := open[(i+1)%len(open)]
		normal.X += (a.Y - b.Y) * (a.Z + b.Z)
		normal.Y += (a.Z - b.Z) * (a.X + b.X)
		normal.Z += (a.X - b.X) * (a.Y + b.Y)
		centroid = centroid.Add(a)
	}
	plane, err := geom.NewPlane(centroid.Div(float64(len(open))), normal)
	if err != nil {
		return Polygon{}, fmt.Errorf("prim: polygon: %w", err)
	}
	for _, v := range open {
		d := plane.SignedDistanceTo(v)
		if d < 0 {
			d = -d
		}
		if d > geom.EpsMin {
			return Polygon{}, fmt.Errorf("prim: polygon: %w", geom.ErrNonPlanar)
		}
	}
	verts := make([]geom.Point3, len(open)+1)
	copy(verts, open)
	verts[len(open)] = open[0]
	return Polygon{vertices: verts}, nil
}

// Vertices returns a copy of the polygon's closed vertex list (first
// == last).
func (p Polygon) Vertices() []geom.Point3 { return append([]geom.Point3(nil), p.vertices...) }

// ToNURBS reduces the polygon to a degree-1 NURBS curve through its
// closed vertex list.
func (p Polygon) ToNURBS() (curve.Curve, error) {
	return polylineToNURBS(p.vertices)
}
