package geom

import (
	"fmt"
	"math"
)

// Plane is a right-handed orthonormal frame: Origin plus XAxis, YAxis,
// ZAxis each of unit length and mutually orthogonal within Eps. ZAxis
// is the plane normal.
type Plane struct {
	Origin              Point3
	XAxis, YAxis, ZAxis Point3
}

// NewPlane builds a right-handed plane from an origin and normal,
// choosing an arbitrary in-plane XAxis. The normal need not be unit
// length; it is unitized.
func NewPlane(origin, normal Point3) (Plane, error) {
	n := normal.Unitize()
	if n.Length() < Eps {
		return Plane{}, fmt.Errorf("geom: plane: %w", ErrCollinear)
	}
	ref := Point3{X: 1, Y: 0, Z: 0}
	if math.Abs(n.Dot(ref)) > 1-1e-8 {
		ref = Point3{X: 0, Y: 1, Z: 0}
	}
	x := ref.Sub(n.Mul(n.Dot(ref))).Unitize()
	y := n.Cross(x)
	return Plane{Origin: origin, XAxis: x, YAxis: y, ZAxis: n}, nil
}

// NewPlaneFromPoints builds the plane through three non-collinear
// points, with ZAxis following the right-hand rule from a to b to c.
func NewPlaneFromPoints(a, b, c Point3) (Plane, error) {
	u, v := b.Sub(a), c.Sub(a)
	n := u.Cross(v)
	if n.Length() < Eps {
		return Plane{}, fmt.Errorf("geom: plane from points: %w", ErrCollinear)
	}
	pl, err := NewPlane(a, n)
	if err != nil {
		return Plane{}, err
	}
	pl.XAxis = u.Unitize()
	pl.YAxis = pl.ZAxis.Cross(pl.XAxis)
	return pl, nil
}

// XY is the world XY plane at the origin.
func XY() Plane {
	return Plane{
		Origin: Point3{},
		XAxis:  Point3{X: 1},
		YAxis:  Point3{Y: 1},
		ZAxis:  Point3{Z: 1},
	}
}

// YZ is the world YZ plane at the origin.
func YZ() Plane {
	return Plane{
		Origin: Point3{},
		XAxis:  Point3{Y: 1},
		YAxis:  Point3{Z: 1},
		ZAxis:  Point3{X: 1},
	}
}

// ZX is the world ZX plane at the origin.
func ZX() Plane {
	return Plane{
		Origin: Point3{},
		XAxis:  Point3{Z: 1},
		YAxis:  Point3{X: 1},
		ZAxis:  Point3{Y: 1},
	}
}

// IsValid reports whether the frame is unit length and mutually
// orthogonal within 1e-9, and right-handed (ZAxis equals XAxis x YAxis
// within 1e-6).
func (p Plane) IsValid() bool {
	const tol = 1e-9
	unit := func(v Point3) bool { return abs(v.Length()-1) < tol }
	if !unit(p.XAxis) || !unit(p.YAxis) || !unit(p.ZAxis) {
		return false
	}
	if abs(p.XAxis.Dot(p.YAxis)) > tol || abs(p.YAxis.Dot(p.ZAxis)) > tol || abs(p.XAxis.Dot(p.ZAxis)) > tol {
		return false
	}
	return p.XAxis.Cross(p.YAxis).Sub(p.ZAxis).Length() < 1e-6
}

// ClosestPoint projects p orthogonally onto the plane.
func (p Plane) ClosestPoint(q Point3) Point3 {
	d := p.SignedDistanceTo(q)
	return q.Sub(p.ZAxis.Mul(d))
}

// SignedDistanceTo returns the signed distance from q to the plane,
// positive on the side ZAxis points to.
func (p Plane) SignedDistanceTo(q Point3) float64 {
	return q.Sub(p.Origin).Dot(p.ZAxis)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
