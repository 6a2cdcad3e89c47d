package curve

import (
	"math"

	"nurbskit.dev/kernel/geom"
)

// BoundingBox computes the curve's axis-aligned bounding box: periodic
// curves are clamped first, then the curve is
// decomposed into rational Béziers; for each segment and coordinate,
// the scalar derivative-polynomial roots are found in closed form
// (linear for a quadratic Bézier derivative, quadratic for a cubic
// one) and the curve is evaluated at each in-domain root plus the two
// endpoints, unioning the resulting coordinate ranges.
func (c Curve) BoundingBox() (geom.BoundingBox, error) {
	working := c
	if c.IsPeriodic() {
		clamped, err := c.ClampEnds()
		if err != nil {
			return geom.BoundingBox{}, err
		}
		working = clamped
	}
	beziers, err := working.DecomposeIntoBeziers()
	if err != nil {
		return geom.BoundingBox{}, err
	}
	box := geom.EmptyBoundingBox()
	for _, bz := range beziers {
		dom := bz.Domain()
		box = box.UnionPoint(bz.PointAt(dom.Min))
		box = box.UnionPoint(bz.PointAt(dom.Max))
		for _, root := range bezierExtremaRoots(bz) {
			if root > 0 && root < 1 {
				box = box.UnionPoint(bz.PointAt(root))
			}
		}
	}
	return box, nil
}

// bezierExtremaRoots returns the roots, in [0,1] local parameter, of
// the derivative of each coordinate of the (rational) Bézier segment
// bz, found via the closed-form formula for a quadratic's roots
// (derivative of a degree<=3 curve is degree<=2).
func bezierExtremaRoots(bz Curve) []float64 {
	var roots []float64
	p := bz.degree
	cps := bz.LocationPoints()
	// Differentiate each affine coordinate's degree-p Bernstein
	// polynomial: the derivative has Bernstein coefficients
	// p*(P[i+1]-P[i]) of degree p-1.
	coeffs := func(axis int) []float64 {
		get := func(pt geom.Point3) float64 {
			switch axis {
			case 0:
				return pt.X
			case 1:
				return pt.Y
			default:
				return pt.Z
			}
		}
		d := make([]float64, p)
		for i := 0; i < p; i++ {
			d[i] = float64(p) * (get(cps[i+1]) - get(cps[i]))
		}
		return d
	}
	for axis := 0; axis < 3; axis++ {
		d := coeffs(axis)
		roots = append(roots, bernsteinRoots(d)...)
	}
	return roots
}

// bernsteinRoots finds the real roots in (0,1) of a Bernstein
// polynomial of degree <= 2 given its control coefficients, using the
// closed-form linear/quadratic solution.
func bernsteinRoots(c []float64) []float64 {
	switch len(c) {
	case 0:
		return nil
	case 1:
		return nil
	case 2:
		// Linear Bernstein: B(t) = (1-t)c0 + t c1.
		denom := c[0] - c[1]
		if math.Abs(denom) < geom.Eps {
			return nil
		}
		return []float64{c[0] / denom}
	default:
		// Quadratic Bernstein: B(t) = (1-t)^2 c0 + 2t(1-t)c1 + t^2 c2,
		// expand to standard form a t^2 + b t + cc.
		a := c[0] - 2*c[1] + c[2]
		b := 2 * (c[1] - c[0])
		cc := c[0]
		if math.Abs(a) < geom.Eps {
			if math.Abs(b) < geom.Eps {
				return nil
			}
			return []float64{-cc / b}
		}
		disc := b*b - 4*a*cc
		if disc < 0 {
			return nil
		}
		sq := math.Sqrt(disc)
		return []float64{(-b + sq) / (2 * a), (-b - sq) / (2 * a)}
	}
}
