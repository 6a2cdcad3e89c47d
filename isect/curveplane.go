package isect

import (
	"math"

	"nurbskit.dev/kernel/curve"
	"nurbskit.dev/kernel/geom"
)

// CurvePlaneResult is one point where a curve crosses a plane,
// together with its curve parameter.
type CurvePlaneResult struct {
	Param float64
	Point geom.Point3
}

// CurvePlane finds all points where c crosses plane p within tol: the
// box tree is pruned wherever a
// node's eight bounding-box corners' signed distances to the plane
// don't straddle zero, and surviving leaves seed Newton iteration on
// n . (C(t) - o) = 0 with d/dt = n . C'(t).
func CurvePlane(c curve.Curve, p geom.Plane, tol float64) []CurvePlaneResult {
	tree := buildBoxTree(c, 0)
	var leafDomains []geom.Interval
	collectStraddling(tree, p, &leafDomains)

	var results []CurvePlaneResult
	for _, dom := range leafDomains {
		t0 := dom.Min + dom.Length()/2
		t, pt, ok := refineCurvePlane(c, p, t0, tol)
		if !ok {
			continue
		}
		results = append(results, CurvePlaneResult{Param: t, Point: pt})
	}
	return dedupeCurvePlane(results, tol)
}

func collectStraddling(n *boxNode, p geom.Plane, out *[]geom.Interval) {
	if !boxStraddlesPlane(n.box, p) {
		return
	}
	if n.left == nil {
		*out = append(*out, n.c.Domain())
		return
	}
	collectStraddling(n.left, p, out)
	collectStraddling(n.right, p, out)
}

func boxStraddlesPlane(b geom.BoundingBox, p geom.Plane) bool {
	minD, maxD := math.Inf(1), math.Inf(-1)
	for _, corner := range b.Corners() {
		d := p.SignedDistanceTo(corner)
		minD = math.Min(minD, d)
		maxD = math.Max(maxD, d)
	}
	return minD <= 0 && maxD >= 0
}

func refineCurvePlane(c curve.Curve, p geom.Plane, t0, tol float64) (float64, geom.Point3, bool) {
	dom := c.Domain()
	t := t0
	for i := 0; i < geom.MaxIterations; i++ {
		ders := c.DerivativesAt(t, 1)
		f := p.ZAxis.Dot(ders[0].Sub(p.Origin))
		fp := p.ZAxis.Dot(ders[1])
		if math.Abs(fp) < geom.Eps {
			break
		}
		next := dom.Clamp(t - f/fp)
		delta := math.Abs(next - t)
		t = next
		if delta < 1e-12 {
			break
		}
	}
	pt := c.PointAt(t)
	if math.Abs(p.SignedDistanceTo(pt)) > tol {
		return 0, geom.Point3{}, false
	}
	return t, pt, true
}

func dedupeCurvePlane(in []CurvePlaneResult, tol float64) []CurvePlaneResult {
	if len(in) == 0 {
		return nil
	}
	out := make([]CurvePlaneResult, 0, len(in))
	for _, r := range in {
		dup := false
		for _, o := range out {
			if math.Abs(r.Param-o.Param) < 5*tol {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, r)
		}
	}
	return out
}
