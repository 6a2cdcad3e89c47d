package analyze

import (
	"math"

	"nurbskit.dev/kernel/curve"
	"nurbskit.dev/kernel/geom"
	"nurbskit.dev/kernel/surface"
)

// ClosestPoint returns the point on c nearest to q together with its
// parameter. c is tessellated adaptively until each
// polyline edge's deviation from its chord falls below a fixed
// tolerance; the nearest tessellation vertex seeds bounded Newton
// iteration on f(t) = (C(t)-Q)·C'(t) = 0, with f'(t) = C''(t)·(C(t)-Q)
// + ||C'(t)||²; t is clamped to the domain at every step.
func ClosestPoint(c curve.Curve, q geom.Point3) (geom.Point3, float64, error) {
	t, err := ClosestParameter(c, q)
	if err != nil {
		return geom.Point3{}, 0, err
	}
	return c.PointAt(t), t, nil
}

// ClosestParameter is ClosestPoint without the redundant point
// evaluation, for callers that only need the parameter.
func ClosestParameter(c curve.Curve, q geom.Point3) (float64, error) {
	dom := c.Domain()
	seeds := tessellate(c, 1e-4)
	bestT, bestD := seeds[0], c.PointAt(seeds[0]).DistanceTo(q)
	for _, t := range seeds[1:] {
		d := c.PointAt(t).DistanceTo(q)
		if d < bestD {
			bestD, bestT = d, t
		}
	}

	t := bestT
	for i := 0; i < geom.MaxIterations; i++ {
		ders := c.DerivativesAt(t, 2)
		diff := ders[0].Sub(q)
		f := diff.Dot(ders[1])
		fp := ders[2].Dot(diff) + ders[1].Dot(ders[1])
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
	return t, nil
}

// tessellate adaptively subdivides c's domain until each resulting
// chord deviates from the true curve by less than tol, returning the
// sorted breakpoint parameters.
func tessellate(c curve.Curve, tol float64) []float64 {
	dom := c.Domain()
	var params []float64
	var recurse func(a, b float64, depth int)
	recurse = func(a, b float64, depth int) {
		mid := (a + b) / 2
		pa, pb, pm := c.PointAt(a), c.PointAt(b), c.PointAt(mid)
		chordMid := pa.Add(pb.Sub(pa).Mul(0.5))
		dev := pm.DistanceTo(chordMid)
		if dev < tol || depth > 12 {
			params = append(params, a, mid, b)
			return
		}
		recurse(a, mid, depth+1)
		recurse(mid, b, depth+1)
	}
	recurse(dom.Min, dom.Max, 0)
	return params
}

// ClosestPointSurface returns the point on s nearest to q together
// with its (u,v) parameters: seeded by a coarse grid
// evaluation, refined by two-variable Newton iteration on the gradient
// of squared distance, with both parameters clamped to their domains
// at every step.
func ClosestPointSurface(s surface.Surface, q geom.Point3) (geom.Point3, float64, float64, error) {
	domU, domV := s.DomainU(), s.DomainV()
	const grid = 12
	bestU, bestV := domU.Min, domV.Min
	bestD := math.MaxFloat64
	for i := 0; i <= grid; i++ {
		u := domU.Min + domU.Length()*float64(i)/float64(grid)
		for j := 0; j <= grid; j++ {
			v := domV.Min + domV.Length()*float64(j)/float64(grid)
			d := s.PointAt(u, v).DistanceTo(q)
			if d < bestD {
				bestD, bestU, bestV = d, u, v
			}
		}
	}

	u, v := bestU, bestV
	for i := 0; i < geom.MaxIterations; i++ {
		ders := s.DerivativesAt(u, v, 2)
		pt := ders[0][0]
		su, sv := ders[1][0], ders[0][1]
		suu, svv, suv := ders[2][0], ders[0][2], ders[1][1]
		diff := pt.Sub(q)
		fu := diff.Dot(su)
		fv := diff.Dot(sv)
		if math.Abs(fu) < geom.Eps && math.Abs(fv) < geom.Eps {
			break
		}
		juu := suu.Dot(diff) + su.Dot(su)
		juv := suv.Dot(diff) + su.Dot(sv)
		jvv := svv.Dot(diff) + sv.Dot(sv)
		det := juu*jvv - juv*juv
		if math.Abs(det) < geom.Eps {
			break
		}
		du := (-fu*jvv + fv*juv) / det
		dv := (-fv*juu + fu*juv) / det
		nu := domU.Clamp(u + du)
		nv := domV.Clamp(v + dv)
		if math.Abs(nu-u) < 1e-12 && math.Abs(nv-v) < 1e-12 {
			u, v = nu, nv
			break
		}
		u, v = nu, nv
	}
	return s.PointAt(u, v), u, v, nil
}
