package isect

import (
	"math"
	"sort"

	"nurbskit.dev/kernel/curve"
	"nurbskit.dev/kernel/geom"
	"nurbskit.dev/kernel/prim"
)

// CurveResult is one intersection point between two curves (or between
// a curve and itself), together with its parameter on each.
type CurveResult struct {
	ParamA, ParamB float64
	Point          geom.Point3
}

// CurveCurve finds all intersection points between two curves within
// tol: a bounding-box tree is built in full over each curve by
// recursive subdivision (down to treeMaxDepth or treeMinSpan),
// the pair-tree is descended pruning disjoint box pairs, and each
// surviving leaf pair seeds a two-variable Newton iteration on
// C1(s)-C2(t) minimizing squared distance along both tangents
// simultaneously. Results are deduplicated by |Δs| < 5*tol. Returns an
// empty slice, not an error, when the curves do not meet.
func CurveCurve(a, b curve.Curve, tol float64) []CurveResult {
	treeA := buildBoxTree(a, 0)
	treeB := buildBoxTree(b, 0)
	var candidates []candidate
	walkPairs(treeA, treeB, tol, &candidates)

	var results []CurveResult
	for _, cd := range candidates {
		s0 := cd.domA.Min + cd.domA.Length()/2
		t0 := cd.domB.Min + cd.domB.Length()/2
		s, t, pt, ok := refineCurveCurve(a, b, s0, t0, tol)
		if !ok {
			continue
		}
		results = append(results, CurveResult{ParamA: s, ParamB: t, Point: pt})
	}
	return dedupeCurveResults(results, tol)
}

// CurveLine intersects a curve with a finite line segment by reducing
// the line to its degree-1 NURBS form via prim.Line.ToNURBS, covering
// the line-circle/polyline-plane-style
// pairs of the wider enumeration through the same code path).
func CurveLine(a curve.Curve, l prim.Line, tol float64) ([]CurveResult, error) {
	lc, err := l.ToNURBS()
	if err != nil {
		return nil, err
	}
	return CurveCurve(a, lc, tol), nil
}

// CurveSelf finds self-intersections of c: the same bounding-box tree
// is walked against itself, pairing the two halves of every node
// (adjacent halves included); seeds and results whose two parameters
// lie within 5*tol of each other are skipped.
func CurveSelf(c curve.Curve, tol float64) []CurveResult {
	tree := buildBoxTree(c, 0)
	var candidates []candidate
	walkSelfPairs(tree, tol, &candidates)

	var results []CurveResult
	for _, cd := range candidates {
		s0 := cd.domA.Min + cd.domA.Length()/2
		t0 := cd.domB.Min + cd.domB.Length()/2
		if math.Abs(s0-t0) < 5*tol {
			continue
		}
		s, t, pt, ok := refineCurveCurve(c, c, s0, t0, tol)
		if !ok || math.Abs(s-t) < 5*tol {
			continue
		}
		results = append(results, CurveResult{ParamA: s, ParamB: t, Point: pt})
	}
	return dedupeCurveResults(results, tol)
}

// refineCurveCurve runs bounded Newton iteration on the gradient of
// squared distance between C1(s) and C2(t), returning ok=false if it
// fails to converge to within tol or drifts outside either domain.
func refineCurveCurve(a, b curve.Curve, s0, t0, tol float64) (float64, float64, geom.Point3, bool) {
	domA, domB := a.Domain(), b.Domain()
	s, t := s0, t0
	for i := 0; i < geom.MaxIterations; i++ {
		da := a.DerivativesAt(s, 2)
		db := b.DerivativesAt(t, 2)
		diff := da[0].Sub(db[0])

		f1 := diff.Dot(da[1])
		f2 := -diff.Dot(db[1])
		if math.Abs(f1) < geom.Eps && math.Abs(f2) < geom.Eps {
			break
		}

		j11 := da[1].Dot(da[1]) + diff.Dot(da[2])
		j12 := -db[1].Dot(da[1])
		j22 := db[1].Dot(db[1]) - diff.Dot(db[2])
		det := j11*j22 - j12*j12
		if math.Abs(det) < geom.Eps {
			break
		}
		ds := (-f1*j22 + f2*j12) / det
		dt := (-f2*j11 + f1*j12) / det

		ns := domA.Clamp(s + ds)
		nt := domB.Clamp(t + dt)
		converged := math.Abs(ns-s) < 1e-12 && math.Abs(nt-t) < 1e-12
		s, t = ns, nt
		if converged {
			break
		}
	}
	pa, pb := a.PointAt(s), b.PointAt(t)
	if pa.DistanceTo(pb) > tol {
		return 0, 0, geom.Point3{}, false
	}
	return s, t, pa, true
}

func dedupeCurveResults(in []CurveResult, tol float64) []CurveResult {
	if len(in) == 0 {
		return nil
	}
	sort.Slice(in, func(i, j int) bool { return in[i].ParamA < in[j].ParamA })
	out := in[:1]
	for _, r := range in[1:] {
		last := out[len(out)-1]
		if math.Abs(r.ParamA-last.ParamA) < 5*tol {
			continue
		}
		out = append(out, r)
	}
	return out
}
