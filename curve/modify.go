package curve

import (
	"fmt"
	"math"
	"sort"

	"nurbskit.dev/kernel/geom"
	"nurbskit.dev/kernel/knot"
)

// InsertKnot inserts t into the curve's knot vector r times (Piegl &
// Tiller A5.1), by calling RefineKnots with r copies of t.
func (c Curve) InsertKnot(t float64, r int) (Curve, error) {
	xs := make([]float64, r)
	for i := range xs {
		xs[i] = t
	}
	return c.RefineKnots(xs)
}

// RefineKnots inserts the sorted multiset of parameters X into the
// curve's knot vector, preserving its shape exactly (Piegl & Tiller
// A5.4). Operates in homogeneous coordinates so rational
// curves remain correct.
func (c Curve) RefineKnots(x []float64) (Curve, error) {
	if len(x) == 0 {
		return c, nil
	}
	xs := append([]float64(nil), x...)
	sort.Float64s(xs)

	p := c.degree
	n := c.lastIndex()
	kv := c.knots
	m := len(kv) - 1
	r := len(xs) - 1

	a := kv.Span(p, n, xs[0])
	b := kv.Span(p, n, xs[r]) + 1

	newCP := make([]geom.Point4, n+r+2)
	newKV := make(knot.Vector, m+r+2)

	for j := 0; j <= a-p; j++ {
		newCP[j] = c.controlPoints[j]
	}
	for j := b - 1; j <= n; j++ {
		newCP[j+r+1] = c.controlPoints[j]
	}
	for j := 0; j <= a; j++ {
		newKV[j] = kv[j]
	}
	for j := b + p; j <= m; j++ {
		newKV[j+r+1] = kv[j]
	}

	i := b + p - 1
	k := b + p + r
	for j := r; j >= 0; j-- {
		for xs[j] <= kv[i] && i > a {
			newCP[k-p-1] = c.controlPoints[i-p-1]
			newKV[k] = kv[i]
			k--
			i--
		}
		newCP[k-p-1] = newCP[k-p]
		for l := 1; l <= p; l++ {
			ind := k - p + l
			alpha := newKV[k+l] - xs[j]
			if math.Abs(alpha) < geom.Eps {
				newCP[ind-1] = newCP[ind]
				continue
			}
			alpha /= newKV[k+l] - kv[i-p+l]
			newCP[ind-1] = newCP[ind-1].Mul(alpha).Add(newCP[ind].Mul(1 - alpha))
		}
		newKV[k] = xs[j]
		k--
	}

	return New(p, newKV, newCP)
}

// DecomposeIntoBeziers rewrites the curve as a concatenation of
// equivalent rational Bézier segments (Piegl & Tiller A5.6): every
// distinct interior knot is refined to multiplicity p,
// then the control points are sliced into p+1-length chunks, each with
// a local clamped [0,1] knot vector.
func (c Curve) DecomposeIntoBeziers() ([]Curve, error) {
	p := c.degree
	var toInsert []float64
	for _, km := range c.knots.Multiplicities() {
		dom := c.Domain()
		if km.Value <= dom.Min+geom.Eps || km.Value >= dom.Max-geom.Eps {
			continue
		}
		for i := km.Count; i < p; i++ {
			toInsert = append(toInsert, km.Value)
		}
	}
	refined := c
	if len(toInsert) > 0 {
		var err error
		refined, err = c.RefineKnots(toInsert)
		if err != nil {
			return nil, err
		}
	}
	cps := refined.controlPoints
	nSegs := (len(cps) - 1) / p
	out := make([]Curve, 0, nSegs)
	for s := 0; s < nSegs; s++ {
		seg := append([]geom.Point4(nil), cps[s*p:s*p+p+1]...)
		bkv := make(knot.Vector, 2*(p+1))
		for i := 0; i <= p; i++ {
			bkv[i] = 0
			bkv[p+1+i] = 1
		}
		bc, err := New(p, bkv, seg)
		if err != nil {
			return nil, err
		}
		out = append(out, bc)
	}
	return out, nil
}

// ElevateDegree raises the curve's degree to `to` by decomposing into
// Bézier segments, elevating each with the closed-form coefficient
// combinatorics, and rejoining via knot refinement/removal (Piegl &
// Tiller A5.9). The output domain equals the input
// domain.
func (c Curve) ElevateDegree(to int) (Curve, error) {
	if to <= c.degree {
		if to == c.degree {
			return c, nil
		}
		return Curve{}, fmt.Errorf("curve: elevate to %d below current degree %d: %w", to, c.degree, geom.ErrInvalidDegree)
	}
	t := to - c.degree
	beziers, err := c.DecomposeIntoBeziers()
	if err != nil {
		return Curve{}, err
	}
	elevated := make([][]geom.Point4, len(beziers))
	for i, bz := range beziers {
		elevated[i] = elevateBezier(bz.controlPoints, bz.degree, t)
	}

	// DecomposeIntoBeziers already raised every interior knot to full
	// multiplicity p, so every segment seam is a plain Bézier break:
	// after elevation each seam sits at multiplicity `to` (a full
	// break again) and consecutive elevated segments share exactly one
	// control point, which PointAt evaluates identically from either
	// side. This is a valid, if not knot-minimal, NURBS representation
	// of the elevated curve (see DESIGN.md).
	breakpoints := c.knots.Multiplicities()
	newKV := make(knot.Vector, 0, len(breakpoints)*(to+1))
	for i := range breakpoints {
		count := to + 1
		if i > 0 && i < len(breakpoints)-1 {
			count = to
		}
		for j := 0; j < count; j++ {
			newKV = append(newKV, breakpoints[i].Value)
		}
	}

	merged := make([]geom.Point4, 0, len(beziers)*to+1)
	for i, seg := range elevated {
		start := 0
		if i > 0 {
			start = 1
		}
		merged = append(merged, seg[start:]...)
	}
	return New(to, newKV, merged)
}

// elevateBezier raises a single Bézier segment of the given degree by
// t using the standard closed-form coefficients (Piegl & Tiller
// eq. 5.36-ish combinatorics).
func elevateBezier(cps []geom.Point4, degree, t int) []geom.Point4 {
	p, newP := degree, degree+t
	out := make([]geom.Point4, newP+1)
	for i := 0; i <= newP; i++ {
		lo := max(0, i-t)
		hi := min(p, i)
		var sum geom.Point4
		for j := lo; j <= hi; j++ {
			coeff := geom.Binomial(p, j) * geom.Binomial(t, i-j) / geom.Binomial(newP, i)
			sum = sum.Add(cps[j].Mul(coeff))
		}
		out[i] = sum
	}
	return out
}

// ReduceDegree lowers the curve's degree by one per Bézier segment
// under a caller tolerance: each segment's degree-(p-1) approximation is
// computed by reduceBezier (a blend of the forward and backward
// inversions of degree elevation, not a least-squares fit);
// the whole operation is rejected (input returned unchanged, ok=false)
// if any segment's maximum control-point displacement from the
// best-fit degree-elevation of the reduced segment exceeds tol.
func (c Curve) ReduceDegree(tol float64) (Curve, bool, error) {
	if c.degree <= 1 {
		return c, false, nil
	}
	beziers, err := c.DecomposeIntoBeziers()
	if err != nil {
		return Curve{}, false, err
	}
	p := c.degree
	reduced := make([][]geom.Point4, len(beziers))
	for i, bz := range beziers {
		red, maxErr := reduceBezier(bz.controlPoints, p)
		if maxErr > tol {
			return c, false, nil
		}
		reduced[i] = red
	}
	newP := p - 1
	// Same uniform-multiplicity rejoin as ElevateDegree: decompose
	// already raised every interior breakpoint to multiplicity p, so
	// every reduced segment seam is a full break at multiplicity newP.
	breakpoints := c.knots.Multiplicities()
	newKV := make(knot.Vector, 0, len(breakpoints)*(newP+1))
	for i := range breakpoints {
		count := newP + 1
		if i > 0 && i < len(breakpoints)-1 {
			count = newP
		}
		for j := 0; j < count; j++ {
			newKV = append(newKV, breakpoints[i].Value)
		}
	}
	newCP := make([]geom.Point4, 0, len(beziers)*newP+1)
	for i, seg := range reduced {
		start := 0
		if i > 0 {
			start = 1
		}
		newCP = append(newCP, seg[start:]...)
	}
	out, err := New(newP, newKV, newCP)
	if err != nil {
		return c, false, err
	}
	return out, true, nil
}

// reduceBezier computes a degree-(p-1) Bézier approximating a degree-p
// Bézier: the end control points are kept (C0 at the ends), and each
// interior point linearly blends the forward and backward inversions of
// degree elevation with weight i/(p-1). The result is not a
// least-squares fit, and end tangents (C1) are not preserved in
// general. It returns the maximum control-point displacement incurred
// by re-elevating the result back to degree p, used as the tolerance
// test.
func reduceBezier(cps []geom.Point4, p int) ([]geom.Point4, float64) {
	newP := p - 1
	out := make([]geom.Point4, newP+1)
	out[0] = cps[0]
	out[newP] = cps[p]
	// Interior points via the forward/backward blending formula
	// (Farin): the two estimates are blended with weight i/(p-1).
	fwd := make([]geom.Point4, newP+1)
	bwd := make([]geom.Point4, newP+1)
	fwd[0] = cps[0]
	for i := 1; i < newP; i++ {
		fwd[i] = cps[i].Mul(float64(p) / float64(p-i)).Sub(fwd[i-1].Mul(float64(i) / float64(p-i)))
	}
	bwd[newP] = cps[p]
	for i := newP - 1; i >= 1; i-- {
		bwd[i] = cps[i+1].Mul(float64(p) / float64(i+1)).Sub(bwd[i+1].Mul(float64(newP-i) / float64(i+1)))
	}
	for i := 1; i < newP; i++ {
		w := float64(i) / float64(newP)
		out[i] = fwd[i].Mul(1 - w).Add(bwd[i].Mul(w))
	}
	reElevated := elevateBezier(out, newP, 1)
	maxErr := 0.0
	for i := range cps {
		d := cps[i].Point().DistanceTo(reElevated[i].Point())
		if d > maxErr {
			maxErr = d
		}
	}
	return out, maxErr
}

// ClampEnds converts a periodic curve into a clamped one of the same
// shape by de Boor p-fold knot insertion at each end.
// Non-periodic curves are returned unchanged.
func (c Curve) ClampEnds() (Curve, error) {
	if !c.IsPeriodic() {
		return c, nil
	}
	dom := c.Domain()
	p := c.degree
	lo := c.knots.Multiplicity(dom.Min)
	hi := c.knots.Multiplicity(dom.Max)
	var xs []float64
	for i := lo; i < p+1; i++ {
		xs = append(xs, dom.Min)
	}
	for i := hi; i < p+1; i++ {
		xs = append(xs, dom.Max)
	}
	if len(xs) == 0 {
		return c, nil
	}
	refined, err := c.RefineKnots(xs)
	if err != nil {
		return Curve{}, err
	}
	kv := refined.knots
	first, last := 0, len(kv)-1
	for kv[first] < dom.Min-geom.Eps {
		first++
	}
	for kv[last] > dom.Max+geom.Eps {
		last--
	}
	cps := refined.controlPoints[first : len(refined.controlPoints)-(len(kv)-1-last)]
	return New(p, kv[first:last+1], cps)
}

// Close appends the first p control points after the last and replaces
// the knot vector with a matching uniform periodic vector, producing a
// closed (periodic) curve.
func (c Curve) Close() (Curve, error) {
	p := c.degree
	n := len(c.controlPoints)
	cps := append([]geom.Point4(nil), c.controlPoints...)
	cps = append(cps, c.controlPoints[:p]...)
	kv := knot.UniformPeriodic(p, n+p)
	return New(p, kv, cps)
}

// Split divides the curve at t into two clamped curves whose shared
// endpoint is C(t): t is refined to multiplicity p+1,
// then the control-point and knot arrays are split at the resulting
// index.
func (c Curve) Split(t float64) (Curve, Curve, error) {
	dom := c.Domain()
	if !dom.Contains(t, geom.EpsMax) {
		return Curve{}, Curve{}, fmt.Errorf("curve: split: %w", geom.ErrOutOfDomain)
	}
	t = dom.Clamp(t)
	p := c.degree
	mult := c.knots.Multiplicity(t)
	var xs []float64
	for i := mult; i < p+1; i++ {
		xs = append(xs, t)
	}
	refined := c
	if len(xs) > 0 {
		var err error
		refined, err = c.RefineKnots(xs)
		if err != nil {
			return Curve{}, Curve{}, err
		}
	}
	// t now occupies p+1 consecutive knot slots starting at firstIdx;
	// the control points split cleanly at that same index, each side
	// independently owning a copy of the (geometrically identical)
	// split point.
	firstIdx := 0
	for refined.knots[firstIdx] < t-geom.Eps {
		firstIdx++
	}

	leftCP := append([]geom.Point4(nil), refined.controlPoints[:firstIdx]...)
	rightCP := append([]geom.Point4(nil), refined.controlPoints[firstIdx:]...)
	leftKV := append(knot.Vector(nil), refined.knots[:firstIdx+p+1]...)
	rightKV := append(knot.Vector(nil), refined.knots[firstIdx:]...)

	left, err := New(p, leftKV, leftCP)
	if err != nil {
		return Curve{}, Curve{}, err
	}
	right, err := New(p, rightKV, rightCP)
	if err != nil {
		return Curve{}, Curve{}, err
	}
	return left, right, nil
}

// Join concatenates an ordered sequence of curves whose consecutive
// endpoints match within EpsMax. Each curve is first
// elevated to the maximum degree present in the input; knot vectors
// are offset by the running domain length so the joined curve's
// parametrization is the concatenation of the inputs' domains.
func Join(curves []Curve) (Curve, error) {
	if len(curves) < 2 {
		return Curve{}, fmt.Errorf("curve: join: %w", geom.ErrEmpty)
	}
	maxDeg := 0
	for _, c := range curves {
		maxDeg = max(maxDeg, c.degree)
	}
	elevated := make([]Curve, len(curves))
	for i, c := range curves {
		e, err := c.ElevateDegree(maxDeg)
		if err != nil {
			return Curve{}, err
		}
		elevated[i] = e
	}
	for i := 1; i < len(elevated); i++ {
		prevEnd := elevated[i-1].PointAt(elevated[i-1].Domain().Max)
		curStart := elevated[i].PointAt(elevated[i].Domain().Min)
		if !prevEnd.EqualWithin(curStart, geom.EpsMax) {
			return Curve{}, fmt.Errorf("curve: join segment %d: %w", i, geom.ErrNotAdjacent)
		}
	}

	// Each clamped segment owns a full p+1 multiplicity at both ends.
	// Joining two segments at a shared point should leave that junction
	// at multiplicity p (position-continuous, C0), not p+1 (a literal
	// break): strip the previous segment's trailing p+1, insert p
	// copies of the junction value, then append the next segment's own
	// knots past its leading p+1 (which the junction knots replace).
	p := maxDeg
	var cps []geom.Point4
	var kv knot.Vector
	offset := 0.0
	for i, c := range elevated {
		dom := c.Domain()
		segCPs := c.controlPoints
		segKV := c.knots
		if i == 0 {
			cps = append(cps, segCPs...)
			for _, k := range segKV {
				kv = append(kv, k-dom.Min+offset)
			}
		} else {
			kv = kv[:len(kv)-(p+1)]
			for j := 0; j < p; j++ {
				kv = append(kv, offset)
			}
			cps = append(cps, segCPs[1:]...)
			for _, k := range segKV[p+1:] {
				kv = append(kv, k-dom.Min+offset)
			}
		}
		offset += dom.Length()
	}
	return New(p, kv, cps)
}
