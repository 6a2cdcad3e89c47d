// Package fit implements curve-fitting: global interpolation (with an
// end-tangent-constrained variant), piecewise Bézier (Catmull-style)
// interpolation, and least-squares approximation.
package fit

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"nurbskit.dev/kernel/basis"
	"nurbskit.dev/kernel/curve"
	"nurbskit.dev/kernel/geom"
	"nurbskit.dev/kernel/knot"
)

// chordLengthParams computes the chord-length parametrization ubar_k:
// ubar_0 = 0, ubar_n = 1, interior values proportional to cumulative
// chord length (falling back to a uniform parametrization when every
// point coincides).
func chordLengthParams(pts []geom.Point3) []float64 {
	n := len(pts) - 1
	u := make([]float64, n+1)
	if n == 0 {
		return u
	}
	d := make([]float64, n+1)
	total := 0.0
	for k := 1; k <= n; k++ {
		d[k] = pts[k].DistanceTo(pts[k-1])
		total += d[k]
	}
	if total < geom.Eps {
		for k := range u {
			u[k] = float64(k) / float64(n)
		}
		return u
	}
	acc := 0.0
	for k := 1; k <= n; k++ {
		acc += d[k]
		u[k] = acc / total
	}
	u[n] = 1
	return u
}

// averagingKnotVector builds the degree-p averaging knot vector from
// the parameters ubar (Piegl & Tiller eq. 9.8).
func averagingKnotVector(ubar []float64, p int) knot.Vector {
	n := len(ubar) - 1
	m := n + p + 1
	kv := make(knot.Vector, m+1)
	for i := 0; i <= p; i++ {
		kv[i] = 0
		kv[m-p+i] = 1
	}
	for j := 1; j <= n-p; j++ {
		sum := 0.0
		for i := j; i <= j+p-1; i++ {
			sum += ubar[i]
		}
		kv[j+p] = sum / float64(p)
	}
	return kv
}

// Interpolate computes the degree-p curve through points Q_0..Q_n:
// chord-length parameters and an averaging knot vector are built, then
// the (n+1)x(n+1) banded linear system N*P = Q is solved for the
// control points via `gonum.org/v1/gonum/mat`.
func Interpolate(points []geom.Point3, p int) (curve.Curve, error) {
	n := len(points) - 1
	if p < 1 || p > n {
		return curve.Curve{}, fmt.Errorf("fit: interpolate: %w", geom.ErrInvalidDegree)
	}
	ubar := chordLengthParams(points)
	kv := averagingKnotVector(ubar, p)

	a := mat.NewDense(n+1, n+1, nil)
	rhs := mat.NewDense(n+1, 3, nil)
	for k := 0; k <= n; k++ {
		span := kv.Span(p, n, ubar[k])
		vals := basis.Eval(p, kv, span, ubar[k], nil)
		for j, v := range vals {
			a.Set(k, span-p+j, v)
		}
		q := points[k]
		rhs.Set(k, 0, q.X)
		rhs.Set(k, 1, q.Y)
		rhs.Set(k, 2, q.Z)
	}
	var sol mat.Dense
	if err := sol.Solve(a, rhs); err != nil {
		return curve.Curve{}, fmt.Errorf("fit: interpolate: singular system: %v", err)
	}
	cps := make([]geom.Point4, n+1)
	for i := 0; i <= n; i++ {
		cps[i] = geom.NewPoint4(geom.Point3{X: sol.At(i, 0), Y: sol.At(i, 1), Z: sol.At(i, 2)}, 1)
	}
	return curve.New(p, kv, cps)
}

// InterpolateWithTangents is Interpolate with prescribed start and end
// tangent vectors: two extra control points are introduced adjacent to
// the endpoints, and
// the linear system gains two rows built from the first-derivative
// basis functions (the same row `curve.DerivativesAt` would use)
// instead of point constraints, so the extra control points solve
// directly for the prescribed tangent.
func InterpolateWithTangents(points []geom.Point3, p int, startTangent, endTangent geom.Vector3) (curve.Curve, error) {
	n := len(points) - 1
	if p < 2 || n < 1 {
		return curve.Curve{}, fmt.Errorf("fit: interpolate with tangents: %w", geom.ErrInvalidDegree)
	}
	ubar := chordLengthParams(points)
	newN := n + 2

	aug := make([]float64, newN+1)
	aug[0] = ubar[0]
	aug[1] = ubar[0] + (ubar[1]-ubar[0])/3
	copy(aug[2:2+n-1], ubar[1:n])
	aug[newN-1] = ubar[n] - (ubar[n]-ubar[n-1])/3
	aug[newN] = ubar[n]
	kv := averagingKnotVector(aug, p)

	a := mat.NewDense(newN+1, newN+1, nil)
	rhs := mat.NewDense(newN+1, 3, nil)

	setPointRow := func(row int, u float64, q geom.Point3) {
		span := kv.Span(p, newN, u)
		vals := basis.Eval(p, kv, span, u, nil)
		for j, v := range vals {
			a.Set(row, span-p+j, v)
		}
		rhs.Set(row, 0, q.X)
		rhs.Set(row, 1, q.Y)
		rhs.Set(row, 2, q.Z)
	}
	setTangentRow := func(row int, u float64, t geom.Vector3) {
		span := kv.Span(p, newN, u)
		ders := basis.Derivatives(p, kv, span, u, 1)
		for j, v := range ders[1] {
			a.Set(row, span-p+j, v)
		}
		rhs.Set(row, 0, t.X)
		rhs.Set(row, 1, t.Y)
		rhs.Set(row, 2, t.Z)
	}

	setPointRow(0, ubar[0], points[0])
	setTangentRow(1, ubar[0], startTangent)
	for k := 1; k < n; k++ {
		setPointRow(k+1, ubar[k], points[k])
	}
	setTangentRow(n+1, ubar[n], endTangent)
	setPointRow(n+2, ubar[n], points[n])

	var sol mat.Dense
	if err := sol.Solve(a, rhs); err != nil {
		return curve.Curve{}, fmt.Errorf("fit: interpolate with tangents: singular system: %v", err)
	}
	cps := make([]geom.Point4, newN+1)
	for i := 0; i <= newN; i++ {
		cps[i] = geom.NewPoint4(geom.Point3{X: sol.At(i, 0), Y: sol.At(i, 1), Z: sol.At(i, 2)}, 1)
	}
	return curve.New(p, kv, cps)
}
