package fit

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"nurbskit.dev/kernel/basis"
	"nurbskit.dev/kernel/curve"
	"nurbskit.dev/kernel/geom"
	"nurbskit.dev/kernel/knot"
)

// approximationKnotVector builds the degree-p knot vector for a
// least-squares fit with m+1 control points over n+1 samples (Piegl &
// Tiller eq. 9.68/9.69): interior knots are placed at fractional
// positions through the chord-length parameters ubar, spaced so each
// knot span picks up a comparable share of the samples.
func approximationKnotVector(ubar []float64, p, m, n int) knot.Vector {
	kv := make(knot.Vector, m+p+2)
	for i := 0; i <= p; i++ {
		kv[i] = 0
		kv[m+p+1-i] = 1
	}
	d := float64(n+1) / float64(m-p+1)
	for j := 1; j <= m-p; j++ {
		i := int(float64(j) * d)
		alpha := float64(j)*d - float64(i)
		if i < 1 {
			i = 1
			alpha = 0
		}
		if i > n {
			i = n
			alpha = 0
		}
		kv[p+j] = (1-alpha)*ubar[i-1] + alpha*ubar[i]
	}
	return kv
}

// Approximate computes a least-squares NURBS curve of degree p with
// m+1 control points approximating points Q_0..Q_n, m < n: the first
// and last control points are pinned to Q_0 and Q_n, and the interior
// control points solve (N^T N) P = N^T Q over the same chord-length
// parametrization, with the pinned points' basis contribution
// subtracted out of the right-hand side, via gonum's `mat.Dense`.
func Approximate(points []geom.Point3, p, m int) (curve.Curve, error) {
	n := len(points) - 1
	if m < p || m >= n {
		return curve.Curve{}, fmt.Errorf("fit: approximate: %w", geom.ErrInvalidPointCount)
	}
	ubar := chordLengthParams(points)
	kv := approximationKnotVector(ubar, p, m, n)

	nMat := mat.NewDense(n+1, m+1, nil)
	for k := 0; k <= n; k++ {
		span := kv.Span(p, m, ubar[k])
		vals := basis.Eval(p, kv, span, ubar[k], nil)
		for j, v := range vals {
			col := span - p + j
			if col >= 0 && col <= m {
				nMat.Set(k, col, v)
			}
		}
	}

	cps := make([]geom.Point4, m+1)
	cps[0] = geom.NewPoint4(points[0], 1)
	cps[m] = geom.NewPoint4(points[n], 1)

	rows := m - 1
	if rows < 1 {
		return curve.New(p, kv, cps)
	}

	rMat := mat.NewDense(rows, 3, nil)
	for k := 0; k <= n; k++ {
		q := points[k]
		n0 := nMat.At(k, 0)
		nm := nMat.At(k, m)
		rx := q.X - n0*points[0].X - nm*points[n].X
		ry := q.Y - n0*points[0].Y - nm*points[n].Y
		rz := q.Z - n0*points[0].Z - nm*points[n].Z
		for i := 1; i < m; i++ {
			w := nMat.At(k, i)
			if w == 0 {
				continue
			}
			rMat.Set(i-1, 0, rMat.At(i-1, 0)+w*rx)
			rMat.Set(i-1, 1, rMat.At(i-1, 1)+w*ry)
			rMat.Set(i-1, 2, rMat.At(i-1, 2)+w*rz)
		}
	}

	nInner := mat.NewDense(rows, rows, nil)
	for i := 1; i < m; i++ {
		for j := 1; j < m; j++ {
			sum := 0.0
			for k := 0; k <= n; k++ {
				sum += nMat.At(k, i) * nMat.At(k, j)
			}
			nInner.Set(i-1, j-1, sum)
		}
	}

	var sol mat.Dense
	if err := sol.Solve(nInner, rMat); err != nil {
		return curve.Curve{}, fmt.Errorf("fit: approximate: singular system: %v", err)
	}
	for i := 1; i < m; i++ {
		cps[i] = geom.NewPoint4(geom.Point3{X: sol.At(i-1, 0), Y: sol.At(i-1, 1), Z: sol.At(i-1, 2)}, 1)
	}
	return curve.New(p, kv, cps)
}
