// Package basis evaluates B-spline basis functions and their
// derivatives via the Cox-de Boor recurrence (Piegl & Tiller A2.2,
// A2.3).
package basis

import "nurbskit.dev/kernel/knot"

// Eval returns the p+1 non-vanishing basis function values
// N[i-p], ..., N[i] at parameter t in the given span i (Piegl &
// Tiller A2.2). The caller supplies span i, typically from
// knot.Vector.Span. out must have length p+1 or be nil; if non-nil it
// is reused rather than reallocated, avoiding an allocation on every
// evaluation.
func Eval(p int, k knot.Vector, i int, t float64, out []float64) []float64 {
	if out == nil || len(out) != p+1 {
		out = make([]float64, p+1)
	}
	// Stack-sized working rows; degrees above 31 are outside any
	// practical NURBS use and would need a heap-allocated fallback.
	var left, right [32]float64
	lp, rp := left[:p+1], right[:p+1]
	out[0] = 1
	for j := 1; j <= p; j++ {
		lp[j] = t - k[i+1-j]
		rp[j] = k[i+j] - t
		saved := 0.0
		for r := 0; r < j; r++ {
			denom := rp[r+1] + lp[j-r]
			var temp float64
			if denom != 0 {
				temp = out[r] / denom
			}
			out[r] = saved + rp[r+1]*temp
			saved = lp[j-r] * temp
		}
		out[j] = saved
	}
	return out
}

// One evaluates the single basis function N[i,p](t), special-cased to
// return exactly 1.0 at the domain endpoints (Piegl & Tiller A2.4).
func One(p int, k knot.Vector, i int, t float64) float64 {
	m := len(k) - 1
	n := m - p - 1
	if (i == 0 && t == k[0]) || (i == n && t == k[m]) {
		return 1
	}
	if t < k[i] || t >= k[i+p+1] {
		return 0
	}
	var ndu [32]float64
	for j := 0; j <= p; j++ {
		if k[i+j] <= t && t < k[i+j+1] {
			ndu[j] = 1
		}
	}
	for deg := 1; deg <= p; deg++ {
		var saved float64
		if ndu[0] != 0 {
			saved = ((t - k[i]) * ndu[0]) / (k[i+deg] - k[i])
		}
		for j := 0; j <= p-deg; j++ {
			left, right := k[i+j+1], k[i+j+deg+1]
			if ndu[j+1] == 0 {
				ndu[j] = saved
				saved = 0
				continue
			}
			temp := ndu[j+1] / (right - left)
			ndu[j] = saved + (right-t)*temp
			saved = (t - left) * temp
		}
	}
	return ndu[0]
}

// Derivatives returns a (k+1) x (p+1) table: row d holds the d-th
// derivative of each of the p+1 non-vanishing basis functions at
// parameter t in span i (Piegl & Tiller A2.3). Order is capped at p:
// rows beyond p are all zero, since a degree-p basis function has no
// nonzero derivative past its own degree.
func Derivatives(p int, kv knot.Vector, i int, t float64, order int) [][]float64 {
	var ndu [33][33]float64
	var left, right [33]float64
	ndu[0][0] = 1
	for j := 1; j <= p; j++ {
		left[j] = t - kv[i+1-j]
		right[j] = kv[i+j] - t
		saved := 0.0
		for r := 0; r < j; r++ {
			ndu[j][r] = right[r+1] + left[j-r]
			temp := ndu[r][j-1] / ndu[j][r]
			ndu[r][j] = saved + right[r+1]*temp
			saved = left[j-r] * temp
		}
		ndu[j][j] = saved
	}

	out := make([][]float64, order+1)
	for d := range out {
		out[d] = make([]float64, p+1)
	}
	for j := 0; j <= p; j++ {
		out[0][j] = ndu[j][p]
	}
	if order == 0 || p == 0 {
		return out
	}

	var a [2][33]float64
	for r := 0; r <= p; r++ {
		s1, s2 := 0, 1
		a[0][0] = 1
		for k := 1; k <= min(order, p); k++ {
			d := 0.0
			rk, pk := r-k, p-k
			if r >= k {
				a[s2][0] = a[s1][0] / ndu[pk+1][rk]
				d = a[s2][0] * ndu[rk][pk]
			}
			j1 := 1
			if rk < -1 {
				j1 = -rk
			}
			j2 := k - 1
			if r-1 <= pk {
				j2 = k - 1
			} else {
				j2 = p - r
			}
			for j := j1; j <= j2; j++ {
				a[s2][j] = (a[s1][j] - a[s1][j-1]) / ndu[pk+1][rk+j]
				d += a[s2][j] * ndu[rk+j][pk]
			}
			if r <= pk {
				a[s2][k] = -a[s1][k-1] / ndu[pk+1][r]
				d += a[s2][k] * ndu[r][pk]
			}
			out[k][r] = d
			s1, s2 = s2, s1
		}
	}

	fact := float64(p)
	for k := 1; k <= min(order, p); k++ {
		for j := 0; j <= p; j++ {
			out[k][j] *= fact
		}
		fact *= float64(p - k)
	}
	for k := p + 1; k <= order; k++ {
		out[k] = make([]float64, p+1)
	}
	return out
}
