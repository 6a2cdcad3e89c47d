// Package analyze implements curve/surface analysis: arc length via
// fixed-order Gauss-Legendre quadrature, parameter-at-arc-length, and
// closest-point/closest-parameter on both curves and surfaces.
package analyze

import (
	"sync"

	"gonum.org/v1/gonum/integrate/quad"
)

// quadCache is the process-wide, memoized table of Gauss-Legendre
// abscissae and weights indexed by order, immutable after
// initialization, computed on first use via gonum's quadrature
// package rather than hand-transcribed.
var (
	quadMu    sync.Mutex
	quadCache = map[int]quadRule{}
	legendre  quad.Legendre
)

type quadRule struct {
	x, w []float64
}

func gaussLegendre(n int) quadRule {
	quadMu.Lock()
	defer quadMu.Unlock()
	if q, ok := quadCache[n]; ok {
		return q
	}
	x := make([]float64, n)
	w := make([]float64, n)
	legendre.FixedLocations(x, w, -1, 1)
	q := quadRule{x: x, w: w}
	quadCache[n] = q
	return q
}
