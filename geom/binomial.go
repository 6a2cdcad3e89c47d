package geom

import "sync"

// binomial is the process-wide, read-only-after-init table of binomial
// coefficients C(n, k) used by degree elevation and the rational
// derivative formulas of curves and surfaces. It grows lazily and is safe for concurrent use by
// independent callers.
var binomial = struct {
	sync.Mutex
	rows [][]float64
}{rows: [][]float64{{1}}}

// Binomial returns C(n, k), the number of ways to choose k items from n.
// It returns 0 for k < 0 or k > n.
func Binomial(n, k int) float64 {
	if k < 0 || k > n {
		return 0
	}
	binomial.Lock()
	defer binomial.Unlock()
	for len(binomial.rows) <= n {
		prev := binomial.rows[len(binomial.rows)-1]
		row := make([]float64, len(prev)+1)
		row[0] = 1
		row[len(row)-1] = 1
		for i := 1; i < len(row)-1; i++ {
			row[i] = prev[i-1] + prev[i]
		}
		binomial.rows = append(binomial.rows, row)
	}
	return binomial.rows[n][k]
}
