package basis

import (
	"math"
	"testing"

	"nurbskit.dev/kernel/knot"
)

// TestPartitionOfUnity checks spec.md §8 Testable Property #1: the
// non-vanishing basis functions at any parameter in the domain sum to
// 1, for several degrees and sample points.
func TestPartitionOfUnity(t *testing.T) {
	cases := []struct {
		p int
		k knot.Vector
		n int
	}{
		{2, knot.Vector{0, 0, 0, 1, 2, 3, 3, 3}, 4},
		{3, knot.UniformClamped(3, 7), 6},
		{1, knot.Vector{0, 0, 1, 2, 3, 3}, 3},
	}
	for _, c := range cases {
		dom := c.k.Domain(c.p)
		for i := 0; i <= 20; i++ {
			tt := dom.Min + dom.Length()*float64(i)/20
			span := c.k.Span(c.p, c.n, tt)
			vals := Eval(c.p, c.k, span, tt, nil)
			sum := 0.0
			for _, v := range vals {
				sum += v
			}
			if math.Abs(sum-1) > 1e-9 {
				t.Errorf("degree %d t=%v: basis sum = %v, want 1", c.p, tt, sum)
			}
		}
	}
}

func TestEvalMatchesOne(t *testing.T) {
	p := 2
	k := knot.Vector{0, 0, 0, 1, 2, 3, 3, 3}
	n := 4
	for i := 0; i <= 10; i++ {
		tt := float64(i) * 0.3
		if tt > 3 {
			tt = 3
		}
		span := k.Span(p, n, tt)
		vals := Eval(p, k, span, tt, nil)
		for j := 0; j <= p; j++ {
			idx := span - p + j
			got := vals[j]
			want := One(p, k, idx, tt)
			if math.Abs(got-want) > 1e-9 {
				t.Errorf("t=%v basis %d: Eval=%v, One=%v", tt, idx, got, want)
			}
		}
	}
}

func TestDerivativesZerothRowMatchesEval(t *testing.T) {
	p := 3
	k := knot.UniformClamped(p, 7)
	n := 6
	tt := 0.42
	span := k.Span(p, n, tt)
	vals := Eval(p, k, span, tt, nil)
	ders := Derivatives(p, k, span, tt, 2)
	for j := 0; j <= p; j++ {
		if math.Abs(ders[0][j]-vals[j]) > 1e-9 {
			t.Errorf("Derivatives row 0[%d]: got %v, want %v", j, ders[0][j], vals[j])
		}
	}
}

func TestDerivativesOrderCappedAtDegree(t *testing.T) {
	p := 2
	k := knot.Vector{0, 0, 0, 1, 2, 3, 3, 3}
	ders := Derivatives(p, k, 2, 0.5, 4)
	for _, v := range ders[p+1] {
		if v != 0 {
			t.Errorf("derivative order beyond degree should be zero, got %v", v)
		}
	}
}
