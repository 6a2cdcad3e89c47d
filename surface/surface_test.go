package surface

import (
	"math"
	"testing"

	"nurbskit.dev/kernel/geom"
	"nurbskit.dev/kernel/knot"
)

func flatGrid(numU, numV int) []geom.Point4 {
	cps := make([]geom.Point4, numU*numV)
	for i := 0; i < numU; i++ {
		for j := 0; j < numV; j++ {
			cps[i*numV+j] = geom.NewPoint4(geom.Point3{X: float64(i), Y: float64(j), Z: 0}, 1)
		}
	}
	return cps
}

func testSurface(t *testing.T) Surface {
	t.Helper()
	p := 2
	numU, numV := 4, 4
	ku := knot.UniformClamped(p, numU)
	kv := knot.UniformClamped(p, numV)
	s, err := New(p, p, ku, kv, numU, numV, flatGrid(numU, numV))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestSurfaceCornerInterpolation(t *testing.T) {
	s := testSurface(t)
	domU, domV := s.DomainU(), s.DomainV()
	corners := []struct {
		u, v float64
		want geom.Point3
	}{
		{domU.Min, domV.Min, geom.Point3{X: 0, Y: 0}},
		{domU.Max, domV.Min, geom.Point3{X: 3, Y: 0}},
		{domU.Min, domV.Max, geom.Point3{X: 0, Y: 3}},
		{domU.Max, domV.Max, geom.Point3{X: 3, Y: 3}},
	}
	for _, c := range corners {
		got := s.PointAt(c.u, c.v)
		if got.DistanceTo(c.want) > 1e-9 {
			t.Errorf("PointAt(%v,%v): got %v, want %v", c.u, c.v, got, c.want)
		}
	}
}

// TestSurfacePartitionOfUnity spot-checks spec.md §8 Testable Property
// #1 generalized to the bivariate case: the control net's x depends only
// on the u index (values 0..3) and y only on the v index, so by
// partition of unity x(u) is the degree-2 clamped B-spline with control
// values 0,1,2,3 on knots [0,0,0,0.5,1,1,1], and likewise y(v). At the
// quarter points that function is 0, 0.875, 1.5, 2.125, 3.
func TestSurfacePartitionOfUnity(t *testing.T) {
	s := testSurface(t)
	domU, domV := s.DomainU(), s.DomainV()
	want := []float64{0, 0.875, 1.5, 2.125, 3}
	for i := 0; i <= 4; i++ {
		for j := 0; j <= 4; j++ {
			u := domU.Min + domU.Length()*float64(i)/4
			v := domV.Min + domV.Length()*float64(j)/4
			got := s.PointAt(u, v)
			wantX := want[i]
			wantY := want[j]
			if math.Abs(got.X-wantX) > 1e-6 || math.Abs(got.Y-wantY) > 1e-6 {
				t.Errorf("PointAt(%v,%v): got %v, want (%v,%v,0)", u, v, got, wantX, wantY)
			}
		}
	}
}

func TestNormalAtIsUnit(t *testing.T) {
	s := testSurface(t)
	n := s.NormalAt(0.5, 0.5)
	if math.Abs(n.Length()-1) > 1e-6 {
		t.Errorf("NormalAt length: got %v, want 1", n.Length())
	}
	if math.Abs(n.Z) < 0.99 {
		t.Errorf("NormalAt should be +-Z for a planar XY surface: got %v", n)
	}
}

func TestIsoCurveMatchesSurface(t *testing.T) {
	s := testSurface(t)
	domV := s.DomainV()
	iso, err := s.IsoCurve(0.5, DirU)
	if err != nil {
		t.Fatalf("IsoCurve: %v", err)
	}
	for i := 0; i <= 5; i++ {
		v := domV.Min + domV.Length()*float64(i)/5
		got := iso.PointAt(v)
		want := s.PointAt(0.5, v)
		if got.DistanceTo(want) > 1e-6 {
			t.Errorf("IsoCurve at v=%v: got %v, want %v", v, got, want)
		}
	}
}

func TestSurfaceSplitPreservesShape(t *testing.T) {
	s := testSurface(t)
	domU, domV := s.DomainU(), s.DomainV()
	left, right, err := s.Split(0.4, DirU)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	// Shared boundary point must agree between both halves and the
	// original surface.
	boundaryU := domU.Min + domU.Length()*0.4
	for i := 0; i <= 5; i++ {
		v := domV.Min + domV.Length()*float64(i)/5
		orig := s.PointAt(boundaryU, v)
		lEnd := left.PointAt(left.DomainU().Max, v)
		rStart := right.PointAt(right.DomainU().Min, v)
		if orig.DistanceTo(lEnd) > 1e-6 {
			t.Errorf("left boundary at v=%v: got %v, want %v", v, lEnd, orig)
		}
		if orig.DistanceTo(rStart) > 1e-6 {
			t.Errorf("right boundary at v=%v: got %v, want %v", v, rStart, orig)
		}
	}
}

func TestSurfaceTransform(t *testing.T) {
	s := testSurface(t)
	moved := s.Transform(geom.Translation(geom.Point3{X: 5}))
	domU, domV := s.DomainU(), s.DomainV()
	got := moved.PointAt(domU.Min, domV.Min)
	want := s.PointAt(domU.Min, domV.Min).Add(geom.Point3{X: 5})
	if got.DistanceTo(want) > 1e-9 {
		t.Errorf("Transform: got %v, want %v", got, want)
	}
}
