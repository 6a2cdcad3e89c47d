package geom

import (
	"math"
	"testing"
)

func TestPoint3Arithmetic(t *testing.T) {
	a := Point3{X: 1, Y: 2, Z: 3}
	b := Point3{X: 4, Y: -1, Z: 0.5}
	if got, want := a.Add(b), (Point3{X: 5, Y: 1, Z: 3.5}); got != want {
		t.Errorf("Add: got %v, want %v", got, want)
	}
	if got, want := a.Sub(b), (Point3{X: -3, Y: 3, Z: 2.5}); got != want {
		t.Errorf("Sub: got %v, want %v", got, want)
	}
	if got := a.Dot(b); math.Abs(got-(4-2+1.5)) > Eps {
		t.Errorf("Dot: got %v, want %v", got, 4-2+1.5)
	}
}

func TestCrossOrthogonal(t *testing.T) {
	x := Point3{X: 1}
	y := Point3{Y: 1}
	z := x.Cross(y)
	if got, want := z, (Point3{Z: 1}); got != want {
		t.Errorf("Cross: got %v, want %v", got, want)
	}
	if d := z.Dot(x); math.Abs(d) > Eps {
		t.Errorf("cross product not orthogonal to x: dot = %v", d)
	}
}

func TestUnitize(t *testing.T) {
	v := Point3{X: 3, Y: 4}
	u := v.Unitize()
	if math.Abs(u.Length()-1) > 1e-12 {
		t.Errorf("Unitize: length = %v, want 1", u.Length())
	}
	zero := Point3{}
	if got := zero.Unitize(); got != zero {
		t.Errorf("Unitize of zero vector: got %v, want unchanged zero", got)
	}
}

func TestPoint4Dehomogenize(t *testing.T) {
	p := NewPoint4(Point3{X: 2, Y: 4, Z: 6}, 2)
	pt, w := p.Dehomogenize()
	if got, want := pt, (Point3{X: 2, Y: 4, Z: 6}); got != want {
		t.Errorf("Dehomogenize point: got %v, want %v", got, want)
	}
	if w != 2 {
		t.Errorf("Dehomogenize weight: got %v, want 2", w)
	}
}

func TestPoint4Lerp(t *testing.T) {
	a := NewPoint4(Point3{X: 0}, 1)
	b := NewPoint4(Point3{X: 10}, 1)
	mid := a.Lerp(b, 0.5)
	pt, _ := mid.Dehomogenize()
	if math.Abs(pt.X-5) > Eps {
		t.Errorf("Lerp midpoint: got %v, want X=5", pt)
	}
}

func TestBoundingBoxUnion(t *testing.T) {
	box := EmptyBoundingBox()
	box = box.UnionPoint(Point3{X: 1, Y: 2, Z: 3})
	box = box.UnionPoint(Point3{X: -1, Y: 5, Z: 0})
	if got, want := box.Min, (Point3{X: -1, Y: 2, Z: 0}); got != want {
		t.Errorf("Min: got %v, want %v", got, want)
	}
	if got, want := box.Max, (Point3{X: 1, Y: 5, Z: 3}); got != want {
		t.Errorf("Max: got %v, want %v", got, want)
	}
}

func TestBoundingBoxIntersects(t *testing.T) {
	a := EmptyBoundingBox().UnionPoint(Point3{}).UnionPoint(Point3{X: 1, Y: 1, Z: 1})
	b := EmptyBoundingBox().UnionPoint(Point3{X: 2, Y: 2, Z: 2}).UnionPoint(Point3{X: 3, Y: 3, Z: 3})
	if a.Intersects(b, 0) {
		t.Errorf("disjoint boxes reported as intersecting")
	}
	if !a.Intersects(b, 2) {
		t.Errorf("boxes within tolerance reported as disjoint")
	}
}

func TestPlaneFromPoints(t *testing.T) {
	pl, err := NewPlaneFromPoints(Point3{}, Point3{X: 1}, Point3{Y: 1})
	if err != nil {
		t.Fatalf("NewPlaneFromPoints: %v", err)
	}
	if !pl.IsValid() {
		t.Errorf("plane not valid: %+v", pl)
	}
	if got, want := pl.ZAxis, (Point3{Z: 1}); got != want {
		t.Errorf("ZAxis: got %v, want %v", got, want)
	}
	if got := pl.SignedDistanceTo(Point3{Z: 5}); math.Abs(got-5) > Eps {
		t.Errorf("SignedDistanceTo: got %v, want 5", got)
	}
}

func TestPlaneFromCollinearPoints(t *testing.T) {
	_, err := NewPlaneFromPoints(Point3{}, Point3{X: 1}, Point3{X: 2})
	if err == nil {
		t.Fatalf("expected ErrCollinear for collinear input points")
	}
}

func TestBinomial(t *testing.T) {
	cases := []struct {
		n, k int
		want float64
	}{
		{0, 0, 1}, {4, 0, 1}, {4, 4, 1}, {4, 2, 6}, {5, 2, 10}, {6, 3, 20},
	}
	for _, c := range cases {
		if got := Binomial(c.n, c.k); got != c.want {
			t.Errorf("Binomial(%d,%d): got %v, want %v", c.n, c.k, got, c.want)
		}
	}
	if got := Binomial(4, 5); got != 0 {
		t.Errorf("Binomial(4,5): got %v, want 0", got)
	}
	if got := Binomial(4, -1); got != 0 {
		t.Errorf("Binomial(4,-1): got %v, want 0", got)
	}
}

func TestTransformTranslation(t *testing.T) {
	m := Translation(Point3{X: 1, Y: 2, Z: 3})
	got := m.Apply(Point3{X: 10, Y: 10, Z: 10})
	if want := (Point3{X: 11, Y: 12, Z: 13}); got != want {
		t.Errorf("Apply: got %v, want %v", got, want)
	}
	dir := m.ApplyVector(Point3{X: 1})
	if dir != (Point3{X: 1}) {
		t.Errorf("ApplyVector should ignore translation: got %v", dir)
	}
}

func TestRotationAroundZ(t *testing.T) {
	m := Rotation(Point3{Z: 1}, math.Pi/2)
	got := m.Apply(Point3{X: 1})
	want := Point3{Y: 1}
	if got.DistanceTo(want) > 1e-9 {
		t.Errorf("90deg rotation about Z: got %v, want %v", got, want)
	}
}

func TestIntervalClampAndNormalize(t *testing.T) {
	iv := Interval{Min: 2, Max: 6}
	if got := iv.Clamp(10); got != 6 {
		t.Errorf("Clamp above: got %v, want 6", got)
	}
	if got := iv.Clamp(-1); got != 2 {
		t.Errorf("Clamp below: got %v, want 2", got)
	}
	if got := iv.Normalize(4); math.Abs(got-0.5) > Eps {
		t.Errorf("Normalize: got %v, want 0.5", got)
	}
	if got := iv.Denormalize(0.5); math.Abs(got-4) > Eps {
		t.Errorf("Denormalize: got %v, want 4", got)
	}
}
