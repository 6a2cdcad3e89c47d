package fit

import (
	"testing"

	"nurbskit.dev/kernel/geom"
)

func samplePoints() []geom.Point3 {
	return []geom.Point3{
		{X: 0, Y: 0},
		{X: 1, Y: 2},
		{X: 3, Y: 3},
		{X: 4, Y: 1},
		{X: 6, Y: 0},
	}
}

// TestInterpolateReproducesPoints checks spec.md §4.I's core guarantee
// of global interpolation: the fitted curve passes exactly through
// every input point at its chord-length parameter.
func TestInterpolateReproducesPoints(t *testing.T) {
	pts := samplePoints()
	c, err := Interpolate(pts, 3)
	if err != nil {
		t.Fatalf("Interpolate: %v", err)
	}
	ubar := chordLengthParams(pts)
	for i, q := range pts {
		got := c.PointAt(ubar[i])
		if got.DistanceTo(q) > 1e-6 {
			t.Errorf("point %d: got %v, want %v", i, got, q)
		}
	}
}

func TestInterpolateRejectsBadDegree(t *testing.T) {
	pts := samplePoints()
	if _, err := Interpolate(pts, 0); err == nil {
		t.Fatalf("expected error for degree 0")
	}
	if _, err := Interpolate(pts, len(pts)); err == nil {
		t.Fatalf("expected error for degree >= n+1")
	}
}

func TestInterpolateWithTangentsReproducesPointsAndTangents(t *testing.T) {
	pts := samplePoints()
	start := geom.Vector3{X: 1, Y: 1}
	end := geom.Vector3{X: 1, Y: -1}
	c, err := InterpolateWithTangents(pts, 3, start, end)
	if err != nil {
		t.Fatalf("InterpolateWithTangents: %v", err)
	}
	dom := c.Domain()
	if got := c.PointAt(dom.Min); got.DistanceTo(pts[0]) > 1e-6 {
		t.Errorf("start point: got %v, want %v", got, pts[0])
	}
	if got := c.PointAt(dom.Max); got.DistanceTo(pts[len(pts)-1]) > 1e-6 {
		t.Errorf("end point: got %v, want %v", got, pts[len(pts)-1])
	}
	startTan := c.DerivativesAt(dom.Min, 1)[1]
	startDir := startTan.Unitize()
	wantDir := start.Unitize()
	if startDir.DistanceTo(wantDir) > 1e-4 {
		t.Errorf("start tangent direction: got %v, want %v", startDir, wantDir)
	}
}

func TestBezierInterpolatePassesThroughPoints(t *testing.T) {
	pts := samplePoints()
	segs, err := BezierInterpolate(pts)
	if err != nil {
		t.Fatalf("BezierInterpolate: %v", err)
	}
	if len(segs) != len(pts)-1 {
		t.Fatalf("expected %d segments, got %d", len(pts)-1, len(segs))
	}
	for i, seg := range segs {
		dom := seg.Domain()
		start := seg.PointAt(dom.Min)
		end := seg.PointAt(dom.Max)
		if start.DistanceTo(pts[i]) > 1e-9 {
			t.Errorf("segment %d start: got %v, want %v", i, start, pts[i])
		}
		if end.DistanceTo(pts[i+1]) > 1e-9 {
			t.Errorf("segment %d end: got %v, want %v", i, end, pts[i+1])
		}
	}
}

func TestBezierInterpolateSinglePointRejected(t *testing.T) {
	if _, err := BezierInterpolate([]geom.Point3{{}}); err == nil {
		t.Fatalf("expected error for a single point")
	}
}

func TestApproximatePinsEndpoints(t *testing.T) {
	pts := make([]geom.Point3, 0, 20)
	for i := 0; i < 20; i++ {
		x := float64(i)
		pts = append(pts, geom.Point3{X: x, Y: x * x / 40})
	}
	c, err := Approximate(pts, 3, 6)
	if err != nil {
		t.Fatalf("Approximate: %v", err)
	}
	dom := c.Domain()
	if got := c.PointAt(dom.Min); got.DistanceTo(pts[0]) > 1e-6 {
		t.Errorf("start point: got %v, want %v", got, pts[0])
	}
	if got := c.PointAt(dom.Max); got.DistanceTo(pts[len(pts)-1]) > 1e-6 {
		t.Errorf("end point: got %v, want %v", got, pts[len(pts)-1])
	}
	if c.NumControlPoints() != 7 {
		t.Errorf("control point count: got %d, want 7", c.NumControlPoints())
	}
}

func TestApproximateRejectsTooManyControlPoints(t *testing.T) {
	pts := samplePoints()
	if _, err := Approximate(pts, 3, len(pts)-1); err == nil {
		t.Fatalf("expected error when m >= n")
	}
}
