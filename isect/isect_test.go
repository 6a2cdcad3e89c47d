package isect

import (
	"math"
	"testing"

	"nurbskit.dev/kernel/geom"
	"nurbskit.dev/kernel/prim"
)

// TestSeedScenarioS6PlanePlane checks spec.md's S6: PlaneXY and
// PlaneYZ meet in the Y axis.
func TestSeedScenarioS6PlanePlane(t *testing.T) {
	xy := geom.Plane{Origin: geom.Point3{}, XAxis: geom.Point3{X: 1}, YAxis: geom.Point3{Y: 1}, ZAxis: geom.Point3{Z: 1}}
	yz := geom.Plane{Origin: geom.Point3{}, XAxis: geom.Point3{Y: 1}, YAxis: geom.Point3{Z: 1}, ZAxis: geom.Point3{X: 1}}
	res, err := PlanePlane(xy, yz)
	if err != nil {
		t.Fatalf("PlanePlane: %v", err)
	}
	if res.Point.DistanceTo(geom.Point3{}) > geom.EpsDefault {
		t.Errorf("result point: got %v, want near origin", res.Point)
	}
	if math.Abs(res.Direction.X) > 1e-9 || math.Abs(res.Direction.Z) > 1e-9 {
		t.Errorf("direction should be parallel to Y axis: got %v", res.Direction)
	}
	if math.Abs(math.Abs(res.Direction.Y)-1) > 1e-9 {
		t.Errorf("direction should be unit length along Y: got %v", res.Direction)
	}
}

func TestPlanePlaneParallelErrors(t *testing.T) {
	a := geom.Plane{Origin: geom.Point3{}, XAxis: geom.Point3{X: 1}, YAxis: geom.Point3{Y: 1}, ZAxis: geom.Point3{Z: 1}}
	b := geom.Plane{Origin: geom.Point3{Z: 5}, XAxis: geom.Point3{X: 1}, YAxis: geom.Point3{Y: 1}, ZAxis: geom.Point3{Z: 1}}
	if _, err := PlanePlane(a, b); err == nil {
		t.Fatalf("expected ErrParallelConfig for parallel planes")
	}
}

func TestLinePlaneBasic(t *testing.T) {
	l := Line{Origin: geom.Point3{Z: -5}, Direction: geom.Point3{Z: 1}}
	p := geom.Plane{Origin: geom.Point3{}, XAxis: geom.Point3{X: 1}, YAxis: geom.Point3{Y: 1}, ZAxis: geom.Point3{Z: 1}}
	res, err := LinePlane(l, p)
	if err != nil {
		t.Fatalf("LinePlane: %v", err)
	}
	if res.Point.DistanceTo(geom.Point3{}) > 1e-9 {
		t.Errorf("intersection point: got %v, want origin", res.Point)
	}
	if math.Abs(res.T-5) > 1e-9 {
		t.Errorf("T: got %v, want 5", res.T)
	}
}

func TestLinePlaneParallelErrors(t *testing.T) {
	l := Line{Origin: geom.Point3{Z: 1}, Direction: geom.Point3{X: 1}}
	p := geom.Plane{Origin: geom.Point3{}, XAxis: geom.Point3{X: 1}, YAxis: geom.Point3{Y: 1}, ZAxis: geom.Point3{Z: 1}}
	if _, err := LinePlane(l, p); err == nil {
		t.Fatalf("expected ErrParallelConfig for line parallel to plane")
	}
}

func TestLineLineSkew(t *testing.T) {
	a := Line{Origin: geom.Point3{}, Direction: geom.Point3{X: 1}}
	b := Line{Origin: geom.Point3{Y: 1}, Direction: geom.Point3{Y: 1}}
	res, err := LineLine(a, b)
	if err != nil {
		t.Fatalf("LineLine: %v", err)
	}
	if res.PointA.DistanceTo(geom.Point3{}) > 1e-9 {
		t.Errorf("PointA: got %v, want origin", res.PointA)
	}
	if res.PointB.DistanceTo(geom.Point3{}) > 1e-9 {
		t.Errorf("PointB: got %v, want origin", res.PointB)
	}
}

func TestLineLineParallelErrors(t *testing.T) {
	a := Line{Origin: geom.Point3{}, Direction: geom.Point3{X: 1}}
	b := Line{Origin: geom.Point3{Y: 1}, Direction: geom.Point3{X: 1}}
	if _, err := LineLine(a, b); err == nil {
		t.Fatalf("expected ErrParallelConfig for parallel lines")
	}
}

func TestCurveCurveCrossingLines(t *testing.T) {
	l1, err := prim.NewLine(geom.Point3{X: -5}, geom.Point3{X: 5})
	if err != nil {
		t.Fatalf("NewLine: %v", err)
	}
	l2, err := prim.NewLine(geom.Point3{Y: -5}, geom.Point3{Y: 5})
	if err != nil {
		t.Fatalf("NewLine: %v", err)
	}
	c1, err := l1.ToNURBS()
	if err != nil {
		t.Fatalf("ToNURBS: %v", err)
	}
	c2, err := l2.ToNURBS()
	if err != nil {
		t.Fatalf("ToNURBS: %v", err)
	}
	results := CurveCurve(c1, c2, 1e-6)
	if len(results) != 1 {
		t.Fatalf("expected exactly one intersection, got %d", len(results))
	}
	if results[0].Point.DistanceTo(geom.Point3{}) > 1e-4 {
		t.Errorf("intersection point: got %v, want origin", results[0].Point)
	}
}

func TestCurveCurveParallelLinesNoIntersection(t *testing.T) {
	l1, _ := prim.NewLine(geom.Point3{}, geom.Point3{X: 10})
	l2, _ := prim.NewLine(geom.Point3{Y: 5}, geom.Point3{X: 10, Y: 5})
	c1, _ := l1.ToNURBS()
	c2, _ := l2.ToNURBS()
	results := CurveCurve(c1, c2, 1e-6)
	if len(results) != 0 {
		t.Errorf("expected no intersections between parallel lines, got %d", len(results))
	}
}

func TestCurvePlaneCrossing(t *testing.T) {
	l, err := prim.NewLine(geom.Point3{Z: -5}, geom.Point3{Z: 5})
	if err != nil {
		t.Fatalf("NewLine: %v", err)
	}
	c, err := l.ToNURBS()
	if err != nil {
		t.Fatalf("ToNURBS: %v", err)
	}
	p := geom.Plane{Origin: geom.Point3{}, XAxis: geom.Point3{X: 1}, YAxis: geom.Point3{Y: 1}, ZAxis: geom.Point3{Z: 1}}
	results := CurvePlane(c, p, 1e-6)
	if len(results) != 1 {
		t.Fatalf("expected exactly one crossing, got %d", len(results))
	}
	if results[0].Point.DistanceTo(geom.Point3{}) > 1e-4 {
		t.Errorf("crossing point: got %v, want origin", results[0].Point)
	}
}

func TestCurveSelfNoIntersectionForStraightLine(t *testing.T) {
	l, _ := prim.NewLine(geom.Point3{}, geom.Point3{X: 10})
	c, err := l.ToNURBS()
	if err != nil {
		t.Fatalf("ToNURBS: %v", err)
	}
	results := CurveSelf(c, 1e-6)
	if len(results) != 0 {
		t.Errorf("expected no self-intersections on a straight line, got %d", len(results))
	}
}
