package curve

import (
	"testing"

	"nurbskit.dev/kernel/geom"
)

// TestSeedScenarioS4RefineKnotsPreservesShape checks spec.md's S4: the
// curve's evaluation at 2.5/4 of its domain, before and after refining
// with knots at 0.3 and 0.6 of the domain, must
// agree within tolerance, since refinement is a shape-preserving
// reparametrization of the control net.
func TestSeedScenarioS4RefineKnotsPreservesShape(t *testing.T) {
	pts := []geom.Point3{{X: 0}, {X: 1, Y: 2}, {X: 2, Y: -1}, {X: 3, Y: 1}, {X: 4}}
	c, err := NewFromPoints(pts, 3)
	if err != nil {
		t.Fatalf("NewFromPoints: %v", err)
	}
	dom := c.Domain()
	tt := dom.Min + dom.Length()*2.5/4
	before := c.PointAt(tt)

	refined, err := c.RefineKnots([]float64{dom.Min + dom.Length()*0.3, dom.Min + dom.Length()*0.6})
	if err != nil {
		t.Fatalf("RefineKnots: %v", err)
	}
	after := refined.PointAt(tt)
	if before.DistanceTo(after) > 1e-9 {
		t.Errorf("RefineKnots changed shape at t=%v: before=%v, after=%v", tt, before, after)
	}
}

func TestSplitJoinRoundTrip(t *testing.T) {
	pts := []geom.Point3{{X: 0}, {X: 1, Y: 2}, {X: 2, Y: -1}, {X: 3, Y: 1}, {X: 4}}
	c, err := NewFromPoints(pts, 3)
	if err != nil {
		t.Fatalf("NewFromPoints: %v", err)
	}
	dom := c.Domain()
	mid := dom.Min + dom.Length()*0.4
	left, right, err := c.Split(mid)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	joined, err := Join([]Curve{left, right})
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	for i := 0; i <= 10; i++ {
		frac := float64(i) / 10
		tt := dom.Min + dom.Length()*frac
		a := c.PointAt(tt)
		b := joined.PointAt(tt)
		if a.DistanceTo(b) > 1e-6 {
			t.Errorf("split/join roundtrip at frac=%v: got %v, want %v", frac, b, a)
		}
	}
}

func TestElevateDegreePreservesShape(t *testing.T) {
	pts := []geom.Point3{{X: 0}, {X: 1, Y: 2}, {X: 2, Y: -1}, {X: 3, Y: 1}}
	c, err := NewFromPoints(pts, 2)
	if err != nil {
		t.Fatalf("NewFromPoints: %v", err)
	}
	elevated, err := c.ElevateDegree(4)
	if err != nil {
		t.Fatalf("ElevateDegree: %v", err)
	}
	if elevated.Degree() != 4 {
		t.Fatalf("Degree: got %d, want 4", elevated.Degree())
	}
	dom := c.Domain()
	for i := 0; i <= 10; i++ {
		tt := dom.Min + dom.Length()*float64(i)/10
		a := c.PointAt(tt)
		b := elevated.PointAt(tt)
		if a.DistanceTo(b) > 1e-6 {
			t.Errorf("ElevateDegree changed shape at t=%v: got %v, want %v", tt, b, a)
		}
	}
}

func TestElevateDegreeNoOpAtSameDegree(t *testing.T) {
	pts := []geom.Point3{{X: 0}, {X: 1, Y: 1}, {X: 2}}
	c, _ := NewFromPoints(pts, 2)
	same, err := c.ElevateDegree(2)
	if err != nil {
		t.Fatalf("ElevateDegree: %v", err)
	}
	if same.Degree() != 2 {
		t.Errorf("Degree: got %d, want 2", same.Degree())
	}
}

func TestElevateDegreeRejectsLower(t *testing.T) {
	pts := []geom.Point3{{X: 0}, {X: 1, Y: 1}, {X: 2}, {X: 3, Y: -1}}
	c, _ := NewFromPoints(pts, 3)
	if _, err := c.ElevateDegree(1); err == nil {
		t.Fatalf("expected error elevating to a lower degree")
	}
}

func TestDecomposeIntoBeziersCoversDomain(t *testing.T) {
	pts := []geom.Point3{{X: 0}, {X: 1, Y: 2}, {X: 2, Y: -1}, {X: 3, Y: 1}, {X: 4}, {X: 5, Y: 2}}
	c, err := NewFromPoints(pts, 3)
	if err != nil {
		t.Fatalf("NewFromPoints: %v", err)
	}
	beziers, err := c.DecomposeIntoBeziers()
	if err != nil {
		t.Fatalf("DecomposeIntoBeziers: %v", err)
	}
	if len(beziers) == 0 {
		t.Fatalf("expected at least one Bezier segment")
	}
	// Each segment has the local domain [0,1]; breaks maps it back to
	// its knot span on the original curve.
	breaks := c.Knots().Multiplicities()
	dom := c.Domain()
	for i := 0; i <= 10; i++ {
		tt := dom.Min + dom.Length()*float64(i)/10
		orig := c.PointAt(tt)
		var found bool
		for s, bz := range beziers {
			lo, hi := breaks[s].Value, breaks[s+1].Value
			if tt >= lo-geom.Eps && tt <= hi+geom.Eps {
				if orig.DistanceTo(bz.PointAt((tt-lo)/(hi-lo))) < 1e-6 {
					found = true
				}
			}
		}
		if !found {
			t.Errorf("t=%v: no Bezier segment reproduced the original curve's point", tt)
		}
	}
}

func TestCloseProducesPeriodicCurve(t *testing.T) {
	pts := []geom.Point3{{X: 0}, {X: 1, Y: 1}, {X: 2}, {X: 1, Y: -1}}
	c, err := NewFromPoints(pts, 2)
	if err != nil {
		t.Fatalf("NewFromPoints: %v", err)
	}
	closed, err := c.Close()
	if err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !closed.IsPeriodic() {
		t.Errorf("expected closed curve to be periodic")
	}
}

func TestClampEndsOnNonPeriodicIsNoOp(t *testing.T) {
	pts := []geom.Point3{{X: 0}, {X: 1, Y: 1}, {X: 2}}
	c, _ := NewFromPoints(pts, 2)
	clamped, err := c.ClampEnds()
	if err != nil {
		t.Fatalf("ClampEnds: %v", err)
	}
	if clamped.NumControlPoints() != c.NumControlPoints() {
		t.Errorf("ClampEnds on non-periodic curve should be a no-op")
	}
}
