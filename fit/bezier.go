package fit

import (
	"fmt"

	"nurbskit.dev/kernel/curve"
	"nurbskit.dev/kernel/geom"
	"nurbskit.dev/kernel/knot"
)

// BezierInterpolate produces a piecewise cubic Bézier interpolation of
// points Q_0..Q_n: n segments, C1-continuous at every shared endpoint,
// with interior tangents
// estimated by the standard Catmull-Rom central difference and the two
// end tangents by one-sided differences.
func BezierInterpolate(points []geom.Point3) ([]curve.Curve, error) {
	n := len(points) - 1
	if n < 1 {
		return nil, fmt.Errorf("fit: bezier interpolate: %w", geom.ErrInvalidPointCount)
	}
	tangents := make([]geom.Vector3, n+1)
	tangents[0] = points[1].Sub(points[0])
	tangents[n] = points[n].Sub(points[n-1])
	for i := 1; i < n; i++ {
		tangents[i] = points[i+1].Sub(points[i-1]).Mul(0.5)
	}

	kv := knot.Vector{0, 0, 0, 0, 1, 1, 1, 1}
	segs := make([]curve.Curve, n)
	for i := 0; i < n; i++ {
		c0 := points[i]
		c3 := points[i+1]
		c1 := c0.Add(tangents[i].Mul(1.0 / 3))
		c2 := c3.Sub(tangents[i+1].Mul(1.0 / 3))
		cps := []geom.Point4{
			geom.NewPoint4(c0, 1),
			geom.NewPoint4(c1, 1),
			geom.NewPoint4(c2, 1),
			geom.NewPoint4(c3, 1),
		}
		seg, err := curve.New(3, kv, cps)
		if err != nil {
			return nil, fmt.Errorf("fit: bezier interpolate: %w", err)
		}
		segs[i] = seg
	}
	return segs, nil
}
