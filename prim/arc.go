package prim

import (
	"fmt"
	"math"

	"nurbskit.dev/kernel/curve"
	"nurbskit.dev/kernel/geom"
)

// Arc is a circular arc on a plane, parametrized by a start angle and
// a signed sweep; angles are measured from the plane's
// x_axis toward its y_axis.
type Arc struct {
	Plane                geom.Plane
	Radius               float64
	StartAngle, Sweep    float64
}

// NewArc builds an arc from an explicit plane, radius and angular
// range.
func NewArc(plane geom.Plane, radius, startAngle, sweep float64) (Arc, error) {
	if radius <= 0 {
		return Arc{}, fmt.Errorf("prim: arc: %w", geom.ErrInvalidPointCount)
	}
	return Arc{Plane: plane, Radius: radius, StartAngle: startAngle, Sweep: sweep}, nil
}

// NewArcThroughPoints builds the arc through three non-collinear
// points: the plane is fit to the three points, the circumcenter and
// radius solved in that plane's local 2-D coordinates, and the sweep
// direction chosen so the arc passes through the middle point between
// the first and the last.
func NewArcThroughPoints(a, b, c geom.Point3) (Arc, error) {
	plane, err := geom.NewPlaneFromPoints(a, b, c)
	if err != nil {
		return Arc{}, fmt.Errorf("prim: arc: %w", err)
	}
	pa, pb, pc := to2D(plane, a), to2D(plane, b), to2D(plane, c)
	center, radius, err := circumcircle(pa, pb, pc)
	if err != nil {
		return Arc{}, err
	}
	centerPlane := geom.Plane{Origin: from2D(plane, center), XAxis: plane.XAxis, YAxis: plane.YAxis, ZAxis: plane.ZAxis}

	startAngle := math.Atan2(pa.v-center.v, pa.u-center.u)
	angleB := mod2Pi(math.Atan2(pb.v-center.v, pb.u-center.u) - startAngle)
	angleC := mod2Pi(math.Atan2(pc.v-center.v, pc.u-center.u) - startAngle)

	sweep := angleC
	if angleB > angleC {
		sweep = angleC - 2*math.Pi
	}
	return Arc{Plane: centerPlane, Radius: radius, StartAngle: startAngle, Sweep: sweep}, nil
}

// ToNURBS reduces the arc to an equivalent rational Bézier curve
// (Piegl & Tiller A7.1).
func (a Arc) ToNURBS() (curve.Curve, error) {
	return arcToNURBS(a.Plane, a.Radius, a.StartAngle, a.Sweep)
}

// Circle is a full 2π Arc.
type Circle struct {
	Plane  geom.Plane
	Radius float64
}

// NewCircle builds a circle on plane with the given radius.
func NewCircle(plane geom.Plane, radius float64) (Circle, error) {
	if radius <= 0 {
		return Circle{}, fmt.Errorf("prim: circle: %w", geom.ErrInvalidPointCount)
	}
	return Circle{Plane: plane, Radius: radius}, nil
}

// ToNURBS reduces the circle to an equivalent 4-segment rational
// Bézier curve.
func (c Circle) ToNURBS() (curve.Curve, error) {
	return arcToNURBS(c.Plane, c.Radius, 0, 2*math.Pi)
}
