// Package prim implements the constructive primitive geometries (Arc,
// Circle, Line, Polyline, Polygon), each reducible to an equivalent
// NURBS curve via ToNURBS.
package prim

import (
	"fmt"
	"math"

	"nurbskit.dev/kernel/curve"
	"nurbskit.dev/kernel/geom"
	"nurbskit.dev/kernel/knot"
)

// point2 is a primitive's working representation of a point in a
// plane's local (x_axis, y_axis) coordinates, used by circular-arc
// construction.
type point2 struct{ u, v float64 }

func to2D(pl geom.Plane, p geom.Point3) point2 {
	d := p.Sub(pl.Origin)
	return point2{u: d.Dot(pl.XAxis), v: d.Dot(pl.YAxis)}
}

func from2D(pl geom.Plane, p point2) geom.Point3 {
	return pl.Origin.Add(pl.XAxis.Mul(p.u)).Add(pl.YAxis.Mul(p.v))
}

func cross2D(a, b point2) float64 { return a.u*b.v - a.v*b.u }

func sub2D(a, b point2) point2 { return point2{u: a.u - b.u, v: a.v - b.v} }

func mod2Pi(x float64) float64 {
	const twoPi = 2 * math.Pi
	x = math.Mod(x, twoPi)
	if x < 0 {
		x += twoPi
	}
	return x
}

// arcToNURBS builds the rational Bézier stitching of a circular arc on
// plane pl, of the given radius, running from startAngle through
// sweep radians (Piegl & Tiller A7.1): the angular
// domain is split into N in {1,2,3,4} quarter-arc-or-less Bézier
// pieces; each piece's three control points are the two endpoints
// (weight 1) and the tangent-line intersection (weight cos(Δθ/2));
// pieces are stitched with shared interior knots of multiplicity 2.
func arcToNURBS(pl geom.Plane, radius, startAngle, sweep float64) (curve.Curve, error) {
	if radius <= 0 {
		return curve.Curve{}, fmt.Errorf("prim: arc: non-positive radius: %w", geom.ErrInvalidPointCount)
	}
	if math.Abs(sweep) < geom.Eps {
		return curve.Curve{}, fmt.Errorf("prim: arc: zero sweep: %w", geom.ErrInvalidPointCount)
	}
	narcs := int(math.Ceil(math.Abs(sweep) / (math.Pi / 2)))
	if narcs < 1 {
		narcs = 1
	}
	if narcs > 4 {
		narcs = 4
	}
	dtheta := sweep / float64(narcs)
	w1 := math.Cos(dtheta / 2)

	pointAt := func(angle float64) geom.Point3 {
		return pl.Origin.Add(pl.XAxis.Mul(radius * math.Cos(angle))).Add(pl.YAxis.Mul(radius * math.Sin(angle)))
	}
	tangentAt := func(angle float64) geom.Vector3 {
		return pl.XAxis.Mul(-math.Sin(angle)).Add(pl.YAxis.Mul(math.Cos(angle)))
	}

	n := 2 * narcs
	cps := make([]geom.Point4, n+1)
	angle := startAngle
	p0 := pointAt(angle)
	t0 := tangentAt(angle)
	cps[0] = geom.NewPoint4(p0, 1)
	idx := 0
	for i := 1; i <= narcs; i++ {
		angle2 := angle + dtheta
		p2 := pointAt(angle2)
		t2 := tangentAt(angle2)

		p0l := to2D(pl, p0)
		p2l := to2D(pl, p2)
		t0local := point2{u: t0.Dot(pl.XAxis), v: t0.Dot(pl.YAxis)}
		t2local := point2{u: t2.Dot(pl.XAxis), v: t2.Dot(pl.YAxis)}
		denom := cross2D(t0local, t2local)
		var p1 geom.Point3
		if math.Abs(denom) < geom.Eps {
			p1 = from2D(pl, point2{u: (p0l.u + p2l.u) / 2, v: (p0l.v + p2l.v) / 2})
		} else {
			s := cross2D(sub2D(p2l, p0l), t2local) / denom
			p1l := point2{u: p0l.u + s*t0local.u, v: p0l.v + s*t0local.v}
			p1 = from2D(pl, p1l)
		}

		cps[idx+1] = geom.NewPoint4(p1, w1)
		cps[idx+2] = geom.NewPoint4(p2, 1)
		idx += 2
		p0, t0, angle = p2, t2, angle2
	}

	kv := make(knot.Vector, 0, n+4)
	for i := 0; i < 3; i++ {
		kv = append(kv, 0)
	}
	for i := 1; i < narcs; i++ {
		val := float64(i) / float64(narcs)
		kv = append(kv, val, val)
	}
	for i := 0; i < 3; i++ {
		kv = append(kv, 1)
	}
	return curve.New(2, kv, cps)
}

// circumcircle solves for the 2-D circumcenter and radius of three
// points, returning geom.ErrCollinear when they don't determine a
// unique circle.
func circumcircle(a, b, c point2) (point2, float64, error) {
	d := 2 * (a.u*(b.v-c.v) + b.u*(c.v-a.v) + c.u*(a.v-b.v))
	if math.Abs(d) < geom.Eps {
		return point2{}, 0, fmt.Errorf("prim: arc: %w", geom.ErrCollinear)
	}
	a2 := a.u*a.u + a.v*a.v
	b2 := b.u*b.u + b.v*b.v
	c2 := c.u*c.u + c.v*c.v
	ux := (a2*(b.v-c.v) + b2*(c.v-a.v) + c2*(a.v-b.v)) / d
	uy := (a2*(c.u-b.u) + b2*(a.u-c.u) + c2*(b.u-a.u)) / d
	center := point2{u: ux, v: uy}
	radius := math.Hypot(ux-a.u, uy-a.v)
	return center, radius, nil
}
