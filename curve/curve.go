// Package curve implements the immutable rational NURBS curve:
// evaluation, derivatives, tangent/curvature/frame, bounding box, and
// the modification operations (in modify.go).
package curve

import (
	"fmt"
	"math"

	"nurbskit.dev/kernel/basis"
	"nurbskit.dev/kernel/geom"
	"nurbskit.dev/kernel/knot"
)

// Curve is an immutable rational B-spline curve. Control points are
// stored premultiplied, (w*x, w*y, w*z, w); dehomogenize only at API
// boundaries.
type Curve struct {
	degree       int
	knots        knot.Vector
	controlPoints []geom.Point4
}

// New builds a curve from an explicit degree, knot vector and control
// points, validating the degree/knot-vector/control-point-count
// invariants of a well-formed NURBS curve.
func New(degree int, knots knot.Vector, controlPoints []geom.Point4) (Curve, error) {
	if err := knots.Validate(degree, len(controlPoints)); err != nil {
		return Curve{}, fmt.Errorf("curve: %w", err)
	}
	cps := append([]geom.Point4(nil), controlPoints...)
	return Curve{degree: degree, knots: append(knot.Vector(nil), knots...), controlPoints: cps}, nil
}

// NewFromPoints builds a clamped, uniform-knot, unweighted curve
// through the given affine points.
func NewFromPoints(points []geom.Point3, degree int) (Curve, error) {
	cps := make([]geom.Point4, len(points))
	for i, p := range points {
		cps[i] = geom.NewPoint4(p, 1)
	}
	return New(degree, knot.UniformClamped(degree, len(points)), cps)
}

func (c Curve) Degree() int          { return c.degree }
func (c Curve) Knots() knot.Vector   { return append(knot.Vector(nil), c.knots...) }
func (c Curve) NumControlPoints() int { return len(c.controlPoints) }

// ControlPoints returns a copy of the homogeneous control points.
func (c Curve) ControlPoints() []geom.Point4 {
	return append([]geom.Point4(nil), c.controlPoints...)
}

// LocationPoints returns the dehomogenized control points, a derived
// view rather than stored state.
func (c Curve) LocationPoints() []geom.Point3 {
	out := make([]geom.Point3, len(c.controlPoints))
	for i, p := range c.controlPoints {
		out[i] = p.Point()
	}
	return out
}

// Weights returns the control-point weights, a derived view.
func (c Curve) Weights() []float64 {
	out := make([]float64, len(c.controlPoints))
	for i, p := range c.controlPoints {
		out[i] = p.W
	}
	return out
}

// Domain returns the active parameter domain.
func (c Curve) Domain() geom.Interval {
	return c.knots.Domain(c.degree)
}

// IsClamped, IsPeriodic, IsUniform report the knot vector's
// classification, promoted to Curve for convenience.
func (c Curve) IsClamped() bool  { return c.knots.IsClamped(c.degree) }
func (c Curve) IsPeriodic() bool { return c.knots.IsPeriodic(c.degree) }
func (c Curve) IsUniform() bool  { return c.knots.IsUniform(c.degree) }

func (c Curve) lastIndex() int { return len(c.controlPoints) - 1 }

// PointAt evaluates the curve at t (Piegl & Tiller A3.1). t is clamped
// to the active domain before evaluation; a caller passing t outside
// the domain receives the boundary point.
func (c Curve) PointAt(t float64) geom.Point3 {
	return c.homogeneousPointAt(t).Point()
}

func (c Curve) homogeneousPointAt(t float64) geom.Point4 {
	t = c.Domain().Clamp(t)
	span := c.knots.Span(c.degree, c.lastIndex(), t)
	n := basis.Eval(c.degree, c.knots, span, t, nil)
	var sum geom.Point4
	for j := 0; j <= c.degree; j++ {
		cp := c.controlPoints[span-c.degree+j]
		sum = sum.Add(cp.Mul(n[j]))
	}
	return sum
}

// DerivativesAt returns the first order rational derivatives
// C(t), C'(t), ..., C^(order)(t) (Piegl & Tiller A3.2/A4.2). Orders
// beyond the curve's degree are the zero vector.
func (c Curve) DerivativesAt(t float64, order int) []geom.Vector3 {
	t = c.Domain().Clamp(t)
	span := c.knots.Span(c.degree, c.lastIndex(), t)
	du := min(order, c.degree)
	nders := basis.Derivatives(c.degree, c.knots, span, t, du)

	// Homogeneous derivatives A^(k) and weight derivatives w^(k).
	aDers := make([]geom.Point3, du+1)
	wDers := make([]float64, du+1)
	for k := 0; k <= du; k++ {
		var a geom.Point3
		var w float64
		for j := 0; j <= c.degree; j++ {
			cp := c.controlPoints[span-c.degree+j]
			nk := nders[k][j]
			a = a.Add(geom.Point3{X: cp.X, Y: cp.Y, Z: cp.Z}.Mul(nk))
			w += cp.W * nk
		}
		aDers[k] = a
		wDers[k] = w
	}

	out := make([]geom.Vector3, order+1)
	w0 := wDers[0]
	for k := 0; k <= order; k++ {
		if k > c.degree || w0 == 0 {
			out[k] = geom.Point3{}
			continue
		}
		v := aDers[k]
		for i := 1; i <= k; i++ {
			v = v.Sub(out[k-i].Mul(geom.Binomial(k, i) * wDers[i]))
		}
		out[k] = v.Div(w0)
	}
	return out
}

// TangentAt returns the normalized first derivative at t.
func (c Curve) TangentAt(t float64) geom.Vector3 {
	ders := c.DerivativesAt(t, 1)
	return ders[1].Unitize()
}

// Frame is a curve's local frame at a parameter: point, unit tangent,
// and two vectors completing a right-handed orthonormal basis
// following the curvature vector (a Frenet-style frame).
type Frame struct {
	Point            geom.Point3
	Tangent, Normal, Binormal geom.Vector3
}

// FrameAt computes the curve's point, tangent, curvature-based normal
// and binormal at t. When the second derivative is (near) zero, the
// frame falls back to an arbitrary vector perpendicular to the
// tangent so the result is always defined.
func (c Curve) FrameAt(t float64) Frame {
	ders := c.DerivativesAt(t, 2)
	pt := c.PointAt(t)
	tangent := ders[1].Unitize()
	normal := curvatureNormal(ders[1], ders[2])
	if normal.Length() < geom.Eps {
		normal = arbitraryPerpendicular(tangent)
	}
	binormal := tangent.Cross(normal).Unitize()
	return Frame{Point: pt, Tangent: tangent, Normal: normal.Unitize(), Binormal: binormal}
}

// curvatureNormal computes the curvature vector direction from the
// first and second derivatives via k = (d1 x d2) x d1 / |d1|^3, the
// standard planar/spatial curvature formula.
func curvatureNormal(d1, d2 geom.Vector3) geom.Vector3 {
	l := d1.Length()
	if l < geom.Eps {
		return geom.Vector3{}
	}
	num := d1.Cross(d2).Cross(d1)
	return num.Div(l * l * l)
}

func arbitraryPerpendicular(tangent geom.Vector3) geom.Vector3 {
	ref := geom.Vector3{X: 1}
	if math.Abs(tangent.Dot(ref)) > 0.9 {
		ref = geom.Vector3{Y: 1}
	}
	return ref.Sub(tangent.Mul(tangent.Dot(ref))).Unitize()
}

// Transform returns a new curve with every control point transformed
// by m (weights are preserved; the affine point moves).
func (c Curve) Transform(m geom.Transform) Curve {
	cps := make([]geom.Point4, len(c.controlPoints))
	for i, p := range c.controlPoints {
		cps[i] = m.ApplyPoint4(p)
	}
	out, _ := New(c.degree, c.knots, cps)
	return out
}

// Reverse returns a new curve with reversed control points and a
// domain-preserving reversed knot vector.
func (c Curve) Reverse() Curve {
	n := len(c.controlPoints)
	cps := make([]geom.Point4, n)
	for i, p := range c.controlPoints {
		cps[n-1-i] = p
	}
	out, _ := New(c.degree, c.knots.Reversed(), cps)
	return out
}
