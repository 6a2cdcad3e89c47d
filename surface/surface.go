// Package surface implements the immutable tensor-product rational
// NURBS surface: evaluation, derivatives, normal, isocurve extraction,
// split, and transform.
package surface

import (
	"fmt"

	"nurbskit.dev/kernel/basis"
	"nurbskit.dev/kernel/curve"
	"nurbskit.dev/kernel/geom"
	"nurbskit.dev/kernel/knot"
)

// Surface is an immutable tensor-product rational B-spline surface.
// Control points are stored as a flat (n_u+1)*(n_v+1) buffer with a u
// stride rather than a grid of slices.
type Surface struct {
	degreeU, degreeV int
	knotsU, knotsV   knot.Vector
	numU, numV       int
	controlPoints    []geom.Point4 // row-major: index = i*numV + j
}

// New builds a surface from explicit degrees, knot vectors, and a
// row-major (numU x numV) control-point grid, validating each
// direction's knot invariants independently and normalizing both knot
// vectors to [0,1] on construction.
func New(degreeU, degreeV int, knotsU, knotsV knot.Vector, numU, numV int, controlPoints []geom.Point4) (Surface, error) {
	if len(controlPoints) != numU*numV {
		return Surface{}, fmt.Errorf("surface: control point count %d != %d*%d: %w", len(controlPoints), numU, numV, geom.ErrInvalidPointCount)
	}
	if err := knotsU.Validate(degreeU, numU); err != nil {
		return Surface{}, fmt.Errorf("surface: u direction: %w", err)
	}
	if err := knotsV.Validate(degreeV, numV); err != nil {
		return Surface{}, fmt.Errorf("surface: v direction: %w", err)
	}
	cps := append([]geom.Point4(nil), controlPoints...)
	return Surface{
		degreeU: degreeU, degreeV: degreeV,
		knotsU: knotsU.Normalize(degreeU), knotsV: knotsV.Normalize(degreeV),
		numU: numU, numV: numV,
		controlPoints: cps,
	}, nil
}

func (s Surface) DegreeU() int        { return s.degreeU }
func (s Surface) DegreeV() int        { return s.degreeV }
func (s Surface) KnotsU() knot.Vector { return append(knot.Vector(nil), s.knotsU...) }
func (s Surface) KnotsV() knot.Vector { return append(knot.Vector(nil), s.knotsV...) }
func (s Surface) NumU() int           { return s.numU }
func (s Surface) NumV() int           { return s.numV }

// DomainU, DomainV return the active parameter domain in each
// direction (SPEC_FULL.md supplemental accessor).
func (s Surface) DomainU() geom.Interval { return s.knotsU.Domain(s.degreeU) }
func (s Surface) DomainV() geom.Interval { return s.knotsV.Domain(s.degreeV) }

func (s Surface) at(i, j int) geom.Point4 { return s.controlPoints[i*s.numV+j] }

// ControlPoints returns a copy of the homogeneous control points as a
// row-major (NumU x NumV) flat buffer.
func (s Surface) ControlPoints() []geom.Point4 {
	return append([]geom.Point4(nil), s.controlPoints...)
}

// PointAt evaluates the surface at (u,v) (Piegl & Tiller A3.5): for
// the v span and each row l in [0,p_v], accumulate a temporary row sum
// over u, then blend the rows by the v basis; dehomogenize once at the
// end. Parameters outside the active domain are clamped, mirroring a
// curve's edge behavior.
func (s Surface) PointAt(u, v float64) geom.Point3 {
	return s.homogeneousPointAt(u, v).Point()
}

func (s Surface) homogeneousPointAt(u, v float64) geom.Point4 {
	u = s.DomainU().Clamp(u)
	v = s.DomainV().Clamp(v)
	spanU := s.knotsU.Span(s.degreeU, s.numU-1, u)
	spanV := s.knotsV.Span(s.degreeV, s.numV-1, v)
	nu := basis.Eval(s.degreeU, s.knotsU, spanU, u, nil)
	nv := basis.Eval(s.degreeV, s.knotsV, spanV, v, nil)

	temp := make([]geom.Point4, s.degreeV+1)
	for l := 0; l <= s.degreeV; l++ {
		var row geom.Point4
		for x := 0; x <= s.degreeU; x++ {
			cp := s.at(spanU-s.degreeU+x, spanV-s.degreeV+l)
			row = row.Add(cp.Mul(nu[x]))
		}
		temp[l] = row
	}
	var sum geom.Point4
	for l := 0; l <= s.degreeV; l++ {
		sum = sum.Add(temp[l].Mul(nv[l]))
	}
	return sum
}

// DerivativesAt returns the (order+1) x (order+1) grid of rational
// partial derivatives ∂^(k+l) S / ∂u^k ∂v^l for k, l in [0, order]
// (Piegl & Tiller A3.6 + the bivariate Leibniz rule, mirroring the
// curve case). Orders beyond each direction's
// degree are the zero vector.
func (s Surface) DerivativesAt(u, v float64, order int) [][]geom.Vector3 {
	u = s.DomainU().Clamp(u)
	v = s.DomainV().Clamp(v)
	spanU := s.knotsU.Span(s.degreeU, s.numU-1, u)
	spanV := s.knotsV.Span(s.degreeV, s.numV-1, v)
	duU := min(order, s.degreeU)
	duV := min(order, s.degreeV)
	ndersU := basis.Derivatives(s.degreeU, s.knotsU, spanU, u, duU)
	ndersV := basis.Derivatives(s.degreeV, s.knotsV, spanV, v, duV)

	// Homogeneous mixed partials A^(k,l) and weight partials w^(k,l).
	aDers := make([][]geom.Point3, duU+1)
	wDers := make([][]float64, duU+1)
	for k := range aDers {
		aDers[k] = make([]geom.Point3, duV+1)
		wDers[k] = make([]float64, duV+1)
	}
	for k := 0; k <= duU; k++ {
		for l := 0; l <= duV; l++ {
			var a geom.Point3
			var w float64
			for x := 0; x <= s.degreeU; x++ {
				for y := 0; y <= s.degreeV; y++ {
					cp := s.at(spanU-s.degreeU+x, spanV-s.degreeV+y)
					coeff := ndersU[k][x] * ndersV[l][y]
					a = a.Add(geom.Point3{X: cp.X, Y: cp.Y, Z: cp.Z}.Mul(coeff))
					w += cp.W * coeff
				}
			}
			aDers[k][l] = a
			wDers[k][l] = w
		}
	}

	out := make([][]geom.Vector3, order+1)
	for k := range out {
		out[k] = make([]geom.Vector3, order+1)
	}
	w00 := wDers[0][0]
	for k := 0; k <= order; k++ {
		for l := 0; l <= order; l++ {
			if k > s.degreeU || l > s.degreeV || w00 == 0 {
				out[k][l] = geom.Point3{}
				continue
			}
			v3 := aDers[k][l]
			for i := 0; i <= k; i++ {
				for j := 0; j <= l; j++ {
					if i == 0 && j == 0 {
						continue
					}
					coeff := geom.Binomial(k, i) * geom.Binomial(l, j) * wDers[i][j]
					v3 = v3.Sub(out[k-i][l-j].Mul(coeff))
				}
			}
			out[k][l] = v3.Div(w00)
		}
	}
	return out
}

// NormalAt returns the unit surface normal at (u,v), the normalized
// cross product of the u and v partial derivatives.
func (s Surface) NormalAt(u, v float64) geom.Vector3 {
	ders := s.DerivativesAt(u, v, 1)
	du, dv := ders[1][0], ders[0][1]
	return du.Cross(dv).Unitize()
}

// Transform returns a new surface with every control point transformed
// by m.
func (s Surface) Transform(m geom.Transform) Surface {
	cps := make([]geom.Point4, len(s.controlPoints))
	for i, p := range s.controlPoints {
		cps[i] = m.ApplyPoint4(p)
	}
	out, _ := New(s.degreeU, s.degreeV, s.knotsU, s.knotsV, s.numU, s.numV, cps)
	return out
}

// Direction selects which parametric direction an operation applies
// to: split(t, dir) or isocurve(t, dir).
type Direction int

const (
	DirU Direction = iota
	DirV
)

// row returns the control-point column at fixed u-index i (all j),
// and col returns the control-point row at fixed v-index j (all i):
// the two ways a single grid index selects a curve's worth of points.
func (s Surface) row(i int) []geom.Point4 {
	out := make([]geom.Point4, s.numV)
	for j := 0; j < s.numV; j++ {
		out[j] = s.at(i, j)
	}
	return out
}

func (s Surface) col(j int) []geom.Point4 {
	out := make([]geom.Point4, s.numU)
	for i := 0; i < s.numU; i++ {
		out[i] = s.at(i, j)
	}
	return out
}

// IsoCurve extracts the isoparametric curve at parameter t along dir:
// t is inserted as a knot in that direction with
// multiplicity p+1-m (m its existing multiplicity), then the single
// resulting control-point row/column is selected and paired with the
// untouched opposite-direction degree and knot vector.
func (s Surface) IsoCurve(t float64, dir Direction) (curve.Curve, error) {
	switch dir {
	case DirU:
		refined, idx, err := s.insertU(t)
		if err != nil {
			return curve.Curve{}, err
		}
		return curve.New(refined.degreeV, refined.knotsV, refined.row(idx))
	case DirV:
		refined, idx, err := s.insertV(t)
		if err != nil {
			return curve.Curve{}, err
		}
		return curve.New(refined.degreeU, refined.knotsU, refined.col(idx))
	default:
		return curve.Curve{}, fmt.Errorf("surface: isocurve: invalid direction")
	}
}

// Split divides the surface at parameter t along dir into two valid
// surfaces sharing the isoparametric boundary at t, by analogy with
// curve.Split applied along the chosen direction only: the opposite
// direction's degree and knot vector are carried through unchanged on
// both halves (see DESIGN.md's Open Question decision).
func (s Surface) Split(t float64, dir Direction) (Surface, Surface, error) {
	switch dir {
	case DirU:
		return s.splitU(t)
	case DirV:
		return s.splitV(t)
	default:
		return Surface{}, Surface{}, fmt.Errorf("surface: split: invalid direction")
	}
}
