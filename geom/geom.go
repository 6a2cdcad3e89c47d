// Package geom provides the numeric primitives every other package in
// the kernel builds on: 3-vectors, homogeneous 4-vectors, the shared
// tolerance constants, and the error taxonomy fallible constructors and
// iterative algorithms return.
package geom

import (
	"errors"
	"math"
)

// Tolerances. EpsDefault and EpsMax are the same value; both names are
// kept because spec callers reach for whichever reads better at the
// call site. EpsMin is the looser bound used for the polygon planarity
// check, and Eps is the machine-epsilon-scale value used for pure
// floating-point comparisons (knot equality, orthonormality).
const (
	EpsDefault = 1e-6
	EpsMax     = 1e-6
	EpsMin     = 1e-3
	Eps        = 2.22e-16

	// MaxIterations bounds every Newton/bisection loop in the kernel.
	MaxIterations = 50
)

// Sentinel errors. Every fallible constructor and iterative algorithm
// wraps one of these with fmt.Errorf("pkg: detail: %w", ErrX).
var (
	ErrInvalidDegree     = errors.New("invalid degree")
	ErrInvalidKnot       = errors.New("invalid knot vector")
	ErrInvalidPointCount = errors.New("invalid point count")
	ErrNonPlanar         = errors.New("points are not coplanar")
	ErrCollinear         = errors.New("points are collinear")
	ErrOutOfDomain       = errors.New("parameter outside active domain")
	ErrNotAdjacent       = errors.New("curves do not share an endpoint")
	ErrUnconvergedIter   = errors.New("iteration did not converge")
	ErrParallelConfig    = errors.New("no unique solution: parallel configuration")
	ErrEmpty             = errors.New("empty input")
)

// Point3 is a point in 3-space.
type Point3 struct {
	X, Y, Z float64
}

// Unset is the NaN-filled sentinel used internally by hot numerical
// kernels to flag the failure of an optional computation. It must never
// leak across an API boundary; callers there get an error or a bool
// instead.
var Unset = Point3{X: math.NaN(), Y: math.NaN(), Z: math.NaN()}

// IsUnset reports whether p is the Unset sentinel.
func (p Point3) IsUnset() bool {
	return math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsNaN(p.Z)
}

func (p Point3) Add(q Point3) Point3 { return Point3{p.X + q.X, p.Y + q.Y, p.Z + q.Z} }
func (p Point3) Sub(q Point3) Point3 { return Point3{p.X - q.X, p.Y - q.Y, p.Z - q.Z} }
func (p Point3) Mul(s float64) Point3 { return Point3{p.X * s, p.Y * s, p.Z * s} }
func (p Point3) Div(s float64) Point3 { return Point3{p.X / s, p.Y / s, p.Z / s} }

// Vector3 is an alias for Point3 used where a direction, rather than a
// location, is intended; the two share representation and arithmetic.
type Vector3 = Point3

func (p Point3) Dot(q Point3) float64 {
	return p.X*q.X + p.Y*q.Y + p.Z*q.Z
}

func (p Point3) Cross(q Point3) Point3 {
	return Point3{
		X: p.Y*q.Z - p.Z*q.Y,
		Y: p.Z*q.X - p.X*q.Z,
		Z: p.X*q.Y - p.Y*q.X,
	}
}

func (p Point3) Length() float64 {
	return math.Sqrt(p.Dot(p))
}

func (p Point3) DistanceTo(q Point3) float64 {
	return p.Sub(q).Length()
}

// Unitize returns p scaled to unit length. It returns p unchanged if p
// is shorter than Eps.
func (p Point3) Unitize() Point3 {
	l := p.Length()
	if l < Eps {
		return p
	}
	return p.Div(l)
}

// EqualWithin reports whether p and q agree componentwise within tol.
func (p Point3) EqualWithin(q Point3, tol float64) bool {
	return math.Abs(p.X-q.X) <= tol && math.Abs(p.Y-q.Y) <= tol && math.Abs(p.Z-q.Z) <= tol
}

// Point4 is a homogeneous point. By convention, the stored X/Y/Z carry
// the weight premultiplied in: (w*x, w*y, w*z, w). Dehomogenize divides
// by W to recover the affine point.
type Point4 struct {
	X, Y, Z, W float64
}

// NewPoint4 builds a homogeneous point from an affine point and weight.
func NewPoint4(p Point3, w float64) Point4 {
	return Point4{X: p.X * w, Y: p.Y * w, Z: p.Z * w, W: w}
}

// Dehomogenize recovers the affine point and its weight.
func (p Point4) Dehomogenize() (Point3, float64) {
	if p.W == 0 {
		return Point3{}, 0
	}
	return Point3{X: p.X / p.W, Y: p.Y / p.W, Z: p.Z / p.W}, p.W
}

// Point recovers only the affine point, discarding the weight.
func (p Point4) Point() Point3 {
	pt, _ := p.Dehomogenize()
	return pt
}

func (p Point4) Add(q Point4) Point4 {
	return Point4{p.X + q.X, p.Y + q.Y, p.Z + q.Z, p.W + q.W}
}

func (p Point4) Sub(q Point4) Point4 {
	return Point4{p.X - q.X, p.Y - q.Y, p.Z - q.Z, p.W - q.W}
}

func (p Point4) Mul(s float64) Point4 {
	return Point4{p.X * s, p.Y * s, p.Z * s, p.W * s}
}

// Lerp linearly interpolates between p and q in homogeneous space, the
// weighted blend used throughout knot insertion and Bézier splitting:
// result = (1-t)*p + t*q.
func (p Point4) Lerp(q Point4, t float64) Point4 {
	return Point4{
		X: (1-t)*p.X + t*q.X,
		Y: (1-t)*p.Y + t*q.Y,
		Z: (1-t)*p.Z + t*q.Z,
		W: (1-t)*p.W + t*q.W,
	}
}
