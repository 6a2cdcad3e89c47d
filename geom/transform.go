package geom

import "math"

// Transform is a 4x4 affine matrix in row-major storage, applied to
// column vectors by left-multiplication: p' = M*p. This fixes the sign
// convention once so rotation direction is unambiguous throughout the
// kernel. It generalizes a 2x3 affine transform over
// golang.org/x/image/math/f32.Aff3 to a 4x4 homogeneous matrix; the
// bottom row is explicit because perspective is never used but kept
// for composability with the standard 4x4 convention.
type Transform [4][4]float64

// Identity returns the identity transform.
func Identity() Transform {
	var m Transform
	for i := range m {
		m[i][i] = 1
	}
	return m
}

// Mul composes transforms left to right: Mul(A, B, C) applied to a
// point p computes A*(B*(C*p)).
func Mul(ms ...Transform) Transform {
	r := Identity()
	for i := len(ms) - 1; i >= 0; i-- {
		r = mul(ms[i], r)
	}
	return r
}

func mul(a, b Transform) Transform {
	var r Transform
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var s float64
			for k := 0; k < 4; k++ {
				s += a[i][k] * b[k][j]
			}
			r[i][j] = s
		}
	}
	return r
}

// Translation returns a transform that offsets by v.
func Translation(v Vector3) Transform {
	m := Identity()
	m[0][3], m[1][3], m[2][3] = v.X, v.Y, v.Z
	return m
}

// Scaling returns a transform that scales each axis independently.
func Scaling(sx, sy, sz float64) Transform {
	m := Identity()
	m[0][0], m[1][1], m[2][2] = sx, sy, sz
	return m
}

// UniformScaling returns a transform that scales all axes by s about
// the origin.
func UniformScaling(s float64) Transform {
	return Scaling(s, s, s)
}

// Rotation returns a transform that rotates by angle radians about
// axis, through the origin, following the right-hand rule.
func Rotation(axis Vector3, angle float64) Transform {
	a := axis.Unitize()
	s, c := math.Sin(angle), math.Cos(angle)
	t := 1 - c
	x, y, z := a.X, a.Y, a.Z
	m := Identity()
	m[0][0], m[0][1], m[0][2] = t*x*x+c, t*x*y-s*z, t*x*z+s*y
	m[1][0], m[1][1], m[1][2] = t*x*y+s*z, t*y*y+c, t*y*z-s*x
	m[2][0], m[2][1], m[2][2] = t*x*z-s*y, t*y*z+s*x, t*z*z+c
	return m
}

// RotationAround returns a transform that rotates by angle radians
// about axis through center.
func RotationAround(axis Vector3, angle float64, center Point3) Transform {
	return Mul(Translation(center), Rotation(axis, angle), Translation(center.Mul(-1)))
}

// PlaneToPlane returns the transform mapping the frame src onto dst: a
// point with local coordinates (x, y, z) in src goes to the point with
// the same local coordinates in dst.
func PlaneToPlane(src, dst Plane) Transform {
	toSrcLocal := Transform{
		{src.XAxis.X, src.XAxis.Y, src.XAxis.Z, -src.XAxis.Dot(src.Origin)},
		{src.YAxis.X, src.YAxis.Y, src.YAxis.Z, -src.YAxis.Dot(src.Origin)},
		{src.ZAxis.X, src.ZAxis.Y, src.ZAxis.Z, -src.ZAxis.Dot(src.Origin)},
		{0, 0, 0, 1},
	}
	fromDstLocal := Transform{
		{dst.XAxis.X, dst.YAxis.X, dst.ZAxis.X, dst.Origin.X},
		{dst.XAxis.Y, dst.YAxis.Y, dst.ZAxis.Y, dst.Origin.Y},
		{dst.XAxis.Z, dst.YAxis.Z, dst.ZAxis.Z, dst.Origin.Z},
		{0, 0, 0, 1},
	}
	return Mul(fromDstLocal, toSrcLocal)
}

// Apply transforms p as a location (translation applies).
func (m Transform) Apply(p Point3) Point3 {
	x := m[0][0]*p.X + m[0][1]*p.Y + m[0][2]*p.Z + m[0][3]
	y := m[1][0]*p.X + m[1][1]*p.Y + m[1][2]*p.Z + m[1][3]
	z := m[2][0]*p.X + m[2][1]*p.Y + m[2][2]*p.Z + m[2][3]
	w := m[3][0]*p.X + m[3][1]*p.Y + m[3][2]*p.Z + m[3][3]
	if w != 1 && w != 0 {
		return Point3{X: x / w, Y: y / w, Z: z / w}
	}
	return Point3{X: x, Y: y, Z: z}
}

// ApplyVector transforms v as a direction (translation does not apply).
func (m Transform) ApplyVector(v Vector3) Vector3 {
	return Point3{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// ApplyPoint4 transforms a homogeneous point, premultiplied weight and
// all, the form every curve/surface control point is stored in.
func (m Transform) ApplyPoint4(p Point4) Point4 {
	pt, w := p.Dehomogenize()
	return NewPoint4(m.Apply(pt), w)
}
