package geom

import "math"

// BoundingBox is an axis-aligned box, inclusive of both corners.
type BoundingBox struct {
	Min, Max Point3
}

// EmptyBoundingBox returns a box with inverted extents, the identity
// element for Union: unioning it with any point or box yields that
// point or box unchanged.
func EmptyBoundingBox() BoundingBox {
	inf := math.Inf(1)
	return BoundingBox{
		Min: Point3{X: inf, Y: inf, Z: inf},
		Max: Point3{X: -inf, Y: -inf, Z: -inf},
	}
}

func (b BoundingBox) IsEmpty() bool {
	return b.Max.X < b.Min.X || b.Max.Y < b.Min.Y || b.Max.Z < b.Min.Z
}

// UnionPoint grows b to include p.
func (b BoundingBox) UnionPoint(p Point3) BoundingBox {
	return BoundingBox{
		Min: Point3{X: min(b.Min.X, p.X), Y: min(b.Min.Y, p.Y), Z: min(b.Min.Z, p.Z)},
		Max: Point3{X: max(b.Max.X, p.X), Y: max(b.Max.Y, p.Y), Z: max(b.Max.Z, p.Z)},
	}
}

// Union returns the smallest box containing both b and o.
func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	if b.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return b
	}
	return BoundingBox{
		Min: Point3{X: min(b.Min.X, o.Min.X), Y: min(b.Min.Y, o.Min.Y), Z: min(b.Min.Z, o.Min.Z)},
		Max: Point3{X: max(b.Max.X, o.Max.X), Y: max(b.Max.Y, o.Max.Y), Z: max(b.Max.Z, o.Max.Z)},
	}
}

// Intersects reports whether b and o overlap, expanded by tol on every
// side. Used for the bounding-box-tree pruning in package isect.
func (b BoundingBox) Intersects(o BoundingBox, tol float64) bool {
	return b.Min.X-tol <= o.Max.X && o.Min.X-tol <= b.Max.X &&
		b.Min.Y-tol <= o.Max.Y && o.Min.Y-tol <= b.Max.Y &&
		b.Min.Z-tol <= o.Max.Z && o.Min.Z-tol <= b.Max.Z
}

// Corners returns all eight corners of b, used by curve-plane pruning
// to test a box's signed-distance extrema against a plane.
func (b BoundingBox) Corners() [8]Point3 {
	return [8]Point3{
		{b.Min.X, b.Min.Y, b.Min.Z},
		{b.Max.X, b.Min.Y, b.Min.Z},
		{b.Min.X, b.Max.Y, b.Min.Z},
		{b.Max.X, b.Max.Y, b.Min.Z},
		{b.Min.X, b.Min.Y, b.Max.Z},
		{b.Max.X, b.Min.Y, b.Max.Z},
		{b.Min.X, b.Max.Y, b.Max.Z},
		{b.Max.X, b.Max.Y, b.Max.Z},
	}
}

func (b BoundingBox) Diagonal() float64 {
	return b.Max.Sub(b.Min).Length()
}
