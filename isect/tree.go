package isect

import (
	"nurbskit.dev/kernel/curve"
	"nurbskit.dev/kernel/geom"
)

// boxNode is one level of the bounding-box tree built over a curve by
// recursive (Bézier, via curve.Split) subdivision. buildBoxTree builds
// the whole tree before any walk; nodes are not built on demand. Each
// node's box is the curve's own BoundingBox
// restricted to the node's sub-domain.
type boxNode struct {
	c           curve.Curve
	box         geom.BoundingBox
	left, right *boxNode
}

const (
	treeMinSpan  = 1e-5
	treeMaxDepth = 20
)

func buildBoxTree(c curve.Curve, depth int) *boxNode {
	box, err := c.BoundingBox()
	if err != nil {
		box = geom.EmptyBoundingBox()
	}
	node := &boxNode{c: c, box: box}
	dom := c.Domain()
	if depth >= treeMaxDepth || dom.Length() <= treeMinSpan {
		return node
	}
	mid := dom.Min + dom.Length()/2
	left, right, err := c.Split(mid)
	if err != nil {
		return node
	}
	node.left = buildBoxTree(left, depth+1)
	node.right = buildBoxTree(right, depth+1)
	return node
}

// candidate is a leaf pair whose boxes overlap, carrying the pair's
// sub-domains to seed the leaf-level Newton refinement.
type candidate struct {
	domA, domB geom.Interval
}

// walkPairs descends the two box trees in lockstep, pruning whenever
// the current pair of boxes is disjoint,
// and collecting leaf pairs for Newton refinement.
func walkPairs(a, b *boxNode, tol float64, out *[]candidate) {
	if !a.box.Intersects(b.box, tol) {
		return
	}
	aLeaf := a.left == nil
	bLeaf := b.left == nil
	switch {
	case aLeaf && bLeaf:
		*out = append(*out, candidate{domA: a.c.Domain(), domB: b.c.Domain()})
	case aLeaf:
		walkPairs(a, b.left, tol, out)
		walkPairs(a, b.right, tol, out)
	case bLeaf:
		walkPairs(a.left, b, tol, out)
		walkPairs(a.right, b, tol, out)
	default:
		walkPairs(a.left, b.left, tol, out)
		walkPairs(a.left, b.right, tol, out)
		walkPairs(a.right, b.left, tol, out)
		walkPairs(a.right, b.right, tol, out)
	}
}

// walkSelfPairs is walkPairs specialized for a curve against itself:
// a node is never paired against itself or its own ancestor/descendant
// (which always trivially overlap at the shared parameter), only
// against the unrelated other half of the tree at each split.
func walkSelfPairs(root *boxNode, tol float64, out *[]candidate) {
	var recurse func(n *boxNode)
	recurse = func(n *boxNode) {
		if n.left == nil {
			return
		}
		walkPairs(n.left, n.right, tol, out)
		recurse(n.left)
		recurse(n.right)
	}
	recurse(root)
}
