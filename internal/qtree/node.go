// Package qtree implements the quadtree spatial index: an integer-lattice
// region subdivided into four quadrants recursively down to a tile layer.
// Node[T] owns its subtree with no shared ownership and no finalizers —
// unlike the original's raw `void*` branch pointers with a manual recursive
// destructor, Go's garbage collector reclaims a detached subtree once
// nothing still points at it.
package qtree

import "github.com/purduearc/occgrid/internal/geom2"

// Node is either a leaf, holding a tile of type T, or a branch with four
// children indexed 0..3 where bit 0 is "x >= mid" and bit 1 is "y >= mid".
// The zero Node is an empty (nil) node: neither a leaf nor a branch.
type Node[T any] struct {
	leaf     *T
	children *[4]*Node[T]
}

// Leaf returns a new leaf node wrapping v.
func Leaf[T any](v *T) *Node[T] {
	return &Node[T]{leaf: v}
}

// Branch returns a new branch node with the given four children (any of
// which may be nil).
func Branch[T any](children [4]*Node[T]) *Node[T] {
	return &Node[T]{children: &children}
}

// IsLeaf reports whether n holds a tile directly.
func (n *Node[T]) IsLeaf() bool {
	return n != nil && n.leaf != nil
}

// IsBranch reports whether n has four children.
func (n *Node[T]) IsBranch() bool {
	return n != nil && n.children != nil
}

// Tile returns the leaf's tile, or nil if n is not a leaf.
func (n *Node[T]) Tile() *T {
	if n == nil {
		return nil
	}
	return n.leaf
}

// SetTile makes n a leaf holding v, discarding any children it had.
func (n *Node[T]) SetTile(v T) {
	n.leaf = &v
	n.children = nil
}

// Child returns the i-th child of a branch node, or nil if n is not a
// branch or the child is absent.
func (n *Node[T]) Child(i int) *Node[T] {
	if n == nil || n.children == nil {
		return nil
	}
	return n.children[i]
}

// SetChild sets the i-th child of a branch node in place.
func (n *Node[T]) SetChild(i int, c *Node[T]) {
	n.children[i] = c
}

// Info describes a node's position and scope within a tree: Origin is the
// node's bottom-left corner in world space, Depth is the number of layers
// below it (0 at the tile layer, increasing toward the root).
type Info struct {
	Origin geom2.Vector
	Depth  int
}

// Width returns the node's side length in world units, given the tree's
// tile log-width.
func (info Info) Width(log2TileW int) int {
	return 1 << uint(info.Depth+log2TileW)
}

// Bounds returns the node's world-space bounding box.
func (info Info) Bounds(log2TileW int) geom2.Box {
	return geom2.NewBox(info.Origin, info.Width(log2TileW))
}

// ChildInfo returns the Info of branch idx of a node with this Info, given
// the tree's tile log-width.
func (info Info) ChildInfo(idx int, log2TileW int) Info {
	hwidth := 1 << uint(info.Depth+log2TileW-1)
	return Info{Origin: info.Origin.Add(branchDisp(idx, hwidth)), Depth: info.Depth - 1}
}

// branchDisp returns the displacement of branch idx's origin from its
// parent's origin, given the branch's half-width.
func branchDisp(idx int, hwidth int) geom2.Vector {
	return geom2.Vector{X: idx & 1, Y: idx >> 1}.Scale(hwidth)
}

// branchIndex returns which of the four children contains branchOrigin,
// given the parent's origin and the branch half-width.
func branchIndex(branchOrigin, parentOrigin geom2.Vector, hwidth int) int {
	x := 0
	if branchOrigin.X-parentOrigin.X >= hwidth {
		x = 1
	}
	y := 0
	if branchOrigin.Y-parentOrigin.Y >= hwidth {
		y = 1
	}
	return x + 2*y
}

// Tree is a quadtree rooted at Root, covering the square region described
// by Info, tiled at Log2TileW.
type Tree[T any] struct {
	Log2TileW int
	Info      Info
	Root      *Node[T]
}

// Bounds returns the tree's current world-space bounding box.
func (t *Tree[T]) Bounds() geom2.Box {
	return t.Info.Bounds(t.Log2TileW)
}
