// Package nbrhood implements the eight-direction neighbor graph tiles are
// linked into: a Node holds a tile plus pointers to its eight neighbors,
// and a Neighborhood is a 3x3 window onto that graph anchored at a focal
// node, used by the observer to reach every tile a single observation wave
// might touch.
package nbrhood

import "github.com/purduearc/occgrid/internal/geom2"

// DirIndex maps an offset (dx, dy), dx, dy ∈ {−1, 0, 1} and not both zero,
// to the compressed 0..7 neighbor slot: row-major around the 3x3 grid, with
// the center slot (index 4) skipped.
func DirIndex(dx, dy int) int {
	c := (dx + 1) + 3*(dy+1)
	if c > 4 {
		c--
	}
	return c
}

// Node is a tile linked to its eight neighbors. A nil neighbor means "not
// yet linked into the graph", not "known absent".
type Node[T any] struct {
	Tile T
	nbrs [8]*Node[T]
}

// NewNode returns a freshly allocated, unlinked node wrapping tile.
func NewNode[T any](tile T) *Node[T] {
	return &Node[T]{Tile: tile}
}

// Nbr returns the neighbor at (dx, dy), or nil if unlinked. (0, 0) returns
// n itself.
func (n *Node[T]) Nbr(dx, dy int) *Node[T] {
	if dx == 0 && dy == 0 {
		return n
	}
	return n.nbrs[DirIndex(dx, dy)]
}

func (n *Node[T]) setNbr(dx, dy int, o *Node[T]) {
	n.nbrs[DirIndex(dx, dy)] = o
}

// Connect links a and b as neighbors: b becomes a's neighbor in direction
// (dx, dy), and a becomes b's neighbor in the opposite direction. Links are
// always made symmetric at tile-creation time, never left one-sided.
func Connect[T any](a, b *Node[T], dx, dy int) {
	a.setNbr(dx, dy, b)
	b.setNbr(-dx, -dy, a)
}

// Requestee supplies a neighbor tile the observer needs but does not yet
// have linked: it may create a blank tile or lazily load an existing one
// from persistent storage, at the given world-space origin. A nil node
// with a nil error means the tile genuinely cannot be supplied (the
// requestee has nothing to offer there, e.g. the edge of a bounded map).
type Requestee[T any] func(origin geom2.Vector) (*Node[T], error)

// Neighborhood is a focal tile plus its eight neighbors, arranged as a 3x3
// window over the node graph. Origin is the southwest corner of the
// southwest (-1, -1) neighbor's tile, per the engine's world-to-tile
// alignment convention.
type Neighborhood[T any] struct {
	Origin geom2.Vector
	focal  *Node[T]
	log2W  int
}

// New builds a Neighborhood around focal, whose own tile occupies
// [focalOrigin, focalOrigin+2^log2W) on each axis.
func New[T any](focal *Node[T], focalOrigin geom2.Vector, log2W int) Neighborhood[T] {
	w := 1 << log2W
	return Neighborhood[T]{
		Origin: focalOrigin.Sub(geom2.Vector{X: w, Y: w}),
		focal:  focal,
		log2W:  log2W,
	}
}

// Nbr returns the node at (dx, dy) relative to the focal tile, dx, dy ∈
// {−1, 0, 1}. Nil means the neighbor is not linked into the graph.
func (nh Neighborhood[T]) Nbr(dx, dy int) *Node[T] {
	return nh.focal.Nbr(dx, dy)
}

// Bounds returns the world-space box the (dx, dy) member of the
// neighborhood occupies.
func (nh Neighborhood[T]) Bounds(dx, dy int) geom2.Box {
	w := 1 << nh.log2W
	origin := nh.Origin.Add(geom2.Vector{X: (dx + 1) * w, Y: (dy + 1) * w})
	return geom2.NewBox(origin, w)
}

// Resolve returns the node at (dx, dy), asking req to populate and connect
// it if it is not yet linked. Resolve with a nil req and a missing
// neighbor returns (nil, nil): the caller decides whether that is fatal.
func (nh Neighborhood[T]) Resolve(dx, dy int, req Requestee[T]) (*Node[T], error) {
	if n := nh.Nbr(dx, dy); n != nil {
		return n, nil
	}
	if req == nil {
		return nil, nil
	}
	n, err := req(nh.Bounds(dx, dy).Min)
	if err != nil || n == nil {
		return n, err
	}
	Connect(nh.focal, n, dx, dy)
	return n, nil
}
