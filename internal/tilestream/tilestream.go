// Package tilestream implements the tile iteration protocol: a stateful,
// single-pass source of (tile, origin) pairs drawn from a spatial tree, with
// an optional bounds limit that prunes whole subtrees before descending
// into them.
package tilestream

import "github.com/purduearc/occgrid/internal/geom2"

// LimitPredicate is satisfied by anything that can report whether it
// intersects a box — the filter a bounded Stream prunes subtrees against.
// geom2.Box itself satisfies this.
type LimitPredicate = geom2.BoxIntersectable

// Node is the minimal interface a tree node must expose to be walked:
// its own bounds, whether it is a leaf (and if so its tile), and lazily
// resolved children. Both the in-memory quadtree and the file-backed index
// tree implement this via small adapters, so Walk and Stream drive both
// without knowing which backend they're iterating.
type Node[T any] interface {
	Bounds() geom2.Box
	Leaf() (*T, bool)
	// Child returns the i-th child (0..3), or nil if that branch is empty.
	// An error means the child could not be resolved (e.g. an I/O failure
	// reading a persisted index) and aborts the walk.
	Child(i int) (Node[T], error)
}

// item is one (tile, origin) pair produced by a walk.
type item[T any] struct {
	origin geom2.Vector
	tile   *T
}

// Walk performs a depth-first traversal of root in branch order 0→3 (SW,
// SE, NW, NE — matching the branch-index convention bit0=x≥mid,
// bit1=y≥mid), pruning any subtree whose bounds do not intersect limit
// (nil limit visits everything), and calling visit once per leaf tile
// reached.
func Walk[T any](root Node[T], limit LimitPredicate, visit func(origin geom2.Vector, tile *T) error) error {
	if root == nil {
		return nil
	}
	bounds := root.Bounds()
	if limit != nil && !limit.Intersects(bounds) {
		return nil
	}
	if tile, ok := root.Leaf(); ok {
		return visit(bounds.Min, tile)
	}
	for i := 0; i < 4; i++ {
		child, err := root.Child(i)
		if err != nil {
			return err
		}
		if child == nil {
			continue
		}
		if err := Walk(child, limit, visit); err != nil {
			return err
		}
	}
	return nil
}

// Stream is a stateful, single-pass source of (tile, origin) pairs, the
// tile_istream contract: reset to start over, pull tiles one at a time,
// query or replace the bounds (restarting iteration).
type Stream[T any] interface {
	// Reset returns to the initial state. Idempotent immediately after
	// construction.
	Reset()
	// Next returns the next tile, or ok=false once exhausted.
	Next() (tile *T, ok bool)
	// LastOrigin returns the origin of the tile returned by the most
	// recent Next call. Undefined before the first call or after
	// exhaustion.
	LastOrigin() geom2.Vector
	// GetBounds returns a tile-aligned box containing every tile this
	// stream can still produce.
	GetBounds() geom2.Box
	// SetBounds replaces the bounds (aligned outward to tile granularity
	// by the caller constructing the stream) and restarts iteration.
	SetBounds(box geom2.Box)
}

// TreeStream walks a Node[T] tree, optionally limited to a bounds box,
// buffering the full walk result at construction and on SetBounds; Reset
// replays the buffer without walking again. The
// tree itself is assumed small enough, or sufficiently pruned by bounds,
// that eager buffering is cheap — true of every backend in this module,
// which stream out a handful of tiles per request rather than planet-scale
// archives.
type TreeStream[T any] struct {
	root   Node[T]
	bounds geom2.Box
	items  []item[T]
	pos    int
}

// NewTreeStream returns a Stream over root, limited to bounds if non-empty
// (a zero-value geom2.Box visits the whole tree).
func NewTreeStream[T any](root Node[T], bounds geom2.Box) *TreeStream[T] {
	s := &TreeStream[T]{root: root}
	s.SetBounds(bounds)
	return s
}

func (s *TreeStream[T]) rebuild() {
	s.items = s.items[:0]
	var limit LimitPredicate
	if !s.bounds.Empty() {
		limit = s.bounds
	}
	_ = Walk(s.root, limit, func(origin geom2.Vector, tile *T) error {
		s.items = append(s.items, item[T]{origin: origin, tile: tile})
		return nil
	})
	s.pos = 0
}

// Reset returns to the first tile.
func (s *TreeStream[T]) Reset() {
	s.pos = 0
}

// Next returns the next tile in the walk, or ok=false once exhausted.
func (s *TreeStream[T]) Next() (*T, bool) {
	if s.pos >= len(s.items) {
		return nil, false
	}
	it := s.items[s.pos]
	s.pos++
	return it.tile, true
}

// LastOrigin returns the origin of the most recently returned tile.
func (s *TreeStream[T]) LastOrigin() geom2.Vector {
	if s.pos == 0 || s.pos > len(s.items) {
		return geom2.Vector{}
	}
	return s.items[s.pos-1].origin
}

// GetBounds returns the stream's current bounds.
func (s *TreeStream[T]) GetBounds() geom2.Box {
	if s.bounds.Empty() && s.root != nil {
		return s.root.Bounds()
	}
	return s.bounds
}

// SetBounds replaces the bounds and restarts iteration.
func (s *TreeStream[T]) SetBounds(box geom2.Box) {
	s.bounds = box
	s.rebuild()
}
