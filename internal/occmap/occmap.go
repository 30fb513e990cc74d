// Package occmap implements the in-memory map: a quadtree of tiles with
// read/write access by point or by tile stream, and a settable write mode
// governing how an incoming write combines with what is already there.
package occmap

import (
	"github.com/purduearc/occgrid/internal/geom2"
	"github.com/purduearc/occgrid/internal/qtree"
	"github.com/purduearc/occgrid/internal/telemetry"
	"github.com/purduearc/occgrid/internal/tilestream"
)

// WriteMode governs how write combines an incoming tile with any tile
// already present at the same location.
type WriteMode int

const (
	// Overwrite replaces the existing tile outright.
	Overwrite WriteMode = iota
	// Add combines the incoming tile into the existing one via the map's
	// Combine function (bitwise-OR for plain tiles).
	Add
)

// Map is an in-memory quadtree of tiles of type T.
type Map[T any] struct {
	tree      *qtree.Tree[T]
	writeMode WriteMode
	combine   func(dst, src T) T
	metrics   *telemetry.Metrics
}

// New returns an empty map rooted at origin, tiled at 2^log2TileW. combine
// defines how Add-mode writes merge an incoming tile into an existing one;
// it is never called in Overwrite mode and may be nil if the map is only
// ever used in Overwrite mode.
func New[T any](origin geom2.Vector, log2TileW int, combine func(dst, src T) T) *Map[T] {
	return &Map[T]{
		tree: &qtree.Tree[T]{
			Log2TileW: log2TileW,
			Info:      qtree.Info{Origin: origin, Depth: 1},
			Root:      qtree.Branch[T]([4]*qtree.Node[T]{}),
		},
		writeMode: Overwrite,
		combine:   combine,
	}
}

// SetMetrics attaches optional instrumentation. A nil argument (the
// default) disables it.
func (m *Map[T]) SetMetrics(metrics *telemetry.Metrics) {
	m.metrics = metrics
}

// WriteMode returns the map's current write mode.
func (m *Map[T]) WriteMode() WriteMode { return m.writeMode }

// SetWriteMode replaces the map's write mode.
func (m *Map[T]) SetWriteMode(mode WriteMode) { m.writeMode = mode }

// GetBounds returns the map's current world-space bounding box.
func (m *Map[T]) GetBounds() geom2.Box {
	return m.tree.Bounds()
}

// Read returns the tile at p, if present. No allocation and no mutation
// occur — a missing tile reports ok=false.
func (m *Map[T]) Read(p geom2.Vector) (tile *T, ok bool) {
	if !m.tree.Bounds().Contains(p) {
		return nil, false
	}
	node, info := m.tree.Seek(qtree.Info{Origin: p, Depth: 0})
	if info.Depth != 0 || !node.IsLeaf() {
		return nil, false
	}
	m.metrics.TileRead()
	return node.Tile(), true
}

// ReadAll returns a stream over every tile in the map.
func (m *Map[T]) ReadAll() tilestream.Stream[T] {
	return tilestream.NewTreeStream[T](m.walkable(), geom2.Box{})
}

// ReadBounded returns a stream over tiles intersecting limit.
// The limit is aligned outward to the tile grid first, so the stream's
// bounds contain every tile it produces.
func (m *Map[T]) ReadBounded(limit geom2.Box) tilestream.Stream[T] {
	if !limit.Empty() {
		limit = tilestream.AlignOut(limit, m.tree.Info.Origin, m.tree.Log2TileW)
	}
	return tilestream.NewTreeStream[T](m.walkable(), limit)
}

// Write writes tile at p, growing the map as needed and combining with any
// existing tile per the current write mode.
func (m *Map[T]) Write(p geom2.Vector, tile T) {
	m.tree.Fit(p)
	leaf := m.tree.Alloc(qtree.Info{Origin: p, Depth: 0})
	m.combineInto(leaf, tile)
	m.metrics.TileWritten()
}

// WriteStream drains src, writing every tile it produces at its reported
// origin. An empty source (zero-area bounds) is a no-op. Per-tile
// allocation starts from the smallest sub-item that already fits the
// whole stream's bounds (FittedInfo), not from the tree root, so tiles
// sharing a common ancestor don't each re-descend the full depth.
func (m *Map[T]) WriteStream(src tilestream.Stream[T]) {
	bounds := src.GetBounds()
	if bounds.Empty() {
		return
	}
	m.tree.FitBox(bounds)
	fitted := m.tree.FittedInfo(bounds)
	minDst := m.tree.Alloc(fitted)
	for {
		tile, ok := src.Next()
		if !ok {
			break
		}
		leaf := m.tree.AllocFrom(minDst, fitted, qtree.Info{Origin: src.LastOrigin(), Depth: 0})
		m.combineInto(leaf, *tile)
		m.metrics.TileWritten()
	}
}

func (m *Map[T]) combineInto(leaf *qtree.Node[T], incoming T) {
	if m.writeMode == Add && leaf.IsLeaf() {
		leaf.SetTile(m.combine(*leaf.Tile(), incoming))
		return
	}
	leaf.SetTile(incoming)
}

func (m *Map[T]) walkable() tilestream.Node[T] {
	return nodeAdapter[T]{tree: m.tree, node: m.tree.Root, info: m.tree.Info}
}

// nodeAdapter lets tilestream.Walk traverse a qtree.Tree without either
// package depending on the other's internals.
type nodeAdapter[T any] struct {
	tree *qtree.Tree[T]
	node *qtree.Node[T]
	info qtree.Info
}

func (a nodeAdapter[T]) Bounds() geom2.Box {
	return a.info.Bounds(a.tree.Log2TileW)
}

func (a nodeAdapter[T]) Leaf() (*T, bool) {
	if a.node.IsLeaf() {
		return a.node.Tile(), true
	}
	return nil, false
}

func (a nodeAdapter[T]) Child(i int) (tilestream.Node[T], error) {
	c := a.node.Child(i)
	if c == nil {
		return nil, nil
	}
	return nodeAdapter[T]{tree: a.tree, node: c, info: a.info.ChildInfo(i, a.tree.Log2TileW)}, nil
}
