package occfile

import (
	"encoding/binary"

	"github.com/purduearc/occgrid/internal/geom2"
	"github.com/purduearc/occgrid/internal/qtree"
)

// indexNode mirrors one node record already read from the file. pos is the
// node's own byte offset (0 means "absent": the branch that would lead here
// was never written). children is nil until the first descent through this
// node loads all four branch offsets in a single read — matching the file
// format's "either none or all of a node's branches are indexed" rule.
type indexNode struct {
	pos      uint32
	children [4]*indexNode
}

func (n *indexNode) loaded() bool { return n.children[0] != nil }

// item pairs an index node with its position and depth in the tree.
type item struct {
	node *indexNode
	info qtree.Info
}

// branchIdx returns which of the four children of a node with info contains
// p, given the tree's tile log-width.
func branchIdx(info qtree.Info, p geom2.Vector, log2TileW int) int {
	hwidth := 1 << uint(info.Depth+log2TileW-1)
	x, y := 0, 0
	if p.X-info.Origin.X >= hwidth {
		x = 1
	}
	if p.Y-info.Origin.Y >= hwidth {
		y = 1
	}
	return x + 2*y
}

// load reads a node's four branch offsets from the backend and populates
// its children, if they have not been loaded already.
func (m *Map) load(n *indexNode) error {
	if n.loaded() || n.pos == 0 {
		return nil
	}
	buf := make([]byte, branchRecordSize)
	if _, err := m.backend.ReadAt(buf, int64(n.pos)); err != nil {
		return ioErr("reading node", err)
	}
	for i := 0; i < 4; i++ {
		n.children[i] = &indexNode{pos: binary.LittleEndian.Uint32(buf[i*4 : i*4+4])}
	}
	return nil
}

// seek returns the existing item closest to the desired depth that contains
// p, starting from start. start must be a real (pos != 0) item.
func (m *Map) seek(start item, p geom2.Vector, depth int) (item, error) {
	cur := item{}
	next := start
	for next.node.pos != 0 && next.info.Depth > depth {
		cur = next
		if err := m.load(cur.node); err != nil {
			return item{}, err
		}
		idx := branchIdx(cur.info, p, m.hdr.log2TileW())
		next = item{node: cur.node.children[idx], info: cur.info.ChildInfo(idx, m.hdr.log2TileW())}
	}
	if next.node.pos != 0 {
		return next, nil
	}
	return cur, nil
}

// alloc returns the item at p and depth, creating intermediate nodes in the
// file (and the index) as needed. start must be real.
func (m *Map) alloc(start item, p geom2.Vector, depth int) (item, error) {
	it, err := m.seek(start, p, depth)
	if err != nil {
		return item{}, err
	}
	if it.info.Depth == depth {
		return it, nil
	}
	idx := branchIdx(it.info, p, m.hdr.log2TileW())
	if err := m.writeBranch(it.node.pos, idx, m.hdr.size); err != nil {
		return item{}, err
	}
	it.node.children[idx].pos = m.hdr.size
	it = item{node: it.node.children[idx], info: it.info.ChildInfo(idx, m.hdr.log2TileW())}

	for it.info.Depth > depth {
		var branches [4]uint32
		idx = branchIdx(it.info, p, m.hdr.log2TileW())
		branches[idx] = m.hdr.size + branchRecordSize
		if err := m.appendBranches(branches); err != nil {
			return item{}, err
		}
		for i := 0; i < 4; i++ {
			it.node.children[i] = &indexNode{pos: branches[i]}
		}
		it = item{node: it.node.children[idx], info: it.info.ChildInfo(idx, m.hdr.log2TileW())}
	}
	if depth == 0 {
		if err := m.appendBlankTile(); err != nil {
			return item{}, err
		}
	} else {
		if err := m.appendBranches([4]uint32{}); err != nil {
			return item{}, err
		}
	}
	return it, nil
}
