package qtree

import "github.com/purduearc/occgrid/internal/geom2"

// Seek descends from the root toward goal.Origin until it reaches depth
// goal.Depth or a missing child, returning the deepest real node reached
// and its Info.
func (t *Tree[T]) Seek(goal Info) (*Node[T], Info) {
	cur := t.Root
	curInfo := t.Info
	for cur != nil && curInfo.Depth > goal.Depth {
		next, nextInfo := t.descend(cur, curInfo, goal.Origin)
		if next == nil {
			return cur, curInfo
		}
		cur, curInfo = next, nextInfo
	}
	return cur, curInfo
}

// descend returns the child of cur (and its Info) on the path toward p,
// given cur's own Info.
func (t *Tree[T]) descend(cur *Node[T], curInfo Info, p geom2.Vector) (*Node[T], Info) {
	hwidth := 1 << uint(curInfo.Depth+t.Log2TileW-1)
	idx := branchIndex(p, curInfo.Origin, hwidth)
	nextInfo := Info{Origin: curInfo.Origin.Add(branchDisp(idx, hwidth)), Depth: curInfo.Depth - 1}
	return cur.Child(idx), nextInfo
}

// Alloc descends from the root toward goal.Origin, allocating empty nodes
// for any missing slot along the way, and returns the node at exactly
// goal.Depth (a new empty node, neither leaf nor branch, if it did not
// already exist). The caller attaches a tile to the returned node, e.g.
// with SetTile.
//
// Unlike the tree-destroying variant this was grounded on (which recreates
// every ancestor branch along the path, discarding any existing subtree),
// Alloc only creates a slot that is genuinely missing — allocation must
// never discard sibling data already present in the tree.
func (t *Tree[T]) Alloc(goal Info) *Node[T] {
	if t.Root == nil {
		t.Root = &Node[T]{}
	}
	return t.AllocFrom(t.Root, t.Info, goal)
}

// AllocFrom behaves like Alloc but descends from start (whose own position
// is startInfo) instead of always walking down from the root. A caller
// writing many tiles known to share a common ancestor — WriteStream's
// fitted top item, for one — can locate that ancestor once via FittedInfo
// and Alloc, then reuse it here for every tile, instead of re-descending
// the whole depth on each one.
func (t *Tree[T]) AllocFrom(start *Node[T], startInfo Info, goal Info) *Node[T] {
	cur := start
	curInfo := startInfo
	for curInfo.Depth > goal.Depth {
		hwidth := 1 << uint(curInfo.Depth+t.Log2TileW-1)
		idx := branchIndex(goal.Origin, curInfo.Origin, hwidth)
		if cur.children == nil {
			cur.children = &[4]*Node[T]{}
		}
		child := cur.children[idx]
		nextInfo := Info{Origin: curInfo.Origin.Add(branchDisp(idx, hwidth)), Depth: curInfo.Depth - 1}
		if child == nil {
			child = &Node[T]{}
			cur.children[idx] = child
		}
		cur, curInfo = child, nextInfo
	}
	return cur
}

// FittedInfo returns the Info of the smallest sub-item, descending from the
// tree's root, whose bounds still contain box. Ties (box straddling a
// midline so no child fully contains it) stop descent at the current
// level.
func (t *Tree[T]) FittedInfo(box geom2.Box) Info {
	matching := Info{Origin: geom2.Vector{}, Depth: 1}
	next := t.Info
	hwidth := 1 << uint(next.Depth+t.Log2TileW-1)
	for next.Bounds(t.Log2TileW).ContainsBox(box) && matching.Depth != 0 {
		matching = next
		idx := branchIndex(box.Min, matching.Origin, hwidth)
		next = Info{Origin: matching.Origin.Add(branchDisp(idx, hwidth)), Depth: matching.Depth - 1}
		hwidth >>= 1
	}
	return matching
}

// Stretch doubles the tree's side, making the old root a child of a new
// root. direction indicates which way the tree is growing: the old root
// becomes the child at the corner opposite direction (branch index
// (dx<0) | (dy<0)<<1), so the tree grows toward direction.
func (t *Tree[T]) Stretch(direction geom2.Vector) {
	initWidth := t.Info.Width(t.Log2TileW)
	oldRootIdx := branchDisp2(direction)
	var children [4]*Node[T]
	children[oldRootIdx] = t.Root
	t.Root = Branch(children)
	t.Info.Depth++
	shift := geom2.Vector{X: boolToInt(direction.X < 0), Y: boolToInt(direction.Y < 0)}.Scale(initWidth)
	t.Info.Origin = t.Info.Origin.Sub(shift)
}

func branchDisp2(direction geom2.Vector) int {
	return boolToInt(direction.X < 0) + 2*boolToInt(direction.Y < 0)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Fit grows the tree by repeated Stretch until its bounds contain p.
func (t *Tree[T]) Fit(p geom2.Vector) {
	for !t.Bounds().Contains(p) {
		t.Stretch(p.Sub(t.Bounds().Center()))
	}
}

// FitBox grows the tree by repeated Stretch until its bounds contain box.
func (t *Tree[T]) FitBox(box geom2.Box) {
	center := box.Center()
	for !t.Bounds().ContainsBox(box) {
		t.Stretch(center.Sub(t.Bounds().Center()))
	}
}
