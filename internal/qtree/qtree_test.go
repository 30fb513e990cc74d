package qtree

import (
	"testing"

	"github.com/purduearc/occgrid/internal/geom2"
)

func newTree() *Tree[int] {
	return &Tree[int]{Log2TileW: 3, Info: Info{Origin: geom2.Vector{0, 0}, Depth: 0}}
}

func TestAllocAndSeek(t *testing.T) {
	tr := newTree()
	tr.Info.Depth = 2
	goal := Info{Origin: geom2.Vector{0, 0}, Depth: 0}
	node := tr.Alloc(goal)
	v := 42
	node.leaf = &v

	found, info := tr.Seek(goal)
	if found == nil || found.Tile() == nil || *found.Tile() != 42 {
		t.Fatalf("Seek after Alloc did not find the leaf: %+v", found)
	}
	if info != goal {
		t.Errorf("Seek info = %+v, want %+v", info, goal)
	}
}

func TestAllocDoesNotDestroySiblings(t *testing.T) {
	tr := newTree()
	tr.Info.Depth = 2
	goalA := Info{Origin: geom2.Vector{0, 0}, Depth: 0}
	goalB := Info{Origin: geom2.Vector{8, 0}, Depth: 0}

	nodeA := tr.Alloc(goalA)
	va := 1
	nodeA.leaf = &va

	nodeB := tr.Alloc(goalB)
	vb := 2
	nodeB.leaf = &vb

	foundA, _ := tr.Seek(goalA)
	if foundA == nil || *foundA.Tile() != 1 {
		t.Errorf("allocating goalB destroyed goalA's leaf")
	}
}

func TestStretchPromotesRoot(t *testing.T) {
	tr := newTree()
	leaf := Leaf(new(int))
	tr.Root = leaf
	before := tr.Bounds()
	tr.Stretch(geom2.Vector{X: -1, Y: -1})
	if tr.Info.Depth != 1 {
		t.Fatalf("depth after Stretch = %d, want 1", tr.Info.Depth)
	}
	if !tr.Root.IsBranch() {
		t.Fatalf("root after Stretch should be a branch")
	}
	// old root goes to the corner opposite direction: direction (-1,-1) -> branch index 3
	if tr.Root.Child(3) != leaf {
		t.Errorf("old root not preserved at branch index 3")
	}
	after := tr.Bounds()
	if after.Width() != 2*before.Width() {
		t.Errorf("Stretch should double the side: before=%d after=%d", before.Width(), after.Width())
	}
}

func TestFitGrowsUntilContained(t *testing.T) {
	tr := newTree()
	tr.Root = Leaf(new(int))
	target := geom2.Vector{X: -25, Y: 5}
	tr.Fit(target)
	if !tr.Bounds().Contains(target) {
		t.Errorf("Fit should grow the tree to contain %v, bounds = %+v", target, tr.Bounds())
	}
}

func TestFittedInfoStraddle(t *testing.T) {
	tr := newTree()
	tr.Info.Depth = 2
	// A box exactly spanning both halves along x cannot fit in either child;
	// fitted info should stop at the root level.
	box := geom2.Box{Min: geom2.Vector{X: -4, Y: 0}, Max: geom2.Vector{X: 4, Y: 8}}
	tr.Info.Origin = geom2.Vector{X: -16, Y: -16}
	info := tr.FittedInfo(box)
	if !info.Bounds(tr.Log2TileW).ContainsBox(box) {
		t.Fatalf("FittedInfo result does not contain the box")
	}
	if info != tr.Info {
		t.Errorf("FittedInfo = %+v, want the root %+v", info, tr.Info)
	}
}
