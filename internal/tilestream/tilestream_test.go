package tilestream

import (
	"testing"

	"github.com/purduearc/occgrid/internal/geom2"
)

// fakeNode is a simple in-memory tree used to exercise Walk/TreeStream
// without depending on the qtree package.
type fakeNode struct {
	bounds   geom2.Box
	tile     *int
	children [4]*fakeNode
}

func (n *fakeNode) Bounds() geom2.Box { return n.bounds }

func (n *fakeNode) Leaf() (*int, bool) {
	if n.tile != nil {
		return n.tile, true
	}
	return nil, false
}

func (n *fakeNode) Child(i int) (Node[int], error) {
	c := n.children[i]
	if c == nil {
		return nil, nil
	}
	return c, nil
}

func leafAt(origin geom2.Vector, side, value int) *fakeNode {
	v := value
	return &fakeNode{bounds: geom2.NewBox(origin, side), tile: &v}
}

func TestWalkVisitsAllLeaves(t *testing.T) {
	root := &fakeNode{
		bounds: geom2.NewBox(geom2.Vector{0, 0}, 16),
		children: [4]*fakeNode{
			0: leafAt(geom2.Vector{0, 0}, 8, 1),
			1: leafAt(geom2.Vector{8, 0}, 8, 2),
			2: leafAt(geom2.Vector{0, 8}, 8, 3),
			3: leafAt(geom2.Vector{8, 8}, 8, 4),
		},
	}
	var got []int
	err := Walk[int](root, nil, func(origin geom2.Vector, tile *int) error {
		got = append(got, *tile)
		return nil
	})
	if err != nil {
		t.Fatalf("Walk returned error: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("got %d leaves, want 4", len(got))
	}
}

func TestWalkPrunesByLimit(t *testing.T) {
	root := &fakeNode{
		bounds: geom2.NewBox(geom2.Vector{0, 0}, 16),
		children: [4]*fakeNode{
			0: leafAt(geom2.Vector{0, 0}, 8, 1),
			1: leafAt(geom2.Vector{8, 0}, 8, 2),
		},
	}
	limit := geom2.NewBox(geom2.Vector{0, 0}, 8)
	var got []int
	err := Walk[int](root, limit, func(origin geom2.Vector, tile *int) error {
		got = append(got, *tile)
		return nil
	})
	if err != nil {
		t.Fatalf("Walk returned error: %v", err)
	}
	if len(got) != 1 || got[0] != 1 {
		t.Fatalf("limited walk got %v, want [1]", got)
	}
}

func TestTreeStreamRoundTrip(t *testing.T) {
	root := &fakeNode{
		bounds: geom2.NewBox(geom2.Vector{0, 0}, 16),
		children: [4]*fakeNode{
			0: leafAt(geom2.Vector{0, 0}, 8, 1),
			1: leafAt(geom2.Vector{8, 0}, 8, 2),
		},
	}
	s := NewTreeStream[int](root, geom2.Box{})
	count := 0
	for {
		_, ok := s.Next()
		if !ok {
			break
		}
		count++
	}
	if count != 2 {
		t.Fatalf("got %d tiles, want 2", count)
	}
	s.Reset()
	_, ok := s.Next()
	if !ok {
		t.Fatalf("Reset should allow re-iterating")
	}
	if s.LastOrigin() != (geom2.Vector{0, 0}) {
		t.Errorf("LastOrigin = %v, want (0,0)", s.LastOrigin())
	}
}

func TestAlignHelpers(t *testing.T) {
	origin := geom2.Vector{0, 0}
	if got := AlignDown(geom2.Vector{5, 5}, origin, 3); got != (geom2.Vector{0, 0}) {
		t.Errorf("AlignDown = %v, want (0,0)", got)
	}
	if got := AlignUp(geom2.Vector{5, 5}, origin, 3); got != (geom2.Vector{8, 8}) {
		t.Errorf("AlignUp = %v, want (8,8)", got)
	}
	box := geom2.Box{Min: geom2.Vector{1, 1}, Max: geom2.Vector{5, 5}}
	out := AlignOut(box, origin, 3)
	want := geom2.Box{Min: geom2.Vector{0, 0}, Max: geom2.Vector{8, 8}}
	if out != want {
		t.Errorf("AlignOut = %+v, want %+v", out, want)
	}
}
