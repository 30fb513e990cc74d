package nbrhood

import (
	"errors"
	"testing"

	"github.com/purduearc/occgrid/internal/geom2"
)

func TestDirIndexSkipsCenter(t *testing.T) {
	seen := map[int]bool{}
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			idx := DirIndex(dx, dy)
			if idx < 0 || idx > 7 {
				t.Fatalf("DirIndex(%d,%d) = %d, out of range", dx, dy, idx)
			}
			if seen[idx] {
				t.Fatalf("DirIndex(%d,%d) = %d collides with another direction", dx, dy, idx)
			}
			seen[idx] = true
		}
	}
}

func TestConnectIsSymmetric(t *testing.T) {
	a := NewNode(1)
	b := NewNode(2)
	Connect(a, b, 1, 0)

	if a.Nbr(1, 0) != b {
		t.Errorf("a's east neighbor should be b")
	}
	if b.Nbr(-1, 0) != a {
		t.Errorf("b's west neighbor should be a")
	}
	if a.Nbr(0, 0) != a {
		t.Errorf("(0,0) should return the node itself")
	}
}

func TestNeighborhoodOriginIsSWCorner(t *testing.T) {
	focal := NewNode("focal")
	focalOrigin := geom2.Vector{X: 16, Y: 16}
	nh := New(focal, focalOrigin, 4)

	want := geom2.Vector{X: 0, Y: 0}
	if nh.Origin != want {
		t.Errorf("Origin = %v, want %v", nh.Origin, want)
	}
	if nh.Bounds(0, 0).Min != focalOrigin {
		t.Errorf("focal bounds min = %v, want %v", nh.Bounds(0, 0).Min, focalOrigin)
	}
	if nh.Bounds(-1, -1).Min != want {
		t.Errorf("SW neighbor bounds min = %v, want %v", nh.Bounds(-1, -1).Min, want)
	}
}

func TestResolveReturnsExistingNeighbor(t *testing.T) {
	focal := NewNode("focal")
	east := NewNode("east")
	Connect(focal, east, 1, 0)
	nh := New(focal, geom2.Vector{}, 4)

	got, err := nh.Resolve(1, 0, nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != east {
		t.Errorf("Resolve(1,0) should return the already-linked east neighbor")
	}
}

func TestResolveRequestsAndConnectsMissingNeighbor(t *testing.T) {
	focal := NewNode("focal")
	nh := New(focal, geom2.Vector{}, 4)

	var requestedOrigin geom2.Vector
	req := func(origin geom2.Vector) (*Node[string], error) {
		requestedOrigin = origin
		return NewNode("new"), nil
	}

	got, err := nh.Resolve(1, 0, req)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got == nil || got.Tile != "new" {
		t.Fatalf("Resolve should return the requestee's node, got %v", got)
	}
	if want := nh.Bounds(1, 0).Min; requestedOrigin != want {
		t.Errorf("requestee was asked for origin %v, want %v", requestedOrigin, want)
	}
	if focal.Nbr(1, 0) != got {
		t.Errorf("Resolve should connect the new neighbor into the graph")
	}
	if got.Nbr(-1, 0) != focal {
		t.Errorf("Resolve should connect the link symmetrically")
	}
}

func TestResolveSurfacesRequesteeError(t *testing.T) {
	focal := NewNode("focal")
	nh := New(focal, geom2.Vector{}, 4)
	wantErr := errors.New("boom")
	req := func(origin geom2.Vector) (*Node[string], error) {
		return nil, wantErr
	}

	_, err := nh.Resolve(1, 0, req)
	if !errors.Is(err, wantErr) {
		t.Errorf("Resolve error = %v, want %v", err, wantErr)
	}
}

func TestResolveNilRequesteeLeavesMissingNeighborNil(t *testing.T) {
	focal := NewNode("focal")
	nh := New(focal, geom2.Vector{}, 4)

	got, err := nh.Resolve(1, 1, nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != nil {
		t.Errorf("Resolve with nil requestee and no link should return nil, got %v", got)
	}
}
