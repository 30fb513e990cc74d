package occmap

import (
	"testing"

	"github.com/purduearc/occgrid/internal/geom2"
	"github.com/purduearc/occgrid/internal/occtile"
)

func combinePlain(dst, src occtile.Plain) occtile.Plain {
	return occtile.Union(dst, src)
}

func TestReadWritePoint(t *testing.T) {
	m := New[occtile.Plain](geom2.Vector{0, 0}, 3, combinePlain)
	tile := occtile.NewPlain(3)
	tile.SetBit(1, 1, true)
	m.Write(geom2.Vector{0, 0}, tile)

	got, ok := m.Read(geom2.Vector{0, 0})
	if !ok {
		t.Fatalf("Read after Write should find the tile")
	}
	if !got.GetBit(1, 1) {
		t.Errorf("read-back tile missing the set bit")
	}

	_, ok = m.Read(geom2.Vector{100, 100})
	if ok {
		t.Errorf("Read outside written area should report absent")
	}
}

// S2 — Root stretch: writing a tile far from the origin must grow the tree
// until its bounds contain the write, and the tile must be retrievable
// afterward.
func TestWriteGrowsRootAndIsRetrievable(t *testing.T) {
	m := New[occtile.Plain](geom2.Vector{0, 0}, 4, combinePlain)
	target := geom2.Vector{-25, 5}
	tile := occtile.NewPlain(4)
	tile.SetBit(0, 0, true)
	m.Write(target, tile)

	if !m.GetBounds().Contains(target) {
		t.Fatalf("map bounds %+v should contain %v after write", m.GetBounds(), target)
	}
	got, ok := m.Read(target)
	if !ok {
		t.Fatalf("written tile should be retrievable after root stretch")
	}
	if !got.GetBit(0, 0) {
		t.Errorf("retrieved tile missing its set bit")
	}
}

func TestWriteModeAdd(t *testing.T) {
	m := New[occtile.Plain](geom2.Vector{0, 0}, 3, combinePlain)
	m.SetWriteMode(Add)

	a := occtile.NewPlain(3)
	a.SetBit(0, 0, true)
	m.Write(geom2.Vector{0, 0}, a)

	b := occtile.NewPlain(3)
	b.SetBit(1, 1, true)
	m.Write(geom2.Vector{0, 0}, b)

	got, _ := m.Read(geom2.Vector{0, 0})
	if !got.GetBit(0, 0) || !got.GetBit(1, 1) {
		t.Errorf("Add mode should union both writes, got %+v", got)
	}
}

func TestWriteModeOverwrite(t *testing.T) {
	m := New[occtile.Plain](geom2.Vector{0, 0}, 3, combinePlain)
	a := occtile.NewPlain(3)
	a.SetBit(0, 0, true)
	m.Write(geom2.Vector{0, 0}, a)

	b := occtile.NewPlain(3)
	b.SetBit(1, 1, true)
	m.Write(geom2.Vector{0, 0}, b)

	got, _ := m.Read(geom2.Vector{0, 0})
	if got.GetBit(0, 0) {
		t.Errorf("Overwrite mode should replace, not union")
	}
	if !got.GetBit(1, 1) {
		t.Errorf("Overwrite mode should keep the latest write")
	}
}

// sliceStream is a minimal tilestream.Stream[occtile.Plain] double that
// replays a fixed slice of (origin, tile) pairs.
type sliceStream struct {
	bounds  geom2.Box
	origins []geom2.Vector
	tiles   []occtile.Plain
	pos     int
}

func (s *sliceStream) Reset()                { s.pos = 0 }
func (s *sliceStream) GetBounds() geom2.Box  { return s.bounds }
func (s *sliceStream) SetBounds(b geom2.Box) { s.bounds = b; s.pos = 0 }
func (s *sliceStream) LastOrigin() geom2.Vector {
	return s.origins[s.pos-1]
}
func (s *sliceStream) Next() (*occtile.Plain, bool) {
	if s.pos >= len(s.tiles) {
		return nil, false
	}
	t := s.tiles[s.pos]
	s.pos++
	return &t, true
}

// TestWriteStreamFitsAncestorAndWritesEveryTile exercises the
// FittedInfo+AllocFrom path: two tiles whose stream bounds span both lower
// children of the root (so the fitted ancestor is the root itself) must both
// land at their reported origins.
func TestWriteStreamFitsAncestorAndWritesEveryTile(t *testing.T) {
	m := New[occtile.Plain](geom2.Vector{0, 0}, 3, combinePlain)

	tileA := occtile.NewPlain(3)
	tileA.SetBit(0, 0, true)
	tileB := occtile.NewPlain(3)
	tileB.SetBit(7, 7, true)

	originA := geom2.Vector{X: 0, Y: 0}
	originB := geom2.Vector{X: 8, Y: 0}
	s := &sliceStream{
		bounds:  geom2.Box{Min: originA, Max: geom2.Vector{X: 16, Y: 8}},
		origins: []geom2.Vector{originA, originB},
		tiles:   []occtile.Plain{tileA, tileB},
	}

	m.WriteStream(s)

	gotA, ok := m.Read(originA)
	if !ok || !gotA.GetBit(0, 0) {
		t.Fatalf("tile at %v missing or wrong after WriteStream", originA)
	}
	gotB, ok := m.Read(originB)
	if !ok || !gotB.GetBit(7, 7) {
		t.Fatalf("tile at %v missing or wrong after WriteStream", originB)
	}
}

func TestReadAllStream(t *testing.T) {
	m := New[occtile.Plain](geom2.Vector{0, 0}, 3, combinePlain)
	m.Write(geom2.Vector{0, 0}, occtile.NewPlain(3))
	m.Write(geom2.Vector{8, 0}, occtile.NewPlain(3))

	s := m.ReadAll()
	count := 0
	for {
		_, ok := s.Next()
		if !ok {
			break
		}
		count++
	}
	if count != 2 {
		t.Errorf("ReadAll streamed %d tiles, want 2", count)
	}
}
