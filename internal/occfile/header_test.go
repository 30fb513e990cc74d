package occfile

import (
	"path/filepath"
	"testing"

	"github.com/purduearc/occgrid/internal/geom2"
)

func TestPeekHeaderMatchesOpenedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.occ")
	origin := geom2.Vector{X: -64, Y: 128}

	m, err := Open(path, origin, 6, combinePlain)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	hdr, err := PeekHeader(path)
	if err != nil {
		t.Fatalf("PeekHeader: %v", err)
	}
	if hdr.Origin != origin {
		t.Errorf("Origin = %v, want %v", hdr.Origin, origin)
	}
	if hdr.Log2TileW != 6 {
		t.Errorf("Log2TileW = %d, want 6", hdr.Log2TileW)
	}
	if hdr.Depth != 1 {
		t.Errorf("Depth = %d, want 1", hdr.Depth)
	}
	if hdr.Size != HeaderSize+branchRecordSize {
		t.Errorf("Size = %d, want %d", hdr.Size, HeaderSize+branchRecordSize)
	}

	// PeekHeader should not require knowing log2TileW up front: Open can
	// now use the discovered value directly.
	m2, err := Open(path, geom2.Vector{}, hdr.Log2TileW, combinePlain)
	if err != nil {
		t.Fatalf("reopen with peeked log2TileW: %v", err)
	}
	m2.Close()
}

func TestPeekHeaderMissingFile(t *testing.T) {
	if _, err := PeekHeader(filepath.Join(t.TempDir(), "missing.occ")); err == nil {
		t.Errorf("PeekHeader on a missing file should fail")
	}
}
