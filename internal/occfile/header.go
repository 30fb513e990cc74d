// Package occfile implements the persistent map: the same read/write
// surface as occmap, backed by a random-access file instead of Go memory.
// Writes are append-only plus single-slot branch-offset overwrites; the
// index tree lazily mirrors the file's node layout as it is descended.
package occfile

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/purduearc/occgrid/internal/geom2"
)

// HeaderSize is the fixed on-disk size of a map file header, in bytes.
const HeaderSize = 32

// branchRecordSize is the size of a node record: four little-endian u32
// branch offsets, in order SW, SE, NW, NE.
const branchRecordSize = 4 * 4

// header is the in-memory mirror of the file header. It is never written
// to the file directly except through Serialize — field order here follows
// the on-disk layout for readability, not for binary compatibility.
type header struct {
	depth   uint32
	originX int64
	originY int64
	log2W   uint32
	root    uint32
	size    uint32
}

// Serialize writes the 32-byte header.
func (h header) Serialize() []byte {
	buf := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(buf[0:4], h.depth)
	binary.LittleEndian.PutUint64(buf[4:12], uint64(h.originX))
	binary.LittleEndian.PutUint64(buf[12:20], uint64(h.originY))
	binary.LittleEndian.PutUint32(buf[20:24], h.log2W)
	binary.LittleEndian.PutUint32(buf[24:28], h.root)
	binary.LittleEndian.PutUint32(buf[28:32], h.size)
	return buf
}

// deserializeHeader parses a 32-byte header.
func deserializeHeader(buf []byte) (header, error) {
	if len(buf) < HeaderSize {
		return header{}, fmt.Errorf("%w: header is %d bytes, want %d", ErrBadFormat, len(buf), HeaderSize)
	}
	return header{
		depth:   binary.LittleEndian.Uint32(buf[0:4]),
		originX: int64(binary.LittleEndian.Uint64(buf[4:12])),
		originY: int64(binary.LittleEndian.Uint64(buf[12:20])),
		log2W:   binary.LittleEndian.Uint32(buf[20:24]),
		root:    binary.LittleEndian.Uint32(buf[24:28]),
		size:    binary.LittleEndian.Uint32(buf[28:32]),
	}, nil
}

func (h header) origin() geom2.Vector {
	return geom2.Vector{X: int(h.originX), Y: int(h.originY)}
}

// log2TileW returns the tile log-width recorded in the header, as an int
// for use in geometry arithmetic.
func (h header) log2TileW() int {
	return int(h.log2W)
}

// HeaderInfo is the exported view of a map file's header, for tools that
// need to inspect a file without committing to a tile width up front (Open
// requires the caller to already know log2TileW, since it validates an
// existing file's header against it).
type HeaderInfo struct {
	Origin    geom2.Vector
	Log2TileW int
	Depth     int
	Size      uint32
}

// PeekHeader reads path's header without opening it as a writable Map.
func PeekHeader(path string) (HeaderInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return HeaderInfo{}, ioErr("opening "+path, err)
	}
	defer f.Close()

	buf := make([]byte, HeaderSize)
	if _, err := f.ReadAt(buf, 0); err != nil {
		return HeaderInfo{}, ioErr("reading header", err)
	}
	hdr, err := deserializeHeader(buf)
	if err != nil {
		return HeaderInfo{}, err
	}
	return HeaderInfo{
		Origin:    hdr.origin(),
		Log2TileW: hdr.log2TileW(),
		Depth:     int(hdr.depth),
		Size:      hdr.size,
	}, nil
}
