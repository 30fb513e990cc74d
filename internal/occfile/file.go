package occfile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/purduearc/occgrid/internal/geom2"
	"github.com/purduearc/occgrid/internal/occmap"
	"github.com/purduearc/occgrid/internal/occtile"
	"github.com/purduearc/occgrid/internal/qtree"
	"github.com/purduearc/occgrid/internal/telemetry"
	"github.com/purduearc/occgrid/internal/tilestream"
)

// backend is the random-access surface a Map needs from its storage: reads
// and writes addressed by absolute offset, matching *os.File and the
// in-memory memFile test double equally well.
type backend interface {
	io.ReaderAt
	io.WriterAt
}

// Map is the persistent counterpart of occmap.Map: the same point/stream
// read-write surface, backed by an append-only file instead of Go memory.
type Map struct {
	backend   backend
	closer    io.Closer
	hdr       header
	indices   *indexNode
	writeMode occmap.WriteMode
	combine   func(dst, src occtile.Plain) occtile.Plain
	dirty     bool
	metrics   *telemetry.Metrics
	logger    *log.Logger
	id        uuid.UUID
}

// Open opens (or creates) the map file at path. combine defines how Add-mode
// writes merge an incoming tile into an existing one; it may be nil if the
// map is only ever used in Overwrite mode. origin is only consulted when
// creating a new file — an existing file's header origin wins. log2TileW
// sets a new file's tile width and must match an existing file's, else
// Open fails with ErrBadFormat.
func Open(path string, origin geom2.Vector, log2TileW int, combine func(dst, src occtile.Plain) occtile.Plain) (*Map, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, ioErr("opening "+path, err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, ioErr("statting "+path, err)
	}
	if st.Size() == 0 {
		m, err := newFile(f, f, origin, log2TileW, combine)
		if err != nil {
			f.Close()
			return nil, err
		}
		return m, nil
	}
	m, err := openFile(f, f, log2TileW, combine)
	if err != nil {
		f.Close()
		return nil, err
	}
	return m, nil
}

// newFile initializes a freshly created, empty backend with a header and a
// blank root record.
func newFile(b backend, closer io.Closer, origin geom2.Vector, log2TileW int, combine func(dst, src occtile.Plain) occtile.Plain) (*Map, error) {
	m := &Map{backend: b, closer: closer, combine: combine, id: uuid.New()}
	m.hdr = header{
		depth:   1,
		originX: int64(origin.X),
		originY: int64(origin.Y),
		log2W:   uint32(log2TileW),
		root:    HeaderSize,
		size:    HeaderSize,
	}
	if err := m.writeHeader(); err != nil {
		return nil, err
	}
	if err := m.appendBranches([4]uint32{}); err != nil {
		return nil, err
	}
	m.indices = &indexNode{pos: m.hdr.root}
	return m, nil
}

// openFile reads an existing backend's header and validates it against the
// width this process expects.
func openFile(b backend, closer io.Closer, log2TileW int, combine func(dst, src occtile.Plain) occtile.Plain) (*Map, error) {
	buf := make([]byte, HeaderSize)
	n, err := b.ReadAt(buf, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, ioErr("reading header", err)
	}
	hdr, err := deserializeHeader(buf[:n])
	if err != nil {
		return nil, err
	}
	if int(hdr.log2W) != log2TileW {
		return nil, fmt.Errorf("%w: file log2_tile_w=%d, want %d", ErrBadFormat, hdr.log2W, log2TileW)
	}
	if hdr.size < HeaderSize {
		return nil, fmt.Errorf("%w: file size %d is smaller than the header", ErrBadFormat, hdr.size)
	}
	m := &Map{backend: b, closer: closer, hdr: hdr, combine: combine, id: uuid.New()}
	m.indices = &indexNode{pos: hdr.root}
	return m, nil
}

// SetMetrics attaches optional instrumentation. A nil argument disables it.
func (m *Map) SetMetrics(metrics *telemetry.Metrics) { m.metrics = metrics }

// SetLogger attaches optional diagnostic logging. A nil argument (the
// default) silences the map.
func (m *Map) SetLogger(logger *log.Logger) { m.logger = logger }

// ID returns the map's process-local instance ID, useful for telling
// several maps' log lines apart in a process that juggles more than one.
func (m *Map) ID() uuid.UUID { return m.id }

func (m *Map) logf(format string, args ...any) {
	if m.logger != nil {
		m.logger.Printf("[%s] "+format, append([]any{m.id}, args...)...)
	}
}

// WriteMode returns the map's current write mode.
func (m *Map) WriteMode() occmap.WriteMode { return m.writeMode }

// SetWriteMode replaces the map's write mode.
func (m *Map) SetWriteMode(mode occmap.WriteMode) { m.writeMode = mode }

// GetBounds returns the map's current world-space bounding box.
func (m *Map) GetBounds() geom2.Box {
	return m.rootInfo().Bounds(m.hdr.log2TileW())
}

func (m *Map) rootInfo() qtree.Info {
	return qtree.Info{Origin: m.hdr.origin(), Depth: int(m.hdr.depth)}
}

func (m *Map) topItem() item {
	return item{node: m.indices, info: m.rootInfo()}
}

// ContentHash returns an xxhash of the header plus root branch record, a
// cheap way to tell whether two map files describe the same tree without a
// byte-for-byte diff of the whole file.
func (m *Map) ContentHash() (uint64, error) {
	buf := make([]byte, HeaderSize+branchRecordSize)
	copy(buf[:HeaderSize], m.hdr.Serialize())
	if _, err := m.backend.ReadAt(buf[HeaderSize:], int64(m.hdr.root)); err != nil {
		return 0, ioErr("hashing root record", err)
	}
	return xxhash.Sum64(buf), nil
}

// Read returns the tile at p, if present.
func (m *Map) Read(p geom2.Vector) (*occtile.Plain, error) {
	if !m.GetBounds().Contains(p) {
		return nil, nil
	}
	it, err := m.seek(m.topItem(), p, 0)
	if err != nil {
		return nil, err
	}
	if it.info.Depth != 0 || it.node.pos == 0 {
		return nil, nil
	}
	t, err := m.readTile(it.node.pos)
	if err != nil {
		return nil, err
	}
	m.metrics.TileRead()
	return t, nil
}

func (m *Map) readTile(pos uint32) (*occtile.Plain, error) {
	buf := make([]byte, occtile.ByteSize(m.hdr.log2TileW()))
	if _, err := m.backend.ReadAt(buf, int64(pos)); err != nil {
		return nil, ioErr("reading tile", err)
	}
	t := occtile.PlainFromBytes(m.hdr.log2TileW(), buf)
	return &t, nil
}

// ReadAll returns a stream over every tile in the map.
func (m *Map) ReadAll() tilestream.Stream[occtile.Plain] {
	return tilestream.NewTreeStream[occtile.Plain](m.walkable(), geom2.Box{})
}

// ReadBounded returns a stream over tiles intersecting limit.
// The limit is aligned outward to the tile grid first, so the stream's
// bounds contain every tile it produces.
func (m *Map) ReadBounded(limit geom2.Box) tilestream.Stream[occtile.Plain] {
	if !limit.Empty() {
		limit = tilestream.AlignOut(limit, m.hdr.origin(), m.hdr.log2TileW())
	}
	return tilestream.NewTreeStream[occtile.Plain](m.walkable(), limit)
}

func (m *Map) walkable() tilestream.Node[occtile.Plain] {
	return fileNode{m: m, node: m.indices, info: m.rootInfo()}
}

// Write writes tile at p, growing the file as needed and combining with any
// existing tile per the current write mode.
func (m *Map) Write(p geom2.Vector, tile occtile.Plain) error {
	if err := m.fit(p); err != nil {
		return err
	}
	it, err := m.alloc(m.topItem(), p, 0)
	if err != nil {
		return err
	}
	if err := m.writeTile(tile, it.node.pos); err != nil {
		return err
	}
	m.metrics.TileWritten()
	m.logf("wrote tile at %v (file offset %d)", p, it.node.pos)
	return nil
}

// WriteStream drains src, writing every tile it produces at its reported
// origin. An empty source (zero-area bounds) is a no-op per EmptyRegion.
func (m *Map) WriteStream(src tilestream.Stream[occtile.Plain]) error {
	bounds := src.GetBounds()
	if bounds.Empty() {
		return nil
	}
	if err := m.fitBox(bounds); err != nil {
		return err
	}
	virtualMinDst := m.fittedInfo(bounds)
	minDst, err := m.alloc(m.topItem(), virtualMinDst.Origin, virtualMinDst.Depth)
	if err != nil {
		return err
	}
	for {
		tile, ok := src.Next()
		if !ok {
			break
		}
		it, err := m.alloc(minDst, src.LastOrigin(), 0)
		if err != nil {
			return err
		}
		if err := m.writeTile(*tile, it.node.pos); err != nil {
			return err
		}
		m.metrics.TileWritten()
	}
	return nil
}

func (m *Map) writeTile(src occtile.Plain, pos uint32) error {
	if m.writeMode == occmap.Add {
		cur, err := m.readTile(pos)
		if err != nil {
			return err
		}
		src = m.combine(*cur, src)
	}
	if _, err := m.backend.WriteAt(src.Bytes(), int64(pos)); err != nil {
		return ioErr("writing tile", err)
	}
	return nil
}

// fittedInfo returns the Info of the smallest sub-item, descending from the
// root, whose bounds still contain box. Pure geometry: it consults the
// header's current depth/origin, not the file itself.
func (m *Map) fittedInfo(box geom2.Box) qtree.Info {
	log2TileW := m.hdr.log2TileW()
	matching := qtree.Info{Origin: geom2.Vector{}, Depth: 1}
	next := m.rootInfo()
	for next.Bounds(log2TileW).ContainsBox(box) && matching.Depth != 0 {
		matching = next
		idx := branchIdx(matching, box.Min, log2TileW)
		next = matching.ChildInfo(idx, log2TileW)
	}
	return matching
}

func (m *Map) fit(p geom2.Vector) error {
	for !m.GetBounds().Contains(p) {
		if err := m.stretch(p.Sub(m.GetBounds().Center())); err != nil {
			return err
		}
	}
	return nil
}

func (m *Map) fitBox(box geom2.Box) error {
	center := box.Center()
	for !m.GetBounds().ContainsBox(box) {
		if err := m.stretch(center.Sub(m.GetBounds().Center())); err != nil {
			return err
		}
	}
	return nil
}

// stretch doubles the tree's side by writing a fresh root record at
// end-of-file and marking the header dirty; the old root becomes a child of
// the new one. Mirrors qtree.Tree.Stretch, operating on the file's index
// tree instead of in-memory nodes.
func (m *Map) stretch(direction geom2.Vector) error {
	initWidth := m.rootInfo().Width(m.hdr.log2TileW())
	oldRootIdx := boolToInt(direction.X < 0) + 2*boolToInt(direction.Y < 0)
	newRootPos := m.hdr.size

	var branches [4]uint32
	branches[oldRootIdx] = m.hdr.root
	if err := m.appendBranches(branches); err != nil {
		return err
	}

	newRoot := &indexNode{pos: newRootPos}
	for i := 0; i < 4; i++ {
		if i == oldRootIdx {
			newRoot.children[i] = m.indices
		} else {
			newRoot.children[i] = &indexNode{pos: 0}
		}
	}
	m.indices = newRoot
	m.hdr.root = newRootPos
	m.hdr.depth++
	shift := geom2.Vector{X: boolToInt(direction.X < 0), Y: boolToInt(direction.Y < 0)}.Scale(initWidth)
	m.hdr.originX -= int64(shift.X)
	m.hdr.originY -= int64(shift.Y)
	m.dirty = true
	m.logf("stretched map: depth=%d origin=%v", m.hdr.depth, m.hdr.origin())
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (m *Map) writeHeader() error {
	if _, err := m.backend.WriteAt(m.hdr.Serialize(), 0); err != nil {
		return ioErr("writing header", err)
	}
	m.dirty = false
	return nil
}

func (m *Map) appendRaw(data []byte) (uint32, error) {
	pos := m.hdr.size
	if _, err := m.backend.WriteAt(data, int64(pos)); err != nil {
		return 0, ioErr("appending", err)
	}
	m.hdr.size += uint32(len(data))
	m.dirty = true
	return pos, nil
}

func (m *Map) appendBranches(branches [4]uint32) error {
	buf := make([]byte, branchRecordSize)
	for i, v := range branches {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], v)
	}
	_, err := m.appendRaw(buf)
	return err
}

func (m *Map) appendBlankTile() error {
	_, err := m.appendRaw(make([]byte, occtile.ByteSize(m.hdr.log2TileW())))
	return err
}

func (m *Map) writeBranch(treePos uint32, idx int, value uint32) error {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, value)
	if _, err := m.backend.WriteAt(buf, int64(treePos)+int64(idx)*4); err != nil {
		return ioErr("patching branch", err)
	}
	return nil
}

// Flush rewrites the header if it has unsaved changes. Cheap and safe to
// call even when nothing changed.
func (m *Map) Flush() error {
	if !m.dirty {
		return nil
	}
	if err := m.writeHeader(); err != nil {
		return err
	}
	m.metrics.Flush()
	return nil
}

// Close flushes any unsaved header changes and releases the backing file.
func (m *Map) Close() error {
	if err := m.Flush(); err != nil {
		return err
	}
	if m.closer == nil {
		return nil
	}
	return m.closer.Close()
}

// fileNode adapts Map's file-backed index tree to tilestream.Node. A child
// at the tile layer eagerly reads its tile bytes when resolved, since
// tilestream.Node.Leaf cannot itself report an I/O error — Child is where
// an unreadable tile surfaces as an error and aborts the walk.
type fileNode struct {
	m    *Map
	node *indexNode
	info qtree.Info
	tile *occtile.Plain
}

func (n fileNode) Bounds() geom2.Box {
	return n.info.Bounds(n.m.hdr.log2TileW())
}

func (n fileNode) Leaf() (*occtile.Plain, bool) {
	if n.info.Depth != 0 || n.node.pos == 0 {
		return nil, false
	}
	return n.tile, n.tile != nil
}

func (n fileNode) Child(i int) (tilestream.Node[occtile.Plain], error) {
	if n.info.Depth == 0 {
		return nil, nil
	}
	if err := n.m.load(n.node); err != nil {
		return nil, err
	}
	child := n.node.children[i]
	if child.pos == 0 {
		return nil, nil
	}
	childInfo := n.info.ChildInfo(i, n.m.hdr.log2TileW())
	cn := fileNode{m: n.m, node: child, info: childInfo}
	if childInfo.Depth == 0 {
		t, err := n.m.readTile(child.pos)
		if err != nil {
			return nil, err
		}
		cn.tile = t
	}
	return cn, nil
}
