// Package observer implements the occupancy observer: a moving point that
// accumulates observed cells and periodically folds them into the
// occupancy map's tiles, decaying cells that should have been re-observed
// but weren't, and reporting every changed cell to a listener.
package observer

import (
	"errors"
	"log"

	"github.com/purduearc/occgrid/internal/geom2"
	"github.com/purduearc/occgrid/internal/nbrhood"
	"github.com/purduearc/occgrid/internal/occtile"
	"github.com/purduearc/occgrid/internal/telemetry"
	"github.com/purduearc/occgrid/internal/tilestream"
)

// State is the observer's lifecycle stage.
type State int

const (
	// Idle is the zero State: the observer has not yet been bound to a
	// tile by Move.
	Idle State = iota
	// Accumulating is the steady state: Write adds points to the current
	// wave, waiting for Flush.
	Accumulating
	// Flushing is set for the duration of a Flush call.
	Flushing
)

// ErrMapEdge is returned by Move when the path to the destination would
// cross into a tile with no linked neighbor and no requestee able to
// supply one.
var ErrMapEdge = errors.New("observer: fell off the map")

// Requestee supplies a neighbor tile the observer needs but does not have
// linked, given the tile's world-space origin.
type Requestee = nbrhood.Requestee[*occtile.Separated]

// Listener is notified, once per call, of a world-space point whose
// non-required occupancy changed during a flush.
type Listener func(p geom2.Vector)

// Observer accumulates points observed around a moving position and folds
// them into the occupancy map on Flush. It writes to the map only through
// the 3x3 neighborhood of tiles around its current position; its certainty
// cache keeps an entry for every tile it has ever flushed.
type Observer struct {
	log2W int

	position   geom2.Vector
	tileOrigin geom2.Vector
	current    *nbrhood.Node[*occtile.Separated]

	requestee Requestee
	listener  Listener

	state State

	aggrOrigin geom2.Vector
	aggrWidth  int // side length in minis, covering the full 3-tile neighborhood
	aggregator [][]uint64

	// gradients holds each linked tile's scratch certainty state, keyed
	// by node identity. Certainty only lives here: Separated has no byte
	// to hold it, so this cache must survive across Flush calls or decay
	// would reset to full certainty every wave. A node is only ever
	// resynced from its Separated tile the first time it's seen.
	gradients map[*nbrhood.Node[*occtile.Separated]]*occtile.Gradient

	metrics *telemetry.Metrics
	logger  *log.Logger
}

// SetMetrics installs the counters Flush reports against. A nil *Metrics
// (the default) disables reporting.
func (o *Observer) SetMetrics(m *telemetry.Metrics) { o.metrics = m }

// SetLogger attaches optional diagnostic logging. A nil argument (the
// default) silences the observer.
func (o *Observer) SetLogger(logger *log.Logger) { o.logger = logger }

func (o *Observer) logf(format string, args ...any) {
	if o.logger != nil {
		o.logger.Printf(format, args...)
	}
}

// New returns an Observer bound to initial, anchored at position, with
// tiles of width 2^log2W. The observer accepts writes immediately; Move
// need not be called first unless the observer needs to travel.
func New(position geom2.Vector, initial *nbrhood.Node[*occtile.Separated], anyTileOrigin geom2.Vector, log2W int) *Observer {
	o := &Observer{
		log2W:      log2W,
		position:   position,
		tileOrigin: tilestream.AlignDown(position, anyTileOrigin, log2W),
		current:    initial,
		state:      Accumulating,
		gradients:  make(map[*nbrhood.Node[*occtile.Separated]]*occtile.Gradient),
	}
	o.resetAggregator()
	return o
}

// gradientFor returns node's cached scratch certainty tile, building it
// from the node's current Separated state the first time node is seen.
func (o *Observer) gradientFor(node *nbrhood.Node[*occtile.Separated]) *occtile.Gradient {
	if g, ok := o.gradients[node]; ok {
		return g
	}
	g := occtile.FromSeparated(*node.Tile)
	o.gradients[node] = &g
	return &g
}

// SetListener installs the callback notified of changed cells during a
// flush. A nil listener disables notification.
func (o *Observer) SetListener(l Listener) { o.listener = l }

// SetRequestee installs the callback used to populate missing neighbor
// tiles during Move. A nil requestee makes every missing neighbor a
// map-edge error.
func (o *Observer) SetRequestee(r Requestee) { o.requestee = r }

// State returns the observer's current lifecycle stage.
func (o *Observer) State() State { return o.state }

// Position returns the observer's current position.
func (o *Observer) Position() geom2.Vector { return o.position }

func (o *Observer) resetAggregator() {
	w := 3 << o.log2W
	o.aggrOrigin = o.tileOrigin.Sub(geom2.Vector{X: 1 << o.log2W, Y: 1 << o.log2W})
	o.aggrWidth = w >> occtile.Log2MiniW
	o.aggregator = make([][]uint64, o.aggrWidth)
	for i := range o.aggregator {
		o.aggregator[i] = make([]uint64, o.aggrWidth)
	}
}

// dirComponent maps a tile-aligned displacement along one axis to a
// direction in {-1, 0, 1}, matching the compressed-coordinate scheme
// DirIndex expects.
func dirComponent(d, tileWidth int) int {
	c := 0
	if d >= 0 {
		c++
	}
	if d >= tileWidth {
		c++
	}
	return c - 1
}

// Move relocates the observer to newPosition, walking the neighbor graph
// one tile-hop at a time and asking the requestee for any tile it finds
// missing. On success the aggregator is cleared and accumulation resumes.
// On ErrMapEdge or a requestee error, the observer's current tile is left at
// whatever tile it reached, while Position still reports the position from
// before the call.
func (o *Observer) Move(newPosition geom2.Vector) error {
	w := 1 << o.log2W
	newTileOrigin := tilestream.AlignDown(newPosition, o.tileOrigin, o.log2W)
	for o.tileOrigin != newTileOrigin {
		disp := newTileOrigin.Sub(o.tileOrigin)
		dx, dy := dirComponent(disp.X, w), dirComponent(disp.Y, w)
		nbrOrigin := o.tileOrigin.Add(geom2.Vector{X: dx * w, Y: dy * w})

		node := o.current.Nbr(dx, dy)
		if node == nil {
			if o.requestee == nil {
				o.logf("observer: no requestee, refusing to cross into %v", nbrOrigin)
				return ErrMapEdge
			}
			var err error
			node, err = o.requestee(nbrOrigin)
			if err != nil {
				o.logf("observer: requestee failed for %v: %v", nbrOrigin, err)
				return err
			}
			if node == nil {
				o.logf("observer: requestee returned no tile for %v", nbrOrigin)
				return ErrMapEdge
			}
			nbrhood.Connect(o.current, node, dx, dy)
		}
		o.current = node
		o.tileOrigin = nbrOrigin
	}
	o.position = newPosition
	o.resetAggregator()
	o.state = Accumulating
	return nil
}

// Write records that p was observed (occupied) during the current wave.
// Points outside the observer's 3x3 neighborhood are silently dropped.
func (o *Observer) Write(p geom2.Vector) {
	local := p.Sub(o.aggrOrigin)
	w := 3 << o.log2W
	if local.X < 0 || local.Y < 0 || local.X >= w || local.Y >= w {
		return
	}
	mx, my := local.X>>occtile.Log2MiniW, local.Y>>occtile.Log2MiniW
	bit := uint(local.X&(occtile.MiniWidth-1)) | uint(local.Y&(occtile.MiniWidth-1))<<occtile.Log2MiniW
	o.aggregator[my][mx] |= uint64(1) << bit
}

// observedPoint is a world-space point pulled out of the aggregator
// during flush.
type observedPoint struct{ p geom2.Vector }

// Flush folds the current wave of observations into the map: it decays
// every already-tracked cell that wasn't reobserved this wave, refreshes
// whatever was written since the last flush back to full certainty, then
// compiles, diffs, and commits each touched tile. The listener is called
// once per changed non-required cell, in tile-then-raster order; if it
// panics, no tile is committed (the 3x3 neighborhood is left exactly as
// it was).
//
// Decay is unconditional, not gated on the aggregator: a cell that was
// observed once and never rewritten must keep losing certainty on every
// later flush, with no further write in between (observer decay: a point
// written once then left unwritten for N flushes drops by exactly N).
func (o *Observer) Flush() {
	o.state = Flushing
	defer func() { o.state = Accumulating }()
	o.metrics.Flush()

	nh := nbrhood.New(o.current, o.tileOrigin, o.log2W)

	var gradients [3][3]*occtile.Gradient
	var modified [3][3]bool
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if node := nh.Nbr(dx, dy); node != nil {
				gradients[dy+1][dx+1] = o.gradientFor(node)
				modified[dy+1][dx+1] = true
			}
		}
	}

	// Step 1: decay every cell of every linked neighborhood member. A cell
	// reobserved this wave is brought back up to full certainty in step 2,
	// below, undoing this decrement; anything not reobserved keeps the
	// decay.
	width := 1 << o.log2W
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			grad := gradients[dy+1][dx+1]
			if grad == nil {
				continue
			}
			for y := 0; y < width; y++ {
				for x := 0; x < width; x++ {
					grad.DecrementIfNonzero(x, y)
				}
			}
		}
	}

	var observed []observedPoint
	for my := 0; my < o.aggrWidth; my++ {
		for mx := 0; mx < o.aggrWidth; mx++ {
			mini := o.aggregator[my][mx]
			if mini == 0 {
				continue
			}
			for bit := 0; bit < occtile.MiniWidth*occtile.MiniWidth; bit++ {
				if mini&(uint64(1)<<uint(bit)) == 0 {
					continue
				}
				local := geom2.Vector{
					X: mx<<occtile.Log2MiniW | bit&(occtile.MiniWidth-1),
					Y: my<<occtile.Log2MiniW | bit>>occtile.Log2MiniW,
				}
				observed = append(observed, observedPoint{local.Add(o.aggrOrigin)})
			}
		}
	}

	// Step 2: refresh every point written since the last flush to full
	// certainty.
	for _, obs := range observed {
		dx, dy, lx, ly, ok := o.locate(nh, obs.p)
		if !ok {
			continue
		}
		gradients[dy+1][dx+1].Refresh(lx, ly)
	}

	// Step 3: compile each modified tile, diff it against the existing
	// tile, and stage the change set. Nothing is mutated yet, so a
	// listener panic below leaves the neighborhood untouched.
	type commit struct {
		node    *nbrhood.Node[*occtile.Separated]
		newTemp occtile.Plain
		changes []geom2.Vector
	}
	var commits []commit

	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if !modified[dy+1][dx+1] {
				continue
			}
			node := nh.Nbr(dx, dy)
			grad := gradients[dy+1][dx+1]
			compiled := grad.ToPlain()
			req := node.Tile.Required
			diff := occtile.SymmetricDifference(
				occtile.Minus(compiled, req),
				occtile.Minus(node.Tile.Temporary, req),
			)
			newTemp := occtile.Union(compiled, req)

			box := nh.Bounds(dx, dy)
			var changes []geom2.Vector
			width := 1 << o.log2W
			for y := 0; y < width; y++ {
				for x := 0; x < width; x++ {
					if diff.GetBit(x, y) {
						changes = append(changes, box.Min.Add(geom2.Vector{X: x, Y: y}))
					}
				}
			}
			commits = append(commits, commit{node: node, newTemp: newTemp, changes: changes})
		}
	}

	changed := 0
	for _, c := range commits {
		for _, p := range c.changes {
			if o.listener != nil {
				o.listener(p)
			}
			changed++
		}
	}
	o.metrics.CellsChanged(changed)

	for _, c := range commits {
		c.node.Tile.Temporary = c.newTemp
	}

	o.resetAggregator()
}

// locate finds which neighborhood member p falls in, and its tile-local
// coordinates within that member.
func (o *Observer) locate(nh nbrhood.Neighborhood[*occtile.Separated], p geom2.Vector) (dx, dy, lx, ly int, ok bool) {
	for dy = -1; dy <= 1; dy++ {
		for dx = -1; dx <= 1; dx++ {
			box := nh.Bounds(dx, dy)
			if box.Contains(p) {
				return dx, dy, p.X - box.Min.X, p.Y - box.Min.Y, true
			}
		}
	}
	return 0, 0, 0, 0, false
}
