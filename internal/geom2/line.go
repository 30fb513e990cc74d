package geom2

import "math"

// Segment is an integer line segment, endpoint-inclusive at A and
// half-open toward B (the convention ClipToBox preserves at a box's max
// boundary).
type Segment struct {
	A, B Vector
}

// BoxIntersectable is satisfied by anything that can report whether it
// intersects a Box, the predicate type tile_istream limit filters are
// parametrized over (see tilestream.LimitPredicate).
type BoxIntersectable interface {
	Intersects(b Box) bool
}

// Intersects reports whether b and other overlap,
// satisfying BoxIntersectable for Box itself.
func (b Box) Intersects(other Box) bool {
	return Intersects(b, other)
}

// ClipToBox clips the segment to the box, returning the clipped segment and
// whether any part of the segment lies inside the box. When the true
// intersection would land exactly on the box's max edge, the clipped point
// is pulled one unit inside max, preserving the box's half-open convention
// (the clipped point must itself satisfy Box.Contains).
func ClipToBox(seg Segment, b Box) (Segment, bool) {
	if b.Empty() {
		return Segment{}, false
	}
	ax, ay := float64(seg.A.X), float64(seg.A.Y)
	bx, by := float64(seg.B.X), float64(seg.B.Y)
	dx, dy := bx-ax, by-ay

	t0, t1 := 0.0, 1.0
	type clip struct{ p, q float64 }
	clips := [4]clip{
		{-dx, ax - float64(b.Min.X)},
		{dx, float64(b.Max.X) - ax},
		{-dy, ay - float64(b.Min.Y)},
		{dy, float64(b.Max.Y) - ay},
	}
	for _, c := range clips {
		if c.p == 0 {
			if c.q < 0 {
				return Segment{}, false
			}
			continue
		}
		r := c.q / c.p
		if c.p < 0 {
			if r > t1 {
				return Segment{}, false
			}
			if r > t0 {
				t0 = r
			}
		} else {
			if r < t0 {
				return Segment{}, false
			}
			if r < t1 {
				t1 = r
			}
		}
	}
	if t0 > t1 {
		return Segment{}, false
	}

	newA := Vector{X: round(ax + t0*dx), Y: round(ay + t0*dy)}
	newB := Vector{X: round(ax + t1*dx), Y: round(ay + t1*dy)}
	newA = pullInsideMax(newA, b)
	newB = pullInsideMax(newB, b)
	return Segment{A: newA, B: newB}, true
}

// pullInsideMax nudges a coordinate landing exactly on the box's max edge
// one unit toward Min, so the point satisfies the half-open containment
// convention used everywhere else in this package.
func pullInsideMax(p Vector, b Box) Vector {
	if p.X == b.Max.X {
		p.X--
	}
	if p.Y == b.Max.Y {
		p.Y--
	}
	return p
}

func round(f float64) int {
	return int(math.Round(f))
}

// LineStepper advances along a segment in floating point at a caller-chosen
// step size, exposing the current integer cell at each stop. Construction
// computes the number of waypoints up front from the segment length.
type LineStepper struct {
	x, y         float64
	stepX, stepY float64
	remaining    int
}

// NewLineStepper builds a stepper that walks from a to b in increments of
// approximately stepSize world units. A degenerate segment (a == b) yields
// a single waypoint at a.
func NewLineStepper(a, b Vector, stepSize float64) *LineStepper {
	dx, dy := float64(b.X-a.X), float64(b.Y-a.Y)
	length := math.Sqrt(dx*dx + dy*dy)
	s := &LineStepper{x: float64(a.X), y: float64(a.Y)}
	if length == 0 || stepSize <= 0 {
		s.remaining = 0
		return s
	}
	s.remaining = int(length / stepSize)
	s.stepX = dx * (stepSize / length)
	s.stepY = dy * (stepSize / length)
	return s
}

// Cell returns the integer cell at the stepper's current position.
func (s *LineStepper) Cell() Vector {
	return Vector{X: round(s.x), Y: round(s.y)}
}

// Done reports whether all waypoints have been visited.
func (s *LineStepper) Done() bool {
	return s.remaining < 0
}

// Advance moves to the next waypoint. Calling Advance past the last
// waypoint is a no-op other than marking the stepper Done.
func (s *LineStepper) Advance() {
	if s.remaining <= 0 {
		s.remaining = -1
		return
	}
	s.x += s.stepX
	s.y += s.stepY
	s.remaining--
}

// Rasterize visits integer cells along the segment from a to b, calling
// sink once per cell (never twice). Exactly horizontal and vertical
// segments visit every cell from a to b inclusive. Other segments are
// walked scanline-style along their dominant axis, one cell per integer
// step (the cell nearest the line at that step); a cell whose center lies
// within 0.5 units of the segment but is not the nearest at its step is
// not visited.
func Rasterize(a, b Vector, sink func(Vector)) {
	const epsilon = 1e-6
	dx, dy := float64(b.X-a.X), float64(b.Y-a.Y)

	if math.Abs(dy) < epsilon {
		lo, hi := minInt(a.X, b.X), maxInt(a.X, b.X)
		for x := lo; x <= hi; x++ {
			sink(Vector{x, a.Y})
		}
		return
	}
	if math.Abs(dx) < epsilon {
		lo, hi := minInt(a.Y, b.Y), maxInt(a.Y, b.Y)
		for y := lo; y <= hi; y++ {
			sink(Vector{a.X, y})
		}
		return
	}

	if math.Abs(dx) >= math.Abs(dy) {
		scanlineRasterize(a, b, sink, true)
	} else {
		scanlineRasterize(a, b, sink, false)
	}
}

// scanlineRasterize walks along the dominant axis (xDominant selects X vs Y)
// and, for each integer step, emits the cell on the line nearest that step.
func scanlineRasterize(a, b Vector, sink func(Vector), xDominant bool) {
	var lnA, lnB, ofstA, ofstB float64
	if xDominant {
		lnA, lnB, ofstA, ofstB = float64(a.X), float64(b.X), float64(a.Y), float64(b.Y)
	} else {
		lnA, lnB, ofstA, ofstB = float64(a.Y), float64(b.Y), float64(a.X), float64(b.X)
	}
	start := int(math.Round(lnA))
	end := int(math.Round(lnB))
	inc := 1
	if start > end {
		inc = -1
	}
	for ln := start; ; ln += inc {
		t := (float64(ln) - lnA) / (lnB - lnA)
		ofst := ofstA + t*(ofstB-ofstA)
		ofstCell := round(ofst)
		if xDominant {
			sink(Vector{ln, ofstCell})
		} else {
			sink(Vector{ofstCell, ln})
		}
		if ln == end {
			break
		}
	}
}
