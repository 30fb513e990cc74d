package occtile

// CMax is the maximum certainty value a temporary (observable) cell can
// hold. Required cells instead hold Required (255), which decay never
// touches.
const (
	CMax     = 63
	Required = 255
)

// Gradient is a tile with one byte of certainty per cell: 0 is known-free,
// 1..CMax is temporary occupancy with linear certainty, and Required (255)
// is a cell that can never become unoccupied.
type Gradient struct {
	log2W       int
	certainties []byte
}

// NewGradient returns an all-free gradient tile of width 2^log2W.
func NewGradient(log2W int) Gradient {
	w := 1 << log2W
	return Gradient{log2W: log2W, certainties: make([]byte, w*w)}
}

// Log2W returns the tile's log2 width.
func (g Gradient) Log2W() int { return g.log2W }

func (g Gradient) index(x, y int) int {
	return x | (y << g.log2W)
}

// Certainty returns the raw certainty byte at (x, y).
func (g Gradient) Certainty(x, y int) byte {
	return g.certainties[g.index(x, y)]
}

// SetCertainty sets the raw certainty byte at (x, y).
func (g Gradient) SetCertainty(x, y int, c byte) {
	g.certainties[g.index(x, y)] = c
}

// GetOcc reports whether (x, y) is occupied (certainty != 0).
func (g Gradient) GetOcc(x, y int) bool {
	return g.certainties[g.index(x, y)] != 0
}

// DecrementIfNonzero decrements the certainty at (x, y) by one, unless it is
// already 0 or it is Required — required cells are never touched by decay.
func (g Gradient) DecrementIfNonzero(x, y int) {
	idx := g.index(x, y)
	c := g.certainties[idx]
	if c != 0 && c != Required {
		g.certainties[idx] = c - 1
	}
}

// Refresh sets the certainty at (x, y) to max(current, CMax), leaving
// Required cells untouched.
func (g Gradient) Refresh(x, y int) {
	idx := g.index(x, y)
	if g.certainties[idx] != Required && g.certainties[idx] < CMax {
		g.certainties[idx] = CMax
	}
}

// Clone returns an independent copy of g.
func (g Gradient) Clone() Gradient {
	c := Gradient{log2W: g.log2W, certainties: make([]byte, len(g.certainties))}
	copy(c.certainties, g.certainties)
	return c
}

// FromPlain builds a gradient tile from a plain tile: every set cell becomes
// CMax (temporary at maximum certainty), every clear cell becomes 0.
func FromPlain(t Plain) Gradient {
	g := NewGradient(t.log2W)
	w := 1 << t.log2W
	for y := 0; y < w; y++ {
		for x := 0; x < w; x++ {
			if t.GetBit(x, y) {
				g.SetCertainty(x, y, CMax)
			}
		}
	}
	return g
}

// FromSeparated builds a gradient tile from a separated tile: required cells
// become 255, temporary-only cells become CMax, everything else becomes 0.
func FromSeparated(s Separated) Gradient {
	log2W := s.Log2W()
	g := NewGradient(log2W)
	w := 1 << log2W
	for y := 0; y < w; y++ {
		for x := 0; x < w; x++ {
			switch {
			case s.Required.GetBit(x, y):
				g.SetCertainty(x, y, Required)
			case s.Temporary.GetBit(x, y):
				g.SetCertainty(x, y, CMax)
			}
		}
	}
	return g
}

// ToPlain compiles the gradient tile down to a plain occupancy bitset:
// every cell with nonzero certainty is set.
func (g Gradient) ToPlain() Plain {
	t := NewPlain(g.log2W)
	w := 1 << g.log2W
	for y := 0; y < w; y++ {
		for x := 0; x < w; x++ {
			if g.GetOcc(x, y) {
				t.SetBit(x, y, true)
			}
		}
	}
	return t
}

// ToSeparated compiles the gradient tile down to a separated tile: cells
// with certainty Required become required (and therefore temporary too);
// cells with any other nonzero certainty become temporary-only. Decimating
// a certainty below CMax back into Separated's binary layers loses the
// certainty value — the round trip is lossy, as documented for the
// gradient/plain conversion generally.
func (g Gradient) ToSeparated() Separated {
	s := NewSeparated(g.log2W)
	w := 1 << g.log2W
	for y := 0; y < w; y++ {
		for x := 0; x < w; x++ {
			switch c := g.Certainty(x, y); {
			case c == Required:
				s.SetRequired(x, y, true)
			case c != 0:
				s.SetTemporary(x, y, true)
			}
		}
	}
	return s
}
