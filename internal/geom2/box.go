package geom2

// Box is an axis-aligned integer box: Min is inclusive, Max is exclusive.
type Box struct {
	Min, Max Vector
}

// NewBox returns the box with the given inclusive origin and side length
// (square, as used throughout the quadtree and tile code).
func NewBox(origin Vector, side int) Box {
	return Box{Min: origin, Max: origin.Add(Vector{side, side})}
}

// Width returns Max.X - Min.X, which may be negative or zero for a
// degenerate box.
func (b Box) Width() int { return b.Max.X - b.Min.X }

// Height returns Max.Y - Min.Y.
func (b Box) Height() int { return b.Max.Y - b.Min.Y }

// Area returns the box's area. A degenerate box (zero or negative extent in
// either axis) reports area 0, never negative.
func (b Box) Area() int64 {
	w, h := b.Width(), b.Height()
	if w <= 0 || h <= 0 {
		return 0
	}
	return int64(w) * int64(h)
}

// Empty reports whether the box has zero area.
func (b Box) Empty() bool { return b.Area() == 0 }

// Center returns the box's midpoint, rounded toward Min.
func (b Box) Center() Vector {
	return Vector{
		X: b.Min.X + (b.Max.X-b.Min.X)/2,
		Y: b.Min.Y + (b.Max.Y-b.Min.Y)/2,
	}
}

// Contains reports whether p lies within the box under the min-inclusive,
// max-exclusive convention.
func (b Box) Contains(p Vector) bool {
	return p.X >= b.Min.X && p.X < b.Max.X && p.Y >= b.Min.Y && p.Y < b.Max.Y
}

// ContainsBox reports whether the box fully contains other. An empty other
// box is never considered contained.
func (b Box) ContainsBox(other Box) bool {
	if other.Empty() {
		return false
	}
	return other.Min.X >= b.Min.X && other.Min.Y >= b.Min.Y &&
		other.Max.X <= b.Max.X && other.Max.Y <= b.Max.Y
}

// Translate returns the box shifted by v (the Minkowski sum of the box with
// a single point).
func (b Box) Translate(v Vector) Box {
	return Box{Min: b.Min.Add(v), Max: b.Max.Add(v)}
}

// Expand returns the Minkowski sum of the box with another box: a box whose
// min/max are offset outward by the other box's min/max, growing the region
// by other's extent in every direction.
func (b Box) Expand(other Box) Box {
	return Box{Min: b.Min.Add(other.Min), Max: b.Max.Add(other.Max)}
}

// Shrink returns the Minkowski difference of the box with another box,
// inverse of Expand.
func (b Box) Shrink(other Box) Box {
	return Box{Min: b.Min.Sub(other.Min), Max: b.Max.Sub(other.Max)}
}

// Intersect returns the intersection of a and b and whether it is non-empty.
// A false return (no_intersection) comes with a zero-value Box.
func Intersect(a, b Box) (Box, bool) {
	r := Box{
		Min: Vector{maxInt(a.Min.X, b.Min.X), maxInt(a.Min.Y, b.Min.Y)},
		Max: Vector{minInt(a.Max.X, b.Max.X), minInt(a.Max.Y, b.Max.Y)},
	}
	if r.Empty() {
		return Box{}, false
	}
	return r, true
}

// Intersects reports whether a and b overlap, without constructing the
// intersection box.
func Intersects(a, b Box) bool {
	_, ok := Intersect(a, b)
	return ok
}

// BoundsOfPoint returns the smallest box containing a single point (a unit
// cell).
func BoundsOfPoint(p Vector) Box {
	return Box{Min: p, Max: p.Add(Vector{1, 1})}
}

// BoundsOfLine returns the smallest box containing both endpoints of a
// segment, inclusive of each endpoint's unit cell.
func BoundsOfLine(a, b Vector) Box {
	lo := Vector{minInt(a.X, b.X), minInt(a.Y, b.Y)}
	hi := Vector{maxInt(a.X, b.X), maxInt(a.Y, b.Y)}
	return Box{Min: lo, Max: hi.Add(Vector{1, 1})}
}

// BoundsOfBall returns the smallest box containing a ball of the given
// integer radius centered at c.
func BoundsOfBall(c Vector, radius int) Box {
	if radius < 0 {
		radius = 0
	}
	r := Vector{radius, radius}
	return Box{Min: c.Sub(r), Max: c.Add(r).Add(Vector{1, 1})}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
