package project

import (
	"math"

	"github.com/purduearc/occgrid/internal/geom2"
	"github.com/purduearc/occgrid/internal/geom3"
)

// Sphere is a Measurable ball obstacle.
type Sphere struct {
	Ball geom3.Ball
}

// Distance implements Measurable.
func (s Sphere) Distance(p geom3.Vector) float64 {
	return s.Ball.C.Sub(p).Magnitude() - s.Ball.R
}

// Cylinder is a Measurable infinite vertical cylinder: its footprint is a
// 2D circle, extruded through every height. Center.Z is ignored.
type Cylinder struct {
	Center geom3.Vector
	Radius float64
}

// Distance implements Measurable, ignoring p's Z component.
func (c Cylinder) Distance(p geom3.Vector) float64 {
	return math.Hypot(c.Center.X-p.X, c.Center.Y-p.Y) - c.Radius
}

// Prism is a Collidable vertical prism extruded from an integer-box
// footprint, extruded through every height: any ray that enters the box's
// (x, y) footprint has collided, regardless of its Z.
type Prism struct {
	Box geom2.Box
}

// RayDistance implements Collidable: it clips the ray's (x, y) projection
// against Box and reports the distance to the nearer clip point, or
// maxDist if the ray's footprint misses the box entirely.
func (p Prism) RayDistance(r geom3.Ray, maxDist float64) float64 {
	length := math.Hypot(r.D.X, r.D.Y)
	if length == 0 {
		return maxDist
	}
	dirX, dirY := r.D.X/length, r.D.Y/length
	bx, by := r.P.X+dirX*maxDist, r.P.Y+dirY*maxDist

	t0, t1, ok := clipLineBox(r.P.X, r.P.Y, bx, by, p.Box)
	if !ok {
		return maxDist
	}
	d0 := t0 * maxDist
	d1 := t1 * maxDist
	return math.Min(d0, d1)
}

// clipLineBox clips the segment (ax, ay)-(bx, by) to box, the same slab
// test geom2.ClipToBox performs but kept in floating point throughout:
// ClipToBox rounds its result to the nearest integer cell, too coarse for
// ray marching sub-cell precision. Returns the fraction range [t0, t1]
// along the segment that lies inside box.
func clipLineBox(ax, ay, bx, by float64, box geom2.Box) (t0, t1 float64, ok bool) {
	if box.Empty() {
		return 0, 0, false
	}
	dx, dy := bx-ax, by-ay
	t0, t1 = 0, 1
	type clip struct{ p, q float64 }
	clips := [4]clip{
		{-dx, ax - float64(box.Min.X)},
		{dx, float64(box.Max.X) - ax},
		{-dy, ay - float64(box.Min.Y)},
		{dy, float64(box.Max.Y) - ay},
	}
	for _, c := range clips {
		if c.p == 0 {
			if c.q < 0 {
				return 0, 0, false
			}
			continue
		}
		r := c.q / c.p
		if c.p < 0 {
			if r > t1 {
				return 0, 0, false
			}
			if r > t0 {
				t0 = r
			}
		} else {
			if r < t0 {
				return 0, 0, false
			}
			if r < t1 {
				t1 = r
			}
		}
	}
	if t0 > t1 {
		return 0, 0, false
	}
	return t0, t1, true
}
