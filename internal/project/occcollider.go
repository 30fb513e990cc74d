package project

import (
	"math"

	"github.com/purduearc/occgrid/internal/geom2"
	"github.com/purduearc/occgrid/internal/geom3"
	"github.com/purduearc/occgrid/internal/nbrhood"
	"github.com/purduearc/occgrid/internal/occtile"
)

// occStep is the line-stepper step size used to walk a candidate ray
// through a neighborhood tile while hunting for the first occupied cell.
const occStep = 0.125

// OccupancyCollider is a Collidable that treats a committed tile
// neighborhood as a grid of vertical prisms: any occupied cell is solid
// at every height. It is how a camera simulated against a partially
// built map "sees" what has already been mapped.
type OccupancyCollider struct {
	Neighborhood nbrhood.Neighborhood[*occtile.Separated]
}

// RayDistance implements Collidable. It clips the ray's (x, y) projection
// against each of the nine neighborhood tiles in turn, walks the
// surviving segment at a fixed fine step checking for the first occupied
// cell, and returns the smallest hit distance found across all nine.
func (o OccupancyCollider) RayDistance(r geom3.Ray, maxDist float64) float64 {
	length := math.Hypot(r.D.X, r.D.Y)
	if length == 0 {
		return maxDist
	}
	dirX, dirY := r.D.X/length, r.D.Y/length
	bx, by := r.P.X+dirX*maxDist, r.P.Y+dirY*maxDist

	best := maxDist
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			node := o.Neighborhood.Nbr(dx, dy)
			if node == nil {
				continue
			}
			box := o.Neighborhood.Bounds(dx, dy)
			t0, t1, ok := clipLineBox(r.P.X, r.P.Y, bx, by, box)
			if !ok {
				continue
			}
			ex0, ey0 := r.P.X+t0*(bx-r.P.X), r.P.Y+t0*(by-r.P.Y)
			ex1, ey1 := r.P.X+t1*(bx-r.P.X), r.P.Y+t1*(by-r.P.Y)
			d0 := dirX*(ex0-r.P.X) + dirY*(ey0-r.P.Y)
			d1 := dirX*(ex1-r.P.X) + dirY*(ey1-r.P.Y)
			if d0 > d1 {
				ex0, ey0, ex1, ey1 = ex1, ey1, ex0, ey0
			}
			if dst, hit := walkTile(node.Tile, box, ex0, ey0, ex1, ey1, dirX, dirY, r.P); hit && dst < best {
				best = dst
			}
		}
	}
	return best
}

// walkTile steps along the world-space segment (ex0,ey0)-(ex1,ey1), known
// to lie within box, looking for the first cell with nonzero certainty.
// On a hit it returns the distance from origin along (dirX, dirY) to that
// point.
func walkTile(tile *occtile.Separated, box geom2.Box, ex0, ey0, ex1, ey1, dirX, dirY float64, origin geom3.Vector) (float64, bool) {
	segLen := math.Hypot(ex1-ex0, ey1-ey0)
	if segLen == 0 {
		return 0, false
	}
	steps := int(segLen/occStep) + 1
	for i := 0; i <= steps; i++ {
		frac := float64(i) / float64(steps)
		wx, wy := ex0+(ex1-ex0)*frac, ey0+(ey1-ey0)*frac
		lx, ly := int(wx)-box.Min.X, int(wy)-box.Min.Y
		w := box.Width()
		if lx < 0 || ly < 0 || lx >= w || ly >= w {
			continue
		}
		if tile.GetOcc(lx, ly) {
			return dirX*(wx-origin.X) + dirY*(wy-origin.Y), true
		}
	}
	return 0, false
}
