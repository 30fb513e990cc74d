package project

import (
	"github.com/purduearc/occgrid/internal/geom2"
	"github.com/purduearc/occgrid/internal/geom3"
)

// Collider finds the point where a ray first collides with a virtual
// world, starting at r.P and heading in direction r.D.
type Collider interface {
	Collide(r geom3.Ray) geom3.Vector
}

// Project fills depths (row-major, Width*Height, x fastest) by casting a
// ray through each pixel's center and colliding it with the world. The
// written depth is the collision point's cam-frame +Y component (cam-frame
// +Y is "forward").
func Project(depths []float64, cfg CamInfo, collider Collider) {
	s := cfg.imageScale()
	shiftX, shiftY := cfg.pixelShift()
	origin := cfg.CamToWorld.T
	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			dir := cfg.CamToWorld.R.Apply(geom3.Vector{
				X: (float64(x) + shiftX) * s,
				Y: 1,
				Z: (float64(y) + shiftY) * s,
			})
			hit := collider.Collide(geom3.Ray{P: origin, D: dir})
			depths[x+y*cfg.Width] = cfg.WorldToCam.Apply(hit).Y
		}
	}
}

// camPoint reconstructs the cam-frame point a depth at pixel (x, y)
// implies: the inverse of the ray cast in Project, scaled out to the
// plane at distance d along cam-frame +Y.
func camPoint(cfg CamInfo, x, y int, d float64) geom3.Vector {
	s := cfg.imageScale()
	shiftX, shiftY := cfg.pixelShift()
	ptScale := s * d
	return geom3.Vector{
		X: (float64(x) + shiftX) * ptScale,
		Y: d,
		Z: (float64(y) + shiftY) * ptScale,
	}
}

// Deproject2D reconstructs a world-space point for each depth (dropping
// the cam-frame Z / "up" component) and emits it to sink, visiting pixels
// in the same row-major order Project fills depths in.
func Deproject2D(depths []float64, cfg CamInfo, sink func(geom2.Vector)) {
	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			world := cfg.CamToWorld.Apply(camPoint(cfg, x, y, depths[x+y*cfg.Width]))
			sink(geom2.Vector{X: int(world.X), Y: int(world.Y)})
		}
	}
}

// Deproject3D reconstructs a full 3D world-space point for each depth and
// emits it to sink.
func Deproject3D(depths []float64, cfg CamInfo, sink func(geom3.Vector)) {
	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			world := cfg.CamToWorld.Apply(camPoint(cfg, x, y, depths[x+y*cfg.Width]))
			sink(world)
		}
	}
}
