package project

import "github.com/purduearc/occgrid/internal/geom3"

// minStep and maxDistance bound the ray marcher: it stops advancing once
// the nearest object is closer than minStep (a hit) or once it has
// traveled maxDistance without finding one (a miss).
const (
	minStep     = 0x1p-8
	maxDistance = 0x1p10
	hitOffset   = 0x1p-6
)

// Measurable is an object whose signed distance to any point in space can
// be computed directly, such as a sphere.
type Measurable interface {
	// Distance returns the distance from p to the object's surface,
	// negative if p is inside it.
	Distance(p geom3.Vector) float64
}

// Collidable is an object that can only report how far a given ray must
// travel before it reaches the object, such as a box that has no simple
// point-distance field.
type Collidable interface {
	// RayDistance returns the distance along r before it reaches the
	// object, or maxDist if it never does within that range.
	RayDistance(r geom3.Ray, maxDist float64) float64
}

// RayMarcher collides a ray against a scene built from Measurable and
// Collidable objects by sphere-tracing: at each step it advances by the
// smallest distance reported by any object, which is always safe to move
// since no object can be closer than that.
type RayMarcher struct {
	measurables []Measurable
	collidables []Collidable
}

// AddMeasurable adds o to the scene.
func (m *RayMarcher) AddMeasurable(o Measurable) {
	m.measurables = append(m.measurables, o)
}

// AddCollidable adds o to the scene.
func (m *RayMarcher) AddCollidable(o Collidable) {
	m.collidables = append(m.collidables, o)
}

func (m *RayMarcher) minDistance(r geom3.Ray) float64 {
	d := maxDistance
	for _, o := range m.measurables {
		if v := o.Distance(r.P); v < d {
			d = v
		}
	}
	for _, o := range m.collidables {
		if v := o.RayDistance(r, maxDistance); v < d {
			d = v
		}
	}
	if d < 0 {
		return 0
	}
	return d
}

// Collide implements Collider: it marches r.P along r.D until the nearest
// object is within minStep (reporting the point just past it, offset by
// hitOffset) or the accumulated distance exceeds maxDistance (reporting
// the point at maxDistance).
func (m *RayMarcher) Collide(r geom3.Ray) geom3.Vector {
	dir := r.D.Normalize()
	p := r.P
	traveled := 0.0
	step := m.minDistance(geom3.Ray{P: p, D: dir})
	for step >= minStep && traveled < maxDistance {
		p = p.Add(dir.Scale(step))
		traveled += step
		step = m.minDistance(geom3.Ray{P: p, D: dir})
	}
	if traveled >= maxDistance {
		return r.P.Add(dir.Scale(maxDistance))
	}
	return p.Add(dir.Scale(hitOffset))
}
