package project

import (
	"math"
	"testing"

	"github.com/purduearc/occgrid/internal/geom2"
	"github.com/purduearc/occgrid/internal/geom3"
)

func identityCam(fov float64, width, height int) CamInfo {
	return NewCamInfo(fov, width, height, geom3.IdentityTransform())
}

// TestDeproject2DCenteredBeam checks a uniform-depth row against the
// pinhole formula by hand: with fov = pi/2 (tan_fov = 2), width = 4,
// height = 1, image_scale = tan_fov/max(width,height) = 0.5, and pixel
// shift_x = x - width/2 + 0.5 = x - 1.5. At depth 4, x_cam = shift_x * 0.5
// * 4 = shift_x * 2, giving -3, -1, 1, 3 across the row.
func TestDeproject2DCenteredBeam(t *testing.T) {
	cam := identityCam(math.Pi/2, 4, 1)
	depths := []float64{4, 4, 4, 4}
	want := []geom2.Vector{{X: -3, Y: 4}, {X: -1, Y: 4}, {X: 1, Y: 4}, {X: 3, Y: 4}}

	var got []geom2.Vector
	Deproject2D(depths, cam, func(p geom2.Vector) { got = append(got, p) })

	if len(got) != len(want) {
		t.Fatalf("got %d points, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("point %d = %v, want %v", i, got[i], want[i])
		}
	}
}

// TestProjectDeprojectRoundTrip checks that projecting a sphere and then
// deprojecting the resulting depth image recovers points on the sphere's
// surface, within the ray marcher's precision. The field of view (pi/8) is
// narrow enough that all nine pixel rays hit the sphere.
func TestProjectDeprojectRoundTrip(t *testing.T) {
	cam := identityCam(math.Pi/8, 3, 3)
	var marcher RayMarcher
	ball := Sphere{Ball: geom3.Ball{C: geom3.Vector{X: 0, Y: 20, Z: 0}, R: 5}}
	marcher.AddMeasurable(ball)

	depths := make([]float64, cam.Width*cam.Height)
	Project(depths, cam, &marcher)

	centerDepth := depths[4] // pixel (1,1), the dead-center ray
	want := 15.0             // 20 - 5, the near side of the sphere
	if math.Abs(centerDepth-want) > 0.1 {
		t.Errorf("center depth = %v, want ~%v", centerDepth, want)
	}

	Deproject3D(depths, cam, func(p geom3.Vector) {
		dist := p.Sub(ball.Ball.C).Magnitude()
		if math.Abs(dist-ball.Ball.R) > 0.1 {
			t.Errorf("deprojected point %v is %v from sphere center, want ~%v", p, dist, ball.Ball.R)
		}
	})
}

func TestPrismRayDistance(t *testing.T) {
	p := Prism{Box: geom2.NewBox(geom2.Vector{X: 10, Y: -1}, 2)}
	r := geom3.Ray{P: geom3.Vector{X: 0, Y: 0, Z: 0}, D: geom3.Vector{X: 1, Y: 0, Z: 0}}

	got := p.RayDistance(r, 100)
	if math.Abs(got-10) > 1e-9 {
		t.Errorf("RayDistance = %v, want 10", got)
	}
}

func TestPrismRayDistanceMiss(t *testing.T) {
	p := Prism{Box: geom2.NewBox(geom2.Vector{X: 10, Y: 10}, 2)}
	r := geom3.Ray{P: geom3.Vector{X: 0, Y: 0, Z: 0}, D: geom3.Vector{X: 1, Y: 0, Z: 0}}

	got := p.RayDistance(r, 100)
	if got != 100 {
		t.Errorf("RayDistance = %v, want 100 (miss)", got)
	}
}

func TestRayMarcherMissReportsMaxDistance(t *testing.T) {
	var marcher RayMarcher
	marcher.AddMeasurable(Sphere{Ball: geom3.Ball{C: geom3.Vector{X: 1000, Y: 1000, Z: 1000}, R: 1}})

	hit := marcher.Collide(geom3.Ray{P: geom3.Vector{}, D: geom3.Vector{X: 0, Y: 1, Z: 0}})
	if math.Abs(hit.Y-maxDistance) > 1e-6 {
		t.Errorf("miss should report the point at maxDistance, got %v", hit)
	}
}
