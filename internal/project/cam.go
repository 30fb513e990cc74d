// Package project implements the pinhole camera model: casting one ray per
// pixel into a collider to build a depth image (Project), and reversing a
// depth image back into world-space points (Deproject2D, Deproject3D). A
// RayMarcher and a handful of Measurable/Collidable primitives give
// Project something to collide against; OccupancyCollider lets a
// committed tile neighborhood itself serve as the collider, for
// simulating what a camera already facing a partially-built map would
// see.
package project

import (
	"math"

	"github.com/purduearc/occgrid/internal/geom3"
)

// CamInfo holds a camera's field of view, pixel resolution, and pose. The
// pose is kept as a pair of synced transforms so neither Project nor
// Deproject needs to invert it on every call.
type CamInfo struct {
	// TanFOV is twice the tangent of half the field-of-view angle, the
	// form the projection math actually consumes.
	TanFOV        float64
	Width, Height int

	CamToWorld geom3.Transform
	WorldToCam geom3.Transform
}

// NewCamInfo builds a CamInfo from a field-of-view angle in radians, pixel
// resolution, and the camera's pose in world space.
func NewCamInfo(fov float64, width, height int, pose geom3.Transform) CamInfo {
	c := CamInfo{TanFOV: 2 * math.Tan(fov*0.5), Width: width, Height: height}
	c.SetPose(pose)
	return c
}

// SetPose updates the camera's pose, keeping WorldToCam in sync.
func (c *CamInfo) SetPose(pose geom3.Transform) {
	c.CamToWorld = pose
	c.WorldToCam = pose.Invert()
}

// Pose returns the camera's pose (CamToWorld).
func (c CamInfo) Pose() geom3.Transform {
	return c.CamToWorld
}

// imageScale is the per-pixel scale factor: tan_fov divided by the larger
// of the two pixel dimensions.
func (c CamInfo) imageScale() float64 {
	return c.TanFOV / float64(maxInt(c.Width, c.Height))
}

// pixelShift returns the (x, y) offset that centers the pixel grid on the
// optical axis: pixel 0 sits half a pixel off-center.
func (c CamInfo) pixelShift() (x, y float64) {
	return -0.5*float64(c.Width) + 0.5, -0.5*float64(c.Height) + 0.5
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
