package raster

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"holocard-renderer/internal/mathutil"
)

// BaseDistance is the eye distance at zoom 1; the card then fills roughly
// 80% of the viewport height.
const BaseDistance = 2.6

// Camera is a perspective camera looking at the origin down -Z.
type Camera struct {
	Eye      mathutil.Vec3
	FovY     float64 // degrees
	Width    int
	Height   int
	viewProj mgl64.Mat4
}

// NewCamera builds a camera for a viewport, pulled in by zoom.
func NewCamera(width, height int, zoom float64) Camera {
	if zoom <= 0 {
		zoom = 1
	}
	eye := mathutil.Vec3{0, 0, BaseDistance / zoom}
	c := Camera{Eye: eye, FovY: 40, Width: width, Height: height}
	aspect := float64(width) / float64(max(1, height))
	proj := mgl64.Perspective(mgl64.DegToRad(c.FovY), aspect, 0.05, 50)
	view := mgl64.LookAtV(mgl64.Vec3{eye[0], eye[1], eye[2]}, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0})
	c.viewProj = proj.Mul4(view)
	return c
}

// Projected is a vertex in screen space. InvW carries 1/w for
// perspective-correct interpolation.
type Projected struct {
	X, Y  float64
	Depth float64 // larger is nearer
	InvW  float64
}

// Project maps a world-space point to the screen. ok is false for points
// behind the eye.
func (c Camera) Project(p mathutil.Vec3) (Projected, bool) {
	clip := c.viewProj.Mul4x1(mgl64.Vec4{p[0], p[1], p[2], 1})
	w := clip[3]
	if w <= 1e-6 {
		return Projected{}, false
	}
	inv := 1 / w
	nx, ny, nz := clip[0]*inv, clip[1]*inv, clip[2]*inv
	return Projected{
		X:     (nx + 1) * 0.5 * float64(c.Width),
		Y:     (1 - ny) * 0.5 * float64(c.Height),
		Depth: -nz,
		InvW:  inv,
	}, true
}

// PixelScale is how many pixels one world unit spans at clip depth w.
func (c Camera) PixelScale(invW float64) float64 {
	return float64(c.Height) * 0.5 / math.Tan(mgl64.DegToRad(c.FovY)/2) * invW
}
