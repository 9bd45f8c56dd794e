package raster

import (
	"math"

	"holocard-renderer/internal/mathutil"
	"holocard-renderer/internal/shading"
)

// pointWorldSize is the world radius of a particle of size 1.
const pointWorldSize = 0.004

// DrawPoints splats particles as soft additive discs. Points hidden behind
// opaque geometry are depth tested away.
func DrawPoints(fb *FrameBuffer, cam Camera, xf mathutil.Mat4, pts []shading.Point, gain, t float64) {
	if gain <= 0 {
		return
	}
	for i := range pts {
		pt := &pts[i]
		p, ok := cam.Project(xf.MulPoint(pt.Pos))
		if !ok {
			continue
		}
		r := math.Max(0.75, pt.Size*pointWorldSize*cam.PixelScale(p.InvW))
		c := pt.Color.Scale(shading.Twinkle(*pt, t) * gain)

		minX := max(0, int(p.X-r))
		maxX := min(fb.Width-1, int(p.X+r))
		minY := max(0, int(p.Y-r))
		maxY := min(fb.Height-1, int(p.Y+r))
		for sy := minY; sy <= maxY; sy++ {
			for sx := minX; sx <= maxX; sx++ {
				d := math.Hypot(float64(sx)+0.5-p.X, float64(sy)+0.5-p.Y) / r
				if d >= 1 {
					continue
				}
				zIdx := sy*fb.Width + sx
				if p.Depth <= fb.ZBuf[zIdx] {
					continue
				}
				a := (1 - d) * (1 - d)
				pxIdx := zIdx * 4
				dst := mathutil.From8(fb.Color[pxIdx], fb.Color[pxIdx+1], fb.Color[pxIdx+2])
				add := c.Scale(a)
				fb.Color[pxIdx], fb.Color[pxIdx+1], fb.Color[pxIdx+2] = dst.Add(add).To8()
				if al := clamp255(add.Luma() * 255); al > fb.Color[pxIdx+3] {
					fb.Color[pxIdx+3] = al
				}
			}
		}
	}
}
