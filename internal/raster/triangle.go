package raster

import (
	"math"

	"holocard-renderer/internal/mathutil"
)

// Mode selects how a fragment reaches the framebuffer.
type Mode uint8

const (
	// Opaque fragments are depth tested and write depth.
	Opaque Mode = iota
	// Overlay fragments are depth tested, lerped over the destination by
	// their alpha and leave depth untouched.
	Overlay
	// Additive fragments are depth tested and added to the destination.
	Additive
)

// Vertex is a projected vertex with its attributes. Attributes are
// interpolated perspective-correctly.
type Vertex struct {
	P     Projected
	Attrs [NumAttrs]float64
}

// Attribute slots.
const (
	AttrU = iota
	AttrV
	AttrX // world position
	AttrY
	AttrZ
	NumAttrs
)

// FragmentFunc shades one covered pixel. dst is the colour already in the
// framebuffer. It returns the colour, its coverage in [0,1], and false to
// discard the fragment.
type FragmentFunc func(attrs *[NumAttrs]float64, dst mathutil.RGB) (mathutil.RGB, float64, bool)

// RasterizeTriangle fills a triangle, calling frag for every covered pixel
// that passes the depth test.
//
// The pixel loop does not allocate; frag must not either.
func RasterizeTriangle(fb *FrameBuffer, v0, v1, v2 *Vertex, mode Mode, frag FragmentFunc) {
	fb.beginDraw()
	rasterize(fb, v0, v1, v2, mode, frag)
}

// RasterizeQuad draws a quad as the triangles (0,1,2) and (0,2,3). Pixels on
// the shared diagonal are blended once.
func RasterizeQuad(fb *FrameBuffer, vs *[4]Vertex, mode Mode, frag FragmentFunc) {
	fb.beginDraw()
	rasterize(fb, &vs[0], &vs[1], &vs[2], mode, frag)
	rasterize(fb, &vs[0], &vs[2], &vs[3], mode, frag)
}

func rasterize(fb *FrameBuffer, v0, v1, v2 *Vertex, mode Mode, frag FragmentFunc) {
	x0, y0 := v0.P.X, v0.P.Y
	x1, y1 := v1.P.X, v1.P.Y
	x2, y2 := v2.P.X, v2.P.Y

	// Bounding box
	minX := max(0, int(math.Floor(math.Min(math.Min(x0, x1), x2))))
	maxX := min(fb.Width-1, int(math.Ceil(math.Max(math.Max(x0, x1), x2))))
	minY := max(0, int(math.Floor(math.Min(math.Min(y0, y1), y2))))
	maxY := min(fb.Height-1, int(math.Ceil(math.Max(math.Max(y0, y1), y2))))
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det

	// Precompute edge deltas
	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	var attrs [NumAttrs]float64

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) + 0.5 - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) + 0.5 - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1

			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*v0.P.Depth + w1*v1.P.Depth + w2*v2.P.Depth
			zIdx := rowOff + sx
			if z <= fb.ZBuf[zIdx] {
				continue
			}

			// Perspective-correct interpolation
			p0 := w0 * v0.P.InvW
			p1 := w1 * v1.P.InvW
			p2 := w2 * v2.P.InvW
			ps := p0 + p1 + p2
			if ps <= 0 {
				continue
			}
			inv := 1 / ps
			for a := range attrs {
				attrs[a] = (p0*v0.Attrs[a] + p1*v1.Attrs[a] + p2*v2.Attrs[a]) * inv
			}

			pxIdx := zIdx * 4
			dst := mathutil.From8(fb.Color[pxIdx], fb.Color[pxIdx+1], fb.Color[pxIdx+2])
			c, alpha, ok := frag(&attrs, dst)
			if !ok {
				continue
			}
			if mode != Opaque {
				if fb.drawn[zIdx] == fb.draw {
					continue
				}
				fb.drawn[zIdx] = fb.draw
			}

			var out mathutil.RGB
			switch mode {
			case Opaque:
				if alpha < 8.0/255 {
					// Skip transparent texels
					continue
				}
				fb.ZBuf[zIdx] = z
				out = c
				fb.Color[pxIdx+3] = 255
			case Overlay:
				out = dst.Lerp(c, mathutil.Clamp01(alpha))
			case Additive:
				add := c.Scale(mathutil.Clamp01(alpha))
				out = dst.Add(add)
				// Dark additions stay transparent over an empty background.
				a := clamp255(add.Luma() * 255)
				if a > fb.Color[pxIdx+3] {
					fb.Color[pxIdx+3] = a
				}
			}
			fb.Color[pxIdx], fb.Color[pxIdx+1], fb.Color[pxIdx+2] = out.To8()
		}
	}
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
