package raster

import (
	"image"

	"holocard-renderer/internal/effect"
	"holocard-renderer/internal/mathutil"
	"holocard-renderer/internal/scene"
	"holocard-renderer/internal/shading"
)

// Frame is everything the rasterizer needs for one image.
type Frame struct {
	Items []scene.DrawItem
	Card  scene.Card
	// Front and Back are the face textures; nil faces are drawn flat.
	Front *image.NRGBA
	Back  *image.NRGBA
	// EdgeColor is the display colour of the card's thin sides.
	EdgeColor mathutil.RGB
	// Surface holds the layers composited per pixel on the front face.
	Surface    []effect.Layer
	Time       float64
	Light      LightConfig
	Background mathutil.RGB
	// Transparent leaves the background at zero alpha.
	Transparent bool
}

var flatAlbedo = mathutil.RGB{R: 0.35, G: 0.35, B: 0.38}

// Render clears fb and draws every item in order.
func Render(fb *FrameBuffer, cam Camera, f *Frame) {
	var bgAlpha uint8 = 255
	if f.Transparent {
		bgAlpha = 0
	}
	fb.Clear(f.Background, bgAlpha)

	// Opaque geometry first so overlays and shells depth test against it.
	for i := range f.Items {
		if f.Items[i].Pass == scene.PassBody {
			drawItem(fb, cam, f, &f.Items[i])
		}
	}
	for i := range f.Items {
		if f.Items[i].Pass != scene.PassBody {
			drawItem(fb, cam, f, &f.Items[i])
		}
	}
}

// RenderImage renders f into a fresh w×h image.
func RenderImage(w, h int, cam Camera, f *Frame) *image.NRGBA {
	fb := NewFrameBuffer(w, h)
	Render(fb, cam, f)
	return fb.Image()
}

func drawItem(fb *FrameBuffer, cam Camera, f *Frame, it *scene.DrawItem) {
	if it.Pass == scene.PassPoints {
		DrawPoints(fb, cam, it.Transform, it.Points, effect.Intensity(it.Layer.Params)/100*it.Opacity, f.Time)
		return
	}

	n := it.Transform.MulDir(it.Quad.Normal).Normalize()
	var vs [4]Vertex
	var center mathutil.Vec3
	for i, c := range it.Quad.Corners {
		w := it.Transform.MulPoint(c)
		p, ok := cam.Project(w)
		if !ok {
			return
		}
		vs[i] = Vertex{P: p, Attrs: [NumAttrs]float64{it.Quad.UV[i][0], it.Quad.UV[i][1], w[0], w[1], w[2]}}
		center = center.Add(w.Scale(0.25))
	}
	// Back-face cull everything but the glow shell, which shows from
	// either side.
	if it.Surface != scene.SurfaceGlowOuter && n.Dot(cam.Eye.Sub(center)) <= 0 {
		return
	}

	switch it.Surface {
	case scene.SurfaceFront:
		RasterizeQuad(fb, &vs, Opaque, faceShader(cam, f, it, n, f.Front, f.Surface))
	case scene.SurfaceBack:
		RasterizeQuad(fb, &vs, Opaque, faceShader(cam, f, it, n, f.Back, nil))
	case scene.SurfaceEdge:
		albedo := Linear(f.EdgeColor)
		RasterizeQuad(fb, &vs, Opaque, func(a *[NumAttrs]float64, _ mathutil.RGB) (mathutil.RGB, float64, bool) {
			view := worldPos(a).Sub(cam.Eye)
			return f.Light.Encode(f.Light.Shade(albedo, n, view, it.Material)), 1, true
		})
	case scene.SurfaceHolo, scene.SurfaceGlowInner:
		RasterizeQuad(fb, &vs, Overlay, overlayShader(cam, f, it, n))
	case scene.SurfaceGlowOuter:
		gp, ok := it.Layer.Params.(*effect.GlowParams)
		if !ok {
			return
		}
		gain := gp.Intensity / 100 * it.Opacity * shading.GlowPulse(gp, f.Time)
		col := shading.GlowColor(gp)
		RasterizeQuad(fb, &vs, Additive, func(a *[NumAttrs]float64, _ mathutil.RGB) (mathutil.RGB, float64, bool) {
			d := scene.ShellDistance(a[AttrU], a[AttrV], f.Card, it.Margin)
			if d <= 0 || d >= 1 {
				return mathutil.RGB{}, 0, false
			}
			return col, shading.ShellFalloff(d) * gain, true
		})
	}
}

// faceShader lights a textured face and composites the surface layers on
// top in display space.
func faceShader(cam Camera, f *Frame, it *scene.DrawItem, n mathutil.Vec3, tex *image.NRGBA, layers []effect.Layer) FragmentFunc {
	return func(a *[NumAttrs]float64, _ mathutil.RGB) (mathutil.RGB, float64, bool) {
		albedo, alpha := flatAlbedo, 1.0
		if tex != nil {
			albedo, alpha = SampleTexture(tex, a[AttrU], a[AttrV])
		}
		view := worldPos(a).Sub(cam.Eye)
		c := f.Light.Encode(f.Light.Shade(albedo, n, view, it.Material))
		if len(layers) > 0 {
			c = shading.Composite(layers, shading.Input{
				Coord:   [2]float64{a[AttrU], a[AttrV]},
				ViewDir: view.Normalize(),
				Normal:  n,
				Time:    f.Time,
				Base:    c,
			})
		}
		return c.Clamp(), alpha, true
	}
}

// overlayShader shades an overlay layer against the colour beneath it and
// blends with the layer's mode.
func overlayShader(cam Camera, f *Frame, it *scene.DrawItem, n mathutil.Vec3) FragmentFunc {
	return func(a *[NumAttrs]float64, dst mathutil.RGB) (mathutil.RGB, float64, bool) {
		in := shading.Input{
			Coord:   [2]float64{a[AttrU], a[AttrV]},
			ViewDir: worldPos(a).Sub(cam.Eye).Normalize(),
			Normal:  n,
			Time:    f.Time,
			Base:    dst,
		}
		src, err := shading.Shade(it.Layer.Kind, it.Layer.Params, in)
		if err != nil {
			return mathutil.RGB{}, 0, false
		}
		out := shading.Blend(it.Blend, dst, src, it.Opacity)
		if !out.Finite() {
			return mathutil.RGB{}, 0, false
		}
		return out.Clamp(), 1, true
	}
}

func worldPos(a *[NumAttrs]float64) mathutil.Vec3 {
	return mathutil.Vec3{a[AttrX], a[AttrY], a[AttrZ]}
}

// Coverage is the fraction of pixels with non-zero alpha. Thumbnails that
// come out empty are reported as failures.
func Coverage(img *image.NRGBA) float64 {
	b := img.Bounds()
	total := b.Dx() * b.Dy()
	if total == 0 {
		return 0
	}
	n := 0
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] > 0 {
			n++
		}
	}
	return float64(n) / float64(total)
}
