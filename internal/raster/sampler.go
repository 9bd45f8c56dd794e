package raster

import (
	"image"

	"holocard-renderer/internal/mathutil"
)

// SampleTexture performs bilinear filtering with UVs clamped to the edge and
// returns a linear-light colour plus alpha in [0,1]. Accesses tex.Pix
// directly for performance.
func SampleTexture(tex *image.NRGBA, u, v float64) (mathutil.RGB, float64) {
	w := tex.Rect.Dx()
	h := tex.Rect.Dy()
	if w == 0 || h == 0 {
		return mathutil.RGB{}, 0
	}

	u = mathutil.Clamp01(u)
	v = mathutil.Clamp01(v)

	fx := u * float64(w-1)
	fy := v * float64(h-1)
	x0 := int(fx)
	y0 := int(fy)
	x1 := min(x0+1, w-1)
	y1 := min(y0+1, h-1)
	dx := fx - float64(x0)
	dy := fy - float64(y0)

	stride := tex.Stride
	pix := tex.Pix

	// Four texels
	i00 := y0*stride + x0*4
	i10 := y0*stride + x1*4
	i01 := y1*stride + x0*4
	i11 := y1*stride + x1*4

	w00 := (1 - dx) * (1 - dy)
	w10 := dx * (1 - dy)
	w01 := (1 - dx) * dy
	w11 := dx * dy

	lin := func(o int) float64 {
		return srgbToLinear[pix[i00+o]]*w00 + srgbToLinear[pix[i10+o]]*w10 +
			srgbToLinear[pix[i01+o]]*w01 + srgbToLinear[pix[i11+o]]*w11
	}
	fa := float64(pix[i00+3])*w00 + float64(pix[i10+3])*w10 + float64(pix[i01+3])*w01 + float64(pix[i11+3])*w11

	return mathutil.RGB{R: lin(0), G: lin(1), B: lin(2)}, fa / 255
}
