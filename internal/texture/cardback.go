package texture

import (
	"image"
	"math"

	"holocard-renderer/internal/mathutil"
)

// CardBack renders the shared card back: a deep blue field with concentric
// diamonds around a bright centre emblem.
func CardBack() *image.NRGBA {
	w, h := FallbackWidth, FallbackHeight
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	field := mathutil.RGB{R: 0.08, G: 0.12, B: 0.3}
	line := mathutil.RGB{R: 0.25, G: 0.35, B: 0.7}
	emblem := mathutil.RGB{R: 0.95, G: 0.8, B: 0.35}
	cx, cy := float64(w)/2, float64(h)/2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx := math.Abs(float64(x) - cx)
			dy := math.Abs(float64(y) - cy)
			d := dx + dy*0.75
			c := field.Lerp(field.Scale(0.6), d/(cx+cy))
			if int(d)%18 < 2 {
				c = line
			}
			if d < 28 {
				c = emblem.Lerp(line, d/28)
			}
			if x < 8 || y < 8 || x >= w-8 || y >= h-8 {
				c = field.Scale(0.5)
			}
			i := img.PixOffset(x, y)
			img.Pix[i], img.Pix[i+1], img.Pix[i+2] = c.To8()
			img.Pix[i+3] = 255
		}
	}
	return img
}
