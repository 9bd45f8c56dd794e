package texture

import (
	"image"

	"holocard-renderer/internal/mathutil"
)

// Fallback size keeps the card's 2.5:3.5 proportions.
const (
	FallbackWidth  = 250
	FallbackHeight = 350
)

// Fallback renders the neutral placeholder face shown while an image loads
// or when it cannot be loaded: a vertical gradient in the accent colour with
// faint diagonal hatching and an inset border.
func Fallback(accent mathutil.RGB) *image.NRGBA {
	w, h := FallbackWidth, FallbackHeight
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	top := accent.Lerp(mathutil.White, 0.25)
	bottom := accent.Scale(0.45)
	border := 10
	for y := 0; y < h; y++ {
		row := top.Lerp(bottom, float64(y)/float64(h-1))
		for x := 0; x < w; x++ {
			c := row
			if (x+y)%24 < 2 {
				c = c.Lerp(mathutil.White, 0.08)
			}
			inset := x < border || y < border || x >= w-border || y >= h-border
			if inset {
				c = accent.Scale(0.25)
			} else if x == border || y == border || x == w-border-1 || y == h-border-1 {
				c = accent.Lerp(mathutil.White, 0.5)
			}
			i := img.PixOffset(x, y)
			img.Pix[i], img.Pix[i+1], img.Pix[i+2] = c.To8()
			img.Pix[i+3] = 255
		}
	}
	return img
}

// RarityAccent maps rarity metadata to the fallback accent colour.
func RarityAccent(rarity string) mathutil.RGB {
	switch rarity {
	case "common":
		return mathutil.RGB{R: 0.55, G: 0.57, B: 0.6}
	case "uncommon":
		return mathutil.RGB{R: 0.3, G: 0.65, B: 0.4}
	case "rare":
		return mathutil.RGB{R: 0.25, G: 0.45, B: 0.85}
	case "epic":
		return mathutil.RGB{R: 0.6, G: 0.35, B: 0.85}
	case "legendary":
		return mathutil.RGB{R: 0.95, G: 0.7, B: 0.25}
	}
	return mathutil.RGB{R: 0.45, G: 0.47, B: 0.52}
}

// AverageColor is the mean colour of img, used to tint card edges.
func AverageColor(img *image.NRGBA) mathutil.RGB {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return mathutil.Gray(0.6)
	}
	var sumR, sumG, sumB float64
	for y := 0; y < h; y++ {
		off := y * img.Stride
		for x := 0; x < w; x++ {
			i := off + x*4
			sumR += float64(img.Pix[i])
			sumG += float64(img.Pix[i+1])
			sumB += float64(img.Pix[i+2])
		}
	}
	n := float64(w*h) * 255
	return mathutil.RGB{R: sumR / n, G: sumG / n, B: sumB / n}
}
